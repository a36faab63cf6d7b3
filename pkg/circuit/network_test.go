package circuit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyerfyer/druid-atpg/pkg/tvec"
)

// buildAnd2 builds x = AND(a, b) with one output
func buildAnd2(t *testing.T) *Network {
	t.Helper()
	b := NewBuilder("and2")
	a := b.AddInput("a")
	bb := b.AddInput("b")
	x := b.AddGate("x", And, a, bb)
	b.AddOutput("out", x)
	nw, err := b.Build()
	require.NoError(t, err)
	return nw
}

// buildC17ish builds a small reconvergent circuit:
//
//	n1 = NAND(a, c); n2 = NAND(c, b)
//	o1 = NAND(n1, n2); o2 = NAND(n2, b)
func buildC17ish(t *testing.T) *Network {
	t.Helper()
	b := NewBuilder("c17ish")
	a := b.AddInput("a")
	bb := b.AddInput("b")
	c := b.AddInput("c")
	n1 := b.AddGate("n1", Nand, a, c)
	n2 := b.AddGate("n2", Nand, c, bb)
	o1 := b.AddGate("o1", Nand, n1, n2)
	o2 := b.AddGate("o2", Nand, n2, bb)
	b.AddOutput("out1", o1)
	b.AddOutput("out2", o2)
	nw, err := b.Build()
	require.NoError(t, err)
	return nw
}

func TestBuildBasics(t *testing.T) {
	nw := buildAnd2(t)
	assert.Equal(t, 2, nw.InputNum())
	assert.Equal(t, 1, nw.OutputNum())
	assert.Equal(t, 0, nw.DffNum())
	assert.Equal(t, 4, nw.NodeNum())

	x := nw.FindNode("x")
	require.NotNil(t, x)
	assert.Equal(t, And, x.Gate)
	assert.Equal(t, 2, x.FaninNum())
	assert.Equal(t, 1, x.FanoutNum())
}

func TestLevelizationMonotonicity(t *testing.T) {
	for _, nw := range []*Network{buildAnd2(t), buildC17ish(t)} {
		for _, n := range nw.Nodes() {
			for _, fi := range n.FaninIDs {
				assert.Less(t, nw.Node(fi).Level, n.Level,
					"edge %s -> %s must go up in level", nw.Node(fi), n)
			}
		}
	}
	nw := buildAnd2(t)
	assert.Equal(t, 0, nw.FindNode("a").Level)
	assert.Equal(t, 1, nw.FindNode("x").Level)
}

func TestDanglingReferenceRejected(t *testing.T) {
	b := NewBuilder("bad")
	a := b.AddInput("a")
	g1 := b.AddGate("g1", And, a, 42)
	b.AddOutput("out", g1)
	_, err := b.Build()
	require.Error(t, err)
}

func TestFFRPartitionSoundness(t *testing.T) {
	nw := buildC17ish(t)

	// every node belongs to exactly one FFR
	seen := make(map[int]int)
	for _, ffr := range nw.FFRs() {
		for _, id := range ffr.NodeIDs {
			seen[id]++
			assert.Equal(t, ffr.Root, nw.Node(id).FFRRoot)
		}
	}
	for _, n := range nw.Nodes() {
		assert.Equal(t, 1, seen[n.ID], "node %s FFR membership", n)
		if n.FanoutNum() > 1 {
			assert.Equal(t, n.ID, n.FFRRoot, "fanout node %s must be its own root", n)
		}
	}

	// c and b fan out, n2 fans out: all three are roots
	assert.Equal(t, nw.FindNode("c").ID, nw.FindNode("c").FFRRoot)
	assert.Equal(t, nw.FindNode("n2").ID, nw.FindNode("n2").FFRRoot)
}

func TestMFFCPartitionSoundness(t *testing.T) {
	nw := buildC17ish(t)
	seen := make(map[int]int)
	for _, m := range nw.MFFCs() {
		for _, fid := range m.FFRIDs {
			seen[fid]++
		}
	}
	for _, ffr := range nw.FFRs() {
		assert.Equal(t, 1, seen[ffr.ID], "FFR %d MFFC membership", ffr.ID)
	}
	// every node's MFFC root is assigned
	for _, n := range nw.Nodes() {
		assert.GreaterOrEqual(t, n.MFFCRoot, 0)
	}
}

func TestFaultEnumerationAnd2(t *testing.T) {
	nw := buildAnd2(t)
	reps := nw.RepFaultList()
	require.Len(t, reps, 4)

	names := make(map[string]bool)
	for _, f := range reps {
		names[f.String()] = true
	}
	// a-sa0 and b-sa0 collapse into x-sa0 via the controlling value;
	// the output branch collapses into the stem
	assert.True(t, names["x:O:SA0"])
	assert.True(t, names["x:O:SA1"])
	assert.True(t, names["x:I0:SA1"])
	assert.True(t, names["x:I1:SA1"])

	// the collapsed faults point at the right representatives
	for _, f := range nw.AllFaultList() {
		if f.Origin.Name == "x" && !f.IsStem() && f.Val == 0 {
			assert.Equal(t, "x:O:SA0", f.Rep.String())
		}
	}
}

func TestFaultConditionsAnd2(t *testing.T) {
	nw := buildAnd2(t)
	a := nw.FindNode("a")
	b := nw.FindNode("b")
	x := nw.FindNode("x")

	var aSa1 *Fault
	for _, f := range nw.RepFaultList() {
		if !f.IsStem() && f.Pos == 0 && f.Val == 1 {
			aSa1 = f
		}
	}
	require.NotNil(t, aSa1)
	assert.Equal(t, a.ID, aSa1.ExNodeID())

	ex := aSa1.ExcitationCondition(StuckAt).Elems()
	require.Len(t, ex, 1)
	assert.Equal(t, Assign{Node: a.ID, Time: 1, Val: false}, ex[0])

	// the side input b must hold the non-controlling value
	prop := aSa1.FFRPropagateCondition().Elems()
	require.Len(t, prop, 1)
	assert.Equal(t, Assign{Node: b.ID, Time: 1, Val: true}, prop[0])

	// a stem fault at x propagates straight to the output
	var xSa0 *Fault
	for _, f := range nw.RepFaultList() {
		if f.IsStem() && f.Origin.ID == x.ID && f.Val == 0 {
			xSa0 = f
		}
	}
	require.NotNil(t, xSa0)
	assert.Equal(t, 0, xSa0.FFRPropagateCondition().Size())
}

func TestExprDecomposition(t *testing.T) {
	// x = NOT((a1 AND a2) OR (b1 AND b2))
	b := NewBuilder("aoi22")
	a1 := b.AddInput("a1")
	a2 := b.AddInput("a2")
	b1 := b.AddInput("b1")
	b2 := b.AddInput("b2")
	expr := ExprNot(ExprOp(Or,
		ExprOp(And, ExprInput(0), ExprInput(1)),
		ExprOp(And, ExprInput(2), ExprInput(3))))
	x := b.AddExprGate("x", expr, []int{a1, a2, b1, b2})
	b.AddOutput("out", x)
	nw, err := b.Build()
	require.NoError(t, err)

	// two ANDs, one OR, one NOT plus 4 inputs and the output marker
	assert.Equal(t, 9, nw.NodeNum())
	root := nw.FindNode("x")
	require.NotNil(t, root)
	assert.Equal(t, Not, root.Gate)

	// the external interface is unchanged
	assert.Equal(t, 4, nw.InputNum())
	assert.Equal(t, 1, nw.OutputNum())
	for _, n := range nw.Nodes() {
		for _, fi := range n.FaninIDs {
			assert.Less(t, nw.Node(fi).Level, n.Level)
		}
	}
}

func TestDffNetwork(t *testing.T) {
	// q = DFF(d); y = q
	b := NewBuilder("dff1")
	d := b.AddInput("d")
	q := b.AddDff("q")
	require.NoError(t, b.SetDffSrc(q, d))
	b.AddOutput("y", q)
	nw, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, 1, nw.DffNum())
	assert.Equal(t, 2, nw.PPINum())
	assert.Equal(t, 2, nw.PPONum())

	qn := nw.FindNode("q")
	require.NotNil(t, qn)
	assert.True(t, qn.IsDffOutput())
	alt := nw.Node(qn.AltNode)
	assert.True(t, alt.IsDffInput())
	assert.Equal(t, qn.ID, alt.AltNode)

	// the faults on q's line are representatives: q is a DFF output (a
	// PPI, not a logic node), so the branch at y does not collapse
	var qSlow *Fault
	for _, f := range nw.RepFaultList() {
		if f.ExNodeID() == qn.ID && f.Val == 0 && f.Origin.IsPrimaryOutput() {
			qSlow = f
		}
	}
	require.NotNil(t, qSlow)
	ex := qSlow.ExcitationCondition(TransitionDelay).Elems()
	require.Len(t, ex, 2)
	assert.Equal(t, Assign{Node: qn.ID, Time: 0, Val: false}, ex[0])
	assert.Equal(t, Assign{Node: qn.ID, Time: 1, Val: true}, ex[1])
}

func TestFaultMgr(t *testing.T) {
	nw := buildAnd2(t)
	fm := GenFaultList(nw, StuckAt)
	assert.Equal(t, StuckAt, fm.FaultType())
	require.Len(t, fm.FaultList(), 4)

	f := fm.FaultList()[0]
	assert.Equal(t, Undetected, fm.Status(f))
	fm.SetStatus(f, Detected)
	assert.Equal(t, Detected, fm.Status(f))

	// monotonicity: a final status never changes without Reset
	assert.Panics(t, func() { fm.SetStatus(f, Untestable) })
	assert.Equal(t, 1, fm.DetCount())
	assert.Equal(t, 3, fm.RemainCount())

	fm.Reset()
	assert.Equal(t, Undetected, fm.Status(f))

	x := nw.FindNode("x")
	assert.Len(t, fm.NodeFaultList(x.ID), 4)
	assert.Len(t, fm.FFRFaultList(nw.FFR(0).ID), 4)
}

func TestGateTypeHelpers(t *testing.T) {
	cv, ok := And.CVal()
	assert.True(t, ok)
	assert.Equal(t, tvec.Val0, cv)
	nv, _ := Nor.NVal()
	assert.Equal(t, tvec.Val0, nv)
	co, _ := Nand.COVal()
	assert.Equal(t, tvec.Val1, co)
	_, ok = Xor.CVal()
	assert.False(t, ok)

	gt, ok := ParseGateType("NAND")
	assert.True(t, ok)
	assert.Equal(t, Nand, gt)
	_, ok = ParseGateType("FOO")
	assert.False(t, ok)
}
