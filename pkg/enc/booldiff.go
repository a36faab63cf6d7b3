package enc

import (
	"github.com/fyerfyer/druid-atpg/pkg/circuit"
	"github.com/fyerfyer/druid-atpg/pkg/sat"
)

// BoolDiffEnc encodes the Boolean difference of a fault cone: a good
// and a faulty copy of the root's output cone plus a detection
// disjunction over the reachable PPOs. With forceRootDiff the faulty
// root is tied to the inverse of the good root, which models a fault
// effect assumed to reach the root (the FFR and node drivers); without
// it the faulty root value must be produced by another sub-encoder
// (the MFFC selector network).
type BoolDiffEnc struct {
	root          *circuit.Node
	forceRootDiff bool

	tfo     []int
	outputs []*circuit.Node
	propVar sat.Lit
}

// NewBoolDiffEnc registers a Boolean-difference cone rooted at the
// given node with the engine. The clauses appear at the next Update.
func NewBoolDiffEnc(se *StructEngine, root *circuit.Node, forceRootDiff bool) *BoolDiffEnc {
	bd := &BoolDiffEnc{root: root, forceRootDiff: forceRootDiff}

	// TFO of the root up to the PPOs
	nw := se.Network()
	mark := make(map[int]bool)
	bd.tfo = append(bd.tfo, root.ID)
	mark[root.ID] = true
	for rpos := 0; rpos < len(bd.tfo); rpos++ {
		n := nw.Node(bd.tfo[rpos])
		if n.IsPPO() {
			bd.outputs = append(bd.outputs, n)
		}
		for _, fo := range n.FanoutIDs {
			if !mark[fo] {
				mark[fo] = true
				bd.tfo = append(bd.tfo, fo)
			}
		}
	}
	for _, id := range bd.tfo {
		se.AddCurNode(id)
	}
	se.AddSubEnc(bd)
	return bd
}

// MakeCNF emits the faulty-cone and detection clauses
func (bd *BoolDiffEnc) MakeCNF(se *StructEngine) {
	solver := se.Solver()
	nw := se.Network()
	ge := NewGateEnc(solver)

	// allocate faulty variables first so fanin lookups resolve
	owned := make([]int, 0, len(bd.tfo))
	for _, id := range bd.tfo {
		if !se.HasFVar(id) {
			se.BindFVar(id, solver.NewVariable())
			owned = append(owned, id)
		}
	}

	for _, id := range owned {
		n := nw.Node(id)
		if n.ID == bd.root.ID {
			if bd.forceRootDiff {
				// the fault effect is assumed present at the root
				g := se.GVar(id)
				f := se.FVar(id)
				solver.AddClause(g, f)
				solver.AddClause(g.Not(), f.Not())
			}
			continue
		}
		ilits := make([]sat.Lit, len(n.FaninIDs))
		for i, fi := range n.FaninIDs {
			ilits[i] = se.FVarOrGVar(fi)
		}
		ge.MakeCNF(n.Gate, se.FVar(id), ilits)
	}

	// detection: some PPO of the cone differs between the two copies
	dvars := make([]sat.Lit, 0, len(bd.outputs))
	for _, p := range bd.outputs {
		d := solver.NewVariable()
		g := se.GVar(p.ID)
		f := se.FVar(p.ID)
		solver.AddClause(d.Not(), g, f)
		solver.AddClause(d.Not(), g.Not(), f.Not())
		dvars = append(dvars, d)
	}
	bd.propVar = solver.NewVariable()
	wide := make([]sat.Lit, 0, len(dvars)+1)
	wide = append(wide, bd.propVar.Not())
	wide = append(wide, dvars...)
	solver.AddClause(wide...)
}

// Root returns the cone root
func (bd *BoolDiffEnc) Root() *circuit.Node {
	return bd.root
}

// PropVar returns the detection literal to assume on every solve
func (bd *BoolDiffEnc) PropVar() sat.Lit {
	return bd.propVar
}

// TFONodeIDs returns the node ids of the output cone, root first
func (bd *BoolDiffEnc) TFONodeIDs() []int {
	return bd.tfo
}

// OutputList returns the PPOs reachable from the root
func (bd *BoolDiffEnc) OutputList() []*circuit.Node {
	return bd.outputs
}
