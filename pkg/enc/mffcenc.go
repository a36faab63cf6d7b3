package enc

import (
	"sort"

	"github.com/fyerfyer/druid-atpg/pkg/circuit"
	"github.com/fyerfyer/druid-atpg/pkg/sat"
)

// MFFCEnc encodes the faulty side of a whole cone of FFRs under one
// dominator. Each member FFR root gets a selector variable; when the
// selector is assumed true the faulty value of that root is inverted
// relative to its faulty gate evaluation, which models the fault
// effect of the selected FFR entering the shared cone.
type MFFCEnc struct {
	mffc *circuit.MFFC

	selVars map[int]sat.Lit // FFR id -> selector
	members []int
}

// NewMFFCEnc registers the cone's faulty network with the engine. A
// BoolDiffEnc without forced root difference has to be layered on the
// cone root for detection.
func NewMFFCEnc(se *StructEngine, mffc *circuit.MFFC) *MFFCEnc {
	me := &MFFCEnc{mffc: mffc, selVars: make(map[int]sat.Lit)}
	nw := se.Network()
	for _, fid := range mffc.FFRIDs {
		ffr := nw.FFR(fid)
		me.members = append(me.members, ffr.NodeIDs...)
	}
	sort.Slice(me.members, func(i, j int) bool {
		a, b := nw.Node(me.members[i]), nw.Node(me.members[j])
		if a.Level != b.Level {
			return a.Level < b.Level
		}
		return a.ID < b.ID
	})
	for _, id := range me.members {
		se.AddCurNode(id)
	}
	se.AddSubEnc(me)
	return me
}

// MakeCNF emits the selector network
func (me *MFFCEnc) MakeCNF(se *StructEngine) {
	solver := se.Solver()
	nw := se.Network()
	ge := NewGateEnc(solver)

	for _, fid := range me.mffc.FFRIDs {
		me.selVars[fid] = solver.NewVariable()
	}

	for _, id := range me.members {
		n := nw.Node(id)
		if n.IsPPI() {
			// region members at the PPI boundary carry their good value
			se.BindFVar(id, se.GVar(id))
			continue
		}
		if !se.HasFVar(id) {
			se.BindFVar(id, solver.NewVariable())
		}
	}

	for _, id := range me.members {
		n := nw.Node(id)
		if n.IsPPI() {
			continue
		}
		ilits := make([]sat.Lit, len(n.FaninIDs))
		for i, fi := range n.FaninIDs {
			ilits[i] = se.FVarOrGVar(fi)
		}
		if n.FFRRoot == n.ID {
			// insert the selector XOR between the gate and the root
			ffr := nw.FFROfNode(id)
			sel := me.selVars[ffr.ID]
			t := solver.NewVariable()
			ge.MakeCNF(n.Gate, t, ilits)
			xorEquiv(solver, se.FVar(id), t, sel)
		} else {
			ge.MakeCNF(n.Gate, se.FVar(id), ilits)
		}
	}
}

// xorEquiv adds o == a XOR b
func xorEquiv(solver sat.Solver, o, a, b sat.Lit) {
	solver.AddClause(o.Not(), a, b)
	solver.AddClause(o.Not(), a.Not(), b.Not())
	solver.AddClause(o, a.Not(), b)
	solver.AddClause(o, a, b.Not())
}

// SelectorAssumptions returns the assumptions activating exactly the
// given FFR's branch of the cone
func (me *MFFCEnc) SelectorAssumptions(ffrID int) []sat.Lit {
	lits := make([]sat.Lit, 0, len(me.selVars))
	ids := make([]int, 0, len(me.selVars))
	for fid := range me.selVars {
		ids = append(ids, fid)
	}
	sort.Ints(ids)
	for _, fid := range ids {
		l := me.selVars[fid]
		if fid != ffrID {
			l = l.Not()
		}
		lits = append(lits, l)
	}
	return lits
}

// MFFC returns the encoded cone
func (me *MFFCEnc) MFFC() *circuit.MFFC {
	return me.mffc
}
