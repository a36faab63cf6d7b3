package enc

import (
	"github.com/fyerfyer/druid-atpg/pkg/circuit"
	"github.com/fyerfyer/druid-atpg/pkg/sat"
)

// SubEnc is an encoder fragment registered with a StructEngine; its
// clauses are emitted by the next Update call
type SubEnc interface {
	MakeCNF(se *StructEngine)
}

// StructEngine incrementally encodes a growing region of the network.
// It tracks which nodes already have variables and clauses, so several
// faults of one region share one CNF without re-emitting old clauses.
type StructEngine struct {
	solver  sat.Solver
	network *circuit.Network
	hasPrev bool

	gateEnc *GateEnc
	gvar    *VidMap // current-frame good values
	fvar    *VidMap // faulty values, bound by sub-encoders
	pvar    *VidMap // previous-frame good values

	curList  []int
	prevList []int
	curMark  []bool
	prevMark []bool
	subs     []SubEnc
}

// NewStructEngine creates an engine over the network. hasPrev enables
// the previous time frame used by transition-delay encodings.
func NewStructEngine(solver sat.Solver, nw *circuit.Network, hasPrev bool) *StructEngine {
	n := nw.NodeNum()
	return &StructEngine{
		solver:   solver,
		network:  nw,
		hasPrev:  hasPrev,
		gateEnc:  NewGateEnc(solver),
		gvar:     NewVidMap(n),
		fvar:     NewVidMap(n),
		pvar:     NewVidMap(n),
		curMark:  make([]bool, n),
		prevMark: make([]bool, n),
	}
}

// Solver returns the underlying solver
func (se *StructEngine) Solver() sat.Solver {
	return se.solver
}

// Network returns the encoded network
func (se *StructEngine) Network() *circuit.Network {
	return se.network
}

// HasPrev returns true when the previous time frame is encoded
func (se *StructEngine) HasPrev() bool {
	return se.hasPrev
}

// AddCurNode requests current-frame good clauses for a node and its
// fanin cone
func (se *StructEngine) AddCurNode(id int) {
	if se.curMark[id] {
		return
	}
	se.curMark[id] = true
	se.curList = append(se.curList, id)
	n := se.network.Node(id)
	for _, fi := range n.FaninIDs {
		se.AddCurNode(fi)
	}
	if se.hasPrev && n.IsDffOutput() {
		se.AddPrevNode(n.AltNode)
	}
}

// AddPrevNode requests previous-frame good clauses for a node and its
// fanin cone
func (se *StructEngine) AddPrevNode(id int) {
	if !se.hasPrev {
		panic("enc: previous frame requested on a combinational engine")
	}
	if se.prevMark[id] {
		return
	}
	se.prevMark[id] = true
	se.prevList = append(se.prevList, id)
	for _, fi := range se.network.Node(id).FaninIDs {
		se.AddPrevNode(fi)
	}
}

// AddSubEnc registers an encoder fragment for the next Update
func (se *StructEngine) AddSubEnc(sub SubEnc) {
	se.subs = append(se.subs, sub)
}

// Update emits the pending variables and clauses. The encoding is
// monotonic: only the delta since the last Update is added.
func (se *StructEngine) Update() {
	for _, id := range se.curList {
		if !se.gvar.Has(id) {
			se.gvar.Bind(id, se.solver.NewVariable())
		}
	}
	for _, id := range se.prevList {
		if !se.pvar.Has(id) {
			se.pvar.Bind(id, se.solver.NewVariable())
		}
	}
	for _, id := range se.curList {
		n := se.network.Node(id)
		switch {
		case n.IsLogic() || n.IsPPO():
			se.gateEnc.MakeCNF(n.Gate, se.gvar.Lit(id), se.faninLits(n, se.gvar))
		case se.hasPrev && n.IsDffOutput():
			// the DFF output carries its alt node's previous-frame value
			g := se.gvar.Lit(id)
			p := se.pvar.Lit(n.AltNode)
			se.solver.AddClause(g.Not(), p)
			se.solver.AddClause(g, p.Not())
		}
	}
	for _, id := range se.prevList {
		n := se.network.Node(id)
		if n.IsLogic() || n.IsPPO() {
			se.gateEnc.MakeCNF(n.Gate, se.pvar.Lit(id), se.faninLits(n, se.pvar))
		}
	}
	se.curList = se.curList[:0]
	se.prevList = se.prevList[:0]

	subs := se.subs
	se.subs = nil
	for _, sub := range subs {
		sub.MakeCNF(se)
	}
}

func (se *StructEngine) faninLits(n *circuit.Node, m *VidMap) []sat.Lit {
	lits := make([]sat.Lit, len(n.FaninIDs))
	for i, fi := range n.FaninIDs {
		lits[i] = m.Lit(fi)
	}
	return lits
}

// GVar returns the current-frame good literal of a node
func (se *StructEngine) GVar(id int) sat.Lit {
	return se.gvar.Lit(id)
}

// HasGVar returns true if the node has a good variable
func (se *StructEngine) HasGVar(id int) bool {
	return se.gvar.Has(id)
}

// PVar returns the previous-frame good literal of a node
func (se *StructEngine) PVar(id int) sat.Lit {
	return se.pvar.Lit(id)
}

// HasPVar returns true if the node has a previous-frame variable
func (se *StructEngine) HasPVar(id int) bool {
	return se.pvar.Has(id)
}

// BindFVar binds the faulty literal of a node
func (se *StructEngine) BindFVar(id int, l sat.Lit) {
	se.fvar.Bind(id, l)
}

// HasFVar returns true if the node has a faulty variable
func (se *StructEngine) HasFVar(id int) bool {
	return se.fvar.Has(id)
}

// FVar returns the faulty literal of a node
func (se *StructEngine) FVar(id int) sat.Lit {
	return se.fvar.Lit(id)
}

// FVarOrGVar returns the faulty literal of a node, falling back to the
// good literal outside the faulty cone
func (se *StructEngine) FVarOrGVar(id int) sat.Lit {
	if se.fvar.Has(id) {
		return se.fvar.Lit(id)
	}
	return se.gvar.Lit(id)
}

// ConvToLiteral maps an assignment to the corresponding good literal
func (se *StructEngine) ConvToLiteral(a circuit.Assign) sat.Lit {
	var l sat.Lit
	if a.Time == 1 {
		l = se.gvar.Lit(a.Node)
	} else {
		l = se.pvar.Lit(a.Node)
	}
	if !a.Val {
		l = l.Not()
	}
	return l
}

// ConvToAssumptions maps an assignment list to assumption literals
func (se *StructEngine) ConvToAssumptions(al *circuit.AssignList) []sat.Lit {
	elems := al.Elems()
	lits := make([]sat.Lit, 0, len(elems))
	for _, a := range elems {
		lits = append(lits, se.ConvToLiteral(a))
	}
	return lits
}
