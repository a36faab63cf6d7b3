package enc

import (
	"github.com/fyerfyer/druid-atpg/pkg/circuit"
	"github.com/fyerfyer/druid-atpg/pkg/sat"
)

// GateEnc emits the Tseitin clauses of single primitive gates. The
// encoder only deals with the fixed primitive alphabet; complex
// expressions are decomposed during network construction.
type GateEnc struct {
	solver sat.Solver
}

// NewGateEnc creates a gate encoder on the given solver
func NewGateEnc(solver sat.Solver) *GateEnc {
	return &GateEnc{solver: solver}
}

// MakeCNF adds the clauses of olit == gate(ilits)
func (e *GateEnc) MakeCNF(gt circuit.GateType, olit sat.Lit, ilits []sat.Lit) {
	s := e.solver
	switch gt {
	case circuit.C0:
		s.AddClause(olit.Not())
	case circuit.C1:
		s.AddClause(olit)
	case circuit.Buff:
		s.AddClause(olit.Not(), ilits[0])
		s.AddClause(olit, ilits[0].Not())
	case circuit.Not:
		s.AddClause(olit.Not(), ilits[0].Not())
		s.AddClause(olit, ilits[0])
	case circuit.And:
		e.andCNF(olit, ilits)
	case circuit.Nand:
		e.andCNF(olit.Not(), ilits)
	case circuit.Or:
		e.orCNF(olit, ilits)
	case circuit.Nor:
		e.orCNF(olit.Not(), ilits)
	case circuit.Xor:
		e.xorCNF(olit, ilits)
	case circuit.Xnor:
		e.xorCNF(olit.Not(), ilits)
	default:
		panic("enc: unknown gate type")
	}
}

// andCNF adds n binary clauses plus one (n+1)-ary clause
func (e *GateEnc) andCNF(olit sat.Lit, ilits []sat.Lit) {
	wide := make([]sat.Lit, 0, len(ilits)+1)
	wide = append(wide, olit)
	for _, il := range ilits {
		e.solver.AddClause(olit.Not(), il)
		wide = append(wide, il.Not())
	}
	e.solver.AddClause(wide...)
}

// orCNF is the dual of andCNF
func (e *GateEnc) orCNF(olit sat.Lit, ilits []sat.Lit) {
	wide := make([]sat.Lit, 0, len(ilits)+1)
	wide = append(wide, olit.Not())
	for _, il := range ilits {
		e.solver.AddClause(olit, il.Not())
		wide = append(wide, il)
	}
	e.solver.AddClause(wide...)
}

// xorCNF adds the 4 ternary clauses of a 2-input XOR; wider gates are
// expanded into a tree with auxiliary variables
func (e *GateEnc) xorCNF(olit sat.Lit, ilits []sat.Lit) {
	a := ilits[0]
	for i := 1; i < len(ilits); i++ {
		b := ilits[i]
		o := olit
		if i < len(ilits)-1 {
			o = e.solver.NewVariable()
		}
		e.solver.AddClause(o.Not(), a, b)
		e.solver.AddClause(o.Not(), a.Not(), b.Not())
		e.solver.AddClause(o, a.Not(), b)
		e.solver.AddClause(o, a, b.Not())
		a = o
	}
	if len(ilits) == 1 {
		e.solver.AddClause(olit.Not(), a)
		e.solver.AddClause(olit, a.Not())
	}
}

// CNFSize returns the number of auxiliary variables and clauses
// MakeCNF emits for an n-input gate of the given type. The counts
// drive CNF sizing heuristics.
func CNFSize(gt circuit.GateType, n int) (vars, clauses int) {
	switch gt {
	case circuit.C0, circuit.C1:
		return 0, 1
	case circuit.Buff, circuit.Not:
		return 0, 2
	case circuit.And, circuit.Nand, circuit.Or, circuit.Nor:
		return 0, n + 1
	case circuit.Xor, circuit.Xnor:
		if n <= 1 {
			return 0, 2
		}
		return n - 2, (n - 1) * 4
	default:
		return 0, 0
	}
}
