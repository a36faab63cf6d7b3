package sat

import "fmt"

// VarID identifies a solver variable; ids start at 1
type VarID int

// Lit is a literal: a variable with a polarity
type Lit int

// PosLit returns the positive literal of a variable
func PosLit(v VarID) Lit {
	return Lit(v << 1)
}

// NegLit returns the negative literal of a variable
func NegLit(v VarID) Lit {
	return Lit(v<<1 | 1)
}

// MakeLit returns the literal of v with the given polarity; inv true
// selects the negative literal
func MakeLit(v VarID, inv bool) Lit {
	if inv {
		return NegLit(v)
	}
	return PosLit(v)
}

// Var returns the literal's variable
func (l Lit) Var() VarID {
	return VarID(l >> 1)
}

// IsNeg returns true for a negative literal
func (l Lit) IsNeg() bool {
	return l&1 != 0
}

// Not returns the complemented literal
func (l Lit) Not() Lit {
	return l ^ 1
}

// String returns a string representation of the literal
func (l Lit) String() string {
	if l.IsNeg() {
		return fmt.Sprintf("-v%d", l.Var())
	}
	return fmt.Sprintf("v%d", l.Var())
}

// Bool3 is the tri-state outcome of a solve call or a model value
type Bool3 int

const (
	B3False Bool3 = iota
	B3True
	B3X
)

// String returns a string representation of the value
func (b Bool3) String() string {
	switch b {
	case B3False:
		return "false"
	case B3True:
		return "true"
	default:
		return "unknown"
	}
}

// Model holds the variable values of a satisfying assignment
type Model []Bool3

// VarVal returns the value of a variable
func (m Model) VarVal(v VarID) Bool3 {
	if int(v) >= len(m) {
		return B3X
	}
	return m[v]
}

// Val returns the value of a literal under the model
func (m Model) Val(l Lit) Bool3 {
	v := m.VarVal(l.Var())
	if v == B3X {
		return B3X
	}
	if l.IsNeg() {
		if v == B3True {
			return B3False
		}
		return B3True
	}
	return v
}
