package circuit

import (
	"fmt"
	"strings"
)

// Expr is a Boolean expression over the fanins of a logic-node record.
// Multi-level expressions are decomposed into a tree of primitive gates
// when the network is built.
type Expr struct {
	Op       GateType // And/Or/Not/Xor/... ; ignored for input leaves
	IsInput  bool     // true for a fanin reference leaf
	InputIdx int      // fanin position for an input leaf
	Children []*Expr
}

// ExprInput returns a leaf referring to the idx-th fanin
func ExprInput(idx int) *Expr {
	return &Expr{IsInput: true, InputIdx: idx}
}

// ExprOp returns an operator node over the given operands
func ExprOp(op GateType, children ...*Expr) *Expr {
	return &Expr{Op: op, Children: children}
}

// ExprNot returns the negation of the operand
func ExprNot(child *Expr) *Expr {
	return ExprOp(Not, child)
}

// IsPrimitive returns true if the expression is a single operator whose
// operands are all distinct input leaves, i.e. it maps to one gate
func (e *Expr) IsPrimitive() bool {
	if e.IsInput {
		return false
	}
	seen := make(map[int]bool)
	for _, c := range e.Children {
		if !c.IsInput || seen[c.InputIdx] {
			return false
		}
		seen[c.InputIdx] = true
	}
	return true
}

// String returns a readable form of the expression
func (e *Expr) String() string {
	if e.IsInput {
		return fmt.Sprintf("i%d", e.InputIdx)
	}
	parts := make([]string, len(e.Children))
	for i, c := range e.Children {
		parts[i] = c.String()
	}
	return fmt.Sprintf("%s(%s)", e.Op, strings.Join(parts, ","))
}
