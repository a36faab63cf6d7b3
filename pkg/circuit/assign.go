package circuit

import (
	"fmt"
	"sort"
	"strings"
)

// Assign is a single (node, time, value) assignment. Time is 0 or 1;
// combinational conditions always use time 1.
type Assign struct {
	Node int
	Time int
	Val  bool
}

// String returns a string representation of the assignment
func (a Assign) String() string {
	v := 0
	if a.Val {
		v = 1
	}
	return fmt.Sprintf("Node#%d@%d=%d", a.Node, a.Time, v)
}

// AssignList is an ordered set of assignments with set semantics:
// duplicates by (node, time) collapse, and conflicting entries for the
// same (node, time) are an invariant violation.
type AssignList struct {
	elems  []Assign
	sorted bool
}

// NewAssignList creates an empty assignment list
func NewAssignList() *AssignList {
	return &AssignList{}
}

// Size returns the number of assignments after duplicate collapse
func (al *AssignList) Size() int {
	al.normalize()
	return len(al.elems)
}

// Add appends an assignment
func (al *AssignList) Add(node, time int, val bool) {
	al.elems = append(al.elems, Assign{Node: node, Time: time, Val: val})
	al.sorted = false
}

// Merge unions src into the list
func (al *AssignList) Merge(src *AssignList) {
	al.elems = append(al.elems, src.elems...)
	al.sorted = false
}

// Elems returns the assignments sorted by (node, time)
func (al *AssignList) Elems() []Assign {
	al.normalize()
	return al.elems
}

// normalize sorts the list and collapses duplicates. Conflicting values
// for the same (node, time) indicate a fault-model bug.
func (al *AssignList) normalize() {
	if al.sorted {
		return
	}
	sort.Slice(al.elems, func(i, j int) bool {
		a, b := al.elems[i], al.elems[j]
		if a.Node != b.Node {
			return a.Node < b.Node
		}
		return a.Time < b.Time
	})
	out := al.elems[:0]
	for _, e := range al.elems {
		if n := len(out); n > 0 && out[n-1].Node == e.Node && out[n-1].Time == e.Time {
			if out[n-1].Val != e.Val {
				panic(fmt.Sprintf("circuit: conflicting assignments for node#%d@%d", e.Node, e.Time))
			}
			continue
		}
		out = append(out, e)
	}
	al.elems = out
	al.sorted = true
}

// Copy returns a deep copy of the list
func (al *AssignList) Copy() *AssignList {
	dst := &AssignList{elems: make([]Assign, len(al.elems)), sorted: al.sorted}
	copy(dst.elems, al.elems)
	return dst
}

// String returns a string representation of the list
func (al *AssignList) String() string {
	al.normalize()
	parts := make([]string, len(al.elems))
	for i, e := range al.elems {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}
