package dtpg

import (
	"fmt"

	"github.com/fyerfyer/druid-atpg/pkg/circuit"
	"github.com/fyerfyer/druid-atpg/pkg/tvec"
)

// Justifier back-propagates an internal assignment list to PI/PPI
// values consistent with the SAT model
type Justifier interface {
	// Justify returns a PPI-level assignment list whose imprint on a
	// test vector makes the given internal assignments hold
	Justify(assignList *circuit.AssignList, jd *JustData) *circuit.AssignList
}

// NewJustifier creates a justifier by name; the empty name selects
// Just2, the default
func NewJustifier(name string) (Justifier, error) {
	switch name {
	case "", "just2":
		return &just2{}, nil
	case "just1":
		return &just1{}, nil
	case "naive":
		return &justNaive{}, nil
	default:
		return nil, fmt.Errorf("dtpg: unknown justifier %q", name)
	}
}

// cvalSelector picks which controlling fanin a justifier descends into
type cvalSelector interface {
	selectCvalNode(jd *JustData, n *circuit.Node, time int) *circuit.Node
}

// justWalk is the traversal shared by Just1 and Just2
type justWalk struct {
	jd      *JustData
	sel     cvalSelector
	visited map[[2]int]bool
	out     *circuit.AssignList
}

func runJustWalk(assignList *circuit.AssignList, jd *JustData, sel cvalSelector) *circuit.AssignList {
	w := &justWalk{
		jd:      jd,
		sel:     sel,
		visited: make(map[[2]int]bool),
		out:     circuit.NewAssignList(),
	}
	for _, a := range assignList.Elems() {
		w.justify(jd.Network().Node(a.Node), a.Time)
	}
	return w.out
}

// justify descends from a node toward the PPIs, recording the PPI
// values needed to reproduce the model values along the way
func (w *justWalk) justify(n *circuit.Node, time int) {
	key := [2]int{n.ID, time}
	if w.visited[key] {
		return
	}
	w.visited[key] = true

	if n.IsPPI() {
		if n.IsDffOutput() && time == 1 && w.jd.HasPrevState() {
			// the value was captured from the previous frame
			w.justify(w.jd.Network().Node(n.AltNode), 0)
			return
		}
		w.out.Add(n.ID, time, w.jd.Val(n.ID, time) == tvec.Val1)
		return
	}

	nw := w.jd.Network()
	if n.IsPPO() {
		w.justify(nw.Node(n.FaninIDs[0]), time)
		return
	}
	switch n.Gate {
	case circuit.C0, circuit.C1:
		return
	case circuit.Buff, circuit.Not:
		w.justify(nw.Node(n.FaninIDs[0]), time)
		return
	case circuit.Xor, circuit.Xnor:
		for _, fi := range n.FaninIDs {
			w.justify(nw.Node(fi), time)
		}
		return
	}

	coval, _ := n.COVal()
	if w.jd.Val(n.ID, time) == coval {
		// a single controlling fanin carries the output value
		w.justify(w.sel.selectCvalNode(w.jd, n, time), time)
		return
	}
	for _, fi := range n.FaninIDs {
		w.justify(nw.Node(fi), time)
	}
}

// justNaive records every PPI value in the fanin cone of the
// assignments; largest vectors, fastest walk, debugging only
type justNaive struct{}

func (j *justNaive) Justify(assignList *circuit.AssignList, jd *JustData) *circuit.AssignList {
	out := circuit.NewAssignList()
	visited := make(map[[2]int]bool)
	nw := jd.Network()
	var walk func(n *circuit.Node, time int)
	walk = func(n *circuit.Node, time int) {
		key := [2]int{n.ID, time}
		if visited[key] {
			return
		}
		visited[key] = true
		if n.IsPPI() {
			if n.IsDffOutput() && time == 1 && jd.HasPrevState() {
				walk(nw.Node(n.AltNode), 0)
				return
			}
			if v := jd.Val(n.ID, time); v.IsFixed() {
				out.Add(n.ID, time, v == tvec.Val1)
			}
			return
		}
		for _, fi := range n.FaninIDs {
			walk(nw.Node(fi), time)
		}
	}
	for _, a := range assignList.Elems() {
		walk(nw.Node(a.Node), a.Time)
	}
	return out
}
