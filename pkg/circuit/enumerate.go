package circuit

import "github.com/fyerfyer/druid-atpg/pkg/tvec"

// val3Int maps a fixed three-valued value to a fault value
func val3Int(v tvec.Val3) int {
	if v == tvec.Val1 {
		return 1
	}
	return 0
}

// enumerateFaults emits the stem and branch faults of every logic and
// PPO node, collapses equivalent faults, chooses representatives and
// precomputes the FFR-local propagation conditions.
func enumerateFaults(nw *Network) {
	type key struct {
		node int
		pos  int
		val  int
	}
	index := make(map[key]*Fault)

	add := func(n *Node, pos, val int) *Fault {
		f := &Fault{ID: len(nw.faults), Origin: n, Pos: pos, Val: val}
		nw.faults = append(nw.faults, f)
		index[key{n.ID, pos, val}] = f
		return f
	}

	for _, n := range nw.nodes {
		switch n.Kind {
		case KindLogic:
			for val := 0; val <= 1; val++ {
				add(n, -1, val)
				for pos := range n.FaninIDs {
					add(n, pos, val)
				}
			}
		case KindPPO:
			for val := 0; val <= 1; val++ {
				add(n, 0, val)
			}
		}
	}

	// union-find over equivalence classes; the representative is the
	// first fault in enumeration order (smallest id)
	parent := make([]int, len(nw.faults))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra == rb {
			return
		}
		if ra > rb {
			ra, rb = rb, ra
		}
		parent[rb] = ra
	}

	for _, f := range nw.faults {
		if f.IsStem() {
			continue
		}
		g := f.Origin
		u := nw.nodes[g.FaninIDs[f.Pos]]

		// a branch on a non-branching line is the line's stem fault
		if u.IsLogic() && len(u.FanoutIDs) == 1 {
			stem := index[key{u.ID, -1, f.Val}]
			union(f.ID, stem.ID)
		}

		if !g.IsLogic() {
			continue
		}
		switch g.Gate {
		case Buff:
			union(f.ID, index[key{g.ID, -1, f.Val}].ID)
		case Not:
			union(f.ID, index[key{g.ID, -1, 1 - f.Val}].ID)
		default:
			if cval, ok := g.CVal(); ok && f.Val == val3Int(cval) {
				coval, _ := g.COVal()
				union(f.ID, index[key{g.ID, -1, val3Int(coval)}].ID)
			}
		}
	}

	for _, f := range nw.faults {
		f.Rep = nw.faults[find(f.ID)]
	}

	// representative list and region fault lists follow enumeration
	// order
	ffrOf := make(map[int]*FFR)
	for _, ffr := range nw.ffrs {
		ffrOf[ffr.Root] = ffr
	}
	mffcOf := make(map[int]*MFFC)
	for _, m := range nw.mffcs {
		mffcOf[m.Root] = m
	}
	for _, f := range nw.faults {
		if !f.IsRep() {
			continue
		}
		nw.reps = append(nw.reps, f)
		f.propCond = computePropCond(nw, f)
		ffr := ffrOf[f.Origin.FFRRoot]
		ffr.FaultList = append(ffr.FaultList, f)
		mffc := mffcOf[f.Origin.MFFCRoot]
		mffc.FaultList = append(mffc.FaultList, f)
	}
}

// computePropCond records the side-input assignments that carry the
// fault effect from its site to the FFR root. Inside an FFR the path is
// unique, so the condition is a pure conjunction.
func computePropCond(nw *Network, f *Fault) *AssignList {
	al := NewAssignList()
	g := f.Origin

	// a branch fault first has to pass its own gate
	if !f.IsStem() {
		addSideInputs(nw, al, g, g.FaninIDs[f.Pos])
	}

	cur := g
	for cur.ID != cur.FFRRoot {
		next := nw.nodes[cur.FanoutIDs[0]]
		addSideInputs(nw, al, next, cur.ID)
		cur = next
	}
	return al
}

// addSideInputs requires every side input of the gate to carry its
// non-controlling value. Gates without a controlling value (XOR family)
// propagate unconditionally and add nothing.
func addSideInputs(nw *Network, al *AssignList, g *Node, fromID int) {
	nval, ok := g.NVal()
	if !ok {
		return
	}
	for _, fi := range g.FaninIDs {
		if fi == fromID {
			continue
		}
		al.Add(fi, 1, nval == tvec.Val1)
	}
}
