package circuit

import (
	"fmt"
)

// Builder collects netlist records from an upstream reader and emits an
// immutable Network. Node references returned by the Add methods are
// only valid for the builder that produced them.
type Builder struct {
	name string

	inputs  []string
	outputs []builderOutput
	dffs    []builderDff
	gates   []builderGate

	// ref space: 0..refNum-1, allocated in call order across inputs,
	// DFF outputs and gates
	refKinds []refKind
	refIdx   []int
}

type refKind int

const (
	refInput refKind = iota
	refDffOut
	refGate
)

type builderOutput struct {
	name string
	src  int
}

type builderDff struct {
	name   string
	src    int // data-in source ref, -1 until connected
	outRef int
}

type builderGate struct {
	name   string
	gate   GateType
	expr   *Expr // nil for a primitive gate
	fanins []int
}

// NewBuilder creates an empty builder for a network with the given name
func NewBuilder(name string) *Builder {
	return &Builder{name: name}
}

func (b *Builder) newRef(kind refKind, idx int) int {
	ref := len(b.refKinds)
	b.refKinds = append(b.refKinds, kind)
	b.refIdx = append(b.refIdx, idx)
	return ref
}

// AddInput registers a primary input port and returns its node ref
func (b *Builder) AddInput(name string) int {
	idx := len(b.inputs)
	b.inputs = append(b.inputs, name)
	return b.newRef(refInput, idx)
}

// AddDff registers a DFF and returns the ref of its output (a PPI).
// The data-in source is connected later with SetDffSrc.
func (b *Builder) AddDff(name string) int {
	idx := len(b.dffs)
	ref := b.newRef(refDffOut, idx)
	b.dffs = append(b.dffs, builderDff{name: name, src: -1, outRef: ref})
	return ref
}

// SetDffSrc connects the data-in source of the DFF whose output is
// outRef
func (b *Builder) SetDffSrc(outRef, src int) error {
	if outRef < 0 || outRef >= len(b.refKinds) || b.refKinds[outRef] != refDffOut {
		return fmt.Errorf("circuit: ref %d is not a DFF output", outRef)
	}
	b.dffs[b.refIdx[outRef]].src = src
	return nil
}

// AddGate registers a primitive logic gate and returns its node ref
func (b *Builder) AddGate(name string, gt GateType, fanins ...int) int {
	idx := len(b.gates)
	b.gates = append(b.gates, builderGate{name: name, gate: gt, fanins: fanins})
	return b.newRef(refGate, idx)
}

// AddExprGate registers a logic node defined by a Boolean expression
// over the given fanins. Expressions not reducible to one primitive are
// decomposed into a tree of primitives at Build time.
func (b *Builder) AddExprGate(name string, expr *Expr, fanins []int) int {
	idx := len(b.gates)
	b.gates = append(b.gates, builderGate{name: name, expr: expr, fanins: fanins})
	return b.newRef(refGate, idx)
}

// AddOutput registers a primary output port fed by src
func (b *Builder) AddOutput(name string, src int) {
	b.outputs = append(b.outputs, builderOutput{name: name, src: src})
}

// checkRef validates a fanin/source reference
func (b *Builder) checkRef(ref int) error {
	if ref < 0 || ref >= len(b.refKinds) {
		return fmt.Errorf("circuit: dangling node reference %d", ref)
	}
	return nil
}

// Build validates the records, decomposes expressions, levelizes the
// DAG, partitions FFRs and MFFCs and enumerates the fault list. The
// builder must not be reused afterwards.
func (b *Builder) Build() (*Network, error) {
	nw := &Network{
		name:      b.name,
		inputNum:  len(b.inputs),
		outputNum: len(b.outputs),
		dffNum:    len(b.dffs),
	}

	// ref -> node id, filled as nodes are created
	refNode := make([]int, len(b.refKinds))
	for i := range refNode {
		refNode[i] = -1
	}

	newNode := func(n *Node) *Node {
		n.ID = len(nw.nodes)
		n.AltNode = -1
		n.FFRRoot = -1
		n.MFFCRoot = -1
		nw.nodes = append(nw.nodes, n)
		return n
	}

	// primary inputs
	for i, name := range b.inputs {
		n := newNode(&Node{Name: name, Kind: KindPPI, InputID: i, OutputID: -1, DffID: -1})
		refNode[b.findRef(refInput, i)] = n.ID
		nw.ppis = append(nw.ppis, n)
	}

	// DFF outputs are PPIs following the primary inputs
	for i := range b.dffs {
		d := &b.dffs[i]
		n := newNode(&Node{Name: d.name, Kind: KindPPI, InputID: len(b.inputs) + i, OutputID: -1, DffID: i})
		refNode[d.outRef] = n.ID
		nw.ppis = append(nw.ppis, n)
	}

	// logic gates, decomposing expressions
	for gi := range b.gates {
		g := &b.gates[gi]
		for _, ref := range g.fanins {
			if err := b.checkRef(ref); err != nil {
				return nil, err
			}
		}
		ref := b.findRef(refGate, gi)
		if g.expr == nil {
			faninIDs := make([]int, len(g.fanins))
			for i, r := range g.fanins {
				if refNode[r] < 0 {
					return nil, fmt.Errorf("circuit: node %q uses undefined fanin", g.name)
				}
				faninIDs[i] = refNode[r]
			}
			n := newNode(&Node{Name: g.name, Kind: KindLogic, Gate: g.gate,
				FaninIDs: faninIDs, InputID: -1, OutputID: -1, DffID: -1})
			refNode[ref] = n.ID
			continue
		}
		faninIDs := make([]int, len(g.fanins))
		for i, r := range g.fanins {
			if refNode[r] < 0 {
				return nil, fmt.Errorf("circuit: node %q uses undefined fanin", g.name)
			}
			faninIDs[i] = refNode[r]
		}
		id, err := decomposeExpr(nw, newNode, g.name, g.expr, faninIDs)
		if err != nil {
			return nil, err
		}
		refNode[ref] = id
	}

	// primary outputs
	for i, o := range b.outputs {
		if err := b.checkRef(o.src); err != nil {
			return nil, err
		}
		src := refNode[o.src]
		if src < 0 {
			return nil, fmt.Errorf("circuit: output %q has undefined source", o.name)
		}
		n := newNode(&Node{Name: o.name, Kind: KindPPO, Gate: Buff,
			FaninIDs: []int{src}, InputID: -1, OutputID: i, DffID: -1})
		nw.ppos = append(nw.ppos, n)
	}

	// DFF inputs are PPOs following the primary outputs
	for i := range b.dffs {
		d := &b.dffs[i]
		if d.src < 0 {
			return nil, fmt.Errorf("circuit: DFF %q has no data-in source", d.name)
		}
		if err := b.checkRef(d.src); err != nil {
			return nil, err
		}
		src := refNode[d.src]
		if src < 0 {
			return nil, fmt.Errorf("circuit: DFF %q has undefined source", d.name)
		}
		n := newNode(&Node{Name: d.name + ".in", Kind: KindPPO, Gate: Buff,
			FaninIDs: []int{src}, InputID: -1, OutputID: len(b.outputs) + i, DffID: i})
		nw.ppos = append(nw.ppos, n)

		// link the two frames of the DFF boundary
		out := nw.nodes[refNode[d.outRef]]
		out.AltNode = n.ID
		n.AltNode = out.ID
	}

	// fanout lists
	for _, n := range nw.nodes {
		for _, fi := range n.FaninIDs {
			nw.nodes[fi].FanoutIDs = append(nw.nodes[fi].FanoutIDs, n.ID)
		}
	}

	if err := levelize(nw); err != nil {
		return nil, err
	}
	partitionFFR(nw)
	partitionMFFC(nw)
	enumerateFaults(nw)

	return nw, nil
}

// findRef returns the ref with the given kind and index
func (b *Builder) findRef(kind refKind, idx int) int {
	for r, k := range b.refKinds {
		if k == kind && b.refIdx[r] == idx {
			return r
		}
	}
	panic("circuit: unknown builder ref")
}

// decomposeExpr lowers an expression to a tree of primitive gates and
// returns the node id of the tree root. Auxiliary nodes are created
// before the root so that fanin ids stay below their consumers.
func decomposeExpr(nw *Network, newNode func(*Node) *Node, name string, e *Expr, faninIDs []int) (int, error) {
	var lower func(e *Expr, top bool) (int, error)
	aux := 0
	lower = func(e *Expr, top bool) (int, error) {
		if e.IsInput {
			if e.InputIdx < 0 || e.InputIdx >= len(faninIDs) {
				return -1, fmt.Errorf("circuit: node %q expression references fanin %d", name, e.InputIdx)
			}
			return faninIDs[e.InputIdx], nil
		}
		ids := make([]int, len(e.Children))
		for i, c := range e.Children {
			id, err := lower(c, false)
			if err != nil {
				return -1, err
			}
			ids[i] = id
		}
		nodeName := name
		if !top {
			nodeName = fmt.Sprintf("%s.%d", name, aux)
			aux++
		}
		n := newNode(&Node{Name: nodeName, Kind: KindLogic, Gate: e.Op,
			FaninIDs: ids, InputID: -1, OutputID: -1, DffID: -1})
		return n.ID, nil
	}
	return lower(e, true)
}

// levelize assigns levels by a topological sweep. PPIs and constant
// gates sit at level 0; every other node is one above its deepest
// fanin. An unreachable remainder means a cyclic fanin.
func levelize(nw *Network) error {
	indeg := make([]int, len(nw.nodes))
	queue := make([]int, 0, len(nw.nodes))
	for _, n := range nw.nodes {
		indeg[n.ID] = len(n.FaninIDs)
		if indeg[n.ID] == 0 {
			n.Level = 0
			queue = append(queue, n.ID)
		}
	}
	done := 0
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		done++
		n := nw.nodes[id]
		for _, fo := range n.FanoutIDs {
			o := nw.nodes[fo]
			if n.Level+1 > o.Level {
				o.Level = n.Level + 1
			}
			indeg[fo]--
			if indeg[fo] == 0 {
				queue = append(queue, fo)
			}
		}
	}
	if done != len(nw.nodes) {
		return fmt.Errorf("circuit: cyclic fanin in network %q", nw.name)
	}
	return nil
}

// partitionFFR discovers the fanout-free regions by a reverse BFS from
// each root, stopping at other roots
func partitionFFR(nw *Network) {
	isRoot := func(n *Node) bool {
		return n.IsPPO() || len(n.FanoutIDs) != 1
	}
	for _, root := range nw.nodes {
		if !isRoot(root) {
			continue
		}
		ffr := &FFR{ID: len(nw.ffrs), Root: root.ID}
		stack := []int{root.ID}
		for len(stack) > 0 {
			id := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			n := nw.nodes[id]
			n.FFRRoot = root.ID
			ffr.NodeIDs = append(ffr.NodeIDs, id)
			for _, fi := range n.FaninIDs {
				in := nw.nodes[fi]
				if isRoot(in) {
					ffr.InputIDs = append(ffr.InputIDs, fi)
				} else {
					stack = append(stack, fi)
				}
			}
		}
		nw.ffrs = append(nw.ffrs, ffr)
	}
}

// partitionMFFC groups FFRs under their dominating roots. Roots are
// visited in decreasing level order so that every fanout already
// belongs to a cone.
func partitionMFFC(nw *Network) {
	roots := make([]*Node, 0, len(nw.ffrs))
	for _, f := range nw.ffrs {
		roots = append(roots, nw.nodes[f.Root])
	}
	// stable sort by decreasing level, id as tie-break
	for i := 1; i < len(roots); i++ {
		for j := i; j > 0; j-- {
			a, b := roots[j-1], roots[j]
			if a.Level > b.Level || (a.Level == b.Level && a.ID < b.ID) {
				break
			}
			roots[j-1], roots[j] = b, a
		}
	}

	mffcOf := make(map[int]*MFFC) // root node id -> cone
	for _, r := range roots {
		var owner *MFFC
		if len(r.FanoutIDs) > 0 {
			same := true
			first := nw.nodes[r.FanoutIDs[0]].MFFCRoot
			for _, fo := range r.FanoutIDs {
				if nw.nodes[fo].MFFCRoot != first {
					same = false
					break
				}
			}
			if same && first >= 0 {
				owner = mffcOf[first]
			}
		}
		if owner == nil {
			owner = &MFFC{ID: len(nw.mffcs), Root: r.ID}
			nw.mffcs = append(nw.mffcs, owner)
			mffcOf[r.ID] = owner
		}
		ffr := nw.ffrOfRoot(r.ID)
		owner.FFRIDs = append(owner.FFRIDs, ffr.ID)
		for _, id := range ffr.NodeIDs {
			nw.nodes[id].MFFCRoot = owner.Root
		}
	}
}

// ffrOfRoot returns the region rooted at the given node id
func (nw *Network) ffrOfRoot(root int) *FFR {
	for _, f := range nw.ffrs {
		if f.Root == root {
			return f
		}
	}
	panic(fmt.Sprintf("circuit: no FFR rooted at node %d", root))
}
