package circuit

import (
	"fmt"
	"strings"
)

// Network is a levelized combinational DAG with FFR/MFFC partitions and
// an enumerated fault list. It is immutable after Build; it exclusively
// owns its nodes, regions and faults for its lifetime.
type Network struct {
	name string

	nodes []*Node
	ppis  []*Node // primary inputs first, then DFF outputs
	ppos  []*Node // primary outputs first, then DFF inputs

	inputNum  int
	outputNum int
	dffNum    int

	ffrs  []*FFR
	mffcs []*MFFC

	faults []*Fault // all enumerated faults
	reps   []*Fault // representative faults only
}

// Name returns the network name
func (nw *Network) Name() string {
	return nw.name
}

// NodeNum returns the number of nodes
func (nw *Network) NodeNum() int {
	return len(nw.nodes)
}

// Node returns the node with the given id
func (nw *Network) Node(id int) *Node {
	if id < 0 || id >= len(nw.nodes) {
		panic(fmt.Sprintf("circuit: node id %d out of range", id))
	}
	return nw.nodes[id]
}

// Nodes returns all nodes in id order
func (nw *Network) Nodes() []*Node {
	return nw.nodes
}

// InputNum returns the number of primary inputs
func (nw *Network) InputNum() int {
	return nw.inputNum
}

// OutputNum returns the number of primary outputs
func (nw *Network) OutputNum() int {
	return nw.outputNum
}

// DffNum returns the number of DFFs
func (nw *Network) DffNum() int {
	return nw.dffNum
}

// PPINum returns the number of pseudo-primary inputs
func (nw *Network) PPINum() int {
	return len(nw.ppis)
}

// PPI returns the pos-th pseudo-primary input node
func (nw *Network) PPI(pos int) *Node {
	return nw.ppis[pos]
}

// PPIs returns the pseudo-primary input nodes
func (nw *Network) PPIs() []*Node {
	return nw.ppis
}

// PPONum returns the number of pseudo-primary outputs
func (nw *Network) PPONum() int {
	return len(nw.ppos)
}

// PPO returns the pos-th pseudo-primary output node
func (nw *Network) PPO(pos int) *Node {
	return nw.ppos[pos]
}

// PPOs returns the pseudo-primary output nodes
func (nw *Network) PPOs() []*Node {
	return nw.ppos
}

// FFRNum returns the number of fanout-free regions
func (nw *Network) FFRNum() int {
	return len(nw.ffrs)
}

// FFR returns the pos-th fanout-free region
func (nw *Network) FFR(pos int) *FFR {
	return nw.ffrs[pos]
}

// FFRs returns all fanout-free regions
func (nw *Network) FFRs() []*FFR {
	return nw.ffrs
}

// FFROfNode returns the region containing the given node
func (nw *Network) FFROfNode(id int) *FFR {
	root := nw.Node(id).FFRRoot
	for _, f := range nw.ffrs {
		if f.Root == root {
			return f
		}
	}
	panic(fmt.Sprintf("circuit: node %d has no FFR", id))
}

// MFFCNum returns the number of maximal fanout-free cones
func (nw *Network) MFFCNum() int {
	return len(nw.mffcs)
}

// MFFC returns the pos-th maximal fanout-free cone
func (nw *Network) MFFC(pos int) *MFFC {
	return nw.mffcs[pos]
}

// MFFCs returns all maximal fanout-free cones
func (nw *Network) MFFCs() []*MFFC {
	return nw.mffcs
}

// FaultNum returns the number of enumerated faults, equivalent faults
// included
func (nw *Network) FaultNum() int {
	return len(nw.faults)
}

// Fault returns the fault with the given id
func (nw *Network) Fault(id int) *Fault {
	return nw.faults[id]
}

// AllFaultList returns every enumerated fault
func (nw *Network) AllFaultList() []*Fault {
	return nw.faults
}

// RepFaultList returns the representative faults
func (nw *Network) RepFaultList() []*Fault {
	return nw.reps
}

// FindNode returns the node with the given name, nil if absent
func (nw *Network) FindNode(name string) *Node {
	for _, n := range nw.nodes {
		if n.Name == name {
			return n
		}
	}
	return nil
}

// String returns a short description of the network
func (nw *Network) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Network: %s\n", nw.name)
	fmt.Fprintf(&b, "  nodes: %d, inputs: %d, outputs: %d, dffs: %d\n",
		len(nw.nodes), nw.inputNum, nw.outputNum, nw.dffNum)
	fmt.Fprintf(&b, "  FFRs: %d, MFFCs: %d, faults: %d (rep %d)",
		len(nw.ffrs), len(nw.mffcs), len(nw.faults), len(nw.reps))
	return b.String()
}
