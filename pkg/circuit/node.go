package circuit

import (
	"fmt"

	"github.com/fyerfyer/druid-atpg/pkg/tvec"
)

// NodeKind classifies a node of the levelized DAG
type NodeKind int

const (
	KindPPI   NodeKind = iota // Primary input or DFF output
	KindPPO                   // Primary output or DFF input
	KindLogic                 // Logic gate
)

// String returns a string representation of the node kind
func (k NodeKind) String() string {
	switch k {
	case KindPPI:
		return "PPI"
	case KindPPO:
		return "PPO"
	case KindLogic:
		return "LOGIC"
	default:
		return "UNKNOWN"
	}
}

// Node is one node of the levelized combinational DAG. Nodes are
// immutable after network construction; all cross-references are node
// ids into the owning network's arena.
type Node struct {
	ID        int
	Name      string
	Kind      NodeKind
	Gate      GateType // valid for logic nodes; Buff for PPOs
	FaninIDs  []int
	FanoutIDs []int
	Level     int

	FFRRoot  int // node id of this node's FFR root
	MFFCRoot int // node id of this node's MFFC root

	// AltNode links the two frames of a DFF boundary: for a DFF output
	// it is the DFF-input node of the previous time frame and vice
	// versa. -1 if the node is not a DFF boundary.
	AltNode int

	InputID  int // PPI index (inputs first, then DFF outputs), -1 otherwise
	OutputID int // PPO index (outputs first, then DFF inputs), -1 otherwise
	DffID    int // DFF index for DFF boundary nodes, -1 otherwise
}

// IsPPI returns true for primary inputs and DFF outputs
func (n *Node) IsPPI() bool {
	return n.Kind == KindPPI
}

// IsPPO returns true for primary outputs and DFF inputs
func (n *Node) IsPPO() bool {
	return n.Kind == KindPPO
}

// IsLogic returns true for logic nodes
func (n *Node) IsLogic() bool {
	return n.Kind == KindLogic
}

// IsPrimaryInput returns true for a primary input (not a DFF output)
func (n *Node) IsPrimaryInput() bool {
	return n.Kind == KindPPI && n.DffID < 0
}

// IsDffOutput returns true for the output side of a DFF
func (n *Node) IsDffOutput() bool {
	return n.Kind == KindPPI && n.DffID >= 0
}

// IsPrimaryOutput returns true for a primary output (not a DFF input)
func (n *Node) IsPrimaryOutput() bool {
	return n.Kind == KindPPO && n.DffID < 0
}

// IsDffInput returns true for the input side of a DFF
func (n *Node) IsDffInput() bool {
	return n.Kind == KindPPO && n.DffID >= 0
}

// FaninNum returns the number of fanins
func (n *Node) FaninNum() int {
	return len(n.FaninIDs)
}

// FanoutNum returns the number of fanouts
func (n *Node) FanoutNum() int {
	return len(n.FanoutIDs)
}

// CVal returns the controlling input value of the node's gate
func (n *Node) CVal() (tvec.Val3, bool) {
	if n.Kind != KindLogic {
		return tvec.ValX, false
	}
	return n.Gate.CVal()
}

// COVal returns the output value produced by a controlling input
func (n *Node) COVal() (tvec.Val3, bool) {
	if n.Kind != KindLogic {
		return tvec.ValX, false
	}
	return n.Gate.COVal()
}

// NVal returns the non-controlling input value of the node's gate
func (n *Node) NVal() (tvec.Val3, bool) {
	if n.Kind != KindLogic {
		return tvec.ValX, false
	}
	return n.Gate.NVal()
}

// String returns a string representation of the node
func (n *Node) String() string {
	if n.Kind == KindLogic {
		return fmt.Sprintf("%s(%s)", n.Name, n.Gate)
	}
	return fmt.Sprintf("%s(%s)", n.Name, n.Kind)
}
