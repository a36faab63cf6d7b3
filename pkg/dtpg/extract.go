package dtpg

import (
	"sort"

	"github.com/fyerfyer/druid-atpg/pkg/circuit"
	"github.com/fyerfyer/druid-atpg/pkg/tvec"
)

// extractor reads a satisfying model off into a sufficient propagation
// condition: the side-input values along one sensitized path from the
// fault cone root to a PPO where good and faulty values differ.
type extractor struct {
	jd   *JustData
	root *circuit.Node

	fcone   map[int]bool
	spoList []*circuit.Node

	marks map[int]int // 1 sensitized, 2 masking, 3 side input
	queue []*circuit.Node
}

const (
	markSensitized = 1
	markMasking    = 2
	markSide       = 3
)

// ExtractSufficientCondition walks the fault cone of root under the
// given model and returns the recorded side-input assignments (time 1)
func ExtractSufficientCondition(root *circuit.Node, jd *JustData) *circuit.AssignList {
	ex := &extractor{
		jd:    jd,
		root:  root,
		fcone: make(map[int]bool),
		marks: make(map[int]int),
	}
	ex.markFaultCone()
	return ex.getAssignment()
}

// markFaultCone marks the TFO of the root and collects the PPOs where
// the fault effect is visible in the model
func (ex *extractor) markFaultCone() {
	nw := ex.jd.Network()
	list := []*circuit.Node{ex.root}
	ex.fcone[ex.root.ID] = true
	for rpos := 0; rpos < len(list); rpos++ {
		n := list[rpos]
		if n.IsPPO() && ex.gval(n) != ex.fval(n) {
			ex.spoList = append(ex.spoList, n)
		}
		for _, fo := range n.FanoutIDs {
			if !ex.fcone[fo] {
				ex.fcone[fo] = true
				list = append(list, nw.Node(fo))
			}
		}
	}
}

func (ex *extractor) gval(n *circuit.Node) tvec.Val3 {
	return ex.jd.Val(n.ID, 1)
}

func (ex *extractor) fval(n *circuit.Node) tvec.Val3 {
	return ex.jd.FVal(n.ID)
}

// nodeType classifies a node for the backward walk
func (ex *extractor) nodeType(n *circuit.Node) int {
	if !ex.fcone[n.ID] {
		return markSide
	}
	if ex.gval(n) != ex.fval(n) {
		return markSensitized
	}
	return markMasking
}

func (ex *extractor) putQueue(n *circuit.Node, mark int) {
	if _, done := ex.marks[n.ID]; done {
		return
	}
	ex.marks[n.ID] = mark
	ex.queue = append(ex.queue, n)
}

// getAssignment walks one sensitized path backward from the selected
// output and records the blocking side inputs
func (ex *extractor) getAssignment() *circuit.AssignList {
	if len(ex.spoList) == 0 {
		panic("dtpg: satisfying model propagates no fault effect")
	}
	// deterministic choice: the first output in PPO order
	spo := ex.spoList[0]

	assignList := circuit.NewAssignList()
	ex.putQueue(spo, markSensitized)
	for rpos := 0; rpos < len(ex.queue); rpos++ {
		n := ex.queue[rpos]
		switch ex.marks[n.ID] {
		case markSensitized:
			ex.recordSensitizedNode(n)
		case markMasking:
			ex.recordMaskingNode(n)
		case markSide:
			assignList.Add(n.ID, 1, ex.gval(n) == tvec.Val1)
		}
	}
	return assignList
}

// recordSensitizedNode follows every fanin of a node on the sensitized
// path
func (ex *extractor) recordSensitizedNode(n *circuit.Node) {
	nw := ex.jd.Network()
	for _, fi := range n.FaninIDs {
		in := nw.Node(fi)
		ex.putQueue(in, ex.nodeType(in))
	}
}

// recordMaskingNode handles a cone node where the fault effect is
// blocked: one controlling side input suffices to pin the blocking
func (ex *extractor) recordMaskingNode(n *circuit.Node) {
	nw := ex.jd.Network()
	hasSnode := false
	var cnodes []*circuit.Node
	cval, hasCval := n.CVal()
	for _, fi := range n.FaninIDs {
		in := nw.Node(fi)
		t := ex.nodeType(in)
		if t == markSensitized {
			hasSnode = true
		} else if t == markSide && hasCval && ex.gval(in) == cval {
			cnodes = append(cnodes, in)
		}
	}
	if hasSnode && len(cnodes) > 0 {
		ex.putQueue(ex.selectCnode(cnodes), markSide)
		return
	}
	// either no fault effect reaches this gate or several effects
	// cancel out; recurse into every fanin
	ex.recordSensitizedNode(n)
}

// selectCnode picks among multiple blocking candidates: an already
// visited node first, then the lowest node id
func (ex *extractor) selectCnode(cnodes []*circuit.Node) *circuit.Node {
	sort.Slice(cnodes, func(i, j int) bool { return cnodes[i].ID < cnodes[j].ID })
	for _, n := range cnodes {
		if _, seen := ex.marks[n.ID]; seen {
			return n
		}
	}
	return cnodes[0]
}
