package dtpg

import (
	"fmt"

	"github.com/fyerfyer/druid-atpg/pkg/circuit"
)

// just1 descends into the first controlling fanin it finds; faster
// than Just2 but yields larger vectors
type just1 struct{}

func (j *just1) Justify(assignList *circuit.AssignList, jd *JustData) *circuit.AssignList {
	return runJustWalk(assignList, jd, j)
}

func (j *just1) selectCvalNode(jd *JustData, n *circuit.Node, time int) *circuit.Node {
	cval, _ := n.CVal()
	nw := jd.Network()
	for _, fi := range n.FaninIDs {
		in := nw.Node(fi)
		if jd.Val(fi, time) == cval {
			return in
		}
	}
	panic(fmt.Sprintf("dtpg: no controlling fanin on %s in a satisfying model", n))
}
