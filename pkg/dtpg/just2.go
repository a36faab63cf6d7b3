package dtpg

import (
	"fmt"
	"math"

	"github.com/fyerfyer/druid-atpg/pkg/circuit"
)

// just2 is the default justifier. A first pass walks the assignments
// toward the PPIs counting how many justifications depend on each
// (node, time); the second pass descends into the controlling fanin
// with the lowest estimated cost, breaking ties by lowest node id.
type just2 struct {
	weight map[[2]int]int
	value  map[[2]int]float64
}

func (j *just2) Justify(assignList *circuit.AssignList, jd *JustData) *circuit.AssignList {
	j.weight = make(map[[2]int]int)
	j.value = make(map[[2]int]float64)
	for _, a := range assignList.Elems() {
		j.addWeight(jd, jd.Network().Node(a.Node), a.Time)
	}
	return runJustWalk(assignList, jd, j)
}

// addWeight counts, per (node, time), how many walks pass through it
func (j *just2) addWeight(jd *JustData, n *circuit.Node, time int) {
	key := [2]int{n.ID, time}
	j.weight[key]++
	if j.weight[key] > 1 {
		return
	}

	nw := jd.Network()
	switch {
	case n.IsPrimaryInput():
	case n.IsDffOutput():
		if time == 1 && jd.HasPrevState() {
			j.addWeight(jd, nw.Node(n.AltNode), 0)
		}
	default:
		coval, hasC := n.COVal()
		if hasC && jd.Val(n.ID, time) == coval {
			cval, _ := n.CVal()
			for _, fi := range n.FaninIDs {
				if jd.Val(fi, time) == cval {
					j.addWeight(jd, nw.Node(fi), time)
				}
			}
		} else {
			for _, fi := range n.FaninIDs {
				j.addWeight(jd, nw.Node(fi), time)
			}
		}
	}
}

// nodeValue estimates the cost of justifying a node, amortized over
// the walks sharing it
func (j *just2) nodeValue(jd *JustData, n *circuit.Node, time int) float64 {
	key := [2]int{n.ID, time}
	if v, ok := j.value[key]; ok {
		return v
	}
	var val float64
	nw := jd.Network()
	switch {
	case n.IsPrimaryInput():
		val = 1.0
	case n.IsDffOutput():
		if time == 1 && jd.HasPrevState() {
			val = j.nodeValue(jd, nw.Node(n.AltNode), 0)
		} else {
			val = 1.0
		}
	default:
		coval, hasC := n.COVal()
		if hasC && jd.Val(n.ID, time) == coval {
			cval, _ := n.CVal()
			minVal := math.MaxFloat64
			for _, fi := range n.FaninIDs {
				if jd.Val(fi, time) != cval {
					continue
				}
				if v := j.nodeValue(jd, nw.Node(fi), time); v < minVal {
					minVal = v
				}
			}
			val = minVal
		} else {
			for _, fi := range n.FaninIDs {
				val += j.nodeValue(jd, nw.Node(fi), time)
			}
		}
	}
	if w := j.weight[key]; w > 1 {
		val /= float64(w)
	}
	j.value[key] = val
	return val
}

func (j *just2) selectCvalNode(jd *JustData, n *circuit.Node, time int) *circuit.Node {
	cval, _ := n.CVal()
	nw := jd.Network()
	minVal := math.MaxFloat64
	var minNode *circuit.Node
	for _, fi := range n.FaninIDs {
		if jd.Val(fi, time) != cval {
			continue
		}
		in := nw.Node(fi)
		v := j.nodeValue(jd, in, time)
		if v < minVal || (v == minVal && minNode != nil && in.ID < minNode.ID) {
			minVal = v
			minNode = in
		}
	}
	if minNode == nil {
		panic(fmt.Sprintf("dtpg: no controlling fanin on %s in a satisfying model", n))
	}
	return minNode
}
