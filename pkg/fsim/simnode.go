package fsim

import (
	"github.com/fyerfyer/druid-atpg/pkg/circuit"
)

// SimNode is the runtime counterpart of a network node used only
// during simulation. The simulator owns the SimNode array for its
// lifetime; the network is never touched.
type SimNode struct {
	ID        int
	Level     int
	Kind      circuit.NodeKind
	Gate      circuit.GateType
	FaninIDs  []int
	FanoutIDs []int
	FFR       int // sim-side region index

	Val     PackedVal3 // current frame value
	PrevVal PackedVal3 // previous frame value (sequential mode)

	inQueue bool
}

// calcVal computes the node's word-parallel output from the input
// values supplied by in. PPO nodes behave as buffers.
func (sn *SimNode) calcVal(in func(int) PackedVal3) PackedVal3 {
	switch sn.Gate {
	case circuit.C0:
		return pvAll0()
	case circuit.C1:
		return pvAll1()
	case circuit.Buff:
		return in(sn.FaninIDs[0])
	case circuit.Not:
		return in(sn.FaninIDs[0]).Not()
	case circuit.And, circuit.Nand:
		v := in(sn.FaninIDs[0])
		for _, fi := range sn.FaninIDs[1:] {
			iv := in(fi)
			v.V1 &= iv.V1
			v.V0 |= iv.V0
		}
		if sn.Gate == circuit.Nand {
			v = v.Not()
		}
		return v
	case circuit.Or, circuit.Nor:
		v := in(sn.FaninIDs[0])
		for _, fi := range sn.FaninIDs[1:] {
			iv := in(fi)
			v.V1 |= iv.V1
			v.V0 &= iv.V0
		}
		if sn.Gate == circuit.Nor {
			v = v.Not()
		}
		return v
	case circuit.Xor, circuit.Xnor:
		v := in(sn.FaninIDs[0])
		for _, fi := range sn.FaninIDs[1:] {
			iv := in(fi)
			v = PackedVal3{
				V0: (v.V0 & iv.V0) | (v.V1 & iv.V1),
				V1: (v.V0 & iv.V1) | (v.V1 & iv.V0),
			}
		}
		if sn.Gate == circuit.Xnor {
			v = v.Not()
		}
		return v
	default:
		panic("fsim: unknown gate type")
	}
}
