package fsim

import (
	"github.com/fyerfyer/druid-atpg/pkg/circuit"
	"github.com/fyerfyer/druid-atpg/pkg/tvec"
)

// SimFault is the injection record of one representative fault
type SimFault struct {
	Fault  *circuit.Fault
	ExNode int // sim node whose output carries the faulty line
	Val    int
	Skip   bool

	// ObsMask holds, after a ppsfp call, the bits of the patterns that
	// detected this fault
	ObsMask tvec.PackedVal
}

// SimFFR groups the faults sharing one region root so that their local
// effects collapse into a single global propagation
type SimFFR struct {
	Root      int // sim node id of the region root
	FaultList []*SimFault
}
