package circuit

import "fmt"

// FaultMgr tracks the status of every representative fault of a
// network for one fault model. Status transitions are monotonic within
// a run: Undetected to Detected or Untestable, never back; Reset
// re-initializes the whole map.
type FaultMgr struct {
	network   *Network
	faultType FaultType
	status    []FaultStatus
}

// GenFaultList creates a fault manager over the network's
// representative faults
func GenFaultList(nw *Network, ft FaultType) *FaultMgr {
	return &FaultMgr{
		network:   nw,
		faultType: ft,
		status:    make([]FaultStatus, nw.FaultNum()),
	}
}

// Network returns the underlying network
func (fm *FaultMgr) Network() *Network {
	return fm.network
}

// FaultType returns the fault model of this manager
func (fm *FaultMgr) FaultType() FaultType {
	return fm.faultType
}

// FaultList returns all representative faults
func (fm *FaultMgr) FaultList() []*Fault {
	return fm.network.RepFaultList()
}

// NodeFaultList returns the representative faults attached to a node
func (fm *FaultMgr) NodeFaultList(nodeID int) []*Fault {
	var out []*Fault
	for _, f := range fm.network.RepFaultList() {
		if f.Origin.ID == nodeID {
			out = append(out, f)
		}
	}
	return out
}

// FFRFaultList returns the representative faults of a region
func (fm *FaultMgr) FFRFaultList(ffrID int) []*Fault {
	return fm.network.FFR(ffrID).FaultList
}

// MFFCFaultList returns the representative faults of a cone
func (fm *FaultMgr) MFFCFaultList(mffcID int) []*Fault {
	return fm.network.MFFC(mffcID).FaultList
}

// Status returns the status of a fault
func (fm *FaultMgr) Status(f *Fault) FaultStatus {
	return fm.status[f.ID]
}

// SetStatus updates the status of a fault. Moving a fault out of a
// final state without Reset is an invariant violation.
func (fm *FaultMgr) SetStatus(f *Fault, s FaultStatus) {
	cur := fm.status[f.ID]
	if cur != Undetected && s != cur {
		panic(fmt.Sprintf("circuit: fault %s status %s -> %s", f, cur, s))
	}
	fm.status[f.ID] = s
}

// Reset returns every fault to Undetected
func (fm *FaultMgr) Reset() {
	for i := range fm.status {
		fm.status[i] = Undetected
	}
}

// RemainCount returns the number of faults still undetected
func (fm *FaultMgr) RemainCount() int {
	n := 0
	for _, f := range fm.FaultList() {
		if fm.status[f.ID] == Undetected {
			n++
		}
	}
	return n
}

// DetCount returns the number of detected faults
func (fm *FaultMgr) DetCount() int {
	n := 0
	for _, f := range fm.FaultList() {
		if fm.status[f.ID] == Detected {
			n++
		}
	}
	return n
}

// UntestCount returns the number of untestable faults
func (fm *FaultMgr) UntestCount() int {
	n := 0
	for _, f := range fm.FaultList() {
		if fm.status[f.ID] == Untestable {
			n++
		}
	}
	return n
}
