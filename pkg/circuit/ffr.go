package circuit

// FFR is a fanout-free region: a maximal connected sub-DAG whose only
// internal fanout count is 1. Every fault inside the region propagates
// to the root output under a pure conjunction of side-input values.
type FFR struct {
	ID        int
	Root      int     // node id of the root
	InputIDs  []int   // node ids feeding the region from outside
	NodeIDs   []int   // member nodes, root first
	FaultList []*Fault // representative faults inside the region
}

// InputNum returns the number of region inputs
func (f *FFR) InputNum() int {
	return len(f.InputIDs)
}

// NodeNum returns the number of member nodes
func (f *FFR) NodeNum() int {
	return len(f.NodeIDs)
}

// MFFC is a maximal fanout-free cone: a tree of FFRs under a single
// dominating root.
type MFFC struct {
	ID        int
	Root      int // node id of the root
	FFRIDs    []int
	FaultList []*Fault
}

// FFRNum returns the number of member FFRs
func (m *MFFC) FFRNum() int {
	return len(m.FFRIDs)
}
