package circuit

import "fmt"

// FaultType selects the fault model
type FaultType int

const (
	StuckAt         FaultType = iota // single stuck-at faults
	TransitionDelay                  // slow-to-rise / slow-to-fall faults
)

// String returns a string representation of the fault type
func (ft FaultType) String() string {
	switch ft {
	case StuckAt:
		return "stuck-at"
	case TransitionDelay:
		return "transition-delay"
	default:
		return "unknown"
	}
}

// FaultStatus is the lifecycle state of a fault
type FaultStatus int

const (
	Undetected FaultStatus = iota
	Detected
	Untestable
)

// String returns a string representation of the fault status
func (s FaultStatus) String() string {
	switch s {
	case Undetected:
		return "undetected"
	case Detected:
		return "detected"
	case Untestable:
		return "untestable"
	default:
		return "unknown"
	}
}

// Fault is a stuck-at (or transition-delay) fault at either a gate
// output (stem, Pos == -1) or at a fanin branch (Pos == fanin index).
type Fault struct {
	ID     int
	Origin *Node // node the fault attaches to
	Pos    int   // -1 for a stem fault
	Val    int   // 0 or 1
	Rep    *Fault

	// propCond is the precomputed FFR-local propagation condition: the
	// side-input assignments carrying the fault effect to the FFR root.
	propCond *AssignList
}

// IsStem returns true for a stem fault
func (f *Fault) IsStem() bool {
	return f.Pos < 0
}

// IsRep returns true if the fault is its own representative
func (f *Fault) IsRep() bool {
	return f.Rep == f
}

// ExNodeID returns the id of the node whose output carries the faulty
// line: the origin for a stem fault, the Pos-th fanin for a branch
func (f *Fault) ExNodeID() int {
	if f.IsStem() {
		return f.Origin.ID
	}
	return f.Origin.FaninIDs[f.Pos]
}

// ExcitationCondition returns the assignments required to activate the
// fault: the faulty line at the inverse of the fault value, plus the
// initial-frame value for transition-delay faults.
func (f *Fault) ExcitationCondition(ft FaultType) *AssignList {
	al := NewAssignList()
	al.Add(f.ExNodeID(), 1, f.Val == 0)
	if ft == TransitionDelay {
		al.Add(f.ExNodeID(), 0, f.Val == 1)
	}
	return al
}

// FFRPropagateCondition returns the precomputed side-input assignments
// carrying the fault effect to its FFR root
func (f *Fault) FFRPropagateCondition() *AssignList {
	return f.propCond
}

// String returns a string representation of the fault
func (f *Fault) String() string {
	if f.IsStem() {
		return fmt.Sprintf("%s:O:SA%d", f.Origin.Name, f.Val)
	}
	return fmt.Sprintf("%s:I%d:SA%d", f.Origin.Name, f.Pos, f.Val)
}
