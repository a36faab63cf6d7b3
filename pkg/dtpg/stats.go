package dtpg

import "time"

// Stats accumulates the counters and timers of one ATPG run
type Stats struct {
	DetCount    int
	UntestCount int
	AbortCount  int

	SatTime       time.Duration
	CnfTime       time.Duration
	BacktraceTime time.Duration
}

// Merge adds src into s
func (s *Stats) Merge(src Stats) {
	s.DetCount += src.DetCount
	s.UntestCount += src.UntestCount
	s.AbortCount += src.AbortCount
	s.SatTime += src.SatTime
	s.CnfTime += src.CnfTime
	s.BacktraceTime += src.BacktraceTime
}

// TotalCount returns the number of faults detected, proven untestable or
// aborted; detections include faults retired by fault simulation
func (s *Stats) TotalCount() int {
	return s.DetCount + s.UntestCount + s.AbortCount
}

// Coverage returns the detected fraction over the given fault total
func (s *Stats) Coverage(total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(s.DetCount) / float64(total)
}
