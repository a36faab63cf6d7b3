package dtpg

import (
	"time"

	"github.com/fyerfyer/druid-atpg/pkg/circuit"
	"github.com/fyerfyer/druid-atpg/pkg/enc"
	"github.com/fyerfyer/druid-atpg/pkg/sat"
	"github.com/fyerfyer/druid-atpg/pkg/tvec"
)

// GenStatus is the outcome of one test-generation attempt
type GenStatus int

const (
	GenDetected GenStatus = iota
	GenUntestable
	GenAborted
)

// String returns a string representation of the status
func (s GenStatus) String() string {
	switch s {
	case GenDetected:
		return "detected"
	case GenUntestable:
		return "untestable"
	default:
		return "aborted"
	}
}

// GenResult carries the outcome of GenPattern and, on detection, the
// justified test vector
type GenResult struct {
	Status     GenStatus
	TestVector *tvec.TestVector
}

// DriverOptions configures a region driver
type DriverOptions struct {
	SatOptions sat.Options
	Justifier  Justifier
	Stats      *Stats
}

// Driver owns the CNF of one region (FFR, MFFC or single node) and
// generates patterns for the region's faults, amortizing the encoding
// cost over all of them
type Driver struct {
	network   *circuit.Network
	faultType circuit.FaultType

	solver sat.Solver
	engine *enc.StructEngine
	bd     *enc.BoolDiffEnc
	me     *enc.MFFCEnc // non-nil for the MFFC granularity

	just  Justifier
	stats *Stats
}

func newDriver(nw *circuit.Network, ft circuit.FaultType, opts DriverOptions) (*Driver, error) {
	solver, err := sat.NewSolver(opts.SatOptions)
	if err != nil {
		return nil, err
	}
	just := opts.Justifier
	if just == nil {
		just, _ = NewJustifier("")
	}
	stats := opts.Stats
	if stats == nil {
		stats = &Stats{}
	}
	return &Driver{
		network:   nw,
		faultType: ft,
		solver:    solver,
		engine:    enc.NewStructEngine(solver, nw, ft == circuit.TransitionDelay),
		just:      just,
		stats:     stats,
	}, nil
}

// NewFFRDriver builds one CNF for the region, reused for every fault
// inside it. The fault effect is assumed to reach the region root; the
// per-fault local condition comes in as assumptions.
func NewFFRDriver(nw *circuit.Network, ft circuit.FaultType, ffr *circuit.FFR, opts DriverOptions) (*Driver, error) {
	d, err := newDriver(nw, ft, opts)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	d.bd = enc.NewBoolDiffEnc(d.engine, nw.Node(ffr.Root), true)
	d.engine.Update()
	d.stats.CnfTime += time.Since(start)
	return d, nil
}

// NewMFFCDriver builds one CNF for a whole cone of FFRs, augmented by
// per-FFR selector variables
func NewMFFCDriver(nw *circuit.Network, ft circuit.FaultType, mffc *circuit.MFFC, opts DriverOptions) (*Driver, error) {
	d, err := newDriver(nw, ft, opts)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	d.me = enc.NewMFFCEnc(d.engine, mffc)
	d.bd = enc.NewBoolDiffEnc(d.engine, nw.Node(mffc.Root), false)
	d.engine.Update()
	d.stats.CnfTime += time.Since(start)
	return d, nil
}

// NewNodeDriver builds a CNF rooted at a single node, used when the
// per-region amortization is not wanted
func NewNodeDriver(nw *circuit.Network, ft circuit.FaultType, node *circuit.Node, opts DriverOptions) (*Driver, error) {
	d, err := newDriver(nw, ft, opts)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	d.bd = enc.NewBoolDiffEnc(d.engine, node, true)
	d.engine.Update()
	d.stats.CnfTime += time.Since(start)
	return d, nil
}

// Solver returns the driver's solver, mainly for stats inspection
func (d *Driver) Solver() sat.Solver {
	return d.solver
}

// extractionRoot returns the node the sufficient-condition walk starts
// from: the node driver uses the cone root itself, the region drivers
// the fault's FFR root
func (d *Driver) extractionRoot(f *circuit.Fault) *circuit.Node {
	if d.me == nil && d.bd.Root().ID == f.Origin.ID {
		return d.bd.Root()
	}
	return d.network.Node(f.Origin.FFRRoot)
}

// GenPattern runs one solve-extract-justify cycle for a fault
func (d *Driver) GenPattern(f *circuit.Fault) GenResult {
	// local condition: excitation plus the FFR propagation cube
	cond := f.FFRPropagateCondition().Copy()
	cond.Merge(f.ExcitationCondition(d.faultType))

	if d.faultType == circuit.TransitionDelay {
		// the initial-frame value needs the previous-frame cone
		start := time.Now()
		d.engine.AddPrevNode(f.ExNodeID())
		d.engine.Update()
		d.stats.CnfTime += time.Since(start)
	}

	assumptions := d.engine.ConvToAssumptions(cond)
	if d.me != nil {
		ffr := d.network.FFROfNode(f.Origin.ID)
		assumptions = append(assumptions, d.me.SelectorAssumptions(ffr.ID)...)
	}
	assumptions = append(assumptions, d.bd.PropVar())

	start := time.Now()
	ans := d.solver.Solve(assumptions)
	d.stats.SatTime += time.Since(start)

	switch ans {
	case sat.B3True:
		jd := NewJustData(d.engine, d.solver.Model())
		suff := ExtractSufficientCondition(d.extractionRoot(f), jd)
		suff.Merge(cond)

		start = time.Now()
		pivec := d.just.Justify(suff, jd)
		d.stats.BacktraceTime += time.Since(start)

		return GenResult{Status: GenDetected, TestVector: makeTestVector(d.network, d.faultType, pivec)}
	case sat.B3False:
		return GenResult{Status: GenUntestable}
	default:
		return GenResult{Status: GenAborted}
	}
}

// makeTestVector imprints a PPI assignment list on a fresh test
// vector; unassigned positions stay X
func makeTestVector(nw *circuit.Network, ft circuit.FaultType, pivec *circuit.AssignList) *tvec.TestVector {
	tv := tvec.NewTestVector(nw.InputNum(), nw.DffNum(), ft == circuit.TransitionDelay)
	for _, a := range pivec.Elems() {
		n := nw.Node(a.Node)
		val := tvec.BoolToVal3(a.Val)
		if ft == circuit.StuckAt {
			tv.SetPPIVal(n.InputID, val)
			continue
		}
		if n.IsDffOutput() {
			tv.SetDffVal(n.DffID, val)
			continue
		}
		tv.SetInputVal(a.Time, n.InputID, val)
	}
	return tv
}
