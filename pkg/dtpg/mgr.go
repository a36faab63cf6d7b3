package dtpg

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/fyerfyer/druid-atpg/pkg/circuit"
	"github.com/fyerfyer/druid-atpg/pkg/fsim"
	"github.com/fyerfyer/druid-atpg/pkg/sat"
	"github.com/fyerfyer/druid-atpg/pkg/tvec"
)

// CallbackDet is invoked for every detected fault with its test vector
type CallbackDet func(mgr *Mgr, f *circuit.Fault, tv *tvec.TestVector)

// CallbackUndet is invoked for untestable and aborted faults; the two
// outcomes are distinguished by the callback channel they arrive on
type CallbackUndet func(mgr *Mgr, f *circuit.Fault)

// Options is the JSON option tree accepted by Run
type Options struct {
	// DtpgType selects the driver granularity: "ffr" (default),
	// "mffc" or "node"
	DtpgType string `json:"dtpg_type"`
	// JustType selects the justifier: "just2" (default), "just1" or
	// "naive"
	JustType string `json:"just_type"`
	// SatType names the solver backend
	SatType string `json:"sat_type"`
	// SatTimeoutMs bounds one solve call; 0 means unbounded
	SatTimeoutMs int `json:"sat_timeout_ms"`
	// DropFault fault-simulates every generated vector to drop other
	// faults it happens to detect
	DropFault bool `json:"drop_fault"`
}

// ParseOptions decodes the option tree, applying the defaults
func ParseOptions(raw json.RawMessage) (Options, error) {
	var o Options
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &o); err != nil {
			return o, fmt.Errorf("dtpg: bad options: %w", err)
		}
	}
	if o.DtpgType == "" {
		o.DtpgType = "ffr"
	}
	return o, nil
}

// Mgr schedules deterministic test generation over a fault manager's
// undetected faults, owning the test-vector list and the run stats
type Mgr struct {
	network  *circuit.Network
	faultMgr *circuit.FaultMgr

	vectors []*tvec.TestVector
	stats   Stats
	logger  zerolog.Logger
	stop    bool
}

// NewMgr creates a manager over the given fault manager
func NewMgr(fm *circuit.FaultMgr) *Mgr {
	return &Mgr{
		network:  fm.Network(),
		faultMgr: fm,
		logger:   zerolog.Nop(),
	}
}

// SetLogger installs a logger for run progress
func (m *Mgr) SetLogger(l zerolog.Logger) {
	m.logger = l.With().Str("component", "dtpg").Logger()
}

// Network returns the underlying network
func (m *Mgr) Network() *circuit.Network {
	return m.network
}

// FaultMgr returns the fault manager
func (m *Mgr) FaultMgr() *circuit.FaultMgr {
	return m.faultMgr
}

// TestVectors returns the vectors generated so far
func (m *Mgr) TestVectors() []*tvec.TestVector {
	return m.vectors
}

// Stats returns the accumulated run statistics
func (m *Mgr) Stats() Stats {
	return m.stats
}

// RequestStop makes the run stop at the next fault boundary; intended
// to be called from a callback
func (m *Mgr) RequestStop() {
	m.stop = true
}

// Run generates tests for every undetected representative fault. It
// always completes and returns the stats; per-fault outcomes arrive
// via the three callbacks, and solver budget exhaustion is absorbed as
// an aborted fault, never an error.
func (m *Mgr) Run(det CallbackDet, untest CallbackUndet, abort CallbackUndet, raw json.RawMessage) (Stats, error) {
	opts, err := ParseOptions(raw)
	if err != nil {
		return m.stats, err
	}
	just, err := NewJustifier(opts.JustType)
	if err != nil {
		return m.stats, err
	}
	dopts := DriverOptions{
		SatOptions: sat.Options{
			Type:    opts.SatType,
			Timeout: time.Duration(opts.SatTimeoutMs) * time.Millisecond,
		},
		Justifier: just,
		Stats:     &m.stats,
	}

	var sim *fsim.Fsim
	if opts.DropFault {
		sim = fsim.New(m.network, m.faultMgr.FaultType())
	}

	m.stop = false
	ft := m.faultMgr.FaultType()
	m.logger.Info().
		Str("dtpg_type", opts.DtpgType).
		Int("faults", len(m.faultMgr.FaultList())).
		Msg("starting test generation")

	process := func(d *Driver, faults []*circuit.Fault) {
		for _, f := range faults {
			if m.stop {
				return
			}
			if m.faultMgr.Status(f) != circuit.Undetected {
				continue
			}
			r := d.GenPattern(f)
			switch r.Status {
			case GenDetected:
				m.stats.DetCount++
				m.faultMgr.SetStatus(f, circuit.Detected)
				m.vectors = append(m.vectors, r.TestVector)
				if det != nil {
					det(m, f, r.TestVector)
				}
				if sim != nil {
					m.dropFaults(sim, f, r.TestVector, det)
				}
			case GenUntestable:
				m.stats.UntestCount++
				m.faultMgr.SetStatus(f, circuit.Untestable)
				if untest != nil {
					untest(m, f)
				}
			default:
				m.stats.AbortCount++
				if abort != nil {
					abort(m, f)
				}
			}
		}
	}

	switch opts.DtpgType {
	case "ffr":
		for _, ffr := range m.network.FFRs() {
			if m.stop {
				break
			}
			if !m.hasUndetected(ffr.FaultList) {
				continue
			}
			d, err := NewFFRDriver(m.network, ft, ffr, dopts)
			if err != nil {
				return m.stats, err
			}
			process(d, ffr.FaultList)
		}
	case "mffc":
		for _, mffc := range m.network.MFFCs() {
			if m.stop {
				break
			}
			if !m.hasUndetected(mffc.FaultList) {
				continue
			}
			d, err := NewMFFCDriver(m.network, ft, mffc, dopts)
			if err != nil {
				return m.stats, err
			}
			process(d, mffc.FaultList)
		}
	case "node":
		for _, f := range m.faultMgr.FaultList() {
			if m.stop {
				break
			}
			if m.faultMgr.Status(f) != circuit.Undetected {
				continue
			}
			d, err := NewNodeDriver(m.network, ft, f.Origin, dopts)
			if err != nil {
				return m.stats, err
			}
			process(d, []*circuit.Fault{f})
		}
	default:
		return m.stats, fmt.Errorf("dtpg: unknown dtpg_type %q", opts.DtpgType)
	}

	m.logger.Info().
		Int("detected", m.stats.DetCount).
		Int("untestable", m.stats.UntestCount).
		Int("aborted", m.stats.AbortCount).
		Msg("test generation finished")
	return m.stats, nil
}

// dropFaults simulates a fresh vector against all undetected faults
// and retires every additional fault it detects
func (m *Mgr) dropFaults(sim *fsim.Fsim, target *circuit.Fault, tv *tvec.TestVector, det CallbackDet) {
	sim.SetSkip(target)
	sim.SPPFP(tv, func(g *circuit.Fault) bool {
		if m.faultMgr.Status(g) == circuit.Undetected {
			m.stats.DetCount++
			m.faultMgr.SetStatus(g, circuit.Detected)
			sim.SetSkip(g)
			if det != nil {
				det(m, g, tv)
			}
		}
		return true
	})
}

func (m *Mgr) hasUndetected(faults []*circuit.Fault) bool {
	for _, f := range faults {
		if m.faultMgr.Status(f) == circuit.Undetected {
			return true
		}
	}
	return false
}

// RunRandom grades batches of random patterns through the parallel
// fault simulator before deterministic generation, retiring the easy
// faults first. Vectors that detect at least one new fault are kept.
func (m *Mgr) RunRandom(patNum int, seed int64, det CallbackDet) int {
	sim := fsim.New(m.network, m.faultMgr.FaultType())
	for _, f := range m.faultMgr.FaultList() {
		if m.faultMgr.Status(f) != circuit.Undetected {
			sim.SetSkip(f)
		}
	}
	rng := rand.New(rand.NewSource(seed))
	td := m.faultMgr.FaultType() == circuit.TransitionDelay
	dropped := 0
	for patNum > 0 {
		n := patNum
		if n > tvec.PvBitLen {
			n = tvec.PvBitLen
		}
		patNum -= n
		tvs := make([]*tvec.TestVector, n)
		for i := range tvs {
			tvs[i] = tvec.NewTestVector(m.network.InputNum(), m.network.DffNum(), td)
			tvs[i].SetFromRandom(rng)
		}
		used := make(map[int]bool)
		sim.PPSFP(tvs, func(f *circuit.Fault, mask tvec.PackedVal) bool {
			m.faultMgr.SetStatus(f, circuit.Detected)
			sim.SetSkip(f)
			m.stats.DetCount++
			dropped++
			// keep the first pattern that caught the fault
			for i := 0; i < n; i++ {
				if mask.Bit(i) {
					if !used[i] {
						used[i] = true
						m.vectors = append(m.vectors, tvs[i])
					}
					if det != nil {
						det(m, f, tvs[i])
					}
					break
				}
			}
			return true
		})
	}
	m.logger.Info().Int("dropped", dropped).Msg("random phase done")
	return dropped
}
