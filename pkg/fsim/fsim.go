package fsim

import (
	"sort"

	"github.com/fyerfyer/druid-atpg/pkg/circuit"
	"github.com/fyerfyer/druid-atpg/pkg/tvec"
)

// Fsim is an event-driven bit-parallel fault simulator. One instance
// owns its SimNode values and event queue and must not be shared
// between goroutines.
type Fsim struct {
	network   *circuit.Network
	faultType circuit.FaultType

	nodes      []*SimNode
	levelOrder []*SimNode // non-PPI nodes sorted by level
	ppis       []*SimNode
	ppos       []*SimNode
	ffrs       []*SimFFR
	faults     []*SimFault
	faultOf    map[int]*SimFault // by network fault id

	eventQ *EventQ

	// faulty-value overlay used during one propagation pass
	fval     []PackedVal3
	fvalid   []bool
	modified []*SimNode
}

// New creates a simulator over the network's representative faults for
// the given fault model
func New(nw *circuit.Network, ft circuit.FaultType) *Fsim {
	f := &Fsim{
		network:   nw,
		faultType: ft,
		nodes:     make([]*SimNode, nw.NodeNum()),
		faultOf:   make(map[int]*SimFault),
		fval:      make([]PackedVal3, nw.NodeNum()),
		fvalid:    make([]bool, nw.NodeNum()),
	}

	maxLevel := 0
	for _, n := range nw.Nodes() {
		sn := &SimNode{
			ID:        n.ID,
			Level:     n.Level,
			Kind:      n.Kind,
			Gate:      n.Gate,
			FaninIDs:  n.FaninIDs,
			FanoutIDs: n.FanoutIDs,
			FFR:       -1,
		}
		f.nodes[n.ID] = sn
		if n.Level > maxLevel {
			maxLevel = n.Level
		}
		if n.IsPPI() {
			f.ppis = append(f.ppis, sn)
		} else {
			f.levelOrder = append(f.levelOrder, sn)
		}
		if n.IsPPO() {
			f.ppos = append(f.ppos, sn)
		}
	}
	sort.Slice(f.levelOrder, func(i, j int) bool {
		a, b := f.levelOrder[i], f.levelOrder[j]
		if a.Level != b.Level {
			return a.Level < b.Level
		}
		return a.ID < b.ID
	})
	// PPIs come in PPI order so that pattern loading is positional
	sort.Slice(f.ppis, func(i, j int) bool {
		return nw.Node(f.ppis[i].ID).InputID < nw.Node(f.ppis[j].ID).InputID
	})

	for i, ffr := range nw.FFRs() {
		sf := &SimFFR{Root: ffr.Root}
		for _, id := range ffr.NodeIDs {
			f.nodes[id].FFR = i
		}
		for _, flt := range ffr.FaultList {
			rec := &SimFault{Fault: flt, ExNode: flt.ExNodeID(), Val: flt.Val}
			sf.FaultList = append(sf.FaultList, rec)
			f.faults = append(f.faults, rec)
			f.faultOf[flt.ID] = rec
		}
		f.ffrs = append(f.ffrs, sf)
	}

	f.eventQ = NewEventQ(maxLevel)
	return f
}

// FaultType returns the simulator's fault model
func (f *Fsim) FaultType() circuit.FaultType {
	return f.faultType
}

// SetSkip marks a fault so that later simulations ignore it
func (f *Fsim) SetSkip(flt *circuit.Fault) {
	if rec, ok := f.faultOf[flt.ID]; ok {
		rec.Skip = true
	}
}

// ClearSkip re-enables a fault
func (f *Fsim) ClearSkip(flt *circuit.Fault) {
	if rec, ok := f.faultOf[flt.ID]; ok {
		rec.Skip = false
	}
}

// SetSkipAll marks every fault as skipped
func (f *Fsim) SetSkipAll() {
	for _, rec := range f.faults {
		rec.Skip = true
	}
}

// ClearSkipAll re-enables every fault
func (f *Fsim) ClearSkipAll() {
	for _, rec := range f.faults {
		rec.Skip = false
	}
}

// checkMode panics on a fault-model mismatch between the simulator and
// a supplied test vector
func (f *Fsim) checkMode(tv *tvec.TestVector) {
	if tv.TdMode() != (f.faultType == circuit.TransitionDelay) {
		panic("fsim: fault model mismatch between simulator and test vector")
	}
}

// evalAll recomputes every non-PPI node in level order
func (f *Fsim) evalAll() {
	good := func(id int) PackedVal3 { return f.nodes[id].Val }
	for _, sn := range f.levelOrder {
		sn.Val = sn.calcVal(good)
	}
}

// calcGval loads up to W patterns into the PPIs and computes the good
// values of every node. Bits at and above len(tvs) stay X. In
// transition-delay mode the two-frame schedule runs: time-0 values are
// captured into PrevVal and DFF outputs receive their alt node's
// captured value.
func (f *Fsim) calcGval(tvs []*tvec.TestVector) {
	for _, tv := range tvs {
		f.checkMode(tv)
	}
	nw := f.network
	if f.faultType == circuit.StuckAt {
		for _, sn := range f.ppis {
			ppi := nw.Node(sn.ID).InputID
			v := pvAllX()
			for p, tv := range tvs {
				v.SetBit(p, tv.PPIVal(ppi))
			}
			sn.Val = v
		}
		f.evalAll()
		return
	}

	// time frame 0
	for _, sn := range f.ppis {
		n := nw.Node(sn.ID)
		v := pvAllX()
		for p, tv := range tvs {
			if n.IsDffOutput() {
				v.SetBit(p, tv.DffVal(n.DffID))
			} else {
				v.SetBit(p, tv.InputVal(0, n.InputID))
			}
		}
		sn.Val = v
	}
	f.evalAll()
	for _, sn := range f.nodes {
		sn.PrevVal = sn.Val
	}

	// time frame 1: DFF outputs capture their DFF input's frame-0 value
	for _, sn := range f.ppis {
		n := nw.Node(sn.ID)
		if n.IsDffOutput() {
			sn.Val = f.nodes[n.AltNode].PrevVal
			continue
		}
		v := pvAllX()
		for p, tv := range tvs {
			v.SetBit(p, tv.InputVal(1, n.InputID))
		}
		sn.Val = v
	}
	f.evalAll()
}

// localObs returns the per-pattern mask under which the fault is
// excited and its effect reaches the FFR root: the excitation mask of
// the faulty line intersected with the precomputed side-input
// condition.
func (f *Fsim) localObs(rec *SimFault) tvec.PackedVal {
	ex := f.nodes[rec.ExNode]
	var mask tvec.PackedVal
	if rec.Val == 0 {
		mask = ex.Val.Mask1()
	} else {
		mask = ex.Val.Mask0()
	}
	if f.faultType == circuit.TransitionDelay {
		// the initial frame must hold the pre-transition value
		if rec.Val == 0 {
			mask &= ex.PrevVal.Mask0()
		} else {
			mask &= ex.PrevVal.Mask1()
		}
	}
	for _, as := range rec.Fault.FFRPropagateCondition().Elems() {
		sn := f.nodes[as.Node]
		if as.Val {
			mask &= sn.Val.Mask1()
		} else {
			mask &= sn.Val.Mask0()
		}
	}
	return mask
}

type seed struct {
	node int
	flip tvec.PackedVal
}

// fvalOf returns the effective faulty value of a node during a
// propagation pass
func (f *Fsim) fvalOf(id int) PackedVal3 {
	if f.fvalid[id] {
		return f.fval[id]
	}
	return f.nodes[id].Val
}

func (f *Fsim) setFval(sn *SimNode, v PackedVal3) {
	if !f.fvalid[sn.ID] {
		f.fvalid[sn.ID] = true
		f.modified = append(f.modified, sn)
	}
	f.fval[sn.ID] = v
}

// propagate runs one faulty event propagation from the seeded nodes and
// returns the mask of patterns observed at some PPO. The overlay is
// rolled back before returning.
func (f *Fsim) propagate(seeds []seed) tvec.PackedVal {
	for _, s := range seeds {
		sn := f.nodes[s.node]
		fv := sn.Val.Flip(s.flip)
		if fv == sn.Val {
			continue
		}
		f.setFval(sn, fv)
		for _, fo := range sn.FanoutIDs {
			f.eventQ.Put(f.nodes[fo])
		}
	}
	for sn := f.eventQ.Get(); sn != nil; sn = f.eventQ.Get() {
		nv := sn.calcVal(f.fvalOf)
		if nv == f.fvalOf(sn.ID) {
			continue
		}
		f.setFval(sn, nv)
		for _, fo := range sn.FanoutIDs {
			f.eventQ.Put(f.nodes[fo])
		}
	}

	var obs tvec.PackedVal
	for _, ppo := range f.ppos {
		obs |= Diff(ppo.Val, f.fvalOf(ppo.ID))
	}

	for _, sn := range f.modified {
		f.fvalid[sn.ID] = false
	}
	f.modified = f.modified[:0]
	return obs
}

// SPSFP simulates one pattern against one fault and reports detection
func (f *Fsim) SPSFP(tv *tvec.TestVector, flt *circuit.Fault) bool {
	f.checkMode(tv)
	rec, ok := f.faultOf[flt.ID]
	if !ok {
		rec, ok = f.faultOf[flt.Rep.ID]
		if !ok {
			panic("fsim: fault not registered with this simulator")
		}
	}
	f.calcGval([]*tvec.TestVector{tv})
	lobs := f.localObs(rec)
	if lobs == tvec.PvAll0 {
		return false
	}
	obs := f.propagate([]seed{{node: rec.Fault.Origin.FFRRoot, flip: lobs}})
	return lobs&obs != tvec.PvAll0
}

// SPPFP simulates one pattern and injects every not-skipped fault in
// parallel, packing W fault effects per word. The callback receives
// each detected fault; returning false stops the scan between batches.
func (f *Fsim) SPPFP(tv *tvec.TestVector, cb func(flt *circuit.Fault) bool) {
	f.checkMode(tv)
	// broadcast the pattern to every bit so that fault i can ride bit i
	tvs := make([]*tvec.TestVector, tvec.PvBitLen)
	for i := range tvs {
		tvs[i] = tv
	}
	f.calcGval(tvs)

	batch := make([]*SimFault, 0, tvec.PvBitLen)

	flush := func() bool {
		if len(batch) == 0 {
			return true
		}
		flips := make(map[int]tvec.PackedVal)
		for i, rec := range batch {
			root := rec.Fault.Origin.FFRRoot
			flips[root] |= tvec.BitMask(i)
		}
		seeds := make([]seed, 0, len(flips))
		for node, flip := range flips {
			seeds = append(seeds, seed{node: node, flip: flip})
		}
		sort.Slice(seeds, func(i, j int) bool { return seeds[i].node < seeds[j].node })
		obs := f.propagate(seeds)
		cont := true
		for i, rec := range batch {
			if obs.Bit(i) {
				if !cb(rec.Fault) {
					cont = false
				}
			}
		}
		batch = batch[:0]
		return cont
	}

	for _, ffr := range f.ffrs {
		for _, rec := range ffr.FaultList {
			if rec.Skip {
				continue
			}
			// the whole word carries one pattern, so local
			// observability is a yes/no
			if f.localObs(rec) == tvec.PvAll0 {
				continue
			}
			batch = append(batch, rec)
			if len(batch) == tvec.PvBitLen {
				if !flush() {
					return
				}
			}
		}
	}
	flush()
}

// PPSFP packs up to W patterns into the word bits and reports, per
// fault, the mask of detecting patterns. Faults of one FFR share a
// single global propagation from the region root. The callback may
// return false to stop after the current region.
func (f *Fsim) PPSFP(tvs []*tvec.TestVector, cb func(flt *circuit.Fault, mask tvec.PackedVal) bool) {
	if len(tvs) == 0 {
		return
	}
	if len(tvs) > tvec.PvBitLen {
		panic("fsim: more than W patterns in one ppsfp call")
	}
	f.calcGval(tvs)
	valid := tvec.LowerMask(len(tvs))

	for _, ffr := range f.ffrs {
		var req tvec.PackedVal
		for _, rec := range ffr.FaultList {
			rec.ObsMask = tvec.PvAll0
			if rec.Skip {
				continue
			}
			rec.ObsMask = f.localObs(rec) & valid
			req |= rec.ObsMask
		}
		if req == tvec.PvAll0 {
			continue
		}
		obs := f.propagate([]seed{{node: ffr.Root, flip: req}})
		stop := false
		for _, rec := range ffr.FaultList {
			det := rec.ObsMask & obs
			rec.ObsMask = det
			if det != tvec.PvAll0 {
				if !cb(rec.Fault, det) {
					stop = true
				}
			}
		}
		if stop {
			return
		}
	}
}
