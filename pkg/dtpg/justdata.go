package dtpg

import (
	"github.com/fyerfyer/druid-atpg/pkg/circuit"
	"github.com/fyerfyer/druid-atpg/pkg/enc"
	"github.com/fyerfyer/druid-atpg/pkg/sat"
	"github.com/fyerfyer/druid-atpg/pkg/tvec"
)

// JustData bundles the SAT model with the variable maps so that the
// justifiers and the extractor can read node values per time frame
type JustData struct {
	engine *enc.StructEngine
	model  sat.Model
}

// NewJustData wraps a model over the engine's variable maps
func NewJustData(engine *enc.StructEngine, model sat.Model) *JustData {
	return &JustData{engine: engine, model: model}
}

// Network returns the underlying network
func (jd *JustData) Network() *circuit.Network {
	return jd.engine.Network()
}

// HasPrevState returns true in transition-delay mode
func (jd *JustData) HasPrevState() bool {
	return jd.engine.HasPrev()
}

// Val returns the model value of a node in the given time frame; X if
// the node has no variable there
func (jd *JustData) Val(node, time int) tvec.Val3 {
	var l sat.Lit
	if time == 1 {
		if !jd.engine.HasGVar(node) {
			return tvec.ValX
		}
		l = jd.engine.GVar(node)
	} else {
		if !jd.engine.HasPVar(node) {
			return tvec.ValX
		}
		l = jd.engine.PVar(node)
	}
	switch jd.model.Val(l) {
	case sat.B3True:
		return tvec.Val1
	case sat.B3False:
		return tvec.Val0
	default:
		return tvec.ValX
	}
}

// FVal returns the model value of a node's faulty copy in the last
// time frame, falling back to the good value outside the faulty cone
func (jd *JustData) FVal(node int) tvec.Val3 {
	if !jd.engine.HasFVar(node) {
		return jd.Val(node, 1)
	}
	switch jd.model.Val(jd.engine.FVar(node)) {
	case sat.B3True:
		return tvec.Val1
	case sat.B3False:
		return tvec.Val0
	default:
		return tvec.ValX
	}
}
