package enc

import (
	"fmt"

	"github.com/fyerfyer/druid-atpg/pkg/sat"
)

// VidMap maps node ids to solver literals for one variable class
// (good, faulty or previous-frame values)
type VidMap struct {
	lits  []sat.Lit
	bound []bool
}

// NewVidMap creates an empty map for a network with n nodes
func NewVidMap(n int) *VidMap {
	return &VidMap{
		lits:  make([]sat.Lit, n),
		bound: make([]bool, n),
	}
}

// Bind associates a literal with a node
func (m *VidMap) Bind(node int, l sat.Lit) {
	m.lits[node] = l
	m.bound[node] = true
}

// Has returns true if the node has a literal
func (m *VidMap) Has(node int) bool {
	return m.bound[node]
}

// Lit returns the literal of a node; asking for an unbound node is an
// invariant violation
func (m *VidMap) Lit(node int) sat.Lit {
	if !m.bound[node] {
		panic(fmt.Sprintf("enc: node %d has no variable", node))
	}
	return m.lits[node]
}
