package circuit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssignListSetSemantics(t *testing.T) {
	al := NewAssignList()
	al.Add(3, 1, true)
	al.Add(1, 1, false)
	al.Add(3, 1, true) // duplicate collapses
	al.Add(1, 0, true)

	elems := al.Elems()
	assert.Len(t, elems, 3)
	assert.Equal(t, Assign{Node: 1, Time: 0, Val: true}, elems[0])
	assert.Equal(t, Assign{Node: 1, Time: 1, Val: false}, elems[1])
	assert.Equal(t, Assign{Node: 3, Time: 1, Val: true}, elems[2])
}

func TestAssignListConflictPanics(t *testing.T) {
	al := NewAssignList()
	al.Add(2, 1, true)
	al.Add(2, 1, false)
	assert.Panics(t, func() { al.Elems() })
}

func TestAssignListMerge(t *testing.T) {
	a := NewAssignList()
	a.Add(1, 1, true)
	b := NewAssignList()
	b.Add(2, 1, false)
	b.Add(1, 1, true)
	a.Merge(b)
	assert.Equal(t, 2, a.Size())

	c := a.Copy()
	c.Add(5, 0, true)
	assert.Equal(t, 3, c.Size())
	assert.Equal(t, 2, a.Size())
}
