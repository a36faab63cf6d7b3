package tvec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTestVectorStuckAtLayout(t *testing.T) {
	tv := NewTestVector(3, 2, false)
	assert.Equal(t, 5, tv.Len())
	assert.Equal(t, 5, tv.PPINum())

	tv.SetPPIVal(0, Val1)
	tv.SetPPIVal(4, Val0)
	assert.Equal(t, Val1, tv.PPIVal(0))
	assert.Equal(t, Val0, tv.PPIVal(4))
	assert.Equal(t, 3, tv.XCount())
}

func TestTestVectorTransitionLayout(t *testing.T) {
	// [inputs-t0, DFFs-t0, inputs-t1]
	tv := NewTestVector(2, 1, true)
	assert.Equal(t, 5, tv.Len())

	tv.SetInputVal(0, 0, Val0)
	tv.SetDffVal(0, Val1)
	tv.SetInputVal(1, 0, Val1)
	assert.Equal(t, Val0, tv.InputVal(0, 0))
	assert.Equal(t, Val1, tv.DffVal(0))
	assert.Equal(t, Val1, tv.InputVal(1, 0))
	assert.Equal(t, "0X11X", tv.BinStr())

	assert.Panics(t, func() { tv.PPIVal(0) })
}

func TestTestVectorCompat(t *testing.T) {
	a := NewTestVector(4, 0, false)
	b := NewTestVector(4, 0, false)
	a.SetPPIVal(0, Val0)
	b.SetPPIVal(0, Val0)
	b.SetPPIVal(1, Val1)
	assert.True(t, IsCompat(a, b))
	assert.True(t, a.MergeVector(b))
	assert.Equal(t, Val1, a.PPIVal(1))

	c := NewTestVector(4, 0, false)
	c.SetPPIVal(0, Val1)
	assert.False(t, IsCompat(a, c))
	assert.False(t, a.MergeVector(c))
}

func TestTestVectorSlices(t *testing.T) {
	tv := NewTestVector(2, 1, true)
	tv.SetInputVal(0, 1, Val1)
	tv.SetDffVal(0, Val0)
	tv.SetInputVal(1, 0, Val0)

	iv0 := tv.InputVector(0)
	assert.Equal(t, "X1", iv0.BinStr())
	iv1 := tv.InputVector(1)
	assert.Equal(t, "0X", iv1.BinStr())
	dv := tv.DffVector()
	assert.Equal(t, "0", dv.BinStr())
}
