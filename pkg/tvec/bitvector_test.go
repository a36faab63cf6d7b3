package tvec

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fromBin(t *testing.T, s string) *BitVector {
	t.Helper()
	bv := NewBitVector(len(s))
	require.True(t, bv.SetFromBin(s))
	return bv
}

func TestBitVectorInit(t *testing.T) {
	bv := NewBitVector(10)
	assert.Equal(t, 10, bv.Len())
	assert.Equal(t, 10, bv.XCount())
	for i := 0; i < 10; i++ {
		assert.Equal(t, ValX, bv.Val(i))
	}
}

func TestBitVectorSetVal(t *testing.T) {
	bv := NewBitVector(70) // spans two block pairs
	bv.Set(0, Val0)
	bv.Set(1, Val1)
	bv.Set(65, Val1)
	assert.Equal(t, Val0, bv.Val(0))
	assert.Equal(t, Val1, bv.Val(1))
	assert.Equal(t, Val1, bv.Val(65))
	assert.Equal(t, ValX, bv.Val(64))
	assert.Equal(t, 67, bv.XCount())

	bv.Set(1, ValX)
	assert.Equal(t, ValX, bv.Val(1))
	assert.Equal(t, 68, bv.XCount())
}

func TestBitVectorMergeConflict(t *testing.T) {
	// the E3 scenario
	a := fromBin(t, "0XX1")
	b := fromBin(t, "X10X")
	assert.False(t, IsConflict(a, b))

	c := a.Copy()
	require.True(t, c.Merge(b))
	assert.Equal(t, "0101", c.BinStr())

	b2 := fromBin(t, "1XXX")
	assert.True(t, IsConflict(a, b2))
	before := a.BinStr()
	assert.False(t, a.Copy().Merge(b2))
	assert.Equal(t, before, a.BinStr())
}

// merge succeeds iff no conflict, and the result contains both
// operands
func TestBitVectorMergeLaw(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	vals := []byte{'0', '1', 'X'}
	for iter := 0; iter < 200; iter++ {
		n := 1 + rng.Intn(130)
		sa := make([]byte, n)
		sb := make([]byte, n)
		for i := range sa {
			sa[i] = vals[rng.Intn(3)]
			sb[i] = vals[rng.Intn(3)]
		}
		a := fromBin(t, string(sa))
		b := fromBin(t, string(sb))

		conflict := false
		for i := 0; i < n; i++ {
			av, bv := a.Val(i), b.Val(i)
			if av.IsFixed() && bv.IsFixed() && av != bv {
				conflict = true
			}
		}
		assert.Equal(t, conflict, IsConflict(a, b))

		c := a.Copy()
		ok := c.Merge(b)
		assert.Equal(t, !conflict, ok)
		if ok {
			assert.True(t, IsSubset(a, c))
			assert.True(t, IsSubset(b, c))
			for i := 0; i < n; i++ {
				want := a.Val(i)
				if want == ValX {
					want = b.Val(i)
				}
				assert.Equal(t, want, c.Val(i))
			}
		}
	}
}

func TestBitVectorIsSubset(t *testing.T) {
	a := fromBin(t, "0XX1")
	c := fromBin(t, "0101")
	assert.True(t, IsSubset(a, c))
	assert.False(t, IsSubset(c, a))
	assert.True(t, IsSubset(a, a))
}

func TestBitVectorBinRoundTrip(t *testing.T) {
	s := "01X10XX1"
	bv := fromBin(t, s)
	assert.Equal(t, s, bv.BinStr())

	// a short string pads with X, any other character fails
	short := NewBitVector(4)
	require.True(t, short.SetFromBin("01"))
	assert.Equal(t, "01XX", short.BinStr())
	assert.False(t, short.SetFromBin("012"))
}

func TestBitVectorHex(t *testing.T) {
	// LSB-first nibbles: "1100 1" reads as 0x3, 0x1
	bv := fromBin(t, "11001")
	assert.Equal(t, "31", bv.HexStr())

	// X serializes as 0, so the round trip only holds for X-free
	// vectors
	withX := fromBin(t, "1X001")
	assert.Equal(t, "11", withX.HexStr())
	back := NewBitVector(5)
	require.True(t, back.SetFromHex(withX.HexStr()))
	assert.Equal(t, "10001", back.BinStr())

	full := fromBin(t, "11001")
	rt := NewBitVector(5)
	require.True(t, rt.SetFromHex(full.HexStr()))
	assert.Equal(t, full.BinStr(), rt.BinStr())

	bad := NewBitVector(5)
	assert.False(t, bad.SetFromHex("g1"))
	assert.False(t, bad.SetFromHex("1")) // too short
}

func TestBitVectorRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	bv := NewBitVector(100)
	bv.SetFromRandom(rng)
	assert.Equal(t, 0, bv.XCount())

	bv2 := fromBin(t, "0XX1")
	bv2.FixXFromRandom(rng)
	assert.Equal(t, 0, bv2.XCount())
	assert.Equal(t, Val0, bv2.Val(0))
	assert.Equal(t, Val1, bv2.Val(3))
}
