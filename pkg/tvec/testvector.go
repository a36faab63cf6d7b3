package tvec

import "math/rand"

// TestVector is a test pattern over the primary inputs and DFFs of a
// circuit. For stuck-at tests the layout is [inputs, DFFs]; for
// transition-delay tests it is [inputs-time-0, DFFs-time-0,
// inputs-time-1].
type TestVector struct {
	inputNum int
	dffNum   int
	tdMode   bool
	vec      *BitVector
}

// NewTestVector creates an all-X test vector for a circuit with the
// given input and DFF counts. tdMode selects the two-frame
// transition-delay layout.
func NewTestVector(inputNum, dffNum int, tdMode bool) *TestVector {
	length := inputNum + dffNum
	if tdMode {
		length = inputNum*2 + dffNum
	}
	return &TestVector{
		inputNum: inputNum,
		dffNum:   dffNum,
		tdMode:   tdMode,
		vec:      NewBitVector(length),
	}
}

// InputNum returns the number of primary inputs
func (tv *TestVector) InputNum() int {
	return tv.inputNum
}

// DffNum returns the number of DFFs
func (tv *TestVector) DffNum() int {
	return tv.dffNum
}

// TdMode returns true for the transition-delay layout
func (tv *TestVector) TdMode() bool {
	return tv.tdMode
}

// Len returns the vector length
func (tv *TestVector) Len() int {
	return tv.vec.Len()
}

// PPINum returns the number of pseudo-primary inputs of one time frame
func (tv *TestVector) PPINum() int {
	return tv.inputNum + tv.dffNum
}

// PPIVal returns the value of the pos-th PPI (stuck-at layout)
func (tv *TestVector) PPIVal(pos int) Val3 {
	if tv.tdMode {
		panic("tvec: PPIVal on a transition-delay vector")
	}
	return tv.vec.Val(pos)
}

// SetPPIVal sets the value of the pos-th PPI (stuck-at layout)
func (tv *TestVector) SetPPIVal(pos int, val Val3) {
	if tv.tdMode {
		panic("tvec: SetPPIVal on a transition-delay vector")
	}
	tv.vec.Set(pos, val)
}

// InputVal returns the value of the pos-th primary input at the given
// time frame
func (tv *TestVector) InputVal(time, pos int) Val3 {
	return tv.vec.Val(tv.inputOffset(time) + pos)
}

// SetInputVal sets the value of the pos-th primary input at the given
// time frame
func (tv *TestVector) SetInputVal(time, pos int, val Val3) {
	tv.vec.Set(tv.inputOffset(time)+pos, val)
}

// DffVal returns the time-0 value of the pos-th DFF
func (tv *TestVector) DffVal(pos int) Val3 {
	return tv.vec.Val(tv.inputNum + pos)
}

// SetDffVal sets the time-0 value of the pos-th DFF
func (tv *TestVector) SetDffVal(pos int, val Val3) {
	tv.vec.Set(tv.inputNum+pos, val)
}

func (tv *TestVector) inputOffset(time int) int {
	switch {
	case time == 0:
		return 0
	case time == 1 && tv.tdMode:
		return tv.inputNum + tv.dffNum
	default:
		panic("tvec: time frame out of range")
	}
}

// XCount returns the number of X positions
func (tv *TestVector) XCount() int {
	return tv.vec.XCount()
}

// Copy returns a deep copy of the vector
func (tv *TestVector) Copy() *TestVector {
	return &TestVector{
		inputNum: tv.inputNum,
		dffNum:   tv.dffNum,
		tdMode:   tv.tdMode,
		vec:      tv.vec.Copy(),
	}
}

// IsCompat returns true if the two vectors have no conflicting fixed
// position
func IsCompat(a, b *TestVector) bool {
	return !IsConflict(a.vec, b.vec)
}

// MergeVector intersects src into tv; it fails and leaves tv untouched
// if the vectors conflict
func (tv *TestVector) MergeVector(src *TestVector) bool {
	return tv.vec.Merge(src.vec)
}

// SetFromRandom fills every position with a uniform random 0/1
func (tv *TestVector) SetFromRandom(rng *rand.Rand) {
	tv.vec.SetFromRandom(rng)
}

// FixXFromRandom replaces every X position with a random 0/1
func (tv *TestVector) FixXFromRandom(rng *rand.Rand) {
	tv.vec.FixXFromRandom(rng)
}

// BinStr returns the vector in binary form
func (tv *TestVector) BinStr() string {
	return tv.vec.BinStr()
}

// HexStr returns the vector in hex form; X is serialized as 0
func (tv *TestVector) HexStr() string {
	return tv.vec.HexStr()
}

// SetFromBin fills the vector from a binary string
func (tv *TestVector) SetFromBin(s string) bool {
	return tv.vec.SetFromBin(s)
}

// SetFromHex fills the vector from a hex string
func (tv *TestVector) SetFromHex(s string) bool {
	return tv.vec.SetFromHex(s)
}

// Vector returns the underlying bit vector
func (tv *TestVector) Vector() *BitVector {
	return tv.vec
}

// String returns the binary form
func (tv *TestVector) String() string {
	return tv.vec.BinStr()
}

// InputVector extracts the primary-input slice of the given time frame
func (tv *TestVector) InputVector(time int) *InputVector {
	iv := NewInputVector(tv.inputNum)
	off := tv.inputOffset(time)
	for i := 0; i < tv.inputNum; i++ {
		iv.vec.Set(i, tv.vec.Val(off+i))
	}
	return iv
}

// DffVector extracts the time-0 DFF slice
func (tv *TestVector) DffVector() *DffVector {
	dv := NewDffVector(tv.dffNum)
	for i := 0; i < tv.dffNum; i++ {
		dv.vec.Set(i, tv.vec.Val(tv.inputNum+i))
	}
	return dv
}
