package fsim

import "github.com/fyerfyer/druid-atpg/pkg/tvec"

// PackedVal3 is a word of bit-parallel three-valued values in dual-rail
// form: V0 = "may be 0", V1 = "may be 1"; X is (1,1).
type PackedVal3 struct {
	V0 tvec.PackedVal
	V1 tvec.PackedVal
}

// pvAll0 is the all-0 constant word
func pvAll0() PackedVal3 {
	return PackedVal3{V0: tvec.PvAll1, V1: tvec.PvAll0}
}

// pvAll1 is the all-1 constant word
func pvAll1() PackedVal3 {
	return PackedVal3{V0: tvec.PvAll0, V1: tvec.PvAll1}
}

// pvAllX is the all-X constant word
func pvAllX() PackedVal3 {
	return PackedVal3{V0: tvec.PvAll1, V1: tvec.PvAll1}
}

// Fixed returns the mask of positions holding a definite 0 or 1
func (p PackedVal3) Fixed() tvec.PackedVal {
	return p.V0 ^ p.V1
}

// Mask1 returns the mask of positions fixed to 1
func (p PackedVal3) Mask1() tvec.PackedVal {
	return p.V1 &^ p.V0
}

// Mask0 returns the mask of positions fixed to 0
func (p PackedVal3) Mask0() tvec.PackedVal {
	return p.V0 &^ p.V1
}

// Not returns the word-parallel negation
func (p PackedVal3) Not() PackedVal3 {
	return PackedVal3{V0: p.V1, V1: p.V0}
}

// Flip inverts the positions selected by mask. Flipping is only
// meaningful on fixed positions; X stays X either way.
func (p PackedVal3) Flip(mask tvec.PackedVal) PackedVal3 {
	m := mask & p.Fixed()
	return PackedVal3{V0: p.V0 ^ m, V1: p.V1 ^ m}
}

// Diff returns the mask of positions where both words are fixed and
// hold different values
func Diff(a, b PackedVal3) tvec.PackedVal {
	return (a.V0 ^ b.V0) & (a.V1 ^ b.V1)
}

// FromVal3 broadcasts a scalar value to the whole word
func FromVal3(v tvec.Val3) PackedVal3 {
	switch v {
	case tvec.Val0:
		return pvAll0()
	case tvec.Val1:
		return pvAll1()
	default:
		return pvAllX()
	}
}

// SetBit writes a scalar value into one position of the word
func (p *PackedVal3) SetBit(pos int, v tvec.Val3) {
	m := tvec.BitMask(pos)
	switch v {
	case tvec.Val0:
		p.V0 |= m
		p.V1 &^= m
	case tvec.Val1:
		p.V0 &^= m
		p.V1 |= m
	default:
		p.V0 |= m
		p.V1 |= m
	}
}

// ValAt reads the scalar value at one position of the word
func (p PackedVal3) ValAt(pos int) tvec.Val3 {
	b0 := p.V0.Bit(pos)
	b1 := p.V1.Bit(pos)
	switch {
	case b0 && !b1:
		return tvec.Val0
	case !b0 && b1:
		return tvec.Val1
	default:
		return tvec.ValX
	}
}
