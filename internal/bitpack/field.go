// Package bitpack packs small integers into masked bit ranges of a 64-bit word.
package bitpack

import "math/bits"

// MaskWidth returns the count of bits selected by mask.
func MaskWidth(mask uint64) int {
	return bits.OnesCount64(mask)
}

// IsContiguous returns true if mask is a non-empty run of consecutive bits.
func IsContiguous(mask uint64) bool {
	if mask == 0 {
		return false
	}
	shifted := mask >> bits.TrailingZeros64(mask)
	return shifted&(shifted+1) == 0
}

// IntoField shifts value into the bits selected by mask. ok is false when value does not fit the field, which is
// detected by extracting the field again and comparing.
func IntoField(mask, value uint64) (word uint64, ok bool) {
	word = (value << bits.TrailingZeros64(mask)) & mask
	return word, FromField(mask, word) == value
}

// FromField extracts the unsigned value stored in the bits of word selected by mask.
func FromField(mask, word uint64) uint64 {
	return (word & mask) >> bits.TrailingZeros64(mask)
}

// IntoSignedField stores value biased by half the field range so the field holds [-2^(w-1), 2^(w-1)) for a field of
// width w. ok is false when value is outside that range.
func IntoSignedField(mask uint64, value int64) (word uint64, ok bool) {
	word, ok = IntoField(mask, uint64(value)+bias(mask))
	return word, ok && FromSignedField(mask, word) == value
}

// FromSignedField extracts the signed value stored with IntoSignedField.
func FromSignedField(mask, word uint64) int64 {
	return int64(FromField(mask, word) - bias(mask))
}

func bias(mask uint64) uint64 {
	return 1 << (MaskWidth(mask) - 1)
}
