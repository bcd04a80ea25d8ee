// Package bitops provides the scalar bit primitives used by the board.
package bitops

import "math/bits"

// CountTrailingZeroes returns the index of the lowest set bit, or 64 when x is zero.
func CountTrailingZeroes(x uint64) int {
	return bits.TrailingZeros64(x)
}

// CountSetBits returns the population count of x.
func CountSetBits(x uint64) int {
	return bits.OnesCount64(x)
}
