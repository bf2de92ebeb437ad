// Package conv provides checked integer conversions for word identifiers.
//
// Corpus words are addressed by uint32 so they fit roaring bitmaps. A corpus
// larger than that is a programming error, so the conversions panic instead
// of wrapping silently.
package conv

import "math"

// IntToUint32 converts a non-negative int to uint32.
// Panics if n < 0 or n > math.MaxUint32.
//
//go:inline
func IntToUint32(n int) uint32 {
	// Compare as uint: on 32-bit platforms int cannot hold math.MaxUint32.
	if n < 0 || uint(n) > math.MaxUint32 {
		panic("integer overflow: int value out of uint32 range")
	}
	return uint32(n)
}

// Uint32ToInt converts a word identifier back to a slice index.
// Panics if id does not fit in int.
//
//go:inline
func Uint32ToInt(id uint32) int {
	if uint64(id) > uint64(math.MaxInt) {
		panic("integer overflow: uint32 value out of int range")
	}
	return int(id)
}
