package format

import "math"

// AlignUp returns n rounded up to the next multiple of a, which must be a
// power of two.
//
// Example:
//
//	AlignUp(1, 16)  = 16
//	AlignUp(16, 16) = 16
//	AlignUp(17, 16) = 32
func AlignUp(n, a int) int {
	return (n + a - 1) &^ (a - 1)
}

// AlignSize rounds a requested payload size up to HeaderAlign so the header
// following the payload stays aligned. ok is false for negative sizes and for
// sizes that would overflow int when rounded.
func AlignSize(n int) (int, bool) {
	if n < 0 || n > math.MaxInt-HeaderAlignMask {
		return 0, false
	}
	return AlignUp(n, HeaderAlign), true
}

// AlignPayload returns the first address at or after addr+HeaderSize that
// satisfies HeaderAlign. The HeaderSize bytes in front of the result are the
// block header.
//
// Example (HeaderAlign = 16):
//
//	AlignPayload(0x1000) = 0x1010
//	AlignPayload(0x1001) = 0x1020
func AlignPayload(addr uintptr) uintptr {
	const mask = uintptr(HeaderAlignMask)
	return (addr + HeaderSize + mask) &^ mask
}

// IsAligned reports whether addr satisfies HeaderAlign.
func IsAligned(addr uintptr) bool {
	return addr&uintptr(HeaderAlignMask) == 0
}
