// Package buf contains bounds and endian helpers shared by the header codec
// and the region descriptor.
package buf

import "encoding/binary"

// U32At reads the little-endian uint32 at off. Reads that would run past b,
// or start before it, return 0.
func U32At(b []byte, off int) uint32 {
	s, ok := Slice(b, off, 4)
	if !ok {
		return 0
	}
	return binary.LittleEndian.Uint32(s)
}

// U64At reads the little-endian uint64 at off, or 0 when out of range.
func U64At(b []byte, off int) uint64 {
	s, ok := Slice(b, off, 8)
	if !ok {
		return 0
	}
	return binary.LittleEndian.Uint64(s)
}
