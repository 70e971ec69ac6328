package format

import "encoding/binary"

// Field writers assume the caller has already checked off+HeaderSize against
// the buffer; the allocator only writes headers inside carved blocks.

func putU32(b []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(b[off:off+4], v)
}

func putU64(b []byte, off int, v uint64) {
	binary.LittleEndian.PutUint64(b[off:off+8], v)
}

// HandleAt returns the descriptor handle in the header at off without
// checking the rest of the header. It is the fast path for mapping a payload
// back to its block.
func HandleAt(b []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(b[off+HeaderHandleOffset:])
}
