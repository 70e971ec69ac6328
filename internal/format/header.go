package format

import (
	"fmt"

	"github.com/joshuapare/poolkit/internal/buf"
)

// Header is the decoded form of a block header.
type Header struct {
	Size   uint64 // usable payload bytes
	Handle uint32 // descriptor handle
	State  State
}

// PutHeader encodes h at off. The caller guarantees off+HeaderSize <= len(b).
func PutHeader(b []byte, off int, h Header) {
	putU64(b, off+HeaderSizeOffset, h.Size)
	putU32(b, off+HeaderHandleOffset, h.Handle)
	putU32(b, off+HeaderStateOffset, uint32(h.State))
}

// PutState rewrites only the state magic of the header at off.
func PutState(b []byte, off int, s State) {
	putU32(b, off+HeaderStateOffset, uint32(s))
}

// ReadHeader decodes the header at off.
func ReadHeader(b []byte, off int) (Header, error) {
	raw, ok := buf.Slice(b, off, HeaderSize)
	if !ok {
		return Header{}, fmt.Errorf("header at %d: %w", off, ErrTruncated)
	}
	h := Header{
		Size:   buf.U64At(raw, HeaderSizeOffset),
		Handle: buf.U32At(raw, HeaderHandleOffset),
		State:  State(buf.U32At(raw, HeaderStateOffset)),
	}
	if h.State != StateAllocated && h.State != StateFree {
		return h, fmt.Errorf("header at %d: %w (0x%08x)", off, ErrBadMagic, uint32(h.State))
	}
	return h, nil
}
