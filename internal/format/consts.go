// Package format defines the intrusive block header that precedes every
// payload inside a pool region, plus the alignment arithmetic that places it.
// It is allocation-free and knows nothing about free lists; the allocator
// package orchestrates headers into blocks.
package format

import "unsafe"

// Header layout (little-endian), HeaderSize bytes, at every block start:
//
//	Offset  Size  Description
//	0x00    8     Usable payload size in bytes (excludes the header).
//	0x08    4     Descriptor handle of the block in the allocator's table.
//	0x0C    4     State magic: StateAllocated or StateFree.
//	0x10    ...   Payload.
const (
	HeaderSizeOffset   = 0x00
	HeaderHandleOffset = 0x08
	HeaderStateOffset  = 0x0C

	// HeaderSize is the number of bytes reserved in front of each payload.
	HeaderSize = 0x10
)

// MaxAlign is the platform's general-purpose alignment: the strictest
// alignment any scalar type needs (max_align_t on amd64 and arm64).
const MaxAlign = 16

// HeaderAlign is the alignment of every header and every payload.
const HeaderAlign = max(int(unsafe.Alignof(Header{})), MaxAlign)

// HeaderAlignMask is HeaderAlign-1, for masking.
const HeaderAlignMask = HeaderAlign - 1

// State is the header magic recording whether a block is handed out.
type State uint32

const (
	// StateAllocated marks a block owned by a caller.
	StateAllocated State = 0xA110CA7E
	// StateFree marks a block on the free list.
	StateFree State = 0xF4EEB10C
)

func (s State) String() string {
	switch s {
	case StateAllocated:
		return "allocated"
	case StateFree:
		return "free"
	default:
		return "invalid"
	}
}
