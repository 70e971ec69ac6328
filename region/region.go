// Package region describes the contiguous memory ranges handed to pool
// allocators and provides anonymous mappings to back them.
//
// A Region is a plain descriptor (pointer plus length). It performs no
// allocator logic and never frees the memory it describes; whoever produced
// the bytes owns them.
package region

import (
	"unsafe"

	"github.com/joshuapare/poolkit/internal/buf"
)

// Region is a caller-owned, fixed-size byte range. The zero value is an
// empty region.
type Region struct {
	mem []byte
}

// New describes b. Capacity beyond len(b) is not part of the region.
func New(b []byte) Region {
	if len(b) == 0 {
		return Region{}
	}
	return Region{mem: b[:len(b):len(b)]}
}

// FromPointer describes size bytes starting at base. The memory must stay
// valid for as long as the region is in use, and must not hold Go pointers
// the garbage collector needs to see.
func FromPointer(base unsafe.Pointer, size int) Region {
	if base == nil || size <= 0 {
		return Region{}
	}
	return Region{mem: unsafe.Slice((*byte)(base), size)}
}

// Bytes returns the described memory.
func (r Region) Bytes() []byte { return r.mem }

// Len returns the region size in bytes.
func (r Region) Len() int { return len(r.mem) }

// Empty reports whether the region has no bytes.
func (r Region) Empty() bool { return len(r.mem) == 0 }

// Base returns the address of the first byte, or 0 for an empty region.
func (r Region) Base() uintptr {
	if len(r.mem) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(unsafe.SliceData(r.mem)))
}

// End returns the address one past the last byte.
func (r Region) End() uintptr {
	return r.Base() + uintptr(len(r.mem))
}

// Sub returns the n bytes at off as their own region.
func (r Region) Sub(off, n int) (Region, bool) {
	b, ok := buf.Slice(r.mem, off, n)
	if !ok {
		return Region{}, false
	}
	return New(b), true
}

// Offset returns the offset of p's first byte within r. ok is false when p
// is nil or starts outside the region. Only the start address is checked.
func (r Region) Offset(p []byte) (int, bool) {
	data := unsafe.SliceData(p)
	if data == nil || len(r.mem) == 0 {
		return 0, false
	}
	addr := uintptr(unsafe.Pointer(data))
	base := r.Base()
	if addr < base || addr >= r.End() {
		return 0, false
	}
	return int(addr - base), true
}

// Contains reports whether every byte of p lies inside r.
func (r Region) Contains(p []byte) bool {
	off, ok := r.Offset(p)
	return ok && buf.Has(r.mem, off, len(p))
}
