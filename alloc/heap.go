package alloc

import (
	"unsafe"

	"github.com/joshuapare/poolkit/internal/format"
)

// Heap is the pass-through Allocator: every payload comes from the Go
// runtime heap and is reclaimed by the garbage collector once dropped.
// It exists so code written against Allocator can run without a region.
//
// Heap keeps a count of live bytes for parity with Pool.Usage. Like Pool it
// is not safe for concurrent use.
type Heap struct {
	liveBytes  int
	liveBlocks int
}

// NewHeap returns a heap allocator.
func NewHeap() *Heap {
	return &Heap{}
}

// Allocate returns n zeroed bytes aligned to format.MaxAlign, or nil for
// n <= 0.
func (h *Heap) Allocate(n int) []byte {
	if n <= 0 || n > maxHeapRequest {
		return nil
	}
	raw := make([]byte, n+format.MaxAlign)
	addr := uintptr(unsafe.Pointer(unsafe.SliceData(raw)))
	shift := format.AlignUp(int(addr%format.MaxAlign), format.MaxAlign) - int(addr%format.MaxAlign)
	h.liveBytes += n
	h.liveBlocks++
	return raw[shift : shift+n : shift+n]
}

// Reallocate resizes ptr. Shrinking reslices in place; growing allocates,
// copies the old contents and drops ptr.
func (h *Heap) Reallocate(ptr []byte, n int) []byte {
	if cap(ptr) == 0 {
		return h.Allocate(n)
	}
	if n <= 0 {
		h.Deallocate(ptr)
		return nil
	}
	if n <= cap(ptr) {
		return ptr[:n]
	}
	dst := h.Allocate(n)
	if dst == nil {
		return nil
	}
	copy(dst, ptr[:cap(ptr)])
	h.Deallocate(ptr)
	return dst
}

// Deallocate forgets ptr. The memory is reclaimed by the garbage collector
// once no references remain.
func (h *Heap) Deallocate(ptr []byte) {
	if cap(ptr) == 0 {
		return
	}
	h.liveBytes -= cap(ptr)
	h.liveBlocks--
}

// Usage reports live payload bytes. Only InUseBytes and InUseBlocks are
// meaningful for a heap.
func (h *Heap) Usage() Usage {
	return Usage{InUseBytes: h.liveBytes, InUseBlocks: h.liveBlocks}
}

// maxHeapRequest keeps n+MaxAlign from overflowing.
const maxHeapRequest = int(^uint(0)>>1) - format.MaxAlign
