package alloc

import (
	"unsafe"

	"github.com/joshuapare/poolkit/internal/buf"
)

// The typed helpers view allocator payloads as []T. They are generic over
// the allocator so calls on a concrete *Pool or *Heap dispatch statically.
//
// T must not contain Go pointers: pool regions are invisible to the garbage
// collector, so pointers stored there would not keep their targets alive.

// AllocateSlice returns a []T of length n backed by a.Allocate, or nil when
// n <= 0, n*sizeof(T) overflows, or a is exhausted.
func AllocateSlice[T any, A Allocator](a A, n int) []T {
	size, ok := sliceBytes[T](n)
	if !ok {
		return nil
	}
	return asSlice[T](a.Allocate(size), n)
}

// ReallocateSlice resizes s to n elements through a.Reallocate, keeping the
// first min(len, n) elements. On failure it returns nil and s is unchanged.
func ReallocateSlice[T any, A Allocator](a A, s []T, n int) []T {
	if n <= 0 {
		DeallocateSlice(a, s)
		return nil
	}
	size, ok := sliceBytes[T](n)
	if !ok {
		return nil
	}
	return asSlice[T](a.Reallocate(asBytes(s), size), n)
}

// DeallocateSlice returns s's memory to a.
func DeallocateSlice[T any, A Allocator](a A, s []T) {
	a.Deallocate(asBytes(s))
}

func sliceBytes[T any](n int) (int, bool) {
	var zero T
	size, ok := buf.MulOverflowSafe(n, int(unsafe.Sizeof(zero)))
	if !ok || size <= 0 {
		return 0, false
	}
	return size, true
}

// asSlice views b as n elements, keeping any spare capacity b carries.
func asSlice[T any](b []byte, n int) []T {
	if b == nil {
		return nil
	}
	var zero T
	c := cap(b) / int(unsafe.Sizeof(zero))
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(b))), c)[:n]
}

// asBytes views s's full capacity as bytes.
func asBytes[T any](s []T) []byte {
	data := unsafe.SliceData(s)
	if data == nil {
		return nil
	}
	var zero T
	return unsafe.Slice((*byte)(unsafe.Pointer(data)), cap(s)*int(unsafe.Sizeof(zero)))
}
