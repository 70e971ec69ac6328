package alloc

// Allocator is the capability shared by every allocator kind: hand out,
// resize and take back byte payloads. Code written against it works
// unmodified with a Pool or a Heap.
//
// All implementations follow the same edge rules:
//   - Allocate(n) with n <= 0 returns nil.
//   - Reallocate(nil, n) behaves like Allocate(n).
//   - Reallocate(p, n) with n <= 0 behaves like Deallocate(p) and returns nil.
//   - Deallocate(nil) does nothing.
//   - Any slice with zero capacity counts as nil.
//   - A nil result from Allocate or Reallocate means the request could not be
//     met; on Reallocate the original payload is then left untouched.
//
// Payloads have len equal to the request and cap equal to the usable size,
// and start at a MaxAlign-aligned address.
type Allocator interface {
	Allocate(n int) []byte
	Reallocate(p []byte, n int) []byte
	Deallocate(p []byte)
}

var (
	_ Allocator = (*Pool)(nil)
	_ Allocator = (*Heap)(nil)
)

// noCopy marks Pool as non-copyable for go vet's copylocks check. Two
// copies would manage the same region with diverging free lists.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
