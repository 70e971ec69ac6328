// Package alloc provides a fixed-region pool allocator and the allocator
// capability it shares with a pass-through heap allocator.
//
// # Overview
//
// A Pool manages one contiguous region of caller-owned memory supplied at
// construction. It hands out and takes back variable-sized payloads from that
// region and never asks the Go runtime for payload memory. Bookkeeping lives
// in two places: a 16-byte header written into the region in front of every
// payload, and a table of block descriptors addressed by stable handles that
// threads the free list.
//
// # Allocator Interface
//
// Allocator is the shared capability:
//
//   - Allocate(n): return an n-byte payload, or nil
//   - Reallocate(p, n): resize p, moving it only when it cannot grow in place
//   - Deallocate(p): give p back
//
// Implementations:
//
//   - Pool: first-fit over an address-ordered free list inside a region
//   - Heap: forwards to the Go heap; useful where no region is available
//
// # Usage Example
//
//	m, err := region.Map(1 << 20)
//	if err != nil {
//	    return err
//	}
//	defer m.Close()
//
//	p, err := alloc.NewPool(m.Region(), nil)
//	if err != nil {
//	    return err
//	}
//
//	buf := p.Allocate(256)
//	if buf == nil {
//	    // region exhausted
//	}
//	buf = p.Reallocate(buf, 1024)
//	p.Deallocate(buf)
//
// # Region Layout
//
//	start                                   tail                 end
//	| hdr | payload | hdr | payload | ... |  untouched tail space  |
//
// Headers sit at HeaderAlign-aligned offsets and payload sizes are rounded up
// to HeaderAlign, so every payload is aligned for any scalar type. Blocks are
// carved lazily: from a free block when one fits, otherwise from the tail.
//
// # Allocation Policy
//
// Allocate scans the free list in address order and takes the first block big
// enough. If the leftover exceeds one header plus Config.SplitThreshold the
// block is split and the remainder stays on the list in the same position;
// otherwise the caller receives the whole block. When nothing fits a block is
// carved from the tail. When that fails too, Allocate returns nil and nothing
// has changed.
//
// # Coalescing
//
// Deallocate merges the freed block with the free blocks immediately before
// and after it, so the list never holds two adjacent entries. A free block
// that ends at the tail mark is folded back into tail space instead of being
// listed.
//
// # Misuse
//
// Passing a payload the pool did not hand out, freeing twice or using a
// payload after freeing it is undefined. Config.Debug turns the cheap cases
// into panics wrapping ErrBadPointer or ErrDoubleFree; Check audits the whole
// pool and is meant for tests.
package alloc
