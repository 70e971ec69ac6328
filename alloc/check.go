package alloc

import (
	"fmt"
	"iter"
	"math"

	"github.com/joshuapare/poolkit/internal/buf"
	"github.com/joshuapare/poolkit/internal/format"
)

// BlockInfo describes one carved block.
type BlockInfo struct {
	Offset int  // header offset from the region start
	Size   int  // usable payload bytes
	Free   bool // on the free list
}

// Payload returns the payload offset from the region start.
func (b BlockInfo) Payload() int { return b.Offset + format.HeaderSize }

// Blocks walks the carved blocks in address order by following the headers
// in the region. The pool must not be modified during the walk.
func (p *Pool) Blocks() iter.Seq[BlockInfo] {
	return func(yield func(BlockInfo) bool) {
		for off := p.start; off < p.tail; {
			hdr, err := format.ReadHeader(p.mem, off)
			if err != nil || hdr.Size > math.MaxInt-uint64(format.HeaderSize) {
				return
			}
			if !yield(BlockInfo{Offset: off, Size: int(hdr.Size), Free: hdr.State == format.StateFree}) {
				return
			}
			off += format.HeaderSize + int(hdr.Size)
		}
	}
}

// Check verifies the pool's invariants: headers tile the region from the
// first slot to the tail mark and agree with the descriptor table; the free
// list is strictly address-ordered with no adjacent entries and none ending
// at the tail mark; and the usage counters match. It returns an error
// wrapping ErrCorrupt describing the first violation.
func (p *Pool) Check() error {
	if p.start > p.tail || p.tail > len(p.mem) {
		return corrupt("tail %d outside [%d, %d]", p.tail, p.start, len(p.mem))
	}

	var (
		blocks, freeSeen     int
		inUseBytes, freeSize int
		off                  = p.start
	)
	for off < p.tail {
		if !format.IsAligned(p.base + uintptr(off)) {
			return corruptWrap(format.ErrMisaligned, "header at %d", off)
		}
		hdr, err := format.ReadHeader(p.mem, off)
		if err != nil {
			return corruptWrap(err, "walk")
		}
		if hdr.Size > math.MaxInt-uint64(format.HeaderSize) {
			return corrupt("header at %d: size %d out of range", off, hdr.Size)
		}
		h := int32(hdr.Handle)
		if !p.table.valid(h) {
			return corrupt("header at %d: handle %d not live", off, h)
		}
		b := p.table.get(h)
		if b.off != off || b.size != int(hdr.Size) {
			return corrupt("header at %d (size %d) disagrees with descriptor %d (off %d, size %d)",
				off, hdr.Size, h, b.off, b.size)
		}
		if b.free != (hdr.State == format.StateFree) {
			return corrupt("header at %d says %s, descriptor free=%v", off, hdr.State, b.free)
		}
		end, err := buf.CheckRange(p.tail, off, format.HeaderSize+b.size)
		if err != nil {
			return corruptWrap(err, "block at %d", off)
		}
		blocks++
		if b.free {
			freeSeen++
			freeSize += b.size
		} else {
			inUseBytes += b.size
		}
		off = end
	}
	if off != p.tail {
		return corrupt("blocks end at %d, tail mark at %d", off, p.tail)
	}
	if blocks != p.table.liveSlots {
		return corrupt("%d blocks in region, %d live descriptors", blocks, p.table.liveSlots)
	}

	count, prev := 0, nilHandle
	for h := p.table.head; h != nilHandle; h = p.table.get(h).next {
		b := p.table.get(h)
		if !b.free {
			return corrupt("descriptor %d on free list but not free", h)
		}
		if b.prev != prev {
			return corrupt("descriptor %d back link %d, want %d", h, b.prev, prev)
		}
		if prev != nilHandle {
			pb := p.table.get(prev)
			if pb.off >= b.off {
				return corrupt("free list out of order: %d before %d", pb.off, b.off)
			}
			if p.end(prev) == b.off {
				return corrupt("adjacent free blocks at %d and %d", pb.off, b.off)
			}
		}
		if p.end(h) == p.tail {
			return corrupt("free block at %d ends at tail mark", b.off)
		}
		count++
		prev = h
		if count > len(p.table.blocks) {
			return corrupt("free list cycle")
		}
	}
	if count != freeSeen || count != p.table.freeCount {
		return corrupt("free list has %d entries, region %d, counter %d", count, freeSeen, p.table.freeCount)
	}
	if freeSize != p.table.freeBytes {
		return corrupt("free bytes %d, counter %d", freeSize, p.table.freeBytes)
	}
	if blocks-freeSeen != p.inUseBlocks || inUseBytes != p.inUseBytes {
		return corrupt("in use %d blocks/%d bytes, counters %d/%d",
			blocks-freeSeen, inUseBytes, p.inUseBlocks, p.inUseBytes)
	}
	return nil
}

func corrupt(msg string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrCorrupt, fmt.Sprintf(msg, args...))
}

// corruptWrap is corrupt for violations that already carry a sentinel, so
// callers can match both.
func corruptWrap(err error, msg string, args ...any) error {
	return fmt.Errorf("%w: %s: %w", ErrCorrupt, fmt.Sprintf(msg, args...), err)
}
