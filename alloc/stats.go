package alloc

import (
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/poolkit/internal/format"
)

// Stats counts allocator activity since construction.
type Stats struct {
	AllocCalls    int // Allocate calls, including zero-size ones
	AllocFailures int // requests that found no space
	FreeCalls     int // Deallocate calls, including nil ones
	ReallocCalls  int // Reallocate calls
	ReallocMoves  int // grows that copied into a new block
	GrowInPlace   int // grows satisfied without moving

	FreeListHits  int // allocations served from the free list
	FreeListScans int // free-list entries examined by first-fit
	TailCarves    int // blocks carved from untouched tail space
	TailReclaims  int // freed blocks folded back into tail space

	Splits           int // blocks split into allocated head and free remainder
	CoalesceForward  int // merges with the following free block
	CoalesceBackward int // merges with the preceding free block

	Resets int
	Moves  int
}

// Stats returns a snapshot of the counters.
func (p *Pool) Stats() Stats {
	return p.stats
}

// Usage is a point-in-time view of how the region is divided.
type Usage struct {
	Capacity    int // region bytes
	InUseBytes  int // usable bytes in allocated blocks
	InUseBlocks int
	FreeBytes   int // usable bytes on the free list
	FreeBlocks  int
	LargestFree int // biggest single free-list payload
	HeaderBytes int // bytes spent on headers of carved blocks
	TailFree    int // never-carved bytes after the tail mark
}

// Usage reports the current division of the region.
func (p *Pool) Usage() Usage {
	return Usage{
		Capacity:    len(p.mem),
		InUseBytes:  p.inUseBytes,
		InUseBlocks: p.inUseBlocks,
		FreeBytes:   p.table.freeBytes,
		FreeBlocks:  p.table.freeCount,
		LargestFree: p.table.largest(),
		HeaderBytes: p.table.liveSlots * format.HeaderSize,
		TailFree:    len(p.mem) - p.tail,
	}
}

// Fragmentation returns the share of free bytes outside the largest free
// extent, counting tail space as one extent. 0 means all free space is
// contiguous.
func (u Usage) Fragmentation() float64 {
	total := u.FreeBytes + u.TailFree
	if total == 0 {
		return 0
	}
	return 1 - float64(max(u.LargestFree, u.TailFree))/float64(total)
}

// printer groups digits so large byte counts stay readable.
func printer() *message.Printer {
	return message.NewPrinter(language.English)
}

// Print writes a human-readable report of u to w.
func (u Usage) Print(w io.Writer) error {
	p := printer()
	_, err := p.Fprintf(w,
		"capacity:  %d bytes\n"+
			"in use:    %d bytes in %d blocks\n"+
			"free list: %d bytes in %d blocks (largest %d)\n"+
			"headers:   %d bytes\n"+
			"tail:      %d bytes untouched\n"+
			"fragmentation: %.1f%%\n",
		u.Capacity,
		u.InUseBytes, u.InUseBlocks,
		u.FreeBytes, u.FreeBlocks, u.LargestFree,
		u.HeaderBytes,
		u.TailFree,
		u.Fragmentation()*100,
	)
	return err
}

// Print writes a human-readable report of s to w.
func (s Stats) Print(w io.Writer) error {
	p := printer()
	_, err := p.Fprintf(w,
		"allocate:   %d calls, %d failed, %d from free list, %d carved from tail\n"+
			"free:       %d calls, %d returned to tail\n"+
			"reallocate: %d calls, %d grown in place, %d moved\n"+
			"splits:     %d\n"+
			"coalesce:   %d forward, %d backward\n"+
			"scanned:    %d free-list entries\n",
		s.AllocCalls, s.AllocFailures, s.FreeListHits, s.TailCarves,
		s.FreeCalls, s.TailReclaims,
		s.ReallocCalls, s.GrowInPlace, s.ReallocMoves,
		s.Splits,
		s.CoalesceForward, s.CoalesceBackward,
		s.FreeListScans,
	)
	return err
}
