package alloc

import (
	"context"
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/joshuapare/poolkit/internal/buf"
	"github.com/joshuapare/poolkit/internal/format"
	"github.com/joshuapare/poolkit/internal/logger"
	"github.com/joshuapare/poolkit/region"
)

// Pool is a first-fit allocator over one caller-owned region.
//
// Every block starts with a format.HeaderSize header followed by its payload.
// Blocks tile the region from the first aligned header slot up to the tail
// mark; bytes past the tail mark have never been carved. Free blocks are kept
// in an address-ordered list with no two entries adjacent and none ending at
// the tail mark, so a block freed next to untouched space goes back to it.
//
// A Pool is not safe for concurrent use and must not be copied; use Move to
// hand it to another owner.
type Pool struct {
	_ noCopy

	mem   []byte
	base  uintptr // address of mem[0]
	start int     // first header offset
	tail  int     // first never-carved offset

	table blockTable

	cfg   Config
	log   *slog.Logger
	trace bool

	inUseBytes  int
	inUseBlocks int
	stats       Stats
}

// NewPool creates a pool managing r. The pool never grows, shrinks or frees
// r; the caller keeps it alive while the pool is in use. A nil cfg means
// DefaultConfig. An empty region is valid and every allocation fails.
func NewPool(r region.Region, cfg *Config) (*Pool, error) {
	if cfg == nil {
		cfg = &DefaultConfig
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := &Pool{
		table: newBlockTable(),
		cfg:   *cfg,
		log:   cfg.Logger,
	}
	if p.log == nil {
		p.log = logger.L
	}
	if p.cfg.Name != "" {
		p.log = p.log.With("pool", p.cfg.Name)
	}
	p.trace = p.log.Enabled(context.Background(), slog.LevelDebug)
	p.attach(r)
	return p, nil
}

// NewPoolAt creates a pool over size bytes starting at base.
func NewPoolAt(base unsafe.Pointer, size int, cfg *Config) (*Pool, error) {
	if base == nil && size > 0 {
		return nil, fmt.Errorf("new pool of %d bytes: %w", size, ErrNoRegion)
	}
	return NewPool(region.FromPointer(base, size), cfg)
}

func (p *Pool) attach(r region.Region) {
	p.mem = r.Bytes()
	p.base = r.Base()
	p.start, p.tail = 0, 0
	if len(p.mem) == 0 {
		return
	}
	first := int(format.AlignPayload(p.base)-p.base) - format.HeaderSize
	p.start = min(first, len(p.mem))
	p.tail = p.start
	if p.trace {
		p.log.Debug("pool attached",
			"size", len(p.mem), "base", fmt.Sprintf("%#x", p.base), "start", p.start)
	}
}

// Region returns the managed memory, or an empty region after Move.
func (p *Pool) Region() region.Region {
	return region.New(p.mem)
}

// Capacity returns the region size in bytes.
func (p *Pool) Capacity() int {
	return len(p.mem)
}

// Allocate returns a payload of n bytes, or nil when n <= 0 or no block
// large enough can be found or carved. Free blocks are searched first, in
// address order; untouched tail space is used only when none fits.
func (p *Pool) Allocate(n int) []byte {
	p.stats.AllocCalls++
	if n <= 0 {
		return nil
	}
	h := p.allocate(n)
	if h == nilHandle {
		return nil
	}
	return p.payload(h, n)
}

// allocate returns the handle of a newly allocated block able to hold n
// bytes, or nilHandle on exhaustion with no state changed.
func (p *Pool) allocate(n int) int32 {
	need, ok := format.AlignSize(n)
	if !ok || need > len(p.mem) {
		p.exhausted(n)
		return nilHandle
	}

	h, scanned := p.table.firstFit(need)
	p.stats.FreeListScans += scanned
	if h != nilHandle {
		prev := p.table.get(h).prev
		p.table.unlink(h)
		if rem := p.split(h, need); rem != nilHandle {
			// The remainder takes the chosen block's place in address order.
			// Neither end can touch another free block or the tail mark,
			// because the chosen block did not.
			p.table.insertAfter(prev, rem)
			p.writeHeader(rem)
		}
		p.stats.FreeListHits++
		p.markAllocated(h)
		return h
	}

	end, ok := buf.AddOverflowSafe(p.tail, format.HeaderSize+need)
	if !ok || end > len(p.mem) {
		p.exhausted(n)
		return nilHandle
	}
	h = p.table.add(p.tail, need)
	if p.trace {
		p.log.Debug("tail carve", "off", p.tail, "size", need, "tail", end)
	}
	p.tail = end
	p.stats.TailCarves++
	p.markAllocated(h)
	return h
}

// split cuts h down to need usable bytes when the leftover is worth keeping
// and returns the unlinked remainder, or nilHandle.
func (p *Pool) split(h int32, need int) int32 {
	b := p.table.get(h)
	left := b.size - need
	if left-format.HeaderSize <= p.cfg.SplitThreshold {
		return nilHandle
	}
	off := b.off + format.HeaderSize + need
	p.table.resize(h, need)
	rem := p.table.add(off, left-format.HeaderSize)
	p.stats.Splits++
	if p.trace {
		p.log.Debug("split", "off", p.table.get(h).off, "size", need, "rem_off", off, "rem_size", left-format.HeaderSize)
	}
	return rem
}

// Deallocate returns ptr's block to the pool, merging it with free or
// untouched neighbours. ptr must have come from this pool and not been freed
// since; anything else is undefined unless Config.Debug is set.
func (p *Pool) Deallocate(ptr []byte) {
	p.stats.FreeCalls++
	if cap(ptr) == 0 {
		return
	}
	p.free(p.lookup(ptr))
}

func (p *Pool) free(h int32) {
	b := p.table.get(h)
	p.inUseBytes -= b.size
	p.inUseBlocks--
	p.release(h)
}

// release puts an unlinked block on the free list, coalescing it with the
// free blocks on either side and folding it back into tail space when it
// ends at the tail mark.
func (p *Pool) release(h int32) {
	b := p.table.get(h)
	format.PutState(p.mem, b.off, format.StateFree)

	prev, next := p.table.neighbours(b.off)

	if next != nilHandle && p.end(h) == p.table.get(next).off {
		nb := p.table.get(next)
		absorbed := nb.size
		if p.trace {
			p.log.Debug("coalesce forward", "off", b.off, "next_off", nb.off)
		}
		p.table.unlink(next)
		p.table.recycle(next)
		b.size += format.HeaderSize + absorbed
		p.stats.CoalesceForward++
	}

	if prev != nilHandle && p.end(prev) == b.off {
		pb := p.table.get(prev)
		if p.trace {
			p.log.Debug("coalesce backward", "off", b.off, "prev_off", pb.off)
		}
		p.table.resize(prev, pb.size+format.HeaderSize+b.size)
		p.table.recycle(h)
		h = prev
		p.stats.CoalesceBackward++
	} else {
		p.table.insertAfter(prev, h)
	}

	b = p.table.get(h)
	if p.end(h) == p.tail {
		if p.trace {
			p.log.Debug("tail reclaim", "off", b.off, "old_tail", p.tail)
		}
		p.tail = b.off
		p.table.unlink(h)
		p.table.recycle(h)
		p.stats.TailReclaims++
		return
	}
	p.writeHeader(h)
}

// Reallocate resizes ptr's block to n bytes.
//
// Shrinking stays in place and frees any worthwhile remainder. Growing first
// tries to extend in place, into untouched tail space or an adjacent free
// block; otherwise a new block is allocated, min(old usable size, n) bytes
// are copied and the old block is freed. When no block can satisfy n, nil is
// returned and ptr is left allocated and unchanged.
func (p *Pool) Reallocate(ptr []byte, n int) []byte {
	p.stats.ReallocCalls++
	if cap(ptr) == 0 {
		return p.Allocate(n)
	}
	if n <= 0 {
		p.Deallocate(ptr)
		return nil
	}

	h := p.lookup(ptr)
	need, ok := format.AlignSize(n)
	if !ok || need > len(p.mem) {
		p.exhausted(n)
		return nil
	}

	if need <= p.table.get(h).size {
		p.shrink(h, need)
		return p.payload(h, n)
	}
	if p.growInPlace(h, need) {
		p.stats.GrowInPlace++
		return p.payload(h, n)
	}

	nh := p.allocate(n)
	if nh == nilHandle {
		return nil
	}
	dst := p.payload(nh, n)
	copy(dst, p.usable(h))
	p.free(h)
	p.stats.ReallocMoves++
	if p.trace {
		p.log.Debug("realloc move", "to", p.table.get(nh).off, "size", n)
	}
	return dst
}

func (p *Pool) shrink(h int32, need int) {
	old := p.table.get(h).size
	rem := p.split(h, need)
	if rem == nilHandle {
		return
	}
	p.inUseBytes -= old - need
	p.writeHeader(h)
	p.release(rem)
}

// growInPlace extends h to need usable bytes without moving it. It reports
// false, changing nothing, when neither tail space nor an adjacent free block
// can cover the growth.
func (p *Pool) growInPlace(h int32, need int) bool {
	b := p.table.get(h)
	old := b.size
	end := p.end(h)

	if end == p.tail {
		newEnd, ok := buf.AddOverflowSafe(b.off, format.HeaderSize+need)
		if !ok || newEnd > len(p.mem) {
			return false
		}
		b.size = need
		p.tail = newEnd
		p.inUseBytes += need - old
		p.writeHeader(h)
		return true
	}

	_, next := p.table.neighbours(b.off)
	if next == nilHandle || p.table.get(next).off != end {
		return false
	}
	combined := old + format.HeaderSize + p.table.get(next).size
	if combined < need {
		return false
	}
	p.table.unlink(next)
	p.table.recycle(next)
	b.size = combined

	rem := p.split(h, need)
	p.inUseBytes += p.table.get(h).size - old
	p.writeHeader(h)
	if rem != nilHandle {
		p.release(rem)
	}
	return true
}

// Reset frees every block at once, returning the whole region to tail space.
// Payloads handed out earlier must no longer be used.
func (p *Pool) Reset() {
	p.table.reset()
	p.tail = p.start
	p.inUseBytes = 0
	p.inUseBlocks = 0
	p.stats.Resets++
}

// Move transfers the region and all bookkeeping to a new Pool. The source
// is left empty: it manages no region and every allocation on it fails.
// Payloads handed out before the move stay valid and belong to the result.
func (p *Pool) Move() *Pool {
	q := &Pool{
		mem:         p.mem,
		base:        p.base,
		start:       p.start,
		tail:        p.tail,
		table:       p.table,
		cfg:         p.cfg,
		log:         p.log,
		trace:       p.trace,
		inUseBytes:  p.inUseBytes,
		inUseBlocks: p.inUseBlocks,
		stats:       p.stats,
	}
	q.stats.Moves++
	if q.trace {
		q.log.Debug("pool moved", "size", len(q.mem), "in_use", q.inUseBlocks)
	}

	p.mem = nil
	p.base = 0
	p.start, p.tail = 0, 0
	p.table = newBlockTable()
	p.inUseBytes, p.inUseBlocks = 0, 0
	p.stats = Stats{}
	return q
}

// lookup maps a payload back to its block handle through the header in
// front of it.
func (p *Pool) lookup(ptr []byte) int32 {
	if p.cfg.Debug {
		return p.validate(ptr)
	}
	off := int(uintptr(unsafe.Pointer(unsafe.SliceData(ptr)))-p.base) - format.HeaderSize
	return int32(format.HandleAt(p.mem, off))
}

// validate is lookup with every check Debug promises.
func (p *Pool) validate(ptr []byte) int32 {
	off, ok := p.Region().Offset(ptr)
	if !ok {
		panic(fmt.Errorf("%w: address outside region", ErrBadPointer))
	}
	hoff := off - format.HeaderSize
	if hoff < p.start || !format.IsAligned(p.base+uintptr(off)) {
		panic(fmt.Errorf("%w: offset %d is not a payload", ErrBadPointer, off))
	}
	hdr, err := format.ReadHeader(p.mem, hoff)
	if err != nil {
		panic(fmt.Errorf("%w: %w", ErrBadPointer, err))
	}
	if hdr.State == format.StateFree {
		panic(fmt.Errorf("%w: offset %d", ErrDoubleFree, off))
	}
	h := int32(hdr.Handle)
	if hoff >= p.tail || !p.table.valid(h) || p.table.get(h).off != hoff || p.table.get(h).free {
		panic(fmt.Errorf("%w: stale header at %d", ErrBadPointer, hoff))
	}
	return h
}

func (p *Pool) markAllocated(h int32) {
	p.inUseBytes += p.table.get(h).size
	p.inUseBlocks++
	p.writeHeader(h)
}

func (p *Pool) writeHeader(h int32) {
	b := p.table.get(h)
	state := format.StateAllocated
	if b.free {
		state = format.StateFree
	}
	format.PutHeader(p.mem, b.off, format.Header{
		Size:   uint64(b.size),
		Handle: uint32(h),
		State:  state,
	})
}

// end returns the offset just past h's payload.
func (p *Pool) end(h int32) int {
	b := p.table.get(h)
	return b.off + format.HeaderSize + b.size
}

// payload returns h's payload with len n and cap equal to the usable size.
func (p *Pool) payload(h int32, n int) []byte {
	b := p.table.get(h)
	off := b.off + format.HeaderSize
	return p.mem[off : off+n : off+b.size]
}

func (p *Pool) usable(h int32) []byte {
	return p.payload(h, p.table.get(h).size)
}

func (p *Pool) exhausted(n int) {
	p.stats.AllocFailures++
	if p.trace {
		p.log.Debug("pool exhausted",
			"request", n,
			"free_bytes", p.table.freeBytes,
			"free_blocks", p.table.freeCount,
			"tail_free", len(p.mem)-p.tail)
	}
}
