package alloc

// nilHandle terminates free-list links.
const nilHandle int32 = -1

// block describes one carved block of the region. Descriptors live in a
// table and are addressed by stable int32 handles; the intrusive header in
// the region stores the handle so a payload maps back to its descriptor.
type block struct {
	off  int   // header offset from the region start
	size int   // usable payload bytes
	prev int32 // free-list links; nilHandle while allocated
	next int32
	free bool
	used bool // slot holds a live descriptor
}

// blockTable owns every block descriptor and threads the free list through
// them in strictly ascending offset order.
type blockTable struct {
	blocks []block
	spare  []int32 // recycled handles

	head      int32
	freeCount int
	freeBytes int
	liveSlots int
}

func newBlockTable() blockTable {
	return blockTable{head: nilHandle}
}

// reset drops every descriptor but keeps the backing arrays.
func (t *blockTable) reset() {
	t.blocks = t.blocks[:0]
	t.spare = t.spare[:0]
	t.head = nilHandle
	t.freeCount = 0
	t.freeBytes = 0
	t.liveSlots = 0
}

// add registers a new, unlinked descriptor. It may grow the table, so
// pointers obtained from get before the call are invalid afterwards.
func (t *blockTable) add(off, size int) int32 {
	b := block{off: off, size: size, prev: nilHandle, next: nilHandle, used: true}
	t.liveSlots++
	if n := len(t.spare); n > 0 {
		h := t.spare[n-1]
		t.spare = t.spare[:n-1]
		t.blocks[h] = b
		return h
	}
	t.blocks = append(t.blocks, b)
	return int32(len(t.blocks) - 1)
}

// recycle returns an unlinked descriptor's handle for reuse.
func (t *blockTable) recycle(h int32) {
	t.blocks[h] = block{prev: nilHandle, next: nilHandle}
	t.spare = append(t.spare, h)
	t.liveSlots--
}

func (t *blockTable) get(h int32) *block {
	return &t.blocks[h]
}

// valid reports whether h names a live descriptor.
func (t *blockTable) valid(h int32) bool {
	return h >= 0 && int(h) < len(t.blocks) && t.blocks[h].used
}

// insertAfter links h into the free list right after prev, or at the head
// when prev is nilHandle. The caller keeps the list ordered.
func (t *blockTable) insertAfter(prev, h int32) {
	b := &t.blocks[h]
	b.free = true
	b.prev = prev
	if prev == nilHandle {
		b.next = t.head
		t.head = h
	} else {
		b.next = t.blocks[prev].next
		t.blocks[prev].next = h
	}
	if b.next != nilHandle {
		t.blocks[b.next].prev = h
	}
	t.freeCount++
	t.freeBytes += b.size
}

// unlink removes h from the free list.
func (t *blockTable) unlink(h int32) {
	b := &t.blocks[h]
	if b.prev == nilHandle {
		t.head = b.next
	} else {
		t.blocks[b.prev].next = b.next
	}
	if b.next != nilHandle {
		t.blocks[b.next].prev = b.prev
	}
	b.prev, b.next, b.free = nilHandle, nilHandle, false
	t.freeCount--
	t.freeBytes -= b.size
}

// resize changes a block's usable size, keeping free-byte accounting right
// for blocks currently on the list.
func (t *blockTable) resize(h int32, size int) {
	b := &t.blocks[h]
	if b.free {
		t.freeBytes += size - b.size
	}
	b.size = size
}

// neighbours returns the free entries immediately before and after off in
// address order. Either may be nilHandle.
func (t *blockTable) neighbours(off int) (prev, next int32) {
	prev = nilHandle
	for h := t.head; h != nilHandle; h = t.blocks[h].next {
		if t.blocks[h].off > off {
			return prev, h
		}
		prev = h
	}
	return prev, nilHandle
}

// firstFit returns the lowest-addressed free entry with at least need usable
// bytes, and how many entries were examined.
func (t *blockTable) firstFit(need int) (int32, int) {
	scanned := 0
	for h := t.head; h != nilHandle; h = t.blocks[h].next {
		scanned++
		if t.blocks[h].size >= need {
			return h, scanned
		}
	}
	return nilHandle, scanned
}

// largest returns the biggest free usable size.
func (t *blockTable) largest() int {
	best := 0
	for h := t.head; h != nilHandle; h = t.blocks[h].next {
		best = max(best, t.blocks[h].size)
	}
	return best
}
