package alloc

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/poolkit/internal/format"
	"github.com/joshuapare/poolkit/region"
)

// ============================================================================
// Pool Creation Utilities
// ============================================================================

// alignedRegion returns a size-byte region whose first byte sits on a
// HeaderAlign boundary, so the first header lands at offset 0.
func alignedRegion(t testing.TB, size int) region.Region {
	t.Helper()
	raw := make([]byte, size+format.HeaderAlign)
	addr := uintptr(unsafe.Pointer(unsafe.SliceData(raw)))
	mis := int(addr % uintptr(format.HeaderAlign))
	shift := format.AlignUp(mis, format.HeaderAlign) - mis
	r, ok := region.New(raw).Sub(shift, size)
	require.True(t, ok)
	require.True(t, format.IsAligned(r.Base()))
	return r
}

// newTestPool creates a pool over an aligned region of size bytes.
func newTestPool(t testing.TB, size int, cfg *Config) *Pool {
	t.Helper()
	p, err := NewPool(alignedRegion(t, size), cfg)
	require.NoError(t, err)
	require.Equal(t, 0, p.start, "aligned region should start at offset 0")
	return p
}

// ============================================================================
// Inspection Utilities
// ============================================================================

// offsetOf returns the payload offset of b within p's region.
func offsetOf(t testing.TB, p *Pool, b []byte) int {
	t.Helper()
	off, ok := p.Region().Offset(b)
	require.True(t, ok, "payload not inside region")
	return off
}

// poolSnapshot captures everything observable about a pool except counters.
type poolSnapshot struct {
	mem    []byte
	usage  Usage
	blocks []BlockInfo
	tail   int
}

func takeSnapshot(p *Pool) poolSnapshot {
	return poolSnapshot{
		mem:    bytes.Clone(p.mem),
		usage:  p.Usage(),
		blocks: slices.Collect(p.Blocks()),
		tail:   p.tail,
	}
}

func requireSameSnapshot(t testing.TB, want, got poolSnapshot) {
	t.Helper()
	require.True(t, bytes.Equal(want.mem, got.mem), "region bytes changed")
	require.Equal(t, want.usage, got.usage, "usage changed")
	require.Equal(t, want.blocks, got.blocks, "block layout changed")
	require.Equal(t, want.tail, got.tail, "tail mark changed")
}

// freeBlocks lists the free-list entries as BlockInfo in list order.
func freeBlocks(p *Pool) []BlockInfo {
	var out []BlockInfo
	for h := p.table.head; h != nilHandle; h = p.table.get(h).next {
		b := p.table.get(h)
		out = append(out, BlockInfo{Offset: b.off, Size: b.size, Free: true})
	}
	return out
}

// spareCount returns how many recycled handles are waiting for reuse.
func (t *blockTable) spareCount() int {
	return len(t.spare)
}

// assertInvariants fails the test if Check reports a violation.
func assertInvariants(t testing.TB, p *Pool) {
	t.Helper()
	require.NoError(t, p.Check())
}

// fill writes a recognisable pattern derived from seed into b.
func fill(b []byte, seed byte) {
	for i := range b {
		b[i] = seed + byte(i)
	}
}

// verifyFill reports where b stops matching fill(b, seed) for the first n bytes.
func verifyFill(b []byte, seed byte, n int) error {
	for i := 0; i < n; i++ {
		if b[i] != seed+byte(i) {
			return fmt.Errorf("byte %d = %#x, want %#x", i, b[i], seed+byte(i))
		}
	}
	return nil
}

// recoverError runs f and returns the error it panicked with, or nil.
func recoverError(f func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
				return
			}
			err = errors.New(fmt.Sprint(r))
		}
	}()
	f()
	return nil
}
