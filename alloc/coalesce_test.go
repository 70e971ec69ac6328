package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/poolkit/internal/format"
)

// threeBlocks allocates a, b and a pin c so a and b are address-adjacent and
// neither can fall back into tail space.
func threeBlocks(t *testing.T, p *Pool, size int) (a, b, c []byte) {
	t.Helper()
	a = p.Allocate(size)
	b = p.Allocate(size)
	c = p.Allocate(size)
	require.NotNil(t, a)
	require.NotNil(t, b)
	require.NotNil(t, c)
	require.Equal(t, offsetOf(t, p, a)+size+format.HeaderSize, offsetOf(t, p, b))
	return a, b, c
}

func TestCoalesce_AdjacentEitherOrder(t *testing.T) {
	for _, tc := range []struct {
		name        string
		bFirst      bool
		wantForward int
		wantBack    int
	}{
		{name: "a then b", bFirst: false, wantForward: 0, wantBack: 1},
		{name: "b then a", bFirst: true, wantForward: 1, wantBack: 0},
	} {
		t.Run(tc.name, func(t *testing.T) {
			p := newTestPool(t, 1024, nil)
			a, b, _ := threeBlocks(t, p, 64)
			offA := offsetOf(t, p, a)

			if tc.bFirst {
				p.Deallocate(b)
				p.Deallocate(a)
			} else {
				p.Deallocate(a)
				p.Deallocate(b)
			}
			assertInvariants(t, p)

			combined := 64 + format.HeaderSize + 64
			assert.Equal(t, []BlockInfo{{Offset: offA - format.HeaderSize, Size: combined, Free: true}}, freeBlocks(p))
			assert.Equal(t, tc.wantForward, p.Stats().CoalesceForward)
			assert.Equal(t, tc.wantBack, p.Stats().CoalesceBackward)

			carves := p.Stats().TailCarves
			tailFree := p.Usage().TailFree

			got := p.Allocate(combined)
			require.NotNil(t, got, "merged block should hold the combined capacity")
			assert.Equal(t, offA, offsetOf(t, p, got))
			assert.Equal(t, carves, p.Stats().TailCarves, "tail space must not be touched")
			assert.Equal(t, tailFree, p.Usage().TailFree)
			assertInvariants(t, p)
		})
	}
}

func TestCoalesce_BothSides(t *testing.T) {
	p := newTestPool(t, 1024, nil)
	a := p.Allocate(32)
	b := p.Allocate(32)
	c := p.Allocate(32)
	require.NotNil(t, p.Allocate(32), "pin")

	p.Deallocate(a)
	p.Deallocate(c)
	require.Len(t, freeBlocks(p), 2)

	p.Deallocate(b)
	free := freeBlocks(p)
	require.Len(t, free, 1)
	assert.Equal(t, BlockInfo{Offset: 0, Size: 3*32 + 2*format.HeaderSize, Free: true}, free[0])
	assert.Equal(t, 1, p.Stats().CoalesceForward)
	assert.Equal(t, 1, p.Stats().CoalesceBackward)
	assert.Equal(t, 2, p.table.spareCount(), "absorbed descriptors should be recycled")
	assertInvariants(t, p)
}

func TestCoalesce_NonAdjacentStaySeparate(t *testing.T) {
	p := newTestPool(t, 1024, nil)
	a := p.Allocate(32)
	_ = p.Allocate(32)
	c := p.Allocate(32)
	_ = p.Allocate(32)

	p.Deallocate(c)
	p.Deallocate(a)

	free := freeBlocks(p)
	require.Len(t, free, 2)
	assert.Equal(t, 0, free[0].Offset, "list must be address-ordered regardless of free order")
	assert.Equal(t, 96, free[1].Offset)
	assert.Zero(t, p.Stats().CoalesceForward+p.Stats().CoalesceBackward)
	assertInvariants(t, p)
}

func TestCoalesce_TailReclaim(t *testing.T) {
	p := newTestPool(t, 1024, nil)
	a := p.Allocate(100)
	b := p.Allocate(100)

	p.Deallocate(b)
	assert.Empty(t, freeBlocks(p), "last block goes back to tail space")
	assert.Equal(t, 1024-128, p.Usage().TailFree)
	assert.Equal(t, 1, p.Stats().TailReclaims)

	p.Deallocate(a)
	assert.Equal(t, 1024, p.Usage().TailFree)
	assert.Equal(t, 2, p.Stats().TailReclaims)
	assertInvariants(t, p)
}

func TestCoalesce_CascadeIntoTail(t *testing.T) {
	p := newTestPool(t, 1024, nil)
	a := p.Allocate(48)
	b := p.Allocate(48)
	c := p.Allocate(48)

	p.Deallocate(a)
	p.Deallocate(b)
	require.Len(t, freeBlocks(p), 1)

	// Freeing the last block merges backward with a+b and the result ends at
	// the tail mark, so everything returns to tail space.
	p.Deallocate(c)
	assert.Empty(t, freeBlocks(p))
	assert.Equal(t, 1024, p.Usage().TailFree)
	assert.Zero(t, p.Usage().HeaderBytes)
	assertInvariants(t, p)
}

func TestCoalesce_ManyFreesLeaveNoAdjacency(t *testing.T) {
	p := newTestPool(t, 8192, nil)
	var blocks [][]byte
	for range 40 {
		b := p.Allocate(48)
		require.NotNil(t, b)
		blocks = append(blocks, b)
	}
	pin := p.Allocate(16)
	require.NotNil(t, pin)

	// Free evens then odds; after the odds everything is one extent.
	for i := 0; i < len(blocks); i += 2 {
		p.Deallocate(blocks[i])
		assertInvariants(t, p)
	}
	assert.Len(t, freeBlocks(p), 20)
	for i := 1; i < len(blocks); i += 2 {
		p.Deallocate(blocks[i])
		assertInvariants(t, p)
	}
	free := freeBlocks(p)
	require.Len(t, free, 1)
	assert.Equal(t, 40*(48+format.HeaderSize)-format.HeaderSize, free[0].Size)
}
