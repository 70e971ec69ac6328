package region

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClampsCapacity(t *testing.T) {
	backing := make([]byte, 64, 128)
	r := New(backing)
	assert.Equal(t, 64, r.Len())
	assert.Equal(t, 64, cap(r.Bytes()))
	assert.Equal(t, uintptr(unsafe.Pointer(&backing[0])), r.Base())
	assert.Equal(t, r.Base()+64, r.End())
}

func TestEmptyRegion(t *testing.T) {
	var zero Region
	assert.True(t, zero.Empty())
	assert.Zero(t, zero.Base())
	assert.True(t, New(nil).Empty())
	assert.True(t, FromPointer(nil, 16).Empty())

	_, ok := zero.Offset([]byte{1})
	assert.False(t, ok)
}

func TestFromPointer(t *testing.T) {
	backing := make([]byte, 32)
	r := FromPointer(unsafe.Pointer(&backing[0]), len(backing))
	require.Equal(t, 32, r.Len())

	r.Bytes()[5] = 0x7f
	assert.Equal(t, byte(0x7f), backing[5])
}

func TestSubAndOffset(t *testing.T) {
	r := New(make([]byte, 100))

	sub, ok := r.Sub(10, 20)
	require.True(t, ok)
	assert.Equal(t, 20, sub.Len())
	assert.Equal(t, r.Base()+10, sub.Base())

	_, ok = r.Sub(90, 20)
	assert.False(t, ok)

	off, ok := r.Offset(r.Bytes()[42:50])
	require.True(t, ok)
	assert.Equal(t, 42, off)

	assert.True(t, r.Contains(r.Bytes()[90:100]))
	assert.False(t, r.Contains(make([]byte, 4)))
	assert.False(t, r.Contains(nil))
}
