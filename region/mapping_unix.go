//go:build unix

package region

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// Mapping is an anonymous, private, read-write memory mapping. It lives
// outside the Go heap, so regions built on it are never scanned or moved by
// the garbage collector.
type Mapping struct {
	data []byte // whole pages as returned by mmap
	size int    // requested size
}

// Map creates an anonymous mapping of at least size bytes. The kernel rounds
// the mapping up to whole pages; Region exposes exactly size bytes.
func Map(size int) (*Mapping, error) {
	if size <= 0 {
		return nil, fmt.Errorf("map %d bytes: %w", size, ErrBadSize)
	}
	pageSize := unix.Getpagesize()
	length := (size + pageSize - 1) &^ (pageSize - 1)
	if length < size {
		return nil, fmt.Errorf("map %d bytes: %w", size, ErrBadSize)
	}
	data, err := unix.Mmap(-1, 0, length, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("map %d bytes: %w", size, err)
	}
	return &Mapping{data: data, size: size}, nil
}

// Region describes the mapped bytes. It is empty after Close.
func (m *Mapping) Region() Region {
	if m.data == nil {
		return Region{}
	}
	return New(m.data[:m.size])
}

// Prefault touches every page so later allocations do not take page faults.
func (m *Mapping) Prefault() error {
	if m.data == nil {
		return ErrClosed
	}
	return prefault(m.data)
}

// Close unmaps the memory. Any Region or payload slice derived from it must
// no longer be used. Closing twice is a no-op.
func (m *Mapping) Close() error {
	if m.data == nil {
		return nil
	}
	err := unix.Munmap(m.data)
	if errors.Is(err, unix.EINVAL) {
		// The range is already unmapped; treat like a second Close.
		err = nil
	}
	m.data = nil
	return err
}
