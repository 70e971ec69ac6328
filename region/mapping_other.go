//go:build !unix

package region

import "fmt"

// Mapping falls back to a Go heap buffer where mmap is not available.
type Mapping struct {
	data []byte
}

// Map allocates size bytes.
func Map(size int) (*Mapping, error) {
	if size <= 0 {
		return nil, fmt.Errorf("map %d bytes: %w", size, ErrBadSize)
	}
	return &Mapping{data: make([]byte, size)}, nil
}

// Region describes the buffer. It is empty after Close.
func (m *Mapping) Region() Region { return New(m.data) }

// Prefault is a no-op: make already zeroed (and touched) the buffer.
func (m *Mapping) Prefault() error {
	if m.data == nil {
		return ErrClosed
	}
	return nil
}

// Close drops the buffer. Closing twice is a no-op.
func (m *Mapping) Close() error {
	m.data = nil
	return nil
}
