//go:build linux

package region

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// prefault asks the kernel to populate the pages writable (Linux 5.14+),
// falling back to touching one byte per page on older kernels.
func prefault(data []byte) error {
	err := unix.Madvise(data, unix.MADV_POPULATE_WRITE)
	if err == nil {
		return nil
	}
	if !errors.Is(err, unix.EINVAL) && !errors.Is(err, unix.ENOSYS) {
		return fmt.Errorf("madvise populate failed: %w", err)
	}
	return touchPages(data, unix.Getpagesize())
}
