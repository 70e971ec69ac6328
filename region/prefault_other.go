//go:build unix && !linux

package region

import "golang.org/x/sys/unix"

func prefault(data []byte) error {
	return touchPages(data, unix.Getpagesize())
}
