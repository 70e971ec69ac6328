package region

import (
	"fmt"
	"runtime/debug"
)

// touchPages writes one byte per page of pageSize bytes, converting a fault
// into an error.
func touchPages(data []byte, pageSize int) (retErr error) {
	old := debug.SetPanicOnFault(true)
	defer debug.SetPanicOnFault(old)

	defer func() {
		if r := recover(); r != nil {
			retErr = fmt.Errorf("memory access fault during prefault: %v", r)
		}
	}()

	for i := 0; i < len(data); i += pageSize {
		v := data[i]
		data[i] = v
	}
	if n := len(data); n > 0 {
		v := data[n-1]
		data[n-1] = v
	}
	return nil
}
