package raster

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// readExact reads exactly len(buf) bytes from fd, looping across short
// reads and retrying transparently on EINTR. It returns the number of
// bytes actually read, which is short only at end of stream: a return of
// n with 0 <= n < len(buf) and a nil error means the stream ended after n
// bytes. Any other failure returns (n, error) with error wrapping
// ErrIOFailure.
func readExact(fd int, buf []byte) (int, error) {
	var total int
	for total < len(buf) {
		n, err := unix.Read(fd, buf[total:])
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return total, fmt.Errorf("raster: read fd %d at offset %d: %w", fd, total, joinIOFailure(err))
		}
		if n == 0 {
			// Orderly end of stream. A short count here (total < len(buf))
			// is reported to the caller as-is; it is up to the caller to
			// decide whether a short read is acceptable at this point in
			// the protocol.
			return total, nil
		}
		total += n
	}
	return total, nil
}

// writeExact writes exactly len(buf) bytes to fd, looping across short
// writes and retrying transparently on EINTR. It returns the number of
// bytes actually written and a non-nil error, wrapping ErrIOFailure, if
// the full buffer could not be delivered.
func writeExact(fd int, buf []byte) (int, error) {
	var total int
	for total < len(buf) {
		n, err := unix.Write(fd, buf[total:])
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return total, fmt.Errorf("raster: write fd %d at offset %d: %w", fd, total, joinIOFailure(err))
		}
		if n == 0 {
			return total, fmt.Errorf("raster: write fd %d made no progress: %w", fd, ErrIOFailure)
		}
		total += n
	}
	return total, nil
}

func joinIOFailure(cause error) error {
	return fmt.Errorf("%w: %v", ErrIOFailure, cause)
}
