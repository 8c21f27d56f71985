package raster

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// stage is the compressed-input staging buffer used when decoding a
// compressed stream. It exists only on decoding streams that are
// compressed; uncompressed streams and all writers never allocate one.
//
// buf[ptr:end] holds bytes already read from the descriptor but not yet
// delivered to a caller. The growth strategy preserves the in-flight
// bytes across a reallocation instead of discarding them, and tracks
// ptr/end as slice indices rather than raw pointers into a buffer that
// might move.
type stage struct {
	buf []byte
	ptr int
	end int
}

// ensureCapacity grows buf, if necessary, to at least min bytes, copying
// any pending buf[ptr:end] bytes to the front of the new buffer and
// resetting ptr to 0 so they survive the reallocation.
func (s *stage) ensureCapacity(min int) {
	if cap(s.buf) >= min {
		return
	}
	next := make([]byte, min)
	n := copy(next, s.buf[s.ptr:s.end])
	s.buf = next
	s.ptr = 0
	s.end = n
}

// unrolledCopy copies staged bytes to a caller's destination using an
// unrolled byte-at-a-time loop for small chunks and a bulk copy for larger
// ones. In Go both paths are correct for any size; this preserves the
// two-path shape of the format this decoder is compatible with rather
// than relying on it for performance.
func unrolledCopy(dst, src []byte) {
	if len(src) < 128 {
		for i := range src {
			dst[i] = src[i]
		}
		return
	}
	copy(dst, src)
}

// readOnce issues a single read(2) against fd, retrying transparently on
// EINTR but never looping to fill buf: it returns whatever the kernel
// handed back in one call, which may be less than len(buf) on a live,
// slow-producing stream.
func readOnce(fd int, buf []byte) (int, error) {
	for {
		n, err := unix.Read(fd, buf)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return n, fmt.Errorf("raster: read fd %d: %w", fd, joinIOFailure(err))
		}
		return n, nil
	}
}

// readInto delivers exactly len(dst) bytes to dst:
//
//  1. Ensure capacity 2*lineLen (or enough to satisfy this call, if that
//     is larger — a header read can ask for more than two lines at once).
//  2. Until len(dst) bytes are delivered: if the staging buffer is empty
//     and the caller needs fewer than 16 bytes, refill the staging buffer
//     from fd with a single read, whatever that delivers; otherwise read
//     the remainder directly into the caller's destination.
//  3. When copying from staging to caller, use unrolledCopy.
//
// A short read at end of stream is reported as ErrShortRead.
func (s *stage) readInto(fd int, dst []byte, lineLen int) (int, error) {
	want := 2 * lineLen
	if len(dst) > want {
		want = len(dst)
	}
	if want > 0 {
		s.ensureCapacity(want)
	}

	var delivered int
	for delivered < len(dst) {
		need := len(dst) - delivered

		if s.ptr == s.end {
			if need < 16 && cap(s.buf) > 0 {
				n, err := readOnce(fd, s.buf[:cap(s.buf)])
				s.ptr, s.end = 0, n
				if err != nil {
					return delivered, err
				}
				if n == 0 {
					return delivered, fmt.Errorf("raster: end of stream while staging compressed input: %w", ErrShortRead)
				}
				continue
			}

			n, err := readExact(fd, dst[delivered:])
			delivered += n
			if err != nil {
				return delivered, err
			}
			if n < need {
				return delivered, fmt.Errorf("raster: end of stream reading compressed input: %w", ErrShortRead)
			}
			continue
		}

		avail := s.end - s.ptr
		take := avail
		if take > need {
			take = need
		}
		unrolledCopy(dst[delivered:delivered+take], s.buf[s.ptr:s.ptr+take])
		s.ptr += take
		delivered += take
	}
	return delivered, nil
}
