package raster

import "fmt"

// readPixelsCompressed decodes a row-repeat outer token, which selects
// how many times the next decoded row is emitted; a row's body is
// produced by a literal/repeat inner token stream until exactly
// cupsBytesPerLine bytes have been generated.
//
// The resumption point across calls is the pair (pcur, count): pcur tracks
// how much of the currently-staged row has been delivered, and count
// tracks how many more times (including the current emission) that row
// still needs to be delivered before the next row-repeat token is read.
// This lets a caller request arbitrary byte counts across repeated calls
// — half a row, several rows, or a single byte — and get byte-identical
// output to any other slicing.
func (s *Stream) readPixelsCompressed(dst []byte) (int, error) {
	lineLen := int(s.header.CUPSBytesPerLine)
	var delivered int

	// Fast path: a whole, freshly-started row with no pending repeats can
	// be decoded straight into the caller's buffer, skipping the row
	// scratch buffer entirely.
	if len(dst) == lineLen && s.pcur == s.pend && s.count == 0 && s.remaining > 0 {
		token, err := s.readRowToken()
		if err != nil {
			return 0, err
		}
		if token == 0 {
			if err := s.decodeRowBody(dst); err != nil {
				return 0, err
			}
			s.remaining--
			s.pcur, s.pend = lineLen, lineLen
			return lineLen, nil
		}
		s.count = int(token) + 1
		if err := s.decodeRowBody(s.pixels); err != nil {
			return 0, err
		}
		s.pend = lineLen
		s.pcur = 0
	}

	for delivered < len(dst) {
		if s.remaining == 0 {
			// A page that runs dry mid-call still reports the originally
			// requested length, not the shorter delivered count.
			// Trailing bytes of dst beyond `delivered` are left as the
			// caller supplied them.
			return len(dst), nil
		}

		if s.pcur == s.pend {
			if s.count == 0 {
				token, err := s.readRowToken()
				if err != nil {
					return delivered, err
				}
				s.count = int(token) + 1
				if err := s.decodeRowBody(s.pixels); err != nil {
					return delivered, err
				}
				s.pend = lineLen
			}
			s.pcur = 0
		}

		take := s.pend - s.pcur
		if need := len(dst) - delivered; take > need {
			take = need
		}
		copy(dst[delivered:delivered+take], s.pixels[s.pcur:s.pcur+take])
		s.pcur += take
		delivered += take

		if s.pcur == s.pend {
			s.count--
			s.remaining--
		}
	}
	return delivered, nil
}

// readRowToken reads the single outer row-repeat byte R: the row about to
// be decoded is emitted R+1 times.
func (s *Stream) readRowToken() (byte, error) {
	return s.readStagedByte()
}

// decodeRowBody fills dst (length cupsBytesPerLine) from the inner
// literal/repeat token stream, then corrects element byte order if the
// stream is byte-swapped and the pixel element is 12- or 16-bit. The swap
// is applied to the full row, once decoding completes.
func (s *Stream) decodeRowBody(dst []byte) error {
	bpp := int(s.bpp)
	lineLen := len(dst)
	pos := 0

	for pos < lineLen {
		b, err := s.readStagedByte()
		if err != nil {
			return err
		}

		remaining := lineLen - pos
		if b&0x80 != 0 {
			// Literal run: (257-b) elements follow verbatim.
			count := 257 - int(b)
			n := count * bpp
			if n > remaining {
				n = remaining
			}
			got, err := s.readStaged(dst[pos : pos+n])
			if err != nil {
				return err
			}
			pos += got
			if got < n {
				break
			}
		} else {
			// Repeat run: one element, replicated b+1 times.
			count := int(b) + 1
			n := count * bpp
			if n > remaining {
				n = remaining
			}
			if n < bpp {
				// Clamped count can't hold even one element: a producer
				// bug. Terminate this row without reading further,
				// rather than overrunning or blocking on a partial
				// element.
				break
			}

			var elem [8]byte // bpp is at most a handful of bytes per pixel element
			if bpp > len(elem) {
				return fmt.Errorf("raster: pixel element of %d bytes exceeds supported maximum: %w", bpp, ErrBadToken)
			}
			if _, err := s.readStaged(elem[:bpp]); err != nil {
				return err
			}
			for o := pos; o < pos+n; o += bpp {
				end := o + bpp
				if end > pos+n {
					end = pos + n
				}
				copy(dst[o:end], elem[:end-o])
			}
			pos += n
		}
	}

	if s.sync.swapped && needsElementSwap(&s.header) {
		swapPairs(dst)
	}
	return nil
}

// readStaged reads len(dst) bytes through the compressed-input staging
// buffer.
func (s *Stream) readStaged(dst []byte) (int, error) {
	return s.stageBuf.readInto(s.fd, dst, int(s.header.CUPSBytesPerLine))
}

func (s *Stream) readStagedByte() (byte, error) {
	var b [1]byte
	n, err := s.readStaged(b[:])
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, fmt.Errorf("raster: reading packbits token: %w", ErrShortRead)
	}
	return b[0], nil
}
