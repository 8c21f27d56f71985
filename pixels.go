package raster

import "fmt"

// ReadPixels fills buf with the next len(buf) bytes of pixel data,
// dispatching to the uncompressed or packbits-compressed path depending
// on how the stream was opened. It returns ErrWrongMode on a write
// stream, and ErrExhausted if no rows remain on the current page.
func (s *Stream) ReadPixels(buf []byte) (int, error) {
	if s.mode != ModeRead {
		return 0, ErrWrongMode
	}
	if s.remaining == 0 {
		return 0, ErrExhausted
	}
	if s.sync.compressed {
		return s.readPixelsCompressed(buf)
	}
	return s.readPixelsRaw(buf)
}

// WritePixels writes buf verbatim as the next len(buf) bytes of pixel
// data. The encoder never compresses, so this is the only pixel write
// path. The caller is expected to write in row-aligned chunks; see
// readPixelsRaw for what happens when it doesn't.
func (s *Stream) WritePixels(buf []byte) (int, error) {
	if s.mode != ModeWrite {
		return 0, ErrWrongMode
	}
	if s.remaining == 0 {
		return 0, ErrExhausted
	}

	rows := uint32(len(buf)) / s.header.CUPSBytesPerLine
	if rows > s.remaining {
		rows = s.remaining
	}
	s.remaining -= rows

	n, err := writeExact(s.fd, buf)
	if err != nil {
		return n, fmt.Errorf("raster: writing pixel data: %w", err)
	}
	return n, nil
}

// readPixelsRaw is the uncompressed read path: remaining is decremented
// by the integer-division row count of the requested length, then the
// full len(buf) bytes are read through direct I/O regardless of row
// alignment. A caller that requests more bytes than remain on the page
// will read into whatever follows on the wire; the caller is expected to
// read in row-aligned chunks sized to what remains.
func (s *Stream) readPixelsRaw(buf []byte) (int, error) {
	rows := uint32(len(buf)) / s.header.CUPSBytesPerLine
	if rows > s.remaining {
		rows = s.remaining
	}
	s.remaining -= rows

	n, err := readExact(s.fd, buf)
	if err != nil {
		return n, fmt.Errorf("raster: reading pixel data: %w", err)
	}
	if n < len(buf) {
		return n, fmt.Errorf("raster: reading pixel data: %w", ErrShortRead)
	}

	if s.sync.swapped && needsElementSwap(&s.header) {
		swapPairs(buf)
	}
	return n, nil
}
