// Package raster implements a streaming codec for a page-raster
// interchange format: a producer (rasterizer or filter) emits a sequence
// of rendered pages, each a fixed-layout header followed by pixel data,
// to a consumer over a unidirectional byte channel.
//
// A Stream is not safe for concurrent use by multiple goroutines; each
// caller should use its own Stream, or provide external synchronization.
package raster

import "fmt"

// Mode selects whether a Stream reads or writes.
type Mode int

const (
	ModeRead Mode = iota
	ModeWrite
)

// Stream owns a raw file descriptor and the state of the page transaction
// currently in progress: framing flags, the current page header, and (for
// a compressed reader) decode scratch and staging buffers.
type Stream struct {
	fd   int
	mode Mode
	sync sync

	header    PageHeader
	bpp       uint32
	remaining uint32

	// Decoder-only state (compressed streams): the current output row and
	// its cursor, and the row-repeat counter. pcur == pend signals that the
	// staged row has been fully delivered; a new row-repeat token is read
	// only when count is also zero, otherwise the same row is emitted again.
	pixels []byte
	pcur   int
	pend   int
	count  int

	stageBuf *stage
}

// Open opens a raster stream over fd in the given mode.
//
// In ModeRead, it reads the 4-byte sync word and classifies it into one
// of the six legal values; any other value fails with ErrBadSync. In
// ModeWrite, it writes the canonical native/V1/uncompressed sync word
// verbatim; a writer never emits a V2 or byte-swapped stream.
func Open(fd int, mode Mode) (*Stream, error) {
	s := &Stream{fd: fd, mode: mode}

	if mode == ModeWrite {
		if _, err := writeExact(fd, syncOriginalNative[:]); err != nil {
			return nil, fmt.Errorf("raster: writing sync word: %w", err)
		}
		s.sync = sync{version: VersionV1}
		return s, nil
	}

	var raw [4]byte
	n, err := readExact(fd, raw[:])
	if err != nil {
		return nil, fmt.Errorf("raster: reading sync word: %w", err)
	}
	if n < len(raw) {
		return nil, fmt.Errorf("raster: reading sync word: %w", ErrShortRead)
	}
	parsed, ok := parseSync(raw)
	if !ok {
		return nil, fmt.Errorf("raster: sync word %q: %w", raw[:], ErrBadSync)
	}
	s.sync = parsed
	if parsed.compressed {
		s.stageBuf = &stage{}
	}
	return s, nil
}

// Close releases the Stream's scratch and staging buffers. It never
// fails; ownership of fd remains with the caller, who is responsible for
// closing it.
func (s *Stream) Close() error {
	s.pixels = nil
	s.stageBuf = nil
	return nil
}

// Compressed reports whether the stream carries packbits-compressed pixel
// data, derived from the sync word at Open time.
func (s *Stream) Compressed() bool { return s.sync.compressed }

// Swapped reports whether the stream's header words and pixel elements
// need byte-order correction, derived from the sync word at Open time.
func (s *Stream) Swapped() bool { return s.sync.swapped }

// Version reports the page header revision this stream was opened with.
func (s *Stream) Version() Version { return s.sync.version }

// headerVersion maps VersionOriginal to VersionV1 and returns any other
// Version unchanged.
func (s *Stream) headerVersion() Version {
	if s.sync.version == VersionOriginal {
		return VersionV1
	}
	return s.sync.version
}

// ReadHeaderV1 reads the next page header and fills h with its V1 fields:
// the 4 leading strings plus the 41-word V1 scalar block. The V2
// extension of h is left at its zero value. How many bytes are consumed
// from the wire is set by the stream's sync word, not by which Read
// method is called (see readHeader).
func (s *Stream) ReadHeaderV1(h *PageHeader) error {
	return s.readHeader(h, VersionV1)
}

// ReadHeaderV2 reads a V2-sized page header into h.
func (s *Stream) ReadHeaderV2(h *PageHeader) error {
	return s.readHeader(h, VersionV2)
}

// readHeader is the shared read path for ReadHeaderV1 and ReadHeaderV2.
// The number of bytes consumed from the wire follows the stream's
// sync-derived Version: a V1 sync word carries a V1-sized record, every
// other sync word a V2-sized one. requested only selects which fields are
// decoded into h; a V1-sized record read as V2 leaves the V2 extension
// zero.
func (s *Stream) readHeader(h *PageHeader, requested Version) error {
	if s.mode != ModeRead {
		return ErrWrongMode
	}

	length := headerLen(s.sync.version)
	raw := make([]byte, v2HeaderLen)
	n, err := s.readHeaderBytes(raw[:length])
	if err != nil {
		return fmt.Errorf("raster: reading page header: %w", err)
	}
	if n < length {
		return fmt.Errorf("raster: reading page header: %w", ErrShortRead)
	}

	if s.sync.swapped {
		swapLen := swapRegionLen
		if length-swapRegionStart < swapLen {
			swapLen = length - swapRegionStart
		}
		swapWords(raw[swapRegionStart : swapRegionStart+swapLen])
	}

	*h = PageHeader{}
	decodeHeader(h, raw, requested)

	s.header = *h
	s.deriveImplicitFields(requested)
	*h = s.header
	return nil
}

// readHeaderBytes reads len(dst) header bytes, through the compressed
// staging path when the stream is compressed.
func (s *Stream) readHeaderBytes(dst []byte) (int, error) {
	if s.sync.compressed {
		return s.stageBuf.readInto(s.fd, dst, len(dst))
	}
	return readExact(s.fd, dst)
}

// WriteHeaderV1 writes h as a V1-sized page header. Any V2-only fields in
// h are ignored: the V2 extension of the on-wire record is written as
// zero.
func (s *Stream) WriteHeaderV1(h *PageHeader) error {
	return s.writeHeader(h, VersionV1)
}

// WriteHeaderV2 writes h as a V2-sized page header.
func (s *Stream) WriteHeaderV2(h *PageHeader) error {
	return s.writeHeader(h, VersionV2)
}

func (s *Stream) writeHeader(h *PageHeader, version Version) error {
	if s.mode != ModeWrite {
		return ErrWrongMode
	}

	local := *h
	if version != VersionV2 {
		local.CUPSNumColors = 0
		local.CUPSBorderlessScalingFactor = 0
		local.CUPSPageSize = [2]float32{}
		local.CUPSImagingBBox = FloatBoundingBox{}
		local.CUPSInteger = [16]uint32{}
		local.CUPSReal = [16]float32{}
		local.CUPSString = [16]string{}
		local.CUPSMarkerType = ""
		local.CUPSRenderingIntent = ""
		local.CUPSPageSizeName = ""
	}

	s.header = local
	s.deriveImplicitFields(version)

	raw := make([]byte, v2HeaderLen)
	encodeHeader(&s.header, raw)
	if _, err := writeExact(s.fd, raw); err != nil {
		return fmt.Errorf("raster: writing page header: %w", err)
	}
	return nil
}

// deriveImplicitFields fills cupsNumColors, bpp and remaining from the
// header just read or written, and (for a compressed stream)
// (re)allocates the row scratch buffer and resets the row-repeat state
// for the new page.
func (s *Stream) deriveImplicitFields(version Version) {
	deriveNumColors(&s.header, version)
	s.bpp = bytesPerElement(&s.header)
	s.remaining = rowsPerPage(&s.header)

	if s.sync.compressed {
		lineLen := int(s.header.CUPSBytesPerLine)
		s.pixels = make([]byte, lineLen)
		s.pcur = lineLen
		s.pend = lineLen
		s.count = 0
	}
}
