package raster

import (
	"bytes"
	"encoding/binary"
	"math"
)

// Wire layout constants for the fixed-position header record. See
// DESIGN.md for how the 81-word swap region size was recovered from the
// field list.
const (
	stringFieldLen = 64 // bytes per fixed C-string field on the wire

	v1LeadingStrings = 4  // MediaClass, MediaColor, MediaType, OutputType
	v1ScalarWords    = 41 // AdvanceDistance .. CUPSRowStep
	v2ScalarWords    = 40 // CUPSNumColors .. CUPSReal[16]
	swapRegionWords  = v1ScalarWords + v2ScalarWords // 81 words total

	v1LeadingStringsLen = v1LeadingStrings * stringFieldLen // 256
	v1ScalarLen         = v1ScalarWords * 4                 // 164
	v1HeaderLen         = v1LeadingStringsLen + v1ScalarLen // 420

	v2ScalarLen = v2ScalarWords * 4 // 160

	v2TrailingStrings    = 16 + 1 + 1 + 1 // CUPSString[16], MarkerType, RenderingIntent, PageSizeName
	v2TrailingStringsLen = v2TrailingStrings * stringFieldLen

	v2HeaderLen = v1HeaderLen + v2ScalarLen + v2TrailingStringsLen

	swapRegionStart = v1LeadingStringsLen // offset where the 81-word region begins
	swapRegionLen   = swapRegionWords * 4 // 324, full region length
)

// headerLen returns the on-wire size of a header on a stream of the given
// version: V1 streams carry the V1-sized record, original and V2 streams
// the full V2-sized one.
func headerLen(v Version) int {
	if v == VersionV1 {
		return v1HeaderLen
	}
	return v2HeaderLen
}

// cursor is an explicit field-by-field reader/writer over a header byte
// slice, parameterized by byte order, rather than relying on Go's struct
// memory layout. Both decodeHeader and encodeHeader walk a cursor in
// lock-step with the field list.
type cursor struct {
	buf   []byte
	pos   int
	order binary.ByteOrder
}

func (c *cursor) u32() uint32 {
	v := c.order.Uint32(c.buf[c.pos:])
	c.pos += 4
	return v
}

func (c *cursor) putU32(v uint32) {
	c.order.PutUint32(c.buf[c.pos:], v)
	c.pos += 4
}

func (c *cursor) f32() float32 {
	return math.Float32frombits(c.u32())
}

func (c *cursor) putF32(v float32) {
	c.putU32(math.Float32bits(v))
}

func (c *cursor) boolean() bool {
	return c.u32() == 1
}

func (c *cursor) putBool(v bool) {
	if v {
		c.putU32(1)
	} else {
		c.putU32(0)
	}
}

func (c *cursor) cstring() string {
	field := c.buf[c.pos : c.pos+stringFieldLen]
	c.pos += stringFieldLen
	if idx := bytes.IndexByte(field, 0); idx >= 0 {
		return string(field[:idx])
	}
	return string(field)
}

func (c *cursor) putCString(s string) {
	field := c.buf[c.pos : c.pos+stringFieldLen]
	c.pos += stringFieldLen
	for i := range field {
		field[i] = 0
	}
	n := len(s)
	if n > stringFieldLen-1 {
		n = stringFieldLen - 1
	}
	copy(field, s[:n])
}

// decodeHeader walks raw (already corrected to native byte order if the
// stream is byte-swapped) and fills h. raw must hold at least
// headerLen(v) bytes; a V1 decode reads only the V1 prefix.
func decodeHeader(h *PageHeader, raw []byte, v Version) {
	c := &cursor{buf: raw, order: nativeByteOrder}

	h.MediaClass = c.cstring()
	h.MediaColor = c.cstring()
	h.MediaType = c.cstring()
	h.OutputType = c.cstring()

	h.AdvanceDistance = c.u32()
	h.AdvanceMedia = c.u32()
	h.Collate = c.boolean()
	h.CutMedia = c.u32()
	h.Duplex = c.boolean()
	h.HorizDPI = c.u32()
	h.VertDPI = c.u32()
	h.BoundingBox.Left = c.u32()
	h.BoundingBox.Bottom = c.u32()
	h.BoundingBox.Right = c.u32()
	h.BoundingBox.Top = c.u32()
	h.InsertSheet = c.boolean()
	h.Jog = c.u32()
	h.LeadingEdge = c.u32()
	h.MarginLeft = c.u32()
	h.MarginBottom = c.u32()
	h.ManualFeed = c.boolean()
	h.MediaPosition = c.u32()
	h.MediaWeight = c.u32()
	h.MirrorPrint = c.boolean()
	h.NegativePrint = c.boolean()
	h.NumCopies = c.u32()
	h.Orientation = c.u32()
	h.OutputFaceUp = c.boolean()
	h.Width = c.u32()
	h.Length = c.u32()
	h.Separations = c.boolean()
	h.TraySwitch = c.boolean()
	h.Tumble = c.boolean()
	h.CUPSWidth = c.u32()
	h.CUPSHeight = c.u32()
	h.CUPSMediaType = c.u32()
	h.CUPSBitsPerColor = c.u32()
	h.CUPSBitsPerPixel = c.u32()
	h.CUPSBytesPerLine = c.u32()
	h.CUPSColorOrder = ColorOrder(c.u32())
	h.CUPSColorSpace = ColorSpace(c.u32())
	h.CUPSCompression = c.u32()
	h.CUPSRowCount = c.u32()
	h.CUPSRowFeed = c.u32()
	h.CUPSRowStep = c.u32()

	if v != VersionV2 {
		return
	}

	h.CUPSNumColors = c.u32()
	h.CUPSBorderlessScalingFactor = c.f32()
	h.CUPSPageSize[0] = c.f32()
	h.CUPSPageSize[1] = c.f32()
	h.CUPSImagingBBox.Left = c.f32()
	h.CUPSImagingBBox.Bottom = c.f32()
	h.CUPSImagingBBox.Right = c.f32()
	h.CUPSImagingBBox.Top = c.f32()
	for i := range h.CUPSInteger {
		h.CUPSInteger[i] = c.u32()
	}
	for i := range h.CUPSReal {
		h.CUPSReal[i] = c.f32()
	}
	for i := range h.CUPSString {
		h.CUPSString[i] = c.cstring()
	}
	h.CUPSMarkerType = c.cstring()
	h.CUPSRenderingIntent = c.cstring()
	h.CUPSPageSizeName = c.cstring()
}

// encodeHeader is decodeHeader's inverse: it fills raw (already zeroed by
// the caller and exactly v2HeaderLen bytes, since the writer always emits
// a full V2-sized record) from h, in native byte order. The writer never
// swaps or compresses, so there is no swapped variant of this function.
func encodeHeader(h *PageHeader, raw []byte) {
	c := &cursor{buf: raw, order: nativeByteOrder}

	c.putCString(h.MediaClass)
	c.putCString(h.MediaColor)
	c.putCString(h.MediaType)
	c.putCString(h.OutputType)

	c.putU32(h.AdvanceDistance)
	c.putU32(h.AdvanceMedia)
	c.putBool(h.Collate)
	c.putU32(h.CutMedia)
	c.putBool(h.Duplex)
	c.putU32(h.HorizDPI)
	c.putU32(h.VertDPI)
	c.putU32(h.BoundingBox.Left)
	c.putU32(h.BoundingBox.Bottom)
	c.putU32(h.BoundingBox.Right)
	c.putU32(h.BoundingBox.Top)
	c.putBool(h.InsertSheet)
	c.putU32(h.Jog)
	c.putU32(h.LeadingEdge)
	c.putU32(h.MarginLeft)
	c.putU32(h.MarginBottom)
	c.putBool(h.ManualFeed)
	c.putU32(h.MediaPosition)
	c.putU32(h.MediaWeight)
	c.putBool(h.MirrorPrint)
	c.putBool(h.NegativePrint)
	c.putU32(h.NumCopies)
	c.putU32(h.Orientation)
	c.putBool(h.OutputFaceUp)
	c.putU32(h.Width)
	c.putU32(h.Length)
	c.putBool(h.Separations)
	c.putBool(h.TraySwitch)
	c.putBool(h.Tumble)
	c.putU32(h.CUPSWidth)
	c.putU32(h.CUPSHeight)
	c.putU32(h.CUPSMediaType)
	c.putU32(h.CUPSBitsPerColor)
	c.putU32(h.CUPSBitsPerPixel)
	c.putU32(h.CUPSBytesPerLine)
	c.putU32(uint32(h.CUPSColorOrder))
	c.putU32(uint32(h.CUPSColorSpace))
	c.putU32(h.CUPSCompression)
	c.putU32(h.CUPSRowCount)
	c.putU32(h.CUPSRowFeed)
	c.putU32(h.CUPSRowStep)

	c.putU32(h.CUPSNumColors)
	c.putF32(h.CUPSBorderlessScalingFactor)
	c.putF32(h.CUPSPageSize[0])
	c.putF32(h.CUPSPageSize[1])
	c.putF32(h.CUPSImagingBBox.Left)
	c.putF32(h.CUPSImagingBBox.Bottom)
	c.putF32(h.CUPSImagingBBox.Right)
	c.putF32(h.CUPSImagingBBox.Top)
	for i := range h.CUPSInteger {
		c.putU32(h.CUPSInteger[i])
	}
	for i := range h.CUPSReal {
		c.putF32(h.CUPSReal[i])
	}
	for i := range h.CUPSString {
		c.putCString(h.CUPSString[i])
	}
	c.putCString(h.CUPSMarkerType)
	c.putCString(h.CUPSRenderingIntent)
	c.putCString(h.CUPSPageSizeName)
}
