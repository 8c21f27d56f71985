package raster

import "encoding/binary"

// Version identifies a page header revision.
type Version int

const (
	// VersionOriginal is the original (V0) header, carried by the plain
	// SYNC/REVSYNC magic. Its pages carry the full V2-sized header
	// record on the wire; only VersionV1 streams carry the shorter
	// V1-sized record (see headerLen).
	VersionOriginal Version = iota
	VersionV1
	VersionV2
)

// The six recognized 4-byte sync words. Classification is done by direct
// byte comparison, not by reinterpreting the bytes as an integer, the
// same way a reference CUPS raster decoder matches the sync word against
// six ASCII-string constants. This sidesteps any assumption about the
// host's own byte order: the sync word itself, not the reader's
// architecture, is what tells the codec whether the stream is swapped.
var (
	syncOriginalNative  = [4]byte{'R', 'a', 'S', 't'}
	syncOriginalSwapped = [4]byte{'t', 'S', 'a', 'R'}
	syncV1Native        = [4]byte{'R', 'a', 'S', '1'}
	syncV1Swapped       = [4]byte{'1', 'S', 'a', 'R'}
	syncV2Native        = [4]byte{'R', 'a', 'S', '2'}
	syncV2Swapped       = [4]byte{'2', 'S', 'a', 'R'}
)

// sync describes the three orthogonal flags carried by a stream's magic
// word: header version, byte-order swap, and compression.
type sync struct {
	version    Version
	swapped    bool
	compressed bool
}

// parseSync classifies one of the six legal 4-byte magic values. ok is
// false for any other value.
func parseSync(word [4]byte) (s sync, ok bool) {
	switch word {
	case syncOriginalNative:
		return sync{version: VersionOriginal}, true
	case syncOriginalSwapped:
		return sync{version: VersionOriginal, swapped: true}, true
	case syncV1Native:
		return sync{version: VersionV1}, true
	case syncV1Swapped:
		return sync{version: VersionV1, swapped: true}, true
	case syncV2Native:
		return sync{version: VersionV2, compressed: true}, true
	case syncV2Swapped:
		return sync{version: VersionV2, swapped: true, compressed: true}, true
	default:
		return sync{}, false
	}
}

// nativeByteOrder is the byte order used to decode and encode the
// fixed-layout scalar fields of a page header once the sync word has
// already told the codec whether those words need a swap. It assumes a
// little-endian host, true of every platform this module is built for
// (amd64, arm64); it is not derived from runtime introspection.
var nativeByteOrder binary.ByteOrder = binary.LittleEndian
