package raster

import "errors"

// Sentinel errors, one per error kind distinguished by the wire codec.
// Callers use errors.Is to classify a failure; wrapped detail is added at
// the call site with fmt.Errorf("...: %w", ...).
var (
	// ErrBadSync means the stream did not begin with one of the six
	// recognized sync words.
	ErrBadSync = errors.New("raster: unrecognized sync word")

	// ErrShortRead means the underlying channel ended before the expected
	// number of bytes arrived.
	ErrShortRead = errors.New("raster: short read")

	// ErrIOFailure means the underlying channel reported a non-retryable
	// error.
	ErrIOFailure = errors.New("raster: i/o failure")

	// ErrWrongMode means a read operation was attempted on a write stream,
	// or vice versa.
	ErrWrongMode = errors.New("raster: wrong stream mode")

	// ErrExhausted means a pixel operation was invoked with no rows
	// remaining on the current page.
	ErrExhausted = errors.New("raster: no rows remaining on page")

	// ErrOutOfMemory means a staging or scratch buffer allocation failed.
	ErrOutOfMemory = errors.New("raster: allocation failed")

	// ErrBadToken means the compressed pixel stream contained a packbits
	// token that the decoder cannot satisfy: a repeat run whose pixel
	// element is wider than the decoder supports. ReadPixels returns it
	// wrapped with detail, not wrapped around one of the kinds above.
	ErrBadToken = errors.New("raster: malformed packbits token")
)
