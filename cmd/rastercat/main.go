// Command rastercat inspects a raster stream read from standard input: for
// every page it prints the derived geometry and the number of pixel bytes
// consumed. It is a debugging aid, not part of the codec's public surface.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	raster "github.com/thebagchi/go-raster"
)

func main() {
	var (
		chunkSize = flag.Int("chunk", 65536, "pixel read chunk size in bytes")
	)
	flag.Parse()

	if err := run(int(os.Stdin.Fd()), *chunkSize); err != nil {
		fmt.Fprintln(os.Stderr, "rastercat:", err)
		os.Exit(1)
	}
}

func run(fd, chunkSize int) error {
	s, err := raster.Open(fd, raster.ModeRead)
	if err != nil {
		return fmt.Errorf("opening stream: %w", err)
	}
	defer s.Close()

	fmt.Printf("version=%d swapped=%v compressed=%v\n", s.Version(), s.Swapped(), s.Compressed())

	for page := 1; ; page++ {
		var h raster.PageHeader
		if err := s.ReadHeaderV2(&h); err != nil {
			if errors.Is(err, raster.ErrShortRead) {
				return nil
			}
			return fmt.Errorf("page %d: reading header: %w", page, err)
		}

		fmt.Printf("page %d: %dx%d bpc=%d bpp=%d bytesPerLine=%d colorSpace=%d numColors=%d\n",
			page, h.CUPSWidth, h.CUPSHeight, h.CUPSBitsPerColor, h.CUPSBitsPerPixel,
			h.CUPSBytesPerLine, h.CUPSColorSpace, h.CUPSNumColors)

		// On an uncompressed stream ReadPixels reads exactly len(buf) bytes
		// and trusts the caller to stay row-aligned (see pixels.go), so
		// each request here is clamped to the rows actually left on the
		// page; an oversized final chunk must not read into whatever
		// follows on the wire.
		totalRows := int(h.CUPSHeight)
		if h.CUPSColorOrder == raster.Planar {
			totalRows *= int(h.CUPSNumColors)
		}
		rowsPerChunk := chunkSize / int(h.CUPSBytesPerLine)
		if rowsPerChunk < 1 {
			rowsPerChunk = 1
		}

		var consumed int
		for rowsLeft := totalRows; rowsLeft > 0; {
			rows := rowsPerChunk
			if rows > rowsLeft {
				rows = rowsLeft
			}
			buf := make([]byte, rows*int(h.CUPSBytesPerLine))
			n, err := s.ReadPixels(buf)
			consumed += n
			if errors.Is(err, raster.ErrExhausted) {
				break
			}
			if err != nil {
				return fmt.Errorf("page %d: reading pixels: %w", page, err)
			}
			rowsLeft -= rows
		}
		fmt.Printf("page %d: consumed %d pixel bytes\n", page, consumed)
	}
}
