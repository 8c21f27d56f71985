package raster

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type colorSpaceCase struct {
	Name         string `yaml:"name"`
	ColorSpace   uint32 `yaml:"colorSpace"`
	BitsPerPixel uint32 `yaml:"bitsPerPixel"`
	NumColors    uint32 `yaml:"numColors"`
}

type colorSpaceFixture struct {
	Cases []colorSpaceCase `yaml:"cases"`
}

// TestDeriveNumColorsFromFixture covers the full colorspace-to-
// plane-count table, sourced from testdata/colorspaces.yaml rather than
// hardcoded per case.
func TestDeriveNumColorsFromFixture(t *testing.T) {
	raw, err := os.ReadFile("testdata/colorspaces.yaml")
	require.NoError(t, err)

	var fixture colorSpaceFixture
	require.NoError(t, yaml.Unmarshal(raw, &fixture))
	require.NotEmpty(t, fixture.Cases)

	for _, tc := range fixture.Cases {
		tc := tc
		t.Run(tc.Name, func(t *testing.T) {
			bpp := tc.BitsPerPixel
			if bpp == 0 {
				bpp = 8
			}
			h := &PageHeader{CUPSColorSpace: ColorSpace(tc.ColorSpace), CUPSBitsPerPixel: bpp}
			deriveNumColors(h, VersionV1)
			require.Equal(t, tc.NumColors, h.CUPSNumColors)
		})
	}
}

// TestDeriveNumColorsV2PreservesNonzero checks that a V2 header with an
// explicit nonzero cupsNumColors is trusted as given, even when it
// disagrees with the colorspace table.
func TestDeriveNumColorsV2PreservesNonzero(t *testing.T) {
	h := &PageHeader{CUPSColorSpace: ColorSpaceRGB, CUPSNumColors: 9}
	deriveNumColors(h, VersionV2)
	require.Equal(t, uint32(9), h.CUPSNumColors)
}

// TestWriteHeaderV1ScenarioDerivesColorsAndBpp checks the derivation a V1
// header write applies, by calling deriveNumColors (as VersionV1) and
// bytesPerElement directly: cupsColorSpace=CMYK, cupsNumColors=0, chunked
// order and 32-bit pixels derive cupsNumColors=4 and bpp=4.
func TestWriteHeaderV1ScenarioDerivesColorsAndBpp(t *testing.T) {
	h := &PageHeader{
		CUPSColorSpace:   ColorSpaceCMYK,
		CUPSColorOrder:   Chunked,
		CUPSBitsPerPixel: 32,
	}
	deriveNumColors(h, VersionV1)
	require.Equal(t, uint32(4), h.CUPSNumColors)
	require.Equal(t, uint32(4), bytesPerElement(h))
}

// TestHeaderCodecRoundTripV2 encodes a fully populated V2 header and
// decodes it back, checking every field group survives: leading strings,
// the V1 scalar block, the V2 scalar extension, and the trailing strings.
func TestHeaderCodecRoundTripV2(t *testing.T) {
	want := &PageHeader{
		MediaClass: "transparency",
		MediaColor: "blue",
		MediaType:  "stock",
		OutputType: "proof",

		AdvanceDistance: 10,
		AdvanceMedia:    2,
		Collate:         true,
		CutMedia:        1,
		Duplex:          true,
		HorizDPI:        600,
		VertDPI:         1200,
		BoundingBox:     BoundingBox{Left: 0, Bottom: 0, Right: 2550, Top: 3300},
		InsertSheet:     true,
		Jog:             3,
		LeadingEdge:     1,
		MarginLeft:      36,
		MarginBottom:    36,
		ManualFeed:      false,
		MediaPosition:   2,
		MediaWeight:     80,
		MirrorPrint:     false,
		NegativePrint:   true,
		NumCopies:       3,
		Orientation:     1,
		OutputFaceUp:    true,
		Width:           2550,
		Length:          3300,
		Separations:     true,
		TraySwitch:      false,
		Tumble:          true,

		CUPSWidth:        2550,
		CUPSHeight:       3300,
		CUPSMediaType:    4,
		CUPSBitsPerColor: 8,
		CUPSBitsPerPixel: 32,
		CUPSBytesPerLine: 10200,
		CUPSColorOrder:   Chunked,
		CUPSColorSpace:   ColorSpaceCMYK,
		CUPSCompression:  0,
		CUPSRowCount:     0,
		CUPSRowFeed:      0,
		CUPSRowStep:      0,

		CUPSNumColors:               4,
		CUPSBorderlessScalingFactor: 1.5,
		CUPSPageSize:                [2]float32{612.0, 792.0},
		CUPSImagingBBox:             FloatBoundingBox{Left: 18, Bottom: 18, Right: 594, Top: 774},
		CUPSMarkerType:              "toner",
		CUPSRenderingIntent:         "perceptual",
		CUPSPageSizeName:            "Letter",
	}
	want.CUPSInteger[0] = 42
	want.CUPSReal[0] = 3.25
	want.CUPSString[0] = "fixture"

	raw := make([]byte, v2HeaderLen)
	encodeHeader(want, raw)

	var got PageHeader
	decodeHeader(&got, raw, VersionV2)
	require.Equal(t, want, &got)
}

// TestHeaderCodecRoundTripV1 checks that decoding a V1-sized record stops
// after the V1 scalar block and leaves the V2 extension at its zero value.
func TestHeaderCodecRoundTripV1(t *testing.T) {
	want := &PageHeader{
		MediaClass:       "plain",
		CUPSWidth:        850,
		CUPSHeight:       1100,
		CUPSBitsPerPixel: 8,
		CUPSColorOrder:   Chunked,
		CUPSColorSpace:   ColorSpaceK,
	}

	raw := make([]byte, v1HeaderLen)
	full := make([]byte, v2HeaderLen)
	encodeHeader(want, full)
	copy(raw, full[:v1HeaderLen])

	var got PageHeader
	decodeHeader(&got, raw, VersionV1)
	require.Equal(t, want.CUPSWidth, got.CUPSWidth)
	require.Equal(t, want.CUPSColorSpace, got.CUPSColorSpace)
	require.Equal(t, uint32(0), got.CUPSNumColors)
	require.Equal(t, "", got.CUPSPageSizeName)
}

// TestSwapRegionIsSelfInverse checks that swapping the 81-word region
// twice restores the original bytes, and decoding after a single swap
// followed by a compensating un-swap recovers the original header.
func TestSwapRegionIsSelfInverse(t *testing.T) {
	want := &PageHeader{
		CUPSWidth:        1700,
		CUPSHeight:       2200,
		CUPSBitsPerPixel: 24,
		CUPSColorOrder:   Chunked,
		CUPSColorSpace:   ColorSpaceRGB,
		CUPSNumColors:    3,
	}

	raw := make([]byte, v2HeaderLen)
	encodeHeader(want, raw)

	region := raw[swapRegionStart : swapRegionStart+swapRegionLen]
	original := append([]byte(nil), region...)

	swapWords(region)
	require.NotEqual(t, original, region)
	swapWords(region)
	require.Equal(t, original, region)

	var got PageHeader
	decodeHeader(&got, raw, VersionV2)
	require.Equal(t, want.CUPSWidth, got.CUPSWidth)
	require.Equal(t, want.CUPSColorSpace, got.CUPSColorSpace)
}
