package texfile

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erinpentecost/ddstex/internal/bc"
	"github.com/erinpentecost/ddstex/internal/dds"
	"github.com/erinpentecost/ddstex/internal/dxgi"
	"github.com/erinpentecost/ddstex/internal/texerr"
)

func nearColor(t *testing.T, img *image.NRGBA, want color.NRGBA, tol int) {
	t.Helper()
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.NRGBAAt(x, y)
			for i, pair := range [4][2]uint8{{c.R, want.R}, {c.G, want.G}, {c.B, want.B}, {c.A, want.A}} {
				d := int(pair[0]) - int(pair[1])
				if d < -tol || d > tol {
					t.Fatalf("(%d,%d) channel %d: got %v, want %v", x, y, i, c, want)
				}
			}
		}
	}
}

func TestMipCount(t *testing.T) {
	require.Equal(t, 1, MipCount(1, 1))
	require.Equal(t, 4, MipCount(8, 4))
	require.Equal(t, 3, MipCount(5, 3))
	require.Equal(t, 11, MipCount(1024, 1))
}

func TestToTextureMipChain(t *testing.T) {
	red := color.NRGBA{R: 0xff, A: 0xff}
	src := testImage(8, 4, func(x, y int) color.NRGBA { return red })

	tex, err := ToTexture(src, Options{Format: dxgi.BC1_UNORM, Threshold: bc.DefaultThreshold})
	require.NoError(t, err)
	require.Equal(t, 4, tex.MipLevels)
	require.Equal(t, dds.Texture2D, tex.Dimension)
	require.Len(t, tex.Pixels, 16+8+8+8)
	require.Len(t, tex.Subresources, 4)

	for mip, size := range [][2]int{{8, 4}, {4, 2}, {2, 1}, {1, 1}} {
		img, err := FromTexture(tex, 0, mip)
		require.NoError(t, err)
		require.Equal(t, image.Pt(size[0], size[1]), img.Bounds().Size())
		nearColor(t, img, red, 8)
	}

	tex, err = ToTexture(src, Options{Format: dxgi.BC1_UNORM, Mips: 2})
	require.NoError(t, err)
	require.Equal(t, 2, tex.MipLevels)

	_, err = FromTexture(tex, 0, 2)
	require.ErrorIs(t, err, texerr.ErrInvalidArgument)
}

func TestToTextureUncompressed(t *testing.T) {
	src := testImage(3, 2, func(x, y int) color.NRGBA {
		return color.NRGBA{R: uint8(x), G: uint8(y), B: 0x80, A: 0x40}
	})

	tex, err := ToTexture(src, Options{Mips: 1})
	require.NoError(t, err)
	require.Equal(t, dxgi.R8G8B8A8_UNORM, tex.Format)
	require.Equal(t, src.Pix, tex.Pixels)

	tex, err = ToTexture(src, Options{Format: dxgi.B8G8R8A8_UNORM, Mips: 1})
	require.NoError(t, err)
	require.Equal(t, []byte{0x80, 0, 0, 0x40}, tex.Pixels[:4])

	img, err := FromTexture(tex, 0, 0)
	require.NoError(t, err)
	require.Equal(t, src.Pix, img.Pix)

	_, err = ToTexture(src, Options{Format: dxgi.R1_UNORM, Mips: 1})
	require.ErrorIs(t, err, texerr.ErrNotSupported)
}

func TestToTextureThroughDDS(t *testing.T) {
	src := testImage(16, 16, func(x, y int) color.NRGBA {
		return color.NRGBA{R: uint8(x * 16), G: uint8(x * 8), B: 0x40, A: 0xff}
	})
	tex, err := ToTexture(src, Options{Format: dxgi.BC7_UNORM, Flags: bc.FlagBC7Quick})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, dds.Save(&buf, tex.Metadata, tex.Pixels, dds.FlagNone))

	loaded, err := dds.Load(buf.Bytes(), dds.FlagNone, 0)
	require.NoError(t, err)
	require.Equal(t, tex.Metadata, loaded.Metadata)
	require.Equal(t, dds.AlphaOpaque, dds.ScanAlphaMode(loaded))

	img, err := FromTexture(loaded, 0, 0)
	require.NoError(t, err)
	for i := range src.Pix {
		d := int(src.Pix[i]) - int(img.Pix[i])
		if d < -24 || d > 24 {
			t.Fatalf("byte %d: got %d, want %d", i, img.Pix[i], src.Pix[i])
		}
	}
}

func TestProcessors(t *testing.T) {
	src := testImage(5, 3, func(x, y int) color.NRGBA { return color.NRGBA{G: 0xff} })

	pot, err := (&PowerOfTwoProcessor{}).Process(src)
	require.NoError(t, err)
	require.Equal(t, image.Pt(8, 4), pot.Bounds().Size())

	half, err := (&PowerOfTwoProcessor{DownScaleFactor: 2}).Process(src)
	require.NoError(t, err)
	require.Equal(t, image.Pt(2, 1), half.Bounds().Size())

	same := testImage(4, 2, func(x, y int) color.NRGBA { return color.NRGBA{} })
	out, err := (&PowerOfTwoProcessor{}).Process(same)
	require.NoError(t, err)
	require.Same(t, same, out)

	edged, err := (&MinimumEdgeAlphaProcessor{Minimum: 0x20}).Process(testImage(3, 3, func(x, y int) color.NRGBA { return color.NRGBA{} }))
	require.NoError(t, err)
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			want := uint8(0x20)
			if x == 1 && y == 1 {
				want = 0
			}
			require.Equal(t, want, edged.NRGBAAt(x, y).A, "(%d,%d)", x, y)
		}
	}

	// processors run on a copy
	tex, err := ToTexture(src, Options{Mips: 1, Processors: []Processor{&MinimumEdgeAlphaProcessor{Minimum: 0xff}}})
	require.NoError(t, err)
	require.Equal(t, uint8(0), src.NRGBAAt(0, 0).A)
	require.Equal(t, byte(0xff), tex.Pixels[3])
}
