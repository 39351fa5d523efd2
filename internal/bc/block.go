// Package bc encodes and decodes the BC1 through BC7 block compressed
// formats, one 4x4 tile at a time or over whole images.
package bc

import (
	"fmt"

	"github.com/erinpentecost/ddstex/internal/dxgi"
	"github.com/erinpentecost/ddstex/internal/texerr"
)

// Block is a 4x4 tile of RGBA texels in row-major order. UNORM channels
// lie in [0, 1], SNORM channels in [-1, 1] and BC6H channels are plain
// floats.
type Block [16][4]float32

// Flags tune the block encoders.
type Flags uint32

const (
	FlagNone Flags = 0
	// FlagDitherRGB diffuses colour quantization error across the tile.
	FlagDitherRGB Flags = 0x10000
	// FlagDitherA diffuses alpha quantization error across the tile.
	FlagDitherA Flags = 0x20000
	// FlagUniform weighs colour channels equally instead of by luminance.
	FlagUniform Flags = 0x40000
	// FlagBC7Quick limits the BC7 search to mode 6.
	FlagBC7Quick Flags = 0x100000
	// FlagSequential encodes images on the calling goroutine.
	FlagSequential Flags = 0x200000
)

// DefaultThreshold is the BC1 alpha cutoff below which a texel becomes
// transparent.
const DefaultThreshold float32 = 0.5

// BlockSize returns the bytes per 4x4 block of a BC format, or 0.
func BlockSize(f dxgi.Format) int {
	if !dxgi.IsCompressed(f) {
		return 0
	}
	return dxgi.BytesPerBlock(f)
}

// DecodeBlock expands one compressed block of format f.
func DecodeBlock(f dxgi.Format, src []byte) (Block, error) {
	var blk Block
	f = dxgi.PromoteTypeless(f)
	size := BlockSize(f)
	if size == 0 {
		return blk, fmt.Errorf("%w: bc: %s is not block compressed", texerr.ErrNotSupported, f)
	}
	if len(src) < size {
		return blk, fmt.Errorf("%w: bc: %d byte %s block, need %d", texerr.ErrUnexpectedEndOfData, len(src), f, size)
	}

	switch f {
	case dxgi.BC1_UNORM, dxgi.BC1_UNORM_SRGB:
		decodeColor(&blk, src, true)
	case dxgi.BC2_UNORM, dxgi.BC2_UNORM_SRGB:
		decodeColor(&blk, src[8:], false)
		decodeExplicitAlpha(&blk, src)
	case dxgi.BC3_UNORM, dxgi.BC3_UNORM_SRGB:
		decodeColor(&blk, src[8:], false)
		var a [16]float32
		decodeChannel(&a, src, false)
		for i := range blk {
			blk[i][3] = a[i]
		}
	case dxgi.BC4_UNORM, dxgi.BC4_SNORM:
		var r [16]float32
		decodeChannel(&r, src, f == dxgi.BC4_SNORM)
		for i := range blk {
			blk[i] = [4]float32{r[i], 0, 0, 1}
		}
	case dxgi.BC5_UNORM, dxgi.BC5_SNORM:
		var r, g [16]float32
		signed := f == dxgi.BC5_SNORM
		decodeChannel(&r, src, signed)
		decodeChannel(&g, src[8:], signed)
		for i := range blk {
			blk[i] = [4]float32{r[i], g[i], 0, 1}
		}
	case dxgi.BC6H_UF16, dxgi.BC6H_SF16:
		decodeBC6H(&blk, src, f == dxgi.BC6H_SF16)
	case dxgi.BC7_UNORM, dxgi.BC7_UNORM_SRGB:
		decodeBC7(&blk, src)
	default:
		return blk, fmt.Errorf("%w: bc: no decoder for %s", texerr.ErrNotSupported, f)
	}
	return blk, nil
}

// EncodeBlock compresses blk into dst as format f. threshold only affects
// BC1, where texels with alpha below it are stored transparent.
func EncodeBlock(dst []byte, f dxgi.Format, blk *Block, flags Flags, threshold float32) error {
	f = dxgi.PromoteTypeless(f)
	size := BlockSize(f)
	if size == 0 {
		return fmt.Errorf("%w: bc: %s is not block compressed", texerr.ErrNotSupported, f)
	}
	if len(dst) < size {
		return fmt.Errorf("%w: bc: %d byte destination for %s, need %d", texerr.ErrInvalidArgument, len(dst), f, size)
	}

	switch f {
	case dxgi.BC1_UNORM, dxgi.BC1_UNORM_SRGB:
		encodeColor(dst, blk, true, flags, threshold)
	case dxgi.BC2_UNORM, dxgi.BC2_UNORM_SRGB:
		encodeExplicitAlpha(dst, blk, flags)
		encodeColor(dst[8:], blk, false, flags, 0)
	case dxgi.BC3_UNORM, dxgi.BC3_UNORM_SRGB:
		var a [16]float32
		for i := range blk {
			a[i] = blk[i][3]
		}
		encodeChannel(dst, &a, false, flags&FlagDitherA != 0)
		encodeColor(dst[8:], blk, false, flags, 0)
	case dxgi.BC4_UNORM, dxgi.BC4_SNORM:
		var r [16]float32
		for i := range blk {
			r[i] = blk[i][0]
		}
		encodeChannel(dst, &r, f == dxgi.BC4_SNORM, false)
	case dxgi.BC5_UNORM, dxgi.BC5_SNORM:
		var r, g [16]float32
		for i := range blk {
			r[i], g[i] = blk[i][0], blk[i][1]
		}
		signed := f == dxgi.BC5_SNORM
		encodeChannel(dst, &r, signed, false)
		encodeChannel(dst[8:], &g, signed, false)
	case dxgi.BC6H_UF16, dxgi.BC6H_SF16:
		encodeBC6H(dst, blk, f == dxgi.BC6H_SF16)
	case dxgi.BC7_UNORM, dxgi.BC7_UNORM_SRGB:
		encodeBC7(dst, blk, flags)
	default:
		return fmt.Errorf("%w: bc: no encoder for %s", texerr.ErrNotSupported, f)
	}
	return nil
}

func clamp01(v float32) float32 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	case v != v:
		return 0
	}
	return v
}

func clampRange(v, lo, hi float32) float32 {
	switch {
	case v < lo:
		return lo
	case v > hi:
		return hi
	case v != v:
		return 0
	}
	return v
}

// diffuse spreads err from texel i to its unvisited neighbours with the
// Floyd-Steinberg weights.
func diffuse(errs *[16]float32, i int, err float32) {
	x, y := i&3, i>>2
	if x < 3 {
		errs[i+1] += err * 7 / 16
	}
	if y < 3 {
		if x > 0 {
			errs[i+3] += err * 3 / 16
		}
		errs[i+4] += err * 5 / 16
		if x < 3 {
			errs[i+5] += err * 1 / 16
		}
	}
}
