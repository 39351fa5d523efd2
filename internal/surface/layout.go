// Package surface computes byte layouts of a single 2D surface.
package surface

import (
	"fmt"
	"math"
	"math/bits"
	"strconv"

	"github.com/erinpentecost/ddstex/internal/dxgi"
	"github.com/erinpentecost/ddstex/internal/texerr"
)

// Flags adjust how a row pitch is computed.
type Flags uint32

const (
	FlagNone Flags = 0
	// FlagLegacyDWORD aligns rows to 4 bytes, as some DirectDraw-era writers assumed.
	FlagLegacyDWORD Flags = 0x1
	FlagParagraph   Flags = 0x2
	FlagYMM         Flags = 0x4
	FlagZMM         Flags = 0x8
	FlagPage4K      Flags = 0x200
	// FlagLimit32 applies the 32-bit addressing limit regardless of the host word size.
	FlagLimit32 Flags = 0x1000
	Flag24BPP   Flags = 0x10000
	Flag16BPP   Flags = 0x20000
	Flag8BPP    Flags = 0x40000
)

const alignFlags = FlagLegacyDWORD | FlagParagraph | FlagYMM | FlagZMM | FlagPage4K

// Layout is the byte footprint of one surface.
type Layout struct {
	TotalBytes uint64
	RowPitch   uint64
	RowCount   uint64
}

// calc carries the first overflow seen through a chain of multiplications.
type calc struct {
	overflow bool
}

func (c *calc) mul(a, b uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		c.overflow = true
	}
	return lo
}

func (c *calc) add(a, b uint64) uint64 {
	s, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		c.overflow = true
	}
	return s
}

func ceilDiv(a, b uint64) uint64 {
	return a/b + min(a%b, 1)
}

// ComputeLayout returns the row pitch, row count and total size of a
// width x height surface of format f.
func ComputeLayout(width, height int, f dxgi.Format, flags Flags) (Layout, error) {
	if width < 0 || height < 0 {
		return Layout{}, fmt.Errorf("%w: surface: negative size %dx%d", texerr.ErrInvalidArgument, width, height)
	}
	w, h := uint64(width), uint64(height)

	var (
		c   calc
		out Layout
	)

	switch {
	case dxgi.IsCompressed(f):
		bw := max(1, ceilDiv(w, 4))
		bh := max(1, ceilDiv(h, 4))
		out.RowPitch = c.mul(bw, uint64(dxgi.BytesPerBlock(f)))
		out.RowCount = bh
		out.TotalBytes = c.mul(out.RowPitch, bh)

	case dxgi.IsPacked(f):
		bpe := uint64(4)
		if f == dxgi.Y210 || f == dxgi.Y216 {
			bpe = 8
		}
		out.RowPitch = c.mul(ceilDiv(w, 2), bpe)
		out.RowCount = h
		out.TotalBytes = c.mul(out.RowPitch, h)

	case f == dxgi.NV11:
		out.RowPitch = c.mul(ceilDiv(w, 4), 4)
		out.RowCount = c.mul(h, 2)
		out.TotalBytes = c.mul(out.RowPitch, out.RowCount)

	case f == dxgi.NV12 || f == dxgi.OPAQUE_420 || f == dxgi.P010 || f == dxgi.P016:
		if h%2 != 0 {
			return Layout{}, fmt.Errorf("%w: surface: %s needs an even height, got %d", texerr.ErrInvalidArgument, f, height)
		}
		bpe := uint64(2)
		if f == dxgi.P010 || f == dxgi.P016 {
			bpe = 4
		}
		out.RowPitch = c.mul(ceilDiv(w, 2), bpe)
		luma := c.mul(out.RowPitch, h)
		out.TotalBytes = c.add(luma, ceilDiv(luma, 2))
		out.RowCount = h + ceilDiv(h, 2)

	case f == dxgi.P208:
		out.RowPitch = c.mul(ceilDiv(w, 2), 2)
		out.RowCount = c.mul(h, 2)
		out.TotalBytes = c.mul(out.RowPitch, out.RowCount)

	case f == dxgi.V208:
		out.RowPitch = w
		out.RowCount = c.add(h, c.mul(ceilDiv(h, 2), 2))
		out.TotalBytes = c.mul(out.RowPitch, out.RowCount)

	case f == dxgi.V408:
		out.RowPitch = w
		out.RowCount = c.mul(h, 3)
		out.TotalBytes = c.mul(out.RowPitch, out.RowCount)

	default:
		bpp := uint64(dxgi.BitsPerPixel(f))
		switch {
		case flags&Flag24BPP != 0:
			bpp = 24
		case flags&Flag16BPP != 0:
			bpp = 16
		case flags&Flag8BPP != 0:
			bpp = 8
		}
		if bpp == 0 {
			return Layout{}, fmt.Errorf("%w: surface: unknown bits per pixel for %s", texerr.ErrInvalidArgument, f)
		}
		rowBits := c.mul(w, bpp)
		switch {
		case flags&alignFlags == 0:
			out.RowPitch = ceilDiv(rowBits, 8)
		case flags&FlagPage4K != 0:
			out.RowPitch = c.mul(ceilDiv(rowBits, 32768), 4096)
		case flags&FlagZMM != 0:
			out.RowPitch = c.mul(ceilDiv(rowBits, 512), 64)
		case flags&FlagYMM != 0:
			out.RowPitch = c.mul(ceilDiv(rowBits, 256), 32)
		case flags&FlagParagraph != 0:
			out.RowPitch = c.mul(ceilDiv(rowBits, 128), 16)
		default:
			out.RowPitch = c.mul(ceilDiv(rowBits, 32), 4)
		}
		out.RowCount = h
		out.TotalBytes = c.mul(out.RowPitch, h)
	}

	limit := uint64(math.MaxInt64)
	if strconv.IntSize == 32 || flags&FlagLimit32 != 0 {
		limit = math.MaxUint32
	}
	if c.overflow || out.TotalBytes > limit || out.RowPitch > limit || out.RowCount > limit {
		return Layout{}, fmt.Errorf("%w: surface: %dx%d %s exceeds addressable size", texerr.ErrArithmeticOverflow, width, height, f)
	}
	return out, nil
}

// MipDimension halves d for one mip step, flooring at 1.
func MipDimension(d int) int {
	return max(1, d>>1)
}
