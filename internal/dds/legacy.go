package dds

import (
	"encoding/binary"
	"fmt"

	"github.com/erinpentecost/ddstex/internal/dxgi"
	"github.com/erinpentecost/ddstex/internal/surface"
	"github.com/erinpentecost/ddstex/internal/texerr"
)

// needsConversion reports whether the stored pixels differ from md.Format in
// layout, channel order or alpha.
func needsConversion(conv ConvFlags, flags Flags) bool {
	return conv&(ConvExpand|ConvSwizzle|ConvNoAlpha) != 0 || flags&FlagLegacyDWORD != 0
}

// sourcePitchFlags picks the surface flags describing how the legacy writer
// laid out each row.
func sourcePitchFlags(conv ConvFlags, flags Flags) surface.Flags {
	var sf surface.Flags
	if flags&FlagLegacyDWORD != 0 {
		sf |= surface.FlagLegacyDWORD
	}
	if conv&ConvExpand == 0 {
		return sf
	}
	switch {
	case conv&Conv888 != 0:
		sf |= surface.Flag24BPP
	case conv&(Conv332|Conv44|ConvL8) != 0:
		sf |= surface.Flag8BPP
	case conv&(Conv565|Conv5551|Conv4444|Conv8332|ConvA8L8|ConvL16) != 0:
		sf |= surface.Flag16BPP
	}
	return sf
}

// convertLegacy copies every slice of src into a fresh buffer laid out for
// md.Format, rewriting each scanline as conv requires.
func convertLegacy(src []byte, md Metadata, conv ConvFlags, flags Flags) ([]byte, error) {
	srcFlags := sourcePitchFlags(conv, flags)

	// 1. size the output
	total := 0
	w, h, d := md.Width, md.Height, md.Depth
	for mip := 0; mip < md.MipLevels; mip++ {
		dl, err := surface.ComputeLayout(w, h, md.Format, surface.FlagNone)
		if err != nil {
			return nil, fmt.Errorf("dds: convert mip %d: %w", mip, err)
		}
		total += int(dl.TotalBytes) * d
		w, h, d = surface.MipDimension(w), surface.MipDimension(h), surface.MipDimension(d)
	}
	dst := make([]byte, total*md.ArraySize)

	// 2. convert slice by slice
	si, di := 0, 0
	for item := 0; item < md.ArraySize; item++ {
		w, h, d := md.Width, md.Height, md.Depth
		for mip := 0; mip < md.MipLevels; mip++ {
			sl, err := surface.ComputeLayout(w, h, md.Format, srcFlags)
			if err != nil {
				return nil, fmt.Errorf("dds: convert mip %d: %w", mip, err)
			}
			dl, err := surface.ComputeLayout(w, h, md.Format, surface.FlagNone)
			if err != nil {
				return nil, fmt.Errorf("dds: convert mip %d: %w", mip, err)
			}
			srcPitch, dstPitch := int(sl.RowPitch), int(dl.RowPitch)
			rows := int(dl.RowCount)

			for z := 0; z < d; z++ {
				if si+int(sl.TotalBytes) > len(src) {
					return nil, fmt.Errorf("%w: dds: legacy pixels end at mip %d of item %d",
						texerr.ErrUnexpectedEndOfData, mip, item)
				}
				for y := 0; y < rows; y++ {
					s := src[si+y*srcPitch : si+(y+1)*srcPitch]
					t := dst[di+y*dstPitch : di+(y+1)*dstPitch]
					if err := convertScanline(t, s, w, md.Format, conv); err != nil {
						return nil, err
					}
				}
				si += int(sl.TotalBytes)
				di += int(dl.TotalBytes)
			}

			w, h, d = surface.MipDimension(w), surface.MipDimension(h), surface.MipDimension(d)
		}
	}
	return dst, nil
}

func expand5(v uint16) byte { return byte(v<<3 | v>>2) }
func expand6(v uint16) byte { return byte(v<<2 | v>>4) }
func expand4(v uint16) byte { return byte(v * 17) }
func expand3(v uint16) byte { return byte(v<<5 | v<<2 | v>>1) }
func expand2(v uint16) byte { return byte(v * 85) }

// convertScanline rewrites one row of width pixels from src into dst.
func convertScanline(dst, src []byte, width int, f dxgi.Format, conv ConvFlags) error {
	le := binary.LittleEndian

	if conv&ConvExpand != 0 {
		switch {
		case conv&Conv332 != 0 && f == dxgi.B5G6R5_UNORM:
			for x := 0; x < width; x++ {
				v := uint16(src[x])
				r, g, b := v>>5&7, v>>2&7, v&3
				le.PutUint16(dst[2*x:], (r<<2|r>>1)<<11|(g<<3|g)<<5|(b<<3|b<<1|b>>1))
			}
		case conv&Conv332 != 0:
			for x := 0; x < width; x++ {
				v := uint16(src[x])
				copy(dst[4*x:], []byte{expand3(v >> 5 & 7), expand3(v >> 2 & 7), expand2(v & 3), 0xff})
			}
		case conv&Conv8332 != 0:
			for x := 0; x < width; x++ {
				v := le.Uint16(src[2*x:])
				copy(dst[4*x:], []byte{expand3(v >> 5 & 7), expand3(v >> 2 & 7), expand2(v & 3), byte(v >> 8)})
			}
		case conv&Conv44 != 0 && f == dxgi.B4G4R4A4_UNORM:
			for x := 0; x < width; x++ {
				l, a := uint16(src[x]&0xf), uint16(src[x]>>4)
				le.PutUint16(dst[2*x:], l|l<<4|l<<8|a<<12)
			}
		case conv&Conv44 != 0:
			for x := 0; x < width; x++ {
				l, a := expand4(uint16(src[x]&0xf)), expand4(uint16(src[x]>>4))
				copy(dst[4*x:], []byte{l, l, l, a})
			}
		case conv&Conv888 != 0:
			for x := 0; x < width; x++ {
				copy(dst[4*x:], []byte{src[3*x+2], src[3*x+1], src[3*x], 0xff})
			}
		case conv&Conv565 != 0:
			for x := 0; x < width; x++ {
				v := le.Uint16(src[2*x:])
				copy(dst[4*x:], []byte{expand5(v >> 11), expand6(v >> 5 & 0x3f), expand5(v & 0x1f), 0xff})
			}
		case conv&Conv5551 != 0:
			for x := 0; x < width; x++ {
				v := le.Uint16(src[2*x:])
				a := byte(0)
				if v&0x8000 != 0 || conv&ConvNoAlpha != 0 {
					a = 0xff
				}
				copy(dst[4*x:], []byte{expand5(v >> 10 & 0x1f), expand5(v >> 5 & 0x1f), expand5(v & 0x1f), a})
			}
		case conv&Conv4444 != 0:
			for x := 0; x < width; x++ {
				v := le.Uint16(src[2*x:])
				a := expand4(v >> 12)
				if conv&ConvNoAlpha != 0 {
					a = 0xff
				}
				copy(dst[4*x:], []byte{expand4(v >> 8 & 0xf), expand4(v >> 4 & 0xf), expand4(v & 0xf), a})
			}
		case conv&ConvL8 != 0:
			for x := 0; x < width; x++ {
				copy(dst[4*x:], []byte{src[x], src[x], src[x], 0xff})
			}
		case conv&ConvA8L8 != 0:
			for x := 0; x < width; x++ {
				l, a := src[2*x], src[2*x+1]
				copy(dst[4*x:], []byte{l, l, l, a})
			}
		case conv&ConvL16 != 0:
			for x := 0; x < width; x++ {
				l := le.Uint16(src[2*x:])
				le.PutUint16(dst[8*x:], l)
				le.PutUint16(dst[8*x+2:], l)
				le.PutUint16(dst[8*x+4:], l)
				le.PutUint16(dst[8*x+6:], 0xffff)
			}
		default:
			return fmt.Errorf("%w: dds: no expansion to %s (conv %#x)", texerr.ErrNotSupported, f, uint32(conv))
		}
		return nil
	}

	n := copy(dst, src)
	row := dst[:n]

	if conv&ConvSwizzle != 0 {
		switch f {
		case dxgi.R10G10B10A2_UNORM, dxgi.R10G10B10A2_UINT, dxgi.R10G10B10A2_TYPELESS:
			for x := 0; x+4 <= len(row); x += 4 {
				v := le.Uint32(row[x:])
				le.PutUint32(row[x:], v&0xc00ffc00|v&0x3ff<<20|v>>20&0x3ff)
			}
		case dxgi.YUY2:
			for x := 0; x+4 <= len(row); x += 4 {
				row[x], row[x+1], row[x+2], row[x+3] = row[x+1], row[x], row[x+3], row[x+2]
			}
		default:
			if dxgi.BitsPerPixel(f) != 32 {
				return fmt.Errorf("%w: dds: swizzle of %s", texerr.ErrNotSupported, f)
			}
			for x := 0; x+4 <= len(row); x += 4 {
				row[x], row[x+2] = row[x+2], row[x]
			}
		}
	}

	if conv&ConvNoAlpha != 0 {
		switch dxgi.BitsPerPixel(f) {
		case 32:
			if f == dxgi.R10G10B10A2_UNORM {
				for x := 0; x+4 <= len(row); x += 4 {
					row[x+3] |= 0xc0
				}
				break
			}
			for x := 0; x+4 <= len(row); x += 4 {
				row[x+3] = 0xff
			}
		case 16:
			switch f {
			case dxgi.B5G5R5A1_UNORM:
				for x := 0; x+2 <= len(row); x += 2 {
					row[x+1] |= 0x80
				}
			case dxgi.B4G4R4A4_UNORM:
				for x := 0; x+2 <= len(row); x += 2 {
					row[x+1] |= 0xf0
				}
			}
		}
	}
	return nil
}
