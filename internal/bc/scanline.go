package bc

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/erinpentecost/ddstex/internal/dxgi"
	"github.com/erinpentecost/ddstex/internal/texerr"
	"github.com/x448/float16"
)

func unorm8(b byte) float32 { return float32(b) / 255 }

func snorm8(b byte) float32 {
	return max(float32(int8(b))/127, -1)
}

func unorm16(v uint16) float32 { return float32(v) / 65535 }

func half(v uint16) float32 { return float16.Frombits(v).Float32() }

func toUnorm8(v float32) byte {
	return byte(math.Round(float64(clamp01(v) * 255)))
}

func toSnorm8(v float32) byte {
	return byte(int8(math.Round(float64(clampRange(v, -1, 1) * 127))))
}

func toUnorm16(v float32) uint16 {
	return uint16(math.Round(float64(clamp01(v) * 65535)))
}

func toUnormN(v float32, top int) uint32 {
	return uint32(math.Round(float64(clamp01(v) * float32(top))))
}

func toHalf(v float32) uint16 { return float16.Fromfloat32(v).Bits() }

// scanlineSupported reports whether f can be loaded and stored.
func scanlineSupported(f dxgi.Format) bool {
	switch f {
	case dxgi.R8G8B8A8_UNORM, dxgi.R8G8B8A8_UNORM_SRGB, dxgi.R8G8B8A8_SNORM,
		dxgi.B8G8R8A8_UNORM, dxgi.B8G8R8A8_UNORM_SRGB,
		dxgi.B8G8R8X8_UNORM, dxgi.B8G8R8X8_UNORM_SRGB,
		dxgi.R16G16B16A16_UNORM, dxgi.R16G16B16A16_FLOAT, dxgi.R32G32B32A32_FLOAT,
		dxgi.R8_UNORM, dxgi.R8_SNORM, dxgi.R8G8_UNORM, dxgi.R8G8_SNORM,
		dxgi.R16_UNORM, dxgi.R16_FLOAT, dxgi.R32_FLOAT,
		dxgi.R10G10B10A2_UNORM,
		dxgi.B5G6R5_UNORM, dxgi.B5G5R5A1_UNORM, dxgi.B4G4R4A4_UNORM,
		dxgi.A8_UNORM:
		return true
	}
	return false
}

// loadScanline expands len(dst) texels of format f from src into RGBA.
// Missing colour channels read as 0 and missing alpha as 1.
func loadScanline(dst [][4]float32, src []byte, f dxgi.Format) error {
	le := binary.LittleEndian
	for x := range dst {
		var p [4]float32
		switch f {
		case dxgi.R8G8B8A8_UNORM, dxgi.R8G8B8A8_UNORM_SRGB:
			s := src[4*x:]
			p = [4]float32{unorm8(s[0]), unorm8(s[1]), unorm8(s[2]), unorm8(s[3])}
		case dxgi.R8G8B8A8_SNORM:
			s := src[4*x:]
			p = [4]float32{snorm8(s[0]), snorm8(s[1]), snorm8(s[2]), snorm8(s[3])}
		case dxgi.B8G8R8A8_UNORM, dxgi.B8G8R8A8_UNORM_SRGB:
			s := src[4*x:]
			p = [4]float32{unorm8(s[2]), unorm8(s[1]), unorm8(s[0]), unorm8(s[3])}
		case dxgi.B8G8R8X8_UNORM, dxgi.B8G8R8X8_UNORM_SRGB:
			s := src[4*x:]
			p = [4]float32{unorm8(s[2]), unorm8(s[1]), unorm8(s[0]), 1}
		case dxgi.R16G16B16A16_UNORM:
			s := src[8*x:]
			p = [4]float32{unorm16(le.Uint16(s)), unorm16(le.Uint16(s[2:])), unorm16(le.Uint16(s[4:])), unorm16(le.Uint16(s[6:]))}
		case dxgi.R16G16B16A16_FLOAT:
			s := src[8*x:]
			p = [4]float32{half(le.Uint16(s)), half(le.Uint16(s[2:])), half(le.Uint16(s[4:])), half(le.Uint16(s[6:]))}
		case dxgi.R32G32B32A32_FLOAT:
			s := src[16*x:]
			for c := range p {
				p[c] = math.Float32frombits(le.Uint32(s[4*c:]))
			}
		case dxgi.R8_UNORM:
			p = [4]float32{unorm8(src[x]), 0, 0, 1}
		case dxgi.R8_SNORM:
			p = [4]float32{snorm8(src[x]), 0, 0, 1}
		case dxgi.R8G8_UNORM:
			p = [4]float32{unorm8(src[2*x]), unorm8(src[2*x+1]), 0, 1}
		case dxgi.R8G8_SNORM:
			p = [4]float32{snorm8(src[2*x]), snorm8(src[2*x+1]), 0, 1}
		case dxgi.R16_UNORM:
			p = [4]float32{unorm16(le.Uint16(src[2*x:])), 0, 0, 1}
		case dxgi.R16_FLOAT:
			p = [4]float32{half(le.Uint16(src[2*x:])), 0, 0, 1}
		case dxgi.R32_FLOAT:
			p = [4]float32{math.Float32frombits(le.Uint32(src[4*x:])), 0, 0, 1}
		case dxgi.R10G10B10A2_UNORM:
			v := le.Uint32(src[4*x:])
			p = [4]float32{float32(v&0x3ff) / 1023, float32(v>>10&0x3ff) / 1023, float32(v>>20&0x3ff) / 1023, float32(v>>30) / 3}
		case dxgi.B5G6R5_UNORM:
			v := le.Uint16(src[2*x:])
			p = [4]float32{float32(v>>11) / 31, float32(v>>5&0x3f) / 63, float32(v&0x1f) / 31, 1}
		case dxgi.B5G5R5A1_UNORM:
			v := le.Uint16(src[2*x:])
			p = [4]float32{float32(v>>10&0x1f) / 31, float32(v>>5&0x1f) / 31, float32(v&0x1f) / 31, float32(v >> 15)}
		case dxgi.B4G4R4A4_UNORM:
			v := le.Uint16(src[2*x:])
			p = [4]float32{float32(v>>8&0xf) / 15, float32(v>>4&0xf) / 15, float32(v&0xf) / 15, float32(v>>12) / 15}
		case dxgi.A8_UNORM:
			p = [4]float32{0, 0, 0, unorm8(src[x])}
		default:
			return fmt.Errorf("%w: bc: cannot read %s texels", texerr.ErrNotSupported, f)
		}
		dst[x] = p
	}
	return nil
}

// storeScanline packs len(src) RGBA texels into dst as format f.
func storeScanline(dst []byte, src [][4]float32, f dxgi.Format) error {
	le := binary.LittleEndian
	for x, p := range src {
		switch f {
		case dxgi.R8G8B8A8_UNORM, dxgi.R8G8B8A8_UNORM_SRGB:
			copy(dst[4*x:], []byte{toUnorm8(p[0]), toUnorm8(p[1]), toUnorm8(p[2]), toUnorm8(p[3])})
		case dxgi.R8G8B8A8_SNORM:
			copy(dst[4*x:], []byte{toSnorm8(p[0]), toSnorm8(p[1]), toSnorm8(p[2]), toSnorm8(p[3])})
		case dxgi.B8G8R8A8_UNORM, dxgi.B8G8R8A8_UNORM_SRGB:
			copy(dst[4*x:], []byte{toUnorm8(p[2]), toUnorm8(p[1]), toUnorm8(p[0]), toUnorm8(p[3])})
		case dxgi.B8G8R8X8_UNORM, dxgi.B8G8R8X8_UNORM_SRGB:
			copy(dst[4*x:], []byte{toUnorm8(p[2]), toUnorm8(p[1]), toUnorm8(p[0]), 0xff})
		case dxgi.R16G16B16A16_UNORM:
			for c := range p {
				le.PutUint16(dst[8*x+2*c:], toUnorm16(p[c]))
			}
		case dxgi.R16G16B16A16_FLOAT:
			for c := range p {
				le.PutUint16(dst[8*x+2*c:], toHalf(p[c]))
			}
		case dxgi.R32G32B32A32_FLOAT:
			for c := range p {
				le.PutUint32(dst[16*x+4*c:], math.Float32bits(p[c]))
			}
		case dxgi.R8_UNORM:
			dst[x] = toUnorm8(p[0])
		case dxgi.R8_SNORM:
			dst[x] = toSnorm8(p[0])
		case dxgi.R8G8_UNORM:
			dst[2*x], dst[2*x+1] = toUnorm8(p[0]), toUnorm8(p[1])
		case dxgi.R8G8_SNORM:
			dst[2*x], dst[2*x+1] = toSnorm8(p[0]), toSnorm8(p[1])
		case dxgi.R16_UNORM:
			le.PutUint16(dst[2*x:], toUnorm16(p[0]))
		case dxgi.R16_FLOAT:
			le.PutUint16(dst[2*x:], toHalf(p[0]))
		case dxgi.R32_FLOAT:
			le.PutUint32(dst[4*x:], math.Float32bits(p[0]))
		case dxgi.R10G10B10A2_UNORM:
			le.PutUint32(dst[4*x:], toUnormN(p[0], 1023)|toUnormN(p[1], 1023)<<10|toUnormN(p[2], 1023)<<20|toUnormN(p[3], 3)<<30)
		case dxgi.B5G6R5_UNORM:
			le.PutUint16(dst[2*x:], uint16(toUnormN(p[0], 31)<<11|toUnormN(p[1], 63)<<5|toUnormN(p[2], 31)))
		case dxgi.B5G5R5A1_UNORM:
			le.PutUint16(dst[2*x:], uint16(toUnormN(p[0], 31)<<10|toUnormN(p[1], 31)<<5|toUnormN(p[2], 31)|toUnormN(p[3], 1)<<15))
		case dxgi.B4G4R4A4_UNORM:
			le.PutUint16(dst[2*x:], uint16(toUnormN(p[0], 15)<<8|toUnormN(p[1], 15)<<4|toUnormN(p[2], 15)|toUnormN(p[3], 15)<<12))
		case dxgi.A8_UNORM:
			dst[x] = toUnorm8(p[3])
		default:
			return fmt.Errorf("%w: bc: cannot write %s texels", texerr.ErrNotSupported, f)
		}
	}
	return nil
}
