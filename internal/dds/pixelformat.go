package dds

import "github.com/erinpentecost/ddstex/internal/dxgi"

func fourCCPF(cc uint32) PixelFormat {
	return PixelFormat{Size: PixelFormatSize, Flags: DDPF_FOURCC, FourCC: cc}
}

func maskPF(flags, bits, r, g, b, a uint32) PixelFormat {
	return PixelFormat{Size: PixelFormatSize, Flags: flags, RGBBitCount: bits, RBitMask: r, GBitMask: g, BBitMask: b, ABitMask: a}
}

var (
	pfDXT1 = fourCCPF(MakeFourCC('D', 'X', 'T', '1'))
	pfDXT2 = fourCCPF(MakeFourCC('D', 'X', 'T', '2'))
	pfDXT3 = fourCCPF(MakeFourCC('D', 'X', 'T', '3'))
	pfDXT4 = fourCCPF(MakeFourCC('D', 'X', 'T', '4'))
	pfDXT5 = fourCCPF(MakeFourCC('D', 'X', 'T', '5'))
	pfBC4U = fourCCPF(MakeFourCC('B', 'C', '4', 'U'))
	pfBC4S = fourCCPF(MakeFourCC('B', 'C', '4', 'S'))
	pfBC5U = fourCCPF(MakeFourCC('B', 'C', '5', 'U'))
	pfBC5S = fourCCPF(MakeFourCC('B', 'C', '5', 'S'))
	pfATI1 = fourCCPF(MakeFourCC('A', 'T', 'I', '1'))
	pfATI2 = fourCCPF(MakeFourCC('A', 'T', 'I', '2'))
	pfRGBG = fourCCPF(MakeFourCC('R', 'G', 'B', 'G'))
	pfGRGB = fourCCPF(MakeFourCC('G', 'R', 'G', 'B'))
	pfYUY2 = fourCCPF(MakeFourCC('Y', 'U', 'Y', '2'))
	pfUYVY = fourCCPF(MakeFourCC('U', 'Y', 'V', 'Y'))
	pfDX10 = fourCCPF(fourCCDX10)

	pfA8R8G8B8    = maskPF(ddpfRGBA, 32, 0x00ff0000, 0x0000ff00, 0x000000ff, 0xff000000)
	pfX8R8G8B8    = maskPF(DDPF_RGB, 32, 0x00ff0000, 0x0000ff00, 0x000000ff, 0)
	pfA8B8G8R8    = maskPF(ddpfRGBA, 32, 0x000000ff, 0x0000ff00, 0x00ff0000, 0xff000000)
	pfX8B8G8R8    = maskPF(DDPF_RGB, 32, 0x000000ff, 0x0000ff00, 0x00ff0000, 0)
	pfG16R16      = maskPF(DDPF_RGB, 32, 0x0000ffff, 0xffff0000, 0, 0)
	pfA2R10G10B10 = maskPF(ddpfRGBA, 32, 0x000003ff, 0x000ffc00, 0x3ff00000, 0xc0000000)
	pfA2B10G10R10 = maskPF(ddpfRGBA, 32, 0x3ff00000, 0x000ffc00, 0x000003ff, 0xc0000000)
	pfR8G8B8      = maskPF(DDPF_RGB, 24, 0xff0000, 0x00ff00, 0x0000ff, 0)
	pfR5G6B5      = maskPF(DDPF_RGB, 16, 0xf800, 0x07e0, 0x001f, 0)
	pfA1R5G5B5    = maskPF(ddpfRGBA, 16, 0x7c00, 0x03e0, 0x001f, 0x8000)
	pfX1R5G5B5    = maskPF(DDPF_RGB, 16, 0x7c00, 0x03e0, 0x001f, 0)
	pfA4R4G4B4    = maskPF(ddpfRGBA, 16, 0x0f00, 0x00f0, 0x000f, 0xf000)
	pfX4R4G4B4    = maskPF(DDPF_RGB, 16, 0x0f00, 0x00f0, 0x000f, 0)
	pfA8R3G3B2    = maskPF(ddpfRGBA, 16, 0x00e0, 0x001c, 0x0003, 0xff00)
	pfR3G3B2      = maskPF(DDPF_RGB, 8, 0xe0, 0x1c, 0x03, 0)
	pfR32F        = maskPF(DDPF_RGB, 32, 0xffffffff, 0, 0, 0)

	pfL8        = maskPF(DDPF_LUMINANCE, 8, 0xff, 0, 0, 0)
	pfL16       = maskPF(DDPF_LUMINANCE, 16, 0xffff, 0, 0, 0)
	pfA8L8      = maskPF(ddpfLuminanceA, 16, 0x00ff, 0, 0, 0xff00)
	pfA8L8Alt   = maskPF(ddpfLuminanceA, 8, 0x00ff, 0, 0, 0xff00)
	pfA4L4      = maskPF(ddpfLuminanceA, 8, 0x0f, 0, 0, 0xf0)
	pfL8NVTT    = maskPF(DDPF_RGB, 8, 0xff, 0, 0, 0)
	pfL16NVTT   = maskPF(DDPF_RGB, 16, 0xffff, 0, 0, 0)
	pfA8L8NVTT  = maskPF(ddpfRGBA, 16, 0x00ff, 0, 0, 0xff00)
	pfA8        = maskPF(DDPF_ALPHA, 8, 0, 0, 0, 0xff)
	pfV8U8      = maskPF(DDPF_BUMPDUDV, 16, 0x00ff, 0xff00, 0, 0)
	pfQ8W8V8U8  = maskPF(DDPF_BUMPDUDV, 32, 0x000000ff, 0x0000ff00, 0x00ff0000, 0xff000000)
	pfV16U16    = maskPF(DDPF_BUMPDUDV, 32, 0x0000ffff, 0xffff0000, 0, 0)
	pfPal8      = maskPF(DDPF_PAL8, 8, 0, 0, 0, 0)
	pfPal8Alpha = maskPF(DDPF_PAL8|DDPF_ALPHAPIXELS, 16, 0, 0, 0, 0)
)

type legacyEntry struct {
	format dxgi.Format
	conv   ConvFlags
	pf     PixelFormat
}

// legacyMap is scanned in order and the first match wins, so more specific
// and more common records come first.
var legacyMap = []legacyEntry{
	{dxgi.BC1_UNORM, ConvNone, pfDXT1},
	{dxgi.BC2_UNORM, ConvNone, pfDXT3},
	{dxgi.BC3_UNORM, ConvNone, pfDXT5},
	{dxgi.BC2_UNORM, ConvPMAlpha, pfDXT2},
	{dxgi.BC3_UNORM, ConvPMAlpha, pfDXT4},
	{dxgi.BC4_UNORM, ConvNone, pfBC4U},
	{dxgi.BC4_SNORM, ConvNone, pfBC4S},
	{dxgi.BC5_UNORM, ConvNone, pfBC5U},
	{dxgi.BC5_SNORM, ConvNone, pfBC5S},
	{dxgi.BC4_UNORM, ConvNone, pfATI1},
	{dxgi.BC5_UNORM, ConvNone, pfATI2},
	{dxgi.BC6H_UF16, ConvNone, fourCCPF(MakeFourCC('B', 'C', '6', 'H'))},
	{dxgi.BC7_UNORM, ConvNone, fourCCPF(MakeFourCC('B', 'C', '7', 'L'))},
	{dxgi.BC7_UNORM, ConvNone, fourCCPF(MakeFourCC('B', 'C', '7', 0))},
	{dxgi.R8G8_B8G8_UNORM, ConvNone, pfRGBG},
	{dxgi.G8R8_G8B8_UNORM, ConvNone, pfGRGB},

	{dxgi.B8G8R8A8_UNORM, ConvNone, pfA8R8G8B8},
	{dxgi.B8G8R8X8_UNORM, ConvNone, pfX8R8G8B8},
	{dxgi.R8G8B8A8_UNORM, ConvNone, pfA8B8G8R8},
	{dxgi.R8G8B8A8_UNORM, ConvNoAlpha, pfX8B8G8R8},
	{dxgi.R16G16_UNORM, ConvNone, pfG16R16},

	// Writers such as D3DX stored 10:10:10:2 with the R and B masks reversed.
	{dxgi.R10G10B10A2_UNORM, ConvSwizzle, pfA2R10G10B10},
	{dxgi.R10G10B10A2_UNORM, ConvNone, pfA2B10G10R10},

	{dxgi.R8G8B8A8_UNORM, ConvExpand | ConvNoAlpha | Conv888, pfR8G8B8},
	{dxgi.B5G6R5_UNORM, Conv565, pfR5G6B5},
	{dxgi.B5G5R5A1_UNORM, Conv5551, pfA1R5G5B5},
	{dxgi.B5G5R5A1_UNORM, Conv5551 | ConvNoAlpha, pfX1R5G5B5},
	{dxgi.R8G8B8A8_UNORM, ConvExpand | Conv8332, pfA8R3G3B2},
	{dxgi.B5G6R5_UNORM, ConvExpand | Conv332, pfR3G3B2},

	{dxgi.R8_UNORM, ConvL8, pfL8},
	{dxgi.R16_UNORM, ConvL16, pfL16},
	{dxgi.R8G8_UNORM, ConvA8L8, pfA8L8},
	{dxgi.R8G8_UNORM, ConvA8L8, pfA8L8Alt},
	{dxgi.R8_UNORM, ConvL8, pfL8NVTT},
	{dxgi.R16_UNORM, ConvL16, pfL16NVTT},
	{dxgi.R8G8_UNORM, ConvA8L8, pfA8L8NVTT},

	{dxgi.A8_UNORM, ConvNone, pfA8},

	// D3DFMT enum values reused as FourCC codes.
	{dxgi.R16G16B16A16_UNORM, ConvNone, fourCCPF(36)},
	{dxgi.R16G16B16A16_SNORM, ConvNone, fourCCPF(110)},
	{dxgi.R16_FLOAT, ConvNone, fourCCPF(111)},
	{dxgi.R16G16_FLOAT, ConvNone, fourCCPF(112)},
	{dxgi.R16G16B16A16_FLOAT, ConvNone, fourCCPF(113)},
	{dxgi.R32_FLOAT, ConvNone, fourCCPF(114)},
	{dxgi.R32G32_FLOAT, ConvNone, fourCCPF(115)},
	{dxgi.R32G32B32A32_FLOAT, ConvNone, fourCCPF(116)},

	{dxgi.R32_FLOAT, ConvNone, pfR32F},

	{dxgi.R8G8B8A8_UNORM, ConvExpand | ConvPal8 | ConvA8P8, pfPal8Alpha},
	{dxgi.R8G8B8A8_UNORM, ConvExpand | ConvPal8, pfPal8},

	{dxgi.B4G4R4A4_UNORM, Conv4444, pfA4R4G4B4},
	{dxgi.B4G4R4A4_UNORM, ConvNoAlpha | Conv4444, pfX4R4G4B4},
	{dxgi.B4G4R4A4_UNORM, ConvExpand | Conv44, pfA4L4},

	{dxgi.YUY2, ConvNone, pfYUY2},
	{dxgi.YUY2, ConvSwizzle, pfUYVY},

	{dxgi.R8G8_SNORM, ConvNone, pfV8U8},
	{dxgi.R8G8B8A8_SNORM, ConvNone, pfQ8W8V8U8},
	{dxgi.R16G16_SNORM, ConvNone, pfV16U16},
}

// ddpfKinds are the flags naming a record's layout. DDPF_ALPHAPIXELS only
// qualifies one of them.
const ddpfKinds = DDPF_RGB | DDPF_LUMINANCE | DDPF_ALPHA | DDPF_BUMPDUDV | DDPF_PAL8

// matches compares pf against the entry the way loaders have always done:
// the records need only share a layout flag, and the masks decide. Writers
// often leave out DDPF_ALPHAPIXELS while still filling in the alpha mask.
func (e *legacyEntry) matches(pf PixelFormat) bool {
	if pf.Flags&DDPF_FOURCC != 0 {
		return e.pf.Flags&DDPF_FOURCC != 0 && e.pf.FourCC == pf.FourCC
	}
	if e.pf.Flags&DDPF_FOURCC != 0 || pf.Flags&e.pf.Flags&ddpfKinds == 0 {
		return false
	}
	if pf.RGBBitCount != e.pf.RGBBitCount {
		return false
	}
	switch {
	case e.pf.Flags&DDPF_PAL8 != 0:
		return true
	case e.pf.Flags&DDPF_ALPHA != 0:
		return pf.ABitMask == e.pf.ABitMask
	case e.pf.Flags&DDPF_LUMINANCE != 0:
		if e.pf.Flags&DDPF_ALPHAPIXELS != 0 {
			return pf.RBitMask == e.pf.RBitMask && pf.ABitMask == e.pf.ABitMask
		}
		return pf.RBitMask == e.pf.RBitMask
	case e.pf.Flags&(DDPF_BUMPDUDV|DDPF_ALPHAPIXELS) != 0:
		return pf.RBitMask == e.pf.RBitMask && pf.GBitMask == e.pf.GBitMask &&
			pf.BBitMask == e.pf.BBitMask && pf.ABitMask == e.pf.ABitMask
	default:
		return pf.RBitMask == e.pf.RBitMask && pf.GBitMask == e.pf.GBitMask &&
			pf.BBitMask == e.pf.BBitMask
	}
}

// ResolveLegacyFormat maps a legacy pixel format record onto a DXGI format.
// It returns dxgi.UNKNOWN when nothing matches. Palettized records report
// ConvPal8 with an UNKNOWN format.
func ResolveLegacyFormat(pf PixelFormat, flags Flags) (dxgi.Format, ConvFlags) {
	for i := range legacyMap {
		e := &legacyMap[i]
		if !e.matches(pf) {
			continue
		}
		conv := e.conv
		if conv&ConvPal8 != 0 {
			return dxgi.UNKNOWN, conv
		}
		if conv&ConvExpand != 0 && flags&FlagNoLegacyExpansion != 0 {
			return dxgi.UNKNOWN, ConvNone
		}
		if e.format == dxgi.R10G10B10A2_UNORM && flags&FlagNoR10B10G10A2Fixup != 0 {
			conv ^= ConvSwizzle
		}
		return e.format, conv
	}
	return dxgi.UNKNOWN, ConvNone
}

// LegacyPixelFormat returns the legacy record used to store format f without
// the DX10 extension. Formats that only have a legacy encoding under
// FlagForceDX9Legacy report false otherwise.
func LegacyPixelFormat(f dxgi.Format, alpha AlphaMode, flags Flags) (PixelFormat, bool) {
	force := flags&FlagForceDX9Legacy != 0
	switch f {
	case dxgi.R8G8B8A8_UNORM:
		return pfA8B8G8R8, true
	case dxgi.R16G16_UNORM:
		return pfG16R16, true
	case dxgi.R8G8_UNORM:
		return pfA8L8, true
	case dxgi.R16_UNORM:
		return pfL16, true
	case dxgi.R8_UNORM:
		return pfL8, true
	case dxgi.A8_UNORM:
		return pfA8, true
	case dxgi.R8G8_B8G8_UNORM:
		return pfRGBG, true
	case dxgi.G8R8_G8B8_UNORM:
		return pfGRGB, true
	case dxgi.BC1_UNORM:
		return pfDXT1, true
	case dxgi.BC2_UNORM:
		if alpha == AlphaPremultiplied {
			return pfDXT2, true
		}
		return pfDXT3, true
	case dxgi.BC3_UNORM:
		if alpha == AlphaPremultiplied {
			return pfDXT4, true
		}
		return pfDXT5, true
	case dxgi.BC4_UNORM:
		if force {
			return pfATI1, true
		}
		return pfBC4U, true
	case dxgi.BC4_SNORM:
		return pfBC4S, true
	case dxgi.BC5_UNORM:
		if force {
			return pfATI2, true
		}
		return pfBC5U, true
	case dxgi.BC5_SNORM:
		return pfBC5S, true
	case dxgi.B5G6R5_UNORM:
		return pfR5G6B5, true
	case dxgi.B5G5R5A1_UNORM:
		return pfA1R5G5B5, true
	case dxgi.R8G8_SNORM:
		return pfV8U8, true
	case dxgi.R8G8B8A8_SNORM:
		return pfQ8W8V8U8, true
	case dxgi.R16G16_SNORM:
		return pfV16U16, true
	case dxgi.B8G8R8A8_UNORM:
		return pfA8R8G8B8, true
	case dxgi.B8G8R8X8_UNORM:
		return pfX8R8G8B8, true
	case dxgi.YUY2:
		return pfYUY2, true
	case dxgi.B4G4R4A4_UNORM:
		return pfA4R4G4B4, true
	case dxgi.R16G16B16A16_UNORM:
		return fourCCPF(36), true
	case dxgi.R16G16B16A16_SNORM:
		return fourCCPF(110), true
	case dxgi.R16_FLOAT:
		return fourCCPF(111), true
	case dxgi.R16G16_FLOAT:
		return fourCCPF(112), true
	case dxgi.R16G16B16A16_FLOAT:
		return fourCCPF(113), true
	case dxgi.R32_FLOAT:
		return fourCCPF(114), true
	case dxgi.R32G32_FLOAT:
		return fourCCPF(115), true
	case dxgi.R32G32B32A32_FLOAT:
		return fourCCPF(116), true
	}

	if !force {
		return PixelFormat{}, false
	}
	switch f {
	case dxgi.R10G10B10A2_UNORM:
		// written the way D3DX did so the fixup reads it back unchanged
		return pfA2B10G10R10, true
	case dxgi.R8G8B8A8_UNORM_SRGB:
		return pfA8B8G8R8, true
	case dxgi.BC1_UNORM_SRGB:
		return pfDXT1, true
	case dxgi.BC2_UNORM_SRGB:
		if alpha == AlphaPremultiplied {
			return pfDXT2, true
		}
		return pfDXT3, true
	case dxgi.BC3_UNORM_SRGB:
		if alpha == AlphaPremultiplied {
			return pfDXT4, true
		}
		return pfDXT5, true
	case dxgi.B8G8R8A8_UNORM_SRGB:
		return pfA8R8G8B8, true
	case dxgi.B8G8R8X8_UNORM_SRGB:
		return pfX8R8G8B8, true
	}
	return PixelFormat{}, false
}
