package dds

import (
	"fmt"

	"github.com/erinpentecost/ddstex/internal/dxgi"
	"github.com/erinpentecost/ddstex/internal/texerr"
)

// Dimension uses the DX10 resourceDimension numbering.
type Dimension uint32

const (
	Texture1D Dimension = 2
	Texture2D Dimension = 3
	Texture3D Dimension = 4
)

func (d Dimension) String() string {
	switch d {
	case Texture1D:
		return "1D"
	case Texture2D:
		return "2D"
	case Texture3D:
		return "3D"
	}
	return fmt.Sprintf("Dimension(%d)", uint32(d))
}

// MiscFlag mirrors the DX10 extension miscFlag field.
type MiscFlag uint32

const MiscTextureCube MiscFlag = 0x4

// AlphaMode is stored in the low bits of the DX10 miscFlags2 field.
type AlphaMode uint32

const (
	AlphaUnknown AlphaMode = iota
	AlphaStraight
	AlphaPremultiplied
	AlphaOpaque
	AlphaCustom

	alphaModeMask = 0x7
)

func (a AlphaMode) String() string {
	switch a {
	case AlphaUnknown:
		return "unknown"
	case AlphaStraight:
		return "straight"
	case AlphaPremultiplied:
		return "premultiplied"
	case AlphaOpaque:
		return "opaque"
	case AlphaCustom:
		return "custom"
	}
	return fmt.Sprintf("AlphaMode(%d)", uint32(a))
}

// Metadata describes a texture independent of how it was stored.
type Metadata struct {
	Width      int
	Height     int
	Depth      int
	ArraySize  int
	MipLevels  int
	Format     dxgi.Format
	Dimension  Dimension
	MiscFlags  MiscFlag
	MiscFlags2 uint32
}

func (m Metadata) IsCubemap() bool {
	return m.MiscFlags&MiscTextureCube != 0
}

func (m Metadata) IsVolume() bool {
	return m.Dimension == Texture3D
}

func (m Metadata) AlphaMode() AlphaMode {
	return AlphaMode(m.MiscFlags2 & alphaModeMask)
}

func (m *Metadata) SetAlphaMode(a AlphaMode) {
	m.MiscFlags2 = m.MiscFlags2&^alphaModeMask | uint32(a)&alphaModeMask
}

// Validate checks the structural invariants every texture must hold.
func (m Metadata) Validate() error {
	switch {
	case m.Width < 1 || m.Height < 1 || m.Depth < 1:
		return fmt.Errorf("%w: dds: size %dx%dx%d", texerr.ErrInvalidArgument, m.Width, m.Height, m.Depth)
	case m.MipLevels < 1:
		return fmt.Errorf("%w: dds: mip levels %d", texerr.ErrInvalidArgument, m.MipLevels)
	case m.ArraySize < 1:
		return fmt.Errorf("%w: dds: array size %d", texerr.ErrInvalidArgument, m.ArraySize)
	}
	switch m.Dimension {
	case Texture1D:
		if m.Height != 1 || m.Depth != 1 {
			return fmt.Errorf("%w: dds: 1D texture with height %d depth %d", texerr.ErrInvalidArgument, m.Height, m.Depth)
		}
	case Texture2D:
		if m.Depth != 1 {
			return fmt.Errorf("%w: dds: 2D texture with depth %d", texerr.ErrInvalidArgument, m.Depth)
		}
		if m.IsCubemap() && m.ArraySize%6 != 0 {
			return fmt.Errorf("%w: dds: cubemap array size %d is not a multiple of 6", texerr.ErrInvalidArgument, m.ArraySize)
		}
	case Texture3D:
		if m.ArraySize != 1 {
			return fmt.Errorf("%w: dds: volume texture with array size %d", texerr.ErrInvalidArgument, m.ArraySize)
		}
	default:
		return fmt.Errorf("%w: dds: unknown dimension %d", texerr.ErrInvalidArgument, m.Dimension)
	}
	if m.IsCubemap() && m.Dimension != Texture2D {
		return fmt.Errorf("%w: dds: cubemap must be 2D", texerr.ErrInvalidArgument)
	}
	return nil
}

// Flags control header decoding and encoding.
type Flags uint32

const (
	FlagNone Flags = 0
	// FlagLegacyDWORD assumes legacy rows are padded to 4 bytes.
	FlagLegacyDWORD Flags = 0x1
	// FlagNoLegacyExpansion rejects legacy formats that need pixel expansion.
	FlagNoLegacyExpansion Flags = 0x2
	// FlagNoR10B10G10A2Fixup reads 10:10:10:2 masks literally.
	FlagNoR10B10G10A2Fixup Flags = 0x4
	// FlagForceRGB converts BGR-ordered formats to their RGB siblings.
	FlagForceRGB Flags = 0x8
	// FlagNo16BPP expands 16 bpp formats to R8G8B8A8.
	FlagNo16BPP Flags = 0x10
	// FlagExpandLuminance promotes L8, A8L8 and L16 to RGBA.
	FlagExpandLuminance Flags = 0x20

	FlagForceDX10Ext      Flags = 0x10000
	FlagForceDX10ExtMisc2 Flags = 0x20000
	FlagForceDX9Legacy    Flags = 0x40000

	// FlagAllowLargeFiles lifts the hardware resource limits on decode.
	FlagAllowLargeFiles Flags = 0x1000000
)

// ConvFlags record what a legacy pixel format needs to become its DXGI format.
type ConvFlags uint32

const (
	ConvNone    ConvFlags = 0
	ConvExpand  ConvFlags = 0x1
	ConvNoAlpha ConvFlags = 0x2
	ConvSwizzle ConvFlags = 0x4
	ConvPal8    ConvFlags = 0x8
	Conv888     ConvFlags = 0x10
	Conv565     ConvFlags = 0x20
	Conv5551    ConvFlags = 0x40
	Conv4444    ConvFlags = 0x80
	Conv44      ConvFlags = 0x100
	Conv332     ConvFlags = 0x200
	Conv8332    ConvFlags = 0x400
	ConvA8P8    ConvFlags = 0x800
	ConvDX10    ConvFlags = 0x10000
	ConvPMAlpha ConvFlags = 0x20000
	ConvL8      ConvFlags = 0x40000
	ConvL16     ConvFlags = 0x80000
	ConvA8L8    ConvFlags = 0x100000
)

// Hardware resource limits applied unless FlagAllowLargeFiles is set.
const (
	maxTextureDimension = 16384
	maxDepthOrArraySize = 2048
	maxMipLevels        = 15
)
