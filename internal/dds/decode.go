package dds

import (
	"fmt"

	"github.com/erinpentecost/ddstex/internal/dxgi"
	"github.com/erinpentecost/ddstex/internal/texerr"
)

// DecodeHeader parses the magic, the legacy header and, when present, the DX10
// extension at the start of data. It returns the texture metadata and the
// conversions the pixel data needs to match it.
func DecodeHeader(data []byte, flags Flags) (Metadata, ConvFlags, error) {
	md, conv, _, err := decodeHeader(data, flags)
	return md, conv, err
}

// decodeHeader also returns the offset of the first pixel byte.
func decodeHeader(data []byte, flags Flags) (Metadata, ConvFlags, int, error) {
	var md Metadata

	if len(data) < 4+HeaderSize {
		return md, ConvNone, 0, fmt.Errorf("%w: dds: data too short for header: %d < %d", texerr.ErrInvalidData, len(data), 4+HeaderSize)
	}
	if u32(data, 0) != Magic {
		return md, ConvNone, 0, fmt.Errorf("%w: dds: missing magic 'DDS '", texerr.ErrInvalidData)
	}

	hdr := parseHeader(data[4 : 4+HeaderSize])
	if hdr.Size != HeaderSize || hdr.PixelFormat.Size != PixelFormatSize {
		return md, ConvNone, 0, fmt.Errorf("%w: dds: header size %d, pixel format size %d", texerr.ErrInvalidData, hdr.Size, hdr.PixelFormat.Size)
	}

	md.MipLevels = int(hdr.MipMapCount)
	if md.MipLevels == 0 {
		md.MipLevels = 1
	}

	var (
		conv ConvFlags
		ext  *HeaderDX10
	)
	offset := 4 + HeaderSize

	if hdr.PixelFormat.Flags&DDPF_FOURCC != 0 && hdr.PixelFormat.FourCC == fourCCDX10 {
		if len(data) < offset+DX10HeaderSize {
			return md, ConvNone, 0, fmt.Errorf("%w: dds: data too short for DX10 header", texerr.ErrInvalidData)
		}
		dx10 := parseHeaderDX10(data[offset : offset+DX10HeaderSize])
		ext = &dx10
		offset += DX10HeaderSize
		conv |= ConvDX10

		if err := applyDX10(&md, hdr, dx10); err != nil {
			return md, ConvNone, 0, err
		}
	} else {
		md.ArraySize = 1

		if hdr.Flags&DDSD_DEPTH != 0 {
			md.Dimension = Texture3D
			md.Width = int(hdr.Width)
			md.Height = int(hdr.Height)
			md.Depth = int(hdr.Depth)
		} else {
			if hdr.Caps2&DDSCAPS2_CUBEMAP != 0 {
				if hdr.Caps2&DDSCAPS2_CUBEMAP_ALLFACES != DDSCAPS2_CUBEMAP_ALLFACES {
					return md, ConvNone, 0, fmt.Errorf("%w: dds: partial cubemap (caps2 %#x)", texerr.ErrNotSupported, hdr.Caps2)
				}
				md.MiscFlags |= MiscTextureCube
				md.ArraySize = 6
			}
			md.Dimension = Texture2D
			md.Width = int(hdr.Width)
			md.Height = int(hdr.Height)
			md.Depth = 1
		}

		var f dxgi.Format
		f, conv = ResolveLegacyFormat(hdr.PixelFormat, flags)
		if conv&ConvPal8 != 0 {
			return md, ConvNone, 0, fmt.Errorf("%w: dds: palettized pixel format", texerr.ErrNotSupported)
		}
		if f == dxgi.UNKNOWN {
			return md, ConvNone, 0, fmt.Errorf("%w: dds: unrecognized legacy pixel format (flags %#x, fourCC %#x, %d bits)",
				texerr.ErrNotSupported, hdr.PixelFormat.Flags, hdr.PixelFormat.FourCC, hdr.PixelFormat.RGBBitCount)
		}
		md.Format = f
	}

	postProcess(&md, &conv, flags)

	md.SetAlphaMode(InferAlphaMode(hdr.PixelFormat, ext))
	if md.AlphaMode() == AlphaUnknown && conv&ConvNoAlpha != 0 {
		// the conversion fills alpha in
		md.SetAlphaMode(AlphaOpaque)
	}

	if err := md.Validate(); err != nil {
		return md, ConvNone, 0, fmt.Errorf("%w: %v", texerr.ErrInvalidData, err)
	}

	if flags&FlagAllowLargeFiles == 0 {
		if md.Width > maxTextureDimension || md.Height > maxTextureDimension ||
			md.Depth > maxDepthOrArraySize || md.ArraySize > maxDepthOrArraySize ||
			md.MipLevels > maxMipLevels {
			return md, ConvNone, 0, fmt.Errorf("%w: dds: %dx%dx%d, %d items, %d mips exceeds resource limits",
				texerr.ErrNotSupported, md.Width, md.Height, md.Depth, md.ArraySize, md.MipLevels)
		}
	}

	return md, conv, offset, nil
}

func applyDX10(md *Metadata, hdr Header, ext HeaderDX10) error {
	if ext.ArraySize == 0 {
		return fmt.Errorf("%w: dds: DX10 array size is zero", texerr.ErrInvalidData)
	}
	md.ArraySize = int(ext.ArraySize)

	md.Format = dxgi.Format(ext.DXGIFormat)
	if !dxgi.IsValid(md.Format) || dxgi.IsPalettized(md.Format) {
		return fmt.Errorf("%w: dds: DXGI format %s", texerr.ErrNotSupported, md.Format)
	}

	md.MiscFlags = MiscFlag(ext.MiscFlag) &^ MiscTextureCube

	switch Dimension(ext.ResourceDimension) {
	case Texture1D:
		if hdr.Flags&DDSD_HEIGHT != 0 && hdr.Height != 1 {
			return fmt.Errorf("%w: dds: 1D texture with height %d", texerr.ErrInvalidData, hdr.Height)
		}
		md.Width = int(hdr.Width)
		md.Height = 1
		md.Depth = 1
		md.Dimension = Texture1D

	case Texture2D:
		if MiscFlag(ext.MiscFlag)&MiscTextureCube != 0 {
			md.MiscFlags |= MiscTextureCube
			md.ArraySize *= 6
		}
		md.Width = int(hdr.Width)
		md.Height = int(hdr.Height)
		md.Depth = 1
		md.Dimension = Texture2D

	case Texture3D:
		if hdr.Flags&DDSD_DEPTH == 0 {
			return fmt.Errorf("%w: dds: 3D texture without the volume flag", texerr.ErrInvalidData)
		}
		if md.ArraySize > 1 {
			return fmt.Errorf("%w: dds: 3D texture arrays", texerr.ErrNotSupported)
		}
		md.Width = int(hdr.Width)
		md.Height = int(hdr.Height)
		md.Depth = int(hdr.Depth)
		md.Dimension = Texture3D

	default:
		return fmt.Errorf("%w: dds: resource dimension %d", texerr.ErrInvalidData, ext.ResourceDimension)
	}

	md.MiscFlags2 = ext.MiscFlags2
	return nil
}

// postProcess applies the optional format rewrites requested by flags.
func postProcess(md *Metadata, conv *ConvFlags, flags Flags) {
	if flags&FlagForceRGB != 0 {
		switch md.Format {
		case dxgi.B8G8R8A8_UNORM:
			md.Format = dxgi.R8G8B8A8_UNORM
			*conv |= ConvSwizzle
		case dxgi.B8G8R8X8_UNORM:
			md.Format = dxgi.R8G8B8A8_UNORM
			*conv |= ConvSwizzle | ConvNoAlpha
		case dxgi.B8G8R8A8_TYPELESS:
			md.Format = dxgi.R8G8B8A8_TYPELESS
			*conv |= ConvSwizzle
		case dxgi.B8G8R8A8_UNORM_SRGB:
			md.Format = dxgi.R8G8B8A8_UNORM_SRGB
			*conv |= ConvSwizzle
		case dxgi.B8G8R8X8_TYPELESS:
			md.Format = dxgi.R8G8B8A8_TYPELESS
			*conv |= ConvSwizzle | ConvNoAlpha
		case dxgi.B8G8R8X8_UNORM_SRGB:
			md.Format = dxgi.R8G8B8A8_UNORM_SRGB
			*conv |= ConvSwizzle | ConvNoAlpha
		}
	}

	if flags&FlagNo16BPP != 0 {
		switch md.Format {
		case dxgi.B5G6R5_UNORM:
			md.Format = dxgi.R8G8B8A8_UNORM
			*conv |= ConvExpand | ConvNoAlpha | Conv565
		case dxgi.B5G5R5A1_UNORM:
			md.Format = dxgi.R8G8B8A8_UNORM
			*conv |= ConvExpand | Conv5551
		case dxgi.B4G4R4A4_UNORM:
			md.Format = dxgi.R8G8B8A8_UNORM
			*conv |= ConvExpand | Conv4444
		}
	}

	if flags&FlagExpandLuminance != 0 {
		switch {
		case *conv&ConvL8 != 0 && md.Format == dxgi.R8_UNORM:
			md.Format = dxgi.R8G8B8A8_UNORM
			*conv |= ConvExpand | ConvNoAlpha
		case *conv&ConvA8L8 != 0 && md.Format == dxgi.R8G8_UNORM:
			md.Format = dxgi.R8G8B8A8_UNORM
			*conv |= ConvExpand
		case *conv&ConvL16 != 0 && md.Format == dxgi.R16_UNORM:
			md.Format = dxgi.R16G16B16A16_UNORM
			*conv |= ConvExpand | ConvNoAlpha
		}
	}
}
