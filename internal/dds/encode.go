package dds

import (
	"fmt"

	"github.com/erinpentecost/ddstex/internal/dxgi"
	"github.com/erinpentecost/ddstex/internal/surface"
	"github.com/erinpentecost/ddstex/internal/texerr"
)

// EncodeHeader builds the magic, legacy header and, when needed, the DX10
// extension describing md. The legacy pixel format record is used whenever
// one exists for md.Format and the extension is not forced.
func EncodeHeader(md Metadata, flags Flags) ([]byte, error) {
	if !dxgi.IsValid(md.Format) || dxgi.IsPalettized(md.Format) {
		return nil, fmt.Errorf("%w: dds: cannot store format %s", texerr.ErrInvalidArgument, md.Format)
	}
	if err := md.Validate(); err != nil {
		return nil, err
	}

	if md.ArraySize > 1 && (md.ArraySize != 6 || md.Dimension != Texture2D || !md.IsCubemap()) {
		// arrays and cubemap arrays only exist in the extension
		if flags&FlagForceDX9Legacy != 0 {
			return nil, fmt.Errorf("%w: dds: %d-item array needs the DX10 header", texerr.ErrCannotMake, md.ArraySize)
		}
		flags |= FlagForceDX10Ext
	}
	if flags&FlagForceDX10ExtMisc2 != 0 {
		flags |= FlagForceDX10Ext
	}

	var pf PixelFormat
	useDX10 := true
	if flags&FlagForceDX10Ext == 0 {
		if legacy, ok := LegacyPixelFormat(md.Format, md.AlphaMode(), flags); ok {
			pf = legacy
			useDX10 = false
		} else if flags&FlagForceDX9Legacy != 0 {
			return nil, fmt.Errorf("%w: dds: no legacy pixel format for %s", texerr.ErrCannotMake, md.Format)
		}
	}
	if useDX10 {
		pf = pfDX10
	}

	hdr := Header{
		Size:        HeaderSize,
		Flags:       ddsdTexture,
		Caps:        DDSCAPS_TEXTURE,
		PixelFormat: pf,
	}
	if md.MipLevels > 0 {
		hdr.Flags |= DDSD_MIPMAPCOUNT
		if md.MipLevels > 1 {
			hdr.Caps |= DDSCAPS_MIPMAP | DDSCAPS_COMPLEX
		}
		hdr.MipMapCount = uint32(md.MipLevels)
	}

	switch md.Dimension {
	case Texture1D:
		hdr.Width = uint32(md.Width)
		hdr.Height = 1
		hdr.Depth = 1
	case Texture2D:
		hdr.Width = uint32(md.Width)
		hdr.Height = uint32(md.Height)
		hdr.Depth = 1
		if md.IsCubemap() {
			hdr.Caps |= DDSCAPS_COMPLEX
			hdr.Caps2 |= DDSCAPS2_CUBEMAP_ALLFACES
		}
	case Texture3D:
		hdr.Flags |= DDSD_DEPTH
		hdr.Caps2 |= DDSCAPS2_VOLUME
		hdr.Width = uint32(md.Width)
		hdr.Height = uint32(md.Height)
		hdr.Depth = uint32(md.Depth)
	}

	layout, err := surface.ComputeLayout(md.Width, md.Height, md.Format, surface.FlagNone)
	if err != nil {
		return nil, fmt.Errorf("dds: encode header: %w", err)
	}
	if layout.TotalBytes > 0xffffffff || layout.RowPitch > 0xffffffff {
		return nil, fmt.Errorf("%w: dds: top level of %dx%d %s does not fit the header", texerr.ErrArithmeticOverflow, md.Width, md.Height, md.Format)
	}
	if dxgi.IsCompressed(md.Format) {
		hdr.Flags |= DDSD_LINEARSIZE
		hdr.PitchOrLinearSize = uint32(layout.TotalBytes)
	} else {
		hdr.Flags |= DDSD_PITCH
		hdr.PitchOrLinearSize = uint32(layout.RowPitch)
	}

	size := 4 + HeaderSize
	if useDX10 {
		size += DX10HeaderSize
	}
	out := make([]byte, size)
	putU32(out, 0, Magic)
	hdr.marshal(out[4 : 4+HeaderSize])

	if useDX10 {
		ext := HeaderDX10{
			DXGIFormat:        uint32(md.Format),
			ResourceDimension: uint32(md.Dimension),
			MiscFlag:          uint32(md.MiscFlags &^ MiscTextureCube),
			ArraySize:         uint32(md.ArraySize),
			MiscFlags2:        md.MiscFlags2,
		}
		if md.IsCubemap() {
			ext.MiscFlag |= uint32(MiscTextureCube)
			ext.ArraySize /= 6
		}
		ext.marshal(out[4+HeaderSize:])
	}
	return out, nil
}
