package dds

import (
	"github.com/erinpentecost/ddstex/internal/bc"
	"github.com/erinpentecost/ddstex/internal/dxgi"
)

var (
	fourCCDXT2 = MakeFourCC('D', 'X', 'T', '2')
	fourCCDXT4 = MakeFourCC('D', 'X', 'T', '4')
)

// InferAlphaMode reads the alpha mode a header declares. DXT2 and DXT4 imply
// premultiplied alpha; otherwise only the DX10 extension carries a mode.
func InferAlphaMode(pf PixelFormat, ext *HeaderDX10) AlphaMode {
	if pf.Flags&DDPF_FOURCC != 0 && (pf.FourCC == fourCCDXT2 || pf.FourCC == fourCCDXT4) {
		return AlphaPremultiplied
	}
	if ext != nil {
		return AlphaMode(ext.MiscFlags2 & alphaModeMask)
	}
	return AlphaUnknown
}

// ScanAlphaMode refines an unknown alpha mode by looking at the pixels.
// Formats without an alpha channel are opaque. BC1, BC2, BC3 and BC7 are
// opaque when every block decodes to full alpha. Anything else keeps the
// declared mode.
func ScanAlphaMode(tex *Texture) AlphaMode {
	mode := tex.AlphaMode()
	if mode != AlphaUnknown {
		return mode
	}
	if !dxgi.HasAlpha(tex.Format) {
		return AlphaOpaque
	}

	switch dxgi.PromoteTypeless(tex.Format) {
	case dxgi.BC1_UNORM, dxgi.BC1_UNORM_SRGB,
		dxgi.BC2_UNORM, dxgi.BC2_UNORM_SRGB,
		dxgi.BC3_UNORM, dxgi.BC3_UNORM_SRGB,
		dxgi.BC7_UNORM, dxgi.BC7_UNORM_SRGB:
	default:
		return AlphaUnknown
	}

	for _, sub := range tex.Subresources {
		for z := 0; z < sub.Depth; z++ {
			off := sub.Offset + z*sub.SlicePitch
			img := bc.Image{
				Width:      sub.Width,
				Height:     sub.Height,
				Format:     tex.Format,
				RowPitch:   sub.RowPitch,
				SlicePitch: sub.SlicePitch,
				Pixels:     tex.Pixels[off : off+sub.SlicePitch],
			}
			if !bc.IsFullyOpaque(img) {
				return AlphaUnknown
			}
		}
	}
	return AlphaOpaque
}
