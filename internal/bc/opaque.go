package bc

import "github.com/erinpentecost/ddstex/internal/dxgi"

const opaqueAlpha = 0.99

// IsFullyOpaque reports whether every texel of the BC1, BC2, BC3 or BC7
// image src decodes with alpha of at least 0.99. Other formats, and images
// too short for their dimensions, report false.
func IsFullyOpaque(src Image) bool {
	f := dxgi.PromoteTypeless(src.Format)
	switch f {
	case dxgi.BC1_UNORM, dxgi.BC1_UNORM_SRGB,
		dxgi.BC2_UNORM, dxgi.BC2_UNORM_SRGB,
		dxgi.BC3_UNORM, dxgi.BC3_UNORM_SRGB,
		dxgi.BC7_UNORM, dxgi.BC7_UNORM_SRGB:
	default:
		return false
	}
	if err := src.check(); err != nil {
		return false
	}

	blockBytes := BlockSize(f)
	for by := 0; by*4 < src.Height; by++ {
		row := src.Pixels[by*src.RowPitch:]
		ph := min(4, src.Height-by*4)
		for bx := 0; bx*4 < src.Width; bx++ {
			blk, err := DecodeBlock(f, row[bx*blockBytes:])
			if err != nil {
				return false
			}
			pw := min(4, src.Width-bx*4)
			for t := 0; t < ph; t++ {
				for s := 0; s < pw; s++ {
					if blk[t<<2|s][3] < opaqueAlpha {
						return false
					}
				}
			}
		}
	}
	return true
}
