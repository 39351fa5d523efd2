package texfile

import (
	"fmt"
	"strings"

	"github.com/erinpentecost/ddstex/internal/dxgi"
	"github.com/erinpentecost/ddstex/internal/texerr"
)

type Codec int

const (
	// DXT1 doesn't support alpha beyond a 1-bit cutout.
	DXT1 Codec = iota
	// DXT3 stores 4-bit explicit alpha.
	DXT3
	// DXT5 supports alpha.
	DXT5
	BC4
	BC5
	// BC6H is unsigned half float RGB.
	BC6H
	BC7
	// Lossless is basically a bmp.
	Lossless
)

var codecNames = []struct {
	codec  Codec
	names  []string
	format dxgi.Format
}{
	{DXT1, []string{"dxt1", "bc1"}, dxgi.BC1_UNORM},
	{DXT3, []string{"dxt3", "bc2"}, dxgi.BC2_UNORM},
	{DXT5, []string{"dxt5", "bc3"}, dxgi.BC3_UNORM},
	{BC4, []string{"bc4", "ati1"}, dxgi.BC4_UNORM},
	{BC5, []string{"bc5", "ati2"}, dxgi.BC5_UNORM},
	{BC6H, []string{"bc6h"}, dxgi.BC6H_UF16},
	{BC7, []string{"bc7"}, dxgi.BC7_UNORM},
	{Lossless, []string{"rgba", "lossless"}, dxgi.R8G8B8A8_UNORM},
}

func (c Codec) String() string {
	for _, n := range codecNames {
		if n.codec == c {
			return n.names[0]
		}
	}
	return fmt.Sprintf("Codec(%d)", int(c))
}

// Format is the DXGI format a codec writes.
func (c Codec) Format() dxgi.Format {
	for _, n := range codecNames {
		if n.codec == c {
			return n.format
		}
	}
	return dxgi.UNKNOWN
}

// ParseFormat resolves a codec short name such as "bc1" or "dxt5", or any
// DXGI format name such as "BC7_UNORM_SRGB".
func ParseFormat(s string) (dxgi.Format, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, n := range codecNames {
		for _, alias := range n.names {
			if alias == name {
				return n.format, nil
			}
		}
	}
	if f, ok := dxgi.Parse(s); ok {
		return f, nil
	}
	return dxgi.UNKNOWN, fmt.Errorf("%w: texfile: unknown format %q", texerr.ErrInvalidArgument, s)
}
