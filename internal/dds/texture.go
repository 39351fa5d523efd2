package dds

import (
	"fmt"
	"io"

	"github.com/erinpentecost/ddstex/internal/surface"
	"github.com/erinpentecost/ddstex/internal/texerr"
)

// Texture is a decoded DDS file: its metadata, the pixel data in md.Format
// and where each subresource sits inside that data.
type Texture struct {
	Metadata
	Subresources []Subresource
	// Skipped counts leading mips dropped by the maxSize clamp.
	Skipped int
	Pixels  []byte
}

// Load decodes a whole DDS file held in memory. Legacy pixel layouts are
// converted to the metadata format; otherwise Pixels aliases data.
func Load(data []byte, flags Flags, maxSize int) (*Texture, error) {
	md, conv, offset, err := decodeHeader(data, flags)
	if err != nil {
		return nil, err
	}

	pixels := data[offset:]
	if conv&ConvDX10 == 0 && needsConversion(conv, flags) {
		pixels, err = convertLegacy(pixels, md, conv, flags)
		if err != nil {
			return nil, err
		}
	}

	subs, skipped, err := BuildLayouts(pixels, md, maxSize)
	if err != nil {
		return nil, err
	}
	return &Texture{
		Metadata:     md,
		Subresources: subs,
		Skipped:      skipped,
		Pixels:       pixels,
	}, nil
}

// PixelSize is the number of pixel bytes following the header of a file
// described by md.
func PixelSize(md Metadata) (int, error) {
	total := 0
	w, h, d := md.Width, md.Height, md.Depth
	for mip := 0; mip < md.MipLevels; mip++ {
		l, err := surface.ComputeLayout(w, h, md.Format, surface.FlagNone)
		if err != nil {
			return 0, fmt.Errorf("dds: size of mip %d: %w", mip, err)
		}
		total += int(l.TotalBytes) * d
		w, h, d = surface.MipDimension(w), surface.MipDimension(h), surface.MipDimension(d)
	}
	return total * md.ArraySize, nil
}

// Save writes a DDS file holding pixels, which must be laid out in storage
// order for md.
func Save(w io.Writer, md Metadata, pixels []byte, flags Flags) error {
	hdr, err := EncodeHeader(md, flags)
	if err != nil {
		return err
	}
	size, err := PixelSize(md)
	if err != nil {
		return err
	}
	if len(pixels) < size {
		return fmt.Errorf("%w: dds: %d pixel bytes for a %d byte texture", texerr.ErrInvalidArgument, len(pixels), size)
	}

	if _, err := w.Write(hdr); err != nil {
		return err
	}
	_, err = w.Write(pixels[:size])
	return err
}
