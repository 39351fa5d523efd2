package texfile

import (
	"fmt"
	"image"
	"math/bits"

	"github.com/erinpentecost/ddstex/internal/bc"
	"github.com/erinpentecost/ddstex/internal/dds"
	"github.com/erinpentecost/ddstex/internal/dxgi"
	"github.com/erinpentecost/ddstex/internal/texerr"
)

// Options controls ToTexture.
type Options struct {
	// Format is the stored format. UNKNOWN means R8G8B8A8_UNORM.
	Format dxgi.Format
	// Mips is the number of levels to build. Zero or anything past the full
	// chain builds the full chain.
	Mips      int
	Flags     bc.Flags
	Threshold float32
	// Processors run in order on the top level before any mip is built.
	Processors []Processor
}

// MipCount is the length of the full mip chain of a width x height image.
func MipCount(width, height int) int {
	return bits.Len(uint(max(width, height, 1)))
}

// ToTexture converts img into a single item 2D texture of opts.Format,
// building the mip chain from the processed top level.
func ToTexture(img image.Image, opts Options) (*dds.Texture, error) {
	f := opts.Format
	if f == dxgi.UNKNOWN {
		f = dxgi.R8G8B8A8_UNORM
	}
	top := toNRGBA(img)
	for _, p := range opts.Processors {
		var err error
		if top, err = p.Process(top); err != nil {
			return nil, fmt.Errorf("process image: %w", err)
		}
	}

	w, h := top.Bounds().Dx(), top.Bounds().Dy()
	if w < 1 || h < 1 {
		return nil, fmt.Errorf("%w: texfile: empty image", texerr.ErrInvalidArgument)
	}
	levels := MipCount(w, h)
	if opts.Mips > 0 && opts.Mips < levels {
		levels = opts.Mips
	}

	var pixels []byte
	level := top
	for mip := 0; mip < levels; mip++ {
		if mip > 0 {
			level = halve(level)
		}
		out, err := encodeLevel(level, f, opts)
		if err != nil {
			return nil, fmt.Errorf("encode mip %d: %w", mip, err)
		}
		pixels = append(pixels, out.Pixels[:out.SlicePitch]...)
	}

	md := dds.Metadata{
		Width:     w,
		Height:    h,
		Depth:     1,
		ArraySize: 1,
		MipLevels: levels,
		Format:    f,
		Dimension: dds.Texture2D,
	}
	subs, _, err := dds.BuildLayouts(pixels, md, 0)
	if err != nil {
		return nil, err
	}
	return &dds.Texture{Metadata: md, Subresources: subs, Pixels: pixels}, nil
}

func encodeLevel(level *image.NRGBA, f dxgi.Format, opts Options) (bc.Image, error) {
	b := level.Bounds()
	src := bc.Image{
		Width:      b.Dx(),
		Height:     b.Dy(),
		Format:     dxgi.R8G8B8A8_UNORM,
		RowPitch:   level.Stride,
		SlicePitch: len(level.Pix),
		Pixels:     level.Pix,
	}
	switch {
	case bc.BlockSize(dxgi.PromoteTypeless(f)) > 0:
		return bc.CompressImage(src, f, opts.Flags, opts.Threshold)
	case f == dxgi.R8G8B8A8_UNORM:
		return src, nil
	}
	return bc.ConvertImage(src, f)
}

// Find returns the first plane of the given array item and mip.
func Find(tex *dds.Texture, item, mip int) (dds.Subresource, bool) {
	for _, s := range tex.Subresources {
		if s.Plane == 0 && s.Item == item && s.Mip == mip {
			return s, true
		}
	}
	return dds.Subresource{}, false
}

// FromTexture decodes the first depth slice of one subresource of tex into
// an NRGBA image.
func FromTexture(tex *dds.Texture, item, mip int) (*image.NRGBA, error) {
	sub, ok := Find(tex, item, mip)
	if !ok {
		return nil, fmt.Errorf("%w: texfile: no item %d mip %d", texerr.ErrInvalidArgument, item, mip)
	}
	src := bc.Image{
		Width:      sub.Width,
		Height:     sub.Height,
		Format:     tex.Format,
		RowPitch:   sub.RowPitch,
		SlicePitch: sub.SlicePitch,
		Pixels:     tex.Pixels[sub.Offset : sub.Offset+sub.SlicePitch],
	}

	var (
		out bc.Image
		err error
	)
	if bc.BlockSize(dxgi.PromoteTypeless(tex.Format)) > 0 {
		out, err = bc.DecompressImage(src, dxgi.R8G8B8A8_UNORM)
	} else {
		out, err = bc.ConvertImage(src, dxgi.R8G8B8A8_UNORM)
	}
	if err != nil {
		return nil, err
	}
	return &image.NRGBA{
		Pix:    out.Pixels,
		Stride: out.RowPitch,
		Rect:   image.Rect(0, 0, out.Width, out.Height),
	}, nil
}
