package texfile

import (
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/dblezek/tga"
	"golang.org/x/image/bmp"

	"github.com/erinpentecost/ddstex/internal/texerr"
)

// Kind is an on-disk file type, picked by extension.
type Kind int

const (
	KindUnknown Kind = iota
	KindDDS
	KindTGA
	KindBMP
	KindPNG
)

func (k Kind) String() string {
	switch k {
	case KindDDS:
		return "dds"
	case KindTGA:
		return "tga"
	case KindBMP:
		return "bmp"
	case KindPNG:
		return "png"
	}
	return "unknown"
}

// KindOf classifies name by its extension, looking through a .zst suffix.
func KindOf(name string) Kind {
	switch InnerExt(name) {
	case ".dds":
		return KindDDS
	case ".tga":
		return KindTGA
	case ".bmp":
		return KindBMP
	case ".png":
		return KindPNG
	}
	return KindUnknown
}

// ParseKind resolves an image kind given without the dot, as in "tga".
func ParseKind(s string) (Kind, error) {
	k := KindOf("x." + s)
	if k == KindUnknown || k == KindDDS {
		return KindUnknown, fmt.Errorf("%w: texfile: %q is not an image type", texerr.ErrInvalidArgument, s)
	}
	return k, nil
}

// DecodeImage reads a TGA, BMP or PNG image. name only picks the decoder.
func DecodeImage(r io.Reader, name string) (image.Image, error) {
	var (
		img image.Image
		err error
	)
	switch KindOf(name) {
	case KindTGA:
		img, err = tga.Decode(r)
	case KindBMP:
		img, err = bmp.Decode(r)
	case KindPNG:
		img, err = png.Decode(r)
	default:
		return nil, fmt.Errorf("%w: texfile: cannot read images from %q", texerr.ErrNotSupported, name)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: texfile: decode %q: %v", texerr.ErrInvalidData, name, err)
	}
	return img, nil
}

// EncodeImage writes img as the kind named by name's extension.
func EncodeImage(w io.Writer, name string, img image.Image) error {
	switch KindOf(name) {
	case KindTGA:
		return tga.Encode(w, img)
	case KindBMP:
		return bmp.Encode(w, img)
	case KindPNG:
		return png.Encode(w, img)
	}
	return fmt.Errorf("%w: texfile: cannot write images to %q", texerr.ErrNotSupported, name)
}
