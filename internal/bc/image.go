package bc

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/erinpentecost/ddstex/internal/dxgi"
	"github.com/erinpentecost/ddstex/internal/surface"
	"github.com/erinpentecost/ddstex/internal/texerr"
)

// Image is one 2D surface in memory.
type Image struct {
	Width      int
	Height     int
	Format     dxgi.Format
	RowPitch   int
	SlicePitch int
	Pixels     []byte
}

// NewImage allocates a tightly packed width x height surface of format f.
func NewImage(width, height int, f dxgi.Format) (Image, error) {
	if width < 1 || height < 1 {
		return Image{}, fmt.Errorf("%w: bc: image size %dx%d", texerr.ErrInvalidArgument, width, height)
	}
	l, err := surface.ComputeLayout(width, height, f, surface.FlagNone)
	if err != nil {
		return Image{}, err
	}
	return Image{
		Width:      width,
		Height:     height,
		Format:     f,
		RowPitch:   int(l.RowPitch),
		SlicePitch: int(l.TotalBytes),
		Pixels:     make([]byte, l.TotalBytes),
	}, nil
}

func (img *Image) check() error {
	if img.Width < 1 || img.Height < 1 {
		return fmt.Errorf("%w: bc: image size %dx%d", texerr.ErrInvalidArgument, img.Width, img.Height)
	}
	l, err := surface.ComputeLayout(img.Width, img.Height, img.Format, surface.FlagNone)
	if err != nil {
		return err
	}
	rows := int(l.RowCount)
	if img.RowPitch < int(l.RowPitch) || len(img.Pixels) < img.RowPitch*(rows-1)+int(l.RowPitch) {
		return fmt.Errorf("%w: bc: %d bytes with pitch %d for %dx%d %s",
			texerr.ErrUnexpectedEndOfData, len(img.Pixels), img.RowPitch, img.Width, img.Height, img.Format)
	}
	return nil
}

// replicate is the source column (or row) of each slot in a partial tile.
var replicate = [4]int{0, 0, 0, 1}

// forEachBlockRow runs fn for every row of 4x4 blocks, concurrently unless
// FlagSequential is set. Each call touches only its own block row.
func forEachBlockRow(rows int, flags Flags, fn func(by int) error) error {
	if flags&FlagSequential != 0 {
		for by := 0; by < rows; by++ {
			if err := fn(by); err != nil {
				return err
			}
		}
		return nil
	}

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for by := 0; by < rows; by++ {
		g.Go(func() error {
			return fn(by)
		})
	}
	return g.Wait()
}

// CompressImage encodes src into a new image of block compressed format f.
// Partial edge tiles are padded by replicating their valid texels.
func CompressImage(src Image, f dxgi.Format, flags Flags, threshold float32) (Image, error) {
	f = dxgi.PromoteTypeless(f)
	if BlockSize(f) == 0 {
		return Image{}, fmt.Errorf("%w: bc: %s is not block compressed", texerr.ErrNotSupported, f)
	}
	if dxgi.IsCompressed(src.Format) || dxgi.BitsPerPixel(src.Format) < 8 {
		return Image{}, fmt.Errorf("%w: bc: cannot compress from %s", texerr.ErrNotSupported, src.Format)
	}
	if !scanlineSupported(src.Format) {
		return Image{}, fmt.Errorf("%w: bc: cannot read %s texels", texerr.ErrNotSupported, src.Format)
	}
	if err := src.check(); err != nil {
		return Image{}, err
	}

	dst, err := NewImage(src.Width, src.Height, f)
	if err != nil {
		return Image{}, err
	}
	blockBytes := BlockSize(f)
	blocksHigh := (src.Height + 3) / 4

	err = forEachBlockRow(blocksHigh, flags, func(by int) error {
		var rows [4][][4]float32
		ph := min(4, src.Height-by*4)
		for r := 0; r < ph; r++ {
			rows[r] = make([][4]float32, src.Width)
			y := by*4 + r
			if err := loadScanline(rows[r], src.Pixels[y*src.RowPitch:], src.Format); err != nil {
				return err
			}
		}

		out := dst.Pixels[by*dst.RowPitch:]
		for bx := 0; bx*4 < src.Width; bx++ {
			pw := min(4, src.Width-bx*4)

			var blk Block
			for t := 0; t < ph; t++ {
				for s := 0; s < pw; s++ {
					blk[t<<2|s] = rows[t][bx*4+s]
				}
				for s := pw; s < 4; s++ {
					blk[t<<2|s] = blk[t<<2|replicate[s]]
				}
			}
			for t := ph; t < 4; t++ {
				for s := 0; s < 4; s++ {
					blk[t<<2|s] = blk[replicate[t]<<2|s]
				}
			}

			if err := EncodeBlock(out[bx*blockBytes:], f, &blk, flags, threshold); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Image{}, err
	}
	return dst, nil
}

// DecompressImage decodes the block compressed src into a new image of
// format f.
func DecompressImage(src Image, f dxgi.Format) (Image, error) {
	sf := dxgi.PromoteTypeless(src.Format)
	if BlockSize(sf) == 0 {
		return Image{}, fmt.Errorf("%w: bc: %s is not block compressed", texerr.ErrNotSupported, src.Format)
	}
	if !scanlineSupported(f) {
		return Image{}, fmt.Errorf("%w: bc: cannot write %s texels", texerr.ErrNotSupported, f)
	}
	if err := src.check(); err != nil {
		return Image{}, err
	}

	dst, err := NewImage(src.Width, src.Height, f)
	if err != nil {
		return Image{}, err
	}
	blockBytes := BlockSize(sf)
	blocksHigh := (src.Height + 3) / 4

	err = forEachBlockRow(blocksHigh, FlagNone, func(by int) error {
		in := src.Pixels[by*src.RowPitch:]
		ph := min(4, src.Height-by*4)
		for bx := 0; bx*4 < src.Width; bx++ {
			blk, err := DecodeBlock(sf, in[bx*blockBytes:])
			if err != nil {
				return err
			}
			pw := min(4, src.Width-bx*4)
			for t := 0; t < ph; t++ {
				y := by*4 + t
				row := dst.Pixels[y*dst.RowPitch+bx*4*dxgi.BitsPerPixel(f)/8:]
				if err := storeScanline(row, blk[t*4:t*4+pw], f); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return Image{}, err
	}
	return dst, nil
}

// ConvertImage rewrites the uncompressed src into a new image of format f,
// going through the same scanline load and store as the block codecs.
func ConvertImage(src Image, f dxgi.Format) (Image, error) {
	if !scanlineSupported(src.Format) {
		return Image{}, fmt.Errorf("%w: bc: cannot read %s texels", texerr.ErrNotSupported, src.Format)
	}
	if !scanlineSupported(f) {
		return Image{}, fmt.Errorf("%w: bc: cannot write %s texels", texerr.ErrNotSupported, f)
	}
	if err := src.check(); err != nil {
		return Image{}, err
	}

	dst, err := NewImage(src.Width, src.Height, f)
	if err != nil {
		return Image{}, err
	}
	row := make([][4]float32, src.Width)
	for y := 0; y < src.Height; y++ {
		if err := loadScanline(row, src.Pixels[y*src.RowPitch:], src.Format); err != nil {
			return Image{}, err
		}
		if err := storeScanline(dst.Pixels[y*dst.RowPitch:], row, f); err != nil {
			return Image{}, err
		}
	}
	return dst, nil
}
