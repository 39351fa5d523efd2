package texfile

import (
	"image"
	"math/bits"

	"golang.org/x/image/draw"
)

// Processor rewrites an image before it is compressed.
type Processor interface {
	Process(src *image.NRGBA) (*image.NRGBA, error)
}

// PowerOfTwoProcessor divides each side by DownScaleFactor and then rounds
// it up to a power of two.
type PowerOfTwoProcessor struct {
	DownScaleFactor int
}

func (p *PowerOfTwoProcessor) Process(src *image.NRGBA) (*image.NRGBA, error) {
	bounds := src.Bounds()
	factor := max(p.DownScaleFactor, 1)
	w := nextPoT(uint64(max(bounds.Dx()/factor, 1)))
	h := nextPoT(uint64(max(bounds.Dy()/factor, 1)))
	if int(w) == bounds.Dx() && int(h) == bounds.Dy() {
		return src, nil
	}
	return scale(src, int(w), int(h)), nil
}

func nextPoT(n uint64) uint64 {
	if n == 0 {
		return 1
	}
	if n&(n-1) == 0 {
		return n
	}
	// bits.Len64 gives position of highest bit + 1
	return 1 << bits.Len64(n)
}

// MinimumEdgeAlphaProcessor raises the alpha of every border texel to at
// least Minimum.
type MinimumEdgeAlphaProcessor struct {
	Minimum uint8
}

func (p *MinimumEdgeAlphaProcessor) Process(src *image.NRGBA) (*image.NRGBA, error) {
	bounds := src.Bounds()
	raise := func(x, y int) {
		if c := src.NRGBAAt(x, y); c.A < p.Minimum {
			c.A = p.Minimum
			src.SetNRGBA(x, y, c)
		}
	}
	for x := bounds.Min.X; x < bounds.Max.X; x++ {
		raise(x, bounds.Min.Y)
		raise(x, bounds.Max.Y-1)
	}
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		raise(bounds.Min.X, y)
		raise(bounds.Max.X-1, y)
	}
	return src, nil
}

// toNRGBA copies img into a tightly packed NRGBA anchored at the origin.
// Processors may then modify the copy in place.
func toNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}

func scale(src *image.NRGBA, w, h int) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(out, out.Bounds(), src, src.Bounds(), draw.Src, nil)
	return out
}

// halve produces the next mip of src.
func halve(src *image.NRGBA) *image.NRGBA {
	b := src.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, max(b.Dx()/2, 1), max(b.Dy()/2, 1)))
	draw.BiLinear.Scale(out, out.Bounds(), src, b, draw.Src, nil)
	return out
}
