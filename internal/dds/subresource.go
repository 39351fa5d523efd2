package dds

import (
	"fmt"

	"github.com/erinpentecost/ddstex/internal/dxgi"
	"github.com/erinpentecost/ddstex/internal/surface"
	"github.com/erinpentecost/ddstex/internal/texerr"
)

// Subresource locates one plane of one mip of one array item inside the
// pixel buffer handed to BuildLayouts.
type Subresource struct {
	Offset     int
	RowPitch   int
	SlicePitch int

	Width  int
	Height int
	Depth  int

	Plane int
	Item  int
	Mip   int
}

// BuildLayouts walks buf in storage order (plane, array item, mip) and
// returns one Subresource per level that fits within maxSize, along with the
// number of leading mips skipped on the first item. A maxSize of zero keeps
// every level.
//
// buf is never modified, so a caller whose resource creation fails at full
// size can call BuildLayouts again with maxSize set to the device limit.
func BuildLayouts(buf []byte, md Metadata, maxSize int) ([]Subresource, int, error) {
	if md.Width < 1 || md.Height < 1 || md.Depth < 1 || md.ArraySize < 1 || md.MipLevels < 1 {
		return nil, 0, fmt.Errorf("%w: dds: layout of %dx%dx%d texture with %d items and %d mips",
			texerr.ErrInvalidArgument, md.Width, md.Height, md.Depth, md.ArraySize, md.MipLevels)
	}
	planes := dxgi.PlaneCount(md.Format)
	if planes == 0 {
		return nil, 0, fmt.Errorf("%w: dds: no planes for format %s", texerr.ErrInvalidArgument, md.Format)
	}

	var (
		out     []Subresource
		skipped int
	)
	for p := 0; p < planes; p++ {
		cursor := 0
		for item := 0; item < md.ArraySize; item++ {
			w, h, d := md.Width, md.Height, md.Depth
			for mip := 0; mip < md.MipLevels; mip++ {
				layout, err := surface.ComputeLayout(w, h, md.Format, surface.FlagNone)
				if err != nil {
					return nil, 0, fmt.Errorf("dds: layout of mip %d: %w", mip, err)
				}
				numBytes := int(layout.TotalBytes)

				if md.MipLevels <= 1 || maxSize == 0 || (w <= maxSize && h <= maxSize && d <= maxSize) {
					sub := Subresource{
						Offset:     cursor,
						RowPitch:   int(layout.RowPitch),
						SlicePitch: numBytes,
						Width:      w,
						Height:     h,
						Depth:      d,
						Plane:      p,
						Item:       item,
						Mip:        mip,
					}
					adjustPlane(&sub, md.Format)
					out = append(out, sub)
				} else if item == 0 && p == 0 {
					skipped++
				}

				levelBytes := numBytes * d
				if levelBytes/d != numBytes || cursor+levelBytes < cursor {
					return nil, 0, fmt.Errorf("%w: dds: mip %d of item %d", texerr.ErrArithmeticOverflow, mip, item)
				}
				if cursor+levelBytes > len(buf) {
					return nil, 0, fmt.Errorf("%w: dds: mip %d of item %d needs %d bytes at offset %d, have %d",
						texerr.ErrUnexpectedEndOfData, mip, item, levelBytes, cursor, len(buf))
				}
				cursor += levelBytes

				w = surface.MipDimension(w)
				h = surface.MipDimension(h)
				d = surface.MipDimension(d)
			}
		}
	}

	if len(out) == 0 {
		return nil, skipped, fmt.Errorf("%w: dds: no subresources within max size %d", texerr.ErrFail, maxSize)
	}
	return out, skipped, nil
}

// adjustPlane narrows a whole-surface descriptor down to a single plane.
func adjustPlane(s *Subresource, f dxgi.Format) {
	luma := s.RowPitch * s.Height
	switch f {
	case dxgi.NV12, dxgi.P010, dxgi.P016, dxgi.OPAQUE_420:
		if s.Plane == 0 {
			s.SlicePitch = luma
		} else {
			s.Offset += luma
			s.SlicePitch = s.RowPitch * ((s.Height + 1) >> 1)
		}

	case dxgi.NV11:
		if s.Plane == 0 {
			s.SlicePitch = luma
		} else {
			s.Offset += luma
			s.RowPitch >>= 1
			s.SlicePitch = s.RowPitch * s.Height
		}

	case dxgi.P208:
		s.Offset += s.Plane * luma
		s.SlicePitch = luma

	case dxgi.V208:
		chroma := s.RowPitch * ((s.Height + 1) >> 1)
		switch s.Plane {
		case 0:
			s.SlicePitch = luma
		case 1:
			s.Offset += luma
			s.SlicePitch = chroma
		case 2:
			s.Offset += luma + chroma
			s.SlicePitch = chroma
		}

	case dxgi.V408:
		s.Offset += s.Plane * luma
		s.SlicePitch = luma
	}
}
