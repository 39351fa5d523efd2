package bc

import "math"

// Single channel blocks (BC4, each half of BC5, BC3 alpha): two endpoint
// bytes followed by sixteen 3-bit indices.

func channelEndpoint(b byte, signed bool) float32 {
	if !signed {
		return float32(b) / 255
	}
	v := int8(b)
	if v == -128 {
		v = -127
	}
	return float32(v) / 127
}

// channelPalette expands two endpoints into the eight block values.
func channelPalette(e0, e1 byte, signed bool) [8]float32 {
	var p [8]float32
	p[0] = channelEndpoint(e0, signed)
	p[1] = channelEndpoint(e1, signed)

	eightValue := e0 > e1
	if signed {
		eightValue = int8(e0) > int8(e1)
	}
	if eightValue {
		for i := 1; i <= 6; i++ {
			p[1+i] = (float32(7-i)*p[0] + float32(i)*p[1]) / 7
		}
		return p
	}
	for i := 1; i <= 4; i++ {
		p[1+i] = (float32(5-i)*p[0] + float32(i)*p[1]) / 5
	}
	if signed {
		p[6] = -1
	} else {
		p[6] = 0
	}
	p[7] = 1
	return p
}

func decodeChannel(out *[16]float32, src []byte, signed bool) {
	p := channelPalette(src[0], src[1], signed)
	var bits uint64
	for i := 0; i < 6; i++ {
		bits |= uint64(src[2+i]) << (8 * i)
	}
	for i := range out {
		out[i] = p[bits>>(3*i)&7]
	}
}

func quantizeChannel(v float32, signed bool) byte {
	if signed {
		q := int(math.Round(float64(clampRange(v, -1, 1) * 127)))
		return byte(int8(q))
	}
	return byte(math.Round(float64(clamp01(v) * 255)))
}

// channelIndices picks the closest palette entry per texel, optionally
// diffusing the residual, and returns the squared error.
func channelIndices(vals *[16]float32, p *[8]float32, dither bool, idx *[16]uint8) float32 {
	var errs [16]float32
	var total float32
	for i, v := range vals {
		t := v + errs[i]
		best, bestDist := 0, float32(math.MaxFloat32)
		for j, pv := range p {
			d := (t - pv) * (t - pv)
			if d < bestDist {
				best, bestDist = j, d
			}
		}
		idx[i] = uint8(best)
		if dither {
			diffuse(&errs, i, t-p[best])
		}
		d := v - p[best]
		total += d * d
	}
	return total
}

type channelCandidate struct {
	e0, e1 byte
	idx    [16]uint8
	err    float32
}

func (c *channelCandidate) try(vals *[16]float32, e0, e1 byte, signed, dither bool) {
	p := channelPalette(e0, e1, signed)
	var idx [16]uint8
	if e := channelIndices(vals, &p, dither, &idx); e < c.err {
		c.e0, c.e1, c.idx, c.err = e0, e1, idx, e
	}
}

// encodeChannel writes an 8-byte single channel block, trying both the
// eight-value and the six-value palette layouts.
func encodeChannel(dst []byte, vals *[16]float32, signed, dither bool) {
	lo, hi := float32(1), float32(-1)
	if !signed {
		lo, hi = 1, 0
	}
	// interior range, ignoring values the six-value palette stores exactly
	ilo, ihi := lo, hi
	extreme := float32(0)
	if signed {
		extreme = -1
	}
	for i, v := range vals {
		if signed {
			v = clampRange(v, -1, 1)
		} else {
			v = clamp01(v)
		}
		vals[i] = v
		lo = min(lo, v)
		hi = max(hi, v)
		if v != extreme && v != 1 {
			ilo = min(ilo, v)
			ihi = max(ihi, v)
		}
	}

	best := channelCandidate{err: float32(math.MaxFloat32)}

	// eight-value layout needs e0 > e1
	qhi, qlo := quantizeChannel(hi, signed), quantizeChannel(lo, signed)
	for d0 := -1; d0 <= 1; d0++ {
		for d1 := -1; d1 <= 1; d1++ {
			e0, e1 := nudge(qhi, d0, signed), nudge(qlo, d1, signed)
			if greater(e0, e1, signed) {
				best.try(vals, e0, e1, signed, dither)
			}
		}
	}
	if qhi == qlo {
		best.try(vals, qhi, qlo, signed, dither)
	}

	// six-value layout needs e0 <= e1
	if ilo <= ihi {
		q0, q1 := quantizeChannel(ilo, signed), quantizeChannel(ihi, signed)
		for d0 := -1; d0 <= 1; d0++ {
			for d1 := -1; d1 <= 1; d1++ {
				e0, e1 := nudge(q0, d0, signed), nudge(q1, d1, signed)
				if !greater(e0, e1, signed) {
					best.try(vals, e0, e1, signed, dither)
				}
			}
		}
	}

	dst[0], dst[1] = best.e0, best.e1
	var bits uint64
	for i, j := range best.idx {
		bits |= uint64(j&7) << (3 * i)
	}
	for i := 0; i < 6; i++ {
		dst[2+i] = byte(bits >> (8 * i))
	}
}

func greater(a, b byte, signed bool) bool {
	if signed {
		return int8(a) > int8(b)
	}
	return a > b
}

// nudge moves an endpoint byte by d, saturating at the format's range.
func nudge(b byte, d int, signed bool) byte {
	if signed {
		v := min(max(int(int8(b))+d, -127), 127)
		return byte(int8(v))
	}
	return byte(min(max(int(b)+d, 0), 255))
}
