package bc

import (
	"encoding/binary"
	"math"
)

//////////////////
// Colour block //
//////////////////

// rgb is a colour or direction in RGB space.
type rgb [3]float64

func dot(a, b rgb) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func normalize(v rgb) rgb {
	l := math.Sqrt(dot(v, v))
	if l == 0 {
		return rgb{}
	}
	return rgb{v[0] / l, v[1] / l, v[2] / l}
}

func scale(v rgb, s float64) rgb {
	return rgb{v[0] * s, v[1] * s, v[2] * s}
}

func add(a, b rgb) rgb {
	return rgb{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

func sub(a, b rgb) rgb {
	return rgb{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

// principalAxis estimates the dominant eigenvector of a 3x3 covariance
// matrix by power iteration.
func principalAxis(s [3][3]float64) rgb {
	v := normalize(rgb{1, 1, 1})
	for i := 0; i < 8; i++ {
		var next rgb
		next[0] = s[0][0]*v[0] + s[0][1]*v[1] + s[0][2]*v[2]
		next[1] = s[1][0]*v[0] + s[1][1]*v[1] + s[1][2]*v[2]
		next[2] = s[2][0]*v[0] + s[2][1]*v[1] + s[2][2]*v[2]
		next = normalize(next)
		if next == (rgb{}) {
			break
		}
		v = next
	}
	return v
}

// luminance weights colour error the way the eye does.
var luminance = rgb{0.2125 / 0.7154, 1, 0.0721 / 0.7154}

func colorWeights(flags Flags) rgb {
	if flags&FlagUniform != 0 {
		return rgb{1, 1, 1}
	}
	return luminance
}

func to565(c rgb) uint16 {
	r := uint16(math.Round(math.Max(0, math.Min(1, c[0])) * 31))
	g := uint16(math.Round(math.Max(0, math.Min(1, c[1])) * 63))
	b := uint16(math.Round(math.Max(0, math.Min(1, c[2])) * 31))
	return r<<11 | g<<5 | b
}

func from565(v uint16) rgb {
	return rgb{
		float64(v>>11&0x1f) / 31,
		float64(v>>5&0x3f) / 63,
		float64(v&0x1f) / 31,
	}
}

// colorPalette builds the 3 or 4 entry palette of a colour block.
func colorPalette(c0, c1 uint16, fourColor bool) ([4]rgb, int) {
	var p [4]rgb
	p[0], p[1] = from565(c0), from565(c1)
	if fourColor {
		for i := range 3 {
			p[2][i] = (2*p[0][i] + p[1][i]) / 3
			p[3][i] = (p[0][i] + 2*p[1][i]) / 3
		}
		return p, 4
	}
	for i := range 3 {
		p[2][i] = (p[0][i] + p[1][i]) / 2
	}
	return p, 3
}

func decodeColor(blk *Block, src []byte, bc1 bool) {
	c0 := binary.LittleEndian.Uint16(src)
	c1 := binary.LittleEndian.Uint16(src[2:])
	idx := binary.LittleEndian.Uint32(src[4:])

	fourColor := !bc1 || c0 > c1
	p, _ := colorPalette(c0, c1, fourColor)

	for i := range blk {
		j := idx >> (2 * i) & 3
		if !fourColor && j == 3 {
			blk[i] = [4]float32{0, 0, 0, 0}
			continue
		}
		blk[i][0] = float32(p[j][0])
		blk[i][1] = float32(p[j][1])
		blk[i][2] = float32(p[j][2])
		blk[i][3] = 1
	}
}

// colorFit is the texel set a colour block is fitted to.
type colorFit struct {
	px     [16]rgb
	active [16]bool
	n      int
	w      rgb
}

func (cf *colorFit) dist(a, b rgb) float64 {
	d := sub(a, b)
	return d[0]*d[0]*cf.w[0] + d[1]*d[1]*cf.w[1] + d[2]*d[2]*cf.w[2]
}

// indices picks the nearest palette entry for every active texel and
// returns the total weighted error.
func (cf *colorFit) indices(c0, c1 uint16, fourColor bool, idx *[16]uint8) float64 {
	p, n := colorPalette(c0, c1, fourColor)
	total := 0.0
	for i, c := range cf.px {
		if !cf.active[i] {
			idx[i] = 3
			continue
		}
		best, bestDist := 0, math.MaxFloat64
		for j := 0; j < n; j++ {
			if d := cf.dist(c, p[j]); d < bestDist {
				best, bestDist = j, d
			}
		}
		idx[i] = uint8(best)
		total += bestDist
	}
	return total
}

// endpoints runs PCA over the active texels and returns the extremes of
// their projection onto the principal axis.
func (cf *colorFit) endpoints() (rgb, rgb) {
	// 1. centroid, in weighted space
	var avg rgb
	for i, c := range cf.px {
		if cf.active[i] {
			avg = add(avg, rgb{c[0] * cf.w[0], c[1] * cf.w[1], c[2] * cf.w[2]})
		}
	}
	avg = scale(avg, 1/float64(cf.n))

	// 2. covariance
	var s [3][3]float64
	for i, c := range cf.px {
		if !cf.active[i] {
			continue
		}
		d := sub(rgb{c[0] * cf.w[0], c[1] * cf.w[1], c[2] * cf.w[2]}, avg)
		s[0][0] += d[0] * d[0]
		s[0][1] += d[0] * d[1]
		s[0][2] += d[0] * d[2]
		s[1][1] += d[1] * d[1]
		s[1][2] += d[1] * d[2]
		s[2][2] += d[2] * d[2]
	}
	s[1][0], s[2][0], s[2][1] = s[0][1], s[0][2], s[1][2]

	// 3. project onto the principal axis
	v := principalAxis(s)
	minProj, maxProj := math.MaxFloat64, -math.MaxFloat64
	for i, c := range cf.px {
		if !cf.active[i] {
			continue
		}
		proj := dot(sub(rgb{c[0] * cf.w[0], c[1] * cf.w[1], c[2] * cf.w[2]}, avg), v)
		minProj = math.Min(minProj, proj)
		maxProj = math.Max(maxProj, proj)
	}

	// 4. back to unweighted colour
	e0 := add(avg, scale(v, maxProj))
	e1 := add(avg, scale(v, minProj))
	for i := range 3 {
		e0[i] /= cf.w[i]
		e1[i] /= cf.w[i]
	}
	return e0, e1
}

// refine solves the least squares endpoints for a fixed index assignment.
func (cf *colorFit) refine(idx *[16]uint8, fourColor bool) (rgb, rgb, bool) {
	var weights [4]float64
	if fourColor {
		weights = [4]float64{0, 1, 1.0 / 3, 2.0 / 3}
	} else {
		weights = [4]float64{0, 1, 0.5, 0}
	}

	var aa, bb, ab float64
	var ax, bx rgb
	for i, c := range cf.px {
		if !cf.active[i] {
			continue
		}
		t := weights[idx[i]]
		a := 1 - t
		aa += a * a
		bb += t * t
		ab += a * t
		ax = add(ax, scale(c, a))
		bx = add(bx, scale(c, t))
	}
	det := aa*bb - ab*ab
	if math.Abs(det) < 1e-9 {
		return rgb{}, rgb{}, false
	}
	e0 := scale(sub(scale(ax, bb), scale(bx, ab)), 1/det)
	e1 := scale(sub(scale(bx, aa), scale(ax, ab)), 1/det)
	return e0, e1, true
}

// encodeColor writes the 8-byte colour half of a BC1, BC2 or BC3 block.
// Only BC1 may use the three-colour mode, which it does when some texel's
// alpha is below threshold.
func encodeColor(dst []byte, blk *Block, bc1 bool, flags Flags, threshold float32) {
	cf := colorFit{w: colorWeights(flags)}
	transparent := false

	var errs [3][16]float32
	for i := range blk {
		if bc1 && blk[i][3] < threshold {
			transparent = true
			continue
		}
		cf.active[i] = true
		cf.n++

		c := rgb{
			float64(clamp01(blk[i][0] + errs[0][i])),
			float64(clamp01(blk[i][1] + errs[1][i])),
			float64(clamp01(blk[i][2] + errs[2][i])),
		}
		if flags&FlagDitherRGB != 0 {
			q := from565(to565(c))
			for ch := range 3 {
				diffuse(&errs[ch], i, float32(c[ch]-q[ch]))
			}
		}
		cf.px[i] = c
	}

	if cf.n == 0 {
		// every texel transparent
		binary.LittleEndian.PutUint16(dst, 0)
		binary.LittleEndian.PutUint16(dst[2:], 0)
		binary.LittleEndian.PutUint32(dst[4:], 0xffffffff)
		return
	}

	fourColor := !transparent
	e0, e1 := cf.endpoints()
	c0, c1 := to565(e0), to565(e1)

	var idx [16]uint8
	best := cf.indices(c0, c1, fourColor, &idx)

	if r0, r1, ok := cf.refine(&idx, fourColor); ok {
		rc0, rc1 := to565(r0), to565(r1)
		var ridx [16]uint8
		if e := cf.indices(rc0, rc1, fourColor, &ridx); e < best {
			c0, c1, idx, best = rc0, rc1, ridx, e
		}
	}

	switch {
	case c0 == c1:
		for i := range idx {
			if cf.active[i] {
				idx[i] = 0
			}
		}
	case fourColor && c0 < c1:
		c0, c1 = c1, c0
		for i := range idx {
			idx[i] ^= 1
		}
	case !fourColor && c0 > c1:
		c0, c1 = c1, c0
		for i := range idx {
			if idx[i] < 2 {
				idx[i] ^= 1
			}
		}
	}

	var packed uint32
	for i := range idx {
		packed |= uint32(idx[i]&3) << (2 * i)
	}
	binary.LittleEndian.PutUint16(dst, c0)
	binary.LittleEndian.PutUint16(dst[2:], c1)
	binary.LittleEndian.PutUint32(dst[4:], packed)
}
