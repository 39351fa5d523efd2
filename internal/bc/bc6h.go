package bc

import (
	"math"

	"github.com/x448/float16"
)

// bc6hField names one channel of one endpoint: W and X bound region 0,
// Y and Z region 1.
type bc6hField uint8

const (
	bc6hRW bc6hField = iota
	bc6hGW
	bc6hBW
	bc6hRX
	bc6hGX
	bc6hBX
	bc6hRY
	bc6hGY
	bc6hBY
	bc6hRZ
	bc6hGZ
	bc6hBZ
)

// bc6hRun streams bits from..to of field f, in that order.
type bc6hRun struct {
	f        bc6hField
	from, to int
}

type bc6hMode struct {
	code        uint32
	transformed bool
	regions     int
	prec        int
	delta       [3]int
	layout      []bc6hRun
}

var bc6hModes = []bc6hMode{
	{0x00, true, 2, 10, [3]int{5, 5, 5}, []bc6hRun{{bc6hGY, 4, 4}, {bc6hBY, 4, 4}, {bc6hBZ, 4, 4}, {bc6hRW, 0, 9}, {bc6hGW, 0, 9}, {bc6hBW, 0, 9}, {bc6hRX, 0, 4}, {bc6hGZ, 4, 4}, {bc6hGY, 0, 3}, {bc6hGX, 0, 4}, {bc6hBZ, 0, 0}, {bc6hGZ, 0, 3}, {bc6hBX, 0, 4}, {bc6hBZ, 1, 1}, {bc6hBY, 0, 3}, {bc6hRY, 0, 4}, {bc6hBZ, 2, 2}, {bc6hRZ, 0, 4}, {bc6hBZ, 3, 3}}},
	{0x01, true, 2, 7, [3]int{6, 6, 6}, []bc6hRun{{bc6hGY, 5, 5}, {bc6hGZ, 4, 4}, {bc6hGZ, 5, 5}, {bc6hRW, 0, 6}, {bc6hBZ, 0, 0}, {bc6hBZ, 1, 1}, {bc6hBY, 4, 4}, {bc6hGW, 0, 6}, {bc6hBY, 5, 5}, {bc6hBZ, 2, 2}, {bc6hGY, 4, 4}, {bc6hBW, 0, 6}, {bc6hBZ, 3, 3}, {bc6hBZ, 5, 5}, {bc6hBZ, 4, 4}, {bc6hRX, 0, 5}, {bc6hGY, 0, 3}, {bc6hGX, 0, 5}, {bc6hGZ, 0, 3}, {bc6hBX, 0, 5}, {bc6hBY, 0, 3}, {bc6hRY, 0, 5}, {bc6hRZ, 0, 5}}},
	{0x02, true, 2, 11, [3]int{5, 4, 4}, []bc6hRun{{bc6hRW, 0, 9}, {bc6hGW, 0, 9}, {bc6hBW, 0, 9}, {bc6hRX, 0, 4}, {bc6hRW, 10, 10}, {bc6hGY, 0, 3}, {bc6hGX, 0, 3}, {bc6hGW, 10, 10}, {bc6hBZ, 0, 0}, {bc6hGZ, 0, 3}, {bc6hBX, 0, 3}, {bc6hBW, 10, 10}, {bc6hBZ, 1, 1}, {bc6hBY, 0, 3}, {bc6hRY, 0, 4}, {bc6hBZ, 2, 2}, {bc6hRZ, 0, 4}, {bc6hBZ, 3, 3}}},
	{0x06, true, 2, 11, [3]int{4, 5, 4}, []bc6hRun{{bc6hRW, 0, 9}, {bc6hGW, 0, 9}, {bc6hBW, 0, 9}, {bc6hRX, 0, 3}, {bc6hRW, 10, 10}, {bc6hGZ, 4, 4}, {bc6hGY, 0, 3}, {bc6hGX, 0, 4}, {bc6hGW, 10, 10}, {bc6hGZ, 0, 3}, {bc6hBX, 0, 3}, {bc6hBW, 10, 10}, {bc6hBZ, 1, 1}, {bc6hBY, 0, 3}, {bc6hRY, 0, 3}, {bc6hBZ, 0, 0}, {bc6hBZ, 2, 2}, {bc6hRZ, 0, 3}, {bc6hGY, 4, 4}, {bc6hBZ, 3, 3}}},
	{0x0a, true, 2, 11, [3]int{4, 4, 5}, []bc6hRun{{bc6hRW, 0, 9}, {bc6hGW, 0, 9}, {bc6hBW, 0, 9}, {bc6hRX, 0, 3}, {bc6hRW, 10, 10}, {bc6hBY, 4, 4}, {bc6hGY, 0, 3}, {bc6hGX, 0, 3}, {bc6hGW, 10, 10}, {bc6hBZ, 0, 0}, {bc6hGZ, 0, 3}, {bc6hBX, 0, 4}, {bc6hBW, 10, 10}, {bc6hBY, 0, 3}, {bc6hRY, 0, 3}, {bc6hBZ, 1, 1}, {bc6hBZ, 2, 2}, {bc6hRZ, 0, 3}, {bc6hBZ, 4, 4}, {bc6hBZ, 3, 3}}},
	{0x0e, true, 2, 9, [3]int{5, 5, 5}, []bc6hRun{{bc6hRW, 0, 8}, {bc6hBY, 4, 4}, {bc6hGW, 0, 8}, {bc6hGY, 4, 4}, {bc6hBW, 0, 8}, {bc6hBZ, 4, 4}, {bc6hRX, 0, 4}, {bc6hGZ, 4, 4}, {bc6hGY, 0, 3}, {bc6hGX, 0, 4}, {bc6hBZ, 0, 0}, {bc6hGZ, 0, 3}, {bc6hBX, 0, 4}, {bc6hBZ, 1, 1}, {bc6hBY, 0, 3}, {bc6hRY, 0, 4}, {bc6hBZ, 2, 2}, {bc6hRZ, 0, 4}, {bc6hBZ, 3, 3}}},
	{0x12, true, 2, 8, [3]int{6, 5, 5}, []bc6hRun{{bc6hRW, 0, 7}, {bc6hGZ, 4, 4}, {bc6hBY, 4, 4}, {bc6hGW, 0, 7}, {bc6hBZ, 2, 2}, {bc6hGY, 4, 4}, {bc6hBW, 0, 7}, {bc6hBZ, 3, 3}, {bc6hBZ, 4, 4}, {bc6hRX, 0, 5}, {bc6hGY, 0, 3}, {bc6hGX, 0, 4}, {bc6hBZ, 0, 0}, {bc6hGZ, 0, 3}, {bc6hBX, 0, 4}, {bc6hBZ, 1, 1}, {bc6hBY, 0, 3}, {bc6hRY, 0, 5}, {bc6hRZ, 0, 5}}},
	{0x16, true, 2, 8, [3]int{5, 6, 5}, []bc6hRun{{bc6hRW, 0, 7}, {bc6hBZ, 0, 0}, {bc6hBY, 4, 4}, {bc6hGW, 0, 7}, {bc6hGY, 5, 5}, {bc6hGY, 4, 4}, {bc6hBW, 0, 7}, {bc6hGZ, 5, 5}, {bc6hBZ, 4, 4}, {bc6hRX, 0, 4}, {bc6hGZ, 4, 4}, {bc6hGY, 0, 3}, {bc6hGX, 0, 5}, {bc6hGZ, 0, 3}, {bc6hBX, 0, 4}, {bc6hBZ, 1, 1}, {bc6hBY, 0, 3}, {bc6hRY, 0, 4}, {bc6hBZ, 2, 2}, {bc6hRZ, 0, 4}, {bc6hBZ, 3, 3}}},
	{0x1a, true, 2, 8, [3]int{5, 5, 6}, []bc6hRun{{bc6hRW, 0, 7}, {bc6hBZ, 1, 1}, {bc6hBY, 4, 4}, {bc6hGW, 0, 7}, {bc6hBY, 5, 5}, {bc6hGY, 4, 4}, {bc6hBW, 0, 7}, {bc6hBZ, 5, 5}, {bc6hBZ, 4, 4}, {bc6hRX, 0, 4}, {bc6hGZ, 4, 4}, {bc6hGY, 0, 3}, {bc6hGX, 0, 4}, {bc6hBZ, 0, 0}, {bc6hGZ, 0, 3}, {bc6hBX, 0, 5}, {bc6hBY, 0, 3}, {bc6hRY, 0, 4}, {bc6hBZ, 2, 2}, {bc6hRZ, 0, 4}, {bc6hBZ, 3, 3}}},
	{0x1e, false, 2, 6, [3]int{6, 6, 6}, []bc6hRun{{bc6hRW, 0, 5}, {bc6hGZ, 4, 4}, {bc6hBZ, 0, 0}, {bc6hBZ, 1, 1}, {bc6hBY, 4, 4}, {bc6hGW, 0, 5}, {bc6hGY, 5, 5}, {bc6hBY, 5, 5}, {bc6hBZ, 2, 2}, {bc6hGY, 4, 4}, {bc6hBW, 0, 5}, {bc6hGZ, 5, 5}, {bc6hBZ, 3, 3}, {bc6hBZ, 5, 5}, {bc6hBZ, 4, 4}, {bc6hRX, 0, 5}, {bc6hGY, 0, 3}, {bc6hGX, 0, 5}, {bc6hGZ, 0, 3}, {bc6hBX, 0, 5}, {bc6hBY, 0, 3}, {bc6hRY, 0, 5}, {bc6hRZ, 0, 5}}},
	{0x03, false, 1, 10, [3]int{10, 10, 10}, []bc6hRun{{bc6hRW, 0, 9}, {bc6hGW, 0, 9}, {bc6hBW, 0, 9}, {bc6hRX, 0, 9}, {bc6hGX, 0, 9}, {bc6hBX, 0, 9}}},
	{0x07, true, 1, 11, [3]int{9, 9, 9}, []bc6hRun{{bc6hRW, 0, 9}, {bc6hGW, 0, 9}, {bc6hBW, 0, 9}, {bc6hRX, 0, 8}, {bc6hRW, 10, 10}, {bc6hGX, 0, 8}, {bc6hGW, 10, 10}, {bc6hBX, 0, 8}, {bc6hBW, 10, 10}}},
	{0x0b, true, 1, 12, [3]int{8, 8, 8}, []bc6hRun{{bc6hRW, 0, 9}, {bc6hGW, 0, 9}, {bc6hBW, 0, 9}, {bc6hRX, 0, 7}, {bc6hRW, 11, 10}, {bc6hGX, 0, 7}, {bc6hGW, 11, 10}, {bc6hBX, 0, 7}, {bc6hBW, 11, 10}}},
	{0x0f, true, 1, 16, [3]int{4, 4, 4}, []bc6hRun{{bc6hRW, 0, 9}, {bc6hGW, 0, 9}, {bc6hBW, 0, 9}, {bc6hRX, 0, 3}, {bc6hRW, 15, 10}, {bc6hGX, 0, 3}, {bc6hGW, 15, 10}, {bc6hBX, 0, 3}, {bc6hBW, 15, 10}}},
}

// bc6hEncodeMode is the single region, untransformed 10-bit mode.
const bc6hEncodeMode = 10

func bc6hModeFor(code uint32) *bc6hMode {
	for i := range bc6hModes {
		if bc6hModes[i].code == code {
			return &bc6hModes[i]
		}
	}
	return nil
}

func signExtend(v int32, bits int) int32 {
	shift := 32 - bits
	return v << shift >> shift
}

// bc6hUnquantize widens an endpoint to the 16-bit interpolation range.
func bc6hUnquantize(comp int32, prec int, signed bool) int32 {
	if !signed {
		switch {
		case prec >= 15:
			return comp
		case comp == 0:
			return 0
		case comp == int32(1)<<prec-1:
			return 0xffff
		}
		return ((comp << 16) + 0x8000) >> prec
	}

	if prec >= 16 {
		return comp
	}
	neg := comp < 0
	if neg {
		comp = -comp
	}
	var u int32
	switch {
	case comp == 0:
	case comp >= int32(1)<<(prec-1)-1:
		u = 0x7fff
	default:
		u = ((comp << 15) + 0x4000) >> (prec - 1)
	}
	if neg {
		u = -u
	}
	return u
}

// bc6hFinish scales an interpolated value to half float bits.
func bc6hFinish(v int32, signed bool) uint16 {
	if !signed {
		return uint16((v * 31) >> 6)
	}
	if v < 0 {
		return 0x8000 | uint16(((-v)*31)>>5)
	}
	return uint16((v * 31) >> 5)
}

func decodeBC6H(blk *Block, src []byte, signed bool) {
	r := bitReader{b: src}
	code := r.read(2)
	if code >= 2 {
		code |= r.read(3) << 2
	}
	m := bc6hModeFor(code)
	if m == nil {
		// reserved mode
		for i := range blk {
			blk[i] = [4]float32{0, 0, 0, 1}
		}
		return
	}

	var ep [12]int32
	for _, run := range m.layout {
		step := 1
		if run.to < run.from {
			step = -1
		}
		for bit := run.from; ; bit += step {
			ep[run.f] |= int32(r.read(1)) << bit
			if bit == run.to {
				break
			}
		}
	}
	part := 0
	if m.regions == 2 {
		part = int(r.read(5))
	}

	endpoints := 2 * m.regions
	for c := 0; c < 3; c++ {
		w := &ep[c]
		if signed {
			*w = signExtend(*w, m.prec)
		}
		for e := 1; e < endpoints; e++ {
			v := &ep[e*3+c]
			if signed || m.transformed {
				*v = signExtend(*v, m.delta[c])
			}
			if m.transformed {
				*v = (*w + *v) & (int32(1)<<m.prec - 1)
				if signed {
					*v = signExtend(*v, m.prec)
				}
			}
		}
		for e := 0; e < endpoints; e++ {
			ep[e*3+c] = bc6hUnquantize(ep[e*3+c], m.prec, signed)
		}
	}

	ib := 4
	if m.regions == 2 {
		ib = 3
	}
	weights := bc7Weights(ib)
	for i := range blk {
		bits := ib
		if isAnchor(m.regions, part, i) {
			bits--
		}
		w := int32(weights[r.read(bits)])
		region := subsetOf(m.regions, part, i)
		for c := 0; c < 3; c++ {
			a, b := ep[region*6+c], ep[region*6+3+c]
			v := (a*(64-w) + b*w + 32) >> 6
			blk[i][c] = float16.Frombits(bc6hFinish(v, signed)).Float32()
		}
		blk[i][3] = 1
	}
}

//////////////////
// BC6H encoder //
//////////////////

// halfTarget maps a float onto the signed half-bit scale the finished
// interpolation produces.
func halfTarget(v float32, signed bool) float64 {
	if v != v {
		return 0
	}
	if !signed && v < 0 {
		v = 0
	}
	neg := v < 0
	if neg {
		v = -v
	}
	h := min(float16.Fromfloat32(v).Bits(), 0x7bff)
	if neg {
		return -float64(h)
	}
	return float64(h)
}

// bc6hQuantize picks the prec-bit endpoint whose finished value is closest
// to the half-bit target t.
func bc6hQuantize(t float64, prec int, signed bool) int32 {
	var guess float64
	lo, hi := int32(0), int32(1)<<prec-1
	if signed {
		guess = t * 32 / 31 * float64(int32(1)<<(prec-1)) / 32768
		hi = int32(1)<<(prec-1) - 1
		lo = -hi
	} else {
		guess = t * 64 / 31 * float64(int32(1)<<prec) / 65536
	}
	q := min(hi, max(lo, int32(math.Round(guess))))

	best, bestErr := q, math.MaxFloat64
	for c := q - 1; c <= q+1; c++ {
		if c < lo || c > hi {
			continue
		}
		h := bc6hFinish(bc6hUnquantize(c, prec, signed), signed)
		got := float64(h & 0x7fff)
		if h&0x8000 != 0 {
			got = -got
		}
		if e := math.Abs(got - t); e < bestErr {
			best, bestErr = c, e
		}
	}
	return best
}

// bc6hValue is the float an interpolated value decodes to.
func bc6hValue(v int32, signed bool) float64 {
	return float64(float16.Frombits(bc6hFinish(v, signed)).Float32())
}

// bc6hLinear clamps a texel channel to what the format can represent.
func bc6hLinear(v float32, signed bool) float64 {
	if v != v {
		return 0
	}
	if !signed {
		v = max(v, 0)
	}
	return float64(clampRange(v, -65504, 65504))
}

// bc6hEndpoint quantizes the linear value v to the nearest prec-bit code,
// then steps inward while the neighbouring code still decodes within
// [lo, hi].
func bc6hEndpoint(v, lo, hi float64, prec int, signed bool) int32 {
	q := bc6hQuantize(halfTarget(float32(v), signed), prec, signed)
	qlo, qhi := int32(0), int32(1)<<prec-1
	if signed {
		qhi = int32(1)<<(prec-1) - 1
		qlo = -qhi
	}
	val := func(q int32) float64 {
		return bc6hValue(bc6hUnquantize(q, prec, signed), signed)
	}
	for q > qlo && val(q) > hi && val(q-1) >= lo {
		q--
	}
	for q < qhi && val(q) < lo && val(q+1) <= hi {
		q++
	}
	return q
}

type bc6hFit struct {
	q   [2][3]int32
	idx [16]int
	err float64
}

// assign picks each texel's index against the decoded palette and sums the
// squared error in linear space.
func (f *bc6hFit) assign(targets *[16][4]float64, prec int, signed bool) {
	var palette [16][3]float64
	for k, wk := range bc7Weights4 {
		w := int32(wk)
		for c := range 3 {
			a := bc6hUnquantize(f.q[0][c], prec, signed)
			b := bc6hUnquantize(f.q[1][c], prec, signed)
			palette[k][c] = bc6hValue((a*(64-w)+b*w+32)>>6, signed)
		}
	}
	f.err = 0
	for i := range targets {
		best, bestErr := 0, math.MaxFloat64
		for k := range palette {
			e := 0.0
			for c := range 3 {
				d := palette[k][c] - targets[i][c]
				e += d * d
			}
			if e < bestErr {
				best, bestErr = k, e
			}
		}
		f.idx[i] = best
		f.err += bestErr
	}
}

func encodeBC6H(dst []byte, blk *Block, signed bool) {
	m := &bc6hModes[bc6hEncodeMode]

	var targets [16][4]float64
	pts := make([][4]float64, 16)
	lo := [3]float64{math.MaxFloat64, math.MaxFloat64, math.MaxFloat64}
	hi := [3]float64{-math.MaxFloat64, -math.MaxFloat64, -math.MaxFloat64}
	for i := range blk {
		for c := range 3 {
			v := bc6hLinear(blk[i][c], signed)
			targets[i][c] = v
			lo[c], hi[c] = min(lo[c], v), max(hi[c], v)
		}
		pts[i] = targets[i]
	}
	endpoints := func(e0, e1 [3]float64) bc6hFit {
		var fit bc6hFit
		for c := range 3 {
			fit.q[0][c] = bc6hEndpoint(min(hi[c], max(lo[c], e0[c])), lo[c], hi[c], m.prec, signed)
			fit.q[1][c] = bc6hEndpoint(min(hi[c], max(lo[c], e1[c])), lo[c], hi[c], m.prec, signed)
		}
		fit.assign(&targets, m.prec, signed)
		return fit
	}

	// 1. principal axis extremes, and the bounding box corners along it
	mean, dir := principalLine(pts, 3)
	tlo, thi := math.MaxFloat64, -math.MaxFloat64
	for _, p := range pts {
		t := 0.0
		for c := range 3 {
			t += (p[c] - mean[c]) * dir[c]
		}
		tlo, thi = math.Min(tlo, t), math.Max(thi, t)
	}
	var a0, a1, b0, b1 [3]float64
	for c := range 3 {
		a0[c], a1[c] = mean[c]+tlo*dir[c], mean[c]+thi*dir[c]
		b0[c], b1[c] = lo[c], hi[c]
		if dir[c] < 0 {
			b0[c], b1[c] = hi[c], lo[c]
		}
	}
	fit := endpoints(a0, a1)
	if alt := endpoints(b0, b1); alt.err < fit.err {
		fit = alt
	}

	// 2. least squares refinement on the chosen weights
	var aa, bb, ab float64
	var ax, bx [3]float64
	for i := range targets {
		t := float64(bc7Weights4[fit.idx[i]]) / 64
		a := 1 - t
		aa += a * a
		bb += t * t
		ab += a * t
		for c := range 3 {
			ax[c] += a * targets[i][c]
			bx[c] += t * targets[i][c]
		}
	}
	if det := aa*bb - ab*ab; math.Abs(det) > 1e-9 {
		var e0, e1 [3]float64
		for c := range 3 {
			e0[c] = (ax[c]*bb - bx[c]*ab) / det
			e1[c] = (bx[c]*aa - ax[c]*ab) / det
		}
		if alt := endpoints(e0, e1); alt.err < fit.err {
			fit = alt
		}
	}

	// 3. the anchor index must fit in three bits; weight 15-k mirrors k
	if fit.idx[0] >= 8 {
		fit.q[0], fit.q[1] = fit.q[1], fit.q[0]
		for i := range fit.idx {
			fit.idx[i] = 15 - fit.idx[i]
		}
	}
	var ep [12]int32
	mask := int32(1)<<m.prec - 1
	for c := range 3 {
		ep[c] = fit.q[0][c] & mask
		ep[3+c] = fit.q[1][c] & mask
	}

	var w bitWriter
	w.write(m.code, 5)
	for _, run := range m.layout {
		step := 1
		if run.to < run.from {
			step = -1
		}
		for bit := run.from; ; bit += step {
			w.write(uint32(ep[run.f]>>bit)&1, 1)
			if bit == run.to {
				break
			}
		}
	}
	for i, k := range fit.idx {
		bits := 4
		if i == 0 {
			bits = 3
		}
		w.write(uint32(k), bits)
	}
	copy(dst, w.b[:])
}
