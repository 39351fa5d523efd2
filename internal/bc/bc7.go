package bc

import (
	"math"
	"sort"
)

type bc7Mode struct {
	ns  int // subsets
	pb  int // partition bits
	rb  int // rotation bits
	isb int // index selection bits
	cb  int // colour bits
	ab  int // alpha bits
	epb int // per-endpoint p-bit
	spb int // per-subset shared p-bit
	ib  int // primary index bits
	ib2 int // secondary index bits
}

var bc7Modes = [8]bc7Mode{
	{3, 4, 0, 0, 4, 0, 1, 0, 3, 0},
	{2, 6, 0, 0, 6, 0, 0, 1, 3, 0},
	{3, 6, 0, 0, 5, 0, 0, 0, 2, 0},
	{2, 6, 0, 0, 7, 0, 1, 0, 2, 0},
	{1, 0, 2, 1, 5, 6, 0, 0, 2, 3},
	{1, 0, 2, 0, 7, 8, 0, 0, 2, 2},
	{1, 0, 0, 0, 7, 7, 1, 0, 4, 0},
	{2, 6, 0, 0, 5, 5, 1, 0, 2, 0},
}

var (
	bc7Weights2 = []int{0, 21, 43, 64}
	bc7Weights3 = []int{0, 9, 18, 27, 37, 46, 55, 64}
	bc7Weights4 = []int{0, 4, 9, 13, 17, 21, 26, 30, 34, 38, 43, 47, 51, 55, 60, 64}
)

func bc7Weights(bits int) []int {
	switch bits {
	case 2:
		return bc7Weights2
	case 3:
		return bc7Weights3
	}
	return bc7Weights4
}

func bc7Interp(e0, e1, w int) int {
	return ((64-w)*e0 + w*e1 + 32) >> 6
}

// unquantize widens a bits-wide endpoint to 8 bits by replicating its top
// bits.
func unquantize(q, bits int) int {
	v := q << (8 - bits)
	return v | v>>bits
}

func decodeBC7(blk *Block, src []byte) {
	r := bitReader{b: src}
	mode := 0
	for mode < 8 && r.read(1) == 0 {
		mode++
	}
	if mode == 8 {
		// reserved mode
		*blk = Block{}
		return
	}
	m := &bc7Modes[mode]

	part := int(r.read(m.pb))
	rot := int(r.read(m.rb))
	isb := int(r.read(m.isb))

	var ep [3][2][4]int
	for c := 0; c < 3; c++ {
		for s := 0; s < m.ns; s++ {
			for e := 0; e < 2; e++ {
				ep[s][e][c] = int(r.read(m.cb))
			}
		}
	}
	if m.ab > 0 {
		for s := 0; s < m.ns; s++ {
			for e := 0; e < 2; e++ {
				ep[s][e][3] = int(r.read(m.ab))
			}
		}
	}

	var pbits [3][2]int
	switch {
	case m.epb > 0:
		for s := 0; s < m.ns; s++ {
			for e := 0; e < 2; e++ {
				pbits[s][e] = int(r.read(1))
			}
		}
	case m.spb > 0:
		for s := 0; s < m.ns; s++ {
			p := int(r.read(1))
			pbits[s] = [2]int{p, p}
		}
	}

	hasP := m.epb > 0 || m.spb > 0
	for s := 0; s < m.ns; s++ {
		for e := 0; e < 2; e++ {
			for c := 0; c < 4; c++ {
				bits := m.cb
				if c == 3 {
					bits = m.ab
				}
				if bits == 0 {
					ep[s][e][c] = 255
					continue
				}
				q := ep[s][e][c]
				if hasP {
					q = q<<1 | pbits[s][e]
					bits++
				}
				ep[s][e][c] = unquantize(q, bits)
			}
		}
	}

	var idx, idx2 [16]int
	for i := range idx {
		bits := m.ib
		if isAnchor(m.ns, part, i) {
			bits--
		}
		idx[i] = int(r.read(bits))
	}
	if m.ib2 > 0 {
		for i := range idx2 {
			bits := m.ib2
			if i == 0 {
				bits--
			}
			idx2[i] = int(r.read(bits))
		}
	}

	cw, aw := bc7Weights(m.ib), bc7Weights(m.ib)
	cidx, aidx := &idx, &idx
	if m.ib2 > 0 {
		if isb == 0 {
			aw, aidx = bc7Weights(m.ib2), &idx2
		} else {
			cw, cidx = bc7Weights(m.ib2), &idx2
			aw, aidx = bc7Weights(m.ib), &idx
		}
	}

	for i := range blk {
		s := subsetOf(m.ns, part, i)
		e0, e1 := ep[s][0], ep[s][1]
		var px [4]int
		for c := 0; c < 3; c++ {
			px[c] = bc7Interp(e0[c], e1[c], cw[cidx[i]])
		}
		px[3] = bc7Interp(e0[3], e1[3], aw[aidx[i]])

		switch rot {
		case 1:
			px[0], px[3] = px[3], px[0]
		case 2:
			px[1], px[3] = px[3], px[1]
		case 3:
			px[2], px[3] = px[3], px[2]
		}
		for c := range px {
			blk[i][c] = float32(px[c]) / 255
		}
	}
}

//////////////////
// BC7 encoder  //
//////////////////

// bc7Subset is the fitted state of one subset: quantized endpoints, their
// p-bits, the 8-bit values they decode to and the texel indices.
type bc7Subset struct {
	q   [2][4]int
	p   [2]int
	val [2][4]int
}

type bc7Candidate struct {
	mode int
	part int
	rot  int
	isb  int
	sub  [3]bc7Subset
	idx  [16]int
	idx2 [16]int
	err  float64
}

func encodeBC7(dst []byte, blk *Block, flags Flags) {
	var px [16][4]int
	opaque := true
	for i := range blk {
		for c := 0; c < 4; c++ {
			px[i][c] = int(math.Round(float64(clamp01(blk[i][c]) * 255)))
		}
		if px[i][3] != 255 {
			opaque = false
		}
	}

	best := bc7Candidate{err: math.MaxFloat64}
	try := func(c bc7Candidate) {
		if c.err < best.err {
			best = c
		}
	}

	try(bc7FitMode(&px, 6, 0, 0))
	if flags&FlagBC7Quick == 0 && best.err > 0 {
		for _, mode := range []int{5, 4} {
			for rot := 0; rot < 4; rot++ {
				rp := bc7Rotate(&px, rot)
				for isb := 0; isb <= bc7Modes[mode].isb; isb++ {
					c := bc7FitMode(&rp, mode, 0, isb)
					c.rot = rot
					try(c)
				}
			}
		}
		multi := []int{7}
		if opaque {
			multi = []int{1, 3, 0, 2}
		}
		for _, mode := range multi {
			for _, part := range bc7RankPartitions(&px, mode) {
				try(bc7FitMode(&px, mode, part, 0))
			}
		}
	}

	bc7Pack(dst, &best)
}

// bc7Rotate swaps channel rot-1 into the alpha slot, the inverse of the
// decoder's rotation.
func bc7Rotate(px *[16][4]int, rot int) [16][4]int {
	out := *px
	if rot == 0 {
		return out
	}
	for i := range out {
		out[i][rot-1], out[i][3] = out[i][3], out[i][rot-1]
	}
	return out
}

// bc7RankPartitions returns the few partitions of a multi-subset mode whose
// subsets lie closest to straight lines.
func bc7RankPartitions(px *[16][4]int, mode int) []int {
	m := &bc7Modes[mode]
	count := 1 << m.pb
	nch := 3
	if m.ab > 0 {
		nch = 4
	}

	type ranked struct {
		part int
		err  float64
	}
	all := make([]ranked, count)
	for part := 0; part < count; part++ {
		e := 0.0
		for s := 0; s < m.ns; s++ {
			var pts [][4]float64
			for i := range px {
				if subsetOf(m.ns, part, i) == s {
					pts = append(pts, toFloat4(px[i]))
				}
			}
			e += lineResidual(pts, nch)
		}
		all[part] = ranked{part, e}
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].err < all[j].err })

	out := make([]int, 0, 4)
	for _, r := range all[:min(4, len(all))] {
		out = append(out, r.part)
	}
	return out
}

func toFloat4(p [4]int) [4]float64 {
	return [4]float64{float64(p[0]), float64(p[1]), float64(p[2]), float64(p[3])}
}

// principalLine returns the centroid and dominant direction of pts.
func principalLine(pts [][4]float64, nch int) ([4]float64, [4]float64) {
	var mean [4]float64
	for _, p := range pts {
		for c := 0; c < nch; c++ {
			mean[c] += p[c]
		}
	}
	for c := 0; c < nch; c++ {
		mean[c] /= float64(len(pts))
	}

	var cov [4][4]float64
	for _, p := range pts {
		for a := 0; a < nch; a++ {
			for b := 0; b < nch; b++ {
				cov[a][b] += (p[a] - mean[a]) * (p[b] - mean[b])
			}
		}
	}

	var dir [4]float64
	for c := 0; c < nch; c++ {
		dir[c] = 1
	}
	for it := 0; it < 8; it++ {
		var next [4]float64
		l := 0.0
		for a := 0; a < nch; a++ {
			for b := 0; b < nch; b++ {
				next[a] += cov[a][b] * dir[b]
			}
			l += next[a] * next[a]
		}
		if l == 0 {
			break
		}
		l = math.Sqrt(l)
		for a := 0; a < nch; a++ {
			dir[a] = next[a] / l
		}
	}
	l := 0.0
	for c := 0; c < nch; c++ {
		l += dir[c] * dir[c]
	}
	if l > 0 {
		l = math.Sqrt(l)
		for c := 0; c < nch; c++ {
			dir[c] /= l
		}
	}
	return mean, dir
}

// lineResidual is the squared distance of pts from their principal line.
func lineResidual(pts [][4]float64, nch int) float64 {
	if len(pts) < 2 {
		return 0
	}
	mean, dir := principalLine(pts, nch)
	e := 0.0
	for _, p := range pts {
		var d [4]float64
		t := 0.0
		for c := 0; c < nch; c++ {
			d[c] = p[c] - mean[c]
			t += d[c] * dir[c]
		}
		for c := 0; c < nch; c++ {
			r := d[c] - t*dir[c]
			e += r * r
		}
	}
	return e
}

// bc7Channels returns which channels a mode's primary indices cover.
func bc7Channels(m *bc7Mode) []int {
	if m.ab > 0 && m.ib2 == 0 {
		return []int{0, 1, 2, 3}
	}
	return []int{0, 1, 2}
}

// bc7Quantize finds the closest bits-wide code for the 8-bit value v, with
// p appended as the low bit when hasP is set.
func bc7Quantize(v float64, bits, p int, hasP bool) (int, int) {
	v = math.Max(0, math.Min(255, v))
	top := 1<<bits - 1
	decode := func(c int) int { return unquantize(c, bits) }
	q := int(math.Round(v * float64(top) / 255))
	if hasP {
		full := float64(int(1)<<(bits+1) - 1)
		decode = func(c int) int { return unquantize(c<<1|p, bits+1) }
		q = int(math.Round((v*full/255 - float64(p)) / 2))
	}
	q = min(top, max(0, q))

	best, bestErr := q, math.MaxFloat64
	for c := q - 1; c <= q+1; c++ {
		if c < 0 || c > top {
			continue
		}
		if e := math.Abs(float64(decode(c)) - v); e < bestErr {
			best, bestErr = c, e
		}
	}
	return best, decode(best)
}

// quantizeEndpoint quantizes the given channels of one endpoint with p-bit p.
func quantizeEndpoint(m *bc7Mode, v [4]float64, chans []int, p int, out *bc7Subset, e int) float64 {
	hasP := m.epb > 0 || m.spb > 0
	errSum := 0.0
	for _, c := range chans {
		bits := m.cb
		if c == 3 {
			bits = m.ab
		}
		q, u := bc7Quantize(v[c], bits, p, hasP)
		out.q[e][c] = q
		out.val[e][c] = u
		d := float64(u) - v[c]
		errSum += d * d
	}
	return errSum
}

// quantizeSubset quantizes a pair of float endpoints, searching p-bits.
func quantizeSubset(m *bc7Mode, e0, e1 [4]float64, chans []int) bc7Subset {
	var s bc7Subset
	switch {
	case m.epb > 0:
		for e, v := range [2][4]float64{e0, e1} {
			var a, b bc7Subset
			ea := quantizeEndpoint(m, v, chans, 0, &a, e)
			eb := quantizeEndpoint(m, v, chans, 1, &b, e)
			src, p := a, 0
			if eb < ea {
				src, p = b, 1
			}
			s.q[e], s.val[e], s.p[e] = src.q[e], src.val[e], p
		}
	case m.spb > 0:
		var a, b bc7Subset
		ea := quantizeEndpoint(m, e0, chans, 0, &a, 0) + quantizeEndpoint(m, e1, chans, 0, &a, 1)
		eb := quantizeEndpoint(m, e0, chans, 1, &b, 0) + quantizeEndpoint(m, e1, chans, 1, &b, 1)
		s = a
		if eb < ea {
			s = b
			s.p = [2]int{1, 1}
		}
	default:
		quantizeEndpoint(m, e0, chans, 0, &s, 0)
		quantizeEndpoint(m, e1, chans, 0, &s, 1)
	}
	return s
}

// assignIndices picks the nearest palette entry for each texel of members
// and returns the squared error over chans.
func assignIndices(px *[16][4]int, members []int, s *bc7Subset, chans []int, bits int, idx *[16]int) float64 {
	w := bc7Weights(bits)
	total := 0.0
	for _, i := range members {
		best, bestErr := 0, math.MaxFloat64
		for k, wk := range w {
			e := 0.0
			for _, c := range chans {
				d := float64(bc7Interp(s.val[0][c], s.val[1][c], wk) - px[i][c])
				e += d * d
			}
			if e < bestErr {
				best, bestErr = k, e
			}
		}
		idx[i] = best
		total += bestErr
	}
	return total
}

// refineEndpoints solves the least squares endpoints for fixed indices.
func refineEndpoints(px *[16][4]int, members []int, idx *[16]int, bits int, chans []int) ([4]float64, [4]float64, bool) {
	w := bc7Weights(bits)
	var aa, bb, ab float64
	var ax, bx [4]float64
	for _, i := range members {
		t := float64(w[idx[i]]) / 64
		a := 1 - t
		aa += a * a
		bb += t * t
		ab += a * t
		for _, c := range chans {
			ax[c] += a * float64(px[i][c])
			bx[c] += t * float64(px[i][c])
		}
	}
	det := aa*bb - ab*ab
	if math.Abs(det) < 1e-9 {
		return ax, bx, false
	}
	var e0, e1 [4]float64
	for _, c := range chans {
		e0[c] = (ax[c]*bb - bx[c]*ab) / det
		e1[c] = (bx[c]*aa - ax[c]*ab) / det
	}
	return e0, e1, true
}

// fitSubset fits endpoints and indices for the texels in members.
func fitSubset(px *[16][4]int, members []int, m *bc7Mode, chans []int, bits int, idx *[16]int) (bc7Subset, float64) {
	pts := make([][4]float64, len(members))
	for k, i := range members {
		pts[k] = toFloat4(px[i])
	}

	var e0, e1 [4]float64
	if len(pts) > 0 {
		if len(chans) == 1 {
			// alpha only
			lo, hi := 255.0, 0.0
			for _, p := range pts {
				lo, hi = math.Min(lo, p[3]), math.Max(hi, p[3])
			}
			e0[3], e1[3] = lo, hi
		} else {
			mean, dir := principalLine(pts, len(chans))
			lo, hi := math.MaxFloat64, -math.MaxFloat64
			for _, p := range pts {
				t := 0.0
				for _, c := range chans {
					t += (p[c] - mean[c]) * dir[c]
				}
				lo, hi = math.Min(lo, t), math.Max(hi, t)
			}
			for _, c := range chans {
				e0[c] = mean[c] + lo*dir[c]
				e1[c] = mean[c] + hi*dir[c]
			}
		}
	}

	s := quantizeSubset(m, e0, e1, chans)
	err := assignIndices(px, members, &s, chans, bits, idx)

	if r0, r1, ok := refineEndpoints(px, members, idx, bits, chans); ok {
		rs := quantizeSubset(m, r0, r1, chans)
		var ridx [16]int
		if rerr := assignIndices(px, members, &rs, chans, bits, &ridx); rerr < err {
			s, err = rs, rerr
			for _, i := range members {
				idx[i] = ridx[i]
			}
		}
	}
	return s, err
}

// bc7FitMode encodes px with one mode and partition. isb set swaps which
// index set drives colour and which drives alpha.
func bc7FitMode(px *[16][4]int, mode, part, isb int) bc7Candidate {
	m := &bc7Modes[mode]
	c := bc7Candidate{mode: mode, part: part, isb: isb}
	chans := bc7Channels(m)
	cbits, cidx, abits, aidx := m.ib, &c.idx, m.ib2, &c.idx2
	if isb == 1 {
		cbits, cidx, abits, aidx = m.ib2, &c.idx2, m.ib, &c.idx
	}

	for s := 0; s < m.ns; s++ {
		var members []int
		for i := range px {
			if subsetOf(m.ns, part, i) == s {
				members = append(members, i)
			}
		}
		sub, err := fitSubset(px, members, m, chans, cbits, cidx)
		c.sub[s] = sub
		c.err += err
		bc7FixAnchor(&c.sub[s], cidx, members, anchorOf(m.ns, part, s), cbits, chans)
	}

	if m.ib2 > 0 {
		// alpha gets its own index set
		all := make([]int, 16)
		for i := range all {
			all[i] = i
		}
		alpha := []int{3}
		sub, err := fitSubset(px, all, m, alpha, abits, aidx)
		c.sub[0].q[0][3], c.sub[0].q[1][3] = sub.q[0][3], sub.q[1][3]
		c.sub[0].val[0][3], c.sub[0].val[1][3] = sub.val[0][3], sub.val[1][3]
		c.err += err
		bc7FixAnchor(&c.sub[0], aidx, all, 0, abits, alpha)
	} else if m.ab == 0 {
		// modes without alpha decode it as 255
		for i := range px {
			d := float64(255 - px[i][3])
			c.err += d * d
		}
	}
	return c
}

// bc7FixAnchor makes the anchor texel's index fit in one bit less by
// swapping the endpoints of chans and mirroring the indices.
func bc7FixAnchor(s *bc7Subset, idx *[16]int, members []int, anchor, bits int, chans []int) {
	half := 1 << (bits - 1)
	if idx[anchor] < half {
		return
	}
	for _, c := range chans {
		s.q[0][c], s.q[1][c] = s.q[1][c], s.q[0][c]
		s.val[0][c], s.val[1][c] = s.val[1][c], s.val[0][c]
	}
	if len(chans) > 1 || chans[0] != 3 {
		s.p[0], s.p[1] = s.p[1], s.p[0]
	}
	top := 1<<bits - 1
	for _, i := range members {
		idx[i] = top - idx[i]
	}
}

func bc7Pack(dst []byte, c *bc7Candidate) {
	m := &bc7Modes[c.mode]
	var w bitWriter
	w.write(1<<c.mode, c.mode+1)
	w.write(uint32(c.part), m.pb)
	w.write(uint32(c.rot), m.rb)
	w.write(uint32(c.isb), m.isb)

	for ch := 0; ch < 3; ch++ {
		for s := 0; s < m.ns; s++ {
			for e := 0; e < 2; e++ {
				w.write(uint32(c.sub[s].q[e][ch]), m.cb)
			}
		}
	}
	if m.ab > 0 {
		for s := 0; s < m.ns; s++ {
			for e := 0; e < 2; e++ {
				w.write(uint32(c.sub[s].q[e][3]), m.ab)
			}
		}
	}
	switch {
	case m.epb > 0:
		for s := 0; s < m.ns; s++ {
			for e := 0; e < 2; e++ {
				w.write(uint32(c.sub[s].p[e]), 1)
			}
		}
	case m.spb > 0:
		for s := 0; s < m.ns; s++ {
			w.write(uint32(c.sub[s].p[0]), 1)
		}
	}

	for i := 0; i < 16; i++ {
		bits := m.ib
		if isAnchor(m.ns, c.part, i) {
			bits--
		}
		w.write(uint32(c.idx[i]), bits)
	}
	if m.ib2 > 0 {
		for i := 0; i < 16; i++ {
			bits := m.ib2
			if i == 0 {
				bits--
			}
			w.write(uint32(c.idx2[i]), bits)
		}
	}
	copy(dst, w.b[:])
}
