package bc

// bitReader reads little-endian bit fields from a 16-byte block, lowest
// bit first.
type bitReader struct {
	b   []byte
	pos int
}

func (r *bitReader) read(n int) uint32 {
	var v uint32
	for i := 0; i < n; i++ {
		if r.pos < 128 {
			v |= uint32(r.b[r.pos>>3]>>(r.pos&7)&1) << i
		}
		r.pos++
	}
	return v
}

// bit returns the value of the bit at position p without moving the cursor.
func (r *bitReader) bit(p int) uint32 {
	return uint32(r.b[p>>3] >> (p & 7) & 1)
}

type bitWriter struct {
	b   [16]byte
	pos int
}

func (w *bitWriter) write(v uint32, n int) {
	for i := 0; i < n; i++ {
		if w.pos < 128 {
			w.b[w.pos>>3] |= byte(v>>i&1) << (w.pos & 7)
		}
		w.pos++
	}
}
