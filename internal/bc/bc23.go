package bc

import (
	"encoding/binary"
	"math"
)

// BC2 stores alpha as sixteen explicit 4-bit values ahead of the colour
// block. BC3 reuses the single channel block for alpha.

func decodeExplicitAlpha(blk *Block, src []byte) {
	bits := binary.LittleEndian.Uint64(src)
	for i := range blk {
		blk[i][3] = float32(bits>>(4*i)&0xf) / 15
	}
}

func encodeExplicitAlpha(dst []byte, blk *Block, flags Flags) {
	var errs [16]float32
	var bits uint64
	for i := range blk {
		a := clamp01(blk[i][3] + errs[i])
		q := uint64(math.Round(float64(a * 15)))
		if flags&FlagDitherA != 0 {
			diffuse(&errs, i, a-float32(q)/15)
		}
		bits |= q << (4 * i)
	}
	binary.LittleEndian.PutUint64(dst, bits)
}
