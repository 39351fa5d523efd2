package bc

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erinpentecost/ddstex/internal/dxgi"
)

func squaredError(want *Block, got Block) float64 {
	sum := 0.0
	for i := range got {
		for c := range 4 {
			d := float64(want[i][c] - got[i][c])
			sum += d * d
		}
	}
	return sum
}

func TestBC7RandomBlocks(t *testing.T) {
	for _, tc := range []struct {
		name   string
		opaque bool
	}{
		{"opaque", true},
		{"translucent", false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			rng := rand.New(rand.NewPCG(5, 6))
			unorm := func() float32 { return float32(rng.IntN(256)) / 255 }
			for n := 0; n < 100; n++ {
				var blk Block
				for i := range blk {
					blk[i] = [4]float32{unorm(), unorm(), unorm(), 1}
					if !tc.opaque {
						blk[i][3] = unorm()
					}
				}

				full := roundTrip(t, dxgi.BC7_UNORM, &blk, FlagNone)
				quick := roundTrip(t, dxgi.BC7_UNORM, &blk, FlagBC7Quick)
				_, fullRMS := colourErrors(&blk, full, 4)
				_, quickRMS := colourErrors(&blk, quick, 4)
				require.Less(t, fullRMS, 0.3, "block %d", n)
				require.Less(t, quickRMS, 0.35, "block %d", n)

				// the full search starts from the quick candidate
				require.LessOrEqual(t, squaredError(&blk, full), squaredError(&blk, quick)+1e-6, "block %d", n)
			}
		})
	}
}

func TestBC7PlanarGradient(t *testing.T) {
	// red runs along x and green along y, so no single line fits the block
	var blk Block
	for i := range blk {
		x, y := float32(i%4), float32(i/4)
		blk[i] = [4]float32{x / 3, y / 3, (x + y) / 12, 1}
	}

	full := roundTrip(t, dxgi.BC7_UNORM, &blk, FlagNone)
	quick := roundTrip(t, dxgi.BC7_UNORM, &blk, FlagBC7Quick)
	fullWorst, fullRMS := colourErrors(&blk, full, 4)
	quickWorst, quickRMS := colourErrors(&blk, quick, 4)

	require.LessOrEqual(t, fullWorst, 0.2)
	require.LessOrEqual(t, quickWorst, 0.6)
	require.Less(t, fullRMS, quickRMS)
}

func TestBC7IndependentChannel(t *testing.T) {
	// red varies on its own, which a rotated mode 4 or 5 block keeps in the
	// separately indexed slot
	var blk Block
	for i := range blk {
		blk[i] = [4]float32{float32(i%4) / 3, float32(i/4) / 3, 0.5, 1}
	}

	full := roundTrip(t, dxgi.BC7_UNORM, &blk, FlagNone)
	worst, _ := colourErrors(&blk, full, 4)
	require.LessOrEqual(t, worst, 0.02)
}

func TestBC7RotationAndIndexSelection(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 8))
	var px [16][4]int
	for i := range px {
		for c := range 4 {
			px[i][c] = rng.IntN(256)
		}
	}

	for _, mode := range []int{4, 5} {
		for rot := 0; rot < 4; rot++ {
			rp := bc7Rotate(&px, rot)
			for isb := 0; isb <= bc7Modes[mode].isb; isb++ {
				c := bc7FitMode(&rp, mode, 0, isb)
				c.rot = rot
				dst := make([]byte, 16)
				bc7Pack(dst, &c)

				out, err := DecodeBlock(dxgi.BC7_UNORM, dst)
				require.NoError(t, err)
				sse := 0.0
				for i := range out {
					for ch := range 4 {
						d := math.Round(float64(out[i][ch])*255) - float64(px[i][ch])
						sse += d * d
					}
				}
				require.Equal(t, c.err, sse, "mode %d rotation %d isb %d", mode, rot, isb)
			}
		}
	}
}
