package dxgi

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBitsPerPixel(t *testing.T) {
	for f, want := range map[Format]int{
		R32G32B32A32_FLOAT: 128,
		R32G32B32_FLOAT:    96,
		R16G16B16A16_FLOAT: 64,
		R8G8B8A8_UNORM:     32,
		B5G6R5_UNORM:       16,
		NV12:               12,
		A8_UNORM:           8,
		BC1_UNORM:          4,
		BC7_UNORM:          8,
		R1_UNORM:           1,
		UNKNOWN:            0,
		Format(500):        0,
	} {
		require.Equal(t, want, BitsPerPixel(f), f.String())
	}
}

func TestClassPredicates(t *testing.T) {
	require.True(t, IsCompressed(BC6H_SF16))
	require.False(t, IsCompressed(R8G8B8A8_UNORM))
	require.Equal(t, 8, BytesPerBlock(BC4_SNORM))
	require.Equal(t, 16, BytesPerBlock(BC5_UNORM))
	require.Equal(t, 0, BytesPerBlock(R8_UNORM))

	require.True(t, IsPacked(YUY2))
	require.True(t, IsPlanar(NV12))
	require.Equal(t, 2, PlaneCount(P010))
	require.Equal(t, 1, PlaneCount(BC1_UNORM))

	require.True(t, IsPalettized(A8P8))
	require.False(t, IsValid(UNKNOWN))
	require.False(t, IsValid(Format(116)))
	require.True(t, IsValid(B4G4R4A4_UNORM))
}

func TestPromoteTypeless(t *testing.T) {
	require.Equal(t, BC1_UNORM, PromoteTypeless(BC1_TYPELESS))
	require.Equal(t, BC6H_UF16, PromoteTypeless(BC6H_TYPELESS))
	require.Equal(t, BC7_UNORM, PromoteTypeless(BC7_TYPELESS))
	require.Equal(t, R8G8B8A8_UNORM, PromoteTypeless(R8G8B8A8_UNORM))
}

func TestParse(t *testing.T) {
	f, ok := Parse("DXGI_FORMAT_BC3_UNORM")
	require.True(t, ok)
	require.Equal(t, BC3_UNORM, f)

	f, ok = Parse("420_opaque")
	require.True(t, ok)
	require.Equal(t, OPAQUE_420, f)

	_, ok = Parse("nope")
	require.False(t, ok)
	require.Equal(t, "FORMAT(500)", Format(500).String())
}
