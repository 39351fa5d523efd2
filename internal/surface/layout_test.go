package surface

import (
	"errors"
	"math"
	"testing"

	"github.com/erinpentecost/ddstex/internal/dxgi"
	"github.com/erinpentecost/ddstex/internal/texerr"
	"github.com/stretchr/testify/require"
)

func TestBC1RowPitch(t *testing.T) {
	for _, tc := range []struct {
		width, pitch int
	}{
		{1, 8},
		{4, 8},
		{5, 16},
		{8, 16},
		{9, 24},
	} {
		l, err := ComputeLayout(tc.width, 4, dxgi.BC1_UNORM, FlagNone)
		require.NoError(t, err)
		require.EqualValues(t, tc.pitch, l.RowPitch, "width %d", tc.width)
		require.EqualValues(t, 1, l.RowCount)
		require.EqualValues(t, tc.pitch, l.TotalBytes)
	}
}

func TestBlockCompressedSizes(t *testing.T) {
	l, err := ComputeLayout(16, 16, dxgi.BC7_UNORM, FlagNone)
	require.NoError(t, err)
	require.Equal(t, Layout{TotalBytes: 256, RowPitch: 64, RowCount: 4}, l)

	l, err = ComputeLayout(1, 1, dxgi.BC4_SNORM, FlagNone)
	require.NoError(t, err)
	require.Equal(t, Layout{TotalBytes: 8, RowPitch: 8, RowCount: 1}, l)
}

func TestUncompressedAdditivity(t *testing.T) {
	for _, f := range []dxgi.Format{
		dxgi.R8G8B8A8_UNORM, dxgi.R32G32B32_FLOAT, dxgi.B5G6R5_UNORM, dxgi.R8_UNORM, dxgi.R1_UNORM,
	} {
		for _, size := range [][2]int{{1, 1}, {7, 3}, {33, 17}, {256, 128}} {
			l, err := ComputeLayout(size[0], size[1], f, FlagNone)
			require.NoError(t, err)
			require.Equal(t, l.RowPitch*uint64(size[1]), l.TotalBytes, "%s %v", f, size)
			require.EqualValues(t, size[1], l.RowCount)
		}
	}

	l, err := ComputeLayout(3, 1, dxgi.R1_UNORM, FlagNone)
	require.NoError(t, err)
	require.EqualValues(t, 1, l.RowPitch)
}

func TestPackedAndPlanar(t *testing.T) {
	l, err := ComputeLayout(5, 2, dxgi.YUY2, FlagNone)
	require.NoError(t, err)
	require.Equal(t, Layout{TotalBytes: 24, RowPitch: 12, RowCount: 2}, l)

	l, err = ComputeLayout(5, 2, dxgi.Y216, FlagNone)
	require.NoError(t, err)
	require.EqualValues(t, 24, l.RowPitch)

	l, err = ComputeLayout(6, 4, dxgi.NV12, FlagNone)
	require.NoError(t, err)
	require.Equal(t, Layout{TotalBytes: 36, RowPitch: 6, RowCount: 6}, l)

	l, err = ComputeLayout(6, 4, dxgi.P010, FlagNone)
	require.NoError(t, err)
	require.Equal(t, Layout{TotalBytes: 72, RowPitch: 12, RowCount: 6}, l)

	_, err = ComputeLayout(6, 3, dxgi.NV12, FlagNone)
	require.ErrorIs(t, err, texerr.ErrInvalidArgument)

	l, err = ComputeLayout(6, 3, dxgi.NV11, FlagNone)
	require.NoError(t, err)
	require.Equal(t, Layout{TotalBytes: 48, RowPitch: 8, RowCount: 6}, l)
}

func TestPitchFlags(t *testing.T) {
	l, err := ComputeLayout(3, 2, dxgi.R8G8B8A8_UNORM, Flag24BPP)
	require.NoError(t, err)
	require.EqualValues(t, 9, l.RowPitch)

	l, err = ComputeLayout(3, 2, dxgi.R8G8B8A8_UNORM, Flag24BPP|FlagLegacyDWORD)
	require.NoError(t, err)
	require.EqualValues(t, 12, l.RowPitch)
	require.EqualValues(t, 24, l.TotalBytes)

	l, err = ComputeLayout(3, 1, dxgi.R8_UNORM, FlagParagraph)
	require.NoError(t, err)
	require.EqualValues(t, 16, l.RowPitch)

	l, err = ComputeLayout(3, 1, dxgi.R8_UNORM, FlagPage4K)
	require.NoError(t, err)
	require.EqualValues(t, 4096, l.RowPitch)
}

func TestUnknownFormat(t *testing.T) {
	_, err := ComputeLayout(4, 4, dxgi.UNKNOWN, FlagNone)
	require.True(t, errors.Is(err, texerr.ErrInvalidArgument))

	_, err = ComputeLayout(-1, 4, dxgi.R8_UNORM, FlagNone)
	require.ErrorIs(t, err, texerr.ErrInvalidArgument)
}

func TestOverflowBoundary(t *testing.T) {
	// 65537 * 65535 == 2^32 - 1
	l, err := ComputeLayout(65537, 65535, dxgi.R8_UNORM, FlagLimit32)
	require.NoError(t, err)
	require.EqualValues(t, uint64(1<<32-1), l.TotalBytes)

	_, err = ComputeLayout(65536, 65536, dxgi.R8_UNORM, FlagLimit32)
	require.ErrorIs(t, err, texerr.ErrArithmeticOverflow)

	_, err = ComputeLayout(math.MaxInt, 2, dxgi.R32G32B32A32_FLOAT, FlagNone)
	require.ErrorIs(t, err, texerr.ErrArithmeticOverflow)
}

func TestMipDimension(t *testing.T) {
	require.Equal(t, 8, MipDimension(16))
	require.Equal(t, 1, MipDimension(1))
	require.Equal(t, 2, MipDimension(5))
}
