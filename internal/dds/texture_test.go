package dds

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erinpentecost/ddstex/internal/bc"
	"github.com/erinpentecost/ddstex/internal/dxgi"
	"github.com/erinpentecost/ddstex/internal/texerr"
)

func TestLoadSingleBC1Block(t *testing.T) {
	data := buildDDS(legacyHeader(4, 4, pfDXT1), nil, make([]byte, 8))
	require.Len(t, data, 136)

	tex, err := Load(data, FlagNone, 0)
	require.NoError(t, err)
	require.Equal(t, dxgi.BC1_UNORM, tex.Format)
	require.Equal(t, 0, tex.Skipped)
	require.Equal(t, []Subresource{{
		Offset:     0,
		RowPitch:   8,
		SlicePitch: 8,
		Width:      4,
		Height:     4,
		Depth:      1,
	}}, tex.Subresources)

	_, err = Load(data[:132], FlagNone, 0)
	require.ErrorIs(t, err, texerr.ErrUnexpectedEndOfData)
}

func TestLoadClampsMips(t *testing.T) {
	hdr := legacyHeader(16, 16, pfA8B8G8R8)
	hdr.Flags |= DDSD_MIPMAPCOUNT
	hdr.MipMapCount = 5
	data := buildDDS(hdr, nil, make([]byte, 1024+256+64+16+4))

	tex, err := Load(data, FlagNone, 8)
	require.NoError(t, err)
	require.Equal(t, 1, tex.Skipped)
	require.Len(t, tex.Subresources, 4)
	require.Equal(t, 1024, tex.Subresources[0].Offset)
	require.Equal(t, 8, tex.Subresources[0].Width)
	require.Equal(t, 32, tex.Subresources[0].RowPitch)
	require.Equal(t, 1360, tex.Subresources[3].Offset)

	tex, err = Load(data, FlagNone, 0)
	require.NoError(t, err)
	require.Len(t, tex.Subresources, 5)

	// two mips, both larger than the clamp
	md := tex.Metadata
	md.MipLevels = 2
	_, _, err = BuildLayouts(tex.Pixels, md, 4)
	require.ErrorIs(t, err, texerr.ErrFail)
}

func TestBuildLayoutsArrays(t *testing.T) {
	md := Metadata{Width: 4, Height: 4, Depth: 1, ArraySize: 6, MipLevels: 2, Format: dxgi.BC1_UNORM, Dimension: Texture2D, MiscFlags: MiscTextureCube}
	subs, skipped, err := BuildLayouts(make([]byte, 6*16), md, 0)
	require.NoError(t, err)
	require.Equal(t, 0, skipped)
	require.Len(t, subs, 12)
	for i, s := range subs {
		require.Equal(t, i/2, s.Item)
		require.Equal(t, i%2, s.Mip)
		require.Equal(t, i*8, s.Offset)
	}

	_, _, err = BuildLayouts(make([]byte, 6*16-1), md, 0)
	require.ErrorIs(t, err, texerr.ErrUnexpectedEndOfData)
}

func TestBuildLayoutsVolume(t *testing.T) {
	md := Metadata{Width: 4, Height: 4, Depth: 4, ArraySize: 1, MipLevels: 2, Format: dxgi.R8G8B8A8_UNORM, Dimension: Texture3D}
	subs, _, err := BuildLayouts(make([]byte, 4*64+2*16), md, 0)
	require.NoError(t, err)
	require.Len(t, subs, 2)
	require.Equal(t, Subresource{RowPitch: 16, SlicePitch: 64, Width: 4, Height: 4, Depth: 4}, subs[0])
	require.Equal(t, Subresource{Offset: 256, RowPitch: 8, SlicePitch: 16, Width: 2, Height: 2, Depth: 2, Mip: 1}, subs[1])
}

func TestBuildLayoutsPlanar(t *testing.T) {
	md := Metadata{Width: 4, Height: 4, Depth: 1, ArraySize: 1, MipLevels: 1, Format: dxgi.NV12, Dimension: Texture2D}
	subs, _, err := BuildLayouts(make([]byte, 24), md, 0)
	require.NoError(t, err)
	require.Len(t, subs, 2)
	require.Equal(t, Subresource{RowPitch: 4, SlicePitch: 16, Width: 4, Height: 4, Depth: 1}, subs[0])
	require.Equal(t, Subresource{Offset: 16, RowPitch: 4, SlicePitch: 8, Width: 4, Height: 4, Depth: 1, Plane: 1}, subs[1])
}

func TestBuildLayoutsRejectsEmptyDimensions(t *testing.T) {
	valid := Metadata{Width: 4, Height: 4, Depth: 1, ArraySize: 1, MipLevels: 1, Format: dxgi.R8G8B8A8_UNORM, Dimension: Texture2D}
	for _, tc := range []struct {
		name string
		edit func(*Metadata)
	}{
		{"width", func(m *Metadata) { m.Width = 0 }},
		{"height", func(m *Metadata) { m.Height = 0 }},
		{"depth", func(m *Metadata) { m.Depth = 0 }},
		{"array size", func(m *Metadata) { m.ArraySize = 0 }},
		{"mip levels", func(m *Metadata) { m.MipLevels = 0 }},
		{"negative depth", func(m *Metadata) { m.Depth = -1 }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			md := valid
			tc.edit(&md)
			require.NotPanics(t, func() {
				_, _, err := BuildLayouts(make([]byte, 64), md, 0)
				require.ErrorIs(t, err, texerr.ErrInvalidArgument)
			})
		})
	}

	_, _, err := BuildLayouts(make([]byte, 64), valid, 0)
	require.NoError(t, err)
}

func TestLoadLegacyConversions(t *testing.T) {
	t.Run("R8G8B8", func(t *testing.T) {
		data := buildDDS(legacyHeader(2, 1, pfR8G8B8), nil, []byte{0x10, 0x20, 0x30, 0x40, 0x50, 0x60})
		tex, err := Load(data, FlagNone, 0)
		require.NoError(t, err)
		require.Equal(t, dxgi.R8G8B8A8_UNORM, tex.Format)
		require.Equal(t, AlphaOpaque, tex.AlphaMode())
		require.Equal(t, []byte{0x30, 0x20, 0x10, 0xff, 0x60, 0x50, 0x40, 0xff}, tex.Pixels)
	})

	t.Run("L8 kept", func(t *testing.T) {
		data := buildDDS(legacyHeader(2, 1, pfL8), nil, []byte{0x11, 0x22})
		tex, err := Load(data, FlagNone, 0)
		require.NoError(t, err)
		require.Equal(t, dxgi.R8_UNORM, tex.Format)
		require.Equal(t, []byte{0x11, 0x22}, tex.Pixels)
	})

	t.Run("L8 expanded", func(t *testing.T) {
		data := buildDDS(legacyHeader(2, 1, pfL8), nil, []byte{0x11, 0x22})
		tex, err := Load(data, FlagExpandLuminance, 0)
		require.NoError(t, err)
		require.Equal(t, dxgi.R8G8B8A8_UNORM, tex.Format)
		require.Equal(t, []byte{0x11, 0x11, 0x11, 0xff, 0x22, 0x22, 0x22, 0xff}, tex.Pixels)
	})

	t.Run("A8L8 expanded", func(t *testing.T) {
		data := buildDDS(legacyHeader(1, 1, pfA8L8), nil, []byte{0x40, 0x80})
		tex, err := Load(data, FlagExpandLuminance, 0)
		require.NoError(t, err)
		require.Equal(t, []byte{0x40, 0x40, 0x40, 0x80}, tex.Pixels)
	})

	t.Run("X8B8G8R8 alpha fill", func(t *testing.T) {
		data := buildDDS(legacyHeader(1, 1, pfX8B8G8R8), nil, []byte{1, 2, 3, 0})
		tex, err := Load(data, FlagNone, 0)
		require.NoError(t, err)
		require.Equal(t, []byte{1, 2, 3, 0xff}, tex.Pixels)
	})

	t.Run("R10 swizzle", func(t *testing.T) {
		// red in the low ten bits as D3DX wrote it, read back as blue
		data := buildDDS(legacyHeader(1, 1, pfA2R10G10B10), nil, []byte{0xff, 0x03, 0x00, 0x00})
		tex, err := Load(data, FlagNone, 0)
		require.NoError(t, err)
		require.Equal(t, []byte{0x00, 0x00, 0xf0, 0x3f}, tex.Pixels)

		tex, err = Load(data, FlagNoR10B10G10A2Fixup, 0)
		require.NoError(t, err)
		require.Equal(t, []byte{0xff, 0x03, 0x00, 0x00}, tex.Pixels)
	})

	t.Run("565 widened", func(t *testing.T) {
		data := buildDDS(legacyHeader(1, 1, pfR5G6B5), nil, []byte{0x00, 0xf8})
		tex, err := Load(data, FlagNo16BPP, 0)
		require.NoError(t, err)
		require.Equal(t, []byte{0xff, 0x00, 0x00, 0xff}, tex.Pixels)
	})

	t.Run("DWORD aligned rows", func(t *testing.T) {
		data := buildDDS(legacyHeader(3, 2, pfL8), nil, []byte{1, 2, 3, 0, 4, 5, 6, 0})
		tex, err := Load(data, FlagLegacyDWORD, 0)
		require.NoError(t, err)
		require.Equal(t, []byte{1, 2, 3, 4, 5, 6}, tex.Pixels)
	})

	t.Run("truncated", func(t *testing.T) {
		data := buildDDS(legacyHeader(2, 2, pfR8G8B8), nil, make([]byte, 9))
		_, err := Load(data, FlagNone, 0)
		require.ErrorIs(t, err, texerr.ErrUnexpectedEndOfData)
	})
}

func TestSaveLoadRoundTrip(t *testing.T) {
	md := Metadata{Width: 4, Height: 4, Depth: 1, ArraySize: 1, MipLevels: 3, Format: dxgi.R8G8B8A8_UNORM, Dimension: Texture2D}
	size, err := PixelSize(md)
	require.NoError(t, err)
	require.Equal(t, 64+16+4, size)

	pixels := make([]byte, size)
	for i := range pixels {
		pixels[i] = byte(i)
	}

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, md, pixels, FlagNone))
	require.Equal(t, 4+HeaderSize+size, buf.Len())

	tex, err := Load(buf.Bytes(), FlagNone, 0)
	require.NoError(t, err)
	require.Equal(t, md, tex.Metadata)
	require.Equal(t, pixels, tex.Pixels)
	require.Len(t, tex.Subresources, 3)

	err = Save(&bytes.Buffer{}, md, pixels[:10], FlagNone)
	require.ErrorIs(t, err, texerr.ErrInvalidArgument)
}

func TestScanAlphaMode(t *testing.T) {
	opaque := Metadata{Width: 8, Height: 8, Depth: 1, ArraySize: 1, MipLevels: 1, Format: dxgi.BC1_UNORM, Dimension: Texture2D}

	src, err := bc.NewImage(8, 8, dxgi.R8G8B8A8_UNORM)
	require.NoError(t, err)
	for i := range src.Pixels {
		src.Pixels[i] = 0xff
	}
	img, err := bc.CompressImage(src, dxgi.BC1_UNORM, bc.FlagNone, bc.DefaultThreshold)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, opaque, img.Pixels, FlagNone))
	tex, err := Load(buf.Bytes(), FlagNone, 0)
	require.NoError(t, err)
	require.Equal(t, AlphaUnknown, tex.AlphaMode())
	require.Equal(t, AlphaOpaque, ScanAlphaMode(tex))

	// clear the alpha of one texel and recompress as BC3
	src.Pixels[3] = 0
	img, err = bc.CompressImage(src, dxgi.BC3_UNORM, bc.FlagNone, bc.DefaultThreshold)
	require.NoError(t, err)
	md := opaque
	md.Format = dxgi.BC3_UNORM
	buf.Reset()
	require.NoError(t, Save(&buf, md, img.Pixels, FlagNone))
	tex, err = Load(buf.Bytes(), FlagNone, 0)
	require.NoError(t, err)
	require.Equal(t, AlphaUnknown, ScanAlphaMode(tex))

	tex.SetAlphaMode(AlphaStraight)
	require.Equal(t, AlphaStraight, ScanAlphaMode(tex))

	rg := &Texture{Metadata: Metadata{Format: dxgi.R8G8_UNORM}}
	require.Equal(t, AlphaOpaque, ScanAlphaMode(rg))

	rgba := &Texture{Metadata: Metadata{Format: dxgi.R8G8B8A8_UNORM}}
	require.Equal(t, AlphaUnknown, ScanAlphaMode(rgba))
}
