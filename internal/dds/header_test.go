package dds

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erinpentecost/ddstex/internal/dxgi"
	"github.com/erinpentecost/ddstex/internal/texerr"
)

// legacyHeader returns a minimal 2D header using pf.
func legacyHeader(w, h int, pf PixelFormat) Header {
	return Header{
		Size:        HeaderSize,
		Flags:       ddsdTexture,
		Width:       uint32(w),
		Height:      uint32(h),
		PixelFormat: pf,
		Caps:        DDSCAPS_TEXTURE,
	}
}

func buildDDS(hdr Header, ext *HeaderDX10, pixels []byte) []byte {
	size := 4 + HeaderSize
	if ext != nil {
		size += DX10HeaderSize
	}
	out := make([]byte, size, size+len(pixels))
	putU32(out, 0, Magic)
	hdr.marshal(out[4:])
	if ext != nil {
		ext.marshal(out[4+HeaderSize:])
	}
	return append(out, pixels...)
}

func TestDecodeHeaderRejectsBadInput(t *testing.T) {
	good := buildDDS(legacyHeader(4, 4, pfDXT1), nil, make([]byte, 8))

	bad := append([]byte(nil), good...)
	copy(bad, "XXXX")
	_, _, err := DecodeHeader(bad, FlagNone)
	require.ErrorIs(t, err, texerr.ErrInvalidData)

	_, _, err = DecodeHeader(good[:100], FlagNone)
	require.ErrorIs(t, err, texerr.ErrInvalidData)

	bad = append([]byte(nil), good...)
	putU32(bad, 4, 100)
	_, _, err = DecodeHeader(bad, FlagNone)
	require.ErrorIs(t, err, texerr.ErrInvalidData)

	bad = append([]byte(nil), good...)
	putU32(bad, 4+pixelFormatOffset, 24)
	_, _, err = DecodeHeader(bad, FlagNone)
	require.ErrorIs(t, err, texerr.ErrInvalidData)
}

func TestDecodeHeaderLegacy(t *testing.T) {
	hdr := legacyHeader(8, 4, pfDXT5)
	hdr.MipMapCount = 0
	md, conv, err := DecodeHeader(buildDDS(hdr, nil, nil), FlagNone)
	require.NoError(t, err)
	require.Equal(t, ConvNone, conv)
	require.Equal(t, Metadata{
		Width:     8,
		Height:    4,
		Depth:     1,
		ArraySize: 1,
		MipLevels: 1,
		Format:    dxgi.BC3_UNORM,
		Dimension: Texture2D,
	}, md)

	hdr = legacyHeader(4, 4, pfDXT2)
	md, conv, err = DecodeHeader(buildDDS(hdr, nil, nil), FlagNone)
	require.NoError(t, err)
	require.Equal(t, dxgi.BC2_UNORM, md.Format)
	require.NotZero(t, conv&ConvPMAlpha)
	require.Equal(t, AlphaPremultiplied, md.AlphaMode())

	hdr = legacyHeader(4, 4, pfX8R8G8B8)
	md, _, err = DecodeHeader(buildDDS(hdr, nil, nil), FlagNone)
	require.NoError(t, err)
	require.Equal(t, dxgi.B8G8R8X8_UNORM, md.Format)

	hdr = legacyHeader(4, 4, pfX8B8G8R8)
	md, conv, err = DecodeHeader(buildDDS(hdr, nil, nil), FlagNone)
	require.NoError(t, err)
	require.Equal(t, dxgi.R8G8B8A8_UNORM, md.Format)
	require.NotZero(t, conv&ConvNoAlpha)
	require.Equal(t, AlphaOpaque, md.AlphaMode())
}

func TestDecodeHeaderVolume(t *testing.T) {
	hdr := legacyHeader(8, 8, pfA8B8G8R8)
	hdr.Flags |= DDSD_DEPTH
	hdr.Depth = 4
	hdr.Caps2 = DDSCAPS2_VOLUME
	md, _, err := DecodeHeader(buildDDS(hdr, nil, nil), FlagNone)
	require.NoError(t, err)
	require.Equal(t, Texture3D, md.Dimension)
	require.Equal(t, 4, md.Depth)
	require.True(t, md.IsVolume())
}

func TestDecodeHeaderCubemap(t *testing.T) {
	hdr := legacyHeader(4, 4, pfDXT1)
	hdr.Caps2 = DDSCAPS2_CUBEMAP_POSITIVEX | DDSCAPS2_CUBEMAP_NEGATIVEX
	_, _, err := DecodeHeader(buildDDS(hdr, nil, nil), FlagNone)
	require.ErrorIs(t, err, texerr.ErrNotSupported)

	hdr.Caps2 = DDSCAPS2_CUBEMAP_ALLFACES
	md, _, err := DecodeHeader(buildDDS(hdr, nil, nil), FlagNone)
	require.NoError(t, err)
	require.True(t, md.IsCubemap())
	require.Equal(t, 6, md.ArraySize)
}

func TestDecodeHeaderDX10(t *testing.T) {
	hdr := legacyHeader(16, 8, pfDX10)

	t.Run("array", func(t *testing.T) {
		ext := &HeaderDX10{DXGIFormat: uint32(dxgi.BC7_UNORM_SRGB), ResourceDimension: uint32(Texture2D), ArraySize: 3, MiscFlags2: uint32(AlphaStraight)}
		md, conv, err := DecodeHeader(buildDDS(hdr, ext, nil), FlagNone)
		require.NoError(t, err)
		require.NotZero(t, conv&ConvDX10)
		require.Equal(t, dxgi.BC7_UNORM_SRGB, md.Format)
		require.Equal(t, 3, md.ArraySize)
		require.Equal(t, AlphaStraight, md.AlphaMode())
	})

	t.Run("cube array", func(t *testing.T) {
		ext := &HeaderDX10{DXGIFormat: uint32(dxgi.R8G8B8A8_UNORM), ResourceDimension: uint32(Texture2D), MiscFlag: uint32(MiscTextureCube), ArraySize: 2}
		md, _, err := DecodeHeader(buildDDS(hdr, ext, nil), FlagNone)
		require.NoError(t, err)
		require.True(t, md.IsCubemap())
		require.Equal(t, 12, md.ArraySize)
	})

	t.Run("1D", func(t *testing.T) {
		h := legacyHeader(32, 1, pfDX10)
		ext := &HeaderDX10{DXGIFormat: uint32(dxgi.R16_FLOAT), ResourceDimension: uint32(Texture1D), ArraySize: 1}
		md, _, err := DecodeHeader(buildDDS(h, ext, nil), FlagNone)
		require.NoError(t, err)
		require.Equal(t, Texture1D, md.Dimension)
		require.Equal(t, 1, md.Height)

		h.Height = 2
		_, _, err = DecodeHeader(buildDDS(h, ext, nil), FlagNone)
		require.ErrorIs(t, err, texerr.ErrInvalidData)
	})

	for name, tc := range map[string]struct {
		ext  HeaderDX10
		want error
	}{
		"zero array":      {HeaderDX10{DXGIFormat: uint32(dxgi.BC1_UNORM), ResourceDimension: uint32(Texture2D)}, texerr.ErrInvalidData},
		"unknown format":  {HeaderDX10{DXGIFormat: 0, ResourceDimension: uint32(Texture2D), ArraySize: 1}, texerr.ErrNotSupported},
		"palettized":      {HeaderDX10{DXGIFormat: uint32(dxgi.P8), ResourceDimension: uint32(Texture2D), ArraySize: 1}, texerr.ErrNotSupported},
		"bad dimension":   {HeaderDX10{DXGIFormat: uint32(dxgi.BC1_UNORM), ResourceDimension: 7, ArraySize: 1}, texerr.ErrInvalidData},
		"3D without flag": {HeaderDX10{DXGIFormat: uint32(dxgi.BC1_UNORM), ResourceDimension: uint32(Texture3D), ArraySize: 1}, texerr.ErrInvalidData},
	} {
		t.Run(name, func(t *testing.T) {
			_, _, err := DecodeHeader(buildDDS(hdr, &tc.ext, nil), FlagNone)
			require.ErrorIs(t, err, tc.want)
		})
	}

	t.Run("3D array", func(t *testing.T) {
		h := hdr
		h.Flags |= DDSD_DEPTH
		h.Depth = 2
		ext := &HeaderDX10{DXGIFormat: uint32(dxgi.BC1_UNORM), ResourceDimension: uint32(Texture3D), ArraySize: 2}
		_, _, err := DecodeHeader(buildDDS(h, ext, nil), FlagNone)
		require.ErrorIs(t, err, texerr.ErrNotSupported)
	})

	t.Run("truncated extension", func(t *testing.T) {
		ext := &HeaderDX10{DXGIFormat: uint32(dxgi.BC1_UNORM), ResourceDimension: uint32(Texture2D), ArraySize: 1}
		data := buildDDS(hdr, ext, nil)
		_, _, err := DecodeHeader(data[:len(data)-4], FlagNone)
		require.ErrorIs(t, err, texerr.ErrInvalidData)
	})
}

func TestDecodeHeaderLimits(t *testing.T) {
	hdr := legacyHeader(20000, 4, pfDXT1)
	data := buildDDS(hdr, nil, nil)
	_, _, err := DecodeHeader(data, FlagNone)
	require.ErrorIs(t, err, texerr.ErrNotSupported)

	md, _, err := DecodeHeader(data, FlagAllowLargeFiles)
	require.NoError(t, err)
	require.Equal(t, 20000, md.Width)

	hdr = legacyHeader(4, 4, pfDXT1)
	hdr.Flags |= DDSD_MIPMAPCOUNT
	hdr.MipMapCount = 16
	_, _, err = DecodeHeader(buildDDS(hdr, nil, nil), FlagNone)
	require.ErrorIs(t, err, texerr.ErrNotSupported)

	hdr = legacyHeader(0, 4, pfDXT1)
	_, _, err = DecodeHeader(buildDDS(hdr, nil, nil), FlagNone)
	require.ErrorIs(t, err, texerr.ErrInvalidData)
}

func TestDecodeHeaderFlags(t *testing.T) {
	hdr := legacyHeader(4, 4, pfA8R8G8B8)
	md, conv, err := DecodeHeader(buildDDS(hdr, nil, nil), FlagForceRGB)
	require.NoError(t, err)
	require.Equal(t, dxgi.R8G8B8A8_UNORM, md.Format)
	require.NotZero(t, conv&ConvSwizzle)

	hdr = legacyHeader(4, 4, pfR5G6B5)
	md, conv, err = DecodeHeader(buildDDS(hdr, nil, nil), FlagNo16BPP)
	require.NoError(t, err)
	require.Equal(t, dxgi.R8G8B8A8_UNORM, md.Format)
	require.Equal(t, ConvExpand|ConvNoAlpha|Conv565, conv)

	hdr = legacyHeader(4, 4, pfL16)
	md, _, err = DecodeHeader(buildDDS(hdr, nil, nil), FlagExpandLuminance)
	require.NoError(t, err)
	require.Equal(t, dxgi.R16G16B16A16_UNORM, md.Format)

	hdr = legacyHeader(4, 4, pfR8G8B8)
	_, _, err = DecodeHeader(buildDDS(hdr, nil, nil), FlagNoLegacyExpansion)
	require.ErrorIs(t, err, texerr.ErrNotSupported)

	hdr = legacyHeader(4, 4, pfPal8)
	_, _, err = DecodeHeader(buildDDS(hdr, nil, nil), FlagNone)
	require.ErrorIs(t, err, texerr.ErrNotSupported)
}

func TestResolveLegacyFormat(t *testing.T) {
	for name, tc := range map[string]struct {
		pf    PixelFormat
		flags Flags
		want  dxgi.Format
		conv  ConvFlags
	}{
		"DXT1":               {pfDXT1, FlagNone, dxgi.BC1_UNORM, ConvNone},
		"DXT4":               {pfDXT4, FlagNone, dxgi.BC3_UNORM, ConvPMAlpha},
		"ATI2":               {pfATI2, FlagNone, dxgi.BC5_UNORM, ConvNone},
		"A8R8G8B8":           {pfA8R8G8B8, FlagNone, dxgi.B8G8R8A8_UNORM, ConvNone},
		"R10 quirk":          {pfA2R10G10B10, FlagNone, dxgi.R10G10B10A2_UNORM, ConvSwizzle},
		"R10 quirk off":      {pfA2R10G10B10, FlagNoR10B10G10A2Fixup, dxgi.R10G10B10A2_UNORM, ConvNone},
		"B10 layout":         {pfA2B10G10R10, FlagNone, dxgi.R10G10B10A2_UNORM, ConvNone},
		"B10 layout literal": {pfA2B10G10R10, FlagNoR10B10G10A2Fixup, dxgi.R10G10B10A2_UNORM, ConvSwizzle},
		"R8G8B8":             {pfR8G8B8, FlagNone, dxgi.R8G8B8A8_UNORM, ConvExpand | ConvNoAlpha | Conv888},
		"R8G8B8 no expand":   {pfR8G8B8, FlagNoLegacyExpansion, dxgi.UNKNOWN, ConvNone},
		"L8":                 {pfL8, FlagNone, dxgi.R8_UNORM, ConvL8},
		"L8 nvtt":            {pfL8NVTT, FlagNone, dxgi.R8_UNORM, ConvL8},
		"A8":                 {pfA8, FlagNone, dxgi.A8_UNORM, ConvNone},
		"D3DFMT float":       {fourCCPF(113), FlagNone, dxgi.R16G16B16A16_FLOAT, ConvNone},
		"UYVY":               {pfUYVY, FlagNone, dxgi.YUY2, ConvSwizzle},
		"V8U8":               {pfV8U8, FlagNone, dxgi.R8G8_SNORM, ConvNone},
		"palette":            {pfPal8, FlagNone, dxgi.UNKNOWN, ConvExpand | ConvPal8},
		"unknown fourcc":     {fourCCPF(MakeFourCC('N', 'O', 'P', 'E')), FlagNone, dxgi.UNKNOWN, ConvNone},
		"odd masks":          {maskPF(DDPF_RGB, 32, 0xff00, 0xff, 0xff0000, 0), FlagNone, dxgi.UNKNOWN, ConvNone},
		"X8R8G8B8":           {pfX8R8G8B8, FlagNone, dxgi.B8G8R8X8_UNORM, ConvNone},
		"A4R4G4B4":           {pfA4R4G4B4, FlagNone, dxgi.B4G4R4A4_UNORM, Conv4444},
		"alpha mask without alpha flag": {
			maskPF(DDPF_RGB, 32, 0x00ff0000, 0x0000ff00, 0x000000ff, 0xff000000), FlagNone, dxgi.B8G8R8A8_UNORM, ConvNone,
		},
		"A8B8G8R8 without alpha flag": {
			maskPF(DDPF_RGB, 32, 0x000000ff, 0x0000ff00, 0x00ff0000, 0xff000000), FlagNone, dxgi.R8G8B8A8_UNORM, ConvNone,
		},
		"A8L8 without alpha flag": {
			maskPF(DDPF_LUMINANCE, 16, 0x00ff, 0, 0, 0xff00), FlagNone, dxgi.R8G8_UNORM, ConvA8L8,
		},
	} {
		t.Run(name, func(t *testing.T) {
			f, conv := ResolveLegacyFormat(tc.pf, tc.flags)
			require.Equal(t, tc.want, f)
			require.Equal(t, tc.conv, conv)
		})
	}
}

func TestEncodeHeaderRoundTrip(t *testing.T) {
	for name, md := range map[string]Metadata{
		"BC1 mips":    {Width: 8, Height: 8, Depth: 1, ArraySize: 1, MipLevels: 4, Format: dxgi.BC1_UNORM, Dimension: Texture2D},
		"RGBA":        {Width: 5, Height: 3, Depth: 1, ArraySize: 1, MipLevels: 1, Format: dxgi.R8G8B8A8_UNORM, Dimension: Texture2D},
		"cubemap":     {Width: 4, Height: 4, Depth: 1, ArraySize: 6, MipLevels: 1, Format: dxgi.BC3_UNORM, Dimension: Texture2D, MiscFlags: MiscTextureCube},
		"cube array":  {Width: 4, Height: 4, Depth: 1, ArraySize: 12, MipLevels: 1, Format: dxgi.BC3_UNORM, Dimension: Texture2D, MiscFlags: MiscTextureCube},
		"volume":      {Width: 4, Height: 4, Depth: 4, ArraySize: 1, MipLevels: 3, Format: dxgi.B8G8R8A8_UNORM, Dimension: Texture3D},
		"BC7 array":   {Width: 16, Height: 16, Depth: 1, ArraySize: 4, MipLevels: 5, Format: dxgi.BC7_UNORM, Dimension: Texture2D},
		"BC6H signed": {Width: 4, Height: 4, Depth: 1, ArraySize: 1, MipLevels: 1, Format: dxgi.BC6H_SF16, Dimension: Texture2D},
	} {
		t.Run(name, func(t *testing.T) {
			data, err := EncodeHeader(md, FlagNone)
			require.NoError(t, err)
			got, _, err := DecodeHeader(data, FlagNone)
			require.NoError(t, err)
			require.Equal(t, md, got)
		})
	}

	// a legacy header has no 1D dimension, so only the extension keeps it
	md := Metadata{Width: 64, Height: 1, Depth: 1, ArraySize: 1, MipLevels: 1, Format: dxgi.R32G32B32A32_FLOAT, Dimension: Texture1D}
	data, err := EncodeHeader(md, FlagNone)
	require.NoError(t, err)
	got, _, err := DecodeHeader(data, FlagNone)
	require.NoError(t, err)
	require.Equal(t, Texture2D, got.Dimension)

	data, err = EncodeHeader(md, FlagForceDX10Ext)
	require.NoError(t, err)
	got, _, err = DecodeHeader(data, FlagNone)
	require.NoError(t, err)
	require.Equal(t, md, got)
}

func TestEncodeHeaderFields(t *testing.T) {
	md := Metadata{Width: 8, Height: 8, Depth: 1, ArraySize: 1, MipLevels: 4, Format: dxgi.BC1_UNORM, Dimension: Texture2D}
	data, err := EncodeHeader(md, FlagNone)
	require.NoError(t, err)
	require.Len(t, data, 4+HeaderSize)
	require.Equal(t, "DDS ", string(data[:4]))
	require.Equal(t, "DXT1", string(data[4+pixelFormatOffset+8:4+pixelFormatOffset+12]))

	hdr := parseHeader(data[4:])
	require.Equal(t, uint32(32), hdr.PitchOrLinearSize)
	require.NotZero(t, hdr.Flags&DDSD_LINEARSIZE)
	require.NotZero(t, hdr.Flags&DDSD_MIPMAPCOUNT)
	require.Equal(t, uint32(DDSCAPS_TEXTURE|DDSCAPS_MIPMAP|DDSCAPS_COMPLEX), hdr.Caps)

	md = Metadata{Width: 5, Height: 3, Depth: 1, ArraySize: 1, MipLevels: 1, Format: dxgi.B5G6R5_UNORM, Dimension: Texture2D}
	data, err = EncodeHeader(md, FlagNone)
	require.NoError(t, err)
	hdr = parseHeader(data[4:])
	require.Equal(t, uint32(10), hdr.PitchOrLinearSize)
	require.NotZero(t, hdr.Flags&DDSD_PITCH)
	require.Equal(t, uint32(DDSCAPS_TEXTURE), hdr.Caps)
}

func TestEncodeHeaderChoices(t *testing.T) {
	bc7 := Metadata{Width: 4, Height: 4, Depth: 1, ArraySize: 1, MipLevels: 1, Format: dxgi.BC7_UNORM, Dimension: Texture2D}
	data, err := EncodeHeader(bc7, FlagNone)
	require.NoError(t, err)
	require.Len(t, data, 4+HeaderSize+DX10HeaderSize)

	_, err = EncodeHeader(bc7, FlagForceDX9Legacy)
	require.ErrorIs(t, err, texerr.ErrCannotMake)

	array := bc7
	array.Format = dxgi.BC1_UNORM
	array.ArraySize = 2
	_, err = EncodeHeader(array, FlagForceDX9Legacy)
	require.ErrorIs(t, err, texerr.ErrCannotMake)

	bc1 := bc7
	bc1.Format = dxgi.BC1_UNORM
	data, err = EncodeHeader(bc1, FlagForceDX10Ext)
	require.NoError(t, err)
	require.Len(t, data, 4+HeaderSize+DX10HeaderSize)

	srgb := bc7
	srgb.Format = dxgi.BC1_UNORM_SRGB
	data, err = EncodeHeader(srgb, FlagNone)
	require.NoError(t, err)
	require.Len(t, data, 4+HeaderSize+DX10HeaderSize)
	data, err = EncodeHeader(srgb, FlagForceDX9Legacy)
	require.NoError(t, err)
	require.Len(t, data, 4+HeaderSize)

	pm := bc7
	pm.Format = dxgi.BC3_UNORM
	pm.SetAlphaMode(AlphaPremultiplied)
	data, err = EncodeHeader(pm, FlagNone)
	require.NoError(t, err)
	require.Equal(t, "DXT4", string(data[4+pixelFormatOffset+8:4+pixelFormatOffset+12]))

	data, err = EncodeHeader(pm, FlagForceDX10ExtMisc2)
	require.NoError(t, err)
	got, _, err := DecodeHeader(data, FlagNone)
	require.NoError(t, err)
	require.Equal(t, AlphaPremultiplied, got.AlphaMode())

	bad := bc7
	bad.Format = dxgi.P8
	_, err = EncodeHeader(bad, FlagNone)
	require.ErrorIs(t, err, texerr.ErrInvalidArgument)

	bad = bc7
	bad.MipLevels = 0
	_, err = EncodeHeader(bad, FlagNone)
	require.ErrorIs(t, err, texerr.ErrInvalidArgument)
}

func TestInferAlphaMode(t *testing.T) {
	require.Equal(t, AlphaPremultiplied, InferAlphaMode(pfDXT2, nil))
	require.Equal(t, AlphaPremultiplied, InferAlphaMode(pfDXT4, &HeaderDX10{MiscFlags2: uint32(AlphaStraight)}))
	require.Equal(t, AlphaOpaque, InferAlphaMode(pfDX10, &HeaderDX10{MiscFlags2: uint32(AlphaOpaque)}))
	require.Equal(t, AlphaUnknown, InferAlphaMode(pfDXT5, nil))

	// decoded headers report the same declared mode
	for _, pf := range []PixelFormat{pfDXT2, pfDXT4, pfDXT5, pfA8R8G8B8} {
		md, _, err := DecodeHeader(buildDDS(legacyHeader(4, 4, pf), nil, nil), FlagNone)
		require.NoError(t, err)
		require.Equal(t, InferAlphaMode(pf, nil), md.AlphaMode())
	}
	ext := &HeaderDX10{DXGIFormat: uint32(dxgi.BC3_UNORM), ResourceDimension: uint32(Texture2D), ArraySize: 1, MiscFlags2: uint32(AlphaPremultiplied)}
	md, _, err := DecodeHeader(buildDDS(legacyHeader(4, 4, pfDX10), ext, nil), FlagNone)
	require.NoError(t, err)
	require.Equal(t, InferAlphaMode(pfDX10, ext), md.AlphaMode())
	require.Equal(t, AlphaPremultiplied, md.AlphaMode())
}
