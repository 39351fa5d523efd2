package dxgi

// IsValid reports whether f is a defined format other than UNKNOWN.
func IsValid(f Format) bool {
	return f != UNKNOWN && BitsPerPixel(f) != 0
}

// BitsPerPixel returns the storage cost of one pixel. Block-compressed formats
// report the amortized cost of a 4x4 block. Unknown formats return 0.
func BitsPerPixel(f Format) int {
	switch f {
	case R32G32B32A32_TYPELESS, R32G32B32A32_FLOAT, R32G32B32A32_UINT, R32G32B32A32_SINT:
		return 128

	case R32G32B32_TYPELESS, R32G32B32_FLOAT, R32G32B32_UINT, R32G32B32_SINT:
		return 96

	case R16G16B16A16_TYPELESS, R16G16B16A16_FLOAT, R16G16B16A16_UNORM, R16G16B16A16_UINT,
		R16G16B16A16_SNORM, R16G16B16A16_SINT, R32G32_TYPELESS, R32G32_FLOAT, R32G32_UINT,
		R32G32_SINT, R32G8X24_TYPELESS, D32_FLOAT_S8X24_UINT, R32_FLOAT_X8X24_TYPELESS,
		X32_TYPELESS_G8X24_UINT, Y416, Y210, Y216:
		return 64

	case R10G10B10A2_TYPELESS, R10G10B10A2_UNORM, R10G10B10A2_UINT, R11G11B10_FLOAT,
		R8G8B8A8_TYPELESS, R8G8B8A8_UNORM, R8G8B8A8_UNORM_SRGB, R8G8B8A8_UINT, R8G8B8A8_SNORM,
		R8G8B8A8_SINT, R16G16_TYPELESS, R16G16_FLOAT, R16G16_UNORM, R16G16_UINT, R16G16_SNORM,
		R16G16_SINT, R32_TYPELESS, D32_FLOAT, R32_FLOAT, R32_UINT, R32_SINT, R24G8_TYPELESS,
		D24_UNORM_S8_UINT, R24_UNORM_X8_TYPELESS, X24_TYPELESS_G8_UINT, R9G9B9E5_SHAREDEXP,
		R8G8_B8G8_UNORM, G8R8_G8B8_UNORM, B8G8R8A8_UNORM, B8G8R8X8_UNORM,
		R10G10B10_XR_BIAS_A2_UNORM, B8G8R8A8_TYPELESS, B8G8R8A8_UNORM_SRGB, B8G8R8X8_TYPELESS,
		B8G8R8X8_UNORM_SRGB, AYUV, Y410, YUY2:
		return 32

	case P010, P016, V408:
		return 24

	case R8G8_TYPELESS, R8G8_UNORM, R8G8_UINT, R8G8_SNORM, R8G8_SINT, R16_TYPELESS, R16_FLOAT,
		D16_UNORM, R16_UNORM, R16_UINT, R16_SNORM, R16_SINT, B5G6R5_UNORM, B5G5R5A1_UNORM,
		A8P8, B4G4R4A4_UNORM, P208, V208, A4B4G4R4_UNORM:
		return 16

	case NV12, OPAQUE_420, NV11:
		return 12

	case R8_TYPELESS, R8_UNORM, R8_UINT, R8_SNORM, R8_SINT, A8_UNORM, AI44, IA44, P8,
		BC2_TYPELESS, BC2_UNORM, BC2_UNORM_SRGB, BC3_TYPELESS, BC3_UNORM, BC3_UNORM_SRGB,
		BC5_TYPELESS, BC5_UNORM, BC5_SNORM, BC6H_TYPELESS, BC6H_UF16, BC6H_SF16,
		BC7_TYPELESS, BC7_UNORM, BC7_UNORM_SRGB:
		return 8

	case BC1_TYPELESS, BC1_UNORM, BC1_UNORM_SRGB, BC4_TYPELESS, BC4_UNORM, BC4_SNORM:
		return 4

	case R1_UNORM:
		return 1

	default:
		return 0
	}
}

// IsCompressed reports whether f is one of the 4x4 block-compressed BCn formats.
func IsCompressed(f Format) bool {
	switch f {
	case BC1_TYPELESS, BC1_UNORM, BC1_UNORM_SRGB,
		BC2_TYPELESS, BC2_UNORM, BC2_UNORM_SRGB,
		BC3_TYPELESS, BC3_UNORM, BC3_UNORM_SRGB,
		BC4_TYPELESS, BC4_UNORM, BC4_SNORM,
		BC5_TYPELESS, BC5_UNORM, BC5_SNORM,
		BC6H_TYPELESS, BC6H_UF16, BC6H_SF16,
		BC7_TYPELESS, BC7_UNORM, BC7_UNORM_SRGB:
		return true
	}
	return false
}

// BytesPerBlock is 8 for BC1/BC4, 16 for the other BCn formats and 0 otherwise.
func BytesPerBlock(f Format) int {
	if !IsCompressed(f) {
		return 0
	}
	switch f {
	case BC1_TYPELESS, BC1_UNORM, BC1_UNORM_SRGB, BC4_TYPELESS, BC4_UNORM, BC4_SNORM:
		return 8
	}
	return 16
}

// IsPacked reports the 4:2:2 formats that store two pixels per element.
func IsPacked(f Format) bool {
	switch f {
	case R8G8_B8G8_UNORM, G8R8_G8B8_UNORM, YUY2, Y210, Y216:
		return true
	}
	return false
}

// IsPlanar reports the video formats that keep luma and chroma in separate planes.
func IsPlanar(f Format) bool {
	switch f {
	case NV12, P010, P016, OPAQUE_420, NV11, P208, V208, V408:
		return true
	}
	return false
}

// PlaneCount returns how many planes a subresource of f is made of.
func PlaneCount(f Format) int {
	switch f {
	case NV12, P010, P016, OPAQUE_420, NV11, P208:
		return 2
	case V208, V408:
		return 3
	case UNKNOWN:
		return 0
	}
	return 1
}

func IsPalettized(f Format) bool {
	switch f {
	case AI44, IA44, P8, A8P8:
		return true
	}
	return false
}

// IsVideo reports the YUV formats.
func IsVideo(f Format) bool {
	switch f {
	case AYUV, Y410, Y416, NV12, P010, P016, YUY2, Y210, Y216, NV11, OPAQUE_420,
		AI44, IA44, P8, A8P8, P208, V208, V408:
		return true
	}
	return false
}

func IsSRGB(f Format) bool {
	switch f {
	case R8G8B8A8_UNORM_SRGB, BC1_UNORM_SRGB, BC2_UNORM_SRGB, BC3_UNORM_SRGB,
		B8G8R8A8_UNORM_SRGB, B8G8R8X8_UNORM_SRGB, BC7_UNORM_SRGB:
		return true
	}
	return false
}

func IsTypeless(f Format) bool {
	switch f {
	case R32G32B32A32_TYPELESS, R32G32B32_TYPELESS, R16G16B16A16_TYPELESS, R32G32_TYPELESS,
		R32G8X24_TYPELESS, R32_FLOAT_X8X24_TYPELESS, X32_TYPELESS_G8X24_UINT,
		R10G10B10A2_TYPELESS, R8G8B8A8_TYPELESS, R16G16_TYPELESS, R32_TYPELESS,
		R24G8_TYPELESS, R24_UNORM_X8_TYPELESS, X24_TYPELESS_G8_UINT, R8G8_TYPELESS,
		R16_TYPELESS, R8_TYPELESS, BC1_TYPELESS, BC2_TYPELESS, BC3_TYPELESS, BC4_TYPELESS,
		BC5_TYPELESS, B8G8R8A8_TYPELESS, B8G8R8X8_TYPELESS, BC6H_TYPELESS, BC7_TYPELESS:
		return true
	}
	return false
}

// HasAlpha reports whether f carries an alpha channel.
func HasAlpha(f Format) bool {
	switch f {
	case R32G32B32A32_TYPELESS, R32G32B32A32_FLOAT, R32G32B32A32_UINT, R32G32B32A32_SINT,
		R16G16B16A16_TYPELESS, R16G16B16A16_FLOAT, R16G16B16A16_UNORM, R16G16B16A16_UINT,
		R16G16B16A16_SNORM, R16G16B16A16_SINT, R10G10B10A2_TYPELESS, R10G10B10A2_UNORM,
		R10G10B10A2_UINT, R8G8B8A8_TYPELESS, R8G8B8A8_UNORM, R8G8B8A8_UNORM_SRGB,
		R8G8B8A8_UINT, R8G8B8A8_SNORM, R8G8B8A8_SINT, A8_UNORM,
		BC1_TYPELESS, BC1_UNORM, BC1_UNORM_SRGB, BC2_TYPELESS, BC2_UNORM, BC2_UNORM_SRGB,
		BC3_TYPELESS, BC3_UNORM, BC3_UNORM_SRGB, B5G5R5A1_UNORM, B8G8R8A8_UNORM,
		R10G10B10_XR_BIAS_A2_UNORM, B8G8R8A8_TYPELESS, B8G8R8A8_UNORM_SRGB,
		BC7_TYPELESS, BC7_UNORM, BC7_UNORM_SRGB, AYUV, Y410, Y416, AI44, IA44, A8P8,
		B4G4R4A4_UNORM, A4B4G4R4_UNORM:
		return true
	}
	return false
}

// PromoteTypeless maps typeless block formats onto the sibling the codecs
// operate on: BCn to UNORM, BC6H to UF16. Other formats are returned as is.
func PromoteTypeless(f Format) Format {
	switch f {
	case BC1_TYPELESS:
		return BC1_UNORM
	case BC2_TYPELESS:
		return BC2_UNORM
	case BC3_TYPELESS:
		return BC3_UNORM
	case BC4_TYPELESS:
		return BC4_UNORM
	case BC5_TYPELESS:
		return BC5_UNORM
	case BC6H_TYPELESS:
		return BC6H_UF16
	case BC7_TYPELESS:
		return BC7_UNORM
	}
	return f
}
