package dxgi

import (
	"strconv"
	"strings"
)

// Format is a DXGI_FORMAT value as stored in the DX10 header extension.
type Format uint32

const (
	UNKNOWN                                 Format = 0
	R32G32B32A32_TYPELESS                   Format = 1
	R32G32B32A32_FLOAT                      Format = 2
	R32G32B32A32_UINT                       Format = 3
	R32G32B32A32_SINT                       Format = 4
	R32G32B32_TYPELESS                      Format = 5
	R32G32B32_FLOAT                         Format = 6
	R32G32B32_UINT                          Format = 7
	R32G32B32_SINT                          Format = 8
	R16G16B16A16_TYPELESS                   Format = 9
	R16G16B16A16_FLOAT                      Format = 10
	R16G16B16A16_UNORM                      Format = 11
	R16G16B16A16_UINT                       Format = 12
	R16G16B16A16_SNORM                      Format = 13
	R16G16B16A16_SINT                       Format = 14
	R32G32_TYPELESS                         Format = 15
	R32G32_FLOAT                            Format = 16
	R32G32_UINT                             Format = 17
	R32G32_SINT                             Format = 18
	R32G8X24_TYPELESS                       Format = 19
	D32_FLOAT_S8X24_UINT                    Format = 20
	R32_FLOAT_X8X24_TYPELESS                Format = 21
	X32_TYPELESS_G8X24_UINT                 Format = 22
	R10G10B10A2_TYPELESS                    Format = 23
	R10G10B10A2_UNORM                       Format = 24
	R10G10B10A2_UINT                        Format = 25
	R11G11B10_FLOAT                         Format = 26
	R8G8B8A8_TYPELESS                       Format = 27
	R8G8B8A8_UNORM                          Format = 28
	R8G8B8A8_UNORM_SRGB                     Format = 29
	R8G8B8A8_UINT                           Format = 30
	R8G8B8A8_SNORM                          Format = 31
	R8G8B8A8_SINT                           Format = 32
	R16G16_TYPELESS                         Format = 33
	R16G16_FLOAT                            Format = 34
	R16G16_UNORM                            Format = 35
	R16G16_UINT                             Format = 36
	R16G16_SNORM                            Format = 37
	R16G16_SINT                             Format = 38
	R32_TYPELESS                            Format = 39
	D32_FLOAT                               Format = 40
	R32_FLOAT                               Format = 41
	R32_UINT                                Format = 42
	R32_SINT                                Format = 43
	R24G8_TYPELESS                          Format = 44
	D24_UNORM_S8_UINT                       Format = 45
	R24_UNORM_X8_TYPELESS                   Format = 46
	X24_TYPELESS_G8_UINT                    Format = 47
	R8G8_TYPELESS                           Format = 48
	R8G8_UNORM                              Format = 49
	R8G8_UINT                               Format = 50
	R8G8_SNORM                              Format = 51
	R8G8_SINT                               Format = 52
	R16_TYPELESS                            Format = 53
	R16_FLOAT                               Format = 54
	D16_UNORM                               Format = 55
	R16_UNORM                               Format = 56
	R16_UINT                                Format = 57
	R16_SNORM                               Format = 58
	R16_SINT                                Format = 59
	R8_TYPELESS                             Format = 60
	R8_UNORM                                Format = 61
	R8_UINT                                 Format = 62
	R8_SNORM                                Format = 63
	R8_SINT                                 Format = 64
	A8_UNORM                                Format = 65
	R1_UNORM                                Format = 66
	R9G9B9E5_SHAREDEXP                      Format = 67
	R8G8_B8G8_UNORM                         Format = 68
	G8R8_G8B8_UNORM                         Format = 69
	BC1_TYPELESS                            Format = 70
	BC1_UNORM                               Format = 71
	BC1_UNORM_SRGB                          Format = 72
	BC2_TYPELESS                            Format = 73
	BC2_UNORM                               Format = 74
	BC2_UNORM_SRGB                          Format = 75
	BC3_TYPELESS                            Format = 76
	BC3_UNORM                               Format = 77
	BC3_UNORM_SRGB                          Format = 78
	BC4_TYPELESS                            Format = 79
	BC4_UNORM                               Format = 80
	BC4_SNORM                               Format = 81
	BC5_TYPELESS                            Format = 82
	BC5_UNORM                               Format = 83
	BC5_SNORM                               Format = 84
	B5G6R5_UNORM                            Format = 85
	B5G5R5A1_UNORM                          Format = 86
	B8G8R8A8_UNORM                          Format = 87
	B8G8R8X8_UNORM                          Format = 88
	R10G10B10_XR_BIAS_A2_UNORM              Format = 89
	B8G8R8A8_TYPELESS                       Format = 90
	B8G8R8A8_UNORM_SRGB                     Format = 91
	B8G8R8X8_TYPELESS                       Format = 92
	B8G8R8X8_UNORM_SRGB                     Format = 93
	BC6H_TYPELESS                           Format = 94
	BC6H_UF16                               Format = 95
	BC6H_SF16                               Format = 96
	BC7_TYPELESS                            Format = 97
	BC7_UNORM                               Format = 98
	BC7_UNORM_SRGB                          Format = 99
	AYUV                                    Format = 100
	Y410                                    Format = 101
	Y416                                    Format = 102
	NV12                                    Format = 103
	P010                                    Format = 104
	P016                                    Format = 105
	OPAQUE_420                              Format = 106
	YUY2                                    Format = 107
	Y210                                    Format = 108
	Y216                                    Format = 109
	NV11                                    Format = 110
	AI44                                    Format = 111
	IA44                                    Format = 112
	P8                                      Format = 113
	A8P8                                    Format = 114
	B4G4R4A4_UNORM                          Format = 115
	P208                                    Format = 130
	V208                                    Format = 131
	V408                                    Format = 132
	SAMPLER_FEEDBACK_MIN_MIP_OPAQUE         Format = 189
	SAMPLER_FEEDBACK_MIP_REGION_USED_OPAQUE Format = 190
	A4B4G4R4_UNORM                          Format = 191
)

var formatNames = map[Format]string{
	UNKNOWN:                                 "UNKNOWN",
	R32G32B32A32_TYPELESS:                   "R32G32B32A32_TYPELESS",
	R32G32B32A32_FLOAT:                      "R32G32B32A32_FLOAT",
	R32G32B32A32_UINT:                       "R32G32B32A32_UINT",
	R32G32B32A32_SINT:                       "R32G32B32A32_SINT",
	R32G32B32_TYPELESS:                      "R32G32B32_TYPELESS",
	R32G32B32_FLOAT:                         "R32G32B32_FLOAT",
	R32G32B32_UINT:                          "R32G32B32_UINT",
	R32G32B32_SINT:                          "R32G32B32_SINT",
	R16G16B16A16_TYPELESS:                   "R16G16B16A16_TYPELESS",
	R16G16B16A16_FLOAT:                      "R16G16B16A16_FLOAT",
	R16G16B16A16_UNORM:                      "R16G16B16A16_UNORM",
	R16G16B16A16_UINT:                       "R16G16B16A16_UINT",
	R16G16B16A16_SNORM:                      "R16G16B16A16_SNORM",
	R16G16B16A16_SINT:                       "R16G16B16A16_SINT",
	R32G32_TYPELESS:                         "R32G32_TYPELESS",
	R32G32_FLOAT:                            "R32G32_FLOAT",
	R32G32_UINT:                             "R32G32_UINT",
	R32G32_SINT:                             "R32G32_SINT",
	R32G8X24_TYPELESS:                       "R32G8X24_TYPELESS",
	D32_FLOAT_S8X24_UINT:                    "D32_FLOAT_S8X24_UINT",
	R32_FLOAT_X8X24_TYPELESS:                "R32_FLOAT_X8X24_TYPELESS",
	X32_TYPELESS_G8X24_UINT:                 "X32_TYPELESS_G8X24_UINT",
	R10G10B10A2_TYPELESS:                    "R10G10B10A2_TYPELESS",
	R10G10B10A2_UNORM:                       "R10G10B10A2_UNORM",
	R10G10B10A2_UINT:                        "R10G10B10A2_UINT",
	R11G11B10_FLOAT:                         "R11G11B10_FLOAT",
	R8G8B8A8_TYPELESS:                       "R8G8B8A8_TYPELESS",
	R8G8B8A8_UNORM:                          "R8G8B8A8_UNORM",
	R8G8B8A8_UNORM_SRGB:                     "R8G8B8A8_UNORM_SRGB",
	R8G8B8A8_UINT:                           "R8G8B8A8_UINT",
	R8G8B8A8_SNORM:                          "R8G8B8A8_SNORM",
	R8G8B8A8_SINT:                           "R8G8B8A8_SINT",
	R16G16_TYPELESS:                         "R16G16_TYPELESS",
	R16G16_FLOAT:                            "R16G16_FLOAT",
	R16G16_UNORM:                            "R16G16_UNORM",
	R16G16_UINT:                             "R16G16_UINT",
	R16G16_SNORM:                            "R16G16_SNORM",
	R16G16_SINT:                             "R16G16_SINT",
	R32_TYPELESS:                            "R32_TYPELESS",
	D32_FLOAT:                               "D32_FLOAT",
	R32_FLOAT:                               "R32_FLOAT",
	R32_UINT:                                "R32_UINT",
	R32_SINT:                                "R32_SINT",
	R24G8_TYPELESS:                          "R24G8_TYPELESS",
	D24_UNORM_S8_UINT:                       "D24_UNORM_S8_UINT",
	R24_UNORM_X8_TYPELESS:                   "R24_UNORM_X8_TYPELESS",
	X24_TYPELESS_G8_UINT:                    "X24_TYPELESS_G8_UINT",
	R8G8_TYPELESS:                           "R8G8_TYPELESS",
	R8G8_UNORM:                              "R8G8_UNORM",
	R8G8_UINT:                               "R8G8_UINT",
	R8G8_SNORM:                              "R8G8_SNORM",
	R8G8_SINT:                               "R8G8_SINT",
	R16_TYPELESS:                            "R16_TYPELESS",
	R16_FLOAT:                               "R16_FLOAT",
	D16_UNORM:                               "D16_UNORM",
	R16_UNORM:                               "R16_UNORM",
	R16_UINT:                                "R16_UINT",
	R16_SNORM:                               "R16_SNORM",
	R16_SINT:                                "R16_SINT",
	R8_TYPELESS:                             "R8_TYPELESS",
	R8_UNORM:                                "R8_UNORM",
	R8_UINT:                                 "R8_UINT",
	R8_SNORM:                                "R8_SNORM",
	R8_SINT:                                 "R8_SINT",
	A8_UNORM:                                "A8_UNORM",
	R1_UNORM:                                "R1_UNORM",
	R9G9B9E5_SHAREDEXP:                      "R9G9B9E5_SHAREDEXP",
	R8G8_B8G8_UNORM:                         "R8G8_B8G8_UNORM",
	G8R8_G8B8_UNORM:                         "G8R8_G8B8_UNORM",
	BC1_TYPELESS:                            "BC1_TYPELESS",
	BC1_UNORM:                               "BC1_UNORM",
	BC1_UNORM_SRGB:                          "BC1_UNORM_SRGB",
	BC2_TYPELESS:                            "BC2_TYPELESS",
	BC2_UNORM:                               "BC2_UNORM",
	BC2_UNORM_SRGB:                          "BC2_UNORM_SRGB",
	BC3_TYPELESS:                            "BC3_TYPELESS",
	BC3_UNORM:                               "BC3_UNORM",
	BC3_UNORM_SRGB:                          "BC3_UNORM_SRGB",
	BC4_TYPELESS:                            "BC4_TYPELESS",
	BC4_UNORM:                               "BC4_UNORM",
	BC4_SNORM:                               "BC4_SNORM",
	BC5_TYPELESS:                            "BC5_TYPELESS",
	BC5_UNORM:                               "BC5_UNORM",
	BC5_SNORM:                               "BC5_SNORM",
	B5G6R5_UNORM:                            "B5G6R5_UNORM",
	B5G5R5A1_UNORM:                          "B5G5R5A1_UNORM",
	B8G8R8A8_UNORM:                          "B8G8R8A8_UNORM",
	B8G8R8X8_UNORM:                          "B8G8R8X8_UNORM",
	R10G10B10_XR_BIAS_A2_UNORM:              "R10G10B10_XR_BIAS_A2_UNORM",
	B8G8R8A8_TYPELESS:                       "B8G8R8A8_TYPELESS",
	B8G8R8A8_UNORM_SRGB:                     "B8G8R8A8_UNORM_SRGB",
	B8G8R8X8_TYPELESS:                       "B8G8R8X8_TYPELESS",
	B8G8R8X8_UNORM_SRGB:                     "B8G8R8X8_UNORM_SRGB",
	BC6H_TYPELESS:                           "BC6H_TYPELESS",
	BC6H_UF16:                               "BC6H_UF16",
	BC6H_SF16:                               "BC6H_SF16",
	BC7_TYPELESS:                            "BC7_TYPELESS",
	BC7_UNORM:                               "BC7_UNORM",
	BC7_UNORM_SRGB:                          "BC7_UNORM_SRGB",
	AYUV:                                    "AYUV",
	Y410:                                    "Y410",
	Y416:                                    "Y416",
	NV12:                                    "NV12",
	P010:                                    "P010",
	P016:                                    "P016",
	OPAQUE_420:                              "420_OPAQUE",
	YUY2:                                    "YUY2",
	Y210:                                    "Y210",
	Y216:                                    "Y216",
	NV11:                                    "NV11",
	AI44:                                    "AI44",
	IA44:                                    "IA44",
	P8:                                      "P8",
	A8P8:                                    "A8P8",
	B4G4R4A4_UNORM:                          "B4G4R4A4_UNORM",
	P208:                                    "P208",
	V208:                                    "V208",
	V408:                                    "V408",
	SAMPLER_FEEDBACK_MIN_MIP_OPAQUE:         "SAMPLER_FEEDBACK_MIN_MIP_OPAQUE",
	SAMPLER_FEEDBACK_MIP_REGION_USED_OPAQUE: "SAMPLER_FEEDBACK_MIP_REGION_USED_OPAQUE",
	A4B4G4R4_UNORM:                          "A4B4G4R4_UNORM",
}

func (f Format) String() string {
	if s, ok := formatNames[f]; ok {
		return s
	}
	return "FORMAT(" + strconv.FormatUint(uint64(f), 10) + ")"
}

// Parse resolves a format name. The DXGI_FORMAT_ prefix and letter case are optional.
func Parse(name string) (Format, bool) {
	n := strings.ToUpper(strings.TrimSpace(name))
	n = strings.TrimPrefix(n, "DXGI_FORMAT_")
	for f, s := range formatNames {
		if s == n {
			return f, true
		}
	}
	return UNKNOWN, false
}
