package dds

import "encoding/binary"

const (
	Magic = 0x20534444 // "DDS "

	HeaderSize      = 124
	PixelFormatSize = 32
	DX10HeaderSize  = 20

	// pixel format record offset inside the 124-byte header
	pixelFormatOffset = 72
)

// Header flags.
const (
	DDSD_CAPS        = 0x1
	DDSD_HEIGHT      = 0x2
	DDSD_WIDTH       = 0x4
	DDSD_PITCH       = 0x8
	DDSD_PIXELFORMAT = 0x1000
	DDSD_MIPMAPCOUNT = 0x20000
	DDSD_LINEARSIZE  = 0x80000
	DDSD_DEPTH       = 0x800000

	ddsdTexture = DDSD_CAPS | DDSD_HEIGHT | DDSD_WIDTH | DDSD_PIXELFORMAT
)

// Pixel format flags.
const (
	DDPF_ALPHAPIXELS = 0x1
	DDPF_ALPHA       = 0x2
	DDPF_FOURCC      = 0x4
	DDPF_PAL8        = 0x20
	DDPF_RGB         = 0x40
	DDPF_LUMINANCE   = 0x20000
	DDPF_BUMPDUDV    = 0x80000

	ddpfRGBA       = DDPF_RGB | DDPF_ALPHAPIXELS
	ddpfLuminanceA = DDPF_LUMINANCE | DDPF_ALPHAPIXELS
)

// Caps and caps2 bits.
const (
	DDSCAPS_COMPLEX = 0x8
	DDSCAPS_TEXTURE = 0x1000
	DDSCAPS_MIPMAP  = 0x400000

	DDSCAPS2_CUBEMAP           = 0x200
	DDSCAPS2_CUBEMAP_POSITIVEX = 0x400 | DDSCAPS2_CUBEMAP
	DDSCAPS2_CUBEMAP_NEGATIVEX = 0x800 | DDSCAPS2_CUBEMAP
	DDSCAPS2_CUBEMAP_POSITIVEY = 0x1000 | DDSCAPS2_CUBEMAP
	DDSCAPS2_CUBEMAP_NEGATIVEY = 0x2000 | DDSCAPS2_CUBEMAP
	DDSCAPS2_CUBEMAP_POSITIVEZ = 0x4000 | DDSCAPS2_CUBEMAP
	DDSCAPS2_CUBEMAP_NEGATIVEZ = 0x8000 | DDSCAPS2_CUBEMAP
	DDSCAPS2_CUBEMAP_ALLFACES  = DDSCAPS2_CUBEMAP_POSITIVEX | DDSCAPS2_CUBEMAP_NEGATIVEX |
		DDSCAPS2_CUBEMAP_POSITIVEY | DDSCAPS2_CUBEMAP_NEGATIVEY |
		DDSCAPS2_CUBEMAP_POSITIVEZ | DDSCAPS2_CUBEMAP_NEGATIVEZ
	DDSCAPS2_VOLUME = 0x200000
)

// MakeFourCC packs four characters the way DDS stores them.
func MakeFourCC(a, b, c, d byte) uint32 {
	return uint32(a) | uint32(b)<<8 | uint32(c)<<16 | uint32(d)<<24
}

var fourCCDX10 = MakeFourCC('D', 'X', '1', '0')

// PixelFormat is the 32-byte legacy pixel format record.
type PixelFormat struct {
	Size        uint32
	Flags       uint32
	FourCC      uint32
	RGBBitCount uint32
	RBitMask    uint32
	GBitMask    uint32
	BBitMask    uint32
	ABitMask    uint32
}

// Header is the 124-byte legacy header that follows the magic.
type Header struct {
	Size              uint32
	Flags             uint32
	Height            uint32
	Width             uint32
	PitchOrLinearSize uint32
	Depth             uint32
	MipMapCount       uint32
	Reserved1         [11]uint32
	PixelFormat       PixelFormat
	Caps              uint32
	Caps2             uint32
	Caps3             uint32
	Caps4             uint32
	Reserved2         uint32
}

// HeaderDX10 is the optional extension present when the FourCC is "DX10".
type HeaderDX10 struct {
	DXGIFormat        uint32
	ResourceDimension uint32
	MiscFlag          uint32
	ArraySize         uint32
	MiscFlags2        uint32
}

func u32(b []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(b[off:])
}

func putU32(b []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(b[off:], v)
}

// parseHeader reads the fields of a 124-byte header by offset.
func parseHeader(b []byte) Header {
	h := Header{
		Size:              u32(b, 0),
		Flags:             u32(b, 4),
		Height:            u32(b, 8),
		Width:             u32(b, 12),
		PitchOrLinearSize: u32(b, 16),
		Depth:             u32(b, 20),
		MipMapCount:       u32(b, 24),
		Caps:              u32(b, 104),
		Caps2:             u32(b, 108),
		Caps3:             u32(b, 112),
		Caps4:             u32(b, 116),
		Reserved2:         u32(b, 120),
	}
	for i := range h.Reserved1 {
		h.Reserved1[i] = u32(b, 28+4*i)
	}
	pf := b[pixelFormatOffset : pixelFormatOffset+PixelFormatSize]
	h.PixelFormat = PixelFormat{
		Size:        u32(pf, 0),
		Flags:       u32(pf, 4),
		FourCC:      u32(pf, 8),
		RGBBitCount: u32(pf, 12),
		RBitMask:    u32(pf, 16),
		GBitMask:    u32(pf, 20),
		BBitMask:    u32(pf, 24),
		ABitMask:    u32(pf, 28),
	}
	return h
}

func (h *Header) marshal(b []byte) {
	putU32(b, 0, h.Size)
	putU32(b, 4, h.Flags)
	putU32(b, 8, h.Height)
	putU32(b, 12, h.Width)
	putU32(b, 16, h.PitchOrLinearSize)
	putU32(b, 20, h.Depth)
	putU32(b, 24, h.MipMapCount)
	for i, v := range h.Reserved1 {
		putU32(b, 28+4*i, v)
	}
	pf := b[pixelFormatOffset:]
	putU32(pf, 0, h.PixelFormat.Size)
	putU32(pf, 4, h.PixelFormat.Flags)
	putU32(pf, 8, h.PixelFormat.FourCC)
	putU32(pf, 12, h.PixelFormat.RGBBitCount)
	putU32(pf, 16, h.PixelFormat.RBitMask)
	putU32(pf, 20, h.PixelFormat.GBitMask)
	putU32(pf, 24, h.PixelFormat.BBitMask)
	putU32(pf, 28, h.PixelFormat.ABitMask)
	putU32(b, 104, h.Caps)
	putU32(b, 108, h.Caps2)
	putU32(b, 112, h.Caps3)
	putU32(b, 116, h.Caps4)
	putU32(b, 120, h.Reserved2)
}

func parseHeaderDX10(b []byte) HeaderDX10 {
	return HeaderDX10{
		DXGIFormat:        u32(b, 0),
		ResourceDimension: u32(b, 4),
		MiscFlag:          u32(b, 8),
		ArraySize:         u32(b, 12),
		MiscFlags2:        u32(b, 16),
	}
}

func (e *HeaderDX10) marshal(b []byte) {
	putU32(b, 0, e.DXGIFormat)
	putU32(b, 4, e.ResourceDimension)
	putU32(b, 8, e.MiscFlag)
	putU32(b, 12, e.ArraySize)
	putU32(b, 16, e.MiscFlags2)
}
