package scanline

import (
	"encoding/binary"
	"math"

	"github.com/deepteams/texcomp/internal/imgfmt"
	"github.com/deepteams/texcomp/internal/pixel"
)

// loadBGR handles the channel-order-swapped siblings of the RGB UNORM
// formats (B8G8R8A8, B8G8R8X8, B5G6R5, B5G5R5A1, B4G4R4A4). The dual-pixel
// formats are registered as ClassPacked, so Load reaches them through
// loadPacked, which calls the same loadDualPixel as the case below.
func loadBGR(d imgfmt.Descriptor, src []byte, dst []pixel.RGBAf, opt Options) {
	switch d.Format {
	case imgfmt.B8G8R8A8_UNORM, imgfmt.B8G8R8A8_UNORM_SRGB, imgfmt.B8G8R8X8_UNORM:
		for i := range dst {
			off := i * 4
			b := float32(src[off]) / 255
			g := float32(src[off+1]) / 255
			r := float32(src[off+2]) / 255
			a := float32(1)
			if d.HasAlpha {
				a = float32(src[off+3]) / 255
			}
			if d.IsSRGB || opt.SRGB {
				r, g, b = SRGBToLinear(r), SRGBToLinear(g), SRGBToLinear(b)
			}
			dst[i] = pixel.RGBAf{R: r, G: g, B: b, A: a}
		}
	case imgfmt.B5G6R5_UNORM:
		for i := range dst {
			v := binary.LittleEndian.Uint16(src[i*2:])
			b := float32(v&0x1f) / 31
			g := float32((v>>5)&0x3f) / 63
			r := float32((v>>11)&0x1f) / 31
			dst[i] = pixel.RGBAf{R: r, G: g, B: b, A: 1}
		}
	case imgfmt.B5G5R5A1_UNORM:
		for i := range dst {
			v := binary.LittleEndian.Uint16(src[i*2:])
			b := float32(v&0x1f) / 31
			g := float32((v>>5)&0x1f) / 31
			r := float32((v>>10)&0x1f) / 31
			a := float32((v >> 15) & 1)
			dst[i] = pixel.RGBAf{R: r, G: g, B: b, A: a}
		}
	case imgfmt.B4G4R4A4_UNORM:
		for i := range dst {
			v := binary.LittleEndian.Uint16(src[i*2:])
			b := float32(v&0xf) / 15
			g := float32((v>>4)&0xf) / 15
			r := float32((v>>8)&0xf) / 15
			a := float32((v>>12)&0xf) / 15
			dst[i] = pixel.RGBAf{R: r, G: g, B: b, A: a}
		}
	case imgfmt.G8R8_G8B8_UNORM, imgfmt.R8G8_B8G8_UNORM:
		loadDualPixel(d, src, dst)
	}
}

func storeBGR(d imgfmt.Descriptor, src []pixel.RGBAf, dst []byte, opt Options) {
	switch d.Format {
	case imgfmt.B8G8R8A8_UNORM, imgfmt.B8G8R8A8_UNORM_SRGB, imgfmt.B8G8R8X8_UNORM:
		for i, p := range src {
			r, g, b := p.R, p.G, p.B
			if d.IsSRGB || opt.SRGB {
				r, g, b = LinearToSRGB(r), LinearToSRGB(g), LinearToSRGB(b)
			}
			off := i * 4
			dst[off] = quant8(b)
			dst[off+1] = quant8(g)
			dst[off+2] = quant8(r)
			if d.HasAlpha {
				dst[off+3] = quant8(p.A)
			} else {
				dst[off+3] = 0xff
			}
		}
	case imgfmt.B5G6R5_UNORM:
		for i, p := range src {
			v := uint16(quant(p.B, 31)) | uint16(quant(p.G, 63))<<5 | uint16(quant(p.R, 31))<<11
			binary.LittleEndian.PutUint16(dst[i*2:], v)
		}
	case imgfmt.B5G5R5A1_UNORM:
		for i, p := range src {
			a := uint16(0)
			if p.A >= 0.5 {
				a = 1
			}
			v := uint16(quant(p.B, 31)) | uint16(quant(p.G, 31))<<5 | uint16(quant(p.R, 31))<<10 | a<<15
			binary.LittleEndian.PutUint16(dst[i*2:], v)
		}
	case imgfmt.B4G4R4A4_UNORM:
		for i, p := range src {
			v := uint16(quant(p.B, 15)) | uint16(quant(p.G, 15))<<4 | uint16(quant(p.R, 15))<<8 | uint16(quant(p.A, 15))<<12
			binary.LittleEndian.PutUint16(dst[i*2:], v)
		}
	case imgfmt.G8R8_G8B8_UNORM, imgfmt.R8G8_B8G8_UNORM:
		storeDualPixel(d, src, dst)
	}
}

func quant(v float32, max int) int {
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	return int(math.Round(float64(v) * float64(max)))
}

func quant8(v float32) uint8 { return uint8(quant(v, 255)) }

// loadDualPixel expands G8R8_G8B8 / R8G8_B8G8: each packed quadlet emits
// two RGB pixels with alpha defaulting to 1, per spec.md §4.C.
func loadDualPixel(d imgfmt.Descriptor, src []byte, dst []pixel.RGBAf) {
	for pair := 0; pair*2 < len(dst); pair++ {
		off := pair * 4
		var g0, r, g1, b uint8
		if d.Format == imgfmt.G8R8_G8B8_UNORM {
			g0, r, g1, b = src[off], src[off+1], src[off+2], src[off+3]
		} else {
			r, g0, b, g1 = src[off], src[off+1], src[off+2], src[off+3]
		}
		dst[pair*2] = pixel.RGBAf{R: f8(r), G: f8(g0), B: f8(b), A: 1}
		if pair*2+1 < len(dst) {
			dst[pair*2+1] = pixel.RGBAf{R: f8(r), G: f8(g1), B: f8(b), A: 1}
		}
	}
}

func storeDualPixel(d imgfmt.Descriptor, src []pixel.RGBAf, dst []byte) {
	for pair := 0; pair*2 < len(src); pair++ {
		p0 := src[pair*2]
		p1 := p0
		if pair*2+1 < len(src) {
			p1 = src[pair*2+1]
		}
		r := quant8((p0.R + p1.R) / 2)
		b := quant8((p0.B + p1.B) / 2)
		g0 := quant8(p0.G)
		g1 := quant8(p1.G)
		off := pair * 4
		if d.Format == imgfmt.G8R8_G8B8_UNORM {
			dst[off], dst[off+1], dst[off+2], dst[off+3] = g0, r, g1, b
		} else {
			dst[off], dst[off+1], dst[off+2], dst[off+3] = r, g0, b, g1
		}
	}
}

// loadXR implements the XR-BIAS format: f = (i - 0x180) / 510.
func loadXR(d imgfmt.Descriptor, src []byte, dst []pixel.RGBAf) {
	for i := range dst {
		off := i * 4
		raw := binary.LittleEndian.Uint32(src[off:])
		r := int((raw >> 2) & 0x3ff)
		g := int((raw >> 12) & 0x3ff)
		b := int((raw >> 22) & 0x3ff)
		a := float32(raw&0x3) / 3
		conv := func(v int) float32 { return (float32(v) - 0x180) / 510 }
		dst[i] = pixel.RGBAf{R: conv(r), G: conv(g), B: conv(b), A: a}
	}
}

func storeXR(d imgfmt.Descriptor, src []pixel.RGBAf, dst []byte) {
	for i, p := range src {
		conv := func(v float32) uint32 {
			q := int(math.Round(float64(v)*510 + 0x180))
			if q < 0 {
				q = 0
			} else if q > 0x3ff {
				q = 0x3ff
			}
			return uint32(q)
		}
		a := uint32(quant(p.A, 3))
		raw := a | conv(p.R)<<2 | conv(p.G)<<12 | conv(p.B)<<22
		binary.LittleEndian.PutUint32(dst[i*4:], raw)
	}
}

// loadDepthStencil normalises depth to [0,1] in channel R and exposes
// stencil (range [0,255]) in channel G, per spec.md §4.C.
func loadDepthStencil(d imgfmt.Descriptor, src []byte, dst []pixel.RGBAf) {
	switch d.Format {
	case imgfmt.D24_UNORM_S8_UINT:
		for i := range dst {
			raw := binary.LittleEndian.Uint32(src[i*4:])
			depth := float32(raw&0xffffff) / float32(1<<24-1)
			stencil := float32((raw >> 24) & 0xff)
			dst[i] = pixel.RGBAf{R: depth, G: stencil, A: 1}
		}
	case imgfmt.D32_FLOAT_S8X24_UINT:
		for i := range dst {
			off := i * 8
			depth := math.Float32frombits(binary.LittleEndian.Uint32(src[off:]))
			stencil := float32(src[off+4])
			dst[i] = pixel.RGBAf{R: depth, G: stencil, A: 1}
		}
	}
}

func storeDepthStencil(d imgfmt.Descriptor, src []pixel.RGBAf, dst []byte) {
	switch d.Format {
	case imgfmt.D24_UNORM_S8_UINT:
		for i, p := range src {
			depth := uint32(math.Round(float64(p.R) * float64(1<<24-1)))
			stencil := uint32(p.G)
			raw := depth&0xffffff | stencil<<24
			binary.LittleEndian.PutUint32(dst[i*4:], raw)
		}
	case imgfmt.D32_FLOAT_S8X24_UINT:
		for i, p := range src {
			off := i * 8
			binary.LittleEndian.PutUint32(dst[off:], math.Float32bits(p.R))
			dst[off+4] = uint8(p.G)
		}
	}
}
