// YUV/packed conversions for YUY2/Y210/Y216/AYUV/Y410/Y416 and the
// dual-pixel G8R8_G8B8/R8G8_B8G8 formats, per spec.md §4.C. The fixed
// ITU-R BT.601 integer matrix is grounded on the teacher's
// internal/dsp/yuv.go (kYScale/kRCr/kGCb/kGCr/kBCb and the kR/G/BBias
// constants), adapted here to operate on the 8/10/16-bit YUV quadlets the
// scanline layer needs rather than the VP8 8-bit-only macroblock path.
package scanline

import (
	"encoding/binary"

	"github.com/deepteams/texcomp/internal/imgfmt"
	"github.com/deepteams/texcomp/internal/pixel"
)

const (
	yuvFix  = 16
	kYScale = 19077
	kRCr    = 26149
	kGCb    = 6419
	kGCr    = 13320
	kBCb    = 33050
	kRBias  = 14234
	kGBias  = 8708
	kBBias  = 17685
)

func clip255(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

func multHi(v, coeff int) int { return (v * coeff) >> 8 }

func yuv8ToRGB(y, u, v int) (r, g, b uint8) {
	r = clip255((multHi(y, kYScale) + multHi(v, kRCr) - kRBias) >> 6)
	g = clip255((multHi(y, kYScale) - multHi(u, kGCb) - multHi(v, kGCr) + kGBias) >> 6)
	b = clip255((multHi(y, kYScale) + multHi(u, kBCb) - kBBias) >> 6)
	return
}

// rgbToYUV8 is the BT.601 forward matrix (from libwebp enc.c, ported by the
// teacher), shared by every YUV store path below.
func rgbToYUV8(r, g, b int) (y, u, v uint8) {
	yv := (16839*r + 33059*g + 6420*b + (16 << 16) + (1 << 15)) >> 16
	uv := (-9719*r - 19081*g + 28800*b + (128 << 16) + (1 << 15)) >> 16
	vv := (28800*r - 24116*g - 4684*b + (128 << 16) + (1 << 15)) >> 16
	return clip255(yv), clip255(uv), clip255(vv)
}

// loadPacked expands YUY2/Y210/Y216: each quadlet is two pixels sharing one
// chroma sample pair. The dual-pixel RGB formats are handed to loadDualPixel.
func loadPacked(d imgfmt.Descriptor, src []byte, dst []pixel.RGBAf) {
	if d.Format == imgfmt.G8R8_G8B8_UNORM || d.Format == imgfmt.R8G8_B8G8_UNORM {
		loadDualPixel(d, src, dst)
		return
	}
	bits := 8
	if d.Format != imgfmt.YUY2 {
		bits = 16
	}
	stride := 2
	if bits == 16 {
		stride = 4
	}
	shift := 0
	if d.Format == imgfmt.Y210 {
		shift = 6 // 10 significant bits left-justified in 16
	}
	for pair := 0; pair*2 < len(dst); pair++ {
		off := pair * stride * 2
		var y0, u, y1, v int
		if bits == 8 {
			y0 = int(src[off])
			u = int(src[off+1])
			y1 = int(src[off+2])
			v = int(src[off+3])
		} else {
			y0 = int(binary.LittleEndian.Uint16(src[off:])) >> shift
			u = int(binary.LittleEndian.Uint16(src[off+2:])) >> shift
			y1 = int(binary.LittleEndian.Uint16(src[off+4:])) >> shift
			v = int(binary.LittleEndian.Uint16(src[off+6:])) >> shift
			// Normalise to 8-bit range for the integer matrix.
			norm := 2 // Y210: 10 significant bits after the shift above
			if d.Format == imgfmt.Y216 {
				norm = 8
			}
			y0 >>= norm
			u >>= norm
			y1 >>= norm
			v >>= norm
		}
		r0, g0, b0 := yuv8ToRGB(y0, u, v)
		dst[pair*2] = pixel.RGBAf{R: f8(r0), G: f8(g0), B: f8(b0), A: 1}
		if pair*2+1 < len(dst) {
			r1, g1, b1 := yuv8ToRGB(y1, u, v)
			dst[pair*2+1] = pixel.RGBAf{R: f8(r1), G: f8(g1), B: f8(b1), A: 1}
		}
	}
}

// storePacked narrows RGBAf pairs back to a packed quadlet, averaging the
// two chroma samples per spec.md §4.C. The dual-pixel RGB formats are
// handed to storeDualPixel.
func storePacked(d imgfmt.Descriptor, src []pixel.RGBAf, dst []byte) {
	if d.Format == imgfmt.G8R8_G8B8_UNORM || d.Format == imgfmt.R8G8_B8G8_UNORM {
		storeDualPixel(d, src, dst)
		return
	}
	bits := 8
	if d.Format != imgfmt.YUY2 {
		bits = 16
	}
	stride := 2
	if bits == 16 {
		stride = 4
	}
	shift := 0
	if d.Format == imgfmt.Y210 {
		shift = 6
	}
	for pair := 0; pair*2 < len(src); pair++ {
		p0 := src[pair*2]
		p1 := p0
		if pair*2+1 < len(src) {
			p1 = src[pair*2+1]
		}
		y0, u0, v0 := rgbToYUV8(i8(p0.R), i8(p0.G), i8(p0.B))
		y1, u1, v1 := rgbToYUV8(i8(p1.R), i8(p1.G), i8(p1.B))
		u := uint8((int(u0) + int(u1)) / 2)
		v := uint8((int(v0) + int(v1)) / 2)
		off := pair * stride * 2
		if bits == 8 {
			dst[off] = y0
			dst[off+1] = u
			dst[off+2] = y1
			dst[off+3] = v
		} else {
			binary.LittleEndian.PutUint16(dst[off:], uint16(int(y0)<<8)>>shift<<shift)
			binary.LittleEndian.PutUint16(dst[off+2:], uint16(int(u)<<8)>>shift<<shift)
			binary.LittleEndian.PutUint16(dst[off+4:], uint16(int(y1)<<8)>>shift<<shift)
			binary.LittleEndian.PutUint16(dst[off+6:], uint16(int(v)<<8)>>shift<<shift)
		}
	}
}

func f8(v uint8) float32 { return float32(v) / 255 }
func i8(v float32) int {
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	return int(v*255 + 0.5)
}

// loadYUVSingle handles AYUV/Y410/Y416: one YUV(A) pixel per element.
func loadYUVSingle(d imgfmt.Descriptor, src []byte, dst []pixel.RGBAf) {
	for i := range dst {
		var y, u, v, a int
		switch d.Format {
		case imgfmt.AYUV:
			off := i * 4
			v = int(src[off])
			u = int(src[off+1])
			y = int(src[off+2])
			a = int(src[off+3])
			r, g, b := yuv8ToRGB(y, u, v)
			dst[i] = pixel.RGBAf{R: f8(r), G: f8(g), B: f8(b), A: f8(uint8(a))}
			continue
		case imgfmt.Y410:
			off := i * 4
			raw := binary.LittleEndian.Uint32(src[off:])
			u = int(raw & 0x3ff)
			y = int((raw >> 10) & 0x3ff)
			v = int((raw >> 20) & 0x3ff)
			a = int((raw >> 30) & 0x3)
			r, g, b := yuv8ToRGB(y>>2, u>>2, v>>2)
			dst[i] = pixel.RGBAf{R: f8(r), G: f8(g), B: f8(b), A: float32(a) / 3}
			continue
		case imgfmt.Y416:
			off := i * 8
			u = int(binary.LittleEndian.Uint16(src[off:]))
			y = int(binary.LittleEndian.Uint16(src[off+2:]))
			v = int(binary.LittleEndian.Uint16(src[off+4:]))
			a = int(binary.LittleEndian.Uint16(src[off+6:]))
			r, g, b := yuv8ToRGB(y>>8, u>>8, v>>8)
			dst[i] = pixel.RGBAf{R: f8(r), G: f8(g), B: f8(b), A: float32(a) / 65535}
		}
	}
}

func storeYUVSingle(d imgfmt.Descriptor, src []pixel.RGBAf, dst []byte) {
	for i, p := range src {
		y, u, v := rgbToYUV8(i8(p.R), i8(p.G), i8(p.B))
		switch d.Format {
		case imgfmt.AYUV:
			off := i * 4
			dst[off] = v
			dst[off+1] = u
			dst[off+2] = y
			dst[off+3] = uint8(i8(p.A))
		case imgfmt.Y410:
			off := i * 4
			a := uint32(p.A*3 + 0.5)
			raw := uint32(u)<<2 | uint32(y)<<12 | uint32(v)<<22 | a<<30
			binary.LittleEndian.PutUint32(dst[off:], raw)
		case imgfmt.Y416:
			off := i * 8
			binary.LittleEndian.PutUint16(dst[off:], uint16(u)<<8)
			binary.LittleEndian.PutUint16(dst[off+2:], uint16(y)<<8)
			binary.LittleEndian.PutUint16(dst[off+4:], uint16(v)<<8)
			binary.LittleEndian.PutUint16(dst[off+6:], uint16(p.A*65535+0.5))
		}
	}
}
