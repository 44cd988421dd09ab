// Package pixel defines the canonical pixel types shared by every codec in
// texcomp: the linear-light float pixel used as the computation format
// (RGBAf), the 8-bit-per-channel LDR pixel (RGBA8), and the signed integer
// HDR pixel used only by BC6H (INTColor).
package pixel

import (
	"math"

	"github.com/mrjoshuak/go-openexr/half"
)

// RGBAf is the canonical computation pixel: four channels in linear light,
// except where a scanline format is explicitly sRGB-encoded.
type RGBAf struct {
	R, G, B, A float32
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// RGBA8 is a 4-channel 8-bit-per-channel LDR pixel.
type RGBA8 struct {
	R, G, B, A uint8
}

// ToRGBAf expands an RGBA8 pixel with v/255 per channel.
func (p RGBA8) ToRGBAf() RGBAf {
	return RGBAf{
		R: float32(p.R) / 255,
		G: float32(p.G) / 255,
		B: float32(p.B) / 255,
		A: float32(p.A) / 255,
	}
}

// FromRGBAf narrows an RGBAf pixel to RGBA8, clamping to [0,1] then scaling
// and rounding.
func FromRGBAf(p RGBAf) RGBA8 {
	quant := func(v float32) uint8 {
		return uint8(math.Round(float64(clamp01(v)) * 255))
	}
	return RGBA8{R: quant(p.R), G: quant(p.G), B: quant(p.B), A: quant(p.A)}
}

// F16MAX is the largest representable magnitude for signed BC6H HDR data:
// the half-float bit pattern 0x7BFF (largest finite half below +Inf).
const F16MAX = 0x7BFF

// INTColor is the signed HDR integer pixel used by BC6H: each channel holds
// a half-float bit pattern reinterpreted as a signed 17-bit-range integer
// plus sign, clamped to F16MAX in magnitude. The fourth field pads the type
// to match the source's struct layout; BC6H carries no alpha.
type INTColor struct {
	R, G, B int32
	_       int32
}

// halfBitsSignedClamp extracts the sign of a half-float bit pattern and
// reapplies it to the magnitude (exponent+mantissa) field, clamping the
// magnitude to F16MAX. This matches the construction of INTColor from
// RGBAf described in spec §3: "the sign bit is extracted and applied to the
// magnitude of the exp+mantissa field, clamped to F16MAX".
func halfBitsSignedClamp(bits uint16) int32 {
	mag := int32(bits &^ 0x8000)
	if mag > F16MAX {
		mag = F16MAX
	}
	if bits&0x8000 != 0 {
		return -mag
	}
	return mag
}

// ToINTColor converts an RGBAf pixel to INTColor via the IEEE half-float
// path: each channel is converted to half, then its bits are reinterpreted
// as a signed magnitude+sign integer.
func ToINTColor(p RGBAf) INTColor {
	r := half.FromFloat32(p.R)
	g := half.FromFloat32(p.G)
	b := half.FromFloat32(p.B)
	return INTColor{
		R: halfBitsSignedClamp(uint16(r)),
		G: halfBitsSignedClamp(uint16(g)),
		B: halfBitsSignedClamp(uint16(b)),
	}
}

// FromINTColor converts an INTColor pixel back to RGBAf (alpha forced to 1,
// since BC6H carries no alpha channel) via the inverse half-float path.
func FromINTColor(c INTColor) RGBAf {
	toHalfBits := func(v int32) uint16 {
		if v < 0 {
			return uint16(0x8000 | (-v & 0x7fff))
		}
		return uint16(v & 0x7fff)
	}
	r := half.Half(toHalfBits(c.R)).Float32()
	g := half.Half(toHalfBits(c.G)).Float32()
	b := half.Half(toHalfBits(c.B)).Float32()
	return RGBAf{R: r, G: g, B: b, A: 1}
}

// Block is 16 pixels in row-major 4x4 order, the unit every BC codec
// consumes on encode and produces on decode.
type Block [16]RGBAf

// EndpointLDR is a pair of RGBA8 endpoints parameterising a palette line
// segment for the classic BC1-5 codecs.
type EndpointLDR struct {
	Lo, Hi RGBA8
}

// EndpointHDR is a pair of INTColor endpoints parameterising a palette line
// segment for BC6H.
type EndpointHDR struct {
	Lo, Hi INTColor
}

// Lerp blends two floats by t in [0,1].
func Lerp(a, b, t float32) float32 { return a + (b-a)*t }
