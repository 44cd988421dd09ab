// Package bc15 implements component E: the classic DXTn block codecs
// BC1 (+ optional colour-key alpha), BC2, BC3, BC4 and BC5, per spec.md
// §4.E. BC1-BC3 share the BC1 colour body (a 4-entry, or 3-entry plus
// transparent, RGB palette) and the internal/optimize endpoint fit; BC2/BC3
// layer an alpha plane on top, and BC4/BC5 use only the scalar alpha codec
// for one or two independent channels.
package bc15

import (
	"encoding/binary"

	"github.com/deepteams/texcomp/internal/optimize"
	"github.com/deepteams/texcomp/internal/pixel"
)

// Flags controls BC1-3 encoding, per spec.md §6.
type Flags uint32

const (
	DitherRGB Flags = 0x00010000
	DitherA   Flags = 0x00020000
	Uniform   Flags = 0x00040000
)

// Options bundles the encode-time parameters for BC1 (and, via embedding,
// BC2/BC3).
type Options struct {
	Flags    Flags
	ColorKey bool    // enable the alpha<AlphaRef -> transparent-index path
	AlphaRef float32 // threshold for ColorKey; no default is applied, so zero keys no texel
}

func weights(f Flags) optimize.Weights {
	if f&Uniform != 0 {
		return optimize.Uniform
	}
	return optimize.Perceptual
}

// rgbFit wraps internal/optimize.RGB so bc1.go/bc3.go share one call site.
func rgbFit(samples []pixel.RGBAf, k int, w optimize.Weights) (lo, hi [3]float32) {
	return optimize.RGB(samples, k, w)
}

// quantizeToBits clamps a float to [0,1] and rounds it to an n-bit code;
// expandBits turns the code back into the bit-replicated float. Both are
// used by the dither pre-quantization pass.
func quantizeToBits(v float32, bits int) uint16 {
	maxV := float32((1 << uint(bits)) - 1)
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	return uint16(v*maxV + 0.5)
}

func expandBits(v uint16, bits int) float32 {
	maxV := float32((1 << uint(bits)) - 1)
	switch bits {
	case 4:
		return float32((v<<4)|v) / 255
	case 5:
		return float32((v<<3)|(v>>2)) / 255
	case 6:
		return float32((v<<2)|(v>>4)) / 255
	default:
		return float32(v) / maxV
	}
}

// ditherQuantizeRGB quantizes the 16 samples to the 5/6/5 grid before the
// endpoint fit, so that the candidates the optimiser sees already lie on
// that grid. Each texel's full quantization residual is added to the texel
// directly below it; no error is passed sideways or diagonally, so this is
// not the 7/3/5/1 Floyd-Steinberg kernel, and the alternating row direction
// does not change the result.
func ditherQuantizeRGB(block *pixel.Block) {
	var errR, errG, errB [4]float32 // residual carried down each column to the next row
	for y := 0; y < 4; y++ {
		forward := y%2 == 0
		xs := [4]int{0, 1, 2, 3}
		if !forward {
			xs = [4]int{3, 2, 1, 0}
		}
		for _, x := range xs {
			i := y*4 + x
			p := block[i]
			r := p.R + errR[x]
			g := p.G + errG[x]
			b := p.B + errB[x]
			qr := expandBits(quantizeToBits(r, 5), 5)
			qg := expandBits(quantizeToBits(g, 6), 6)
			qb := expandBits(quantizeToBits(b, 5), 5)
			block[i].R, block[i].G, block[i].B = qr, qg, qb
			errR[x] = r - qr
			errG[x] = g - qg
			errB[x] = b - qb
		}
	}
}

// Color565 is an RGB565-packed colour.
type Color565 uint16

// Pack565 quantizes a float RGB triple to 565.
func Pack565(r, g, b float32) Color565 {
	r5 := quantizeToBits(r, 5)
	g6 := quantizeToBits(g, 6)
	b5 := quantizeToBits(b, 5)
	return Color565(r5<<11 | g6<<5 | b5)
}

// Unpack565 expands a 565 colour to float RGB in [0,1].
func Unpack565(c Color565) (r, g, b float32) {
	r5 := uint16(c>>11) & 0x1f
	g6 := uint16(c>>5) & 0x3f
	b5 := uint16(c) & 0x1f
	return expandBits(r5, 5), expandBits(g6, 6), expandBits(b5, 5)
}

// palette4 builds the 4-entry opaque colour ramp for c0 > c1.
func palette4(c0, c1 Color565) [4][3]float32 {
	r0, g0, b0 := Unpack565(c0)
	r1, g1, b1 := Unpack565(c1)
	return [4][3]float32{
		{r0, g0, b0},
		{r1, g1, b1},
		{(2*r0 + r1) / 3, (2*g0 + g1) / 3, (2*b0 + b1) / 3},
		{(r0 + 2*r1) / 3, (g0 + 2*g1) / 3, (b0 + 2*b1) / 3},
	}
}

// palette3 builds the 3-entry + transparent ramp for c0 <= c1.
func palette3(c0, c1 Color565) [4][3]float32 {
	r0, g0, b0 := Unpack565(c0)
	r1, g1, b1 := Unpack565(c1)
	return [4][3]float32{
		{r0, g0, b0},
		{r1, g1, b1},
		{(r0 + r1) / 2, (g0 + g1) / 2, (b0 + b1) / 2},
		{0, 0, 0}, // transparent slot
	}
}

// reorder4 maps a t-quantized-to-3 step (0,1,2,3 meaning t=0,1/3,2/3,1) to
// the hardware palette index, per spec.md §4.E step 6.
var reorder4 = [4]int{0, 2, 3, 1}

// reorder3 maps a t-quantized-to-2 step (0,1,2 meaning t=0,1/2,1) to the
// hardware palette index.
var reorder3 = [3]int{0, 2, 1}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func dot3(a, b [3]float32) float32 { return a[0]*b[0] + a[1]*b[1] + a[2]*b[2] }
func sub3(a, b [3]float32) [3]float32 {
	return [3]float32{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func readU16(b []byte) uint16  { return binary.LittleEndian.Uint16(b) }
func writeU16(b []byte, v uint16) { binary.LittleEndian.PutUint16(b, v) }
func readU32(b []byte) uint32  { return binary.LittleEndian.Uint32(b) }
func writeU32(b []byte, v uint32) { binary.LittleEndian.PutUint32(b, v) }
