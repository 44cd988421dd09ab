package scanline

import (
	"encoding/binary"
	"math"

	"github.com/deepteams/texcomp/internal/imgfmt"
	"github.com/deepteams/texcomp/internal/pixel"
)

// sharedExpLayout describes the per-format bit layout of a shared-exponent
// pixel: mantissa bits per channel, exponent bits, and exponent bias.
type sharedExpLayout struct {
	mantissaBits int
	expBits      int
	bias         int
}

func layoutFor(f imgfmt.Format) sharedExpLayout {
	switch f {
	case imgfmt.R10G10B10_7e3_A2_FLOAT:
		return sharedExpLayout{mantissaBits: 7, expBits: 3, bias: 3}
	case imgfmt.R10G10B10_6e4_A2_FLOAT:
		return sharedExpLayout{mantissaBits: 6, expBits: 4, bias: 7}
	default: // R9G9B9E5
		return sharedExpLayout{mantissaBits: 9, expBits: 5, bias: 15}
	}
}

// loadSharedExp decodes the 9e5 (and Xbox-only 7e3/6e4) shared-exponent
// formats per spec.md §4.C.
func loadSharedExp(d imgfmt.Descriptor, src []byte, dst []pixel.RGBAf) {
	lay := layoutFor(d.Format)
	for i := range dst {
		raw := binary.LittleEndian.Uint32(src[i*4:])
		mMask := uint32(1)<<uint(lay.mantissaBits) - 1
		r := raw & mMask
		g := (raw >> uint(lay.mantissaBits)) & mMask
		b := (raw >> uint(2*lay.mantissaBits)) & mMask
		e := (raw >> uint(3*lay.mantissaBits)) & (uint32(1)<<uint(lay.expBits) - 1)
		exp := float64(int(e) - lay.bias - lay.mantissaBits)
		scale := math.Pow(2, exp)
		dst[i] = pixel.RGBAf{
			R: float32(float64(r) * scale),
			G: float32(float64(g) * scale),
			B: float32(float64(b) * scale),
			A: 1,
		}
	}
}

// storeSharedExp re-derives a shared exponent from the maximum channel,
// saturating negative inputs to zero first, per spec.md §4.C.
func storeSharedExp(d imgfmt.Descriptor, src []pixel.RGBAf, dst []byte) {
	lay := layoutFor(d.Format)
	maxMantissa := float64(uint32(1)<<uint(lay.mantissaBits) - 1)
	maxExp := int(uint32(1)<<uint(lay.expBits) - 1)
	for i, p := range src {
		r := math.Max(0, float64(p.R))
		g := math.Max(0, float64(p.G))
		b := math.Max(0, float64(p.B))
		maxC := math.Max(r, math.Max(g, b))

		exp := 0
		if maxC > 0 {
			_, e := math.Frexp(maxC)
			exp = e + lay.bias
			// Adjust so maxC fits in mantissaBits after scaling.
			for exp > 0 {
				scale := math.Pow(2, float64(exp-lay.bias-lay.mantissaBits))
				if math.Round(maxC/scale) <= maxMantissa {
					break
				}
				exp++
			}
			if exp < 0 {
				exp = 0
			}
			if exp > maxExp {
				exp = maxExp
			}
		}
		scale := math.Pow(2, float64(exp-lay.bias-lay.mantissaBits))
		quant := func(v float64) uint32 {
			q := math.Round(v / scale)
			if q < 0 {
				q = 0
			}
			if q > maxMantissa {
				q = maxMantissa
			}
			return uint32(q)
		}
		raw := quant(r) | quant(g)<<uint(lay.mantissaBits) | quant(b)<<uint(2*lay.mantissaBits) | uint32(exp)<<uint(3*lay.mantissaBits)
		binary.LittleEndian.PutUint32(dst[i*4:], raw)
	}
}
