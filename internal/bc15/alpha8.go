package bc15

import "github.com/deepteams/texcomp/internal/optimize"

// alphaBlockSize is the packed size of the 8-byte scalar-alpha block shared
// by BC3's alpha plane, BC4 and BC5: two endpoint bytes followed by 16
// 3-bit indices, per spec.md §4.E.
const alphaBlockSize = 8

// Range selects the scalar domain for the shared alpha codec.
type Range = optimize.Range

const (
	unsignedRange = optimize.RangeUnsigned
	signedRange   = optimize.RangeSigned
)

// packAlpha8 builds the shared scalar-alpha block for 16 samples in
// unsigned [0,1] or signed [-1,1] space. It tries both the plain 8-entry
// ramp and the 6-entry-ramp-plus-2-boundary layout and keeps whichever
// fits the samples better, per spec.md §4.E.
func packAlpha8(samples []float32, rng Range) [alphaBlockSize]byte {
	lo8, hi8 := optimize.Alpha(samples, 8, rng)
	lo6, hi6 := optimize.Alpha(samples, 6, rng)

	pal8 := rampPalette(quantizeScalar(hi8, rng), quantizeScalar(lo8, rng), 8, rng)
	pal6 := rampPalette(quantizeScalar(lo6, rng), quantizeScalar(hi6, rng), 6, rng)

	var out [alphaBlockSize]byte
	var palette []float32
	if alphaError(samples, pal8) <= alphaError(samples, pal6) {
		out[0] = quantizeScalar(hi8, rng)
		out[1] = quantizeScalar(lo8, rng)
		palette = pal8
	} else {
		out[0] = quantizeScalar(lo6, rng)
		out[1] = quantizeScalar(hi6, rng)
		palette = pal6
	}

	var indices uint64
	for i, s := range samples {
		best, bestD := 0, float32(1e30)
		for pi, p := range palette {
			d := s - p
			dd := d * d
			if dd < bestD {
				bestD, best = dd, pi
			}
		}
		indices |= uint64(best) << uint(i*3)
	}
	for i := 0; i < 6; i++ {
		out[2+i] = byte(indices >> uint(i*8))
	}
	return out
}

// unpackAlpha8 expands the shared scalar-alpha block back to 16 samples.
func unpackAlpha8(in *[alphaBlockSize]byte, rng Range) []float32 {
	e0, e1 := in[0], in[1]
	k := 8
	if !byteGreater(e0, e1, rng) {
		k = 6
	}
	palette := rampPalette(e0, e1, k, rng)

	var indices uint64
	for i := 0; i < 6; i++ {
		indices |= uint64(in[2+i]) << uint(i*8)
	}
	out := make([]float32, 16)
	for i := range out {
		idx := (indices >> uint(i*3)) & 0x7
		out[i] = palette[idx]
	}
	return out
}

func alphaError(samples, palette []float32) float32 {
	var total float32
	for _, s := range samples {
		best := float32(1e30)
		for _, p := range palette {
			d := s - p
			if d*d < best {
				best = d * d
			}
		}
		total += best
	}
	return total
}

// rampPalette builds the 8-entry palette from raw endpoint bytes e0,e1 in
// their encoded-slot order (slot0=e0, slot1=e1), matching the teacher's
// decode-side convention: k==8 means a full interpolated ramp from e0 down
// to e1; k==6 means a 6-entry ramp plus the two range-boundary values.
func rampPalette(e0, e1 byte, k int, rng Range) []float32 {
	v0 := unquantizeScalar(e0, rng)
	v1 := unquantizeScalar(e1, rng)
	palette := make([]float32, 8)
	for i := 0; i < k; i++ {
		t := float32(i) / float32(k-1)
		palette[i] = v0 + (v1-v0)*t
	}
	if k == 6 {
		if rng == signedRange {
			palette[6], palette[7] = -1, 1
		} else {
			palette[6], palette[7] = 0, 1
		}
	}
	return palette
}

func byteGreater(e0, e1 byte, rng Range) bool {
	if rng == signedRange {
		return int8(e0) > int8(e1)
	}
	return e0 > e1
}

func quantizeScalar(v float32, rng Range) byte {
	if rng == signedRange {
		if v < -1 {
			v = -1
		} else if v > 1 {
			v = 1
		}
		var q int32
		if v >= 0 {
			q = int32(v*127 + 0.5)
		} else {
			q = int32(v*127 - 0.5)
		}
		if q == -128 {
			q = -127 // spec.md §4.E: signed alpha clamps -128 to -127
		}
		return byte(int8(q))
	}
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	return byte(v*255 + 0.5)
}

func unquantizeScalar(b byte, rng Range) float32 {
	if rng == signedRange {
		v := int8(b)
		if v == -128 {
			v = -127
		}
		return float32(v) / 127
	}
	return float32(b) / 255
}
