package optimize

// Range selects the scalar domain for the alpha/single-channel optimiser.
type Range int

const (
	RangeUnsigned Range = iota // [0, 1]
	RangeSigned                // [-1, 1]
)

// Alpha fits a scalar endpoint pair to 16 single-channel samples, per
// spec.md §4.D's optimize_alpha(range, k). k is 6 or 8. For k=6, two extra
// palette entries are fixed at the range boundaries (0/1 unsigned, -1/1
// signed) and the min/max scan excludes samples equal to those boundary
// values, preserving them exactly.
func Alpha(samples []float32, k int, rng Range) (lo, hi float32) {
	var boundLo, boundHi float32 = 0, 1
	if rng == RangeSigned {
		boundLo, boundHi = -1, 1
	}
	if len(samples) == 0 {
		return boundLo, boundHi
	}

	first := true
	for _, s := range samples {
		if k == 6 && (s == boundLo || s == boundHi) {
			continue
		}
		if first {
			lo, hi = s, s
			first = false
			continue
		}
		if s < lo {
			lo = s
		}
		if s > hi {
			hi = s
		}
	}
	if first {
		// every sample was a boundary value
		lo, hi = boundLo, boundHi
	}

	if hi-lo < 1.0/4096 {
		return lo, hi
	}

	// k interpolated entries span [lo,hi]; when k==6 two more entries fixed
	// at the range boundary are appended, matching BC3's 6-ramp+2-boundary
	// 8-slot alpha palette (spec.md §4.E).
	for iter := 0; iter < 8; iter++ {
		palette := make([]float32, k)
		for i := 0; i < k; i++ {
			t := float32(i) / float32(k-1)
			palette[i] = lo + (hi-lo)*t
		}
		if k == 6 {
			palette = append(palette, boundLo, boundHi)
		}
		var dLo2, dHi2, gLo, gHi float32
		for _, s := range samples {
			bestIdx, bestD := 0, float32(1e30)
			for i, p := range palette {
				d := s - p
				dd := d * d
				if dd < bestD {
					bestD, bestIdx = dd, i
				}
			}
			if bestIdx >= k {
				continue // boundary entries are fixed, not part of the fit
			}
			c := float32(k-1-bestIdx) / float32(k-1)
			d := float32(bestIdx) / float32(k-1)
			diff := palette[bestIdx] - s
			gLo += c * diff
			gHi += d * diff
			dLo2 += c * c
			dHi2 += d * d
		}
		allSmall := true
		if dLo2 > 0 {
			lo += -gLo / dLo2 / 8
			if abs32(gLo) > epsilon {
				allSmall = false
			}
		}
		if dHi2 > 0 {
			hi += -gHi / dHi2 / 8
			if abs32(gHi) > epsilon {
				allSmall = false
			}
		}
		if allSmall {
			break
		}
	}
	return lo, hi
}
