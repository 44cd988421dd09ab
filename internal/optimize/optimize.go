// Package optimize implements the Newton-style endpoint fitting of
// spec.md §4.D: given 16 colour samples and a palette size k, find the
// two endpoints whose interpolated palette best approximates the samples
// in a least-squares sense. Used by internal/bc15 (RGB/alpha) and
// internal/bc6h/internal/bc7 (RGB and RGBA variants).
package optimize

import "github.com/deepteams/texcomp/internal/pixel"

// Weights selects uniform or perceptual channel weighting.
type Weights struct {
	R, G, B, A float32
}

// Uniform weighs every channel equally.
var Uniform = Weights{R: 1, G: 1, B: 1, A: 1}

// Perceptual applies the weights from spec.md §4.D:
// R = 0.2125/0.7154, G = 1, B = 0.0721/0.7154.
var Perceptual = Weights{R: 0.2125 / 0.7154, G: 1, B: 0.0721 / 0.7154, A: 1}

const epsilon = float32(1.0 / 256.0 / 256.0)

// RGB fits a 3-channel endpoint pair to 16 RGB samples (spec.md §4.D step
// 1-5). k is the palette size (3 or 4). w selects channel weighting.
func RGB(samples []pixel.RGBAf, k int, w Weights) (lo, hi [3]float32) {
	pts := make([][3]float32, len(samples))
	for i, s := range samples {
		pts[i] = [3]float32{s.R * w.R, s.G * w.G, s.B * w.B}
	}
	lo3, hi3 := fitLine3(pts, k)
	return [3]float32{lo3[0] / w.R, lo3[1] / w.G, lo3[2] / w.B},
		[3]float32{hi3[0] / w.R, hi3[1] / w.G, hi3[2] / w.B}
}

// RGBA fits a 4-channel endpoint pair, used by BC7 when alpha shares the
// RGB palette (k > 1).
func RGBA(samples []pixel.RGBAf, k int, w Weights) (lo, hi [4]float32) {
	pts := make([][4]float32, len(samples))
	for i, s := range samples {
		pts[i] = [4]float32{s.R * w.R, s.G * w.G, s.B * w.B, s.A * w.A}
	}
	lo4, hi4 := fitLine4(pts, k)
	return [4]float32{lo4[0] / w.R, lo4[1] / w.G, lo4[2] / w.B, lo4[3] / w.A},
		[4]float32{hi4[0] / w.R, hi4[1] / w.G, hi4[2] / w.B, hi4[3] / w.A}
}

func min3(a, b [3]float32) [3]float32 {
	for i := range a {
		if b[i] < a[i] {
			a[i] = b[i]
		}
	}
	return a
}
func max3(a, b [3]float32) [3]float32 {
	for i := range a {
		if b[i] > a[i] {
			a[i] = b[i]
		}
	}
	return a
}

func sub3(a, b [3]float32) [3]float32 {
	return [3]float32{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}
func dot3(a, b [3]float32) float32 { return a[0]*b[0] + a[1]*b[1] + a[2]*b[2] }

// fitLine3 runs the full 3-channel Newton fit described in spec.md §4.D.
func fitLine3(samples [][3]float32, k int) (lo, hi [3]float32) {
	if len(samples) == 0 {
		return
	}
	lo, hi = samples[0], samples[0]
	for _, s := range samples[1:] {
		lo = min3(lo, s)
		hi = max3(hi, s)
	}

	dir := sub3(hi, lo)
	lenSq := dot3(dir, dir)
	if lenSq < minFloat32 {
		return lo, hi // single-colour block
	}

	mid := [3]float32{(lo[0] + hi[0]) / 2, (lo[1] + hi[1]) / 2, (lo[2] + hi[2]) / 2}
	// Choose the best of the four sign combinations of the diagonal by
	// scoring the projection of each sample onto each axis flip.
	bestScore := float32(-1)
	bestFlipG, bestFlipB := false, false
	for _, flipG := range []bool{false, true} {
		for _, flipB := range []bool{false, true} {
			d := dir
			if flipG {
				d[1] = -d[1]
			}
			if flipB {
				d[2] = -d[2]
			}
			var score float32
			for _, s := range samples {
				diff := sub3(s, mid)
				proj := dot3(diff, d)
				score += proj * proj
			}
			if score > bestScore {
				bestScore = score
				bestFlipG, bestFlipB = flipG, flipB
			}
		}
	}
	if bestFlipG {
		hi[1], lo[1] = lo[1], hi[1]
	}
	if bestFlipB {
		hi[2], lo[2] = lo[2], hi[2]
	}

	if lenSq < 1.0/4096 {
		return lo, hi // two-colour block
	}

	for iter := 0; iter < 8; iter++ {
		palette := make([][3]float32, k)
		for i := 0; i < k; i++ {
			t := float32(i) / float32(k-1)
			palette[i] = [3]float32{
				lo[0] + (hi[0]-lo[0])*t,
				lo[1] + (hi[1]-lo[1])*t,
				lo[2] + (hi[2]-lo[2])*t,
			}
		}
		var dLo2, dHi2 [3]float32
		var gLo, gHi [3]float32
		totalErr := float32(0)
		for _, s := range samples {
			bestIdx, bestD := 0, float32(1e30)
			for i, p := range palette {
				d := sub3(s, p)
				dd := dot3(d, d)
				if dd < bestD {
					bestD, bestIdx = dd, i
				}
			}
			totalErr += bestD
			c := float32(k-1-bestIdx) / float32(k-1)
			dd := float32(bestIdx) / float32(k-1)
			diff := sub3(palette[bestIdx], s)
			for ch := 0; ch < 3; ch++ {
				gLo[ch] += c * diff[ch]
				gHi[ch] += dd * diff[ch]
				dLo2[ch] += c * c
				dHi2[ch] += dd * dd
			}
		}
		_ = totalErr
		allSmall := true
		for ch := 0; ch < 3; ch++ {
			if dLo2[ch] > 0 {
				step := -gLo[ch] / dLo2[ch] / 8
				lo[ch] += step
				if abs32(gLo[ch]) > epsilon {
					allSmall = false
				}
			}
			if dHi2[ch] > 0 {
				step := -gHi[ch] / dHi2[ch] / 8
				hi[ch] += step
				if abs32(gHi[ch]) > epsilon {
					allSmall = false
				}
			}
		}
		if allSmall {
			break
		}
	}
	return lo, hi
}

func fitLine4(samples [][4]float32, k int) (lo, hi [4]float32) {
	if len(samples) == 0 {
		return
	}
	lo, hi = samples[0], samples[0]
	for _, s := range samples[1:] {
		for ch := 0; ch < 4; ch++ {
			if s[ch] < lo[ch] {
				lo[ch] = s[ch]
			}
			if s[ch] > hi[ch] {
				hi[ch] = s[ch]
			}
		}
	}
	var dir, mid [4]float32
	lenSq := float32(0)
	for ch := 0; ch < 4; ch++ {
		dir[ch] = hi[ch] - lo[ch]
		mid[ch] = (lo[ch] + hi[ch]) / 2
		lenSq += dir[ch] * dir[ch]
	}
	if lenSq < minFloat32 {
		return lo, hi
	}

	bestScore := float32(-1)
	var bestFlip [4]bool
	for f1 := 0; f1 < 2; f1++ {
		for f2 := 0; f2 < 2; f2++ {
			for f3 := 0; f3 < 2; f3++ {
				for f4 := 0; f4 < 2; f4++ {
					flips := [4]bool{f1 == 1, f2 == 1, f3 == 1, f4 == 1}
					d := dir
					for ch, f := range flips {
						if f {
							d[ch] = -d[ch]
						}
					}
					var score float32
					for _, s := range samples {
						var proj float32
						for ch := 0; ch < 4; ch++ {
							proj += (s[ch] - mid[ch]) * d[ch]
						}
						score += proj * proj
					}
					if score > bestScore {
						bestScore = score
						bestFlip = flips
					}
				}
			}
		}
	}
	for ch, f := range bestFlip {
		if ch == 0 {
			continue // the first axis defines the reference direction, never flipped
		}
		if f {
			hi[ch], lo[ch] = lo[ch], hi[ch]
		}
	}

	if lenSq < 1.0/4096 {
		return lo, hi
	}

	for iter := 0; iter < 8; iter++ {
		palette := make([][4]float32, k)
		for i := 0; i < k; i++ {
			t := float32(i) / float32(k-1)
			for ch := 0; ch < 4; ch++ {
				palette[i][ch] = lo[ch] + (hi[ch]-lo[ch])*t
			}
		}
		var dLo2, dHi2, gLo, gHi [4]float32
		for _, s := range samples {
			bestIdx, bestD := 0, float32(1e30)
			for i, p := range palette {
				var dd float32
				for ch := 0; ch < 4; ch++ {
					d := s[ch] - p[ch]
					dd += d * d
				}
				if dd < bestD {
					bestD, bestIdx = dd, i
				}
			}
			c := float32(k-1-bestIdx) / float32(k-1)
			dd := float32(bestIdx) / float32(k-1)
			for ch := 0; ch < 4; ch++ {
				diff := palette[bestIdx][ch] - s[ch]
				gLo[ch] += c * diff
				gHi[ch] += dd * diff
				dLo2[ch] += c * c
				dHi2[ch] += dd * dd
			}
		}
		allSmall := true
		for ch := 0; ch < 4; ch++ {
			if dLo2[ch] > 0 {
				lo[ch] += -gLo[ch] / dLo2[ch] / 8
				if abs32(gLo[ch]) > epsilon {
					allSmall = false
				}
			}
			if dHi2[ch] > 0 {
				hi[ch] += -gHi[ch] / dHi2[ch] / 8
				if abs32(gHi[ch]) > epsilon {
					allSmall = false
				}
			}
		}
		if allSmall {
			break
		}
	}
	return lo, hi
}

const minFloat32 = 1.1754944e-38 // FLT_MIN

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
