package optimize

import (
	"math"
	"testing"

	"github.com/deepteams/texcomp/internal/pixel"
)

func TestRGBSingleColour(t *testing.T) {
	samples := make([]pixel.RGBAf, 16)
	for i := range samples {
		samples[i] = pixel.RGBAf{R: 0.5, G: 0.5, B: 0.5, A: 1}
	}
	lo, hi := RGB(samples, 4, Uniform)
	for ch := 0; ch < 3; ch++ {
		if math.Abs(float64(lo[ch]-0.5)) > 1e-4 || math.Abs(float64(hi[ch]-0.5)) > 1e-4 {
			t.Errorf("ch %d: lo=%v hi=%v, want 0.5", ch, lo[ch], hi[ch])
		}
	}
}

func TestRGBGradientEndpoints(t *testing.T) {
	samples := make([]pixel.RGBAf, 16)
	for i := 0; i < 8; i++ {
		samples[i] = pixel.RGBAf{R: 1, G: 0, B: 0, A: 1}
	}
	for i := 8; i < 16; i++ {
		samples[i] = pixel.RGBAf{R: 0, G: 0, B: 1, A: 1}
	}
	lo, hi := RGB(samples, 4, Uniform)
	// One endpoint should land near red, the other near blue (order not guaranteed).
	near := func(v [3]float32, r, g, b float32) bool {
		return math.Abs(float64(v[0]-r)) < 0.05 && math.Abs(float64(v[1]-g)) < 0.05 && math.Abs(float64(v[2]-b)) < 0.05
	}
	if !((near(lo, 1, 0, 0) && near(hi, 0, 0, 1)) || (near(lo, 0, 0, 1) && near(hi, 1, 0, 0))) {
		t.Errorf("endpoints not near red/blue: lo=%v hi=%v", lo, hi)
	}
}

func TestAlphaBoundaryPreservation(t *testing.T) {
	samples := []float32{0, 1, 0.3, 0.6, 0.3, 0.6, 0.3, 0.6, 0.3, 0.6, 0.3, 0.6, 0.3, 0.6, 0.3, 0.6}
	lo, hi := Alpha(samples, 6, RangeUnsigned)
	if lo < 0.2 || lo > 0.4 {
		t.Errorf("lo = %v, want near 0.3", lo)
	}
	if hi < 0.5 || hi > 0.7 {
		t.Errorf("hi = %v, want near 0.6", hi)
	}
}

func TestAlphaSigned(t *testing.T) {
	samples := make([]float32, 16)
	for i := range samples {
		samples[i] = -1 + float32(i)*2.0/15
	}
	lo, hi := Alpha(samples, 8, RangeSigned)
	if math.Abs(float64(lo+1)) > 0.05 || math.Abs(float64(hi-1)) > 0.05 {
		t.Errorf("lo=%v hi=%v, want near -1/1", lo, hi)
	}
}
