package scanline

import (
	"math"
	"testing"

	"github.com/deepteams/texcomp/internal/imgfmt"
	"github.com/deepteams/texcomp/internal/pixel"
)

func TestUNORM8RoundTrip(t *testing.T) {
	src := []pixel.RGBAf{{R: 0.25, G: 0.5, B: 0.75, A: 1}}
	raw := make([]byte, 4)
	if !Store(imgfmt.R8G8B8A8_UNORM, src, raw, Options{}) {
		t.Fatal("store failed")
	}
	got := make([]pixel.RGBAf, 1)
	if !Load(imgfmt.R8G8B8A8_UNORM, raw, got, Options{}) {
		t.Fatal("load failed")
	}
	const tol = 1.0 / 255
	if math.Abs(float64(got[0].R-src[0].R)) > tol ||
		math.Abs(float64(got[0].G-src[0].G)) > tol ||
		math.Abs(float64(got[0].B-src[0].B)) > tol {
		t.Errorf("round trip = %+v, want ~%+v", got[0], src[0])
	}
}

func TestSRGBRoundTrip(t *testing.T) {
	for i := 0; i <= 255; i++ {
		x := float32(i) / 255
		got := SRGBToLinear(LinearToSRGB(x))
		if math.Abs(float64(got-x)) > 1.0/255+1e-6 {
			t.Fatalf("sRGB round trip at %v: got %v", x, got)
		}
	}
}

func TestOrderedDitherZeroMatrixBitExact(t *testing.T) {
	saved := bayer4x4
	defer func() { bayer4x4 = saved }()
	for y := range bayer4x4 {
		for x := range bayer4x4[y] {
			bayer4x4[y][x] = 8 // midpoint -> zero net offset
		}
	}
	src := []pixel.RGBAf{{R: 0.251, G: 0.501, B: 0.751, A: 1}}
	a := make([]byte, 4)
	b := make([]byte, 4)
	Store(imgfmt.R8G8B8A8_UNORM, src, a, Options{})
	Store(imgfmt.R8G8B8A8_UNORM, src, b, Options{Dither: DitherOrdered})
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("byte %d: no-dither=%d ordered(zero matrix)=%d", i, a[i], b[i])
		}
	}
}

func TestFormatRoundTripRGBA32F(t *testing.T) {
	src := []pixel.RGBAf{{R: 0.25, G: 0.5, B: 0.75, A: 1}}
	raw := make([]byte, 16)
	Store(imgfmt.R32G32B32A32_FLOAT, src, raw, Options{})
	mid := make([]pixel.RGBAf, 1)
	Load(imgfmt.R32G32B32A32_FLOAT, raw, mid, Options{})
	raw8 := make([]byte, 4)
	Store(imgfmt.R8G8B8A8_UNORM, mid, raw8, Options{})
	final := make([]pixel.RGBAf, 1)
	Load(imgfmt.R8G8B8A8_UNORM, raw8, final, Options{})
	const tol = 1.0 / 255
	if math.Abs(float64(final[0].R-0.25)) > tol || math.Abs(float64(final[0].G-0.5)) > tol || math.Abs(float64(final[0].B-0.75)) > tol {
		t.Errorf("final = %+v", final[0])
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	if Load(imgfmt.Format(-1), nil, nil, Options{}) {
		t.Fatal("expected false for unsupported format")
	}
}

func TestFloydSteinbergPropagateSymmetric(t *testing.T) {
	eb := NewErrorBuffer(4, 1)
	eb.BeginRow()
	eb.Propagate(0, 0, 1.0)
	sum := eb.cur[eb.idx(1, 0)] + eb.next[eb.idx(-1, 0)] + eb.next[eb.idx(0, 0)] + eb.next[eb.idx(1, 0)]
	if math.Abs(float64(sum-1.0)) > 1e-6 {
		t.Errorf("propagated weights sum = %v, want 1.0", sum)
	}
}
