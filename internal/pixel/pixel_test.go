package pixel

import "testing"

func TestRGBA8RoundTrip(t *testing.T) {
	in := RGBA8{R: 10, G: 128, B: 255, A: 0}
	f := in.ToRGBAf()
	out := FromRGBAf(f)
	if out != in {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}
}

func TestFromRGBAfClamps(t *testing.T) {
	out := FromRGBAf(RGBAf{R: -1, G: 2, B: 0.5, A: 1})
	if out.R != 0 || out.G != 255 {
		t.Errorf("clamp failed: %+v", out)
	}
}

func TestINTColorRoundTrip(t *testing.T) {
	in := RGBAf{R: 0.25, G: 1.5, B: 0, A: 1}
	ic := ToINTColor(in)
	out := FromINTColor(ic)
	const tol = 1e-3
	if abs32(out.R-in.R) > tol || abs32(out.G-in.G) > tol || abs32(out.B-in.B) > tol {
		t.Errorf("round trip = %+v, want ~%+v", out, in)
	}
}

func TestINTColorZero(t *testing.T) {
	ic := ToINTColor(RGBAf{R: 0, G: 0, B: 0, A: 1})
	out := FromINTColor(ic)
	if out.R != 0 || out.G != 0 || out.B != 0 {
		t.Errorf("zero round trip = %+v", out)
	}
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
