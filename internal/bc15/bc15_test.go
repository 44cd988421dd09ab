package bc15

import (
	"math"
	"testing"

	"github.com/deepteams/texcomp/internal/pixel"
)

func solidBlock(r, g, b, a float32) pixel.Block {
	var blk pixel.Block
	for i := range blk {
		blk[i] = pixel.RGBAf{R: r, G: g, B: b, A: a}
	}
	return blk
}

func TestBC1OpaqueSingleColour(t *testing.T) {
	blk := solidBlock(0.5, 0.25, 0.75, 1)
	enc := EncodeBC1(&blk, Options{})
	dec := DecodeBC1(&enc)
	for i, p := range dec {
		if math.Abs(float64(p.R-0.5)) > 0.02 || math.Abs(float64(p.G-0.25)) > 0.02 || math.Abs(float64(p.B-0.75)) > 0.02 {
			t.Errorf("pixel %d: got %v", i, p)
		}
		if p.A != 1 {
			t.Errorf("pixel %d: alpha = %v, want 1 (opaque block)", i, p.A)
		}
	}
}

func TestBC1TransparentKey(t *testing.T) {
	blk := solidBlock(0.2, 0.2, 0.2, 0)
	opt := Options{ColorKey: true, AlphaRef: 0.5}
	enc := EncodeBC1(&blk, opt)
	if enc != transparentBlock {
		t.Fatalf("all-transparent input did not collapse to the canonical transparent block: %v", enc)
	}
	dec := DecodeBC1(&enc)
	for i, p := range dec {
		if p.A != 0 {
			t.Errorf("pixel %d: alpha = %v, want 0", i, p.A)
		}
	}
}

func TestBC1TwoColourGradient(t *testing.T) {
	var blk pixel.Block
	for i := range blk {
		t := float32(i) / 15
		blk[i] = pixel.RGBAf{R: t, G: 0, B: 1 - t, A: 1}
	}
	enc := EncodeBC1(&blk, Options{})
	dec := DecodeBC1(&enc)
	// Endpoints should land near the red/blue extremes used during fitting.
	if dec[0].R < 0.7 && dec[0].B < 0.7 {
		t.Errorf("first sample %v not near an extreme of the red/blue gradient", dec[0])
	}
	for i, p := range dec {
		if p.A != 1 {
			t.Errorf("pixel %d: alpha = %v, want 1", i, p.A)
		}
	}
}

func TestBC1PartialColorKey(t *testing.T) {
	var blk pixel.Block
	for i := range blk {
		blk[i] = pixel.RGBAf{R: 0.8, G: 0.1, B: 0.1, A: 1}
	}
	blk[5].A = 0 // one transparent texel forces k=3
	opt := Options{ColorKey: true, AlphaRef: 0.5}
	enc := EncodeBC1(&blk, opt)
	dec := DecodeBC1(&enc)
	if dec[5].A != 0 {
		t.Errorf("texel 5 alpha = %v, want 0", dec[5].A)
	}
	if dec[0].A != 1 {
		t.Errorf("texel 0 alpha = %v, want 1", dec[0].A)
	}
}

func TestBC2AlphaRoundTrip(t *testing.T) {
	var blk pixel.Block
	for i := range blk {
		blk[i] = pixel.RGBAf{R: 0.4, G: 0.4, B: 0.4, A: float32(i) / 15}
	}
	enc := EncodeBC2(&blk, Options{})
	dec := DecodeBC2(&enc)
	for i, p := range dec {
		want := float32(i) / 15
		want = float32(math.Round(float64(want)*15)) / 15 // 4-bit quantization
		if math.Abs(float64(p.A-want)) > 1.0/15+0.001 {
			t.Errorf("pixel %d: alpha = %v, want near %v", i, p.A, want)
		}
	}
}

func TestBC3AlphaRamp(t *testing.T) {
	var blk pixel.Block
	for i := range blk {
		blk[i] = pixel.RGBAf{R: 0.5, G: 0.5, B: 0.5, A: float32(i) / 15}
	}
	enc := EncodeBC3(&blk, Options{})
	dec := DecodeBC3(&enc)
	if dec[0].A > 0.1 {
		t.Errorf("first texel alpha = %v, want near 0", dec[0].A)
	}
	if dec[15].A < 0.9 {
		t.Errorf("last texel alpha = %v, want near 1", dec[15].A)
	}
}

func TestBC4UnsignedRoundTrip(t *testing.T) {
	samples := make([]float32, 16)
	for i := range samples {
		samples[i] = float32(i) / 15
	}
	enc := EncodeBC4(samples, false)
	dec := DecodeBC4(&enc, false)
	if dec[0] > 0.1 || dec[15] < 0.9 {
		t.Errorf("endpoints not preserved: dec[0]=%v dec[15]=%v", dec[0], dec[15])
	}
}

func TestBC4SignedClampsMinusOne(t *testing.T) {
	samples := make([]float32, 16)
	for i := range samples {
		samples[i] = -1
	}
	enc := EncodeBC4(samples, true)
	if int8(enc[0]) == -128 || int8(enc[1]) == -128 {
		t.Errorf("signed endpoint stored as -128, want clamp to -127")
	}
	dec := DecodeBC4(&enc, true)
	for i, v := range dec {
		if math.Abs(float64(v+1)) > 0.02 {
			t.Errorf("sample %d = %v, want near -1", i, v)
		}
	}
}

func TestBC5TwoChannelsIndependent(t *testing.T) {
	r := make([]float32, 16)
	g := make([]float32, 16)
	for i := range r {
		r[i] = float32(i) / 15
		g[i] = 1 - float32(i)/15
	}
	enc := EncodeBC5(r, g, false)
	dr, dg := DecodeBC5(&enc, false)
	if dr[0] > 0.1 || dr[15] < 0.9 {
		t.Errorf("R channel not preserved: %v", dr)
	}
	if dg[0] < 0.9 || dg[15] > 0.1 {
		t.Errorf("G channel not preserved: %v", dg)
	}
}
