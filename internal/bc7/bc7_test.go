package bc7

import (
	"math"
	"testing"

	"github.com/deepteams/texcomp/internal/pixel"
	"github.com/deepteams/texcomp/internal/shape"
)

func solidBlock(r, g, b, a float32) pixel.Block {
	var blk pixel.Block
	for i := range blk {
		blk[i] = pixel.RGBAf{R: r, G: g, B: b, A: a}
	}
	return blk
}

func TestOpaqueGreyRoundTrip(t *testing.T) {
	blk := solidBlock(0.5, 0.5, 0.5, 1)
	enc := EncodeBC7(&blk)
	dec := DecodeBC7(&enc)
	for i, p := range dec {
		if math.Abs(float64(p.R-0.5)) > 0.05 || math.Abs(float64(p.G-0.5)) > 0.05 || math.Abs(float64(p.B-0.5)) > 0.05 {
			t.Errorf("pixel %d: got %v, want near mid-grey", i, p)
		}
		if math.Abs(float64(p.A-1)) > 0.05 {
			t.Errorf("pixel %d: alpha = %v, want near 1", i, p.A)
		}
	}
}

func TestTranslucentRoundTrip(t *testing.T) {
	var blk pixel.Block
	for i := range blk {
		blk[i] = pixel.RGBAf{R: 0.2, G: 0.6, B: 0.9, A: float32(i) / 15}
	}
	enc := EncodeBC7(&blk)
	dec := DecodeBC7(&enc)
	if dec[0].A > 0.2 {
		t.Errorf("first texel alpha = %v, want near 0", dec[0].A)
	}
	if dec[15].A < 0.8 {
		t.Errorf("last texel alpha = %v, want near 1", dec[15].A)
	}
}

func TestTwoPartitionGradient(t *testing.T) {
	var blk pixel.Block
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			v := float32(0.1)
			if x+y >= 4 {
				v = 0.9
			}
			blk[y*4+x] = pixel.RGBAf{R: v, G: v, B: v, A: 1}
		}
	}
	enc := EncodeBC7(&blk)
	dec := DecodeBC7(&enc)
	for i, p := range dec {
		if p.A < 0.9 {
			t.Errorf("pixel %d: alpha = %v, want near 1", i, p.A)
		}
		if p.R < 0 || p.R > 1 {
			t.Errorf("pixel %d: R = %v out of range", i, p.R)
		}
	}
}

func TestMalformedMode8FallsBackToTransparentBlack(t *testing.T) {
	var raw [BlockSize]byte // byte 0 all zero: no set bit, mode 8 / reserved
	dec := DecodeBC7(&raw)
	for i, p := range dec {
		if p.R != 0 || p.G != 0 || p.B != 0 || p.A != 0 {
			t.Errorf("pixel %d: got %v, want transparent black", i, p)
		}
	}
}

func TestEncodeBC7PicksAMode(t *testing.T) {
	blk := solidBlock(0.1, 0.2, 0.3, 1)
	enc := EncodeBC7(&blk)
	if enc[0] == 0 {
		t.Fatalf("encoded block has no mode bit set: %v", enc)
	}
}

func TestShapeOfSinglePartitionIsAllZero(t *testing.T) {
	parts := shape.Of(1, 3)
	for i, p := range parts {
		if p != 0 {
			t.Errorf("pixel %d: partition = %d, want 0 for a 1-subset mode", i, p)
		}
	}
}

func TestShapeOfTwoPartitionIsNonTrivial(t *testing.T) {
	parts := shape.Of(2, 0)
	seen0, seen1 := false, false
	for _, p := range parts {
		if p == 0 {
			seen0 = true
		}
		if p == 1 {
			seen1 = true
		}
	}
	if !seen0 || !seen1 {
		t.Errorf("shape 0 of a 2-subset partition should use both subsets, got %v", parts)
	}
}

func TestEncodeBC7SearchesShapesForTwoSubsetModes(t *testing.T) {
	var blk pixel.Block
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			v := float32(0.1)
			if x >= 2 {
				v = 0.9
			}
			blk[y*4+x] = pixel.RGBAf{R: v, G: v, B: v, A: 1}
		}
	}
	enc := EncodeBC7(&blk)
	dec := DecodeBC7(&enc)
	var maxErr float32
	for i, p := range dec {
		want := float32(0.1)
		if i%4 >= 2 {
			want = 0.9
		}
		d := p.R - want
		if d < 0 {
			d = -d
		}
		if d > maxErr {
			maxErr = d
		}
	}
	if maxErr > 0.1 {
		t.Errorf("max channel error = %v, want a tight fit from shape search", maxErr)
	}
}
