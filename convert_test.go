package texcomp

import (
	"math"
	"testing"

	"github.com/deepteams/texcomp/internal/imgfmt"
)

func solidRGBA8(w, h int, r, g, b, a byte) Image {
	pitch := w * 4
	buf := make([]byte, pitch*h)
	for i := 0; i < w*h; i++ {
		buf[i*4+0], buf[i*4+1], buf[i*4+2], buf[i*4+3] = r, g, b, a
	}
	return Image{Format: imgfmt.R8G8B8A8_UNORM, Width: w, Height: h, RowPitch: pitch, Bytes: buf}
}

func bcImage(f imgfmt.Format, w, h int) Image {
	pitch, _ := imgfmt.BlockPitch(f, w)
	rows := (h + 3) / 4
	return Image{Format: f, Width: w, Height: h, RowPitch: pitch, Bytes: make([]byte, pitch*rows)}
}

func TestConvertRGBA8ToBC7RoundTrip(t *testing.T) {
	src := solidRGBA8(4, 4, 128, 64, 200, 255)
	dst := bcImage(imgfmt.BC7_UNORM, 4, 4)
	if res := Convert(src, dst, ConvertOptions{}); res.Err != nil {
		t.Fatalf("encode: %v", res.Err)
	}

	back := solidRGBA8(4, 4, 0, 0, 0, 0)
	if res := Convert(dst, back, ConvertOptions{}); res.Err != nil {
		t.Fatalf("decode: %v", res.Err)
	}
	for i := 0; i < 16; i++ {
		off := i * 4
		if math.Abs(float64(back.Bytes[off])-128) > 8 || math.Abs(float64(back.Bytes[off+1])-64) > 8 || math.Abs(float64(back.Bytes[off+2])-200) > 8 {
			t.Errorf("pixel %d: got rgb(%d,%d,%d), want near (128,64,200)", i, back.Bytes[off], back.Bytes[off+1], back.Bytes[off+2])
		}
	}
}

func TestConvertRGBA8ToBC1Opaque(t *testing.T) {
	src := solidRGBA8(4, 4, 10, 200, 30, 255)
	dst := bcImage(imgfmt.BC1_UNORM, 4, 4)
	if res := Convert(src, dst, ConvertOptions{}); res.Err != nil {
		t.Fatalf("encode: %v", res.Err)
	}
	back := solidRGBA8(4, 4, 0, 0, 0, 0)
	if res := Convert(dst, back, ConvertOptions{}); res.Err != nil {
		t.Fatalf("decode: %v", res.Err)
	}
	if back.Bytes[3] != 255 {
		t.Errorf("alpha = %d, want 255 (opaque BC1 block)", back.Bytes[3])
	}
}

func TestConvertBGRA8FastPath(t *testing.T) {
	src := Image{Format: imgfmt.R8G8B8A8_UNORM, Width: 2, Height: 1, RowPitch: 8, Bytes: []byte{10, 20, 30, 255, 1, 2, 3, 4}}
	dst := Image{Format: imgfmt.B8G8R8A8_UNORM, Width: 2, Height: 1, RowPitch: 8, Bytes: make([]byte, 8)}
	if res := Convert(src, dst, ConvertOptions{}); res.Err != nil {
		t.Fatalf("convert: %v", res.Err)
	}
	want := []byte{30, 20, 10, 255, 3, 2, 1, 4}
	for i, b := range want {
		if dst.Bytes[i] != b {
			t.Errorf("byte %d: got %d, want %d", i, dst.Bytes[i], b)
		}
	}
}

func TestConvertIdenticalFormatFastPath(t *testing.T) {
	src := solidRGBA8(2, 2, 1, 2, 3, 4)
	dst := solidRGBA8(2, 2, 0, 0, 0, 0)
	if res := Convert(src, dst, ConvertOptions{}); res.Err != nil {
		t.Fatalf("convert: %v", res.Err)
	}
	for i := range src.Bytes {
		if dst.Bytes[i] != src.Bytes[i] {
			t.Fatalf("byte %d: got %d, want %d", i, dst.Bytes[i], src.Bytes[i])
		}
	}
}

func TestConvertNarrowToSingleChannel(t *testing.T) {
	src := solidRGBA8(2, 2, 100, 50, 25, 255)
	dst := Image{Format: imgfmt.R8_UNORM, Width: 2, Height: 2, RowPitch: 2, Bytes: make([]byte, 4)}
	if res := Convert(src, dst, ConvertOptions{}); res.Err != nil {
		t.Fatalf("convert: %v", res.Err)
	}
	for i, b := range dst.Bytes {
		if b != 100 {
			t.Errorf("byte %d: got %d, want 100 (red broadcast)", i, b)
		}
	}
}

func TestConvertUnsupportedFormatFails(t *testing.T) {
	src := solidRGBA8(2, 2, 0, 0, 0, 0)
	dst := Image{Format: 9999, Width: 2, Height: 2, RowPitch: 8, Bytes: make([]byte, 16)}
	res := Convert(src, dst, ConvertOptions{})
	if res.Err == nil {
		t.Fatalf("want error for unsupported format")
	}
}

func TestImageValidateRejectsUndersizedBuffer(t *testing.T) {
	im := Image{Format: imgfmt.R8G8B8A8_UNORM, Width: 4, Height: 4, RowPitch: 16, Bytes: make([]byte, 10)}
	if err := im.Validate(); err == nil {
		t.Fatalf("want error for undersized buffer")
	}
}
