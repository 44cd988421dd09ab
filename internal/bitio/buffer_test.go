package bitio

import "testing"

func TestSetGetBitsRoundTrip(t *testing.T) {
	var b Buffer
	cursor := 0
	b.SetBits(&cursor, 5, 0x1a)
	b.SetBits(&cursor, 3, 0x5)
	if cursor != 8 {
		t.Fatalf("cursor = %d, want 8", cursor)
	}
	cursor = 0
	got := b.GetBits(&cursor, 5)
	if got != 0x1a {
		t.Errorf("GetBits(5) = %#x, want %#x", got, 0x1a)
	}
	got = b.GetBits(&cursor, 3)
	if got != 0x5 {
		t.Errorf("GetBits(3) = %#x, want %#x", got, 0x5)
	}
}

func TestSetBitClearsBeforeOr(t *testing.T) {
	var b Buffer
	cursor := 0
	b.SetBits(&cursor, 8, 0xff)
	cursor = 0
	b.SetBit(&cursor, 0)
	if b.bytes[0] != 0xfe {
		t.Errorf("byte = %#x, want 0xfe", b.bytes[0])
	}
}

func TestCrossByteBoundary(t *testing.T) {
	var b Buffer
	cursor := 4
	b.SetBits(&cursor, 8, 0xAB)
	cursor = 4
	got := b.GetBits(&cursor, 8)
	if got != 0xAB {
		t.Errorf("cross-boundary round trip = %#x, want 0xAB", got)
	}
}

func TestWideRoundTrip(t *testing.T) {
	var b Buffer
	cursor := 3
	b.SetBitsWide(&cursor, 21, 0x154321)
	cursor = 3
	got := b.GetBitsWide(&cursor, 21)
	if got != 0x154321&((1<<21)-1) {
		t.Errorf("wide round trip = %#x, want %#x", got, 0x154321&((1<<21)-1))
	}
}

func TestFullBufferBounds(t *testing.T) {
	var b Buffer
	cursor := 120
	b.SetBits(&cursor, 8, 0xff)
	if cursor != 128 {
		t.Fatalf("cursor = %d, want 128", cursor)
	}
}

func TestOverrunPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on overrun")
		}
	}()
	var b Buffer
	cursor := 125
	b.SetBits(&cursor, 8, 0)
}
