package bc15

import "github.com/deepteams/texcomp/internal/pixel"

// BlockSize is the packed size in bytes of a BC1 block.
const BlockSize = 8

// transparentBlock is the canonical all-transparent BC1 block: c0=c1=0,
// all indices = 3 (the transparent slot of the 3-colour palette).
var transparentBlock = [BlockSize]byte{0, 0, 0, 0, 0xff, 0xff, 0xff, 0xff}

// EncodeBC1 compresses one 4x4 block to 8 bytes, per spec.md §4.E.
func EncodeBC1(block *pixel.Block, opt Options) [BlockSize]byte {
	var src pixel.Block
	copy(src[:], block[:])

	if opt.ColorKey {
		allTransparent := true
		for _, p := range src {
			if p.A >= opt.AlphaRef {
				allTransparent = false
				break
			}
		}
		if allTransparent {
			return transparentBlock
		}
	}

	if opt.Flags&DitherRGB != 0 {
		ditherQuantizeRGB(&src)
	}

	k := 4
	if opt.ColorKey {
		for _, p := range src {
			if p.A < opt.AlphaRef {
				k = 3
				break
			}
		}
	}

	samples := make([]pixel.RGBAf, 16)
	copy(samples, src[:])
	lo, hi := rgbFit(samples, k, weights(opt.Flags))

	c0 := Pack565(lo[0], lo[1], lo[2])
	c1 := Pack565(hi[0], hi[1], hi[2])

	if c0 == c1 && k == 4 {
		var out [BlockSize]byte
		writeU16(out[0:2], uint16(c0))
		writeU16(out[2:4], uint16(c0))
		writeU32(out[4:8], 0) // every index 0 -> solid colour
		return out
	}

	// Order endpoints so the raw 565 comparison matches the chosen k.
	if k == 4 && c0 <= c1 {
		c0, c1 = c1, c0
		lo, hi = hi, lo
	} else if k == 3 && c0 > c1 {
		c0, c1 = c1, c0
		lo, hi = hi, lo
	}

	var palette [4][3]float32
	var reorder []int
	if k == 4 {
		palette = palette4(c0, c1)
		reorder = reorder4[:]
	} else {
		palette = palette3(c0, c1)
		reorder = reorder3[:]
	}

	dir := sub3(palette[1], palette[0])
	lenSq := dot3(dir, dir)

	var out [BlockSize]byte
	writeU16(out[0:2], uint16(c0))
	writeU16(out[2:4], uint16(c1))

	var indices uint32
	for i, p := range src {
		var idx int
		if opt.ColorKey && p.A < opt.AlphaRef {
			idx = 3 // transparent slot; reached only when k==3
		} else {
			t := float32(0)
			if lenSq > 0 {
				t = dot3(sub3([3]float32{p.R, p.G, p.B}, palette[0]), dir) / lenSq
				t = clamp01(t)
			}
			steps := len(reorder) - 1
			step := int(t*float32(steps) + 0.5)
			idx = reorder[step]
		}
		indices |= uint32(idx) << uint(i*2)
	}
	writeU32(out[4:8], indices)
	return out
}

// DecodeBC1 expands one 8-byte block to 16 RGBA samples.
func DecodeBC1(in *[BlockSize]byte) pixel.Block {
	c0 := Color565(readU16(in[0:2]))
	c1 := Color565(readU16(in[2:4]))
	indices := readU32(in[4:8])

	var palette [4][3]float32
	opaque := c0 > c1
	if opaque {
		palette = palette4(c0, c1)
	} else {
		palette = palette3(c0, c1)
	}

	var out pixel.Block
	for i := 0; i < 16; i++ {
		idx := (indices >> uint(i*2)) & 0x3
		rgb := palette[idx]
		a := float32(1)
		if !opaque && idx == 3 {
			a = 0
		}
		out[i] = pixel.RGBAf{R: rgb[0], G: rgb[1], B: rgb[2], A: a}
	}
	return out
}
