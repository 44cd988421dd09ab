package bc15

import "github.com/deepteams/texcomp/internal/pixel"

// BC2BlockSize is the packed size of a BC2 block: 8 bytes raw 4-bit alpha
// followed by an 8-byte BC1 colour body (no colour-key path; alpha is
// explicit).
const BC2BlockSize = 16

// EncodeBC2 packs a 16-sample block as BC2.
func EncodeBC2(block *pixel.Block, opt Options) [BC2BlockSize]byte {
	var out [BC2BlockSize]byte
	for i := 0; i < 16; i++ {
		a := quantizeToBits(block[i].A, 4)
		byteIdx := i / 2
		if i%2 == 0 {
			out[byteIdx] = out[byteIdx]&0xf0 | byte(a)
		} else {
			out[byteIdx] = out[byteIdx]&0x0f | byte(a)<<4
		}
	}
	opt.ColorKey = false // BC2 carries explicit alpha, never a colour-key
	body := EncodeBC1(block, opt)
	copy(out[8:16], body[:])
	return out
}

// DecodeBC2 expands a 16-byte BC2 block.
func DecodeBC2(in *[BC2BlockSize]byte) pixel.Block {
	var body [BlockSize]byte
	copy(body[:], in[8:16])
	out := DecodeBC1(&body)
	for i := 0; i < 16; i++ {
		byteIdx := i / 2
		var a4 byte
		if i%2 == 0 {
			a4 = in[byteIdx] & 0x0f
		} else {
			a4 = in[byteIdx] >> 4
		}
		out[i].A = expandBits(uint16(a4), 4)
	}
	return out
}
