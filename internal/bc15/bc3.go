package bc15

import "github.com/deepteams/texcomp/internal/pixel"

// BC3BlockSize is the packed size of a BC3 block: an 8-byte scalar-alpha
// block followed by an 8-byte BC1 colour body.
const BC3BlockSize = 16

// EncodeBC3 packs a 16-sample block as BC3.
func EncodeBC3(block *pixel.Block, opt Options) [BC3BlockSize]byte {
	samples := make([]float32, 16)
	for i, p := range block {
		samples[i] = p.A
	}
	alpha := packAlpha8(samples, unsignedRange)

	opt.ColorKey = false
	body := EncodeBC1(block, opt)

	var out [BC3BlockSize]byte
	copy(out[0:8], alpha[:])
	copy(out[8:16], body[:])
	return out
}

// DecodeBC3 expands a 16-byte BC3 block.
func DecodeBC3(in *[BC3BlockSize]byte) pixel.Block {
	var alphaBlock [alphaBlockSize]byte
	copy(alphaBlock[:], in[0:8])
	alpha := unpackAlpha8(&alphaBlock, unsignedRange)

	var body [BlockSize]byte
	copy(body[:], in[8:16])
	out := DecodeBC1(&body)
	for i := range out {
		out[i].A = alpha[i]
	}
	return out
}
