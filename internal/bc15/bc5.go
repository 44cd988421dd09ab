package bc15

// BC5BlockSize is the packed size of a BC5 block: two independent BC4
// blocks, one per channel (R then G), per spec.md §4.E.
const BC5BlockSize = 2 * BC4BlockSize

// EncodeBC5 packs 16 two-channel samples as two independent BC4 blocks.
func EncodeBC5(r, g []float32, signed bool) [BC5BlockSize]byte {
	var out [BC5BlockSize]byte
	rb := EncodeBC4(r, signed)
	gb := EncodeBC4(g, signed)
	copy(out[0:BC4BlockSize], rb[:])
	copy(out[BC4BlockSize:BC5BlockSize], gb[:])
	return out
}

// DecodeBC5 expands a 16-byte BC5 block to two channel slices.
func DecodeBC5(in *[BC5BlockSize]byte, signed bool) (r, g []float32) {
	var rb, gb [BC4BlockSize]byte
	copy(rb[:], in[0:BC4BlockSize])
	copy(gb[:], in[BC4BlockSize:BC5BlockSize])
	return DecodeBC4(&rb, signed), DecodeBC4(&gb, signed)
}
