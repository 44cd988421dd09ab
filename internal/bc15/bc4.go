package bc15

// BC4BlockSize is the packed size of a BC4 block: one scalar-alpha block.
const BC4BlockSize = alphaBlockSize

// EncodeBC4 packs 16 single-channel samples. signed selects [-1,1]
// (BC4_SNORM) vs [0,1] (BC4_UNORM) quantization, per spec.md §4.E.
func EncodeBC4(samples []float32, signed bool) [BC4BlockSize]byte {
	rng := unsignedRange
	if signed {
		rng = signedRange
	}
	return packAlpha8(samples, rng)
}

// DecodeBC4 expands a single-channel block back to 16 samples.
func DecodeBC4(in *[BC4BlockSize]byte, signed bool) []float32 {
	rng := unsignedRange
	if signed {
		rng = signedRange
	}
	return unpackAlpha8(in, rng)
}
