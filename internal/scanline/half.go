package scanline

import "github.com/mrjoshuak/go-openexr/half"

func halfBitsToFloat32(bits uint16) float32 {
	return half.Half(bits).Float32()
}

func float32ToHalfBits(v float32) uint16 {
	return uint16(half.FromFloat32(v))
}
