package scanline

import (
	"encoding/binary"
	"math"
)

// readChannel reads one channel value of the given bit width from data at
// byte offset off, as an unsigned or signed integer widened to int64. This
// is the generic replacement spec.md §9 calls for in place of the source's
// macro-expanded per-width load/store bodies.
func readChannel(data []byte, off, bits int, signed bool) int64 {
	switch bits {
	case 8:
		v := data[off]
		if signed {
			return int64(int8(v))
		}
		return int64(v)
	case 16:
		v := binary.LittleEndian.Uint16(data[off:])
		if signed {
			return int64(int16(v))
		}
		return int64(v)
	case 32:
		v := binary.LittleEndian.Uint32(data[off:])
		if signed {
			return int64(int32(v))
		}
		return int64(v)
	default:
		panic("scanline: unsupported channel bit width")
	}
}

func writeChannel(data []byte, off, bits int, v int64) {
	switch bits {
	case 8:
		data[off] = byte(v)
	case 16:
		binary.LittleEndian.PutUint16(data[off:], uint16(v))
	case 32:
		binary.LittleEndian.PutUint32(data[off:], uint32(v))
	default:
		panic("scanline: unsupported channel bit width")
	}
}

func maxUnsigned(bits int) float64 {
	return float64(uint64(1)<<uint(bits) - 1)
}

func maxSigned(bits int) float64 {
	return float64(int64(1)<<uint(bits-1) - 1)
}

func readFloatChannel(data []byte, off, bits int) float32 {
	switch bits {
	case 16:
		return halfBitsToFloat32(binary.LittleEndian.Uint16(data[off:]))
	case 32:
		return math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
	default:
		panic("scanline: unsupported float width")
	}
}

func writeFloatChannel(data []byte, off, bits int, v float32) {
	switch bits {
	case 16:
		binary.LittleEndian.PutUint16(data[off:], float32ToHalfBits(v))
	case 32:
		binary.LittleEndian.PutUint32(data[off:], math.Float32bits(v))
	default:
		panic("scanline: unsupported float width")
	}
}
