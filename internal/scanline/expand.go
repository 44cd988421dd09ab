package scanline

import (
	"encoding/binary"

	"github.com/deepteams/texcomp/internal/imgfmt"
)

// Expand provides the fast path of spec.md §4.C: the three legacy 16-bit
// formats (565, 5551, 4444) converted directly to packed RGBA8 bytes,
// bypassing the generic float pipeline entirely.
func Expand(f imgfmt.Format, src []byte, dst []byte, pixels int) bool {
	switch f {
	case imgfmt.B5G6R5_UNORM:
		for i := 0; i < pixels; i++ {
			v := binary.LittleEndian.Uint16(src[i*2:])
			r := expand5(uint8(v >> 11 & 0x1f))
			g := expand6(uint8(v >> 5 & 0x3f))
			b := expand5(uint8(v & 0x1f))
			off := i * 4
			dst[off], dst[off+1], dst[off+2], dst[off+3] = r, g, b, 0xff
		}
		return true
	case imgfmt.B5G5R5A1_UNORM:
		for i := 0; i < pixels; i++ {
			v := binary.LittleEndian.Uint16(src[i*2:])
			r := expand5(uint8(v >> 10 & 0x1f))
			g := expand5(uint8(v >> 5 & 0x1f))
			b := expand5(uint8(v & 0x1f))
			a := uint8(0)
			if v&0x8000 != 0 {
				a = 0xff
			}
			off := i * 4
			dst[off], dst[off+1], dst[off+2], dst[off+3] = r, g, b, a
		}
		return true
	case imgfmt.B4G4R4A4_UNORM:
		for i := 0; i < pixels; i++ {
			v := binary.LittleEndian.Uint16(src[i*2:])
			r := expand4(uint8(v >> 8 & 0xf))
			g := expand4(uint8(v >> 4 & 0xf))
			b := expand4(uint8(v & 0xf))
			a := expand4(uint8(v >> 12 & 0xf))
			off := i * 4
			dst[off], dst[off+1], dst[off+2], dst[off+3] = r, g, b, a
		}
		return true
	default:
		return false
	}
}

func expand5(v uint8) uint8 { return (v << 3) | (v >> 2) }
func expand6(v uint8) uint8 { return (v << 2) | (v >> 4) }
func expand4(v uint8) uint8 { return (v << 4) | v }
