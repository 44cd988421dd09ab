// Package imgfmt holds the pixel-format enum and descriptor table shared by
// internal/scanline and the root package's Convert entry point.
//
// The design follows spec.md §9's guidance to replace a giant load/store
// switch statement with a dispatch table keyed by format ordinal; the shape
// of the descriptor record itself is grounded on the field-and-class split
// seen in github.com/google/gapid/core/image's per-format Go types
// (studied for structure only — gapid is not taken on as a dependency, see
// DESIGN.md).
package imgfmt

import "fmt"

// Format identifies a pixel format by its DXGI-compatible ordinal, extended
// with the two private HDR ordinals 116/117 per spec.md §6.
type Format int

// Class groups formats by the numeric encoding their channels use.
type Class int

const (
	ClassUNORM Class = iota
	ClassSNORM
	ClassUINT
	ClassSINT
	ClassFLOAT
	ClassSharedExp
	ClassBC
	ClassYUV
	ClassPacked
	ClassBGR
	ClassXR
	ClassDepth
	ClassStencil
)

// Descriptor is the per-format record used by the scanline codec and the
// format converter to decide conversion paths.
type Descriptor struct {
	Format      Format
	Name        string
	Class       Class
	ChannelBits int  // bit depth of one channel (0 for block/packed formats with mixed widths)
	Channels    int  // channel count, 0 for BC/packed formats addressed in whole blocks
	BytesPerElt int  // bytes per pixel (uncompressed) or per packed quadlet
	HasAlpha    bool
	IsSRGB      bool
	IsPlanar    bool
	BlockBytes  int // 8 or 16 for BC formats, 0 otherwise
}

// DXGI-compatible ordinals for the formats texcomp implements. Values match
// the real DXGI_FORMAT enum so that callers exchanging raw ordinals with
// other tooling see consistent numbers; the two private ordinals at the end
// are texcomp-specific, per spec.md §6.
const (
	R32G32B32A32_FLOAT Format = 2
	R32G32B32_FLOAT    Format = 6
	R16G16B16A16_FLOAT Format = 10
	R16G16B16A16_UNORM Format = 11
	R16G16B16A16_UINT  Format = 12
	R16G16B16A16_SNORM Format = 13
	R16G16B16A16_SINT  Format = 14
	R32G32_FLOAT       Format = 16
	R32G32_UINT        Format = 17
	D32_FLOAT_S8X24_UINT Format = 20
	R10G10B10A2_UNORM  Format = 24
	R8G8B8A8_UNORM     Format = 28
	R8G8B8A8_UNORM_SRGB Format = 29
	R8G8B8A8_UINT      Format = 30
	R8G8B8A8_SNORM     Format = 31
	R8G8B8A8_SINT      Format = 32
	R8G8_UNORM         Format = 49
	R8G8_SNORM         Format = 51
	D24_UNORM_S8_UINT  Format = 45
	R8_UNORM           Format = 61
	R8_SNORM           Format = 63
	R9G9B9E5_SHAREDEXP Format = 67
	G8R8_G8B8_UNORM    Format = 69
	BC1_UNORM          Format = 71
	BC1_UNORM_SRGB     Format = 72
	BC2_UNORM          Format = 74
	BC2_UNORM_SRGB     Format = 75
	BC3_UNORM          Format = 77
	BC3_UNORM_SRGB     Format = 78
	BC4_UNORM          Format = 80
	BC4_SNORM          Format = 81
	BC5_UNORM          Format = 83
	BC5_SNORM          Format = 84
	B5G6R5_UNORM       Format = 85
	B5G5R5A1_UNORM     Format = 86
	B8G8R8A8_UNORM     Format = 87
	B8G8R8X8_UNORM     Format = 88
	B8G8R8A8_UNORM_SRGB Format = 91
	BC6H_UF16          Format = 95
	BC6H_SF16          Format = 96
	BC7_UNORM          Format = 98
	BC7_UNORM_SRGB     Format = 99
	AYUV               Format = 100
	Y410               Format = 101
	Y416               Format = 102
	NV12               Format = 103
	P010               Format = 104
	P016               Format = 105
	YUY2               Format = 107
	Y210               Format = 108
	Y216               Format = 109
	NV11               Format = 110
	AI44               Format = 111
	IA44               Format = 112
	R8G8_B8G8_UNORM    Format = 68
	B4G4R4A4_UNORM     Format = 115
	R10G10B10_XR_BIAS_A2_UNORM Format = 89

	// Private Xbox-only HDR shared-exponent formats, per spec.md §6.
	R10G10B10_7e3_A2_FLOAT Format = 116
	R10G10B10_6e4_A2_FLOAT Format = 117
)

var table map[Format]Descriptor

func reg(d Descriptor) {
	if table == nil {
		table = make(map[Format]Descriptor)
	}
	table[d.Format] = d
}

func init() {
	reg(Descriptor{Format: R8_UNORM, Name: "R8_UNORM", Class: ClassUNORM, ChannelBits: 8, Channels: 1, BytesPerElt: 1})
	reg(Descriptor{Format: R8_SNORM, Name: "R8_SNORM", Class: ClassSNORM, ChannelBits: 8, Channels: 1, BytesPerElt: 1})
	reg(Descriptor{Format: R8G8_UNORM, Name: "R8G8_UNORM", Class: ClassUNORM, ChannelBits: 8, Channels: 2, BytesPerElt: 2})
	reg(Descriptor{Format: R8G8_SNORM, Name: "R8G8_SNORM", Class: ClassSNORM, ChannelBits: 8, Channels: 2, BytesPerElt: 2})
	reg(Descriptor{Format: R8G8B8A8_UNORM, Name: "R8G8B8A8_UNORM", Class: ClassUNORM, ChannelBits: 8, Channels: 4, BytesPerElt: 4, HasAlpha: true})
	reg(Descriptor{Format: R8G8B8A8_UNORM_SRGB, Name: "R8G8B8A8_UNORM_SRGB", Class: ClassUNORM, ChannelBits: 8, Channels: 4, BytesPerElt: 4, HasAlpha: true, IsSRGB: true})
	reg(Descriptor{Format: R8G8B8A8_SNORM, Name: "R8G8B8A8_SNORM", Class: ClassSNORM, ChannelBits: 8, Channels: 4, BytesPerElt: 4, HasAlpha: true})
	reg(Descriptor{Format: R8G8B8A8_UINT, Name: "R8G8B8A8_UINT", Class: ClassUINT, ChannelBits: 8, Channels: 4, BytesPerElt: 4, HasAlpha: true})
	reg(Descriptor{Format: R8G8B8A8_SINT, Name: "R8G8B8A8_SINT", Class: ClassSINT, ChannelBits: 8, Channels: 4, BytesPerElt: 4, HasAlpha: true})

	reg(Descriptor{Format: R16G16B16A16_FLOAT, Name: "R16G16B16A16_FLOAT", Class: ClassFLOAT, ChannelBits: 16, Channels: 4, BytesPerElt: 8, HasAlpha: true})
	reg(Descriptor{Format: R16G16B16A16_UNORM, Name: "R16G16B16A16_UNORM", Class: ClassUNORM, ChannelBits: 16, Channels: 4, BytesPerElt: 8, HasAlpha: true})
	reg(Descriptor{Format: R16G16B16A16_SNORM, Name: "R16G16B16A16_SNORM", Class: ClassSNORM, ChannelBits: 16, Channels: 4, BytesPerElt: 8, HasAlpha: true})
	reg(Descriptor{Format: R16G16B16A16_UINT, Name: "R16G16B16A16_UINT", Class: ClassUINT, ChannelBits: 16, Channels: 4, BytesPerElt: 8, HasAlpha: true})
	reg(Descriptor{Format: R16G16B16A16_SINT, Name: "R16G16B16A16_SINT", Class: ClassSINT, ChannelBits: 16, Channels: 4, BytesPerElt: 8, HasAlpha: true})

	reg(Descriptor{Format: R32G32_FLOAT, Name: "R32G32_FLOAT", Class: ClassFLOAT, ChannelBits: 32, Channels: 2, BytesPerElt: 8})
	reg(Descriptor{Format: R32G32_UINT, Name: "R32G32_UINT", Class: ClassUINT, ChannelBits: 32, Channels: 2, BytesPerElt: 8})
	reg(Descriptor{Format: R32G32B32_FLOAT, Name: "R32G32B32_FLOAT", Class: ClassFLOAT, ChannelBits: 32, Channels: 3, BytesPerElt: 12})
	reg(Descriptor{Format: R32G32B32A32_FLOAT, Name: "R32G32B32A32_FLOAT", Class: ClassFLOAT, ChannelBits: 32, Channels: 4, BytesPerElt: 16, HasAlpha: true})

	reg(Descriptor{Format: R9G9B9E5_SHAREDEXP, Name: "R9G9B9E5_SHAREDEXP", Class: ClassSharedExp, ChannelBits: 9, Channels: 3, BytesPerElt: 4})
	reg(Descriptor{Format: R10G10B10_7e3_A2_FLOAT, Name: "R10G10B10_7e3_A2_FLOAT", Class: ClassSharedExp, ChannelBits: 10, Channels: 3, BytesPerElt: 4, HasAlpha: true})
	reg(Descriptor{Format: R10G10B10_6e4_A2_FLOAT, Name: "R10G10B10_6e4_A2_FLOAT", Class: ClassSharedExp, ChannelBits: 10, Channels: 3, BytesPerElt: 4, HasAlpha: true})
	reg(Descriptor{Format: R10G10B10_XR_BIAS_A2_UNORM, Name: "R10G10B10_XR_BIAS_A2_UNORM", Class: ClassXR, ChannelBits: 10, Channels: 3, BytesPerElt: 4, HasAlpha: true})

	reg(Descriptor{Format: YUY2, Name: "YUY2", Class: ClassPacked, BytesPerElt: 4})
	reg(Descriptor{Format: Y210, Name: "Y210", Class: ClassPacked, BytesPerElt: 8})
	reg(Descriptor{Format: Y216, Name: "Y216", Class: ClassPacked, BytesPerElt: 8})
	reg(Descriptor{Format: AYUV, Name: "AYUV", Class: ClassYUV, BytesPerElt: 4, HasAlpha: true})
	reg(Descriptor{Format: Y410, Name: "Y410", Class: ClassYUV, BytesPerElt: 4, HasAlpha: true})
	reg(Descriptor{Format: Y416, Name: "Y416", Class: ClassYUV, BytesPerElt: 8, HasAlpha: true})
	reg(Descriptor{Format: G8R8_G8B8_UNORM, Name: "G8R8_G8B8_UNORM", Class: ClassPacked, BytesPerElt: 4})
	reg(Descriptor{Format: R8G8_B8G8_UNORM, Name: "R8G8_B8G8_UNORM", Class: ClassPacked, BytesPerElt: 4})

	reg(Descriptor{Format: NV12, Name: "NV12", Class: ClassYUV, IsPlanar: true})
	reg(Descriptor{Format: NV11, Name: "NV11", Class: ClassYUV, IsPlanar: true})
	reg(Descriptor{Format: P010, Name: "P010", Class: ClassYUV, IsPlanar: true})
	reg(Descriptor{Format: P016, Name: "P016", Class: ClassYUV, IsPlanar: true})

	reg(Descriptor{Format: D24_UNORM_S8_UINT, Name: "D24_UNORM_S8_UINT", Class: ClassDepth, BytesPerElt: 4})
	reg(Descriptor{Format: D32_FLOAT_S8X24_UINT, Name: "D32_FLOAT_S8X24_UINT", Class: ClassDepth, BytesPerElt: 8})

	reg(Descriptor{Format: B8G8R8A8_UNORM, Name: "B8G8R8A8_UNORM", Class: ClassBGR, ChannelBits: 8, Channels: 4, BytesPerElt: 4, HasAlpha: true})
	reg(Descriptor{Format: B8G8R8A8_UNORM_SRGB, Name: "B8G8R8A8_UNORM_SRGB", Class: ClassBGR, ChannelBits: 8, Channels: 4, BytesPerElt: 4, HasAlpha: true, IsSRGB: true})
	reg(Descriptor{Format: B8G8R8X8_UNORM, Name: "B8G8R8X8_UNORM", Class: ClassBGR, ChannelBits: 8, Channels: 4, BytesPerElt: 4})
	reg(Descriptor{Format: B5G6R5_UNORM, Name: "B5G6R5_UNORM", Class: ClassBGR, BytesPerElt: 2})
	reg(Descriptor{Format: B5G5R5A1_UNORM, Name: "B5G5R5A1_UNORM", Class: ClassBGR, BytesPerElt: 2, HasAlpha: true})
	reg(Descriptor{Format: B4G4R4A4_UNORM, Name: "B4G4R4A4_UNORM", Class: ClassBGR, BytesPerElt: 2, HasAlpha: true})

	reg(Descriptor{Format: BC1_UNORM, Name: "BC1_UNORM", Class: ClassBC, BlockBytes: 8, HasAlpha: true})
	reg(Descriptor{Format: BC1_UNORM_SRGB, Name: "BC1_UNORM_SRGB", Class: ClassBC, BlockBytes: 8, HasAlpha: true, IsSRGB: true})
	reg(Descriptor{Format: BC2_UNORM, Name: "BC2_UNORM", Class: ClassBC, BlockBytes: 16, HasAlpha: true})
	reg(Descriptor{Format: BC2_UNORM_SRGB, Name: "BC2_UNORM_SRGB", Class: ClassBC, BlockBytes: 16, HasAlpha: true, IsSRGB: true})
	reg(Descriptor{Format: BC3_UNORM, Name: "BC3_UNORM", Class: ClassBC, BlockBytes: 16, HasAlpha: true})
	reg(Descriptor{Format: BC3_UNORM_SRGB, Name: "BC3_UNORM_SRGB", Class: ClassBC, BlockBytes: 16, HasAlpha: true, IsSRGB: true})
	reg(Descriptor{Format: BC4_UNORM, Name: "BC4_UNORM", Class: ClassBC, BlockBytes: 8})
	reg(Descriptor{Format: BC4_SNORM, Name: "BC4_SNORM", Class: ClassBC, BlockBytes: 8})
	reg(Descriptor{Format: BC5_UNORM, Name: "BC5_UNORM", Class: ClassBC, BlockBytes: 16})
	reg(Descriptor{Format: BC5_SNORM, Name: "BC5_SNORM", Class: ClassBC, BlockBytes: 16})
	reg(Descriptor{Format: BC6H_UF16, Name: "BC6H_UF16", Class: ClassBC, BlockBytes: 16})
	reg(Descriptor{Format: BC6H_SF16, Name: "BC6H_SF16", Class: ClassBC, BlockBytes: 16})
	reg(Descriptor{Format: BC7_UNORM, Name: "BC7_UNORM", Class: ClassBC, BlockBytes: 16, HasAlpha: true})
	reg(Descriptor{Format: BC7_UNORM_SRGB, Name: "BC7_UNORM_SRGB", Class: ClassBC, BlockBytes: 16, HasAlpha: true, IsSRGB: true})
}

// Lookup returns the descriptor for f, or an error if f is not one of the
// formats texcomp implements (spec.md's UnsupportedFormat error kind).
func Lookup(f Format) (Descriptor, error) {
	d, ok := table[f]
	if !ok {
		return Descriptor{}, fmt.Errorf("imgfmt: unsupported format ordinal %d", int(f))
	}
	return d, nil
}

// IsBC reports whether f is one of BC1-7.
func IsBC(f Format) bool {
	d, err := Lookup(f)
	return err == nil && d.Class == ClassBC
}

// BlockPitch returns the row pitch in bytes of a BC image with the given
// width: ceil(width/4) * block_bytes, per spec.md §6.
func BlockPitch(f Format, width int) (int, error) {
	d, err := Lookup(f)
	if err != nil {
		return 0, err
	}
	if d.Class != ClassBC {
		return 0, fmt.Errorf("imgfmt: %s is not a BC format", d.Name)
	}
	blocksX := (width + 3) / 4
	return blocksX * d.BlockBytes, nil
}

// Formats returns every registered format ordinal, for diagnostics.
func Formats() []Format {
	out := make([]Format, 0, len(table))
	for f := range table {
		out = append(out, f)
	}
	return out
}

func (d Descriptor) String() string {
	return fmt.Sprintf("%s(class=%d, bits=%d, ch=%d, alpha=%v, srgb=%v)", d.Name, d.Class, d.ChannelBits, d.Channels, d.HasAlpha, d.IsSRGB)
}
