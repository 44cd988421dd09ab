// Package texcomp implements the GPU texture block-compression codec
// family (BC1-BC7) alongside the pixel-format scanline conversion and
// sRGB/dither pipeline that feeds it.
//
// The package operates entirely on in-memory byte buffers described by
// an Image{Format, Width, Height, RowPitch, Bytes} record; there is no
// file I/O or wire protocol in the core (see cmd/texconv for a thin
// file-based front end). The package supports:
//   - BC1/BC2/BC3/BC4/BC5 classic block codecs (internal/bc15)
//   - BC6H HDR block codec (internal/bc6h)
//   - BC7 LDR block codec (internal/bc7)
//   - Uncompressed/packed pixel-format conversion with sRGB and dither
//     (internal/scanline, internal/imgfmt); the planar formats (NV12,
//     NV11, P010, P016) are registered but Convert rejects them with
//     ErrUnsupportedFormat
//
// Basic usage for compressing an RGBA8 image to BC7:
//
//	res := texcomp.Convert(src, dst, texcomp.ConvertOptions{})
//	if res.Err != nil {
//		// res.Rows gives how many rows of dst were written before the error
//	}
package texcomp
