package texcomp

import (
	"github.com/pkg/errors"

	"github.com/deepteams/texcomp/internal/bc15"
	"github.com/deepteams/texcomp/internal/bc6h"
	"github.com/deepteams/texcomp/internal/bc7"
	"github.com/deepteams/texcomp/internal/imgfmt"
	"github.com/deepteams/texcomp/internal/pixel"
	"github.com/deepteams/texcomp/internal/scanline"
)

// Convert transforms src into dst, per spec.md §4.G: load a row (or, for
// BC formats, a 4x4 block) into the canonical RGBAf form, apply channel
// adjustments for the differences between the two format descriptors, then
// store. Planar source/destination formats (NV12, NV11, P010, P016) are
// not supported by Convert: they need a multi-plane buffer layout that
// Image's single (RowPitch, Bytes) pair cannot describe — see DESIGN.md.
//
// Convert is the package's API boundary, so its error path attaches a
// stack trace via github.com/pkg/errors; everything internal to a single
// row/block conversion keeps returning the plain sentinel errors.
func Convert(src, dst Image, opt ConvertOptions) Result {
	if err := src.Validate(); err != nil {
		return Result{0, errors.Wrap(err, "texcomp: validating source image")}
	}
	if err := dst.Validate(); err != nil {
		return Result{0, errors.Wrap(err, "texcomp: validating destination image")}
	}
	srcD, _ := imgfmt.Lookup(src.Format)
	dstD, _ := imgfmt.Lookup(dst.Format)

	if fastCopy(src, dst, srcD, dstD, opt) {
		return Result{dst.Height, nil}
	}

	srcBC := srcD.Class == imgfmt.ClassBC
	dstBC := dstD.Class == imgfmt.ClassBC

	var res Result
	switch {
	case srcBC && dstBC:
		res = convertBCToBC(src, dst, srcD, dstD)
	case srcBC && !dstBC:
		res = convertBCToPlain(src, dst, srcD, dstD, opt)
	case !srcBC && dstBC:
		res = convertPlainToBC(src, dst, srcD, dstD, opt)
	default:
		res = convertPlainToPlain(src, dst, srcD, dstD, opt)
	}
	if res.Err != nil {
		res.Err = errors.Wrapf(res.Err, "texcomp: converting row %d", res.Rows)
	}
	return res
}

// fastCopy implements the bit-identical bypasses of spec.md §4.G: an
// exact format match (straight row copy) and the RGBA8<->BGRA8 channel
// swizzle, both skipping the RGBAf round-trip entirely. Neither applies
// once sRGB, dither, or colour-copy adjustments are requested, since those
// need the general floating-point path.
func fastCopy(src, dst Image, srcD, dstD imgfmt.Descriptor, opt ConvertOptions) bool {
	if opt.SRGBIn || opt.SRGBOut || opt.Dither != scanline.DitherNone || opt.ColourCopy != ColourCopyNone {
		return false
	}
	if src.Format == dst.Format && src.Width == dst.Width && src.Height == dst.Height {
		rowBytesN := rowBytes(srcD, src.Width)
		if srcD.Class == imgfmt.ClassBC {
			rowBytesN, _ = imgfmt.BlockPitch(src.Format, src.Width)
		}
		rows := dst.Height
		if srcD.Class == imgfmt.ClassBC {
			rows = (dst.Height + 3) / 4
		}
		for y := 0; y < rows; y++ {
			copy(dst.Bytes[y*dst.RowPitch:y*dst.RowPitch+rowBytesN], src.Bytes[y*src.RowPitch:y*src.RowPitch+rowBytesN])
		}
		return true
	}
	if isRGBA8BGRA8Pair(src.Format, dst.Format) && src.Width == dst.Width && src.Height == dst.Height {
		for y := 0; y < dst.Height; y++ {
			srow := src.Bytes[y*src.RowPitch : y*src.RowPitch+src.Width*4]
			drow := dst.Bytes[y*dst.RowPitch : y*dst.RowPitch+dst.Width*4]
			for x := 0; x < dst.Width; x++ {
				drow[x*4+0] = srow[x*4+2]
				drow[x*4+1] = srow[x*4+1]
				drow[x*4+2] = srow[x*4+0]
				drow[x*4+3] = srow[x*4+3]
			}
		}
		return true
	}
	return false
}

func isRGBA8BGRA8Pair(a, b imgfmt.Format) bool {
	pair := func(x, y imgfmt.Format) bool {
		return x == imgfmt.R8G8B8A8_UNORM && y == imgfmt.B8G8R8A8_UNORM
	}
	return pair(a, b) || pair(b, a)
}

// adjustPixel applies the spec.md §4.G step-4 channel adjustments between
// two format descriptors: UNORM<->SNORM range rescale (FLOAT->UNORM
// saturation is already handled by storeUNORM's clamp) and red/green/blue
// or luma narrowing when the destination carries fewer colour channels.
func adjustPixel(p pixel.RGBAf, srcD, dstD imgfmt.Descriptor, opt ConvertOptions) pixel.RGBAf {
	if srcD.Class == imgfmt.ClassSNORM && dstD.Class != imgfmt.ClassSNORM {
		p.R, p.G, p.B = p.R*0.5+0.5, p.G*0.5+0.5, p.B*0.5+0.5
	} else if srcD.Class != imgfmt.ClassSNORM && dstD.Class == imgfmt.ClassSNORM {
		p.R, p.G, p.B = p.R*2-1, p.G*2-1, p.B*2-1
	}
	if dstD.Channels == 1 && srcD.Channels > 1 {
		switch opt.ColourCopy {
		case ColourCopyGreen:
			p.R = p.G
		case ColourCopyBlue:
			p.R = p.B
		case ColourCopyLuma:
			p.R = 0.2126*p.R + 0.7152*p.G + 0.0722*p.B
		default: // ColourCopyNone and ColourCopyRed both default to red, per spec.md §4.G
			// p.R already holds the value to broadcast.
		}
	}
	return p
}

func convertPlainToPlain(src, dst Image, srcD, dstD imgfmt.Descriptor, opt ConvertOptions) Result {
	row := make([]pixel.RGBAf, dst.Width)
	var eb *scanline.ErrorBuffer
	if opt.Dither == scanline.DitherDiffusion {
		eb = scanline.NewErrorBuffer(dst.Width, 4)
	}
	for y := 0; y < dst.Height; y++ {
		loadOpt := scanline.Options{SRGB: opt.SRGBIn}
		srcRow := src.Bytes[y*src.RowPitch:]
		if !scanline.Load(src.Format, srcRow, row, loadOpt) {
			return Result{y, ErrBufferTooSmall}
		}
		for i := range row {
			row[i] = adjustPixel(row[i], srcD, dstD, opt)
		}
		storeOpt := scanline.Options{SRGB: opt.SRGBOut, Dither: opt.Dither, Err: eb, RowX: 0, RowY: y}
		if eb != nil {
			eb.BeginRow()
		}
		dstRow := dst.Bytes[y*dst.RowPitch:]
		if !scanline.Store(dst.Format, row, dstRow, storeOpt) {
			return Result{y, ErrBufferTooSmall}
		}
	}
	return Result{dst.Height, nil}
}

func convertBCToPlain(src, dst Image, srcD, dstD imgfmt.Descriptor, opt ConvertOptions) Result {
	blocksX := (dst.Width + 3) / 4
	blockRows := (dst.Height + 3) / 4
	plane := make([]pixel.RGBAf, blocksX*4*4) // 4 scanlines, padded width
	planeWidth := blocksX * 4
	for by := 0; by < blockRows; by++ {
		srcBlockRow := src.Bytes[by*src.RowPitch:]
		for bx := 0; bx < blocksX; bx++ {
			blk, err := decodeBCBlock(src.Format, srcBlockRow, bx, srcD.BlockBytes)
			if err != nil {
				return Result{by * 4, err}
			}
			for py := 0; py < 4; py++ {
				for px := 0; px < 4; px++ {
					plane[py*planeWidth+bx*4+px] = blk[py*4+px]
				}
			}
		}
		for py := 0; py < 4; py++ {
			y := by*4 + py
			if y >= dst.Height {
				break
			}
			rowSlice := plane[py*planeWidth : py*planeWidth+dst.Width]
			for i := range rowSlice {
				rowSlice[i] = adjustPixel(rowSlice[i], srcD, dstD, opt)
			}
			storeOpt := scanline.Options{SRGB: opt.SRGBOut, Dither: opt.Dither, RowY: y}
			dstRow := dst.Bytes[y*dst.RowPitch:]
			if !scanline.Store(dst.Format, rowSlice, dstRow, storeOpt) {
				return Result{y, ErrBufferTooSmall}
			}
		}
	}
	return Result{dst.Height, nil}
}

func convertPlainToBC(src, dst Image, srcD, dstD imgfmt.Descriptor, opt ConvertOptions) Result {
	blocksX := (dst.Width + 3) / 4
	blockRows := (dst.Height + 3) / 4
	planeWidth := blocksX * 4
	plane := make([]pixel.RGBAf, planeWidth*4)
	for by := 0; by < blockRows; by++ {
		for py := 0; py < 4; py++ {
			y := by*4 + py
			rowSlice := plane[py*planeWidth : py*planeWidth+planeWidth]
			if y < src.Height {
				srcRow := src.Bytes[y*src.RowPitch:]
				loadOpt := scanline.Options{SRGB: opt.SRGBIn}
				tmp := make([]pixel.RGBAf, src.Width)
				if !scanline.Load(src.Format, srcRow, tmp, loadOpt) {
					return Result{by * 4, ErrBufferTooSmall}
				}
				copy(rowSlice, tmp)
				for i := src.Width; i < planeWidth; i++ {
					rowSlice[i] = tmp[src.Width-1] // replicate edge pixel into the padded block
				}
			} else {
				copy(rowSlice, plane[(py-1)*planeWidth:(py-1)*planeWidth+planeWidth])
			}
			for i := range rowSlice {
				rowSlice[i] = adjustPixel(rowSlice[i], srcD, dstD, opt)
			}
		}
		dstBlockRow := dst.Bytes[by*dst.RowPitch:]
		for bx := 0; bx < blocksX; bx++ {
			var blk pixel.Block
			for py := 0; py < 4; py++ {
				for px := 0; px < 4; px++ {
					blk[py*4+px] = plane[py*planeWidth+bx*4+px]
				}
			}
			encodeBCBlock(dst.Format, dstBlockRow, bx, &blk, opt)
		}
	}
	return Result{dst.Height, nil}
}

func convertBCToBC(src, dst Image, srcD, dstD imgfmt.Descriptor) Result {
	blocksX := (dst.Width + 3) / 4
	blockRows := (dst.Height + 3) / 4
	for by := 0; by < blockRows; by++ {
		srcBlockRow := src.Bytes[by*src.RowPitch:]
		dstBlockRow := dst.Bytes[by*dst.RowPitch:]
		for bx := 0; bx < blocksX; bx++ {
			blk, err := decodeBCBlock(src.Format, srcBlockRow, bx, srcD.BlockBytes)
			if err != nil {
				return Result{by * 4, err}
			}
			encodeBCBlock(dst.Format, dstBlockRow, bx, &blk, ConvertOptions{})
		}
	}
	return Result{dst.Height, nil}
}

func decodeBCBlock(format imgfmt.Format, blockRow []byte, bx, blockBytes int) (pixel.Block, error) {
	off := bx * blockBytes
	switch format {
	case imgfmt.BC1_UNORM, imgfmt.BC1_UNORM_SRGB:
		var in [8]byte
		copy(in[:], blockRow[off:off+8])
		return bc15.DecodeBC1(&in), nil
	case imgfmt.BC2_UNORM, imgfmt.BC2_UNORM_SRGB:
		var in [16]byte
		copy(in[:], blockRow[off:off+16])
		return bc15.DecodeBC2(&in), nil
	case imgfmt.BC3_UNORM, imgfmt.BC3_UNORM_SRGB:
		var in [16]byte
		copy(in[:], blockRow[off:off+16])
		return bc15.DecodeBC3(&in), nil
	case imgfmt.BC4_UNORM, imgfmt.BC4_SNORM:
		var in [8]byte
		copy(in[:], blockRow[off:off+8])
		samples := bc15.DecodeBC4(&in, format == imgfmt.BC4_SNORM)
		var blk pixel.Block
		for i, s := range samples {
			blk[i] = pixel.RGBAf{R: s, A: 1}
		}
		return blk, nil
	case imgfmt.BC5_UNORM, imgfmt.BC5_SNORM:
		var in [16]byte
		copy(in[:], blockRow[off:off+16])
		r, g := bc15.DecodeBC5(&in, format == imgfmt.BC5_SNORM)
		var blk pixel.Block
		for i := range blk {
			blk[i] = pixel.RGBAf{R: r[i], G: g[i], A: 1}
		}
		return blk, nil
	case imgfmt.BC6H_UF16, imgfmt.BC6H_SF16:
		var in [16]byte
		copy(in[:], blockRow[off:off+16])
		return bc6h.DecodeBC6H(&in, bc6h.Options{Signed: format == imgfmt.BC6H_SF16}), nil
	case imgfmt.BC7_UNORM, imgfmt.BC7_UNORM_SRGB:
		var in [16]byte
		copy(in[:], blockRow[off:off+16])
		return bc7.DecodeBC7(&in), nil
	default:
		return pixel.Block{}, ErrUnsupportedFormat
	}
}

func encodeBCBlock(format imgfmt.Format, blockRow []byte, bx int, blk *pixel.Block, opt ConvertOptions) {
	switch format {
	case imgfmt.BC1_UNORM, imgfmt.BC1_UNORM_SRGB:
		out := bc15.EncodeBC1(blk, bc15.Options{Flags: opt.BC1Flags, AlphaRef: opt.Threshold, ColorKey: opt.Threshold > 0})
		copy(blockRow[bx*8:bx*8+8], out[:])
	case imgfmt.BC2_UNORM, imgfmt.BC2_UNORM_SRGB:
		out := bc15.EncodeBC2(blk, bc15.Options{Flags: opt.BC1Flags})
		copy(blockRow[bx*16:bx*16+16], out[:])
	case imgfmt.BC3_UNORM, imgfmt.BC3_UNORM_SRGB:
		out := bc15.EncodeBC3(blk, bc15.Options{Flags: opt.BC1Flags})
		copy(blockRow[bx*16:bx*16+16], out[:])
	case imgfmt.BC4_UNORM, imgfmt.BC4_SNORM:
		samples := make([]float32, 16)
		for i, p := range blk {
			samples[i] = p.R
		}
		out := bc15.EncodeBC4(samples, format == imgfmt.BC4_SNORM)
		copy(blockRow[bx*8:bx*8+8], out[:])
	case imgfmt.BC5_UNORM, imgfmt.BC5_SNORM:
		r := make([]float32, 16)
		g := make([]float32, 16)
		for i, p := range blk {
			r[i], g[i] = p.R, p.G
		}
		out := bc15.EncodeBC5(r, g, format == imgfmt.BC5_SNORM)
		copy(blockRow[bx*16:bx*16+16], out[:])
	case imgfmt.BC6H_UF16, imgfmt.BC6H_SF16:
		out := bc6h.EncodeBC6H(blk, bc6h.Options{Signed: format == imgfmt.BC6H_SF16})
		copy(blockRow[bx*16:bx*16+16], out[:])
	case imgfmt.BC7_UNORM, imgfmt.BC7_UNORM_SRGB:
		out := bc7.EncodeBC7(blk)
		copy(blockRow[bx*16:bx*16+16], out[:])
	}
}
