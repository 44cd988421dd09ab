// Package scanline implements component C of the design: conversion of one
// row of pixels between an on-wire pixel format and the canonical RGBAf
// array, per spec.md §4.C. Load/Store dispatch by format class instead of a
// giant per-format switch, per spec.md §9's redesign note.
package scanline

import (
	"fmt"

	"github.com/deepteams/texcomp/internal/imgfmt"
	"github.com/deepteams/texcomp/internal/pixel"
)

// Options controls sRGB and dither behaviour shared by Load and Store.
type Options struct {
	SRGB     bool // treat RGB channels as sRGB-encoded on this side
	Dither   Mode
	Err      *ErrorBuffer // required when Dither == DitherDiffusion
	RowX     int          // x of the first pixel in this row, for ordered dither phase
	RowY     int          // row index, for ordered dither phase
}

// Load converts one row of src (in format f) into dst, a slice of RGBAf of
// length >= row width. Returns false (matching spec.md §6's boolean error
// convention) if the format is unsupported or src is too small.
func Load(f imgfmt.Format, src []byte, dst []pixel.RGBAf, opt Options) bool {
	d, err := imgfmt.Lookup(f)
	if err != nil {
		return false
	}
	if d.Class == imgfmt.ClassBC {
		return false // BC formats are handled by internal/bc15, bc6h, bc7, not the scanline codec
	}
	n := len(dst)
	if err := checkLoadBufSize(d, src, n); err != nil {
		return false
	}
	switch d.Class {
	case imgfmt.ClassUNORM:
		loadUNORM(d, src, dst, opt)
	case imgfmt.ClassSNORM:
		loadSNORM(d, src, dst)
	case imgfmt.ClassUINT:
		loadIntCopy(d, src, dst, false)
	case imgfmt.ClassSINT:
		loadIntCopy(d, src, dst, true)
	case imgfmt.ClassFLOAT:
		loadFloat(d, src, dst)
	case imgfmt.ClassSharedExp:
		loadSharedExp(d, src, dst)
	case imgfmt.ClassPacked:
		loadPacked(d, src, dst)
	case imgfmt.ClassYUV:
		loadYUVSingle(d, src, dst)
	case imgfmt.ClassBGR:
		loadBGR(d, src, dst, opt)
	case imgfmt.ClassXR:
		loadXR(d, src, dst)
	case imgfmt.ClassDepth:
		loadDepthStencil(d, src, dst)
	default:
		return false
	}
	if !d.HasAlpha {
		for i := range dst[:n] {
			dst[i].A = 1
		}
	}
	return true
}

// Store converts a row of RGBAf src into the on-wire format f, writing into
// dst. Returns false on unsupported format or undersized dst.
func Store(f imgfmt.Format, src []pixel.RGBAf, dst []byte, opt Options) bool {
	d, err := imgfmt.Lookup(f)
	if err != nil {
		return false
	}
	if d.Class == imgfmt.ClassBC {
		return false
	}
	if err := checkStoreBufSize(d, dst, len(src)); err != nil {
		return false
	}
	switch d.Class {
	case imgfmt.ClassUNORM:
		storeUNORM(d, src, dst, opt)
	case imgfmt.ClassSNORM:
		storeSNORM(d, src, dst)
	case imgfmt.ClassUINT:
		storeIntCopy(d, src, dst, false)
	case imgfmt.ClassSINT:
		storeIntCopy(d, src, dst, true)
	case imgfmt.ClassFLOAT:
		storeFloat(d, src, dst)
	case imgfmt.ClassSharedExp:
		storeSharedExp(d, src, dst)
	case imgfmt.ClassPacked:
		storePacked(d, src, dst)
	case imgfmt.ClassYUV:
		storeYUVSingle(d, src, dst)
	case imgfmt.ClassBGR:
		storeBGR(d, src, dst, opt)
	case imgfmt.ClassXR:
		storeXR(d, src, dst)
	case imgfmt.ClassDepth:
		storeDepthStencil(d, src, dst)
	default:
		return false
	}
	return true
}

func checkLoadBufSize(d imgfmt.Descriptor, src []byte, pixels int) error {
	elts := elementsForPixels(d, pixels)
	need := elts * d.BytesPerElt
	if len(src) < need {
		return fmt.Errorf("scanline: src too small for %s: need %d bytes, have %d", d.Name, need, len(src))
	}
	return nil
}

func checkStoreBufSize(d imgfmt.Descriptor, dst []byte, pixels int) error {
	elts := elementsForPixels(d, pixels)
	need := elts * d.BytesPerElt
	if len(dst) < need {
		return fmt.Errorf("scanline: dst too small for %s: need %d bytes, have %d", d.Name, need, len(dst))
	}
	return nil
}

// elementsForPixels returns how many on-wire elements (quadlets/pixels) a
// row of the given pixel count occupies for format d. Packed and dual-pixel
// formats emit one element per two pixels.
func elementsForPixels(d imgfmt.Descriptor, pixels int) int {
	switch d.Class {
	case imgfmt.ClassPacked:
		return (pixels + 1) / 2
	default:
		return pixels
	}
}

func ditherOffset(opt Options, x int, stepSize float32) float32 {
	switch opt.Dither {
	case DitherOrdered:
		return OrderedOffset(opt.RowX+x, opt.RowY, stepSize)
	default:
		return 0
	}
}

func applyDiffusion(opt Options, x, c int, v float32) (biased float32, propagate func(float32)) {
	if opt.Dither != DitherDiffusion || opt.Err == nil {
		return v, func(float32) {}
	}
	biased = opt.Err.Apply(x, c, v)
	return biased, func(residual float32) { opt.Err.Propagate(x, c, residual) }
}
