package scanline

import (
	"math"

	"github.com/deepteams/texcomp/internal/imgfmt"
	"github.com/deepteams/texcomp/internal/pixel"
)

func loadUNORM(d imgfmt.Descriptor, src []byte, dst []pixel.RGBAf, opt Options) {
	maxV := maxUnsigned(d.ChannelBits)
	bytesPerCh := d.ChannelBits / 8
	for i := range dst {
		vals := [4]float32{0, 0, 0, 1}
		off := i * d.BytesPerElt
		for c := 0; c < d.Channels; c++ {
			raw := readChannel(src, off+c*bytesPerCh, d.ChannelBits, false)
			f := float32(float64(raw) / maxV)
			if f < 0 {
				f = 0
			} else if f > 1 {
				f = 1
			}
			if (d.IsSRGB || opt.SRGB) && c < 3 {
				f = SRGBToLinear(f)
			}
			vals[c] = f
		}
		dst[i] = pixel.RGBAf{R: vals[0], G: vals[1], B: vals[2], A: vals[3]}
	}
}

func storeUNORM(d imgfmt.Descriptor, src []pixel.RGBAf, dst []byte, opt Options) {
	maxV := maxUnsigned(d.ChannelBits)
	bytesPerCh := d.ChannelBits / 8
	step := float32(1.0 / maxV)
	for n := range src {
		i := n
		if opt.Dither == DitherDiffusion && opt.Err != nil && !opt.Err.Forward() {
			i = len(src) - 1 - n // reverse rows walk right to left
		}
		p := src[i]
		vals := [4]float32{p.R, p.G, p.B, p.A}
		off := i * d.BytesPerElt
		for c := 0; c < d.Channels; c++ {
			f := vals[c]
			if (d.IsSRGB || opt.SRGB) && c < 3 {
				f = LinearToSRGB(f)
			}
			f += ditherOffset(opt, i, step)
			var propagate func(float32)
			f, propagate = applyDiffusion(opt, i, c, f)
			if f < 0 {
				f = 0
			} else if f > 1 {
				f = 1
			}
			scaled := float64(f) * maxV
			q := int64(math.Round(scaled))
			propagate(f - float32(float64(q)/maxV))
			writeChannel(dst, off+c*bytesPerCh, d.ChannelBits, q)
		}
	}
}

func loadSNORM(d imgfmt.Descriptor, src []byte, dst []pixel.RGBAf) {
	maxV := maxSigned(d.ChannelBits)
	minSigned := int64(-1) << uint(d.ChannelBits-1)
	bytesPerCh := d.ChannelBits / 8
	for i := range dst {
		vals := [4]float32{0, 0, 0, 1}
		off := i * d.BytesPerElt
		for c := 0; c < d.Channels; c++ {
			raw := readChannel(src, off+c*bytesPerCh, d.ChannelBits, true)
			var f float32
			if raw == minSigned {
				f = -1
			} else {
				f = float32(float64(raw) / maxV)
				if f < -1 {
					f = -1
				}
			}
			vals[c] = f
		}
		dst[i] = pixel.RGBAf{R: vals[0], G: vals[1], B: vals[2], A: vals[3]}
	}
}

func storeSNORM(d imgfmt.Descriptor, src []pixel.RGBAf, dst []byte) {
	maxV := maxSigned(d.ChannelBits)
	bytesPerCh := d.ChannelBits / 8
	for i, p := range src {
		vals := [4]float32{p.R, p.G, p.B, p.A}
		off := i * d.BytesPerElt
		for c := 0; c < d.Channels; c++ {
			f := vals[c]
			if f < -1 {
				f = -1
			} else if f > 1 {
				f = 1
			}
			q := int64(math.Round(float64(f) * maxV))
			writeChannel(dst, off+c*bytesPerCh, d.ChannelBits, q)
		}
	}
}

func loadIntCopy(d imgfmt.Descriptor, src []byte, dst []pixel.RGBAf, signed bool) {
	bytesPerCh := d.ChannelBits / 8
	for i := range dst {
		vals := [4]float32{0, 0, 0, 1}
		off := i * d.BytesPerElt
		for c := 0; c < d.Channels; c++ {
			raw := readChannel(src, off+c*bytesPerCh, d.ChannelBits, signed)
			vals[c] = float32(raw)
		}
		dst[i] = pixel.RGBAf{R: vals[0], G: vals[1], B: vals[2], A: vals[3]}
	}
}

func storeIntCopy(d imgfmt.Descriptor, src []pixel.RGBAf, dst []byte, signed bool) {
	bytesPerCh := d.ChannelBits / 8
	for i, p := range src {
		vals := [4]float32{p.R, p.G, p.B, p.A}
		off := i * d.BytesPerElt
		for c := 0; c < d.Channels; c++ {
			writeChannel(dst, off+c*bytesPerCh, d.ChannelBits, int64(vals[c]))
		}
	}
}

func loadFloat(d imgfmt.Descriptor, src []byte, dst []pixel.RGBAf) {
	bytesPerCh := d.ChannelBits / 8
	for i := range dst {
		vals := [4]float32{0, 0, 0, 1}
		off := i * d.BytesPerElt
		for c := 0; c < d.Channels; c++ {
			vals[c] = readFloatChannel(src, off+c*bytesPerCh, d.ChannelBits)
		}
		dst[i] = pixel.RGBAf{R: vals[0], G: vals[1], B: vals[2], A: vals[3]}
	}
}

// storeFloat writes float channels back out. NaNs pass through load
// unmodified (handled by readFloatChannel's plain bit reinterpret); on
// store into a float destination they are likewise passed through, per
// spec.md §4.C ("may be coerced to 0 on store into integer formats" — a
// float destination is not an integer format, so no coercion happens here).
func storeFloat(d imgfmt.Descriptor, src []pixel.RGBAf, dst []byte) {
	bytesPerCh := d.ChannelBits / 8
	for i, p := range src {
		vals := [4]float32{p.R, p.G, p.B, p.A}
		off := i * d.BytesPerElt
		for c := 0; c < d.Channels; c++ {
			writeFloatChannel(dst, off+c*bytesPerCh, d.ChannelBits, vals[c])
		}
	}
}
