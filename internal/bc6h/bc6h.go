// Package bc6h implements component F: the BC6H HDR block codec, per
// spec.md §4.F. All 14 real BC6H modes are driven by one generic
// parameter table (modes, below), transcribed from the literal
// ms_aInfo/ms_aModeToInfo tables in
// _examples/original_source/Exporters/FBX/3rdParty/DirectXTex/BC6HBC7.cpp:
// modes 1-10 use two regions with a 5-bit shape field and 3-bit
// indices, modes 11-14 use a single region with 4-bit indices; all but
// mode 10 and mode 11 express their non-base endpoints as a signed
// delta from the base endpoint; the encoder skips any candidate whose
// deltas do not fit the mode's declared delta precision. Partition assignment and anchor positions come from the
// literal shape tables in internal/shape. Decode falls back to the
// spec's malformed-block contract (opaque black) for any reserved mode
// field value.
package bc6h

import (
	"sort"

	"github.com/deepteams/texcomp/internal/bitio"
	"github.com/deepteams/texcomp/internal/optimize"
	"github.com/deepteams/texcomp/internal/pixel"
	"github.com/deepteams/texcomp/internal/shape"
)

// BlockSize is the packed size in bytes of a BC6H block.
const BlockSize = 16

const totalBits = 128

// bc6hMode is the parameter set for one of BC6H's 14 real modes.
type bc6hMode struct {
	raw         int    // mode field value (ms_aModeToInfo index)
	regions     int    // 1 or 2
	transformed bool   // non-base endpoints stored as delta from the base, vs. stored directly
	idxBits     int    // 3 for two regions, 4 for one
	basePrec    [3]int // base (first) endpoint precision, per R/G/B
	deltaPrec   [3]int // width of every other endpoint's field, per R/G/B
}

// modes holds all 14 BC6H modes, transcribed from D3DX_BC6H::ms_aInfo.
var modes = []bc6hMode{
	{raw: 0x00, regions: 2, transformed: true, idxBits: 3, basePrec: [3]int{10, 10, 10}, deltaPrec: [3]int{5, 5, 5}},
	{raw: 0x01, regions: 2, transformed: true, idxBits: 3, basePrec: [3]int{7, 7, 7}, deltaPrec: [3]int{6, 6, 6}},
	{raw: 0x02, regions: 2, transformed: true, idxBits: 3, basePrec: [3]int{11, 11, 11}, deltaPrec: [3]int{5, 4, 4}},
	{raw: 0x06, regions: 2, transformed: true, idxBits: 3, basePrec: [3]int{11, 11, 11}, deltaPrec: [3]int{4, 5, 4}},
	{raw: 0x0a, regions: 2, transformed: true, idxBits: 3, basePrec: [3]int{11, 11, 11}, deltaPrec: [3]int{4, 4, 5}},
	{raw: 0x0e, regions: 2, transformed: true, idxBits: 3, basePrec: [3]int{9, 9, 9}, deltaPrec: [3]int{5, 5, 5}},
	{raw: 0x12, regions: 2, transformed: true, idxBits: 3, basePrec: [3]int{8, 8, 8}, deltaPrec: [3]int{6, 5, 5}},
	{raw: 0x16, regions: 2, transformed: true, idxBits: 3, basePrec: [3]int{8, 8, 8}, deltaPrec: [3]int{5, 6, 5}},
	{raw: 0x1a, regions: 2, transformed: true, idxBits: 3, basePrec: [3]int{8, 8, 8}, deltaPrec: [3]int{5, 5, 6}},
	{raw: 0x1e, regions: 2, transformed: false, idxBits: 3, basePrec: [3]int{6, 6, 6}, deltaPrec: [3]int{6, 6, 6}},
	{raw: 0x03, regions: 1, transformed: false, idxBits: 4, basePrec: [3]int{10, 10, 10}, deltaPrec: [3]int{10, 10, 10}},
	{raw: 0x07, regions: 1, transformed: true, idxBits: 4, basePrec: [3]int{11, 11, 11}, deltaPrec: [3]int{9, 9, 9}},
	{raw: 0x0b, regions: 1, transformed: true, idxBits: 4, basePrec: [3]int{12, 12, 12}, deltaPrec: [3]int{8, 8, 8}},
	{raw: 0x0f, regions: 1, transformed: true, idxBits: 4, basePrec: [3]int{16, 16, 16}, deltaPrec: [3]int{4, 4, 4}},
}

func modeByRaw(raw int) (bc6hMode, bool) {
	for _, m := range modes {
		if m.raw == raw {
			return m, true
		}
	}
	return bc6hMode{}, false
}

func subsetsOf(regions int) int {
	if regions == 2 {
		return 2
	}
	return 1
}

// weights3 are the fixed 3-bit index interpolation weights (§4.F).
var weights3 = [8]int32{0, 9, 18, 27, 37, 46, 55, 64}

// weights4 are the fixed 4-bit index interpolation weights.
var weights4 = [16]int32{0, 4, 9, 13, 17, 21, 26, 30, 34, 38, 43, 47, 51, 55, 60, 64}

func interpolate(a, b, w int32) int32 {
	return (a*(64-w) + b*w + 32) >> 6
}

// Options selects the signedness of the HDR channel data (BC6H_UF16 vs
// BC6H_SF16).
type Options struct {
	Signed bool
}

// opaqueBlack is the malformed/fallback decode output, per spec.md §4.F.
func opaqueBlack() pixel.Block {
	var out pixel.Block
	for i := range out {
		out[i] = pixel.RGBAf{R: 0, G: 0, B: 0, A: 1}
	}
	return out
}

// quantize implements spec.md §4.F's quantize(v, prec, signed).
func quantize(v int32, prec int, signed bool) int32 {
	if signed {
		sign := int32(1)
		mag := v
		if mag < 0 {
			sign = -1
			mag = -mag
		}
		return sign * quantizeMag(mag, prec-1)
	}
	return quantizeMag(v, prec)
}

func quantizeMag(v int32, prec int) int32 {
	if prec >= 15 {
		return v
	}
	return (v << uint(prec)) / (int32(pixel.F16MAX) + 1)
}

// unquantize implements spec.md §4.F's unquantize(q, prec, signed): the
// exact inverse of quantizeMag's scaling, rounded to nearest and clamped
// to F16MAX.
func unquantize(q int32, prec int, signed bool) int32 {
	if signed {
		sign := int32(1)
		mag := q
		if mag < 0 {
			sign = -1
			mag = -mag
		}
		return sign * unquantizeMag(mag, prec-1)
	}
	return unquantizeMag(q, prec)
}

func unquantizeMag(q int32, prec int) int32 {
	if prec >= 15 {
		return q
	}
	v := (q*(int32(pixel.F16MAX)+1) + (1 << uint(prec-1))) >> uint(prec)
	if v > int32(pixel.F16MAX) {
		v = int32(pixel.F16MAX)
	}
	return v
}

func clampSigned(v, prec int32) int32 {
	maxV := int32(1)<<(uint(prec)-1) - 1
	minV := -maxV - 1
	if v > maxV {
		return maxV
	}
	if v < minV {
		return minV
	}
	return v
}

func quantizeVec(v [3]float32, prec [3]int, signed bool) [3]int32 {
	var out [3]int32
	for ch := 0; ch < 3; ch++ {
		out[ch] = quantize(int32(v[ch]), prec[ch], signed)
	}
	return out
}

func unquantize3(v [3]int32, prec [3]int, signed bool) [3]int32 {
	return [3]int32{unquantize(v[0], prec[0], signed), unquantize(v[1], prec[1], signed), unquantize(v[2], prec[2], signed)}
}

// samplesToINT converts a block of float samples to the signed-magnitude
// integer colour space BC6H operates in.
func samplesToINT(block *pixel.Block) [16]pixel.INTColor {
	var out [16]pixel.INTColor
	for i, s := range block {
		out[i] = pixel.ToINTColor(s)
	}
	return out
}

// EncodeBC6H compresses a 4x4 HDR block, per spec.md §4.F's pipeline:
// try every mode, and within each mode enumerate shapes, scoring every
// candidate with a quick fit-and-assign pass, keeping the best quarter,
// and refining those survivors with a perturbation search.
func EncodeBC6H(block *pixel.Block, opt Options) [BlockSize]byte {
	ints := samplesToINT(block)

	var bestBits [BlockSize]byte
	bestErr := int64(1) << 62
	found := false
	for _, m := range modes {
		bits, err, ok := encodeMode(ints, m, opt)
		if !ok {
			continue
		}
		if !found || err < bestErr {
			bestBits, bestErr, found = bits, err, true
		}
	}
	return bestBits
}

type bc6hCandidate struct {
	sh  int
	e   [4][3]int32
	idx []int32
	err int64
}

func encodeMode(ints [16]pixel.INTColor, m bc6hMode, opt Options) ([BlockSize]byte, int64, bool) {
	shapeCount := 1
	if m.regions == 2 {
		// BC6H has no 3-subset mode, so its 2-subset encoder only ever
		// draws from the first half of the shared 64-shape table.
		shapeCount = 32
	}

	var scored []bc6hCandidate
	for sh := 0; sh < shapeCount; sh++ {
		e, idx, err, ok := fitMode(ints, m, sh, opt)
		if !ok {
			continue
		}
		scored = append(scored, bc6hCandidate{sh, e, idx, err})
	}
	if len(scored) == 0 {
		return [BlockSize]byte{}, 0, false
	}
	sort.Slice(scored, func(i, j int) bool { return scored[i].err < scored[j].err })
	keep := len(scored) / 4
	if keep < 1 {
		keep = 1
	}
	scored = scored[:keep]

	bestErr := int64(1) << 62
	var bestBits [BlockSize]byte
	found := false
	for _, c := range scored {
		e, idx, err, ok := refine(ints, m, c.sh, c.e, opt)
		if !ok {
			continue
		}
		if !found || err < bestErr {
			bestBits = packMode(m, c.sh, e, idx, opt)
			bestErr = err
			found = true
		}
	}
	return bestBits, bestErr, found
}

// fitMode is the rough-scoring pass: fit endpoints per region from the
// unrotated samples, quantize, resolve deltas (bailing out if any
// channel overflows the mode's declared delta width), and assign
// indices.
func fitMode(ints [16]pixel.INTColor, m bc6hMode, sh int, opt Options) ([4][3]int32, []int32, int64, bool) {
	parts := shape.Of(subsetsOf(m.regions), sh)

	var eFloat [4][3]float32
	for p := 0; p < m.regions; p++ {
		var samples []pixel.RGBAf
		for i, pp := range parts {
			if pp == p {
				c := ints[i]
				samples = append(samples, pixel.RGBAf{R: float32(c.R), G: float32(c.G), B: float32(c.B), A: 1})
			}
		}
		if len(samples) == 0 {
			samples = []pixel.RGBAf{{}}
		}
		lo, hi := optimize.RGB(samples, 1<<uint(m.idxBits), optimize.Uniform)
		eFloat[2*p] = lo
		eFloat[2*p+1] = hi
	}

	var e [4][3]int32
	e[0] = quantizeVec(eFloat[0], m.basePrec, opt.Signed)
	if m.transformed {
		for k := 1; k < 2*m.regions; k++ {
			full := quantizeVec(eFloat[k], m.basePrec, opt.Signed)
			for ch := 0; ch < 3; ch++ {
				d := full[ch] - e[0][ch]
				maxMag := int32(1) << uint(m.deltaPrec[ch]-1)
				if d >= maxMag || d < -maxMag {
					return [4][3]int32{}, nil, 0, false
				}
				e[k][ch] = e[0][ch] + d
			}
		}
	} else {
		for k := 1; k < 2*m.regions; k++ {
			e[k] = quantizeVec(eFloat[k], m.deltaPrec, opt.Signed)
		}
	}

	idx := assignIndices(ints, parts, e, m, opt.Signed)
	err := paletteError(ints, parts, e, idx, m, opt.Signed)
	return e, idx, err, true
}

// refine runs spec.md §4.F's perturbation search: for decreasing step
// sizes, nudge each resolved endpoint channel up or down and keep the
// move if it lowers total error and the result still fits the mode's
// delta width.
func refine(ints [16]pixel.INTColor, m bc6hMode, sh int, e [4][3]int32, opt Options) ([4][3]int32, []int32, int64, bool) {
	parts := shape.Of(subsetsOf(m.regions), sh)

	idx := assignIndices(ints, parts, e, m, opt.Signed)
	bestErr := paletteError(ints, parts, e, idx, m, opt.Signed)

	fits := func(e [4][3]int32) bool {
		if !m.transformed {
			return true
		}
		for k := 1; k < 2*m.regions; k++ {
			for ch := 0; ch < 3; ch++ {
				d := e[k][ch] - e[0][ch]
				maxMag := int32(1) << uint(m.deltaPrec[ch]-1)
				if d >= maxMag || d < -maxMag {
					return false
				}
			}
		}
		return true
	}

	bounds := func(prec int) (int32, int32) {
		if opt.Signed {
			mv := int32(1)<<(uint(prec)-1) - 1
			return -mv - 1, mv
		}
		return 0, int32(1)<<uint(prec) - 1
	}

	for _, step := range []int32{4, 2, 1} {
		improvedAny := true
		for improvedAny {
			improvedAny = false
			for k := 0; k < 2*m.regions; k++ {
				for ch := 0; ch < 3; ch++ {
					lo, hi := bounds(m.basePrec[ch])
					orig := e[k][ch]
					bestDelta, bestTrial := int32(0), bestErr
					for _, delta := range [2]int32{step, -step} {
						nv := orig + delta
						if nv < lo || nv > hi {
							continue
						}
						e[k][ch] = nv
						if !fits(e) {
							e[k][ch] = orig
							continue
						}
						ci := assignIndices(ints, parts, e, m, opt.Signed)
						errv := paletteError(ints, parts, e, ci, m, opt.Signed)
						if errv < bestTrial {
							bestTrial, bestDelta = errv, delta
						}
					}
					e[k][ch] = orig
					if bestDelta != 0 {
						e[k][ch] = orig + bestDelta
						bestErr = bestTrial
						improvedAny = true
					}
				}
			}
		}
	}

	idx = assignIndices(ints, parts, e, m, opt.Signed)
	bestErr = paletteError(ints, parts, e, idx, m, opt.Signed)
	return e, idx, bestErr, true
}

func assignIndices(ints [16]pixel.INTColor, parts [16]int, e [4][3]int32, m bc6hMode, signed bool) []int32 {
	idx := make([]int32, 16)
	for i, c := range ints {
		p := parts[i]
		idx[i] = nearestIndex(c, e[2*p], e[2*p+1], m.idxBits, signed, m.basePrec)
	}
	return idx
}

func paletteError(ints [16]pixel.INTColor, parts [16]int, e [4][3]int32, idx []int32, m bc6hMode, signed bool) int64 {
	var total int64
	weights := weightTable(m.idxBits)
	for i, c := range ints {
		p := parts[i]
		loU := unquantize3(e[2*p], m.basePrec, signed)
		hiU := unquantize3(e[2*p+1], m.basePrec, signed)
		w := weights[idx[i]]
		r := interpolate(loU[0], hiU[0], w)
		g := interpolate(loU[1], hiU[1], w)
		b := interpolate(loU[2], hiU[2], w)
		dr, dg, db := int64(r-c.R), int64(g-c.G), int64(b-c.B)
		total += dr*dr + dg*dg + db*db
	}
	return total
}

func nearestIndex(c pixel.INTColor, lo, hi [3]int32, idxBits int, signed bool, prec [3]int) int32 {
	loU := unquantize3(lo, prec, signed)
	hiU := unquantize3(hi, prec, signed)
	weights := weightTable(idxBits)
	best, bestD := 0, int64(1)<<62
	for wi, w := range weights {
		r := interpolate(loU[0], hiU[0], w)
		g := interpolate(loU[1], hiU[1], w)
		b := interpolate(loU[2], hiU[2], w)
		dr, dg, db := int64(r-c.R), int64(g-c.G), int64(b-c.B)
		d := dr*dr + dg*dg + db*db
		if d < bestD {
			bestD, best = d, wi
		}
	}
	return int32(best)
}

func weightTable(idxBits int) []int32 {
	if idxBits == 3 {
		return weights3[:]
	}
	return weights4[:]
}

func writeSigned(buf *bitio.Buffer, cursor *int, v int32, n int, signed bool) {
	var uv uint32
	if signed {
		uv = uint32(v) & ((1 << uint(n)) - 1)
	} else {
		uv = uint32(v)
	}
	buf.SetBitsWide(cursor, n, uv)
}

func readSigned(buf *bitio.Buffer, cursor *int, n int, signed bool) int32 {
	raw := buf.GetBitsWide(cursor, n)
	if signed && raw&(1<<uint(n-1)) != 0 {
		return int32(raw) - (1 << uint(n))
	}
	return int32(raw)
}

// writeModeField writes the variable-width mode selector of spec.md
// §4.F: 2 bits if the mode's raw value is 0 or 1, else those same 2
// low-order bits followed by 3 more holding the remaining high bits.
func writeModeField(buf *bitio.Buffer, cursor *int, raw int) {
	if raw == 0 || raw == 1 {
		buf.SetBitsWide(cursor, 2, uint32(raw))
		return
	}
	buf.SetBitsWide(cursor, 2, uint32(raw&0x3))
	buf.SetBitsWide(cursor, 3, uint32(raw>>2))
}

func readModeField(buf *bitio.Buffer, cursor *int) int {
	low := int(buf.GetBitsWide(cursor, 2))
	if low == 0 || low == 1 {
		return low
	}
	high := int(buf.GetBitsWide(cursor, 3))
	return low | (high << 2)
}

// writeIndices packs per-pixel indices with the fix-up convention: the
// anchor pixel of each region loses its top bit (assumed zero).
func writeIndices(buf *bitio.Buffer, cursor *int, idx []int32, bits, regions, sh int) {
	anchors := shape.Anchors(subsetsOf(regions), sh)
	for i, v := range idx {
		n := bits
		for _, a := range anchors {
			if a == i {
				n = bits - 1
				break
			}
		}
		buf.SetBitsWide(cursor, n, uint32(v))
	}
}

func readIndices(buf *bitio.Buffer, cursor *int, count, bits, regions, sh int) []int32 {
	anchors := shape.Anchors(subsetsOf(regions), sh)
	idx := make([]int32, count)
	for i := 0; i < count; i++ {
		n := bits
		for _, a := range anchors {
			if a == i {
				n = bits - 1
				break
			}
		}
		idx[i] = int32(buf.GetBitsWide(cursor, n))
	}
	return idx
}

// packMode serializes one candidate block into its 16-byte container.
func packMode(m bc6hMode, sh int, e [4][3]int32, idx []int32, opt Options) [BlockSize]byte {
	var buf bitio.Buffer
	cursor := 0
	writeModeField(&buf, &cursor, m.raw)
	if m.regions == 2 {
		buf.SetBitsWide(&cursor, 5, uint32(sh))
	}
	for ch := 0; ch < 3; ch++ {
		writeSigned(&buf, &cursor, e[0][ch], m.basePrec[ch], opt.Signed)
	}
	if m.transformed {
		for k := 1; k < 2*m.regions; k++ {
			for ch := 0; ch < 3; ch++ {
				d := e[k][ch] - e[0][ch]
				writeSigned(&buf, &cursor, d, m.deltaPrec[ch], true)
			}
		}
	} else {
		for k := 1; k < 2*m.regions; k++ {
			for ch := 0; ch < 3; ch++ {
				writeSigned(&buf, &cursor, e[k][ch], m.deltaPrec[ch], opt.Signed)
			}
		}
	}
	writeIndices(&buf, &cursor, idx, m.idxBits, m.regions, sh)

	var out [BlockSize]byte
	copy(out[:], buf.Bytes())
	return out
}

// DecodeBC6H expands a 16-byte block. Any mode value not present in
// modes is reserved/malformed, per spec.md §4.F.
func DecodeBC6H(in *[BlockSize]byte, opt Options) (result pixel.Block) {
	defer func() {
		if recover() != nil {
			result = opaqueBlack()
		}
	}()
	buf, err := bitio.FromBytes(in[:])
	if err != nil {
		return opaqueBlack()
	}
	cursor := 0
	raw := readModeField(&buf, &cursor)

	m, ok := modeByRaw(raw)
	if !ok {
		return opaqueBlack()
	}

	sh := 0
	if m.regions == 2 {
		sh = int(buf.GetBitsWide(&cursor, 5))
	}

	var e [4][3]int32
	for ch := 0; ch < 3; ch++ {
		e[0][ch] = readSigned(&buf, &cursor, m.basePrec[ch], opt.Signed)
	}
	if m.transformed {
		for k := 1; k < 2*m.regions; k++ {
			for ch := 0; ch < 3; ch++ {
				d := readSigned(&buf, &cursor, m.deltaPrec[ch], true)
				e[k][ch] = clampSigned(e[0][ch]+d, int32(m.basePrec[ch]))
			}
		}
	} else {
		for k := 1; k < 2*m.regions; k++ {
			for ch := 0; ch < 3; ch++ {
				e[k][ch] = readSigned(&buf, &cursor, m.deltaPrec[ch], opt.Signed)
			}
		}
	}

	if cursor+16*m.idxBits-m.regions > totalBits {
		return opaqueBlack()
	}
	idx := readIndices(&buf, &cursor, 16, m.idxBits, m.regions, sh)

	parts := shape.Of(subsetsOf(m.regions), sh)
	table := weightTable(m.idxBits)

	var out pixel.Block
	for i := range out {
		p := parts[i]
		loU := unquantize3(e[2*p], m.basePrec, opt.Signed)
		hiU := unquantize3(e[2*p+1], m.basePrec, opt.Signed)
		if int(idx[i]) < 0 || int(idx[i]) >= len(table) {
			return opaqueBlack()
		}
		w := table[idx[i]]
		r := interpolate(loU[0], hiU[0], w)
		g := interpolate(loU[1], hiU[1], w)
		b := interpolate(loU[2], hiU[2], w)
		out[i] = pixel.FromINTColor(pixel.INTColor{R: r, G: g, B: b})
	}
	return out
}
