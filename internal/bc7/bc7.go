// Package bc7 implements component F: the BC7 LDR block codec, per
// spec.md §4.F. The eight BC7 modes are driven by one generic table-
// driven encode/decode path (see table.go); partition assignment and
// anchor positions come from the literal AMD/DirectXTex shape tables in
// internal/shape. The encoder enumerates shape, rotation and index-mode
// combinations, scores each with a quick quantize-and-assign pass, keeps
// the best quarter, and refines those survivors with a per-channel
// perturbation search before picking the overall winner.
package bc7

import (
	"sort"

	"github.com/deepteams/texcomp/internal/bitio"
	"github.com/deepteams/texcomp/internal/optimize"
	"github.com/deepteams/texcomp/internal/pixel"
	"github.com/deepteams/texcomp/internal/shape"
)

// BlockSize is the packed size in bytes of a BC7 block.
const BlockSize = 16

const totalBits = 128

// weights2, weights3, weights4 are the fixed index interpolation weight
// tables shared with BC6H's 3-/4-bit tables; BC7 additionally uses a
// 2-bit table for modes with a small index width.
var weights2 = [4]int32{0, 21, 43, 64}
var weights3 = [8]int32{0, 9, 18, 27, 37, 46, 55, 64}
var weights4 = [16]int32{0, 4, 9, 13, 17, 21, 26, 30, 34, 38, 43, 47, 51, 55, 60, 64}

func weightTable(bits int) []int32 {
	switch bits {
	case 2:
		return weights2[:]
	case 3:
		return weights3[:]
	default:
		return weights4[:]
	}
}

// endpoint is one quantized colour+alpha endpoint, P-bit already folded
// in as the low-order bit of each RGB channel.
type endpoint struct {
	r, g, b, a int32
}

// transparentBlack is the malformed/fallback decode output, per spec.md
// §4.F ("reading past bit 128, mode 8 or any other malformed block
// yields 16 transparent-black pixels").
func transparentBlack() pixel.Block {
	var out pixel.Block
	for i := range out {
		out[i] = pixel.RGBAf{R: 0, G: 0, B: 0, A: 0}
	}
	return out
}

// EncodeBC7 compresses a 4x4 LDR block by trying every mode (see
// table.go) and keeping the one with lowest total squared error.
func EncodeBC7(block *pixel.Block) [BlockSize]byte {
	var bestBits [BlockSize]byte
	bestErr := int64(1) << 62
	found := false

	for _, m := range modes {
		bits, err, ok := encodeMode(block, m)
		if !ok {
			continue
		}
		if !found || err < bestErr {
			bestBits, bestErr, found = bits, err, true
		}
	}
	return bestBits
}

// candidate is one (shape, rotation, index-mode) combination scored by
// fitMode before the top quarter is carried into refine.
type candidate struct {
	sh, rotation, idxMode int
	lo, hi                []endpoint
	colorIdx, alphaIdx    []int32
	err                   int64
}

// encodeMode runs spec.md §4.F's search for one mode: enumerate every
// shape/rotation/index-mode combination, score each with a single
// quantize-and-assign pass, keep the best max(1, n/4), then refine each
// survivor with a perturbation search before keeping the lowest-error
// result.
func encodeMode(block *pixel.Block, m mode) ([BlockSize]byte, int64, bool) {
	shapeCount := 1
	if m.shapeBits > 0 {
		shapeCount = 1 << uint(m.shapeBits)
	}
	rotations := []int{0}
	if m.rotBits > 0 {
		rotations = []int{0, 1, 2, 3}
	}
	idxModes := []int{0}
	if m.idxModeBits > 0 {
		idxModes = []int{0, 1}
	}

	var scored []candidate
	for sh := 0; sh < shapeCount; sh++ {
		for _, rot := range rotations {
			for _, im := range idxModes {
				lo, hi, ci, ai, err := fitMode(block, m, sh, rot, im)
				scored = append(scored, candidate{sh, rot, im, lo, hi, ci, ai, err})
			}
		}
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
		rotated := rotateBlock(block, c.rotation)
		parts := shape.Of(m.parts, c.sh)
		colorBits, alphaBits := m.idx, m.idx2
		if c.idxMode == 1 {
			colorBits, alphaBits = m.idx2, m.idx
		}
		lo, hi, ci, ai, err := refine(rotated, parts, m, c.lo, c.hi, colorBits, alphaBits)
		if !found || err < bestErr {
			raw1, raw2 := ci, ai
			if c.idxMode == 1 {
				raw1, raw2 = ai, ci
			}
			bestBits = packMode(m, c.sh, c.rotation, c.idxMode, lo, hi, raw1, raw2)
			bestErr = err
			found = true
		}
	}
	return bestBits, bestErr, found
}

// fitMode computes one rough candidate: fit endpoints per partition from
// the (possibly rotated) samples, quantize, and assign indices. This is
// the "rough_mse" scoring pass spec.md §4.F runs over every shape before
// narrowing down to the survivors that get refined.
func fitMode(block *pixel.Block, m mode, sh, rotation, idxMode int) ([]endpoint, []endpoint, []int32, []int32, int64) {
	rotated := rotateBlock(block, rotation)
	parts := shape.Of(m.parts, sh)

	colorBits, alphaBits := m.idx, m.idx2
	if idxMode == 1 {
		colorBits, alphaBits = m.idx2, m.idx
	}

	floatLo := make([]pixel.RGBAf, m.parts)
	floatHi := make([]pixel.RGBAf, m.parts)
	for p := 0; p < m.parts; p++ {
		var samples []pixel.RGBAf
		for i, pp := range parts {
			if pp == p {
				samples = append(samples, rotated[i])
			}
		}
		if len(samples) == 0 {
			samples = []pixel.RGBAf{{}}
		}
		if m.precA > 0 && m.idx2 == 0 {
			lo4, hi4 := optimize.RGBA(samples, 1<<uint(m.idx), optimize.Uniform)
			floatLo[p] = pixel.RGBAf{R: lo4[0], G: lo4[1], B: lo4[2], A: lo4[3]}
			floatHi[p] = pixel.RGBAf{R: hi4[0], G: hi4[1], B: hi4[2], A: hi4[3]}
		} else {
			lo3, hi3 := optimize.RGB(samples, 1<<uint(colorBits), optimize.Uniform)
			floatLo[p] = pixel.RGBAf{R: lo3[0], G: lo3[1], B: lo3[2], A: 1}
			floatHi[p] = pixel.RGBAf{R: hi3[0], G: hi3[1], B: hi3[2], A: 0}
			if m.precA > 0 {
				aLo, aHi := float32(1), float32(0)
				for _, s := range samples {
					if s.A < aLo {
						aLo = s.A
					}
					if s.A > aHi {
						aHi = s.A
					}
				}
				floatLo[p].A, floatHi[p].A = aLo, aHi
			}
		}
	}

	lo := make([]endpoint, m.parts)
	hi := make([]endpoint, m.parts)
	for p := 0; p < m.parts; p++ {
		lo[p] = quantizeEndpoint(floatLo[p], m)
		hi[p] = quantizeEndpoint(floatHi[p], m)
	}

	colorIdx, alphaIdx := assignIndices(rotated, parts, lo, hi, m, colorBits, alphaBits)
	err := scoreMode(rotated, parts, lo, hi, colorIdx, alphaIdx, m, colorBits, alphaBits)
	return lo, hi, colorIdx, alphaIdx, err
}

// refine runs the perturbation search of spec.md §4.F: for decreasing
// step sizes, try nudging each endpoint channel up or down and keep the
// move if it lowers total error, alternating over all endpoints until a
// pass makes no further improvement.
func refine(rotated []pixel.RGBAf, parts []int, m mode, lo, hi []endpoint, colorBits, alphaBits int) ([]endpoint, []endpoint, []int32, []int32, int64) {
	colorIdx, alphaIdx := assignIndices(rotated, parts, lo, hi, m, colorBits, alphaBits)
	bestErr := scoreMode(rotated, parts, lo, hi, colorIdx, alphaIdx, m, colorBits, alphaBits)

	maxPrec := m.precRGB
	if m.pbitMode != pbitNone {
		maxPrec++
	}
	maxRGB := int32(1<<uint(maxPrec)) - 1
	maxA := int32(0)
	if m.precA > 0 {
		maxA = int32(1<<uint(m.precA)) - 1
	}

	trial := func(ch *int32, max int32, step int32) bool {
		orig := *ch
		bestDelta, bestTrial := int32(0), bestErr
		for _, delta := range [2]int32{step, -step} {
			nv := orig + delta
			if nv < 0 || nv > max {
				continue
			}
			*ch = nv
			ci, ai := assignIndices(rotated, parts, lo, hi, m, colorBits, alphaBits)
			e := scoreMode(rotated, parts, lo, hi, ci, ai, m, colorBits, alphaBits)
			if e < bestTrial {
				bestTrial, bestDelta = e, delta
			}
		}
		*ch = orig
		if bestDelta != 0 {
			*ch = orig + bestDelta
			bestErr = bestTrial
			return true
		}
		return false
	}

	for _, step := range []int32{4, 2, 1} {
		improvedAny := true
		for improvedAny {
			improvedAny = false
			for p := 0; p < m.parts; p++ {
				for _, e := range [2]*endpoint{&lo[p], &hi[p]} {
					if trial(&e.r, maxRGB, step) {
						improvedAny = true
					}
					if trial(&e.g, maxRGB, step) {
						improvedAny = true
					}
					if trial(&e.b, maxRGB, step) {
						improvedAny = true
					}
					if m.precA > 0 {
						if trial(&e.a, maxA, step) {
							improvedAny = true
						}
					}
				}
			}
		}
	}

	colorIdx, alphaIdx = assignIndices(rotated, parts, lo, hi, m, colorBits, alphaBits)
	bestErr = scoreMode(rotated, parts, lo, hi, colorIdx, alphaIdx, m, colorBits, alphaBits)
	return lo, hi, colorIdx, alphaIdx, bestErr
}

func assignIndices(rotated []pixel.RGBAf, parts []int, lo, hi []endpoint, m mode, colorBits, alphaBits int) ([]int32, []int32) {
	colorIdx := make([]int32, 16)
	var alphaIdx []int32
	if m.idx2 > 0 {
		alphaIdx = make([]int32, 16)
	}
	for i, p := range parts {
		colorIdx[i] = nearestIndexBits(rotated[i], lo[p], hi[p], m, colorBits)
		if m.idx2 > 0 {
			alphaIdx[i] = nearestIndexABits(rotated[i].A, lo[p], hi[p], m, alphaBits)
		}
	}
	return colorIdx, alphaIdx
}

func scoreMode(rotated []pixel.RGBAf, parts []int, lo, hi []endpoint, colorIdx, alphaIdx []int32, m mode, colorBits, alphaBits int) int64 {
	var total int64
	wColor := weightTable(colorBits)
	wAlpha := wColor
	if m.idx2 > 0 {
		wAlpha = weightTable(alphaBits)
	}
	for i, p := range parts {
		loF, hiF := endpointRGBAf(lo[p], m), endpointRGBAf(hi[p], m)
		t := float32(wColor[colorIdx[i]]) / 64
		r := pixel.Lerp(loF.R, hiF.R, t)
		g := pixel.Lerp(loF.G, hiF.G, t)
		b := pixel.Lerp(loF.B, hiF.B, t)
		a := loF.A
		if m.precA > 0 {
			ta := t
			if m.idx2 > 0 {
				ta = float32(wAlpha[alphaIdx[i]]) / 64
			}
			a = pixel.Lerp(loF.A, hiF.A, ta)
		}
		dr, dg, db, da := float64(rotated[i].R-r), float64(rotated[i].G-g), float64(rotated[i].B-b), float64(rotated[i].A-a)
		total += int64((dr*dr + dg*dg + db*db + da*da) * 255 * 255)
	}
	return total
}

func rotateBlock(block *pixel.Block, rotation int) []pixel.RGBAf {
	out := make([]pixel.RGBAf, 16)
	for i, p := range block {
		out[i] = rotateChannels(p, rotation)
	}
	return out
}

// rotateChannels swaps alpha with R, G or B, per spec.md §4.F's
// rotation field. The swap is its own inverse, so the encoder uses it
// to move samples into rotated space before fitting and DecodeBC7 uses
// the same function to move the decoded pixel back.
func rotateChannels(p pixel.RGBAf, rotation int) pixel.RGBAf {
	switch rotation {
	case 1:
		p.R, p.A = p.A, p.R
	case 2:
		p.G, p.A = p.A, p.G
	case 3:
		p.B, p.A = p.A, p.B
	}
	return p
}

func quantizeBits(v float32, bits int) int32 {
	maxV := float32((1 << uint(bits)) - 1)
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	return int32(v*maxV + 0.5)
}

func expandBits(v int32, bits int) float32 {
	maxV := float32((1 << uint(bits)) - 1)
	return float32(v) / maxV
}

// quantizeEndpoint quantizes one float endpoint to the mode's declared
// precision, folding in a P-bit (extra bit of precision, then the LSB
// folded back in) when the mode declares one.
func quantizeEndpoint(p pixel.RGBAf, m mode) endpoint {
	prec := m.precRGB
	if m.pbitMode != pbitNone {
		prec++
	}
	// Quantized at prec bits (precRGB+1 when a P-bit is declared); the
	// low-order bit doubles as the P-bit and is split out at emit time.
	e := endpoint{
		r: quantizeBits(p.R, prec),
		g: quantizeBits(p.G, prec),
		b: quantizeBits(p.B, prec),
	}
	if m.precA > 0 {
		e.a = quantizeBits(p.A, m.precA)
	}
	return e
}

func endpointRGBAf(e endpoint, m mode) pixel.RGBAf {
	prec := m.precRGB
	if m.pbitMode != pbitNone {
		prec++
	}
	a := float32(1)
	if m.precA > 0 {
		a = expandBits(e.a, m.precA)
	}
	return pixel.RGBAf{R: expandBits(e.r, prec), G: expandBits(e.g, prec), B: expandBits(e.b, prec), A: a}
}

func nearestIndexBits(p pixel.RGBAf, lo, hi endpoint, m mode, bits int) int32 {
	loF, hiF := endpointRGBAf(lo, m), endpointRGBAf(hi, m)
	weights := weightTable(bits)
	best, bestD := int32(0), float32(1e30)
	for wi, w := range weights {
		t := float32(w) / 64
		r := pixel.Lerp(loF.R, hiF.R, t)
		g := pixel.Lerp(loF.G, hiF.G, t)
		b := pixel.Lerp(loF.B, hiF.B, t)
		dr, dg, db := p.R-r, p.G-g, p.B-b
		d := dr*dr + dg*dg + db*db
		if d < bestD {
			bestD, best = d, int32(wi)
		}
	}
	return best
}

func nearestIndexABits(a float32, lo, hi endpoint, m mode, bits int) int32 {
	loF, hiF := endpointRGBAf(lo, m), endpointRGBAf(hi, m)
	weights := weightTable(bits)
	best, bestD := int32(0), float32(1e30)
	for wi, w := range weights {
		v := pixel.Lerp(loF.A, hiF.A, float32(w)/64)
		d := (a - v) * (a - v)
		if d < bestD {
			bestD, best = d, int32(wi)
		}
	}
	return best
}

// packMode serializes one candidate block into its 16-byte container,
// per the channel-plane-major layout of spec.md §4.F: a unary mode
// selector, shape/rotation/index-mode header fields, then R, G, B, (A)
// planes across all endpoints, then P-bits, then the two index arrays.
func packMode(m mode, sh, rotation, idxMode int, lo, hi []endpoint, idxRGB, idxA []int32) [BlockSize]byte {
	var buf bitio.Buffer
	cursor := 0
	buf.SetBitsWide(&cursor, m.num+1, 1<<uint(m.num))
	if m.shapeBits > 0 {
		buf.SetBitsWide(&cursor, m.shapeBits, uint32(sh))
	}
	if m.rotBits > 0 {
		buf.SetBitsWide(&cursor, m.rotBits, uint32(rotation))
	}
	if m.idxModeBits > 0 {
		buf.SetBitsWide(&cursor, m.idxModeBits, uint32(idxMode))
	}

	prec := m.precRGB
	if m.pbitMode != pbitNone {
		prec++
	}
	for ch := 0; ch < 3; ch++ {
		for p := 0; p < m.parts; p++ {
			buf.SetBitsWide(&cursor, prec-boolToInt(m.pbitMode != pbitNone), uint32(channel(lo[p], ch)>>boolToInt(m.pbitMode != pbitNone)))
			buf.SetBitsWide(&cursor, prec-boolToInt(m.pbitMode != pbitNone), uint32(channel(hi[p], ch)>>boolToInt(m.pbitMode != pbitNone)))
		}
	}
	if m.precA > 0 {
		for p := 0; p < m.parts; p++ {
			buf.SetBitsWide(&cursor, m.precA, uint32(lo[p].a))
			buf.SetBitsWide(&cursor, m.precA, uint32(hi[p].a))
		}
	}
	if m.pbitMode == pbitUnique {
		for p := 0; p < m.parts; p++ {
			buf.SetBitsWide(&cursor, 1, uint32(lo[p].r&1))
			buf.SetBitsWide(&cursor, 1, uint32(hi[p].r&1))
		}
	} else if m.pbitMode == pbitShared {
		for p := 0; p < m.parts; p++ {
			buf.SetBitsWide(&cursor, 1, uint32(lo[p].r&1))
		}
	}

	writeIndices(&buf, &cursor, idxRGB, m.idx, m.parts, sh)
	if m.idx2 > 0 {
		writeIndices(&buf, &cursor, idxA, m.idx2, m.parts, sh)
	}

	var out [BlockSize]byte
	copy(out[:], buf.Bytes())
	return out
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func channel(e endpoint, ch int) int32 {
	switch ch {
	case 0:
		return e.r
	case 1:
		return e.g
	default:
		return e.b
	}
}

func writeIndices(buf *bitio.Buffer, cursor *int, idx []int32, bits, parts, sh int) {
	anchors := shape.Anchors(parts, sh)
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

func readIndices(buf *bitio.Buffer, cursor *int, bits, parts, sh int) []int32 {
	anchors := shape.Anchors(parts, sh)
	idx := make([]int32, 16)
	for i := 0; i < 16; i++ {
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

// DecodeBC7 expands a 16-byte block. The mode number is the position of
// the first set bit; an all-zero byte 0 (mode 8, reserved) and any read
// past 128 bits are malformed, per spec.md §4.F.
func DecodeBC7(in *[BlockSize]byte) (result pixel.Block) {
	defer func() {
		if recover() != nil {
			result = transparentBlack()
		}
	}()
	buf, err := bitio.FromBytes(in[:])
	if err != nil {
		return transparentBlack()
	}

	modeNum := -1
	for b := 0; b < 8; b++ {
		if in[0]&(1<<uint(b)) != 0 {
			modeNum = b
			break
		}
	}
	if modeNum < 0 || modeNum >= len(modes) {
		return transparentBlack()
	}
	m := modes[modeNum]

	cursor := modeNum + 1
	sh := 0
	if m.shapeBits > 0 {
		sh = int(buf.GetBitsWide(&cursor, m.shapeBits))
	}
	rotation := 0
	if m.rotBits > 0 {
		rotation = int(buf.GetBitsWide(&cursor, m.rotBits))
	}
	idxMode := 0
	if m.idxModeBits > 0 {
		idxMode = int(buf.GetBitsWide(&cursor, m.idxModeBits))
	}

	prec := m.precRGB
	hasPBit := m.pbitMode != pbitNone
	if hasPBit {
		prec++
	}
	storedPrec := prec
	if hasPBit {
		storedPrec--
	}

	lo := make([]endpoint, m.parts)
	hi := make([]endpoint, m.parts)
	for ch := 0; ch < 3; ch++ {
		for p := 0; p < m.parts; p++ {
			lv := int32(buf.GetBitsWide(&cursor, storedPrec))
			hv := int32(buf.GetBitsWide(&cursor, storedPrec))
			setChannel(&lo[p], ch, lv)
			setChannel(&hi[p], ch, hv)
		}
	}
	if m.precA > 0 {
		for p := 0; p < m.parts; p++ {
			lo[p].a = int32(buf.GetBitsWide(&cursor, m.precA))
			hi[p].a = int32(buf.GetBitsWide(&cursor, m.precA))
		}
	}
	if m.pbitMode == pbitUnique {
		for p := 0; p < m.parts; p++ {
			lo[p] = foldPBit(lo[p], int32(buf.GetBitsWide(&cursor, 1)))
			hi[p] = foldPBit(hi[p], int32(buf.GetBitsWide(&cursor, 1)))
		}
	} else if m.pbitMode == pbitShared {
		for p := 0; p < m.parts; p++ {
			bit := int32(buf.GetBitsWide(&cursor, 1))
			lo[p] = foldPBit(lo[p], bit)
			hi[p] = foldPBit(hi[p], bit)
		}
	}

	idxRGB := readIndices(buf, &cursor, m.idx, m.parts, sh)
	var idxA []int32
	if m.idx2 > 0 {
		idxA = readIndices(buf, &cursor, m.idx2, m.parts, sh)
	}
	if cursor > totalBits {
		return transparentBlack()
	}
	if idxMode == 1 {
		idxRGB, idxA = idxA, idxRGB
	}

	parts := shape.Of(m.parts, sh)
	wRGB := weightTable(m.idx)
	wA := wRGB
	if m.idx2 > 0 {
		wA = weightTable(m.idx2)
	}
	if idxMode == 1 {
		wRGB, wA = wA, wRGB
	}

	var out pixel.Block
	for i := range out {
		p := parts[i]
		loF, hiF := endpointRGBAf(lo[p], m), endpointRGBAf(hi[p], m)
		r := pixel.Lerp(loF.R, hiF.R, float32(wRGB[idxRGB[i]])/64)
		g := pixel.Lerp(loF.G, hiF.G, float32(wRGB[idxRGB[i]])/64)
		b := pixel.Lerp(loF.B, hiF.B, float32(wRGB[idxRGB[i]])/64)
		a := float32(1)
		if m.precA > 0 {
			idx := idxRGB[i]
			table := wRGB
			if m.idx2 > 0 {
				idx, table = idxA[i], wA
			}
			a = pixel.Lerp(loF.A, hiF.A, float32(table[idx])/64)
		}
		out[i] = rotateChannels(pixel.RGBAf{R: r, G: g, B: b, A: a}, rotation)
	}
	return out
}

func setChannel(e *endpoint, ch int, v int32) {
	switch ch {
	case 0:
		e.r = v
	case 1:
		e.g = v
	case 2:
		e.b = v
	}
}

func foldPBit(e endpoint, bit int32) endpoint {
	e.r = e.r<<1 | bit
	e.g = e.g<<1 | bit
	e.b = e.b<<1 | bit
	return e
}
