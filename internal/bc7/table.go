package bc7

// pbitKind selects how a mode's P-bits are shared across endpoints, per
// spec.md §4.F.
type pbitKind int

const (
	pbitNone   pbitKind = iota
	pbitUnique          // one P-bit per endpoint
	pbitShared          // one P-bit per endpoint pair
)

// mode is the parameter set for one BC7 mode, taken directly from the
// table in spec.md §4.F.
type mode struct {
	num         int
	parts       int
	shapeBits   int
	pbitMode    pbitKind
	rotBits     int
	idxModeBits int
	idx         int // primary index width
	idx2        int // secondary (alpha) index width, 0 if unused
	precRGB     int
	precA       int
}

// modes holds the parameter set for all eight BC7 modes, per spec.md
// §4.F and the literal ms_aInfo table in
// _examples/original_source/Exporters/FBX/3rdParty/DirectXTex/BC6HBC7.cpp.
// EncodeBC7 tries every entry generically (quantizeEndpoint, packMode
// and friends are all written against the mode struct, not against any
// one mode number) and keeps the lowest-error result. Modes 4 and 5's
// rotation bits, and mode 4's index-mode bit, are searched by
// encodeMode alongside shape; DecodeBC7 reads whatever a real encoder
// would have set regardless.
var modes = []mode{
	0: {num: 0, parts: 3, shapeBits: 4, pbitMode: pbitUnique, idx: 3, precRGB: 4},
	1: {num: 1, parts: 2, shapeBits: 6, pbitMode: pbitShared, idx: 3, precRGB: 6},
	2: {num: 2, parts: 3, shapeBits: 6, pbitMode: pbitNone, idx: 2, precRGB: 5},
	3: {num: 3, parts: 2, shapeBits: 6, pbitMode: pbitUnique, idx: 2, precRGB: 7},
	4: {num: 4, parts: 1, rotBits: 2, idxModeBits: 1, idx: 2, idx2: 3, precRGB: 5, precA: 6},
	5: {num: 5, parts: 1, rotBits: 2, idx: 2, idx2: 2, precRGB: 7, precA: 8},
	6: {num: 6, parts: 1, pbitMode: pbitUnique, idx: 4, precRGB: 7, precA: 7},
	7: {num: 7, parts: 2, shapeBits: 6, pbitMode: pbitUnique, idx: 2, precRGB: 5, precA: 5},
}
