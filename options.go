// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/go-lzma/lzma2

package lzma

// EncodeMode selects the LZMA encoder strategy. It is resolved once at
// session construction (see NewEncoder) so the hot inner loop never
// branches on strategy per byte.
type EncodeMode int

const (
	// ModeFast is the greedy encoder: it takes the longest match at the
	// current position and does not look ahead to later positions.
	ModeFast EncodeMode = iota
	// ModeNormal picks, at each position, the candidate with the lowest
	// estimated bit price per byte; it does not optimize over a run of
	// positions.
	ModeNormal
)

func (m EncodeMode) String() string {
	if m == ModeNormal {
		return "normal"
	}
	return "fast"
}

// MatchFinderKind selects the match-finding data structure.
type MatchFinderKind int

const (
	// MatchFinderHC4 is the hash-chain 4-byte match finder (fast presets).
	MatchFinderHC4 MatchFinderKind = iota
	// MatchFinderBT4 is the binary-tree 4-byte match finder (normal presets).
	MatchFinderBT4
)

func (k MatchFinderKind) String() string {
	if k == MatchFinderBT4 {
		return "bt4"
	}
	return "hc4"
}

// NiceLenMax and NiceLenMin bound EncoderOptions.NiceLen.
const (
	NiceLenMin = 8
	NiceLenMax = matchLenMax // 273

	// LCDefault, LPDefault, PBDefault are the conventional LZMA defaults.
	LCDefault = 3
	LPDefault = 0
	PBDefault = 2

	// DictSizeDefault is the dictionary size used by Preset(6), the
	// library's default preset.
	DictSizeDefault = 8 << 20
)

// EncoderOptions configures LZMA/LZMA2 compression. Use Preset to obtain
// sane defaults for a compression level 0-9, then override individual
// fields as needed.
type EncoderOptions struct {
	DictSize    uint32
	LC          uint32
	LP          uint32
	PB          uint32
	Mode        EncodeMode
	NiceLen     uint32
	MatchFinder MatchFinderKind
	// DepthLimit bounds the match-finder search effort; 0 selects the
	// finder's own default (4+niceLen/4 for HC4, 16+niceLen/2 for BT4).
	DepthLimit int
	// PresetDict, if non-nil, prefills the dictionary before encoding
	// begins. Only NewRawEncoder accepts it; NewEncoder (the LZMA-alone
	// header carries no room to describe a preset dictionary) and
	// NewLZMA2Writer reject it with ErrUnsupported.
	PresetDict []byte
}

// DefaultEncoderOptions returns EncoderOptions for preset 6, the same
// default the reference xz tooling uses.
func DefaultEncoderOptions() EncoderOptions {
	return Preset(6)
}

// Preset returns EncoderOptions for compression level n, clamped to
// [0,9]. Presets 0-3 select the fast greedy strategy with the HC4 match
// finder; presets 4-9 select the normal price-optimizing strategy with
// the BT4 match finder.
func Preset(n int) EncoderOptions {
	if n < 0 {
		n = 0
	}
	if n > 9 {
		n = 9
	}

	opt := EncoderOptions{
		LC:       LCDefault,
		LP:       LPDefault,
		PB:       PBDefault,
		DictSize: presetToDictSize[n],
	}

	if n <= 3 {
		opt.Mode = ModeFast
		opt.MatchFinder = MatchFinderHC4
		if n <= 1 {
			opt.NiceLen = 128
		} else {
			opt.NiceLen = NiceLenMax
		}
		opt.DepthLimit = presetToDepthLimit[n]
	} else {
		opt.Mode = ModeNormal
		opt.MatchFinder = MatchFinderBT4
		switch n {
		case 4:
			opt.NiceLen = 16
		case 5:
			opt.NiceLen = 32
		default:
			opt.NiceLen = 64
		}
		opt.DepthLimit = 0
	}

	return opt
}

var (
	presetToDictSize = [10]uint32{
		1 << 18, 1 << 20, 1 << 21, 1 << 22, 1 << 22,
		1 << 23, 1 << 23, 1 << 24, 1 << 25, 1 << 26,
	}
	presetToDepthLimit = [4]int{4, 8, 24, 48}
)

// Validate checks lc/lp/pb bounds and lc+lp<=4, returning ErrInvalidInput
// on violation.
func (o *EncoderOptions) Validate() error {
	if o.LC > maxLC || o.LP > maxLP || o.PB > maxPB {
		return ErrInvalidInput
	}
	if o.LC+o.LP > maxLCLP {
		return ErrInvalidInput
	}
	if o.DictSize < DictSizeMin || o.DictSize > DictSizeMax {
		return ErrInvalidInput
	}
	return nil
}

// Props packs lc/lp/pb into the single LZMA properties byte:
// (pb*5+lp)*9+lc.
func (o *EncoderOptions) Props() byte {
	return byte((o.PB*5+o.LP)*9 + o.LC)
}

// GetMemoryUsage estimates the encoder session's memory footprint in
// KiB, dominated by the match finder's dictionary-sized tables.
func (o *EncoderOptions) GetMemoryUsage() uint32 {
	extraBefore := extraSizeBefore(o.DictSize)
	base := uint32(10) + (o.DictSize+extraBefore)/1024
	switch o.MatchFinder {
	case MatchFinderBT4:
		base += 2 * (o.DictSize + extraBefore) / 1024 // lt+gt arrays
	default:
		base += (o.DictSize + extraBefore) / 1024 // chain array
	}
	base += hash4MemKiB(o.DictSize)
	base += ((2 * 0x300) << (o.LC + o.LP)) / 1024
	return 70 + base
}

// DecoderOptions configures LZMA decompression.
type DecoderOptions struct {
	LC, LP, PB uint32
	DictSize   uint32
	// UncompSize is the expected decompressed length, or
	// UncompSizeUnknown when it is not known up front (the decoder then
	// relies on the end-of-stream marker).
	UncompSize uint64
	PresetDict []byte
	// MemLimitKiB caps decoder memory usage; 0 means unlimited.
	MemLimitKiB uint32
}

// UncompSizeUnknown marks an LZMA stream whose length is unknown ahead
// of time and must carry an end-of-stream marker.
const UncompSizeUnknown = ^uint64(0)

// propsToLCLPPB unpacks the LZMA properties byte into (lc, lp, pb).
func propsToLCLPPB(props byte) (lc, lp, pb uint32, err error) {
	if props > (4*5+4)*9+8 {
		return 0, 0, 0, ErrInvalidInput
	}
	p := uint32(props)
	pb = p / (9 * 5)
	p -= pb * 9 * 5
	lp = p / 9
	lc = p - lp*9
	return lc, lp, pb, nil
}

// GetMemoryUsage estimates decoder memory footprint in KiB from explicit
// lc/lp/dictSize.
func GetMemoryUsage(dictSize, lc, lp uint32) (uint32, error) {
	if lc > maxLC || lp > maxLP {
		return 0, ErrInvalidInput
	}
	ds, err := normalizeDictSize(dictSize)
	if err != nil {
		return 0, err
	}
	return 10 + ds/1024 + ((2*0x300)<<(lc+lp))/1024, nil
}

// GetMemoryUsageByProps is GetMemoryUsage taking the packed properties
// byte instead of separate lc/lp.
func GetMemoryUsageByProps(dictSize uint32, props byte) (uint32, error) {
	if dictSize > DictSizeMax {
		return 0, ErrInvalidInput
	}
	if props > (4*5+4)*9+8 {
		return 0, ErrInvalidInput
	}
	lc, lp, _, _ := propsToLCLPPB(props)
	return GetMemoryUsage(dictSize, lc, lp)
}

func normalizeDictSize(dictSize uint32) (uint32, error) {
	if dictSize > DictSizeMax {
		return 0, ErrInvalidInput
	}
	if dictSize < DictSizeMin {
		dictSize = DictSizeMin
	}
	return (dictSize + 15) &^ 15, nil
}
