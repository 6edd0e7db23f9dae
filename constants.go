// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/go-lzma/lzma2

package lzma

// Bit-exact LZMA constants shared by the encoder, decoder, and LZMA2
// framing. Values match the Tukaani/XZ reference implementation.

const (
	lowSymbols  = 1 << 3 // length-coder low sub-tree size
	midSymbols  = 1 << 3 // length-coder mid sub-tree size
	highSymbols = 1 << 8 // length-coder high sub-tree size

	posStatesMax = 1 << 4 // max number of position states (1<<pb, pb<=4)

	matchLenMin = 2
	matchLenMax = matchLenMin + lowSymbols + midSymbols + highSymbols - 1 // 273

	distStates     = 4
	distSlots      = 1 << 6
	distModelStart = 4
	distModelEnd   = 14

	alignBits = 4
	alignSize = 1 << alignBits
	alignMask = alignSize - 1

	reps = 4

	bitModelTotalBits = 11
	bitModelTotal     = 1 << bitModelTotalBits
	probInit          = uint16(bitModelTotal / 2)
	moveBits          = 5

	topValue = uint32(1) << 24

	// minLC/maxLC and minLP/maxLP bound the literal-context and
	// literal-position bit counts; lc+lp must not exceed 4.
	minLC = 0
	maxLC = 8
	minLP = 0
	maxLP = 4
	maxLCLP = 4

	minPB = 0
	maxPB = 4
)

// distSpecialIndex/distSpecialEnd slice the 124-entry dist-special
// probability table into the 10 consecutive sub-tables used by distance
// slots distModelStart..distModelEnd-1.
var (
	distSpecialIndex = [10]int{0, 2, 4, 8, 12, 20, 28, 44, 60, 92}
	distSpecialEnd   = [10]int{2, 4, 8, 12, 20, 28, 44, 60, 92, 124}
)

// DictSizeMin and DictSizeMax bound the LZMA dictionary size.
const (
	DictSizeMin = 4096
	DictSizeMax = 0xFFFFFFF0
)

// getDistState maps a match length to one of the 4 distance states, used to
// pick the dist_slots sub-table. Saturates to distStates-1 for len >= 6:
// dist_state = min(len-2, 3).
func getDistState(length uint32) uint32 {
	if length < distStates+matchLenMin {
		return length - matchLenMin
	}
	return distStates - 1
}

// getDistSlot returns the 6-bit distance slot for a raw match distance
// (0-based, i.e. the actual byte distance minus one). Distances below
// distModelStart are encoded directly as their own slot; larger distances
// are classified by their highest set bit plus the next-highest bit.
func getDistSlot(dist uint32) uint32 {
	if dist <= 3 {
		return dist
	}
	n := dist
	i := uint32(31)
	for n&(1<<i) == 0 {
		i--
	}
	return (i << 1) | ((n >> (i - 1)) & 1)
}
