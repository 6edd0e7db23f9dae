// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/go-lzma/lzma2

package lzma

// lzmaCoder holds every probability table and the 12-state machine
// shared bit-for-bit between the encoder and decoder sides of the LZMA
// symbol layer. Encoder and decoder each embed one and
// drive it through encodeBit/decodeBit respectively; none of the
// decision logic (which symbol to pick) lives here, only its coding.
type lzmaCoder struct {
	lc, lp, pb uint32

	state lzmaState
	reps  [reps]uint32 // most-recent distances, rep0 first

	isMatch    [numStates][posStatesMax]prob
	isRep      [numStates]prob
	isRep0     [numStates]prob
	isRep1     [numStates]prob
	isRep2     [numStates]prob
	isRep0Long [numStates][posStatesMax]prob

	distSlot    [distStates][]prob // distSlots entries each, 1-based tree
	distSpecial []prob             // 124 entries, 1-based sub-trees
	distAlign   []prob             // alignSize entries, 1-based tree

	literal *literalCoder
	matchLen *lengthCoder
	repLen   *lengthCoder
}

func newLZMACoder(lc, lp, pb uint32) *lzmaCoder {
	c := &lzmaCoder{lc: lc, lp: lp, pb: pb}
	c.literal = newLiteralCoder(lc, lp)
	c.matchLen = newLengthCoder()
	c.repLen = newLengthCoder()
	for i := range c.distSlot {
		c.distSlot[i] = make([]prob, distSlots+1)
	}
	c.distSpecial = make([]prob, 124)
	c.distAlign = make([]prob, alignSize+1)
	c.reset()
	return c
}

// reset restores every probability to probInit, the state machine to
// stateLitLit, and all reps to 0. Used both at construction and on an
// LZMA2 chunk's state-reset control bit.
func (c *lzmaCoder) reset() {
	c.state = stateLitLit
	c.reps = [reps]uint32{}
	for i := range c.isMatch {
		initProbs(c.isMatch[i][:])
		initProbs(c.isRep0Long[i][:])
	}
	initProbs(c.isRep[:])
	initProbs(c.isRep0[:])
	initProbs(c.isRep1[:])
	initProbs(c.isRep2[:])
	for i := range c.distSlot {
		initProbs(c.distSlot[i])
	}
	initProbs(c.distSpecial)
	initProbs(c.distAlign)
	c.literal.reset()
	c.matchLen.reset()
	c.repLen.reset()
}

// resetState resets only the state machine, reps, and probabilities
// (not lc/lp/pb), used when an LZMA2 chunk signals "reset state, keep
// dictionary".
func (c *lzmaCoder) resetState() {
	c.reset()
}

// distSpecialSlice returns the dedicated sub-table of distSpecial for
// the given distance slot (valid for distModelStart <= slot <
// distModelEnd), sized 1<<numDirectBits(slot) and indexed as its own
// 1-based reverse bit-tree.
func (c *lzmaCoder) distSpecialSlice(slot uint32) []prob {
	i := slot - distModelStart
	return c.distSpecial[distSpecialIndex[i]:distSpecialEnd[i]]
}

// numDirectBits returns the number of direct-coded bits for a distance
// slot >= distModelStart.
func numDirectBits(slot uint32) uint32 {
	return (slot >> 1) - 1
}
