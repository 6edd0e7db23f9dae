// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/go-lzma/lzma2

package lzma

// lzmaState is one of the 12 Markov states tracking the kind of the
// previously coded symbol, used to select which is_match/is_rep*
// probability to consult next.
type lzmaState uint8

const numStates = 12

const (
	stateLitLit lzmaState = iota
	stateMatchLitLit
	stateRepLitLit
	stateShortRepLitLit
	stateMatchLit
	stateRepLit
	stateShortRepLit
	stateLitMatch
	stateLitLongRep
	stateLitShortRep
	stateNonLitMatch
	stateNonLitRep
)

// isLiteral reports whether a state represents "previous symbol was
// a literal" (states 0-6), which gates the matched-literal coding path.
func (s lzmaState) isLiteral() bool {
	return s < stateLitMatch
}

// updateLiteral transitions the state machine after coding a literal.
func (s lzmaState) updateLiteral() lzmaState {
	switch {
	case s < stateLitLit+4:
		return stateLitLit
	case s < stateLitLit+10:
		return s - 3
	default:
		return s - 6
	}
}

// updateMatch transitions the state machine after coding a new-distance
// match.
func (s lzmaState) updateMatch() lzmaState {
	if s.isLiteral() {
		return stateLitMatch
	}
	return stateNonLitMatch
}

// updateLongRep transitions the state machine after coding a repeated
// (non-short) match.
func (s lzmaState) updateLongRep() lzmaState {
	if s.isLiteral() {
		return stateLitLongRep
	}
	return stateNonLitRep
}

// updateShortRep transitions the state machine after coding a
// single-byte repeat-0 match.
func (s lzmaState) updateShortRep() lzmaState {
	if s.isLiteral() {
		return stateLitShortRep
	}
	return stateNonLitRep
}

// posMask returns the mask applied to the uncompressed position to
// derive the position state used to index is_match/length-coder tables.
func posMask(pb uint32) uint32 {
	return (1 << pb) - 1
}
