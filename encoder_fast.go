// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/go-lzma/lzma2

package lzma

// encodeFast is the greedy encoder strategy used by presets 0-3: at
// each position it takes the match finder's longest match (if any
// candidate beats coding a literal), preferring a rep-match over a new
// distance when the rep is nearly as long, since reps cost far fewer
// bits to code. No lookahead beyond the current position is used,
// preferring a greedy-with-preference shape over LZMA's literal/match/
// rep action set.
func encodeFast(e *Encoder, final bool) error {
	minLookahead := uint32(matchLenMax)
	if final {
		minLookahead = 1
	}

	for {
		avail := uint32(e.win.avail())
		if avail == 0 || (!final && avail < minLookahead) {
			return nil
		}
		remaining := e.remainingInChunk()
		if remaining == 0 {
			return nil
		}

		matches := e.mf.findMatches()
		var best match
		for _, m := range matches {
			if m.len > best.len {
				best = m
			}
		}

		repIdx, repLen := bestRep(e, avail)

		if best.len > remaining {
			best.len = remaining
			if best.len < 2 {
				best.len = 0
			}
		}
		if repLen > remaining {
			repLen = remaining
			min := uint32(1)
			if repIdx != 0 {
				min = 2
			}
			if repLen < min {
				repLen = 0
			}
		}

		switch {
		case repLen >= 2 && repLen+1 >= best.len:
			if err := e.engine.encodeRep(e.rc, repIdx, repLen); err != nil {
				return err
			}
			e.commit(repLen)
		case best.len >= 2:
			if err := e.engine.encodeMatch(e.rc, best.dist, best.len); err != nil {
				return err
			}
			e.commit(best.len)
		case repLen == 1:
			if err := e.engine.encodeRep(e.rc, repIdx, 1); err != nil {
				return err
			}
			e.commit(1)
		default:
			if err := e.engine.encodeLiteral(e.rc); err != nil {
				return err
			}
			e.commit(1)
		}
	}
}

// bestRep returns the longest match achievable by reusing one of the
// four most-recent distances, and which one, or (0,0) if none of them
// match at all.
func bestRep(e *Encoder, avail uint32) (idx int, length uint32) {
	maxLen := avail
	if maxLen > matchLenMax {
		maxLen = matchLenMax
	}
	for i, d := range e.coder.reps {
		l := e.win.matchLen(d, maxLen)
		min := uint32(2)
		if i == 0 {
			min = 1
		}
		if l >= min && l > length {
			length = l
			idx = i
		}
	}
	return idx, length
}
