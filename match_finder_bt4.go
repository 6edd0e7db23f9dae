// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/go-lzma/lzma2

package lzma

// matchFinderBT4 is the binary-tree 4-byte match finder used by the
// normal (price-optimizing) encoder strategy. Every insertion also acts
// as a search: each candidate position is compared against the new
// byte stream and sorted into a binary tree keyed by "which of the two
// positions has the lexicographically larger tail", so a single walk
// both maintains the tree and discovers every match length class in
// increasing order. Positions are stored in a flat arena addressed by
// cyclic position, with two child links per node.
type matchFinderBT4 struct {
	w *encoderWindow

	hash2 []int64
	hash3 []int64
	hash4 []int64
	// son holds two int64 child slots per cyclic position: son[2*i] is
	// the "shorter tail" child, son[2*i+1] the "longer tail" child.
	son []int64

	mask4      uint32
	cyclicSize uint64
	niceLen    uint32
	depthLimit int
}

const emptyMatchPos = -1

func newMatchFinderBT4(w *encoderWindow, dictSize, niceLen uint32, depthLimit int) *matchFinderBT4 {
	bits := hash4Bits(dictSize)
	if depthLimit <= 0 {
		depthLimit = 16 + int(niceLen)/2
	}
	cyclicSize := uint64(dictSize) + 1
	mf := &matchFinderBT4{
		w:          w,
		hash2:      make([]int64, hash2Size),
		hash3:      make([]int64, hash3Size),
		hash4:      make([]int64, 1<<bits),
		son:        make([]int64, 2*cyclicSize),
		mask4:      (1 << bits) - 1,
		cyclicSize: cyclicSize,
		niceLen:    niceLen,
		depthLimit: depthLimit,
	}
	for i := range mf.hash2 {
		mf.hash2[i] = emptyMatchPos
	}
	for i := range mf.hash3 {
		mf.hash3[i] = emptyMatchPos
	}
	for i := range mf.hash4 {
		mf.hash4[i] = emptyMatchPos
	}
	for i := range mf.son {
		mf.son[i] = emptyMatchPos
	}
	return mf
}

// skip inserts n positions into the tree, discarding any matches found,
// then advances the window past them; used to catch the tree up on the
// bytes an accepted match/rep consumed beyond its first byte.
func (mf *matchFinderBT4) skip(n int) {
	for i := 0; i < n; i++ {
		mf.findMatches()
		mf.w.movePos(1)
	}
}

// findMatches inserts the current position into the tree and returns
// every match found along the way, in increasing length order, the
// longest last. It does not advance the window; the driver advances
// explicitly once it has decided how many bytes the chosen action
// consumes.
func (mf *matchFinderBT4) findMatches() []match {
	avail := uint32(mf.w.avail())
	if avail == 0 {
		return nil
	}
	maxLen := avail
	if maxLen > matchLenMax {
		maxLen = matchLenMax
	}
	pos := mf.w.pos()
	cur := mf.w.buf[mf.w.readPos:]

	var matches []match
	bestLen := uint32(1)

	if avail >= 2 {
		h2 := (crcTable[cur[0]] ^ uint32(cur[1])) & (hash2Size - 1)
		if cand := mf.hash2[h2]; cand >= 0 {
			dist := pos - uint64(cand)
			if dist > 0 && dist <= mf.cyclicSize-1 {
				l := mf.w.matchLen(uint32(dist)-1, maxLen)
				if l > bestLen {
					bestLen = l
					matches = append(matches, match{len: l, dist: uint32(dist) - 1})
				}
			}
		}
		mf.hash2[h2] = int64(pos)
	}
	if avail >= 3 {
		temp := crcTable[cur[0]] ^ uint32(cur[1])
		h3 := (temp ^ (uint32(cur[2]) << 8)) & (hash3Size - 1)
		if cand := mf.hash3[h3]; cand >= 0 {
			dist := pos - uint64(cand)
			if dist > 0 && dist <= mf.cyclicSize-1 {
				l := mf.w.matchLen(uint32(dist)-1, maxLen)
				if l > bestLen {
					bestLen = l
					matches = append(matches, match{len: l, dist: uint32(dist) - 1})
				}
			}
		}
		mf.hash3[h3] = int64(pos)
	}

	cyclicPos := pos % mf.cyclicSize
	leftSlot := 2 * cyclicPos
	rightSlot := 2*cyclicPos + 1

	if avail < 4 {
		mf.son[leftSlot] = emptyMatchPos
		mf.son[rightSlot] = emptyMatchPos
		return matches
	}

	_, _, h4 := hashes(cur, mf.mask4)
	curMatch := mf.hash4[h4]
	mf.hash4[h4] = int64(pos)

	len0, len1 := uint32(0), uint32(0)
	depth := mf.depthLimit

	for {
		if curMatch < 0 || depth == 0 {
			mf.son[leftSlot] = emptyMatchPos
			mf.son[rightSlot] = emptyMatchPos
			break
		}
		depth--

		dist := pos - uint64(curMatch)
		if dist > mf.cyclicSize-1 {
			mf.son[leftSlot] = emptyMatchPos
			mf.son[rightSlot] = emptyMatchPos
			break
		}

		candCyclic := (mf.cyclicSize + cyclicPos - dist) % mf.cyclicSize
		pairLeft := 2 * candCyclic
		pairRight := 2*candCyclic + 1

		l := len0
		if len1 < l {
			l = len1
		}
		back := mf.w.readPos - int(dist-1) - 1
		for l < maxLen && mf.w.buf[back+int(l)] == cur[l] {
			l++
		}
		if l > bestLen {
			bestLen = l
			matches = append(matches, match{len: l, dist: uint32(dist) - 1})
		}

		if l >= maxLen || l >= mf.niceLen {
			// Reached the comparison limit with no differing byte (or a
			// nice-enough match): both subtrees of the candidate are
			// still valid children of the new node, link them directly
			// and stop descending.
			mf.son[leftSlot] = mf.son[pairLeft]
			mf.son[rightSlot] = mf.son[pairRight]
			break
		}

		if cur[l] < mf.w.buf[back+int(l)] {
			mf.son[rightSlot] = curMatch
			rightSlot = pairLeft
			curMatch = mf.son[pairLeft]
			len1 = l
		} else {
			mf.son[leftSlot] = curMatch
			leftSlot = pairRight
			curMatch = mf.son[pairRight]
			len0 = l
		}
	}

	return matches
}
