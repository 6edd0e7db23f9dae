// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/go-lzma/lzma2

package lzma

// match is a single candidate found by a match finder: copying length
// bytes from dist bytes back is cheaper than coding length literals.
type match struct {
	len  uint32
	dist uint32 // 0-based: actual back-distance minus one
}

// matchFinderHC4 is the hash-chain 4-byte match finder used by the fast
// encoder strategy, grounded directly on
// _examples/original_source/src/lz/hc4.rs (HC4::find_matches/skip/
// move_pos). Hash2 and hash3 tables give up short matches immediately;
// hash4's chain is walked up to depthLimit steps looking for the
// longest match, matching the Rust implementation's structure.
type matchFinderHC4 struct {
	w *encoderWindow

	hash2 []int64 // hash2Size entries, stream position or -1
	hash3 []int64 // hash3Size entries
	hash4 []int64 // 1<<hash4Bits entries
	chain []int64 // cyclicSize entries: previous position with same hash4

	mask4      uint32
	cyclicSize uint64
	niceLen    uint32
	depthLimit int
}

func newMatchFinderHC4(w *encoderWindow, dictSize, niceLen uint32, depthLimit int) *matchFinderHC4 {
	bits := hash4Bits(dictSize)
	if depthLimit <= 0 {
		depthLimit = 4 + int(niceLen)/4
	}
	mf := &matchFinderHC4{
		w:          w,
		hash2:      make([]int64, hash2Size),
		hash3:      make([]int64, hash3Size),
		hash4:      make([]int64, 1<<bits),
		chain:      make([]int64, uint64(dictSize)+1),
		mask4:      (1 << bits) - 1,
		cyclicSize: uint64(dictSize) + 1,
		niceLen:    niceLen,
		depthLimit: depthLimit,
	}
	for i := range mf.hash2 {
		mf.hash2[i] = -1
	}
	for i := range mf.hash3 {
		mf.hash3[i] = -1
	}
	for i := range mf.hash4 {
		mf.hash4[i] = -1
	}
	for i := range mf.chain {
		mf.chain[i] = -1
	}
	return mf
}

func (mf *matchFinderHC4) insert() {
	if mf.w.avail() < 4 {
		return
	}
	cur := mf.w.buf[mf.w.readPos:]
	h2, h3, h4 := hashes(cur, mf.mask4)
	pos := int64(mf.w.pos())

	mf.hash2[h2] = pos
	mf.hash3[h3] = pos
	slot := uint64(pos) % mf.cyclicSize
	mf.chain[slot] = mf.hash4[h4]
	mf.hash4[h4] = pos
}

// skip inserts and advances past n positions without reporting matches,
// used by the driver to catch the match finder's hash tables up on the
// bytes consumed by an accepted match/rep beyond its first byte (which
// findMatches already inserted). It also advances the window past those
// n bytes, so the caller does not move the window itself.
func (mf *matchFinderHC4) skip(n int) {
	for i := 0; i < n; i++ {
		mf.insert()
		mf.w.movePos(1)
	}
}

// findMatches returns candidate matches at the current position,
// shortest-distance-first per length class, walking the hash4 chain up
// to depthLimit steps or until a match of at least niceLen bytes is
// found. It inserts the current position into the hash tables but does
// not advance the window; the driver advances explicitly after
// deciding how many bytes the chosen action consumes.
func (mf *matchFinderHC4) findMatches() []match {
	avail := uint32(mf.w.avail())
	if avail < 2 {
		mf.insert()
		return nil
	}

	maxLen := avail
	if maxLen > matchLenMax {
		maxLen = matchLenMax
	}
	cur := mf.w.buf[mf.w.readPos:]
	var h2, h3, h4 uint32
	if avail >= 4 {
		h2, h3, h4 = hashes(cur, mf.mask4)
	}
	pos := int64(mf.w.pos())

	var matches []match
	bestLen := uint32(1)

	tryPos := func(candidate int64, minLen uint32) {
		if candidate < 0 {
			return
		}
		dist := uint64(pos) - uint64(candidate)
		if dist == 0 || dist > mf.cyclicSize-1 {
			return
		}
		l := mf.w.matchLen(uint32(dist)-1, maxLen)
		if l >= minLen && l > bestLen {
			bestLen = l
			matches = append(matches, match{len: l, dist: uint32(dist) - 1})
		}
	}

	if avail >= 2 {
		tryPos(mf.hash2[h2], 2)
	}
	if avail >= 3 {
		tryPos(mf.hash3[h3], 3)
	}

	if avail >= 4 {
		depth := mf.depthLimit
		candidate := mf.hash4[h4]
		for candidate >= 0 && depth > 0 {
			dist := uint64(pos) - uint64(candidate)
			if dist > mf.cyclicSize-1 {
				break
			}
			l := mf.w.matchLen(uint32(dist)-1, maxLen)
			if l > bestLen {
				bestLen = l
				matches = append(matches, match{len: l, dist: uint32(dist) - 1})
				if l >= mf.niceLen {
					break
				}
			}
			slot := uint64(candidate) % mf.cyclicSize
			candidate = mf.chain[slot]
			depth--
		}

		mf.hash2[h2] = pos
		mf.hash3[h3] = pos
		slot := uint64(pos) % mf.cyclicSize
		mf.chain[slot] = mf.hash4[h4]
		mf.hash4[h4] = pos
	} else if avail >= 3 {
		mf.hash2[h2] = pos
		mf.hash3[h3] = pos
	} else if avail >= 2 {
		mf.hash2[h2] = pos
	}

	return matches
}
