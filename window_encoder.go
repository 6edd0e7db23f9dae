// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/go-lzma/lzma2

package lzma

// encoderWindow is the encode-side counterpart of decoderWindow: a
// buffer holding dictSize bytes of already-coded history plus
// lookahead bytes still to be coded, exposing a fill/move/normalize
// contract the match finder and encoder loop drive directly.
type encoderWindow struct {
	buf      []byte
	dictSize uint32

	// readPos is the next byte to be consumed by the match finder /
	// encoder loop; writePos is one past the last byte filled by
	// FillWindow. keepSizeBefore bytes before readPos, and
	// keepSizeAfter bytes of required lookahead, bound normalization.
	readPos  int
	writePos int
	totalPos uint64

	keepSizeBefore uint32
	keepSizeAfter  uint32

	finished bool
}

// extraSizeBefore is the amount of history the window keeps reachable
// beyond dictSize so a chunk boundary never has to account for a match
// straddling it.
func extraSizeBefore(dictSize uint32) uint32 {
	if dictSize >= compressedSizeMax {
		return 0
	}
	return compressedSizeMax - dictSize
}

func newEncoderWindow(dictSize uint32, keepSizeAfter uint32) *encoderWindow {
	extra := extraSizeBefore(dictSize)
	w := &encoderWindow{
		dictSize:       dictSize,
		keepSizeBefore: dictSize + extra,
		keepSizeAfter:  keepSizeAfter,
	}
	bufSize := w.keepSizeBefore + keepSizeAfter
	w.buf = make([]byte, 0, bufSize)
	return w
}

func (w *encoderWindow) setPresetDict(dict []byte) {
	if len(dict) == 0 {
		return
	}
	if uint32(len(dict)) > w.dictSize {
		dict = dict[uint32(len(dict))-w.dictSize:]
	}
	w.buf = append(w.buf, dict...)
	w.readPos = len(dict)
	w.writePos = len(dict)
	w.totalPos = uint64(len(dict))
}

// fillWindow appends src to the lookahead area, normalizing (dropping
// history beyond keepSizeBefore) first if there is not enough room.
func (w *encoderWindow) fillWindow(src []byte) int {
	if len(src) == 0 {
		return 0
	}
	w.normalize()
	room := cap(w.buf) - w.writePos
	n := len(src)
	if n > room {
		n = room
	}
	w.buf = w.buf[:w.writePos+n]
	copy(w.buf[w.writePos:], src[:n])
	w.writePos += n
	return n
}

// normalize drops history older than keepSizeBefore bytes behind
// readPos by sliding the buffer down, so fillWindow always has room to
// grow without the backing array growing unboundedly.
func (w *encoderWindow) normalize() {
	if uint32(w.readPos) <= w.keepSizeBefore {
		return
	}
	drop := w.readPos - int(w.keepSizeBefore)
	copy(w.buf, w.buf[drop:w.writePos])
	w.buf = w.buf[:w.writePos-drop]
	w.readPos -= drop
	w.writePos -= drop
}

// avail is how many lookahead bytes remain to be coded.
func (w *encoderWindow) avail() int {
	return w.writePos - w.readPos
}

// byteAt returns the byte at readPos+offset (offset may be negative to
// look into already-coded history, e.g. -dist for a candidate match).
func (w *encoderWindow) byteAt(offset int) byte {
	return w.buf[w.readPos+offset]
}

// matchLen returns how many bytes match between the lookahead at
// readPos and history at readPos-dist-1, capped at maxLen.
func (w *encoderWindow) matchLen(dist uint32, maxLen uint32) uint32 {
	back := w.readPos - int(dist) - 1
	if back < 0 {
		return 0
	}
	limit := uint32(w.avail())
	if maxLen < limit {
		limit = maxLen
	}
	var n uint32
	for n < limit && w.buf[back+int(n)] == w.buf[w.readPos+int(n)] {
		n++
	}
	return n
}

// movePos advances readPos by n bytes (a literal or the length of a
// chosen match) and totalPos, the monotonic counter match finders use
// to address their hash chains independently of normalize() shifting
// the underlying buffer.
func (w *encoderWindow) movePos(n int) {
	w.readPos += n
	w.totalPos += uint64(n)
}

// pos is the monotonic stream position of the next byte to be coded,
// stable across normalize() calls; match finders store this value (not
// a raw buffer index) in their hash chains.
func (w *encoderWindow) pos() uint64 {
	return w.totalPos
}
