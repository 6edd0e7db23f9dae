// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/go-lzma/lzma2

package lzma

import "io"

// encodeAction describes one coding decision: either a literal, or a
// match/rep at dist/len. The strategies in encoder_fast.go and
// encoder_normal.go call the encodeEngine methods directly and do not
// use this type.
type encodeAction struct {
	literal  bool
	dist     uint32 // 0 == new match at this distance (raw, 0-based)
	isRep    bool
	repIndex int // which of reps[0..3] this rep reuses, when isRep
	len      uint32
}

// encodeEngine emits one already-decided action through the shared
// probability model, mirroring decodeEngine on the encode side.
type encodeEngine struct {
	coder *lzmaCoder
	win   *encoderWindow
	pMask uint32
}

func newEncodeEngine(coder *lzmaCoder, win *encoderWindow) *encodeEngine {
	return &encodeEngine{coder: coder, win: win, pMask: posMask(coder.pb)}
}

func (e *encodeEngine) encodeLiteral(rc *rangeEncoder) error {
	c := e.coder
	pos := uint32(e.win.pos())
	b := e.win.byteAt(0)
	probs := c.literal.subTable(pos, prevByteOr0(e.win))

	if err := rc.encodeBit(&c.isMatch[c.state][pos&e.pMask], 0); err != nil {
		return err
	}

	var err error
	if c.state.isLiteral() {
		err = encodeLiteralPlain(rc, probs, b)
	} else {
		matchByte := e.win.byteAt(-int(c.reps[0]) - 1)
		err = encodeLiteralMatched(rc, probs, matchByte, b)
	}
	if err != nil {
		return err
	}
	c.state = c.state.updateLiteral()
	return nil
}

func prevByteOr0(w *encoderWindow) byte {
	if w.pos() == 0 {
		return 0
	}
	return w.byteAt(-1)
}

// encodeMatch emits a new-distance match of length at 0-based distance
// dist.
func (e *encodeEngine) encodeMatch(rc *rangeEncoder, dist uint32, length uint32) error {
	c := e.coder
	posState := uint32(e.win.pos()) & e.pMask

	if err := rc.encodeBit(&c.isMatch[c.state][posState], 1); err != nil {
		return err
	}
	if err := rc.encodeBit(&c.isRep[c.state], 0); err != nil {
		return err
	}
	c.reps[3], c.reps[2], c.reps[1] = c.reps[2], c.reps[1], c.reps[0]
	c.reps[0] = dist

	rebased := length - matchLenMin
	if err := c.matchLen.encode(rc, posState, rebased); err != nil {
		return err
	}
	slot := getDistSlot(dist)
	if err := bitTreeEncode(rc, c.distSlot[getDistState(length)], 6, slot); err != nil {
		return err
	}
	if err := encodeDistance(rc, c, slot, dist); err != nil {
		return err
	}
	c.state = c.state.updateMatch()
	return nil
}

// encodeRep emits a repeat match reusing reps[repIndex]; repIndex==0
// with length==1 is the short-rep special case.
func (e *encodeEngine) encodeRep(rc *rangeEncoder, repIndex int, length uint32) error {
	c := e.coder
	posState := uint32(e.win.pos()) & e.pMask

	if err := rc.encodeBit(&c.isMatch[c.state][posState], 1); err != nil {
		return err
	}
	if err := rc.encodeBit(&c.isRep[c.state], 1); err != nil {
		return err
	}

	switch repIndex {
	case 0:
		if err := rc.encodeBit(&c.isRep0[c.state], 0); err != nil {
			return err
		}
		shortRep := uint32(0)
		if length == 1 {
			shortRep = 1
		}
		if err := rc.encodeBit(&c.isRep0Long[c.state][posState], 1-shortRep); err != nil {
			return err
		}
		if length == 1 {
			c.state = c.state.updateShortRep()
			return nil
		}
	case 1:
		if err := rc.encodeBit(&c.isRep0[c.state], 1); err != nil {
			return err
		}
		if err := rc.encodeBit(&c.isRep1[c.state], 0); err != nil {
			return err
		}
		c.reps[1], c.reps[0] = c.reps[0], c.reps[1]
	case 2:
		if err := rc.encodeBit(&c.isRep0[c.state], 1); err != nil {
			return err
		}
		if err := rc.encodeBit(&c.isRep1[c.state], 1); err != nil {
			return err
		}
		if err := rc.encodeBit(&c.isRep2[c.state], 0); err != nil {
			return err
		}
		c.reps[2], c.reps[1], c.reps[0] = c.reps[1], c.reps[0], c.reps[2]
	default:
		if err := rc.encodeBit(&c.isRep0[c.state], 1); err != nil {
			return err
		}
		if err := rc.encodeBit(&c.isRep1[c.state], 1); err != nil {
			return err
		}
		if err := rc.encodeBit(&c.isRep2[c.state], 1); err != nil {
			return err
		}
		c.reps[3], c.reps[2], c.reps[1], c.reps[0] = c.reps[2], c.reps[1], c.reps[0], c.reps[3]
	}

	rebased := length - matchLenMin
	if err := c.repLen.encode(rc, posState, rebased); err != nil {
		return err
	}
	c.state = c.state.updateLongRep()
	return nil
}

func encodeDistance(rc *rangeEncoder, c *lzmaCoder, slot uint32, dist uint32) error {
	if slot < distModelStart {
		return nil
	}
	nb := numDirectBits(slot)
	base := (2 | (slot & 1)) << nb
	rest := dist - base
	if slot < distModelEnd {
		return bitTreeReverseEncode(rc, c.distSpecialSlice(slot), nb, rest)
	}
	if err := rc.encodeDirectBits(rest>>alignBits, nb-alignBits); err != nil {
		return err
	}
	return bitTreeReverseEncode(rc, c.distAlign, alignBits, rest&alignMask)
}

// Encoder writes a standalone LZMA-alone (.lzma) stream to dst.
type Encoder struct {
	opt EncoderOptions
	dst io.Writer

	win    *encoderWindow
	coder  *lzmaCoder
	rc     *rangeEncoder
	engine *encodeEngine
	mf     matchFinder

	uncompSize uint64
	closed     bool

	// chunkLimit, when nonzero, caps how many uncompressed bytes (from
	// chunkStartPos) encodeFast/encodeNormal will commit before
	// returning, letting lzma2Writer drive the same session chunk by
	// chunk while keeping the dictionary and probability model
	// continuous across chunk boundaries.
	chunkLimit    uint32
	chunkStartPos uint64
}

// remainingInChunk reports how many more bytes the current chunk may
// accept, or matchLenMax (treated as unlimited) when chunkLimit is 0.
func (e *Encoder) remainingInChunk() uint32 {
	if e.chunkLimit == 0 {
		return matchLenMax
	}
	consumed := uint32(e.win.pos() - e.chunkStartPos)
	if consumed >= e.chunkLimit {
		return 0
	}
	return e.chunkLimit - consumed
}

// matchFinder is implemented by both matchFinderHC4 and matchFinderBT4.
type matchFinder interface {
	findMatches() []match
	skip(n int)
}

// commit advances the window and match finder by length bytes after an
// action has been encoded. findMatches already inserted the first byte
// into the match finder's hash tables without moving the window, so
// commit moves past it directly and lets the match finder insert+move
// past the rest; search and position-advance are kept as separate
// steps.
func (e *Encoder) commit(length uint32) {
	e.win.movePos(1)
	if length > 1 {
		e.mf.skip(int(length - 1))
	}
}

// NewEncoder writes the 13-byte LZMA-alone header immediately (with
// uncompSize, or UncompSizeUnknown to require an end-of-stream marker)
// and returns an Encoder ready for Write/Close.
func NewEncoder(dst io.Writer, opt EncoderOptions, uncompSize uint64) (*Encoder, error) {
	if err := opt.Validate(); err != nil {
		return nil, err
	}
	if len(opt.PresetDict) > 0 {
		return nil, ErrUnsupported
	}
	hdr := make([]byte, headerSize)
	writeHeader(hdr, &opt, uncompSize)
	if _, err := dst.Write(hdr); err != nil {
		return nil, err
	}
	e := newEncoderSession(dst, opt)
	e.uncompSize = uncompSize
	return e, nil
}

// NewRawEncoder returns an Encoder for a headerless LZMA stream whose
// properties the caller will convey some other way (e.g. LZIP's 6-byte
// member header). uncompSize controls whether Close emits the
// end-of-stream marker, exactly as with NewEncoder.
func NewRawEncoder(dst io.Writer, opt EncoderOptions, uncompSize uint64) (*Encoder, error) {
	if err := opt.Validate(); err != nil {
		return nil, err
	}
	e := newEncoderSession(dst, opt)
	e.uncompSize = uncompSize
	return e, nil
}

func newEncoderSession(dst io.Writer, opt EncoderOptions) *Encoder {
	win := newEncoderWindow(opt.DictSize, matchLenMax)
	win.setPresetDict(opt.PresetDict)
	coder := newLZMACoder(opt.LC, opt.LP, opt.PB)

	e := &Encoder{
		opt:    opt,
		dst:    dst,
		win:    win,
		coder:  coder,
		engine: newEncodeEngine(coder, win),
	}
	if opt.MatchFinder == MatchFinderBT4 {
		e.mf = newMatchFinderBT4(win, opt.DictSize, opt.NiceLen, opt.DepthLimit)
	} else {
		e.mf = newMatchFinderHC4(win, opt.DictSize, opt.NiceLen, opt.DepthLimit)
	}
	return e
}

// Write feeds uncompressed bytes into the session. The encoder buffers
// internally (via the LZ window) and only drives the match finder and
// range coder once enough lookahead is available; call Close to flush
// everything remaining.
func (e *Encoder) Write(p []byte) (int, error) {
	if e.closed {
		return 0, ErrInvalidInput
	}
	if e.rc == nil {
		e.rc = newRangeEncoder(&byteWriterAdapter{w: e.dst})
	}
	n := e.win.fillWindow(p)
	if n < len(p) {
		// window full; drain before reporting short write to caller
	}
	if err := e.drain(false); err != nil {
		return n, err
	}
	if n < len(p) {
		more, err := e.Write(p[n:])
		return n + more, err
	}
	return n, nil
}

// drain runs the configured strategy over all available lookahead,
// leaving at most matchLenMax bytes unconsumed (so a match candidate
// straddling the end of fillWindow's input is never cut short) unless
// final is true, in which case everything is consumed.
func (e *Encoder) drain(final bool) error {
	if e.opt.Mode == ModeNormal {
		return encodeNormal(e, final)
	}
	return encodeFast(e, final)
}

// Close flushes remaining buffered data, optionally a stream end
// marker, and finishes the range coder.
func (e *Encoder) Close() error {
	if e.closed {
		return nil
	}
	if e.rc == nil {
		e.rc = newRangeEncoder(&byteWriterAdapter{w: e.dst})
	}
	if err := e.drain(true); err != nil {
		return err
	}
	if e.uncompSize == UncompSizeUnknown {
		if err := e.engine.encodeMatch(e.rc, endOfStreamDist, matchLenMin); err != nil {
			return err
		}
	}
	e.closed = true
	return e.rc.finish()
}

// byteWriterAdapter adapts an io.Writer lacking WriteByte, mirroring
// byteReaderAdapter on the decode side.
type byteWriterAdapter struct {
	w   io.Writer
	buf [1]byte
}

func (a *byteWriterAdapter) WriteByte(b byte) error {
	if bw, ok := a.w.(io.ByteWriter); ok {
		return bw.WriteByte(b)
	}
	a.buf[0] = b
	_, err := a.w.Write(a.buf[:])
	return err
}
