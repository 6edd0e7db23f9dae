// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/go-lzma/lzma2

package lzma

import "io"

// decodeEngine runs the LZMA symbol decode loop against a shared
// lzmaCoder/decoderWindow pair, reused by both the raw LZMA-alone
// reader and the LZMA2 chunk reader.
type decodeEngine struct {
	coder *lzmaCoder
	win   *decoderWindow
	pMask uint32
}

func newDecodeEngine(coder *lzmaCoder, win *decoderWindow) *decodeEngine {
	return &decodeEngine{coder: coder, win: win, pMask: posMask(coder.pb)}
}

// endOfStreamDist is the reserved rep0 value (0xFFFFFFFF) signaling the
// LZMA end-of-stream marker.
const endOfStreamDist = 0xFFFFFFFF

// decodeSymbol decodes exactly one literal/match/rep symbol, appending
// any produced bytes and reporting whether it was the end-of-stream
// marker.
func (e *decodeEngine) decodeSymbol(rc *rangeDecoder, out []byte) (out2 []byte, eos bool, err error) {
	c := e.coder
	posState := uint32(e.win.pos64()) & e.pMask

	isMatch, err := rc.decodeBit(&c.isMatch[c.state][posState])
	if err != nil {
		return out, false, err
	}
	if isMatch == 0 {
		var b byte
		if c.state.isLiteral() {
			b, err = decodeLiteralPlain(rc, c.literal.subTable(uint32(e.win.pos64()), e.win.byteAt(1)))
		} else {
			matchByte := e.win.byteAt(c.reps[0] + 1)
			b, err = decodeLiteralMatched(rc, c.literal.subTable(uint32(e.win.pos64()), e.win.byteAt(1)), matchByte)
		}
		if err != nil {
			return out, false, err
		}
		c.state = c.state.updateLiteral()
		e.win.putByte(b)
		out = append(out, b)
		return out, false, nil
	}

	var length uint32
	isRep, err := rc.decodeBit(&c.isRep[c.state])
	if err != nil {
		return out, false, err
	}
	if isRep == 0 {
		c.reps[3], c.reps[2], c.reps[1] = c.reps[2], c.reps[1], c.reps[0]
		length, err = c.matchLen.decode(rc, posState)
		if err != nil {
			return out, false, err
		}
		length += matchLenMin

		slot, err := bitTreeDecode(rc, c.distSlot[getDistState(length)], 6)
		if err != nil {
			return out, false, err
		}
		dist, err := decodeDistance(rc, c, slot)
		if err != nil {
			return out, false, err
		}
		if dist == endOfStreamDist {
			return out, true, nil
		}
		c.reps[0] = dist
		c.state = c.state.updateMatch()
	} else {
		isRep0, err := rc.decodeBit(&c.isRep0[c.state])
		if err != nil {
			return out, false, err
		}
		if isRep0 == 0 {
			isRep0Long, err := rc.decodeBit(&c.isRep0Long[c.state][posState])
			if err != nil {
				return out, false, err
			}
			if isRep0Long == 0 {
				c.state = c.state.updateShortRep()
				b := e.win.byteAt(c.reps[0] + 1)
				e.win.putByte(b)
				return append(out, b), false, nil
			}
		} else {
			var dist uint32
			isRep1, err := rc.decodeBit(&c.isRep1[c.state])
			if err != nil {
				return out, false, err
			}
			if isRep1 == 0 {
				dist = c.reps[1]
				c.reps[1] = c.reps[0]
			} else {
				isRep2, err := rc.decodeBit(&c.isRep2[c.state])
				if err != nil {
					return out, false, err
				}
				if isRep2 == 0 {
					dist = c.reps[2]
					c.reps[2] = c.reps[1]
					c.reps[1] = c.reps[0]
				} else {
					dist = c.reps[3]
					c.reps[3] = c.reps[2]
					c.reps[2] = c.reps[1]
					c.reps[1] = c.reps[0]
				}
			}
			c.reps[0] = dist
		}
		length, err = c.repLen.decode(rc, posState)
		if err != nil {
			return out, false, err
		}
		length += matchLenMin
		c.state = c.state.updateLongRep()
	}

	if !e.win.checkDistance(c.reps[0] + 1) {
		return out, false, ErrInvalidData
	}
	out = e.win.repeat(out, c.reps[0]+1, length)
	return out, false, nil
}

// decodeDistance decodes the remaining bits of a match distance after
// its 6-bit slot has been read.
func decodeDistance(rc *rangeDecoder, c *lzmaCoder, slot uint32) (uint32, error) {
	if slot < distModelStart {
		return slot, nil
	}
	nb := numDirectBits(slot)
	dist := (2 | (slot & 1)) << nb
	if slot < distModelEnd {
		v, err := bitTreeReverseDecode(rc, c.distSpecialSlice(slot), nb)
		if err != nil {
			return 0, err
		}
		return dist + v, nil
	}
	direct, err := rc.decodeDirectBits(nb - alignBits)
	if err != nil {
		return 0, err
	}
	align, err := bitTreeReverseDecode(rc, c.distAlign, alignBits)
	if err != nil {
		return 0, err
	}
	return dist + (direct << alignBits) + align, nil
}

// Decoder decodes a standalone LZMA-alone (.lzma) stream.
type Decoder struct {
	opt DecoderOptions
	src io.Reader
	br  byteReaderAdapter

	win    *decoderWindow
	coder  *lzmaCoder
	rc     *rangeDecoder
	engine *decodeEngine

	// pending holds bytes decodeSymbol has produced but Read has not yet
	// copied out. A single symbol can decode up to matchLenMax bytes, far
	// more than a caller's buffer may have room for, so Read must be able
	// to carry a partial symbol's output across calls.
	pending []byte

	remaining uint64
	knownSize bool
	finished  bool
	started   bool
}

// NewDecoder parses the 13-byte LZMA-alone header from src and prepares
// a Decoder ready for Read.
func NewDecoder(src io.Reader, opt DecoderOptions) (*Decoder, error) {
	hdr := make([]byte, headerSize)
	if _, err := io.ReadFull(src, hdr); err != nil {
		return nil, errShortSource
	}
	lc, lp, pb, dictSize, uncompSize, err := parseHeader(hdr)
	if err != nil {
		return nil, err
	}
	opt.LC, opt.LP, opt.PB, opt.DictSize = lc, lp, pb, dictSize
	return newDecoderFromOptions(src, opt, uncompSize)
}

// NewRawDecoder constructs a Decoder for a headerless LZMA stream whose
// properties are supplied explicitly by the caller (a known size or an
// end-of-stream marker).
func NewRawDecoder(src io.Reader, opt DecoderOptions) (*Decoder, error) {
	return newDecoderFromOptions(src, opt, opt.UncompSize)
}

func newDecoderFromOptions(src io.Reader, opt DecoderOptions, uncompSize uint64) (*Decoder, error) {
	ds, err := normalizeDictSize(opt.DictSize)
	if err != nil {
		return nil, err
	}
	if opt.MemLimitKiB != 0 {
		mem, err := GetMemoryUsage(ds, opt.LC, opt.LP)
		if err != nil {
			return nil, err
		}
		if mem > opt.MemLimitKiB {
			return nil, ErrOutOfMemory
		}
	}
	win := newDecoderWindow(ds)
	win.setPresetDict(opt.PresetDict)
	coder := newLZMACoder(opt.LC, opt.LP, opt.PB)

	d := &Decoder{
		opt:       opt,
		src:       src,
		win:       win,
		coder:     coder,
		remaining: uncompSize,
		knownSize: uncompSize != UncompSizeUnknown,
	}
	d.br = byteReaderAdapter{r: src}
	return d, nil
}

func (d *Decoder) ensureStarted() error {
	if d.started {
		return nil
	}
	rc, err := newRangeDecoder(&d.br)
	if err != nil {
		return err
	}
	d.rc = rc
	d.engine = newDecodeEngine(d.coder, d.win)
	d.started = true
	return nil
}

// Read implements io.Reader, copying at most len(p) decoded bytes into p
// and carrying any remainder of a partially consumed symbol in d.pending
// for the next call.
func (d *Decoder) Read(p []byte) (int, error) {
	if err := d.ensureStarted(); err != nil {
		return 0, err
	}
	n := 0
	for n < len(p) {
		if len(d.pending) > 0 {
			c := copy(p[n:], d.pending)
			n += c
			d.pending = d.pending[c:]
			continue
		}
		if d.finished {
			break
		}
		if d.knownSize && d.remaining == 0 {
			d.finished = true
			break
		}
		var eos bool
		var err error
		d.pending, eos, err = d.engine.decodeSymbol(d.rc, d.pending[:0])
		if err != nil {
			return n, err
		}
		if eos {
			d.finished = true
			continue
		}
		if d.knownSize {
			produced := uint64(len(d.pending))
			if produced > d.remaining {
				return n, ErrInvalidData
			}
			d.remaining -= produced
		}
	}
	if n == 0 && d.finished && len(d.pending) == 0 {
		return 0, io.EOF
	}
	return n, nil
}

// byteReaderAdapter adapts an io.Reader lacking ReadByte (most do) to
// io.ByteReader without pulling in bufio's larger buffering machinery,
// since the range coder only ever needs one byte at a time.
type byteReaderAdapter struct {
	r   io.Reader
	buf [1]byte
}

func (a *byteReaderAdapter) ReadByte() (byte, error) {
	if br, ok := a.r.(io.ByteReader); ok {
		return br.ReadByte()
	}
	if _, err := io.ReadFull(a.r, a.buf[:]); err != nil {
		return 0, err
	}
	return a.buf[0], nil
}
