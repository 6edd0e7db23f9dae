// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/go-lzma/lzma2

package lzma

import "io"

// LZMA2Reader decodes an LZMA2 chunk stream, the framing xz wraps LZMA1
// in so a stream can be split into independently resettable,
// size-bounded chunks. Dictionary and probability state persist across
// chunks except where a chunk's reset bits say otherwise.
type LZMA2Reader struct {
	src io.Reader
	br  byteReaderAdapter

	win    *decoderWindow
	coder  *lzmaCoder
	engine *decodeEngine

	memLimitKiB uint32

	chunkRemaining uint32 // uncompressed bytes left in the active chunk
	chunkRC        *rangeDecoder
	uncompressed   bool

	// pending holds bytes decodeSymbol has produced but Read has not yet
	// copied out, carrying a partial symbol's output across calls the
	// same way Decoder.Read does.
	pending []byte

	started  bool
	finished bool
}

// NewLZMA2Reader constructs a reader whose dictionary is sized dictSize
// (the value carried by the outer container — LZIP, .xz, or a
// caller-supplied constant for a bare LZMA2 stream). memLimitKiB caps
// decoder memory use as each chunk's properties are read; 0 means
// unlimited.
func NewLZMA2Reader(src io.Reader, dictSize uint32, memLimitKiB uint32) (*LZMA2Reader, error) {
	ds, err := normalizeDictSize(dictSize)
	if err != nil {
		return nil, err
	}
	r := &LZMA2Reader{
		src:         src,
		win:         newDecoderWindow(ds),
		memLimitKiB: memLimitKiB,
	}
	r.br = byteReaderAdapter{r: src}
	return r, nil
}

func (r *LZMA2Reader) nextChunk() error {
	h, end, err := parseLZMA2ChunkHeader(&r.br)
	if err != nil {
		return err
	}
	if end {
		r.finished = true
		return io.EOF
	}
	if h.dictReset {
		r.win.resetDict()
	}
	if !r.started && !h.dictReset {
		return ErrInvalidData
	}

	if h.uncompressed {
		r.started = true
		r.uncompressed = true
		r.chunkRemaining = h.uncompSize
		r.chunkRC = nil
		return nil
	}

	if h.propsReset {
		lc, lp, pb, err := propsToLCLPPB(h.props)
		if err != nil {
			return err
		}
		if r.memLimitKiB != 0 {
			mem, err := GetMemoryUsage(r.win.dictSize, lc, lp)
			if err != nil {
				return err
			}
			if mem > r.memLimitKiB {
				return ErrOutOfMemory
			}
		}
		r.coder = newLZMACoder(lc, lp, pb)
	} else {
		if r.coder == nil {
			return ErrInvalidData
		}
		if h.stateReset {
			r.coder.resetState()
		}
	}

	r.started = true
	r.uncompressed = false
	r.engine = newDecodeEngine(r.coder, r.win)
	rc, err := newRangeDecoder(&r.br)
	if err != nil {
		return err
	}
	r.chunkRC = rc
	r.chunkRemaining = h.uncompSize
	return nil
}

// Read implements io.Reader, decoding across as many chunks as needed to
// fill p. At most len(p) bytes are copied per call; any remainder of a
// chunk body or decoded symbol that overflows p is carried in r.pending
// for the next call.
func (r *LZMA2Reader) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if len(r.pending) > 0 {
			c := copy(p[n:], r.pending)
			n += c
			r.pending = r.pending[c:]
			continue
		}
		if r.finished {
			break
		}
		if r.chunkRemaining == 0 {
			if err := r.nextChunk(); err != nil {
				if err == io.EOF {
					continue
				}
				return n, err
			}
			continue
		}

		if r.uncompressed {
			want := r.chunkRemaining
			if rem := uint32(len(p) - n); want > rem {
				want = rem
			}
			buf := make([]byte, want)
			if _, err := io.ReadFull(r.src, buf); err != nil {
				return n, errShortSource
			}
			r.pending = r.win.copyUncompressed(r.pending[:0], buf)
			r.chunkRemaining -= want
			continue
		}

		var eos bool
		var err error
		r.pending, eos, err = r.engine.decodeSymbol(r.chunkRC, r.pending[:0])
		if err != nil {
			return n, err
		}
		if eos {
			// LZMA1's end-of-stream marker never appears inside an
			// LZMA2 chunk; chunk boundaries alone carry that meaning.
			return n, ErrInvalidData
		}
		produced := uint32(len(r.pending))
		if produced > r.chunkRemaining {
			return n, ErrInvalidData
		}
		r.chunkRemaining -= produced
	}
	if n == 0 && r.finished && len(r.pending) == 0 {
		return 0, io.EOF
	}
	return n, nil
}
