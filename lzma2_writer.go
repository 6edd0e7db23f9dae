// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/go-lzma/lzma2

package lzma

import (
	"bytes"
	"io"
)

// LZMA2Writer encodes an LZMA2 chunk stream. A single window, probability
// model, and match finder are shared across every chunk so the
// dictionary and coding state stay continuous; only the first chunk
// carries the full dict+state+props reset the format requires to open
// a stream. Each chunk's uncompressed input is capped at
// compressedSizeMax bytes by construction (Encoder.chunkLimit clamps
// match lengths at the boundary), so no chunk ever needs to be
// re-encoded to fit.
type LZMA2Writer struct {
	dst io.Writer
	opt EncoderOptions

	e *Encoder

	firstChunk bool
	closed     bool

	// coderEstablished is set once an LZMA chunk has actually carried a
	// props reset, so the reader has a coder to resume from. An
	// uncompressed fallback chunk never sets it, since it carries no
	// properties at all.
	coderEstablished bool

	// pendingStateReset is set when a chunk fell back to the uncompressed
	// encoding, forcing the next LZMA chunk to reset state even when it
	// doesn't also need a props reset, since an uncompressed chunk never
	// touches the probability model the decoder would otherwise expect
	// to carry forward.
	pendingStateReset bool
}

// NewLZMA2Writer constructs a writer using opt for every chunk's LZMA
// properties. opt.PresetDict is not supported here: a preset dictionary
// would need to be replayed into every fresh decoder without itself
// being subject to the first chunk's mandatory dict-reset bit, which
// this writer does not model.
func NewLZMA2Writer(dst io.Writer, opt EncoderOptions) (*LZMA2Writer, error) {
	if err := opt.Validate(); err != nil {
		return nil, err
	}
	if len(opt.PresetDict) > 0 {
		return nil, ErrUnsupported
	}
	return &LZMA2Writer{
		dst:        dst,
		opt:        opt,
		e:          newEncoderSession(dst, opt),
		firstChunk: true,
	}, nil
}

// Write feeds uncompressed bytes into the session, emitting complete
// chunks as lookahead allows. Call Close to flush the remainder and the
// end-of-stream chunk marker.
func (w *LZMA2Writer) Write(p []byte) (int, error) {
	if w.closed {
		return 0, ErrInvalidInput
	}
	n := w.e.win.fillWindow(p)
	if err := w.flushChunks(false); err != nil {
		return n, err
	}
	if n < len(p) {
		more, err := w.Write(p[n:])
		return n + more, err
	}
	return n, nil
}

// flushChunks emits chunks until fewer than matchLenMax bytes of
// lookahead remain (so a match candidate straddling the next Write call
// is never cut short), or, when final, until the window is empty.
func (w *LZMA2Writer) flushChunks(final bool) error {
	minLookahead := uint32(matchLenMax)
	if final {
		minLookahead = 0
	}
	for uint32(w.e.win.avail()) > minLookahead {
		if err := w.writeChunk(final); err != nil {
			return err
		}
	}
	return nil
}

// writeChunk drives the shared encoder session over at most
// compressedSizeMax uncompressed bytes, buffers the compressed result,
// and writes the chunk header followed by that buffer to dst.
func (w *LZMA2Writer) writeChunk(final bool) error {
	limit := uint32(w.e.win.avail())
	if limit > compressedSizeMax {
		limit = compressedSizeMax
	}
	if limit == 0 {
		return nil
	}

	dictReset := w.firstChunk
	propsReset := !w.coderEstablished
	stateReset := propsReset || w.pendingStateReset
	w.firstChunk = false
	w.pendingStateReset = false

	if stateReset {
		w.e.coder.reset()
	}

	startPos := w.e.win.pos()
	startBuf := w.e.win.readPos
	buf := &bytes.Buffer{}
	w.e.rc = newRangeEncoder(&byteWriterAdapter{w: buf})
	w.e.chunkStartPos = startPos
	w.e.chunkLimit = limit

	err := w.e.drain(final)
	w.e.chunkLimit = 0
	if err != nil {
		return err
	}
	if err := w.e.rc.finish(); err != nil {
		return err
	}

	uncompSize := uint32(w.e.win.pos() - startPos)
	if uncompSize == 0 {
		return nil
	}

	// The control byte's compressed-size field is 16 bits wide and an
	// LZMA chunk that didn't shrink the data isn't worth its coder
	// overhead either way: fall back to an uncompressed chunk, copying
	// the bytes straight out of the window, and force the next LZMA
	// chunk to reset state since these probabilities were updated as if
	// symbols had been coded that the decoder will never see.
	if uint32(buf.Len())+2 >= uncompSize || uint32(buf.Len()) > compressedSizeMax {
		raw := make([]byte, uncompSize)
		copy(raw, w.e.win.buf[startBuf:startBuf+int(uncompSize)])
		w.e.coder.reset()
		w.pendingStateReset = true

		h := lzma2ChunkHeader{
			uncompressed: true,
			dictReset:    dictReset,
			uncompSize:   uncompSize,
		}
		hdr := writeLZMA2ChunkHeader(nil, h)
		if _, err := w.dst.Write(hdr); err != nil {
			return err
		}
		_, err := w.dst.Write(raw)
		return err
	}

	h := lzma2ChunkHeader{
		dictReset:  dictReset,
		stateReset: stateReset,
		propsReset: propsReset,
		uncompSize: uncompSize,
		compSize:   uint32(buf.Len()),
		props:      w.opt.Props(),
	}
	hdr := writeLZMA2ChunkHeader(nil, h)
	if _, err := w.dst.Write(hdr); err != nil {
		return err
	}
	if _, err := w.dst.Write(buf.Bytes()); err != nil {
		return err
	}
	w.coderEstablished = true
	return nil
}

// Flush forces every buffered byte out as a final-sized chunk without
// ending the stream.
func (w *LZMA2Writer) Flush() error {
	if w.closed {
		return ErrInvalidInput
	}
	return w.flushChunks(true)
}

// finishNoMarker flushes all buffered input as final chunks but, unlike
// Close, does not write the terminal end-of-stream byte. LZMA2WriterMT
// uses this to produce several independently dict-reset block bodies
// that it concatenates itself, adding exactly one terminator after the
// last block.
func (w *LZMA2Writer) finishNoMarker() error {
	if w.closed {
		return nil
	}
	if err := w.flushChunks(true); err != nil {
		return err
	}
	w.closed = true
	return nil
}

// Close flushes all remaining buffered input as final chunks and writes
// the single end-of-stream control byte.
func (w *LZMA2Writer) Close() error {
	if w.closed {
		return nil
	}
	if err := w.finishNoMarker(); err != nil {
		return err
	}
	_, err := w.dst.Write([]byte{lzma2CtrlEnd})
	return err
}
