// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/go-lzma/lzma2

package lzip

import (
	"encoding/binary"
	"hash/crc32"
	"io"

	lzma "github.com/go-lzma/lzma2"
)

// Options configures an LZIP member stream.
type Options struct {
	// LZMA holds the raw LZMA1 encoder settings; LC/LP/PB are always
	// overridden to 3/0/2 (the fixed properties every LZIP decoder
	// assumes) and DictSize is clamped to [MinDictSize, MaxDictSize].
	LZMA lzma.EncoderOptions
	// MemberSize caps each member's uncompressed size; 0 means the
	// whole stream is written as a single member.
	MemberSize uint64
}

// DefaultOptions returns Options built from lzma.Preset(6).
func DefaultOptions() Options {
	return Options{LZMA: lzma.DefaultEncoderOptions()}
}

// countingWriter tracks how many compressed bytes the inner LZMA
// encoder wrote, needed to compute each member's trailer member_size
// field without buffering the compressed body.
type countingWriter struct {
	w io.Writer
	n uint64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += uint64(n)
	return n, err
}

// Writer encodes one or more LZIP members to dst, grounded on
// _examples/original_source/src/lzip/writer.rs's LZIPWriter
// (CountingWriter, should_finish_member/start_new_member/
// finish_current_member bookkeeping).
type Writer struct {
	dst io.Writer
	opt Options

	enc      *lzma.Encoder
	counting *countingWriter

	headerWritten bool
	finished      bool

	crc              uint32
	memberUncompSize uint64
}

// NewWriter constructs a Writer. opt.LZMA's LC/LP/PB are forced to
// 3/0/2 and DictSize clamped, matching every LZIP member's fixed
// properties byte.
func NewWriter(dst io.Writer, opt Options) (*Writer, error) {
	opt.LZMA.LC, opt.LZMA.LP, opt.LZMA.PB = 3, 0, 2
	if opt.LZMA.DictSize < MinDictSize {
		opt.LZMA.DictSize = MinDictSize
	}
	if opt.LZMA.DictSize > MaxDictSize {
		opt.LZMA.DictSize = MaxDictSize
	}
	if err := opt.LZMA.Validate(); err != nil {
		return nil, err
	}
	return &Writer{dst: dst, opt: opt}, nil
}

func (w *Writer) startMember() error {
	hdr := make([]byte, 0, headerSize)
	hdr = append(hdr, magic[:]...)
	hdr = append(hdr, version)
	hdr = append(hdr, encodeDictSize(w.opt.LZMA.DictSize))
	if _, err := w.dst.Write(hdr); err != nil {
		return err
	}

	w.counting = &countingWriter{w: w.dst}
	enc, err := lzma.NewRawEncoder(w.counting, w.opt.LZMA, lzma.UncompSizeUnknown)
	if err != nil {
		return err
	}
	w.enc = enc
	w.headerWritten = true
	w.crc = 0
	w.memberUncompSize = 0
	return nil
}

func (w *Writer) shouldFinishMember() bool {
	return w.opt.MemberSize > 0 && w.memberUncompSize >= w.opt.MemberSize
}

func (w *Writer) finishMember() error {
	if err := w.enc.Close(); err != nil {
		return err
	}
	compSize := w.counting.n
	memberSize := uint64(headerSize) + compSize + uint64(trailerSize)

	t := make([]byte, trailerSize)
	binary.LittleEndian.PutUint32(t[0:4], w.crc)
	binary.LittleEndian.PutUint64(t[4:12], w.memberUncompSize)
	binary.LittleEndian.PutUint64(t[12:20], memberSize)
	if _, err := w.dst.Write(t); err != nil {
		return err
	}

	w.headerWritten = false
	w.enc = nil
	w.counting = nil
	return nil
}

// Write implements io.Writer, starting and ending members as
// opt.MemberSize dictates.
func (w *Writer) Write(p []byte) (int, error) {
	if w.finished {
		return 0, lzma.ErrInvalidInput
	}
	if len(p) == 0 {
		return 0, nil
	}

	total := 0
	remaining := p
	for len(remaining) > 0 {
		if w.headerWritten && w.shouldFinishMember() {
			if err := w.finishMember(); err != nil {
				return total, err
			}
		}
		if !w.headerWritten {
			if err := w.startMember(); err != nil {
				return total, err
			}
		}

		n := len(remaining)
		if w.opt.MemberSize > 0 {
			remInMember := w.opt.MemberSize - w.memberUncompSize
			if uint64(n) > remInMember {
				n = int(remInMember)
			}
		}
		if n == 0 {
			if err := w.finishMember(); err != nil {
				return total, err
			}
			continue
		}

		written, err := w.enc.Write(remaining[:n])
		if written > 0 {
			w.crc = crc32.Update(w.crc, crcTable, remaining[:written])
			w.memberUncompSize += uint64(written)
			total += written
			remaining = remaining[written:]
		}
		if err != nil {
			return total, err
		}
		if written == 0 {
			break
		}
	}
	return total, nil
}

// Close finishes the current (or, for an empty stream, a fresh empty)
// member's trailer. Idempotent: a second Close is a no-op, matching the
// original's finish() returning the inner writer unchanged when already
// finished.
func (w *Writer) Close() error {
	if w.finished {
		return nil
	}
	if !w.headerWritten {
		if err := w.startMember(); err != nil {
			return err
		}
	}
	if err := w.finishMember(); err != nil {
		return err
	}
	w.finished = true
	return nil
}
