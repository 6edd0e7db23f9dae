// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/go-lzma/lzma2

package lzma

import (
	"errors"
	"io"
)

// Sentinel errors for the LZMA/LZMA2 codec. EOF, short-write, and
// short-read conditions reuse the standard io sentinels (io.EOF,
// io.ErrUnexpectedEOF, io.ErrShortWrite) rather than redefining them, so
// callers can keep using errors.Is against the familiar io values.
var (
	// ErrInvalidData is returned when the compressed bitstream is malformed:
	// a non-zero first range-coder byte, an invalid LZMA2 control byte, an
	// LZMA2 stream whose first chunk lacks a dictionary reset, a
	// back-reference distance beyond the dictionary fill, or output that
	// exceeds the declared size. The current stream cannot be
	// recovered; callers may discard state and retry with a different
	// source.
	ErrInvalidData = errors.New("lzma: invalid compressed data")

	// ErrInvalidInput is returned for bad caller-supplied parameters:
	// lc+lp > 4, a dictionary size out of [DictSizeMin, DictSizeMax], or
	// writing to a writer after Close. Preset clamps out-of-range levels
	// instead of rejecting them.
	ErrInvalidInput = errors.New("lzma: invalid input parameters")

	// ErrOutOfMemory is returned when a decoder's configured memory
	// budget is smaller than what the stream's properties require.
	ErrOutOfMemory = errors.New("lzma: memory limit exceeded")

	// ErrUnsupported is returned for combinations the codec intentionally
	// does not implement, such as a preset dictionary together with the
	// LZMA-alone header.
	ErrUnsupported = errors.New("lzma: unsupported combination")
)

// errShortSource is returned when the range decoder or LZ window runs
// out of input bytes mid-symbol or mid-header. It is io.ErrUnexpectedEOF
// itself, so callers that receive it see io.ErrUnexpectedEOF.
var errShortSource = io.ErrUnexpectedEOF
