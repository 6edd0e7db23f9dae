// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/go-lzma/lzma2

package lzma

import "io"

// LZMA2 chunk framing: control-byte bit-packing and its decode mirror.
const (
	// compressedSizeMax bounds both the uncompressed and compressed
	// size this implementation ever puts in a single chunk. The wire
	// format's control byte can in principle address chunks up to 2 MiB
	// uncompressed; this writer always stays within the tighter 64 KiB
	// policy, which in turn bounds the LZ window's extraSizeBefore
	// margin.
	compressedSizeMax = 64 << 10

	lzma2CtrlEnd           = 0x00
	lzma2CtrlUncompDict    = 0x01
	lzma2CtrlUncompNoReset = 0x02
	lzma2CtrlLZMAFlag      = 0x80

	// Reset-mode values packed into bits 6:5 of an LZMA chunk's control
	// byte.
	lzma2ResetNone       = 0
	lzma2ResetState      = 1
	lzma2ResetStateProps = 2
	lzma2ResetStateFull  = 3 // state + props + dictionary
)

// lzma2ChunkHeader describes one parsed (or about-to-be-written) LZMA2
// chunk header, uncompressed-chunk and LZMA-chunk cases both
// represented with the fields that apply.
type lzma2ChunkHeader struct {
	uncompressed bool
	dictReset    bool
	stateReset   bool
	propsReset   bool
	uncompSize   uint32 // real size, not size-1
	compSize     uint32 // real size, not size-1; 0 for uncompressed chunks
	props        byte   // valid only if propsReset
}

// controlByte returns the single leading byte for h. The size fields
// and props byte that follow it are written by writeLZMA2ChunkHeader.
func (h lzma2ChunkHeader) controlByte() byte {
	if h.uncompressed {
		if h.dictReset {
			return lzma2CtrlUncompDict
		}
		return lzma2CtrlUncompNoReset
	}
	mode := byte(lzma2ResetNone)
	switch {
	case h.dictReset:
		mode = lzma2ResetStateFull
	case h.propsReset:
		mode = lzma2ResetStateProps
	case h.stateReset:
		mode = lzma2ResetState
	}
	hi := byte((h.uncompSize - 1) >> 16)
	return lzma2CtrlLZMAFlag | (mode << 5) | (hi & 0x1F)
}

// parseLZMA2ChunkHeader reads one chunk header (control byte, size
// fields, and optional props byte) from br. The caller is responsible
// for then reading exactly h.compSize (LZMA chunk) or h.uncompSize
// (uncompressed chunk) further bytes as the chunk body.
func parseLZMA2ChunkHeader(br io.ByteReader) (h lzma2ChunkHeader, end bool, err error) {
	control, err := br.ReadByte()
	if err != nil {
		return h, false, err
	}
	if control == lzma2CtrlEnd {
		return h, true, nil
	}
	if control < lzma2CtrlLZMAFlag {
		if control != lzma2CtrlUncompDict && control != lzma2CtrlUncompNoReset {
			return h, false, ErrInvalidData
		}
		size, err := readUint16BE(br)
		if err != nil {
			return h, false, err
		}
		h.uncompressed = true
		h.dictReset = control == lzma2CtrlUncompDict
		h.uncompSize = uint32(size) + 1
		return h, false, nil
	}

	mode := (control >> 5) & 3
	h.stateReset = mode >= lzma2ResetState
	h.propsReset = mode >= lzma2ResetStateProps
	h.dictReset = mode == lzma2ResetStateFull

	hi := uint32(control & 0x1F)
	lo, err := readUint16BE(br)
	if err != nil {
		return h, false, err
	}
	h.uncompSize = (hi<<16 | uint32(lo)) + 1

	compLo, err := readUint16BE(br)
	if err != nil {
		return h, false, err
	}
	h.compSize = uint32(compLo) + 1

	if h.propsReset {
		props, err := br.ReadByte()
		if err != nil {
			return h, false, err
		}
		h.props = props
	}
	return h, false, nil
}

// writeLZMA2ChunkHeader appends h's control byte, size fields, and
// optional props byte to buf, returning the extended slice.
func writeLZMA2ChunkHeader(buf []byte, h lzma2ChunkHeader) []byte {
	buf = append(buf, h.controlByte())
	if h.uncompressed {
		return appendUint16BE(buf, uint16(h.uncompSize-1))
	}
	buf = appendUint16BE(buf, uint16((h.uncompSize-1)&0xFFFF))
	buf = appendUint16BE(buf, uint16(h.compSize-1))
	if h.propsReset {
		buf = append(buf, h.props)
	}
	return buf
}

func readUint16BE(br io.ByteReader) (uint16, error) {
	hi, err := br.ReadByte()
	if err != nil {
		return 0, err
	}
	lo, err := br.ReadByte()
	if err != nil {
		return 0, err
	}
	return uint16(hi)<<8 | uint16(lo), nil
}

func appendUint16BE(buf []byte, v uint16) []byte {
	return append(buf, byte(v>>8), byte(v))
}
