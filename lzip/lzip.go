// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/go-lzma/lzma2

// Package lzip implements the LZIP container format: a 6-byte member
// header (magic, version, encoded dictionary size), a raw
// end-marker-terminated LZMA1 stream, and a 20-byte trailer (CRC-32,
// uncompressed size, member size), possibly repeated for multiple
// members concatenated in one file.
package lzip

import (
	"fmt"
	"hash/crc32"
)

// crcTable is the CRC-32/ISO-HDLC table LZIP's trailer uses, the same
// polynomial as zlib/zip/PNG; hash/crc32.IEEETable already is this
// table, so no third-party checksum package is warranted for a single
// well-known polynomial.
var crcTable = crc32.IEEETable

const (
	magic0 = 'L'
	magic1 = 'Z'
	magic2 = 'I'
	magic3 = 'P'

	version = 1

	headerSize  = 6
	trailerSize = 20

	// MinDictSize and MaxDictSize bound the dictionary sizes
	// representable by LZIP's one-byte encoded form.
	MinDictSize = 4 << 10
	MaxDictSize = 512 << 20
)

var magic = [4]byte{magic0, magic1, magic2, magic3}

// header is one member's 6-byte leading header.
type header struct {
	version  byte
	dictSize uint32
}

// trailer is one member's 20-byte trailing footer.
type trailer struct {
	crc32      uint32
	dataSize   uint64
	memberSize uint64
}

// decodeDictSize unpacks LZIP's one-byte encoded dictionary size: bits
// 4:0 are the base-2 logarithm of a base size (12..29), bits 7:5 are a
// numerator (0..7) of sixteenths of that base size to subtract. E.g.
// 0xD3 = 2^19 - 6*2^15 = 512 KiB - 6*32 KiB = 320 KiB.
func decodeDictSize(encoded byte) (uint32, error) {
	base := uint32(encoded & 0x1F)
	frac := uint32(encoded >> 5)
	if base < 12 || base > 29 {
		return 0, fmt.Errorf("lzip: invalid dictionary size base %d", base)
	}
	baseSize := uint32(1) << base
	dictSize := baseSize - (baseSize>>4)*frac
	if dictSize < MinDictSize || dictSize > MaxDictSize {
		return 0, fmt.Errorf("lzip: dictionary size %d out of range", dictSize)
	}
	return dictSize, nil
}

// encodeDictSize packs the smallest representable dictionary size that
// is at least size into LZIP's one-byte encoded form. decode_dict_size
// has no counterpart in the reference source this package is grounded
// on, so this is reconstructed directly as its inverse: the discrete
// value set decodeDictSize can produce is small (18 bases times 8
// fractions), so an exhaustive search for the tightest fit is simplest.
func encodeDictSize(size uint32) byte {
	if size < MinDictSize {
		size = MinDictSize
	}
	if size > MaxDictSize {
		size = MaxDictSize
	}
	var best byte
	var bestSize uint32
	found := false
	for base := uint32(12); base <= 29; base++ {
		baseSize := uint32(1) << base
		for frac := uint32(0); frac <= 7; frac++ {
			v := baseSize - (baseSize>>4)*frac
			if v < MinDictSize || v > MaxDictSize {
				continue
			}
			if v >= size && (!found || v < bestSize) {
				bestSize = v
				best = byte(base | frac<<5)
				found = true
			}
		}
	}
	if !found {
		return byte(29) // MaxDictSize, frac 0
	}
	return best
}
