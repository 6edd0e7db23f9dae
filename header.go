// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/go-lzma/lzma2

package lzma

import "encoding/binary"

// headerSize is the fixed 13-byte LZMA-alone (.lzma) header: 1
// properties byte, 4-byte little-endian dictionary size, 8-byte
// little-endian uncompressed size (all-ones for unknown).
const headerSize = 13

func writeHeader(buf []byte, opt *EncoderOptions, uncompSize uint64) {
	buf[0] = opt.Props()
	binary.LittleEndian.PutUint32(buf[1:5], opt.DictSize)
	binary.LittleEndian.PutUint64(buf[5:13], uncompSize)
}

func parseHeader(buf []byte) (lc, lp, pb, dictSize uint32, uncompSize uint64, err error) {
	if len(buf) < headerSize {
		return 0, 0, 0, 0, 0, errShortSource
	}
	lc, lp, pb, err = propsToLCLPPB(buf[0])
	if err != nil {
		return
	}
	dictSize = binary.LittleEndian.Uint32(buf[1:5])
	uncompSize = binary.LittleEndian.Uint64(buf[5:13])
	return
}
