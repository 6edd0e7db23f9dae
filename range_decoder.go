// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/go-lzma/lzma2

package lzma

import "io"

// rangeDecoder mirrors rangeEncoder: a carry-propagating binary
// arithmetic decoder reading from a byte source shared by the raw LZMA
// reader and the LZMA2 chunk reader.
type rangeDecoder struct {
	in io.ByteReader

	code uint32
	rng  uint32
}

// newRangeDecoder reads and discards the mandatory leading zero byte
// followed by the 4-byte big-endian initial code, per the LZMA range
// coder framing.
func newRangeDecoder(in io.ByteReader) (*rangeDecoder, error) {
	d := &rangeDecoder{in: in, rng: 0xFFFFFFFF}
	b, err := in.ReadByte()
	if err != nil {
		return nil, errShortSource
	}
	if b != 0 {
		return nil, ErrInvalidData
	}
	for range [4]struct{}{} {
		nb, err := in.ReadByte()
		if err != nil {
			return nil, errShortSource
		}
		d.code = (d.code << 8) | uint32(nb)
	}
	return d, nil
}

func (d *rangeDecoder) normalize() error {
	if d.rng < topValue {
		b, err := d.in.ReadByte()
		if err != nil {
			return errShortSource
		}
		d.rng <<= 8
		d.code = (d.code << 8) | uint32(b)
	}
	return nil
}

// decodeBit decodes one bit under probability model p, updating p in
// place identically to rangeEncoder.encodeBit.
func (d *rangeDecoder) decodeBit(p *prob) (uint32, error) {
	bound := (d.rng >> bitModelTotalBits) * uint32(*p)
	var bit uint32
	if d.code < bound {
		d.rng = bound
		*p += (bitModelTotal - *p) >> moveBits
		bit = 0
	} else {
		d.code -= bound
		d.rng -= bound
		*p -= *p >> moveBits
		bit = 1
	}
	if err := d.normalize(); err != nil {
		return 0, err
	}
	return bit, nil
}

// decodeDirectBits decodes numBits bits with no probability model,
// mirroring rangeEncoder.encodeDirectBits.
func (d *rangeDecoder) decodeDirectBits(numBits uint32) (uint32, error) {
	result := uint32(0)
	for i := numBits; i > 0; i-- {
		d.rng >>= 1
		d.code -= d.rng
		t := 0 - (d.code >> 31)
		d.code += d.rng & t
		result = (result << 1) | (t + 1)
		if err := d.normalize(); err != nil {
			return 0, err
		}
	}
	return result, nil
}

// isFinished reports whether the decoder's code value is 0, as it is
// after a cleanly terminated stream. The decoder in decoder.go stops at
// the end-of-stream marker without calling it.
func (d *rangeDecoder) isFinished() bool {
	return d.code == 0
}
