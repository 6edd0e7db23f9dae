// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/go-lzma/lzma2

package lzma

// literalCoder codes literal bytes through one of 1<<(lc+lp) probability
// sub-tables of 0x300 entries each, selected by the low lp bits of the
// uncompressed position and the high lc bits of the previous byte
// When the previous symbol was a match or rep (state is
// not literal), coding additionally XORs against the matched byte from
// the most recent match distance, falling back to the plain path once
// the two byte streams diverge.
type literalCoder struct {
	lc, lp uint32
	probs  []prob // len == 0x300 << (lc+lp)
}

func newLiteralCoder(lc, lp uint32) *literalCoder {
	lcoder := &literalCoder{lc: lc, lp: lp}
	lcoder.probs = make([]prob, 0x300<<(lc+lp))
	initProbs(lcoder.probs)
	return lcoder
}

func (c *literalCoder) reset() {
	initProbs(c.probs)
}

// subTable returns the 0x300-entry slice for the given position and
// previous byte.
func (c *literalCoder) subTable(pos uint32, prevByte byte) []prob {
	i := ((pos & ((1 << c.lp) - 1)) << c.lc) | uint32(prevByte>>(8-c.lc))
	return c.probs[0x300*i : 0x300*i+0x300]
}

// encodeLiteralPlain codes a literal with no matched-byte context (used
// when the state says the previous symbol was a literal).
func encodeLiteralPlain(e *rangeEncoder, probs []prob, b byte) error {
	symbol := uint32(b) | 0x100
	for symbol < 0x10000 {
		bit := (symbol >> 7) & 1
		if err := e.encodeBit(&probs[symbol>>8], bit); err != nil {
			return err
		}
		symbol <<= 1
	}
	return nil
}

// encodeLiteralMatched codes a literal following a match/rep, XOR-ing against
// matchByte until the encoded bits diverge from it.
func encodeLiteralMatched(e *rangeEncoder, probs []prob, matchByte, b byte) error {
	symbol := uint32(b) | 0x100
	mb := uint32(matchByte)
	for symbol < 0x10000 {
		mb <<= 1
		matchBit := mb & 0x100
		bit := (symbol >> 7) & 1
		idx := 0x100 + matchBit + (symbol >> 8)
		if err := e.encodeBit(&probs[idx], bit); err != nil {
			return err
		}
		symbol <<= 1
		if matchBit != (bit << 8) {
			for symbol < 0x10000 {
				bit := (symbol >> 7) & 1
				if err := e.encodeBit(&probs[symbol>>8], bit); err != nil {
					return err
				}
				symbol <<= 1
			}
			break
		}
	}
	return nil
}

func decodeLiteralPlain(d *rangeDecoder, probs []prob) (byte, error) {
	symbol := uint32(1)
	for symbol < 0x100 {
		bit, err := d.decodeBit(&probs[symbol])
		if err != nil {
			return 0, err
		}
		symbol = (symbol << 1) | bit
	}
	return byte(symbol), nil
}

func decodeLiteralMatched(d *rangeDecoder, probs []prob, matchByte byte) (byte, error) {
	symbol := uint32(1)
	mb := uint32(matchByte)
	for symbol < 0x100 {
		mb <<= 1
		matchBit := mb & 0x100
		idx := 0x100 + matchBit + symbol
		bit, err := d.decodeBit(&probs[idx])
		if err != nil {
			return 0, err
		}
		symbol = (symbol << 1) | bit
		if matchBit != (bit << 8) {
			for symbol < 0x100 {
				bit, err := d.decodeBit(&probs[symbol])
				if err != nil {
					return 0, err
				}
				symbol = (symbol << 1) | bit
			}
			break
		}
	}
	return byte(symbol), nil
}
