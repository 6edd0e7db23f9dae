// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/go-lzma/lzma2

package lzma

// prob is an 11-bit fixed-point estimate of P(next bit = 0), updated by
// shift-toward-observed. All probability tables in the
// LZMA coder are slices/arrays of prob, always initialised to probInit
// (1024, i.e. P=0.5).
type prob uint16

// initProbs resets every entry of a probability table to probInit.
func initProbs(p []prob) {
	for i := range p {
		p[i] = prob(probInit)
	}
}

// bitTreeEncode encodes the numBits-bit symbol MSB-first through a
// 1<<numBits-sized probability table (index 1 is the tree root, matching
// the convention used by both the literal and length coders).
func bitTreeEncode(e *rangeEncoder, probs []prob, numBits uint32, symbol uint32) error {
	m := uint32(1)
	for i := numBits; i > 0; i-- {
		bit := (symbol >> (i - 1)) & 1
		if err := e.encodeBit(&probs[m], bit); err != nil {
			return err
		}
		m = (m << 1) | bit
	}
	return nil
}

// bitTreeDecode mirrors bitTreeEncode.
func bitTreeDecode(d *rangeDecoder, probs []prob, numBits uint32) (uint32, error) {
	m := uint32(1)
	for range make([]struct{}, numBits) {
		bit, err := d.decodeBit(&probs[m])
		if err != nil {
			return 0, err
		}
		m = (m << 1) | bit
	}
	return m - (1 << numBits), nil
}

// bitTreeReverseEncode encodes symbol LSB-first ("reverse" bit-tree),
// used for the distance-special and distance-align sub-tables.
func bitTreeReverseEncode(e *rangeEncoder, probs []prob, numBits uint32, symbol uint32) error {
	m := uint32(1)
	for i := uint32(0); i < numBits; i++ {
		bit := symbol & 1
		symbol >>= 1
		if err := e.encodeBit(&probs[m], bit); err != nil {
			return err
		}
		m = (m << 1) | bit
	}
	return nil
}

// bitTreeReverseDecode mirrors bitTreeReverseEncode.
func bitTreeReverseDecode(d *rangeDecoder, probs []prob, numBits uint32) (uint32, error) {
	m := uint32(1)
	symbol := uint32(0)
	for i := uint32(0); i < numBits; i++ {
		bit, err := d.decodeBit(&probs[m])
		if err != nil {
			return 0, err
		}
		m = (m << 1) | bit
		symbol |= bit << i
	}
	return symbol, nil
}
