// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/go-lzma/lzma2

package lzma

// lengthCoder codes a match length (already rebased to 0 == matchLenMin)
// as a two-level choice between three bit-tree ranges: low (0-7), mid
// (8-15), and high (16-271), addressed per position state for the low
// and mid ranges.
type lengthCoder struct {
	choice  prob
	choice2 prob
	low     [posStatesMax][]prob // lowSymbols entries each
	mid     [posStatesMax][]prob // midSymbols entries each
	high    []prob               // highSymbols entries
}

func newLengthCoder() *lengthCoder {
	c := &lengthCoder{}
	for i := range c.low {
		c.low[i] = make([]prob, lowSymbols+1)
		c.mid[i] = make([]prob, midSymbols+1)
	}
	c.high = make([]prob, highSymbols+1)
	c.reset()
	return c
}

func (c *lengthCoder) reset() {
	c.choice = prob(probInit)
	c.choice2 = prob(probInit)
	for i := range c.low {
		initProbs(c.low[i])
		initProbs(c.mid[i])
	}
	initProbs(c.high)
}

// encode codes length, already rebased so 0 == matchLenMin.
func (c *lengthCoder) encode(e *rangeEncoder, posState uint32, length uint32) error {
	if length < lowSymbols {
		if err := e.encodeBit(&c.choice, 0); err != nil {
			return err
		}
		return bitTreeEncode(e, c.low[posState], 3, length)
	}
	if err := e.encodeBit(&c.choice, 1); err != nil {
		return err
	}
	length -= lowSymbols
	if length < midSymbols {
		if err := e.encodeBit(&c.choice2, 0); err != nil {
			return err
		}
		return bitTreeEncode(e, c.mid[posState], 3, length)
	}
	if err := e.encodeBit(&c.choice2, 1); err != nil {
		return err
	}
	return bitTreeEncode(e, c.high, 8, length-midSymbols)
}

func (c *lengthCoder) decode(d *rangeDecoder, posState uint32) (uint32, error) {
	bit, err := d.decodeBit(&c.choice)
	if err != nil {
		return 0, err
	}
	if bit == 0 {
		return bitTreeDecode(d, c.low[posState], 3)
	}
	bit2, err := d.decodeBit(&c.choice2)
	if err != nil {
		return 0, err
	}
	if bit2 == 0 {
		v, err := bitTreeDecode(d, c.mid[posState], 3)
		if err != nil {
			return 0, err
		}
		return lowSymbols + v, nil
	}
	v, err := bitTreeDecode(d, c.high, 8)
	if err != nil {
		return 0, err
	}
	return lowSymbols + midSymbols + v, nil
}
