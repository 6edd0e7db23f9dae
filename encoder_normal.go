// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/go-lzma/lzma2

package lzma

// encodeNormal is the price-optimizing encoder strategy used by
// presets 4-9: at each position it prices every candidate (literal,
// each rep, the best new-distance match) using the bit-price tables
// from price.go and picks the cheapest per byte covered, a
// single-position relaxation of the reference's full forward dynamic
// program. Matches near the
// BT4 finder's niceLen threshold are taken immediately without pricing
// alternatives, since a match that long is essentially never beaten by
// anything shorter.
func encodeNormal(e *Encoder, final bool) error {
	minLookahead := uint32(matchLenMax)
	if final {
		minLookahead = 1
	}

	for {
		avail := uint32(e.win.avail())
		if avail == 0 || (!final && avail < minLookahead) {
			return nil
		}
		remaining := e.remainingInChunk()
		if remaining == 0 {
			return nil
		}

		matches := e.mf.findMatches()
		var best match
		for _, m := range matches {
			if m.len > best.len {
				best = m
			}
		}
		if best.len > remaining {
			best.len = remaining
			if best.len < 2 {
				best.len = 0
			}
		}

		if best.len > 0 && best.len >= e.opt.NiceLen {
			if err := e.engine.encodeMatch(e.rc, best.dist, best.len); err != nil {
				return err
			}
			e.commit(best.len)
			continue
		}

		c := e.coder
		posState := uint32(e.win.pos()) & posMask(c.pb)
		b := e.win.byteAt(0)

		litPrice := priceLiteral(e, posState, b)

		bestRepIdx, bestRepLen := bestRep(e, avail)
		if bestRepLen > remaining {
			bestRepLen = remaining
			if bestRepIdx != 0 && bestRepLen < 2 {
				bestRepLen = 0
			}
		}
		repPrice := uint32(infinityPrice)
		if bestRepLen >= 1 {
			repPrice = priceRep(e, posState, bestRepIdx, bestRepLen) / bestRepLen
		}

		matchPrice := uint32(infinityPrice)
		if best.len >= 2 {
			matchPrice = priceMatch(e, posState, best.dist, best.len) / best.len
		}

		switch {
		case repPrice <= litPrice && repPrice <= matchPrice && bestRepLen >= 1:
			l := bestRepLen
			if l == 1 && bestRepIdx != 0 {
				l = 2 // only rep0 may shortrep; never reached since bestRep enforces this
			}
			if err := e.engine.encodeRep(e.rc, bestRepIdx, l); err != nil {
				return err
			}
			e.commit(l)
		case matchPrice <= litPrice && best.len >= 2:
			if err := e.engine.encodeMatch(e.rc, best.dist, best.len); err != nil {
				return err
			}
			e.commit(best.len)
		default:
			if err := e.engine.encodeLiteral(e.rc); err != nil {
				return err
			}
			e.commit(1)
		}
	}
}

func priceLiteral(e *Encoder, posState uint32, b byte) uint32 {
	c := e.coder
	price := getPrice0(c.isMatch[c.state][posState])
	probs := c.literal.subTable(uint32(e.win.pos()), prevByteOr0(e.win))
	if c.state.isLiteral() {
		price += literalPlainPrice(probs, b)
	} else {
		matchByte := e.win.byteAt(-int(c.reps[0]) - 1)
		price += literalMatchedPrice(probs, matchByte, b)
	}
	return price
}

func literalPlainPrice(probs []prob, b byte) uint32 {
	price := uint32(0)
	symbol := uint32(b) | 0x100
	for symbol < 0x10000 {
		bit := (symbol >> 7) & 1
		price += getPrice(probs[symbol>>8], bit)
		symbol <<= 1
	}
	return price
}

func literalMatchedPrice(probs []prob, matchByte, b byte) uint32 {
	price := uint32(0)
	symbol := uint32(b) | 0x100
	mb := uint32(matchByte)
	for symbol < 0x10000 {
		mb <<= 1
		matchBit := mb & 0x100
		bit := (symbol >> 7) & 1
		idx := 0x100 + matchBit + (symbol >> 8)
		price += getPrice(probs[idx], bit)
		symbol <<= 1
		if matchBit != (bit << 8) {
			for symbol < 0x10000 {
				bit := (symbol >> 7) & 1
				price += getPrice(probs[symbol>>8], bit)
				symbol <<= 1
			}
			break
		}
	}
	return price
}

func priceMatch(e *Encoder, posState uint32, dist, length uint32) uint32 {
	c := e.coder
	price := getPrice1(c.isMatch[c.state][posState]) + getPrice0(c.isRep[c.state])
	price += c.matchLen.price(posState, length-matchLenMin)
	slot := getDistSlot(dist)
	price += bitTreePrice(c.distSlot[getDistState(length)], 6, slot)
	if slot >= distModelStart {
		nb := numDirectBits(slot)
		base := (2 | (slot & 1)) << nb
		rest := dist - base
		if slot < distModelEnd {
			price += bitTreeReversePrice(c.distSpecialSlice(slot), nb, rest)
		} else {
			price += directBitsPrice(nb - alignBits)
			price += bitTreeReversePrice(c.distAlign, alignBits, rest&alignMask)
		}
	}
	return price
}

func priceRep(e *Encoder, posState uint32, repIdx int, length uint32) uint32 {
	c := e.coder
	price := getPrice1(c.isMatch[c.state][posState]) + getPrice1(c.isRep[c.state])
	switch repIdx {
	case 0:
		price += getPrice0(c.isRep0[c.state])
		if length == 1 {
			return price + getPrice0(c.isRep0Long[c.state][posState])
		}
		price += getPrice1(c.isRep0Long[c.state][posState])
	case 1:
		price += getPrice1(c.isRep0[c.state]) + getPrice0(c.isRep1[c.state])
	case 2:
		price += getPrice1(c.isRep0[c.state]) + getPrice1(c.isRep1[c.state]) + getPrice0(c.isRep2[c.state])
	default:
		price += getPrice1(c.isRep0[c.state]) + getPrice1(c.isRep1[c.state]) + getPrice1(c.isRep2[c.state])
	}
	price += c.repLen.price(posState, length-matchLenMin)
	return price
}
