// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/go-lzma/lzma2

package lzma

import "hash/crc32"

// Match-finder hashing: a three-tier 2/3/4-byte scheme matching
// _examples/original_source/src/lz/hc4.rs's Hash234. Reuses the stdlib
// crc32.IEEETable as the per-byte mixing table instead of hand-rolling
// one: the table only needs to scatter single bytes well, and the
// standard CRC-32 table already does exactly that.
const (
	hash2Bits = 10
	hash3Bits = 16

	hash4BitsMin = 12
	hash4BitsMax = 20
)

var crcTable = crc32.IEEETable

// hash4Bits picks the 4-byte hash table width for a given dictionary
// size: wider dictionaries get a wider table to keep chain lengths
// short, capped at hash4BitsMax to bound memory.
func hash4Bits(dictSize uint32) uint32 {
	bits := uint32(hash4BitsMin)
	for (uint32(1) << bits) < dictSize && bits < hash4BitsMax {
		bits++
	}
	return bits
}

// hash4MemKiB returns the hash4 table's memory footprint in KiB for the
// given dictionary size (4 bytes per slot).
func hash4MemKiB(dictSize uint32) uint32 {
	return (uint32(1) << hash4Bits(dictSize)) * 4 / 1024
}

// hashes computes the hash2, hash3, and hash4 values for the 4 bytes
// starting at b (caller ensures len(b) >= 4), masking hash4 to the
// table width implied by mask4.
func hashes(b []byte, mask4 uint32) (h2, h3, h4 uint32) {
	temp := crcTable[b[0]] ^ uint32(b[1])
	h2 = temp & (hash2Size - 1)
	temp ^= uint32(b[2]) << 8
	h3 = temp & (hash3Size - 1)
	h4 = (temp ^ (crcTable[b[3]] << 5)) & mask4
	return
}

const (
	hash2Size = 1 << hash2Bits
	hash3Size = 1 << hash3Bits
)
