// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/go-lzma/lzma2

package lzip

import "testing"

func TestDictSize_EncodeDecodeRoundTrip(t *testing.T) {
	sizes := []uint32{
		MinDictSize,
		1 << 16,
		1 << 20,
		3 << 20,
		1 << 24,
		MaxDictSize,
	}
	for _, want := range sizes {
		encoded := encodeDictSize(want)
		got, err := decodeDictSize(encoded)
		if err != nil {
			t.Fatalf("decodeDictSize(%#x) failed: %v", encoded, err)
		}
		if got < want {
			t.Fatalf("decoded dictionary size %d is smaller than requested %d", got, want)
		}
	}
}

func TestDictSize_ClampsOutOfRange(t *testing.T) {
	if got := decodeDictSizeOrZero(t, encodeDictSize(0)); got < MinDictSize {
		t.Fatalf("encodeDictSize(0) decoded to %d, want >= MinDictSize", got)
	}
	if got := decodeDictSizeOrZero(t, encodeDictSize(MaxDictSize+1)); got > MaxDictSize {
		t.Fatalf("encodeDictSize(MaxDictSize+1) decoded to %d, want <= MaxDictSize", got)
	}
}

func decodeDictSizeOrZero(t *testing.T, encoded byte) uint32 {
	t.Helper()
	got, err := decodeDictSize(encoded)
	if err != nil {
		t.Fatalf("decodeDictSize(%#x) failed: %v", encoded, err)
	}
	return got
}

func TestDecodeDictSize_RejectsInvalidBase(t *testing.T) {
	if _, err := decodeDictSize(0x00); err == nil { // base 0, out of [12,29]
		t.Fatal("expected error for out-of-range base")
	}
}
