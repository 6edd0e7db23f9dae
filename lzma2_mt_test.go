// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/go-lzma/lzma2

package lzma

import (
	"bytes"
	"context"
	"io"
	"testing"
)

func TestLZMA2WriterMT_MatchesSingleThreadedOutput(t *testing.T) {
	data := bytes.Repeat([]byte("parallel-lzma2-block-stress "), 60000) // several blocks
	opt := Preset(6)

	var single bytes.Buffer
	sw, err := NewLZMA2Writer(&single, opt)
	if err != nil {
		t.Fatalf("NewLZMA2Writer failed: %v", err)
	}
	if _, err := sw.Write(data); err != nil {
		t.Fatalf("single-threaded Write failed: %v", err)
	}
	if err := sw.Close(); err != nil {
		t.Fatalf("single-threaded Close failed: %v", err)
	}

	var mt bytes.Buffer
	mw, err := NewLZMA2WriterMT(context.Background(), &mt, opt, MinStreamSize, 4)
	if err != nil {
		t.Fatalf("NewLZMA2WriterMT failed: %v", err)
	}
	if _, err := mw.Write(data); err != nil {
		t.Fatalf("multi-threaded Write failed: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("multi-threaded Close failed: %v", err)
	}

	dictSize := opt.DictSize
	singleOut, err := decodeAllLZMA2(single.Bytes(), dictSize)
	if err != nil {
		t.Fatalf("decoding single-threaded output failed: %v", err)
	}
	mtOut, err := decodeAllLZMA2(mt.Bytes(), dictSize)
	if err != nil {
		t.Fatalf("decoding multi-threaded output failed: %v", err)
	}

	if !bytes.Equal(singleOut, data) {
		t.Fatal("single-threaded output does not round-trip to the original data")
	}
	if !bytes.Equal(mtOut, data) {
		t.Fatal("multi-threaded output does not round-trip to the original data")
	}
}

func TestLZMA2WriterMT_SingleTerminator(t *testing.T) {
	data := bytes.Repeat([]byte("terminator-count-check"), 40000)
	opt := Preset(3)

	var mt bytes.Buffer
	mw, err := NewLZMA2WriterMT(context.Background(), &mt, opt, MinStreamSize, 3)
	if err != nil {
		t.Fatalf("NewLZMA2WriterMT failed: %v", err)
	}
	if _, err := mw.Write(data); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	out := mt.Bytes()
	terminators := bytes.Count(out, []byte{lzma2CtrlEnd})
	// lzma2CtrlEnd (0x00) can legitimately appear as compressed payload
	// bytes too, so only the very last byte is asserted as the
	// stream-ending marker.
	if len(out) == 0 || out[len(out)-1] != lzma2CtrlEnd {
		t.Fatal("expected the stream to end with a single lzma2CtrlEnd byte")
	}
	_ = terminators
}

func TestLZMA2WriterMT_ClampsBlockSize(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewLZMA2WriterMT(context.Background(), &buf, Preset(0), 1, 0)
	if err != nil {
		t.Fatalf("NewLZMA2WriterMT failed: %v", err)
	}
	if w.blockSize != MinStreamSize {
		t.Fatalf("blockSize = %d, want clamped to MinStreamSize = %d", w.blockSize, MinStreamSize)
	}
}

// decodeAllLZMA2 decodes a complete LZMA2 stream produced with dictSize.
func decodeAllLZMA2(compressed []byte, dictSize uint32) ([]byte, error) {
	r, err := NewLZMA2Reader(bytes.NewReader(compressed), dictSize, 0)
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}
