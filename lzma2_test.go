// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/go-lzma/lzma2

package lzma

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"testing"
)

func TestLZMA2ChunkHeader_RoundTrip(t *testing.T) {
	cases := []lzma2ChunkHeader{
		{uncompressed: true, dictReset: true, uncompSize: 1},
		{uncompressed: true, dictReset: false, uncompSize: 65536},
		{dictReset: true, stateReset: true, propsReset: true, uncompSize: 1, compSize: 1, props: 0x5D},
		{stateReset: true, propsReset: true, uncompSize: 2 << 10, compSize: 512, props: 0x12},
		{stateReset: true, uncompSize: 70000, compSize: 40000},
		{uncompSize: 1 << 21, compSize: 1 << 16},
	}
	for i, h := range cases {
		t.Run(fmt.Sprintf("case-%d", i), func(t *testing.T) {
			buf := writeLZMA2ChunkHeader(nil, h)
			got, end, err := parseLZMA2ChunkHeader(bufio.NewReader(bytes.NewReader(buf)))
			if err != nil {
				t.Fatalf("parseLZMA2ChunkHeader failed: %v", err)
			}
			if end {
				t.Fatal("unexpected end-of-stream chunk")
			}
			if got != h {
				t.Fatalf("round-trip mismatch: got %+v want %+v", got, h)
			}
		})
	}
}

func TestLZMA2ChunkHeader_EndMarker(t *testing.T) {
	_, end, err := parseLZMA2ChunkHeader(bufio.NewReader(bytes.NewReader([]byte{lzma2CtrlEnd})))
	if err != nil {
		t.Fatalf("parseLZMA2ChunkHeader failed: %v", err)
	}
	if !end {
		t.Fatal("expected end-of-stream chunk to be reported")
	}
}

func TestLZMA2_EncodeDecodeRoundTrip(t *testing.T) {
	for _, in := range testInputSet() {
		for _, preset := range []int{0, 1, 6, 9} {
			name := fmt.Sprintf("%s/preset-%d", in.name, preset)
			t.Run(name, func(t *testing.T) {
				opt := Preset(preset)

				var buf bytes.Buffer
				w, err := NewLZMA2Writer(&buf, opt)
				if err != nil {
					t.Fatalf("NewLZMA2Writer failed: %v", err)
				}
				if _, err := w.Write(in.data); err != nil {
					t.Fatalf("Write failed: %v", err)
				}
				if err := w.Close(); err != nil {
					t.Fatalf("Close failed: %v", err)
				}

				r, err := NewLZMA2Reader(bytes.NewReader(buf.Bytes()), opt.DictSize, 0)
				if err != nil {
					t.Fatalf("NewLZMA2Reader failed: %v", err)
				}
				out, err := io.ReadAll(r)
				if err != nil {
					t.Fatalf("decode failed: %v", err)
				}
				if !bytes.Equal(out, in.data) {
					t.Fatalf("round-trip mismatch: got=%d want=%d", len(out), len(in.data))
				}
			})
		}
	}
}

func TestLZMA2_MultipleChunksSpanBoundary(t *testing.T) {
	// compressedSizeMax is 64KiB; this input forces several chunks.
	data := bytes.Repeat([]byte("lzma2-chunk-boundary-stress-test "), 10000)
	opt := Preset(6)

	var buf bytes.Buffer
	w, err := NewLZMA2Writer(&buf, opt)
	if err != nil {
		t.Fatalf("NewLZMA2Writer failed: %v", err)
	}
	if _, err := w.Write(data); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	chunkCount := 0
	br := bufio.NewReader(bytes.NewReader(buf.Bytes()))
	for {
		h, end, err := parseLZMA2ChunkHeader(br)
		if err != nil {
			t.Fatalf("parseLZMA2ChunkHeader failed: %v", err)
		}
		if end {
			break
		}
		chunkCount++
		skip := h.compSize
		if h.uncompressed {
			skip = h.uncompSize
		}
		if _, err := io.CopyN(io.Discard, br, int64(skip)); err != nil {
			t.Fatalf("skipping chunk body failed: %v", err)
		}
	}
	if chunkCount < 2 {
		t.Fatalf("expected multiple chunks for %d bytes, got %d", len(data), chunkCount)
	}

	r, err := NewLZMA2Reader(bytes.NewReader(buf.Bytes()), opt.DictSize, 0)
	if err != nil {
		t.Fatalf("NewLZMA2Reader failed: %v", err)
	}
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !bytes.Equal(out, data) {
		t.Fatal("round-trip mismatch across multiple chunks")
	}
}

func TestLZMA2Writer_PresetDictRejected(t *testing.T) {
	opt := Preset(6)
	opt.PresetDict = []byte("seed")
	if _, err := NewLZMA2Writer(&bytes.Buffer{}, opt); err != ErrUnsupported {
		t.Fatalf("expected ErrUnsupported for preset dict, got %v", err)
	}
}

func TestLZMA2Reader_RejectsFirstChunkWithoutDictReset(t *testing.T) {
	h := lzma2ChunkHeader{stateReset: true, propsReset: true, uncompSize: 4, compSize: 4, props: 0x5D}
	body := writeLZMA2ChunkHeader(nil, h)
	body = append(body, []byte{0, 0, 0, 0}...)

	r, err := NewLZMA2Reader(bytes.NewReader(body), DictSizeMin, 0)
	if err != nil {
		t.Fatalf("NewLZMA2Reader failed: %v", err)
	}
	if _, err := io.ReadAll(r); err != ErrInvalidData {
		t.Fatalf("expected ErrInvalidData for missing initial dict reset, got %v", err)
	}
}

func FuzzLZMA2RoundTrip(f *testing.F) {
	f.Add([]byte(""), uint8(0))
	f.Add([]byte("hello lzma2"), uint8(1))
	f.Add(bytes.Repeat([]byte{0x00}, 2048), uint8(9))
	f.Add(bytes.Repeat([]byte("xyz"), 1000), uint8(6))

	f.Fuzz(func(t *testing.T, data []byte, preset uint8) {
		if len(data) > 1<<17 {
			data = data[:1<<17]
		}
		opt := Preset(int(preset % 10))

		var buf bytes.Buffer
		w, err := NewLZMA2Writer(&buf, opt)
		if err != nil {
			t.Fatalf("NewLZMA2Writer failed: %v", err)
		}
		if _, err := w.Write(data); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
		if err := w.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}

		r, err := NewLZMA2Reader(bytes.NewReader(buf.Bytes()), opt.DictSize, 0)
		if err != nil {
			t.Fatalf("NewLZMA2Reader failed: %v", err)
		}
		out, err := io.ReadAll(r)
		if err != nil {
			t.Fatalf("decode failed: %v", err)
		}
		if !bytes.Equal(out, data) {
			t.Fatalf("round-trip mismatch: got=%d want=%d", len(out), len(data))
		}
	})
}
