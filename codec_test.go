// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/go-lzma/lzma2

package lzma

import (
	"bytes"
	"fmt"
	"io"
	"testing"
)

func testInputSet() []struct {
	name string
	data []byte
} {
	return []struct {
		name string
		data []byte
	}{
		{name: "nil", data: nil},
		{name: "empty", data: []byte{}},
		{name: "single-byte", data: []byte{0xAB}},
		{name: "short-text", data: []byte("hello world, lzma test")},
		{name: "repeated-pattern", data: bytes.Repeat([]byte("abc123"), 4000)},
		{name: "long-run", data: bytes.Repeat([]byte{0xFF}, 20000)},
		{name: "byte-cycle", data: bytes.Repeat([]byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, 3000)},
	}
}

func TestEncodeDecode_RoundTripAcrossPresets(t *testing.T) {
	presets := []int{-7, 0, 1, 2, 3, 4, 5, 6, 9, 15}

	for _, in := range testInputSet() {
		for _, preset := range presets {
			name := fmt.Sprintf("%s/preset-%d", in.name, preset)
			t.Run(name, func(t *testing.T) {
				opt := Preset(preset)
				var buf bytes.Buffer
				enc, err := NewEncoder(&buf, opt, uint64(len(in.data)))
				if err != nil {
					t.Fatalf("NewEncoder failed: %v", err)
				}
				if _, err := enc.Write(in.data); err != nil {
					t.Fatalf("Write failed: %v", err)
				}
				if err := enc.Close(); err != nil {
					t.Fatalf("Close failed: %v", err)
				}

				dec, err := NewDecoder(bytes.NewReader(buf.Bytes()), DecoderOptions{})
				if err != nil {
					t.Fatalf("NewDecoder failed: %v", err)
				}
				out, err := io.ReadAll(dec)
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

func TestEncodeDecode_UnknownSizeUsesEndMarker(t *testing.T) {
	data := bytes.Repeat([]byte("end-marker-roundtrip"), 500)

	var buf bytes.Buffer
	enc, err := NewEncoder(&buf, Preset(6), UncompSizeUnknown)
	if err != nil {
		t.Fatalf("NewEncoder failed: %v", err)
	}
	if _, err := enc.Write(data); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	dec, err := NewDecoder(bytes.NewReader(buf.Bytes()), DecoderOptions{})
	if err != nil {
		t.Fatalf("NewDecoder failed: %v", err)
	}
	out, err := io.ReadAll(dec)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !bytes.Equal(out, data) {
		t.Fatal("round-trip mismatch with unknown uncompressed size")
	}
}

func TestRawEncodeDecode_RoundTrip(t *testing.T) {
	data := bytes.Repeat([]byte("raw-headerless-stream"), 800)
	opt := Preset(6)

	var buf bytes.Buffer
	enc, err := NewRawEncoder(&buf, opt, uint64(len(data)))
	if err != nil {
		t.Fatalf("NewRawEncoder failed: %v", err)
	}
	if _, err := enc.Write(data); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	dec, err := NewRawDecoder(bytes.NewReader(buf.Bytes()), DecoderOptions{
		LC: opt.LC, LP: opt.LP, PB: opt.PB,
		DictSize:   opt.DictSize,
		UncompSize: uint64(len(data)),
	})
	if err != nil {
		t.Fatalf("NewRawDecoder failed: %v", err)
	}
	out, err := io.ReadAll(dec)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !bytes.Equal(out, data) {
		t.Fatal("raw round-trip mismatch")
	}
}

func TestEncoder_PresetDictRejected(t *testing.T) {
	opt := Preset(6)
	opt.PresetDict = []byte("seed")
	if _, err := NewEncoder(&bytes.Buffer{}, opt, 0); err != ErrUnsupported {
		t.Fatalf("expected ErrUnsupported for preset dict + header, got %v", err)
	}
}

func TestEncoder_WriteAfterCloseFails(t *testing.T) {
	var buf bytes.Buffer
	enc, err := NewEncoder(&buf, Preset(0), 0)
	if err != nil {
		t.Fatalf("NewEncoder failed: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if _, err := enc.Write([]byte("x")); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput after Close, got %v", err)
	}
}

func TestDecoder_MemLimitRejectsLargeDictionary(t *testing.T) {
	opt := Preset(9) // large dictionary
	var buf bytes.Buffer
	enc, err := NewEncoder(&buf, opt, 0)
	if err != nil {
		t.Fatalf("NewEncoder failed: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	_, err = NewDecoder(bytes.NewReader(buf.Bytes()), DecoderOptions{MemLimitKiB: 1})
	if err != ErrOutOfMemory {
		t.Fatalf("expected ErrOutOfMemory, got %v", err)
	}
}

func TestDecoder_TruncatedStreamFails(t *testing.T) {
	data := bytes.Repeat([]byte("0123456789abcdef"), 400)
	var buf bytes.Buffer
	enc, err := NewEncoder(&buf, Preset(6), uint64(len(data)))
	if err != nil {
		t.Fatalf("NewEncoder failed: %v", err)
	}
	if _, err := enc.Write(data); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	full := buf.Bytes()
	truncated := full[:len(full)-8]
	dec, err := NewDecoder(bytes.NewReader(truncated), DecoderOptions{})
	if err != nil {
		t.Fatalf("NewDecoder failed: %v", err)
	}
	if _, err := io.ReadAll(dec); err == nil {
		t.Fatal("expected error decoding a truncated stream")
	}
}

func FuzzEncodeDecodeRoundTrip(f *testing.F) {
	f.Add([]byte(""), uint8(0))
	f.Add([]byte("hello world"), uint8(1))
	f.Add(bytes.Repeat([]byte{0x00}, 1024), uint8(9))
	f.Add(bytes.Repeat([]byte("abc"), 500), uint8(6))

	f.Fuzz(func(t *testing.T, data []byte, preset uint8) {
		if len(data) > 1<<16 {
			data = data[:1<<16]
		}
		opt := Preset(int(preset % 10))

		var buf bytes.Buffer
		enc, err := NewEncoder(&buf, opt, uint64(len(data)))
		if err != nil {
			t.Fatalf("NewEncoder failed: %v", err)
		}
		if _, err := enc.Write(data); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
		if err := enc.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}

		dec, err := NewDecoder(bytes.NewReader(buf.Bytes()), DecoderOptions{})
		if err != nil {
			t.Fatalf("NewDecoder failed: %v", err)
		}
		out, err := io.ReadAll(dec)
		if err != nil {
			t.Fatalf("decode failed: %v", err)
		}
		if !bytes.Equal(out, data) {
			t.Fatalf("round-trip mismatch: got=%d want=%d", len(out), len(data))
		}
	})
}
