// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/go-lzma/lzma2

/*
Package lzma implements LZMA and LZMA2 compression and decompression,
wire-compatible with the Tukaani/XZ reference implementation.

The format codes literals and back-references through a binary range
coder driven by a 12-state Markov model (state.go), over a sliding
dictionary window searched by either a hash-chain (HC4) or binary-tree
(BT4) match finder depending on the chosen preset. LZMA2 wraps the same
symbol coder in independently resettable, size-bounded chunks so a
stream can restart its dictionary or probability model partway through,
which LZMA-alone cannot do.

# Decompress

From an io.Reader carrying a standalone .lzma stream (13-byte header,
properties byte, dictionary size, uncompressed size):

	dec, err := lzma.NewDecoder(r, lzma.DecoderOptions{MemLimitKiB: 1 << 20})
	n, err := dec.Read(buf)

For a headerless stream whose properties arrive some other way (e.g. an
LZIP member header), use NewRawDecoder with DecoderOptions.LC/LP/PB and
DictSize set explicitly. For LZMA2 chunk streams, use NewLZMA2Reader.

# Compress

Options may be built from a preset (0 fastest, 9 strongest) and
adjusted:

	opt := lzma.Preset(6)
	enc, err := lzma.NewEncoder(w, opt, uint64(len(data)))
	_, err = enc.Write(data)
	err = enc.Close()

For LZMA2 framing, use NewLZMA2Writer; for independent-block parallel
LZMA2 compression, use NewLZMA2WriterMT. The lzip subpackage wraps
NewRawEncoder/NewRawDecoder in the LZIP container format (member
header, CRC-32 trailer).
*/
package lzma
