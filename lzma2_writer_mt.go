// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/go-lzma/lzma2

package lzma

import (
	"bytes"
	"container/heap"
	"context"
	"io"
	"sync"

	"golang.org/x/sync/errgroup"
)

// MinStreamSize is the smallest per-block uncompressed size
// LZMA2WriterMT will use; requested block sizes below it
// are clamped up, since a fresh dictionary reset on every block costs
// more than parallelism buys back below this size.
const MinStreamSize = 256 << 10

// mt2Result is one worker's finished, still-unordered block.
type mt2Result struct {
	seq  uint64
	data []byte
}

// mt2ResultHeap reorders blocks finishing out of sequence; a small
// heap is the natural reassembly buffer since the standard library has
// no ordered map.
type mt2ResultHeap []mt2Result

func (h mt2ResultHeap) Len() int           { return len(h) }
func (h mt2ResultHeap) Less(i, j int) bool { return h[i].seq < h[j].seq }
func (h mt2ResultHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *mt2ResultHeap) Push(x interface{}) { *h = append(*h, x.(mt2Result)) }

func (h *mt2ResultHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// LZMA2WriterMT compresses input as a sequence of independent,
// dict-reset LZMA2 blocks, each compressed on its own goroutine, and
// reassembles their compressed bodies in original order before writing
// them to dst, finishing with a single stream-ending control byte.
// Worker lifecycle and first-error-wins cancellation are handled by
// golang.org/x/sync/errgroup; out-of-order reassembly uses
// container/heap.
type LZMA2WriterMT struct {
	dst       io.Writer
	opt       EncoderOptions
	blockSize int

	g   *errgroup.Group
	ctx context.Context

	pending []byte
	nextSeq uint64

	mu        sync.Mutex
	results   mt2ResultHeap
	nextWrite uint64

	closed bool
}

// NewLZMA2WriterMT starts a pool of up to numWorkers (clamped to
// [1,256]) goroutines, each compressing one blockSize-sized block
// (clamped up to MinStreamSize) independently. ctx governs cancellation
// shared by every worker; cancelling it, or any worker returning an
// error, stops the rest via errgroup's derived context.
func NewLZMA2WriterMT(ctx context.Context, dst io.Writer, opt EncoderOptions, blockSize uint64, numWorkers int) (*LZMA2WriterMT, error) {
	if err := opt.Validate(); err != nil {
		return nil, err
	}
	if blockSize < MinStreamSize {
		blockSize = MinStreamSize
	}
	if numWorkers < 1 {
		numWorkers = 1
	}
	if numWorkers > 256 {
		numWorkers = 256
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(numWorkers)
	return &LZMA2WriterMT{
		dst:       dst,
		opt:       opt,
		blockSize: int(blockSize),
		g:         g,
		ctx:       gctx,
		pending:   make([]byte, 0, blockSize),
	}, nil
}

// Write accumulates p and dispatches one compression goroutine per full
// block as it fills.
func (w *LZMA2WriterMT) Write(p []byte) (int, error) {
	if w.closed {
		return 0, ErrInvalidInput
	}
	if err := w.ctx.Err(); err != nil {
		return 0, err
	}
	total := len(p)
	for len(p) > 0 {
		room := w.blockSize - len(w.pending)
		n := room
		if n > len(p) {
			n = len(p)
		}
		w.pending = append(w.pending, p[:n]...)
		p = p[n:]
		if len(w.pending) == w.blockSize {
			w.dispatch(w.pending)
			w.pending = make([]byte, 0, w.blockSize)
		}
	}
	return total, nil
}

func (w *LZMA2WriterMT) dispatch(block []byte) {
	seq := w.nextSeq
	w.nextSeq++
	w.g.Go(func() error {
		data, err := encodeLZMA2Block(w.opt, block)
		if err != nil {
			return err
		}
		w.mu.Lock()
		defer w.mu.Unlock()
		heap.Push(&w.results, mt2Result{seq: seq, data: data})
		return w.drainLocked()
	})
}

// drainLocked writes every buffered result that is next in sequence
// order, in order, to dst; the caller holds w.mu. Only the goroutine
// that happens to complete the next-expected sequence ever writes to
// dst, so concurrent completions never interleave their output.
func (w *LZMA2WriterMT) drainLocked() error {
	for len(w.results) > 0 && w.results[0].seq == w.nextWrite {
		r := heap.Pop(&w.results).(mt2Result)
		if _, err := w.dst.Write(r.data); err != nil {
			return err
		}
		w.nextWrite++
	}
	return nil
}

// encodeLZMA2Block compresses data as a complete, independently
// dict-reset LZMA2 block body, without the stream-ending control byte
// (the caller owns exactly one of those, placed after the last block).
func encodeLZMA2Block(opt EncoderOptions, data []byte) ([]byte, error) {
	var buf bytes.Buffer
	lw, err := NewLZMA2Writer(&buf, opt)
	if err != nil {
		return nil, err
	}
	if _, err := lw.Write(data); err != nil {
		return nil, err
	}
	if err := lw.finishNoMarker(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Close dispatches any final partial block, waits for every worker to
// finish, and appends the single stream-ending LZMA2 control byte.
func (w *LZMA2WriterMT) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if len(w.pending) > 0 {
		w.dispatch(w.pending)
		w.pending = nil
	}
	if err := w.g.Wait(); err != nil {
		return err
	}
	if w.nextWrite != w.nextSeq {
		return ErrInvalidData
	}
	_, err := w.dst.Write([]byte{lzma2CtrlEnd})
	return err
}
