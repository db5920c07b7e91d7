// Copyright 2026 The go-hibp-index Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package hibpindex

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/stbuehler/go-hibp-index/internal/format"
	"github.com/stbuehler/go-hibp-index/internal/offsettable"
)

// defaultBufferSize keeps the write side buffered so the OS sees few,
// big writes during a build.
const defaultBufferSize = 4 * 1024 * 1024

// Builder constructs a hash-index-v0 file with a single streaming pass
// over keys supplied in non-decreasing order. It never seeks: the bucket
// offset table is accumulated in memory and written as a trailer once
// AddEntry calls are done.
type Builder struct {
	cfg   Config
	depth format.Depth

	w       *bufio.Writer
	off     uint64 // absolute file offset of the next byte to be written
	entries uint64

	offsets    []uint64
	nextBucket uint32 // first bucket index not yet closed out in offsets

	lastKey []byte
	closed  bool

	// set only by CreateFile; NewBuilder callers own their writer and
	// are responsible for anything beyond Finish's trailer + flush.
	file       *os.File
	resultPath string
}

// NewBuilder writes a header for cfg to w and returns a Builder ready to
// accept entries. w is never seeked; callers that want atomic file
// replacement should use CreateFile instead.
func NewBuilder(w io.Writer, cfg Config) (*Builder, error) {
	depth, err := cfg.validate()
	if err != nil {
		return nil, err
	}

	h := format.Header{
		KeyType:     cfg.KeyType,
		Description: cfg.Description,
		KeySize:     cfg.KeySize,
		PayloadSize: cfg.PayloadSize,
	}
	bw := bufio.NewWriterSize(w, defaultBufferSize)
	headerLen, err := format.WriteHeader(bw, h)
	if err != nil {
		return nil, fmt.Errorf("format.WriteHeader: %w", err)
	}

	offsets := make([]uint64, 0, depth.TableEntries())
	offsets = append(offsets, uint64(headerLen))

	return &Builder{
		cfg:     cfg,
		depth:   depth,
		w:       bw,
		off:     uint64(headerLen),
		offsets: offsets,
		// offsets[0], bucket 0's start, is already seeded above.
		nextBucket: 1,
	}, nil
}

// CreateFile creates a new Builder writing into a temp file alongside
// path, so that Finish can atomically rename it into place. If Finish
// fails, the temp file is removed and no file appears at path. A build
// abandoned before Finish leaves its temp file (path + ".tmp-*") in place;
// nothing appears at path in that case either.
func CreateFile(path string, cfg Config) (*Builder, error) {
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("filepath.Abs: %w", err)
	}
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("os.CreateTemp: %w", err)
	}

	b, err := NewBuilder(f, cfg)
	if err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return nil, err
	}
	b.file = f
	b.resultPath = path
	return b, nil
}

// AddEntry appends one (key, payload) pair. key must be cfg.KeySize bytes
// and payload must be cfg.PayloadSize bytes. Keys must arrive in
// non-decreasing order; a strict decrease returns ErrInputOrder.
// Duplicate keys are accepted.
func (b *Builder) AddEntry(key, payload []byte) error {
	if b.closed {
		return fmt.Errorf("hibp-index: AddEntry called after Finish")
	}
	if len(key) != int(b.cfg.KeySize) {
		return fmt.Errorf("%w: key is %d bytes, want %d", ErrWrongKeySize, len(key), b.cfg.KeySize)
	}
	if len(payload) != int(b.cfg.PayloadSize) {
		return fmt.Errorf("hibp-index: payload is %d bytes, want %d", len(payload), b.cfg.PayloadSize)
	}
	if b.lastKey != nil && bytes.Compare(key, b.lastKey) < 0 {
		return fmt.Errorf("%w: key %x is smaller than previous key %x", ErrInputOrder, key, b.lastKey)
	}

	bucket := b.depth.PrefixIndex(key)
	b.closeBucketsUpTo(bucket)

	suffix := b.depth.SuffixOf(key)
	if _, err := b.w.Write(suffix); err != nil {
		return err
	}
	if len(payload) > 0 {
		if _, err := b.w.Write(payload); err != nil {
			return err
		}
	}

	b.off += uint64(len(suffix) + len(payload))
	b.entries++
	if b.lastKey == nil {
		b.lastKey = make([]byte, len(key))
	}
	copy(b.lastKey, key)
	return nil
}

// AddHexLine decodes a hex-encoded key line and adds it with an empty
// payload. It accepts an optional ":" or whitespace separator followed
// by arbitrary trailing text (e.g. a plaintext-count column), which is
// discarded, matching the line grammar HIBP source files use.
func (b *Builder) AddHexLine(line []byte) error {
	line = bytes.TrimRight(line, "\r\n")
	hexPart := line
	if i := bytes.IndexAny(line, ": \t"); i >= 0 {
		hexPart = line[:i]
	}
	if len(hexPart) != 2*int(b.cfg.KeySize) {
		return fmt.Errorf("%w: expected %d hex chars, got %d", ErrInputDecode, 2*int(b.cfg.KeySize), len(hexPart))
	}
	key := make([]byte, b.cfg.KeySize)
	if _, err := hex.Decode(key, hexPart); err != nil {
		return fmt.Errorf("%w: %v", ErrInputDecode, err)
	}
	return b.AddEntry(key, nil)
}

// closeBucketsUpTo records the current offset as the start of every
// bucket from nextBucket through bucket, inclusive, since any bucket the
// builder hasn't seen an entry for yet is empty and starts where the
// last closed-out bucket ended.
func (b *Builder) closeBucketsUpTo(bucket uint32) {
	for b.nextBucket <= bucket {
		b.offsets = append(b.offsets, b.off)
		b.nextBucket++
	}
}

// Finish pads out any empty trailing buckets, writes the deflate-
// compressed offset table and its length trailer, and flushes the
// underlying writer. If the Builder was created with CreateFile, Finish
// also renames the temp file into place; on any error the temp file is
// removed instead.
func (b *Builder) Finish() error {
	if b.closed {
		return fmt.Errorf("hibp-index: Finish called twice")
	}
	b.closed = true

	b.closeBucketsUpTo(b.depth.BucketCount() - 1)
	b.offsets = append(b.offsets, b.off)

	if _, err := offsettable.Write(b.w, b.depth, b.offsets); err != nil {
		b.abort()
		return fmt.Errorf("offsettable.Write: %w", err)
	}
	if err := b.w.Flush(); err != nil {
		b.abort()
		return fmt.Errorf("bufio.Flush: %w", err)
	}

	log.Printf("hibp-index: finished build: %d entries, %d buckets, %d byte offset table",
		b.entries, b.depth.BucketCount(), 1+8*len(b.offsets))

	if b.file == nil {
		return nil
	}

	if err := b.file.Sync(); err != nil {
		b.abort()
		return fmt.Errorf("f.Sync: %w", err)
	}
	if err := b.file.Close(); err != nil {
		b.abort()
		return fmt.Errorf("f.Close: %w", err)
	}
	if err := os.Chmod(b.file.Name(), 0o444); err != nil {
		b.abort()
		return fmt.Errorf("os.Chmod: %w", err)
	}
	if err := os.Rename(b.file.Name(), b.resultPath); err != nil {
		b.abort()
		return fmt.Errorf("os.Rename: %w", err)
	}
	return nil
}

func (b *Builder) abort() {
	if b.file == nil {
		return
	}
	_ = b.file.Close()
	_ = os.Remove(b.file.Name())
}
