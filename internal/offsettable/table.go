// Copyright 2026 The go-hibp-index Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package offsettable encodes and decodes the deflate-compressed bucket
// offset table that trails every hash-index-v0 file: a depth byte
// followed by 2^D+1 big-endian uint64 offsets: the start offset of each
// bucket plus one final past-the-end sentinel for the last bucket.
package offsettable

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"

	"github.com/stbuehler/go-hibp-index/internal/format"
)

// LengthFieldSize is the width of the trailing field that records the
// compressed table's length, written immediately after it.
const LengthFieldSize = 4

// MaxCompressedSize bounds the compressed table length a reader accepts
// from the trailer's length field, guarding against a corrupt or hostile
// length field. The inflated size is not bounded by it.
const MaxCompressedSize = 1 << 30

// Write deflates the offset table for depth d and writes it to w,
// followed by the 4-byte big-endian length of the compressed bytes.
// It returns the total number of bytes written.
func Write(w io.Writer, d format.Depth, offsets []uint64) (int64, error) {
	if uint32(len(offsets)) != d.TableEntries() {
		return 0, fmt.Errorf("offset table has %d entries, want %d for depth %d", len(offsets), d.TableEntries(), d)
	}

	raw := make([]byte, 1+8*len(offsets))
	raw[0] = byte(d)
	for i, off := range offsets {
		binary.BigEndian.PutUint64(raw[1+8*i:9+8*i], off)
	}

	var buf bytes.Buffer
	fw, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return 0, fmt.Errorf("flate.NewWriter: %w", err)
	}
	if _, err := fw.Write(raw); err != nil {
		return 0, fmt.Errorf("compressing offset table: %w", err)
	}
	if err := fw.Close(); err != nil {
		return 0, fmt.Errorf("closing flate writer: %w", err)
	}
	compressed := buf.Bytes()

	n, err := w.Write(compressed)
	if err != nil {
		return 0, err
	}

	var lengthField [LengthFieldSize]byte
	binary.BigEndian.PutUint32(lengthField[:], uint32(len(compressed)))
	if _, err := w.Write(lengthField[:]); err != nil {
		return 0, err
	}

	return int64(n + LengthFieldSize), nil
}

// ReadFromEnd reads the offset table trailer from the end of a
// io.ReaderAt-backed file: the last LengthFieldSize bytes give the
// compressed table's length T, and the T bytes before that are the
// deflated table itself. fileSize is the total size of the backing file.
func ReadFromEnd(ra io.ReaderAt, fileSize int64) (format.Depth, []uint64, error) {
	if fileSize < LengthFieldSize {
		return 0, nil, fmt.Errorf("file of %d bytes too small to hold a trailer", fileSize)
	}

	var lengthField [LengthFieldSize]byte
	if _, err := ra.ReadAt(lengthField[:], fileSize-LengthFieldSize); err != nil {
		return 0, nil, fmt.Errorf("reading trailer length: %w", err)
	}
	length := int64(binary.BigEndian.Uint32(lengthField[:]))
	if length < 0 || length > MaxCompressedSize {
		return 0, nil, fmt.Errorf("%w: compressed offset table length %d out of range", format.ErrCorruptOffsetTable, length)
	}

	tableStart := fileSize - LengthFieldSize - length
	if tableStart < 0 {
		return 0, nil, fmt.Errorf("%w: compressed offset table length %d larger than file", format.ErrCorruptOffsetTable, length)
	}

	compressed := make([]byte, length)
	if _, err := ra.ReadAt(compressed, tableStart); err != nil {
		return 0, nil, fmt.Errorf("reading compressed offset table: %w", err)
	}

	d, offsets, err := decode(compressed)
	if err != nil {
		return 0, nil, err
	}
	return d, offsets, nil
}

func decode(compressed []byte) (format.Depth, []uint64, error) {
	fr := flate.NewReader(bytes.NewReader(compressed))
	defer fr.Close()

	raw, err := io.ReadAll(fr)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: inflating offset table: %v", format.ErrCorruptOffsetTable, err)
	}
	if len(raw) < 1 {
		return 0, nil, fmt.Errorf("%w: empty offset table", format.ErrCorruptOffsetTable)
	}

	d, err := format.NewDepth(int(raw[0]))
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", format.ErrUnsupportedDepth, err)
	}

	want := int(d.TableEntries())
	if len(raw)-1 != 8*want {
		return 0, nil, fmt.Errorf("%w: offset table has %d bytes of entries, want %d", format.ErrCorruptOffsetTable, len(raw)-1, 8*want)
	}

	offsets := make([]uint64, want)
	for i := range offsets {
		offsets[i] = binary.BigEndian.Uint64(raw[1+8*i : 9+8*i])
	}

	if err := validateMonotonic(offsets); err != nil {
		return 0, nil, err
	}

	return d, offsets, nil
}

func validateMonotonic(offsets []uint64) error {
	for i := 1; i < len(offsets); i++ {
		if offsets[i] < offsets[i-1] {
			return fmt.Errorf("%w: offset table entry %d (%d) precedes entry %d (%d)",
				format.ErrCorruptOffsetTable, i, offsets[i], i-1, offsets[i-1])
		}
	}
	return nil
}

