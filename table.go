// Copyright 2026 The go-hibp-index Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package hibpindex

import (
	"bytes"
	"fmt"

	"github.com/stbuehler/go-hibp-index/internal/format"
	"github.com/stbuehler/go-hibp-index/internal/mmapfile"
	"github.com/stbuehler/go-hibp-index/internal/offsettable"
)

// linearScanThreshold is the candidate-window size at or below which Lookup
// falls back to a linear scan instead of continuing to bisect; once a
// bucket's search window is this small, the loop overhead of binary
// search outweighs just comparing what's left.
const linearScanThreshold = 4

// Table is a read-only, memory-mapped view of a hash-index-v0 file.
type Table struct {
	header format.Header
	depth  format.Depth
	offset []uint64 // bucket byte-range boundaries, absolute file offsets

	mm *mmapfile.File
}

// Open memory-maps the file at path, validates its header and offset
// table, and returns a Table ready for Lookup calls. The mapping is held
// for the lifetime of the Table; call Close when done.
func Open(path string) (*Table, error) {
	mm, err := mmapfile.Open(path)
	if err != nil {
		return nil, err
	}

	t, err := newTable(mm)
	if err != nil {
		mm.Close()
		return nil, err
	}
	return t, nil
}

func newTable(mm *mmapfile.File) (*Table, error) {
	data := mm.Data()

	header, err := format.ParseHeader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadHeader, err)
	}
	headerLen := headerByteLen(header)
	if int64(headerLen) > mm.Len() {
		return nil, fmt.Errorf("%w: file shorter than its own header", ErrBadHeader)
	}

	depth, offsets, err := offsettable.ReadFromEnd(mm, mm.Len())
	if err != nil {
		return nil, err
	}
	if err := header.Validate(depth); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadHeader, err)
	}

	if offsets[0] != uint64(headerLen) {
		return nil, fmt.Errorf("%w: bucket data starts at %d, want %d right after the header",
			ErrCorruptOffsetTable, offsets[0], headerLen)
	}
	if offsets[len(offsets)-1] > uint64(mm.Len()) {
		return nil, fmt.Errorf("%w: bucket data extends past end of file", ErrCorruptOffsetTable)
	}

	entryWidth := uint64(depth.EntryWidth(header.KeySize, header.PayloadSize))
	for i := 1; i < len(offsets); i++ {
		if (offsets[i]-offsets[i-1])%entryWidth != 0 {
			return nil, fmt.Errorf("%w: bucket %d size %d not a multiple of entry width %d",
				ErrCorruptOffsetTable, i-1, offsets[i]-offsets[i-1], entryWidth)
		}
	}

	return &Table{
		header: header,
		depth:  depth,
		offset: offsets,
		mm:     mm,
	}, nil
}

// headerByteLen recomputes the exact number of bytes ParseHeader
// consumed, used only to confirm the offset table's first entry places
// bucket 0 right after the header rather than inside it.
func headerByteLen(h format.Header) int {
	return len(format.Magic) + 1 + len(h.KeyType) + 1 + len(h.Description) + 1 + 2
}

// KeyType returns the header's key-type label, e.g. "SHA-1" or "NT".
func (t *Table) KeyType() string { return t.header.KeyType }

// Description returns the header's free-text description.
func (t *Table) Description() string { return t.header.Description }

// KeySize returns the fixed key width in bytes.
func (t *Table) KeySize() uint8 { return t.header.KeySize }

// PayloadSize returns the fixed payload width in bytes.
func (t *Table) PayloadSize() uint8 { return t.header.PayloadSize }

// Depth returns the number of leading key bits used to select a bucket.
func (t *Table) Depth() int { return int(t.depth) }

// Lookup reports whether key is present. On a match it also returns the
// key's stored payload (nil if PayloadSize is 0); the returned slice
// aliases the table's memory mapping and is valid until Close.
func (t *Table) Lookup(key []byte) (bool, []byte, error) {
	if len(key) != int(t.header.KeySize) {
		return false, nil, fmt.Errorf("%w: key is %d bytes, want %d", ErrWrongKeySize, len(key), t.header.KeySize)
	}

	bucket := t.depth.PrefixIndex(key)
	suffix := t.depth.SuffixOf(key)

	entryWidth := t.depth.EntryWidth(t.header.KeySize, t.header.PayloadSize)
	suffixWidth := len(suffix)

	start := int64(t.offset[bucket])
	end := int64(t.offset[bucket+1])
	bucketBytes := t.mm.Data()[start:end]

	n := len(bucketBytes) / entryWidth
	lo, hi := 0, n
	for hi-lo > linearScanThreshold {
		mid := lo + (hi-lo)/2
		entry := bucketBytes[mid*entryWidth : mid*entryWidth+suffixWidth]
		switch bytes.Compare(entry, suffix) {
		case 0:
			return true, payloadOf(bucketBytes, mid, entryWidth, suffixWidth), nil
		case -1:
			lo = mid + 1
		default:
			hi = mid
		}
	}

	for i := lo; i < hi; i++ {
		entry := bucketBytes[i*entryWidth : i*entryWidth+suffixWidth]
		cmp := bytes.Compare(entry, suffix)
		if cmp == 0 {
			return true, payloadOf(bucketBytes, i, entryWidth, suffixWidth), nil
		}
		if cmp > 0 {
			break
		}
	}
	return false, nil, nil
}

func payloadOf(bucketBytes []byte, i, entryWidth, suffixWidth int) []byte {
	if suffixWidth == entryWidth {
		return nil
	}
	start := i*entryWidth + suffixWidth
	return bucketBytes[start : start+entryWidth-suffixWidth]
}

// Close unmaps the underlying file.
func (t *Table) Close() error {
	return t.mm.Close()
}
