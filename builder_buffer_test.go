// Copyright 2026 The go-hibp-index Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package hibpindex

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stbuehler/go-hibp-index/internal/format"
	"github.com/stbuehler/go-hibp-index/internal/offsettable"
)

// safeBuffer is an in-memory io.Writer + io.ReaderAt, letting builder
// round-trip tests inspect the bytes a Builder produced without going
// through a real file and the mmap-backed reader.
type safeBuffer struct {
	mu  sync.Mutex
	buf []byte
}

func (s *safeBuffer) Write(p []byte) (n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buf = append(s.buf, p...)
	return len(p), nil
}

func (s *safeBuffer) ReadAt(p []byte, off int64) (n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if int(off) > len(s.buf) {
		return 0, errors.New("readAt out of bounds")
	}

	end := int(off) + len(p)
	if end > len(s.buf) {
		end = len(s.buf)
	}
	n = copy(p, s.buf[off:end])
	if n < len(p) {
		return n, errors.New("readAt short read")
	}
	return n, nil
}

func (s *safeBuffer) Len() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.buf))
}

// The offset table's entries must be absolute byte positions in the
// file, not positions relative to the end of the header: bucket 0 has
// to start right after the header, and every later offset has to fall
// at or after that, never inside the header.
func TestBuilderOffsetsAreAbsoluteFileOffsets(t *testing.T) {
	var buf safeBuffer
	cfg := testConfig()
	b, err := NewBuilder(&buf, cfg)
	require.NoError(t, err)

	require.NoError(t, b.AddEntry([]byte{0x10, 0x00, 0x00, 0x00}, nil))
	require.NoError(t, b.AddEntry([]byte{0xf0, 0x00, 0x00, 0x00}, nil))
	require.NoError(t, b.Finish())

	headerLen, err := format.WriteHeader(&discard{}, format.Header{
		KeyType:     cfg.KeyType,
		Description: cfg.Description,
		KeySize:     cfg.KeySize,
		PayloadSize: cfg.PayloadSize,
	})
	require.NoError(t, err)

	depth, offsets, err := offsettable.ReadFromEnd(&buf, buf.Len())
	require.NoError(t, err)
	require.Equal(t, *cfg.Depth, int(depth))

	require.Equal(t, uint64(headerLen), offsets[0], "bucket 0 must start right after the header, not at byte 0")
	for _, off := range offsets {
		require.GreaterOrEqual(t, off, uint64(headerLen), "no offset may point inside the header")
		require.LessOrEqual(t, off, uint64(buf.Len()), "no offset may point past the end of the written data")
	}
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
