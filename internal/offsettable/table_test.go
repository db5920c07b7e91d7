// Copyright 2026 The go-hibp-index Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package offsettable

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stbuehler/go-hibp-index/internal/format"
)

func TestWriteReadRoundtrip(t *testing.T) {
	d := format.Depth(4)
	offsets := make([]uint64, d.TableEntries())
	for i := range offsets {
		offsets[i] = uint64(i) * 37
	}

	var buf bytes.Buffer
	n, err := Write(&buf, d, offsets)
	require.NoError(t, err)
	require.Equal(t, int64(buf.Len()), n)

	// simulate the trailer sitting at the end of a larger file.
	prefix := []byte("bucket payload bytes go here")
	full := append(append([]byte(nil), prefix...), buf.Bytes()...)

	gotDepth, gotOffsets, err := ReadFromEnd(bytes.NewReader(full), int64(len(full)))
	require.NoError(t, err)
	require.Equal(t, d, gotDepth)
	require.Equal(t, offsets, gotOffsets)
}

func TestWriteWrongEntryCount(t *testing.T) {
	var buf bytes.Buffer
	_, err := Write(&buf, format.Depth(4), []uint64{0, 1, 2})
	require.Error(t, err)
}

func TestReadFromEndRejectsNonMonotonic(t *testing.T) {
	d := format.Depth(2)
	offsets := []uint64{0, 10, 5, 20, 20}

	var buf bytes.Buffer
	_, err := Write(&buf, d, offsets)
	require.NoError(t, err)

	_, _, err = ReadFromEnd(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.Error(t, err)
	require.True(t, errors.Is(err, format.ErrCorruptOffsetTable))
}

func TestReadFromEndRejectsTruncatedFile(t *testing.T) {
	_, _, err := ReadFromEnd(bytes.NewReader([]byte{1, 2}), 2)
	require.Error(t, err)
}

func TestReadFromEndRejectsBogusLength(t *testing.T) {
	// length field claims a table far bigger than the file.
	data := []byte{0, 0, 0, 0}
	data[3] = 0xff
	_, _, err := ReadFromEnd(bytes.NewReader(data), int64(len(data)))
	require.Error(t, err)
}
