// Copyright 2026 The go-hibp-index Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package mmapfile memory-maps a read-only file for random-access
// lookups, the way a hash-index-v0 table is read: opened once, mapped
// for its whole lifetime, and advised for random access since bucket
// lookups jump around the file rather than scanning it sequentially.
package mmapfile

import (
	"fmt"
	"os"
	"sync/atomic"

	"golang.org/x/sys/unix"
)

// File is a read-only memory mapping of an *os.File, held open for the
// lifetime of the mapping.
type File struct {
	f        *os.File
	data     []byte
	isClosed atomic.Bool
}

// Open maps the file at path read-only and advises the kernel that
// access to it will be random, not sequential.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("os.Open(%s): %w", path, err)
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("f.Stat: %w", err)
	}

	size := stat.Size()
	if size == 0 {
		f.Close()
		return nil, fmt.Errorf("mmapfile.Open(%s): file is empty", path)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("unix.Mmap(%s): %w", path, err)
	}

	if err := unix.Madvise(data, unix.MADV_RANDOM); err != nil {
		unix.Munmap(data)
		f.Close()
		return nil, fmt.Errorf("unix.Madvise(%s): %w", path, err)
	}

	return &File{f: f, data: data}, nil
}

// Data returns the mapped bytes. The slice is valid until Close.
func (m *File) Data() []byte {
	return m.data
}

// Len returns the length of the mapped file in bytes.
func (m *File) Len() int64 {
	return int64(len(m.data))
}

// ReadAt implements io.ReaderAt against the mapping, so the same type
// can satisfy code written against the offsettable trailer reader.
func (m *File) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off > int64(len(m.data)) {
		return 0, fmt.Errorf("mmapfile: offset %d out of range [0, %d]", off, len(m.data))
	}
	n := copy(p, m.data[off:])
	if n < len(p) {
		return n, fmt.Errorf("mmapfile: short read at offset %d: got %d of %d bytes", off, n, len(p))
	}
	return n, nil
}

// Close unmaps the file and closes the underlying descriptor. Close is
// safe to call more than once.
func (m *File) Close() error {
	if m.isClosed.Swap(true) {
		return nil
	}
	if err := unix.Munmap(m.data); err != nil {
		m.f.Close()
		return fmt.Errorf("unix.Munmap: %w", err)
	}
	return m.f.Close()
}
