// Copyright 2026 The go-hibp-index Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package format

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
)

// Magic is the first header line of every hash-index-v0 file.
const Magic = "hash-index-v0"

// HeaderLimit is the maximum number of bytes a header (magic line through
// the trailing payload-size byte, inclusive) may occupy.
const HeaderLimit = 4096

// Header holds the parsed contents of a hash-index-v0 file header.
type Header struct {
	KeyType     string
	Description string
	KeySize     uint8
	PayloadSize uint8
}

// Validate checks constraints the header bytes alone can't express but
// that a well-formed index must satisfy: a nonzero key size, a
// description that won't desynchronize the line-oriented header, and a
// depth that still leaves at least one byte of suffix.
func (h Header) Validate(depth Depth) error {
	if h.KeySize == 0 {
		return fmt.Errorf("key size must be nonzero")
	}
	if strings.Contains(h.Description, "\n") {
		return fmt.Errorf("description must not contain a newline: %q", h.Description)
	}
	if !depth.ValidForKeySize(h.KeySize) {
		return fmt.Errorf("depth %d leaves no suffix byte for key size %d", depth, h.KeySize)
	}
	return nil
}

// WriteHeader writes h to w and returns the number of bytes written.
func WriteHeader(w io.Writer, h Header) (int64, error) {
	var buf bytes.Buffer
	buf.WriteString(Magic)
	buf.WriteByte('\n')
	buf.WriteString(h.KeyType)
	buf.WriteByte('\n')
	buf.WriteString(h.Description)
	buf.WriteByte('\n')
	buf.WriteByte(h.KeySize)
	buf.WriteByte(h.PayloadSize)

	if buf.Len() > HeaderLimit {
		return 0, fmt.Errorf("header of %d bytes exceeds the %d byte limit", buf.Len(), HeaderLimit)
	}

	n, err := w.Write(buf.Bytes())
	return int64(n), err
}

// ParseHeader reads a hash-index-v0 header from r, enforcing the magic
// line and the HeaderLimit.
func ParseHeader(r io.Reader) (Header, error) {
	lr := &io.LimitedReader{R: r, N: HeaderLimit}
	br := bufio.NewReader(lr)

	magic, err := readLine(br)
	if err != nil {
		return Header{}, fmt.Errorf("reading magic line: %w", err)
	}
	if magic != Magic {
		return Header{}, fmt.Errorf("bad magic %q, expected %q", magic, Magic)
	}

	keyType, err := readLine(br)
	if err != nil {
		return Header{}, fmt.Errorf("reading key-type line: %w", err)
	}

	description, err := readLine(br)
	if err != nil {
		return Header{}, fmt.Errorf("reading description line: %w", err)
	}

	var sizes [2]byte
	if _, err := io.ReadFull(br, sizes[:]); err != nil {
		return Header{}, fmt.Errorf("reading key/payload size bytes: %w", err)
	}

	return Header{
		KeyType:     keyType,
		Description: description,
		KeySize:     sizes[0],
		PayloadSize: sizes[1],
	}, nil
}

func readLine(br *bufio.Reader) (string, error) {
	line, err := br.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(line, "\n"), nil
}
