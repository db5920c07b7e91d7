// Copyright 2026 The go-hibp-index Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package hibpindex

import (
	"fmt"
	"strings"

	"github.com/stbuehler/go-hibp-index/internal/format"
)

// DefaultDepth is the bucket-prefix depth a Config uses when Depth is
// left unset.
const DefaultDepth = 20

// Config describes the table a Builder will produce: its key type, a
// free-text description, and the fixed widths of keys and payloads.
type Config struct {
	// KeyType is a short label identifying the kind of key stored, e.g.
	// "SHA-1" or "NT". It is recorded verbatim in the header.
	KeyType string

	// Description is free text recorded in the header, e.g. a corpus
	// name and generation date. It must not contain a newline.
	Description string

	// KeySize is the fixed width, in bytes, of every key.
	KeySize uint8

	// PayloadSize is the fixed width, in bytes, of every payload. Zero
	// is valid for membership-only tables.
	PayloadSize uint8

	// Depth is the number of leading key bits used to bucket entries.
	// nil means DefaultDepth; a non-nil Depth is used exactly as given,
	// including a pointer to 0 for a single-bucket table. Use DepthOf to
	// set it from a literal.
	Depth *int
}

// DepthOf returns a pointer to d, for setting Config.Depth from a
// literal.
func DepthOf(d int) *int {
	return &d
}

// SHA1Config returns a Config for the HIBP SHA-1 password-hash corpus:
// 20-byte keys, no payload, bucketed at DefaultDepth.
func SHA1Config(description string) Config {
	return Config{
		KeyType:     "SHA-1",
		Description: description,
		KeySize:     20,
		PayloadSize: 0,
	}
}

// NTConfig returns a Config for the HIBP NT password-hash corpus: 16-byte
// keys, no payload, bucketed at DefaultDepth.
func NTConfig(description string) Config {
	return Config{
		KeyType:     "NT",
		Description: description,
		KeySize:     16,
		PayloadSize: 0,
	}
}

// depth resolves the effective Depth, substituting DefaultDepth when
// Depth is unset.
func (c Config) depth() int {
	if c.Depth == nil {
		return DefaultDepth
	}
	return *c.Depth
}

// validate checks the Config for internal consistency, returning
// ErrUnsupportedDepth for an out-of-range depth and ErrBadHeader for any
// other problem, wrapping the specific detail.
func (c Config) validate() (format.Depth, error) {
	if c.KeySize == 0 {
		return 0, fmt.Errorf("%w: key size must be nonzero", ErrBadHeader)
	}
	if strings.Contains(c.Description, "\n") {
		return 0, fmt.Errorf("%w: description must not contain a newline", ErrBadHeader)
	}
	if strings.Contains(c.KeyType, "\n") {
		return 0, fmt.Errorf("%w: key type must not contain a newline", ErrBadHeader)
	}

	d, err := format.NewDepth(c.depth())
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnsupportedDepth, err)
	}
	if !d.ValidForKeySize(c.KeySize) {
		return 0, fmt.Errorf("%w: depth %d leaves no suffix byte for key size %d", ErrBadHeader, d, c.KeySize)
	}
	return d, nil
}
