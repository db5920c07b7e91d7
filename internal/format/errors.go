// Copyright 2026 The go-hibp-index Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package format

import "errors"

// Sentinel errors identifying the failure classes a reader or builder can
// report. Callers should match against these with errors.Is; wrapping
// preserves the underlying detail for logs.
var (
	// ErrInputDecode means a builder input line could not be decoded as hex.
	ErrInputDecode = errors.New("hibp-index: input line is not valid hex")

	// ErrInputOrder means a builder input line was smaller than a
	// previously seen key.
	ErrInputOrder = errors.New("hibp-index: input is not sorted")

	// ErrBadHeader means the file's header could not be parsed or failed
	// validation.
	ErrBadHeader = errors.New("hibp-index: bad header")

	// ErrUnsupportedDepth means the file's depth byte is out of the
	// range a reader is required to support.
	ErrUnsupportedDepth = errors.New("hibp-index: unsupported depth")

	// ErrCorruptOffsetTable means the offset table failed to decompress
	// or violated the monotonicity/size invariants a well-formed table
	// must satisfy.
	ErrCorruptOffsetTable = errors.New("hibp-index: corrupt offset table")

	// ErrWrongKeySize means a lookup key's length did not match the
	// file's key size.
	ErrWrongKeySize = errors.New("hibp-index: wrong key size")
)
