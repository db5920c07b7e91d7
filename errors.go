// Copyright 2026 The go-hibp-index Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package hibpindex

import "github.com/stbuehler/go-hibp-index/internal/format"

// Sentinel errors a Builder or Table can return. Match against these with
// errors.Is. I/O errors from the underlying file are never wrapped in one
// of these; they are returned either unchanged or wrapped with %w context
// (e.g. "bufio.Flush: ..."), so errors.Is and errors.As still reach them.
var (
	ErrInputDecode        = format.ErrInputDecode
	ErrInputOrder         = format.ErrInputOrder
	ErrBadHeader          = format.ErrBadHeader
	ErrUnsupportedDepth   = format.ErrUnsupportedDepth
	ErrCorruptOffsetTable = format.ErrCorruptOffsetTable
	ErrWrongKeySize       = format.ErrWrongKeySize
)
