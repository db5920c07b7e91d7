// Copyright 2026 The go-hibp-index Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package format defines the on-disk byte layout of a hash-index-v0 file
// and the bit arithmetic used to map a key to a bucket. It does no I/O of
// its own beyond reading and writing the byte slices it is handed; the
// builder and table packages own the file handles.
//
// Layout:
//
//	+----------------------------------------------------+
//	| "hash-index-v0\n"                                  |  magic line
//	| key-type, e.g. "SHA-1\n"                            |
//	| free-text description, e.g. "HIBP 2024-01\n"        |
//	| K (1 byte)                                          |  key size
//	| P (1 byte)                                          |  payload size
//	+----------------------------------------------------+
//	| bucket 0 entries (sorted by suffix)                 |
//	| bucket 1 entries                                    |
//	| ...                                                 |
//	| bucket 2^D-1 entries                                |
//	+----------------------------------------------------+
//	| deflate(offset table: D, 2^D+1 big-endian uint64s)  |
//	+----------------------------------------------------+
//	| length of the deflated offset table (4 byte BE)     |
//	+----------------------------------------------------+
//
// Each stored entry is (K - floor(D/8)) suffix bytes, with the high
// D mod 8 bits of the first suffix byte masked to zero, followed by P
// payload bytes. A key's bucket is the D leading bits of the key,
// taken most-significant-bit first.
package format
