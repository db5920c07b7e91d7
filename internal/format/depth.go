// Copyright 2026 The go-hibp-index Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package format

import "fmt"

// MaxDepth is the largest bucket depth a reader is required to accept.
// 2^24 + 1 offsets is already 128 MiB of uint64s, a reasonable ceiling
// on reader memory use.
const MaxDepth = 24

// Depth is the number of leading key bits used to select a bucket.
// A table with depth D has 2^D buckets.
type Depth uint8

// NewDepth validates d and returns it as a Depth.
func NewDepth(d int) (Depth, error) {
	if d < 0 || d > MaxDepth {
		return 0, fmt.Errorf("depth %d out of range [0, %d]", d, MaxDepth)
	}
	return Depth(d), nil
}

// BucketCount returns 2^D, the number of buckets at this depth.
func (d Depth) BucketCount() uint32 {
	return uint32(1) << uint(d)
}

// TableEntries returns the number of offset-table entries: one sentinel
// past the last bucket in addition to one per bucket.
func (d Depth) TableEntries() uint32 {
	return d.BucketCount() + 1
}

// prefixBytes is the number of whole bytes fully covered by the prefix.
func (d Depth) prefixBytes() int {
	return int(d) / 8
}

// partialBits is the number of prefix bits that fall inside the first
// byte of the suffix (0 if the prefix ends on a byte boundary).
func (d Depth) partialBits() uint {
	return uint(d) % 8
}

// ValidForKeySize reports whether a key of keySize bytes leaves at least
// one full byte of suffix after the D-bit prefix is stripped. The wire
// format requires this: an entry with zero suffix bytes couldn't be
// ordered or searched.
func (d Depth) ValidForKeySize(keySize uint8) bool {
	if keySize == 0 {
		return false
	}
	return d.prefixBytes()+1 <= int(keySize)
}

// EntryWidth returns the on-disk width, in bytes, of a stored entry:
// the masked suffix plus the payload.
func (d Depth) EntryWidth(keySize, payloadSize uint8) int {
	return int(keySize) - d.prefixBytes() + int(payloadSize)
}

// PrefixIndex extracts the D-bit, MSB-first prefix of key as a bucket
// index in [0, 2^D). key must be at least prefixBytes()+1 bytes long
// whenever D is not a multiple of 8 (callers pass full, fixed-width keys,
// so this always holds for valid input).
func (d Depth) PrefixIndex(key []byte) uint32 {
	if d == 0 {
		return 0
	}
	full := d.prefixBytes()
	var index uint32
	for i := 0; i < full; i++ {
		index = (index << 8) | uint32(key[i])
	}
	if bits := d.partialBits(); bits > 0 {
		index = (index << bits) | uint32(key[full]>>(8-bits))
	}
	return index
}

// SuffixOf returns a freshly allocated copy of key's stored suffix: the
// bytes after the D-bit prefix, with the partial leading byte's prefix
// bits masked to zero. This is exactly what the builder writes to disk
// and what the reader compares stored entries against.
func (d Depth) SuffixOf(key []byte) []byte {
	full := d.prefixBytes()
	suffix := append([]byte(nil), key[full:]...)
	if bits := d.partialBits(); bits > 0 {
		suffix[0] &= 0xff >> bits
	}
	return suffix
}

// Recombine reconstructs a full key from a bucket index and that
// bucket's stored suffix. It is the inverse of PrefixIndex + SuffixOf,
// used by tests to check the "idempotence of bit extraction" property
// and available to callers that already know which bucket a suffix came
// from.
func (d Depth) Recombine(bucketIndex uint32, suffix []byte, keySize uint8) []byte {
	key := make([]byte, keySize)
	full := d.prefixBytes()
	bits := d.partialBits()
	shifted := bucketIndex
	if bits > 0 {
		shifted >>= bits
	}
	for i := full - 1; i >= 0; i-- {
		key[i] = byte(shifted)
		shifted >>= 8
	}
	copy(key[full:], suffix)
	if bits > 0 {
		// the low `bits` bits of bucketIndex are the partial byte's high bits.
		lowBits := byte(bucketIndex&(1<<bits-1)) << (8 - bits)
		key[full] = (key[full] & (0xff >> bits)) | lowBits
	}
	return key
}
