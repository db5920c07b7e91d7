// Copyright 2026 The go-hibp-index Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package hibpindex builds and reads bucketed hash-index files: a
// compact, memory-mappable format for fast membership lookup over very
// large sets of fixed-length keys, such as the Have I Been Pwned
// SHA-1 and NT password-hash corpora.
//
// A Builder writes a new index in a single streaming pass over keys
// supplied in non-decreasing order:
//
//	b, err := hibpindex.CreateFile("pwned-sha1.idx", hibpindex.SHA1Config("HIBP 2024-01"))
//	...
//	err = b.AddEntry(key, nil)
//	...
//	err = b.Finish()
//
// A Table opens an existing index for lookups, memory-mapping the file
// for the lifetime of the Table:
//
//	t, err := hibpindex.Open("pwned-sha1.idx")
//	defer t.Close()
//	found, _, err := t.Lookup(key)
package hibpindex
