// Copyright 2026 The go-hibp-index Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package main

import (
	"bufio"
	"crypto/rand"
	"encoding/hex"
	"log"
	"os"
	"sort"
)

const (
	keyCount = 1_000_000
	keySize  = 20 // SHA-1 width; set to 16 for NT-style test data
)

func main() {
	keys := make([][]byte, keyCount)
	for i := range keys {
		k := make([]byte, keySize)
		if _, err := rand.Read(k); err != nil {
			log.Fatalf("rand.Read: %v", err)
		}
		keys[i] = k
		if (i+1)%1_000_000 == 0 {
			log.Printf("generated %d of %d keys", i+1, keyCount)
		}
	}

	sort.Slice(keys, func(i, j int) bool {
		for b := 0; b < keySize; b++ {
			if keys[i][b] != keys[j][b] {
				return keys[i][b] < keys[j][b]
			}
		}
		return false
	})

	w := bufio.NewWriterSize(os.Stdout, 4*1024*1024)
	defer w.Flush()
	for _, k := range keys {
		w.WriteString(hex.EncodeToString(k))
		w.WriteByte('\n')
	}
}
