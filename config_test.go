// Copyright 2026 The go-hibp-index Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package hibpindex

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSHA1ConfigDefaults(t *testing.T) {
	cfg := SHA1Config("HIBP 2024-01")
	require.Equal(t, "SHA-1", cfg.KeyType)
	require.Equal(t, uint8(20), cfg.KeySize)
	require.Equal(t, uint8(0), cfg.PayloadSize)
	require.Nil(t, cfg.Depth)
	require.Equal(t, DefaultDepth, cfg.depth())
}

func TestNTConfigDefaults(t *testing.T) {
	cfg := NTConfig("HIBP NT 2024-01")
	require.Equal(t, "NT", cfg.KeyType)
	require.Equal(t, uint8(16), cfg.KeySize)
}

func TestConfigDepthDefaultsToDefaultDepth(t *testing.T) {
	cfg := Config{KeyType: "SHA-1", KeySize: 20}
	require.Equal(t, DefaultDepth, cfg.depth())
}

func TestConfigValidateRejectsNewlineInDescription(t *testing.T) {
	cfg := Config{KeyType: "SHA-1", Description: "bad\ndesc", KeySize: 20, Depth: DepthOf(20)}
	_, err := cfg.validate()
	require.Error(t, err)
}

func TestConfigValidateRejectsDepthOutOfRange(t *testing.T) {
	cfg := Config{KeyType: "SHA-1", KeySize: 20, Depth: DepthOf(25)}
	_, err := cfg.validate()
	require.Error(t, err)
}

func TestConfigValidateOK(t *testing.T) {
	cfg := Config{KeyType: "SHA-1", Description: "ok", KeySize: 20, Depth: DepthOf(20)}
	depth, err := cfg.validate()
	require.NoError(t, err)
	require.Equal(t, 20, int(depth))
}

func TestConfigValidateAcceptsExplicitZeroDepth(t *testing.T) {
	cfg := Config{KeyType: "SHA-1", Description: "single bucket", KeySize: 20, Depth: DepthOf(0)}
	depth, err := cfg.validate()
	require.NoError(t, err)
	require.Equal(t, 0, int(depth))
}
