// Copyright (c) 2024 The meridian developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package wsv

import (
	"sort"
	"strings"
	"testing"

	"github.com/project-meridian/meridiand/types"
	"github.com/stretchr/testify/assert"
)

func TestMakeKey(t *testing.T) {
	assert.Equal(t, "/w/D/wonderland", keyDomain("wonderland"))
	assert.Equal(t, "/w/D/wonderland/a/alice/O/q", keyQuorum("wonderland", "alice"))
	assert.Equal(t, "/w/D/wonderland/x/coin", keyAsset("wonderland", "coin"))
	assert.Equal(t, "/w/r/admin", keyRole("admin"))
	assert.Equal(t, "/w/i/MaxDescriptionSize", keySetting("MaxDescriptionSize"))
	assert.Equal(t, "/w/n/p/Z", keyPeersCount(false))
	assert.Equal(t, "/w/n/l/Z", keyPeersCount(true))
	assert.Equal(t, "/w/n/s/Q", keyTopBlock())

	assert.Panics(t, func() { makeKey("a", "", "b") })
	assert.Panics(t, func() { makeKey("a", "x/y") })
	assert.Panics(t, func() { makeKey("a", ".", "b") })
	assert.Panics(t, func() { makeKey("a", "..") })
}

func TestSignatoryKeyIsLowercased(t *testing.T) {
	k := keySignatory("wonderland", "alice", "ABCDEF01")
	assert.Equal(t, "/w/D/wonderland/a/alice/S/abcdef01", k)
}

func TestDecodeSegment(t *testing.T) {
	prefix := keyAccountRolesPrefix("wonderland", "alice")
	key := keyAccountRole("wonderland", "alice", "admin")
	assert.True(t, strings.HasPrefix(key, prefix))
	assert.Equal(t, "admin", decodeSegment(key, len(prefix)))
}

func TestPaddedKeysSortNumerically(t *testing.T) {
	account := types.NewAccountID("alice", "wonderland")

	keys := []string{
		keyTxByPosition(account, 100, 0, 3000),
		keyTxByPosition(account, 2, 5, 2000),
		keyTxByPosition(account, 2, 11, 2100),
		keyTxByPosition(account, 30, 1, 2500),
	}
	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)

	// Lexicographic order over padded segments matches (height, index)
	// order.
	assert.Equal(t, []string{keys[1], keys[2], keys[3], keys[0]}, sorted)
}

func TestTxIndexKeyPrefixes(t *testing.T) {
	account := types.NewAccountID("alice", "wonderland")
	asset := types.NewAssetID("coin", "wonderland")

	posKey := keyTxByPosition(account, 7, 2, 99)
	assert.True(t, strings.HasPrefix(posKey, keyTxByPositionPrefix(account)))

	tsKey := keyTxByTimestamp(account, 99, 7, 2)
	assert.True(t, strings.HasPrefix(tsKey, keyTxByTimestampPrefix(account)))

	astKey := keyTxByAssetPosition(account, asset, 7, 2)
	assert.True(t, strings.HasPrefix(astKey, keyTxByAssetPositionPrefix(account, asset)))

	// The three sub-keyspaces never collide.
	assert.False(t, strings.HasPrefix(posKey, keyTxByTimestampPrefix(account)))
	assert.False(t, strings.HasPrefix(astKey, keyTxByPositionPrefix(account)))
}

func TestPadUint(t *testing.T) {
	assert.Equal(t, "0000000000000042", padUint(42, heightKeyWidth))
	assert.Equal(t, "00000000000000001234567890", padUint(1234567890, 26))
}
