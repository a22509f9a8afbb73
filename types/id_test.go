// Copyright (c) 2024 The meridian developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIDFromString(t *testing.T) {
	id := NewIDFromData([]byte("some transaction"))
	id2, err := NewIDFromString(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, id2)

	_, err = NewIDFromString("not hex")
	assert.Error(t, err)
}

func TestAccountID(t *testing.T) {
	id := NewAccountID("alice", "wonderland")
	assert.Equal(t, AccountID("alice@wonderland"), id)
	assert.Equal(t, "alice", id.Name())
	assert.Equal(t, "wonderland", id.Domain())

	name, domain := id.Split()
	assert.Equal(t, "alice", name)
	assert.Equal(t, "wonderland", domain)
}

func TestAssetID(t *testing.T) {
	id := NewAssetID("coin", "wonderland")
	assert.Equal(t, AssetID("coin#wonderland"), id)
	assert.Equal(t, "coin", id.Name())
	assert.Equal(t, "wonderland", id.Domain())
}

func TestTxStatus(t *testing.T) {
	assert.Equal(t, "TRUE", TxCommitted.String())
	assert.Equal(t, "FALSE", TxRejected.String())

	s, err := TxStatusFromString("TRUE")
	require.NoError(t, err)
	assert.Equal(t, TxCommitted, s)

	s, err = TxStatusFromString("FALSE")
	require.NoError(t, err)
	assert.Equal(t, TxRejected, s)

	_, err = TxStatusFromString("MAYBE")
	assert.Error(t, err)
}
