// Copyright (c) 2024 The meridian developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package repo

import (
	"context"
	"errors"
	"testing"

	dgraphbadger "github.com/dgraph-io/badger"
	"github.com/ipfs/go-datastore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMeridianDatastore(t *testing.T) {
	ds, err := NewMeridianDatastore(t.TempDir())
	require.NoError(t, err)
	defer ds.Close()

	ctx := context.Background()
	key := datastore.NewKey("/w/i/testkey")
	require.NoError(t, ds.Put(ctx, key, []byte("value")))

	v, err := ds.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), v)
}

func TestIsConflict(t *testing.T) {
	assert.True(t, IsConflict(dgraphbadger.ErrConflict))
	assert.False(t, IsConflict(errors.New("disk full")))
	assert.False(t, IsConflict(nil))
}
