// Copyright (c) 2024 The meridian developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package repo

import (
	"errors"
	"os"

	dgraphbadger "github.com/dgraph-io/badger"
	"github.com/ipfs/go-datastore"
	badger "github.com/ipfs/go-ds-badger"
)

// Datastore is the ordered key-value store the world state view lives
// in. Keys are byte strings ordered lexicographically; transactions are
// optimistic and a conflicting commit fails with a retryable error.
type Datastore interface {
	datastore.Datastore
	datastore.Batching
	datastore.PersistentDatastore
	datastore.TxnDatastore
}

// MeridianDatastore is the production Datastore backed by badger.
type MeridianDatastore struct {
	*badger.Datastore
}

// NewMeridianDatastore opens (creating if needed) the badger database
// in dataDir.
func NewMeridianDatastore(dataDir string) (*MeridianDatastore, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	badgerOpts := &badger.DefaultOptions
	ds, err := badger.NewDatastore(dataDir, badgerOpts)
	if err != nil {
		return nil, err
	}
	log.Debug("Opened badger datastore", log.ArgsFromMap(map[string]any{
		"dir": dataDir,
	}))
	return &MeridianDatastore{Datastore: ds}, nil
}

// IsConflict reports whether err is an optimistic-concurrency conflict
// detected at commit time. Such transactions may be retried whole.
func IsConflict(err error) bool {
	return errors.Is(err, dgraphbadger.ErrConflict)
}
