// Copyright (c) 2024 The meridian developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package wsv

import (
	"github.com/project-meridian/meridiand/blockstore"
	"github.com/project-meridian/meridiand/repo"
	"github.com/project-meridian/meridiand/repo/mock"
)

const DefaultMaxCommitRetries = 5

// DefaultOptions returns a configure option that fills in the default
// settings. You will almost certainly want to override the datastore.
func DefaultOptions() Option {
	return func(cfg *config) error {
		cfg.datastore = mock.NewMapDatastore()
		cfg.maxCommitRetries = DefaultMaxCommitRetries
		return nil
	}
}

// Option is a configuration option function for the world state view.
type Option func(cfg *config) error

// Datastore is an implementation of the repo.Datastore interface.
//
// This option is required.
func Datastore(ds repo.Datastore) Option {
	return func(cfg *config) error {
		cfg.datastore = ds
		return nil
	}
}

// BlockStore sets the block store used to persist applied blocks.
//
// If this is not provided one will be created over the datastore.
func BlockStore(bs *blockstore.BlockStore) Option {
	return func(cfg *config) error {
		cfg.blockstore = bs
		return nil
	}
}

// MaxCommitRetries bounds how many times a block application is
// re-executed after an optimistic-concurrency conflict.
func MaxCommitRetries(n uint64) Option {
	return func(cfg *config) error {
		cfg.maxCommitRetries = n
		return nil
	}
}

type config struct {
	datastore        repo.Datastore
	blockstore       *blockstore.BlockStore
	maxCommitRetries uint64
}

func (cfg *config) validate() error {
	if cfg == nil {
		return AssertError("config cannot be nil")
	}
	if cfg.datastore == nil {
		return AssertError("datastore cannot be nil")
	}
	return nil
}
