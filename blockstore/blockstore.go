// Copyright (c) 2024 The meridian developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package blockstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/ipfs/go-datastore"

	"github.com/project-meridian/meridiand/repo"
	"github.com/project-meridian/meridiand/types/blocks"
)

// ErrBlockNotFound is returned when no block exists at the requested
// height.
var ErrBlockNotFound = errors.New("block not found")

const heightKeyWidth = 16

// BlockStore persists whole blocks keyed by height in the store
// partition of the keyspace. Blocks are CBOR encoded. The store is
// append-only; a block at an existing height is overwritten, which
// only happens when re-applying the same block during recovery.
type BlockStore struct {
	ds repo.Datastore
}

func NewBlockStore(ds repo.Datastore) *BlockStore {
	return &BlockStore{ds: ds}
}

func blockKey(height uint64) datastore.Key {
	return datastore.NewKey(fmt.Sprintf("%s%s%s%0*d",
		repo.KeyDelimiter, repo.TagStore, repo.KeyDelimiter, heightKeyWidth, height))
}

// Put persists blk at its height.
func (bs *BlockStore) Put(ctx context.Context, blk *blocks.Block) error {
	ser, err := cbor.Marshal(blk)
	if err != nil {
		return err
	}
	return bs.ds.Put(ctx, blockKey(blk.Height), ser)
}

// ByHeight loads the block at height.
func (bs *BlockStore) ByHeight(ctx context.Context, height uint64) (*blocks.Block, error) {
	ser, err := bs.ds.Get(ctx, blockKey(height))
	if err != nil {
		if errors.Is(err, datastore.ErrNotFound) {
			return nil, ErrBlockNotFound
		}
		return nil, err
	}
	var blk blocks.Block
	if err := cbor.Unmarshal(ser, &blk); err != nil {
		return nil, err
	}
	return &blk, nil
}

// Transaction returns the transaction with the given hash from the
// block at height, or nil if the block does not contain it.
func (bs *BlockStore) Transaction(ctx context.Context, height uint64, hash [32]byte) (*blocks.Transaction, error) {
	blk, err := bs.ByHeight(ctx, height)
	if err != nil {
		return nil, err
	}
	for _, tx := range blk.Transactions {
		if tx.Hash == hash {
			return tx, nil
		}
	}
	return nil, nil
}
