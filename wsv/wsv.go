// Copyright (c) 2024 The meridian developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package wsv

import (
	"context"
	"sync"

	"github.com/cenkalti/backoff/v4"

	"github.com/project-meridian/meridiand/blockstore"
	"github.com/project-meridian/meridiand/repo"
	"github.com/project-meridian/meridiand/types"
	"github.com/project-meridian/meridiand/types/blocks"
)

// WorldStateView is the ledger state engine. It applies already-agreed
// blocks to persistent state, maintains the secondary transaction
// indices, and answers queries through its QueryExecutor.
//
// Block application is single-writer: ApplyBlock holds the state lock
// for the duration of the block. Queries run concurrently against
// their own snapshots.
type WorldStateView struct {
	ds       repo.Datastore
	blocks   *blockstore.BlockStore
	executor *CommandExecutor
	queries  *QueryExecutor
	indexer  *Indexer

	maxCommitRetries uint64
	stateLock        sync.Mutex
}

// NewWorldStateView returns a WorldStateView configured with the given
// options.
func NewWorldStateView(opts ...Option) (*WorldStateView, error) {
	var cfg config
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.blockstore == nil {
		cfg.blockstore = blockstore.NewBlockStore(cfg.datastore)
	}
	if err := initSchemaVersion(cfg.datastore); err != nil {
		return nil, err
	}

	return &WorldStateView{
		ds:               cfg.datastore,
		blocks:           cfg.blockstore,
		executor:         NewCommandExecutor(),
		queries:          NewQueryExecutor(cfg.datastore, cfg.blockstore),
		indexer:          NewIndexer(cfg.datastore),
		maxCommitRetries: cfg.maxCommitRetries,
	}, nil
}

// schemaVersion is written under the version key when a fresh database
// is initialized. Bump it when the key layout changes incompatibly.
const schemaVersion = "1"

func initSchemaVersion(ds repo.Datastore) error {
	tc, err := NewTxContext(context.Background(), ds)
	if err != nil {
		return err
	}
	defer tc.Discard()
	_, found, err := tc.Get(keySchemaVersion())
	if err != nil {
		return err
	}
	if found {
		return nil
	}
	if err := tc.PutString(keySchemaVersion(), schemaVersion); err != nil {
		return err
	}
	return tc.Commit()
}

// Executor returns the command executor for callers that manage their
// own transactions.
func (w *WorldStateView) Executor() *CommandExecutor {
	return w.executor
}

// Queries returns the query executor.
func (w *WorldStateView) Queries() *QueryExecutor {
	return w.queries
}

// TopBlock returns the height and hash of the latest applied block.
func (w *WorldStateView) TopBlock(ctx context.Context) (TopBlockInfo, bool, error) {
	tc, err := NewReadTxContext(ctx, w.ds)
	if err != nil {
		return TopBlockInfo{}, false, err
	}
	defer tc.Discard()
	return forTopBlock(tc)
}

// ApplyBlock executes all of blk's commands sequentially inside one
// transaction, commits, persists the block and flushes the secondary
// indices. Any command failure discards the whole block's changes and
// surfaces the command's error. A commit-time conflict with a
// concurrent transaction retries the whole block with exponential
// backoff.
//
// With doValidation false (genesis, replay of validated blocks)
// permission checks are skipped.
func (w *WorldStateView) ApplyBlock(ctx context.Context, blk *blocks.Block, doValidation bool) error {
	w.stateLock.Lock()
	defer w.stateLock.Unlock()

	eb := backoff.NewExponentialBackOff()
	eb.MaxElapsedTime = 0

	op := func() error {
		err := w.applyBlock(ctx, blk, doValidation)
		if err != nil && !repo.IsConflict(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	if err := backoff.Retry(op, backoff.WithMaxRetries(backoff.WithContext(eb, ctx), w.maxCommitRetries)); err != nil {
		return err
	}

	if err := w.blocks.Put(ctx, blk); err != nil {
		return err
	}
	w.indexBlock(blk)
	if err := w.indexer.Flush(ctx); err != nil {
		return err
	}

	log.Debug("Applied block", log.ArgsFromMap(map[string]any{
		"height": blk.Height,
		"hash":   blk.Hash.String(),
		"txs":    len(blk.Transactions),
	}))
	return nil
}

func (w *WorldStateView) applyBlock(ctx context.Context, blk *blocks.Block, doValidation bool) error {
	tc, err := NewTxContext(ctx, w.ds)
	if err != nil {
		return err
	}
	defer tc.Discard()

	for _, tx := range blk.Transactions {
		for i, env := range tx.Commands {
			cmd := env.Command()
			if cmd == nil {
				return errorf(CodeNotConfigured, "transaction %s command %d is empty", tx.Hash, i)
			}
			if err := w.executor.Execute(tc, cmd, tx.Creator, tx.Hash, i, doValidation); err != nil {
				return err
			}
		}
	}

	if err := putTopBlock(tc, TopBlockInfo{Height: blk.Height, Hash: blk.Hash}); err != nil {
		return err
	}
	return tc.Commit()
}

// indexBlock buffers the secondary-index entries for every transaction
// of an applied block.
func (w *WorldStateView) indexBlock(blk *blocks.Block) {
	for i, tx := range blk.Transactions {
		index := uint64(i)
		w.indexer.TxPosition(tx.Creator, tx.Hash, blk.Height, index, tx.CreatedTime)
		w.indexer.TxByAccountTimestamp(tx.Creator, tx.Hash, tx.CreatedTime, blk.Height, index)
		w.indexer.TxStatus(tx.Hash, TxStatusRecord{
			Status:      types.TxCommitted,
			Height:      blk.Height,
			Index:       index,
			CreatedTime: tx.CreatedTime,
		})

		for _, env := range tx.Commands {
			switch c := env.Command().(type) {
			case *types.AddAssetQuantity:
				w.indexer.TxByAccountAssetPosition(tx.Creator, c.AssetID, tx.Hash, blk.Height, index)
			case *types.SubtractAssetQuantity:
				w.indexer.TxByAccountAssetPosition(tx.Creator, c.AssetID, tx.Hash, blk.Height, index)
			case *types.TransferAsset:
				w.indexer.TxByAccountAssetPosition(c.SrcAccountID, c.AssetID, tx.Hash, blk.Height, index)
				w.indexer.TxByAccountAssetPosition(c.DestAccountID, c.AssetID, tx.Hash, blk.Height, index)
				if c.SrcAccountID != tx.Creator {
					w.indexer.TxByAccountPosition(c.SrcAccountID, tx.Hash, blk.Height, index, tx.CreatedTime)
					w.indexer.TxByAccountTimestamp(c.SrcAccountID, tx.Hash, tx.CreatedTime, blk.Height, index)
				}
				if c.DestAccountID != tx.Creator {
					w.indexer.TxByAccountPosition(c.DestAccountID, tx.Hash, blk.Height, index, tx.CreatedTime)
					w.indexer.TxByAccountTimestamp(c.DestAccountID, tx.Hash, tx.CreatedTime, blk.Height, index)
				}
			}
		}
	}

	for _, hash := range blk.RejectedHashes {
		w.indexer.TxStatus(hash, TxStatusRecord{
			Status: types.TxRejected,
			Height: blk.Height,
		})
	}
}
