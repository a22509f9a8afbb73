// Copyright (c) 2024 The meridian developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package wsv

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/ipfs/go-datastore"

	"github.com/project-meridian/meridiand/repo"
	"github.com/project-meridian/meridiand/types"
)

// TxStatusRecord is the decoded value of one transaction status entry.
type TxStatusRecord struct {
	Status      types.TxStatus
	Height      uint64
	Index       uint64
	CreatedTime uint64
}

func (r TxStatusRecord) encode() string {
	return r.Status.String() + valueSeparator +
		formatUintValue(r.Height) + valueSeparator +
		formatUintValue(r.Index) + valueSeparator +
		formatUintValue(r.CreatedTime)
}

func decodeTxStatusRecord(s string) (TxStatusRecord, error) {
	parts := splitValue(s, 4)
	if parts == nil {
		return TxStatusRecord{}, errorf(CodeOperationFailed, "malformed transaction status %q", s)
	}
	status, err := types.TxStatusFromString(parts[0])
	if err != nil {
		return TxStatusRecord{}, errorf(CodeOperationFailed, "malformed transaction status %q", s)
	}
	height, err1 := parseUintValue(parts[1], "status height")
	index, err2 := parseUintValue(parts[2], "status index")
	ts, err3 := parseUintValue(parts[3], "status timestamp")
	for _, e := range []error{err1, err2, err3} {
		if e != nil {
			return TxStatusRecord{}, e
		}
	}
	return TxStatusRecord{Status: status, Height: height, Index: index, CreatedTime: ts}, nil
}

func splitValue(s string, n int) []string {
	parts := strings.SplitN(s, valueSeparator, n)
	if len(parts) != n {
		return nil
	}
	return parts
}

// Indexer buffers secondary-index entries for the transactions of one
// committed block and writes them in a single batch on Flush. Entries
// overwrite any previous value at the same key, so re-indexing a block
// during recovery is idempotent.
type Indexer struct {
	mtx sync.Mutex
	ds  repo.Datastore

	positions  map[string]string
	statuses   map[string]string
	byAccount  map[string]string
	byAsset    map[string]string
	timestamps map[string]string
}

func NewIndexer(ds repo.Datastore) *Indexer {
	return &Indexer{
		ds:         ds,
		positions:  make(map[string]string),
		statuses:   make(map[string]string),
		byAccount:  make(map[string]string),
		byAsset:    make(map[string]string),
		timestamps: make(map[string]string),
	}
}

// TxPosition records the creator-scoped position entry for a
// transaction and bumps the account's and the global transaction
// counters at flush time.
func (ix *Indexer) TxPosition(creator types.AccountID, hash types.ID, height, index, ts uint64) {
	ix.mtx.Lock()
	defer ix.mtx.Unlock()
	ix.positions[keyTxByPosition(creator, height, index, ts)] = hash.String()
}

// TxStatus records the committed/rejected status of a transaction
// together with its position.
func (ix *Indexer) TxStatus(hash types.ID, rec TxStatusRecord) {
	ix.mtx.Lock()
	defer ix.mtx.Unlock()
	ix.statuses[keyTxStatus(hash)] = rec.encode()
}

// TxByAccountPosition records a position entry for an account touched
// by the transaction other than its creator (transfer counterparty).
func (ix *Indexer) TxByAccountPosition(account types.AccountID, hash types.ID, height, index, ts uint64) {
	ix.mtx.Lock()
	defer ix.mtx.Unlock()
	ix.byAccount[keyTxByPosition(account, height, index, ts)] = hash.String()
}

// TxByAccountAssetPosition records an (account, asset) position entry
// for asset-moving transactions.
func (ix *Indexer) TxByAccountAssetPosition(account types.AccountID, asset types.AssetID, hash types.ID, height, index uint64) {
	ix.mtx.Lock()
	defer ix.mtx.Unlock()
	ix.byAsset[keyTxByAssetPosition(account, asset, height, index)] = hash.String()
}

// TxByAccountTimestamp records the timestamp-ordered entry for a
// transaction.
func (ix *Indexer) TxByAccountTimestamp(account types.AccountID, hash types.ID, ts, height, index uint64) {
	ix.mtx.Lock()
	defer ix.mtx.Unlock()
	ix.timestamps[keyTxByTimestamp(account, ts, height, index)] = hash.String()
}

// Flush writes all buffered entries in one batch, updates the
// transaction counters for every account that gained position entries,
// and clears the buffers. With nothing buffered it is a no-op.
func (ix *Indexer) Flush(ctx context.Context) error {
	ix.mtx.Lock()
	defer ix.mtx.Unlock()

	total := len(ix.positions) + len(ix.statuses) + len(ix.byAccount) +
		len(ix.byAsset) + len(ix.timestamps)
	if total == 0 {
		return nil
	}

	batch, err := ix.ds.Batch(ctx)
	if err != nil {
		return &StoreError{Op: "batch", Err: err}
	}

	// Position entries drive the per-account counters. Only entries
	// that are genuinely new count; overwrites during recovery do not.
	perAccount := make(map[types.AccountID]uint64)
	var newTotal uint64
	txAccountsPrefix := makeKey(repo.TagWsv, repo.TagTransactions, repo.TagAccounts)
	for _, family := range []map[string]string{ix.positions, ix.byAccount} {
		for key, value := range family {
			had, err := ix.ds.Has(ctx, datastore.NewKey(key))
			if err != nil {
				return &StoreError{Op: "has", Key: key, Err: err}
			}
			if !had {
				account := types.AccountID(decodeSegment(key, len(txAccountsPrefix)))
				perAccount[account]++
				newTotal++
			}
			if err := batch.Put(ctx, datastore.NewKey(key), []byte(value)); err != nil {
				return &StoreError{Op: "put", Key: key, Err: err}
			}
		}
	}
	for _, family := range []map[string]string{ix.statuses, ix.byAsset, ix.timestamps} {
		for key, value := range family {
			if err := batch.Put(ctx, datastore.NewKey(key), []byte(value)); err != nil {
				return &StoreError{Op: "put", Key: key, Err: err}
			}
		}
	}

	for account, added := range perAccount {
		if err := ix.bumpCounter(ctx, batch, keyTxsTotalCount(account), added); err != nil {
			return err
		}
	}
	if newTotal > 0 {
		if err := ix.bumpCounter(ctx, batch, keyAllTxsTotalCount(), newTotal); err != nil {
			return err
		}
	}

	if err := batch.Commit(ctx); err != nil {
		return &StoreError{Op: "commit", Err: err}
	}

	ix.positions = make(map[string]string)
	ix.statuses = make(map[string]string)
	ix.byAccount = make(map[string]string)
	ix.byAsset = make(map[string]string)
	ix.timestamps = make(map[string]string)
	return nil
}

func (ix *Indexer) bumpCounter(ctx context.Context, batch datastore.Batch, key string, added uint64) error {
	var current uint64
	v, err := ix.ds.Get(ctx, datastore.NewKey(key))
	if err == nil {
		current, err = parseUintValue(string(v), "counter")
		if err != nil {
			return err
		}
	} else if !errors.Is(err, datastore.ErrNotFound) {
		return &StoreError{Op: "get", Key: key, Err: err}
	}
	if err := batch.Put(ctx, datastore.NewKey(key), []byte(formatUintValue(current+added))); err != nil {
		return &StoreError{Op: "put", Key: key, Err: err}
	}
	return nil
}
