// Copyright (c) 2024 The meridian developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package wsv

import (
	"context"
	"errors"

	"github.com/ipfs/go-datastore"
	"github.com/ipfs/go-datastore/query"

	"github.com/project-meridian/meridiand/repo"
)

// TxContext wraps one datastore transaction. All reads observe writes
// buffered earlier in the same transaction. Storage failures come back
// as StoreError; a plain miss is reported via the found flag instead.
type TxContext struct {
	ctx context.Context
	txn datastore.Txn
}

// NewTxContext begins a read-write transaction on ds.
func NewTxContext(ctx context.Context, ds repo.Datastore) (*TxContext, error) {
	txn, err := ds.NewTransaction(ctx, false)
	if err != nil {
		return nil, &StoreError{Op: "begin", Err: err}
	}
	return &TxContext{ctx: ctx, txn: txn}, nil
}

// NewReadTxContext begins a read-only transaction on ds.
func NewReadTxContext(ctx context.Context, ds repo.Datastore) (*TxContext, error) {
	txn, err := ds.NewTransaction(ctx, true)
	if err != nil {
		return nil, &StoreError{Op: "begin", Err: err}
	}
	return &TxContext{ctx: ctx, txn: txn}, nil
}

// Get returns the value at key. found is false on a clean miss.
func (tc *TxContext) Get(key string) (value []byte, found bool, err error) {
	v, err := tc.txn.Get(tc.ctx, datastore.NewKey(key))
	if err != nil {
		if errors.Is(err, datastore.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, &StoreError{Op: "get", Key: key, Err: err}
	}
	return v, true, nil
}

// Has reports whether key exists.
func (tc *TxContext) Has(key string) (bool, error) {
	ok, err := tc.txn.Has(tc.ctx, datastore.NewKey(key))
	if err != nil {
		return false, &StoreError{Op: "has", Key: key, Err: err}
	}
	return ok, nil
}

// Put buffers a write of value at key.
func (tc *TxContext) Put(key string, value []byte) error {
	if err := tc.txn.Put(tc.ctx, datastore.NewKey(key), value); err != nil {
		return &StoreError{Op: "put", Key: key, Err: err}
	}
	return nil
}

// PutString buffers a write of a string value at key.
func (tc *TxContext) PutString(key, value string) error {
	return tc.Put(key, []byte(value))
}

// Delete buffers a delete of key. Deleting an absent key is not an
// error.
func (tc *TxContext) Delete(key string) error {
	if err := tc.txn.Delete(tc.ctx, datastore.NewKey(key)); err != nil {
		return &StoreError{Op: "delete", Key: key, Err: err}
	}
	return nil
}

// KV is one entry yielded by a prefix scan.
type KV struct {
	Key   string
	Value []byte
}

// PrefixIterator walks the entries under one key prefix in ascending
// key order. Close must be called when done.
type PrefixIterator struct {
	results query.Results
	err     error
}

// ScanPrefix iterates all entries whose keys start with prefix, in
// ascending key order. The prefix must end at a segment boundary;
// datastore queries treat it as a path prefix.
func (tc *TxContext) ScanPrefix(prefix string) (*PrefixIterator, error) {
	res, err := tc.txn.Query(tc.ctx, query.Query{
		Prefix: prefix,
		Orders: []query.Order{query.OrderByKey{}},
	})
	if err != nil {
		return nil, &StoreError{Op: "scan", Key: prefix, Err: err}
	}
	return &PrefixIterator{results: res}, nil
}

// Next returns the next entry. ok is false when the scan is exhausted
// or failed; check Err after a false ok.
func (it *PrefixIterator) Next() (KV, bool) {
	r, ok := it.results.NextSync()
	if !ok {
		return KV{}, false
	}
	if r.Error != nil {
		it.err = &StoreError{Op: "scan", Key: r.Key, Err: r.Error}
		return KV{}, false
	}
	return KV{Key: r.Key, Value: r.Entry.Value}, true
}

// Err returns the scan failure, if any.
func (it *PrefixIterator) Err() error {
	return it.err
}

// Close releases the iterator.
func (it *PrefixIterator) Close() error {
	return it.results.Close()
}

// Commit atomically applies the buffered writes. A conflicting commit
// returns an error for which repo.IsConflict is true.
func (tc *TxContext) Commit() error {
	if err := tc.txn.Commit(tc.ctx); err != nil {
		return &StoreError{Op: "commit", Err: err}
	}
	return nil
}

// Discard drops the buffered writes. Safe to call after Commit.
func (tc *TxContext) Discard() {
	tc.txn.Discard(tc.ctx)
}
