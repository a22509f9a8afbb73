// Copyright (c) 2024 The meridian developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package mock

import (
	"context"
	"errors"
	"sync"

	datastore "github.com/ipfs/go-datastore"
	"github.com/ipfs/go-datastore/query"
	"github.com/project-meridian/meridiand/repo"
)

var _ repo.Datastore = (*MapDatastore)(nil)

// MapDatastore is an in-memory Datastore for tests. Its transactions
// buffer writes and observe them on read (read-your-writes), matching
// the behavior of the badger-backed production store.
type MapDatastore struct {
	mtx sync.Mutex
	ds  *datastore.MapDatastore
}

func NewMapDatastore() *MapDatastore {
	return &MapDatastore{ds: datastore.NewMapDatastore()}
}

func (m *MapDatastore) Get(ctx context.Context, key datastore.Key) ([]byte, error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	return m.ds.Get(ctx, key)
}

func (m *MapDatastore) Has(ctx context.Context, key datastore.Key) (bool, error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	return m.ds.Has(ctx, key)
}

func (m *MapDatastore) GetSize(ctx context.Context, key datastore.Key) (int, error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	return m.ds.GetSize(ctx, key)
}

func (m *MapDatastore) Query(ctx context.Context, q query.Query) (query.Results, error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	return m.ds.Query(ctx, q)
}

func (m *MapDatastore) Put(ctx context.Context, key datastore.Key, value []byte) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	return m.ds.Put(ctx, key, value)
}

func (m *MapDatastore) Delete(ctx context.Context, key datastore.Key) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	return m.ds.Delete(ctx, key)
}

func (m *MapDatastore) Sync(ctx context.Context, prefix datastore.Key) error {
	return nil
}

func (m *MapDatastore) Close() error {
	return m.ds.Close()
}

func (m *MapDatastore) DiskUsage(ctx context.Context) (uint64, error) {
	return 0, nil
}

func (m *MapDatastore) Batch(ctx context.Context) (datastore.Batch, error) {
	return datastore.NewBasicBatch(m), nil
}

func (m *MapDatastore) NewTransaction(ctx context.Context, readOnly bool) (datastore.Txn, error) {
	return &txn{
		readOnly: readOnly,
		ds:       m,
		puts:     make(map[datastore.Key][]byte),
		deletes:  make(map[datastore.Key]struct{}),
	}, nil
}

type txn struct {
	readOnly bool
	ds       *MapDatastore
	puts     map[datastore.Key][]byte
	deletes  map[datastore.Key]struct{}
}

func (t *txn) Get(ctx context.Context, key datastore.Key) ([]byte, error) {
	if v, ok := t.puts[key]; ok {
		return v, nil
	}
	if _, ok := t.deletes[key]; ok {
		return nil, datastore.ErrNotFound
	}
	return t.ds.Get(ctx, key)
}

func (t *txn) Has(ctx context.Context, key datastore.Key) (bool, error) {
	if _, ok := t.puts[key]; ok {
		return true, nil
	}
	if _, ok := t.deletes[key]; ok {
		return false, nil
	}
	return t.ds.Has(ctx, key)
}

func (t *txn) GetSize(ctx context.Context, key datastore.Key) (int, error) {
	v, err := t.Get(ctx, key)
	if err != nil {
		return -1, err
	}
	return len(v), nil
}

// Query merges the transaction's buffered writes over the backing
// store and hands the combined entries to the naive query engine so
// that prefix, ordering and limits behave as on the production store.
func (t *txn) Query(ctx context.Context, q query.Query) (query.Results, error) {
	merged := make(map[datastore.Key][]byte)

	res, err := t.ds.Query(ctx, query.Query{})
	if err != nil {
		return nil, err
	}
	for r := range res.Next() {
		if r.Error != nil {
			return nil, r.Error
		}
		merged[datastore.NewKey(r.Key)] = r.Value
	}
	for k := range t.deletes {
		delete(merged, k)
	}
	for k, v := range t.puts {
		merged[k] = v
	}

	entries := make([]query.Entry, 0, len(merged))
	for k, v := range merged {
		entries = append(entries, query.Entry{Key: k.String(), Value: v, Size: len(v)})
	}
	results := query.ResultsWithEntries(q, entries)
	return query.NaiveQueryApply(q, results), nil
}

func (t *txn) Put(ctx context.Context, key datastore.Key, value []byte) error {
	if t.readOnly {
		return errors.New("transaction is read only")
	}
	delete(t.deletes, key)
	t.puts[key] = value
	return nil
}

func (t *txn) Delete(ctx context.Context, key datastore.Key) error {
	if t.readOnly {
		return errors.New("transaction is read only")
	}
	delete(t.puts, key)
	t.deletes[key] = struct{}{}
	return nil
}

func (t *txn) Commit(ctx context.Context) error {
	for k, v := range t.puts {
		if err := t.ds.Put(ctx, k, v); err != nil {
			return err
		}
	}
	for k := range t.deletes {
		if err := t.ds.Delete(ctx, k); err != nil && !errors.Is(err, datastore.ErrNotFound) {
			return err
		}
	}
	t.Discard(ctx)
	return nil
}

func (t *txn) Discard(ctx context.Context) {
	t.puts = make(map[datastore.Key][]byte)
	t.deletes = make(map[datastore.Key]struct{})
}
