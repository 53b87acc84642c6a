package badger

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/textvault/core"
	"github.com/poiesic/textvault/storage"
)

// Index implements storage.VectorIndex for BadgerDB. Entries are stored
// durably: the write transaction is committed before Upsert returns, so
// the relational row written afterwards never refers to an
// unacknowledged vector.
type Index struct {
	backend *Backend
	logger  *slog.Logger
}

var _ storage.VectorIndex = (*Index)(nil)

// NewIndex creates a vector index on top of an open backend.
//
// Returns storage.VectorIndex interface to enforce abstraction.
func NewIndex(backend *Backend) (storage.VectorIndex, error) {
	if backend == nil {
		return nil, errors.New("backend required")
	}
	return &Index{
		backend: backend,
		logger:  slog.Default().With("component", "badger-index"),
	}, nil
}

// Upsert writes the entries, replacing any prior value under the same id.
func (i *Index) Upsert(ctx context.Context, entries ...*core.VectorEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if i.backend.IsClosed() {
		return storage.ErrStorageClosed
	}

	return i.backend.WithTx(func(tx *badger.Txn) error {
		for _, entry := range entries {
			key := makeVectorKey(entry.ID)
			if err := tx.Set(key, storage.MarshalVectorEntry(entry)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// Get retrieves an entry by chunk id.
func (i *Index) Get(ctx context.Context, id string) (*core.VectorEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if i.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var entry *core.VectorEntry
	err := i.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeVectorKey(id))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			entry, err = storage.UnmarshalVectorEntry(val)
			return err
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Close releases resources. The backend itself is owned by the caller.
func (i *Index) Close() error {
	return nil
}
