// Package memory provides in-memory implementations of the storage
// interfaces. They back tests and short-lived pipelines that don't need
// durability; the function-field hooks allow injecting failures at
// specific calls.
package memory

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/poiesic/textvault/core"
	"github.com/poiesic/textvault/storage"
)

// VectorIndex is an in-memory storage.VectorIndex.
type VectorIndex struct {
	mu      sync.RWMutex
	entries map[string]*core.VectorEntry
	closed  bool

	// UpsertFunc, when set, is consulted before each stored entry.
	// Returning a non-nil error aborts the call with that error.
	UpsertFunc func(entry *core.VectorEntry) error
}

var _ storage.VectorIndex = (*VectorIndex)(nil)

// NewVectorIndex creates an empty in-memory vector index.
func NewVectorIndex() *VectorIndex {
	return &VectorIndex{
		entries: make(map[string]*core.VectorEntry),
	}
}

// Upsert writes one or more entries, keyed by entry ID.
func (i *VectorIndex) Upsert(ctx context.Context, entries ...*core.VectorEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	if i.closed {
		return storage.ErrStorageClosed
	}

	for _, entry := range entries {
		if i.UpsertFunc != nil {
			if err := i.UpsertFunc(entry); err != nil {
				return err
			}
		}
		i.entries[entry.ID] = cloneEntry(entry)
	}
	return nil
}

// Get retrieves an entry by id.
func (i *VectorIndex) Get(ctx context.Context, id string) (*core.VectorEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	i.mu.RLock()
	defer i.mu.RUnlock()

	if i.closed {
		return nil, storage.ErrStorageClosed
	}

	entry, ok := i.entries[id]
	if !ok {
		return nil, fmt.Errorf("%w: vector entry %s", storage.ErrNotFound, id)
	}
	return cloneEntry(entry), nil
}

// Len returns the number of stored entries.
func (i *VectorIndex) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.entries)
}

// Close marks the index closed. Subsequent calls fail with
// ErrStorageClosed.
func (i *VectorIndex) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.closed = true
	return nil
}

func cloneEntry(entry *core.VectorEntry) *core.VectorEntry {
	clone := &core.VectorEntry{
		ID:     entry.ID,
		Values: make([]float32, len(entry.Values)),
		Meta:   entry.Meta,
	}
	copy(clone.Values, entry.Values)
	clone.Meta.Base = maps.Clone(entry.Meta.Base)
	return clone
}
