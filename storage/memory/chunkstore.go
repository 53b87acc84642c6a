package memory

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/poiesic/textvault/core"
	"github.com/poiesic/textvault/storage"
)

// ChunkStore is an in-memory storage.ChunkStore.
type ChunkStore struct {
	mu      sync.RWMutex
	records map[string]*core.ChunkRecord
	closed  bool

	// CreateChunkFunc, when set, is consulted before each insert.
	// Returning a non-nil error aborts the call with that error.
	CreateChunkFunc func(record *core.ChunkRecord) error
}

var _ storage.ChunkStore = (*ChunkStore)(nil)

// NewChunkStore creates an empty in-memory chunk store.
func NewChunkStore() *ChunkStore {
	return &ChunkStore{
		records: make(map[string]*core.ChunkRecord),
	}
}

// CreateChunk inserts one chunk row, keyed by record ID.
func (s *ChunkStore) CreateChunk(ctx context.Context, record *core.ChunkRecord) (*core.ChunkRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, storage.ErrStorageClosed
	}

	if s.CreateChunkFunc != nil {
		if err := s.CreateChunkFunc(record); err != nil {
			return nil, err
		}
	}

	if _, exists := s.records[record.ID]; exists {
		return nil, fmt.Errorf("%w: chunk %s", storage.ErrDuplicateKey, record.ID)
	}

	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	s.records[record.ID] = cloneRecord(record)
	return record, nil
}

// GetChunk retrieves a single chunk row by id.
func (s *ChunkStore) GetChunk(ctx context.Context, id string) (*core.ChunkRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, storage.ErrStorageClosed
	}

	record, ok := s.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: chunk %s", storage.ErrNotFound, id)
	}
	return cloneRecord(record), nil
}

// GetChunksByDocument retrieves all chunk rows for a document id,
// ordered by chunk index.
func (s *ChunkStore) GetChunksByDocument(ctx context.Context, documentID string) ([]*core.ChunkRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, storage.ErrStorageClosed
	}

	var records []*core.ChunkRecord
	for _, record := range s.records {
		if record.DocumentID == documentID {
			records = append(records, cloneRecord(record))
		}
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].ChunkIndex != records[j].ChunkIndex {
			return records[i].ChunkIndex < records[j].ChunkIndex
		}
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})
	return records, nil
}

// CountChunks returns the number of stored rows for a document id.
func (s *ChunkStore) CountChunks(ctx context.Context, documentID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0, storage.ErrStorageClosed
	}

	count := 0
	for _, record := range s.records {
		if record.DocumentID == documentID {
			count++
		}
	}
	return count, nil
}

// Len returns the total number of stored rows.
func (s *ChunkStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Close marks the store closed. Subsequent calls fail with
// ErrStorageClosed.
func (s *ChunkStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func cloneRecord(record *core.ChunkRecord) *core.ChunkRecord {
	clone := *record
	clone.Metadata = maps.Clone(record.Metadata)
	return &clone
}
