package storage

import (
	"context"

	"github.com/poiesic/textvault/core"
)

// VectorIndex stores embeddings keyed by chunk id. The interface is
// deliberately narrow: the pipeline only ever upserts and re-reads by
// key; similarity search is the concern of whatever serves queries, not
// of the write path.
// Implementations must be thread-safe and support concurrent access.
type VectorIndex interface {
	// Upsert writes one or more entries, keyed by entry ID.
	// The write must be durable (acknowledged by the backend) when
	// Upsert returns, because the relational row written next refers to
	// the entry as already stored.
	Upsert(ctx context.Context, entries ...*core.VectorEntry) error

	// Get retrieves an entry by its chunk id.
	// Returns ErrNotFound if no entry exists under the key.
	Get(ctx context.Context, id string) (*core.VectorEntry, error)

	// Close closes the index and releases resources.
	Close() error
}

// ChunkStore persists the relational provenance row for each chunk.
// Rows are write-once: there is no update path, and deletion is an
// external concern.
// Implementations must be thread-safe and support concurrent access.
type ChunkStore interface {
	// CreateChunk inserts one chunk row, keyed by record ID.
	// Sets CreatedAt if not already set and returns the stored record.
	// Returns ErrDuplicateKey if a row with the same ID already exists.
	CreateChunk(ctx context.Context, record *core.ChunkRecord) (*core.ChunkRecord, error)

	// GetChunk retrieves a single chunk row by ID.
	// Returns ErrNotFound if the row doesn't exist.
	GetChunk(ctx context.Context, id string) (*core.ChunkRecord, error)

	// GetChunksByDocument retrieves all chunk rows sharing a document id,
	// ordered by chunk index. Multiple ingestion runs of the same
	// document id all appear here; rows are never deduplicated.
	GetChunksByDocument(ctx context.Context, documentID string) ([]*core.ChunkRecord, error)

	// CountChunks returns the number of stored rows for a document id.
	CountChunks(ctx context.Context, documentID string) (int, error)

	// Close closes the store and releases resources.
	Close() error
}
