package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/textvault/ai"
	"github.com/poiesic/textvault/chunker"
	"github.com/poiesic/textvault/core"
	"github.com/poiesic/textvault/storage"
)

// chunkState tracks a chunk's progress through the dual-write sequence.
// A chunk that fails keeps the last state it reached, which tells the
// operator exactly which write (if any) landed before the failure.
type chunkState int

const (
	statePending chunkState = iota
	stateEmbedded
	stateVectorStored
	statePersisted
	stateFailed
)

func (s chunkState) String() string {
	switch s {
	case statePending:
		return "pending"
	case stateEmbedded:
		return "embedded"
	case stateVectorStored:
		return "vector_stored"
	case statePersisted:
		return "persisted"
	case stateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Pipeline orchestrates chunking, embedding and the dual write into the
// vector index and the relational chunk store. Both writes are keyed by
// the chunk id; there is no cross-store transaction and no rollback.
type Pipeline struct {
	index       storage.VectorIndex
	chunks      storage.ChunkStore
	embedder    ai.Embedder
	extractor   ai.TextExtractor
	splitter    *chunker.Splitter
	pool        *ants.Pool
	maxAttempts int
	retryDelay  time.Duration
	timeout     time.Duration
	logger      *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithSplitter sets the text splitter.
// Default is chunker.New() (1000-rune chunks, 200-rune overlap).
func WithSplitter(splitter *chunker.Splitter) Option {
	return func(p *Pipeline) error {
		if splitter != nil {
			p.splitter = splitter
		}
		return nil
	}
}

// WithExtractor sets the file text extractor used by IngestFile.
// Default is ai.NewPlainTextExtractor().
func WithExtractor(extractor ai.TextExtractor) Option {
	return func(p *Pipeline) error {
		if extractor != nil {
			p.extractor = extractor
		}
		return nil
	}
}

// WithPoolSize sets the worker pool size for chunk processing.
// Default is 1, which processes chunks strictly in document order.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithRetry sets the retry policy for transient embedding and storage
// failures. Default is 3 attempts with a 1s base delay.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(p *Pipeline) error {
		if maxAttempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		p.maxAttempts = maxAttempts
		p.retryDelay = baseDelay
		return nil
	}
}

// WithTimeout bounds each whole-document ingestion call.
// Zero (the default) means no timeout beyond the caller's context.
func WithTimeout(timeout time.Duration) Option {
	return func(p *Pipeline) error {
		p.timeout = timeout
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	index storage.VectorIndex,
	chunks storage.ChunkStore,
	embedder ai.Embedder,
	opts ...Option,
) (*Pipeline, error) {
	if index == nil {
		return nil, ErrVectorIndexRequired
	}
	if chunks == nil {
		return nil, ErrChunkStoreRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	pool, err := ants.NewPool(1)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		index:       index,
		chunks:      chunks,
		embedder:    embedder,
		extractor:   ai.NewPlainTextExtractor(),
		splitter:    chunker.New(),
		pool:        pool,
		maxAttempts: 3,
		retryDelay:  time.Second,
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}

// processChunk runs one chunk through embed, vector upsert and the
// relational insert. On return the chunk either reached statePersisted
// or the error names the state it stalled in.
func (p *Pipeline) processChunk(ctx context.Context, chunk *core.Chunk) error {
	state := statePending

	if err := core.ValidateChunk(chunk); err != nil {
		return err
	}

	// Step 1: embed
	err := RetryWithBackoff(ctx, func() error {
		embedding, embedErr := p.embedder.EmbedText(ctx, chunk.Content)
		if embedErr != nil {
			return embedErr
		}
		chunk.Embedding = embedding
		return nil
	}, p.maxAttempts, p.retryDelay)
	if err != nil {
		return fmt.Errorf("embedding chunk %s (state %s): %w", chunk.ID, state, err)
	}
	state = stateEmbedded

	// Step 2: vector write
	entry := &core.VectorEntry{
		ID:     chunk.ID,
		Values: chunk.Embedding,
		Meta:   chunk.Meta,
	}
	err = RetryWithBackoff(ctx, func() error {
		return p.index.Upsert(ctx, entry)
	}, p.maxAttempts, p.retryDelay)
	if err != nil {
		return fmt.Errorf("storing vector for chunk %s (state %s): %w", chunk.ID, state, err)
	}
	state = stateVectorStored

	// Step 3: relational write
	record := &core.ChunkRecord{
		ID:          chunk.ID,
		DocumentID:  chunk.DocumentID,
		ContentType: chunk.ContentType,
		Content:     chunk.Content,
		ChunkIndex:  chunk.Index,
		TotalChunks: chunk.TotalChunks,
		EmbeddingID: chunk.ID,
		ContentHash: core.ContentHash(chunk.Content),
		Metadata:    chunk.Meta.Base,
	}
	if err := core.ValidateChunkRecord(record); err != nil {
		return fmt.Errorf("validating record for chunk %s: %w", chunk.ID, err)
	}

	err = RetryWithBackoff(ctx, func() error {
		_, createErr := p.chunks.CreateChunk(ctx, record)
		return createErr
	}, p.maxAttempts, p.retryDelay)
	if err != nil {
		// The vector landed but the row didn't. There is no rollback;
		// the entry stays behind as an orphan for external reconciliation.
		p.logger.Warn("orphaned vector entry: relational write failed after vector write",
			"chunkId", chunk.ID,
			"documentId", chunk.DocumentID,
			"state", state.String(),
			"error", err)
		return fmt.Errorf("persisting chunk %s (state %s): %w", chunk.ID, state, err)
	}

	p.logger.Debug("chunk persisted",
		"chunkId", chunk.ID,
		"chunkIndex", chunk.Index,
		"state", statePersisted.String())
	return nil
}

// runChunks processes the document's chunks through the worker pool.
// The first failure cancels the remaining chunks; chunks already past
// their relational write stay persisted (no rollback).
func (p *Pipeline) runChunks(ctx context.Context, chunks []*core.Chunk) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	for _, chunk := range chunks {
		mu.Lock()
		failed := firstErr != nil
		mu.Unlock()
		if failed {
			break
		}

		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()

			if runCtx.Err() != nil {
				return
			}

			if err := p.processChunk(runCtx, chunk); err != nil {
				p.logger.Error("chunk processing failed",
					"chunkId", chunk.ID,
					"chunkIndex", chunk.Index,
					"state", stateFailed.String(),
					"error", err)
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				cancel()
			}
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			if firstErr == nil {
				firstErr = submitErr
			}
			mu.Unlock()
			break
		}
	}

	wg.Wait()
	if firstErr == nil {
		firstErr = ctx.Err()
	}
	return firstErr
}
