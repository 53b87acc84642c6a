package core

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
	"github.com/google/uuid"
)

// ContentType identifies which ingestion entry point produced a chunk.
type ContentType string

const (
	// ContentTypeText marks chunks produced from raw text ingestion.
	ContentTypeText ContentType = "text"
	// ContentTypePDF marks chunks produced from extracted document text.
	ContentTypePDF ContentType = "pdf"
)

// Valid reports whether the content type is one of the known values.
func (t ContentType) Valid() bool {
	return t == ContentTypeText || t == ContentTypePDF
}

// Document is a logical unit of content submitted for ingestion.
// It is never persisted as a single row; it exists only as the grouping
// key shared by all chunks derived from it.
type Document struct {
	DocumentID   string
	SourceText   string
	ContentType  ContentType
	BaseMetadata map[string]string // Optional caller-supplied metadata, may be nil
}

// Chunk is one contiguous span of a Document's text after splitting,
// together with its embedding and metadata.
type Chunk struct {
	ID          string
	DocumentID  string
	Index       int // Zero-based position within the document's chunk sequence
	TotalChunks int // Chunk count for this ingestion run, constant across the run
	Content     string
	ContentType ContentType
	Embedding   []float32 // Populated by the pipeline after the embedding step
	Meta        ChunkMeta
}

// ChunkMeta is the metadata stored alongside a chunk's vector.
// It carries the pipeline-injected provenance fields plus the
// caller-supplied base metadata. Content is duplicated here so that
// similarity-search results can be displayed without a second lookup.
type ChunkMeta struct {
	SourceID    string
	ChunkIndex  int
	TotalChunks int
	Type        string
	Content     string
	Base        map[string]string
}

// ChunkRecord is the relational row persisted per chunk. ID and
// EmbeddingID both carry the chunk id; their equality is the join
// contract between the relational store and the vector index.
type ChunkRecord struct {
	ID          string
	DocumentID  string
	ContentType ContentType
	Content     string
	ChunkIndex  int
	TotalChunks int
	EmbeddingID string
	ContentHash string
	Metadata    map[string]string // Caller-supplied base metadata only
	CreatedAt   time.Time
}

// VectorEntry is the value stored in the vector index, keyed by chunk id.
type VectorEntry struct {
	ID     string
	Values []float32
	Meta   ChunkMeta
}

// NewChunkID derives a globally distinguishable chunk identifier.
// The random suffix guarantees that re-ingesting the same
// (contentType, documentID, index) never collides with a prior run's
// ids; re-ingestion therefore accumulates rows rather than replacing
// them.
func NewChunkID(contentType ContentType, documentID string, index int) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s-%s-chunk-%d-%s", contentType, documentID, index, suffix)
}

// ContentHash computes a deterministic BLAKE2b digest of chunk content.
// Stored in the relational row so that an external reconciliation job
// can detect drift between the embedded text and the persisted row.
func ContentHash(text string) string {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}
