// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"fmt"
	"strings"
)

// ValidateDocument validates a Document according to domain rules.
//
// Validation rules:
//   - DocumentID must not be empty
//   - SourceText must not be empty or whitespace-only
//   - ContentType must be a known value
//
// NOT validated:
//   - BaseMetadata (nil and empty are both fine; metadata is supplementary)
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if doc.DocumentID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyDocumentID)
	}

	if strings.TrimSpace(doc.SourceText) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptySourceText)
	}

	if !doc.ContentType.Valid() {
		return fmt.Errorf("%w: %w: %q", ErrInvalidDocument, ErrInvalidContentType, doc.ContentType)
	}

	return nil
}

// ValidateChunk validates a Chunk before it enters the dual-write sequence.
//
// Validation rules:
//   - ID must not be empty
//   - Index must be within 0..TotalChunks-1
//   - Content must not be empty
//   - Content must equal the copy duplicated into Meta
//
// NOT validated:
//   - Embedding (empty until the embedding step runs)
func ValidateChunk(chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}

	if chunk.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyChunkID)
	}

	if chunk.Index < 0 || chunk.Index >= chunk.TotalChunks {
		return fmt.Errorf("%w: %w: index %d of %d", ErrInvalidChunk, ErrChunkIndexOutOfRange, chunk.Index, chunk.TotalChunks)
	}

	if chunk.Content == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptySourceText)
	}

	if chunk.Content != chunk.Meta.Content {
		return fmt.Errorf("%w: metadata content copy diverged for %s", ErrInvalidChunk, chunk.ID)
	}

	return nil
}

// ValidateChunkRecord validates the relational row derived from a chunk.
// The EmbeddingID equality check is the join contract with the vector index.
func ValidateChunkRecord(record *ChunkRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidChunk)
	}

	if record.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyChunkID)
	}

	if record.EmbeddingID != record.ID {
		return fmt.Errorf("%w: %w: row %s points at %s", ErrInvalidChunk, ErrJoinKeyMismatch, record.ID, record.EmbeddingID)
	}

	if record.ChunkIndex < 0 || record.ChunkIndex >= record.TotalChunks {
		return fmt.Errorf("%w: %w: index %d of %d", ErrInvalidChunk, ErrChunkIndexOutOfRange, record.ChunkIndex, record.TotalChunks)
	}

	return nil
}
