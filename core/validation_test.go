package core

import (
	"errors"
	"testing"
)

func TestValidateDocument(t *testing.T) {
	tests := []struct {
		name    string
		doc     *Document
		wantErr error
	}{
		{
			name: "valid document",
			doc: &Document{
				DocumentID:  "doc-1",
				SourceText:  "hello world",
				ContentType: ContentTypeText,
			},
			wantErr: nil,
		},
		{
			name: "valid document with metadata",
			doc: &Document{
				DocumentID:   "doc-1",
				SourceText:   "hello world",
				ContentType:  ContentTypePDF,
				BaseMetadata: map[string]string{"source": "unit-test"},
			},
			wantErr: nil,
		},
		{
			name:    "nil document",
			doc:     nil,
			wantErr: ErrInvalidDocument,
		},
		{
			name: "missing document id",
			doc: &Document{
				SourceText:  "hello world",
				ContentType: ContentTypeText,
			},
			wantErr: ErrEmptyDocumentID,
		},
		{
			name: "empty source text",
			doc: &Document{
				DocumentID:  "doc-1",
				ContentType: ContentTypeText,
			},
			wantErr: ErrEmptySourceText,
		},
		{
			name: "whitespace-only source text",
			doc: &Document{
				DocumentID:  "doc-1",
				SourceText:  "  \n\t  ",
				ContentType: ContentTypeText,
			},
			wantErr: ErrEmptySourceText,
		},
		{
			name: "unknown content type",
			doc: &Document{
				DocumentID:  "doc-1",
				SourceText:  "hello world",
				ContentType: ContentType("spreadsheet"),
			},
			wantErr: ErrInvalidContentType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocument(tt.doc)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateDocument() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateDocument() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateChunk(t *testing.T) {
	valid := func() *Chunk {
		return &Chunk{
			ID:          "text-doc-1-chunk-0-abcd1234",
			DocumentID:  "doc-1",
			Index:       0,
			TotalChunks: 2,
			Content:     "chunk content",
			ContentType: ContentTypeText,
			Meta: ChunkMeta{
				SourceID:    "doc-1",
				ChunkIndex:  0,
				TotalChunks: 2,
				Type:        "text",
				Content:     "chunk content",
			},
		}
	}

	t.Run("valid chunk", func(t *testing.T) {
		if err := ValidateChunk(valid()); err != nil {
			t.Errorf("ValidateChunk() unexpected error: %v", err)
		}
	})

	t.Run("missing id", func(t *testing.T) {
		c := valid()
		c.ID = ""
		if err := ValidateChunk(c); !errors.Is(err, ErrEmptyChunkID) {
			t.Errorf("ValidateChunk() error = %v, want %v", err, ErrEmptyChunkID)
		}
	})

	t.Run("index out of range", func(t *testing.T) {
		c := valid()
		c.Index = 2
		if err := ValidateChunk(c); !errors.Is(err, ErrChunkIndexOutOfRange) {
			t.Errorf("ValidateChunk() error = %v, want %v", err, ErrChunkIndexOutOfRange)
		}
	})

	t.Run("diverged metadata content", func(t *testing.T) {
		c := valid()
		c.Meta.Content = "something else"
		if err := ValidateChunk(c); !errors.Is(err, ErrInvalidChunk) {
			t.Errorf("ValidateChunk() error = %v, want %v", err, ErrInvalidChunk)
		}
	})
}

func TestValidateChunkRecord(t *testing.T) {
	t.Run("join key mismatch", func(t *testing.T) {
		record := &ChunkRecord{
			ID:          "text-doc-1-chunk-0-abcd1234",
			EmbeddingID: "text-doc-1-chunk-0-ffff0000",
			ChunkIndex:  0,
			TotalChunks: 1,
		}
		if err := ValidateChunkRecord(record); !errors.Is(err, ErrJoinKeyMismatch) {
			t.Errorf("ValidateChunkRecord() error = %v, want %v", err, ErrJoinKeyMismatch)
		}
	})

	t.Run("valid record", func(t *testing.T) {
		record := &ChunkRecord{
			ID:          "text-doc-1-chunk-0-abcd1234",
			EmbeddingID: "text-doc-1-chunk-0-abcd1234",
			ChunkIndex:  0,
			TotalChunks: 1,
		}
		if err := ValidateChunkRecord(record); err != nil {
			t.Errorf("ValidateChunkRecord() unexpected error: %v", err)
		}
	})
}
