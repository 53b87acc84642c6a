package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/poiesic/textvault/core"
)

// TextRequest submits raw text for ingestion.
type TextRequest struct {
	Text       string
	DocumentID string
	Metadata   map[string]string // Optional metadata attached to every chunk
}

// FileRequest submits a file payload for ingestion.
type FileRequest struct {
	FileName     string
	Data         []byte
	DocumentID   string // Optional; defaults to the file's base name
	MetadataJSON string // Optional JSON object of string values
}

// Result summarizes one completed ingestion run.
type Result struct {
	DocumentID string
	Chunks     int
	ChunkIDs   []string // Ordered by chunk index
}

// IngestText chunks, embeds and stores raw text under the given
// document id. On failure, chunks persisted before the failing one stay
// stored; nothing written for the failing chunk or later ones.
func (p *Pipeline) IngestText(ctx context.Context, req *TextRequest) (*Result, error) {
	if req == nil || strings.TrimSpace(req.Text) == "" {
		return nil, ErrEmptyText
	}
	if req.DocumentID == "" {
		return nil, ErrMissingDocumentID
	}

	doc := &core.Document{
		DocumentID:   req.DocumentID,
		SourceText:   req.Text,
		ContentType:  core.ContentTypeText,
		BaseMetadata: req.Metadata,
	}
	return p.ingestDocument(ctx, doc)
}

// IngestFile extracts text from a file payload and ingests it through
// the same chunk sequence as raw text. The document id defaults to the
// file's base name when the request leaves it empty.
func (p *Pipeline) IngestFile(ctx context.Context, req *FileRequest) (*Result, error) {
	if req == nil || req.FileName == "" {
		return nil, ErrMissingFileName
	}
	if len(req.Data) == 0 {
		return nil, ErrEmptyFile
	}

	text, err := p.extractor.Extract(ctx, req.FileName, req.Data)
	if err != nil {
		return nil, fmt.Errorf("extracting text from %s: %w", req.FileName, err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: %s", ErrEmptyText, req.FileName)
	}

	documentID := req.DocumentID
	if documentID == "" {
		documentID = filepath.Base(req.FileName)
	}

	contentType := core.ContentTypeText
	if strings.EqualFold(filepath.Ext(req.FileName), ".pdf") {
		contentType = core.ContentTypePDF
	}

	doc := &core.Document{
		DocumentID:   documentID,
		SourceText:   text,
		ContentType:  contentType,
		BaseMetadata: p.decodeMetadata(req.MetadataJSON),
	}
	return p.ingestDocument(ctx, doc)
}

// ingestDocument is the shared chunk-embed-store sequence behind both
// entry points.
func (p *Pipeline) ingestDocument(ctx context.Context, doc *core.Document) (*Result, error) {
	if err := core.ValidateDocument(doc); err != nil {
		return nil, err
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	spans := p.splitter.Split(doc.SourceText)
	if len(spans) == 0 {
		return nil, ErrEmptyText
	}

	chunks := p.buildChunks(doc, spans)

	p.logger.Info("ingesting document",
		"documentId", doc.DocumentID,
		"contentType", doc.ContentType,
		"chunks", len(chunks))

	if err := p.runChunks(ctx, chunks); err != nil {
		return nil, fmt.Errorf("ingesting document %s: %w", doc.DocumentID, err)
	}

	ids := make([]string, len(chunks))
	for i, chunk := range chunks {
		ids[i] = chunk.ID
	}

	return &Result{
		DocumentID: doc.DocumentID,
		Chunks:     len(chunks),
		ChunkIDs:   ids,
	}, nil
}

// buildChunks assigns ids and metadata to the split spans. All
// pipeline-level state is fixed here, before any external call runs.
func (p *Pipeline) buildChunks(doc *core.Document, spans []string) []*core.Chunk {
	total := len(spans)
	chunks := make([]*core.Chunk, total)
	for i, span := range spans {
		chunks[i] = &core.Chunk{
			ID:          core.NewChunkID(doc.ContentType, doc.DocumentID, i),
			DocumentID:  doc.DocumentID,
			Index:       i,
			TotalChunks: total,
			Content:     span,
			ContentType: doc.ContentType,
			Meta: core.ChunkMeta{
				SourceID:    doc.DocumentID,
				ChunkIndex:  i,
				TotalChunks: total,
				Type:        string(doc.ContentType),
				Content:     span,
				Base:        doc.BaseMetadata,
			},
		}
	}
	return chunks
}

// decodeMetadata parses the optional metadata JSON. A malformed payload
// degrades to empty metadata with a warning rather than failing the
// whole ingestion.
func (p *Pipeline) decodeMetadata(raw string) map[string]string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var meta map[string]string
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		p.logger.Warn("ignoring malformed metadata JSON", "error", err)
		return nil
	}
	return meta
}
