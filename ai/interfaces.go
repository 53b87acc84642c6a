package ai

import "context"

// Embedder generates vector embeddings from text.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector has the model's fixed dimension.
	// Returns an error if the embedding generation fails; errors wrapping
	// ErrInvalidInput are permanent and must not be retried.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// TextExtractor extracts plain text from an uploaded file payload.
// Binary format parsing (PDF and friends) lives behind this interface;
// the ingestion pipeline only ever sees the extracted text.
// Implementations must be thread-safe for concurrent use.
type TextExtractor interface {
	// Extract returns the text body of the payload.
	// Returns an error wrapping ErrInvalidInput if the payload cannot be
	// interpreted as the format its file name claims.
	Extract(ctx context.Context, fileName string, data []byte) (string, error)
}

// Provider aggregates AI services for convenient initialization and
// lifecycle management. A provider creates and manages Embedder and
// TextExtractor instances, ensuring they share configuration and
// resources appropriately.
type Provider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Extractor returns the file text extraction service.
	// The returned TextExtractor is safe for concurrent use.
	Extractor() TextExtractor

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
