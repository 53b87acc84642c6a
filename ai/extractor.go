package ai

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"
)

// PlainTextExtractor implements TextExtractor for payloads that are
// already text (txt, md, log files). Binary formats need a dedicated
// extractor implementation injected in its place.
type PlainTextExtractor struct{}

var _ TextExtractor = (*PlainTextExtractor)(nil)

// NewPlainTextExtractor creates an extractor for plain-text payloads.
func NewPlainTextExtractor() *PlainTextExtractor {
	return &PlainTextExtractor{}
}

// Extract interprets the payload as UTF-8 text. A byte-order mark is
// stripped; anything that is not valid UTF-8 is rejected as invalid
// input rather than embedded as mojibake.
func (e *PlainTextExtractor) Extract(ctx context.Context, fileName string, data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s is not valid UTF-8 text", ErrInvalidInput, fileName)
	}

	text := strings.TrimPrefix(string(data), "\uFEFF")
	return text, nil
}
