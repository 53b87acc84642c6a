// Package chunker splits text into overlapping spans sized for an
// embedding model, preferring natural boundaries over hard cuts.
package chunker

import "strings"

// DefaultMaxChunkSize is the default span length in characters.
const DefaultMaxChunkSize = 1000

// DefaultOverlap is the default shared context between consecutive spans.
const DefaultOverlap = 200

// Splitter produces ordered, overlapping spans from a text body.
// Splitting is deterministic: identical input and policy always yield
// identical boundaries.
type Splitter struct {
	maxChunkSize int
	overlap      int
}

// Option configures a Splitter.
type Option func(*Splitter)

// WithMaxChunkSize sets the maximum span length in characters.
func WithMaxChunkSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.maxChunkSize = size
		}
	}
}

// WithOverlap sets the overlap between consecutive spans in characters.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// New creates a Splitter with the given options.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		maxChunkSize: DefaultMaxChunkSize,
		overlap:      DefaultOverlap,
	}

	for _, opt := range opts {
		opt(s)
	}

	// Overlap must stay under half the chunk size so that every span
	// advances past its predecessor even after a boundary cut.
	if s.overlap*2 >= s.maxChunkSize {
		s.overlap = s.maxChunkSize / 4
	}

	return s
}

// MaxChunkSize returns the configured maximum span length.
func (s *Splitter) MaxChunkSize() int {
	return s.maxChunkSize
}

// Overlap returns the configured overlap length.
func (s *Splitter) Overlap() int {
	return s.overlap
}

// Split produces the ordered spans for text. Each span is at most
// MaxChunkSize characters; consecutive spans share exactly Overlap
// characters of context, so dropping the first Overlap characters of
// every span after the first reconstructs the input. Empty or
// whitespace-only input yields no spans.
func (s *Splitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	runes := []rune(text)
	total := len(runes)
	if total <= s.maxChunkSize {
		return []string{text}
	}

	spans := make([]string, 0, total/(s.maxChunkSize-s.overlap)+1)
	start := 0
	for {
		end := start + s.maxChunkSize
		if end >= total {
			spans = append(spans, string(runes[start:total]))
			return spans
		}

		cut := s.cutPoint(runes, start, end)
		spans = append(spans, string(runes[start:cut]))
		start = cut - s.overlap
	}
}

// cutPoint picks the boundary for a span covering runes[start:end].
// It prefers, in order: paragraph break, sentence end, line break, word
// boundary. Only boundaries in the back half of the window qualify, so a
// pathological text cannot shrink spans below half the budget; when no
// natural boundary exists there, the span is cut hard at end.
func (s *Splitter) cutPoint(runes []rune, start, end int) int {
	floor := start + (end-start)/2

	// Paragraph break: cut just past a blank line.
	for i := end; i > floor; i-- {
		if i-2 >= start && runes[i-1] == '\n' && runes[i-2] == '\n' {
			return i
		}
	}

	// Sentence end: cut just past the whitespace following . ! or ?
	for i := end; i > floor; i-- {
		if i-2 >= start && isSpace(runes[i-1]) && isSentenceEnd(runes[i-2]) {
			return i
		}
	}

	// Line break.
	for i := end; i > floor; i-- {
		if runes[i-1] == '\n' {
			return i
		}
	}

	// Word boundary.
	for i := end; i > floor; i-- {
		if runes[i-1] == ' ' {
			return i
		}
	}

	return end
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\n' || r == '\t' || r == '\r'
}
