package mock

import (
	"context"
	"sync/atomic"
)

// MockExtractor is a test double for ai.TextExtractor.
// It allows custom behavior injection via function fields.
type MockExtractor struct {
	// ExtractFunc is called by Extract if set.
	// If nil, returns the payload bytes as text.
	ExtractFunc func(ctx context.Context, fileName string, data []byte) (string, error)

	callCount atomic.Int64
}

// NewMockExtractor creates a mock extractor that passes payloads through as text.
func NewMockExtractor() *MockExtractor {
	return &MockExtractor{}
}

// Extract returns the payload as text, or delegates to ExtractFunc.
func (m *MockExtractor) Extract(ctx context.Context, fileName string, data []byte) (string, error) {
	m.callCount.Add(1)

	if m.ExtractFunc != nil {
		return m.ExtractFunc(ctx, fileName, data)
	}
	return string(data), nil
}

// CallCount returns the number of times Extract was called.
func (m *MockExtractor) CallCount() int {
	return int(m.callCount.Load())
}
