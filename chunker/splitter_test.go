package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// reconstruct rebuilds the original text from spans by dropping the
// leading overlap of every span after the first.
func reconstruct(spans []string, overlap int) string {
	var b strings.Builder
	for i, span := range spans {
		runes := []rune(span)
		if i > 0 {
			runes = runes[overlap:]
		}
		b.WriteString(string(runes))
	}
	return b.String()
}

func TestSplit_EmptyInput(t *testing.T) {
	s := New()

	assert.Nil(t, s.Split(""))
	assert.Nil(t, s.Split("   \n\t  "))
}

func TestSplit_ShortInputSingleSpan(t *testing.T) {
	s := New()
	spans := s.Split("a short paragraph")

	require.Len(t, spans, 1)
	assert.Equal(t, "a short paragraph", spans[0])
}

func TestSplit_Deterministic(t *testing.T) {
	s := New(WithMaxChunkSize(100), WithOverlap(20))
	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 30)

	first := s.Split(text)
	second := s.Split(text)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i], second[i], "span %d differs between runs", i)
	}
}

func TestSplit_CoverageAndReconstruction(t *testing.T) {
	s := New(WithMaxChunkSize(100), WithOverlap(20))
	text := strings.Repeat("Sentences vary in length here. Some are short. Others ramble on for quite a while before stopping. ", 25)

	spans := s.Split(text)
	require.Greater(t, len(spans), 1)

	for i, span := range spans {
		assert.LessOrEqual(t, len([]rune(span)), 100, "span %d exceeds max size", i)
	}

	assert.Equal(t, text, reconstruct(spans, s.Overlap()))
}

func TestSplit_OverlapSharedContext(t *testing.T) {
	s := New(WithMaxChunkSize(100), WithOverlap(20))
	text := strings.Repeat("word ", 200)

	spans := s.Split(text)
	require.Greater(t, len(spans), 1)

	for i := 1; i < len(spans); i++ {
		prev := []rune(spans[i-1])
		cur := []rune(spans[i])
		tail := string(prev[len(prev)-20:])
		head := string(cur[:20])
		assert.Equal(t, tail, head, "spans %d and %d do not share overlap", i-1, i)
	}
}

func TestSplit_PrefersSentenceBoundaries(t *testing.T) {
	s := New(WithMaxChunkSize(100), WithOverlap(10))
	text := strings.Repeat("A complete sentence ends right here. ", 20)

	spans := s.Split(text)
	require.Greater(t, len(spans), 1)

	// Every non-final span should end at a sentence boundary rather than
	// mid-word, since the text offers one inside every window.
	for i := 0; i < len(spans)-1; i++ {
		trimmed := strings.TrimRight(spans[i], " \n")
		assert.True(t, strings.HasSuffix(trimmed, "."),
			"span %d ends mid-sentence: %q", i, spans[i])
	}
}

func TestSplit_HardCutWithoutBoundaries(t *testing.T) {
	s := New(WithMaxChunkSize(50), WithOverlap(10))
	text := strings.Repeat("x", 200)

	spans := s.Split(text)
	require.Greater(t, len(spans), 1)
	for i := 0; i < len(spans)-1; i++ {
		assert.Len(t, spans[i], 50, "unbroken text should cut hard at the budget")
	}
	assert.Equal(t, text, reconstruct(spans, s.Overlap()))
}

func TestSplit_ReferencePolicy2400Chars(t *testing.T) {
	s := New()
	require.Equal(t, 1000, s.MaxChunkSize())
	require.Equal(t, 200, s.Overlap())

	text := strings.Repeat("y", 2400)
	spans := s.Split(text)

	require.Len(t, spans, 3)
	assert.Equal(t, text, reconstruct(spans, s.Overlap()))
}

func TestSplit_MultibyteSafe(t *testing.T) {
	s := New(WithMaxChunkSize(40), WithOverlap(8))
	text := strings.Repeat("日本語のテキストです。", 30)

	spans := s.Split(text)
	require.Greater(t, len(spans), 1)
	for i, span := range spans {
		assert.LessOrEqual(t, len([]rune(span)), 40, "span %d exceeds rune budget", i)
	}
	assert.Equal(t, text, reconstruct(spans, s.Overlap()))
}

func TestNew_ClampsExcessiveOverlap(t *testing.T) {
	s := New(WithMaxChunkSize(100), WithOverlap(80))
	assert.Equal(t, 25, s.Overlap())
}
