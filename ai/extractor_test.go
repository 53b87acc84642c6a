package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlainTextExtractor(t *testing.T) {
	extractor := NewPlainTextExtractor()
	ctx := context.Background()

	t.Run("passes text through", func(t *testing.T) {
		text, err := extractor.Extract(ctx, "notes.txt", []byte("plain body\n"))
		require.NoError(t, err)
		assert.Equal(t, "plain body\n", text)
	})

	t.Run("strips leading byte-order mark", func(t *testing.T) {
		data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("body after bom")...)
		text, err := extractor.Extract(ctx, "exported.txt", data)
		require.NoError(t, err)
		assert.Equal(t, "body after bom", text)
	})

	t.Run("keeps interior feff untouched", func(t *testing.T) {
		text, err := extractor.Extract(ctx, "weird.txt", []byte("a\uFEFFb"))
		require.NoError(t, err)
		assert.Equal(t, "a\uFEFFb", text)
	})

	t.Run("rejects invalid UTF-8", func(t *testing.T) {
		_, err := extractor.Extract(ctx, "binary.bin", []byte{0xFF, 0xFE, 0x00, 0x01})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Contains(t, err.Error(), "binary.bin")
	})

	t.Run("empty payload yields empty text", func(t *testing.T) {
		text, err := extractor.Extract(ctx, "empty.txt", nil)
		require.NoError(t, err)
		assert.Empty(t, text)
	})
}
