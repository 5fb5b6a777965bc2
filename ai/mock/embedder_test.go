package mock

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbedderVectorsAreUnitNorm(t *testing.T) {
	embedder := NewMockEmbedder()

	vector, err := embedder.EmbedText(context.Background(), "some text to embed")
	require.NoError(t, err)
	require.Len(t, vector, 384)

	var dot float32
	for _, v := range vector {
		dot += v * v
	}
	// Self-similarity under a dot-product scan must be 1 for the default
	// retrieval thresholds to be meaningful.
	assert.InDelta(t, 1.0, dot, 1e-4)
}

func TestEmbedderIsDeterministic(t *testing.T) {
	ctx := context.Background()
	embedder := NewMockEmbedder()

	first, err := embedder.EmbedText(ctx, "same text")
	require.NoError(t, err)
	second, err := embedder.EmbedText(ctx, "same text")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	other, err := embedder.EmbedText(ctx, "different text")
	require.NoError(t, err)
	assert.NotEqual(t, first, other)

	batch, err := embedder.EmbedTexts(ctx, []string{"same text", "different text"})
	require.NoError(t, err)
	require.Len(t, batch, 2)
	assert.Equal(t, first, batch[0])
	assert.Equal(t, other, batch[1])
}
