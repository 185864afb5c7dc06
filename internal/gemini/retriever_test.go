package gemini

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedEmbedder maps each known text to a fixed vector.
type fixedEmbedder struct {
	vectors map[string][]float32
	query   []float32
}

func (e *fixedEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = e.vectors[t]
	}
	return out, nil
}

func (e *fixedEmbedder) EmbedQuery(_ context.Context, _ string) ([]float32, error) {
	return e.query, nil
}

func TestTopKRanksByDistance(t *testing.T) {
	embedder := &fixedEmbedder{
		vectors: map[string][]float32{
			"far":     {10, 10},
			"near":    {1, 1},
			"nearest": {0, 1},
		},
		query: []float32{0, 0},
	}
	r := NewRetriever(embedder)

	got, err := r.TopK(context.Background(), "q", []string{"far", "near", "nearest"}, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"nearest", "near"}, got)
}

func TestTopKClampsK(t *testing.T) {
	embedder := &fixedEmbedder{
		vectors: map[string][]float32{"only": {1}},
		query:   []float32{0},
	}
	r := NewRetriever(embedder)

	got, err := r.TopK(context.Background(), "q", []string{"only"}, 15)
	require.NoError(t, err)
	assert.Equal(t, []string{"only"}, got)
}

func TestTopKEmptyInput(t *testing.T) {
	r := NewRetriever(&fixedEmbedder{})
	_, err := r.TopK(context.Background(), "q", nil, 5)
	assert.Error(t, err)
}
