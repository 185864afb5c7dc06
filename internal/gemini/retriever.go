package gemini

import (
	"context"
	"fmt"
	"sort"
)

// Embedder produces vectors for paragraphs and queries.
type Embedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Retriever ranks document paragraphs against a query by L2 distance
// over their embeddings. The index is built per request and kept in
// memory; uploads are small enough that nothing needs to persist.
type Retriever struct {
	embedder Embedder
}

func NewRetriever(embedder Embedder) *Retriever {
	return &Retriever{embedder: embedder}
}

// TopK returns the k paragraphs nearest to the query, nearest first.
func (r *Retriever) TopK(ctx context.Context, query string, paragraphs []string, k int) ([]string, error) {
	if len(paragraphs) == 0 {
		return nil, fmt.Errorf("no paragraphs to index")
	}

	vectors, err := r.embedder.EmbedDocuments(ctx, paragraphs)
	if err != nil {
		return nil, fmt.Errorf("failed to embed paragraphs: %w", err)
	}

	queryVec, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	type scored struct {
		index    int
		distance float64
	}
	ranked := make([]scored, len(vectors))
	for i, v := range vectors {
		ranked[i] = scored{index: i, distance: l2Distance(queryVec, v)}
	}
	sort.Slice(ranked, func(i, j int) bool {
		return ranked[i].distance < ranked[j].distance
	})

	if k > len(ranked) {
		k = len(ranked)
	}
	out := make([]string, k)
	for i := 0; i < k; i++ {
		out[i] = paragraphs[ranked[i].index]
	}
	return out, nil
}

func l2Distance(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}
