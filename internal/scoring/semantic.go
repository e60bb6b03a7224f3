package scoring

import (
	"context"
	"fmt"
	"sync"

	"github.com/kailas-cloud/fantom/internal/domain"
)

// maxCachedQueries bounds the query embedding cache; it is cleared when full.
const maxCachedQueries = 256

// Semantic scores by cosine similarity between query and record embeddings.
// Query embeddings are cached so a scan embeds its query once.
type Semantic struct {
	embedder domain.Embedder

	mu      sync.Mutex
	queries map[string][]float32
}

// NewSemantic creates a Semantic strategy.
func NewSemantic(e domain.Embedder) *Semantic {
	return &Semantic{embedder: e, queries: make(map[string][]float32)}
}

// Score implements Strategy.
func (s *Semantic) Score(ctx context.Context, query, text string) (float64, error) {
	if text == "" {
		return 0, nil
	}
	qv, err := s.queryVector(ctx, query)
	if err != nil {
		return 0, err
	}
	res, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return 0, fmt.Errorf("embed record: %w", err)
	}
	return domain.Cosine(qv, res.Embedding), nil
}

func (s *Semantic) queryVector(ctx context.Context, query string) ([]float32, error) {
	s.mu.Lock()
	v, ok := s.queries[query]
	s.mu.Unlock()
	if ok {
		return v, nil
	}

	res, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	s.mu.Lock()
	if len(s.queries) >= maxCachedQueries {
		clear(s.queries)
	}
	s.queries[query] = res.Embedding
	s.mu.Unlock()
	return res.Embedding, nil
}
