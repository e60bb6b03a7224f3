// Package scoring is the relevance oracle used by the ranked scanner.
//
// A Registry maps algorithm names to strategies. Each strategy scores one
// record at a time against the query; records are opaque to the caller and
// strategies work on the record's text (see record.Record.Text).
package scoring

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/fantom/internal/domain"
	"github.com/kailas-cloud/fantom/internal/domain/record"
	"github.com/kailas-cloud/fantom/internal/domain/search/algorithm"
)

// Scorer computes the relevance of one record for a query.
type Scorer interface {
	Score(ctx context.Context, query string, rec record.Record, algo algorithm.Algorithm) (float64, error)
}

// Strategy scores a record's text against a query.
type Strategy interface {
	Score(ctx context.Context, query, text string) (float64, error)
}

// StrategyFunc adapts a plain function to Strategy.
type StrategyFunc func(ctx context.Context, query, text string) (float64, error)

// Score calls f.
func (f StrategyFunc) Score(ctx context.Context, query, text string) (float64, error) {
	return f(ctx, query, text)
}

// Registry dispatches to a Strategy by algorithm name.
// It is read-only after construction and safe for concurrent use.
type Registry struct {
	strategies map[algorithm.Algorithm]Strategy
}

var _ Scorer = (*Registry)(nil)

// Option configures a Registry.
type Option func(*Registry)

// WithStrategy registers or replaces the strategy for algo.
func WithStrategy(algo algorithm.Algorithm, s Strategy) Option {
	return func(r *Registry) { r.strategies[algo] = s }
}

// WithEmbedder enables the semantic algorithm.
func WithEmbedder(e domain.Embedder) Option {
	return func(r *Registry) {
		if e != nil {
			r.strategies[algorithm.Semantic] = NewSemantic(e)
		}
	}
}

// NewRegistry builds the lexical strategies and applies opts.
func NewRegistry(opts ...Option) (*Registry, error) {
	tok, err := NewTokenizer()
	if err != nil {
		return nil, fmt.Errorf("build tokenizer: %w", err)
	}
	r := &Registry{
		strategies: map[algorithm.Algorithm]Strategy{
			algorithm.BM25:    NewBM25(tok, BM25Params{}),
			algorithm.Fuzzy:   NewFuzzy(tok, 0),
			algorithm.ColBERT: NewColBERT(tok),
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Supports reports whether algo has a registered strategy.
func (r *Registry) Supports(algo algorithm.Algorithm) bool {
	_, ok := r.strategies[algo]
	return ok
}

// Score implements Scorer.
func (r *Registry) Score(
	ctx context.Context, query string, rec record.Record, algo algorithm.Algorithm,
) (float64, error) {
	s, ok := r.strategies[algo]
	if !ok {
		if algo.IsKnown() {
			return 0, fmt.Errorf("%w: %s", domain.ErrAlgorithmUnavailable, algo)
		}
		return 0, fmt.Errorf("%w: %q", domain.ErrUnknownAlgorithm, algo)
	}
	return s.Score(ctx, query, rec.Text())
}
