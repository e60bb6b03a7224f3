package search

import (
	"context"

	"github.com/kailas-cloud/fantom/internal/domain/record"
	"github.com/kailas-cloud/fantom/internal/domain/search/algorithm"
	"github.com/kailas-cloud/fantom/internal/domain/users"
)

// UsersLoader reads the per-user algorithm document.
type UsersLoader interface {
	Load() (users.Config, error)
}

// Scorer computes the relevance of one record for a query.
type Scorer interface {
	Score(ctx context.Context, query string, rec record.Record, algo algorithm.Algorithm) (float64, error)
}
