package health

import (
	"context"

	"github.com/kailas-cloud/fantom/internal/domain/users"
)

// DBPinger checks store availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// UsersLoader reads the per-user algorithm document.
type UsersLoader interface {
	Load() (users.Config, error)
}

// EmbeddingChecker checks embedding provider availability.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}
