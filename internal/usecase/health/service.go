package health

import (
	"context"

	"github.com/kailas-cloud/fantom/internal/db"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates an optional component is failing.
	Degraded Status = "degraded"
	// Unhealthy indicates the store is unreachable; no scan can succeed.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Component names in Report.Checks.
const (
	CheckDatabase  = "database"
	CheckUsers     = "users_config"
	CheckEmbedding = "embedding"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	db        DBPinger
	users     UsersLoader
	embedding EmbeddingChecker
}

// ConnectorPinger pings through a short-lived connection from a Connector.
type ConnectorPinger struct {
	Connector db.Connector
}

// Ping implements DBPinger.
func (p ConnectorPinger) Ping(ctx context.Context) error {
	return db.Ping(ctx, p.Connector)
}

// New creates a Service. users and embedding can be nil.
func New(pinger DBPinger, users UsersLoader, embedding EmbeddingChecker) *Service {
	return &Service{db: pinger, users: users, embedding: embedding}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if err := s.db.Ping(ctx); err != nil {
		checks[CheckDatabase] = CheckError
	} else {
		checks[CheckDatabase] = CheckOK
	}

	if s.users != nil {
		if _, err := s.users.Load(); err != nil {
			checks[CheckUsers] = CheckError
		} else {
			checks[CheckUsers] = CheckOK
		}
	}

	if s.embedding != nil {
		if err := s.embedding.HealthCheck(ctx); err != nil {
			checks[CheckEmbedding] = CheckError
		} else {
			checks[CheckEmbedding] = CheckOK
		}
	}

	status := Healthy
	if checks[CheckDatabase] == CheckError {
		status = Unhealthy
	} else {
		for _, v := range checks {
			if v == CheckError {
				status = Degraded
				break
			}
		}
	}

	return Report{Status: status, Checks: checks}
}
