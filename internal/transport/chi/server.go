package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/fantom/internal/domain"
	"github.com/kailas-cloud/fantom/internal/domain/search/request"
	"github.com/kailas-cloud/fantom/internal/domain/search/result"
	"github.com/kailas-cloud/fantom/internal/domain/users"
	healthuc "github.com/kailas-cloud/fantom/internal/usecase/health"
	usageuc "github.com/kailas-cloud/fantom/internal/usecase/usage"
)

// StatusClientClosedRequest is written when the client went away mid-request.
const StatusClientClosedRequest = 499

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// SearchService runs ranked searches.
type SearchService interface {
	Search(ctx context.Context, req request.Request) (result.Envelope, error)
}

// UsersLoader reads the per-user algorithm document.
type UsersLoader interface {
	Load() (users.Config, error)
}

// HealthChecker aggregates component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// UsageReporter reports embedding token usage.
type UsageReporter interface {
	GetReport(period usageuc.Period) usageuc.Report
}

// Server serves the HTTP API.
type Server struct {
	search        SearchService
	users         UsersLoader
	health        HealthChecker
	usage         UsageReporter
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(search SearchService, users UsersLoader, health HealthChecker, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		search: search,
		users:  users,
		health: health,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, ErrorResponseCodeInvalidQuery),
		sentinelHandler(domain.ErrConfigLoad, http.StatusInternalServerError, ErrorResponseCodeConfigError),
		sentinelHandler(context.Canceled, StatusClientClosedRequest, ErrorResponseCodeCanceled),
		sentinelHandler(context.DeadlineExceeded, http.StatusGatewayTimeout, ErrorResponseCodeTimeout),
		sentinelHandler(domain.ErrConnection, http.StatusServiceUnavailable, ErrorResponseCodeStoreUnavailable),
	}
	return s
}

// WithUsage enables GET /usage.
func (s *Server) WithUsage(u UsageReporter) *Server {
	s.usage = u
	return s
}

// Routes registers the API on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/search", s.Search)
	r.Get("/users", s.ListUsers)
	if s.usage != nil {
		r.Get("/usage", s.GetUsage)
	}
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// Search handles GET /search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	params, err := bindSearchParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, err.Error())
		return
	}

	req, err := request.New(params.Q, deref(params.UserID), deref(params.Algorithm),
		deref(params.Pattern), derefSlice(params.Tags))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	env, err := s.search.Search(r.Context(), req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, env)
}

// ListUsers handles GET /users.
func (s *Server) ListUsers(w http.ResponseWriter, _ *http.Request) {
	cfg, err := s.users.Load()
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	entries := cfg.Entries()
	resp := UsersResponse{Users: make([]UserAlgorithm, len(entries))}
	for i, e := range entries {
		resp.Users[i] = UserAlgorithm{UserID: e.UserID, Algorithm: string(e.Algorithm)}
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetUsage handles GET /usage?period=day|month.
func (s *Server) GetUsage(w http.ResponseWriter, r *http.Request) {
	var raw string
	if err := runtime.BindQueryParameter("form", true, false, "period", r.URL.Query(), &raw); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, err.Error())
		return
	}
	period, err := usageuc.ParsePeriod(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, err.Error())
		return
	}

	rep := s.usage.GetReport(period)
	writeJSON(w, http.StatusOK, UsageResponse{
		Period:      string(rep.Period),
		PeriodStart: rep.Start.UnixMilli(),
		PeriodEnd:   rep.End.UnixMilli(),
		Budget: UsageBudget{
			Limit:     rep.Limit,
			Used:      rep.Used,
			Remaining: rep.Remaining,
			Exhausted: rep.Exhausted,
		},
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// bindSearchParams decodes the query string with form/explode semantics,
// so tags may be repeated: ?tags=env:prod&tags=team:search.
func bindSearchParams(r *http.Request) (SearchParams, error) {
	var params SearchParams
	q := r.URL.Query()

	if err := runtime.BindQueryParameter("form", true, false, "q", q, &params.Q); err != nil {
		return SearchParams{}, err
	}
	if err := runtime.BindQueryParameter("form", true, false, "user_id", q, &params.UserID); err != nil {
		return SearchParams{}, err
	}
	if err := runtime.BindQueryParameter("form", true, false, "algorithm", q, &params.Algorithm); err != nil {
		return SearchParams{}, err
	}
	if err := runtime.BindQueryParameter("form", true, false, "pattern", q, &params.Pattern); err != nil {
		return SearchParams{}, err
	}
	if err := runtime.BindQueryParameter("form", true, false, "tags", q, &params.Tags); err != nil {
		return SearchParams{}, err
	}
	return params, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorResponseCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidQuery,
		domain.ErrConfigLoad,
		context.Canceled,
		context.DeadlineExceeded,
		domain.ErrConnection,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

func sentinelHandler(sentinel error, status int, code ErrorResponseCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	if errors.Is(err, context.Canceled) {
		s.logger.Debug("request canceled by client", zap.Error(err))
	} else {
		s.logger.Warn("domain error", zap.Error(err))
	}
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorResponseCodeInternalError, "internal error")
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func derefSlice(p *[]string) []string {
	if p == nil {
		return nil
	}
	return *p
}
