package chi

// ErrorResponseCode is the machine-readable error code of an API error.
type ErrorResponseCode string

// Error codes.
const (
	ErrorResponseCodeBadRequest       ErrorResponseCode = "bad_request"
	ErrorResponseCodeUnauthorized     ErrorResponseCode = "unauthorized"
	ErrorResponseCodeInvalidQuery     ErrorResponseCode = "invalid_query"
	ErrorResponseCodeConfigError      ErrorResponseCode = "config_error"
	ErrorResponseCodeStoreUnavailable ErrorResponseCode = "store_unavailable"
	ErrorResponseCodeTimeout          ErrorResponseCode = "timeout"
	ErrorResponseCodeCanceled         ErrorResponseCode = "canceled"
	ErrorResponseCodeInternalError    ErrorResponseCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorResponseCode `json:"code"`
	Message string            `json:"message"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// UserAlgorithm is one entry of GET /users.
type UserAlgorithm struct {
	UserID    string `json:"user_id"`
	Algorithm string `json:"algorithm"`
}

// UsersResponse is the body of GET /users.
type UsersResponse struct {
	Users []UserAlgorithm `json:"users"`
}

// SearchParams are the query parameters of GET /search.
type SearchParams struct {
	Q         string    `json:"q"`
	UserID    *string   `json:"user_id,omitempty"`
	Algorithm *string   `json:"algorithm,omitempty"`
	Pattern   *string   `json:"pattern,omitempty"`
	Tags      *[]string `json:"tags,omitempty"`
}

// UsageBudget is the token budget part of GET /usage. Limit 0 and
// remaining -1 mean unlimited.
type UsageBudget struct {
	Limit     int64 `json:"limit"`
	Used      int64 `json:"used"`
	Remaining int64 `json:"remaining"`
	Exhausted bool  `json:"exhausted"`
}

// UsageResponse is the body of GET /usage.
type UsageResponse struct {
	Period      string      `json:"period"`
	PeriodStart int64       `json:"period_start"`
	PeriodEnd   int64       `json:"period_end"`
	Budget      UsageBudget `json:"budget"`
}
