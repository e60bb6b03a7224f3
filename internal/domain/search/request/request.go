package request

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/fantom/internal/domain"
	"github.com/kailas-cloud/fantom/internal/domain/search/tags"
)

// DefaultKeyPattern matches every key in the store.
const DefaultKeyPattern = "*"

// Params are the optional request parameters next to the query.
// They are accepted but not validated: type and tag checks are disabled.
type Params struct {
	Type string
	Tags []string
}

// ValidateParams reports whether a query is acceptable.
// Only the query is checked; it must be non-empty after trimming.
func ValidateParams(query string, _ Params) bool {
	return strings.TrimSpace(query) != ""
}

// Request is a validated search request.
type Request struct {
	query      string
	userID     string
	algorithm  string
	keyPattern string
	tags       []string
}

// New validates the query and fills defaults. The query is kept trimmed.
func New(query, userID, algorithm, keyPattern string, tagList []string) (Request, error) {
	if !ValidateParams(query, Params{Type: algorithm, Tags: tagList}) {
		return Request{}, fmt.Errorf("%w: query must not be empty", domain.ErrInvalidQuery)
	}
	if keyPattern == "" {
		keyPattern = DefaultKeyPattern
	}
	return Request{
		query:      strings.TrimSpace(query),
		userID:     userID,
		algorithm:  strings.TrimSpace(algorithm),
		keyPattern: keyPattern,
		tags:       tagList,
	}, nil
}

// Query returns the trimmed query text.
func (r *Request) Query() string { return r.query }

// UserID returns the requesting user.
func (r *Request) UserID() string { return r.userID }

// Algorithm returns the explicit algorithm override, empty if none.
func (r *Request) Algorithm() string { return r.algorithm }

// KeyPattern returns the SCAN MATCH glob.
func (r *Request) KeyPattern() string { return r.keyPattern }

// Tags returns the raw tag strings.
func (r *Request) Tags() []string { return r.tags }

// ScopedTags parses the request tags into scope -> values.
func (r *Request) ScopedTags() tags.Scoped { return tags.ParseScoped(r.tags) }
