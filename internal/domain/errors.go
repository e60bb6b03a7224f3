package domain

import "errors"

var (
	// ErrConfigLoad signals a missing, unreadable or malformed user configuration.
	ErrConfigLoad = errors.New("config load failed")
	// ErrConnection signals that the store could not be reached or dropped mid-scan.
	ErrConnection = errors.New("store connection failed")
	// ErrDecode signals a record whose stored value is not valid JSON.
	ErrDecode = errors.New("record decode failed")
	// ErrInvalidQuery signals a query that is empty after trimming.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrUnknownAlgorithm signals a ranking algorithm with no registered scorer.
	ErrUnknownAlgorithm = errors.New("unknown ranking algorithm")
	// ErrAlgorithmUnavailable signals a known algorithm whose backend is not configured.
	ErrAlgorithmUnavailable = errors.New("ranking algorithm unavailable")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrEmbeddingQuotaExceeded signals an exhausted embedding token budget.
	ErrEmbeddingQuotaExceeded = errors.New("embedding token budget exceeded")
)
