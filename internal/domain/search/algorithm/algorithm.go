package algorithm

import "strings"

// Algorithm names a relevance scoring strategy.
type Algorithm string

// Built-in ranking algorithms.
const (
	BM25     Algorithm = "bm25"
	Fuzzy    Algorithm = "fuzzy"
	ColBERT  Algorithm = "colbert"
	Semantic Algorithm = "semantic"
)

// Fallback is used when neither the request nor the user configuration names an algorithm.
const Fallback = BM25

// IsKnown reports whether a is one of the built-in algorithms.
// Requests are not rejected on unknown names; the scorer decides.
func (a Algorithm) IsKnown() bool {
	switch a {
	case BM25, Fuzzy, ColBERT, Semantic:
		return true
	}
	return false
}

// Resolve picks the effective algorithm: explicit beats configured beats Fallback.
func Resolve(explicit string, configured Algorithm, hasConfigured bool) Algorithm {
	return ResolveOr(explicit, configured, hasConfigured, Fallback)
}

// ResolveOr is Resolve with a deployment-specific fallback.
func ResolveOr(explicit string, configured Algorithm, hasConfigured bool, fallback Algorithm) Algorithm {
	if s := strings.TrimSpace(explicit); s != "" {
		return Algorithm(s)
	}
	if hasConfigured && configured != "" {
		return configured
	}
	return fallback
}
