package search

import (
	"math"
	"sort"

	"github.com/kailas-cloud/fantom/internal/domain/search/result"
)

// rank orders candidates by score (stable, NaN last), keeps the first topN
// and then drops zero and NaN scores. The filter runs after truncation, so
// fewer than topN results may come back even when more non-zero scores exist.
func rank(candidates []result.Scored, topN int) []result.Scored {
	sorted := make([]result.Scored, len(candidates))
	copy(sorted, candidates)

	sort.SliceStable(sorted, func(i, j int) bool {
		return higher(sorted[i].Score, sorted[j].Score)
	})

	if len(sorted) > topN {
		sorted = sorted[:topN]
	}

	out := make([]result.Scored, 0, len(sorted))
	for _, r := range sorted {
		if truthy(r.Score) {
			out = append(out, r)
		}
	}
	return out
}

func higher(a, b float64) bool {
	if math.IsNaN(a) {
		return false
	}
	if math.IsNaN(b) {
		return true
	}
	return a > b
}

// truthy mirrors numeric truthiness: 0 and NaN are false, negatives are kept.
func truthy(score float64) bool {
	return score != 0 && !math.IsNaN(score)
}
