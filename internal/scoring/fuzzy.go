package scoring

import "context"

// DefaultFuzzyThreshold is the minimum similarity a query token must reach to count.
const DefaultFuzzyThreshold = 0.6

// Fuzzy scores typo-tolerant matches: each query token contributes its best
// normalized Levenshtein similarity against the record's tokens.
type Fuzzy struct {
	tok       Tokenizer
	threshold float64
}

// NewFuzzy creates a Fuzzy strategy. threshold <= 0 means DefaultFuzzyThreshold.
func NewFuzzy(tok Tokenizer, threshold float64) *Fuzzy {
	if threshold <= 0 {
		threshold = DefaultFuzzyThreshold
	}
	return &Fuzzy{tok: tok, threshold: threshold}
}

// Score implements Strategy. The result is in [0, 1].
func (s *Fuzzy) Score(_ context.Context, query, text string) (float64, error) {
	qTerms := s.tok.Tokens(query)
	if len(qTerms) == 0 {
		return 0, nil
	}
	docTerms := unique(s.tok.Tokens(text))
	if len(docTerms) == 0 {
		return 0, nil
	}

	var total float64
	for _, q := range qTerms {
		best := 0.0
		for _, d := range docTerms {
			if sim := similarity(q, d); sim > best {
				best = sim
				if best == 1 {
					break
				}
			}
		}
		if best >= s.threshold {
			total += best
		}
	}
	return total / float64(len(qTerms)), nil
}

// similarity is 1 - levenshtein(a, b) / max(len(a), len(b)) over runes.
func similarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	longest := max(len(ra), len(rb))
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein(ra, rb))/float64(longest)
}

func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
