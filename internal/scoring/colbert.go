package scoring

import "context"

// ColBERT approximates late interaction: each query token is matched to its
// most similar record token (MaxSim) and the maxima are averaged. Token
// similarity is the Jaccard index of padded character trigrams.
type ColBERT struct {
	tok Tokenizer
}

// NewColBERT creates a ColBERT strategy.
func NewColBERT(tok Tokenizer) *ColBERT {
	return &ColBERT{tok: tok}
}

// Score implements Strategy. The result is in [0, 1].
func (s *ColBERT) Score(_ context.Context, query, text string) (float64, error) {
	qTerms := s.tok.Tokens(query)
	if len(qTerms) == 0 {
		return 0, nil
	}
	docTerms := unique(s.tok.Tokens(text))
	if len(docTerms) == 0 {
		return 0, nil
	}

	docGrams := make([]map[string]struct{}, len(docTerms))
	for i, d := range docTerms {
		docGrams[i] = trigrams(d)
	}

	var total float64
	for _, q := range qTerms {
		qg := trigrams(q)
		best := 0.0
		for _, dg := range docGrams {
			if sim := jaccard(qg, dg); sim > best {
				best = sim
			}
		}
		total += best
	}
	return total / float64(len(qTerms)), nil
}

func trigrams(term string) map[string]struct{} {
	r := []rune("  " + term + " ")
	out := make(map[string]struct{}, len(r))
	for i := 0; i+3 <= len(r); i++ {
		out[string(r[i:i+3])] = struct{}{}
	}
	return out
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for g := range a {
		if _, ok := b[g]; ok {
			inter++
		}
	}
	return float64(inter) / float64(len(a)+len(b)-inter)
}
