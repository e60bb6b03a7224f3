package scoring

import "context"

// BM25Params tunes single-document BM25. Zero values take defaults.
type BM25Params struct {
	K1    float64 // term frequency saturation, default 1.2
	B     float64 // length normalization, default 0.75
	AvgDL float64 // assumed average document length in tokens, default 64
}

func (p BM25Params) withDefaults() BM25Params {
	if p.K1 <= 0 {
		p.K1 = 1.2
	}
	if p.B <= 0 {
		p.B = 0.75
	}
	if p.AvgDL <= 0 {
		p.AvgDL = 64
	}
	return p
}

// BM25 scores a record without corpus statistics: every term gets idf 1
// and document length is normalized against a fixed AvgDL.
type BM25 struct {
	tok    Tokenizer
	params BM25Params
}

// NewBM25 creates a BM25 strategy.
func NewBM25(tok Tokenizer, params BM25Params) *BM25 {
	return &BM25{tok: tok, params: params.withDefaults()}
}

// Score implements Strategy.
func (s *BM25) Score(_ context.Context, query, text string) (float64, error) {
	qTerms := unique(s.tok.Tokens(query))
	if len(qTerms) == 0 {
		return 0, nil
	}
	docTerms := s.tok.Tokens(text)
	if len(docTerms) == 0 {
		return 0, nil
	}

	tf := make(map[string]int, len(docTerms))
	for _, t := range docTerms {
		tf[t]++
	}

	p := s.params
	norm := p.K1 * (1 - p.B + p.B*float64(len(docTerms))/p.AvgDL)

	var score float64
	for _, q := range qTerms {
		f := float64(tf[q])
		if f == 0 {
			continue
		}
		score += f * (p.K1 + 1) / (f + norm)
	}
	return score, nil
}

// unique drops repeated terms, keeping first occurrence order.
func unique(terms []string) []string {
	seen := make(map[string]struct{}, len(terms))
	out := terms[:0:0]
	for _, t := range terms {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
