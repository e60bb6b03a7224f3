package scoring

import (
	"fmt"

	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/registry"
)

// Tokenizer splits text into normalized terms.
type Tokenizer interface {
	Tokens(text string) []string
}

// analyzerTokenizer runs text through a bleve analyzer
// (unicode segmentation, lower-casing, English stop words).
type analyzerTokenizer struct {
	analyzer analysis.Analyzer
}

// NewTokenizer returns a Tokenizer backed by bleve's standard analyzer.
func NewTokenizer() (Tokenizer, error) {
	cache := registry.NewCache()
	a, err := cache.AnalyzerNamed(standard.Name)
	if err != nil {
		return nil, fmt.Errorf("analyzer %s: %w", standard.Name, err)
	}
	return &analyzerTokenizer{analyzer: a}, nil
}

func (t *analyzerTokenizer) Tokens(text string) []string {
	if text == "" {
		return nil
	}
	stream := t.analyzer.Analyze([]byte(text))
	out := make([]string, 0, len(stream))
	for _, tok := range stream {
		if len(tok.Term) > 0 {
			out = append(out, string(tok.Term))
		}
	}
	return out
}
