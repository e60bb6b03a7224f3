package scoring

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/kailas-cloud/fantom/internal/domain"
	"github.com/kailas-cloud/fantom/internal/domain/record"
	"github.com/kailas-cloud/fantom/internal/domain/search/algorithm"
)

func newTokenizer(t *testing.T) Tokenizer {
	t.Helper()
	tok, err := NewTokenizer()
	if err != nil {
		t.Fatalf("NewTokenizer: %v", err)
	}
	return tok
}

func newRegistry(t *testing.T, opts ...Option) *Registry {
	t.Helper()
	r, err := NewRegistry(opts...)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	return r
}

func rec(v any) record.Record { return record.FromValue(v) }

// --- tokenizer ---

func TestTokenizer_LowercasesAndDropsStopWords(t *testing.T) {
	tok := newTokenizer(t)
	got := tok.Tokens("The Quick brown FOX and the Redis")
	want := []string{"quick", "brown", "fox", "redis"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Tokens() = %v, want %v", got, want)
	}
	if tok.Tokens("") != nil {
		t.Error("empty text should have no tokens")
	}
}

// --- registry ---

func TestRegistry_Defaults(t *testing.T) {
	r := newRegistry(t)
	for _, a := range []algorithm.Algorithm{algorithm.BM25, algorithm.Fuzzy, algorithm.ColBERT} {
		if !r.Supports(a) {
			t.Errorf("expected %q to be registered", a)
		}
	}
	if r.Supports(algorithm.Semantic) {
		t.Error("semantic requires an embedder")
	}
}

func TestRegistry_UnknownAlgorithm(t *testing.T) {
	_, err := newRegistry(t).Score(context.Background(), "q", rec("q"), "tfidf")
	if !errors.Is(err, domain.ErrUnknownAlgorithm) {
		t.Fatalf("expected ErrUnknownAlgorithm, got %v", err)
	}
}

func TestRegistry_SemanticUnavailable(t *testing.T) {
	_, err := newRegistry(t).Score(context.Background(), "q", rec("q"), algorithm.Semantic)
	if !errors.Is(err, domain.ErrAlgorithmUnavailable) {
		t.Fatalf("expected ErrAlgorithmUnavailable, got %v", err)
	}
}

func TestRegistry_CustomStrategy(t *testing.T) {
	var gotText string
	r := newRegistry(t, WithStrategy("const", StrategyFunc(func(_ context.Context, _, text string) (float64, error) {
		gotText = text
		return 7, nil
	})))
	score, err := r.Score(context.Background(), "q", rec(map[string]any{"b": "two", "a": "one"}), "const")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score != 7 {
		t.Errorf("score = %f", score)
	}
	if gotText != "one two" {
		t.Errorf("strategy received text %q", gotText)
	}
}

// --- bm25 ---

func TestBM25_RanksMatchesAboveNonMatches(t *testing.T) {
	s := NewBM25(newTokenizer(t), BM25Params{})
	ctx := context.Background()

	hit, _ := s.Score(ctx, "redis streams", "Redis streams explained with consumer groups")
	partial, _ := s.Score(ctx, "redis streams", "Redis hashes")
	miss, _ := s.Score(ctx, "redis streams", "PostgreSQL indexes")

	if !(hit > partial && partial > miss) {
		t.Errorf("expected hit > partial > miss, got %f %f %f", hit, partial, miss)
	}
	if miss != 0 {
		t.Errorf("non-matching record should score 0, got %f", miss)
	}
}

func TestBM25_LengthNormalization(t *testing.T) {
	s := NewBM25(newTokenizer(t), BM25Params{AvgDL: 4})
	ctx := context.Background()
	short, _ := s.Score(ctx, "redis", "redis cache")
	long, _ := s.Score(ctx, "redis", "redis cache layer sitting between service database queue worker scheduler")
	if short <= long {
		t.Errorf("short doc should outscore long doc: %f vs %f", short, long)
	}
}

func TestBM25_EmptyInputs(t *testing.T) {
	s := NewBM25(newTokenizer(t), BM25Params{})
	if v, _ := s.Score(context.Background(), "the", "redis"); v != 0 {
		t.Errorf("stop-word-only query should score 0, got %f", v)
	}
	if v, _ := s.Score(context.Background(), "redis", ""); v != 0 {
		t.Errorf("empty text should score 0, got %f", v)
	}
}

func TestBM25_RepeatedQueryTermsCountOnce(t *testing.T) {
	s := NewBM25(newTokenizer(t), BM25Params{})
	once, _ := s.Score(context.Background(), "redis", "redis guide")
	twice, _ := s.Score(context.Background(), "redis redis", "redis guide")
	if once != twice {
		t.Errorf("duplicate query terms changed score: %f vs %f", once, twice)
	}
}

// --- fuzzy ---

func TestFuzzy_ToleratesTypos(t *testing.T) {
	s := NewFuzzy(newTokenizer(t), 0)
	ctx := context.Background()

	exact, _ := s.Score(ctx, "redis", "redis")
	typo, _ := s.Score(ctx, "reddis", "redis")
	miss, _ := s.Score(ctx, "postgres", "redis")

	if exact != 1 {
		t.Errorf("exact = %f, want 1", exact)
	}
	if typo <= 0 || typo >= 1 {
		t.Errorf("typo = %f, want in (0,1)", typo)
	}
	if miss != 0 {
		t.Errorf("miss = %f, want 0 below threshold", miss)
	}
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
		{"héllo", "hello", 1},
	}
	for _, tc := range tests {
		if got := levenshtein([]rune(tc.a), []rune(tc.b)); got != tc.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

// --- colbert ---

func TestColBERT_MaxSim(t *testing.T) {
	s := NewColBERT(newTokenizer(t))
	ctx := context.Background()

	exact, _ := s.Score(ctx, "redis", "cache redis layer")
	near, _ := s.Score(ctx, "redis", "rediss")
	miss, _ := s.Score(ctx, "redis", "xyz")

	if math.Abs(exact-1) > 1e-9 {
		t.Errorf("exact = %f, want 1", exact)
	}
	if !(near > miss && near < exact) {
		t.Errorf("expected exact > near > miss, got %f %f %f", exact, near, miss)
	}
}

// --- semantic ---

type stubEmbedder struct {
	mu      sync.Mutex
	vectors map[string][]float32
	calls   map[string]int
	err     error
}

func (s *stubEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.calls == nil {
		s.calls = map[string]int{}
	}
	s.calls[text]++
	if s.err != nil {
		return domain.EmbeddingResult{}, s.err
	}
	return domain.EmbeddingResult{Embedding: s.vectors[text]}, nil
}

func TestSemantic_CosineAndQueryCache(t *testing.T) {
	emb := &stubEmbedder{vectors: map[string][]float32{
		"cats":        {1, 0},
		"kittens":     {0.9, 0.1},
		"spreadsheet": {0, 1},
	}}
	r := newRegistry(t, WithEmbedder(emb))
	ctx := context.Background()

	close1, err := r.Score(ctx, "cats", rec("kittens"), algorithm.Semantic)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	far, err := r.Score(ctx, "cats", rec("spreadsheet"), algorithm.Semantic)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if close1 <= far {
		t.Errorf("expected kittens closer than spreadsheet: %f vs %f", close1, far)
	}
	if emb.calls["cats"] != 1 {
		t.Errorf("query embedded %d times, want 1", emb.calls["cats"])
	}
}

func TestSemantic_EmbedError(t *testing.T) {
	s := NewSemantic(&stubEmbedder{err: domain.ErrEmbeddingProviderError})
	_, err := s.Score(context.Background(), "q", "text")
	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Fatalf("expected provider error, got %v", err)
	}
}

func TestSemantic_EmptyText(t *testing.T) {
	emb := &stubEmbedder{}
	s := NewSemantic(emb)
	v, err := s.Score(context.Background(), "q", "")
	if err != nil || v != 0 {
		t.Errorf("Score(empty) = %f, %v", v, err)
	}
	if len(emb.calls) != 0 {
		t.Error("empty text should not call the embedder")
	}
}
