// Package search runs ranked scans: enumerate keys, fetch and decode
// values, score them against a query and keep the best matches.
package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/fantom/internal/db"
	"github.com/kailas-cloud/fantom/internal/domain"
	"github.com/kailas-cloud/fantom/internal/domain/record"
	"github.com/kailas-cloud/fantom/internal/domain/search/algorithm"
	"github.com/kailas-cloud/fantom/internal/domain/search/request"
	"github.com/kailas-cloud/fantom/internal/domain/search/result"
	"github.com/kailas-cloud/fantom/internal/logger"
	"github.com/kailas-cloud/fantom/internal/metrics"
)

// Defaults applied by New for zero Config fields.
const (
	DefaultTopN      = 10
	DefaultScanCount = 100
	DefaultTimeout   = 10 * time.Second
)

// Config tunes a Service.
type Config struct {
	TopN      int
	ScanCount int64
	Workers   int
	Timeout   time.Duration
	Fallback  algorithm.Algorithm
	Logger    *zap.Logger
}

// Service ranks store records against free-text queries.
// It holds no per-scan state; concurrent scans each get their own connection.
type Service struct {
	users  UsersLoader
	conns  db.Connector
	scorer Scorer
	cfg    Config
	logger *zap.Logger
}

// New creates a search service.
func New(users UsersLoader, conns db.Connector, scorer Scorer, cfg Config) *Service {
	if cfg.TopN <= 0 {
		cfg.TopN = DefaultTopN
	}
	if cfg.ScanCount <= 0 {
		cfg.ScanCount = DefaultScanCount
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Fallback == "" {
		cfg.Fallback = algorithm.Fallback
	}
	l := cfg.Logger
	if l == nil {
		l = zap.NewNop()
	}
	return &Service{users: users, conns: conns, scorer: scorer, cfg: cfg, logger: l}
}

// ScanQuery is the input of Scan. Algorithm is an optional override;
// an empty KeyPattern matches every key.
type ScanQuery struct {
	Query      string
	UserID     string
	Algorithm  string
	KeyPattern string
}

// SkipReason classifies a record left out of ranking.
type SkipReason string

// Skip reasons.
const (
	SkipMissing SkipReason = "missing" // key vanished between SCAN and GET
	SkipDecode  SkipReason = "decode"  // value is not valid JSON
	SkipScore   SkipReason = "score"   // scorer returned an error
)

// Skip records one non-fatal per-record failure.
type Skip struct {
	Key    string
	Reason SkipReason
	Err    error
}

// Outcome is the result of a ranked scan.
type Outcome struct {
	ScanID    string
	Algorithm algorithm.Algorithm
	Keys      int
	Results   []result.Scored
	Skipped   []Skip
}

// Search scans for an already validated request and wraps the ranked
// results in a response envelope.
func (s *Service) Search(ctx context.Context, req request.Request) (result.Envelope, error) {
	out, err := s.Scan(ctx, ScanQuery{
		Query:      req.Query(),
		UserID:     req.UserID(),
		Algorithm:  req.Algorithm(),
		KeyPattern: req.KeyPattern(),
	})
	if err != nil {
		return result.Envelope{}, err
	}
	return result.Format(out.Results, req.Query()).WithTags(req.ScopedTags()), nil
}

// Scan loads the user configuration, enumerates keys matching the pattern,
// scores every decodable record and returns the top matches.
//
// Configuration and connection failures are fatal. Records that vanish,
// fail to decode or fail to score are reported in Outcome.Skipped.
// The connection is released exactly once on every path.
func (s *Service) Scan(ctx context.Context, q ScanQuery) (Outcome, error) {
	start := time.Now()
	out := Outcome{ScanID: uuid.NewString()}
	log := logger.FromContextOr(ctx, s.logger).With(zap.String("scan_id", out.ScanID))

	cfg, err := s.users.Load()
	if err != nil {
		metrics.ScansTotal.WithLabelValues("", "config_error").Inc()
		log.Error("user configuration unavailable", zap.Error(err))
		return Outcome{}, fmt.Errorf("load user config: %w", err)
	}
	configured, ok := cfg.AlgorithmFor(q.UserID)
	out.Algorithm = algorithm.ResolveOr(q.Algorithm, configured, ok, s.cfg.Fallback)
	algo := string(out.Algorithm)

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	results, err := s.run(ctx, q, &out)
	metrics.ScanDuration.WithLabelValues(algo).Observe(time.Since(start).Seconds())
	if err != nil {
		status := "connection_error"
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			status = "canceled"
		}
		metrics.ScansTotal.WithLabelValues(algo, status).Inc()
		log.Warn("scan failed", zap.String("algorithm", algo), zap.Error(err))
		return Outcome{}, err
	}
	out.Results = results

	metrics.ScansTotal.WithLabelValues(algo, "ok").Inc()
	log.Info("scan completed",
		zap.String("user_id", q.UserID),
		zap.String("algorithm", algo),
		zap.Int("keys", out.Keys),
		zap.Int("results", len(out.Results)),
		zap.Int("skipped", len(out.Skipped)),
		zap.Duration("duration", time.Since(start)),
	)
	return out, nil
}

func (s *Service) run(ctx context.Context, q ScanQuery, out *Outcome) ([]result.Scored, error) {
	log := logger.FromContextOr(ctx, s.logger).With(zap.String("scan_id", out.ScanID))

	conn, err := s.conns.Connect(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConnection, err)
	}
	defer conn.Close()

	pattern := q.KeyPattern
	if pattern == "" {
		pattern = request.DefaultKeyPattern
	}

	keys, err := s.scanKeys(ctx, conn, pattern)
	if err != nil {
		return nil, err
	}
	out.Keys = len(keys)
	metrics.ScanKeysTotal.Add(float64(len(keys)))

	candidates, err := s.fetch(ctx, conn, keys, out)
	if err != nil {
		return nil, err
	}

	scored := s.score(ctx, q.Query, out.Algorithm, candidates, out)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("scan aborted: %w", err)
	}

	for _, sk := range out.Skipped {
		metrics.ScanSkippedTotal.WithLabelValues(string(sk.Reason)).Inc()
		log.Debug("record skipped",
			zap.String("key", sk.Key),
			zap.String("reason", string(sk.Reason)),
			zap.Error(sk.Err),
		)
	}

	return rank(scored, s.cfg.TopN), nil
}

// scanKeys follows the cursor until it returns to 0. Keys reported more
// than once by SCAN are kept at their first position.
func (s *Service) scanKeys(ctx context.Context, conn db.Scanner, pattern string) ([]string, error) {
	var (
		keys   []string
		seen   = make(map[string]struct{})
		cursor uint64
	)
	for {
		page, err := conn.ScanPage(ctx, cursor, pattern, s.cfg.ScanCount)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrConnection, err)
		}
		for _, k := range page.Keys {
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
		cursor = page.Cursor
		if cursor == 0 {
			return keys, nil
		}
	}
}

type candidate struct {
	key string
	rec record.Record
}

// fetch reads values in ScanCount-sized batches and decodes them.
func (s *Service) fetch(ctx context.Context, conn db.KVReader, keys []string, out *Outcome) ([]candidate, error) {
	candidates := make([]candidate, 0, len(keys))
	batch := int(s.cfg.ScanCount)

	for lo := 0; lo < len(keys); lo += batch {
		hi := min(lo+batch, len(keys))
		chunk := keys[lo:hi]

		values, err := conn.GetMulti(ctx, chunk)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrConnection, err)
		}
		for i, key := range chunk {
			if values[i] == nil {
				out.Skipped = append(out.Skipped, Skip{Key: key, Reason: SkipMissing, Err: db.ErrKeyNotFound})
				continue
			}
			rec, err := record.Decode(key, values[i])
			if err != nil {
				out.Skipped = append(out.Skipped, Skip{Key: key, Reason: SkipDecode, Err: err})
				continue
			}
			candidates = append(candidates, candidate{key: key, rec: rec})
		}
	}
	return candidates, nil
}

// score runs the scorer on a bounded pool. Result order follows candidate
// order, so ranking ties stay in discovery order regardless of scheduling.
func (s *Service) score(
	ctx context.Context, query string, algo algorithm.Algorithm, candidates []candidate, out *Outcome,
) []result.Scored {
	scores := make([]float64, len(candidates))
	errs := make([]error, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)
	for i, c := range candidates {
		g.Go(func() error {
			// A panicking scorer fails its record, not the scan.
			defer func() {
				if r := recover(); r != nil {
					errs[i] = fmt.Errorf("scorer panic: %v", r)
				}
			}()
			scores[i], errs[i] = s.scorer.Score(gctx, query, c.rec, algo)
			return nil
		})
	}
	_ = g.Wait() // workers never return errors; failures are per record

	scored := make([]result.Scored, 0, len(candidates))
	for i, c := range candidates {
		if errs[i] != nil {
			out.Skipped = append(out.Skipped, Skip{Key: c.key, Reason: SkipScore, Err: errs[i]})
			continue
		}
		scored = append(scored, result.Scored{Key: c.key, Value: c.rec, Score: scores[i]})
	}
	return scored
}
