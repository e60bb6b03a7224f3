// Package app is the composition root shared by the API server and the CLI.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/fantom/internal/config"
	"github.com/kailas-cloud/fantom/internal/db"
	dbGoRedis "github.com/kailas-cloud/fantom/internal/db/goredis"
	dbRedis "github.com/kailas-cloud/fantom/internal/db/redis"
	"github.com/kailas-cloud/fantom/internal/domain"
	"github.com/kailas-cloud/fantom/internal/domain/search/algorithm"
	"github.com/kailas-cloud/fantom/internal/metrics"
	budgetrepo "github.com/kailas-cloud/fantom/internal/repository/budget"
	"github.com/kailas-cloud/fantom/internal/repository/embcache"
	"github.com/kailas-cloud/fantom/internal/repository/userconfig"
	"github.com/kailas-cloud/fantom/internal/scoring"
	openaiEmb "github.com/kailas-cloud/fantom/internal/transport/openai"
	embeddinguc "github.com/kailas-cloud/fantom/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/fantom/internal/usecase/health"
	searchuc "github.com/kailas-cloud/fantom/internal/usecase/search"
	usageuc "github.com/kailas-cloud/fantom/internal/usecase/usage"
)

// App holds the wired services.
type App struct {
	Connector db.Connector
	Users     *userconfig.Loader
	Scorer    *scoring.Registry
	Search    *searchuc.Service
	Health    *healthuc.Service
	Usage     *usageuc.Service
	// Budget is nil unless embedding token limits are configured.
	Budget *embeddinguc.BudgetTracker

	closers []func()
}

// Close releases long-lived clients. Scan connections are per call and
// already released.
func (a *App) Close() {
	for _, c := range a.closers {
		c()
	}
}

// NewConnector builds the store connector for the configured driver.
func NewConnector(cfg config.DatabaseConfig) (db.Connector, error) {
	switch cfg.Driver {
	case config.DriverRedis:
		c, err := dbRedis.NewConnector(dbRedis.Config{URL: cfg.URL, DB: cfg.LogicalDB()})
		if err != nil {
			return nil, fmt.Errorf("redis connector: %w", err)
		}
		return c, nil
	case config.DriverGoRedis:
		c, err := dbGoRedis.NewConnector(dbGoRedis.Config{URL: cfg.URL, DB: cfg.LogicalDB()})
		if err != nil {
			return nil, fmt.Errorf("goredis connector: %w", err)
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// Build wires the store connector, scorer registry and use cases.
func Build(cfg config.Config, logger *zap.Logger) (*App, error) {
	connector, err := NewConnector(cfg.Database)
	if err != nil {
		return nil, err
	}
	return BuildWith(cfg, connector, logger)
}

// BuildWith is Build with an injected connector.
func BuildWith(cfg config.Config, connector db.Connector, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	a := &App{}

	// Keep these as interfaces: a typed nil *Embedder would not compare equal to nil.
	var (
		embedder domain.Embedder
		checker  healthuc.EmbeddingChecker
		closers  []func()
	)
	if cfg.Embedding.Enabled() {
		e := openaiEmb.NewEmbedder(&openaiEmb.Config{
			APIKey:     cfg.Embedding.APIKey,
			BaseURL:    cfg.Embedding.BaseURL,
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Embedding.Dimensions,
			Provider:   cfg.Embedding.Provider,
			Logger:     logger,
		})
		embedder, checker = e, e

		var cache *dbRedis.Cache
		if cfg.Embedding.Cache.Enabled {
			c, err := dbRedis.NewCache(dbRedis.Config{
				URL: cfg.Database.URL,
				DB:  cfg.Embedding.Cache.DB,
			}, time.Duration(cfg.Embedding.Cache.TTLSec)*time.Second)
			if err != nil {
				return nil, fmt.Errorf("embedding cache: %w", err)
			}
			cache = c
			closers = append(closers, c.Close)
		}

		if b := cfg.Embedding.Budget; b.Enabled() {
			tracker := embeddinguc.NewBudgetTracker(
				cfg.Embedding.Provider, b.DailyTokenLimit, b.MonthlyTokenLimit,
				embeddinguc.BudgetAction(b.Action), logger,
			)
			if cache != nil {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				tracker.WithStore(ctx, budgetrepo.New(cache, budgetrepo.DefaultDailyTTL, budgetrepo.DefaultMonthlyTTL))
				cancel()
			}
			a.Budget = tracker
			embedder = embeddinguc.NewGuardedEmbedder(e, cfg.Embedding.Provider, cfg.Embedding.Model, tracker, logger)
			logger.Info("Embedding budget enabled",
				zap.Int64("daily_token_limit", b.DailyTokenLimit),
				zap.Int64("monthly_token_limit", b.MonthlyTokenLimit),
				zap.String("action", b.Action),
			)
		}

		// Cache outermost: hits spend no budget.
		if cache != nil {
			embedder = embcache.New(embedder, cache, cfg.Embedding.Model, metrics.EmbeddingCacheTotal, logger)
			logger.Info("Embedding cache enabled", zap.Int("db", cfg.Embedding.Cache.DB))
		}

		logger.Info("Semantic ranking enabled",
			zap.String("provider", cfg.Embedding.Provider),
			zap.String("model", cfg.Embedding.Model),
		)
	}

	scorer, err := scoring.NewRegistry(scoring.WithEmbedder(embedder))
	if err != nil {
		for _, c := range closers {
			c()
		}
		return nil, fmt.Errorf("build scorer: %w", err)
	}

	users := userconfig.New(cfg.Search.UsersPath)

	search := searchuc.New(users, connector, scorer, searchuc.Config{
		TopN:      cfg.Search.TopN,
		ScanCount: cfg.Search.ScanCount,
		Workers:   cfg.Search.ScoreWorkers,
		Timeout:   time.Duration(cfg.Search.TimeoutSec) * time.Second,
		Fallback:  algorithm.Algorithm(cfg.Search.FallbackAlgorithm),
		Logger:    logger,
	})

	health := healthuc.New(healthuc.ConnectorPinger{Connector: connector}, users, checker)

	a.Connector = connector
	a.Users = users
	a.Scorer = scorer
	a.Search = search
	a.Health = health
	// A nil *BudgetTracker must not reach the interface.
	var budgetReader usageuc.BudgetReader
	if a.Budget != nil {
		budgetReader = a.Budget
	}
	a.Usage = usageuc.New(budgetReader)
	a.closers = closers
	return a, nil
}
