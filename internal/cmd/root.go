// Package cmd implements the fantomctl command tree.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/fantom/internal/app"
	"github.com/kailas-cloud/fantom/internal/config"
	"github.com/kailas-cloud/fantom/internal/domain/search/request"
	"github.com/kailas-cloud/fantom/internal/domain/search/result"
	logpkg "github.com/kailas-cloud/fantom/internal/logger"
	"github.com/kailas-cloud/fantom/internal/version"
)

// Searcher runs a ranked search.
type Searcher interface {
	Search(ctx context.Context, req request.Request) (result.Envelope, error)
}

// newSearcher builds the search service from the environment's config.
// The returned func releases long-lived clients. Tests replace it with a stub.
var newSearcher = func(env string) (Searcher, func(), error) {
	cfg, err := config.Load(env)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		logger = zap.NewNop()
	}
	a, err := app.Build(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return a.Search, a.Close, nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "fantomctl",
		Short:         "ranked key-value search from the command line",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().String("env", config.GetEnv(), "configuration environment (config/<env>.yaml)")

	root.AddCommand(newSearchCmd())
	root.AddCommand(newTagsCmd())
	root.AddCommand(newUsersCmd())
	return root
}

// Execute runs the root command
func Execute() error {
	return newRootCmd().Execute()
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
