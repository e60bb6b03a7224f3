package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/fantom/internal/domain/search/request"
)

func newSearchCmd() *cobra.Command {
	var (
		user      string
		algorithm string
		pattern   string
		tags      []string
	)

	c := &cobra.Command{
		Use:   "search <query...>",
		Short: "Scan the store and print the top matches as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := request.New(strings.Join(args, " "), user, algorithm, pattern, tags)
			if err != nil {
				return err
			}

			env, _ := cmd.Flags().GetString("env")
			s, closeFn, err := newSearcher(env)
			if err != nil {
				return err
			}
			defer closeFn()

			envelope, err := s.Search(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), envelope)
		},
	}

	c.Flags().StringVarP(&user, "user", "u", "", "user id whose configured algorithm applies")
	c.Flags().StringVarP(&algorithm, "algorithm", "a", "", "algorithm override (bm25, fuzzy, colbert, semantic)")
	c.Flags().StringVarP(&pattern, "pattern", "p", request.DefaultKeyPattern, "SCAN MATCH pattern")
	c.Flags().StringSliceVarP(&tags, "tag", "t", nil, "scoped tag scope:value (repeatable)")
	return c
}
