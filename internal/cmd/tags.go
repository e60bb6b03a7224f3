package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kailas-cloud/fantom/internal/domain/search/tags"
)

func newTagsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tags <scope:value...>",
		Short: "Group scoped tags by scope; malformed tags are dropped",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printJSON(cmd.OutOrStdout(), tags.ParseScoped(args))
		},
	}
}
