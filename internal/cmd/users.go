package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/fantom/internal/repository/userconfig"
)

func newUsersCmd() *cobra.Command {
	var path string

	c := &cobra.Command{
		Use:   "users",
		Short: "Print the user to algorithm mapping",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := userconfig.LoadFile(path)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "USER\tALGORITHM")
			for _, e := range cfg.Entries() {
				_, _ = fmt.Fprintf(tw, "%s\t%s\n", e.UserID, e.Algorithm)
			}
			return tw.Flush()
		},
	}

	c.Flags().StringVar(&path, "file", userconfig.DefaultPath, "users document (JSONC)")
	return c
}
