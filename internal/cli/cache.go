package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TimelordUK/wcstats/internal/cache"
)

func newCacheCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the analysis cache",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "prune",
		Short: "Drop cached sessions whose logs no longer exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := cache.Open(a.cfg.Cache.Path)
			if err != nil {
				return err
			}
			defer store.Close()

			n, err := store.Prune()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "pruned %d cached session(s)\n", n)
			return err
		},
	})
	return cmd
}
