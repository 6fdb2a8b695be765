package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"cpinsights/internal/metacache"
)

func newCacheCmd(a *app) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or prune the problem metadata cache",
	}

	cacheCmd.AddCommand(
		&cobra.Command{
			Use:   "stats",
			Short: "Show cache entry counts",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx := cmd.Context()
				defer a.teardown(ctx)

				store, err := a.openCache(cmd)
				if err != nil {
					return err
				}
				defer store.Close()

				stats, err := store.Stats(ctx)
				if err != nil {
					return err
				}
				printCacheStats(a.out, stats)
				return nil
			},
		},
		&cobra.Command{
			Use:   "prune",
			Short: "Delete entries older than the cache TTL",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx := cmd.Context()
				defer a.teardown(ctx)

				store, err := a.openCache(cmd)
				if err != nil {
					return err
				}
				defer store.Close()

				removed, err := store.Prune(ctx)
				if err != nil {
					return err
				}
				a.logger.Info("Cache pruned", slog.Int64("removed", removed), slog.String("path", a.cfg.Cache.Path))
				fmt.Fprintf(a.out, "Removed %d expired entries from %s\n", removed, a.cfg.Cache.Path)
				return nil
			},
		},
	)
	return cacheCmd
}

// openCache opens the persistent cache directly, whether or not caching is
// enabled for report runs.
func (a *app) openCache(cmd *cobra.Command) (*metacache.SQLiteStore, error) {
	if a.cfg.Cache.Path == "" {
		return nil, fmt.Errorf("no cache path configured")
	}
	return metacache.OpenSQLite(cmd.Context(), a.cfg.Cache.Path, a.cfg.Cache.TTL)
}
