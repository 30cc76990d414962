package main

import (
	"fmt"

	"github.com/ZaguanLabs/lingoq/cache"
	"github.com/ZaguanLabs/lingoq/config"
	"github.com/spf13/cobra"
)

func newCacheCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and clear the translation cache",
	}

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show cache statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openConfiguredStore(*configPath)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			stats, err := store.Stats()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Entries: %d\nHits:    %d\nMisses:  %d\n", stats.Entries, stats.Hits, stats.Misses)
			return nil
		},
	}

	var expiredOnly bool
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear cache entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openConfiguredStore(*configPath)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if expiredOnly {
				sq, ok := store.(*cache.SQLiteCache)
				if !ok {
					return fmt.Errorf("--expired is only supported by the sqlite backend")
				}
				n, err := sq.ClearExpired()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d expired cache entries.\n", n)
				return nil
			}

			if err := store.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All cache entries cleared.")
			return nil
		},
	}
	clearCmd.Flags().BoolVar(&expiredOnly, "expired", false, "only clear expired entries (sqlite)")

	cmd.AddCommand(statsCmd, clearCmd)
	return cmd
}

// openConfiguredStore opens the cache without building a provider, so cache
// maintenance needs no API key.
func openConfiguredStore(path string) (cache.Store, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	store, err := openStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return store, nil
}
