package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	sqlitestore "github.com/querylens-ai/querylens/pkg/cache/sqlite"
	"github.com/querylens-ai/querylens/pkg/config"
)

// Cache maintenance targets the SQLite backend; Redis entries expire
// server-side and need no sweeping.
func newCacheCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the query result cache",
	}

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show cache statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			store, err := sqlitestore.New(cfg.Cache.DBPath)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			entries, err := store.Entries(context.Background())
			if err != nil {
				return err
			}
			fmt.Printf("Entries: %d\n", entries)
			return nil
		},
	}

	var expiredOnly bool
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear cache entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			store, err := sqlitestore.New(cfg.Cache.DBPath)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.Clear(context.Background(), expiredOnly); err != nil {
				return err
			}
			if expiredOnly {
				fmt.Println("Expired cache entries cleared.")
			} else {
				fmt.Println("All cache entries cleared.")
			}
			return nil
		},
	}
	clearCmd.Flags().BoolVar(&expiredOnly, "expired", false, "only clear expired entries")

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "querylens.yaml", "path to config file")
	cmd.AddCommand(statsCmd, clearCmd)
	return cmd
}
