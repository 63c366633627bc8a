package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/querylens-ai/querylens/pkg/cache"
	redisstore "github.com/querylens-ai/querylens/pkg/cache/redis"
	sqlitestore "github.com/querylens-ai/querylens/pkg/cache/sqlite"
	"github.com/querylens-ai/querylens/pkg/config"
	"github.com/querylens-ai/querylens/pkg/llm"
	"github.com/querylens-ai/querylens/pkg/models"
	"github.com/querylens-ai/querylens/pkg/pipeline"
	"github.com/querylens-ai/querylens/pkg/server"
)

func newServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the query understanding API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			pipe, cleanup, err := buildPipeline(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			srv := server.New(pipe)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			log.Printf("starting querylens with config: %s", configPath)
			return srv.ListenAndServe(ctx, cfg.Listen)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "querylens.yaml", "path to config file")
	return cmd
}

// buildPipeline wires the generator, cache gateway, and extra rules from
// config. The returned cleanup closes whichever store was opened.
func buildPipeline(cfg *config.Config) (*pipeline.Pipeline, func(), error) {
	cleanup := func() {}

	var gateway *cache.Gateway
	if cfg.Cache.Enabled {
		switch cfg.Cache.Backend {
		case "", "redis", "sqlite":
		default:
			return nil, nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
		}
		store, closeStore, err := openStore(cfg.Cache)
		if err != nil {
			// Caching is a performance layer only; run without it.
			log.Printf("cache unavailable, continuing without caching: %v", err)
		} else {
			gateway = cache.NewGateway(store, cfg.Cache.TTL)
			cleanup = closeStore
		}
	}

	gen := llm.New(cfg.LLM)
	pipe := pipeline.New(gen, gateway, rulesFromConfig(cfg.Rules)...)
	return pipe, cleanup, nil
}

func openStore(cfg config.CacheConfig) (cache.Store, func(), error) {
	switch cfg.Backend {
	case "", "redis":
		store, err := redisstore.New(cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	case "sqlite":
		store, err := sqlitestore.New(cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

func rulesFromConfig(rules []config.RuleConfig) []pipeline.Rule {
	out := make([]pipeline.Rule, 0, len(rules))
	for _, r := range rules {
		out = append(out, pipeline.Rule{
			Exact:    r.Query,
			Contains: r.Contains,
			Override: models.ParsedQuery{
				ItemType: r.ItemType,
				Material: r.Material,
				Color:    r.Color,
			},
		})
	}
	return out
}
