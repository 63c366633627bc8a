package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/querylens-ai/querylens/pkg/config"
)

func newParseCmd() *cobra.Command {
	var configPath string
	var inspect bool

	cmd := &cobra.Command{
		Use:   "parse [query]",
		Short: "Parse a query from the command line",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.TrimSpace(strings.Join(args, " "))
			if query == "" {
				return fmt.Errorf("query cannot be empty")
			}

			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			pipe, cleanup, err := buildPipeline(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")

			if inspect {
				result, err := pipe.Inspect(context.Background(), query)
				if err != nil {
					return err
				}
				return enc.Encode(result)
			}

			resp, err := pipe.Understand(context.Background(), query)
			if err != nil {
				return err
			}
			return enc.Encode(resp)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "querylens.yaml", "path to config file")
	cmd.Flags().BoolVar(&inspect, "inspect", false, "print the raw model output instead of the parsed record")
	return cmd
}
