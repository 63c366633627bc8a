package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:     "querylens",
		Short:   "querylens - LLM-backed furniture search query understanding",
		Version: version,
	}

	root.AddCommand(
		newServeCmd(),
		newParseCmd(),
		newCacheCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
