package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "prism",
	Short: "Prism - prompt quality analysis service",
	Long: `Prism scores free-text prompts against weighted quality dimensions and
suggests concrete improvements.

It runs as an HTTP service providing:
  - Heuristic prompt scoring across quality dimensions
  - Optional LLM enrichment (OpenAI, Anthropic, OpenRouter)
  - Per-caller sliding-window admission with queued waiting
  - Analysis history with retention pruning`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
