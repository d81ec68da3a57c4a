// Package cmd implements the agentscout CLI.
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/agentscout/agentscout/internal/config"
	"github.com/agentscout/agentscout/internal/log"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "agentscout",
	Short: "AgentScout - AI agent use-case recommendations",
	Long: `AgentScout recommends AI agent use cases from a curated catalog of
500+ projects. It scrapes the catalog, indexes it in PostgreSQL with
pgvector, and answers natural-language queries through semantic search
or a conversational assistant.

Run 'agentscout setup' once to build the index, then 'agentscout search'
or 'agentscout interactive' to explore it.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive(cmd, args)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// newLogger builds the CLI logger; --verbose lowers the level to debug.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return log.New(log.Config{Level: level})
}

// loadConfig loads and validates the configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}
