package cmd

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/agentscout/agentscout/internal/app"
)

var industriesCmd = &cobra.Command{
	Use:   "industries",
	Short: "List industries present in the index",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runTagList(cmd, "Industries", func(ctx context.Context, a *app.App) ([]string, error) {
			return a.Retriever.Industries(ctx)
		})
	},
}

var frameworksCmd = &cobra.Command{
	Use:   "frameworks",
	Short: "List agent frameworks present in the index",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runTagList(cmd, "Frameworks", func(ctx context.Context, a *app.App) ([]string, error) {
			return a.Retriever.Frameworks(ctx)
		})
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show index statistics",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(industriesCmd, frameworksCmd, statsCmd)
}

func runTagList(cmd *cobra.Command, heading string, list func(context.Context, *app.App) ([]string, error)) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger()
	ctx := cmd.Context()

	a, err := app.Setup(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			logger.Warn("shutdown error", "error", closeErr)
		}
	}()

	values, err := list(ctx, a)
	if err != nil {
		return fmt.Errorf("listing %s: %w", heading, err)
	}

	renderList(cmd.OutOrStdout(), heading, values)
	return nil
}

func runStats(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger()
	ctx := cmd.Context()

	a, err := app.Setup(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			logger.Warn("shutdown error", "error", closeErr)
		}
	}()

	stats, err := a.Retriever.Stats(ctx)
	if err != nil {
		return fmt.Errorf("computing stats: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, headingStyle.Render("Index statistics"))
	fmt.Fprintf(out, "  Use cases:  %d\n", stats.TotalUseCases)
	fmt.Fprintf(out, "  Industries: %d\n", stats.Industries)
	fmt.Fprintf(out, "  Frameworks: %d\n", stats.Frameworks)
	for _, fw := range slices.Sorted(maps.Keys(stats.ByFramework)) {
		fmt.Fprintf(out, "    %-10s %d\n", fw, stats.ByFramework[fw])
	}
	return nil
}
