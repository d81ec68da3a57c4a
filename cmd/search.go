package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentscout/agentscout/internal/app"
	"github.com/agentscout/agentscout/internal/recommend"
)

var (
	searchIndustry   string
	searchFramework  string
	searchComplexity string
	searchTopK       int
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the use-case index",
	Long: `Search runs a one-shot semantic search against the indexed catalog and
prints ranked recommendations.

Examples:
  agentscout search "fraud detection in banking"
  agentscout search "customer support" --industry health --framework CrewAI
  agentscout search "document processing" -n 10`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchIndustry, "industry", "i", "", "filter by industry (substring match)")
	searchCmd.Flags().StringVarP(&searchFramework, "framework", "f", "", "filter by framework (CrewAI, AutoGen, LangGraph, Agno)")
	searchCmd.Flags().StringVarP(&searchComplexity, "complexity", "c", "", "filter by complexity (Low, Medium, High)")
	searchCmd.Flags().IntVarP(&searchTopK, "top", "n", 0, "number of results (default from config)")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
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

	query := strings.Join(args, " ")
	recs, err := a.Retriever.Recommend(ctx, query, recommend.Options{
		TopK:       searchTopK,
		Industry:   searchIndustry,
		Framework:  searchFramework,
		Complexity: searchComplexity,
	})
	if err != nil {
		return fmt.Errorf("searching: %w", err)
	}

	renderRecommendations(cmd.OutOrStdout(), recs)
	return nil
}
