package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentscout/agentscout/internal/app"
	"github.com/agentscout/agentscout/internal/recommend"
)

var (
	exportFormat     string
	exportOutput     string
	exportIndustry   string
	exportFramework  string
	exportComplexity string
	exportTopK       int
)

var exportCmd = &cobra.Command{
	Use:   "export [query]",
	Short: "Export recommendations to a file",
	Long: `Export runs a search and writes the recommendations to a file in JSON,
CSV, or Markdown format.

Examples:
  agentscout export "fraud detection" --format csv --output fraud.csv
  agentscout export "healthcare agents" --format markdown -n 10`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", recommend.FormatJSON, "output format: json, csv, or markdown")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file path (default recommendations.<format>)")
	exportCmd.Flags().StringVarP(&exportIndustry, "industry", "i", "", "filter by industry (substring match)")
	exportCmd.Flags().StringVarP(&exportFramework, "framework", "f", "", "filter by framework")
	exportCmd.Flags().StringVarP(&exportComplexity, "complexity", "c", "", "filter by complexity")
	exportCmd.Flags().IntVarP(&exportTopK, "top", "n", 0, "number of results (default from config)")
	rootCmd.AddCommand(exportCmd)
}

// defaultExportPath maps a format to its conventional file name.
func defaultExportPath(format string) string {
	ext := format
	if format == recommend.FormatMarkdown {
		ext = "md"
	}
	return "recommendations." + ext
}

func runExport(cmd *cobra.Command, args []string) error {
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
		TopK:       exportTopK,
		Industry:   exportIndustry,
		Framework:  exportFramework,
		Complexity: exportComplexity,
	})
	if err != nil {
		return fmt.Errorf("searching: %w", err)
	}
	if len(recs) == 0 {
		return fmt.Errorf("no matching use cases to export")
	}

	path := exportOutput
	if path == "" {
		path = defaultExportPath(exportFormat)
	}

	if err := recommend.Export(recs, path, exportFormat); err != nil {
		return fmt.Errorf("exporting: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d recommendations to %s\n", len(recs), path)
	return nil
}
