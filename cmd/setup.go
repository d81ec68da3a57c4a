package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentscout/agentscout/internal/app"
	"github.com/agentscout/agentscout/internal/catalog"
	"github.com/agentscout/agentscout/internal/knowledge"
)

// snapshotFile is the JSON snapshot name inside the data directory.
const snapshotFile = "use_cases.json"

var (
	setupFromSnapshot bool
	setupSkipIndex    bool
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Scrape the use-case catalog and build the vector index",
	Long: `Setup fetches the catalog README, parses it into use cases, enriches
them, saves a JSON snapshot, and indexes every use case into the vector
store. Run it again at any time to refresh the index; existing entries
are updated in place.`,
	RunE: runSetup,
}

func init() {
	setupCmd.Flags().BoolVar(&setupFromSnapshot, "from-snapshot", false,
		"index the saved snapshot instead of scraping")
	setupCmd.Flags().BoolVar(&setupSkipIndex, "skip-index", false,
		"scrape and save the snapshot without indexing")
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger()
	ctx := cmd.Context()

	snapshotPath := filepath.Join(cfg.DataDir, snapshotFile)

	var cases []catalog.UseCase
	if setupFromSnapshot {
		cases, err = catalog.Load(snapshotPath)
		if err != nil {
			return fmt.Errorf("loading snapshot: %w", err)
		}
		logger.Info("loaded snapshot", "path", snapshotPath, "use_cases", len(cases))
	} else {
		cases, err = scrapeCatalog(ctx, cfg.ReadmeURL, snapshotPath, logger)
		if err != nil {
			return err
		}
	}

	if len(cases) == 0 {
		return fmt.Errorf("no use cases found in catalog")
	}
	if setupSkipIndex {
		logger.Info("skipping index build", "snapshot", snapshotPath)
		return nil
	}

	a, err := app.Setup(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			logger.Warn("shutdown error", "error", closeErr)
		}
	}()

	return indexUseCases(ctx, a, cases)
}

// scrapeCatalog fetches, parses, enriches, and snapshots the catalog.
func scrapeCatalog(ctx context.Context, readmeURL, snapshotPath string, logger *slog.Logger) ([]catalog.UseCase, error) {
	scraper := catalog.NewScraper(readmeURL, logger)

	logger.Info("fetching catalog", "url", readmeURL)
	md, err := scraper.FetchReadme(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching catalog: %w", err)
	}

	cases := catalog.EnrichAll(catalog.ParseReadme(md))
	logger.Info("parsed catalog", "use_cases", len(cases))

	if err := catalog.Save(snapshotPath, cases); err != nil {
		return nil, fmt.Errorf("saving snapshot: %w", err)
	}
	logger.Info("saved snapshot", "path", snapshotPath)
	return cases, nil
}

// indexUseCases embeds and upserts every use case, reporting progress.
func indexUseCases(ctx context.Context, a *app.App, cases []catalog.UseCase) error {
	start := time.Now()
	indexed, failed := 0, 0
	ids := catalog.DocumentIDs(cases)

	for i, uc := range cases {
		err := a.Knowledge.Add(ctx, knowledge.Document{
			ID:       ids[i],
			Content:  uc.Document(),
			Metadata: uc.Metadata(),
		})
		if err != nil {
			if ctx.Err() != nil {
				return fmt.Errorf("indexing interrupted: %w", ctx.Err())
			}
			failed++
			a.Logger.Warn("failed to index use case", "title", uc.Title, "error", err)
			continue
		}
		indexed++

		if (i+1)%50 == 0 {
			a.Logger.Info("indexing progress", "done", i+1, "total", len(cases))
		}
	}

	a.Logger.Info("index build complete",
		"indexed", indexed,
		"failed", failed,
		"duration", time.Since(start).Round(time.Millisecond))

	if indexed == 0 {
		return fmt.Errorf("indexing failed for all %d use cases", len(cases))
	}
	return nil
}
