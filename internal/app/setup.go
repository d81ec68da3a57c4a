package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/core/api"
	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/compat_oai/openai"
	"github.com/firebase/genkit/go/plugins/googlegenai"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgxvector "github.com/pgvector/pgvector-go/pgx"

	"github.com/agentscout/agentscout/db"
	"github.com/agentscout/agentscout/internal/agent"
	"github.com/agentscout/agentscout/internal/catalog"
	"github.com/agentscout/agentscout/internal/config"
	"github.com/agentscout/agentscout/internal/knowledge"
	"github.com/agentscout/agentscout/internal/recommend"
)

// Setup creates and initializes the application.
// Returns an App with embedded cleanup; call Close() to release.
func Setup(ctx context.Context, cfg *config.Config, logger *slog.Logger) (_ *App, retErr error) {
	if cfg == nil {
		return nil, config.ErrConfigNil
	}
	if logger == nil {
		logger = slog.Default()
	}

	a := &App{Config: cfg, Logger: logger}

	// On error, clean up everything already initialized
	defer func() {
		if retErr != nil {
			if err := a.Close(); err != nil {
				logger.Warn("cleanup during setup failure", "error", err)
			}
		}
	}()

	pool, err := provideDBPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.Pool = pool

	g, err := provideGenkit(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.Genkit = g

	embedder := provideEmbedder(g, cfg)
	if embedder == nil {
		return nil, fmt.Errorf("embedder %q not found for provider %q", cfg.EmbedderModel, cfg.Provider)
	}
	a.Embedder = embedder

	a.Scraper = catalog.NewScraper(cfg.ReadmeURL, logger)
	a.Knowledge = knowledge.New(knowledge.NewQueries(pool), embedder, logger)
	a.Retriever = recommend.NewRetriever(a.Knowledge, cfg.DefaultTopK, cfg.ScoreThreshold, logger)

	tools, err := provideTools(g, a.Retriever, logger)
	if err != nil {
		return nil, err
	}

	ag, err := agent.New(agent.Config{
		Genkit:      g,
		History:     agent.NewHistoryStore(agent.DefaultMaxConversations, agent.DefaultMaxMessages),
		Logger:      logger,
		Tools:       tools,
		ModelName:   cfg.Provider + "/" + cfg.ModelName,
		Temperature: cfg.Temperature,
		MaxTurns:    cfg.MaxTurns,
	})
	if err != nil {
		return nil, fmt.Errorf("creating agent: %w", err)
	}
	a.Agent = ag
	a.Flow = agent.NewFlow(g, ag)

	return a, nil
}

// provideDBPool runs migrations and creates a PostgreSQL connection pool.
// pgvector types are registered on every new connection so vector columns
// scan into pgvector.Vector.
func provideDBPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	if err := db.Migrate(cfg.PostgresURL()); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.PostgresConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parsing connection config: %w", err)
	}

	poolCfg.MaxConns = 10
	poolCfg.MinConns = 2
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	poolCfg.HealthCheckPeriod = 1 * time.Minute
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvector.RegisterTypes(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return pool, nil
}

// provideGenkit initializes Genkit with the configured AI provider plugin.
// Supports googleai (default) and openai.
func provideGenkit(ctx context.Context, cfg *config.Config) (*genkit.Genkit, error) {
	provider := cfg.Provider
	if provider == "" {
		provider = config.ProviderGoogleAI
	}

	var g *genkit.Genkit

	switch provider {
	case config.ProviderOpenAI:
		g = genkit.Init(ctx, genkit.WithPlugins(&openai.OpenAI{}))
		if g == nil {
			return nil, errors.New("initializing genkit with openai provider")
		}
		slog.Info("initialized Genkit with openai provider", "model", cfg.ModelName)

	case config.ProviderGoogleAI:
		g = genkit.Init(ctx, genkit.WithPlugins(&googlegenai.GoogleAI{}))
		if g == nil {
			return nil, errors.New("initializing genkit with googleai provider")
		}
		slog.Info("initialized Genkit with googleai provider", "model", cfg.ModelName)

	default:
		return nil, fmt.Errorf("%w: %q", config.ErrInvalidProvider, provider)
	}

	return g, nil
}

// provideEmbedder looks up the embedder registered by the AI provider plugin.
// Each provider registers embedders differently:
//   - googleai: GoogleAIEmbedder(g, modelName)
//   - openai: auto-registered in Init(), looked up by model name
func provideEmbedder(g *genkit.Genkit, cfg *config.Config) ai.Embedder {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return genkit.LookupEmbedder(g, api.NewName("openai", cfg.EmbedderModel))
	default:
		return googlegenai.GoogleAIEmbedder(g, cfg.EmbedderModel)
	}
}

// provideTools registers the recommendation tools with Genkit.
func provideTools(g *genkit.Genkit, retriever *recommend.Retriever, logger *slog.Logger) ([]ai.Tool, error) {
	tb, err := agent.NewToolbox(retriever, logger)
	if err != nil {
		return nil, fmt.Errorf("creating toolbox: %w", err)
	}
	tools, err := agent.RegisterTools(g, tb)
	if err != nil {
		return nil, fmt.Errorf("registering tools: %w", err)
	}
	logger.Debug("tools registered", "count", len(tools))
	return tools, nil
}
