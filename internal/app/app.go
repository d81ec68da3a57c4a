// Package app wires the application together: database pool, Genkit,
// knowledge store, retriever, and the conversational agent.
package app

import (
	"log/slog"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agentscout/agentscout/internal/agent"
	"github.com/agentscout/agentscout/internal/catalog"
	"github.com/agentscout/agentscout/internal/config"
	"github.com/agentscout/agentscout/internal/knowledge"
	"github.com/agentscout/agentscout/internal/recommend"
)

// App is the core application container.
type App struct {
	Config *config.Config
	Logger *slog.Logger

	Genkit   *genkit.Genkit
	Embedder ai.Embedder
	Pool     *pgxpool.Pool

	Scraper   *catalog.Scraper
	Knowledge *knowledge.Store
	Retriever *recommend.Retriever
	Agent     *agent.Agent
	Flow      *agent.Flow
}

// Close releases application resources.
func (a *App) Close() error {
	if a.Pool != nil {
		a.Pool.Close()
		a.Logger.Debug("database pool closed")
	}
	return nil
}
