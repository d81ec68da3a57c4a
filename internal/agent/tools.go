package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"

	"github.com/agentscout/agentscout/internal/recommend"
)

// Tool name constants registered with Genkit.
const (
	SearchUseCasesName = "search_use_cases"
	ListIndustriesName = "list_industries"
	ListFrameworksName = "list_frameworks"
)

// MaxToolResults caps the result count a single tool call may request.
const MaxToolResults = 10

// SearchInput defines input for the search_use_cases tool.
type SearchInput struct {
	Query      string `json:"query" jsonschema_description:"Description of what the user is looking for"`
	MaxResults int    `json:"maxResults,omitempty" jsonschema_description:"Maximum number of results to return (1-10, default 5)"`
	Industry   string `json:"industry,omitempty" jsonschema_description:"Optional industry filter, e.g. Healthcare or Finance"`
	Framework  string `json:"framework,omitempty" jsonschema_description:"Optional framework filter, e.g. CrewAI or LangGraph"`
}

// Recommender is the slice of the retrieval layer the tools depend on.
type Recommender interface {
	Recommend(ctx context.Context, query string, opts recommend.Options) ([]recommend.Recommendation, error)
	Industries(ctx context.Context) ([]string, error)
	Frameworks(ctx context.Context) ([]string, error)
}

// Toolbox holds dependencies for the recommendation tool handlers.
type Toolbox struct {
	retriever Recommender
	logger    *slog.Logger
}

// NewToolbox creates a Toolbox.
func NewToolbox(retriever Recommender, logger *slog.Logger) (*Toolbox, error) {
	if retriever == nil {
		return nil, fmt.Errorf("retriever is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Toolbox{retriever: retriever, logger: logger}, nil
}

// RegisterTools registers the recommendation tools with Genkit and returns
// them for use with ai.WithTools.
func RegisterTools(g *genkit.Genkit, tb *Toolbox) ([]ai.Tool, error) {
	if g == nil {
		return nil, fmt.Errorf("genkit instance is required")
	}
	if tb == nil {
		return nil, fmt.Errorf("toolbox is required")
	}

	return []ai.Tool{
		genkit.DefineTool(g, SearchUseCasesName,
			"Search the catalog of AI agent use cases by semantic similarity. "+
				"Returns: matching use cases with industry, framework, complexity, "+
				"GitHub link and relevance score as JSON. "+
				"Use the industry filter for substring matches (e.g. \"health\") and "+
				"the framework filter for exact names (CrewAI, AutoGen, LangGraph, Agno). "+
				"Default maxResults: 5. Maximum: 10.",
			tb.SearchUseCases),
		genkit.DefineTool(g, ListIndustriesName,
			"List every industry tag present in the use-case catalog. "+
				"Use this when the user asks what domains are covered or before "+
				"suggesting an industry filter.",
			tb.ListIndustries),
		genkit.DefineTool(g, ListFrameworksName,
			"List every agent framework present in the use-case catalog. "+
				"Use this when the user asks which frameworks are available.",
			tb.ListFrameworks),
	}, nil
}

// SearchUseCases handles the search_use_cases tool call. Results are
// returned as a JSON string for the model to read.
func (tb *Toolbox) SearchUseCases(ctx *ai.ToolContext, input SearchInput) (string, error) {
	maxResults := input.MaxResults
	if maxResults <= 0 {
		maxResults = 5
	}
	if maxResults > MaxToolResults {
		maxResults = MaxToolResults
	}

	recs, err := tb.retriever.Recommend(ctx, input.Query, recommend.Options{
		TopK:      maxResults,
		Industry:  input.Industry,
		Framework: input.Framework,
	})
	if err != nil {
		tb.logger.Warn("search_use_cases failed", "error", err)
		return "", fmt.Errorf("searching use cases: %w", err)
	}
	if len(recs) == 0 {
		return "[]", nil
	}

	data, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding results: %w", err)
	}
	tb.logger.Debug("tool search completed", "query", input.Query, "results", len(recs))
	return string(data), nil
}

// ListIndustries handles the list_industries tool call.
func (tb *Toolbox) ListIndustries(ctx *ai.ToolContext, _ struct{}) (string, error) {
	industries, err := tb.retriever.Industries(ctx)
	if err != nil {
		return "", fmt.Errorf("listing industries: %w", err)
	}
	return marshalList(industries)
}

// ListFrameworks handles the list_frameworks tool call.
func (tb *Toolbox) ListFrameworks(ctx *ai.ToolContext, _ struct{}) (string, error) {
	frameworks, err := tb.retriever.Frameworks(ctx)
	if err != nil {
		return "", fmt.Errorf("listing frameworks: %w", err)
	}
	return marshalList(frameworks)
}

func marshalList(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("encoding list: %w", err)
	}
	return string(data), nil
}
