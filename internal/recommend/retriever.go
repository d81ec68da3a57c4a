// Package recommend ranks indexed use cases against natural-language
// queries and exports the results.
package recommend

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/agentscout/agentscout/internal/catalog"
	"github.com/agentscout/agentscout/internal/knowledge"
)

// Recommendation is one ranked suggestion returned to callers. JSON field
// names match the API and export formats.
type Recommendation struct {
	Title       string  `json:"use_case"`
	Industry    string  `json:"industry"`
	Framework   string  `json:"framework"`
	Complexity  string  `json:"complexity"`
	Description string  `json:"description"`
	GitHubLink  string  `json:"github_link,omitempty"`
	Relevance   float64 `json:"relevance_score"`
}

// Options narrows a recommendation query. Zero values mean no restriction.
type Options struct {
	TopK       int
	Industry   string // substring match, case-insensitive
	Framework  string // exact match, case-insensitive
	Complexity string // exact match, case-insensitive
}

// Searcher is the slice of the knowledge store the retriever depends on.
type Searcher interface {
	Search(ctx context.Context, query string, opts ...knowledge.SearchOption) ([]knowledge.Result, error)
	Count(ctx context.Context, filter map[string]string) (int, error)
	DistinctMeta(ctx context.Context, key string) ([]string, error)
}

// Retriever turns vector search results into ranked recommendations.
type Retriever struct {
	store          Searcher
	defaultTopK    int
	scoreThreshold float64
	logger         *slog.Logger
}

// NewRetriever creates a Retriever. scoreThreshold drops results whose
// similarity falls below it; 0 keeps everything.
func NewRetriever(store Searcher, defaultTopK int, scoreThreshold float64, logger *slog.Logger) *Retriever {
	if logger == nil {
		logger = slog.Default()
	}
	return &Retriever{
		store:          store,
		defaultTopK:    defaultTopK,
		scoreThreshold: scoreThreshold,
		logger:         logger,
	}
}

// overfetchFactor widens the vector search when post-filters apply, so
// filtering still leaves enough candidates to fill topK.
const overfetchFactor = 4

// Recommend returns the top use cases for the query, ordered by descending
// relevance. Industry filtering is a substring match; framework and
// complexity are exact, all case-insensitive.
func (r *Retriever) Recommend(ctx context.Context, query string, opts Options) ([]Recommendation, error) {
	topK := opts.TopK
	if topK <= 0 {
		topK = r.defaultTopK
	}

	fetchK := topK
	filtered := opts.Industry != "" || opts.Framework != "" || opts.Complexity != ""
	if filtered {
		fetchK = topK * overfetchFactor
	}

	results, err := r.store.Search(ctx, query, knowledge.WithTopK(fetchK))
	if err != nil {
		return nil, fmt.Errorf("searching use cases: %w", err)
	}

	recs := make([]Recommendation, 0, topK)
	for _, res := range results {
		rec := fromResult(res)
		if rec.Relevance < r.scoreThreshold {
			continue
		}
		if !matches(rec, opts) {
			continue
		}
		recs = append(recs, rec)
		if len(recs) == topK {
			break
		}
	}

	r.logger.Debug("recommendations ready",
		"query", query, "candidates", len(results), "returned", len(recs))
	return recs, nil
}

// Industries returns the sorted unique industry tags in the index.
func (r *Retriever) Industries(ctx context.Context) ([]string, error) {
	return r.store.DistinctMeta(ctx, catalog.MetaIndustry)
}

// Frameworks returns the sorted unique framework tags, excluding the
// Unknown placeholder.
func (r *Retriever) Frameworks(ctx context.Context) ([]string, error) {
	values, err := r.store.DistinctMeta(ctx, catalog.MetaFramework)
	if err != nil {
		return nil, err
	}
	out := values[:0]
	for _, v := range values {
		if v != catalog.FrameworkUnknown {
			out = append(out, v)
		}
	}
	return out, nil
}

// Stats summarizes the index contents.
type Stats struct {
	TotalUseCases int            `json:"total_use_cases"`
	Industries    int            `json:"industries"`
	Frameworks    int            `json:"frameworks"`
	ByFramework   map[string]int `json:"by_framework"`
}

// Stats reports index totals and a per-framework breakdown.
func (r *Retriever) Stats(ctx context.Context) (Stats, error) {
	total, err := r.store.Count(ctx, nil)
	if err != nil {
		return Stats{}, fmt.Errorf("counting use cases: %w", err)
	}

	industries, err := r.Industries(ctx)
	if err != nil {
		return Stats{}, err
	}
	frameworks, err := r.Frameworks(ctx)
	if err != nil {
		return Stats{}, err
	}

	byFramework := make(map[string]int, len(frameworks))
	for _, fw := range frameworks {
		n, err := r.store.Count(ctx, map[string]string{catalog.MetaFramework: fw})
		if err != nil {
			return Stats{}, fmt.Errorf("counting %s use cases: %w", fw, err)
		}
		byFramework[fw] = n
	}

	return Stats{
		TotalUseCases: total,
		Industries:    len(industries),
		Frameworks:    len(frameworks),
		ByFramework:   byFramework,
	}, nil
}

func fromResult(res knowledge.Result) Recommendation {
	meta := res.Document.Metadata
	framework := meta[catalog.MetaFramework]
	if framework == "" {
		framework = catalog.FrameworkUnknown
	}
	complexity := meta[catalog.MetaComplexity]
	if complexity == "" {
		complexity = catalog.ComplexityMedium
	}
	return Recommendation{
		Title:       meta[catalog.MetaTitle],
		Industry:    meta[catalog.MetaIndustry],
		Framework:   framework,
		Complexity:  complexity,
		Description: meta[catalog.MetaDescription],
		GitHubLink:  meta[catalog.MetaGitHubLink],
		Relevance:   res.Similarity,
	}
}

func matches(rec Recommendation, opts Options) bool {
	if opts.Industry != "" &&
		!strings.Contains(strings.ToLower(rec.Industry), strings.ToLower(opts.Industry)) {
		return false
	}
	if opts.Framework != "" && !strings.EqualFold(rec.Framework, opts.Framework) {
		return false
	}
	if opts.Complexity != "" && !strings.EqualFold(rec.Complexity, opts.Complexity) {
		return false
	}
	return true
}
