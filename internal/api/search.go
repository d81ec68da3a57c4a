package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/agentscout/agentscout/internal/recommend"
)

// maxRequestBody limits JSON request bodies to 1MB.
const maxRequestBody = 1 << 20

// maxSearchResults caps the number of recommendations a single search
// request may ask for.
const maxSearchResults = 20

// Recommender is the slice of the retriever the API depends on.
type Recommender interface {
	Recommend(ctx context.Context, query string, opts recommend.Options) ([]recommend.Recommendation, error)
	Industries(ctx context.Context) ([]string, error)
	Frameworks(ctx context.Context) ([]string, error)
	Stats(ctx context.Context) (recommend.Stats, error)
}

type searchHandler struct {
	retriever Recommender
	logger    *slog.Logger
}

// SearchRequest is the payload for POST /api/v1/search.
type SearchRequest struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results,omitempty"`
	Industry   string `json:"industry,omitempty"`
	Framework  string `json:"framework,omitempty"`
	Complexity string `json:"complexity,omitempty"`
}

// SearchResponse is the payload returned by POST /api/v1/search.
type SearchResponse struct {
	Query   string                     `json:"query"`
	Results []recommend.Recommendation `json:"results"`
	Total   int                        `json:"total"`
}

func (h *searchHandler) search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", "invalid request body", h.logger)
		return
	}

	if strings.TrimSpace(req.Query) == "" {
		WriteError(w, http.StatusBadRequest, "missing_query", "query is required", h.logger)
		return
	}
	if req.MaxResults < 0 || req.MaxResults > maxSearchResults {
		WriteError(w, http.StatusBadRequest, "invalid_max_results", "max_results must be between 0 and 20", h.logger)
		return
	}

	recs, err := h.retriever.Recommend(r.Context(), req.Query, recommend.Options{
		TopK:       req.MaxResults,
		Industry:   req.Industry,
		Framework:  req.Framework,
		Complexity: req.Complexity,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			WriteError(w, http.StatusGatewayTimeout, "search_timeout", "search timed out", h.logger)
			return
		}
		h.logger.Error("search failed", "query", req.Query, "error", err)
		WriteError(w, http.StatusInternalServerError, "search_failed", "search failed", h.logger)
		return
	}

	if recs == nil {
		recs = []recommend.Recommendation{}
	}
	WriteJSON(w, http.StatusOK, SearchResponse{
		Query:   req.Query,
		Results: recs,
		Total:   len(recs),
	})
}
