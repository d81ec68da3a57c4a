package api

import (
	"log/slog"
	"net/http"
)

// tagsHandler serves catalog metadata: the industry and framework tags
// present in the index, and aggregate index stats.
type tagsHandler struct {
	retriever Recommender
	logger    *slog.Logger
}

func (h *tagsHandler) industries(w http.ResponseWriter, r *http.Request) {
	values, err := h.retriever.Industries(r.Context())
	if err != nil {
		h.logger.Error("listing industries", "error", err)
		WriteError(w, http.StatusInternalServerError, "list_failed", "failed to list industries", h.logger)
		return
	}
	if values == nil {
		values = []string{}
	}
	WriteJSON(w, http.StatusOK, map[string]any{"industries": values})
}

func (h *tagsHandler) frameworks(w http.ResponseWriter, r *http.Request) {
	values, err := h.retriever.Frameworks(r.Context())
	if err != nil {
		h.logger.Error("listing frameworks", "error", err)
		WriteError(w, http.StatusInternalServerError, "list_failed", "failed to list frameworks", h.logger)
		return
	}
	if values == nil {
		values = []string{}
	}
	WriteJSON(w, http.StatusOK, map[string]any{"frameworks": values})
}

func (h *tagsHandler) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.retriever.Stats(r.Context())
	if err != nil {
		h.logger.Error("computing stats", "error", err)
		WriteError(w, http.StatusInternalServerError, "stats_failed", "failed to compute stats", h.logger)
		return
	}
	WriteJSON(w, http.StatusOK, stats)
}
