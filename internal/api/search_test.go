package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentscout/agentscout/internal/log"
	"github.com/agentscout/agentscout/internal/recommend"
)

// mockRecommender implements Recommender for handler tests.
type mockRecommender struct {
	recs       []recommend.Recommendation
	industries []string
	frameworks []string
	stats      recommend.Stats
	err        error

	lastQuery string
	lastOpts  recommend.Options
}

func (m *mockRecommender) Recommend(_ context.Context, query string, opts recommend.Options) ([]recommend.Recommendation, error) {
	m.lastQuery = query
	m.lastOpts = opts
	return m.recs, m.err
}

func (m *mockRecommender) Industries(context.Context) ([]string, error) {
	return m.industries, m.err
}

func (m *mockRecommender) Frameworks(context.Context) ([]string, error) {
	return m.frameworks, m.err
}

func (m *mockRecommender) Stats(context.Context) (recommend.Stats, error) {
	return m.stats, m.err
}

func postSearch(t *testing.T, h *searchHandler, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/v1/search", bytes.NewReader(raw))
	h.search(w, r)
	return w
}

func TestSearch(t *testing.T) {
	rec := &mockRecommender{recs: []recommend.Recommendation{
		{Title: "Fraud Detection Agent", Industry: "Finance", Framework: "CrewAI", Relevance: 0.91},
	}}
	h := &searchHandler{retriever: rec, logger: log.NewNop()}

	w := postSearch(t, h, SearchRequest{
		Query:      "detect credit card fraud",
		MaxResults: 3,
		Industry:   "finance",
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp SearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "detect credit card fraud", resp.Query)
	assert.Equal(t, 1, resp.Total)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "Fraud Detection Agent", resp.Results[0].Title)

	assert.Equal(t, 3, rec.lastOpts.TopK)
	assert.Equal(t, "finance", rec.lastOpts.Industry)
}

func TestSearch_MissingQuery(t *testing.T) {
	h := &searchHandler{retriever: &mockRecommender{}, logger: log.NewNop()}

	w := postSearch(t, h, SearchRequest{Query: "   "})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "missing_query", resp.Error.Code)
}

func TestSearch_InvalidBody(t *testing.T) {
	h := &searchHandler{retriever: &mockRecommender{}, logger: log.NewNop()}

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/v1/search", strings.NewReader("{not json"))
	h.search(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearch_MaxResultsOutOfRange(t *testing.T) {
	h := &searchHandler{retriever: &mockRecommender{}, logger: log.NewNop()}

	w := postSearch(t, h, SearchRequest{Query: "q", MaxResults: 100})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearch_RetrieverError(t *testing.T) {
	h := &searchHandler{
		retriever: &mockRecommender{err: errors.New("pg down")},
		logger:    log.NewNop(),
	}

	w := postSearch(t, h, SearchRequest{Query: "q"})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestSearch_Timeout(t *testing.T) {
	h := &searchHandler{
		retriever: &mockRecommender{err: context.DeadlineExceeded},
		logger:    log.NewNop(),
	}

	w := postSearch(t, h, SearchRequest{Query: "q"})

	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
}

func TestSearch_EmptyResultsMarshalAsArray(t *testing.T) {
	h := &searchHandler{retriever: &mockRecommender{}, logger: log.NewNop()}

	w := postSearch(t, h, SearchRequest{Query: "nothing"})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"results":[]`)
}

func TestTags(t *testing.T) {
	rec := &mockRecommender{
		industries: []string{"Finance", "Healthcare"},
		frameworks: []string{"AutoGen", "CrewAI"},
		stats: recommend.Stats{
			TotalUseCases: 500,
			Industries:    2,
			Frameworks:    2,
			ByFramework:   map[string]int{"CrewAI": 40},
		},
	}
	h := &tagsHandler{retriever: rec, logger: log.NewNop()}

	t.Run("industries", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.industries(w, httptest.NewRequest(http.MethodGet, "/api/v1/industries", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var resp map[string][]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, []string{"Finance", "Healthcare"}, resp["industries"])
	})

	t.Run("frameworks", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.frameworks(w, httptest.NewRequest(http.MethodGet, "/api/v1/frameworks", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var resp map[string][]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, []string{"AutoGen", "CrewAI"}, resp["frameworks"])
	})

	t.Run("stats", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.stats(w, httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var stats recommend.Stats
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
		assert.Equal(t, 500, stats.TotalUseCases)
		assert.Equal(t, 40, stats.ByFramework["CrewAI"])
	})
}

func TestTags_EmptyListsMarshalAsArrays(t *testing.T) {
	h := &tagsHandler{retriever: &mockRecommender{}, logger: log.NewNop()}

	w := httptest.NewRecorder()
	h.industries(w, httptest.NewRequest(http.MethodGet, "/api/v1/industries", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"industries":[]`)
}
