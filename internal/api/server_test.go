package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/agentscout/agentscout/internal/log"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	srv, err := NewServer(ServerConfig{
		Logger:    log.NewNop(),
		Retriever: &mockRecommender{},
		IsDev:     true,
	})
	if err != nil {
		t.Fatal(err)
	}
	return srv
}

func TestNewServer_RequiresRetriever(t *testing.T) {
	if _, err := NewServer(ServerConfig{Logger: log.NewNop()}); err == nil {
		t.Error("NewServer without retriever = nil, want error")
	}
}

func TestRouteRegistration(t *testing.T) {
	srv := newTestServer(t)

	routes := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodPost, "/api/v1/search", `{"query":"q"}`},
		{http.MethodGet, "/api/v1/industries", ""},
		{http.MethodGet, "/api/v1/frameworks", ""},
		{http.MethodGet, "/api/v1/stats", ""},
		{http.MethodGet, "/health", ""},
		{http.MethodGet, "/ready", ""},
	}

	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(rt.method, rt.path, strings.NewReader(rt.body))
			srv.Handler().ServeHTTP(w, r)

			if w.Code == http.StatusNotFound {
				t.Errorf("%s %s not registered", rt.method, rt.path)
			}
		})
	}
}

func TestChatRoutes_NotRegisteredWithoutFlow(t *testing.T) {
	srv := newTestServer(t)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(`{"message":"hi"}`))
	srv.Handler().ServeHTTP(w, r)

	if w.Code != http.StatusNotFound {
		t.Errorf("chat without flow status = %d, want 404", w.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Errorf("health status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Errorf("health body = %s", w.Body.String())
	}
}

func TestReadyEndpoint_NilPool(t *testing.T) {
	srv := newTestServer(t)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

	if w.Code != http.StatusOK {
		t.Errorf("ready status = %d", w.Code)
	}
}

func TestHealthBypassesRateLimit(t *testing.T) {
	srv, err := NewServer(ServerConfig{
		Logger:    log.NewNop(),
		Retriever: &mockRecommender{},
		RateBurst: 1,
		IsDev:     true,
	})
	if err != nil {
		t.Fatal(err)
	}

	// Exhaust the single token on an API route.
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil))

	// Health probes must not be rate limited.
	for range 5 {
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("health status = %d, want 200", w.Code)
		}
	}
}

func TestAPIResponsesCarryRequestID(t *testing.T) {
	srv := newTestServer(t)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil))

	if w.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header not set on API response")
	}
}

func TestAPIResponsesCarrySecurityHeaders(t *testing.T) {
	srv := newTestServer(t)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil))

	if w.Header().Get("X-Frame-Options") != "DENY" {
		t.Errorf("X-Frame-Options = %q", w.Header().Get("X-Frame-Options"))
	}
}
