package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agentscout/agentscout/internal/agent"
)

// ServerConfig contains configuration for creating the API server.
type ServerConfig struct {
	Logger    *slog.Logger
	Retriever Recommender   // Required
	Flow      *agent.Flow   // Optional: nil disables chat endpoints
	Pool      *pgxpool.Pool // Optional: nil disables pool checks in /ready

	Dashboard   http.Handler // Optional: web UI served at /
	CORSOrigins []string     // Allowed origins for CORS
	IsDev       bool         // Disables HSTS (plain HTTP deployments)
	TrustProxy  bool         // Trust X-Real-IP/X-Forwarded-For headers (behind reverse proxy)
	RateBurst   int          // Rate limiter burst size per IP (0 = default 60)
}

// Server is the JSON API HTTP server.
type Server struct {
	mux *http.ServeMux
}

// NewServer creates a new API server with all routes configured.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Retriever == nil {
		return nil, errors.New("retriever is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()

	// Recommendation search
	sh := &searchHandler{retriever: cfg.Retriever, logger: logger}
	mux.HandleFunc("POST /api/v1/search", sh.search)

	// Catalog metadata
	th := &tagsHandler{retriever: cfg.Retriever, logger: logger}
	mux.HandleFunc("GET /api/v1/industries", th.industries)
	mux.HandleFunc("GET /api/v1/frameworks", th.frameworks)
	mux.HandleFunc("GET /api/v1/stats", th.stats)

	// Chat (skipped when no flow is configured)
	ch := NewChat(cfg.Flow, logger)
	ch.RegisterRoutes(mux)

	// Embedded dashboard
	if cfg.Dashboard != nil {
		mux.Handle("GET /", cfg.Dashboard)
	}

	// Rate limiter: per-IP token bucket (1 token/sec refill)
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 60
	}
	rl := newRateLimiter(1.0, burst)

	// Build middleware stack (outermost first):
	//   Recovery → RequestID → Logging → CORS → RateLimit → Routes
	// RequestID must be before Logging so request_id is available in log attributes.
	// CORS must be before RateLimit so preflight OPTIONS gets proper CORS headers.
	var handler http.Handler = mux
	handler = rateLimitMiddleware(rl, cfg.TrustProxy, logger)(handler)
	handler = corsMiddleware(cfg.CORSOrigins)(handler)
	handler = loggingMiddleware(logger)(handler)
	handler = requestIDMiddleware()(handler)
	handler = recoveryMiddleware(logger)(handler)

	// Wrap with security headers
	isDev := cfg.IsDev
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		setSecurityHeaders(w, isDev)
		handler.ServeHTTP(w, r)
	})

	// Use a top-level mux to separate health probes from middleware stack
	topMux := http.NewServeMux()
	topMux.HandleFunc("GET /health", health)
	topMux.Handle("GET /ready", readiness(cfg.Pool))
	topMux.Handle("/", final)

	return &Server{mux: topMux}, nil
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}
