package server

import (
	"net/http"
	"strings"

	"github.com/agentstation/assetmap/internal/server/handlers"
	"github.com/agentstation/assetmap/internal/server/middleware"
	"github.com/agentstation/assetmap/internal/server/response"
)

// setupRouter creates the HTTP handler with routes and middleware.
func (s *Server) setupRouter() http.Handler {
	mux := http.NewServeMux()

	h := handlers.New(
		s.app,
		s.assetmap,
		s.cache,
		s.wsHub,
		s.sseBroadcaster,
		s.upgrader,
		s.logger,
	)

	s.registerRoutes(mux, h)

	return s.applyMiddleware(mux)
}

// registerRoutes registers all HTTP routes.
func (s *Server) registerRoutes(mux *http.ServeMux, h *handlers.Handlers) {
	prefix := s.config.PathPrefix

	mux.HandleFunc("/favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Public health endpoints (no auth required)
	mux.HandleFunc("/health", h.HandleHealth)
	mux.HandleFunc(prefix+"/health", h.HandleHealth)
	mux.HandleFunc(prefix+"/ready", h.HandleReady)

	mux.HandleFunc(prefix+"/reconcile", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			response.MethodNotAllowed(w, r.Method)
			return
		}
		h.HandleReconcile(w, r)
	})

	mux.HandleFunc(prefix+"/snapshots", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			response.MethodNotAllowed(w, r.Method)
			return
		}
		h.HandleListSnapshots(w, r)
	})

	mux.HandleFunc(prefix+"/snapshots/", func(w http.ResponseWriter, r *http.Request) {
		parts := splitPath(strings.TrimPrefix(r.URL.Path, prefix+"/snapshots/"))
		if len(parts) == 0 {
			response.BadRequest(w, "Snapshot ID required", "")
			return
		}
		id := parts[0]

		if len(parts) == 2 && parts[1] == "promote" {
			if r.Method != http.MethodPost {
				response.MethodNotAllowed(w, r.Method)
				return
			}
			h.HandlePromote(w, r, id)
			return
		}

		if r.Method != http.MethodGet {
			response.MethodNotAllowed(w, r.Method)
			return
		}

		if len(parts) == 1 {
			h.HandleGetSnapshot(w, r, id)
			return
		}
		if len(parts) == 2 {
			switch parts[1] {
			case "assets":
				h.HandleAssets(w, r, id)
				return
			case "orphans":
				h.HandleOrphans(w, r, id)
				return
			case "stats":
				h.HandleStats(w, r, id)
				return
			case "options":
				h.HandleOptions(w, r, id)
				return
			case "export.csv":
				h.HandleExportCSV(w, r, id)
				return
			case "report.md":
				h.HandleReport(w, r, id)
				return
			case "narrative":
				h.HandleNarrative(w, r, id)
				return
			}
		}

		response.NotFound(w, "Not found", r.URL.Path)
	})

	mux.HandleFunc(prefix+"/policies", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			response.MethodNotAllowed(w, r.Method)
			return
		}
		h.HandlePolicies(w, r)
	})

	// Real-time endpoints
	mux.HandleFunc(prefix+"/updates/ws", h.HandleWebSocket)
	mux.HandleFunc(prefix+"/updates/stream", h.HandleSSE)
}

// applyMiddleware wraps handler with middleware chain.
func (s *Server) applyMiddleware(handler http.Handler) http.Handler {
	cfg := s.config

	handler = middleware.MaxBytes(cfg.MaxUploadBytes)(handler)

	if cfg.AuthEnabled {
		authConfig := middleware.DefaultAuthConfig(cfg.PathPrefix)
		authConfig.Enabled = true
		authConfig.HeaderName = cfg.AuthHeader
		authConfig.APIKey = cfg.APIKey
		handler = middleware.Auth(authConfig, s.logger)(handler)
	}

	if cfg.CORSEnabled {
		corsConfig := middleware.DefaultCORSConfig()
		if len(cfg.CORSOrigins) > 0 {
			corsConfig.AllowedOrigins = cfg.CORSOrigins
		}
		corsConfig.AllowedHeaders = append(corsConfig.AllowedHeaders, cfg.AuthHeader)
		handler = middleware.CORS(corsConfig)(handler)
	}

	// Logging and recovery (always enabled)
	handler = middleware.Logger(s.logger)(handler)
	handler = middleware.Recovery(s.logger)(handler)

	return handler
}

// splitPath splits a URL path into parts, removing empty strings.
func splitPath(path string) []string {
	parts := []string{}
	for _, part := range strings.Split(path, "/") {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}
