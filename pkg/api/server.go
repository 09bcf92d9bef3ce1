package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/platinummonkey/snippetgen/pkg/generator"
	"github.com/platinummonkey/snippetgen/pkg/observability"
	"github.com/platinummonkey/snippetgen/pkg/storage"
)

// Server represents our API server
type Server struct {
	gen       *generator.Generator
	genConfig *generator.Config
	storage   storage.Storage
	router    *mux.Router
	logger    *observability.Logger
	metrics   *observability.Metrics
}

// NewServer creates a new API server. storage may be nil, in which case
// persistence endpoints respond 503; metrics may be nil to disable the
// metrics endpoint and instrumentation.
func NewServer(gen *generator.Generator, genConfig *generator.Config, store storage.Storage, logger *observability.Logger, metrics *observability.Metrics) *Server {
	if logger == nil {
		logger = observability.NewLogger(observability.InfoLevel, nil)
	}

	s := &Server{
		gen:       gen,
		genConfig: genConfig,
		storage:   store,
		router:    mux.NewRouter(),
		logger:    logger,
		metrics:   metrics,
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all the API routes
func (s *Server) setupRoutes() {
	// Snippet generation routes
	s.router.HandleFunc("/api/v1/snippets/generate", s.generateSnippets).Methods("POST")
	s.router.HandleFunc("/api/v1/snippets", s.listSnippets).Methods("GET")
	s.router.HandleFunc("/api/v1/snippets/{filename}", s.getSnippet).Methods("GET")

	// Health route
	s.router.HandleFunc("/healthz", s.health).Methods("GET")

	// Metrics route
	if s.metrics != nil {
		s.router.Handle("/metrics", s.metrics.Handler()).Methods("GET")
	}
}

// ServeHTTP implements http.Handler with the middleware chain applied
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	handler := s.requestIDMiddleware(s.loggingMiddleware(s.metricsMiddleware(s.router)))
	handler.ServeHTTP(w, r)
}

// health responds to liveness probes
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError writes a JSON error response
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
