// Package api - Thin HTTP layer over the pricing engine
// The API is ONLY responsible for input decoding, engine invocation and
// output serialization. It never performs pricing logic.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"doorcost/core/engine"
	"doorcost/core/rules"
)

const maxBodyBytes = 1 << 20

// Config configures the API server
type Config struct {
	Version string
	Table   *rules.Table
	Logger  *zap.Logger
}

// Server is the API server
type Server struct {
	router  chi.Router
	handler *Handler
	version string
	logger  *zap.Logger
}

// NewServer creates a server with its routes registered
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	table := cfg.Table
	if table == nil {
		table = rules.Default()
	}

	s := &Server{
		router:  chi.NewRouter(),
		handler: NewHandler(table, logger),
		version: cfg.Version,
		logger:  logger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(RequestLogger(s.logger))
	s.router.Use(middleware.Recoverer)

	s.router.Get("/health", s.handleHealth)
	s.router.Get("/version", s.handleVersion)

	s.router.Route("/v1", func(r chi.Router) {
		r.Post("/calculate", s.handler.HandleCalculate)
		r.Post("/quote", s.handler.HandleQuote)
		r.Get("/rules", s.handler.HandleRules)
	})
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"status":  "healthy",
		"version": s.version,
		"rules":   s.handler.table.Fingerprint(),
		"time":    time.Now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
}

// handleVersion handles GET /version
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	tags := engine.SupportedLanguages()
	languages := make([]string, 0, len(tags))
	for _, tag := range tags {
		languages = append(languages, tag.String())
	}
	writeJSON(w, map[string]interface{}{
		"version":     s.version,
		"engine":      "doorcost",
		"api_version": "v1",
		"languages":   languages,
	}, http.StatusOK)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// HTTPServer wraps the router in an http.Server with the given timeouts
func (s *Server) HTTPServer(addr string, readTimeout, writeTimeout time.Duration) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       60 * time.Second,
	}
}

func writeJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(data)
}

func writeError(w http.ResponseWriter, code, message string, status int) {
	writeJSON(w, ErrorBody{Error: ErrorDetail{Code: code, Message: message}}, status)
}
