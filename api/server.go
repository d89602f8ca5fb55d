// Package api provides the HTTP surface over the matching engine. The
// engine itself stays pure; this layer owns the served catalog reference
// and swaps it atomically on refresh so no request ever observes a
// partially updated catalog.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"buildmatch/analysis"
	"buildmatch/catalog"
	"buildmatch/db/clickhouse"
	"buildmatch/match"
)

const version = "1.0.0"

// Config holds server configuration.
type Config struct {
	Port           int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxRequestSize int64
}

// DefaultConfig returns the default server configuration.
func DefaultConfig() *Config {
	return &Config{
		Port:           8080,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   60 * time.Second,
		MaxRequestSize: 10 * 1024 * 1024, // 10MB
	}
}

// Server is the HTTP API server.
type Server struct {
	httpServer *http.Server
	store      *clickhouse.Store // optional; nil when serving a file catalog
	matcher    *match.Matcher
	config     *Config
	log        zerolog.Logger
	startTime  time.Time

	// served catalog, replaced wholesale on refresh
	catalog atomic.Pointer[[]catalog.Product]
}

// NewServer creates an API server. The store may be nil; in that case the
// catalog must be seeded with SetCatalog and refresh is unavailable.
func NewServer(store *clickhouse.Store, matcher *match.Matcher, config *Config, log zerolog.Logger) *Server {
	if config == nil {
		config = DefaultConfig()
	}
	s := &Server{
		store:     store,
		matcher:   matcher,
		config:    config,
		log:       log,
		startTime: time.Now(),
	}
	empty := []catalog.Product{}
	s.catalog.Store(&empty)
	return s
}

// SetCatalog replaces the served catalog. Requests already holding the old
// slice keep it; new requests see the new one.
func (s *Server) SetCatalog(products []catalog.Product) {
	s.catalog.Store(&products)
}

// Catalog returns the currently served catalog snapshot.
func (s *Server) Catalog() []catalog.Product {
	return *s.catalog.Load()
}

// RefreshCatalog reloads the active snapshot from the store and swaps it in.
func (s *Server) RefreshCatalog(ctx context.Context) (int, error) {
	if s.store == nil {
		return 0, fmt.Errorf("no catalog store configured")
	}
	products, err := s.store.LoadActiveCatalog(ctx)
	if err != nil {
		return 0, err
	}
	s.SetCatalog(products)
	return len(products), nil
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", s.handleHealth)
	r.Get("/health/ready", s.handleReady)
	r.Get("/version", s.handleVersion)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/match", s.handleMatch)
		r.Post("/analyze", s.handleAnalyze)
		r.Post("/catalog/refresh", s.handleCatalogRefresh)
		r.Get("/catalog/snapshots", s.handleListSnapshots)
	})

	return r
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.routes(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.log.Info().
		Int("port", s.config.Port).
		Str("version", version).
		Int("catalog_size", len(s.Catalog())).
		Msg("starting buildmatch API server")

	return s.httpServer.ListenAndServe()
}

// StartWithGracefulShutdown starts the server and drains it on SIGINT/SIGTERM.
func (s *Server) StartWithGracefulShutdown() error {
	errChan := make(chan error, 1)
	go func() {
		if err := s.Start(); err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case <-quit:
		s.log.Info().Msg("shutting down server")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(ctx)
	}
}

// =============================================================================
// HANDLERS
// =============================================================================

// MatchRequest is the request body for both match and analyze. Products are
// optional; when omitted the server's catalog is used.
type MatchRequest struct {
	Spec     match.ProjectSpec `json:"spec"`
	Products []catalog.Product `json:"products,omitempty"`
}

// MatchResponse is the ranked match list.
type MatchResponse struct {
	Matches []match.Result `json:"matches"`
	Total   int            `json:"total"`
}

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeMatchRequest(w, r)
	if !ok {
		return
	}

	products := req.Products
	if products == nil {
		products = s.Catalog()
	}

	matches := s.matcher.FindMatches(products, req.Spec)
	s.jsonResponse(w, http.StatusOK, MatchResponse{Matches: matches, Total: len(matches)})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeMatchRequest(w, r)
	if !ok {
		return
	}

	products := req.Products
	if products == nil {
		products = s.Catalog()
	}

	matches := s.matcher.FindMatches(products, req.Spec)
	s.jsonResponse(w, http.StatusOK, analysis.Analyze(matches, req.Spec))
}

func (s *Server) handleCatalogRefresh(w http.ResponseWriter, r *http.Request) {
	n, err := s.RefreshCatalog(r.Context())
	if err != nil {
		s.jsonError(w, http.StatusServiceUnavailable, fmt.Sprintf("catalog refresh failed: %v", err))
		return
	}
	s.log.Info().Int("products", n).Msg("catalog refreshed")
	s.jsonResponse(w, http.StatusOK, map[string]any{"products": n})
}

func (s *Server) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.jsonError(w, http.StatusNotImplemented, "no catalog store configured")
		return
	}
	snapshots, err := s.store.ListSnapshots(r.Context())
	if err != nil {
		s.jsonError(w, http.StatusInternalServerError, fmt.Sprintf("failed to list snapshots: %v", err))
		return
	}

	type snapshotResponse struct {
		ID           string `json:"id"`
		Source       string `json:"source"`
		Hash         string `json:"hash"`
		ProductCount int    `json:"product_count"`
		IsActive     bool   `json:"is_active"`
		FetchedAt    string `json:"fetched_at"`
		CreatedAt    string `json:"created_at"`
	}
	resp := make([]snapshotResponse, len(snapshots))
	for i, snap := range snapshots {
		resp[i] = snapshotResponse{
			ID:           snap.ID.String(),
			Source:       snap.Source,
			Hash:         snap.Hash,
			ProductCount: snap.ProductCount,
			IsActive:     snap.IsActive,
			FetchedAt:    snap.FetchedAt.Format(time.RFC3339),
			CreatedAt:    snap.CreatedAt.Format(time.RFC3339),
		}
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"service": "buildmatch-api",
		"version": version,
		"uptime":  time.Since(s.startTime).String(),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		if err := s.store.Ping(ctx); err != nil {
			s.jsonError(w, http.StatusServiceUnavailable, "catalog store not ready")
			return
		}
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"version": version,
		"service": "buildmatch-api",
	})
}

// =============================================================================
// HELPERS
// =============================================================================

func (s *Server) decodeMatchRequest(w http.ResponseWriter, r *http.Request) (MatchRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxRequestSize)

	var req MatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.jsonError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return MatchRequest{}, false
	}
	if req.Spec.DestinationRegion == "" {
		s.jsonError(w, http.StatusBadRequest, "spec.destination_region is required")
		return MatchRequest{}, false
	}
	return req, true
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (s *Server) jsonError(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
