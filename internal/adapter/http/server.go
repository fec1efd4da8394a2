package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/oregon-fire-report/internal/chart"
	"github.com/couchcryptid/oregon-fire-report/internal/dashboard"
)

// Dashboard is the interactive state the server exposes.
type Dashboard interface {
	sharedobs.ReadinessChecker
	Options() dashboard.Options
	Current(ctx context.Context) (dashboard.Render, error)
	Apply(ctx context.Context, change dashboard.Change) (dashboard.Render, error)
}

// Server serves the dashboard page and its JSON API, plus health, readiness,
// and metrics endpoints.
type Server struct {
	httpServer *http.Server
	dash       Dashboard
	logger     *slog.Logger
}

// NewServer creates the dashboard HTTP server.
func NewServer(addr string, dash Dashboard, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		dash:   dash,
		logger: logger,
	}

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /api/options", s.handleOptions)
	mux.HandleFunc("GET /api/figure", s.handleFigure)
	mux.HandleFunc("POST /api/selection", s.handleSelection)
	mux.HandleFunc("GET /chart.png", s.handleChart)

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(dash))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleOptions(w http.ResponseWriter, _ *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, s.dash.Options())
}

func (s *Server) handleFigure(w http.ResponseWriter, r *http.Request) {
	render, err := s.dash.Current(r.Context())
	if err != nil {
		s.unavailable(w, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, render)
}

func (s *Server) handleSelection(w http.ResponseWriter, r *http.Request) {
	var change dashboard.Change
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4<<10)).Decode(&change); err != nil {
		sharedobs.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed change: " + err.Error()})
		return
	}

	render, err := s.dash.Apply(r.Context(), change)
	switch {
	case errors.Is(err, dashboard.ErrInvalidSelection):
		sharedobs.WriteJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error(), "figure": render})
	case err != nil:
		s.unavailable(w, err)
	default:
		sharedobs.WriteJSON(w, http.StatusOK, render)
	}
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	render, err := s.dash.Current(r.Context())
	if err != nil {
		s.unavailable(w, err)
		return
	}

	var buf bytes.Buffer
	if err := chart.DashboardBars(render).Render(&buf); err != nil {
		s.logger.Error("dashboard chart render failed", "error", err)
		http.Error(w, "chart render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes()) //nolint:errcheck // client went away
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	render, err := s.dash.Current(r.Context())
	if err != nil {
		s.unavailable(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, indexData{Options: s.dash.Options(), Figure: render}); err != nil {
		s.logger.Error("index render failed", "error", err)
	}
}

func (s *Server) unavailable(w http.ResponseWriter, err error) {
	s.logger.Warn("dashboard unavailable", "error", err)
	sharedobs.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
}
