// Package server serves a rendered site for local preview: static files,
// a JSON search endpoint backed by the build's search index, health, and
// Prometheus metrics.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"git.home.luguber.info/inful/mdsite/internal/search"
)

// Server is the preview HTTP server.
type Server struct {
	addr    string
	siteDir string
	index   *search.Index // nil disables /search
	metrics *Metrics
	httpSrv *http.Server
}

// New creates a preview server for the site in siteDir.
func New(addr, siteDir string, index *search.Index, metrics *Metrics) *Server {
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	s := &Server{addr: addr, siteDir: siteDir, index: index, metrics: metrics}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/search", s.handleSearch)
	mux.Handle("/", http.FileServer(http.Dir(siteDir)))

	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           metrics.instrument(mux),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Metrics returns the server's metric instruments so the build loop can
// record outcomes on the same registry.
func (s *Server) Metrics() *Metrics { return s.metrics }

// Handler exposes the full route table, mainly for tests.
func (s *Server) Handler() http.Handler { return s.httpSrv.Handler }

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("Preview server listening", "addr", s.addr, "dir", s.siteDir)
		errCh <- s.httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpSrv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if s.index == nil {
		http.Error(w, "search index not enabled", http.StatusNotFound)
		return
	}
	q := r.URL.Query().Get("q")
	if q == "" {
		http.Error(w, "missing query parameter q", http.StatusBadRequest)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	hits, err := s.index.Search(r.Context(), q, limit)
	if err != nil {
		slog.Error("Search query failed", "query", q, "error", err)
		http.Error(w, "search failed", http.StatusInternalServerError)
		return
	}
	if hits == nil {
		hits = []search.Hit{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"query": q, "hits": hits})
}
