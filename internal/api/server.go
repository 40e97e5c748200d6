// Package api exposes the analysis operations over HTTP.
//
// All package routes live under /api/v1/npm and answer JSON. Scoped
// packages are addressed either as two path segments (/analyze/@babel/core)
// or as one escaped segment (/analyze/@babel%2Fcore). The version comes
// from the optional ?version= query parameter and defaults to "latest".
package api

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/stacklens/pkg/analysis"
	"github.com/matzehuels/stacklens/pkg/cache"
	"github.com/matzehuels/stacklens/pkg/deps"
	"github.com/matzehuels/stacklens/pkg/registry"
)

// Prefix is the mount point of the package routes.
const Prefix = "/api/v1/npm"

const (
	maxBodyBytes    = 1 << 20
	maxBatchSize    = 50
	shutdownTimeout = 10 * time.Second
)

// Analyzer is the subset of [analysis.Aggregator] the handlers call.
type Analyzer interface {
	AnalyzePackage(ctx context.Context, name, version string) (*analysis.Report, error)
	AnalyzePackageJSON(ctx context.Context, content []byte) (*analysis.Report, error)
	AnalyzeMultiplePackages(ctx context.Context, names []string) []*analysis.Report
	ComparePackages(ctx context.Context, names []string) map[string]*analysis.Report
	BuildDependencyTree(ctx context.Context, name, version string) (*deps.Node, error)
	AnalyzeBundleSize(ctx context.Context, name, version string) analysis.BundleSizeInfo
	AnalyzeSecurityIssues(ctx context.Context, name, version string) (analysis.SecurityInfo, error)
	GetOptimizationSuggestions(ctx context.Context, name, version string) ([]analysis.Suggestion, error)
	FindAlternatives(ctx context.Context, name string) ([]registry.Alternative, error)
}

// Lookup serves the raw registry endpoints.
type Lookup interface {
	SearchPackages(ctx context.Context, query string, limit int) []registry.SearchResult
	PackageInfo(ctx context.Context, name string) registry.Metadata
	DownloadStats(ctx context.Context, name string) registry.Downloads
}

var (
	_ Analyzer = (*analysis.Aggregator)(nil)
	_ Lookup   = (*registry.Client)(nil)
)

// Server routes HTTP requests to the analyzer.
type Server struct {
	analyzer Analyzer
	lookup   Lookup
	cache    *cache.Manager
	logger   *log.Logger
	router   chi.Router
}

// New creates a Server. cm may be nil, in which case /cache/stats reports
// no stores.
func New(analyzer Analyzer, lookup Lookup, cm *cache.Manager, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Server{
		analyzer: analyzer,
		lookup:   lookup,
		cache:    cm,
		logger:   logger,
	}
	s.router = s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID, s.logRequests, s.recoverPanics)

	r.Get("/healthz", s.handleHealth)
	r.Get("/cache/stats", s.handleCacheStats)

	r.Route(Prefix, func(r chi.Router) {
		r.Post("/analyze/package-json", s.handleAnalyzeManifest)
		r.Post("/analyze/upload", s.handleAnalyzeUpload)
		r.Post("/analyze/batch", s.handleAnalyzeBatch)
		r.Post("/compare", s.handleCompare)
		r.Get("/search", s.handleSearch)

		packageRoute(r, "/analyze", s.handleAnalyze)
		packageRoute(r, "/dependency-tree", s.handleDependencyTree)
		packageRoute(r, "/bundle-size", s.handleBundleSize)
		packageRoute(r, "/security", s.handleSecurity)
		packageRoute(r, "/alternatives", s.handleAlternatives)
		packageRoute(r, "/optimizations", s.handleOptimizations)
		packageRoute(r, "/package-info", s.handlePackageInfo)
		packageRoute(r, "/download-stats", s.handleDownloadStats)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Code: "NOT_FOUND", Message: "no route for " + r.URL.Path})
	})
	return r
}

// packageRoute registers h for both the plain and the scoped form.
func packageRoute(r chi.Router, prefix string, h http.HandlerFunc) {
	r.Get(prefix+"/{name}", h)
	r.Get(prefix+"/{scope}/{name}", h)
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
