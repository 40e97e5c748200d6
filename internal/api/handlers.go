package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/stacklens/pkg/analysis"
	"github.com/matzehuels/stacklens/pkg/buildinfo"
	perrors "github.com/matzehuels/stacklens/pkg/errors"
)

const (
	defaultSearchLimit = 10
	maxSearchLimit     = 250
)

// =============================================================================
// Analysis
// =============================================================================

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	name, version, err := packageRef(r)
	if err != nil {
		writeError(w, err)
		return
	}
	report, err := s.analyzer.AnalyzePackage(r.Context(), name, version)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleAnalyzeManifest(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, perrors.Wrap(perrors.ErrCodeInvalidInput, err, "request body too large or unreadable"))
		return
	}
	s.analyzeManifest(w, r, body)
}

func (s *Server) handleAnalyzeUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, perrors.Wrap(perrors.ErrCodeInvalidInput, err, "expected a package.json upload in field \"file\""))
		return
	}
	defer file.Close()

	body, err := io.ReadAll(file)
	if err != nil {
		writeError(w, perrors.Wrap(perrors.ErrCodeInvalidInput, err, "upload unreadable"))
		return
	}
	s.analyzeManifest(w, r, body)
}

func (s *Server) analyzeManifest(w http.ResponseWriter, r *http.Request, body []byte) {
	report, err := s.analyzer.AnalyzePackageJSON(r.Context(), body)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleAnalyzeBatch(w http.ResponseWriter, r *http.Request) {
	names, err := decodeNames(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.analyzer.AnalyzeMultiplePackages(r.Context(), names))
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	names, err := decodeNames(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.analyzer.ComparePackages(r.Context(), names))
}

func (s *Server) handleDependencyTree(w http.ResponseWriter, r *http.Request) {
	name, version, err := packageRef(r)
	if err != nil {
		writeError(w, err)
		return
	}
	tree, err := s.analyzer.BuildDependencyTree(r.Context(), name, version)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tree)
}

func (s *Server) handleBundleSize(w http.ResponseWriter, r *http.Request) {
	name, version, err := packageRef(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.analyzer.AnalyzeBundleSize(r.Context(), name, version))
}

func (s *Server) handleSecurity(w http.ResponseWriter, r *http.Request) {
	name, version, err := packageRef(r)
	if err != nil {
		writeError(w, err)
		return
	}
	info, err := s.analyzer.AnalyzeSecurityIssues(r.Context(), name, version)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleAlternatives(w http.ResponseWriter, r *http.Request) {
	name, _, err := packageRef(r)
	if err != nil {
		writeError(w, err)
		return
	}
	alts, err := s.analyzer.FindAlternatives(r.Context(), name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, alts)
}

func (s *Server) handleOptimizations(w http.ResponseWriter, r *http.Request) {
	name, version, err := packageRef(r)
	if err != nil {
		writeError(w, err)
		return
	}
	suggestions, err := s.analyzer.GetOptimizationSuggestions(r.Context(), name, version)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, suggestions)
}

// =============================================================================
// Registry
// =============================================================================

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := q.Get("query")
	if query == "" {
		writeError(w, perrors.New(perrors.ErrCodeInvalidInput, "query parameter is required"))
		return
	}
	limit := defaultSearchLimit
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxSearchLimit {
			writeError(w, perrors.New(perrors.ErrCodeInvalidInput, "limit must be between 1 and %d", maxSearchLimit))
			return
		}
		limit = n
	}
	writeJSON(w, http.StatusOK, s.lookup.SearchPackages(r.Context(), query, limit))
}

func (s *Server) handlePackageInfo(w http.ResponseWriter, r *http.Request) {
	name, _, err := packageRef(r)
	if err != nil {
		writeError(w, err)
		return
	}
	info := s.lookup.PackageInfo(r.Context(), name)
	if info.IsEmpty() {
		writeError(w, perrors.New(perrors.ErrCodeNotFound, "package %q not found", name))
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleDownloadStats(w http.ResponseWriter, r *http.Request) {
	name, _, err := packageRef(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.lookup.DownloadStats(r.Context(), name))
}

// =============================================================================
// Operational
// =============================================================================

type storeStats struct {
	Hits      uint64  `json:"hits"`
	Misses    uint64  `json:"misses"`
	Evictions uint64  `json:"evictions"`
	Size      int     `json:"size"`
	HitRate   float64 `json:"hitRate"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Get().Version})
}

func (s *Server) handleCacheStats(w http.ResponseWriter, _ *http.Request) {
	out := map[string]storeStats{}
	if s.cache != nil {
		for name, st := range s.cache.Stats() {
			out[name] = storeStats{
				Hits:      st.Hits,
				Misses:    st.Misses,
				Evictions: st.Evictions,
				Size:      st.Size,
				HitRate:   st.HitRate(),
			}
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// =============================================================================
// Request parsing
// =============================================================================

// packageRef extracts and validates the package name and ?version=.
func packageRef(r *http.Request) (name, version string, err error) {
	name, err = url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil {
		return "", "", perrors.Wrap(perrors.ErrCodeInvalidPackage, err, "malformed package name")
	}
	if scope := chi.URLParam(r, "scope"); scope != "" {
		if scope, err = url.PathUnescape(scope); err != nil {
			return "", "", perrors.Wrap(perrors.ErrCodeInvalidPackage, err, "malformed package scope")
		}
		name = scope + "/" + name
	}
	if err := perrors.ValidateNpmPackageName(name); err != nil {
		return "", "", err
	}

	version = r.URL.Query().Get("version")
	if version == "" {
		version = analysis.Latest
	}
	if err := perrors.ValidateVersion(version); err != nil {
		return "", "", err
	}
	return name, version, nil
}

// decodeNames reads a JSON array of package names.
func decodeNames(w http.ResponseWriter, r *http.Request) ([]string, error) {
	var names []string
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&names); err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidInput, err, "expected a JSON array of package names")
	}
	switch {
	case len(names) == 0:
		return nil, perrors.New(perrors.ErrCodeInvalidInput, "at least one package name is required")
	case len(names) > maxBatchSize:
		return nil, perrors.New(perrors.ErrCodeInvalidInput, "at most %d packages per request", maxBatchSize)
	}
	for _, name := range names {
		if err := perrors.ValidateNpmPackageName(name); err != nil {
			return nil, err
		}
	}
	return names, nil
}
