package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/matzehuels/stacklens/pkg/analysis"
	"github.com/matzehuels/stacklens/pkg/buildinfo"
	"github.com/matzehuels/stacklens/pkg/cache"
	"github.com/matzehuels/stacklens/pkg/deps"
	perrors "github.com/matzehuels/stacklens/pkg/errors"
	"github.com/matzehuels/stacklens/pkg/registry"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type call struct{ op, name, version string }

type fakeAnalyzer struct {
	mu    sync.Mutex
	calls []call
}

func (f *fakeAnalyzer) record(op, name, version string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{op, name, version})
}

func (f *fakeAnalyzer) last() call {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return call{}
	}
	return f.calls[len(f.calls)-1]
}

func (f *fakeAnalyzer) AnalyzePackage(_ context.Context, name, version string) (*analysis.Report, error) {
	f.record("analyze", name, version)
	switch name {
	case "missing":
		return nil, perrors.New(perrors.ErrCodeNotFound, "package %q not found", name)
	case "boom":
		panic("analyzer exploded")
	}
	return &analysis.Report{Name: name, Version: version}, nil
}

func (f *fakeAnalyzer) AnalyzePackageJSON(_ context.Context, content []byte) (*analysis.Report, error) {
	f.record("manifest", string(content), "")
	m, err := deps.ParseManifest(content)
	if err != nil {
		return nil, err
	}
	return &analysis.Report{Name: m.Name, Version: m.Version}, nil
}

func (f *fakeAnalyzer) AnalyzeMultiplePackages(_ context.Context, names []string) []*analysis.Report {
	f.record("batch", strings.Join(names, ","), "")
	out := make([]*analysis.Report, len(names))
	for i, n := range names {
		out[i] = &analysis.Report{Name: n, Version: analysis.Latest}
	}
	return out
}

func (f *fakeAnalyzer) ComparePackages(_ context.Context, names []string) map[string]*analysis.Report {
	f.record("compare", strings.Join(names, ","), "")
	out := make(map[string]*analysis.Report, len(names))
	for _, n := range names {
		out[n] = &analysis.Report{Name: n}
	}
	return out
}

func (f *fakeAnalyzer) BuildDependencyTree(_ context.Context, name, version string) (*deps.Node, error) {
	f.record("tree", name, version)
	return &deps.Node{Name: name, Version: version, Direct: true, Children: []*deps.Node{}}, nil
}

func (f *fakeAnalyzer) AnalyzeBundleSize(_ context.Context, name, version string) analysis.BundleSizeInfo {
	f.record("bundle", name, version)
	return analysis.BundleSizeInfo{Uncompressed: 1000, Gzipped: 400}
}

func (f *fakeAnalyzer) AnalyzeSecurityIssues(_ context.Context, name, version string) (analysis.SecurityInfo, error) {
	f.record("security", name, version)
	return analysis.SecurityInfo{LicenseCompatibility: analysis.LicensePermissive}, nil
}

func (f *fakeAnalyzer) GetOptimizationSuggestions(_ context.Context, name, version string) ([]analysis.Suggestion, error) {
	f.record("optimize", name, version)
	return []analysis.Suggestion{}, nil
}

func (f *fakeAnalyzer) FindAlternatives(_ context.Context, name string) ([]registry.Alternative, error) {
	f.record("alternatives", name, "")
	return []registry.Alternative{{Name: "koa"}}, nil
}

type fakeLookup struct{ lastLimit int }

func (f *fakeLookup) SearchPackages(_ context.Context, query string, limit int) []registry.SearchResult {
	f.lastLimit = limit
	return []registry.SearchResult{{Name: query, Version: "1.0.0"}}
}

func (f *fakeLookup) PackageInfo(_ context.Context, name string) registry.Metadata {
	if name == "ghost" {
		return registry.Metadata{}
	}
	return registry.Metadata{Name: name, Version: "1.0.0"}
}

func (f *fakeLookup) DownloadStats(_ context.Context, name string) registry.Downloads {
	return registry.Downloads{Package: name, Downloads: 42}
}

func newTestServer() (*Server, *fakeAnalyzer, *fakeLookup) {
	a, l := &fakeAnalyzer{}, &fakeLookup{}
	return New(a, l, cache.NewManager(cache.Config{}), nil), a, l
}

func do(t *testing.T, s *Server, method, target string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestAnalyzeDefaultsToLatest(t *testing.T) {
	s, a, _ := newTestServer()

	rec := do(t, s, http.MethodGet, "/api/v1/npm/analyze/express", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, call{"analyze", "express", "latest"}, a.last())

	var report analysis.Report
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&report))
	assert.Equal(t, "express", report.Name)
}

func TestAnalyzeWithVersion(t *testing.T) {
	s, a, _ := newTestServer()
	rec := do(t, s, http.MethodGet, "/api/v1/npm/analyze/express?version=4.18.2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "4.18.2", a.last().version)
}

func TestScopedPackageRoutes(t *testing.T) {
	tests := []struct {
		name   string
		target string
		op     string
	}{
		{"two segments", "/api/v1/npm/analyze/@babel/core", "analyze"},
		{"escaped slash", "/api/v1/npm/analyze/@babel%2Fcore", "analyze"},
		{"tree", "/api/v1/npm/dependency-tree/@babel/core", "tree"},
		{"security", "/api/v1/npm/security/@babel/core?version=7.0.0", "security"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, a, _ := newTestServer()
			rec := do(t, s, http.MethodGet, tt.target, nil)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, tt.op, a.last().op)
			assert.Equal(t, "@babel/core", a.last().name)
		})
	}
}

func TestInvalidInputIs400(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		target   string
		body     string
		wantCode string
	}{
		{"bad name", http.MethodGet, "/api/v1/npm/analyze/_private", "", "INVALID_PACKAGE"},
		{"unscoped pair", http.MethodGet, "/api/v1/npm/analyze/foo/bar", "", "INVALID_PACKAGE"},
		{"bad version", http.MethodGet, "/api/v1/npm/bundle-size/react?version=1.0%3Fx", "", "INVALID_VERSION"},
		{"batch not array", http.MethodPost, "/api/v1/npm/analyze/batch", `{"a":1}`, "INVALID_INPUT"},
		{"batch empty", http.MethodPost, "/api/v1/npm/analyze/batch", `[]`, "INVALID_INPUT"},
		{"compare bad name", http.MethodPost, "/api/v1/npm/compare", `["react",".hidden"]`, "INVALID_PACKAGE"},
		{"manifest invalid", http.MethodPost, "/api/v1/npm/analyze/package-json", `{"version":"1.0.0"}`, "INVALID_MANIFEST"},
		{"search without query", http.MethodGet, "/api/v1/npm/search", "", "INVALID_INPUT"},
		{"search limit", http.MethodGet, "/api/v1/npm/search?query=http&limit=0", "", "INVALID_INPUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, _ := newTestServer()
			rec := do(t, s, tt.method, tt.target, []byte(tt.body))
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.Equal(t, tt.wantCode, decodeError(t, rec).Code)
		})
	}
}

func TestNotFoundErrors(t *testing.T) {
	s, _, _ := newTestServer()

	rec := do(t, s, http.MethodGet, "/api/v1/npm/analyze/missing", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decodeError(t, rec).Code)

	rec = do(t, s, http.MethodGet, "/api/v1/npm/package-info/ghost", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, http.MethodGet, "/nowhere", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerPanicIs500(t *testing.T) {
	s, _, _ := newTestServer()
	rec := do(t, s, http.MethodGet, "/api/v1/npm/analyze/boom", nil)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "INTERNAL_ERROR", decodeError(t, rec).Code)
}

func TestBatchAndCompare(t *testing.T) {
	s, a, _ := newTestServer()

	rec := do(t, s, http.MethodPost, "/api/v1/npm/analyze/batch", []byte(`["react","vue"]`))
	require.Equal(t, http.StatusOK, rec.Code)
	var reports []analysis.Report
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&reports))
	require.Len(t, reports, 2)
	assert.Equal(t, "vue", reports[1].Name)

	rec = do(t, s, http.MethodPost, "/api/v1/npm/compare", []byte(`["react","preact"]`))
	require.Equal(t, http.StatusOK, rec.Code)
	var byName map[string]analysis.Report
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&byName))
	assert.Contains(t, byName, "preact")
	assert.Equal(t, "compare", a.last().op)
}

func TestAnalyzeManifest(t *testing.T) {
	s, _, _ := newTestServer()
	body := []byte(`{"name":"my-app","version":"0.1.0","dependencies":{"react":"^18.0.0"}}`)

	rec := do(t, s, http.MethodPost, "/api/v1/npm/analyze/package-json", body)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var report analysis.Report
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&report))
	assert.Equal(t, "my-app", report.Name)
}

func TestAnalyzeUpload(t *testing.T) {
	s, _, _ := newTestServer()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "package.json")
	require.NoError(t, err)
	_, err = fw.Write([]byte(`{"name":"uploaded"}`))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/npm/analyze/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var report analysis.Report
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&report))
	assert.Equal(t, "uploaded", report.Name)
	assert.Equal(t, "latest", report.Version)

	rec = do(t, s, http.MethodPost, "/api/v1/npm/analyze/upload", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchAndLookups(t *testing.T) {
	s, _, l := newTestServer()

	rec := do(t, s, http.MethodGet, "/api/v1/npm/search?query=router", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, defaultSearchLimit, l.lastLimit)

	rec = do(t, s, http.MethodGet, "/api/v1/npm/search?query=router&limit=25", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 25, l.lastLimit)

	rec = do(t, s, http.MethodGet, "/api/v1/npm/download-stats/react", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var dl registry.Downloads
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&dl))
	assert.EqualValues(t, 42, dl.Downloads)

	rec = do(t, s, http.MethodGet, "/api/v1/npm/package-info/react", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestHealth(t *testing.T) {
	s, _, _ := newTestServer()

	rec := do(t, s, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, buildinfo.Get().Version, body["version"])
}

func TestRequestID(t *testing.T) {
	s, _, _ := newTestServer()

	rec := do(t, s, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	generated := rec.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 36)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "7f0c9a8e-1d2b-4c3d-9e4f-5a6b7c8d9e0f")
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Equal(t, "7f0c9a8e-1d2b-4c3d-9e4f-5a6b7c8d9e0f", rec.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "not a uuid\n")
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.NotEqual(t, "not a uuid\n", rec.Header().Get(RequestIDHeader))
}

func TestCacheStats(t *testing.T) {
	cm := cache.NewManager(cache.Config{})
	cm.Store(cache.PackageInfo).Put("express", 1)
	cm.Store(cache.PackageInfo).Get("express")
	cm.Store(cache.PackageInfo).Get("koa")
	s := New(&fakeAnalyzer{}, &fakeLookup{}, cm, nil)

	rec := do(t, s, http.MethodGet, "/cache/stats", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var stats map[string]storeStats
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&stats))
	require.Contains(t, stats, cache.PackageInfo)
	got := stats[cache.PackageInfo]
	assert.EqualValues(t, 1, got.Hits)
	assert.EqualValues(t, 1, got.Misses)
	assert.Equal(t, 1, got.Size)
	assert.InDelta(t, 0.5, got.HitRate, 1e-9)
	assert.Len(t, stats, len(cache.Names))
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	s, _, _ := newTestServer()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()
	cancel()
	require.NoError(t, <-done)
}
