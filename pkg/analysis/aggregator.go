package analysis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/stacklens/pkg/deps"
	perrors "github.com/matzehuels/stacklens/pkg/errors"
	"github.com/matzehuels/stacklens/pkg/observability"
	"github.com/matzehuels/stacklens/pkg/registry"
)

// Latest is the version selector for the newest release.
const Latest = "latest"

// Source is the registry surface the analyzers read. Every method returns
// a default instead of failing.
type Source interface {
	PackageInfo(ctx context.Context, name string) registry.Metadata
	PackageVersionInfo(ctx context.Context, name, version string) registry.Metadata
	DownloadStats(ctx context.Context, name string) registry.Downloads
	SecurityAdvisories(ctx context.Context, name string) []registry.Vulnerability
	BundleInfo(ctx context.Context, name, version string) registry.Bundle
	PackageVersions(ctx context.Context, name string) []string
	GitHubInfo(ctx context.Context, repoURL string) registry.RepoInfo
	SimilarPackages(ctx context.Context, name string) []registry.Alternative
	IsDeprecated(ctx context.Context, name string) bool
}

// TreeBuilder builds dependency trees.
type TreeBuilder interface {
	BuildTree(ctx context.Context, name, version string) *deps.Node
}

var (
	_ Source      = (*registry.Client)(nil)
	_ TreeBuilder = (*deps.Resolver)(nil)
)

// Options configures an Aggregator.
type Options struct {
	Logger *log.Logger
	Now    func() time.Time // clock for scores and timestamps (default: time.Now)
}

// Aggregator produces package reports by fanning out to the individual
// analyzers and merging their results.
type Aggregator struct {
	src    Source
	trees  TreeBuilder
	logger *log.Logger
	now    func() time.Time

	security     *SecurityAnalyzer
	advisor      *OptimizationAdvisor
	alternatives *AlternativesFinder
}

// New creates an Aggregator.
func New(src Source, trees TreeBuilder, opts Options) *Aggregator {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Aggregator{
		src:          src,
		trees:        trees,
		logger:       opts.Logger,
		now:          opts.Now,
		security:     NewSecurityAnalyzer(src, opts.Logger),
		advisor:      NewOptimizationAdvisor(src),
		alternatives: NewAlternativesFinder(src),
	}
}

// AnalyzePackage builds the full report for name@version. An empty
// version means [Latest]. The only error is invalid input; every other
// failure leaves the affected section at its default.
func (a *Aggregator) AnalyzePackage(ctx context.Context, name, version string) (*Report, error) {
	if version == "" {
		version = Latest
	}
	if err := validate(name, version); err != nil {
		return nil, err
	}

	start := time.Now()
	observability.Analysis().OnAnalyzeStart(ctx, name, version)
	a.logger.Info("analyzing package", "package", name, "version", version)

	r := &Report{
		ID:             uuid.NewString(),
		Name:           name,
		Version:        version,
		AnalyzedAt:     a.now().UTC(),
		BundleSize:     defaultBundleSizeInfo(name, version),
		Dependencies:   defaultDependencyInfo(),
		Security:       defaultSecurityInfo(),
		Alternatives:   []registry.Alternative{},
		Optimizations:  []Suggestion{},
		VersionHistory: []VersionInfo{},
	}

	var (
		g        errgroup.Group
		failures dimensionErrors
	)
	a.dimension(&g, &failures, "metadata", name, func() { a.fillIdentity(ctx, r) })
	a.dimension(&g, &failures, "bundle", name, func() { r.BundleSize = a.AnalyzeBundleSize(ctx, name, version) })
	a.dimension(&g, &failures, "dependencies", name, func() { r.Dependencies = a.dependencyInfo(ctx, name, version) })
	a.dimension(&g, &failures, "security", name, func() { r.Security = a.security.Analyze(ctx, name, version) })
	a.dimension(&g, &failures, "maintenance", name, func() { r.Maintenance = a.maintenance(ctx, name) })
	a.dimension(&g, &failures, "popularity", name, func() { r.Popularity = a.popularity(ctx, name) })
	a.dimension(&g, &failures, "history", name, func() { r.VersionHistory = a.versionHistory(ctx, name) })
	a.dimension(&g, &failures, "optimizations", name, func() { r.Optimizations = a.advisor.GenerateSuggestions(ctx, name, version) })
	a.dimension(&g, &failures, "alternatives", name, func() { r.Alternatives = a.alternatives.Find(ctx, name) })
	_ = g.Wait()

	took := time.Since(start)
	observability.Analysis().OnAnalyzeComplete(ctx, name, version, took, failures.err())
	a.logger.Info("analysis complete", "package", name, "version", version, "took", took.Round(time.Millisecond))
	return r, nil
}

// AnalyzePackageJSON analyzes the package a package.json describes and
// replaces the dependency counts with the manifest's declared counts.
func (a *Aggregator) AnalyzePackageJSON(ctx context.Context, content []byte) (*Report, error) {
	m, err := deps.ParseManifest(content)
	if err != nil {
		a.logger.Warn("invalid package.json", "err", err)
		return nil, err
	}
	r, err := a.AnalyzePackage(ctx, m.Name, m.Version)
	if err != nil {
		return nil, err
	}
	counts := m.Counts()
	r.Dependencies.Production = counts[deps.Production]
	r.Dependencies.Dev = counts[deps.Development]
	r.Dependencies.Peer = counts[deps.Peer]
	r.Dependencies.Optional = counts[deps.Optional]
	return r, nil
}

// AnalyzeMultiplePackages analyzes each name at [Latest]. Packages whose
// analysis fails are logged and left out; the rest keep input order.
func (a *Aggregator) AnalyzeMultiplePackages(ctx context.Context, names []string) []*Report {
	reports := a.fanOut(ctx, names)
	out := make([]*Report, 0, len(reports))
	for _, r := range reports {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}

// ComparePackages analyzes each name at [Latest], keyed by name. Packages
// whose analysis fails are logged and left out.
func (a *Aggregator) ComparePackages(ctx context.Context, names []string) map[string]*Report {
	reports := a.fanOut(ctx, names)
	out := make(map[string]*Report, len(reports))
	for i, r := range reports {
		if r != nil {
			out[names[i]] = r
		}
	}
	return out
}

func (a *Aggregator) fanOut(ctx context.Context, names []string) []*Report {
	a.logger.Info("analyzing packages", "count", len(names))
	reports := make([]*Report, len(names))
	var g errgroup.Group
	for i, name := range names {
		g.Go(func() error {
			r, err := a.AnalyzePackage(ctx, name, Latest)
			if err != nil {
				a.logger.Warn("package analysis failed", "package", name, "err", err)
				return nil
			}
			reports[i] = r
			return nil
		})
	}
	_ = g.Wait()
	return reports
}

// BuildDependencyTree returns the bounded dependency tree of name@version.
func (a *Aggregator) BuildDependencyTree(ctx context.Context, name, version string) (*deps.Node, error) {
	if err := validate(name, version); err != nil {
		return nil, err
	}
	return a.trees.BuildTree(ctx, name, orLatest(version)), nil
}

// AnalyzeSecurityIssues delegates to the [SecurityAnalyzer].
func (a *Aggregator) AnalyzeSecurityIssues(ctx context.Context, name, version string) (SecurityInfo, error) {
	if err := validate(name, version); err != nil {
		return SecurityInfo{}, err
	}
	return a.security.Analyze(ctx, name, orLatest(version)), nil
}

// GetOptimizationSuggestions delegates to the [OptimizationAdvisor].
func (a *Aggregator) GetOptimizationSuggestions(ctx context.Context, name, version string) ([]Suggestion, error) {
	if err := validate(name, version); err != nil {
		return nil, err
	}
	return a.advisor.GenerateSuggestions(ctx, name, orLatest(version)), nil
}

// FindAlternatives delegates to the [AlternativesFinder].
func (a *Aggregator) FindAlternatives(ctx context.Context, name string) ([]registry.Alternative, error) {
	if err := validate(name, ""); err != nil {
		return nil, err
	}
	return a.alternatives.Find(ctx, name), nil
}

// AnalyzeBundleSize maps the bundle measurement of name@version. When no
// measurement is available all sizes are zero.
func (a *Aggregator) AnalyzeBundleSize(ctx context.Context, name, version string) BundleSizeInfo {
	version = orLatest(version)
	b := a.src.BundleInfo(ctx, name, version)
	info := defaultBundleSizeInfo(name, version)
	info.Uncompressed = b.Size
	info.Gzipped = b.Gzip
	info.Brotli = b.Brotli
	info.Treeshakable = b.HasJSModule
	info.Breakdown["main"] = b.Size
	return info
}

// fillIdentity reads the identity fields. A specific version is read from
// its manifest, with the package document filling whatever the manifest
// lacks.
func (a *Aggregator) fillIdentity(ctx context.Context, r *Report) {
	doc := a.src.PackageInfo(ctx, r.Name)
	info := doc
	if r.Version != Latest {
		info = a.src.PackageVersionInfo(ctx, r.Name, r.Version)
	}

	r.Description = first(info.Description, doc.Description)
	r.Author = first(info.Author, doc.Author)
	r.License = first(info.License, doc.License)
	r.Homepage = first(info.Homepage, doc.Homepage)
	r.Repository = first(info.Repository, doc.Repository)

	published := doc.Modified
	if v, ok := doc.Versions[r.Version]; ok && !v.PublishedAt.IsZero() {
		published = v.PublishedAt
	}
	if !published.IsZero() {
		r.LastPublished = &published
	}
}

func (a *Aggregator) dependencyInfo(ctx context.Context, name, version string) DependencyInfo {
	tree := a.trees.BuildTree(ctx, name, version)
	return DependencyInfo{Summary: deps.Summarize(tree), Tree: []*deps.Node{tree}}
}

// dimension runs fn on g, converting a panic into a logged failure so the
// section fn fills keeps its default.
func (a *Aggregator) dimension(g *errgroup.Group, failures *dimensionErrors, dim, name string, fn func()) {
	g.Go(func() error {
		defer func() {
			if p := recover(); p != nil {
				a.logger.Warn("analysis dimension failed", "dimension", dim, "package", name, "err", p)
				failures.add(fmt.Errorf("%s: %v", dim, p))
			}
		}()
		fn()
		return nil
	})
}

type dimensionErrors struct {
	mu   sync.Mutex
	errs []error
}

func (d *dimensionErrors) add(err error) {
	d.mu.Lock()
	d.errs = append(d.errs, err)
	d.mu.Unlock()
}

func (d *dimensionErrors) err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return errors.Join(d.errs...)
}

func validate(name, version string) error {
	if err := perrors.ValidateNpmPackageName(name); err != nil {
		return err
	}
	return perrors.ValidateVersion(version)
}

func defaultBundleSizeInfo(name, version string) BundleSizeInfo {
	return BundleSizeInfo{
		Breakdown:         map[string]int64{"main": 0},
		BundleAnalysisURL: "https://bundlephobia.com/package/" + name + "@" + version,
	}
}

func orLatest(version string) string {
	if version == "" {
		return Latest
	}
	return version
}

func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
