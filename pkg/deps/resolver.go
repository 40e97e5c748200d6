package deps

import (
	"context"
	"maps"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/matzehuels/stacklens/pkg/observability"
	"github.com/matzehuels/stacklens/pkg/registry"
)

// ManifestSource returns version manifests. An empty manifest means the
// package has no dependencies; failures are the source's concern.
type ManifestSource interface {
	PackageVersionInfo(ctx context.Context, name, version string) registry.Metadata
}

var _ ManifestSource = (*registry.Client)(nil)

// Resolver builds bounded dependency trees from version manifests.
type Resolver struct {
	src  ManifestSource
	opts Options
}

// NewResolver creates a Resolver reading manifests from src.
func NewResolver(src ManifestSource, opts Options) *Resolver {
	return &Resolver{src: src, opts: opts.WithDefaults()}
}

// BuildTree resolves name@version and its dependencies, depth-first from
// depth 0. It never fails: a package whose manifest cannot be read has no
// children, and a child that cannot be built becomes a terminal node.
//
// Each branch tracks the packages on its own path, so a cycle ends in a
// terminal node but the same package may be expanded again in a sibling
// branch. At most Workers manifests are fetched at once across the tree.
func (r *Resolver) BuildTree(ctx context.Context, name, version string) *Node {
	start := time.Now()
	observability.Analysis().OnResolveStart(ctx, name, version)

	w := &walk{Resolver: r, sem: semaphore.NewWeighted(int64(r.opts.Workers))}
	root := w.resolve(ctx, name, version, 0, true, map[string]bool{})

	observability.Analysis().OnResolveComplete(ctx, name, root.Count(), time.Since(start))
	r.opts.Logger.Debug("dependency tree built", "package", name, "version", version,
		"nodes", root.Count(), "took", time.Since(start).Round(time.Millisecond))
	return root
}

// walk is the state of one BuildTree call.
type walk struct {
	*Resolver
	sem *semaphore.Weighted
}

// fetch reads a manifest while holding a worker slot. A cancelled wait
// yields an empty manifest.
func (w *walk) fetch(ctx context.Context, name, version string) registry.Metadata {
	if err := w.sem.Acquire(ctx, 1); err != nil {
		return registry.Metadata{}
	}
	defer w.sem.Release(1)
	return w.src.PackageVersionInfo(ctx, name, version)
}

func (w *walk) build(ctx context.Context, name, version string, depth int, direct bool, visited map[string]bool) *Node {
	key := name + "@" + version
	if visited[key] || depth > w.opts.MaxDepth {
		return terminal(name, version, depth, direct)
	}
	path := maps.Clone(visited)
	path[key] = true

	info := w.fetch(ctx, name, version)
	node := &Node{
		Name:            name,
		Version:         version,
		ResolvedVersion: version,
		Type:            Production,
		Depth:           depth,
		Direct:          direct,
		Children:        []*Node{},
	}

	deps := info.Dependencies
	if depth >= w.opts.ExpandDepth || len(deps) == 0 || ctx.Err() != nil {
		return node
	}
	if len(deps) > w.opts.MaxChildren {
		deps = deps[:w.opts.MaxChildren]
	}

	children := make([]*Node, len(deps))
	var g errgroup.Group
	for i, d := range deps {
		g.Go(func() error {
			children[i] = w.resolve(ctx, d.Name, StripRange(d.Range), depth+1, false, path)
			return nil
		})
	}
	_ = g.Wait()

	node.Children = children
	return node
}

// resolve is build with panics converted to a terminal node. visited is
// shared read-only by all siblings.
func (w *walk) resolve(ctx context.Context, name, version string, depth int, direct bool, visited map[string]bool) (n *Node) {
	defer func() {
		if p := recover(); p != nil {
			w.opts.Logger.Warn("dependency resolution failed", "package", name, "version", version, "err", p)
			n = terminal(name, version, depth, direct)
		}
	}()
	return w.build(ctx, name, version, depth, direct, visited)
}

// StripRange removes one leading range operator from a declared version:
// "^1.2.0" and "~1.2.0" become "1.2.0", as do ">=1.2.0", "<=1.2.0", ">1.2.0"
// and "<1.2.0". Anything else is returned unchanged.
func StripRange(r string) string {
	for _, op := range []string{">=", "<=", "^", "~", ">", "<"} {
		if rest, ok := strings.CutPrefix(r, op); ok {
			return rest
		}
	}
	return r
}
