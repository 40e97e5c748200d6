package analysis

import (
	"context"
	"sync"

	"github.com/matzehuels/stacklens/pkg/deps"
	"github.com/matzehuels/stacklens/pkg/registry"
)

// fakeSource is an in-memory Source. Names listed in panics make the
// corresponding method panic.
type fakeSource struct {
	mu sync.Mutex

	packages   map[string]registry.Metadata
	manifests  map[string]registry.Metadata
	downloads  map[string]int64
	advisories map[string][]registry.Vulnerability
	bundles    map[string]registry.Bundle
	repos      map[string]registry.RepoInfo
	similar    map[string][]registry.Alternative
	deprecated map[string]bool
	panics     map[string]bool

	calls map[string]int
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		packages:   map[string]registry.Metadata{},
		manifests:  map[string]registry.Metadata{},
		downloads:  map[string]int64{},
		advisories: map[string][]registry.Vulnerability{},
		bundles:    map[string]registry.Bundle{},
		repos:      map[string]registry.RepoInfo{},
		similar:    map[string][]registry.Alternative{},
		deprecated: map[string]bool{},
		panics:     map[string]bool{},
		calls:      map[string]int{},
	}
}

func (f *fakeSource) enter(method string) {
	f.mu.Lock()
	f.calls[method]++
	boom := f.panics[method]
	f.mu.Unlock()
	if boom {
		panic(method + " exploded")
	}
}

func (f *fakeSource) PackageInfo(_ context.Context, name string) registry.Metadata {
	f.enter("PackageInfo")
	return f.packages[name]
}

func (f *fakeSource) PackageVersionInfo(_ context.Context, name, version string) registry.Metadata {
	f.enter("PackageVersionInfo")
	return f.manifests[name+"@"+version]
}

func (f *fakeSource) DownloadStats(_ context.Context, name string) registry.Downloads {
	f.enter("DownloadStats")
	return registry.Downloads{Package: name, Downloads: f.downloads[name]}
}

func (f *fakeSource) SecurityAdvisories(_ context.Context, name string) []registry.Vulnerability {
	f.enter("SecurityAdvisories")
	if v, ok := f.advisories[name]; ok {
		return v
	}
	return []registry.Vulnerability{}
}

func (f *fakeSource) BundleInfo(_ context.Context, name, version string) registry.Bundle {
	f.enter("BundleInfo")
	if b, ok := f.bundles[name+"@"+version]; ok {
		return b
	}
	return registry.Bundle{Error: registry.BundleUnavailable}
}

func (f *fakeSource) PackageVersions(_ context.Context, name string) []string {
	f.enter("PackageVersions")
	info := f.packages[name]
	versions := make([]string, 0, len(info.Versions))
	for v := range info.Versions {
		versions = append(versions, v)
	}
	registry.SortVersionsDesc(versions)
	return versions
}

func (f *fakeSource) GitHubInfo(_ context.Context, repoURL string) registry.RepoInfo {
	f.enter("GitHubInfo")
	return f.repos[repoURL]
}

func (f *fakeSource) SimilarPackages(_ context.Context, name string) []registry.Alternative {
	f.enter("SimilarPackages")
	return f.similar[name]
}

func (f *fakeSource) IsDeprecated(_ context.Context, name string) bool {
	f.enter("IsDeprecated")
	return f.deprecated[name]
}

// fakeTrees returns a fixed two-level tree for every package.
type fakeTrees struct {
	panics bool
}

func (f fakeTrees) BuildTree(_ context.Context, name, version string) *deps.Node {
	if f.panics {
		panic("resolver exploded")
	}
	return &deps.Node{
		Name: name, Version: version, ResolvedVersion: version, Type: deps.Production, Direct: true,
		Children: []*deps.Node{
			{Name: "a", Version: "1.0.0", ResolvedVersion: "1.0.0", Type: deps.Production, Depth: 1, Children: []*deps.Node{}},
			{Name: "b", Version: "2.0.0", ResolvedVersion: "2.0.0", Type: deps.Production, Depth: 1, Children: []*deps.Node{}},
		},
	}
}
