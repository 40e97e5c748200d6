package cache

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Names of the result caches, one per registry operation.
const (
	PackageInfo        = "packageInfo"
	PackageVersionInfo = "packageVersionInfo"
	PackageSearch      = "packageSearch"
	DownloadStats      = "downloadStats"
	SecurityAdvisories = "securityAdvisories"
	BundleInfo         = "bundleInfo"
	PackageVersions    = "packageVersions"
	GitHubInfo         = "githubInfo"
	SimilarPackages    = "similarPackages"
	PackageDeprecation = "packageDeprecation"
)

// Names lists every named cache in a stable order.
var Names = []string{
	PackageInfo,
	PackageVersionInfo,
	PackageSearch,
	DownloadStats,
	SecurityAdvisories,
	BundleInfo,
	PackageVersions,
	GitHubInfo,
	SimilarPackages,
	PackageDeprecation,
}

// Manager owns the named in-memory stores and the optional second tier.
// It is created once per process and shared by reference.
type Manager struct {
	cfg     Config
	backend Cache
	flight  singleflight.Group

	mu     sync.Mutex
	stores map[string]*Memory
}

// Option configures a Manager.
type Option func(*Manager)

// WithBackend sets the second-tier byte backend. Nil keeps [NullCache].
func WithBackend(c Cache) Option {
	return func(m *Manager) {
		if c != nil {
			m.backend = c
		}
	}
}

// NewManager creates one store per entry in [Names], all sharing cfg.
func NewManager(cfg Config, opts ...Option) *Manager {
	cfg = cfg.WithDefaults()
	m := &Manager{
		cfg:     cfg,
		stores:  make(map[string]*Memory, len(Names)),
		backend: NewNullCache(),
	}
	for _, name := range Names {
		m.stores[name] = NewMemory(cfg)
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Config returns the configuration applied to every store.
func (m *Manager) Config() Config { return m.cfg }

// Backend returns the second-tier backend.
func (m *Manager) Backend() Cache { return m.backend }

// Store returns the named store, creating it on first use for names
// outside [Names].
func (m *Manager) Store(name string) *Memory {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.stores[name]; ok {
		return s
	}
	s := NewMemory(m.cfg)
	m.stores[name] = s
	return s
}

// Stats returns a snapshot per named store.
func (m *Manager) Stats() map[string]Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]Stats, len(m.stores))
	for name, s := range m.stores {
		out[name] = s.Stats()
	}
	return out
}

// SortedNames returns the store names in alphabetical order.
func (m *Manager) SortedNames() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.stores))
	for name := range m.stores {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clear empties every in-memory store and, when supported, the backend.
func (m *Manager) Clear(ctx context.Context) error {
	m.mu.Lock()
	for _, s := range m.stores {
		s.Clear()
	}
	m.mu.Unlock()
	if c, ok := m.backend.(Clearer); ok {
		return c.Clear(ctx)
	}
	return nil
}

// Close closes the backend.
func (m *Manager) Close() error {
	return m.backend.Close()
}
