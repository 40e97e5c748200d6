// Package observability lets callers watch the analysis engine, the result
// caches and the upstream HTTP clients without those packages knowing who
// is listening.
//
// Each layer reports through one of three hook interfaces. Until something
// is registered the package-level hooks are [Noop], so instrumented code
// pays only for an interface call.
//
// # Usage
//
// Register hooks once, before the first request:
//
//	hooks := observability.NewLogHooks(logger)
//	observability.Register(hooks)
//
// or per concern with [SetAnalysisHooks], [SetCacheHooks] and
// [SetHTTPHooks]. Instrumented code reads the current hooks on every event:
//
//	observability.Analysis().OnResolveStart(ctx, name, version)
//	tree := resolve(...)
//	observability.Analysis().OnResolveComplete(ctx, name, tree.Count(), time.Since(start))
package observability

import (
	"context"
	"sync"
	"time"
)

// AnalysisHooks receives events from the analysis engine.
type AnalysisHooks interface {
	OnAnalyzeStart(ctx context.Context, name, version string)
	// OnAnalyzeComplete fires once per report; err joins the failed
	// dimensions and is nil when every dimension succeeded.
	OnAnalyzeComplete(ctx context.Context, name, version string, duration time.Duration, err error)

	OnResolveStart(ctx context.Context, name, version string)
	OnResolveComplete(ctx context.Context, name string, nodeCount int, duration time.Duration)
}

// CacheHooks receives events from the named result caches.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, cache string)
	OnCacheMiss(ctx context.Context, cache string)
	// OnCacheSet fires when a value is written to the second-tier backend.
	OnCacheSet(ctx context.Context, cache string, size int)
}

// HTTPHooks receives events from upstream HTTP calls.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)
	// OnError fires for transport failures; non-2xx responses go to OnResponse.
	OnError(ctx context.Context, method, host, path string, err error)
}

// Hooks is implemented by types that observe every layer.
type Hooks interface {
	AnalysisHooks
	CacheHooks
	HTTPHooks
}

// Noop implements every hook interface and does nothing. Embed it to
// override only the events you care about.
type Noop struct{}

func (Noop) OnAnalyzeStart(context.Context, string, string)                          {}
func (Noop) OnAnalyzeComplete(context.Context, string, string, time.Duration, error) {}
func (Noop) OnResolveStart(context.Context, string, string)                          {}
func (Noop) OnResolveComplete(context.Context, string, int, time.Duration)           {}
func (Noop) OnCacheHit(context.Context, string)                                      {}
func (Noop) OnCacheMiss(context.Context, string)                                     {}
func (Noop) OnCacheSet(context.Context, string, int)                                 {}
func (Noop) OnRequest(context.Context, string, string, string)                       {}
func (Noop) OnResponse(context.Context, string, string, string, int, time.Duration)  {}
func (Noop) OnError(context.Context, string, string, string, error)                  {}

var _ Hooks = Noop{}

var registry = struct {
	sync.RWMutex
	analysis AnalysisHooks
	cache    CacheHooks
	http     HTTPHooks
}{analysis: Noop{}, cache: Noop{}, http: Noop{}}

// Register installs h for all three concerns. Nil is ignored.
func Register(h Hooks) {
	if h == nil {
		return
	}
	registry.Lock()
	defer registry.Unlock()
	registry.analysis, registry.cache, registry.http = h, h, h
}

// SetAnalysisHooks installs analysis hooks. Nil is ignored.
func SetAnalysisHooks(h AnalysisHooks) {
	if h == nil {
		return
	}
	registry.Lock()
	defer registry.Unlock()
	registry.analysis = h
}

// SetCacheHooks installs cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	if h == nil {
		return
	}
	registry.Lock()
	defer registry.Unlock()
	registry.cache = h
}

// SetHTTPHooks installs HTTP hooks. Nil is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h == nil {
		return
	}
	registry.Lock()
	defer registry.Unlock()
	registry.http = h
}

// Analysis returns the current analysis hooks.
func Analysis() AnalysisHooks {
	registry.RLock()
	defer registry.RUnlock()
	return registry.analysis
}

// Cache returns the current cache hooks.
func Cache() CacheHooks {
	registry.RLock()
	defer registry.RUnlock()
	return registry.cache
}

// HTTP returns the current HTTP hooks.
func HTTP() HTTPHooks {
	registry.RLock()
	defer registry.RUnlock()
	return registry.http
}

// Reset restores the no-op hooks. Tests call it in cleanup.
func Reset() {
	registry.Lock()
	defer registry.Unlock()
	registry.analysis, registry.cache, registry.http = Noop{}, Noop{}, Noop{}
}
