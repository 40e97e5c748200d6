package cache

import (
	"context"
	"encoding/json"

	"github.com/matzehuels/stacklens/pkg/observability"
)

// Outcome classifies the value a [Loader] produced.
type Outcome int

const (
	// Fresh is a real upstream result, kept in memory and in the backend.
	Fresh Outcome = iota
	// Fallback is a default that stands in for a failed upstream call. It
	// is kept in memory only.
	Fallback
	// Abandoned is a default returned because the caller went away before
	// the upstream answered. It is handed back but never kept.
	Abandoned
)

// Loader produces a value for a cache miss.
type Loader[T any] func(ctx context.Context) (T, Outcome)

// Memoize returns the value cached under (name, key), loading it on a miss.
//
// Lookup order is the named in-memory store, then the backend, then load.
// Concurrent misses for the same (name, key) share one load, which runs
// detached from the cancellation of whichever caller started it; loaders
// bound their own work with a timeout. Backend failures are treated as
// misses.
func Memoize[T any](ctx context.Context, m *Manager, name, key string, load Loader[T]) T {
	store := m.Store(name)
	if v, ok := store.Get(key); ok {
		observability.Cache().OnCacheHit(ctx, name)
		t, _ := v.(T)
		return t
	}
	observability.Cache().OnCacheMiss(ctx, name)

	shared := context.WithoutCancel(ctx)
	v, _, _ := m.flight.Do(Key(name, key), func() (any, error) {
		if v, ok := store.peek(key); ok {
			return v, nil
		}

		backendKey := backendKey(name, key)
		if data, ok, err := m.backend.Get(shared, backendKey); err == nil && ok {
			var t T
			if json.Unmarshal(data, &t) == nil {
				store.Put(key, t)
				return t, nil
			}
		}

		t, outcome := load(shared)
		switch outcome {
		case Fresh:
			store.Put(key, t)
			if data, err := json.Marshal(t); err == nil {
				if m.backend.Set(shared, backendKey, data, m.cfg.ExpireAfterWrite) == nil {
					observability.Cache().OnCacheSet(shared, name, len(data))
				}
			}
		case Fallback:
			store.Put(key, t)
		}
		return t, nil
	})
	t, _ := v.(T)
	return t
}

func backendKey(name, key string) string {
	return name + ":" + Hash([]byte(key))
}
