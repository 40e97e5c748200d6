package registry

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stacklens/pkg/cache"
	"github.com/matzehuels/stacklens/pkg/integrations/github"
)

const (
	DefaultTimeout       = 10 * time.Second
	DefaultBundleTimeout = 15 * time.Second
)

// Options configures a Client. Zero values take defaults.
type Options struct {
	Logger        *log.Logger
	Timeout       time.Duration
	BundleTimeout time.Duration
}

// Client is the registry facade used by the resolver and the analyzers.
//
// Every method returns a typed result and never an error: timeouts,
// non-2xx responses and malformed payloads are logged and replaced by the
// method's documented default. Results, defaults included, are memoized in
// the shared cache manager under the method's named cache. A default caused
// by the caller's own cancellation is never memoized.
type Client struct {
	npm     NPM
	bundles BundleSizer
	repos   RepoSource
	cache   *cache.Manager
	logger  *log.Logger

	timeout       time.Duration
	bundleTimeout time.Duration
}

// New creates a Client. A nil cache manager gets a private one with
// default settings.
func New(npm NPM, bundles BundleSizer, repos RepoSource, cm *cache.Manager, opts Options) *Client {
	if cm == nil {
		cm = cache.NewManager(cache.DefaultConfig())
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.BundleTimeout <= 0 {
		opts.BundleTimeout = DefaultBundleTimeout
	}
	return &Client{
		npm:           npm,
		bundles:       bundles,
		repos:         repos,
		cache:         cm,
		logger:        logger,
		timeout:       opts.Timeout,
		bundleTimeout: opts.BundleTimeout,
	}
}

// Cache returns the shared cache manager.
func (c *Client) Cache() *cache.Manager { return c.cache }

// PackageInfo returns the package document, or empty Metadata.
func (c *Client) PackageInfo(ctx context.Context, name string) Metadata {
	return cache.Memoize(ctx, c.cache, cache.PackageInfo, name, func(ctx context.Context) (Metadata, cache.Outcome) {
		return call(ctx, c, "packageInfo", name, c.timeout, Metadata{}, func(ctx context.Context) (Metadata, error) {
			m, err := c.npm.Package(ctx, name)
			if err != nil {
				return Metadata{}, err
			}
			return *m, nil
		})
	})
}

// PackageVersionInfo returns the manifest of name@version, or empty Metadata.
func (c *Client) PackageVersionInfo(ctx context.Context, name, version string) Metadata {
	return cache.Memoize(ctx, c.cache, cache.PackageVersionInfo, cache.Key(name, version), func(ctx context.Context) (Metadata, cache.Outcome) {
		return call(ctx, c, "packageVersionInfo", name+"@"+version, c.timeout, Metadata{}, func(ctx context.Context) (Metadata, error) {
			m, err := c.npm.Version(ctx, name, version)
			if err != nil {
				return Metadata{}, err
			}
			return *m, nil
		})
	})
}

// SearchPackages runs a registry search, or returns an empty list.
func (c *Client) SearchPackages(ctx context.Context, query string, limit int) []SearchResult {
	key := cache.Key(query, strconv.Itoa(limit))
	return cache.Memoize(ctx, c.cache, cache.PackageSearch, key, func(ctx context.Context) ([]SearchResult, cache.Outcome) {
		return call(ctx, c, "searchPackages", query, c.timeout, []SearchResult{}, func(ctx context.Context) ([]SearchResult, error) {
			return c.npm.Search(ctx, query, limit)
		})
	})
}

// DownloadStats returns last month's downloads, or a zero count.
func (c *Client) DownloadStats(ctx context.Context, name string) Downloads {
	return cache.Memoize(ctx, c.cache, cache.DownloadStats, name, func(ctx context.Context) (Downloads, cache.Outcome) {
		return call(ctx, c, "downloadStats", name, c.timeout, Downloads{}, func(ctx context.Context) (Downloads, error) {
			d, err := c.npm.Downloads(ctx, name)
			if err != nil {
				return Downloads{}, err
			}
			return *d, nil
		})
	})
}

// SecurityAdvisories returns the advisories for name, or an empty list.
func (c *Client) SecurityAdvisories(ctx context.Context, name string) []Vulnerability {
	return cache.Memoize(ctx, c.cache, cache.SecurityAdvisories, name, func(ctx context.Context) ([]Vulnerability, cache.Outcome) {
		return call(ctx, c, "securityAdvisories", name, c.timeout, []Vulnerability{}, func(ctx context.Context) ([]Vulnerability, error) {
			return c.npm.Advisories(ctx, name)
		})
	})
}

// BundleInfo returns the bundle measurement for name@version, or zero
// sizes with Error set to [BundleUnavailable].
func (c *Client) BundleInfo(ctx context.Context, name, version string) Bundle {
	def := Bundle{Error: BundleUnavailable}
	return cache.Memoize(ctx, c.cache, cache.BundleInfo, cache.Key(name, version), func(ctx context.Context) (Bundle, cache.Outcome) {
		return call(ctx, c, "bundleInfo", name+"@"+version, c.bundleTimeout, def, func(ctx context.Context) (Bundle, error) {
			b, err := c.bundles.Size(ctx, name, version)
			if err != nil {
				return def, err
			}
			return *b, nil
		})
	})
}

// PackageVersions returns every published version of name, newest first.
func (c *Client) PackageVersions(ctx context.Context, name string) []string {
	return cache.Memoize(ctx, c.cache, cache.PackageVersions, name, func(ctx context.Context) ([]string, cache.Outcome) {
		info := c.PackageInfo(ctx, name)
		if len(info.Versions) == 0 {
			return []string{}, cache.Fallback
		}
		versions := make([]string, 0, len(info.Versions))
		for v := range info.Versions {
			versions = append(versions, v)
		}
		SortVersionsDesc(versions)
		return versions, cache.Fresh
	})
}

// GitHubInfo returns repository metadata for a repository URL as written
// in a manifest. Unrecognized URLs and failures yield an empty RepoInfo.
func (c *Client) GitHubInfo(ctx context.Context, repoURL string) RepoInfo {
	return cache.Memoize(ctx, c.cache, cache.GitHubInfo, repoURL, func(ctx context.Context) (RepoInfo, cache.Outcome) {
		owner, repo, ok := github.ParseRepoURL(repoURL)
		if !ok {
			return RepoInfo{}, cache.Fallback
		}
		return call(ctx, c, "githubInfo", owner+"/"+repo, c.timeout, RepoInfo{}, func(ctx context.Context) (RepoInfo, error) {
			r, err := c.repos.Repo(ctx, owner, repo)
			if err != nil {
				return RepoInfo{}, err
			}
			return *r, nil
		})
	})
}

// IsDeprecated reports whether any published version of name carries a
// deprecation notice. Unknown packages are not deprecated.
func (c *Client) IsDeprecated(ctx context.Context, name string) bool {
	return cache.Memoize(ctx, c.cache, cache.PackageDeprecation, name, func(ctx context.Context) (bool, cache.Outcome) {
		info := c.PackageInfo(ctx, name)
		for _, v := range info.Versions {
			if v.Deprecated {
				return true, cache.Fresh
			}
		}
		if len(info.Versions) == 0 {
			return false, cache.Fallback
		}
		return false, cache.Fresh
	})
}

// call runs fn under timeout and converts any failure, panics included,
// into def. The outcome is [cache.Abandoned] when ctx itself ended, so a
// departed caller's default is never memoized, and [cache.Fallback] for
// every other failure.
func call[T any](ctx context.Context, c *Client, op, subject string, timeout time.Duration, def T, fn func(context.Context) (T, error)) (result T, outcome cache.Outcome) {
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			c.logger.Warn("registry call panicked", "op", op, "package", subject, "panic", r)
			result, outcome = def, cache.Fallback
		}
	}()

	start := time.Now()
	v, err := fn(callCtx)
	if err != nil {
		if ctx.Err() != nil {
			c.logger.Debug("registry call abandoned", "op", op, "package", subject, "err", ctx.Err())
			return def, cache.Abandoned
		}
		c.logger.Warn("registry call failed", "op", op, "package", subject, "err", describe(callCtx, err))
		return def, cache.Fallback
	}
	c.logger.Debug("registry call", "op", op, "package", subject, "took", time.Since(start).Round(time.Millisecond))
	return v, cache.Fresh
}

func describe(ctx context.Context, err error) string {
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Sprintf("timeout: %v", err)
	}
	return err.Error()
}
