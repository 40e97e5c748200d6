// Package cli implements the stacklens command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stacklens/internal/api"
	"github.com/matzehuels/stacklens/internal/config"
	"github.com/matzehuels/stacklens/pkg/analysis"
	"github.com/matzehuels/stacklens/pkg/buildinfo"
	"github.com/matzehuels/stacklens/pkg/cache"
	"github.com/matzehuels/stacklens/pkg/deps"
	"github.com/matzehuels/stacklens/pkg/httputil"
	"github.com/matzehuels/stacklens/pkg/integrations"
	"github.com/matzehuels/stacklens/pkg/integrations/bundlephobia"
	"github.com/matzehuels/stacklens/pkg/integrations/github"
	"github.com/matzehuels/stacklens/pkg/integrations/npm"
	"github.com/matzehuels/stacklens/pkg/observability"
	"github.com/matzehuels/stacklens/pkg/registry"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "stacklens"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	noCache    bool

	// newApp builds the analysis stack. Tests replace it.
	newApp func(ctx context.Context) (*app, error)
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	c := &CLI{Logger: newLogger(w, level)}
	c.newApp = c.buildApp
	return c
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Stacklens analyzes npm packages",
		Long:         `Stacklens reports on npm packages: bundle size, dependency tree, security advisories, maintenance, popularity, alternatives and optimization suggestions.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/stacklens/stacklens.toml)")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "disable the persistent cache backend")

	root.AddCommand(c.analyzeCommand())
	root.AddCommand(c.manifestCommand())
	root.AddCommand(c.batchCommand())
	root.AddCommand(c.compareCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.bundleCommand())
	root.AddCommand(c.securityCommand())
	root.AddCommand(c.optimizeCommand())
	root.AddCommand(c.alternativesCommand())
	root.AddCommand(c.searchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.versionCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// App Factory
// =============================================================================

// app is the wired analysis stack shared by the commands of one run.
type app struct {
	cfg      config.Config
	analyzer api.Analyzer
	lookup   api.Lookup
	cache    *cache.Manager
}

// Close releases the cache backend.
func (a *app) Close() error {
	if a.cache == nil {
		return nil
	}
	return a.cache.Close()
}

// buildApp loads the configuration and wires upstream clients, the cache,
// the registry facade, the resolver and the aggregator.
func (c *CLI) buildApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}

	backend, err := c.newBackend(ctx, cfg.Cache)
	if err != nil {
		return nil, err
	}
	cm := cache.NewManager(cfg.Cache.MemoryConfig(), cache.WithBackend(backend))

	retry := integrations.WithRetry(httputil.Policy{
		Attempts: cfg.Upstream.RetryAttempts,
		Delay:    httputil.DefaultPolicy.Delay,
	})
	reg := registry.New(
		npm.NewClient(cfg.Upstream.RegistryURL, cfg.Upstream.APIURL, retry),
		bundlephobia.NewClient(cfg.Upstream.BundlephobiaURL, retry),
		github.NewClient(cfg.Upstream.GitHubURL, cfg.Upstream.GitHubToken, retry),
		cm,
		registry.Options{
			Logger:        c.Logger,
			Timeout:       cfg.Upstream.Timeout,
			BundleTimeout: cfg.Upstream.BundleTimeout,
		},
	)

	resolverOpts := cfg.Resolver.Options()
	resolverOpts.Logger = c.Logger
	agg := analysis.New(reg, deps.NewResolver(reg, resolverOpts), analysis.Options{Logger: c.Logger})

	observability.Register(observability.NewLogHooks(c.Logger))
	c.Logger.Debug("stack ready", "cache", cfg.Cache.Backend, "registry", cfg.Upstream.RegistryURL)
	return &app{cfg: cfg, analyzer: agg, lookup: reg, cache: cm}, nil
}

// newBackend opens the second cache tier named by the configuration.
func (c *CLI) newBackend(ctx context.Context, cfg config.Cache) (cache.Cache, error) {
	if c.noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Backend {
	case config.BackendFile:
		dir := cfg.Dir
		if dir == "" {
			d, err := cacheDir()
			if err != nil {
				return cache.NewNullCache(), nil
			}
			dir = d
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, fmt.Errorf("open cache dir %s: %w", dir, err)
		}
		return fc, nil
	case config.BackendRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, fmt.Errorf("connect redis %s: %w", cfg.RedisAddr, err)
		}
		return rc, nil
	default:
		return cache.NewNullCache(), nil
	}
}

// withApp builds the stack, runs fn and closes the stack.
func (c *CLI) withApp(ctx context.Context, fn func(*app) error) error {
	a, err := c.newApp(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			c.Logger.Warn("close cache", "err", err)
		}
	}()
	return fn(a)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/stacklens/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
