// Package config loads stacklens settings from a TOML or YAML file and the
// environment.
//
// Precedence, lowest first: [Default], the config file, STACKLENS_*
// environment variables. The file is taken from --config when given,
// otherwise the first of stacklens.toml, stacklens.yaml and stacklens.yml
// found in $XDG_CONFIG_HOME/stacklens (or ~/.config/stacklens). A missing
// default file is not an error.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/stacklens/pkg/cache"
	"github.com/matzehuels/stacklens/pkg/deps"
	"github.com/matzehuels/stacklens/pkg/httputil"
	"github.com/matzehuels/stacklens/pkg/integrations/bundlephobia"
	"github.com/matzehuels/stacklens/pkg/integrations/github"
	"github.com/matzehuels/stacklens/pkg/integrations/npm"
	"github.com/matzehuels/stacklens/pkg/registry"
)

const appName = "stacklens"

// Cache backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

// Config is the complete runtime configuration.
type Config struct {
	Upstream Upstream `toml:"upstream" yaml:"upstream"`
	Cache    Cache    `toml:"cache" yaml:"cache"`
	Resolver Resolver `toml:"resolver" yaml:"resolver"`
	Server   Server   `toml:"server" yaml:"server"`
}

// Upstream holds the endpoints and limits for upstream services.
type Upstream struct {
	RegistryURL     string        `toml:"registry_url" yaml:"registry_url"`
	APIURL          string        `toml:"api_url" yaml:"api_url"`
	BundlephobiaURL string        `toml:"bundlephobia_url" yaml:"bundlephobia_url"`
	GitHubURL       string        `toml:"github_url" yaml:"github_url"`
	GitHubToken     string        `toml:"github_token" yaml:"github_token"`
	Timeout         time.Duration `toml:"timeout" yaml:"timeout"`
	BundleTimeout   time.Duration `toml:"bundle_timeout" yaml:"bundle_timeout"`
	RetryAttempts   int           `toml:"retry_attempts" yaml:"retry_attempts"`
}

// Cache configures the named in-memory stores and the optional second tier.
type Cache struct {
	InitialCapacity   int           `toml:"initial_capacity" yaml:"initial_capacity"`
	MaxSize           int           `toml:"max_size" yaml:"max_size"`
	ExpireAfterAccess time.Duration `toml:"expire_after_access" yaml:"expire_after_access"`
	ExpireAfterWrite  time.Duration `toml:"expire_after_write" yaml:"expire_after_write"`

	Backend       string `toml:"backend" yaml:"backend"` // memory, file or redis
	Dir           string `toml:"dir" yaml:"dir"`
	RedisAddr     string `toml:"redis_addr" yaml:"redis_addr"`
	RedisPassword string `toml:"redis_password" yaml:"redis_password"`
	RedisDB       int    `toml:"redis_db" yaml:"redis_db"`
}

// Resolver bounds dependency tree construction.
type Resolver struct {
	MaxDepth    int `toml:"max_depth" yaml:"max_depth"`
	ExpandDepth int `toml:"expand_depth" yaml:"expand_depth"`
	MaxChildren int `toml:"max_children" yaml:"max_children"`
	Workers     int `toml:"workers" yaml:"workers"`
}

// Server configures the HTTP adapter.
type Server struct {
	Addr string `toml:"addr" yaml:"addr"`
}

// Default returns the built-in settings.
func Default() Config {
	c := cache.DefaultConfig()
	return Config{
		Upstream: Upstream{
			RegistryURL:     npm.DefaultRegistryURL,
			APIURL:          npm.DefaultAPIURL,
			BundlephobiaURL: bundlephobia.DefaultBaseURL,
			GitHubURL:       github.DefaultBaseURL,
			Timeout:         registry.DefaultTimeout,
			BundleTimeout:   registry.DefaultBundleTimeout,
			RetryAttempts:   httputil.DefaultPolicy.Attempts,
		},
		Cache: Cache{
			InitialCapacity:   c.InitialCapacity,
			MaxSize:           c.MaxSize,
			ExpireAfterAccess: c.ExpireAfterAccess,
			ExpireAfterWrite:  c.ExpireAfterWrite,
			Backend:           BackendMemory,
			RedisAddr:         "localhost:6379",
		},
		Resolver: Resolver{
			MaxDepth:    deps.DefaultMaxDepth,
			ExpandDepth: deps.DefaultExpandDepth,
			MaxChildren: deps.DefaultMaxChildren,
			Workers:     deps.DefaultWorkers,
		},
		Server: Server{Addr: ":8080"},
	}
}

// Load reads the configuration. An empty path searches the default
// directory; an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	file, err := locate(path)
	if err != nil {
		return Config{}, err
	}
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", file, err)
		}
		if err := parse(file, data, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the rest of the program cannot honor.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case BackendMemory, BackendFile, BackendRedis:
	default:
		return fmt.Errorf("cache.backend: unknown backend %q (want memory, file or redis)", c.Cache.Backend)
	}
	if c.Resolver.MaxDepth < 0 || c.Resolver.ExpandDepth < 0 || c.Resolver.MaxChildren < 0 || c.Resolver.Workers < 0 {
		return fmt.Errorf("resolver: limits must not be negative")
	}
	if c.Upstream.Timeout < 0 || c.Upstream.BundleTimeout < 0 {
		return fmt.Errorf("upstream: timeouts must not be negative")
	}
	return nil
}

// MemoryConfig returns the per-store settings for the cache manager.
func (c Cache) MemoryConfig() cache.Config {
	return cache.Config{
		InitialCapacity:   c.InitialCapacity,
		MaxSize:           c.MaxSize,
		ExpireAfterAccess: c.ExpireAfterAccess,
		ExpireAfterWrite:  c.ExpireAfterWrite,
	}
}

// Options returns the resolver options with logger unset.
func (r Resolver) Options() deps.Options {
	return deps.Options{
		MaxDepth:    r.MaxDepth,
		ExpandDepth: r.ExpandDepth,
		MaxChildren: r.MaxChildren,
		Workers:     r.Workers,
	}
}

// Dir returns the directory searched for a config file.
func Dir() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

func locate(path string) (string, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("config file not found: %s", path)
		}
		return filepath.Clean(path), nil
	}
	dir, err := Dir()
	if err != nil {
		return "", nil
	}
	for _, name := range []string{appName + ".toml", appName + ".yaml", appName + ".yml"} {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", nil
}

func parse(path string, data []byte, cfg *Config) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return fmt.Errorf("invalid TOML config: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return fmt.Errorf("invalid TOML config: unknown key %q", undecoded[0].String())
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil {
			return fmt.Errorf("invalid YAML config: %w", err)
		}
	default:
		return fmt.Errorf("unsupported config format %q", ext)
	}
	return nil
}

// applyEnv overlays STACKLENS_* variables. GITHUB_TOKEN is used when
// STACKLENS_GITHUB_TOKEN is unset.
func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	integer := func(key string, dst *int) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = n
		return nil
	}
	duration := func(key string, dst *time.Duration) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = d
		return nil
	}

	str("GITHUB_TOKEN", &cfg.Upstream.GitHubToken)
	str("STACKLENS_GITHUB_TOKEN", &cfg.Upstream.GitHubToken)
	str("STACKLENS_REGISTRY_URL", &cfg.Upstream.RegistryURL)
	str("STACKLENS_API_URL", &cfg.Upstream.APIURL)
	str("STACKLENS_BUNDLEPHOBIA_URL", &cfg.Upstream.BundlephobiaURL)
	str("STACKLENS_GITHUB_URL", &cfg.Upstream.GitHubURL)
	str("STACKLENS_CACHE_BACKEND", &cfg.Cache.Backend)
	str("STACKLENS_CACHE_DIR", &cfg.Cache.Dir)
	str("STACKLENS_REDIS_ADDR", &cfg.Cache.RedisAddr)
	str("STACKLENS_REDIS_PASSWORD", &cfg.Cache.RedisPassword)
	str("STACKLENS_ADDR", &cfg.Server.Addr)

	for key, dst := range map[string]*int{
		"STACKLENS_RETRY_ATTEMPTS": &cfg.Upstream.RetryAttempts,
		"STACKLENS_REDIS_DB":       &cfg.Cache.RedisDB,
		"STACKLENS_CACHE_MAX_SIZE": &cfg.Cache.MaxSize,
		"STACKLENS_MAX_DEPTH":      &cfg.Resolver.MaxDepth,
		"STACKLENS_EXPAND_DEPTH":   &cfg.Resolver.ExpandDepth,
		"STACKLENS_MAX_CHILDREN":   &cfg.Resolver.MaxChildren,
		"STACKLENS_WORKERS":        &cfg.Resolver.Workers,
	} {
		if err := integer(key, dst); err != nil {
			return err
		}
	}
	if err := duration("STACKLENS_TIMEOUT", &cfg.Upstream.Timeout); err != nil {
		return err
	}
	return duration("STACKLENS_BUNDLE_TIMEOUT", &cfg.Upstream.BundleTimeout)
}
