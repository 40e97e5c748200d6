package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stacklens/internal/config"
	"github.com/matzehuels/stacklens/pkg/analysis"
	"github.com/matzehuels/stacklens/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the result cache",
	}

	cmd.AddCommand(c.cacheStatsCommand())
	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheStatsCommand creates the "cache stats" subcommand.
func (c *CLI) cacheStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache configuration and backend usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd.Context(), func(a *app) error {
				w := cmd.OutOrStdout()
				cfg := a.cache.Config()

				fmt.Fprintln(w, StyleTitle.Render("Cache"))
				writeKeyValue(w, "Backend", backendName(a, c.noCache))
				writeKeyValue(w, "Stores", strconv.Itoa(len(a.cache.SortedNames())))
				writeKeyValue(w, "Max entries", strconv.Itoa(cfg.MaxSize))
				writeKeyValue(w, "Idle expiry", cfg.ExpireAfterAccess.String())
				writeKeyValue(w, "Write expiry", cfg.ExpireAfterWrite.String())

				switch b := a.cache.Backend().(type) {
				case *cache.FileCache:
					entries, size, err := b.Usage()
					if err != nil {
						return fmt.Errorf("read cache dir: %w", err)
					}
					writeKeyValue(w, "Directory", b.Dir())
					writeKeyValue(w, "Entries", strconv.Itoa(entries))
					writeKeyValue(w, "Size", analysis.FormatBytes(size))
				case *cache.RedisCache:
					writeKeyValue(w, "Redis", a.cfg.Cache.RedisAddr)
				}
				return nil
			})
		},
	}
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached results",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd.Context(), func(a *app) error {
				if err := a.cache.Clear(cmd.Context()); err != nil {
					return fmt.Errorf("clear cache: %w", err)
				}
				printSuccess("Cleared %s cache", backendName(a, c.noCache))
				if fc, ok := a.cache.Backend().(*cache.FileCache); ok {
					printDetail("Directory: %s", fc.Dir())
				}
				return nil
			})
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the file cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			dir := cfg.Cache.Dir
			if dir == "" {
				if dir, err = cacheDir(); err != nil {
					return fmt.Errorf("get cache dir: %w", err)
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}

func backendName(a *app, noCache bool) string {
	if noCache {
		return "none"
	}
	return a.cfg.Cache.Backend
}
