package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stacklens/pkg/analysis"
	perrors "github.com/matzehuels/stacklens/pkg/errors"
)

// The commands in this file each run a single analysis dimension.

func (c *CLI) bundleCommand() *cobra.Command {
	var (
		version string
		out     outputOpts
	)
	cmd := &cobra.Command{
		Use:   "bundle <package>",
		Short: "Show the bundle size of a package",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateRef(args[0], version); err != nil {
				return err
			}
			return c.withApp(cmd.Context(), func(a *app) error {
				info := a.analyzer.AnalyzeBundleSize(cmd.Context(), args[0], version)
				if out.json {
					return writeJSON(cmd.OutOrStdout(), info)
				}
				fmt.Fprintln(cmd.OutOrStdout(), StyleTitle.Render(args[0]+"@"+orLatest(version)))
				writeBundle(cmd.OutOrStdout(), info)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&version, "version", analysis.Latest, "package version or dist-tag")
	out.register(cmd)
	return cmd
}

func (c *CLI) securityCommand() *cobra.Command {
	var (
		version string
		out     outputOpts
	)
	cmd := &cobra.Command{
		Use:   "security <package>",
		Short: "List security advisories, deprecations and the license type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd.Context(), func(a *app) error {
				info, err := a.analyzer.AnalyzeSecurityIssues(cmd.Context(), args[0], version)
				if err != nil {
					return err
				}
				if out.json {
					return writeJSON(cmd.OutOrStdout(), info)
				}
				fmt.Fprintln(cmd.OutOrStdout(), StyleTitle.Render(args[0]+"@"+orLatest(version)))
				writeSecurity(cmd.OutOrStdout(), info)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&version, "version", analysis.Latest, "package version or dist-tag")
	out.register(cmd)
	return cmd
}

func (c *CLI) optimizeCommand() *cobra.Command {
	var (
		version string
		out     outputOpts
	)
	cmd := &cobra.Command{
		Use:   "optimize <package>",
		Short: "Suggest ways to reduce the cost of a package",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd.Context(), func(a *app) error {
				suggestions, err := a.analyzer.GetOptimizationSuggestions(cmd.Context(), args[0], version)
				if err != nil {
					return err
				}
				if out.json {
					return writeJSON(cmd.OutOrStdout(), suggestions)
				}
				if len(suggestions) == 0 {
					printSuccess("No suggestions for %s", args[0])
					return nil
				}
				writeSuggestions(cmd.OutOrStdout(), suggestions)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&version, "version", analysis.Latest, "package version or dist-tag")
	out.register(cmd)
	return cmd
}

func (c *CLI) alternativesCommand() *cobra.Command {
	var out outputOpts
	cmd := &cobra.Command{
		Use:   "alternatives <package>",
		Short: "Find packages similar to the given one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd.Context(), func(a *app) error {
				alts, err := a.analyzer.FindAlternatives(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if out.json {
					return writeJSON(cmd.OutOrStdout(), alts)
				}
				if len(alts) == 0 {
					printInfo("No alternatives found for %s", args[0])
					return nil
				}
				writeAlternatives(cmd.OutOrStdout(), alts)
				return nil
			})
		},
	}
	out.register(cmd)
	return cmd
}

func (c *CLI) searchCommand() *cobra.Command {
	var (
		limit int
		out   outputOpts
	)
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the npm registry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 1 || limit > 250 {
				return perrors.New(perrors.ErrCodeInvalidInput, "--limit must be between 1 and 250")
			}
			return c.withApp(cmd.Context(), func(a *app) error {
				results := a.lookup.SearchPackages(cmd.Context(), args[0], limit)
				if out.json {
					return writeJSON(cmd.OutOrStdout(), results)
				}
				if len(results) == 0 {
					printInfo("No packages match %q", args[0])
					return nil
				}
				writeSearchResults(cmd.OutOrStdout(), results)
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "maximum number of results")
	out.register(cmd)
	return cmd
}

// validateRef checks name and version for commands whose analyzer call
// does not validate on its own.
func validateRef(name, version string) error {
	if err := perrors.ValidateNpmPackageName(name); err != nil {
		return err
	}
	return perrors.ValidateVersion(version)
}
