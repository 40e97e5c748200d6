package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stacklens/pkg/analysis"
)

// outputOpts holds the flags shared by commands that print a result.
type outputOpts struct {
	json bool
}

func (o *outputOpts) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.json, "json", false, "print the raw JSON result")
}

// analyzeCommand creates the "analyze" command.
func (c *CLI) analyzeCommand() *cobra.Command {
	var (
		version string
		out     outputOpts
	)
	cmd := &cobra.Command{
		Use:   "analyze <package>",
		Short: "Analyze an npm package",
		Long: `Analyze fetches everything known about a package and prints a report:
bundle size, dependencies, security advisories, maintenance, popularity,
alternatives, optimization suggestions and recent versions.`,
		Example: `  stacklens analyze express
  stacklens analyze @babel/core --version 7.24.0 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			return c.withApp(cmd.Context(), func(a *app) error {
				prog := newProgress(c.Logger)
				spin := newSpinnerWithContext(cmd.Context(), fmt.Sprintf("Analyzing %s@%s...", name, orLatest(version)))
				spin.Start()
				report, err := a.analyzer.AnalyzePackage(cmd.Context(), name, version)
				spin.Stop()
				if err != nil {
					return err
				}
				prog.done("Analyzed " + name)

				if out.json {
					return writeJSON(cmd.OutOrStdout(), report)
				}
				writeReport(cmd.OutOrStdout(), report)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&version, "version", analysis.Latest, "package version or dist-tag")
	out.register(cmd)
	return cmd
}

// manifestCommand creates the "manifest" command for package.json files.
func (c *CLI) manifestCommand() *cobra.Command {
	var out outputOpts
	cmd := &cobra.Command{
		Use:   "manifest [package.json]",
		Short: "Analyze a package.json file",
		Long: `Manifest validates a package.json, analyzes the package it names and
reports the dependency counts declared in the file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "package.json"
			if len(args) == 1 {
				path = args[0]
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read manifest: %w", err)
			}

			return c.withApp(cmd.Context(), func(a *app) error {
				prog := newProgress(c.Logger)
				report, err := a.analyzer.AnalyzePackageJSON(cmd.Context(), data)
				if err != nil {
					return err
				}
				prog.done("Analyzed " + path)

				if out.json {
					return writeJSON(cmd.OutOrStdout(), report)
				}
				writeReport(cmd.OutOrStdout(), report)
				return nil
			})
		},
	}
	out.register(cmd)
	return cmd
}

// batchCommand creates the "batch" command.
func (c *CLI) batchCommand() *cobra.Command {
	var out outputOpts
	cmd := &cobra.Command{
		Use:   "batch <package>...",
		Short: "Analyze several packages concurrently",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd.Context(), func(a *app) error {
				prog := newProgress(c.Logger)
				spin := newSpinnerWithContext(cmd.Context(), fmt.Sprintf("Analyzing %d packages...", len(args)))
				spin.Start()
				reports := a.analyzer.AnalyzeMultiplePackages(cmd.Context(), args)
				spin.Stop()
				prog.done(fmt.Sprintf("Analyzed %d of %d packages", len(reports), len(args)))
				if len(reports) < len(args) {
					printWarning("%d packages could not be analyzed", len(args)-len(reports))
				}

				if out.json {
					return writeJSON(cmd.OutOrStdout(), reports)
				}
				for i, r := range reports {
					if i > 0 {
						fmt.Fprintln(cmd.OutOrStdout())
					}
					writeReport(cmd.OutOrStdout(), r)
				}
				return nil
			})
		},
	}
	out.register(cmd)
	return cmd
}

// compareCommand creates the "compare" command.
func (c *CLI) compareCommand() *cobra.Command {
	var out outputOpts
	cmd := &cobra.Command{
		Use:     "compare <package> <package>...",
		Short:   "Compare packages side by side",
		Example: `  stacklens compare react preact vue`,
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd.Context(), func(a *app) error {
				prog := newProgress(c.Logger)
				spin := newSpinnerWithContext(cmd.Context(), fmt.Sprintf("Comparing %d packages...", len(args)))
				spin.Start()
				reports := a.analyzer.ComparePackages(cmd.Context(), args)
				spin.Stop()
				prog.done(fmt.Sprintf("Compared %d packages", len(reports)))

				if out.json {
					return writeJSON(cmd.OutOrStdout(), reports)
				}
				writeComparison(cmd.OutOrStdout(), reports)
				return nil
			})
		},
	}
	out.register(cmd)
	return cmd
}

func orLatest(version string) string {
	if version == "" {
		return analysis.Latest
	}
	return version
}
