package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stacklens/pkg/analysis"
	"github.com/matzehuels/stacklens/pkg/deps"
	"github.com/matzehuels/stacklens/pkg/render/treeviz"
)

// Tree output formats.
const (
	formatText = "text"
	formatJSON = "json"
	formatDOT  = "dot"
	formatSVG  = "svg"
)

var treeFormats = []string{formatText, formatJSON, formatDOT, formatSVG}

type treeOpts struct {
	version     string
	format      string
	output      string
	detailed    bool
	interactive bool
}

// treeCommand creates the "tree" command.
func (c *CLI) treeCommand() *cobra.Command {
	opts := treeOpts{}
	cmd := &cobra.Command{
		Use:   "tree <package>",
		Short: "Show the dependency tree of a package",
		Long: `Tree resolves the bounded dependency tree of a package and prints it.

Nodes marked with * were not expanded: they are beyond the expansion depth,
repeat an ancestor, or could not be fetched.`,
		Example: `  stacklens tree express
  stacklens tree express --format svg -o express.svg
  stacklens tree react --interactive`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(opts.format); err != nil {
				return err
			}
			return c.withApp(cmd.Context(), func(a *app) error {
				prog := newProgress(c.Logger)
				spin := newSpinnerWithContext(cmd.Context(), "Resolving "+args[0]+"...")
				spin.Start()
				tree, err := a.analyzer.BuildDependencyTree(cmd.Context(), args[0], opts.version)
				spin.Stop()
				if err != nil {
					return err
				}
				prog.done(fmt.Sprintf("Resolved %d packages", tree.Count()))

				if opts.interactive {
					_, err := tea.NewProgram(newTreeModel(tree), tea.WithContext(cmd.Context())).Run()
					return err
				}
				return c.writeTree(cmd.Context(), cmd.OutOrStdout(), tree, opts)
			})
		},
	}

	cmd.Flags().StringVar(&opts.version, "version", analysis.Latest, "package version or dist-tag")
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatText, "output format: "+strings.Join(treeFormats, ", "))
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include depth and dependency type in graph labels")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "browse the tree in the terminal")
	return cmd
}

func (c *CLI) writeTree(ctx context.Context, stdout io.Writer, tree *deps.Node, opts treeOpts) error {
	var data []byte
	switch opts.format {
	case formatJSON:
		var buf bytes.Buffer
		if err := writeJSON(&buf, tree); err != nil {
			return err
		}
		data = buf.Bytes()
	case formatDOT:
		data = []byte(treeviz.ToDOT(tree, treeviz.Options{Detailed: opts.detailed}))
	case formatSVG:
		svg, err := treeviz.RenderSVG(ctx, treeviz.ToDOT(tree, treeviz.Options{Detailed: opts.detailed}))
		if err != nil {
			return fmt.Errorf("render svg: %w", err)
		}
		data = svg
	default:
		data = []byte(treeviz.Text(tree))
	}

	if opts.output == "" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	printSuccess("Wrote %s tree", opts.format)
	printFile(opts.output)
	return nil
}

func validateFormat(format string) error {
	for _, f := range treeFormats {
		if f == format {
			return nil
		}
	}
	return fmt.Errorf("invalid format %q: must be one of %s", format, strings.Join(treeFormats, ", "))
}
