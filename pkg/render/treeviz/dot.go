package treeviz

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/stacklens/pkg/deps"
)

// Options configures DOT output.
type Options struct {
	// Detailed adds depth and dependency type to node labels.
	Detailed bool
}

// ToDOT converts a dependency tree to Graphviz DOT. Nodes are keyed by
// name@version and emitted in first-visit order, preferring an expanded
// occurrence over a terminal one. Duplicate edges are dropped.
func ToDOT(tree *deps.Node, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	var (
		nodes  []*deps.Node
		edges  [][2]string
		index  = map[string]int{}
		linked = map[[2]string]bool{}
	)
	tree.Walk(func(n *deps.Node, path []*deps.Node) {
		switch i, ok := index[n.Key()]; {
		case !ok:
			index[n.Key()] = len(nodes)
			nodes = append(nodes, n)
		case nodes[i].Terminal() && !n.Terminal():
			nodes[i] = n
		}
		if len(path) == 0 {
			return
		}
		e := [2]string{path[len(path)-1].Key(), n.Key()}
		if !linked[e] {
			linked[e] = true
			edges = append(edges, e)
		}
	})

	for _, n := range nodes {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.Key(), strings.Join(fmtAttrs(n, opts.Detailed), ", "))
	}
	buf.WriteString("\n")
	for _, e := range edges {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e[0], e[1])
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n *deps.Node, detailed bool) string {
	label := n.Name + "\n" + n.Version
	if !detailed {
		return label
	}
	kind := string(n.Type)
	if kind == "" {
		kind = "unknown"
	}
	return label + "\n" + fmt.Sprintf("depth: %d\ntype: %s", n.Depth, kind)
}

func fmtAttrs(n *deps.Node, detailed bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(n, detailed))}
	switch {
	case n.Direct:
		attrs = append(attrs, "fillcolor=\"#dbeafe\"", "penwidth=2")
	case n.Terminal():
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the SVG scales with its
// container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
