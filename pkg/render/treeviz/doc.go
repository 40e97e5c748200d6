// Package treeviz renders dependency trees for terminals and browsers.
//
// [Text] draws a tree with box-drawing connectors. [ToDOT] converts a tree
// into a Graphviz digraph in which every name@version appears once, so
// packages shared by several branches collapse into one node with several
// incoming edges. [RenderSVG] lays the DOT out with Graphviz:
//
//	dot := treeviz.ToDOT(tree, treeviz.Options{})
//	svg, err := treeviz.RenderSVG(ctx, dot)
//
// Nodes that were not expanded (depth cut-offs, cycle back-edges and
// failed lookups) are drawn dashed.
package treeviz
