// Package deps builds bounded dependency trees for npm packages and
// parses package.json manifests.
//
// # Resolving Dependencies
//
// A [Resolver] walks version manifests depth-first from a root package:
//
//	r := deps.NewResolver(registryClient, deps.Options{})
//	tree := r.BuildTree(ctx, "express", "4.18.2")
//
// The walk is bounded rather than exhaustive:
//
//   - nodes deeper than MaxDepth (default 5) are terminal
//   - only nodes shallower than ExpandDepth (default 3) get children
//   - at most MaxChildren (default 20) dependencies are expanded per node,
//     in declaration order
//
// Declared ranges are not solved against the version index; one leading
// operator is stripped (see [StripRange]) and the remainder is looked up
// as an exact version. Children are fetched concurrently, with at most
// Workers (default 20) manifest fetches in flight per tree, and joined in
// declaration order.
//
// Cycle protection is per path: each branch carries its own copy of the
// name@version keys above it, so a package that reappears below itself
// becomes a terminal node, while the same package in a sibling branch is
// resolved again (the registry cache makes that cheap).
//
// # Summaries
//
// [Summarize] derives counts, cycles, duplicates and version conflicts
// from a built tree.
//
// # Manifests
//
// [ParseManifest] validates package.json content against a JSON schema and
// keeps each dependency map in declaration order.
package deps
