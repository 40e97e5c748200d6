// Package pkg provides the core libraries for Stacklens npm package analysis.
//
// # Overview
//
// Stacklens answers "what does this package cost me?" for an npm package:
// bundle size, dependency tree, security advisories, maintenance and
// popularity signals, alternatives and optimization suggestions. The pkg
// directory is organized by layer:
//
//  1. [integrations] - HTTP clients for npm, Bundlephobia and GitHub
//  2. [cache] - Two-tier result cache (in-memory LRU plus file or Redis)
//  3. [registry] - Cached, degrade-to-default facade over the clients
//  4. [deps] - Bounded dependency tree resolution and manifest parsing
//  5. [analysis] - Report aggregation and the individual analyzers
//  6. [render/treeviz] - Text, DOT and SVG output for dependency trees
//
// # Architecture
//
// The typical data flow through Stacklens:
//
//	npm / Bundlephobia / GitHub
//	         ↓
//	    [integrations] (fetch, retry, classify errors)
//	         ↓
//	    [registry] (memoize in [cache], fall back to defaults)
//	         ↓
//	    [deps] (resolve the tree)   [analysis] (fan out, aggregate)
//	         ↓
//	    report / tree output (CLI, HTTP API)
//
// # Quick Start
//
//	reg := registry.New(
//	    npm.NewClient("", ""),
//	    bundlephobia.NewClient(""),
//	    github.NewClient("", os.Getenv("GITHUB_TOKEN")),
//	    cache.NewManager(cache.DefaultConfig()),
//	    registry.Options{},
//	)
//	agg := analysis.New(reg, deps.NewResolver(reg, deps.Options{}), analysis.Options{})
//
//	report, err := agg.AnalyzePackage(ctx, "express", analysis.Latest)
//
// Errors carry a code from [errors] that the CLI prints and the HTTP
// adapter maps to a status.
//
// [integrations]: github.com/matzehuels/stacklens/pkg/integrations
// [cache]: github.com/matzehuels/stacklens/pkg/cache
// [registry]: github.com/matzehuels/stacklens/pkg/registry
// [deps]: github.com/matzehuels/stacklens/pkg/deps
// [analysis]: github.com/matzehuels/stacklens/pkg/analysis
// [render/treeviz]: github.com/matzehuels/stacklens/pkg/render/treeviz
// [errors]: github.com/matzehuels/stacklens/pkg/errors
package pkg
