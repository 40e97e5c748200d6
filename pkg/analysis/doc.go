// Package analysis turns registry data into package reports.
//
// The [Aggregator] is the entry point. [Aggregator.AnalyzePackage] fans out
// to independent dimensions (identity metadata, bundle size, dependency
// tree, security, maintenance, popularity, version history, optimization
// hints, alternatives), waits for all of them and merges the results.
// A dimension that fails keeps its default; the report is always
// returned. The only error is invalid input.
//
//	agg := analysis.New(registryClient, deps.NewResolver(registryClient, deps.Options{}), analysis.Options{
//	    Logger: logger,
//	})
//	report, err := agg.AnalyzePackage(ctx, "express", "latest")
//
// The scoring helpers ([MaintenanceScore], [PopularityScore],
// [QualityScore], [NpmScore]), [ClassifyLicense] and [Suggestions] are
// pure functions and can be used on their own.
package analysis
