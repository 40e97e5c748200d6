// Package npm provides an HTTP client for the npm registry and the npm
// download/advisory API.
//
// # Usage
//
//	client := npm.NewClient("", "") // public endpoints
//
//	doc, err := client.Package(ctx, "express")
//	manifest, err := client.Version(ctx, "express", "4.18.2")
//	hits, err := client.Search(ctx, "http router", 10)
//	stats, err := client.Downloads(ctx, "express")
//	advisories, err := client.Advisories(ctx, "express")
//
// # Dependency Order
//
// Dependency maps are decoded into [Dependencies], which keeps the order in
// which the manifest declares them. The resolver relies on that order when
// it truncates wide dependency lists.
//
// # Scoped Packages
//
// Scoped names are sent as "@scope%2Fname", which the registry accepts for
// both package documents and version manifests.
package npm
