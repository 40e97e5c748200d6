// Package integrations provides HTTP clients for the upstream services
// stacklens reads from.
//
// # Overview
//
// Each service has its own subpackage:
//
//   - [npm]: npm registry documents, search, download counts and advisories
//   - [bundlephobia]: bundle size measurements
//   - [github]: repository metadata for maintenance and popularity signals
//
// # Client Pattern
//
// All clients embed the shared [Client], which performs GET requests with
// default headers, classifies response status codes and retries transient
// failures:
//
//	client := npm.NewClient("", "", integrations.WithRetry(httputil.DefaultPolicy))
//	meta, err := client.Package(ctx, "express")
//
// Clients return errors wrapping [ErrNotFound], [ErrNetwork] or [ErrDecode].
// They do not cache; memoization and the degrade-to-default policy live in
// the registry package.
//
// [npm]: github.com/matzehuels/stacklens/pkg/integrations/npm
// [bundlephobia]: github.com/matzehuels/stacklens/pkg/integrations/bundlephobia
// [github]: github.com/matzehuels/stacklens/pkg/integrations/github
package integrations
