// Package bundlephobia provides an HTTP client for the Bundlephobia size API
// (https://bundlephobia.com/api/size).
//
// The API builds the package on demand, so first requests for a version can
// be slow; callers should allow a longer deadline than for registry calls.
package bundlephobia
