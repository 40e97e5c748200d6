package integrations

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// httpTimeout caps a single request. Registry operations apply their own,
// shorter, context deadlines on top.
const httpTimeout = 30 * time.Second

var (
	// ErrNotFound is returned when a package or resource doesn't exist upstream.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, non-2xx responses).
	ErrNetwork = errors.New("network error")

	// ErrDecode is returned when a response body is not the expected JSON.
	ErrDecode = errors.New("malformed response")
)

// NewHTTPClient creates an HTTP client with a standard timeout for upstream requests.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// repoURLReplacer maps the GitHub URL forms found in npm manifests to
// https://github.com/.
var repoURLReplacer = strings.NewReplacer(
	"git+https://github.com/", "https://github.com/",
	"ssh://git@github.com/", "https://github.com/",
	"git@github.com:", "https://github.com/",
	"git://github.com/", "https://github.com/",
)

// NormalizeRepoURL rewrites the git+https://, git://, ssh://git@ and git@
// forms of a GitHub repository URL to https://github.com/ and removes a
// trailing .git. Other URLs only lose surrounding space and .git.
func NormalizeRepoURL(raw string) string {
	s := repoURLReplacer.Replace(strings.TrimSpace(raw))
	return strings.TrimSuffix(s, ".git")
}

// EscapePackage path-escapes an npm package name for use as one URL path
// segment. Scoped names keep their "@" and encode the slash: "@scope%2Fpkg".
func EscapePackage(name string) string {
	if scope, pkg, ok := strings.Cut(name, "/"); ok && strings.HasPrefix(scope, "@") {
		return "@" + url.PathEscape(scope[1:]) + "%2F" + url.PathEscape(pkg)
	}
	return url.PathEscape(name)
}

// URLEncode percent-encodes a string for use in URLs.
// This is a convenience wrapper around [url.QueryEscape].
func URLEncode(s string) string { return url.QueryEscape(s) }
