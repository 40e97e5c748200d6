package registry

import (
	"context"

	"github.com/matzehuels/stacklens/pkg/integrations/bundlephobia"
	"github.com/matzehuels/stacklens/pkg/integrations/github"
	"github.com/matzehuels/stacklens/pkg/integrations/npm"
)

// Result types are shared with the upstream clients.
type (
	Metadata      = npm.Metadata
	Dependency    = npm.Dependency
	Dependencies  = npm.Dependencies
	VersionInfo   = npm.VersionInfo
	SearchResult  = npm.SearchResult
	Downloads     = npm.Downloads
	Vulnerability = npm.Advisory
	Bundle        = bundlephobia.Size
	RepoInfo      = github.Repo
)

// Alternative is a package suggested in place of another.
type Alternative struct {
	Name                string `json:"name"`
	Description         string `json:"description"`
	MigrationDifficulty string `json:"migrationDifficulty"`
	Recommendation      string `json:"recommendation"`
}

// BundleUnavailable is the error text of the default bundle result.
const BundleUnavailable = "Bundle analysis unavailable"

// NPM is the subset of the npm client the registry needs.
type NPM interface {
	Package(ctx context.Context, name string) (*npm.Metadata, error)
	Version(ctx context.Context, name, version string) (*npm.Metadata, error)
	Search(ctx context.Context, query string, limit int) ([]npm.SearchResult, error)
	Downloads(ctx context.Context, name string) (*npm.Downloads, error)
	Advisories(ctx context.Context, name string) ([]npm.Advisory, error)
}

// BundleSizer measures bundles.
type BundleSizer interface {
	Size(ctx context.Context, name, version string) (*bundlephobia.Size, error)
}

// RepoSource reads repository metadata.
type RepoSource interface {
	Repo(ctx context.Context, owner, repo string) (*github.Repo, error)
}

var (
	_ NPM         = (*npm.Client)(nil)
	_ BundleSizer = (*bundlephobia.Client)(nil)
	_ RepoSource  = (*github.Client)(nil)
)
