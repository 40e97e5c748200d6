package github

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/matzehuels/stacklens/pkg/integrations"
)

const DefaultBaseURL = "https://api.github.com"

// Client provides access to the GitHub API for repository metadata.
// It handles HTTP requests with automatic retries and optional authentication.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a GitHub API client. An empty baseURL selects the
// public API; an empty token sends unauthenticated requests (lower rate
// limits).
func NewClient(baseURL, token string, opts ...integrations.ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	headers := map[string]string{"Accept": "application/vnd.github.v3+json"}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}
	return &Client{
		Client:  integrations.NewClient(headers, opts...),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Repo retrieves repository metadata for owner/repo.
func (c *Client) Repo(ctx context.Context, owner, repo string) (*Repo, error) {
	if err := ValidateRepoRef(owner, repo); err != nil {
		return nil, err
	}

	var data repoResponse
	url := fmt.Sprintf("%s/repos/%s/%s", c.baseURL, owner, repo)
	if err := c.Get(ctx, url, &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return nil, fmt.Errorf("%w: github repo %s/%s", err, owner, repo)
		}
		return nil, err
	}

	return &Repo{
		FullName:    data.FullName,
		Description: data.Description,
		HTMLURL:     data.HTMLURL,
		Stars:       data.Stars,
		Forks:       data.Forks,
		Watchers:    data.Watchers,
		OpenIssues:  data.OpenIssues,
		License:     data.License.SPDXID,
		Language:    data.Language,
		Topics:      data.Topics,
		Archived:    data.Archived,
		CreatedAt:   data.CreatedAt,
		PushedAt:    data.PushedAt,
	}, nil
}
