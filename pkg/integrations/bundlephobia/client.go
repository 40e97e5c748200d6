package bundlephobia

import (
	"context"
	"strings"

	"github.com/matzehuels/stacklens/pkg/integrations"
)

const DefaultBaseURL = "https://bundlephobia.com/api"

// Size is a bundle measurement for one package version.
type Size struct {
	Name        string `json:"name,omitempty"`
	Version     string `json:"version,omitempty"`
	Size        int64  `json:"size"`
	Gzip        int64  `json:"gzip"`
	Brotli      int64  `json:"brotli"`
	HasJSModule bool   `json:"hasJSModule"`
	Error       string `json:"error,omitempty"`
}

// Client reads the Bundlephobia size API.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a client. An empty baseURL selects the public API.
func NewClient(baseURL string, opts ...integrations.ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		Client:  integrations.NewClient(nil, opts...),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Size measures name@version.
func (c *Client) Size(ctx context.Context, name, version string) (*Size, error) {
	var resp sizeResponse
	url := c.baseURL + "/size?package=" + integrations.URLEncode(name+"@"+version)
	if err := c.Get(ctx, url, &resp); err != nil {
		return nil, err
	}
	return &Size{
		Name:        resp.Name,
		Version:     resp.Version,
		Size:        resp.Size,
		Gzip:        resp.Gzip,
		Brotli:      resp.Brotli,
		HasJSModule: truthy(resp.HasJSModule),
	}, nil
}

type sizeResponse struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Size        int64  `json:"size"`
	Gzip        int64  `json:"gzip"`
	Brotli      int64  `json:"brotli"`
	HasJSModule any    `json:"hasJSModule"`
}

// truthy interprets hasJSModule, which the API reports either as a boolean
// or as the path of the ES module entry point.
func truthy(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		return val != "" && val != "false"
	}
	return false
}
