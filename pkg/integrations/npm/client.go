package npm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/stacklens/pkg/integrations"
)

const (
	DefaultRegistryURL = "https://registry.npmjs.org"
	DefaultAPIURL      = "https://api.npmjs.org"
)

// Client reads the npm registry and the npm download/advisory API.
type Client struct {
	*integrations.Client
	registryURL string
	apiURL      string
}

// NewClient creates a client. Empty URLs select the public npm endpoints.
func NewClient(registryURL, apiURL string, opts ...integrations.ClientOption) *Client {
	if registryURL == "" {
		registryURL = DefaultRegistryURL
	}
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	return &Client{
		Client:      integrations.NewClient(nil, opts...),
		registryURL: strings.TrimRight(registryURL, "/"),
		apiURL:      strings.TrimRight(apiURL, "/"),
	}
}

// Package fetches the full package document. Identity fields and
// dependency lists are taken from the version the "latest" dist-tag points
// at, falling back to the document's top-level fields; Versions lists every
// published version.
func (c *Client) Package(ctx context.Context, name string) (*Metadata, error) {
	var doc registryDocument
	if err := c.Get(ctx, c.registryURL+"/"+integrations.EscapePackage(name), &doc); err != nil {
		return nil, wrapNotFound(err, name)
	}

	latest := doc.DistTags["latest"]
	meta := &Metadata{}
	if raw, ok := doc.Versions[latest]; ok {
		if v, err := decodeManifest(raw); err == nil {
			*meta = v.metadata()
		}
	}
	meta.Name, meta.Version = doc.Name, latest
	if meta.Name == "" {
		meta.Name = name
	}
	doc.fillMissing(meta)
	meta.Modified = parseTime(scalar(doc.Time["modified"]))

	meta.Versions = make(map[string]VersionInfo, len(doc.Versions))
	for version, raw := range doc.Versions {
		var v struct {
			Deprecated any `json:"deprecated"`
		}
		_ = json.Unmarshal(raw, &v)
		deprecated, reason := deprecation(v.Deprecated)
		meta.Versions[version] = VersionInfo{
			Deprecated:  deprecated,
			Reason:      reason,
			PublishedAt: parseTime(scalar(doc.Time[version])),
		}
	}
	return meta, nil
}

// Version fetches the manifest of one version. version may be an exact
// version or a dist-tag.
func (c *Client) Version(ctx context.Context, name, version string) (*Metadata, error) {
	var raw json.RawMessage
	endpoint := c.registryURL + "/" + integrations.EscapePackage(name) + "/" + url.PathEscape(version)
	if err := c.Get(ctx, endpoint, &raw); err != nil {
		return nil, wrapNotFound(err, name+"@"+version)
	}
	v, err := decodeManifest(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s@%s: %v", integrations.ErrDecode, name, version, err)
	}
	meta := v.metadata()
	if meta.Name == "" {
		meta.Name = name
	}
	return &meta, nil
}

// Search runs a registry text search and returns at most limit hits.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	var resp searchResponse
	endpoint := fmt.Sprintf("%s/-/v1/search?text=%s&size=%d", c.registryURL, integrations.URLEncode(query), limit)
	if err := c.Get(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	results := make([]SearchResult, 0, len(resp.Objects))
	for _, obj := range resp.Objects {
		results = append(results, SearchResult{
			Name:        obj.Package.Name,
			Version:     obj.Package.Version,
			Description: obj.Package.Description,
		})
	}
	return results, nil
}

// Downloads returns the download count for the last month.
func (c *Client) Downloads(ctx context.Context, name string) (*Downloads, error) {
	var d Downloads
	if err := c.Get(ctx, c.apiURL+"/downloads/point/last-month/"+name, &d); err != nil {
		return nil, wrapNotFound(err, name)
	}
	return &d, nil
}

// Advisories fetches the advisory map for a package. Entries that are not
// objects are skipped; the result is ordered by advisory key.
func (c *Client) Advisories(ctx context.Context, name string) ([]Advisory, error) {
	var resp map[string]json.RawMessage
	if err := c.Get(ctx, c.apiURL+"/advisories/quick/"+integrations.EscapePackage(name), &resp); err != nil {
		return nil, wrapNotFound(err, name)
	}

	keys := make([]string, 0, len(resp))
	for k := range resp {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	advisories := make([]Advisory, 0, len(keys))
	for _, k := range keys {
		var rec advisoryRecord
		if err := json.Unmarshal(resp[k], &rec); err != nil {
			continue
		}
		advisories = append(advisories, rec.advisory())
	}
	return advisories, nil
}

// decodeManifest decodes a version manifest field by field. A field with an
// unexpected shape is left at its zero value instead of failing the
// manifest; only a manifest that is not a JSON object is an error.
func decodeManifest(raw []byte) (versionManifest, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return versionManifest{}, err
	}
	var v versionManifest
	for key, dst := range map[string]any{
		"name":                 &v.Name,
		"version":              &v.Version,
		"description":          &v.Description,
		"author":               &v.Author,
		"license":              &v.License,
		"licenses":             &v.Licenses,
		"homepage":             &v.Homepage,
		"repository":           &v.Repository,
		"keywords":             &v.Keywords,
		"deprecated":           &v.Deprecated,
		"dependencies":         &v.Dependencies,
		"devDependencies":      &v.DevDependencies,
		"peerDependencies":     &v.PeerDependencies,
		"optionalDependencies": &v.OptionalDependencies,
	} {
		if data, ok := fields[key]; ok {
			_ = json.Unmarshal(data, dst)
		}
	}
	return v, nil
}

// fillMissing copies the document's top-level identity fields into the
// fields meta left empty.
func (d registryDocument) fillMissing(meta *Metadata) {
	for _, f := range []struct {
		dst *string
		src string
	}{
		{&meta.Description, extractField(d.Description, "")},
		{&meta.Author, extractField(d.Author, "name")},
		{&meta.License, extractField(d.License, "type")},
		{&meta.Homepage, extractField(d.Homepage, "")},
		{&meta.Repository, extractField(d.Repository, "url")},
	} {
		if *f.dst == "" {
			*f.dst = f.src
		}
	}
}

func (v versionManifest) metadata() Metadata {
	license := extractField(v.License, "type")
	if license == "" && len(v.Licenses) > 0 {
		license = extractField(v.Licenses[0], "type")
	}
	deprecated, reason := deprecation(v.Deprecated)
	if deprecated && reason == "" {
		reason = "deprecated"
	}
	return Metadata{
		Name:                 v.Name,
		Version:              v.Version,
		Description:          v.Description,
		Author:               extractField(v.Author, "name"),
		License:              license,
		Homepage:             v.Homepage,
		Repository:           extractField(v.Repository, "url"),
		Keywords:             stringList(v.Keywords),
		Deprecated:           reason,
		Dependencies:         v.Dependencies,
		DevDependencies:      v.DevDependencies,
		PeerDependencies:     v.PeerDependencies,
		OptionalDependencies: v.OptionalDependencies,
	}
}

func (r advisoryRecord) advisory() Advisory {
	cve := scalar(r.CVE)
	if cve == "" && len(r.CVEs) > 0 {
		cve = scalar(r.CVEs[0])
	}
	return Advisory{
		ID:               scalar(r.ID),
		Title:            r.Title,
		Description:      r.Overview,
		Severity:         r.Severity,
		CVE:              cve,
		AffectedVersions: r.VulnerableVersion,
		PatchedVersions:  r.PatchedVersions,
		Recommendation:   r.Recommendation,
	}
}

func wrapNotFound(err error, what string) error {
	if errors.Is(err, integrations.ErrNotFound) {
		return fmt.Errorf("%w: npm package %s", err, what)
	}
	return err
}

// deprecation interprets a manifest's "deprecated" value. Registries
// publish a message string; a bare true is also seen in the wild.
func deprecation(v any) (bool, string) {
	switch val := v.(type) {
	case string:
		return val != "", val
	case bool:
		return val, ""
	case nil:
		return false, ""
	default:
		return true, ""
	}
}

// extractField reads fields like "license" and "author" that appear either
// as a plain string or as an object.
func extractField(v any, field string) string {
	switch val := v.(type) {
	case string:
		return val
	case map[string]any:
		if s, ok := val[field].(string); ok {
			return s
		}
	}
	return ""
}

func stringList(v any) []string {
	switch val := v.(type) {
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		return strings.Fields(strings.ReplaceAll(val, ",", " "))
	}
	return nil
}

func scalar(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	}
	return ""
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
