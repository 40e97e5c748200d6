package npm

import (
	"encoding/json"
	"time"
)

// Metadata is a package document or a single version manifest, reduced to
// the fields stacklens reads. For a package document Version is the
// "latest" dist-tag and the dependency lists come from that version; for a
// version manifest they come from the manifest itself.
type Metadata struct {
	Name        string    `json:"name"`
	Version     string    `json:"version"`
	Description string    `json:"description,omitempty"`
	Author      string    `json:"author,omitempty"`
	License     string    `json:"license,omitempty"`
	Homepage    string    `json:"homepage,omitempty"`
	Repository  string    `json:"repository,omitempty"`
	Keywords    []string  `json:"keywords,omitempty"`
	Deprecated  string    `json:"deprecated,omitempty"`
	Modified    time.Time `json:"modified,omitzero"`

	Dependencies         Dependencies `json:"dependencies,omitempty"`
	DevDependencies      Dependencies `json:"devDependencies,omitempty"`
	PeerDependencies     Dependencies `json:"peerDependencies,omitempty"`
	OptionalDependencies Dependencies `json:"optionalDependencies,omitempty"`

	// Versions is populated for package documents only.
	Versions map[string]VersionInfo `json:"versions,omitempty"`
}

// IsEmpty reports whether m carries no data, which is the registry
// client's default for a failed lookup.
func (m Metadata) IsEmpty() bool {
	return m.Name == "" && m.Version == "" && len(m.Versions) == 0 && len(m.Dependencies) == 0
}

// VersionInfo summarizes one entry of a package document's versions map.
type VersionInfo struct {
	Deprecated  bool      `json:"deprecated,omitempty"`
	Reason      string    `json:"reason,omitempty"`
	PublishedAt time.Time `json:"publishedAt,omitzero"`
}

// SearchResult is one hit of a registry search.
type SearchResult struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description,omitempty"`
}

// Downloads is a point download count for a period.
type Downloads struct {
	Package   string `json:"package,omitempty"`
	Downloads int64  `json:"downloads"`
	Start     string `json:"start,omitempty"`
	End       string `json:"end,omitempty"`
}

// Advisory is a security advisory as published by the advisory feed.
type Advisory struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	Severity         string `json:"severity"`
	CVE              string `json:"cve,omitempty"`
	AffectedVersions string `json:"affectedVersions"`
	PatchedVersions  string `json:"patchedVersions"`
	Recommendation   string `json:"recommendation"`
}

// wire types

type registryDocument struct {
	Name     string                     `json:"name"`
	DistTags map[string]string          `json:"dist-tags"`
	Versions map[string]json.RawMessage `json:"versions"`
	Time     map[string]any             `json:"time"`

	// Top-level copies of the latest manifest's fields, used when that
	// manifest is missing or bare.
	Description any `json:"description"`
	Author      any `json:"author"`
	License     any `json:"license"`
	Homepage    any `json:"homepage"`
	Repository  any `json:"repository"`
}

type versionManifest struct {
	Name                 string       `json:"name"`
	Version              string       `json:"version"`
	Description          string       `json:"description"`
	Author               any          `json:"author"`
	License              any          `json:"license"`
	Licenses             []any        `json:"licenses"`
	Homepage             string       `json:"homepage"`
	Repository           any          `json:"repository"`
	Keywords             any          `json:"keywords"`
	Deprecated           any          `json:"deprecated"`
	Dependencies         Dependencies `json:"dependencies"`
	DevDependencies      Dependencies `json:"devDependencies"`
	PeerDependencies     Dependencies `json:"peerDependencies"`
	OptionalDependencies Dependencies `json:"optionalDependencies"`
}

type searchResponse struct {
	Objects []struct {
		Package struct {
			Name        string `json:"name"`
			Version     string `json:"version"`
			Description string `json:"description"`
		} `json:"package"`
	} `json:"objects"`
}

type advisoryRecord struct {
	ID                any    `json:"id"`
	Title             string `json:"title"`
	Overview          string `json:"overview"`
	Severity          string `json:"severity"`
	CVE               any    `json:"cve"`
	CVEs              []any  `json:"cves"`
	VulnerableVersion string `json:"vulnerable_versions"`
	PatchedVersions   string `json:"patched_versions"`
	Recommendation    string `json:"recommendation"`
}
