package deps

import (
	"encoding/json"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/matzehuels/stacklens/pkg/errors"
	"github.com/matzehuels/stacklens/pkg/integrations/npm"
)

const manifestSchema = `{
  "type": "object",
  "required": ["name"],
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "version": {"type": "string"},
    "dependencies": {"$ref": "#/definitions/deps"},
    "devDependencies": {"$ref": "#/definitions/deps"},
    "peerDependencies": {"$ref": "#/definitions/deps"},
    "optionalDependencies": {"$ref": "#/definitions/deps"}
  },
  "definitions": {
    "deps": {"type": "object", "additionalProperties": {"type": "string"}}
  }
}`

var manifestSchemaLoader = gojsonschema.NewStringLoader(manifestSchema)

// Manifest is a parsed package.json.
type Manifest struct {
	Name                 string           `json:"name"`
	Version              string           `json:"version"`
	License              string           `json:"license,omitempty"`
	Dependencies         npm.Dependencies `json:"dependencies,omitempty"`
	DevDependencies      npm.Dependencies `json:"devDependencies,omitempty"`
	PeerDependencies     npm.Dependencies `json:"peerDependencies,omitempty"`
	OptionalDependencies npm.Dependencies `json:"optionalDependencies,omitempty"`
}

// Counts returns the number of declared dependencies per type.
func (m *Manifest) Counts() map[DependencyType]int {
	return map[DependencyType]int{
		Production:  len(m.Dependencies),
		Development: len(m.DevDependencies),
		Peer:        len(m.PeerDependencies),
		Optional:    len(m.OptionalDependencies),
	}
}

// ParseManifest validates and parses package.json content. The version
// defaults to "latest". Malformed JSON or a document that is not a
// package manifest yields an INVALID_MANIFEST error.
func ParseManifest(data []byte) (*Manifest, error) {
	result, err := gojsonschema.Validate(manifestSchemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "Invalid package.json format")
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, errors.New(errors.ErrCodeInvalidManifest,
			"Invalid package.json format: %s", strings.Join(msgs, "; "))
	}

	var raw struct {
		Name                 string           `json:"name"`
		Version              string           `json:"version"`
		License              json.RawMessage  `json:"license"`
		Dependencies         npm.Dependencies `json:"dependencies"`
		DevDependencies      npm.Dependencies `json:"devDependencies"`
		PeerDependencies     npm.Dependencies `json:"peerDependencies"`
		OptionalDependencies npm.Dependencies `json:"optionalDependencies"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "Invalid package.json format")
	}

	m := &Manifest{
		Name:                 raw.Name,
		Version:              raw.Version,
		License:              license(raw.License),
		Dependencies:         raw.Dependencies,
		DevDependencies:      raw.DevDependencies,
		PeerDependencies:     raw.PeerDependencies,
		OptionalDependencies: raw.OptionalDependencies,
	}
	if m.Version == "" {
		m.Version = "latest"
	}
	return m, nil
}

// license accepts the string form and the legacy {"type": ...} object.
func license(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var obj struct {
		Type string `json:"type"`
	}
	if json.Unmarshal(raw, &obj) == nil {
		return obj.Type
	}
	return ""
}
