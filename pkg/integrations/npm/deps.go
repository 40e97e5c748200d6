package npm

import (
	"bytes"
	"encoding/json"
)

// Dependency is one entry of a manifest's dependency map.
type Dependency struct {
	Name  string `json:"name"`
	Range string `json:"range"`
}

// Dependencies is a manifest dependency map that keeps declaration order.
// It decodes from and encodes to a JSON object.
type Dependencies []Dependency

// UnmarshalJSON reads a JSON object token by token so the order of keys in
// the document survives. A null, missing or non-object value yields an
// empty list; an entry whose value is not a string is kept with an empty
// range.
func (d *Dependencies) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		*d = nil
		return nil
	}

	var out Dependencies
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, _ := tok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		var rng string
		_ = json.Unmarshal(raw, &rng)
		out = append(out, Dependency{Name: name, Range: rng})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*d = out
	return nil
}

// MarshalJSON writes the dependencies as a JSON object in declaration order.
func (d Dependencies) MarshalJSON() ([]byte, error) {
	if d == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, dep := range d {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(dep.Name)
		if err != nil {
			return nil, err
		}
		rng, err := json.Marshal(dep.Range)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(rng)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
