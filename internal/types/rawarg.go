package types

import (
	"bytes"
	"encoding/json"
)

// rawArg decodes a manifest "args" element that may be either a bare JSON
// string (the argument name) or an object {name, type}.
type rawArg struct {
	name string
	typ  string
}

func (r *rawArg) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		r.name = s
		return nil
	}
	var obj struct {
		Name string `json:"name"`
		Type string `json:"type,omitempty"`
	}
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return err
	}
	r.name = obj.Name
	r.typ = obj.Type
	return nil
}

func (r rawArg) toArg() Arg {
	return Arg{Name: r.name, Type: r.typ}
}

// unmarshalStrict is a thin wrapper kept as a single seam so Artifact's
// custom decoder can be adjusted (e.g. to DisallowUnknownFields) in one
// place.
func unmarshalStrict(data []byte, v any) error {
	return json.Unmarshal(data, v)
}
