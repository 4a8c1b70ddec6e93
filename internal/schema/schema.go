// Package schema is the Schema Validator: the only component
// allowed to reject a manifest as malformed. Every other component assumes
// its input has already passed Validate.
package schema

import (
	"encoding/json"
	"fmt"

	jschema "github.com/google/jsonschema-go/jsonschema"

	"github.com/mamertofabian/maidrunner/internal/types"
)

// manifestSchema is the structural shape every manifest JSON document must
// satisfy. Cross-field rules that read more like prose than schema (the
// deletion-manifest invariant, the creatable/editable mutual exclusion) are not
// expressible in plain JSON Schema and run as a second pass in
// semanticRules below — the same two-tier split config.Validator uses
// elsewhere in this module (structural bounds, then a smart-defaults/
// semantic pass).
var manifestSchema = &jschema.Schema{
	Type:     "object",
	Required: []string{"goal"},
	Properties: map[string]*jschema.Schema{
		"goal": {Type: "string"},
		"taskType": {
			Type: "string",
			Enum: []any{"create", "edit", "refactor", "snapshot"},
		},
		"creatableFiles": {Type: "array", Items: &jschema.Schema{Type: "string"}},
		"editableFiles":  {Type: "array", Items: &jschema.Schema{Type: "string"}},
		"readonlyFiles":  {Type: "array", Items: &jschema.Schema{Type: "string"}},
		"supersedes":     {Type: "array", Items: &jschema.Schema{Type: "string"}},
		"validationCommand": {
			Type:  "array",
			Items: &jschema.Schema{Type: "string"},
		},
		"validationCommands": {
			Type: "array",
			Items: &jschema.Schema{
				Type:  "array",
				Items: &jschema.Schema{Type: "string"},
			},
		},
		"expectedArtifacts": {
			Type:     "object",
			Required: []string{"file"},
			Properties: map[string]*jschema.Schema{
				"file": {Type: "string"},
				"status": {
					Type: "string",
					Enum: []any{"present", "absent"},
				},
				"contains": {Type: "array"},
			},
		},
		"version":     {Type: "string"},
		"description": {Type: "string"},
	},
}

// resolved is built once; jschema.Schema.Resolve validates the schema
// itself (catches typos in manifestSchema during development) and returns
// a fast-path validator.
var resolved = mustResolve()

func mustResolve() *jschema.Resolved {
	r, err := manifestSchema.Resolve(nil)
	if err != nil {
		panic(fmt.Sprintf("internal/schema: manifest schema does not resolve: %v", err))
	}
	return r
}

// Validate checks raw manifest JSON against the fixed schema plus
// cross-field semantic rules. The returned slice is empty iff every rule
// holds. path is used only to locate diagnostics.
func Validate(path string, raw json.RawMessage) []types.Diagnostic {
	var diags []types.Diagnostic

	var instance any
	if err := json.Unmarshal(raw, &instance); err != nil {
		return []types.Diagnostic{
			types.Fatal(types.KindSchemaViolation, types.Location{File: path}, "invalid JSON: %v", err),
		}
	}

	if err := resolved.Validate(instance); err != nil {
		diags = append(diags, types.Err(types.KindSchemaViolation, types.Location{File: path}, "%v", err))
	}

	var m types.Manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		diags = append(diags, types.Err(types.KindSchemaViolation, types.Location{File: path}, "does not decode as a manifest: %v", err))
		return diags
	}

	diags = append(diags, semanticRules(path, &m)...)
	return diags
}

// semanticRules implements the cross-field rules that read more like prose
// than schema: one-of validationCommand/validationCommands is not actually
// required (both or neither are legal — a manifest may declare zero test
// commands), but a file must appear in at most one of creatableFiles /
// editableFiles, and the deletion-manifest invariant must hold exactly.
func semanticRules(path string, m *types.Manifest) []types.Diagnostic {
	var diags []types.Diagnostic
	loc := types.Location{File: path}

	creatable := toSet(m.CreatableFiles)
	editable := toSet(m.EditableFiles)
	for f := range creatable {
		if editable[f] {
			diags = append(diags, types.Err(types.KindSchemaViolation, loc,
				"file %q appears in both creatableFiles and editableFiles", f))
		}
	}

	if ea := m.ExpectedArtifacts; ea != nil && ea.EffectiveStatus() == types.StatusAbsent {
		if len(ea.Contains) != 0 {
			diags = append(diags, types.Err(types.KindSchemaViolation, loc,
				"expectedArtifacts.status=absent requires an empty contains list for %q", ea.File))
		}
		if m.EffectiveTaskType() != types.TaskRefactor {
			diags = append(diags, types.Err(types.KindSchemaViolation, loc,
				"expectedArtifacts.status=absent requires taskType=refactor for %q", ea.File))
		}
		if len(m.Supersedes) == 0 {
			diags = append(diags, types.Err(types.KindSchemaViolation, loc,
				"expectedArtifacts.status=absent requires a non-empty supersedes list for %q", ea.File))
		}
		if creatable[ea.File] {
			diags = append(diags, types.Err(types.KindSchemaViolation, loc,
				"expectedArtifacts.status=absent file %q must not appear in creatableFiles", ea.File))
		}
	}

	return diags
}

func toSet(ss []string) map[string]bool {
	m := make(map[string]bool, len(ss))
	for _, s := range ss {
		m[s] = true
	}
	return m
}
