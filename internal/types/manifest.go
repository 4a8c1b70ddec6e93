// Package types holds the shared domain model for the validation kernel:
// manifests, artifacts, source descriptors, and diagnostics. No package in
// internal/ owns these structs privately — they are the vocabulary every
// other component speaks.
package types

import "encoding/json"

// TaskType enumerates the kinds of work a manifest declares.
type TaskType string

const (
	TaskCreate   TaskType = "create"
	TaskEdit     TaskType = "edit"
	TaskRefactor TaskType = "refactor"
	TaskSnapshot TaskType = "snapshot"
)

// ArtifactStatus controls whether expectedArtifacts describes a file that
// must exist (present) or must not exist (absent, a tombstone).
type ArtifactStatus string

const (
	StatusPresent ArtifactStatus = "present"
	StatusAbsent  ArtifactStatus = "absent"
)

// ManifestID is a dense, stable handle assigned at store-load time. Cross
// references (diagnostics, graph-export nodes) carry a ManifestID rather
// than a *Manifest pointer, so the manifest index can stay an arena.
type ManifestID uint32

// Manifest is the immutable, on-disk JSON contract for one target file.
// Fields mirror the on-disk JSON shape exactly; unknown top-level keys are
// ignored on decode and are not retained anywhere on the struct.
type Manifest struct {
	ID     ManifestID `json:"-"`
	Name   string     `json:"-"` // filename, without directory
	Path   string     `json:"-"` // absolute path on disk, for diagnostics

	Goal     string   `json:"goal"`
	TaskType TaskType `json:"taskType,omitempty"`

	CreatableFiles []string `json:"creatableFiles,omitempty"`
	EditableFiles  []string `json:"editableFiles,omitempty"`
	ReadonlyFiles  []string `json:"readonlyFiles,omitempty"`

	ExpectedArtifacts *ExpectedArtifacts `json:"expectedArtifacts,omitempty"`

	Supersedes []string `json:"supersedes,omitempty"`

	ValidationCommand  []string   `json:"validationCommand,omitempty"`
	ValidationCommands [][]string `json:"validationCommands,omitempty"`

	Version     string          `json:"version,omitempty"`
	Description string          `json:"description,omitempty"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`

	// TaskIndex is the leading numeric component of the filename
	// (task-NNN-slug.manifest.json). Populated by the store loader.
	TaskIndex int `json:"-"`
}

// ExpectedArtifacts describes the artifacts one manifest contributes for one
// target file.
type ExpectedArtifacts struct {
	File     string         `json:"file"`
	Contains []Artifact     `json:"contains"`
	Status   ArtifactStatus `json:"status,omitempty"`
}

// EffectiveStatus defaults an unset status to "present".
func (e *ExpectedArtifacts) EffectiveStatus() ArtifactStatus {
	if e == nil || e.Status == "" {
		return StatusPresent
	}
	return e.Status
}

// EffectiveTaskType defaults an unset task type to snapshot ("legacy
// snapshot").
func (m *Manifest) EffectiveTaskType() TaskType {
	if m.TaskType == "" {
		return TaskSnapshot
	}
	return m.TaskType
}

// ValidationCommandVectors returns the union of the singular and plural
// validation-command fields as a flat list of argument vectors.
func (m *Manifest) ValidationCommandVectors() [][]string {
	var out [][]string
	if len(m.ValidationCommand) > 0 {
		out = append(out, m.ValidationCommand)
	}
	out = append(out, m.ValidationCommands...)
	return out
}

// ReferencesFile reports whether the manifest mentions path anywhere a
// manifest can mention a file: the three file lists, or expectedArtifacts.
func (m *Manifest) ReferencesFile(path string) bool {
	for _, f := range m.CreatableFiles {
		if f == path {
			return true
		}
	}
	for _, f := range m.EditableFiles {
		if f == path {
			return true
		}
	}
	for _, f := range m.ReadonlyFiles {
		if f == path {
			return true
		}
	}
	if m.ExpectedArtifacts != nil && m.ExpectedArtifacts.File == path {
		return true
	}
	return false
}

// IsCreatable reports whether path is declared creatable by this manifest.
func (m *Manifest) IsCreatable(path string) bool {
	for _, f := range m.CreatableFiles {
		if f == path {
			return true
		}
	}
	return false
}

// IsEditable reports whether path is declared editable by this manifest.
func (m *Manifest) IsEditable(path string) bool {
	for _, f := range m.EditableFiles {
		if f == path {
			return true
		}
	}
	return false
}
