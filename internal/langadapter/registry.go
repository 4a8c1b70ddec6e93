// Package langadapter defines the Language Adapter capability boundary:
// a small trait every supported language implements, and a
// Registry that selects an implementation by file extension.
package langadapter

import (
	"path/filepath"
	"strings"

	"github.com/mamertofabian/maidrunner/internal/types"
)

// Adapter parses one language family's source and test files into
// language-agnostic descriptors. The kernel never imports target code —
// every adapter method is a pure parse, never an execution.
type Adapter interface {
	// Language names the adapter for diagnostics ("python", "typescript").
	Language() string
	// Extensions lists the file suffixes (with leading dot) this adapter
	// claims.
	Extensions() []string
	// ParseSource produces the artifacts path defines.
	ParseSource(path string, src []byte) (types.SourceDescriptor, []types.Diagnostic)
	// ParseTests produces the usages and imports path's test code contains.
	ParseTests(path string, src []byte) (types.SourceDescriptor, []types.Diagnostic)
}

// Registry selects an Adapter by file extension.
type Registry struct {
	byExt map[string]Adapter
}

// NewRegistry builds a Registry from adapters, indexing each by every
// extension it claims. A later adapter registering an already-claimed
// extension overrides the earlier one — callers control precedence by
// registration order.
func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{byExt: make(map[string]Adapter)}
	for _, a := range adapters {
		for _, ext := range a.Extensions() {
			r.byExt[ext] = a
		}
	}
	return r
}

// For returns the adapter registered for path's extension, or nil if no
// adapter claims it.
func (r *Registry) For(path string) Adapter {
	ext := strings.ToLower(filepath.Ext(path))
	return r.byExt[ext]
}

// Extensions returns every extension with a registered adapter.
func (r *Registry) Extensions() []string {
	out := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		out = append(out, ext)
	}
	return out
}
