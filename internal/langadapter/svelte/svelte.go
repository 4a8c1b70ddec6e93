// Package svelte implements the Svelte Language Adapter. Svelte has no
// dedicated tree-sitter grammar available here, so the adapter extracts the
// component's <script> block with a small scanner and delegates everything
// else to the TypeScript/JavaScript adapter: one adapter registered per
// extension, this one composing another adapter instead of a grammar.
package svelte

import (
	"strings"

	"github.com/mamertofabian/maidrunner/internal/langadapter/tsx"
	"github.com/mamertofabian/maidrunner/internal/types"
)

// Adapter implements langadapter.Adapter for ".svelte" single-file
// components by delegating script-block content to a TSX adapter.
type Adapter struct {
	inner *tsx.Adapter
}

// New builds the Svelte adapter.
func New() *Adapter {
	return &Adapter{inner: tsx.New()}
}

func (a *Adapter) Language() string     { return "svelte" }
func (a *Adapter) Extensions() []string { return []string{".svelte"} }

func (a *Adapter) ParseSource(path string, src []byte) (types.SourceDescriptor, []types.Diagnostic) {
	script, offset, ok := extractScript(src)
	if !ok {
		return types.SourceDescriptor{Path: path, Language: a.Language()}, nil
	}
	desc, diags := a.inner.ParseSource(path, script)
	desc.Language = a.Language()
	shiftLines(desc.Defined, offset)
	return desc, diags
}

func (a *Adapter) ParseTests(path string, src []byte) (types.SourceDescriptor, []types.Diagnostic) {
	script, offset, ok := extractScript(src)
	if !ok {
		return types.SourceDescriptor{Path: path, Language: a.Language()}, nil
	}
	desc, diags := a.inner.ParseTests(path, script)
	desc.Language = a.Language()
	for i := range desc.Usages {
		desc.Usages[i].Line += offset
	}
	for i := range desc.Imports {
		desc.Imports[i].Line += offset
	}
	return desc, diags
}

func shiftLines(artifacts []types.Artifact, offset int) {
	for i := range artifacts {
		artifacts[i].Line += offset
	}
}

// extractScript finds the first <script> ... </script> block (optionally
// tagged lang="ts") and returns its contents, the 0-based line of the tag's
// opening, and whether a script block was present at all. Svelte markup
// outside <script> has no artifacts the kernel cares about.
func extractScript(src []byte) ([]byte, int, bool) {
	text := string(src)
	openIdx := strings.Index(text, "<script")
	if openIdx < 0 {
		return nil, 0, false
	}
	tagEnd := strings.IndexByte(text[openIdx:], '>')
	if tagEnd < 0 {
		return nil, 0, false
	}
	contentStart := openIdx + tagEnd + 1
	closeIdx := strings.Index(text[contentStart:], "</script>")
	if closeIdx < 0 {
		return nil, 0, false
	}
	content := text[contentStart : contentStart+closeIdx]
	offset := strings.Count(text[:contentStart], "\n")
	return []byte(content), offset, true
}
