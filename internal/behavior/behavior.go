// Package behavior is the Behavioural Validator: it proves
// that declared artifacts are actually exercised by the tests a chain names,
// following imports into helper modules a bounded depth.
package behavior

import (
	"strings"

	"github.com/mamertofabian/maidrunner/internal/langadapter"
	"github.com/mamertofabian/maidrunner/internal/types"
)

// defaultImportFollowDepth bounds the helper-module follow-through when a
// caller doesn't supply one: a test that imports a helper that imports
// another helper is still followed, but the chase stops rather than risking
// an unbounded or cyclic walk.
const defaultImportFollowDepth = 3

// FileReader abstracts reading a test file's bytes and resolving an import
// specifier to a file path, so behavior stays free of any particular
// filesystem/module-resolution policy — the caller (internal/runner) owns
// that.
type FileReader interface {
	ReadFile(path string) ([]byte, bool)
	Exists(path string) bool
	ResolveImport(fromFile, module string) (string, bool)
}

// Check verifies expected against the usages/imports collected from every
// test file named in chain's validationCommand(s), following imports up to
// maxDepth hops. A maxDepth of 0 or less falls back to
// defaultImportFollowDepth, so zero-value config (and direct callers that
// don't care) still get a bounded walk.
func Check(chain []*types.Manifest, expected types.ExpectedSet, adapters *langadapter.Registry, fs FileReader, maxDepth int) []types.Diagnostic {
	var diags []types.Diagnostic
	if expected.Tombstoned {
		return diags
	}
	if maxDepth <= 0 {
		maxDepth = defaultImportFollowDepth
	}

	testFiles := discoverTestFiles(chain, adapters)

	usages := make(map[string]bool)
	subclassBases := make(map[string]bool)
	attrAccess := make(map[string]bool) // "Class.name"

	for file := range testFiles {
		if !fs.Exists(file) {
			diags = append(diags, types.Warn(types.KindParseError, types.Location{File: file},
				"test file %q referenced by validationCommand does not exist", file))
			continue
		}
		collectUsages(file, adapters, fs, 0, maxDepth, make(map[string]bool), usages, subclassBases, attrAccess)
	}

	for _, want := range expected.Artifacts {
		if want.Type.IsTypeOnly() {
			continue
		}
		if satisfied(want, usages, subclassBases, attrAccess) {
			continue
		}
		diags = append(diags, types.Err(types.KindBehaviourMissing, types.Location{File: expected.File},
			"%s %q has no test usage in the chain's validation commands", want.Type, qualifiedName(want)))
	}

	return diags
}

func satisfied(want types.Artifact, usages, subclassBases, attrAccess map[string]bool) bool {
	switch want.Type {
	case types.KindClass:
		if usages[qualifiedName(want)] || usages[want.Name] {
			return true
		}
		return subclassBases[want.Name]
	case types.KindAttribute:
		if want.Class == "" {
			return usages[want.Name]
		}
		return attrAccess[want.Class+"."+want.Name]
	default: // function, method
		return usages[qualifiedName(want)] || usages[want.Name]
	}
}

func qualifiedName(a types.Artifact) string {
	if a.Class == "" {
		return a.Name
	}
	return a.Class + "." + a.Name
}

// discoverTestFiles tokenises every validationCommand/validationCommands
// vector and picks out path-like tokens ending in a known test extension.
func discoverTestFiles(chain []*types.Manifest, adapters *langadapter.Registry) map[string]bool {
	exts := adapters.Extensions()
	files := make(map[string]bool)
	for _, m := range chain {
		for _, vec := range m.ValidationCommandVectors() {
			for _, tok := range vec {
				if looksLikeTestPath(tok, exts) {
					files[tok] = true
				}
			}
		}
	}
	return files
}

func looksLikeTestPath(tok string, exts []string) bool {
	for _, ext := range exts {
		if strings.HasSuffix(tok, ext) {
			return true
		}
	}
	return false
}

// collectUsages reads file, parses it as a test file, records its usages,
// and recurses into its imports up to maxDepth, guarding against import
// cycles with visited.
func collectUsages(file string, adapters *langadapter.Registry, fs FileReader, depth, maxDepth int, visited map[string]bool,
	usages, subclassBases, attrAccess map[string]bool) {
	if depth > maxDepth || visited[file] {
		return
	}
	visited[file] = true

	adapter := adapters.For(file)
	if adapter == nil {
		return
	}
	src, ok := fs.ReadFile(file)
	if !ok {
		return
	}
	desc, _ := adapter.ParseTests(file, src)

	for _, u := range desc.Usages {
		switch u.Kind {
		case types.UsageCall, types.UsageInstantiate, types.UsageRaises, types.UsageKeywordArg:
			usages[u.Name] = true
			if u.Class != "" {
				usages[u.Class+"."+u.Name] = true
			}
		case types.UsageSubclass:
			subclassBases[u.Name] = true
		case types.UsageAttribute:
			attrAccess[u.Class+"."+u.Name] = true
			usages[u.Name] = true
		}
	}

	for _, imp := range desc.Imports {
		target, ok := fs.ResolveImport(file, imp.Module)
		if !ok {
			continue
		}
		collectUsages(target, adapters, fs, depth+1, maxDepth, visited, usages, subclassBases, attrAccess)
	}
}
