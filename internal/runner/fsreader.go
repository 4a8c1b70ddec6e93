package runner

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/mamertofabian/maidrunner/internal/behavior"
	"github.com/mamertofabian/maidrunner/pkg/pathutil"
)

// tryExtensions is the search order used when resolving an import
// specifier that names a module rather than a file: try each of these
// suffixes in turn, first hit wins.
var tryExtensions = []string{".py", ".ts", ".tsx", ".js", ".jsx", ".svelte", ".go"}

// Filesystem is what Run needs to read project source and resolve
// imports — behavior.FileReader under a name that doesn't tie runner's own
// public API to one validator's package. FS is the production
// implementation; tests substitute their own.
type Filesystem interface {
	behavior.FileReader
}

// FS is the real-filesystem implementation of Filesystem, rooted at one
// project directory.
type FS struct {
	Root string
}

// ReadFile reads path (a canonical project-relative path) from disk.
func (f FS) ReadFile(path string) ([]byte, bool) {
	b, err := os.ReadFile(pathutil.ToAbsolute(path, f.Root))
	if err != nil {
		return nil, false
	}
	return b, true
}

// Exists reports whether path exists on disk.
func (f FS) Exists(path string) bool {
	_, err := os.Stat(pathutil.ToAbsolute(path, f.Root))
	return err == nil
}

// ResolveImport resolves module, as imported from fromFile, to a
// project-relative file path. Supports two conventions found across the
// adapter set: a path-relative specifier ("./helpers", "../lib/util") and
// a dotted module path (Python's "pkg.sub.mod"). Package/directory
// specifiers (resolving to an __init__.py / index.ts) are not attempted —
// this is best-effort follow-through for the Behavioural Validator, not a
// full module resolver.
func (f FS) ResolveImport(fromFile, module string) (string, bool) {
	if module == "" {
		return "", false
	}

	fromDir := filepath.Dir(fromFile)

	var candidateBase string
	if strings.HasPrefix(module, ".") {
		candidateBase = pathutil.Canonical(filepath.Join(fromDir, strings.ReplaceAll(module, ".", string(filepath.Separator))))
		// Relative JS/TS specifiers keep literal slashes; dotted-only
		// replacement above is wrong for those, so prefer the raw join
		// when module contains a slash already.
		if strings.Contains(module, "/") {
			candidateBase = pathutil.Canonical(filepath.Join(fromDir, module))
		}
	} else if strings.Contains(module, "/") {
		candidateBase = pathutil.Canonical(module)
	} else {
		candidateBase = pathutil.Canonical(strings.ReplaceAll(module, ".", "/"))
	}

	if f.Exists(candidateBase) {
		return candidateBase, true
	}
	for _, ext := range tryExtensions {
		candidate := candidateBase + ext
		if f.Exists(candidate) {
			return candidate, true
		}
	}
	return "", false
}
