package config

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// GitignoreParser parses .gitignore-style pattern files and matches paths
// against them, adapted from the original indexing-scope parser to drive
// the File Tracker's exclusion list instead. Glob matching
// is delegated to doublestar rather than a hand-rolled regex-compilation
// cache — doublestar already is the pack's glob engine (also used by
// internal/tracker's own exclusion globs and internal/coherence's path
// patterns), so a second glob implementation here would just duplicate it.
type GitignoreParser struct {
	patterns []gitignorePattern
}

type gitignorePattern struct {
	Pattern   string
	Negate    bool
	Directory bool
	Absolute  bool
}

// NewGitignoreParser creates an empty parser.
func NewGitignoreParser() *GitignoreParser {
	return &GitignoreParser{}
}

// LoadGitignore loads patterns from rootPath/.gitignore. A missing file is
// not an error — gitignore-awareness is opportunistic.
func (gp *GitignoreParser) LoadGitignore(rootPath string) error {
	file, err := os.Open(filepath.Join(rootPath, ".gitignore"))
	if err != nil {
		return nil
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		gp.AddPattern(line)
	}
	return scanner.Err()
}

// AddPattern adds a single gitignore-syntax pattern line.
func (gp *GitignoreParser) AddPattern(line string) {
	p := gitignorePattern{}
	if strings.HasPrefix(line, "!") {
		p.Negate = true
		line = line[1:]
	}
	if strings.HasSuffix(line, "/") {
		p.Directory = true
		line = strings.TrimSuffix(line, "/")
	}
	if strings.HasPrefix(line, "/") {
		p.Absolute = true
		line = line[1:]
	}
	p.Pattern = line
	gp.patterns = append(gp.patterns, p)
}

// ShouldIgnore reports whether path (forward-slash, project-root-relative)
// should be excluded. Later patterns override earlier ones; a negated
// pattern re-includes a path an earlier pattern excluded, matching git's
// own last-match-wins semantics.
func (gp *GitignoreParser) ShouldIgnore(path string, isDir bool) bool {
	path = filepath.ToSlash(path)
	ignored := false
	for _, p := range gp.patterns {
		if matchesPattern(p, path, isDir) {
			ignored = !p.Negate
		}
	}
	return ignored
}

func matchesPattern(p gitignorePattern, path string, isDir bool) bool {
	if p.Directory && !isDir {
		// A file matches a directory pattern when it lives inside a
		// matching directory, even though the file itself isn't one.
		return matchesAnyAncestor(p, path)
	}

	if p.Absolute {
		ok, _ := doublestar.Match(p.Pattern, path)
		return ok
	}

	// Non-absolute patterns may match at any depth — try the full path,
	// then the base name alone, approximating gitignore's "matches anywhere
	// unless it contains a slash" rule well enough for a source tree's
	// exclusion list.
	if ok, _ := doublestar.Match(p.Pattern, path); ok {
		return true
	}
	base := filepath.Base(path)
	ok, _ := doublestar.Match(p.Pattern, base)
	return ok
}

func matchesAnyAncestor(p gitignorePattern, path string) bool {
	segments := strings.Split(path, "/")
	for i := range segments {
		candidate := strings.Join(segments[:i+1], "/")
		if p.Absolute {
			if ok, _ := doublestar.Match(p.Pattern, candidate); ok {
				return true
			}
			continue
		}
		if ok, _ := doublestar.Match(p.Pattern, segments[i]); ok {
			return true
		}
	}
	return false
}
