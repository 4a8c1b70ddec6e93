// Package tracker is the File Tracker: walks the project
// tree and classifies every discovered source file as tracked, registered,
// or undeclared, separately scoring test files as untracked when no
// validationCommand references them.
package tracker

import (
	"io/fs"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/mamertofabian/maidrunner/internal/types"
)

// Classification is one file's tracking status.
type Classification string

const (
	// Tracked: in an active manifest's expected set, with every public
	// artifact defined in the file covered by that set.
	Tracked Classification = "tracked"
	// Registered: referenced by some manifest, but with no expected
	// artifacts or with public definitions the expected set does not cover.
	// Whether validation commands are declared is not considered.
	Registered Classification = "registered"
	// Undeclared: on disk, referenced by nothing.
	Undeclared Classification = "undeclared"
	// UntrackedTest: a test file not named in any validationCommand.
	UntrackedTest Classification = "untracked-test"
)

// Entry is one file's classification result.
type Entry struct {
	File           string
	Classification Classification
	Severity       types.Severity
}

var severityByClass = map[Classification]types.Severity{
	Tracked:       types.SeverityInfo,
	Registered:    types.SeverityInfo,
	Undeclared:    types.SeverityWarning,
	UntrackedTest: types.SeverityWarning,
}

// defaultExclusions are the directories no project's source tree wants
// walked: VCS metadata, language package caches, dependency vendoring.
var defaultExclusions = []string{
	"**/.git/**", "**/.git",
	"**/node_modules/**", "**/node_modules",
	"**/__pycache__/**", "**/__pycache__",
	"**/.venv/**", "**/.venv",
	"**/vendor/**", "**/vendor",
	"**/.maid-cache/**", "**/.maid-cache",
	"**/dist/**", "**/dist",
	"**/build/**", "**/build",
}

// Walk discovers every file under root not matched by exclusions
// (doublestar glob patterns, tried against the root-relative forward-slash
// path) or extraExclude, returning root-relative paths.
func Walk(root string, extraExclude []string) ([]string, error) {
	patterns := append(append([]string{}, defaultExclusions...), extraExclude...)

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}
		if excluded(rel, patterns) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		files = append(files, rel)
		return nil
	})
	return files, err
}

func excluded(rel string, patterns []string) bool {
	for _, pat := range patterns {
		if ok, _ := doublestar.Match(pat, rel); ok {
			return true
		}
	}
	return false
}

// FileView is everything Classify needs to know about one file's
// manifest-side state — kept separate from types.ExpectedSet so a file
// with no manifest reference at all is representable without a sentinel.
type FileView struct {
	Referenced      bool             // appears in some manifest (any list or expectedArtifacts)
	Expected        types.ExpectedSet
	HasExpected     bool             // Expected was actually populated (vs. zero value)
	FullyCovered    bool             // every public artifact the adapter found is in Expected
	IsTestFile      bool
	ReferencedByRun bool             // named in some validationCommand vector
}

// Classify turns each discovered file plus its FileView into a
// classification entry.
func Classify(files []string, views map[string]FileView) []Entry {
	entries := make([]Entry, 0, len(files))
	for _, file := range files {
		view := views[file]

		var class Classification
		switch {
		case view.IsTestFile:
			if view.ReferencedByRun {
				class = Tracked
			} else {
				class = UntrackedTest
			}
		case !view.Referenced:
			class = Undeclared
		case view.HasExpected && len(view.Expected.Artifacts) > 0 && view.FullyCovered:
			class = Tracked
		default:
			class = Registered
		}

		entries = append(entries, Entry{File: file, Classification: class, Severity: severityByClass[class]})
	}
	return entries
}
