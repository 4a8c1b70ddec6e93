// Package coherence is the Coherence Validator:
// cross-manifest, cross-file checks that have no single-file owner —
// duplicate public artifacts, naming conventions, import-graph cycles, and
// user-supplied constraint predicates.
package coherence

import (
	"fmt"

	"github.com/hbollon/go-edlib"

	"github.com/mamertofabian/maidrunner/internal/types"
)

// FileSet is one file's merged expected artifacts, the unit duplicate
// detection and naming checks operate over.
type FileSet struct {
	File      string
	Artifacts []types.Artifact
}

// CheckDuplicates reports a public (type, name) pair declared in more than
// one file's expected set outside a supersession relationship — since sets
// is already post-chain-resolution, any repeat here is a genuine collision
//. Distinct overloads (different `returns`) are not
// collisions: the merge key, not just (type, name), already separates them
// per file, but two different *files* declaring the same (type, name) is
// still a collision even if their full merge keys differ, hence the
// coarser key used here.
func CheckDuplicates(sets []FileSet) []types.Diagnostic {
	type dupKey struct {
		Type types.ArtifactKind
		Name string
	}
	owners := make(map[dupKey][]string)
	for _, fs := range sets {
		for _, a := range fs.Artifacts {
			if !a.IsPublic() {
				continue
			}
			k := dupKey{Type: a.Type, Name: a.Name}
			owners[k] = appendUnique(owners[k], fs.File)
		}
	}

	var diags []types.Diagnostic
	for k, files := range owners {
		if len(files) < 2 {
			continue
		}
		diags = append(diags, types.Err(types.KindDuplicateArtifact, types.Location{File: files[0]},
			"public %s %q declared in more than one file: %v", k.Type, k.Name, files))
	}
	return diags
}

func appendUnique(files []string, file string) []string {
	for _, f := range files {
		if f == file {
			return files
		}
	}
	return append(files, file)
}

// NamingRule pairs a compiled pattern matcher with the diagnostic message
// it produces on a mismatch. A nil MatchesName or AppliesTo means the rule
// does not constrain that axis.
type NamingRule struct {
	Description string
	// MatchesName reports whether name conforms; nil means "no constraint".
	MatchesName func(name string) bool
	// AppliesTo restricts the rule to one artifact kind; nil means every
	// kind (so a single rule can still target just functions or just
	// classes when the caller sets it).
	AppliesTo func(kind types.ArtifactKind) bool
}

// CheckNaming runs rules against every public artifact name in sets,
// emitting info-severity NamingViolation diagnostics with a "did you mean"
// hint computed via Jaro-Winkler similarity against sibling names in the
// same file.
func CheckNaming(sets []FileSet, rules []NamingRule) []types.Diagnostic {
	var diags []types.Diagnostic
	for _, fs := range sets {
		siblings := siblingNames(fs.Artifacts)
		for _, a := range fs.Artifacts {
			if !a.IsPublic() {
				continue
			}
			for _, rule := range rules {
				if rule.AppliesTo != nil && !rule.AppliesTo(a.Type) {
					continue
				}
				if rule.MatchesName == nil || rule.MatchesName(a.Name) {
					continue
				}
				d := types.Info(types.KindNamingViolation, types.Location{File: fs.File, Line: a.Line},
					"%s %q violates naming convention: %s", a.Type, a.Name, rule.Description)
				if hint := didYouMean(a.Name, siblings); hint != "" {
					d.Hints = append(d.Hints, fmt.Sprintf("did you mean %q?", hint))
				}
				diags = append(diags, d)
			}
		}
	}
	return diags
}

func siblingNames(artifacts []types.Artifact) []string {
	names := make([]string, 0, len(artifacts))
	for _, a := range artifacts {
		names = append(names, a.Name)
	}
	return names
}

// didYouMean returns the sibling with the highest Jaro-Winkler similarity
// to name, excluding name itself, when that similarity clears 0.6; else "".
func didYouMean(name string, siblings []string) string {
	best := ""
	bestScore := 0.6
	for _, s := range siblings {
		if s == name || s == "" {
			continue
		}
		score, err := edlib.StringsSimilarity(name, s, edlib.JaroWinkler)
		if err != nil {
			continue
		}
		if float64(score) > bestScore {
			bestScore = float64(score)
			best = s
		}
	}
	return best
}

// Graph is the file-level import graph the dependency checks operate over:
// nodes are files, edges are "file imports target".
type Graph struct {
	Edges    map[string][]string
	Declared map[string]bool // files with a declaring manifest entry
}

// CheckDependencyCycle runs the same three-colour DFS idiom as the Chain
// Resolver's supersession-cycle check, over the import graph instead of the
// supersedes graph.
func CheckDependencyCycle(g Graph) []types.Diagnostic {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int)
	var path []string
	var cycle []string

	var visit func(node string) bool
	visit = func(node string) bool {
		switch color[node] {
		case black:
			return false
		case gray:
			start := 0
			for i, n := range path {
				if n == node {
					start = i
					break
				}
			}
			cycle = append([]string{}, path[start:]...)
			cycle = append(cycle, node)
			return true
		}
		color[node] = gray
		path = append(path, node)
		for _, next := range g.Edges[node] {
			if visit(next) {
				return true
			}
		}
		path = path[:len(path)-1]
		color[node] = black
		return false
	}

	var diags []types.Diagnostic
	for node := range g.Edges {
		if color[node] == white {
			if visit(node) {
				diags = append(diags, types.Err(types.KindDependencyCycle, types.Location{File: cycle[0]},
					"dependency cycle detected: %v", cycle))
				return diags
			}
		}
	}
	return diags
}

// CheckMissingDeclarations reports edges whose target has no declaring
// manifest entry anywhere in the store.
func CheckMissingDeclarations(g Graph) []types.Diagnostic {
	var diags []types.Diagnostic
	reported := make(map[string]bool)
	for from, targets := range g.Edges {
		for _, target := range targets {
			if g.Declared[target] || reported[target] {
				continue
			}
			reported[target] = true
			diags = append(diags, types.Err(types.KindMissingDeclaration, types.Location{File: from},
				"%q is imported but has no declaring manifest", target))
		}
	}
	return diags
}

// Constraint is a user-supplied rule predicate evaluated over the knowledge
// graph. Name identifies
// the rule in ConstraintViolation diagnostics.
type Constraint struct {
	Name  string
	Check func(sets []FileSet, g Graph) []string // returns violation messages
}

// CheckConstraints runs every constraint and wraps its violation messages
// as ConstraintViolation diagnostics.
func CheckConstraints(constraints []Constraint, sets []FileSet, g Graph) []types.Diagnostic {
	var diags []types.Diagnostic
	for _, c := range constraints {
		for _, msg := range c.Check(sets, g) {
			diags = append(diags, types.Err(types.KindConstraintViolation, types.Location{},
				"%s: %s", c.Name, msg))
		}
	}
	return diags
}
