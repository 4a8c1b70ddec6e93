// Package implvalidate is the Implementation Validator:
// compares a file's merged expected artifacts against what the language
// adapter actually found defined in source, under strict or permissive
// rules.
package implvalidate

import (
	"github.com/mamertofabian/maidrunner/internal/types"
)

// Mode selects which direction of comparison runs: strict files (in
// creatableFiles) also flag undeclared public definitions; permissive files
// (editableFiles) only check that declared artifacts exist.
type Mode int

const (
	// Permissive only checks declared-artifacts-exist; extra public
	// definitions are allowed.
	Permissive Mode = iota
	// Strict additionally flags every public definition with no matching
	// declaration.
	Strict
)

// declKey identifies a defined/expected artifact for matching purposes
// without the returns field — the merge key proper distinguishes
// return-type overloads for dedup across manifests, but the Implementation
// Validator needs to locate "the same artifact, possibly with a changed
// signature" to report a TypeMismatch rather than a MissingArtifact.
type declKey struct {
	Type  types.ArtifactKind
	Class string
	Name  string
}

func keyOf(a types.Artifact) declKey {
	return declKey{Type: a.Type, Class: a.Class, Name: a.Name}
}

// Check compares expected against src's defined artifacts. exists reports
// whether file is present on disk, needed only for the tombstoned case
// since a SourceDescriptor alone can't distinguish
// "file absent" from "file present but empty".
func Check(file string, expected types.ExpectedSet, src types.SourceDescriptor, exists bool, mode Mode) []types.Diagnostic {
	var diags []types.Diagnostic

	if expected.Tombstoned {
		if exists {
			diags = append(diags, types.Err(types.KindUnexpectedFilePresent, types.Location{File: file},
				"file %q is expected to be absent (superseding manifest declares status=absent) but exists on disk", file))
		}
		return diags
	}

	byMerge := make(map[types.MergeKey]types.Artifact, len(src.Defined))
	byDecl := make(map[declKey]types.Artifact, len(src.Defined))
	for _, a := range src.Defined {
		byMerge[a.MergeKey()] = a
		byDecl[keyOf(a)] = a
	}

	declared := make(map[declKey]bool, len(expected.Artifacts))
	for _, want := range expected.Artifacts {
		declared[keyOf(want)] = true

		// Presence is decided on the full merge key (type, class, name,
		// returns): a return-type identity difference is itself a missing
		// artifact, not merely a mismatch. declKey (which drops returns) is
		// consulted regardless, to find the same-named definition a
		// signature TypeMismatch should be reported against.
		_, exact := byMerge[want.MergeKey()]
		if !exact {
			diags = append(diags, types.Err(types.KindMissingArtifact, types.Location{File: file, Line: want.Line},
				"expected %s %q with return type %q not defined in %s", want.Type, qualifiedName(want), want.Returns, file))
		}

		got, ok := byDecl[keyOf(want)]
		if !ok {
			continue
		}

		if !exact && want.Returns != "" && got.Returns != "" && want.Returns != got.Returns {
			diags = append(diags, types.Err(types.KindTypeMismatch, types.Location{File: file, Line: got.Line},
				"%s %q: declared return type %q does not match defined return type %q",
				want.Type, qualifiedName(want), want.Returns, got.Returns))
		}

		diags = append(diags, compareArgs(file, want, got)...)
	}

	if mode == Strict {
		for _, def := range src.Defined {
			if def.Type.IsTypeOnly() {
				continue
			}
			if !def.IsPublic() {
				continue
			}
			if declared[keyOf(def)] {
				continue
			}
			diags = append(diags, types.Err(types.KindUndeclaredArtifact, types.Location{File: file, Line: def.Line},
				"public %s %q defined in %s has no declaring manifest entry", def.Type, qualifiedName(def), file))
		}
	}

	return diags
}

// compareArgs walks want's and got's argument vectors positionally. Names
// must match; types must match when both sides specify one — a missing
// type on either side is tolerated only when the expected side also omits
// it.
func compareArgs(file string, want, got types.Artifact) []types.Diagnostic {
	var diags []types.Diagnostic
	n := len(want.Args)
	if len(got.Args) < n {
		n = len(got.Args)
	}
	for i := 0; i < n; i++ {
		w, g := want.Args[i], got.Args[i]
		if w.Name != "" && g.Name != "" && w.Name != g.Name {
			diags = append(diags, types.Err(types.KindTypeMismatch, types.Location{File: file, Line: got.Line},
				"%s %q: parameter %d name %q does not match defined name %q",
				want.Type, qualifiedName(want), i, w.Name, g.Name))
			continue
		}
		if w.Type != "" && w.Type != g.Type {
			diags = append(diags, types.Err(types.KindTypeMismatch, types.Location{File: file, Line: got.Line},
				"%s %q: parameter %q declared type %q does not match defined type %q",
				want.Type, qualifiedName(want), w.Name, w.Type, g.Type))
		}
	}
	if len(want.Args) != len(got.Args) {
		diags = append(diags, types.Err(types.KindTypeMismatch, types.Location{File: file, Line: got.Line},
			"%s %q: declared %d parameter(s) but definition has %d",
			want.Type, qualifiedName(want), len(want.Args), len(got.Args)))
	}
	return diags
}

func qualifiedName(a types.Artifact) string {
	if a.Class == "" {
		return a.Name
	}
	return a.Class + "." + a.Name
}
