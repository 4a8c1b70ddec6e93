package types

import "strings"

// ArtifactKind is the polymorphic tag for a declared or defined code
// artifact. The set of kinds a given language adapter produces varies; the
// kernel never assumes all kinds appear for all languages.
type ArtifactKind string

const (
	KindFunction  ArtifactKind = "function"
	KindClass     ArtifactKind = "class"
	KindMethod    ArtifactKind = "method"
	KindAttribute ArtifactKind = "attribute"
	KindInterface ArtifactKind = "interface"
	KindTypeAlias ArtifactKind = "type-alias"
	KindEnum      ArtifactKind = "enum"
	KindNamespace ArtifactKind = "namespace"
)

// typeKinds are declarations with no runtime presence; the Behavioural
// Validator exempts them from usage-coverage checks.
var typeKinds = map[ArtifactKind]bool{
	KindInterface: true,
	KindTypeAlias: true,
	KindEnum:      true,
	KindNamespace: true,
}

// IsTypeOnly reports whether k has no runtime presence to exercise.
func (k ArtifactKind) IsTypeOnly() bool { return typeKinds[k] }

// Arg is one parameter of a function/method artifact. The legacy manifest
// format admits either a bare string (just a name) or an object; both are
// normalised to Arg during JSON decode (see UnmarshalJSON below).
type Arg struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// Artifact is the polymorphic descriptor shared by manifests'
// expectedArtifacts.contains and by language-adapter SourceDescriptor.Defined.
type Artifact struct {
	Type    ArtifactKind `json:"type"`
	Name    string       `json:"name"`
	Class   string       `json:"class,omitempty"`
	Bases   []string     `json:"bases,omitempty"`
	Args    []Arg        `json:"args,omitempty"`
	Returns string       `json:"returns,omitempty"`
	Raises  []string     `json:"raises,omitempty"`

	// Private marks an artifact the language itself hides (a TypeScript
	// `private` modifier or JavaScript `#name`), independent of the
	// leading-underscore convention IsPublic checks. Parsed source sets
	// this directly; manifests never carry it and leave it false.
	Private bool `json:"-"`

	// Line/Column locate the artifact in its defining source file; zero
	// when the artifact comes from a manifest rather than parsed source.
	Line   int `json:"-"`
	Column int `json:"-"`
}

// MergeKey is the identity tuple: two artifacts are
// identity-equal on (type, class, name, returns). It is used as a map key
// by the Artifact Merger and for presence lookup in the Implementation
// Validator; the Coherence Validator's duplicate detection compares only
// (type, name).
type MergeKey struct {
	Type    ArtifactKind
	Class   string
	Name    string
	Returns string
}

// MergeKey computes a's identity tuple.
func (a Artifact) MergeKey() MergeKey {
	return MergeKey{Type: a.Type, Class: a.Class, Name: a.Name, Returns: a.Returns}
}

// IsPublic reports whether a's name is public under the convention shared
// by Python and TypeScript/JavaScript: no leading underscore, and — for
// languages that express visibility in the grammar rather than the name —
// not explicitly marked Private.
func (a Artifact) IsPublic() bool {
	return !a.Private && IsPublicName(a.Name)
}

// IsPublicName applies the shared underscore convention to a bare
// identifier.
func IsPublicName(name string) bool {
	return name != "" && !strings.HasPrefix(name, "_")
}

// UnmarshalJSON normalises the legacy args shape: each element of "args" is
// either a JSON string (treated as a bare name) or an object {name, type}.
// Both forms remain admissible on parse and are normalised downstream to Arg.
func (a *Artifact) UnmarshalJSON(data []byte) error {
	type alias Artifact
	type wire struct {
		alias
		Args []rawArg `json:"args,omitempty"`
	}
	var w wire
	if err := unmarshalStrict(data, &w); err != nil {
		return err
	}
	*a = Artifact(w.alias)
	a.Args = make([]Arg, len(w.Args))
	for i, r := range w.Args {
		a.Args[i] = r.toArg()
	}
	return nil
}
