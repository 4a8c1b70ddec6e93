package types

// UsageRef is a syntactic occurrence in test code proving an artifact is
// exercised: a call, instantiation, attribute access, or exception-class
// reference.
type UsageRef struct {
	Kind  UsageKind
	Class string // owning class, when the usage is a member/instance access
	Name  string
	Line  int
	Column int
}

// UsageKind classifies how an artifact was referenced in test code.
type UsageKind string

const (
	UsageCall        UsageKind = "call"
	UsageInstantiate UsageKind = "instantiate"
	UsageAttribute   UsageKind = "attribute"
	UsageSubclass    UsageKind = "subclass"
	UsageRaises      UsageKind = "raises"
	UsageKeywordArg  UsageKind = "keyword-arg"
)

// ImportRef records one import/from-import statement, for the Behavioural
// Validator's bounded follow-through into helper modules.
type ImportRef struct {
	Module  string   // raw module specifier as written in source
	Symbols []string // imported symbol names; empty means "whole module"
	Line    int
}

// SourceDescriptor is what a Language Adapter produces from one source
// file: the artifacts it defines, and — for test files — the artifacts it
// uses and the modules it imports.
type SourceDescriptor struct {
	Path     string
	Language string
	Defined  []Artifact
	Usages   []UsageRef
	Imports  []ImportRef
}

// FindDefined returns the defined artifact matching key, if any.
func (s SourceDescriptor) FindDefined(key MergeKey) (Artifact, bool) {
	for _, a := range s.Defined {
		if a.MergeKey() == key {
			return a, true
		}
	}
	return Artifact{}, false
}
