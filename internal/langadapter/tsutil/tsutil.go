// Package tsutil is the shared tree-sitter plumbing every language adapter
// builds on: parser/query construction and capture-walking (one compiled
// Query per language, capture names like "function.name", field-based name
// lookup with a captured-name fallback).
package tsutil

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// Lang bundles a compiled parser and query for one grammar.
type Lang struct {
	Parser *tree_sitter.Parser
	Query  *tree_sitter.Query
	names  []string
}

// NewLang constructs a Parser for langPtr and compiles queryStr against it.
// Returns nil if either step fails — adapters treat a nil *Lang as "this
// grammar is unavailable" and fall back to reporting UnsupportedSyntax
// rather than panicking, guarding against a query that silently comes
// back nil from the tree-sitter binding.
func NewLang(langPtr unsafePointer, queryStr string) *Lang {
	parser := tree_sitter.NewParser()
	language := tree_sitter.NewLanguage(langPtr)
	if err := parser.SetLanguage(language); err != nil {
		return nil
	}
	query, err := tree_sitter.NewQuery(language, queryStr)
	if err != nil || query == nil {
		return nil
	}
	return &Lang{Parser: parser, Query: query, names: query.CaptureNames()}
}

// unsafePointer is an alias kept local so callers can pass whatever pointer
// type each grammar binding's Language() function returns without this
// package importing every grammar itself.
type unsafePointer = any

// Match is one query match, with captures keyed by capture name for easy
// lookup.
type Match struct {
	Captures map[string]tree_sitter.Node
	// All holds every capture in this match, including repeated capture
	// names (a match can have more than one "@import" in one statement).
	All []Capture
}

// Capture is one named capture within a match.
type Capture struct {
	Name string
	Node tree_sitter.Node
}

// Text returns src's bytes spanning node.
func Text(node tree_sitter.Node, src []byte) string {
	return string(src[node.StartByte():node.EndByte()])
}

// RunQuery parses src with l.Parser and runs l.Query over the resulting
// tree, returning one Match per query match. Returns nil if l is nil (no
// grammar available) or parsing fails.
func RunQuery(l *Lang, src []byte) []Match {
	if l == nil {
		return nil
	}
	tree := l.Parser.Parse(src, nil)
	if tree == nil {
		return nil
	}
	defer tree.Close()

	cursor := tree_sitter.NewQueryCursor()
	defer cursor.Close()

	matches := cursor.Matches(l.Query, tree.RootNode(), src)

	var out []Match
	for {
		m := matches.Next()
		if m == nil {
			break
		}
		match := Match{Captures: make(map[string]tree_sitter.Node, len(m.Captures))}
		for _, c := range m.Captures {
			name := l.names[c.Index]
			match.Captures[name] = c.Node
			match.All = append(match.All, Capture{Name: name, Node: c.Node})
		}
		out = append(out, match)
	}
	return out
}

// FieldOrCaptured resolves an identifier node's text two ways: prefer the
// capture-name lookup (needed for languages whose grammar doesn't expose a
// "name" field on the node), falling back to ChildByFieldName("name").
func FieldOrCaptured(node tree_sitter.Node, captureKey string, m Match, src []byte) string {
	if n, ok := m.Captures[captureKey]; ok {
		return Text(n, src)
	}
	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		return Text(*nameNode, src)
	}
	return ""
}

// StripGeneric normalises a parameterised base-class identifier
// ("Generic[T]", "List<Foo>") to its base identifier.
func StripGeneric(name string) string {
	if i := strings.IndexAny(name, "[<"); i >= 0 {
		return strings.TrimSpace(name[:i])
	}
	return name
}
