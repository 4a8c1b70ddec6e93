// Package golang implements a Go Language Adapter, exercising
// tree-sitter-go so the adapter registry isn't limited to the three
// scripting-language defaults. The query set is deliberately minimal —
// functions, methods, and type declarations — grounded on the same
// capture-name idiom as the Python and TypeScript adapters, applied to Go
// source itself rather than to a Python/JS/TS target tree.
package golang

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"

	"github.com/mamertofabian/maidrunner/internal/langadapter/tsutil"
	"github.com/mamertofabian/maidrunner/internal/types"
)

// type_spec gets one pattern, not three: a struct/interface type_spec also
// satisfies a bare "(type_spec name: ...) @typedecl" pattern with no type
// constraint, so querying them separately double-matches every struct and
// interface and produces a spurious extra KindTypeAlias artifact per type.
// ParseSource instead inspects the captured type field's node kind itself
// to tell struct/interface/alias apart.
const sourceQuery = `
(function_declaration name: (identifier) @function.name) @function
(method_declaration name: (field_identifier) @method.name receiver: (parameter_list (parameter_declaration type: (_) @method.receiver))) @method
(type_spec name: (type_identifier) @type.name type: (_) @type.body) @typedecl
`

const testQuery = `
(call_expression function: (identifier) @call.name) @call
(call_expression function: (selector_expression field: (field_identifier) @call.member)) @call
(selector_expression operand: (identifier) @attr.object field: (field_identifier) @attr.name) @attr
(import_spec path: (interpreted_string_literal) @import.source) @import
`

// Adapter implements langadapter.Adapter for Go source, treating struct
// types as KindClass and interface types as KindInterface; every other
// named type declaration is a KindTypeAlias.
type Adapter struct {
	source *tsutil.Lang
	tests  *tsutil.Lang
}

// New builds the Go adapter.
func New() *Adapter {
	langPtr := tree_sitter_go.Language()
	return &Adapter{
		source: tsutil.NewLang(langPtr, sourceQuery),
		tests:  tsutil.NewLang(langPtr, testQuery),
	}
}

func (a *Adapter) Language() string     { return "go" }
func (a *Adapter) Extensions() []string { return []string{".go"} }

func (a *Adapter) ParseSource(path string, src []byte) (types.SourceDescriptor, []types.Diagnostic) {
	desc := types.SourceDescriptor{Path: path, Language: a.Language()}
	if a.source == nil {
		return desc, []types.Diagnostic{
			types.Warn(types.KindUnsupportedSyntax, types.Location{File: path}, "go grammar unavailable"),
		}
	}

	for _, m := range tsutil.RunQuery(a.source, src) {
		switch {
		case hasCapture(m, "function"):
			node := m.Captures["function"]
			desc.Defined = append(desc.Defined, types.Artifact{
				Type: types.KindFunction, Name: tsutil.Text(m.Captures["function.name"], src),
				Args: parseParameters(node, src), Line: int(node.StartPosition().Row) + 1,
			})
		case hasCapture(m, "method"):
			node := m.Captures["method"]
			owner := tsutil.StripGeneric(tsutil.Text(m.Captures["method.receiver"], src))
			desc.Defined = append(desc.Defined, types.Artifact{
				Type: types.KindMethod, Class: trimPointer(owner), Name: tsutil.Text(m.Captures["method.name"], src),
				Args: parseParameters(node, src), Line: int(node.StartPosition().Row) + 1,
			})
		case hasCapture(m, "typedecl"):
			node := m.Captures["typedecl"]
			body := m.Captures["type.body"]
			kind := types.KindTypeAlias
			switch body.Kind() {
			case "struct_type":
				kind = types.KindClass
			case "interface_type":
				kind = types.KindInterface
			}
			desc.Defined = append(desc.Defined, types.Artifact{
				Type: kind, Name: tsutil.Text(m.Captures["type.name"], src),
				Line: int(node.StartPosition().Row) + 1,
			})
		}
	}
	return desc, nil
}

func (a *Adapter) ParseTests(path string, src []byte) (types.SourceDescriptor, []types.Diagnostic) {
	desc := types.SourceDescriptor{Path: path, Language: a.Language()}
	if a.tests == nil {
		return desc, []types.Diagnostic{
			types.Warn(types.KindUnsupportedSyntax, types.Location{File: path}, "go grammar unavailable"),
		}
	}

	for _, m := range tsutil.RunQuery(a.tests, src) {
		switch {
		case hasCapture(m, "call"):
			node := m.Captures["call"]
			line := int(node.StartPosition().Row) + 1
			if n, ok := m.Captures["call.name"]; ok {
				desc.Usages = append(desc.Usages, types.UsageRef{Kind: types.UsageCall, Name: tsutil.Text(n, src), Line: line})
			}
			if n, ok := m.Captures["call.member"]; ok {
				desc.Usages = append(desc.Usages, types.UsageRef{Kind: types.UsageCall, Name: tsutil.Text(n, src), Line: line})
			}
		case hasCapture(m, "attr"):
			node := m.Captures["attr"]
			desc.Usages = append(desc.Usages, types.UsageRef{
				Kind: types.UsageAttribute, Class: tsutil.Text(m.Captures["attr.object"], src),
				Name: tsutil.Text(m.Captures["attr.name"], src), Line: int(node.StartPosition().Row) + 1,
			})
		case hasCapture(m, "import"):
			node := m.Captures["import"]
			raw := tsutil.Text(m.Captures["import.source"], src)
			desc.Imports = append(desc.Imports, types.ImportRef{Module: trimQuotes(raw), Line: int(node.StartPosition().Row) + 1})
		}
	}
	return desc, nil
}

func hasCapture(m tsutil.Match, key string) bool {
	_, ok := m.Captures[key]
	return ok
}

func trimQuotes(s string) string {
	if len(s) >= 2 && s[0] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

func trimPointer(s string) string {
	for len(s) > 0 && s[0] == '*' {
		s = s[1:]
	}
	return s
}

// parseParameters reads the enclosing function/method_declaration's
// "parameters" field, one Arg per parameter_declaration identifier.
func parseParameters(node tree_sitter.Node, src []byte) []types.Arg {
	params := node.ChildByFieldName("parameters")
	if params == nil {
		return nil
	}
	var args []types.Arg
	for i := uint(0); i < params.ChildCount(); i++ {
		child := params.Child(i)
		if child == nil || child.Kind() != "parameter_declaration" {
			continue
		}
		typ := ""
		if t := child.ChildByFieldName("type"); t != nil {
			typ = tsutil.Text(*t, src)
		}
		named := false
		for j := uint(0); j < child.ChildCount(); j++ {
			sub := child.Child(j)
			if sub != nil && sub.Kind() == "identifier" {
				args = append(args, types.Arg{Name: tsutil.Text(*sub, src), Type: typ})
				named = true
			}
		}
		if !named {
			args = append(args, types.Arg{Type: typ})
		}
	}
	return args
}
