// Package tsx implements the TypeScript/TSX/JavaScript/JSX Language Adapter:
// one adapter, two grammars (tree-sitter-typescript for
// .ts/.tsx, tree-sitter-javascript for .js/.jsx), sharing the same
// capture-name vocabulary so the extraction code is written once.
package tsx

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/mamertofabian/maidrunner/internal/langadapter/tsutil"
	"github.com/mamertofabian/maidrunner/internal/types"
)

// sourceQueryTS covers everything sourceQueryJS does plus TypeScript-only
// declarations (interfaces, type aliases, enums) — the artifact kind set
// varies per language; JavaScript never produces interface/type-alias/enum
// artifacts.
const sourceQueryTS = `
(function_declaration name: (identifier) @function.name) @function
(variable_declarator name: (identifier) @function.name value: [(arrow_function) (function_expression)]) @function
(class_declaration name: (type_identifier) @class.name) @class
(class_declaration name: (type_identifier) @class.name (class_heritage (extends_clause value: (_) @class.base))) @class
(method_definition name: (property_identifier) @method.name) @method
(public_field_definition name: (property_identifier) @attr.name) @attr
(interface_declaration name: (type_identifier) @interface.name) @interface
(type_alias_declaration name: (type_identifier) @type.name) @type
(enum_declaration name: (identifier) @enum.name) @enum
`

const sourceQueryJS = `
(function_declaration name: (identifier) @function.name) @function
(variable_declarator name: (identifier) @function.name value: [(arrow_function) (function_expression)]) @function
(class_declaration name: (identifier) @class.name) @class
(class_declaration name: (identifier) @class.name (class_heritage (extends_clause value: (_) @class.base))) @class
(method_definition name: (property_identifier) @method.name) @method
(field_definition name: (property_identifier) @attr.name) @attr
`

const testQuery = `
(call_expression function: (identifier) @call.name) @call
(call_expression function: (member_expression property: (property_identifier) @call.member)) @call
(new_expression constructor: (identifier) @new.name) @new
(member_expression object: (identifier) @attr.object property: (property_identifier) @attr.name) @attr
(class_declaration (class_heritage (extends_clause value: (identifier) @subclass.base))) @subclass
(import_statement source: (string) @import.source) @import
(pair key: (property_identifier) @kwarg.name) @kwarg
`

// Adapter implements langadapter.Adapter for TypeScript/TSX and
// JavaScript/JSX, selecting the grammar internally by extension.
type Adapter struct {
	ts      *tsutil.Lang
	tsTests *tsutil.Lang
	js      *tsutil.Lang
	jsTests *tsutil.Lang
}

// New builds the TypeScript+JavaScript adapter.
func New() *Adapter {
	tsLangPtr := tree_sitter_typescript.LanguageTypescript()
	jsLangPtr := tree_sitter_javascript.Language()
	return &Adapter{
		ts:      tsutil.NewLang(tsLangPtr, sourceQueryTS),
		tsTests: tsutil.NewLang(tsLangPtr, testQuery),
		js:      tsutil.NewLang(jsLangPtr, sourceQueryJS),
		jsTests: tsutil.NewLang(jsLangPtr, testQuery),
	}
}

func (a *Adapter) Language() string { return "typescript" }

func (a *Adapter) Extensions() []string {
	return []string{".ts", ".tsx", ".js", ".jsx"}
}

func (a *Adapter) langFor(path string) (*tsutil.Lang, *tsutil.Lang) {
	if isTypeScript(path) {
		return a.ts, a.tsTests
	}
	return a.js, a.jsTests
}

func isTypeScript(path string) bool {
	for _, ext := range []string{".ts", ".tsx"} {
		if hasSuffixFold(path, ext) {
			return true
		}
	}
	return false
}

func hasSuffixFold(s, suffix string) bool {
	if len(s) < len(suffix) {
		return false
	}
	tail := s[len(s)-len(suffix):]
	for i := range tail {
		if tail[i] != suffix[i] && tail[i] != suffix[i]-32 {
			return false
		}
	}
	return true
}

func (a *Adapter) ParseSource(path string, src []byte) (types.SourceDescriptor, []types.Diagnostic) {
	desc := types.SourceDescriptor{Path: path, Language: a.Language()}
	source, _ := a.langFor(path)
	if source == nil {
		return desc, []types.Diagnostic{
			types.Warn(types.KindUnsupportedSyntax, types.Location{File: path}, "typescript/javascript grammar unavailable"),
		}
	}

	matches := tsutil.RunQuery(source, src)
	for _, m := range matches {
		switch {
		case has(m, "function"):
			desc.Defined = append(desc.Defined, parseFunction(m.Captures["function"], m, "", src))
		case has(m, "class"):
			desc.Defined = append(desc.Defined, parseClass(m, src))
		case has(m, "method"):
			node := m.Captures["method"]
			owner := ownerClassName(node, src)
			desc.Defined = append(desc.Defined, parseFunction(node, m, owner, src))
		case has(m, "attr"):
			node := m.Captures["attr"]
			owner := ownerClassName(node, src)
			desc.Defined = append(desc.Defined, types.Artifact{
				Type: types.KindAttribute, Class: owner, Name: tsutil.Text(m.Captures["attr.name"], src),
				Line: int(node.StartPosition().Row) + 1,
			})
		case has(m, "interface"):
			node := m.Captures["interface"]
			desc.Defined = append(desc.Defined, types.Artifact{
				Type: types.KindInterface, Name: tsutil.Text(m.Captures["interface.name"], src),
				Line: int(node.StartPosition().Row) + 1,
			})
		case has(m, "type"):
			node := m.Captures["type"]
			desc.Defined = append(desc.Defined, types.Artifact{
				Type: types.KindTypeAlias, Name: tsutil.Text(m.Captures["type.name"], src),
				Line: int(node.StartPosition().Row) + 1,
			})
		case has(m, "enum"):
			node := m.Captures["enum"]
			desc.Defined = append(desc.Defined, types.Artifact{
				Type: types.KindEnum, Name: tsutil.Text(m.Captures["enum.name"], src),
				Line: int(node.StartPosition().Row) + 1,
			})
		}
	}
	return desc, nil
}

func has(m tsutil.Match, key string) bool {
	_, ok := m.Captures[key]
	return ok
}

func (a *Adapter) ParseTests(path string, src []byte) (types.SourceDescriptor, []types.Diagnostic) {
	desc := types.SourceDescriptor{Path: path, Language: a.Language()}
	_, tests := a.langFor(path)
	if tests == nil {
		return desc, []types.Diagnostic{
			types.Warn(types.KindUnsupportedSyntax, types.Location{File: path}, "typescript/javascript grammar unavailable"),
		}
	}

	matches := tsutil.RunQuery(tests, src)
	for _, m := range matches {
		switch {
		case has(m, "call"):
			node := m.Captures["call"]
			line := int(node.StartPosition().Row) + 1
			if n, ok := m.Captures["call.name"]; ok {
				desc.Usages = append(desc.Usages, types.UsageRef{Kind: types.UsageCall, Name: tsutil.Text(n, src), Line: line})
			}
			if n, ok := m.Captures["call.member"]; ok {
				desc.Usages = append(desc.Usages, types.UsageRef{Kind: types.UsageCall, Name: tsutil.Text(n, src), Line: line})
			}
		case has(m, "new"):
			node := m.Captures["new"]
			name := tsutil.Text(m.Captures["new.name"], src)
			desc.Usages = append(desc.Usages, types.UsageRef{Kind: types.UsageInstantiate, Name: name, Line: int(node.StartPosition().Row) + 1})
		case has(m, "attr"):
			node := m.Captures["attr"]
			desc.Usages = append(desc.Usages, types.UsageRef{
				Kind: types.UsageAttribute, Class: tsutil.Text(m.Captures["attr.object"], src),
				Name: tsutil.Text(m.Captures["attr.name"], src), Line: int(node.StartPosition().Row) + 1,
			})
		case has(m, "subclass"):
			node := m.Captures["subclass"]
			desc.Usages = append(desc.Usages, types.UsageRef{
				Kind: types.UsageSubclass, Name: tsutil.Text(m.Captures["subclass.base"], src),
				Line: int(node.StartPosition().Row) + 1,
			})
		case has(m, "import"):
			node := m.Captures["import"]
			raw := tsutil.Text(m.Captures["import.source"], src)
			desc.Imports = append(desc.Imports, types.ImportRef{Module: trimQuotes(raw), Line: int(node.StartPosition().Row) + 1})
		case has(m, "kwarg"):
			node := m.Captures["kwarg"]
			desc.Usages = append(desc.Usages, types.UsageRef{
				Kind: types.UsageKeywordArg, Name: tsutil.Text(m.Captures["kwarg.name"], src),
				Line: int(node.StartPosition().Row) + 1,
			})
		}
	}
	return desc, nil
}

func trimQuotes(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'' || s[0] == '`') {
		return s[1 : len(s)-1]
	}
	return s
}

func ownerClassName(node tree_sitter.Node, src []byte) string {
	cur := node.Parent()
	for cur != nil {
		if cur.Kind() == "class_declaration" || cur.Kind() == "class" {
			if nameNode := cur.ChildByFieldName("name"); nameNode != nil {
				return tsutil.Text(*nameNode, src)
			}
			return ""
		}
		cur = cur.Parent()
	}
	return ""
}
