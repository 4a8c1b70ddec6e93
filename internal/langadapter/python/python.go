// Package python implements the Python Language Adapter
// on top of tree-sitter-python, repurposed from "extract block boundaries
// for indexing" to "extract the artifact descriptor a manifest can be
// checked against".
package python

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"

	"github.com/mamertofabian/maidrunner/internal/langadapter/tsutil"
	"github.com/mamertofabian/maidrunner/internal/types"
)

const sourceQuery = `
(module (function_definition) @toplevel.function)
(module (decorated_definition (function_definition) @toplevel.function))
(module (class_definition) @toplevel.class)
(module (decorated_definition (class_definition) @toplevel.class))
(module (expression_statement (assignment left: (identifier) @toplevel.attr.name)) @toplevel.attr)
(class_definition body: (block (function_definition) @class.method))
(class_definition body: (block (decorated_definition (function_definition) @class.method)))
(class_definition body: (block (expression_statement (assignment left: (identifier) @class.attr.name)) @class.attr))
`

const testQuery = `
(call function: (identifier) @call.name) @call
(call function: (attribute attribute: (identifier) @call.member)) @call
(attribute object: (identifier) @attr.object attribute: (identifier) @attr.name) @attr
(class_definition superclasses: (argument_list (identifier) @subclass.base)) @subclass
(import_statement name: (dotted_name) @import.module) @import
(import_from_statement module_name: (dotted_name) @import.module) @import
(keyword_argument name: (identifier) @kwarg.name) @kwarg
`

// Adapter implements langadapter.Adapter for Python.
type Adapter struct {
	source *tsutil.Lang
	tests  *tsutil.Lang
}

// New builds the Python adapter. Returns an adapter that reports
// UnsupportedSyntax for every file if the grammar failed to load — it is
// never nil, so Registry wiring stays simple.
func New() *Adapter {
	langPtr := tree_sitter_python.Language()
	return &Adapter{
		source: tsutil.NewLang(langPtr, sourceQuery),
		tests:  tsutil.NewLang(langPtr, testQuery),
	}
}

func (a *Adapter) Language() string     { return "python" }
func (a *Adapter) Extensions() []string { return []string{".py"} }

func (a *Adapter) ParseSource(path string, src []byte) (types.SourceDescriptor, []types.Diagnostic) {
	desc := types.SourceDescriptor{Path: path, Language: a.Language()}
	if a.source == nil {
		return desc, []types.Diagnostic{
			types.Warn(types.KindUnsupportedSyntax, types.Location{File: path}, "python grammar unavailable"),
		}
	}

	matches := tsutil.RunQuery(a.source, src)
	var diags []types.Diagnostic

	for _, m := range matches {
		if node, ok := m.Captures["toplevel.function"]; ok {
			desc.Defined = append(desc.Defined, parseFunction(node, src, ""))
			continue
		}
		if node, ok := m.Captures["toplevel.class"]; ok {
			desc.Defined = append(desc.Defined, parseClass(node, src))
			continue
		}
		if node, ok := m.Captures["toplevel.attr"]; ok {
			name := tsutil.Text(m.Captures["toplevel.attr.name"], src)
			desc.Defined = append(desc.Defined, types.Artifact{
				Type: types.KindAttribute, Name: name,
				Line: int(node.StartPosition().Row) + 1,
			})
			continue
		}
		if node, ok := m.Captures["class.method"]; ok {
			owner := ownerClassName(node, src)
			desc.Defined = append(desc.Defined, parseFunction(node, src, owner))
			continue
		}
		if node, ok := m.Captures["class.attr"]; ok {
			owner := ownerClassName(node, src)
			name := tsutil.Text(m.Captures["class.attr.name"], src)
			desc.Defined = append(desc.Defined, types.Artifact{
				Type: types.KindAttribute, Class: owner, Name: name,
				Line: int(node.StartPosition().Row) + 1,
			})
			continue
		}
	}

	return desc, diags
}

func (a *Adapter) ParseTests(path string, src []byte) (types.SourceDescriptor, []types.Diagnostic) {
	desc := types.SourceDescriptor{Path: path, Language: a.Language()}
	if a.tests == nil {
		return desc, []types.Diagnostic{
			types.Warn(types.KindUnsupportedSyntax, types.Location{File: path}, "python grammar unavailable"),
		}
	}

	matches := tsutil.RunQuery(a.tests, src)

	for _, m := range matches {
		if node, ok := m.Captures["call"]; ok {
			line := int(node.StartPosition().Row) + 1
			if n, ok := m.Captures["call.name"]; ok {
				desc.Usages = append(desc.Usages, types.UsageRef{Kind: types.UsageInstantiate, Name: tsutil.Text(n, src), Line: line})
				desc.Usages = append(desc.Usages, types.UsageRef{Kind: types.UsageCall, Name: tsutil.Text(n, src), Line: line})
			}
			if n, ok := m.Captures["call.member"]; ok {
				desc.Usages = append(desc.Usages, types.UsageRef{Kind: types.UsageCall, Name: tsutil.Text(n, src), Line: line})
			}
			continue
		}
		if node, ok := m.Captures["attr"]; ok {
			line := int(node.StartPosition().Row) + 1
			name := tsutil.Text(m.Captures["attr.name"], src)
			obj := tsutil.Text(m.Captures["attr.object"], src)
			desc.Usages = append(desc.Usages, types.UsageRef{Kind: types.UsageAttribute, Class: obj, Name: name, Line: line})
			continue
		}
		if node, ok := m.Captures["subclass"]; ok {
			line := int(node.StartPosition().Row) + 1
			base := tsutil.Text(m.Captures["subclass.base"], src)
			desc.Usages = append(desc.Usages, types.UsageRef{Kind: types.UsageSubclass, Name: base, Line: line})
			continue
		}
		if node, ok := m.Captures["import"]; ok {
			line := int(node.StartPosition().Row) + 1
			if n, ok := m.Captures["import.module"]; ok {
				desc.Imports = append(desc.Imports, types.ImportRef{Module: tsutil.Text(n, src), Line: line})
			}
			continue
		}
		if node, ok := m.Captures["kwarg"]; ok {
			line := int(node.StartPosition().Row) + 1
			name := tsutil.Text(m.Captures["kwarg.name"], src)
			desc.Usages = append(desc.Usages, types.UsageRef{Kind: types.UsageKeywordArg, Name: name, Line: line})
			continue
		}
	}

	return desc, nil
}

// ownerClassName walks up node's ancestors to the nearest class_definition
// and returns its name, using Node.Parent() — the query itself only proves
// "this definition is nested inside some class body"; the owner's name
// still has to come from a parent walk.
func ownerClassName(node tree_sitter.Node, src []byte) string {
	cur := node.Parent()
	for cur != nil {
		if cur.Kind() == "class_definition" {
			if nameNode := cur.ChildByFieldName("name"); nameNode != nil {
				return tsutil.Text(*nameNode, src)
			}
			return ""
		}
		cur = cur.Parent()
	}
	return ""
}
