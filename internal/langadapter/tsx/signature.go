package tsx

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mamertofabian/maidrunner/internal/langadapter/tsutil"
	"github.com/mamertofabian/maidrunner/internal/types"
)

// parseFunction extracts a function_declaration, arrow-function/function-
// expression variable_declarator, or method_definition artifact, including
// its formal parameters and return type annotation when the TypeScript
// grammar attaches one.
func parseFunction(node tree_sitter.Node, m tsutil.Match, owner string, src []byte) types.Artifact {
	name := ""
	if n, ok := m.Captures["function.name"]; ok {
		name = tsutil.Text(n, src)
	} else if n, ok := m.Captures["method.name"]; ok {
		name = tsutil.Text(n, src)
	} else if n := node.ChildByFieldName("name"); n != nil {
		name = tsutil.Text(*n, src)
	}

	art := types.Artifact{
		Name:  name,
		Class: owner,
		Line:  int(node.StartPosition().Row) + 1,
	}
	if owner == "" {
		art.Type = types.KindFunction
	} else {
		art.Type = types.KindMethod
	}
	art.Private = isPrivateMember(node, name, src)

	target := node
	if target.Kind() == "variable_declarator" {
		if v := target.ChildByFieldName("value"); v != nil {
			target = *v
		}
	}
	if params := target.ChildByFieldName("parameters"); params != nil {
		art.Args = parseParameters(*params, src)
	}
	if ret := target.ChildByFieldName("return_type"); ret != nil {
		art.Returns = stripTypeAnnotation(*ret, src)
	}
	return art
}

// stripTypeAnnotation returns node's declared type without the leading
// ": " the grammar's type_annotation node includes in its span — a
// return_type field always captures an annotation node, not a bare type.
func stripTypeAnnotation(node tree_sitter.Node, src []byte) string {
	if node.Kind() == "type_annotation" && node.ChildCount() > 0 {
		if t := node.Child(node.ChildCount() - 1); t != nil {
			return tsutil.Text(*t, src)
		}
	}
	text := strings.TrimSpace(tsutil.Text(node, src))
	text = strings.TrimPrefix(text, ":")
	return strings.TrimSpace(text)
}

// parseParameters walks a TypeScript/JavaScript "parameters" (or single
// arrow-function identifier) node's children. Destructuring patterns and
// rest parameters are surfaced by their raw text so arity comparisons still
// see one argument slot per declared parameter.
func parseParameters(params tree_sitter.Node, src []byte) []types.Arg {
	if params.Kind() == "identifier" {
		return []types.Arg{{Name: tsutil.Text(params, src)}}
	}
	var args []types.Arg
	for i := uint(0); i < params.ChildCount(); i++ {
		child := params.Child(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "required_parameter", "optional_parameter":
			arg := types.Arg{}
			if n := child.ChildByFieldName("pattern"); n != nil {
				arg.Name = tsutil.Text(*n, src)
			}
			if t := child.ChildByFieldName("type"); t != nil {
				arg.Type = tsutil.Text(*t, src)
			}
			args = append(args, arg)
		case "identifier":
			args = append(args, types.Arg{Name: tsutil.Text(*child, src)})
		case "assignment_pattern":
			if n := child.ChildByFieldName("left"); n != nil {
				args = append(args, types.Arg{Name: tsutil.Text(*n, src)})
			}
		case "rest_pattern", "object_pattern", "array_pattern":
			args = append(args, types.Arg{Name: tsutil.Text(*child, src)})
		}
	}
	return args
}

// parseClass extracts a class_declaration artifact with its base via
// class_heritage's extends_clause, normalised through tsutil.StripGeneric
// (parameterised bases like "Base<T>").
func parseClass(m tsutil.Match, src []byte) types.Artifact {
	node := m.Captures["class"]
	art := types.Artifact{Type: types.KindClass, Line: int(node.StartPosition().Row) + 1}
	if n, ok := m.Captures["class.name"]; ok {
		art.Name = tsutil.Text(n, src)
	}
	if n, ok := m.Captures["class.base"]; ok {
		art.Bases = append(art.Bases, tsutil.StripGeneric(tsutil.Text(n, src)))
	}
	return art
}

// isPrivateMember reports whether node carries a TypeScript "private"
// accessibility modifier or a JavaScript "#"-prefixed private name.
func isPrivateMember(node tree_sitter.Node, name string, src []byte) bool {
	if len(name) > 0 && name[0] == '#' {
		return true
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child != nil && child.Kind() == "accessibility_modifier" && tsutil.Text(*child, src) == "private" {
			return true
		}
	}
	return false
}
