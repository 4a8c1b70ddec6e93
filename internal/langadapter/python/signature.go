package python

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mamertofabian/maidrunner/internal/langadapter/tsutil"
	"github.com/mamertofabian/maidrunner/internal/types"
)

// parseFunction extracts a function_definition (owner == "") or method
// (owner == enclosing class name) artifact, including its positional
// argument names/types and return type annotation.
func parseFunction(node tree_sitter.Node, src []byte, owner string) types.Artifact {
	name := ""
	if n := node.ChildByFieldName("name"); n != nil {
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

	if params := node.ChildByFieldName("parameters"); params != nil {
		art.Args = parseParameters(*params, src)
	}
	if ret := node.ChildByFieldName("return_type"); ret != nil {
		art.Returns = tsutil.Text(*ret, src)
	}
	return art
}

// parseParameters walks a Python "parameters" node's children. Each child
// is one of: identifier (bare name), typed_parameter (name: type),
// default_parameter (name=value), typed_default_parameter
// (name: type = value), or a splat/self/cls marker we also surface as a
// bare-name arg so arity comparisons in the Implementation Validator stay
// accurate.
func parseParameters(params tree_sitter.Node, src []byte) []types.Arg {
	var args []types.Arg
	for i := uint(0); i < params.ChildCount(); i++ {
		child := params.Child(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "identifier":
			args = append(args, types.Arg{Name: tsutil.Text(*child, src)})
		case "typed_parameter":
			arg := types.Arg{}
			if n := child.ChildByFieldName("name"); n != nil {
				arg.Name = tsutil.Text(*n, src)
			} else if child.ChildCount() > 0 {
				arg.Name = tsutil.Text(*child.Child(0), src)
			}
			if t := child.ChildByFieldName("type"); t != nil {
				arg.Type = tsutil.Text(*t, src)
			}
			args = append(args, arg)
		case "default_parameter":
			if n := child.ChildByFieldName("name"); n != nil {
				args = append(args, types.Arg{Name: tsutil.Text(*n, src)})
			}
		case "typed_default_parameter":
			arg := types.Arg{}
			if n := child.ChildByFieldName("name"); n != nil {
				arg.Name = tsutil.Text(*n, src)
			}
			if t := child.ChildByFieldName("type"); t != nil {
				arg.Type = tsutil.Text(*t, src)
			}
			args = append(args, arg)
		case "list_splat_pattern", "dictionary_splat_pattern":
			args = append(args, types.Arg{Name: tsutil.Text(*child, src)})
		}
	}
	return args
}

// parseClass extracts a class_definition artifact with its base list
// normalised via tsutil.StripGeneric.
func parseClass(node tree_sitter.Node, src []byte) types.Artifact {
	art := types.Artifact{Type: types.KindClass, Line: int(node.StartPosition().Row) + 1}
	if n := node.ChildByFieldName("name"); n != nil {
		art.Name = tsutil.Text(*n, src)
	}
	if supers := node.ChildByFieldName("superclasses"); supers != nil {
		for i := uint(0); i < supers.ChildCount(); i++ {
			child := supers.Child(i)
			if child == nil {
				continue
			}
			switch child.Kind() {
			case "identifier", "attribute", "subscript":
				art.Bases = append(art.Bases, tsutil.StripGeneric(tsutil.Text(*child, src)))
			}
		}
	}
	return art
}
