package ast

import "strings"

// ToSExpr converts a node to its s-expression representation.
func ToSExpr(node Node) string {
	switch n := node.(type) {
	case nil:
		return "void"
	case *Program:
		return list("program", sexprs(n.Body)...)
	case *Literal:
		return literalSExpr(n)
	case *IdExp:
		return "(id " + quote(n.Name) + ")"
	case *BinaryExpression:
		return list("binary", quote(n.Op), ToSExpr(n.Left), ToSExpr(n.Right))
	case *CallExpression:
		return list("call", append([]string{quote(n.Callee.Name)}, sexprs(n.Args)...)...)
	case *MemberExpression:
		if n.Computed {
			return list("index", ToSExpr(n.Object), ToSExpr(n.Property))
		}
		name := ToSExpr(n.Property)
		if id, ok := n.Property.(*IdExp); ok {
			name = quote(id.Name)
		}
		return list("dot", ToSExpr(n.Object), name)
	case *ArrayExpression:
		return list("array-expr", append([]string{ToSExpr(n.ElemType), ToSExpr(n.Size)}, sexprs(n.Elements)...)...)
	case *ObjectExp:
		items := []string{quote(n.TypeName)}
		for _, f := range n.Fields {
			items = append(items, ToSExpr(f))
		}
		return list("object", items...)
	case *AssignmentStatement:
		return list("assign", ToSExpr(n.Target), ToSExpr(n.Value))
	case *VariableDeclaration:
		head := "var"
		if n.ReadOnly {
			head = "const"
		}
		items := []string{quote(n.Name), typeExprSExpr(n.TypeExpr)}
		if n.Init != nil {
			items = append(items, ToSExpr(n.Init))
		}
		return list(head, items...)
	case *Parameter:
		return list("param", quote(n.Name), typeExprSExpr(n.TypeExpr))
	case *Field:
		if n.Value != nil {
			return list("field", quote(n.Name), ToSExpr(n.Value))
		}
		return list("field", quote(n.Name), typeExprSExpr(n.TypeExpr))
	case *Func:
		return list("func", quote(n.Name), params(n.Params), typeExprSExpr(n.Result), block(n.Body))
	case *Method:
		return list("method", quote(n.Name), params(n.Params), typeExprSExpr(n.Result), ToSExpr(n.Body))
	case *GifStatement:
		var items []string
		for i, test := range n.Tests {
			items = append(items, list("then", ToSExpr(test), block(n.Consequents[i])))
		}
		if n.Alternate != nil {
			items = append(items, list("else", block(n.Alternate)))
		}
		return list("if", items...)
	case *WhileStatement:
		return list("while", ToSExpr(n.Test), block(n.Body))
	case *ForStatement:
		return list("for", quote(n.Iterator.Name), ToSExpr(n.Iterator.Init), ToSExpr(n.Bound), ToSExpr(n.Step), block(n.Body))
	case *ReturnStatement:
		if n.Value == nil {
			return "(return)"
		}
		return list("return", ToSExpr(n.Value))
	case *ThrowStatement:
		return list("throw", ToSExpr(n.Value))
	case *BreakStatement:
		return "(break)"
	case *TypeDeclaration:
		return list("type", quote(n.Name), typeExprSExpr(n.TypeExpr))
	case *PrimitiveType, *ArrayType, *RecordType:
		return typeExprSExpr(n.(TypeExpr))
	default:
		return ""
	}
}

// TypeSExpr converts a resolved type to its s-expression representation.
func TypeSExpr(t Type) string {
	switch t := t.(type) {
	case *Primitive:
		return t.Name
	case *ArrayOf:
		return list("array-of", TypeSExpr(t.Elem))
	case *Record:
		if t.Name == "" {
			return "(record)"
		}
		return list("record", quote(t.Name))
	default:
		return ""
	}
}

func literalSExpr(n *Literal) string {
	switch n.Kind {
	case KindWholeNumber:
		return n.Value
	case KindNotWholeNumber:
		return list("float", quote(n.Value))
	case KindArrayOfChars:
		return list("string", quote(n.Value))
	case KindTrueOrFalse:
		return list("boolean", n.Value)
	case KindNothing:
		return "(nil)"
	default:
		return list("literal", quote(n.Kind), quote(n.Value))
	}
}

func typeExprSExpr(t TypeExpr) string {
	switch t := t.(type) {
	case nil:
		return "void"
	case *PrimitiveType:
		return t.Name
	case *ArrayType:
		return list("array-of", typeExprSExpr(t.Elem))
	case *RecordType:
		var fields []string
		for _, f := range t.Fields {
			fields = append(fields, ToSExpr(f))
		}
		return list("record", fields...)
	default:
		return ""
	}
}

func params(ps []*Parameter) string {
	var items []string
	for _, p := range ps {
		items = append(items, ToSExpr(p))
	}
	return "[" + strings.Join(items, " ") + "]"
}

func block(stmts []Node) string {
	return "[" + strings.Join(sexprs(stmts), " ") + "]"
}

func sexprs(nodes []Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, ToSExpr(n))
	}
	return out
}

func list(head string, items ...string) string {
	if len(items) == 0 {
		return "(" + head + ")"
	}
	return "(" + head + " " + strings.Join(items, " ") + ")"
}

func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
