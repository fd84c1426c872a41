// Package codegen translates an analyzed goof3 program to JavaScript.
package codegen

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/strager/goof3/ast"
)

// PrintStub defines the builtin print function. Generate emits it at the
// top of every program.
const PrintStub = "function print(value) { console.log(value) }"

// Generate translates prog, which must have passed semantic analysis, to
// JavaScript.
func Generate(prog *ast.Program) string {
	return GenerateWith(prog, NewNames())
}

// GenerateWith translates node using names for identifiers. Reusing names
// across calls keeps identifiers consistent between fragments.
func GenerateWith(node ast.Node, names *Names) string {
	g := &generator{names: names, hoisted: make(map[ast.Node]bool)}
	return g.gen(node)
}

type generator struct {
	names *Names
	// hoisted holds declarations already emitted ahead of their if.
	hoisted map[ast.Node]bool
}

// binaryOps maps goof3 operators whose JavaScript spelling differs.
var binaryOps = map[string]string{
	"=":  "===",
	"<>": "!==",
	"&":  "&&",
	"|":  "||",
}

func (g *generator) gen(node ast.Node) string {
	// Panics if node was not analyzed.
	node.Annotations().Type()

	switch n := node.(type) {
	case *ast.Program:
		var sb strings.Builder
		sb.WriteString(PrintStub)
		sb.WriteString("\n")
		for _, stmt := range n.Body {
			if s := g.statement(stmt); s != "" {
				sb.WriteString(s)
				sb.WriteString(";\n")
			}
		}
		return sb.String()
	case *ast.Literal:
		return g.literal(n)
	case *ast.IdExp:
		return g.names.Name(n.Ref)
	case *ast.BinaryExpression:
		op := n.Op
		if js, ok := binaryOps[op]; ok {
			op = js
		}
		return "(" + g.gen(n.Left) + " " + op + " " + g.gen(n.Right) + ")"
	case *ast.CallExpression:
		return g.names.Name(n.Callee.Ref) + "(" + g.list(n.Args, ", ") + ")"
	case *ast.MemberExpression:
		if n.Computed {
			return g.gen(n.Object) + "[" + g.gen(n.Property) + "]"
		}
		return g.gen(n.Object) + "." + g.names.Name(n.Property.(*ast.IdExp).Ref)
	case *ast.ArrayExpression:
		fill := "null"
		if len(n.Elements) > 0 {
			fill = g.gen(n.Elements[0])
		}
		return "Array(" + g.gen(n.Size) + ").fill(" + fill + ")"
	case *ast.ObjectExp:
		fields := make([]string, len(n.Fields))
		for i, f := range n.Fields {
			fields[i] = g.names.Name(f.Ref) + ": " + g.gen(f.Value)
		}
		return "{" + strings.Join(fields, ", ") + "}"
	case *ast.AssignmentStatement:
		return g.gen(n.Target) + " = " + g.gen(n.Value)
	case *ast.VariableDeclaration:
		if n.Init == nil {
			return "var " + g.names.Name(n) + " = " + zeroValue(n.Type())
		}
		return "var " + g.names.Name(n) + " = " + g.gen(n.Init)
	case *ast.Parameter:
		return g.names.Name(n)
	case *ast.Field:
		return g.names.Name(n)
	case *ast.Func:
		return "function " + g.names.Name(n) + "(" + g.params(n.Params) + ") " + g.block(n.Body)
	case *ast.Method:
		body := g.gen(n.Body)
		if n.Body.Annotations().Type() != ast.Void {
			body = "return " + body
		}
		return "function " + g.names.Name(n) + "(" + g.params(n.Params) + ") { " + body + " }"
	case *ast.GifStatement:
		// Functions declared in the branches are emitted before the if.
		var sb strings.Builder
		for _, fn := range g.branchFunctions(n) {
			g.hoisted[fn] = true
			sb.WriteString(g.gen(fn) + "; ")
		}
		for i, test := range n.Tests {
			if i > 0 {
				sb.WriteString(" else ")
			}
			sb.WriteString("if (" + g.gen(test) + ") " + g.block(n.Consequents[i]))
		}
		if n.Alternate != nil {
			sb.WriteString(" else " + g.block(n.Alternate))
		}
		return sb.String()
	case *ast.WhileStatement:
		return "while (" + g.gen(n.Test) + ") " + g.block(n.Body)
	case *ast.ForStatement:
		i := g.names.Name(n.Iterator)
		step := "1"
		if n.Step != nil {
			step = g.gen(n.Step)
		}
		return fmt.Sprintf("for (var %s = %s; %s <= %s; %s += %s) %s",
			i, g.gen(n.Iterator.Init), i, g.gen(n.Bound), i, step, g.block(n.Body))
	case *ast.ReturnStatement:
		if n.Value == nil {
			return "return"
		}
		return "return " + g.gen(n.Value)
	case *ast.ThrowStatement:
		return "throw new Error(" + g.gen(n.Value) + ")"
	case *ast.BreakStatement:
		return "break"
	case *ast.TypeDeclaration, *ast.PrimitiveType, *ast.ArrayType, *ast.RecordType:
		// Types do not exist at run time.
		return ""
	default:
		panic(fmt.Sprintf("codegen: unexpected node %T", node))
	}
}

// statement generates node in statement position. A leading object literal
// is parenthesized so it does not read as a block.
func (g *generator) statement(node ast.Node) string {
	s := g.gen(node)
	if strings.HasPrefix(s, "{") {
		return "(" + s + ")"
	}
	return s
}

// block generates { s1; s2 } or {} for an empty list.
func (g *generator) block(stmts []ast.Node) string {
	var parts []string
	for _, stmt := range stmts {
		if g.hoisted[stmt] {
			continue
		}
		if s := g.statement(stmt); s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return "{}"
	}
	return "{ " + strings.Join(parts, "; ") + " }"
}

// branchFunctions returns the functions and methods declared in the
// branches of n, including those of nested if statements, that have not
// been emitted yet.
func (g *generator) branchFunctions(n *ast.GifStatement) []ast.Node {
	var fns []ast.Node
	var collect func(stmts []ast.Node)
	collect = func(stmts []ast.Node) {
		for _, stmt := range stmts {
			switch s := stmt.(type) {
			case *ast.Func, *ast.Method:
				if !g.hoisted[s] {
					fns = append(fns, s)
				}
			case *ast.GifStatement:
				for _, c := range s.Consequents {
					collect(c)
				}
				collect(s.Alternate)
			}
		}
	}
	for _, c := range n.Consequents {
		collect(c)
	}
	collect(n.Alternate)
	return fns
}

// zeroValue is the initial value of a declaration without an initializer.
func zeroValue(t ast.Type) string {
	switch t {
	case ast.Int, ast.Float:
		return "0"
	case ast.String:
		return `""`
	case ast.Bool:
		return "false"
	default:
		return "null"
	}
}

func (g *generator) list(nodes []ast.Node, sep string) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = g.gen(n)
	}
	return strings.Join(parts, sep)
}

func (g *generator) params(params []*ast.Parameter) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = g.gen(p)
	}
	return strings.Join(parts, ", ")
}

func (g *generator) literal(n *ast.Literal) string {
	switch n.Kind {
	case ast.KindArrayOfChars:
		return quote(n.Value)
	case ast.KindNothing:
		return "null"
	default:
		return n.Value
	}
}

// quote renders s as a JavaScript string literal.
func quote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		panic(err)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
