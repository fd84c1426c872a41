// Package optimize rewrites an analyzed goof3 program without changing what
// it prints. Every node a pass creates is annotated.
package optimize

import (
	"math"
	"strconv"

	"github.com/strager/goof3/ast"
)

// Pass transforms an analyzed program in place.
type Pass func(prog *ast.Program)

// DefaultPasses run when Program is called without passes.
var DefaultPasses = []Pass{FoldConstants, EliminateDeadFunctions}

// Program applies passes to prog in order.
func Program(prog *ast.Program, passes ...Pass) {
	if len(passes) == 0 {
		passes = DefaultPasses
	}
	for _, pass := range passes {
		pass(prog)
	}
}

// FoldConstants replaces binary expressions on literals with their value.
//
//	1 + 2 * 3    =>  7
//	1 < 2 & true =>  true
//
// Integer division is folded only when it is exact, since the emitted
// program divides without truncating.
func FoldConstants(prog *ast.Program) {
	rewrite(prog, func(n ast.Node) ast.Node {
		bin, ok := n.(*ast.BinaryExpression)
		if !ok {
			return n
		}
		if folded := fold(bin); folded != nil {
			return folded
		}
		return n
	})
}

// maxExactInt is the largest integer the emitted program represents
// exactly.
const maxExactInt = 1 << 53

func fold(bin *ast.BinaryExpression) *ast.Literal {
	left, ok1 := bin.Left.(*ast.Literal)
	right, ok2 := bin.Right.(*ast.Literal)
	if !ok1 || !ok2 {
		return nil
	}

	var value string
	var ok bool
	switch {
	case left.Kind == ast.KindWholeNumber && right.Kind == ast.KindWholeNumber:
		value, ok = foldInts(bin.Op, left.Value, right.Value)
	case isNumber(left) && isNumber(right):
		value, ok = foldFloats(bin.Op, left.Value, right.Value)
	case left.Kind == ast.KindTrueOrFalse && right.Kind == ast.KindTrueOrFalse:
		value, ok = foldBools(bin.Op, left.Value == "true", right.Value == "true")
	case left.Kind == right.Kind && (bin.Op == "=" || bin.Op == "<>"):
		value, ok = formatBool(bin.Op == "=" == (left.Value == right.Value)), true
	}
	if !ok {
		return nil
	}

	lit := &ast.Literal{Kind: kindOf(bin.Type()), Value: value}
	lit.SetType(bin.Type())
	return lit
}

func isNumber(lit *ast.Literal) bool {
	return lit.Kind == ast.KindWholeNumber || lit.Kind == ast.KindNotWholeNumber
}

func kindOf(t ast.Type) string {
	if p, ok := t.(*ast.Primitive); ok {
		return p.Name
	}
	return t.String()
}

func formatBool(b bool) string {
	return strconv.FormatBool(b)
}

func foldInts(op, l, r string) (string, bool) {
	a, err1 := strconv.ParseInt(l, 10, 64)
	b, err2 := strconv.ParseInt(r, 10, 64)
	if err1 != nil || err2 != nil || abs(a) > maxExactInt || abs(b) > maxExactInt {
		return "", false
	}

	var result int64
	switch op {
	case "+":
		result = a + b
	case "-":
		result = a - b
	case "*":
		if a != 0 && abs(b) > maxExactInt/abs(a) {
			return "", false
		}
		result = a * b
	case "/":
		if b == 0 || a%b != 0 {
			return "", false
		}
		result = a / b
	case "<", ">", "<=", ">=", "=", "<>":
		return formatBool(compare(op, float64(a), float64(b))), true
	default:
		return "", false
	}
	if abs(result) > maxExactInt {
		return "", false
	}
	return strconv.FormatInt(result, 10), true
}

func foldFloats(op, l, r string) (string, bool) {
	a, err1 := strconv.ParseFloat(l, 64)
	b, err2 := strconv.ParseFloat(r, 64)
	if err1 != nil || err2 != nil {
		return "", false
	}

	var result float64
	switch op {
	case "+":
		result = a + b
	case "-":
		result = a - b
	case "*":
		result = a * b
	case "/":
		if b == 0 {
			return "", false
		}
		result = a / b
	case "<", ">", "<=", ">=", "=", "<>":
		return formatBool(compare(op, a, b)), true
	default:
		return "", false
	}
	if math.IsInf(result, 0) || math.IsNaN(result) {
		return "", false
	}
	return strconv.FormatFloat(result, 'g', -1, 64), true
}

func foldBools(op string, a, b bool) (string, bool) {
	switch op {
	case "&", "&&":
		return formatBool(a && b), true
	case "|", "||":
		return formatBool(a || b), true
	case "=":
		return formatBool(a == b), true
	case "<>":
		return formatBool(a != b), true
	}
	return "", false
}

func compare(op string, a, b float64) bool {
	switch op {
	case "<":
		return a < b
	case ">":
		return a > b
	case "<=":
		return a <= b
	case ">=":
		return a >= b
	case "=":
		return a == b
	default:
		return a != b
	}
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}

// rewrite replaces every expression below node with fn's result, children
// first, and returns fn(node).
func rewrite(node ast.Node, fn func(ast.Node) ast.Node) ast.Node {
	if node == nil {
		return nil
	}
	list := func(nodes []ast.Node) {
		for i, n := range nodes {
			nodes[i] = rewrite(n, fn)
		}
	}

	switch n := node.(type) {
	case *ast.Program:
		list(n.Body)
	case *ast.BinaryExpression:
		n.Left = rewrite(n.Left, fn)
		n.Right = rewrite(n.Right, fn)
	case *ast.CallExpression:
		list(n.Args)
	case *ast.MemberExpression:
		n.Object = rewrite(n.Object, fn)
		if n.Computed {
			n.Property = rewrite(n.Property, fn)
		}
	case *ast.ArrayExpression:
		n.Size = rewrite(n.Size, fn)
		list(n.Elements)
	case *ast.ObjectExp:
		for _, f := range n.Fields {
			f.Value = rewrite(f.Value, fn)
		}
	case *ast.AssignmentStatement:
		n.Target = rewrite(n.Target, fn)
		n.Value = rewrite(n.Value, fn)
	case *ast.VariableDeclaration:
		n.Init = rewrite(n.Init, fn)
	case *ast.Func:
		list(n.Body)
	case *ast.Method:
		n.Body = rewrite(n.Body, fn)
	case *ast.GifStatement:
		list(n.Tests)
		for _, c := range n.Consequents {
			list(c)
		}
		list(n.Alternate)
	case *ast.WhileStatement:
		n.Test = rewrite(n.Test, fn)
		list(n.Body)
	case *ast.ForStatement:
		n.Iterator.Init = rewrite(n.Iterator.Init, fn)
		n.Bound = rewrite(n.Bound, fn)
		n.Step = rewrite(n.Step, fn)
		list(n.Body)
	case *ast.ReturnStatement:
		n.Value = rewrite(n.Value, fn)
	case *ast.ThrowStatement:
		n.Value = rewrite(n.Value, fn)
	}
	return fn(node)
}

// EliminateDeadFunctions drops top-level functions and methods that the
// top-level statements never call, directly or through other functions.
func EliminateDeadFunctions(prog *ast.Program) {
	topLevel := make(map[ast.Decl]bool)
	for _, stmt := range prog.Body {
		switch stmt.(type) {
		case *ast.Func, *ast.Method:
			topLevel[stmt.(ast.Decl)] = true
		}
	}

	reachable := make(map[ast.Decl]bool)
	var worklist []ast.Decl
	addCalls := func(root ast.Node) {
		ast.Walk(root, func(n ast.Node) bool {
			call, ok := n.(*ast.CallExpression)
			if ok && call.Callee.Ref != nil && !reachable[call.Callee.Ref] {
				reachable[call.Callee.Ref] = true
				worklist = append(worklist, call.Callee.Ref)
			}
			return true
		})
	}

	for _, stmt := range prog.Body {
		if decl, ok := stmt.(ast.Decl); !ok || !topLevel[decl] {
			addCalls(stmt)
		}
	}
	for len(worklist) > 0 {
		curr := worklist[0]
		worklist = worklist[1:]
		if topLevel[curr] {
			addCalls(curr)
		}
	}

	body := prog.Body[:0]
	for _, stmt := range prog.Body {
		if decl, ok := stmt.(ast.Decl); ok && topLevel[decl] && !reachable[decl] {
			continue
		}
		body = append(body, stmt)
	}
	prog.Body = body
}
