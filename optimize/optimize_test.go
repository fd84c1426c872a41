package optimize

import (
	"testing"

	"github.com/nalgeon/be"
	"github.com/strager/goof3/ast"
	"github.com/strager/goof3/parser"
	"github.com/strager/goof3/semantic"
)

func analyzed(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, err := parser.ParseProgram([]byte(src))
	be.Err(t, err, nil)
	be.Err(t, semantic.Analyze(prog, semantic.NewGlobalScope(), semantic.Options{}), nil)
	return prog
}

func TestFoldConstants(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1 + 2 * 3", "(program 7)"},
		{"10 - 20", "(program -10)"},
		{"6 / 3", "(program 2)"},
		{"7 / 2", `(program (binary "/" 7 2))`},
		{"1 / 0", `(program (binary "/" 1 0))`},
		{"1 + 2.5", `(program (float "3.5"))`},
		{"1.5 + 1.5", `(program (float "3"))`},
		{"1 < 2", "(program (boolean true))"},
		{"2.5 >= 3", "(program (boolean false))"},
		{"1 < 2 & false", "(program (boolean false))"},
		{"true | false", "(program (boolean true))"},
		{`"a" = "a"`, "(program (boolean true))"},
		{`"a" <> "a"`, "(program (boolean false))"},
		{"true = false", "(program (boolean false))"},
		{"9007199254740992 * 2", `(program (binary "*" 9007199254740992 2))`},
		{"var x : whole_number := 1; x + 2 * 3", `(program (var "x" whole_number 1) (binary "+" (id "x") 6))`},
		{"print(1 + 1)", `(program (call "print" 2))`},
		{"var a : array of whole_number[2 + 1] := 0", `(program (var "a" (array-of whole_number) (array-expr whole_number 3 0)))`},
		{"for i := 0 to 2 * 5 by 1 + 1 do {}", `(program (for "i" 0 10 2 []))`},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			prog := analyzed(t, test.input)
			FoldConstants(prog)
			be.Equal(t, ast.ToSExpr(prog), test.expected)
		})
	}
}

func TestFoldedLiteralsAreAnnotated(t *testing.T) {
	prog := analyzed(t, "var b : true_or_false := 1 < 2; var f : not_whole_number := 0.5 * 4")
	FoldConstants(prog)

	b := prog.Body[0].(*ast.VariableDeclaration).Init.(*ast.Literal)
	be.Equal(t, b.Kind, ast.KindTrueOrFalse)
	be.True(t, b.Type() == ast.Bool)

	f := prog.Body[1].(*ast.VariableDeclaration).Init.(*ast.Literal)
	be.Equal(t, f.Kind, ast.KindNotWholeNumber)
	be.Equal(t, f.Value, "2")
	be.True(t, f.Type() == ast.Float)
}

func TestEliminateDeadFunctions(t *testing.T) {
	src := `
function used() { helper() }
function helper() {}
function unused() { helper() }
method alsoUnused(n : whole_number) : whole_number = n
method double(n : whole_number) : whole_number = n * 2
var x : whole_number := double(2)
used()
`
	prog := analyzed(t, src)
	EliminateDeadFunctions(prog)

	var names []string
	for _, stmt := range prog.Body {
		if decl, ok := stmt.(ast.Decl); ok {
			names = append(names, decl.DeclName())
		}
	}
	be.Equal(t, names, []string{"used", "helper", "double", "x"})
	be.Equal(t, len(prog.Body), 5)
}

func TestEliminateKeepsRecursiveCycles(t *testing.T) {
	src := `
function ping(n : whole_number) { if n > 0 then pong(n - 1) }
function pong(n : whole_number) { if n > 0 then ping(n - 1) }
function lonely() { lonely() }
ping(3)
`
	prog := analyzed(t, src)
	EliminateDeadFunctions(prog)
	be.Equal(t, len(prog.Body), 3)
}

func TestEliminateKeepsCallsInsideLoops(t *testing.T) {
	prog := analyzed(t, "function f() {}; while true do { f(); break }")
	EliminateDeadFunctions(prog)
	be.Equal(t, len(prog.Body), 2)
}

func TestProgramRunsDefaultPasses(t *testing.T) {
	prog := analyzed(t, "function dead() {}; print(2 * 21)")
	Program(prog)
	be.Equal(t, ast.ToSExpr(prog), `(program (call "print" 42))`)
}

func TestProgramRunsGivenPasses(t *testing.T) {
	prog := analyzed(t, "function dead() {}; print(2 * 21)")
	Program(prog, EliminateDeadFunctions)
	be.Equal(t, ast.ToSExpr(prog), `(program (call "print" (binary "*" 2 21)))`)
}
