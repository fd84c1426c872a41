package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nalgeon/be"
	"github.com/strager/goof3/ast"
	"github.com/strager/goof3/codegen"
	"github.com/strager/goof3/jsrun"
	"github.com/strager/goof3/parser"
	"github.com/strager/goof3/semantic"
	"github.com/strager/goof3/sexy"
)

// suiteOptions are the compile options for the markdown suites.
var suiteOptions = compileOptions{StrictReturns: true}

func TestSexyAllTests(t *testing.T) {
	files, err := filepath.Glob("test/*_test.md")
	be.Err(t, err, nil)
	be.True(t, len(files) > 0)

	for _, file := range files {
		content, err := os.ReadFile(file)
		be.Err(t, err, nil)

		testCases, err := sexy.ExtractTestCases(string(content))
		if err != nil {
			t.Errorf("%s: %v", file, err)
			continue
		}
		for _, tc := range testCases {
			t.Run(filepath.Base(file)+"/"+tc.Name, func(t *testing.T) {
				runSexyTestCase(t, tc)
			})
		}
	}
}

func runSexyTestCase(t *testing.T, tc sexy.TestCase) {
	for _, assertion := range tc.Assertions {
		switch assertion.Type {
		case sexy.AssertionTypeAST:
			node := parseTestInput(t, tc)
			assertSexyMatch(t, assertion, ast.ToSExpr(node))
		case sexy.AssertionTypeTypes:
			node := parseTestInput(t, tc)
			semOpts := semantic.Options{CheckReturnTypes: suiteOptions.StrictReturns}
			be.Err(t, semantic.Analyze(node, semantic.NewGlobalScope(), semOpts), nil)
			assertSexyMatch(t, assertion, typesSExpr(node))
		case sexy.AssertionTypeJS:
			js, err := compileProgram([]byte(tc.Input), suiteOptions)
			be.Err(t, err, nil)
			be.Equal(t, strings.TrimRight(strings.TrimPrefix(js, codegen.PrintStub+"\n"), "\n"), assertion.Content)
		case sexy.AssertionTypeExecute:
			be.Equal(t, executeTestInput(t, tc, suiteOptions), assertion.Content)
			optimized := suiteOptions
			optimized.Optimize = true
			be.Equal(t, executeTestInput(t, tc, optimized), assertion.Content)
		case sexy.AssertionTypeCompileError:
			err := compileTestInput(tc)
			be.Err(t, err, assertion.Content)
		default:
			t.Fatalf("line %d: unsupported assertion %s", assertion.Line, assertion.Type)
		}
	}
}

func parseTestInput(t *testing.T, tc sexy.TestCase) ast.Node {
	t.Helper()
	if tc.InputType == sexy.InputTypeExpr {
		node, err := parser.ParseExpression([]byte(tc.Input))
		be.Err(t, err, nil)
		return node
	}
	prog, err := parser.ParseProgram([]byte(tc.Input))
	be.Err(t, err, nil)
	return prog
}

// compileTestInput runs every compilation stage over the input.
func compileTestInput(tc sexy.TestCase) error {
	if tc.InputType == sexy.InputTypeProgram {
		_, err := compileProgram([]byte(tc.Input), suiteOptions)
		return err
	}
	node, err := parser.ParseExpression([]byte(tc.Input))
	if err != nil {
		return err
	}
	semOpts := semantic.Options{CheckReturnTypes: suiteOptions.StrictReturns}
	return semantic.Analyze(node, semantic.NewGlobalScope(), semOpts)
}

func executeTestInput(t *testing.T, tc sexy.TestCase, opts compileOptions) string {
	t.Helper()
	js, err := compileProgram([]byte(tc.Input), opts)
	be.Err(t, err, nil)
	var out bytes.Buffer
	be.Err(t, jsrun.Run(js, &out), nil)
	return strings.TrimRight(out.String(), "\n")
}

// typesSExpr renders the analyzed type of an expression, or an array of
// the types of a program's top-level statements.
func typesSExpr(node ast.Node) string {
	prog, ok := node.(*ast.Program)
	if !ok {
		return ast.TypeSExpr(node.Annotations().Type())
	}
	types := make([]string, len(prog.Body))
	for i, stmt := range prog.Body {
		types[i] = ast.TypeSExpr(stmt.Annotations().Type())
	}
	return "[" + strings.Join(types, " ") + "]"
}

func assertSexyMatch(t *testing.T, assertion sexy.Assertion, actual string) {
	t.Helper()
	actualNode, err := sexy.Parse(actual)
	if err != nil {
		t.Fatalf("line %d: cannot read %q: %v", assertion.Line, actual, err)
	}
	if err := sexy.Match(assertion.ParsedSexy, actualNode); err != nil {
		t.Errorf("line %d: %v", assertion.Line, err)
	}
}
