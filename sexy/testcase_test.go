package sexy

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

// fence renders a fenced code block.
func fence(language, body string) string {
	return "```" + language + "\n" + body + "\n```\n"
}

func TestExtractTestCases_Basic(t *testing.T) {
	markdown := "# Arithmetic\n\n" +
		"## Test: addition\n" +
		fence("goof3-expr", "1 + 2") +
		fence("ast", `(binary "+" 1 2)`) +
		"\n## Test: subtraction\n" +
		fence("goof3-expr", "1 - 2") +
		fence("ast", `(binary "-" 1 2)`) +
		fence("types", "whole_number")

	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 2)

	tc1 := testCases[0]
	be.Equal(t, tc1.Name, "addition")
	be.Equal(t, tc1.Input, "1 + 2")
	be.Equal(t, tc1.InputType, InputTypeExpr)
	be.Equal(t, tc1.Line, 5)
	be.Equal(t, len(tc1.Assertions), 1)
	be.Equal(t, tc1.Assertions[0].Type, AssertionTypeAST)
	be.Equal(t, tc1.Assertions[0].ParsedSexy.String(), `(binary "+" 1 2)`)

	tc2 := testCases[1]
	be.Equal(t, tc2.Name, "subtraction")
	be.Equal(t, len(tc2.Assertions), 2)
	be.Equal(t, tc2.Assertions[1].Type, AssertionTypeTypes)
	be.Equal(t, tc2.Assertions[1].ParsedSexy.Text, "whole_number")
}

func TestExtractTestCases_TextualAssertions(t *testing.T) {
	markdown := "## Test: hello\n" +
		fence("goof3-program", `print("hello")`+"\nprint(1 + 1)") +
		fence("js", `print("hello");`+"\nprint((1 + 1));") +
		fence("execute", "hello\n2") +
		"## Test: broken\n" +
		fence("goof3-program", "x := 1") +
		fence("compile-error", "undeclared identifier: 'x'")

	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 2)

	hello := testCases[0]
	be.Equal(t, hello.InputType, InputTypeProgram)
	be.Equal(t, hello.Input, "print(\"hello\")\nprint(1 + 1)")
	be.Equal(t, hello.Assertions[0].Type, AssertionTypeJS)
	be.Equal(t, hello.Assertions[0].Content, "print(\"hello\");\nprint((1 + 1));")
	be.True(t, hello.Assertions[0].ParsedSexy == nil)
	be.Equal(t, hello.Assertions[1].Type, AssertionTypeExecute)
	be.Equal(t, hello.Assertions[1].Content, "hello\n2")

	broken := testCases[1]
	be.Equal(t, broken.Assertions[0].Type, AssertionTypeCompileError)
	be.Equal(t, broken.Assertions[0].Content, "undeclared identifier: 'x'")
}

func TestExtractTestCases_EmptyInputs(t *testing.T) {
	be.Equal(t, len(mustExtract(t, "")), 0)
	be.Equal(t, len(mustExtract(t, "# Just prose\n\nNo tests here.\n")), 0)

	// An empty program is a valid input.
	cases := mustExtract(t, "## Test: empty program\n```goof3-program\n```\n"+fence("js", ""))
	be.Equal(t, len(cases), 1)
	be.Equal(t, cases[0].Input, "")
	be.Equal(t, cases[0].Assertions[0].Content, "")
}

func mustExtract(t *testing.T, markdown string) []TestCase {
	t.Helper()
	cases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	return cases
}

func TestExtractTestCases_PlainCodeBlocksAreProse(t *testing.T) {
	markdown := "Some prose.\n\n```\nnot a test\n```\n\n" +
		"## Test: after prose\n" +
		"```\nignored\n```\n" +
		fence("goof3-expr", "nil") +
		fence("ast", "(nil)")

	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 1)
	be.Equal(t, testCases[0].Input, "nil")
}

func TestExtractTestCases_OtherHeadingsDoNotEndTests(t *testing.T) {
	markdown := "## Test: spans a heading\n" +
		fence("goof3-expr", "true") +
		"### Notes\n" +
		fence("types", "true_or_false")

	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 1)
	be.Equal(t, len(testCases[0].Assertions), 1)
}

func TestExtractTestCases_Errors(t *testing.T) {
	tests := []struct {
		name     string
		markdown string
		err      string
	}{
		{
			"input fence outside test",
			"# Document\n\n" + fence("goof3-expr", "1 + 2"),
			"line 4: goof3-expr fence found outside of test case",
		},
		{
			"assertion fence outside test",
			"# Document\n\n" + fence("execute", "1"),
			"line 4: execute fence found outside of test case",
		},
		{
			"unknown fence outside test",
			"# Document\n\n" + fence("python", "print(1)"),
			"line 4: unknown fence language 'python'",
		},
		{
			"unknown fence in test",
			"## Test: t\n" + fence("goof3-expr", "1") + fence("wasm-locals", "[]"),
			"line 6: unknown fence language 'wasm-locals'",
		},
		{
			"invalid s-expression",
			"## Test: bad\n" + fence("goof3-expr", "1") + fence("ast", "(unclosed list"),
			"line 6: failed to parse s-expression in test 'bad'",
		},
		{
			"missing input",
			"## Test: no input\n" + fence("ast", "1"),
			"test 'no input' has no input fence",
		},
		{
			"missing assertion",
			"## Test: no assertion\n" + fence("goof3-expr", "1"),
			"test 'no assertion' has no assertion fences",
		},
		{
			"two inputs",
			"## Test: twice\n" + fence("goof3-expr", "1") + fence("goof3-program", "print(1)"),
			"line 6: multiple input fences found in test 'twice'",
		},
		{
			"execute needs a program",
			"## Test: expr run\n" + fence("goof3-expr", "1") + fence("execute", "1"),
			"line 6: execute fence needs a goof3-program input in test 'expr run'",
		},
		{
			"error in second test",
			"## Test: fine\n" + fence("goof3-expr", "1") + fence("ast", "1") +
				"## Test: broken\n" + fence("goof3-expr", "2"),
			"test 'broken' has no assertion fences",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := ExtractTestCases(test.markdown)
			be.Err(t, err, test.err)
		})
	}
}

func TestExtractTestCases_LineNumbers(t *testing.T) {
	markdown := strings.Join([]string{
		"# Title",
		"",
		"## Test: first",
		"```goof3-program",
		"var x : whole_number := 1",
		"```",
		"```types",
		"[void]",
		"```",
	}, "\n")

	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, testCases[0].Line, 5)
	be.Equal(t, testCases[0].Assertions[0].Line, 8)
}
