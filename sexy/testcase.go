package sexy

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// InputType is the language of a test's input fence.
type InputType string

const (
	InputTypeExpr    InputType = "goof3-expr"
	InputTypeProgram InputType = "goof3-program"
)

// AssertionType is the language of an assertion fence.
type AssertionType string

const (
	// AssertionTypeAST matches the parsed tree, rendered by ast.ToSExpr.
	AssertionTypeAST AssertionType = "ast"
	// AssertionTypeTypes matches the analyzed type of an expression, or an
	// array of the types of a program's top-level statements.
	AssertionTypeTypes AssertionType = "types"
	// AssertionTypeJS compares generated JavaScript text, without the
	// print stub.
	AssertionTypeJS AssertionType = "js"
	// AssertionTypeExecute compares what the program prints.
	AssertionTypeExecute AssertionType = "execute"
	// AssertionTypeCompileError expects compilation to fail with a message
	// containing the fence text.
	AssertionTypeCompileError AssertionType = "compile-error"
)

// Textual reports whether assertions of this type hold raw text rather than
// an s-expression.
func (t AssertionType) Textual() bool {
	return t == AssertionTypeJS || t == AssertionTypeExecute || t == AssertionTypeCompileError
}

// Assertion is one assertion fence of a test case.
type Assertion struct {
	Type       AssertionType
	Content    string // raw fence content
	ParsedSexy *Node  // nil for textual assertions
	Line       int
}

// TestCase is a test extracted from a "Test: " heading and the fences that
// follow it.
type TestCase struct {
	Name       string
	Input      string
	InputType  InputType
	Line       int // line of the input fence
	Assertions []Assertion
}

// ExtractTestCases parses a markdown document and returns its test cases
// in document order.
func ExtractTestCases(markdownContent string) ([]TestCase, error) {
	source := []byte(markdownContent)
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var testCases []TestCase
	var current *TestCase
	finish := func() error {
		if current == nil {
			return nil
		}
		if err := validateTestCase(current); err != nil {
			return err
		}
		testCases = append(testCases, *current)
		current = nil
		return nil
	}

	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n := node.(type) {
		case *ast.Heading:
			heading := extractTextFromNode(n, source)
			if !strings.HasPrefix(heading, "Test: ") {
				return ast.WalkContinue, nil
			}
			if err := finish(); err != nil {
				return ast.WalkStop, err
			}
			current = &TestCase{Name: strings.TrimPrefix(heading, "Test: ")}

		case *ast.FencedCodeBlock:
			language := string(n.Language(source))
			lineNum := getLineNumber(n, source)
			if language == "" {
				// Plain code blocks are prose.
				return ast.WalkContinue, nil
			}
			if !isInputFence(language) && !isAssertionFence(language) {
				return ast.WalkStop, fmt.Errorf("line %d: unknown fence language '%s'", lineNum, language)
			}
			if current == nil {
				return ast.WalkStop, fmt.Errorf("line %d: %s fence found outside of test case", lineNum, language)
			}
			content := strings.TrimRight(extractCodeBlockContent(n, source), "\n")

			if isInputFence(language) {
				if current.InputType != "" {
					return ast.WalkStop, fmt.Errorf("line %d: multiple input fences found in test '%s'", lineNum, current.Name)
				}
				current.Input = content
				current.InputType = InputType(language)
				current.Line = lineNum
				return ast.WalkContinue, nil
			}

			assertion := Assertion{Type: AssertionType(language), Content: content, Line: lineNum}
			if !assertion.Type.Textual() {
				parsed, err := Parse(content)
				if err != nil {
					return ast.WalkStop, fmt.Errorf("line %d: failed to parse s-expression in test '%s': %w", lineNum, current.Name, err)
				}
				assertion.ParsedSexy = parsed
			}
			current.Assertions = append(current.Assertions, assertion)
		}

		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}
	if err := finish(); err != nil {
		return nil, err
	}
	return testCases, nil
}

func extractTextFromNode(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if t, ok := n.(*ast.Text); ok {
				buf.Write(t.Segment.Value(source))
			}
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

func extractCodeBlockContent(codeBlock *ast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer
	lines := codeBlock.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(source))
	}
	return buf.String()
}

func isInputFence(language string) bool {
	switch InputType(language) {
	case InputTypeExpr, InputTypeProgram:
		return true
	}
	return false
}

func isAssertionFence(language string) bool {
	switch AssertionType(language) {
	case AssertionTypeAST, AssertionTypeTypes, AssertionTypeJS, AssertionTypeExecute, AssertionTypeCompileError:
		return true
	}
	return false
}

// validateTestCase ensures a test case has an input and at least one
// assertion. An empty input fence is allowed.
func validateTestCase(testCase *TestCase) error {
	if testCase.InputType == "" {
		return fmt.Errorf("test '%s' has no input fence", testCase.Name)
	}
	if len(testCase.Assertions) == 0 {
		return fmt.Errorf("test '%s' has no assertion fences", testCase.Name)
	}
	if testCase.InputType == InputTypeExpr {
		for _, a := range testCase.Assertions {
			if a.Type == AssertionTypeJS || a.Type == AssertionTypeExecute {
				return fmt.Errorf("line %d: %s fence needs a %s input in test '%s'", a.Line, a.Type, InputTypeProgram, testCase.Name)
			}
		}
	}
	return nil
}

// getLineNumber returns the 1-based line of the node's first content line.
func getLineNumber(node ast.Node, source []byte) int {
	if node.Lines().Len() == 0 {
		return 1
	}
	startPos := node.Lines().At(0).Start
	return bytes.Count(source[:min(startPos, len(source))], []byte("\n")) + 1
}
