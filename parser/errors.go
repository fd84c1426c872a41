package parser

import (
	"fmt"
	"strings"
)

// Error is a syntax error at a source position.
type Error struct {
	Pos Position
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// ErrorList collects the syntax errors found while parsing one source file.
type ErrorList struct {
	Errors []*Error
}

func (el *ErrorList) Add(pos Position, format string, args ...any) {
	el.Errors = append(el.Errors, &Error{Pos: pos, Msg: fmt.Sprintf(format, args...)})
}

func (el *ErrorList) HasErrors() bool {
	return len(el.Errors) > 0
}

// String renders one error per line.
func (el *ErrorList) String() string {
	lines := make([]string, len(el.Errors))
	for i, err := range el.Errors {
		lines[i] = err.Error()
	}
	return strings.Join(lines, "\n")
}

func (el *ErrorList) Error() string {
	return el.String()
}

// Err returns the list as an error, or nil if it is empty.
func (el *ErrorList) Err() error {
	if !el.HasErrors() {
		return nil
	}
	return el
}
