package semantic

import (
	"errors"
	"fmt"
)

// Each semantic failure wraps exactly one of these. Callers tell rules
// apart with errors.Is.
var (
	ErrTypeMismatch         = errors.New("type mismatch")
	ErrNotAssignable        = errors.New("not assignable")
	ErrReadOnly             = errors.New("read-only assignment")
	ErrArity                = errors.New("arity mismatch")
	ErrNotFunction          = errors.New("not a function")
	ErrDuplicateField       = errors.New("duplicate field declaration")
	ErrUndeclared           = errors.New("undeclared identifier")
	ErrDuplicateDeclaration = errors.New("duplicate declaration")
	ErrNotSubscriptable     = errors.New("non-subscriptable expression")
	ErrMissingField         = errors.New("missing field")
	ErrMisplaced            = errors.New("misplaced statement")
	ErrReturnType           = errors.New("return type mismatch")
)

// newError formats a failure of rule as "error: <rule>: <detail>".
func newError(rule error, format string, args ...any) error {
	return fmt.Errorf("error: %w: %s", rule, fmt.Sprintf(format, args...))
}
