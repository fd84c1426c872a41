package semantic

import (
	"github.com/strager/goof3/ast"
)

func CheckIsArray(t ast.Type) error {
	if _, ok := t.(*ast.ArrayOf); !ok {
		return newError(ErrTypeMismatch, "expected an array, got %s", t)
	}
	return nil
}

// CheckIsArrayType checks the declared type of a sized array declaration.
func CheckIsArrayType(t ast.Type) error {
	if _, ok := t.(*ast.ArrayOf); !ok {
		return newError(ErrTypeMismatch, "declared type %s is not an array type", t)
	}
	return nil
}

func CheckIsInteger(t ast.Type) error {
	if t != ast.Int {
		return newError(ErrTypeMismatch, "expected %s, got %s", ast.Int, t)
	}
	return nil
}

// CheckIsNumber accepts whole and non-whole numbers.
func CheckIsNumber(t ast.Type) error {
	if !ast.IsNumeric(t) {
		return newError(ErrTypeMismatch, "expected a number, got %s", t)
	}
	return nil
}

func CheckIsString(t ast.Type) error {
	if t != ast.String {
		return newError(ErrTypeMismatch, "expected %s, got %s", ast.String, t)
	}
	return nil
}

func CheckIsIntegerOrString(t ast.Type) error {
	if t != ast.Int && t != ast.String {
		return newError(ErrTypeMismatch, "expected %s or %s, got %s", ast.Int, ast.String, t)
	}
	return nil
}

func CheckIsBoolean(t ast.Type) error {
	if t != ast.Bool {
		return newError(ErrTypeMismatch, "expected %s, got %s", ast.Bool, t)
	}
	return nil
}

// CheckIsFunction checks that a name resolved to a function or method.
func CheckIsFunction(decl ast.Decl) error {
	switch decl.(type) {
	case *ast.Func, *ast.Method:
		return nil
	}
	return newError(ErrNotFunction, "'%s' is not a function", decl.DeclName())
}

func CheckSameType(a, b ast.Type) error {
	if !ast.SameType(a, b) {
		return newError(ErrTypeMismatch, "%s and %s are different types", a, b)
	}
	return nil
}

// IsAssignable reports whether a value of type from may be stored where a
// value of type to is expected: the types are the same, nil is stored into
// a record, or the destination accepts anything.
func IsAssignable(from, to ast.Type) bool {
	switch {
	case ast.SameType(from, to):
		return true
	case from == ast.Null && ast.IsRecord(to):
		return true
	case to == ast.Any:
		return from != ast.Void
	default:
		return false
	}
}

func CheckAssignable(from, to ast.Type) error {
	if !IsAssignable(from, to) {
		return newError(ErrNotAssignable, "cannot assign %s to %s", from, to)
	}
	return nil
}

// CheckNotReadOnly rejects assignment to constants and for loop variables.
func CheckNotReadOnly(decl ast.Decl) error {
	if v, ok := decl.(*ast.VariableDeclaration); ok && v.ReadOnly {
		return newError(ErrReadOnly, "cannot assign to '%s'", v.Name)
	}
	return nil
}

// CheckFieldNotUsed records name in used and fails if it was already there.
func CheckFieldNotUsed(used map[string]bool, name string) error {
	if used[name] {
		return newError(ErrDuplicateField, "field '%s' appears more than once", name)
	}
	used[name] = true
	return nil
}

// CheckArguments checks a call against the callee's parameter list. The
// argument count is checked before any argument type.
func CheckArguments(callee ast.Decl, args []ast.Node) error {
	var params []*ast.Parameter
	switch fn := callee.(type) {
	case *ast.Func:
		params = fn.Params
	case *ast.Method:
		params = fn.Params
	default:
		return CheckIsFunction(callee)
	}

	if len(args) != len(params) {
		return newError(ErrArity, "'%s' expects %d argument(s), got %d", callee.DeclName(), len(params), len(args))
	}
	for i, arg := range args {
		got := typeOf(arg)
		if !IsAssignable(got, params[i].Type()) {
			return newError(ErrNotAssignable, "argument %d of '%s': cannot pass %s as %s",
				i+1, callee.DeclName(), got, params[i].Type())
		}
	}
	return nil
}
