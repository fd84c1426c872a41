package semantic

import (
	"testing"

	"github.com/nalgeon/be"
	"github.com/strager/goof3/ast"
)

func TestPredicateChecks(t *testing.T) {
	ints := &ast.ArrayOf{Elem: ast.Int}

	tests := []struct {
		name  string
		check func(ast.Type) error
		pass  []ast.Type
		fail  []ast.Type
	}{
		{"array", CheckIsArray, []ast.Type{ints}, []ast.Type{ast.Int, ast.String}},
		{"array type", CheckIsArrayType, []ast.Type{ints}, []ast.Type{ast.Bool}},
		{"integer", CheckIsInteger, []ast.Type{ast.Int}, []ast.Type{ast.Float, ast.String}},
		{"number", CheckIsNumber, []ast.Type{ast.Int, ast.Float}, []ast.Type{ast.String, ast.Null}},
		{"string", CheckIsString, []ast.Type{ast.String}, []ast.Type{ast.Int, ints}},
		{"integer or string", CheckIsIntegerOrString, []ast.Type{ast.Int, ast.String}, []ast.Type{ast.Float}},
		{"boolean", CheckIsBoolean, []ast.Type{ast.Bool}, []ast.Type{ast.Int, ast.Null}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			for _, typ := range test.pass {
				be.Err(t, test.check(typ), nil)
			}
			for _, typ := range test.fail {
				be.Err(t, test.check(typ), ErrTypeMismatch)
			}
		})
	}
}

func TestCheckMessages(t *testing.T) {
	be.Equal(t, CheckIsInteger(ast.String).Error(),
		"error: type mismatch: expected whole_number, got array_of_chars")
	be.Equal(t, CheckIsBoolean(ast.Int).Error(),
		"error: type mismatch: expected true_or_false, got whole_number")
	be.Equal(t, CheckIsArrayType(ast.Int).Error(),
		"error: type mismatch: declared type whole_number is not an array type")
	be.Equal(t, CheckAssignable(ast.Float, ast.Int).Error(),
		"error: not assignable: cannot assign not_whole_number to whole_number")
}

func TestAssignability(t *testing.T) {
	point := &ast.Record{Name: "point"}
	other := &ast.Record{Name: "point"}

	tests := []struct {
		name     string
		from, to ast.Type
		expected bool
	}{
		{"same primitive", ast.Int, ast.Int, true},
		{"float to int", ast.Float, ast.Int, false},
		{"int to float", ast.Int, ast.Float, false},
		{"same array", &ast.ArrayOf{Elem: ast.Int}, &ast.ArrayOf{Elem: ast.Int}, true},
		{"different arrays", &ast.ArrayOf{Elem: ast.Int}, &ast.ArrayOf{Elem: ast.Float}, false},
		{"same record", point, point, true},
		{"distinct records", point, other, false},
		{"nil to record", ast.Null, point, true},
		{"nil to nil", ast.Null, ast.Null, true},
		{"nil to int", ast.Null, ast.Int, false},
		{"nil to string", ast.Null, ast.String, false},
		{"nil to array", ast.Null, &ast.ArrayOf{Elem: ast.Int}, false},
		{"record to nil", point, ast.Null, false},
		{"anything to any", point, ast.Any, true},
		{"void to any", ast.Void, ast.Any, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			be.Equal(t, IsAssignable(test.from, test.to), test.expected)
			err := CheckAssignable(test.from, test.to)
			if test.expected {
				be.Err(t, err, nil)
			} else {
				be.Err(t, err, ErrNotAssignable)
			}
		})
	}
}

func TestAssignabilityIsReflexive(t *testing.T) {
	types := []ast.Type{
		ast.Int, ast.Float, ast.String, ast.Bool, ast.Null,
		&ast.ArrayOf{Elem: &ast.ArrayOf{Elem: ast.String}},
		&ast.Record{Name: "point"},
	}
	for _, typ := range types {
		be.Err(t, CheckAssignable(typ, typ), nil)
	}
}

func TestCheckSameType(t *testing.T) {
	be.Err(t, CheckSameType(ast.Int, ast.Int), nil)
	be.Err(t, CheckSameType(ast.Int, ast.String), ErrTypeMismatch)
	be.Err(t, CheckSameType(ast.Null, &ast.Record{Name: "point"}), ErrTypeMismatch)
}

func TestCheckIsFunction(t *testing.T) {
	be.Err(t, CheckIsFunction(&ast.Func{Name: "f"}), nil)
	be.Err(t, CheckIsFunction(&ast.Method{Name: "m"}), nil)

	err := CheckIsFunction(intVar("x"))
	be.Err(t, err, ErrNotFunction)
	be.Equal(t, err.Error(), "error: not a function: 'x' is not a function")
}

func TestCheckNotReadOnly(t *testing.T) {
	be.Err(t, CheckNotReadOnly(intVar("x")), nil)
	be.Err(t, CheckNotReadOnly(&ast.Parameter{Name: "p"}), nil)

	c := intVar("c")
	c.ReadOnly = true
	be.Err(t, CheckNotReadOnly(c), ErrReadOnly)
}

func TestCheckFieldNotUsed(t *testing.T) {
	used := make(map[string]bool)
	be.Err(t, CheckFieldNotUsed(used, "x"), nil)
	be.Err(t, CheckFieldNotUsed(used, "y"), nil)

	err := CheckFieldNotUsed(used, "x")
	be.Err(t, err, ErrDuplicateField)
	be.Equal(t, err.Error(), "error: duplicate field declaration: field 'x' appears more than once")
}

func TestCheckArguments(t *testing.T) {
	a := &ast.Parameter{Name: "a"}
	a.SetType(ast.Int)
	b := &ast.Parameter{Name: "b"}
	b.SetType(ast.String)
	fn := &ast.Func{Name: "f", Params: []*ast.Parameter{a, b}}

	lit := func(typ ast.Type) ast.Node {
		l := &ast.Literal{}
		l.SetType(typ)
		return l
	}

	be.Err(t, CheckArguments(fn, []ast.Node{lit(ast.Int), lit(ast.String)}), nil)

	// Arity is checked before argument types.
	err := CheckArguments(fn, []ast.Node{lit(ast.Bool)})
	be.Err(t, err, ErrArity)
	be.Equal(t, err.Error(), "error: arity mismatch: 'f' expects 2 argument(s), got 1")

	err = CheckArguments(fn, []ast.Node{lit(ast.Int), lit(ast.Int)})
	be.Err(t, err, ErrNotAssignable)
	be.Equal(t, err.Error(),
		"error: not assignable: argument 2 of 'f': cannot pass whole_number as array_of_chars")

	be.Err(t, CheckArguments(intVar("x"), nil), ErrNotFunction)
}
