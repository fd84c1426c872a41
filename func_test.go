package main

import (
	"testing"

	"github.com/nalgeon/be"
	"github.com/strager/goof3/semantic"
)

func TestMutualRecursionEndToEnd(t *testing.T) {
	source := `
print(even(10))
print(odd(7))
function even(n : whole_number) : true_or_false {
	if n = 0 then return true
	return odd(n - 1)
}
function odd(n : whole_number) : true_or_false {
	if n = 0 then return false
	return even(n - 1)
}
`
	be.Equal(t, runSource(t, source, compileOptions{StrictReturns: true}), "true\ntrue\n")
}

func TestMethodsEndToEnd(t *testing.T) {
	source := `
method square(n : whole_number) : whole_number = n * n
method shout(s : array_of_chars) = print(s)
print(square(7))
shout("hey")
`
	be.Equal(t, runSource(t, source, compileOptions{}), "49\nhey\n")
}

func TestNestedFunctionsSeeOuterVariablesEndToEnd(t *testing.T) {
	source := `
function outer() {
	var count : whole_number := 0
	function inc() { count := count + 1 }
	inc(); inc()
	print(count)
}
outer()
`
	be.Equal(t, runSource(t, source, compileOptions{}), "2\n")
}

func TestEarlyReturnEndToEnd(t *testing.T) {
	source := `
function check(n : whole_number) {
	if n > 5 then { print("big"); return }
	print("small")
}
check(10); check(1)
`
	be.Equal(t, runSource(t, source, compileOptions{StrictReturns: true}), "big\nsmall\n")
}

func TestFunctionErrors(t *testing.T) {
	tests := []struct {
		source string
		err    error
		msg    string
	}{
		{"function f(a : whole_number) {}; f(1, 2)", semantic.ErrArity, "'f' expects 1 argument(s), got 2"},
		{`function f(a : whole_number) {}; f("x")`, semantic.ErrNotAssignable, "argument 1 of 'f': cannot pass array_of_chars as whole_number"},
		{"var x : whole_number := 1; x(2)", semantic.ErrNotFunction, "'x' is not a function"},
		{"function f() {}; function f() {}", semantic.ErrDuplicateDeclaration, "'f' already declared"},
		{"return 1", semantic.ErrMisplaced, "return outside of a function"},
		{"print(missing())", semantic.ErrUndeclared, "'missing'"},
	}
	for _, test := range tests {
		t.Run(test.source, func(t *testing.T) {
			_, err := compileProgram([]byte(test.source), compileOptions{})
			be.Err(t, err, test.err)
			be.Err(t, err, test.msg)
		})
	}
}
