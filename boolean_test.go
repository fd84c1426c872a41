package main

import (
	"testing"

	"github.com/nalgeon/be"
)

func TestBooleanOperatorsEndToEnd(t *testing.T) {
	source := `
print(true & false)
print(true | false)
print(1 < 2)
print(2.5 >= 3)
print(1 = 1 & "a" <> "b")
`
	be.Equal(t, runSource(t, source, compileOptions{}), "false\ntrue\ntrue\nfalse\ntrue\n")
}

func TestBooleanVariablesEndToEnd(t *testing.T) {
	source := `
var done : true_or_false := false
var n : whole_number := 0
while done = false do {
	n := n + 1
	done := n >= 4
}
print(n)
`
	be.Equal(t, runSource(t, source, compileOptions{Optimize: true}), "4\n")
}
