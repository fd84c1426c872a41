package main

import (
	"testing"

	"github.com/nalgeon/be"
	"github.com/strager/goof3/semantic"
)

func TestWhileLoopEndToEnd(t *testing.T) {
	source := `
var n : whole_number := 0
while n < 3 do { print(n); n := n + 1 }
`
	be.Equal(t, runSource(t, source, compileOptions{}), "0\n1\n2\n")
}

func TestForLoopStepEndToEnd(t *testing.T) {
	be.Equal(t, runSource(t, "for i := 0 to 10 by 5 do print(i)", compileOptions{}), "0\n5\n10\n")
}

func TestForLoopEmptyRangeEndToEnd(t *testing.T) {
	be.Equal(t, runSource(t, `for i := 5 to 1 do print(i); print("done")`, compileOptions{}), "done\n")
}

func TestForLoopBoundIsReevaluated(t *testing.T) {
	source := `
var limit : whole_number := 3
for i := 1 to limit do { print(i); limit := 2 }
`
	be.Equal(t, runSource(t, source, compileOptions{}), "1\n2\n")
}

func TestBreakFromNestedIfEndToEnd(t *testing.T) {
	source := `
var i : whole_number := 0
while true do {
	i := i + 1
	if i = 3 then break
}
print(i)
`
	be.Equal(t, runSource(t, source, compileOptions{}), "3\n")
}

func TestNestedLoopsEndToEnd(t *testing.T) {
	source := `
for i := 1 to 3 do
	for j := 1 to i do
		print(i * 10 + j)
`
	be.Equal(t, runSource(t, source, compileOptions{}), "11\n21\n22\n31\n32\n33\n")
}

func TestLoopErrors(t *testing.T) {
	tests := []struct {
		source string
		err    error
		msg    string
	}{
		{"for i := 1 to 3 do i := 5", semantic.ErrReadOnly, "cannot assign to 'i'"},
		{"for i := 1 to 2.5 do print(i)", semantic.ErrTypeMismatch, "expected whole_number, got not_whole_number"},
		{"while 1 do print(1)", semantic.ErrTypeMismatch, "expected true_or_false, got whole_number"},
		{"while true do { function f() { break } }", semantic.ErrMisplaced, "break outside of a loop"},
	}
	for _, test := range tests {
		t.Run(test.source, func(t *testing.T) {
			_, err := compileProgram([]byte(test.source), compileOptions{})
			be.Err(t, err, test.err)
			be.Err(t, err, test.msg)
		})
	}
}
