package codegen

import (
	"fmt"

	"github.com/strager/goof3/ast"
)

// Names assigns each declaration a JavaScript identifier of the form
// <name>_<n>. One table serves one compilation: distinct declarations get
// distinct names, and a declaration keeps its name wherever it is used.
// Builtin functions keep their source name.
type Names struct {
	names map[ast.Decl]string
	next  int
}

func NewNames() *Names {
	return &Names{names: make(map[ast.Decl]string)}
}

// Name returns the identifier for decl, assigning one on first use.
func (n *Names) Name(decl ast.Decl) string {
	if fn, ok := decl.(*ast.Func); ok && fn.Builtin {
		return fn.Name
	}
	if name, ok := n.names[decl]; ok {
		return name
	}
	n.next++
	name := fmt.Sprintf("%s_%d", decl.DeclName(), n.next)
	n.names[decl] = name
	return name
}

// Len returns the number of names assigned so far.
func (n *Names) Len() int {
	return len(n.names)
}
