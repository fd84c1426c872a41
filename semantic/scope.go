// Package semantic resolves names and checks types in a goof3 syntax tree.
//
// Analysis annotates the tree in place: every reachable node gets its
// resolved type, identifiers get a reference to their declaration, and
// functions, methods, record types and record literals keep the scope
// that was built for them.
package semantic

import (
	"github.com/strager/goof3/ast"
)

// ScopeKind tells what construct opened a scope.
type ScopeKind int

const (
	ScopeGlobal ScopeKind = iota
	ScopeLoop
	ScopeFunction
	ScopeObject
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeGlobal:
		return "global"
	case ScopeLoop:
		return "loop"
	case ScopeFunction:
		return "function"
	case ScopeObject:
		return "object"
	default:
		return "unknown"
	}
}

// Scope is one frame in the tree of lexical scopes. Values (variables,
// parameters, functions, fields) and type names live in separate
// namespaces.
type Scope struct {
	Kind   ScopeKind
	Owner  ast.Node // nil for the global scope
	parent *Scope
	values map[string]ast.Decl
	types  map[string]*ast.TypeDeclaration
}

// NewGlobalScope returns a root scope holding the builtin print function.
func NewGlobalScope() *Scope {
	s := newScope(ScopeGlobal, nil, nil)
	for _, fn := range builtins() {
		s.values[fn.Name] = fn
	}
	return s
}

func builtins() []*ast.Func {
	value := &ast.Parameter{Name: "value"}
	value.SetType(ast.Any)
	printFn := &ast.Func{
		Name:    "print",
		Params:  []*ast.Parameter{value},
		Builtin: true,
	}
	printFn.SetType(ast.Void)
	return []*ast.Func{printFn}
}

func newScope(kind ScopeKind, owner ast.Node, parent *Scope) *Scope {
	return &Scope{
		Kind:   kind,
		Owner:  owner,
		parent: parent,
		values: make(map[string]ast.Decl),
		types:  make(map[string]*ast.TypeDeclaration),
	}
}

// Parent returns the enclosing scope, or nil for the root.
func (s *Scope) Parent() *Scope {
	return s.parent
}

// Add binds decl in this scope. A name may be bound once per scope;
// inner scopes may shadow outer bindings.
func (s *Scope) Add(decl ast.Decl) error {
	name := decl.DeclName()
	if _, exists := s.values[name]; exists {
		return newError(ErrDuplicateDeclaration, "'%s' already declared in this %s scope", name, s.Kind)
	}
	s.values[name] = decl
	return nil
}

// LookupValue finds the nearest declaration of name, searching this scope
// and then each enclosing scope up to the root.
func (s *Scope) LookupValue(name string) (ast.Decl, error) {
	for cur := s; cur != nil; cur = cur.parent {
		if decl, ok := cur.values[name]; ok {
			return decl, nil
		}
	}
	return nil, newError(ErrUndeclared, "'%s'", name)
}

// LookupLocal finds a binding in this scope only.
func (s *Scope) LookupLocal(name string) (ast.Decl, bool) {
	decl, ok := s.values[name]
	return decl, ok
}

// AddType binds a type name in this scope.
func (s *Scope) AddType(td *ast.TypeDeclaration) error {
	if _, isPrimitive := ast.LookupPrimitive(td.Name); isPrimitive {
		return newError(ErrDuplicateDeclaration, "cannot redeclare builtin type '%s'", td.Name)
	}
	if _, exists := s.types[td.Name]; exists {
		return newError(ErrDuplicateDeclaration, "type '%s' already declared in this %s scope", td.Name, s.Kind)
	}
	s.types[td.Name] = td
	return nil
}

// LookupType resolves a type name. Primitive names are checked first.
func (s *Scope) LookupType(name string) (ast.Type, error) {
	if p, ok := ast.LookupPrimitive(name); ok {
		return p, nil
	}
	for cur := s; cur != nil; cur = cur.parent {
		if td, ok := cur.types[name]; ok {
			return td.Type(), nil
		}
	}
	return nil, newError(ErrUndeclared, "unknown type '%s'", name)
}

// NewLoopScope opens the scope of a while or for loop body.
func (s *Scope) NewLoopScope(owner ast.Node) *Scope {
	return newScope(ScopeLoop, owner, s)
}

// NewFunctionScope opens the body scope of a *ast.Func or *ast.Method and
// binds its parameters there.
func (s *Scope) NewFunctionScope(owner ast.Node) (*Scope, error) {
	var params []*ast.Parameter
	switch fn := owner.(type) {
	case *ast.Func:
		params = fn.Params
	case *ast.Method:
		params = fn.Params
	default:
		panic("semantic: function scope owner must be a function or method")
	}

	body := newScope(ScopeFunction, owner, s)
	for _, p := range params {
		if err := body.Add(p); err != nil {
			return nil, err
		}
	}
	return body, nil
}

// NewObjectScope opens the scope of a record type or record literal.
func (s *Scope) NewObjectScope(owner ast.Node) *Scope {
	return newScope(ScopeObject, owner, s)
}

// EnclosingFunction returns the function or method whose body contains
// this scope, or nil at top level.
func (s *Scope) EnclosingFunction() ast.Node {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.Kind == ScopeFunction {
			return cur.Owner
		}
	}
	return nil
}

// InLoop reports whether a loop body encloses this scope without a
// function boundary in between.
func (s *Scope) InLoop() bool {
	for cur := s; cur != nil; cur = cur.parent {
		switch cur.Kind {
		case ScopeLoop:
			return true
		case ScopeFunction:
			return false
		}
	}
	return false
}
