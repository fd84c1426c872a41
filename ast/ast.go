// Package ast defines the goof3 syntax tree.
//
// The node set is closed: every node type implements Node through an
// unexported marker method. Semantic analysis fills in each node's
// Annotation exactly once; code generation only reads it.
package ast

// Node is implemented by every syntax tree node.
type Node interface {
	node()
	Annotations() *Annotation
}

// TypeExpr is a node written where a type is expected.
//
//	var x : array of whole_number
//	        ^^^^^^^^^^^^^^^^^^^^^  ArrayType{Elem: PrimitiveType{Name: "whole_number"}}
type TypeExpr interface {
	Node
	typeExpr()
}

// Decl is a node that binds a name in a scope.
type Decl interface {
	Node
	DeclName() string
}

// Annotation holds what semantic analysis learned about a node.
type Annotation struct {
	typ Type
}

func (a *Annotation) Annotations() *Annotation { return a }

// Type returns the resolved type of the node.
//
// Panics if the node was never analyzed.
func (a *Annotation) Type() Type {
	if a.typ == nil {
		panic("ast: node has no resolved type")
	}
	return a.typ
}

// HasType reports whether the node was annotated.
func (a *Annotation) HasType() bool {
	return a.typ != nil
}

// SetType records the resolved type. A node's type may only be set once.
func (a *Annotation) SetType(t Type) {
	if t == nil {
		panic("ast: nil type")
	}
	if a.typ != nil {
		panic("ast: type already resolved")
	}
	a.typ = t
}

// Literal kinds. A kind doubles as the name of the literal's type.
const (
	KindWholeNumber    = "whole_number"
	KindNotWholeNumber = "not_whole_number"
	KindArrayOfChars   = "array_of_chars"
	KindTrueOrFalse    = "true_or_false"
	KindNothing        = "nothing"
)

// Program is the root of a parsed source file.
type Program struct {
	Annotation
	Body []Node
}

// Literal is a constant written in the source.
//
//	3      Literal{Kind: "whole_number", Value: "3"}
//	"hi"   Literal{Kind: "array_of_chars", Value: "hi"}
type Literal struct {
	Annotation
	Kind  string
	Value string // source text; decoded contents for strings
}

// IdExp is a reference to a declared name.
type IdExp struct {
	Annotation
	Name string
	Ref  Decl // set by analysis
}

// BinaryExpression represents Left Op Right.
type BinaryExpression struct {
	Annotation
	Op    string
	Left  Node
	Right Node
}

// CallExpression represents Callee(Args...).
type CallExpression struct {
	Annotation
	Callee *IdExp
	Args   []Node
}

// MemberExpression is either an array index (a[i], Computed) or a record
// field access (p.x).
type MemberExpression struct {
	Annotation
	Object   Node
	Property Node
	Computed bool
}

// ArrayExpression creates an array of Size elements.
//
//	array of whole_number [3] of 0
type ArrayExpression struct {
	Annotation
	ElemType TypeExpr
	Size     Node
	Elements []Node
}

// ObjectExp is a record literal.
//
//	point { x := 1, y := 2 }
type ObjectExp struct {
	Annotation
	TypeName string
	Fields   []*Field
	ObjScope any // retained object scope, owned by package semantic
}

// AssignmentStatement represents Target := Value.
type AssignmentStatement struct {
	Annotation
	Target Node
	Value  Node
}

// VariableDeclaration declares a variable, a constant (ReadOnly) or a for
// loop's induction variable (ReadOnly).
type VariableDeclaration struct {
	Annotation
	Name     string
	TypeExpr TypeExpr
	Init     Node // may be nil
	ReadOnly bool
}

// Parameter is one formal parameter of a Func or Method.
type Parameter struct {
	Annotation
	Name     string
	TypeExpr TypeExpr
}

// Field is a record field. Inside a RecordType it carries a TypeExpr;
// inside an ObjectExp it carries a Value and, after analysis, a Ref to the
// record type's field.
type Field struct {
	Annotation
	Name     string
	TypeExpr TypeExpr
	Value    Node
	Ref      Decl
}

// Func is a function whose body is a statement list.
type Func struct {
	Annotation
	Name      string
	Params    []*Parameter
	Result    TypeExpr // nil for no result
	Body      []Node
	Builtin   bool // provided by the bundled library stub
	BodyScope any
}

// Method is a function whose body is a single expression.
//
//	method double(x : whole_number) : whole_number = x * 2
type Method struct {
	Annotation
	Name      string
	Params    []*Parameter
	Result    TypeExpr
	Body      Node
	BodyScope any
}

// GifStatement is an if/elif/else chain. Tests[i] guards Consequents[i].
type GifStatement struct {
	Annotation
	Tests       []Node
	Consequents [][]Node
	Alternate   []Node // nil when there is no else branch
}

// WhileStatement represents while Test do Body.
type WhileStatement struct {
	Annotation
	Test Node
	Body []Node
}

// ForStatement represents
//
//	for i := 0 to 10 by 2 do ...
//
// Iterator holds the induction variable and its start value.
type ForStatement struct {
	Annotation
	Iterator *VariableDeclaration
	Bound    Node
	Step     Node // nil means 1
	Body     []Node
}

type ReturnStatement struct {
	Annotation
	Value Node // may be nil
}

type ThrowStatement struct {
	Annotation
	Value Node
}

type BreakStatement struct {
	Annotation
}

// TypeDeclaration names a type.
//
//	type point = { x : whole_number, y : whole_number }
type TypeDeclaration struct {
	Annotation
	Name     string
	TypeExpr TypeExpr
}

// PrimitiveType is a type written by name: a primitive or a declared type.
type PrimitiveType struct {
	Annotation
	Name string
}

type ArrayType struct {
	Annotation
	Elem TypeExpr
}

type RecordType struct {
	Annotation
	Fields     []*Field
	FieldScope any // owned by package semantic
}

func (*Program) node()             {}
func (*Literal) node()             {}
func (*IdExp) node()               {}
func (*BinaryExpression) node()    {}
func (*CallExpression) node()      {}
func (*MemberExpression) node()    {}
func (*ArrayExpression) node()     {}
func (*ObjectExp) node()           {}
func (*AssignmentStatement) node() {}
func (*VariableDeclaration) node() {}
func (*Parameter) node()           {}
func (*Field) node()               {}
func (*Func) node()                {}
func (*Method) node()              {}
func (*GifStatement) node()        {}
func (*WhileStatement) node()      {}
func (*ForStatement) node()        {}
func (*ReturnStatement) node()     {}
func (*ThrowStatement) node()      {}
func (*BreakStatement) node()      {}
func (*TypeDeclaration) node()     {}
func (*PrimitiveType) node()       {}
func (*ArrayType) node()           {}
func (*RecordType) node()          {}

func (*PrimitiveType) typeExpr() {}
func (*ArrayType) typeExpr()     {}
func (*RecordType) typeExpr()    {}

func (d *VariableDeclaration) DeclName() string { return d.Name }
func (d *Parameter) DeclName() string           { return d.Name }
func (d *Field) DeclName() string               { return d.Name }
func (d *Func) DeclName() string                { return d.Name }
func (d *Method) DeclName() string              { return d.Name }

// Walk calls fn for node and then for each of its children, depth first.
// If fn returns false the children of that node are skipped.
func Walk(node Node, fn func(Node) bool) {
	if node == nil || !fn(node) {
		return
	}
	walkList := func(nodes []Node) {
		for _, n := range nodes {
			Walk(n, fn)
		}
	}
	switch n := node.(type) {
	case *Program:
		walkList(n.Body)
	case *BinaryExpression:
		Walk(n.Left, fn)
		Walk(n.Right, fn)
	case *CallExpression:
		Walk(n.Callee, fn)
		walkList(n.Args)
	case *MemberExpression:
		Walk(n.Object, fn)
		Walk(n.Property, fn)
	case *ArrayExpression:
		Walk(n.ElemType, fn)
		Walk(n.Size, fn)
		walkList(n.Elements)
	case *ObjectExp:
		for _, f := range n.Fields {
			Walk(f, fn)
		}
	case *AssignmentStatement:
		Walk(n.Target, fn)
		Walk(n.Value, fn)
	case *VariableDeclaration:
		if n.TypeExpr != nil {
			Walk(n.TypeExpr, fn)
		}
		Walk(n.Init, fn)
	case *Parameter:
		Walk(n.TypeExpr, fn)
	case *Field:
		if n.TypeExpr != nil {
			Walk(n.TypeExpr, fn)
		}
		Walk(n.Value, fn)
	case *Func:
		for _, p := range n.Params {
			Walk(p, fn)
		}
		if n.Result != nil {
			Walk(n.Result, fn)
		}
		walkList(n.Body)
	case *Method:
		for _, p := range n.Params {
			Walk(p, fn)
		}
		if n.Result != nil {
			Walk(n.Result, fn)
		}
		Walk(n.Body, fn)
	case *GifStatement:
		for i, test := range n.Tests {
			Walk(test, fn)
			walkList(n.Consequents[i])
		}
		walkList(n.Alternate)
	case *WhileStatement:
		Walk(n.Test, fn)
		walkList(n.Body)
	case *ForStatement:
		Walk(n.Iterator, fn)
		Walk(n.Bound, fn)
		Walk(n.Step, fn)
		walkList(n.Body)
	case *ReturnStatement:
		Walk(n.Value, fn)
	case *ThrowStatement:
		Walk(n.Value, fn)
	case *TypeDeclaration:
		Walk(n.TypeExpr, fn)
	case *ArrayType:
		Walk(n.Elem, fn)
	case *RecordType:
		for _, f := range n.Fields {
			Walk(f, fn)
		}
	}
}
