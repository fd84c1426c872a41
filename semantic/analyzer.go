package semantic

import (
	"fmt"

	"github.com/strager/goof3/ast"
)

// Options tune what Analyze accepts.
type Options struct {
	// CheckReturnTypes checks returned values, and method bodies, against
	// the declared result type.
	CheckReturnTypes bool
}

type analyzer struct {
	opts Options
	// Functions, methods and record types that are visible but whose
	// signature or fields are not resolved yet, with their declaring scope.
	pending map[ast.Node]*Scope
}

// Analyze resolves names and checks types in root, annotating it in place.
// Declarations at the top level of root are added to scope. Analysis stops
// at the first error.
func Analyze(root ast.Node, scope *Scope, opts Options) error {
	a := &analyzer{opts: opts, pending: make(map[ast.Node]*Scope)}
	return a.analyze(root, scope)
}

func typeOf(n ast.Node) ast.Type {
	return n.Annotations().Type()
}

func (a *analyzer) analyze(node ast.Node, scope *Scope) error {
	switch n := node.(type) {
	case *ast.Program:
		if err := a.analyzeStatements(n.Body, scope); err != nil {
			return err
		}
		n.SetType(ast.Void)
		return nil
	case *ast.Literal:
		return a.analyzeLiteral(n, scope)
	case *ast.IdExp:
		return a.analyzeIdExp(n, scope)
	case *ast.BinaryExpression:
		return a.analyzeBinary(n, scope)
	case *ast.CallExpression:
		return a.analyzeCall(n, scope)
	case *ast.MemberExpression:
		return a.analyzeMember(n, scope)
	case *ast.ArrayExpression:
		return a.analyzeArray(n, scope)
	case *ast.ObjectExp:
		return a.analyzeObject(n, scope)
	case *ast.AssignmentStatement:
		return a.analyzeAssignment(n, scope)
	case *ast.VariableDeclaration:
		return a.analyzeVariable(n, scope)
	case *ast.Parameter:
		t, err := a.resolveType(n.TypeExpr, scope)
		if err != nil {
			return err
		}
		n.SetType(t)
		return scope.Add(n)
	case *ast.Field:
		t, err := a.resolveType(n.TypeExpr, scope)
		if err != nil {
			return err
		}
		n.SetType(t)
		return scope.Add(n)
	case *ast.Func:
		return a.analyzeFunc(n, scope)
	case *ast.Method:
		return a.analyzeMethod(n, scope)
	case *ast.GifStatement:
		return a.analyzeIf(n, scope)
	case *ast.WhileStatement:
		return a.analyzeWhile(n, scope)
	case *ast.ForStatement:
		return a.analyzeFor(n, scope)
	case *ast.ReturnStatement:
		return a.analyzeReturn(n, scope)
	case *ast.ThrowStatement:
		if err := a.analyze(n.Value, scope); err != nil {
			return err
		}
		if err := CheckIsString(typeOf(n.Value)); err != nil {
			return err
		}
		n.SetType(ast.Void)
		return nil
	case *ast.BreakStatement:
		if !scope.InLoop() {
			return newError(ErrMisplaced, "break outside of a loop")
		}
		n.SetType(ast.Void)
		return nil
	case *ast.TypeDeclaration:
		return a.analyzeTypeDeclaration(n, scope)
	case *ast.PrimitiveType, *ast.ArrayType, *ast.RecordType:
		_, err := a.resolveType(n.(ast.TypeExpr), scope)
		return err
	default:
		panic(fmt.Sprintf("semantic: unexpected node %T", node))
	}
}

// analyzeStatements analyzes a statement list in order. Record types and
// functions declared anywhere in the list are visible to the whole list.
func (a *analyzer) analyzeStatements(stmts []ast.Node, scope *Scope) error {
	for _, stmt := range stmts {
		var err error
		switch n := stmt.(type) {
		case *ast.TypeDeclaration:
			if rt, ok := n.TypeExpr.(*ast.RecordType); ok {
				err = a.declareRecord(n, rt, scope)
			}
		case *ast.Func, *ast.Method:
			err = a.declareFunction(n.(ast.Decl), scope)
		}
		if err != nil {
			return err
		}
	}
	for _, stmt := range stmts {
		if err := a.analyze(stmt, scope); err != nil {
			return err
		}
	}
	return nil
}

func (a *analyzer) analyzeLiteral(n *ast.Literal, scope *Scope) error {
	if p, ok := ast.LookupPrimitive(n.Kind); ok {
		n.SetType(p)
		return nil
	}
	t, err := scope.LookupType(n.Kind)
	if err != nil {
		return err
	}
	n.SetType(t)
	return nil
}

func (a *analyzer) analyzeIdExp(n *ast.IdExp, scope *Scope) error {
	decl, err := scope.LookupValue(n.Name)
	if err != nil {
		return err
	}
	switch decl.(type) {
	case *ast.Func, *ast.Method:
		return newError(ErrTypeMismatch, "function '%s' used as a value", n.Name)
	}
	n.Ref = decl
	n.SetType(typeOf(decl))
	return nil
}

func (a *analyzer) analyzeBinary(n *ast.BinaryExpression, scope *Scope) error {
	if err := a.analyze(n.Left, scope); err != nil {
		return err
	}
	if err := a.analyze(n.Right, scope); err != nil {
		return err
	}
	left, right := typeOf(n.Left), typeOf(n.Right)

	switch n.Op {
	case "+", "-", "*", "/":
		if err := CheckIsNumber(left); err != nil {
			return err
		}
		if err := CheckIsNumber(right); err != nil {
			return err
		}
		if left == ast.Float || right == ast.Float {
			n.SetType(ast.Float)
		} else {
			n.SetType(ast.Int)
		}
	case "<", ">", "<=", ">=":
		if err := CheckIsNumber(left); err != nil {
			return err
		}
		if err := CheckIsNumber(right); err != nil {
			return err
		}
		n.SetType(ast.Bool)
	case "&", "&&", "|", "||":
		if err := CheckIsBoolean(left); err != nil {
			return err
		}
		if err := CheckIsBoolean(right); err != nil {
			return err
		}
		n.SetType(ast.Bool)
	case "=", "<>":
		// A record may be compared with nil.
		nilRecord := (left == ast.Null && ast.IsRecord(right)) || (right == ast.Null && ast.IsRecord(left))
		if !nilRecord {
			if err := CheckSameType(left, right); err != nil {
				return err
			}
		}
		n.SetType(ast.Bool)
	default:
		return newError(ErrTypeMismatch, "unknown operator %q", n.Op)
	}
	return nil
}

func (a *analyzer) analyzeCall(n *ast.CallExpression, scope *Scope) error {
	decl, err := scope.LookupValue(n.Callee.Name)
	if err != nil {
		return err
	}
	if err := CheckIsFunction(decl); err != nil {
		return err
	}
	if !decl.Annotations().HasType() {
		if err := a.resolveSignature(decl, scope); err != nil {
			return err
		}
	}
	n.Callee.Ref = decl
	n.Callee.SetType(typeOf(decl))

	for _, arg := range n.Args {
		if err := a.analyze(arg, scope); err != nil {
			return err
		}
	}
	if err := CheckArguments(decl, n.Args); err != nil {
		return err
	}
	n.SetType(typeOf(decl))
	return nil
}

func (a *analyzer) analyzeMember(n *ast.MemberExpression, scope *Scope) error {
	if err := a.analyze(n.Object, scope); err != nil {
		return err
	}

	switch t := typeOf(n.Object).(type) {
	case *ast.ArrayOf:
		if !n.Computed {
			break
		}
		if err := a.analyze(n.Property, scope); err != nil {
			return err
		}
		if err := CheckIsInteger(typeOf(n.Property)); err != nil {
			return err
		}
		n.SetType(t.Elem)
		return nil
	case *ast.Record:
		if n.Computed {
			break
		}
		prop := n.Property.(*ast.IdExp)
		fields, err := a.recordFields(t)
		if err != nil {
			return err
		}
		decl, ok := fields.LookupLocal(prop.Name)
		if !ok {
			return newError(ErrUndeclared, "%s has no field '%s'", t, prop.Name)
		}
		prop.Ref = decl
		prop.SetType(typeOf(decl))
		n.SetType(typeOf(decl))
		return nil
	}

	if n.Computed {
		return newError(ErrNotSubscriptable, "cannot index a value of type %s", typeOf(n.Object))
	}
	return newError(ErrNotSubscriptable, "cannot access field '%s' of a value of type %s",
		n.Property.(*ast.IdExp).Name, typeOf(n.Object))
}

func (a *analyzer) analyzeArray(n *ast.ArrayExpression, scope *Scope) error {
	elem, err := a.resolveType(n.ElemType, scope)
	if err != nil {
		return err
	}
	if err := a.analyze(n.Size, scope); err != nil {
		return err
	}
	if err := CheckIsInteger(typeOf(n.Size)); err != nil {
		return err
	}
	for _, e := range n.Elements {
		if err := a.analyze(e, scope); err != nil {
			return err
		}
		if err := CheckAssignable(typeOf(e), elem); err != nil {
			return err
		}
	}
	n.SetType(&ast.ArrayOf{Elem: elem})
	return nil
}

// analyzeObject checks a record literal. Field values are analyzed in the
// scope around the literal, so one field's value cannot see another field.
func (a *analyzer) analyzeObject(n *ast.ObjectExp, scope *Scope) error {
	t, err := scope.LookupType(n.TypeName)
	if err != nil {
		return err
	}
	rec, ok := t.(*ast.Record)
	if !ok {
		return newError(ErrTypeMismatch, "'%s' is not a record type", n.TypeName)
	}
	fields, err := a.recordFields(rec)
	if err != nil {
		return err
	}

	obj := scope.NewObjectScope(n)
	n.ObjScope = obj
	used := make(map[string]bool)
	for _, f := range n.Fields {
		if err := CheckFieldNotUsed(used, f.Name); err != nil {
			return err
		}
		decl, ok := fields.LookupLocal(f.Name)
		if !ok {
			return newError(ErrUndeclared, "%s has no field '%s'", rec, f.Name)
		}
		if err := a.analyze(f.Value, scope); err != nil {
			return err
		}
		if err := CheckAssignable(typeOf(f.Value), typeOf(decl)); err != nil {
			return err
		}
		f.Ref = decl
		f.SetType(typeOf(decl))
		if err := obj.Add(f); err != nil {
			return err
		}
	}
	for _, decl := range rec.Decl.Fields {
		if !used[decl.Name] {
			return newError(ErrMissingField, "%s literal does not set field '%s'", rec, decl.Name)
		}
	}
	n.SetType(rec)
	return nil
}

func (a *analyzer) analyzeAssignment(n *ast.AssignmentStatement, scope *Scope) error {
	if err := a.analyze(n.Value, scope); err != nil {
		return err
	}
	if err := a.analyze(n.Target, scope); err != nil {
		return err
	}
	if err := CheckAssignable(typeOf(n.Value), typeOf(n.Target)); err != nil {
		return err
	}
	if id, ok := n.Target.(*ast.IdExp); ok {
		if err := CheckNotReadOnly(id.Ref); err != nil {
			return err
		}
	}
	n.SetType(ast.Void)
	return nil
}

func (a *analyzer) analyzeVariable(n *ast.VariableDeclaration, scope *Scope) error {
	t, err := a.resolveType(n.TypeExpr, scope)
	if err != nil {
		return err
	}
	if n.Init != nil {
		if _, sized := n.Init.(*ast.ArrayExpression); sized {
			if err := CheckIsArrayType(t); err != nil {
				return err
			}
		}
		if err := a.analyze(n.Init, scope); err != nil {
			return err
		}
		if err := CheckAssignable(typeOf(n.Init), t); err != nil {
			return err
		}
	}
	n.SetType(t)
	return scope.Add(n)
}

// declareFunction binds fn in scope without resolving its signature.
func (a *analyzer) declareFunction(fn ast.Decl, scope *Scope) error {
	if err := scope.Add(fn); err != nil {
		return err
	}
	a.pending[fn] = scope
	return nil
}

// resolveSignature resolves the parameter and result types of a declared
// function. The function's own type is its result type.
func (a *analyzer) resolveSignature(fn ast.Decl, scope *Scope) error {
	if declScope, ok := a.pending[fn]; ok {
		scope = declScope
		delete(a.pending, fn)
	}

	var params []*ast.Parameter
	var result ast.TypeExpr
	switch fn := fn.(type) {
	case *ast.Func:
		params, result = fn.Params, fn.Result
	case *ast.Method:
		params, result = fn.Params, fn.Result
	}

	for _, p := range params {
		t, err := a.resolveType(p.TypeExpr, scope)
		if err != nil {
			return err
		}
		p.SetType(t)
	}
	ret := ast.Type(ast.Void)
	if result != nil {
		t, err := a.resolveType(result, scope)
		if err != nil {
			return err
		}
		ret = t
	}
	fn.Annotations().SetType(ret)
	return nil
}

// prepareFunction makes fn visible in scope, resolves its signature and
// opens its body scope.
func (a *analyzer) prepareFunction(fn ast.Decl, scope *Scope) (*Scope, error) {
	if !fn.Annotations().HasType() {
		if _, declared := a.pending[fn]; !declared {
			if err := a.declareFunction(fn, scope); err != nil {
				return nil, err
			}
		}
		if err := a.resolveSignature(fn, scope); err != nil {
			return nil, err
		}
	}
	return scope.NewFunctionScope(fn)
}

func (a *analyzer) analyzeFunc(n *ast.Func, scope *Scope) error {
	body, err := a.prepareFunction(n, scope)
	if err != nil {
		return err
	}
	n.BodyScope = body
	return a.analyzeStatements(n.Body, body)
}

func (a *analyzer) analyzeMethod(n *ast.Method, scope *Scope) error {
	body, err := a.prepareFunction(n, scope)
	if err != nil {
		return err
	}
	n.BodyScope = body
	if err := a.analyze(n.Body, body); err != nil {
		return err
	}
	if a.opts.CheckReturnTypes && n.Result != nil {
		want, got := n.Type(), typeOf(n.Body)
		if !IsAssignable(got, want) {
			return newError(ErrReturnType, "'%s' returns %s, got %s", n.Name, want, got)
		}
	}
	return nil
}

func (a *analyzer) analyzeIf(n *ast.GifStatement, scope *Scope) error {
	for i, test := range n.Tests {
		if err := a.analyze(test, scope); err != nil {
			return err
		}
		if err := CheckIsBoolean(typeOf(test)); err != nil {
			return err
		}
		if err := a.analyzeStatements(n.Consequents[i], scope); err != nil {
			return err
		}
	}
	if n.Alternate != nil {
		if err := a.analyzeStatements(n.Alternate, scope); err != nil {
			return err
		}
	}
	n.SetType(ast.Void)
	return nil
}

func (a *analyzer) analyzeWhile(n *ast.WhileStatement, scope *Scope) error {
	loop := scope.NewLoopScope(n)
	if err := a.analyze(n.Test, loop); err != nil {
		return err
	}
	if err := CheckIsBoolean(typeOf(n.Test)); err != nil {
		return err
	}
	if err := a.analyzeStatements(n.Body, loop); err != nil {
		return err
	}
	n.SetType(ast.Void)
	return nil
}

func (a *analyzer) analyzeFor(n *ast.ForStatement, scope *Scope) error {
	it := n.Iterator
	if err := a.analyze(it.Init, scope); err != nil {
		return err
	}
	if err := CheckIsInteger(typeOf(it.Init)); err != nil {
		return err
	}

	loop := scope.NewLoopScope(n)
	if err := a.analyze(n.Bound, loop); err != nil {
		return err
	}
	if err := CheckIsInteger(typeOf(n.Bound)); err != nil {
		return err
	}
	if n.Step != nil {
		if err := a.analyze(n.Step, loop); err != nil {
			return err
		}
		if err := CheckIsInteger(typeOf(n.Step)); err != nil {
			return err
		}
	}

	t, err := a.resolveType(it.TypeExpr, scope)
	if err != nil {
		return err
	}
	if err := CheckIsInteger(t); err != nil {
		return err
	}
	it.SetType(t)
	if err := loop.Add(it); err != nil {
		return err
	}

	if err := a.analyzeStatements(n.Body, loop); err != nil {
		return err
	}
	n.SetType(ast.Void)
	return nil
}

func (a *analyzer) analyzeReturn(n *ast.ReturnStatement, scope *Scope) error {
	fn, _ := scope.EnclosingFunction().(ast.Decl)
	if fn == nil {
		return newError(ErrMisplaced, "return outside of a function")
	}
	if n.Value != nil {
		if err := a.analyze(n.Value, scope); err != nil {
			return err
		}
	}
	if a.opts.CheckReturnTypes {
		if err := checkReturn(fn, n.Value); err != nil {
			return err
		}
	}
	n.SetType(ast.Void)
	return nil
}

func checkReturn(fn ast.Decl, value ast.Node) error {
	want := typeOf(fn)
	switch {
	case value == nil && want != ast.Void:
		return newError(ErrReturnType, "'%s' must return %s", fn.DeclName(), want)
	case value == nil:
		return nil
	case want == ast.Void:
		return newError(ErrReturnType, "'%s' has no result but returns %s", fn.DeclName(), typeOf(value))
	case !IsAssignable(typeOf(value), want):
		return newError(ErrReturnType, "'%s' returns %s, got %s", fn.DeclName(), want, typeOf(value))
	}
	return nil
}

func (a *analyzer) analyzeTypeDeclaration(n *ast.TypeDeclaration, scope *Scope) error {
	if rt, ok := n.TypeExpr.(*ast.RecordType); ok {
		if !n.HasType() {
			if err := a.declareRecord(n, rt, scope); err != nil {
				return err
			}
		}
		_, err := a.recordFields(typeOf(rt).(*ast.Record))
		return err
	}

	t, err := a.resolveType(n.TypeExpr, scope)
	if err != nil {
		return err
	}
	n.SetType(t)
	return scope.AddType(n)
}

// declareRecord binds the name of a record type before its fields are
// resolved, so fields may refer to the record itself.
func (a *analyzer) declareRecord(td *ast.TypeDeclaration, rt *ast.RecordType, scope *Scope) error {
	rec := &ast.Record{Name: td.Name, Decl: rt}
	td.SetType(rec)
	rt.SetType(rec)
	if err := scope.AddType(td); err != nil {
		return err
	}
	a.pending[rt] = scope
	return nil
}

// recordFields returns the field scope of rec, resolving the field types
// first if that has not happened yet.
func (a *analyzer) recordFields(rec *ast.Record) (*Scope, error) {
	if fields, ok := rec.Decl.FieldScope.(*Scope); ok {
		return fields, nil
	}
	scope, ok := a.pending[rec.Decl]
	if !ok {
		panic("semantic: record type was never declared")
	}
	delete(a.pending, rec.Decl)
	if err := a.resolveFields(rec.Decl, scope); err != nil {
		return nil, err
	}
	return rec.Decl.FieldScope.(*Scope), nil
}

func (a *analyzer) resolveFields(rt *ast.RecordType, scope *Scope) error {
	fields := scope.NewObjectScope(rt)
	used := make(map[string]bool)
	for _, f := range rt.Fields {
		if err := CheckFieldNotUsed(used, f.Name); err != nil {
			return err
		}
		t, err := a.resolveType(f.TypeExpr, scope)
		if err != nil {
			return err
		}
		f.SetType(t)
		if err := fields.Add(f); err != nil {
			return err
		}
	}
	rt.FieldScope = fields
	return nil
}

// resolveType turns a type expression into a type. Type expressions may be
// shared between nodes, so a resolved expression is not resolved again.
func (a *analyzer) resolveType(te ast.TypeExpr, scope *Scope) (ast.Type, error) {
	if te.Annotations().HasType() {
		return typeOf(te), nil
	}

	var t ast.Type
	switch te := te.(type) {
	case *ast.PrimitiveType:
		resolved, err := scope.LookupType(te.Name)
		if err != nil {
			return nil, err
		}
		t = resolved
	case *ast.ArrayType:
		elem, err := a.resolveType(te.Elem, scope)
		if err != nil {
			return nil, err
		}
		t = &ast.ArrayOf{Elem: elem}
	case *ast.RecordType:
		rec := &ast.Record{Decl: te}
		te.SetType(rec)
		if err := a.resolveFields(te, scope); err != nil {
			return nil, err
		}
		return rec, nil
	}
	te.Annotations().SetType(t)
	return t, nil
}
