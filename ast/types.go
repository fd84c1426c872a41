package ast

import "strings"

// Type is a resolved goof3 type.
type Type interface {
	String() string
	isType()
}

// Primitive is one of the built-in types. Primitives are singletons and
// compare by identity.
type Primitive struct {
	Name string
}

// ArrayOf is the type of an array with elements of type Elem.
type ArrayOf struct {
	Elem Type
}

// Record is the type introduced by a RecordType node. Records compare by
// identity: two record types with the same fields are still different types.
type Record struct {
	Name string // empty for a record written inline
	Decl *RecordType
}

var (
	Int    = &Primitive{Name: KindWholeNumber}
	Float  = &Primitive{Name: KindNotWholeNumber}
	String = &Primitive{Name: KindArrayOfChars}
	Bool   = &Primitive{Name: KindTrueOrFalse}
	Null   = &Primitive{Name: KindNothing}

	// Void is the type of statements and of calls to functions without a
	// result.
	Void = &Primitive{Name: "void"}
	// Any accepts a value of every type. Only builtins use it.
	Any = &Primitive{Name: "any"}
)

var primitivesByName = map[string]*Primitive{
	KindWholeNumber:    Int,
	KindNotWholeNumber: Float,
	KindArrayOfChars:   String,
	KindTrueOrFalse:    Bool,
	KindNothing:        Null,
}

// LookupPrimitive maps a type name (which is also a literal kind) to its
// primitive type.
func LookupPrimitive(name string) (*Primitive, bool) {
	p, ok := primitivesByName[name]
	return p, ok
}

func (*Primitive) isType() {}
func (*ArrayOf) isType()   {}
func (*Record) isType()    {}

func (p *Primitive) String() string { return p.Name }
func (a *ArrayOf) String() string   { return "array of " + a.Elem.String() }

func (r *Record) String() string {
	if r.Name != "" {
		return r.Name
	}
	var fields []string
	if r.Decl != nil {
		for _, f := range r.Decl.Fields {
			if f.HasType() {
				fields = append(fields, f.Name+" : "+f.Type().String())
			} else {
				fields = append(fields, f.Name)
			}
		}
	}
	return "{" + strings.Join(fields, ", ") + "}"
}

// SameType reports whether a and b are the same type. Arrays are equal
// when their element types are; everything else compares by identity.
func SameType(a, b Type) bool {
	if a == b {
		return true
	}
	aa, ok1 := a.(*ArrayOf)
	ba, ok2 := b.(*ArrayOf)
	if ok1 && ok2 {
		return SameType(aa.Elem, ba.Elem)
	}
	return false
}

// IsNumeric reports whether t is Int or Float.
func IsNumeric(t Type) bool {
	return t == Int || t == Float
}

// IsRecord reports whether t is a record type.
func IsRecord(t Type) bool {
	_, ok := t.(*Record)
	return ok
}
