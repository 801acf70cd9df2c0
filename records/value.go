package records

import (
	"fmt"
	"strconv"
)

// Value is a record expression value.  The set of values is closed: every
// value is one of IntLit, StringLit, UnresolvedRef or DefRef.
type Value interface {
	// Eval evaluates the value in the given scope of template parameter
	// bindings.  Evaluation is idempotent: literals and def references
	// evaluate to themselves.
	Eval(scope map[string]Value) (Value, error)

	// Kind returns the runtime kind of the value: "int", "string", "id" or
	// "def".
	Kind() string

	// String returns the value as it would be written in source.
	String() string

	isValue()
}

// Enumeration of value kinds as returned by Value.Kind.
const (
	KindInt    = "int"
	KindString = "string"
	KindID     = "id"
	KindDef    = "def"
)

// UndefinedRefError is returned when an identifier cannot be resolved in the
// scope it is evaluated in.
type UndefinedRefError struct {
	Name string
}

func (ure *UndefinedRefError) Error() string {
	return fmt.Sprintf("undefined value `%s`", ure.Name)
}

// -----------------------------------------------------------------------------

// IntLit is an integer literal.
type IntLit struct {
	Val int64
}

func (il *IntLit) Eval(map[string]Value) (Value, error) { return il, nil }
func (il *IntLit) Kind() string                          { return KindInt }
func (il *IntLit) String() string                        { return strconv.FormatInt(il.Val, 10) }
func (*IntLit) isValue()                                  {}

// StringLit is a string literal.
type StringLit struct {
	Val string
}

func (sl *StringLit) Eval(map[string]Value) (Value, error) { return sl, nil }
func (sl *StringLit) Kind() string                          { return KindString }
func (sl *StringLit) String() string                        { return "\"" + sl.Val + "\"" }
func (*StringLit) isValue()                                  {}

// UnresolvedRef is a bare identifier which must be resolved against the
// template parameters of the class being instantiated.
type UnresolvedRef struct {
	Name string
}

// Eval looks the identifier up in scope.  The bound value is returned as is:
// it may itself be an unresolved reference to a parameter of an enclosing
// instantiation.
func (ur *UnresolvedRef) Eval(scope map[string]Value) (Value, error) {
	if v, ok := scope[ur.Name]; ok {
		return v, nil
	}

	return nil, &UndefinedRefError{Name: ur.Name}
}

func (ur *UnresolvedRef) Kind() string   { return KindID }
func (ur *UnresolvedRef) String() string { return ur.Name }
func (*UnresolvedRef) isValue()          {}

// DefRef is a reference to an already parsed def.  It does not own the def.
type DefRef struct {
	Def *Define
}

func (dr *DefRef) Eval(map[string]Value) (Value, error) { return dr, nil }
func (dr *DefRef) Kind() string                          { return KindDef }
func (dr *DefRef) String() string                        { return dr.Def.Name }
func (*DefRef) isValue()                                  {}

// -----------------------------------------------------------------------------

// Primitive type names.
const (
	TypeInt    = "int"
	TypeString = "string"
	TypeBit    = "bit"
)

// IsPrimitive returns whether a declared type name is a primitive type rather
// than the name of a class.
func IsPrimitive(typeName string) bool {
	return typeName == TypeInt || typeName == TypeString || typeName == TypeBit
}

// Assignable reports whether v may be assigned to a declaration of the given
// type.  A literal must have exactly the declared primitive type, so no
// literal is assignable to `bit`.  Class-typed declarations accept any value,
// as do identifiers and def references.
func Assignable(typeName string, v Value) bool {
	if !IsPrimitive(typeName) {
		return true
	}

	switch v.(type) {
	case *IntLit:
		return typeName == TypeInt
	case *StringLit:
		return typeName == TypeString
	}

	return true
}
