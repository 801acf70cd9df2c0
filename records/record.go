package records

import (
	"errors"
	"fmt"
	"strings"
)

// Declaration is a typed, named slot: a class template parameter (where the
// value is the optional default) or a class or def member (where the value is
// the initializer).
type Declaration struct {
	Name  string
	Type  string
	Value Value
}

func (d *Declaration) String() string {
	return d.Type + " " + d.Name
}

// -----------------------------------------------------------------------------

// Class is a reusable record template.  Members holds the inherited members
// followed by the locally declared ones.
type Class struct {
	Name string

	// Parent is the class this class inherits from, or nil.  Parents are
	// always completed before their children, so the chain has no cycles.
	Parent *Class

	Params  []*Declaration
	Members []*Declaration
}

// Member returns the member (inherited or local) with the given name.
func (c *Class) Member(name string) (*Declaration, bool) {
	return findDecl(c.Members, name)
}

func (c *Class) String() string {
	sb := strings.Builder{}
	sb.WriteString("class " + c.Name)

	if len(c.Params) > 0 {
		params := make([]string, len(c.Params))
		for i, param := range c.Params {
			params[i] = param.String()
		}

		sb.WriteString(" <" + strings.Join(params, ", ") + ">")
	}

	if len(c.Members) > 0 {
		sb.WriteString(" { ")
		for _, m := range c.Members {
			if m.Value != nil {
				fmt.Fprintf(&sb, "%s %s = %s; ", m.Type, m.Name, m.Value)
			}
		}
		sb.WriteString("}")
	}

	return sb.String()
}

// -----------------------------------------------------------------------------

// Errors returned by the typed member accessors of Define.
var (
	ErrNoSuchMember = errors.New("no such member")
	ErrMemberKind   = errors.New("member has a different kind")
)

// Define is a concrete record: an instantiation of a class with every member
// resolved.  Defines are immutable once created.
type Define struct {
	Name    string
	Class   *Class
	Members []*Declaration

	lookup map[string]Value
}

// NewDefine creates a new def of the given class from its resolved members.
// Every member must have a value that is not an unresolved reference.
func NewDefine(name string, class *Class, members []*Declaration) (*Define, error) {
	d := &Define{
		Name:    name,
		Class:   class,
		Members: members,
		lookup:  make(map[string]Value, len(members)),
	}

	for _, m := range members {
		switch v := m.Value.(type) {
		case nil:
			return nil, fmt.Errorf("member `%s` of def `%s` has no value", m.Name, name)
		case *UnresolvedRef:
			return nil, fmt.Errorf("member `%s` of def `%s`: %w", m.Name, name, &UndefinedRefError{Name: v.Name})
		}

		d.lookup[m.Name] = m.Value
	}

	return d, nil
}

// InstanceOf returns whether the def's class is, or inherits from, the class
// with the given name.
func (d *Define) InstanceOf(className string) bool {
	for k := d.Class; k != nil; k = k.Parent {
		if k.Name == className {
			return true
		}
	}

	return false
}

// Lookup returns the resolved value of the named member.
func (d *Define) Lookup(name string) (Value, bool) {
	v, ok := d.lookup[name]
	return v, ok
}

// Int returns the value of an integer member.
func (d *Define) Int(name string) (int64, error) {
	v, err := d.member(name)
	if err != nil {
		return 0, err
	}

	if il, ok := v.(*IntLit); ok {
		return il.Val, nil
	}

	return 0, fmt.Errorf("%s.%s is a %s: %w", d.Name, name, v.Kind(), ErrMemberKind)
}

// Str returns the value of a string member.
func (d *Define) Str(name string) (string, error) {
	v, err := d.member(name)
	if err != nil {
		return "", err
	}

	if sl, ok := v.(*StringLit); ok {
		return sl.Val, nil
	}

	return "", fmt.Errorf("%s.%s is a %s: %w", d.Name, name, v.Kind(), ErrMemberKind)
}

// Ref returns the def referenced by a member.
func (d *Define) Ref(name string) (*Define, error) {
	v, err := d.member(name)
	if err != nil {
		return nil, err
	}

	if dr, ok := v.(*DefRef); ok {
		return dr.Def, nil
	}

	return nil, fmt.Errorf("%s.%s is a %s: %w", d.Name, name, v.Kind(), ErrMemberKind)
}

// member looks up a member and fails if it does not exist.
func (d *Define) member(name string) (Value, error) {
	if v, ok := d.lookup[name]; ok {
		return v, nil
	}

	return nil, fmt.Errorf("%s.%s: %w", d.Name, name, ErrNoSuchMember)
}

// String returns the def in source-like form, annotated with its class.
func (d *Define) String() string {
	if len(d.Members) == 0 {
		return "def " + d.Name + "    // " + d.Class.Name
	}

	sb := strings.Builder{}
	sb.WriteString("def " + d.Name + " {     // " + d.Class.Name + "\n")
	for _, m := range d.Members {
		fmt.Fprintf(&sb, "  %s %s = %s;\n", m.Type, m.Name, m.Value)
	}
	sb.WriteString("}")

	return sb.String()
}

// -----------------------------------------------------------------------------

// findDecl finds a declaration by name in a list of declarations.
func findDecl(decls []*Declaration, name string) (*Declaration, bool) {
	for _, d := range decls {
		if d.Name == name {
			return d, true
		}
	}

	return nil, false
}
