// Package host models the declarations the engine reads and mutates.
//
// A ClassDecl is owned by whoever built it (the generator driver, or a test).
// The engine only reads it, except for Append, which is the single mutation
// primitive used when injecting synthesized members.
package host

import (
	"go/token"
	"strings"
)

// DeclKind is the syntactic kind of a declaration carrying a directive.
type DeclKind int

const (
	DeclStruct DeclKind = iota
	DeclInterface
	DeclOther
)

func (k DeclKind) String() string {
	switch k {
	case DeclStruct:
		return "struct"
	case DeclInterface:
		return "interface"
	default:
		return "other"
	}
}

// MemberKind classifies the children of a ClassDecl.
type MemberKind int

const (
	MemberField MemberKind = iota
	MemberMethod
	MemberConstructor
)

// TypeRef is a declared type as written in source plus what the type
// checker resolved for it.
type TypeRef struct {
	Expr       string // source text, e.g. "int64", "Status", "*time.Time"
	Underlying string // underlying basic type name when basic, "" otherwise
	PkgPath    string // package of a named type, "" for predeclared or unresolved
	Ident      string // bare name of a named type ("Status" for "models.Status")
	Comparable bool   // values support ==
}

// Column is the column marker attached to a field. Override is empty when
// the marker carries no explicit column name.
type Column struct {
	Override string
}

// Field is a named struct field.
type Field struct {
	Name     string
	Type     TypeRef
	Column   *Column // nil when the field is not marked
	Embedded bool
	Pos      token.Position
}

// Exported reports whether the field is visible outside its package.
func (f *Field) Exported() bool { return token.IsExported(f.Name) }

// Provenance records that a member was produced by a generator.
type Provenance struct {
	Generator  string
	Annotation string
	Pos        token.Position
}

// Member is a child of a ClassDecl. Generated is nil for user-written code.
type Member struct {
	Kind      MemberKind
	Name      string
	Arity     int
	Field     *Field
	Generated *Provenance
	Node      any // synthesized descriptor for generated members
	Pos       token.Position
}

// Superclass is the embedded type a struct chains to.
type Superclass struct {
	Expr    string // as written, e.g. "Base", "*models.Base", "any"
	Ident   string // embedded field name
	PkgPath string
	Pointer bool
}

// IsRoot reports whether the superclass text names the universal root type.
func (s *Superclass) IsRoot() bool {
	if s == nil {
		return false
	}
	switch strings.Join(strings.Fields(strings.TrimPrefix(s.Expr, "*")), "") {
	case "any", "interface{}":
		return true
	}
	return false
}

// Annotation is a directive attached to a declaration, e.g.
//
//	//rowmap:data callSuper policy=collect
type Annotation struct {
	Name string
	Args map[string][]string
	Pos  token.Position
}

// ClassDecl is a type declaration and everything declared on it.
type ClassDecl struct {
	Name        string
	Kind        DeclKind
	PkgPath     string
	Super       *Superclass
	Annotations []Annotation
	Members     []Member
	Pos         token.Position
}

// Fields returns the field children in declaration order.
func (c *ClassDecl) Fields() []*Field {
	var fields []*Field
	for i := range c.Members {
		if c.Members[i].Kind == MemberField && c.Members[i].Field != nil {
			fields = append(fields, c.Members[i].Field)
		}
	}
	return fields
}

// Lookup finds a method or constructor by name and arity.
func (c *ClassDecl) Lookup(name string, arity int) (Member, bool) {
	for _, m := range c.Members {
		if m.Kind == MemberField {
			continue
		}
		if m.Name == name && m.Arity == arity {
			return m, true
		}
	}
	return Member{}, false
}

// Append adds a member after all existing members.
func (c *ClassDecl) Append(m Member) {
	c.Members = append(c.Members, m)
}

// Generated returns members added by a generator, in injection order.
func (c *ClassDecl) Generated() []Member {
	var out []Member
	for _, m := range c.Members {
		if m.Generated != nil {
			out = append(out, m)
		}
	}
	return out
}
