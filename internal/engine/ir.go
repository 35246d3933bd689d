package engine

import (
	"go/token"

	"github.com/calumari/rowmap/internal/host"
)

// Names the engine reserves on an annotated type.
const (
	MapRowName   = "MapRow"
	SourceParam  = "src"
	SourcePkg    = "github.com/calumari/rowmap"
	SourceType   = "Source"
	GeneratorTag = "rowmap"
)

// statement kinds used by renderers to emit code fragments
const (
	StmtReadAssign    = "readAssign"    // setter(src.Read(column)), or field = src.Read(column)
	StmtSuperCall     = "superCall"     // embedded = NewSuper(src)
	StmtInvokeMapping = "invokeMapping" // receiver.MapRow(src)
	StmtAssignField   = "assignField"   // receiver.field = v
	StmtReturnField   = "returnField"   // return receiver.field
	StmtFormatFields  = "formatFields"  // return "Type(a=.., b=..)"
	StmtCompareField  = "compareField"  // receiver.field == other.field
)

// Binding ties a marked field to the column it is read from.
type Binding struct {
	Field  *host.Field
	Column string
	Type   host.TypeRef
}

// Param is a parameter of a synthesized member.
type Param struct {
	Name string
	Type string // "" for the row source
}

// Statement is one statement of a synthesized body.
type Statement struct {
	Kind    string
	Field   string // struct field touched by the statement
	Setter  string // "" assigns Field directly
	Column  string
	Read    ReadOp
	Convert *host.TypeRef // set when the read result needs a conversion
	Callee  string
	Super   *host.Superclass
	Fields  []string
	Deep    bool // compare with reflect.DeepEqual, the type is not comparable
	Pos     token.Position
}

// MethodDescriptor is a synthesized member. It is plain data until the
// Tree Injector appends it to a class.
type MethodDescriptor struct {
	Name     string
	Kind     host.MemberKind
	Receiver string
	Params   []Param
	Result   string // non-error result type, "" for none
	Fails    bool   // the member returns an error
	Policy   ErrorPolicy
	Body     []Statement
	Origin   *host.Provenance
}

// Arity returns the number of parameters.
func (d *MethodDescriptor) Arity() int { return len(d.Params) }

// State is the generation state of one member name and arity.
type State int

const (
	StateAbsent State = iota
	StatePresentEngine
	StatePresentUser
)

func (s State) String() string {
	switch s {
	case StateAbsent:
		return "absent"
	case StatePresentEngine:
		return "present-engine"
	case StatePresentUser:
		return "present-user"
	default:
		return "unknown"
	}
}

// ErrorPolicy decides what generated mapping code does when reading one
// column fails.
type ErrorPolicy string

const (
	// PolicyPropagate returns the first failure, wrapped with its column.
	PolicyPropagate ErrorPolicy = "propagate"
	// PolicySkip leaves the failing field untouched and continues.
	PolicySkip ErrorPolicy = "skip"
	// PolicyCollect continues past failures and returns them joined.
	PolicyCollect ErrorPolicy = "collect"
)

// Valid reports whether p is a known policy.
func (p ErrorPolicy) Valid() bool {
	switch p {
	case PolicyPropagate, PolicySkip, PolicyCollect:
		return true
	}
	return false
}
