package engine

import "github.com/calumari/rowmap/internal/host"

// ReadOp selects the typed read performed against a row source.
type ReadOp int

const (
	ReadUnsupported ReadOp = iota
	ReadString
	ReadLong
	ReadInt
	ReadFloat
	ReadDouble
	ReadBool
)

var readOps = [...]struct {
	name   string
	method string // rowmap.Source method
	result string // Go type returned by method
}{
	ReadUnsupported: {"unsupported", "", ""},
	ReadString:      {"string", "String", "string"},
	ReadLong:        {"long", "Int64", "int64"},
	ReadInt:         {"int", "Int32", "int32"},
	ReadFloat:       {"float", "Float32", "float32"},
	ReadDouble:      {"double", "Float64", "float64"},
	ReadBool:        {"bool", "Bool", "bool"},
}

func (op ReadOp) valid() bool { return op > ReadUnsupported && int(op) < len(readOps) }

func (op ReadOp) String() string {
	if op < 0 || int(op) >= len(readOps) {
		return "unknown"
	}
	return readOps[op].name
}

// Method returns the rowmap.Source method implementing op, "" when unsupported.
func (op ReadOp) Method() string {
	if !op.valid() {
		return ""
	}
	return readOps[op].method
}

// Result returns the Go type produced by op.
func (op ReadOp) Result() string {
	if !op.valid() {
		return ""
	}
	return readOps[op].result
}

// basicReads maps an underlying basic type to its read. Go's int is read
// through the 64-bit operation and converted.
var basicReads = map[string]ReadOp{
	"string":  ReadString,
	"int64":   ReadLong,
	"int":     ReadLong,
	"int32":   ReadInt,
	"rune":    ReadInt,
	"float32": ReadFloat,
	"float64": ReadDouble,
	"bool":    ReadBool,
}

// Dispatch resolves the read operation for a declared field type. The
// second result is true when the read result must be converted to the
// declared type before assignment.
func Dispatch(t host.TypeRef) (ReadOp, bool) {
	basic := t.Underlying
	if basic == "" {
		// unresolved: only trust the text when it names a predeclared type
		basic = t.Expr
	}
	op, ok := basicReads[basic]
	if !ok {
		return ReadUnsupported, false
	}
	return op, t.Expr != op.Result()
}
