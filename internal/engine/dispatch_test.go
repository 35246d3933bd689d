package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/calumari/rowmap/internal/host"
)

func TestDispatch(t *testing.T) {
	tests := []struct {
		name        string
		typ         host.TypeRef
		wantOp      ReadOp
		wantConvert bool
	}{
		{"string", basic("string"), ReadString, false},
		{"int64 uses the long read", basic("int64"), ReadLong, false},
		{"int32 uses the int read", basic("int32"), ReadInt, false},
		{"float32", basic("float32"), ReadFloat, false},
		{"float64 uses the double read", basic("float64"), ReadDouble, false},
		{"bool has its own read", basic("bool"), ReadBool, false},
		{"int converts from long", basic("int"), ReadLong, true},
		{"named string", host.TypeRef{Expr: "Status", Underlying: "string", Ident: "Status"}, ReadString, true},
		{"unresolved predeclared", host.TypeRef{Expr: "float64"}, ReadDouble, false},
		{"unresolved named", host.TypeRef{Expr: "Status"}, ReadUnsupported, false},
		{"uint", basic("uint"), ReadUnsupported, false},
		{"byte slice", host.TypeRef{Expr: "[]byte"}, ReadUnsupported, false},
		{"time", host.TypeRef{Expr: "time.Time", PkgPath: "time", Ident: "Time"}, ReadUnsupported, false},
		{"pointer", host.TypeRef{Expr: "*string"}, ReadUnsupported, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op, convert := Dispatch(tt.typ)
			assert.Equal(t, tt.wantOp, op)
			assert.Equal(t, tt.wantConvert, convert)
		})
	}
}

func TestReadOpMethods(t *testing.T) {
	assert.Equal(t, "Int64", ReadLong.Method())
	assert.Equal(t, "int64", ReadLong.Result())
	assert.Equal(t, "Int32", ReadInt.Method())
	assert.Equal(t, "Bool", ReadBool.Method())
	assert.Equal(t, "", ReadUnsupported.Method())
	assert.Equal(t, "", ReadUnsupported.Result())
	assert.Equal(t, "double", ReadDouble.String())
	assert.Equal(t, "unknown", ReadOp(42).String())
	assert.Equal(t, "", ReadOp(42).Method())
}
