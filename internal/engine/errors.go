package engine

import (
	"errors"
	"fmt"
	"go/token"
	"strings"
)

// Sentinel errors for common failure cases.
var (
	// ErrUnsupportedType indicates a bound field whose type has no read operation.
	ErrUnsupportedType = errors.New("rowmap: unsupported field type")
	// ErrInvalidDirective indicates a directive whose options cannot be decoded.
	ErrInvalidDirective = errors.New("rowmap: invalid directive")
)

// UnsupportedTypeError names a field the dispatch table cannot map.
type UnsupportedTypeError struct {
	Type  string // declaring type
	Field string
	Decl  string // field type as written
	Pos   token.Position
}

// Error implements the error interface.
func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("field %s of unsupported type %s cannot be mapped", e.Field, e.Decl)
}

// Is reports whether the target matches ErrUnsupportedType.
func (e *UnsupportedTypeError) Is(target error) bool {
	return target == ErrUnsupportedType
}

// DirectiveError represents a malformed directive.
type DirectiveError struct {
	Directive string
	Message   string
	Cause     error
}

// Error implements the error interface.
func (e *DirectiveError) Error() string {
	var b strings.Builder
	b.WriteString("rowmap: invalid directive")
	if e.Directive != "" {
		b.WriteString(" //rowmap:")
		b.WriteString(e.Directive)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *DirectiveError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches ErrInvalidDirective.
func (e *DirectiveError) Is(target error) bool {
	return target == ErrInvalidDirective
}
