// Package rowmap is the runtime half of rowmapgen. Generated MapRow
// methods read columns through a Source; Record implements Source over a
// single fetched row from database/sql or pgx.
package rowmap

import (
	"errors"
	"fmt"
	"strings"
)

// Source is a single row addressable by column name. Each read converts
// the column value to the requested type.
type Source interface {
	String(column string) (string, error)
	Int64(column string) (int64, error)
	Int32(column string) (int32, error)
	Float32(column string) (float32, error)
	Float64(column string) (float64, error)
	Bool(column string) (bool, error)
}

var (
	// ErrNoColumn is returned when the row has no column with the requested name.
	ErrNoColumn = errors.New("no such column")
	// ErrNull is returned for SQL NULL when the record rejects nulls.
	ErrNull = errors.New("column is null")
	// ErrConversion is returned when a value cannot be converted to the requested type.
	ErrConversion = errors.New("cannot convert column value")
)

// ColumnError attaches the column name to a read failure.
type ColumnError struct {
	Column string
	Err    error
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("rowmap: column %q: %v", e.Column, e.Err)
}

func (e *ColumnError) Unwrap() error { return e.Err }

// WrapColumn wraps err with the column it was read from. It returns nil
// for a nil error and does not wrap an error twice for the same column.
func WrapColumn(column string, err error) error {
	if err == nil {
		return nil
	}
	var ce *ColumnError
	if errors.As(err, &ce) && ce.Column == column {
		return err
	}
	return &ColumnError{Column: column, Err: err}
}

// Option configures a Record.
type Option func(*Record)

// RejectNull makes reads of SQL NULL fail with ErrNull instead of
// returning the zero value.
func RejectNull() Option {
	return func(r *Record) { r.rejectNull = true }
}

// Record is a Source over one row of values. Column lookup is exact
// first, then case-insensitive.
type Record struct {
	columns    []string
	values     []any
	index      map[string]int
	rejectNull bool
}

var _ Source = (*Record)(nil)

// NewRecord pairs column names with values. Extra values or columns are
// ignored.
func NewRecord(columns []string, values []any, opts ...Option) *Record {
	n := min(len(columns), len(values))
	r := &Record{
		columns: columns[:n],
		values:  values[:n],
		index:   make(map[string]int, n),
	}
	for i := n - 1; i >= 0; i-- {
		// first occurrence wins
		r.index[columns[i]] = i
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Columns returns the column names of the record.
func (r *Record) Columns() []string { return r.columns }

// Value returns the raw value of column.
func (r *Record) Value(column string) (any, error) {
	if i, ok := r.index[column]; ok {
		return r.values[i], nil
	}
	for i, c := range r.columns {
		if strings.EqualFold(c, column) {
			return r.values[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrNoColumn, column)
}

// read resolves column and reports whether the value is NULL.
func (r *Record) read(column string) (any, bool, error) {
	v, err := r.Value(column)
	if err != nil {
		return nil, false, err
	}
	if v, err = normalize(v); err != nil {
		return nil, false, err
	}
	if v == nil {
		if r.rejectNull {
			return nil, true, ErrNull
		}
		return nil, true, nil
	}
	return v, false, nil
}

func (r *Record) String(column string) (string, error) {
	v, null, err := r.read(column)
	if err != nil || null {
		return "", err
	}
	return toString(v)
}

func (r *Record) Int64(column string) (int64, error) {
	v, null, err := r.read(column)
	if err != nil || null {
		return 0, err
	}
	return toInt64(v)
}

func (r *Record) Int32(column string) (int32, error) {
	v, null, err := r.read(column)
	if err != nil || null {
		return 0, err
	}
	return toInt32(v)
}

func (r *Record) Float32(column string) (float32, error) {
	v, null, err := r.read(column)
	if err != nil || null {
		return 0, err
	}
	return toFloat32(v)
}

func (r *Record) Float64(column string) (float64, error) {
	v, null, err := r.read(column)
	if err != nil || null {
		return 0, err
	}
	return toFloat64(v)
}

func (r *Record) Bool(column string) (bool, error) {
	v, null, err := r.read(column)
	if err != nil || null {
		return false, err
	}
	return toBool(v)
}
