package rowmap

import (
	"database/sql"
	"fmt"
)

// FromRows reads the current row of rows into a Record. rows.Next must
// have returned true.
func FromRows(rows *sql.Rows, opts ...Option) (*Record, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("rowmap: columns: %w", err)
	}
	return scanRow(rows, columns, opts)
}

func scanRow(rows *sql.Rows, columns []string, opts []Option) (*Record, error) {
	values := make([]any, len(columns))
	dest := make([]any, len(columns))
	for i := range values {
		dest[i] = &values[i]
	}
	if err := rows.Scan(dest...); err != nil {
		return nil, fmt.Errorf("rowmap: scan: %w", err)
	}
	return NewRecord(columns, values, opts...), nil
}

// Collect builds one value per row with newT, usually a generated
// constructor, and closes rows.
func Collect[T any](rows *sql.Rows, newT func(Source) (*T, error), opts ...Option) ([]*T, error) {
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("rowmap: columns: %w", err)
	}
	var out []*T
	for rows.Next() {
		rec, err := scanRow(rows, columns, opts)
		if err != nil {
			return nil, err
		}
		v, err := newT(rec)
		if err != nil {
			return nil, fmt.Errorf("rowmap: row %d: %w", len(out), err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rowmap: rows: %w", err)
	}
	return out, nil
}
