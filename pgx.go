package rowmap

import (
	"fmt"

	"github.com/jackc/pgx/v5"
)

// FromPgx reads the current row of rows into a Record. rows.Next must
// have returned true. Values are the decoded Go values pgx produces for
// each column; pgtype wrappers are unwrapped through driver.Valuer.
func FromPgx(rows pgx.Rows, opts ...Option) (*Record, error) {
	return pgxRow(rows, pgxColumns(rows), opts)
}

func pgxColumns(rows pgx.Rows) []string {
	fds := rows.FieldDescriptions()
	columns := make([]string, len(fds))
	for i, fd := range fds {
		columns[i] = fd.Name
	}
	return columns
}

func pgxRow(rows pgx.Rows, columns []string, opts []Option) (*Record, error) {
	values, err := rows.Values()
	if err != nil {
		return nil, fmt.Errorf("rowmap: values: %w", err)
	}
	return NewRecord(columns, values, opts...), nil
}

// CollectPgx is Collect for pgx result sets. It closes rows.
func CollectPgx[T any](rows pgx.Rows, newT func(Source) (*T, error), opts ...Option) ([]*T, error) {
	defer rows.Close()

	columns := pgxColumns(rows)
	var out []*T
	for rows.Next() {
		rec, err := pgxRow(rows, columns, opts)
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
