package engine

import "github.com/calumari/rowmap/internal/host"

// Scan walks the direct children of c and returns one binding per field
// carrying a column marker, in declaration order. Embedded fields are the
// superclass, not columns. Scan never mutates c.
func Scan(c *host.ClassDecl, naming func(string) string) []Binding {
	if naming == nil {
		naming = ColumnNamer(NamingField)
	}
	var bindings []Binding
	for _, f := range c.Fields() {
		if f.Embedded || f.Column == nil {
			continue
		}
		column := f.Column.Override
		if column == "" {
			column = naming(f.Name)
		}
		bindings = append(bindings, Binding{Field: f, Column: column, Type: f.Type})
	}
	return bindings
}

// duplicateColumns returns, per repeated column, the fields bound to it in
// binding order.
func duplicateColumns(bindings []Binding) map[string][]string {
	seen := make(map[string][]string)
	var order []string
	for _, b := range bindings {
		if _, ok := seen[b.Column]; !ok {
			order = append(order, b.Column)
		}
		seen[b.Column] = append(seen[b.Column], b.Field.Name)
	}
	dups := make(map[string][]string)
	for _, col := range order {
		if len(seen[col]) > 1 {
			dups[col] = seen[col]
		}
	}
	return dups
}
