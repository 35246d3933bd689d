package engine

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Naming strategies for columns without an explicit override.
const (
	NamingField = "field" // column is the field name as declared
	NamingSnake = "snake" // column is the field name in snake_case
)

// initialisms stay upper-case in Go names and form one word in
// snake_case. Longer entries come first so UUID is not split on ID.
var initialisms = []string{"UUID", "HTTP", "JSON", "URL", "URI", "SQL", "API", "ID"}

var snakeRules = func() *inflect.Ruleset {
	rs := inflect.NewDefaultRuleset()
	for _, w := range initialisms {
		rs.AddAcronym(w)
	}
	return rs
}()

// ColumnNamer returns the fallback column naming function for a strategy.
func ColumnNamer(strategy string) func(string) string {
	if strategy == NamingSnake {
		return snakeRules.Underscore
	}
	return func(s string) string { return s }
}

// exportName upper-cases the first letter of name, keeping common
// initialisms fully upper-case ("id" -> "ID").
func exportName(name string) string {
	for _, w := range initialisms {
		if strings.EqualFold(name, w) {
			return w
		}
	}
	return cases.Title(language.Und, cases.NoLower).String(name)
}

// SetterName is the conventional setter for a field.
func SetterName(field string) string { return "Set" + exportName(field) }

// GetterName is the conventional getter for an unexported field.
func GetterName(field string) string { return exportName(field) }

// ConstructorName is the constructor synthesized for a type.
func ConstructorName(typeName string) string { return "New" + exportName(typeName) }

// ReceiverName picks a short receiver that cannot collide with the locals
// used in generated bodies.
func ReceiverName(typeName string) string {
	r, _ := utf8.DecodeRuneInString(typeName)
	if r == utf8.RuneError || !unicode.IsLetter(r) {
		return "_r"
	}
	recv := string(unicode.ToLower(r))
	switch recv {
	case "v", "e":
		return "_r"
	}
	return recv
}
