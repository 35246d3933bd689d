package diagnostic

import (
	"io"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

// report is the JSON document written by WriteJSON.
type report struct {
	Diagnostics []Diagnostic `json:"diagnostics"`
	Errors      int          `json:"errors"`
	Warnings    int          `json:"warnings"`
}

// MarshalText lets severities appear by name in JSON output.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// WriteJSON writes all diagnostics plus counts as one indented JSON document.
func (c *Collector) WriteJSON(w io.Writer) error {
	r := report{
		Diagnostics: c.Diagnostics(),
		Errors:      c.ErrorCount(),
		Warnings:    c.WarningCount(),
	}
	if r.Diagnostics == nil {
		r.Diagnostics = []Diagnostic{}
	}
	return json.MarshalWrite(w, r, jsontext.WithIndent("  "))
}
