// Package diagnostic collects problems found while synthesizing members.
// Diagnostics are reported, never thrown: a class with an error diagnostic
// simply receives no generated members.
package diagnostic

import (
	"fmt"
	"go/token"
	"strings"
	"sync"
)

// Severity represents the severity level of a diagnostic.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// Category classifies diagnostics for filtering.
type Category string

const (
	CategoryUsage           Category = "usage"
	CategoryCallSuper       Category = "call-super"
	CategoryTypeUnsupported Category = "type-unsupported"
	CategoryDirective       Category = "directive-invalid"
	CategoryDuplicateColumn Category = "duplicate-column"
	CategoryLoad            Category = "load"
)

// Diagnostic represents a structured diagnostic message.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Category Category `json:"category"`
	File     string   `json:"file,omitempty"`
	Line     int      `json:"line,omitzero"`
	Column   int      `json:"column,omitzero"`
	Message  string   `json:"message"`
	Hint     string   `json:"hint,omitempty"`
}

// String formats the diagnostic for display.
func (d Diagnostic) String() string {
	var sb strings.Builder

	if d.File != "" {
		sb.WriteString(d.File)
		if d.Line > 0 {
			fmt.Fprintf(&sb, ":%d", d.Line)
			if d.Column > 0 {
				fmt.Fprintf(&sb, ":%d", d.Column)
			}
		}
		sb.WriteString(" - ")
	}

	sb.WriteString(d.Severity.String())
	sb.WriteString(": ")

	if d.Category != "" {
		sb.WriteString("[")
		sb.WriteString(string(d.Category))
		sb.WriteString("] ")
	}

	sb.WriteString(d.Message)

	if d.Hint != "" {
		sb.WriteString("\n  hint: ")
		sb.WriteString(d.Hint)
	}

	return sb.String()
}

// Collector collects diagnostics. It is safe for concurrent use so a
// driver processing several packages can share one.
type Collector struct {
	mu          sync.Mutex
	diagnostics []Diagnostic
	strict      bool // if true, warnings become errors
	quiet       bool // if true, suppress warnings
}

// NewCollector creates a new diagnostic collector.
func NewCollector(strict, quiet bool) *Collector {
	return &Collector{
		strict: strict,
		quiet:  quiet,
	}
}

func (c *Collector) add(d Diagnostic) {
	c.mu.Lock()
	c.diagnostics = append(c.diagnostics, d)
	c.mu.Unlock()
}

func at(pos token.Position, sev Severity, category Category, message, hint string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Category: category,
		File:     pos.Filename,
		Line:     pos.Line,
		Column:   pos.Column,
		Message:  message,
		Hint:     hint,
	}
}

// Warn adds a warning diagnostic.
func (c *Collector) Warn(category Category, pos token.Position, message string) {
	c.WarnWithHint(category, pos, message, "")
}

// WarnWithHint adds a warning with a suggestion.
func (c *Collector) WarnWithHint(category Category, pos token.Position, message, hint string) {
	if c == nil || c.quiet {
		return
	}
	sev := SeverityWarning
	if c.strict {
		sev = SeverityError
	}
	c.add(at(pos, sev, category, message, hint))
}

// Error adds an error diagnostic.
func (c *Collector) Error(category Category, pos token.Position, message string) {
	c.ErrorWithHint(category, pos, message, "")
}

// ErrorWithHint adds an error diagnostic with a suggestion.
func (c *Collector) ErrorWithHint(category Category, pos token.Position, message, hint string) {
	if c == nil {
		return
	}
	c.add(at(pos, SeverityError, category, message, hint))
}

// Info adds an informational diagnostic.
func (c *Collector) Info(category Category, pos token.Position, message string) {
	if c == nil || c.quiet {
		return
	}
	c.add(at(pos, SeverityInfo, category, message, ""))
}

// Merge appends every diagnostic of other, in order.
func (c *Collector) Merge(other *Collector) {
	if c == nil || other == nil {
		return
	}
	for _, d := range other.Diagnostics() {
		c.add(d)
	}
}

// Diagnostics returns a copy of all collected diagnostics.
func (c *Collector) Diagnostics() []Diagnostic {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Diagnostic, len(c.diagnostics))
	copy(out, c.diagnostics)
	return out
}

// Len returns the number of collected diagnostics.
func (c *Collector) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.diagnostics)
}

// HasErrors returns true if any error-level diagnostics exist.
func (c *Collector) HasErrors() bool {
	return c.ErrorCount() > 0
}

// ErrorCount returns the number of error diagnostics.
func (c *Collector) ErrorCount() int {
	return c.count(SeverityError)
}

// WarningCount returns the number of warning diagnostics.
func (c *Collector) WarningCount() int {
	return c.count(SeverityWarning)
}

func (c *Collector) count(sev Severity) int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, d := range c.diagnostics {
		if d.Severity == sev {
			n++
		}
	}
	return n
}

// FormatAll formats all diagnostics as a multi-line string.
func (c *Collector) FormatAll() string {
	diags := c.Diagnostics()
	if len(diags) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, d := range diags {
		sb.WriteString(d.String())
		sb.WriteString("\n")
	}
	return sb.String()
}

// Summary returns a summary line like "1 error(s), 2 warning(s)".
func (c *Collector) Summary() string {
	if c == nil {
		return ""
	}
	warnings := c.WarningCount()
	errors := c.ErrorCount()

	parts := []string{}
	if errors > 0 {
		parts = append(parts, fmt.Sprintf("%d error(s)", errors))
	}
	if warnings > 0 {
		parts = append(parts, fmt.Sprintf("%d warning(s)", warnings))
	}
	if len(parts) == 0 {
		return "no issues"
	}
	return strings.Join(parts, ", ")
}
