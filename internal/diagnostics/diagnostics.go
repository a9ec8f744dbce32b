// Package diagnostics describes problems found while exporting models: their
// location in a model or config file, a severity, and a stable code.
package diagnostics

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// Severity indicates the seriousness of a diagnostic.
type Severity int

const (
	// SeverityInfo indicates an informational message.
	SeverityInfo Severity = iota
	// SeverityWarning indicates a potential issue that doesn't prevent generation.
	SeverityWarning
	// SeverityError indicates a fatal issue that prevents generation.
	SeverityError
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Location represents a position in a source file.
type Location struct {
	Path   string
	Line   int
	Column int
}

// Diagnostic is a single reported problem.
type Diagnostic struct {
	Severity Severity
	Message  string
	Code     string // optional, e.g. "E101"

	Location Location

	Context string // source excerpt around Location
	Source  string // component that produced the diagnostic, e.g. "model"
}

// HasLocation returns true if the diagnostic has a valid location.
func (d Diagnostic) HasLocation() bool {
	return d.Location.Path != "" && d.Location.Line > 0
}

// IsError returns true if the diagnostic is an error.
func (d Diagnostic) IsError() bool {
	return d.Severity == SeverityError
}

// String renders the diagnostic as `path:line:col: severity: message [code]`.
func (d Diagnostic) String() string {
	var b strings.Builder
	switch {
	case d.HasLocation():
		fmt.Fprintf(&b, "%s:%d:%d: ", d.Location.Path, d.Location.Line, d.Location.Column)
	case d.Location.Path != "":
		fmt.Fprintf(&b, "%s: ", d.Location.Path)
	}
	fmt.Fprintf(&b, "%s: %s", d.Severity, d.Message)
	if d.Code != "" {
		fmt.Fprintf(&b, " [%s]", d.Code)
	}
	return b.String()
}

// Builder provides a fluent API for constructing diagnostics.
type Builder struct {
	diag Diagnostic
}

// Error creates a builder for an error-level diagnostic.
func Error(message string) *Builder {
	return &Builder{diag: Diagnostic{Severity: SeverityError, Message: message}}
}

// Warning creates a builder for a warning-level diagnostic.
func Warning(message string) *Builder {
	return &Builder{diag: Diagnostic{Severity: SeverityWarning, Message: message}}
}

// WithCode sets the error code.
func (b *Builder) WithCode(code string) *Builder {
	b.diag.Code = code
	return b
}

// At sets the location.
func (b *Builder) At(path string, line, column int) *Builder {
	b.diag.Location = Location{Path: path, Line: line, Column: column}
	return b
}

// WithContext sets the source excerpt.
func (b *Builder) WithContext(context string) *Builder {
	b.diag.Context = context
	return b
}

// WithSource sets the source component.
func (b *Builder) WithSource(source string) *Builder {
	b.diag.Source = source
	return b
}

// Build returns the constructed diagnostic.
func (b *Builder) Build() Diagnostic {
	return b.diag
}

// Collection holds the diagnostics of one run.
type Collection struct {
	diagnostics []Diagnostic
}

// NewCollection creates a new empty diagnostic collection.
func NewCollection() *Collection {
	return &Collection{}
}

// Add adds a diagnostic to the collection.
func (c *Collection) Add(d Diagnostic) {
	c.diagnostics = append(c.diagnostics, d)
}

// HasErrors returns true if the collection contains any errors.
func (c *Collection) HasErrors() bool {
	return slices.ContainsFunc(c.diagnostics, Diagnostic.IsError)
}

// FirstError returns the first error-level diagnostic.
func (c *Collection) FirstError() (Diagnostic, bool) {
	i := slices.IndexFunc(c.diagnostics, Diagnostic.IsError)
	if i < 0 {
		return Diagnostic{}, false
	}
	return c.diagnostics[i], true
}

// All returns all diagnostics.
func (c *Collection) All() []Diagnostic {
	return slices.Clone(c.diagnostics)
}

// Len returns the number of diagnostics.
func (c *Collection) Len() int {
	return len(c.diagnostics)
}

// SortByLocation orders diagnostics by path, line and column, keeping the
// insertion order of diagnostics at the same position.
func (c *Collection) SortByLocation() {
	slices.SortStableFunc(c.diagnostics, func(a, b Diagnostic) int {
		return cmp.Or(
			cmp.Compare(a.Location.Path, b.Location.Path),
			cmp.Compare(a.Location.Line, b.Location.Line),
			cmp.Compare(a.Location.Column, b.Location.Column),
		)
	})
}

// Summary provides a quick overview of diagnostics.
type Summary struct {
	Total    int
	Errors   int
	Warnings int
}

// Summary returns a summary of the diagnostics collection.
func (c *Collection) Summary() Summary {
	s := Summary{Total: len(c.diagnostics)}
	for _, d := range c.diagnostics {
		switch d.Severity {
		case SeverityError:
			s.Errors++
		case SeverityWarning:
			s.Warnings++
		}
	}
	return s
}

// Codes reported by ts-catalyst.
const (
	// Model errors (E1xx)
	ErrModelParse   = "E101"
	ErrModelRead    = "E102"
	ErrModelInvalid = "E103"

	// Naming errors (E2xx)
	ErrNamingInvalidIdentifier = "E201"

	// Configuration errors (E3xx)
	ErrConfigInvalid    = "E301"
	ErrConfigUnknownKey = "W301"

	// Generation errors (E4xx)
	ErrCodeGenFailed = "E401"
)
