// Package diagnostic collects lexer/parser errors for a single WHILE
// source file. A malformed AST that reaches the wp transformer or
// evaluator is a different kind of error and is not represented here:
// internal/eval returns it as an error value and internal/wp writes its
// text into the rendered formula.
package diagnostic

import (
	"fmt"
	"strings"
)

// Diagnostic is a single parse error.
type Diagnostic struct {
	Message string
	Line    int
	Column  int
	Hint    string // optional suggestion
}

// Diagnostics accumulates parse errors for one source file.
type Diagnostics struct {
	items []Diagnostic
}

// New creates an empty Diagnostics collection.
func New() *Diagnostics {
	return &Diagnostics{}
}

// Errorf adds an error with a formatted message.
func (d *Diagnostics) Errorf(line, col int, format string, args ...interface{}) {
	d.items = append(d.items, Diagnostic{
		Message: fmt.Sprintf(format, args...),
		Line:    line,
		Column:  col,
	})
}

// ErrorWithHint adds an error with an attached suggestion.
func (d *Diagnostics) ErrorWithHint(line, col int, msg, hint string) {
	d.items = append(d.items, Diagnostic{Message: msg, Line: line, Column: col, Hint: hint})
}

// HasErrors reports whether any diagnostic was recorded.
func (d *Diagnostics) HasErrors() bool {
	return len(d.items) > 0
}

// All returns every recorded diagnostic.
func (d *Diagnostics) All() []Diagnostic {
	return d.items
}

// Count returns the number of recorded diagnostics.
func (d *Diagnostics) Count() int {
	return len(d.items)
}

// Format renders every diagnostic as one line (plus an optional hint line)
// against the given file name, e.g.:
//
//	error[prog.while:3:10]: expected ')'
//	  hint: did you forget a closing paren?
func (d *Diagnostics) Format(filename string) string {
	if len(d.items) == 0 {
		return ""
	}

	var sb strings.Builder
	for i, item := range d.items {
		fmt.Fprintf(&sb, "error[%s:%d:%d]: %s", filename, item.Line, item.Column, item.Message)
		if item.Hint != "" {
			fmt.Fprintf(&sb, "\n  hint: %s", item.Hint)
		}
		if i < len(d.items)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
