// Package smtquery assembles an SMT-LIB 2 script from a set of variable
// declarations and one or more formula assertions, mirroring the
// text-concatenation style used throughout this codebase's predecessor
// for contract-to-SMT-LIB translation. It does not interpret the
// script's result; see internal/solver for that.
package smtquery

import "strings"

// Decl is a single `declare-const` entry.
type Decl struct {
	Name string
	Sort string // "Int" or "(Array Int Int)"
}

// IntSort and ArraySort are the two variable sorts this language needs.
const (
	IntSort   = "Int"
	ArraySort = "(Array Int Int)"
)

// Query is a fully assembled SMT-LIB script: every constant this
// formula mentions must be declared exactly once, in any order, before
// the assertions that use it.
type Query struct {
	Declarations []Decl
	Assertions   []string // each already-rendered SMT-LIB term, wrapped in `(assert ...)` by Render
	GetModel     bool     // emit `(get-model)` after `(check-sat)`, for synthesis queries
}

// AddDecl appends a declaration if name has not already been declared.
func (q *Query) AddDecl(name, sort string) {
	for _, d := range q.Declarations {
		if d.Name == name {
			return
		}
	}
	q.Declarations = append(q.Declarations, Decl{Name: name, Sort: sort})
}

// AddAssertion appends a formula to be asserted.
func (q *Query) AddAssertion(formula string) {
	q.Assertions = append(q.Assertions, formula)
}

// Render produces the complete SMT-LIB 2 script text.
func (q *Query) Render() string {
	var sb strings.Builder

	for _, d := range q.Declarations {
		sb.WriteString("(declare-const ")
		sb.WriteString(d.Name)
		sb.WriteString(" ")
		sb.WriteString(d.Sort)
		sb.WriteString(")\n")
	}

	if len(q.Declarations) > 0 {
		sb.WriteString("\n")
	}

	for _, a := range q.Assertions {
		sb.WriteString("(assert ")
		sb.WriteString(a)
		sb.WriteString(")\n")
	}

	sb.WriteString("\n(check-sat)\n")
	if q.GetModel {
		sb.WriteString("(get-model)\n")
	}

	return sb.String()
}
