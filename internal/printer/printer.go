// Package printer renders a WHILE AST back into its concrete surface
// syntax, substituting a solver model for any hole it encounters. A
// pretty-printed program reparses to an AST equivalent to the original
// with holes resolved to integer literals — cmd/whilecheck uses this
// to hand a synthesized program back to the caller as ordinary source.
package printer

import (
	"fmt"
	"strings"

	"github.com/lhaig/whileverify/internal/ast"
)

// Print renders c as surface syntax. model supplies integer values for
// hole identities; a hole whose ID is absent from model renders as 0.
func Print(c ast.Command, model map[int]int64) string {
	p := &printer{model: model}
	p.command(c)
	return p.sb.String()
}

type printer struct {
	sb     strings.Builder
	indent int
	model  map[int]int64
}

func (p *printer) emit(s string) { p.sb.WriteString(s) }

func (p *printer) emitIndent() { p.sb.WriteString(strings.Repeat("    ", p.indent)) }

func (p *printer) incIndent() { p.indent++ }
func (p *printer) decIndent() { p.indent-- }

// command renders c with no leading indentation or trailing newline, so
// callers (including recursive calls from Seq and If) control their own
// placement.
func (p *printer) command(c ast.Command) {
	switch n := c.(type) {
	case *ast.Skip:
		p.emit("skip")

	case *ast.Assign:
		p.emit(n.Name)
		p.emit(" := ")
		p.expr(n.Value)

	case *ast.ArrayAssign:
		p.emit(n.Array)
		p.emit("[")
		p.expr(n.Index)
		p.emit("] := ")
		p.expr(n.Value)

	case *ast.Seq:
		p.command(n.First)
		p.emit(";\n")
		p.emitIndent()
		p.command(n.Second)

	case *ast.If:
		// Then is parsed back as a full sequence (the parser stops at
		// `else`), so it never needs wrapping. Else is parsed back with
		// parseStmt, which does not consume a bare top-level `;`, so a
		// multi-statement Else must be parenthesized to round-trip.
		p.emit("if ")
		p.expr(n.Cond)
		p.emit(" then\n")
		p.incIndent()
		p.emitIndent()
		p.command(n.Then)
		p.emit("\n")
		p.decIndent()
		p.emitIndent()
		p.emit("else\n")
		p.incIndent()
		p.emitIndent()
		p.statementBody(n.Else)
		p.decIndent()

	case *ast.While:
		// Body is parsed back with parseStmt for the same reason as
		// If's Else branch above.
		p.emit("while ")
		p.expr(n.Cond)
		p.emit(" do\n")
		p.incIndent()
		p.emitIndent()
		p.statementBody(n.Body)
		p.decIndent()

	case *ast.Assert:
		p.emit("assert ")
		p.expr(n.Cond)

	default:
		p.emit(fmt.Sprintf("<unknown command %T>", c))
	}
}

// statementBody renders c the way a grammar position governed by
// parseStmt (not parseSeq) requires: a bare Seq is wrapped in
// parentheses, since parseStmt's `'(' S ')'` alternative is the only
// way such a position can accept more than one statement.
func (p *printer) statementBody(c ast.Command) {
	if _, ok := c.(*ast.Seq); ok {
		p.emit("(")
		p.command(c)
		p.emit(")")
		return
	}
	p.command(c)
}

// expr renders e, parenthesizing every binary operator application so
// the result reparses unambiguously regardless of precedence.
func (p *printer) expr(e ast.Expr) {
	switch n := e.(type) {
	case *ast.VarRef:
		p.emit(n.Name)

	case *ast.IntLit:
		p.emit(fmt.Sprintf("%d", n.Value))

	case *ast.BoolLit:
		if n.Value {
			p.emit("true")
		} else {
			p.emit("false")
		}

	case *ast.ArraySelect:
		p.emit(n.Array)
		p.emit("[")
		p.expr(n.Index)
		p.emit("]")

	case *ast.Hole:
		v, ok := p.model[n.ID]
		if !ok {
			v = 0
		}
		p.emit(fmt.Sprintf("%d", v))

	case *ast.Not:
		p.emit("(not ")
		p.expr(n.Operand)
		p.emit(")")

	case *ast.Binary:
		p.emit("(")
		p.expr(n.Left)
		p.emit(" ")
		p.emit(n.Op.String())
		p.emit(" ")
		p.expr(n.Right)
		p.emit(")")

	default:
		p.emit(fmt.Sprintf("<unknown expr %T>", e))
	}
}
