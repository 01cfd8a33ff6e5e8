// Package eval renders a WHILE expression into an SMT-LIB term, given a
// symbolic environment binding each variable to the term that currently
// denotes it. It is the symbolic counterpart of a concrete interpreter:
// it never computes a value, only the text Z3 needs to compute one.
package eval

import (
	"fmt"

	"github.com/lhaig/whileverify/internal/ast"
	"github.com/lhaig/whileverify/internal/symenv"
)

// HoleTerm is the fixed naming scheme for a hole's free SMT constant,
// matching original_source/wp.py's `__hole_{idx}` convention so that a
// rendered counterexample model's variable names are self-explanatory.
func HoleTerm(id int) string {
	return fmt.Sprintf("__hole_%d", id)
}

// Expr renders e as an SMT-LIB term under env. The error return is
// non-nil for a free variable env does not bind (a scoping bug upstream:
// internal/driver declares every identifier FreeIdentifiers finds before
// evaluation ever runs), for a hole whose ID has not been assigned, and
// for an unknown expression node type.
func Expr(e ast.Expr, env *symenv.Env) (string, error) {
	switch n := e.(type) {
	case *ast.VarRef:
		term, ok := env.Scalar(n.Name)
		if !ok {
			return "", fmt.Errorf("unbound scalar variable %q", n.Name)
		}
		return term, nil

	case *ast.IntLit:
		if n.Value < 0 {
			return fmt.Sprintf("(- %d)", -n.Value), nil
		}
		return fmt.Sprintf("%d", n.Value), nil

	case *ast.BoolLit:
		if n.Value {
			return "true", nil
		}
		return "false", nil

	case *ast.ArraySelect:
		arr, ok := env.Array(n.Array)
		if !ok {
			return "", fmt.Errorf("unbound array variable %q", n.Array)
		}
		idx, err := Expr(n.Index, env)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(select %s %s)", arr, idx), nil

	case *ast.Hole:
		if n.ID < 0 {
			return "", fmt.Errorf("hole at line %d has no assigned ID; AssignHoleIDs must run first", mustLine(n))
		}
		return HoleTerm(n.ID), nil

	case *ast.Not:
		operand, err := Expr(n.Operand, env)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(not %s)", operand), nil

	case *ast.Binary:
		left, err := Expr(n.Left, env)
		if err != nil {
			return "", err
		}
		right, err := Expr(n.Right, env)
		if err != nil {
			return "", err
		}
		return binaryTerm(n.Op, left, right), nil

	default:
		return "", fmt.Errorf("unknown expression node %T", e)
	}
}

func mustLine(e ast.Expr) int {
	line, _ := e.Pos()
	return line
}

func binaryTerm(op ast.BinOp, left, right string) string {
	switch op {
	case ast.Add:
		return fmt.Sprintf("(+ %s %s)", left, right)
	case ast.Sub:
		return fmt.Sprintf("(- %s %s)", left, right)
	case ast.Mul:
		return fmt.Sprintf("(* %s %s)", left, right)
	// Division and modulus by zero get Z3's default div/mod semantics; no side condition is emitted.
	case ast.Div:
		return fmt.Sprintf("(div %s %s)", left, right)
	case ast.Mod:
		return fmt.Sprintf("(mod %s %s)", left, right)
	case ast.Eq:
		return fmt.Sprintf("(= %s %s)", left, right)
	case ast.Neq:
		return fmt.Sprintf("(not (= %s %s))", left, right)
	case ast.Lt:
		return fmt.Sprintf("(< %s %s)", left, right)
	case ast.Leq:
		return fmt.Sprintf("(<= %s %s)", left, right)
	case ast.Gt:
		return fmt.Sprintf("(> %s %s)", left, right)
	case ast.Geq:
		return fmt.Sprintf("(>= %s %s)", left, right)
	case ast.And:
		return fmt.Sprintf("(and %s %s)", left, right)
	case ast.Or:
		return fmt.Sprintf("(or %s %s)", left, right)
	default:
		return fmt.Sprintf("(; unknown op %v ;)", op)
	}
}
