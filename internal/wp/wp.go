// Package wp computes the weakest precondition of a WHILE command with
// respect to a postcondition, following the standard predicate-transformer
// rules extended with a bounded-unrolling-friendly loop rule. The
// transformer itself never talks to a solver; it only builds
// symenv.Predicate closures that internal/smtquery later renders into a
// full SMT-LIB script and internal/solver discharges.
package wp

import (
	"fmt"
	"sort"

	"github.com/lhaig/whileverify/internal/ast"
	"github.com/lhaig/whileverify/internal/eval"
	"github.com/lhaig/whileverify/internal/symenv"
)

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Predicate is an alias for symenv.Predicate, kept under this package's
// name because every exported function here produces and consumes one;
// symenv owns the underlying definition to avoid a wp<->symenv import
// cycle (Env.Invariant must be able to hold one).
type Predicate = symenv.Predicate

// FromExpr lifts a surface assertion (a precondition, postcondition, or
// invariant written as an ordinary WHILE boolean expression) into a
// Predicate, by rendering it through internal/eval against whatever
// environment it is later applied to.
func FromExpr(e ast.Expr) Predicate {
	return func(env *symenv.Env) string {
		term, err := eval.Expr(e, env)
		if err != nil {
			return fmt.Sprintf("(; eval error: %s ;)", err)
		}
		return term
	}
}

// True is the Predicate that always renders to the SMT-LIB literal true;
// internal/driver and the loop rule use it as the invariant when none is
// supplied.
func True(*symenv.Env) string { return "true" }

// WP returns the weakest precondition of command c with respect to
// postcondition q: a Predicate that, applied to the environment at c's
// entry, renders the SMT-LIB formula P such that {P} c {q} is a valid
// Hoare triple.
func WP(c ast.Command, q Predicate) Predicate {
	switch n := c.(type) {
	case *ast.Skip:
		return q

	case *ast.Assign:
		return func(env *symenv.Env) string {
			val, err := eval.Expr(n.Value, env)
			if err != nil {
				return fmt.Sprintf("(; eval error: %s ;)", err)
			}
			return q(env.With(n.Name, val))
		}

	case *ast.ArrayAssign:
		return func(env *symenv.Env) string {
			arrTerm, ok := env.Array(n.Array)
			if !ok {
				return fmt.Sprintf("(; unbound array %s ;)", n.Array)
			}
			idx, err := eval.Expr(n.Index, env)
			if err != nil {
				return fmt.Sprintf("(; eval error: %s ;)", err)
			}
			val, err := eval.Expr(n.Value, env)
			if err != nil {
				return fmt.Sprintf("(; eval error: %s ;)", err)
			}
			stored := fmt.Sprintf("(store %s %s %s)", arrTerm, idx, val)
			return q(env.WithArray(n.Array, stored))
		}

	case *ast.Seq:
		return WP(n.First, WP(n.Second, q))

	case *ast.If:
		return func(env *symenv.Env) string {
			cond, err := eval.Expr(n.Cond, env)
			if err != nil {
				return fmt.Sprintf("(; eval error: %s ;)", err)
			}
			thenWP := WP(n.Then, q)(env)
			elseWP := WP(n.Else, q)(env)
			return fmt.Sprintf("(or (and %s %s) (and (not %s) %s))", cond, thenWP, cond, elseWP)
		}

	case *ast.Assert:
		return func(env *symenv.Env) string {
			cond, err := eval.Expr(n.Cond, env)
			if err != nil {
				return fmt.Sprintf("(; eval error: %s ;)", err)
			}
			return fmt.Sprintf("(and %s %s)", cond, q(env))
		}

	case *ast.While:
		return whileWP(n, q)

	default:
		return func(*symenv.Env) string {
			return fmt.Sprintf("(; unknown command node %T ;)", c)
		}
	}
}

// whileWP implements the loop rule. It does not unroll the loop itself
// (internal/unfold does that, ahead of time, for the bounded check); it
// instead produces a one-step partial-correctness obligation relative to
// the caller-supplied invariant, so that a single application of WP to
// an unrolled command and a single application to the original While
// together bound the loop to the unrolling depth.
//
// Mirrors the standard Hoare loop axiom: either the invariant, the
// negated guard and the continuation all hold at entry (the loop never
// runs), or the invariant holds with the guard true, the body's own
// precondition under the invariant holds, and — for every havoced binding
// of the body's free variables — running the body once more preserves
// the obligation to run it again or exit, AND running the body once from
// an exiting state reaches the continuation's precondition.
func whileWP(n *ast.While, q Predicate) Predicate {
	return func(env *symenv.Env) string {
		inv := env.Invariant
		if inv == nil {
			inv = True
		}

		ids := ast.FreeIdentifiers(n.Body)
		subEnv := env.Clone()
		var bound []string
		for _, name := range sortedKeys(ids.Scalars) {
			fresh := subEnv.Fresh(name)
			subEnv = subEnv.With(name, fresh)
			bound = append(bound, fmt.Sprintf("(%s Int)", fresh))
		}
		for _, name := range sortedKeys(ids.Arrays) {
			fresh := subEnv.Fresh(name)
			subEnv = subEnv.WithArray(name, fresh)
			bound = append(bound, fmt.Sprintf("(%s (Array Int Int))", fresh))
		}

		bodyWPInv := WP(n.Body, inv) // wp(body, inv)
		condPred := func(e *symenv.Env) string {
			cond, err := eval.Expr(n.Cond, e)
			if err != nil {
				return fmt.Sprintf("(; eval error: %s ;)", err)
			}
			return cond
		}
		bodyWPCond := WP(n.Body, condPred) // wp(body, guard)

		pInit := inv(env)
		bInit, err := eval.Expr(n.Cond, env)
		if err != nil {
			bInit = fmt.Sprintf("(; eval error: %s ;)", err)
		}

		p := bodyWPInv(subEnv)
		b := bodyWPCond(subEnv)
		bodyWP := bodyWPInv(env)
		doubleWP := WP(n.Body, bodyWPInv)(subEnv)
		contWP := WP(n.Body, q)(subEnv)

		exitBranch := fmt.Sprintf("(and %s (not %s) %s)", pInit, bInit, q(env))

		runBranch := fmt.Sprintf("(and %s %s %s)", pInit, bInit, bodyWP)
		if len(bound) > 0 {
			runObligation := fmt.Sprintf(
				"(and (=> (and %s %s %s) (or %s (not %s))) (=> (and %s (not %s) %s) %s))",
				p, b, p, doubleWP, b,
				p, b, p, contWP,
			)
			quantified := fmt.Sprintf("(forall (%s) %s)", joinSortedDecls(bound), runObligation)
			runBranch = fmt.Sprintf("(and %s %s)", runBranch, quantified)
		}

		return fmt.Sprintf("(or %s (and %s))", exitBranch, runBranch)
	}
}

func joinSortedDecls(decls []string) string {
	out := ""
	for i, d := range decls {
		if i > 0 {
			out += " "
		}
		out += d
	}
	return out
}
