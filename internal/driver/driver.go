// Package driver wires the parser's AST, the wp transformer, the
// bounded loop unfolder, and the Z3-backed solver together into the two
// top-level operations this system offers: verifying a Hoare triple and
// synthesizing hole values from input/output examples. It owns the
// unfold-and-retry loop and the declaration bookkeeping the lower
// packages intentionally stay silent about.
package driver

import (
	"context"
	"fmt"
	"time"

	"github.com/lhaig/whileverify/internal/ast"
	"github.com/lhaig/whileverify/internal/eval"
	"github.com/lhaig/whileverify/internal/smtquery"
	"github.com/lhaig/whileverify/internal/solver"
	"github.com/lhaig/whileverify/internal/symenv"
	"github.com/lhaig/whileverify/internal/unfold"
	"github.com/lhaig/whileverify/internal/wp"
)

// Options configures solver invocation and the unfolding retry budget.
type Options struct {
	Z3Path         string
	Timeout        time.Duration
	MaxUnfoldDepth int // K_max; defaults to 9, the reference implementation's bound
}

// DefaultOptions returns the reference configuration.
func DefaultOptions() Options {
	return Options{MaxUnfoldDepth: 9, Timeout: 5 * time.Second}
}

func (o Options) solverOptions() solver.Options {
	return solver.Options{Z3Path: o.Z3Path, Timeout: o.Timeout}
}

// VerifyRequest is a Hoare triple {Pre} Program {Post}, optionally under
// a loop invariant (nil means `true`, i.e. no loop reasoning beyond
// unfolding is available).
type VerifyRequest struct {
	Pre       ast.Expr
	Program   ast.Command
	Post      ast.Expr
	Invariant ast.Expr
}

// Outcome reports a single unfolding depth's solver verdict, bundled
// for callers that want to show why a query failed.
type Outcome struct {
	Depth   int
	Verdict solver.Verdict
	Message string
}

// Verify checks {req.Pre} req.Program {req.Post}. It tries the program
// as written first (loop reasoning handled entirely by req.Invariant),
// then retries against unfold(program, 1) .. unfold(program, MaxUnfoldDepth)
// until the solver proves validity or the budget is exhausted. It
// returns true as soon as any depth succeeds.
func Verify(ctx context.Context, req VerifyRequest, opts Options) (bool, []Outcome) {
	if opts.MaxUnfoldDepth == 0 && opts.Timeout == 0 {
		opts = DefaultOptions()
	}

	var outcomes []Outcome
	for depth := 0; depth <= opts.MaxUnfoldDepth; depth++ {
		c := req.Program
		if depth > 0 {
			c = unfold.Unfold(req.Program, depth)
		}
		ast.AssignHoleIDs(c)

		result := runVerify(ctx, c, req, opts)
		outcomes = append(outcomes, Outcome{Depth: depth, Verdict: result.Verdict, Message: result.Message})
		if result.Verdict == solver.Unsat {
			return true, outcomes
		}
	}
	return false, outcomes
}

func runVerify(ctx context.Context, c ast.Command, req VerifyRequest, opts Options) solver.Result {
	ids := ast.FreeIdentifiers(c)
	ast.MergeExprIdents(req.Pre, ids)
	ast.MergeExprIdents(req.Post, ids)
	if req.Invariant != nil {
		ast.MergeExprIdents(req.Invariant, ids)
	}

	env := newEnv(ids)
	invPred := wp.True
	if req.Invariant != nil {
		invPred = wp.FromExpr(req.Invariant)
	}
	env = env.WithInvariant(invPred)

	post := wp.FromExpr(req.Post)
	wpFormula := wp.WP(c, post)(env)
	preFormula := wp.FromExpr(req.Pre)(env)

	q := &smtquery.Query{}
	declareFreeVars(q, ids, c)
	q.AddAssertion(fmt.Sprintf("(not (=> %s %s))", preFormula, wpFormula))

	return solver.Run(ctx, q.Render(), opts.solverOptions())
}

// SynthesizeRequest asks for hole values consistent with a list of
// input/output example pairs, under a shared loop invariant.
type SynthesizeRequest struct {
	Program   ast.Command
	Invariant ast.Expr
	Inputs    []ast.Expr // P_i
	Outputs   []ast.Expr // Q_i
}

// Synthesize looks for an assignment to every hole in req.Program such
// that, for every (P_i, Q_i) pair, {P_i} Program {Q_i} holds for all
// program states. It retries across unfolding depths exactly as Verify
// does. On success it returns the model restricted to hole identities
// and true; otherwise false.
func Synthesize(ctx context.Context, req SynthesizeRequest, opts Options) (map[int]int64, bool, []Outcome) {
	if opts.MaxUnfoldDepth == 0 && opts.Timeout == 0 {
		opts = DefaultOptions()
	}

	var outcomes []Outcome
	for depth := 0; depth <= opts.MaxUnfoldDepth; depth++ {
		c := req.Program
		if depth > 0 {
			c = unfold.Unfold(req.Program, depth)
		}
		ast.AssignHoleIDs(c)

		result := runSynthesize(ctx, c, req, opts)
		outcomes = append(outcomes, Outcome{Depth: depth, Verdict: result.Verdict, Message: result.Message})
		if result.Verdict == solver.Sat {
			model := make(map[int]int64, len(result.Model))
			for _, id := range ast.HoleIDs(c) {
				if v, ok := result.Model[eval.HoleTerm(id)]; ok {
					model[id] = v
				} else {
					model[id] = 0 // spec: a hole absent from the model defaults to 0
				}
			}
			return model, true, outcomes
		}
	}
	return nil, false, outcomes
}

func runSynthesize(ctx context.Context, c ast.Command, req SynthesizeRequest, opts Options) solver.Result {
	ids := ast.FreeIdentifiers(c)
	for i := range req.Inputs {
		ast.MergeExprIdents(req.Inputs[i], ids)
		ast.MergeExprIdents(req.Outputs[i], ids)
	}
	if req.Invariant != nil {
		ast.MergeExprIdents(req.Invariant, ids)
	}

	env := newEnv(ids)
	invPred := wp.True
	if req.Invariant != nil {
		invPred = wp.FromExpr(req.Invariant)
	}
	env = env.WithInvariant(invPred)

	conjuncts := "true"
	for i := range req.Inputs {
		post := wp.FromExpr(req.Outputs[i])
		wpFormula := wp.WP(c, post)(env)
		preFormula := wp.FromExpr(req.Inputs[i])(env)
		conjuncts = fmt.Sprintf("(and %s (=> %s %s))", conjuncts, preFormula, wpFormula)
	}

	bound := quantifiedDecls(ids)
	formula := conjuncts
	if len(bound) > 0 {
		formula = fmt.Sprintf("(forall (%s) %s)", bound, conjuncts)
	}

	q := &smtquery.Query{GetModel: true}
	for _, id := range ast.HoleIDs(c) {
		q.AddDecl(eval.HoleTerm(id), smtquery.IntSort)
	}
	q.AddAssertion(formula)

	return solver.Run(ctx, q.Render(), opts.solverOptions())
}

func newEnv(ids *ast.Identifiers) *symenv.Env {
	scalars := make([]string, 0, len(ids.Scalars))
	for s := range ids.Scalars {
		scalars = append(scalars, s)
	}
	arrays := make([]string, 0, len(ids.Arrays))
	for a := range ids.Arrays {
		arrays = append(arrays, a)
	}
	return symenv.New(scalars, arrays)
}

func declareFreeVars(q *smtquery.Query, ids *ast.Identifiers, c ast.Command) {
	for s := range ids.Scalars {
		q.AddDecl(s, smtquery.IntSort)
	}
	for a := range ids.Arrays {
		q.AddDecl(a, smtquery.ArraySort)
	}
	for _, id := range ast.HoleIDs(c) {
		q.AddDecl(eval.HoleTerm(id), smtquery.IntSort)
	}
}

func quantifiedDecls(ids *ast.Identifiers) string {
	decls := ""
	for s := range ids.Scalars {
		if decls != "" {
			decls += " "
		}
		decls += fmt.Sprintf("(%s Int)", s)
	}
	for a := range ids.Arrays {
		if decls != "" {
			decls += " "
		}
		decls += fmt.Sprintf("(%s %s)", a, smtquery.ArraySort)
	}
	return decls
}
