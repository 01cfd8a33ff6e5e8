package driver

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/lhaig/whileverify/internal/ast"
	"github.com/lhaig/whileverify/internal/parser"
)

// These mirror the worked examples a WHILE verifier/synthesizer is
// expected to agree with: a handful of straight-line and looping Hoare
// triples with known verdicts, plus a sketch with a known-satisfiable
// model and one with deliberately too many degrees of freedom to admit
// one. Every case needs a live z3 binary and is skipped without it.

func mustParseCmd(t *testing.T, src string) ast.Command {
	t.Helper()
	p := parser.New(src)
	c := p.Parse()
	if p.Diagnostics().HasErrors() {
		t.Fatalf("parsing %q: %s", src, p.Diagnostics().Format("scenario"))
	}
	return c
}

func mustParseExpr(t *testing.T, src string) ast.Expr {
	t.Helper()
	p := parser.New(src)
	e := p.ParseExpr()
	if p.Diagnostics().HasErrors() {
		t.Fatalf("parsing %q: %s", src, p.Diagnostics().Format("scenario"))
	}
	return e
}

func requireZ3(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("z3"); err != nil {
		t.Skip("z3 not found on PATH, skipping integration test")
	}
}

func TestScenarioSkipPreservesTrue(t *testing.T) {
	requireZ3(t)
	req := VerifyRequest{
		Pre:     mustParseExpr(t, "true"),
		Program: mustParseCmd(t, "skip"),
		Post:    mustParseExpr(t, "true"),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	ok, outcomes := Verify(ctx, req, DefaultOptions())
	if !ok {
		t.Fatalf("expected {true} skip {true} to verify, outcomes: %+v", outcomes)
	}
}

func TestScenarioAliasingAssignment(t *testing.T) {
	requireZ3(t)
	req := VerifyRequest{
		Pre:     mustParseExpr(t, "true"),
		Program: mustParseCmd(t, "a := b; c := a"),
		Post:    mustParseExpr(t, "(a = b) and (a = c)"),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	ok, outcomes := Verify(ctx, req, DefaultOptions())
	if !ok {
		t.Fatalf("expected a:=b;c:=a to establish a=b and a=c, outcomes: %+v", outcomes)
	}
}

func TestScenarioAliasingAssignmentFailsUnderMismatchedPre(t *testing.T) {
	requireZ3(t)
	req := VerifyRequest{
		Pre:     mustParseExpr(t, "c != b"),
		Program: mustParseCmd(t, "a := b; a := c"),
		Post:    mustParseExpr(t, "(a = b) and (a = c)"),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	ok, _ := Verify(ctx, req, DefaultOptions())
	if ok {
		t.Fatalf("expected a:=b;a:=c to NOT establish a=b and a=c when c!=b holds initially")
	}
}

func TestScenarioEuclidStyleGCDLoop(t *testing.T) {
	requireZ3(t)
	req := VerifyRequest{
		Pre:       mustParseExpr(t, "(a > 0) and (b > 0)"),
		Program:   mustParseCmd(t, "while a != b do ( if a > b then a := a - b else b := b - a )"),
		Post:      mustParseExpr(t, "(a > 0) and (a = b)"),
		Invariant: mustParseExpr(t, "a > 0"),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	ok, outcomes := Verify(ctx, req, DefaultOptions())
	if !ok {
		t.Fatalf("expected the Euclid-style gcd loop to verify, outcomes: %+v", outcomes)
	}
}

func TestScenarioIntegerDivisionLoop(t *testing.T) {
	requireZ3(t)
	req := VerifyRequest{
		Pre:       mustParseExpr(t, "(a > 0) and (b > 0)"),
		Program:   mustParseCmd(t, "i := 0; while (b * i) <= a do i := i + 1; i := i - 1"),
		Post:      mustParseExpr(t, "((b * i) <= a) and ((b * (i + 1)) > a)"),
		Invariant: mustParseExpr(t, "(b * i) <= a"),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	ok, outcomes := Verify(ctx, req, DefaultOptions())
	if !ok {
		t.Fatalf("expected the integer-division loop to verify, outcomes: %+v", outcomes)
	}
}

func TestScenarioSynthesizeBranchingThreshold(t *testing.T) {
	requireZ3(t)
	req := SynthesizeRequest{
		Program: mustParseCmd(t, "if x < ?? then y := ?? else y := ??"),
		Inputs: []ast.Expr{
			mustParseExpr(t, "x = 0"),
			mustParseExpr(t, "x = 1"),
			mustParseExpr(t, "x = -4"),
		},
		Outputs: []ast.Expr{
			mustParseExpr(t, "y = 3"),
			mustParseExpr(t, "y = 5"),
			mustParseExpr(t, "y = 3"),
		},
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	model, ok, outcomes := Synthesize(ctx, req, DefaultOptions())
	if !ok {
		t.Fatalf("expected a model for the branching threshold sketch, outcomes: %+v", outcomes)
	}
	if len(model) != 3 {
		t.Fatalf("expected 3 hole bindings, got %d: %+v", len(model), model)
	}
}

func TestScenarioSynthesizeOverconstrainedArraySwapHasNoModel(t *testing.T) {
	requireZ3(t)
	req := SynthesizeRequest{
		Program: mustParseCmd(t, "a[0] := a[??] + ??; a[1] := a[??] + ??; a[2] := a[??] + ??"),
		Inputs:  []ast.Expr{mustParseExpr(t, "true")},
		Outputs: []ast.Expr{mustParseExpr(t, "(a[0] < a[1]) and ((a[1] < a[2]) and (a[2] < a[3]))")},
	}
	opts := DefaultOptions()
	opts.MaxUnfoldDepth = 0 // loop-free program: no unfolding retries needed
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, ok, outcomes := Synthesize(ctx, req, opts)
	if ok {
		t.Fatalf("expected no model for the overconstrained array-swap sketch, outcomes: %+v", outcomes)
	}
}
