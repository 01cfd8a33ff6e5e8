package printer

import (
	"strings"
	"testing"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"

	"github.com/lhaig/whileverify/internal/ast"
	"github.com/lhaig/whileverify/internal/parser"
)

func TestPrintSkip(t *testing.T) {
	if got := Print(&ast.Skip{}, nil); got != "skip" {
		t.Fatalf("Print(skip) = %q, want skip", got)
	}
}

func TestPrintAssign(t *testing.T) {
	c := &ast.Assign{Name: "x", Value: ast.NewIntLit(1, 1, 5)}
	if got := Print(c, nil); got != "x := 5" {
		t.Fatalf("Print(x:=5) = %q, want x := 5", got)
	}
}

func TestPrintArrayAssign(t *testing.T) {
	c := &ast.ArrayAssign{Array: "a", Index: ast.NewVarRef(1, 1, "i"), Value: ast.NewIntLit(1, 1, 0)}
	if got := Print(c, nil); got != "a[i] := 0" {
		t.Fatalf("Print(a[i]:=0) = %q, want a[i] := 0", got)
	}
}

func TestPrintBinaryIsFullyParenthesized(t *testing.T) {
	e := &ast.Binary{
		Op:   ast.Add,
		Left: ast.NewIntLit(1, 1, 1),
		Right: &ast.Binary{
			Op:    ast.Mul,
			Left:  ast.NewIntLit(1, 1, 2),
			Right: ast.NewIntLit(1, 1, 3),
		},
	}
	c := &ast.Assign{Name: "x", Value: e}
	got := Print(c, nil)
	want := "x := (1 + (2 * 3))"
	if got != want {
		t.Fatalf("Print() = %q, want %q", got, want)
	}
}

func TestPrintHoleSubstitutesModelValue(t *testing.T) {
	c := &ast.Assign{Name: "x", Value: ast.NewHole(1, 1)}
	ast.AssignHoleIDs(c)

	got := Print(c, map[int]int64{0: 7})
	if got != "x := 7" {
		t.Fatalf("Print with model = %q, want x := 7", got)
	}
}

func TestPrintHoleMissingFromModelRendersZero(t *testing.T) {
	c := &ast.Assign{Name: "x", Value: ast.NewHole(1, 1)}
	ast.AssignHoleIDs(c)

	got := Print(c, map[int]int64{})
	if got != "x := 0" {
		t.Fatalf("Print with empty model = %q, want x := 0", got)
	}
}

func TestPrintSeqUsesSemicolonNewline(t *testing.T) {
	c := &ast.Seq{
		First:  &ast.Assign{Name: "x", Value: ast.NewIntLit(1, 1, 1)},
		Second: &ast.Assign{Name: "y", Value: ast.NewIntLit(1, 1, 2)},
	}
	got := Print(c, nil)
	want := "x := 1;\ny := 2"
	if got != want {
		t.Fatalf("Print(seq) = %q, want %q", got, want)
	}
}

func TestPrintRoundTripsThroughParser(t *testing.T) {
	src := "y := 0; while y < i do ( x := x + y ; assert x > 0 )"
	p := parser.New(src)
	prog := p.Parse()
	if p.Diagnostics().HasErrors() {
		t.Fatalf("parse error: %s", p.Diagnostics().Format("test"))
	}

	printed := Print(prog, nil)

	p2 := parser.New(printed)
	prog2 := p2.Parse()
	if p2.Diagnostics().HasErrors() {
		t.Fatalf("reparse error on printed output %q: %s", printed, p2.Diagnostics().Format("test"))
	}

	printedAgain := Print(prog2, nil)
	if printedAgain != printed {
		dmp := diffpatch.New()
		diffs := dmp.DiffMain(printed, printedAgain, false)
		t.Fatalf("printed output is not stable under reparse+reprint:\n%s", dmp.DiffPrettyText(diffs))
	}
	if !strings.Contains(printed, "while") {
		t.Fatalf("printed output lost the while loop: %q", printed)
	}
}
