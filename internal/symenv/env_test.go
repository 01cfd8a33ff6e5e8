package symenv

import "testing"

func TestNewBindsIdentity(t *testing.T) {
	e := New([]string{"x", "y"}, []string{"a"})

	if term, ok := e.Scalar("x"); !ok || term != "x" {
		t.Fatalf("Scalar(x) = %q, %v; want x, true", term, ok)
	}
	if term, ok := e.Array("a"); !ok || term != "a" {
		t.Fatalf("Array(a) = %q, %v; want a, true", term, ok)
	}
	if _, ok := e.Scalar("z"); ok {
		t.Fatalf("Scalar(z) unexpectedly bound")
	}
}

func TestWithDoesNotMutateOriginal(t *testing.T) {
	e := New([]string{"x"}, nil)
	e2 := e.With("x", "x_1")

	if term, _ := e.Scalar("x"); term != "x" {
		t.Fatalf("original env mutated: Scalar(x) = %q, want x", term)
	}
	if term, _ := e2.Scalar("x"); term != "x_1" {
		t.Fatalf("new env not rebound: Scalar(x) = %q, want x_1", term)
	}
}

func TestWithArrayDoesNotMutateOriginal(t *testing.T) {
	e := New(nil, []string{"a"})
	e2 := e.WithArray("a", "a_1")

	if term, _ := e.Array("a"); term != "a" {
		t.Fatalf("original env mutated: Array(a) = %q, want a", term)
	}
	if term, _ := e2.Array("a"); term != "a_1" {
		t.Fatalf("new env not rebound: Array(a) = %q, want a_1", term)
	}
}

func TestFreshSmallestUnusedSuffix(t *testing.T) {
	e := New([]string{"x"}, nil)

	if got := e.Fresh("x"); got != "x_0" {
		t.Fatalf("first Fresh(x) = %q, want x_0", got)
	}
	if got := e.Fresh("x"); got != "x_1" {
		t.Fatalf("second Fresh(x) = %q, want x_1", got)
	}
	if got := e.Fresh("y"); got != "y_0" {
		t.Fatalf("Fresh(y) = %q, want y_0 (independent counter)", got)
	}
}

func TestWithInvariantRoundTrip(t *testing.T) {
	e := New(nil, nil)
	if e.Invariant != nil {
		t.Fatalf("fresh env has non-nil Invariant")
	}

	marker := func(*Env) string { return "marker" }
	e2 := e.WithInvariant(marker)
	if e.Invariant != nil {
		t.Fatalf("WithInvariant mutated original")
	}
	if e2.Invariant == nil || e2.Invariant(e2) != "marker" {
		t.Fatalf("WithInvariant(e2).Invariant(e2) = %v, want marker", e2.Invariant)
	}
}
