// Package unfold syntactically rewrites a while loop into a bounded
// chain of guarded iterations, so that internal/driver can retry a
// failed verification or synthesis query against increasingly deep
// concrete unrollings instead of relying solely on the supplied
// invariant.
package unfold

import "github.com/lhaig/whileverify/internal/ast"

// Unfold returns a command equivalent to running c with every
// `while b do S` replaced by the bounded sequence
// `assert b ; S ; assert b ; S ; … ; assert (not b)` of depth k,
// recursively applying the same transform inside S. For k = 0, a while
// loop becomes exactly `assert (not b)`.
//
// Only While nodes are replaced; every other node reachable from c is
// either returned unchanged (leaves: Skip, Assign, ArrayAssign, Assert)
// or rebuilt one level at a time around its recursively unfolded
// children (Seq, If). Hole identities are preserved because the
// guard expression and the (possibly already-unfolded) loop body are
// shared by reference across every copy in the chain — Unfold never
// deep-copies an Expr, so a hole reachable from the original body is the
// exact same *ast.Hole reachable from every iteration of its unfolding.
func Unfold(c ast.Command, k int) ast.Command {
	switch n := c.(type) {
	case *ast.Seq:
		return &ast.Seq{First: Unfold(n.First, k), Second: Unfold(n.Second, k)}

	case *ast.If:
		return &ast.If{Cond: n.Cond, Then: Unfold(n.Then, k), Else: Unfold(n.Else, k)}

	case *ast.While:
		return unfoldWhile(n, k)

	default:
		return c
	}
}

func unfoldWhile(n *ast.While, k int) ast.Command {
	body := Unfold(n.Body, k)
	negGuard := ast.Command(&ast.Assert{Cond: &ast.Not{Operand: n.Cond}})

	chain := negGuard
	for i := 0; i < k; i++ {
		iteration := &ast.Seq{First: &ast.Assert{Cond: n.Cond}, Second: body}
		chain = &ast.Seq{First: iteration, Second: chain}
	}
	return chain
}
