package ast

import "sort"

// NewHole creates an unassigned hole; AssignHoleIDs must run before it is
// evaluated.
func NewHole(line, col int) *Hole {
	return &Hole{pos: pos{Line: line, Column: col}, ID: -1}
}

// AssignHoleIDs walks c in preorder and assigns a stable, zero-based
// identity to every Hole reachable from it that does not already have one.
// It is idempotent: calling it again (e.g. because a retry re-enters the
// driver against the same command) leaves already-assigned holes alone and
// assigns no new ones, since the unfolder shares Hole pointers by
// reference rather than copying them.
func AssignHoleIDs(c Command) {
	next := 0
	walkCommand(c, func(h *Hole) {
		if h.ID < 0 {
			h.ID = next
		}
		if h.ID >= next {
			next = h.ID + 1
		}
	})
}

// CountHoles returns the number of distinct holes reachable from c, by ID.
// AssignHoleIDs must already have run.
func CountHoles(c Command) int {
	return len(HoleIDs(c))
}

// HoleIDs returns every distinct hole identity reachable from c, sorted
// ascending. AssignHoleIDs must already have run.
func HoleIDs(c Command) []int {
	seen := make(map[int]bool)
	walkCommand(c, func(h *Hole) { seen[h.ID] = true })
	ids := make([]int, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Identifiers describes the free scalar and array identifiers reachable
// from a command or expression. Disjointness of the two sets is assumed,
// not checked: neither the parser nor FreeIdentifiers rejects a name used
// both as an array and as a scalar, and such a name lands in both sets.
type Identifiers struct {
	Scalars map[string]bool
	Arrays  map[string]bool
}

func newIdentifiers() *Identifiers {
	return &Identifiers{Scalars: map[string]bool{}, Arrays: map[string]bool{}}
}

// FreeIdentifiers collects every scalar and array identifier referenced or
// assigned anywhere in c.
func FreeIdentifiers(c Command) *Identifiers {
	ids := newIdentifiers()
	walkCommandIdents(c, ids)
	return ids
}

func walkCommand(c Command, visit func(*Hole)) {
	switch n := c.(type) {
	case *Skip:
	case *Assign:
		walkExpr(n.Value, visit)
	case *ArrayAssign:
		walkExpr(n.Index, visit)
		walkExpr(n.Value, visit)
	case *Seq:
		walkCommand(n.First, visit)
		walkCommand(n.Second, visit)
	case *If:
		walkExpr(n.Cond, visit)
		walkCommand(n.Then, visit)
		walkCommand(n.Else, visit)
	case *While:
		walkExpr(n.Cond, visit)
		walkCommand(n.Body, visit)
	case *Assert:
		walkExpr(n.Cond, visit)
	}
}

func walkExpr(e Expr, visit func(*Hole)) {
	switch n := e.(type) {
	case *VarRef, *IntLit, *BoolLit:
	case *ArraySelect:
		walkExpr(n.Index, visit)
	case *Hole:
		visit(n)
	case *Not:
		walkExpr(n.Operand, visit)
	case *Binary:
		walkExpr(n.Left, visit)
		walkExpr(n.Right, visit)
	}
}

func walkCommandIdents(c Command, ids *Identifiers) {
	switch n := c.(type) {
	case *Skip:
	case *Assign:
		ids.Scalars[n.Name] = true
		walkExprIdents(n.Value, ids)
	case *ArrayAssign:
		ids.Arrays[n.Array] = true
		walkExprIdents(n.Index, ids)
		walkExprIdents(n.Value, ids)
	case *Seq:
		walkCommandIdents(n.First, ids)
		walkCommandIdents(n.Second, ids)
	case *If:
		walkExprIdents(n.Cond, ids)
		walkCommandIdents(n.Then, ids)
		walkCommandIdents(n.Else, ids)
	case *While:
		walkExprIdents(n.Cond, ids)
		walkCommandIdents(n.Body, ids)
	case *Assert:
		walkExprIdents(n.Cond, ids)
	}
}

func walkExprIdents(e Expr, ids *Identifiers) {
	switch n := e.(type) {
	case *VarRef:
		ids.Scalars[n.Name] = true
	case *ArraySelect:
		ids.Arrays[n.Array] = true
		walkExprIdents(n.Index, ids)
	case *IntLit, *BoolLit, *Hole:
	case *Not:
		walkExprIdents(n.Operand, ids)
	case *Binary:
		walkExprIdents(n.Left, ids)
		walkExprIdents(n.Right, ids)
	}
}

// MergeExprIdents adds every scalar/array identifier referenced in e (a
// precondition, postcondition, or invariant expression) into ids. Used by
// the driver to make sure predicate-only variables are declared even if
// the command itself never mentions them.
func MergeExprIdents(e Expr, ids *Identifiers) {
	walkExprIdents(e, ids)
}
