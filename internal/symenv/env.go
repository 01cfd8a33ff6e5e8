// Package symenv implements the immutable symbolic environment that
// internal/eval and internal/wp thread through a command's weakest
// precondition computation: a mapping from program variable to the
// SMT-LIB term that currently denotes it, plus the fresh-name counters
// needed to havoc a variable without colliding with an earlier version
// of itself.
package symenv

import "fmt"

// Predicate is a deferred SMT-LIB formula: given the environment it
// should be evaluated against, it renders the formula text. internal/wp
// builds these by composing internal/eval term rendering across command
// rules; it is declared here, not in internal/wp, so that Env.Invariant
// can hold one without an import cycle between the two packages.
type Predicate func(*Env) string

// Env binds each scalar and array variable to the SMT-LIB term that
// denotes its current symbolic value, together with the active loop
// invariant (if any). Its bindings are never mutated in place: every
// update method returns a new Env holding its own copy of them, so two
// branches of an If or two retries of a loop unrolling can each hold
// their own view of the same starting Env without interference.
type Env struct {
	scalars map[string]string // var name -> SMT term (Int sort)
	arrays  map[string]string // array name -> SMT term (Array Int Int sort)
	counter map[string]int    // var name -> next unused suffix for Fresh

	// Invariant holds the loop invariant that the loop rule applies to
	// every While node; internal/driver sets it on the root environment
	// and every derived Env carries it along. It is a dedicated field rather than a disguised map entry because
	// an invariant is evaluated against two different environments (the
	// entry state and the havoced state) and is never itself havoced.
	Invariant Predicate
}

// New creates an environment where every name in scalars maps to itself
// as its own initial SMT term, and every name in arrays likewise.
func New(scalars, arrays []string) *Env {
	e := &Env{
		scalars: make(map[string]string, len(scalars)),
		arrays:  make(map[string]string, len(arrays)),
		counter: make(map[string]int),
	}
	for _, s := range scalars {
		e.scalars[s] = s
	}
	for _, a := range arrays {
		e.arrays[a] = a
	}
	return e
}

func (e *Env) clone() *Env {
	n := &Env{
		scalars:   make(map[string]string, len(e.scalars)),
		arrays:    make(map[string]string, len(e.arrays)),
		counter:   make(map[string]int, len(e.counter)),
		Invariant: e.Invariant,
	}
	for k, v := range e.scalars {
		n.scalars[k] = v
	}
	for k, v := range e.arrays {
		n.arrays[k] = v
	}
	for k, v := range e.counter {
		n.counter[k] = v
	}
	return n
}

// Scalar returns the SMT term currently bound to scalar variable name.
func (e *Env) Scalar(name string) (string, bool) {
	t, ok := e.scalars[name]
	return t, ok
}

// Array returns the SMT term currently bound to array variable name.
func (e *Env) Array(name string) (string, bool) {
	t, ok := e.arrays[name]
	return t, ok
}

// With returns a copy of e with scalar name rebound to term.
func (e *Env) With(name, term string) *Env {
	n := e.clone()
	n.scalars[name] = term
	return n
}

// WithArray returns a copy of e with array name rebound to term.
func (e *Env) WithArray(name, term string) *Env {
	n := e.clone()
	n.arrays[name] = term
	return n
}

// WithInvariant returns a copy of e carrying the given loop invariant.
func (e *Env) WithInvariant(inv Predicate) *Env {
	n := e.clone()
	n.Invariant = inv
	return n
}

// Clone returns an independent copy of e, so that an allocator method
// like Fresh can be called on the copy without advancing e's own
// counters.
func (e *Env) Clone() *Env {
	return e.clone()
}

// Fresh returns a new SMT term for name that has not been handed out by
// any earlier call to Fresh(name) on e, using the smallest unused suffix
// k in "<name>_k". Unlike With/WithArray, Fresh advances e's counter in
// place rather than returning a copy: it is an allocator, not a binding
// update, and a clone made after the call starts counting from the new
// k. It does not rebind name; callers combine Fresh with With/WithArray
// to havoc a variable.
func (e *Env) Fresh(name string) string {
	k := e.counter[name]
	term := fmt.Sprintf("%s_%d", name, k)
	e.counter[name] = k + 1
	return term
}

// Scalars returns every scalar variable name currently bound, in no
// particular order.
func (e *Env) Scalars() []string {
	names := make([]string, 0, len(e.scalars))
	for k := range e.scalars {
		names = append(names, k)
	}
	return names
}

// Arrays returns every array variable name currently bound, in no
// particular order.
func (e *Env) Arrays() []string {
	names := make([]string, 0, len(e.arrays))
	for k := range e.arrays {
		names = append(names, k)
	}
	return names
}
