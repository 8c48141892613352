// Package csp provides binary-CSP solving.
// This file defines the Assignment, the per-branch working state of a
// search: one progressively pruned value list per variable.
package csp

import "fmt"

// Assignment maps every variable of a graph to its working domain,
// the values still considered consistent on the current search
// branch. A variable is decided when its working domain holds exactly
// one value, contradictory when it holds none, and undecided
// otherwise.
//
// Each branch owns an independent Assignment. Clone performs a true
// value copy of every working domain, so a branch can never observe a
// sibling's pruning. The graph's original domains are never touched.
type Assignment[V comparable] struct {
	// names aliases the graph's registration-order name list. It is
	// read-only and safely shared between clones.
	names   []string
	domains map[string][]V
}

// newAssignment builds the root assignment: every working domain is a
// copy of the variable's original domain.
func newAssignment[V comparable](g *Graph[V]) *Assignment[V] {
	a := &Assignment[V]{
		names:   g.names,
		domains: make(map[string][]V, len(g.names)),
	}
	for _, name := range g.names {
		a.domains[name] = append([]V(nil), g.domains[name]...)
	}
	return a
}

// Clone returns an independent deep copy. Mutating the clone's
// working domains leaves the receiver untouched.
func (a *Assignment[V]) Clone() *Assignment[V] {
	c := &Assignment[V]{
		names:   a.names,
		domains: make(map[string][]V, len(a.domains)),
	}
	for name, d := range a.domains {
		c.domains[name] = append([]V(nil), d...)
	}
	return c
}

// Decided reports whether the variable's working domain is a
// singleton.
func (a *Assignment[V]) Decided(name string) bool {
	return len(a.domains[name]) == 1
}

// Contradictory reports whether the variable's working domain is
// empty. Search treats this as immediate branch failure.
func (a *Assignment[V]) Contradictory(name string) bool {
	d, ok := a.domains[name]
	return ok && len(d) == 0
}

// Value returns the decided value of a variable. The second result is
// false if the variable is undecided or unknown.
func (a *Assignment[V]) Value(name string) (V, bool) {
	d := a.domains[name]
	if len(d) != 1 {
		var zero V
		return zero, false
	}
	return d[0], true
}

// MustValue returns the decided value of a variable and panics if the
// variable is not decided. Intended for reading out complete
// solutions.
func (a *Assignment[V]) MustValue(name string) V {
	v, ok := a.Value(name)
	if !ok {
		panic(fmt.Sprintf("csp: variable %q is not decided", name))
	}
	return v
}

// Domain returns a copy of the variable's current working domain.
func (a *Assignment[V]) Domain(name string) []V {
	return append([]V(nil), a.domains[name]...)
}

// Variables returns the variable names in registration order.
func (a *Assignment[V]) Variables() []string {
	return append([]string(nil), a.names...)
}

// Undecided returns, in registration order, the variables whose
// working domains still hold more than one value.
func (a *Assignment[V]) Undecided() []string {
	var out []string
	for _, name := range a.names {
		if len(a.domains[name]) > 1 {
			out = append(out, name)
		}
	}
	return out
}

// complete reports whether every working domain is a singleton.
func (a *Assignment[V]) complete() bool {
	for _, name := range a.names {
		if len(a.domains[name]) != 1 {
			return false
		}
	}
	return true
}

// assign replaces a variable's working domain with the singleton {v}.
func (a *Assignment[V]) assign(name string, v V) {
	a.domains[name] = []V{v}
}
