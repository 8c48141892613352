// Package csp provides a generic engine for binary constraint
// satisfaction problems: a constraint graph over finite domains,
// AC-3 arc-consistency propagation, and backtracking search that
// interleaves the two.
//
// A problem is modelled as a Graph: named variables, each with an
// immutable original domain, related by directed binary constraints.
// A constraint from variable i to variable j is stored extensionally,
// as the set of (value-of-i, value-of-j) pairs considered legal.
// Registering the i->j direction does not register j->i; callers that
// want a symmetric relation must add both directions (AddAllDifferent
// does this for the inequality family automatically).
//
// Once built, a Graph is a read-only lookup table. Solving never
// mutates it: each search branch works on its own Assignment, a
// value-copied snapshot of the domains that shrinks as propagation
// removes unsupported values.
package csp

import (
	"errors"
	"fmt"
)

// Structural errors raised while building a Graph. They indicate
// caller-configuration mistakes and are never produced during search.
var (
	ErrDuplicateVariable = errors.New("variable already registered")
	ErrUnknownVariable   = errors.New("variable not registered")
	ErrEmptyDomain       = errors.New("domain is empty")
)

// Arc names a directed constraint from one variable to another.
// It is distinct from the unordered notion of "a constraint between
// i and j": the pair (i, j) and the pair (j, i) are different arcs,
// consulted independently by propagation.
type Arc struct {
	From string
	To   string
}

func (a Arc) String() string {
	return fmt.Sprintf("%s->%s", a.From, a.To)
}

// Predicate reports whether the value pair (a, b) is legal for a
// directed constraint. It is evaluated once per pair while the
// constraint is being registered, never during search.
type Predicate[V comparable] func(a, b V) bool

// pair is the hash key for extensional constraint storage. Using a
// struct key gives O(1) membership tests in revise.
type pair[V comparable] struct {
	a, b V
}

// Graph holds the variables, original domains, and directed binary
// constraints of a CSP. It carries no search state: build it once,
// then hand it to a Solver. Graphs are not safe for concurrent
// mutation, but are safe for concurrent reads once construction is
// finished.
type Graph[V comparable] struct {
	// names holds variables in registration order; iteration order
	// of Arcs and strategy tie-breaking derive from it.
	names   []string
	domains map[string][]V

	// relations maps each registered arc to its legal value pairs.
	relations map[Arc]map[pair[V]]struct{}

	// outgoing and incoming keep per-variable arc endpoints in
	// registration order, so Arcs and NeighborArcs are deterministic.
	outgoing map[string][]string
	incoming map[string][]string
}

// NewGraph creates an empty constraint graph.
func NewGraph[V comparable]() *Graph[V] {
	return &Graph[V]{
		domains:   make(map[string][]V),
		relations: make(map[Arc]map[pair[V]]struct{}),
		outgoing:  make(map[string][]string),
		incoming:  make(map[string][]string),
	}
}

// AddVariable registers a new variable with its original domain, the
// ordered sequence of values the variable may take. The original
// domain is fixed for the lifetime of the graph; search branches work
// on copies. Returns ErrDuplicateVariable if the name is taken,
// ErrEmptyDomain if the domain has no values, and an error if the
// domain repeats a value.
func (g *Graph[V]) AddVariable(name string, domain []V) error {
	if _, ok := g.domains[name]; ok {
		return fmt.Errorf("add variable %q: %w", name, ErrDuplicateVariable)
	}
	if len(domain) == 0 {
		return fmt.Errorf("add variable %q: %w", name, ErrEmptyDomain)
	}
	seen := make(map[V]struct{}, len(domain))
	for _, v := range domain {
		if _, dup := seen[v]; dup {
			return fmt.Errorf("add variable %q: duplicate value %v in domain", name, v)
		}
		seen[v] = struct{}{}
	}
	g.names = append(g.names, name)
	g.domains[name] = append([]V(nil), domain...)
	return nil
}

// AddConstraint registers the directed constraint i->j. The legal
// pairs are computed eagerly: the Cartesian product of the two
// original domains, filtered by pred. Calling AddConstraint again for
// the same (i, j) replaces the previous relation rather than merging
// with it; callers wanting a union must pass a combined predicate.
//
// Only the i->j direction is added. A symmetric binary constraint
// needs a second call with i and j swapped.
func (g *Graph[V]) AddConstraint(i, j string, pred Predicate[V]) error {
	di, ok := g.domains[i]
	if !ok {
		return fmt.Errorf("add constraint %s->%s: %q: %w", i, j, i, ErrUnknownVariable)
	}
	dj, ok := g.domains[j]
	if !ok {
		return fmt.Errorf("add constraint %s->%s: %q: %w", i, j, j, ErrUnknownVariable)
	}

	allowed := make(map[pair[V]]struct{})
	for _, a := range di {
		for _, b := range dj {
			if pred(a, b) {
				allowed[pair[V]{a, b}] = struct{}{}
			}
		}
	}

	arc := Arc{From: i, To: j}
	if _, exists := g.relations[arc]; !exists {
		g.outgoing[i] = append(g.outgoing[i], j)
		g.incoming[j] = append(g.incoming[j], i)
	}
	g.relations[arc] = allowed
	return nil
}

// AddAllDifferent posts a pairwise inequality constraint over the
// given variables: for every ordered pair (i, j) with i != j, the arc
// i->j requires the two values to differ. Because every ordered pair
// is visited, both directions of each constraint are registered.
func (g *Graph[V]) AddAllDifferent(names []string) error {
	for _, i := range names {
		for _, j := range names {
			if i == j {
				continue
			}
			if err := g.AddConstraint(i, j, func(a, b V) bool { return a != b }); err != nil {
				return err
			}
		}
	}
	return nil
}

// Arcs returns every registered directed arc. The order is
// deterministic: sources in variable registration order, targets in
// constraint registration order. The returned slice is owned by the
// caller.
func (g *Graph[V]) Arcs() []Arc {
	arcs := make([]Arc, 0, len(g.relations))
	for _, i := range g.names {
		for _, j := range g.outgoing[i] {
			arcs = append(arcs, Arc{From: i, To: j})
		}
	}
	return arcs
}

// NeighborArcs returns every arc (k, v) whose target is v, i.e. the
// arcs that must be re-checked when v's working domain shrinks.
func (g *Graph[V]) NeighborArcs(v string) []Arc {
	in := g.incoming[v]
	arcs := make([]Arc, 0, len(in))
	for _, k := range in {
		arcs = append(arcs, Arc{From: k, To: v})
	}
	return arcs
}

// Variables returns the variable names in registration order.
func (g *Graph[V]) Variables() []string {
	return append([]string(nil), g.names...)
}

// Domain returns a copy of the variable's original domain, or false
// if the variable is not registered.
func (g *Graph[V]) Domain(name string) ([]V, bool) {
	d, ok := g.domains[name]
	if !ok {
		return nil, false
	}
	return append([]V(nil), d...), true
}

// Allows reports whether the pair (a, b) is legal for the arc i->j.
// Returns false for arcs that were never registered.
func (g *Graph[V]) Allows(i, j string, a, b V) bool {
	rel, ok := g.relations[Arc{From: i, To: j}]
	if !ok {
		return false
	}
	_, ok = rel[pair[V]{a, b}]
	return ok
}

// relation returns the pair-set for an arc, or nil if unregistered.
func (g *Graph[V]) relation(arc Arc) map[pair[V]]struct{} {
	return g.relations[arc]
}
