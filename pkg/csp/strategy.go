// Package csp provides binary-CSP solving.
// This file defines variable-selection strategies for backtracking
// search.
package csp

import "math/rand"

// Strategy picks the next variable to branch on. Pick is called with
// an assignment known to contain at least one undecided variable and
// must return the name of one of them.
//
// Strategies may keep internal state (the random strategy carries its
// own generator), so a single Strategy value must not be shared
// between concurrently running searches.
type Strategy[V comparable] interface {
	Pick(a *Assignment[V]) string
}

// randomStrategy picks uniformly at random among the undecided
// variables. This is the documented baseline behavior of the solver.
type randomStrategy[V comparable] struct {
	rng *rand.Rand
}

// NewRandomStrategy returns the default uniform-random selection
// strategy. The seed makes runs reproducible: the same graph, seed,
// and entry point explore branches in the same order.
func NewRandomStrategy[V comparable](seed int64) Strategy[V] {
	return &randomStrategy[V]{rng: rand.New(rand.NewSource(seed))}
}

func (r *randomStrategy[V]) Pick(a *Assignment[V]) string {
	undecided := a.Undecided()
	return undecided[r.rng.Intn(len(undecided))]
}

// mrvStrategy implements the minimum-remaining-values heuristic:
// branch on the undecided variable with the smallest working domain,
// breaking ties by registration order. Deterministic and typically
// much faster than random selection.
type mrvStrategy[V comparable] struct{}

// NewMinRemainingValues returns the minimum-remaining-values
// heuristic.
func NewMinRemainingValues[V comparable]() Strategy[V] {
	return mrvStrategy[V]{}
}

func (mrvStrategy[V]) Pick(a *Assignment[V]) string {
	best := ""
	bestSize := 0
	for _, name := range a.names {
		size := len(a.domains[name])
		if size <= 1 {
			continue
		}
		if best == "" || size < bestSize {
			best = name
			bestSize = size
		}
	}
	return best
}

// degreeStrategy branches on the undecided variable that participates
// in the most arcs, breaking ties by registration order. The arc
// counts are read from the graph at construction time, so the
// strategy is stateless afterwards.
type degreeStrategy[V comparable] struct {
	degree map[string]int
}

// NewDegreeStrategy returns the degree heuristic for the given graph:
// prefer the undecided variable constrained by the most arcs.
func NewDegreeStrategy[V comparable](g *Graph[V]) Strategy[V] {
	degree := make(map[string]int, len(g.names))
	for _, name := range g.names {
		degree[name] = len(g.outgoing[name]) + len(g.incoming[name])
	}
	return &degreeStrategy[V]{degree: degree}
}

func (d *degreeStrategy[V]) Pick(a *Assignment[V]) string {
	best := ""
	bestDegree := -1
	for _, name := range a.names {
		if len(a.domains[name]) <= 1 {
			continue
		}
		if deg := d.degree[name]; deg > bestDegree {
			best = name
			bestDegree = deg
		}
	}
	return best
}
