// Package csp provides binary-CSP solving.
// This file implements backtracking search: variable/value selection,
// branch isolation, recursive descent, and diagnostics.
//
// # How a search runs
//
// Solve builds the root assignment from the graph's original domains
// and runs one global AC-3 pass over the full arc set. If that pass
// empties a domain, the problem is unsatisfiable before any branching
// happens. Otherwise the search repeatedly:
//
//  1. picks one undecided variable (pluggable Strategy, uniform
//     random by default),
//  2. for each value of that variable's ORIGINAL domain, clones the
//     assignment, pins the variable to the value, and re-runs AC-3
//     over all arcs,
//  3. recurses into branches whose propagation survives; the first
//     branch in which every variable is decided wins.
//
// Candidate values come from the original domain, not the pruned
// working domain, so a failure in one sibling branch never hides a
// value from the next. Branch isolation is by deep copy: no working
// domain is ever shared between a parent and a child, or between
// siblings.
package csp

import (
	"context"
	"sync"
	"time"

	"github.com/gitrdm/gocsp/internal/parallel"
)

// Stats counts search effort. Calls is the number of search nodes
// entered; Failures is the number of nodes that exhausted every
// candidate value without finding a solution. The counters are
// diagnostics only: nothing in the search consults them.
type Stats struct {
	Calls    int
	Failures int
}

// Result is the outcome of a search. Unsatisfiable is a normal
// outcome, not an error: Satisfiable is false and Solution is nil.
// When Satisfiable is true, Solution is a complete assignment (every
// variable decided, every registered arc satisfied).
type Result[V comparable] struct {
	Solution    *Assignment[V]
	Satisfiable bool
	Stats       Stats
}

// Solver runs backtracking search with AC-3 propagation over a Graph.
// A Solver is cheap to create: the graph is shared
// read-only, so creating one Solver per search is the intended
// pattern. Solvers are not safe for concurrent use; SolveParallel
// manages its own per-worker solvers internally.
type Solver[V comparable] struct {
	graph    *Graph[V]
	strategy Strategy[V]
	seed     int64
	stats    Stats
}

// Option configures a Solver.
type Option[V comparable] func(*Solver[V])

// WithStrategy replaces the default uniform-random variable selection.
func WithStrategy[V comparable](st Strategy[V]) Option[V] {
	return func(s *Solver[V]) { s.strategy = st }
}

// WithSeed fixes the seed of the default random strategy, making the
// branch order reproducible. Ignored when WithStrategy is also given.
func WithSeed[V comparable](seed int64) Option[V] {
	return func(s *Solver[V]) { s.seed = seed }
}

// NewSolver creates a solver for the given graph. Without options the
// solver selects variables uniformly at random, seeded from the
// clock.
func NewSolver[V comparable](g *Graph[V], opts ...Option[V]) *Solver[V] {
	s := &Solver[V]{
		graph: g,
		seed:  time.Now().UnixNano(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.strategy == nil {
		s.strategy = NewRandomStrategy[V](s.seed)
	}
	return s
}

// Stats returns the effort counters accumulated so far.
func (s *Solver[V]) Stats() Stats {
	return s.stats
}

// Solve runs the search and returns its outcome. The only error it
// returns is ctx.Err() when the context is cancelled; "no solution"
// is reported through Result.Satisfiable, not through the error.
func (s *Solver[V]) Solve(ctx context.Context) (*Result[V], error) {
	root := newAssignment(s.graph)
	if !s.propagate(root, s.graph.Arcs()) {
		return &Result[V]{Satisfiable: false, Stats: s.stats}, nil
	}
	sol, err := s.backtrack(ctx, root)
	if err != nil {
		return nil, err
	}
	return s.result(sol), nil
}

func (s *Solver[V]) result(sol *Assignment[V]) *Result[V] {
	if sol == nil {
		return &Result[V]{Satisfiable: false, Stats: s.stats}
	}
	return &Result[V]{Solution: sol, Satisfiable: true, Stats: s.stats}
}

// backtrack explores one search node. It returns a complete
// assignment on success, nil when every candidate value of the chosen
// variable fails, and an error only on cancellation.
func (s *Solver[V]) backtrack(ctx context.Context, a *Assignment[V]) (*Assignment[V], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.stats.Calls++

	if a.complete() {
		return a, nil
	}

	name := s.strategy.Pick(a)
	// Candidates come from the original domain on purpose: sibling
	// branches prune their own copies, and those removals must not
	// leak into this node's value ordering.
	for _, v := range s.graph.domains[name] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		child := a.Clone()
		child.assign(name, v)
		if !s.propagate(child, s.graph.Arcs()) {
			continue
		}
		sol, err := s.backtrack(ctx, child)
		if err != nil {
			return nil, err
		}
		if sol != nil {
			return sol, nil
		}
	}

	s.stats.Failures++
	return nil, nil
}

// SolveIterative is Solve with an explicit stack instead of
// recursion, for instances whose variable count would overflow the
// goroutine stack. Branch ordering, strategy calls, and the stats
// counters behave exactly as in the recursive form.
func (s *Solver[V]) SolveIterative(ctx context.Context) (*Result[V], error) {
	root := newAssignment(s.graph)
	if !s.propagate(root, s.graph.Arcs()) {
		return &Result[V]{Satisfiable: false, Stats: s.stats}, nil
	}

	type frame struct {
		a      *Assignment[V]
		name   string
		values []V
		next   int
	}

	enter := func(a *Assignment[V]) (*frame, bool) {
		s.stats.Calls++
		if a.complete() {
			return nil, true
		}
		name := s.strategy.Pick(a)
		return &frame{a: a, name: name, values: s.graph.domains[name]}, false
	}

	rootFrame, solved := enter(root)
	if solved {
		return s.result(root), nil
	}
	stack := []*frame{rootFrame}

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		top := stack[len(stack)-1]
		if top.next >= len(top.values) {
			s.stats.Failures++
			stack = stack[:len(stack)-1]
			continue
		}
		v := top.values[top.next]
		top.next++

		child := top.a.Clone()
		child.assign(top.name, v)
		if !s.propagate(child, s.graph.Arcs()) {
			continue
		}
		f, solved := enter(child)
		if solved {
			return s.result(child), nil
		}
		stack = append(stack, f)
	}

	return &Result[V]{Satisfiable: false, Stats: s.stats}, nil
}

// SolveParallel splits the search at the root: after the global
// propagation pass it picks one variable and hands each of its
// original-domain values to a bounded worker pool, where an
// independent sub-solver searches that branch to completion. The
// first complete assignment wins and cancels the remaining branches.
//
// Branches share only the read-only graph. Every worker gets its own
// deep-copied assignment and its own random strategy (seeded from the
// solver's seed), so the isolation model of the sequential search is
// preserved. Stats from all branches are summed into this solver.
//
// workers <= 0 selects one worker per CPU.
func (s *Solver[V]) SolveParallel(ctx context.Context, workers int) (*Result[V], error) {
	root := newAssignment(s.graph)
	if !s.propagate(root, s.graph.Arcs()) {
		return &Result[V]{Satisfiable: false, Stats: s.stats}, nil
	}
	if root.complete() {
		s.stats.Calls++
		return s.result(root), nil
	}

	name := s.strategy.Pick(root)
	values := s.graph.domains[name]

	branchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	pool := parallel.NewPool(workers)
	defer pool.Shutdown()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		solution *Assignment[V]
	)

	for k, v := range values {
		sub := &Solver[V]{
			graph:    s.graph,
			strategy: NewRandomStrategy[V](s.seed + int64(k) + 1),
		}
		child := root.Clone()
		child.assign(name, v)

		wg.Add(1)
		err := pool.Submit(branchCtx, func() {
			defer wg.Done()
			if !sub.propagate(child, s.graph.Arcs()) {
				mu.Lock()
				s.stats.Calls += sub.stats.Calls
				s.stats.Failures += sub.stats.Failures
				mu.Unlock()
				return
			}
			sol, err := sub.backtrack(branchCtx, child)
			mu.Lock()
			s.stats.Calls += sub.stats.Calls
			s.stats.Failures += sub.stats.Failures
			if err == nil && sol != nil && solution == nil {
				solution = sol
				cancel()
			}
			mu.Unlock()
		})
		if err != nil {
			// The pool refused the task: the context is done.
			wg.Done()
			break
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	mu.Lock()
	defer mu.Unlock()
	return s.result(solution), nil
}
