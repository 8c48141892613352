// Package csp provides binary-CSP solving.
// This file implements AC-3 arc-consistency propagation over one
// branch's working domains.
package csp

// revise enforces arc consistency on the single arc i->j: every value
// x left in i's working domain must have at least one supporting
// value y in j's working domain with (x, y) legal for the arc. Values
// without support are removed from i's working domain in place.
// Reports whether anything was removed.
//
// Membership in the arc's pair-set is a hash lookup, so one revise
// call costs O(|domain(i)| * |domain(j)|) rather than scanning the
// relation per pair. revise runs O(arcs) times per propagation round,
// which is where a linear-scan relation would blow up on large
// domains.
func (s *Solver[V]) revise(a *Assignment[V], i, j string) bool {
	rel := s.graph.relation(Arc{From: i, To: j})
	di := a.domains[i]
	dj := a.domains[j]

	kept := di[:0]
	for _, x := range di {
		supported := false
		for _, y := range dj {
			if _, ok := rel[pair[V]{x, y}]; ok {
				supported = true
				break
			}
		}
		if supported {
			kept = append(kept, x)
		}
	}
	a.domains[i] = kept
	return len(kept) != len(di)
}

// propagate runs AC-3 to a fixpoint over the assignment's working
// domains, starting from the given arc queue. The queue is FIFO.
// Whenever revise shrinks i's domain:
//
//   - an emptied domain fails the whole branch immediately, without
//     draining the rest of the queue;
//   - otherwise every arc targeting i is re-enqueued, except the arc
//     that was just processed (re-checking it could not remove more:
//     its revision just reached support against the shrunken domain).
//
// The exclusion compares arcs by value, i.e. the (From, To) pair.
// Reports true when the queue empties with no empty domain.
func (s *Solver[V]) propagate(a *Assignment[V], queue []Arc) bool {
	// Defensive copy: the caller's slice (often graph.Arcs()) must
	// not grow under append.
	work := append([]Arc(nil), queue...)

	for len(work) > 0 {
		arc := work[0]
		work = work[1:]

		if !s.revise(a, arc.From, arc.To) {
			continue
		}
		if len(a.domains[arc.From]) == 0 {
			return false
		}
		for _, back := range s.graph.NeighborArcs(arc.From) {
			if back != arc {
				work = append(work, back)
			}
		}
	}
	return true
}
