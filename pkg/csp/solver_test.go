package csp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	australiaRegions = []string{"WA", "NT", "Q", "NSW", "V", "SA", "T"}
	australiaBorders = map[string][]string{
		"SA":  {"WA", "NT", "Q", "NSW", "V"},
		"NT":  {"WA", "Q"},
		"NSW": {"Q", "V"},
	}
)

func australiaGraph(t *testing.T) *Graph[string] {
	t.Helper()
	g := NewGraph[string]()
	colors := []string{"red", "green", "blue"}
	for _, region := range australiaRegions {
		require.NoError(t, g.AddVariable(region, colors))
	}
	differ := func(a, b string) bool { return a != b }
	for region, neighbors := range australiaBorders {
		for _, neighbor := range neighbors {
			require.NoError(t, g.AddConstraint(region, neighbor, differ))
			require.NoError(t, g.AddConstraint(neighbor, region, differ))
		}
	}
	return g
}

func pigeonholeGraph(t *testing.T, pigeons, holes int) *Graph[int] {
	t.Helper()
	g := NewGraph[int]()
	domain := make([]int, holes)
	for i := range domain {
		domain[i] = i + 1
	}
	names := make([]string, pigeons)
	for i := range names {
		names[i] = string(rune('a' + i))
		require.NoError(t, g.AddVariable(names[i], domain))
	}
	require.NoError(t, g.AddAllDifferent(names))
	return g
}

// assertSound checks that every registered arc is satisfied by the
// decided values of a complete solution.
func assertSound[V comparable](t *testing.T, g *Graph[V], a *Assignment[V]) {
	t.Helper()
	for _, arc := range g.Arcs() {
		vi, ok := a.Value(arc.From)
		require.True(t, ok, "%s is not decided", arc.From)
		vj, ok := a.Value(arc.To)
		require.True(t, ok, "%s is not decided", arc.To)
		assert.True(t, g.Allows(arc.From, arc.To, vi, vj),
			"arc %v violated by (%v, %v)", arc, vi, vj)
	}
}

func TestSolveMapColoring(t *testing.T) {
	g := australiaGraph(t)
	solver := NewSolver(g, WithSeed[string](42))

	result, err := solver.Solve(context.Background())
	require.NoError(t, err)
	require.True(t, result.Satisfiable)

	t.Run("every variable is decided", func(t *testing.T) {
		for _, region := range australiaRegions {
			_, ok := result.Solution.Value(region)
			assert.True(t, ok, "region %s undecided", region)
		}
	})

	t.Run("adjacent regions differ", func(t *testing.T) {
		for region, neighbors := range australiaBorders {
			for _, neighbor := range neighbors {
				assert.NotEqual(t,
					result.Solution.MustValue(region),
					result.Solution.MustValue(neighbor),
					"%s and %s share a color", region, neighbor)
			}
		}
	})

	t.Run("solution satisfies every arc", func(t *testing.T) {
		assertSound(t, g, result.Solution)
	})

	t.Run("diagnostics are populated", func(t *testing.T) {
		assert.GreaterOrEqual(t, result.Stats.Calls, 1)
	})
}

func TestSolvePigeonhole(t *testing.T) {
	t.Run("n pigeons into n-1 holes is unsatisfiable", func(t *testing.T) {
		g := pigeonholeGraph(t, 4, 3)
		solver := NewSolver(g, WithSeed[int](7))

		result, err := solver.Solve(context.Background())
		require.NoError(t, err)
		assert.False(t, result.Satisfiable)
		assert.Nil(t, result.Solution)
	})

	t.Run("n pigeons into n holes succeeds", func(t *testing.T) {
		g := pigeonholeGraph(t, 3, 3)
		solver := NewSolver(g, WithSeed[int](7))

		result, err := solver.Solve(context.Background())
		require.NoError(t, err)
		require.True(t, result.Satisfiable)
		assertSound(t, g, result.Solution)
	})
}

func TestSolveRootPropagationFailure(t *testing.T) {
	// Contradictory before any branching: the initial AC-3 pass must
	// report unsatisfiability without a single backtrack call.
	g := NewGraph[int]()
	require.NoError(t, g.AddVariable("x", []int{1}))
	require.NoError(t, g.AddVariable("y", []int{1}))
	require.NoError(t, g.AddAllDifferent([]string{"x", "y"}))

	solver := NewSolver(g, WithSeed[int](1))
	result, err := solver.Solve(context.Background())
	require.NoError(t, err)
	assert.False(t, result.Satisfiable)
	assert.Zero(t, result.Stats.Calls)
	assert.Zero(t, result.Stats.Failures)
}

func TestSolveDecidedByPropagationAlone(t *testing.T) {
	// x < y < z over 1..3 has exactly one solution, found by the
	// initial propagation; the search sees a complete assignment at
	// its first node.
	g := chainGraph(t)
	solver := NewSolver(g, WithSeed[int](1))

	result, err := solver.Solve(context.Background())
	require.NoError(t, err)
	require.True(t, result.Satisfiable)
	assert.Equal(t, 1, result.Stats.Calls)
	assert.Zero(t, result.Stats.Failures)
	assert.Equal(t, 1, result.Solution.MustValue("x"))
	assert.Equal(t, 2, result.Solution.MustValue("y"))
	assert.Equal(t, 3, result.Solution.MustValue("z"))
}

func TestDiagnostics(t *testing.T) {
	t.Run("failures only on exhausted nodes", func(t *testing.T) {
		g := pigeonholeGraph(t, 4, 3)
		solver := NewSolver(g, WithSeed[int](3))

		result, err := solver.Solve(context.Background())
		require.NoError(t, err)
		assert.False(t, result.Satisfiable)
		if result.Stats.Calls > 0 {
			assert.GreaterOrEqual(t, result.Stats.Failures, 1,
				"an unsatisfiable search that branched must record a failed node")
		}
		assert.GreaterOrEqual(t, result.Stats.Calls, result.Stats.Failures)
	})

	t.Run("stats accessor matches the result snapshot", func(t *testing.T) {
		g := australiaGraph(t)
		solver := NewSolver(g, WithSeed[string](5))
		result, err := solver.Solve(context.Background())
		require.NoError(t, err)
		assert.Equal(t, solver.Stats(), result.Stats)
	})
}

func TestSolveCancellation(t *testing.T) {
	g := australiaGraph(t)
	solver := NewSolver(g, WithSeed[string](11))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := solver.Solve(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, result)
}

func TestSolveReproducibleWithSeed(t *testing.T) {
	first := NewSolver(australiaGraph(t), WithSeed[string](99))
	second := NewSolver(australiaGraph(t), WithSeed[string](99))

	r1, err := first.Solve(context.Background())
	require.NoError(t, err)
	r2, err := second.Solve(context.Background())
	require.NoError(t, err)

	require.True(t, r1.Satisfiable)
	require.True(t, r2.Satisfiable)
	for _, region := range australiaRegions {
		assert.Equal(t, r1.Solution.MustValue(region), r2.Solution.MustValue(region))
	}
	assert.Equal(t, r1.Stats, r2.Stats)
}

func TestSolveIterative(t *testing.T) {
	t.Run("agrees with the recursive form", func(t *testing.T) {
		recursive := NewSolver(australiaGraph(t), WithSeed[string](17))
		iterative := NewSolver(australiaGraph(t), WithSeed[string](17))

		r1, err := recursive.Solve(context.Background())
		require.NoError(t, err)
		r2, err := iterative.SolveIterative(context.Background())
		require.NoError(t, err)

		require.True(t, r1.Satisfiable)
		require.True(t, r2.Satisfiable)
		for _, region := range australiaRegions {
			assert.Equal(t, r1.Solution.MustValue(region), r2.Solution.MustValue(region),
				"same seed must walk the same branches")
		}
		assert.Equal(t, r1.Stats, r2.Stats)
	})

	t.Run("reports unsatisfiable", func(t *testing.T) {
		solver := NewSolver(pigeonholeGraph(t, 4, 3), WithSeed[int](5))
		result, err := solver.SolveIterative(context.Background())
		require.NoError(t, err)
		assert.False(t, result.Satisfiable)
	})

	t.Run("honors cancellation", func(t *testing.T) {
		solver := NewSolver(australiaGraph(t), WithSeed[string](5))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := solver.SolveIterative(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestSolveParallel(t *testing.T) {
	t.Run("finds a valid coloring", func(t *testing.T) {
		g := australiaGraph(t)
		solver := NewSolver(g, WithSeed[string](23))

		result, err := solver.SolveParallel(context.Background(), 4)
		require.NoError(t, err)
		require.True(t, result.Satisfiable)
		assertSound(t, g, result.Solution)
	})

	t.Run("reports unsatisfiable", func(t *testing.T) {
		solver := NewSolver(pigeonholeGraph(t, 4, 3), WithSeed[int](23))
		result, err := solver.SolveParallel(context.Background(), 2)
		require.NoError(t, err)
		assert.False(t, result.Satisfiable)
	})

	t.Run("honors cancellation", func(t *testing.T) {
		solver := NewSolver(australiaGraph(t), WithSeed[string](23))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := solver.SolveParallel(ctx, 2)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
