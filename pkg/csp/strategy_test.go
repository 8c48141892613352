package csp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strategyGraph(t *testing.T) *Graph[int] {
	t.Helper()
	g := NewGraph[int]()
	require.NoError(t, g.AddVariable("wide", []int{1, 2, 3, 4}))
	require.NoError(t, g.AddVariable("narrow", []int{1, 2}))
	require.NoError(t, g.AddVariable("fixed", []int{1}))
	require.NoError(t, g.AddVariable("busy", []int{1, 2, 3}))
	neq := func(a, b int) bool { return a != b }
	require.NoError(t, g.AddConstraint("busy", "wide", neq))
	require.NoError(t, g.AddConstraint("wide", "busy", neq))
	require.NoError(t, g.AddConstraint("busy", "narrow", neq))
	return g
}

func TestRandomStrategy(t *testing.T) {
	g := strategyGraph(t)
	a := newAssignment(g)

	t.Run("only picks undecided variables", func(t *testing.T) {
		st := NewRandomStrategy[int](1)
		for i := 0; i < 50; i++ {
			name := st.Pick(a)
			assert.NotEqual(t, "fixed", name, "picked a decided variable")
			assert.Greater(t, len(a.Domain(name)), 1)
		}
	})

	t.Run("same seed gives the same sequence", func(t *testing.T) {
		first := NewRandomStrategy[int](99)
		second := NewRandomStrategy[int](99)
		for i := 0; i < 20; i++ {
			assert.Equal(t, first.Pick(a), second.Pick(a))
		}
	})
}

func TestMinRemainingValues(t *testing.T) {
	g := strategyGraph(t)
	a := newAssignment(g)
	st := NewMinRemainingValues[int]()

	t.Run("picks the smallest undecided domain", func(t *testing.T) {
		assert.Equal(t, "narrow", st.Pick(a))
	})

	t.Run("skips singletons even when smallest", func(t *testing.T) {
		a := newAssignment(g)
		a.assign("narrow", 1)
		assert.Equal(t, "busy", st.Pick(a))
	})
}

func TestDegreeStrategy(t *testing.T) {
	g := strategyGraph(t)
	a := newAssignment(g)
	st := NewDegreeStrategy(g)

	// busy has three arcs, wide two, narrow one.
	assert.Equal(t, "busy", st.Pick(a))

	a.assign("busy", 1)
	assert.Equal(t, "wide", st.Pick(a))
}
