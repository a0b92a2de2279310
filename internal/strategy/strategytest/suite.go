// Package strategytest exercises the algebraic laws every vector.Strategy
// implementation must satisfy, so dense-binary and sparse-set (and any
// strategy added later) run the same property checks instead of each
// duplicating them.
package strategytest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agisystem2/core/internal/vector"
)

type fixedVocab struct {
	names []string
	vecs  []vector.Vector
}

func (f fixedVocab) Iterate(fn func(name string, v vector.Vector) bool) {
	for i, n := range f.names {
		if !fn(n, f.vecs[i]) {
			return
		}
	}
}

// Suite runs the common strategy law checks against s at the given
// geometry. Callers pass a geometry appropriate to the strategy under
// test (dense-binary wants a real bit width; sparse-set's geometry is
// the exponent-space bound).
func Suite(t *testing.T, s vector.Strategy, geometry int) {
	t.Run("IdentitySimilarity", func(t *testing.T) { testIdentitySimilarity(t, s, geometry) })
	t.Run("BindSelfInverse", func(t *testing.T) { testBindSelfInverse(t, s, geometry) })
	t.Run("BundleOrderIndependent", func(t *testing.T) { testBundleOrderIndependent(t, s, geometry) })
	t.Run("DeterministicCreateFromName", func(t *testing.T) { testDeterministicCreateFromName(t, s, geometry) })
	t.Run("GeometryMismatchRejected", func(t *testing.T) { testGeometryMismatchRejected(t, s, geometry) })
	t.Run("TopKSimilarOrdersDescending", func(t *testing.T) { testTopKSimilarOrdersDescending(t, s, geometry) })
	t.Run("CloneIsIndependent", func(t *testing.T) { testCloneIsIndependent(t, s, geometry) })
}

func testIdentitySimilarity(t *testing.T, s vector.Strategy, geometry int) {
	a := s.CreateFromName("Alice", geometry, "suite")
	sim, err := s.Similarity(a, a)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, sim, 1e-9)
}

func testBindSelfInverse(t *testing.T, s vector.Strategy, geometry int) {
	a := s.CreateFromName("Alice", geometry, "suite")
	b := s.CreateFromName("Bob", geometry, "suite")

	bound, err := s.Bind(a, b)
	require.NoError(t, err)
	recovered, err := s.Bind(bound, b)
	require.NoError(t, err)

	sim, err := s.Similarity(a, recovered)
	require.NoError(t, err)
	assert.Greater(t, sim, 0.99, "Bind(Bind(a,b),b) should recover a")
}

func testBundleOrderIndependent(t *testing.T, s vector.Strategy, geometry int) {
	a := s.CreateFromName("Alice", geometry, "suite")
	b := s.CreateFromName("Bob", geometry, "suite")
	c := s.CreateFromName("Carol", geometry, "suite")

	forward, err := s.Bundle([]vector.Vector{a, b, c})
	require.NoError(t, err)
	reversed, err := s.Bundle([]vector.Vector{c, b, a})
	require.NoError(t, err)

	sim, err := s.Similarity(forward, reversed)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, sim, 1e-9)
}

func testDeterministicCreateFromName(t *testing.T, s vector.Strategy, geometry int) {
	a1 := s.CreateFromName("Alice", geometry, "suite")
	a2 := s.CreateFromName("Alice", geometry, "suite")
	sim, err := s.Similarity(a1, a2)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, sim, 1e-9)

	other := s.CreateFromName("Alice", geometry, "other-theory")
	sim, err = s.Similarity(a1, other)
	require.NoError(t, err)
	assert.Less(t, sim, 1.0, "same name under a different theoryID should not collide")
}

func testGeometryMismatchRejected(t *testing.T, s vector.Strategy, geometry int) {
	a := s.CreateFromName("Alice", geometry, "suite")
	b := s.CreateFromName("Bob", geometry*2, "suite")
	_, err := s.Bind(a, b)
	assert.Error(t, err)
}

func testTopKSimilarOrdersDescending(t *testing.T, s vector.Strategy, geometry int) {
	query := s.CreateFromName("Alice", geometry, "suite")
	vocab := fixedVocab{
		names: []string{"Alice", "Bob", "Carol"},
		vecs: []vector.Vector{
			query,
			s.CreateFromName("Bob", geometry, "suite"),
			s.CreateFromName("Carol", geometry, "suite"),
		},
	}
	scored, err := s.TopKSimilar(query, vocab, 3)
	require.NoError(t, err)
	require.Len(t, scored, 3)
	assert.Equal(t, "Alice", scored[0].Name)
	for i := 1; i < len(scored); i++ {
		assert.GreaterOrEqual(t, scored[i-1].Similarity, scored[i].Similarity)
	}
}

func testCloneIsIndependent(t *testing.T, s vector.Strategy, geometry int) {
	a := s.CreateFromName("Alice", geometry, "suite")
	clone := s.Clone(a)
	sim, err := s.Similarity(a, clone)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, sim, 1e-9)

	// Mutating the clone's payload must leave the original untouched.
	if len(clone.Dense) > 0 {
		clone.Dense[0] = ^clone.Dense[0]
	}
	if len(clone.Sparse) > 0 {
		clone.Sparse[0]++
	}
	sim, err = s.Similarity(a, s.CreateFromName("Alice", geometry, "suite"))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, sim, 1e-9, "mutating a clone must not change the original")
}
