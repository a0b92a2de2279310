package sparseset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agisystem2/core/internal/strategy/strategytest"
	"agisystem2/core/internal/vector"
)

func TestSuite(t *testing.T) {
	strategytest.Suite(t, Strategy{}, 1<<16)
}

func TestRegisteredAtInit(t *testing.T) {
	s, ok := vector.Lookup(ID)
	require.True(t, ok)
	assert.Equal(t, ID, s.ID())
}

func TestCreateFromNameProducesFixedActiveCount(t *testing.T) {
	v := Strategy{}.CreateFromName("Alice", DefaultGeometry, "t")
	assert.Len(t, v.Sparse, 20)
}

func TestBundleCapsAtMaxActive(t *testing.T) {
	s := Strategy{}
	vs := make([]vector.Vector, 0, 30)
	for i := 0; i < 30; i++ {
		vs = append(vs, s.CreateFromName(string(rune('A'+i)), DefaultGeometry, "t"))
	}
	bundled, err := s.Bundle(vs)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(bundled.Sparse), MaxActive)
}

func TestSimilarityOfEmptySetsIsOne(t *testing.T) {
	s := Strategy{}
	zero := s.CreateZero(DefaultGeometry)
	sim, err := s.Similarity(zero, zero)
	require.NoError(t, err)
	assert.Equal(t, 1.0, sim)
}

func TestExtendIsUnsupported(t *testing.T) {
	s := Strategy{}
	v := s.CreateFromName("Alice", DefaultGeometry, "t")
	_, err := s.Extend(v, DefaultGeometry*2)
	assert.Error(t, err)
}
