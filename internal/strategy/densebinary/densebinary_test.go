package densebinary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agisystem2/core/internal/strategy/strategytest"
	"agisystem2/core/internal/vector"
)

func TestSuite(t *testing.T) {
	strategytest.Suite(t, Strategy{}, 4096)
}

func TestRegisteredAtInit(t *testing.T) {
	s, ok := vector.Lookup(ID)
	require.True(t, ok)
	assert.Equal(t, ID, s.ID())
}

func TestCreateZeroIsAllZeroBits(t *testing.T) {
	z := Strategy{}.CreateZero(128)
	for _, w := range z.Dense {
		assert.Equal(t, uint64(0), w)
	}
}

func TestBundleEmptyIsError(t *testing.T) {
	_, err := Strategy{}.Bundle(nil)
	assert.Error(t, err)
}

func TestMaskTrailingBitsClampsGeometry(t *testing.T) {
	v := Strategy{}.CreateFromName("X", 70, "t")
	assert.Equal(t, 2, len(v.Dense))
	// bits 70..127 of the final word must be clear.
	assert.Equal(t, uint64(0), v.Dense[1]>>6)
}

func TestExtendGrowsAndPreservesPrefix(t *testing.T) {
	s := Strategy{}
	v := s.CreateFromName("Alice", 64, "t")
	grown, err := s.Extend(v, 128)
	require.NoError(t, err)
	assert.Equal(t, v.Dense[0], grown.Dense[0])
	assert.Equal(t, 128, grown.Geometry)
}

func TestExtendShrinkIsUnsupported(t *testing.T) {
	s := Strategy{}
	v := s.CreateFromName("Alice", 128, "t")
	_, err := s.Extend(v, 64)
	assert.Error(t, err)
}

func TestSimilarityOfUnrelatedVectorsNearHalf(t *testing.T) {
	s := Strategy{}
	a := s.CreateFromName("Alice", 1<<14, "t")
	b := s.CreateFromName("Bob", 1<<14, "t")
	sim, err := s.Similarity(a, b)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, sim, 0.05)
}
