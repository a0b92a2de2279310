package vocabulary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agisystem2/core/internal/strategy/densebinary"
	"agisystem2/core/internal/vector"
)

func newTestVocab() *Vocabulary {
	return New(densebinary.Strategy{}, 2048, "vocab-test")
}

func TestGetOrCreateIsDeterministic(t *testing.T) {
	v := newTestVocab()
	a := v.GetOrCreate("Dog")
	b := v.GetOrCreate("Dog")
	assert.Equal(t, a.Vector.Dense, b.Vector.Dense)
	assert.Equal(t, 1, v.Size())
}

func TestGetOrCreateTracksKindBuckets(t *testing.T) {
	v := newTestVocab()
	v.GetOrCreateOperator("isA")
	v.GetOrCreate("Dog")
	v.GetOrCreatePosition(0)

	var ops []string
	v.IterateKind(KindOperator, func(name string, _ vector.Vector) bool { ops = append(ops, name); return true })
	assert.Equal(t, []string{"isA"}, ops)

	var entities []string
	v.IterateKind(KindEntity, func(name string, _ vector.Vector) bool { entities = append(entities, name); return true })
	assert.Equal(t, []string{"Dog"}, entities)

	var positions []string
	v.IterateKind(KindPosition, func(name string, _ vector.Vector) bool { positions = append(positions, name); return true })
	assert.Len(t, positions, 1)
}

func TestLookupAndMustLookup(t *testing.T) {
	v := newTestVocab()
	_, ok := v.Lookup("Ghost")
	assert.False(t, ok)

	_, err := v.MustLookup("Ghost")
	assert.Error(t, err)

	v.GetOrCreate("Dog")
	a, ok := v.Lookup("Dog")
	require.True(t, ok)
	assert.Equal(t, "Dog", a.Name)
}

func TestIterateVisitsInsertionOrder(t *testing.T) {
	v := newTestVocab()
	v.GetOrCreate("Alice")
	v.GetOrCreate("Bob")
	v.GetOrCreate("Carol")

	var seen []string
	v.Iterate(func(name string, _ vector.Vector) bool {
		seen = append(seen, name)
		return true
	})
	assert.Equal(t, []string{"Alice", "Bob", "Carol"}, seen)
}

func TestIterateStopsEarly(t *testing.T) {
	v := newTestVocab()
	v.GetOrCreate("Alice")
	v.GetOrCreate("Bob")
	v.GetOrCreate("Carol")

	var seen []string
	v.Iterate(func(name string, _ vector.Vector) bool {
		seen = append(seen, name)
		return len(seen) < 1
	})
	assert.Equal(t, []string{"Alice"}, seen)
}

func TestTopKSimilarReturnsSelfAsTopMatch(t *testing.T) {
	v := newTestVocab()
	v.GetOrCreate("Alice")
	v.GetOrCreate("Bob")
	v.GetOrCreate("Carol")

	alice, _ := v.Lookup("Alice")
	scored, err := v.TopKSimilar(alice.Vector, 1)
	require.NoError(t, err)
	require.Len(t, scored, 1)
	assert.Equal(t, "Alice", scored[0].Name)
}

func TestTopKSimilarAgreesWithAcceleratedTopKSimilar(t *testing.T) {
	v := newTestVocab()
	for _, name := range []string{"Alice", "Bob", "Carol", "Dave", "Erin"} {
		v.GetOrCreate(name)
	}

	alice, _ := v.Lookup("Alice")
	linear, err := v.TopKSimilar(alice.Vector, 3)
	require.NoError(t, err)

	accelerated, ok := v.AcceleratedTopKSimilar(alice.Vector, 3)
	require.True(t, ok, "dense-binary vocabularies always install an accelerator")

	require.Len(t, accelerated, len(linear))
	for i := range linear {
		assert.Equal(t, linear[i].Name, accelerated[i].Name, "rank %d should agree between linear scan and accelerator", i)
		assert.InDelta(t, linear[i].Similarity, accelerated[i].Similarity, 1e-4, "cosine-over-bipolar equals Hamming similarity exactly up to float32 rounding")
	}
}

func TestNamesReturnsInsertionOrderCopy(t *testing.T) {
	v := newTestVocab()
	v.GetOrCreate("Alice")
	v.GetOrCreate("Bob")
	names := v.Names()
	assert.Equal(t, []string{"Alice", "Bob"}, names)
	names[0] = "Mutated"
	again := v.Names()
	assert.Equal(t, "Alice", again[0], "mutating the returned slice must not affect the vocabulary")
}
