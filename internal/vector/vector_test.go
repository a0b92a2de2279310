package vector

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agisystem2/core/internal/agierrors"
)

func TestIsZeroValue(t *testing.T) {
	var v Vector
	assert.True(t, v.IsZeroValue())

	v.StrategyID = "dense-binary"
	assert.False(t, v.IsZeroValue())
}

func TestMustMatchDetectsStrategyMismatch(t *testing.T) {
	a := Vector{StrategyID: "dense-binary", Geometry: 64}
	b := Vector{StrategyID: "sparse-set", Geometry: 64}
	err := MustMatch("dense-binary", a, b)
	require.Error(t, err)
	var mm *MismatchError
	require.True(t, errors.As(err, &mm))
	assert.Equal(t, "strategy", mm.Kind)
}

func TestMustMatchDetectsGeometryMismatch(t *testing.T) {
	a := Vector{StrategyID: "dense-binary", Geometry: 64}
	b := Vector{StrategyID: "dense-binary", Geometry: 128}
	err := MustMatch("dense-binary", a, b)
	require.Error(t, err)
	var mm *MismatchError
	require.True(t, errors.As(err, &mm))
	assert.Equal(t, "geometry", mm.Kind)
}

func TestMustMatchPassesForMatchingOperands(t *testing.T) {
	a := Vector{StrategyID: "dense-binary", Geometry: 64}
	b := Vector{StrategyID: "dense-binary", Geometry: 64}
	assert.NoError(t, MustMatch("dense-binary", a, b))
}

func TestTranslateMismatchProducesTypedGeometryError(t *testing.T) {
	a := Vector{StrategyID: "dense-binary", Geometry: 64}
	b := Vector{StrategyID: "dense-binary", Geometry: 128}
	err := TranslateMismatch(MustMatch("dense-binary", a, b))
	var typed *agierrors.Error
	require.True(t, errors.As(err, &typed))
	assert.Equal(t, agierrors.GeometryMismatch, typed.Code)
}

func TestTranslateMismatchPassesThroughOtherErrors(t *testing.T) {
	plain := errors.New("unrelated")
	assert.Equal(t, plain, TranslateMismatch(plain))
}

type fakeStrategy struct{ id string }

func (f fakeStrategy) ID() string                      { return f.id }
func (f fakeStrategy) Thresholds() Thresholds          { return Thresholds{} }
func (f fakeStrategy) CreateZero(int) Vector           { return Vector{StrategyID: f.id} }
func (f fakeStrategy) CreateFromName(string, int, string) Vector {
	return Vector{StrategyID: f.id}
}
func (f fakeStrategy) Bind(a, b Vector) (Vector, error)       { return a, nil }
func (f fakeStrategy) Bundle(vs []Vector) (Vector, error)     { return vs[0], nil }
func (f fakeStrategy) Similarity(a, b Vector) (float64, error) { return 1, nil }
func (f fakeStrategy) TopKSimilar(Vector, TopKSource, int) ([]Scored, error) {
	return nil, nil
}
func (f fakeStrategy) Clone(v Vector) Vector                 { return v }
func (f fakeStrategy) Extend(v Vector, _ int) (Vector, error) { return v, nil }

func TestRegisterLookupRegistered(t *testing.T) {
	Register(fakeStrategy{id: "fake-test-strategy"})
	s, ok := Lookup("fake-test-strategy")
	require.True(t, ok)
	assert.Equal(t, "fake-test-strategy", s.ID())

	ids := Registered()
	found := false
	for _, id := range ids {
		if id == "fake-test-strategy" {
			found = true
		}
	}
	assert.True(t, found)
}
