package encode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agisystem2/core/internal/strategy/densebinary"
	"agisystem2/core/internal/vector"
)

const testGeometry = 2048

func pos(s vector.Strategy, k int) vector.Vector {
	return s.CreateFromName(positionName(k), testGeometry, "encode-test")
}

func positionName(k int) string {
	switch k {
	case 0:
		return "__pos0"
	case 1:
		return "__pos1"
	default:
		return "__posN"
	}
}

func TestStatementMatchesManualBindBundleFormula(t *testing.T) {
	s := densebinary.Strategy{}
	op := s.CreateFromName("isA", testGeometry, "encode-test")
	a0 := s.CreateFromName("Dog", testGeometry, "encode-test")
	a1 := s.CreateFromName("Animal", testGeometry, "encode-test")
	p0, p1 := pos(s, 0), pos(s, 1)

	got, err := Statement(s, testGeometry, "isA", op, []Arg{
		{Position: p0, Value: a0},
		{Position: p1, Value: a1},
	})
	require.NoError(t, err)

	term0, _ := s.Bind(p0, a0)
	term1, _ := s.Bind(p1, a1)
	bundle, _ := s.Bundle([]vector.Vector{term0, term1})
	want, _ := s.Bind(op, bundle)

	sim, err := s.Similarity(got, want)
	require.NoError(t, err)
	assert.Equal(t, 1.0, sim)
}

func TestStatementSkipsHoleArgs(t *testing.T) {
	s := densebinary.Strategy{}
	op := s.CreateFromName("isA", testGeometry, "encode-test")
	a0 := s.CreateFromName("Dog", testGeometry, "encode-test")
	p0 := pos(s, 0)

	got, err := Statement(s, testGeometry, "isA", op, []Arg{
		{Position: p0, Value: a0},
		{IsHole: true},
	})
	require.NoError(t, err)

	term0, _ := s.Bind(p0, a0)
	bundle, _ := s.Bundle([]vector.Vector{term0})
	want, _ := s.Bind(op, bundle)

	sim, err := s.Similarity(got, want)
	require.NoError(t, err)
	assert.Equal(t, 1.0, sim)
}

func TestStatementWithAllHolesReturnsJustOperator(t *testing.T) {
	s := densebinary.Strategy{}
	op := s.CreateFromName("isA", testGeometry, "encode-test")

	got, err := Statement(s, testGeometry, "isA", op, []Arg{{IsHole: true}, {IsHole: true}})
	require.NoError(t, err)

	sim, err := s.Similarity(got, op)
	require.NoError(t, err)
	assert.Equal(t, 1.0, sim)
}

func TestPartialWithAllHolesReturnsZeroVector(t *testing.T) {
	s := densebinary.Strategy{}
	zero := s.CreateZero(testGeometry)

	got, err := Partial(s, testGeometry, []Arg{{IsHole: true}})
	require.NoError(t, err)

	sim, err := s.Similarity(got, zero)
	require.NoError(t, err)
	assert.Equal(t, 1.0, sim)
}

func TestValidateArityAllowsWithinBound(t *testing.T) {
	assert.NoError(t, ValidateArity("isA", 2, 4))
}

func TestValidateArityRejectsOverBound(t *testing.T) {
	err := ValidateArity("isA", 5, 4)
	assert.Error(t, err)
}

func TestValidateArityDisabledWithNegativeMax(t *testing.T) {
	assert.NoError(t, ValidateArity("isA", 500, -1))
}
