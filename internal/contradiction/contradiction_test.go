package contradiction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agisystem2/core/internal/types"
)

func ground(operator string, mode types.TruthMode, args ...string) types.Statement {
	terms := make([]types.Term, len(args))
	for i, a := range args {
		terms[i] = types.BoundTerm(a)
	}
	return types.Statement{Operator: operator, Args: terms, Mode: mode}
}

func fact(id string, stmt types.Statement) *types.Fact {
	return &types.Fact{ID: id, Statement: stmt}
}

func TestCheckDetectsDirectNegation(t *testing.T) {
	d := NewDetector()
	existing := []*types.Fact{fact("f1", ground("hasState", types.Assert, "Door", "Open"))}
	candidate := ground("hasState", types.Negate, "Door", "Open")

	id, detail, conflict := d.Check(candidate, existing)
	require.True(t, conflict)
	assert.Equal(t, "f1", id)
	assert.NotEmpty(t, detail)
}

func TestCheckAllowsUnrelatedFacts(t *testing.T) {
	d := NewDetector()
	existing := []*types.Fact{fact("f1", ground("hasState", types.Assert, "Door", "Open"))}
	candidate := ground("hasState", types.Assert, "Window", "Closed")

	_, _, conflict := d.Check(candidate, existing)
	assert.False(t, conflict)
}

func TestCheckDetectsMutualExclusionGroup(t *testing.T) {
	d := NewDetector()
	d.AddMutualExclusionGroup([]types.Statement{
		{Operator: "hasState", Args: []types.Term{types.HoleTerm("x"), types.BoundTerm("Open")}, Mode: types.Assert},
		{Operator: "hasState", Args: []types.Term{types.HoleTerm("x"), types.BoundTerm("Closed")}, Mode: types.Assert},
	})
	existing := []*types.Fact{fact("f1", ground("hasState", types.Assert, "Door", "Open"))}
	candidate := ground("hasState", types.Assert, "Door", "Closed")

	id, _, conflict := d.Check(candidate, existing)
	require.True(t, conflict)
	assert.Equal(t, "f1", id)
}

func TestCheckMutualExclusionRequiresConsistentBindings(t *testing.T) {
	d := NewDetector()
	d.AddMutualExclusionGroup([]types.Statement{
		{Operator: "hasState", Args: []types.Term{types.HoleTerm("x"), types.BoundTerm("Open")}, Mode: types.Assert},
		{Operator: "hasState", Args: []types.Term{types.HoleTerm("x"), types.BoundTerm("Closed")}, Mode: types.Assert},
	})
	existing := []*types.Fact{fact("f1", ground("hasState", types.Assert, "Door", "Open"))}
	// different subject ("Window"), so the wildcard "x" binds differently and no conflict should fire.
	candidate := ground("hasState", types.Assert, "Window", "Closed")

	_, _, conflict := d.Check(candidate, existing)
	assert.False(t, conflict)
}

func TestCheckMutualExclusionIgnoresSameSlotMatch(t *testing.T) {
	d := NewDetector()
	d.AddMutualExclusionGroup([]types.Statement{
		{Operator: "hasState", Args: []types.Term{types.HoleTerm("x"), types.BoundTerm("Open")}, Mode: types.Assert},
		{Operator: "hasState", Args: []types.Term{types.HoleTerm("x"), types.BoundTerm("Closed")}, Mode: types.Assert},
	})
	existing := []*types.Fact{fact("f1", ground("hasState", types.Assert, "Door", "Open"))}
	// same slot (Open) as the existing fact, not the exclusive alternative.
	candidate := ground("hasState", types.Assert, "Door", "Open")

	_, _, conflict := d.Check(candidate, existing)
	assert.False(t, conflict)
}
