package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBoundTermAndHoleTerm(t *testing.T) {
	bound := BoundTerm("Dog")
	assert.False(t, bound.IsHole())
	assert.Equal(t, "Dog", bound.AtomName)

	hole := HoleTerm("x")
	assert.True(t, hole.IsHole())
	assert.Equal(t, "x", hole.Hole.Name)
}

func TestStatementIsGroundAndArity(t *testing.T) {
	ground := Statement{Operator: "isA", Args: []Term{BoundTerm("Dog"), BoundTerm("Animal")}}
	assert.True(t, ground.IsGround())
	assert.Equal(t, 2, ground.Arity())

	pattern := Statement{Operator: "isA", Args: []Term{BoundTerm("Dog"), HoleTerm("x")}}
	assert.False(t, pattern.IsGround())
	assert.Equal(t, 2, pattern.Arity())
}

func TestRuleExprConstructors(t *testing.T) {
	leaf := Leaf(Statement{Operator: "isA", Args: []Term{BoundTerm("Dog")}})
	assert.True(t, leaf.IsAtomic())

	and := And(leaf, leaf)
	assert.False(t, and.IsAtomic())
	assert.Equal(t, CompoundAnd, and.Op)
	assert.Len(t, and.Sub, 2)

	or := Or(leaf, leaf)
	assert.Equal(t, CompoundOr, or.Op)

	not := Not(leaf)
	assert.Equal(t, CompoundNot, not.Op)
	assert.Len(t, not.Sub, 1)
}

func TestRuleExprIsAtomicNilSafe(t *testing.T) {
	var e *RuleExpr
	assert.False(t, e.IsAtomic())
}
