// Package types defines the core data structures shared across the
// AGISystem2 reasoning substrate: atoms, statements, facts, rules, the
// knowledge base's declared relational properties, and the mutual
// exclusion groups consulted by the contradiction detector.
//
// Vector itself lives in package vector, not here, since nearly every
// type in this package embeds or references one and that would create an
// import cycle if vector depended back on types.
package types

import (
	"time"

	"agisystem2/core/internal/vector"
)

// TruthMode distinguishes an assertion from its negation.
type TruthMode string

const (
	Assert TruthMode = "assert"
	Negate TruthMode = "negate"
)

// Atom is an interned (name, vector, creation theory) triple. Two atoms
// created with the same name in the same session are identical by value
// (same Vector bytes), not merely by name.
type Atom struct {
	Name           string        `json:"name"`
	Vector         vector.Vector `json:"-"`
	CreationTheory string        `json:"creation_theory"`
}

// Hole is a named variable slot in a Statement. A Statement with one or
// more holes is a query pattern, not a fact.
type Hole struct {
	Name string `json:"name"`
}

// Term is either a bound Atom name or an unbound Hole; exactly one of the
// two fields is non-empty.
type Term struct {
	AtomName string `json:"atom_name,omitempty"`
	Hole     *Hole  `json:"hole,omitempty"`
}

// IsHole reports whether this term is an unbound variable slot.
func (t Term) IsHole() bool {
	return t.Hole != nil
}

// BoundTerm constructs a Term bound to the given atom name.
func BoundTerm(atomName string) Term {
	return Term{AtomName: atomName}
}

// HoleTerm constructs an unbound Term with the given variable name.
func HoleTerm(name string) Term {
	return Term{Hole: &Hole{Name: name}}
}

// Statement is an operator applied to an ordered sequence of terms. A
// Statement with no holes is ground and can become a Fact; a Statement
// with at least one hole is a query pattern or a rule antecedent/
// consequent leaf.
type Statement struct {
	Operator string                 `json:"operator"`
	Args     []Term                 `json:"args"`
	Mode     TruthMode              `json:"mode"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// IsGround reports whether every argument is bound (no holes).
func (s Statement) IsGround() bool {
	for _, a := range s.Args {
		if a.IsHole() {
			return false
		}
	}
	return true
}

// Arity returns the number of argument positions.
func (s Statement) Arity() int {
	return len(s.Args)
}

// Fact is a fully-bound Statement committed to a knowledge base.
type Fact struct {
	ID        string        `json:"id"`
	Statement Statement     `json:"statement"`
	Vector    vector.Vector `json:"-"`
	CreatedAt time.Time     `json:"created_at"`
}

// RuleExpr is the antecedent/consequent side of a Rule: either an atomic
// Statement or a compound built from And/Or/Not over sub-expressions.
// Exactly one of Statement or (Op, Sub) is populated.
type RuleExpr struct {
	Statement *Statement  `json:"statement,omitempty"`
	Op        CompoundOp  `json:"op,omitempty"`
	Sub       []*RuleExpr `json:"sub,omitempty"`
}

// CompoundOp enumerates the compound connectives a RuleExpr may use.
type CompoundOp string

const (
	CompoundNone CompoundOp = ""
	CompoundAnd  CompoundOp = "and"
	CompoundOr   CompoundOp = "or"
	CompoundNot  CompoundOp = "not"
)

// IsAtomic reports whether this expression is a single Statement leaf.
func (e *RuleExpr) IsAtomic() bool {
	return e != nil && e.Statement != nil
}

// Leaf builds an atomic RuleExpr wrapping a single Statement.
func Leaf(s Statement) *RuleExpr {
	return &RuleExpr{Statement: &s}
}

// And builds a conjunction of sub-expressions.
func And(sub ...*RuleExpr) *RuleExpr {
	return &RuleExpr{Op: CompoundAnd, Sub: sub}
}

// Or builds a disjunction of sub-expressions.
func Or(sub ...*RuleExpr) *RuleExpr {
	return &RuleExpr{Op: CompoundOr, Sub: sub}
}

// Not negates a single sub-expression.
func Not(sub *RuleExpr) *RuleExpr {
	return &RuleExpr{Op: CompoundNot, Sub: []*RuleExpr{sub}}
}

// Rule is an Implies statement over two RuleExprs (antecedent, consequent)
// with an optional confidence weight.
type Rule struct {
	ID         string    `json:"id"`
	Antecedent *RuleExpr `json:"antecedent"`
	Consequent *RuleExpr `json:"consequent"`
	Confidence float64   `json:"confidence"` // default 1.0
	CreatedAt  time.Time `json:"created_at"`
}

// Declaration is a theory-level statement about relational structure,
// consumed before any fact that depends on it (transitive/symmetric/
// inheritable markers, mutual exclusion groups).
type Declaration struct {
	Kind            DeclarationKind `json:"kind"`
	Operator        string          `json:"operator,omitempty"`         // for Transitive/Symmetric/Inheritable
	MutualExclusion []Statement     `json:"mutual_exclusion,omitempty"` // patterns, holes act as wildcards
}

// DeclarationKind enumerates the declaration forms a Theory may contain.
type DeclarationKind string

const (
	DeclareTransitive    DeclarationKind = "transitive"
	DeclareSymmetric     DeclarationKind = "symmetric"
	DeclareInheritable   DeclarationKind = "inheritable"
	DeclareMutualExclude DeclarationKind = "mutual_exclusion"
)
