// Package theory defines the Theory Loader's external contract
// (spec.md §6): a named program of declarations and foundational facts
// supplied to a session at construction time. The Core treats a Theory
// exactly like any other statement program — this package just gives
// callers (chiefly cmd/agisession's hand-authored worked examples) a
// convenient literal structure instead of hand-building []types.Statement
// slices inline.
package theory

import "agisystem2/core/internal/types"

// Theory is a named collection of declarations, facts, and rules loaded
// into a session to establish domain vocabulary, mirroring the
// Dog/Animal/LivingThing and Yumpus/Rompus/Tumpus worked examples
// spec.md §8 describes.
type Theory struct {
	Name         string
	Declarations []types.Declaration
	Facts        []types.Statement
	Rules        []*types.Rule
}

// New returns an empty named theory, ready for fluent assembly.
func New(name string) *Theory {
	return &Theory{Name: name}
}

// Declare appends a declaration and returns the theory for chaining.
func (t *Theory) Declare(d types.Declaration) *Theory {
	t.Declarations = append(t.Declarations, d)
	return t
}

// Fact appends a ground statement and returns the theory for chaining.
func (t *Theory) Fact(s types.Statement) *Theory {
	t.Facts = append(t.Facts, s)
	return t
}

// Rule appends a rule and returns the theory for chaining.
func (t *Theory) Rule(r *types.Rule) *Theory {
	t.Rules = append(t.Rules, r)
	return t
}

// Transitive is a convenience Declare(types.Declaration{Kind: DeclareTransitive, Operator: op}).
func Transitive(op string) types.Declaration {
	return types.Declaration{Kind: types.DeclareTransitive, Operator: op}
}

// Symmetric is the Symmetric-kind equivalent of Transitive.
func Symmetric(op string) types.Declaration {
	return types.Declaration{Kind: types.DeclareSymmetric, Operator: op}
}

// Inheritable is the Inheritable-kind equivalent of Transitive.
func Inheritable(op string) types.Declaration {
	return types.Declaration{Kind: types.DeclareInheritable, Operator: op}
}

// MutualExclusion is the MutualExclusion-kind declaration over a set of
// statement patterns.
func MutualExclusion(patterns ...types.Statement) types.Declaration {
	return types.Declaration{Kind: types.DeclareMutualExclude, MutualExclusion: patterns}
}

// Statement is a convenience constructor for a ground or hole-bearing
// statement built from plain strings: holes are any arg beginning with
// "?", everything else is a bound atom name.
func Statement(operator string, args ...string) types.Statement {
	terms := make([]types.Term, len(args))
	for i, a := range args {
		if len(a) > 0 && a[0] == '?' {
			terms[i] = types.HoleTerm(a[1:])
		} else {
			terms[i] = types.BoundTerm(a)
		}
	}
	return types.Statement{Operator: operator, Args: terms, Mode: types.Assert}
}

// Negated returns a copy of stmt with Mode flipped to Negate.
func Negated(stmt types.Statement) types.Statement {
	stmt.Mode = types.Negate
	return stmt
}
