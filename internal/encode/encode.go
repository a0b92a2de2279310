// Package encode implements the statement-to-vector composite formula
// (spec.md §4.5): the operator bound into a bundle of per-position
// bind(PosK, argK) terms, with holes omitted to produce the "partial"
// composite the holographic engine unbinds against. There is no teacher
// analogue for this layer, so its shape follows the small-pure-function,
// validate-then-construct style of the teacher lineage's deterministic
// graph-extraction helpers rather than any one file.
//
// Every vector this package consumes must already be the interned,
// vocabulary-resolved vector for its atom — this package never calls
// CreateFromName itself, since doing so without the session's theory
// identifier would silently produce a vector different from the one the
// vocabulary interned for the same name.
package encode

import (
	"agisystem2/core/internal/agierrors"
	"agisystem2/core/internal/vector"
)

// Arg is one resolved statement argument: its positional-role vector and
// either its bound atom vector (IsHole false) or nothing (IsHole true,
// in which case its bind(PosK, argK) term is omitted from the
// composite, per spec.md §4.5).
type Arg struct {
	Position vector.Vector
	Value    vector.Vector
	IsHole   bool
}

// Statement encodes a statement into its composite vector:
// bind(Op, bundle(bind(Pos0, a0), bind(Pos1, a1), ...)), skipping any
// hole argument's term. A statement with no bound arguments (every
// argument a hole, or zero arity) encodes as just the operator's vector.
func Statement(s vector.Strategy, geometry int, operator string, opVector vector.Vector, args []Arg) (vector.Vector, error) {
	terms, err := boundTerms(s, args)
	if err != nil {
		return vector.Vector{}, err
	}
	if len(terms) == 0 {
		return opVector, nil
	}
	argBundle, err := s.Bundle(terms)
	if err != nil {
		return vector.Vector{}, err
	}
	return s.Bind(opVector, argBundle)
}

// Partial encodes only the bound-argument side of the composite (no
// operator folded in), which is what the holographic engine unbinds
// against when it already knows the operator and wants to isolate the
// positional structure. It returns the zero vector if every argument is
// a hole.
func Partial(s vector.Strategy, geometry int, args []Arg) (vector.Vector, error) {
	terms, err := boundTerms(s, args)
	if err != nil {
		return vector.Vector{}, err
	}
	if len(terms) == 0 {
		return s.CreateZero(geometry), nil
	}
	return s.Bundle(terms)
}

func boundTerms(s vector.Strategy, args []Arg) ([]vector.Vector, error) {
	terms := make([]vector.Vector, 0, len(args))
	for _, a := range args {
		if a.IsHole {
			continue
		}
		term, err := s.Bind(a.Position, a.Value)
		if err != nil {
			return nil, err
		}
		terms = append(terms, term)
	}
	return terms, nil
}

// ValidateArity returns an InvalidArity error if arity exceeds max
// (when max > 0); a max of 0 or below disables the check. Callers run this before
// resolving any vectors, per the CORE's decision (SPEC_FULL.md §3.1) to
// treat excess arity as an explicit, early error rather than silently
// truncating or ignoring extra positions.
func ValidateArity(operator string, arity, max int) error {
	if max > 0 && arity > max {
		return agierrors.NewInvalidArity(operator, arity, max)
	}
	return nil
}
