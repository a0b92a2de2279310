// Package holographic implements the HDC-first reasoning engine
// (spec.md §4.7): queryHDC unbinds a query pattern's single hole
// straight out of the knowledge base's superposed bundle and decodes
// the filler by top-K vocabulary similarity; proveHDC tries a direct
// similarity scan against the bundle before falling back to an
// unbind-and-validate shortcut, and finally to the symbolic engine.
// Grounded on the teacher lineage's embeddings/similarity.go top-K
// scoring helpers and knowledge/vector_store.go's threshold-filtered
// similarity search, re-targeted from semantic text embeddings onto
// HDC unbind candidates and validated against the symbolic engine
// rather than trusted outright — HDC decoding is approximate by
// construction and every candidate it proposes must still check out
// against the knowledge base before a caller sees it.
package holographic

import (
	"agisystem2/core/internal/encode"
	"agisystem2/core/internal/kb"
	"agisystem2/core/internal/proof"
	"agisystem2/core/internal/symbolic"
	"agisystem2/core/internal/types"
	"agisystem2/core/internal/vector"
	"agisystem2/core/internal/vocabulary"
)

const defaultTopK = 5

// QueryOutcome carries both the confirmed bindings and the raw
// unbind/validation attempt counts the coordinator's stats accumulator
// needs, since a single Query call can attempt several candidates.
type QueryOutcome struct {
	Bindings            []symbolic.Binding
	UnbindAttempted     bool
	UnbindSucceeded     bool
	ValidationAttempts  int
	ValidationSuccesses int
	// FastPath reports whether every HDC candidate validated, meaning a
	// caller running the always-merge policy can skip re-running a full
	// symbolic Query for the same pattern.
	FastPath bool
}

// ProveOutcome mirrors QueryOutcome for Prove, additionally recording
// whether the call fell through to the symbolic engine.
type ProveOutcome struct {
	UnbindAttempted     bool
	UnbindSucceeded     bool
	ValidationAttempts  int
	ValidationSuccesses int
	Succeeded           bool
	FellBackToSymbolic  bool
}

// Engine is the HDC-first query/prove engine bound to one session's
// knowledge base and vocabulary.
type Engine struct {
	strategy           vector.Strategy
	geometry           int
	kb                 *kb.KnowledgeBase
	vocab              *vocabulary.Vocabulary
	symbolic           *symbolic.Engine
	topK               int
	fallbackToSymbolic bool
}

// New builds a holographic Engine. topK <= 0 uses the default of 5
// candidates per unbind, matching spec.md §4.7.
func New(s vector.Strategy, geometry int, k *kb.KnowledgeBase, vocab *vocabulary.Vocabulary, sym *symbolic.Engine, topK int, fallbackToSymbolic bool) *Engine {
	if topK <= 0 {
		topK = defaultTopK
	}
	return &Engine{strategy: s, geometry: geometry, kb: k, vocab: vocab, symbolic: sym, topK: topK, fallbackToSymbolic: fallbackToSymbolic}
}

// Query unbinds stmt's single hole out of the knowledge base's
// superposed bundle and validates each top-K candidate through the
// symbolic engine. Patterns with zero or more than one hole are not
// HDC-decodable (unbinding more than one unknown term leaves an
// ambiguous superposition) and return an empty, non-fast-path outcome
// so the caller relies on the symbolic engine alone.
func (e *Engine) Query(stmt types.Statement) QueryOutcome {
	holeIdx, ok := singleHole(stmt)
	if !ok {
		return QueryOutcome{}
	}

	candidate, ok := e.unbindHole(stmt, holeIdx)
	if !ok {
		return QueryOutcome{UnbindAttempted: true}
	}
	outcome := QueryOutcome{UnbindAttempted: true, UnbindSucceeded: true}

	scored, err := e.vocab.TopKSimilar(candidate, e.topK)
	if err != nil || len(scored) == 0 {
		return outcome
	}

	holeName := stmt.Args[holeIdx].Hole.Name
	allValidated := true
	for _, s := range scored {
		outcome.ValidationAttempts++
		grounded := symbolic.Instantiate(stmt, symbolic.Substitution{holeName: s.Name})
		obj := e.symbolic.Prove(grounded)
		if !obj.Valid {
			allValidated = false
			continue
		}
		outcome.ValidationSuccesses++
		outcome.Bindings = append(outcome.Bindings, symbolic.Binding{
			Values:     symbolic.Substitution{holeName: s.Name},
			Source:     symbolic.SourceHDC,
			Confidence: s.Similarity,
		})
	}
	outcome.FastPath = allValidated
	return outcome
}

// Prove tries, in order: a direct similarity scan of the goal's full
// composite against the knowledge base bundle (a high-confidence
// "this looks like something we already know" shortcut, accepted only
// when the goal is also present as a committed fact); an
// unbind-and-validate pass treating the goal's second argument as
// unknown (an HDC stand-in for transitive/rule derivation, since a
// true relation's composite tends to sit close to the bundle along
// that axis even when no single fact states it directly); and finally,
// if fallbackToSymbolic is set, the symbolic engine's full
// backward-chaining proof.
func (e *Engine) Prove(goal types.Statement) (proof.Object, ProveOutcome) {
	var outcome ProveOutcome

	if composite, ok := e.encodeGround(goal); ok {
		if sim, err := e.strategy.Similarity(composite, e.kb.KBBundle()); err == nil {
			if sim >= e.strategy.Thresholds().SimMatchHigh {
				if f, ok := e.kb.HasFact(goal); ok {
					outcome.Succeeded = true
					step := proof.NewStep(proof.OpHDCValidate, symbolic.ConclusionText(goal), f.ID).WithMetadata("similarity", sim)
					return proof.Success(string(proof.OpHDCValidate), sim, step), outcome
				}
			}
		}
	}

	if goal.Arity() == 2 && goal.Mode == types.Assert {
		shortcut := goal
		shortcut.Args = []types.Term{goal.Args[0], types.HoleTerm("target")}
		result := e.Query(shortcut)
		outcome.UnbindAttempted = outcome.UnbindAttempted || result.UnbindAttempted
		outcome.UnbindSucceeded = outcome.UnbindSucceeded || result.UnbindSucceeded
		outcome.ValidationAttempts += result.ValidationAttempts
		outcome.ValidationSuccesses += result.ValidationSuccesses
		for _, b := range result.Bindings {
			if b.Values["target"] != goal.Args[1].AtomName {
				continue
			}
			outcome.Succeeded = true
			steps := []proof.Step{
				proof.NewStep(proof.OpHDCUnbind, symbolic.ConclusionText(goal)),
				proof.NewStep(proof.OpHDCValidate, symbolic.ConclusionText(goal)),
			}
			return proof.Success(string(proof.OpHDCValidate), b.Confidence, steps...), outcome
		}
	}

	if e.fallbackToSymbolic {
		outcome.FellBackToSymbolic = true
		return e.symbolic.Prove(goal), outcome
	}
	return proof.Failure(proof.FailureReason{Method: proof.OpHDCValidate, Reason: "no HDC-derived proof found and symbolic fallback is disabled"}), outcome
}

func singleHole(stmt types.Statement) (int, bool) {
	idx := -1
	for i, a := range stmt.Args {
		if a.IsHole() {
			if idx != -1 {
				return 0, false
			}
			idx = i
		}
	}
	if idx == -1 {
		return 0, false
	}
	return idx, true
}

// unbindHole peels the operator and every known bound argument's term
// out of the knowledge base bundle, leaving an approximation of
// bind(PosK, filler) for the hole at holeIdx, then unbinds that
// position vector to isolate an approximate filler vector to decode
// via vocabulary top-K similarity.
func (e *Engine) unbindHole(stmt types.Statement, holeIdx int) (vector.Vector, bool) {
	opAtom, ok := e.vocab.Lookup(stmt.Operator)
	if !ok {
		return vector.Vector{}, false
	}
	composite, err := e.strategy.Bind(e.kb.KBBundle(), opAtom.Vector)
	if err != nil {
		return vector.Vector{}, false
	}
	for i, arg := range stmt.Args {
		if i == holeIdx || arg.IsHole() {
			continue
		}
		valAtom, ok := e.vocab.Lookup(arg.AtomName)
		if !ok {
			continue
		}
		posAtom := e.vocab.GetOrCreatePosition(i)
		term, err := e.strategy.Bind(posAtom.Vector, valAtom.Vector)
		if err != nil {
			continue
		}
		if composite, err = e.strategy.Bind(composite, term); err != nil {
			return vector.Vector{}, false
		}
	}
	posAtom := e.vocab.GetOrCreatePosition(holeIdx)
	filler, err := e.strategy.Bind(composite, posAtom.Vector)
	if err != nil {
		return vector.Vector{}, false
	}
	return filler, true
}

// encodeGround builds the full composite vector for a ground
// statement, resolving every argument through the vocabulary exactly
// as the knowledge base does when it commits a fact.
func (e *Engine) encodeGround(stmt types.Statement) (vector.Vector, bool) {
	if !stmt.IsGround() {
		return vector.Vector{}, false
	}
	opAtom, ok := e.vocab.Lookup(stmt.Operator)
	if !ok {
		return vector.Vector{}, false
	}
	args := make([]encode.Arg, len(stmt.Args))
	for i, a := range stmt.Args {
		valAtom, ok := e.vocab.Lookup(a.AtomName)
		if !ok {
			return vector.Vector{}, false
		}
		args[i] = encode.Arg{Position: e.vocab.GetOrCreatePosition(i).Vector, Value: valAtom.Vector}
	}
	v, err := encode.Statement(e.strategy, e.geometry, stmt.Operator, opAtom.Vector, args)
	if err != nil {
		return vector.Vector{}, false
	}
	return v, true
}
