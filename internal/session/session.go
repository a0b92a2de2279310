// Package session is the composition root that wires a configuration,
// a strategy, a knowledge base, and the symbolic/holographic engines
// into the external learn/query/prove/inspect surface spec.md §6
// describes. Grounded on the teacher lineage's cmd/server/initializer.go:
// a single ordered build sequence with explicit, testable construction
// logic kept out of main(), here reused as an embeddable library
// session rather than an MCP server's composition root.
package session

import (
	"fmt"
	"math"
	"sort"

	"agisystem2/core/internal/agierrors"
	"agisystem2/core/internal/config"
	"agisystem2/core/internal/coordinator"
	"agisystem2/core/internal/encode"
	"agisystem2/core/internal/holographic"
	"agisystem2/core/internal/kb"
	"agisystem2/core/internal/proof"
	"agisystem2/core/internal/symbolic"
	"agisystem2/core/internal/theory"
	"agisystem2/core/internal/types"
	"agisystem2/core/internal/vector"
	"agisystem2/core/internal/vocabulary"

	_ "agisystem2/core/internal/strategy/densebinary"
	_ "agisystem2/core/internal/strategy/sparseset"
)

// LearnResult reports the outcome of a single Learn call, spec.md §4.8's
// {success, factCount, errors, warnings} shape.
type LearnResult struct {
	Success   bool
	FactCount int
	Errors    []string
	Warnings  []string
}

// QueryResult reports the outcome of a single Query call.
type QueryResult struct {
	Success  bool
	Bindings []BindingView
}

// BindingView is a caller-facing rendering of a symbolic.Binding: the
// variable assignment, which derivation method produced it, and its
// confidence.
type BindingView struct {
	Values     map[string]string
	Source     string
	Confidence float64
}

// InspectResult is the session introspection snapshot spec.md §4.10's
// inspect()/dump() call returns.
type InspectResult struct {
	Geometry       int
	StrategyID     string
	FactCount      int
	RuleCount      int
	VocabularySize int
	Stats          coordinator.Stats
	HDCSuccessRate float64
}

// Session is one configured AGISystem2 reasoning instance: one
// strategy, one knowledge base, one vocabulary, and the engines bound
// to them.
type Session struct {
	cfg         *config.Config
	strategy    vector.Strategy
	vocab       *vocabulary.Vocabulary
	kb          *kb.KnowledgeBase
	symbolic    *symbolic.Engine
	holographic *holographic.Engine
	coordinator *coordinator.Coordinator
}

// New builds a Session from a configuration and zero or more
// foundational theories, applying each theory's declarations, facts,
// and rules in order. theoryID ties the session's atoms to one
// deterministic createFromName seed; callers that want byte-identical
// vocabularies across runs should pass the same theoryID.
func New(cfg *config.Config, theoryID string, theories []*theory.Theory) (*Session, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("session: invalid configuration: %w", err)
	}

	strategy, ok := vector.Lookup(cfg.StrategyID)
	if !ok {
		return nil, fmt.Errorf("session: unregistered strategy %q (registered: %v)", cfg.StrategyID, vector.Registered())
	}

	vocab := vocabulary.New(strategy, cfg.Geometry, theoryID)
	knowledgeBase := kb.New(kb.Config{
		Strategy:             strategy,
		Geometry:             cfg.Geometry,
		Vocabulary:           vocab,
		MaxPositionalArity:   cfg.MaxPositionalArity,
		RejectContradictions: cfg.RejectContradictions,
	})

	symbolicEngine := symbolic.New(knowledgeBase, vocab, cfg.MaxProofDepth, cfg.MaxGroundingDomain)
	holographicEngine := holographic.New(strategy, cfg.Geometry, knowledgeBase, vocab, symbolicEngine, cfg.HDCTopK, cfg.FallbackToSymbolic)

	priority := coordinator.PrioritySymbolic
	if cfg.ReasoningPriority == "holographic" {
		priority = coordinator.PriorityHolographic
	}
	coord := coordinator.New(priority, symbolicEngine, holographicEngine, knowledgeBase, cfg.AlwaysMergeSymbolic)

	s := &Session{
		cfg:         cfg,
		strategy:    strategy,
		vocab:       vocab,
		kb:          knowledgeBase,
		symbolic:    symbolicEngine,
		holographic: holographicEngine,
		coordinator: coord,
	}

	for _, t := range theories {
		if err := s.loadTheory(t); err != nil {
			return nil, fmt.Errorf("session: loading theory %q: %w", t.Name, err)
		}
	}
	return s, nil
}

func (s *Session) loadTheory(t *theory.Theory) error {
	for _, d := range t.Declarations {
		switch d.Kind {
		case types.DeclareTransitive:
			s.kb.DeclareTransitive(d.Operator)
		case types.DeclareSymmetric:
			s.kb.DeclareSymmetric(d.Operator)
		case types.DeclareInheritable:
			s.kb.DeclareInheritable(d.Operator)
		case types.DeclareMutualExclude:
			s.kb.DeclareMutualExclusion(d.MutualExclusion)
		}
	}
	if len(t.Facts) > 0 {
		if _, err := s.kb.LearnFacts(t.Facts); err != nil {
			return err
		}
	}
	for _, r := range t.Rules {
		s.kb.AddRule(r)
	}
	return nil
}

// Learn commits a program of statements as a single transactional
// batch: either every statement becomes a fact, or (on a contradiction
// or a malformed statement) none do.
func (s *Session) Learn(program []types.Statement) LearnResult {
	facts, err := s.kb.LearnFacts(program)
	if err != nil {
		return LearnResult{Success: false, Errors: []string{err.Error()}}
	}
	warnings := []string{}
	if len(facts) < len(program) {
		warnings = append(warnings, fmt.Sprintf("%d of %d statements were already known and were not re-added", len(program)-len(facts), len(program)))
	}
	return LearnResult{Success: true, FactCount: len(facts), Warnings: warnings}
}

// Query returns every binding of stmt's holes the session's configured
// engine (and, under the always-merge policy, the symbolic engine as
// well) can establish.
func (s *Session) Query(stmt types.Statement) QueryResult {
	bindings := s.coordinator.Query(stmt)
	views := make([]BindingView, 0, len(bindings))
	for _, b := range bindings {
		views = append(views, BindingView{Values: map[string]string(b.Values), Source: string(b.Source), Confidence: b.Confidence})
	}
	return QueryResult{Success: len(views) > 0, Bindings: views}
}

// Prove backward-chains to establish a fully-bound goal statement.
func (s *Session) Prove(goal types.Statement) proof.Object {
	return s.coordinator.Prove(goal)
}

// Similarity compares two interned atoms by name under the session's
// strategy.
func (s *Session) Similarity(a, b string) (float64, error) {
	atomA, err := s.vocab.MustLookup(a)
	if err != nil {
		return 0, err
	}
	atomB, err := s.vocab.MustLookup(b)
	if err != nil {
		return 0, err
	}
	s.coordinator.RecordSimilarityCheck()
	return s.strategy.Similarity(atomA.Vector, atomB.Vector)
}

// Decode returns the top-k vocabulary atoms nearest to an arbitrary
// vector, e.g. one produced by the encode package directly.
func (s *Session) Decode(v vector.Vector, k int) ([]vector.Scored, error) {
	return s.vocab.TopKSimilar(v, k)
}

// Resolve looks up an interned atom by name.
func (s *Session) Resolve(name string) (types.Atom, error) {
	return s.vocab.MustLookup(name)
}

// EncodeStatement exposes the encoder for callers that want a
// statement's composite vector without committing it as a fact (e.g.
// to Decode() it against the vocabulary directly).
func (s *Session) EncodeStatement(stmt types.Statement) (vector.Vector, error) {
	if err := encode.ValidateArity(stmt.Operator, stmt.Arity(), s.cfg.MaxPositionalArity); err != nil {
		return vector.Vector{}, err
	}
	args := make([]encode.Arg, stmt.Arity())
	for i, a := range stmt.Args {
		pos := s.vocab.GetOrCreatePosition(i).Vector
		if a.IsHole() {
			args[i] = encode.Arg{Position: pos, IsHole: true}
			continue
		}
		args[i] = encode.Arg{Position: pos, Value: s.vocab.GetOrCreate(a.AtomName).Vector}
	}
	opAtom := s.vocab.GetOrCreateOperator(stmt.Operator)
	return encode.Statement(s.strategy, s.cfg.Geometry, stmt.Operator, opAtom.Vector, args)
}

// Inspect returns the session's introspection snapshot, flooring the
// derived HDC success rate (a fraction in [0,1]) to four decimal places,
// i.e. two decimal places when read as a percentage, at this
// presentation boundary only, per SPEC_FULL.md §3.1's stats-rounding
// decision.
func (s *Session) Inspect() InspectResult {
	stats := s.coordinator.Snapshot()
	result := InspectResult{
		Geometry:       s.cfg.Geometry,
		StrategyID:     s.strategy.ID(),
		FactCount:      s.kb.FactCount(),
		RuleCount:      s.kb.RuleCount(),
		VocabularySize: s.vocab.Size(),
		Stats:          stats,
	}
	if stats.HDCQueries > 0 {
		result.HDCSuccessRate = floorToTwoDecimals(float64(stats.HDCSuccesses) / float64(stats.HDCQueries))
	}
	return result
}

func floorToTwoDecimals(x float64) float64 {
	return math.Floor(x*10000) / 10000
}

// Close releases session resources. A Session owns no resources beyond
// process memory today, so this always succeeds; it exists so callers
// can treat a Session like any other closeable handle.
func (s *Session) Close() error {
	return nil
}

// KnownOperators lists every operator name interned as an atom of kind
// operator, sorted by name, useful for a host surfacing available
// predicates without exposing the vocabulary type directly.
func (s *Session) KnownOperators() []string {
	names := []string{}
	s.vocab.IterateKind(vocabulary.KindOperator, func(name string, _ vector.Vector) bool {
		names = append(names, name)
		return true
	})
	sort.Strings(names)
	return names
}

// WithArity is a small helper constructing an agierrors.InvalidArity-
// shaped error for callers assembling their own statements outside the
// KB/encoder path (e.g. a host validating a program before Learn).
func WithArity(operator string, arity, max int) error {
	return agierrors.NewInvalidArity(operator, arity, max)
}
