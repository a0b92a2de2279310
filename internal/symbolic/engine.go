// Package symbolic implements the discrete reasoning engine (spec.md
// §4.6): query() combines direct matches, transitive expansion,
// property inheritance, and rule derivation behind a single explicit-
// negation filter; prove() backward-chains over the same four methods
// plus a contrapositive step, bounded by a configured search depth and
// guarded against cycles. There is no single teacher file for a logic
// engine like this — the control-flow shape (try each method in turn,
// carry a running failure trace, stop at a depth/seen-set limit)
// follows the teacher lineage's validation.TheoremProver, and the
// unification/grounding vocabulary follows the hole-as-variable
// convention already established in package types.
package symbolic

import (
	"fmt"

	"agisystem2/core/internal/kb"
	"agisystem2/core/internal/proof"
	"agisystem2/core/internal/theory"
	"agisystem2/core/internal/types"
	"agisystem2/core/internal/vocabulary"
)

// Source names which of query()'s four derivation methods produced a
// binding, so callers (and the holographic engine's validation pass)
// can distinguish an exact KB hit from an inferred one.
type Source string

const (
	SourceDirect      Source = "direct"
	SourceTransitive  Source = "transitive"
	SourceInheritance Source = "inheritance"
	SourceRule        Source = "rule"
	SourceHDC         Source = "hdc"
)

// Binding is one satisfying assignment query() found for a pattern's
// holes.
type Binding struct {
	Values     Substitution
	Source     Source
	Confidence float64
}

// Engine is the symbolic query/prove engine bound to one session's
// knowledge base.
type Engine struct {
	kb                 *kb.KnowledgeBase
	vocab              *vocabulary.Vocabulary
	maxProofDepth      int
	maxGroundingDomain int
}

// New builds a symbolic Engine. maxProofDepth bounds prove()'s
// backward-chaining recursion (spec.md §6 default 10); maxGroundingDomain
// caps how many vocabulary entities a leaf with an unbound variable may
// be grounded against (default 64).
func New(k *kb.KnowledgeBase, vocab *vocabulary.Vocabulary, maxProofDepth, maxGroundingDomain int) *Engine {
	if maxProofDepth <= 0 {
		maxProofDepth = 10
	}
	if maxGroundingDomain <= 0 {
		maxGroundingDomain = 64
	}
	return &Engine{kb: k, vocab: vocab, maxProofDepth: maxProofDepth, maxGroundingDomain: maxGroundingDomain}
}

// Query returns every binding of stmt's holes that the knowledge base
// supports, across direct facts, transitive expansion (over relation
// graphs that include the reverse edges of symmetric operators),
// property inheritance, and (for fully-ground patterns only) rule
// derivation, with bindings an explicit negation fact would contradict
// removed.
func (e *Engine) Query(stmt types.Statement) []Binding {
	var results []Binding
	seen := map[string]bool{}
	add := func(b Binding) {
		key := bindingKey(b.Values)
		if seen[key] {
			return
		}
		seen[key] = true
		results = append(results, b)
	}

	for _, f := range e.kb.FactsMatching(stmt.Operator, boundConstraints(stmt)) {
		if sub, ok := unifyPatternToGround(stmt, f.Statement); ok {
			add(Binding{Values: sub, Source: SourceDirect, Confidence: 1.0})
		}
	}

	if stmt.Arity() == 2 && e.kb.IsTransitive(stmt.Operator) {
		e.queryTransitive(stmt, add)
	}

	if stmt.Arity() == 2 && e.kb.IsInheritable(stmt.Operator) {
		e.queryInheritance(stmt, add)
	}

	if stmt.IsGround() {
		if obj := e.Prove(stmt); obj.Valid {
			add(Binding{Values: Substitution{}, Source: SourceRule, Confidence: obj.Confidence})
		}
	}

	filtered := results[:0]
	for _, b := range results {
		grounded := instantiate(stmt, b.Values)
		if _, negated := e.kb.HasFact(negate(grounded)); negated {
			continue
		}
		filtered = append(filtered, b)
	}
	return filtered
}

func (e *Engine) queryTransitive(stmt types.Statement, add func(Binding)) {
	op := stmt.Operator
	from, fromHole := stmt.Args[0], stmt.Args[0].IsHole()
	to, toHole := stmt.Args[1], stmt.Args[1].IsHole()

	if !fromHole && toHole {
		chain, err := e.kb.TransitiveChain(op, from.AtomName)
		if err != nil {
			return
		}
		for _, atom := range chain {
			add(Binding{Values: Substitution{to.Hole.Name: atom}, Source: SourceTransitive, Confidence: 1.0})
		}
		return
	}
	if fromHole && !toHole {
		for _, name := range e.boundedEntityNames() {
			chain, err := e.kb.TransitiveChain(op, name)
			if err != nil {
				continue
			}
			for _, atom := range chain {
				if atom == to.AtomName {
					add(Binding{Values: Substitution{from.Hole.Name: name}, Source: SourceTransitive, Confidence: 1.0})
					break
				}
			}
		}
	}
}

func (e *Engine) queryInheritance(stmt types.Statement, add func(Binding)) {
	entity, entityHole := stmt.Args[0], stmt.Args[0].IsHole()
	value := stmt.Args[1]
	if entityHole {
		return
	}
	chain, err := e.kb.InheritsFrom(entity.AtomName)
	if err != nil {
		return
	}
	for _, superType := range chain {
		for _, f := range e.kb.FactsMatching(stmt.Operator, map[int]string{0: superType}) {
			if value.IsHole() {
				add(Binding{Values: Substitution{value.Hole.Name: f.Statement.Args[1].AtomName}, Source: SourceInheritance, Confidence: 1.0})
				continue
			}
			if f.Statement.Args[1].AtomName == value.AtomName {
				add(Binding{Values: Substitution{}, Source: SourceInheritance, Confidence: 1.0})
			}
		}
	}
}

// boundedEntityNames returns up to maxGroundingDomain vocabulary names,
// the candidate pool bounded grounding and reverse transitive search
// draw from.
func (e *Engine) boundedEntityNames() []string {
	names := e.vocab.Names()
	if len(names) > e.maxGroundingDomain {
		names = names[:e.maxGroundingDomain]
	}
	return names
}

// proveCtx threads recursion depth and an in-flight goal set through a
// single top-level Prove call, the cycle-detection mechanism spec.md
// §4.6 requires of rule-application recursion.
type proveCtx struct {
	maxDepth int
	inFlight map[string]bool
}

// Prove backward-chains to establish goal, a fully-bound statement,
// trying direct match, transitive expansion, property inheritance, and
// rule application in turn, stopping at the configured depth limit.
// It never returns an error: an unprovable goal is a normal
// {Valid: false} result carrying every method's failure reason,
// per spec.md §4.6/§7.
func (e *Engine) Prove(goal types.Statement) proof.Object {
	ctx := &proveCtx{maxDepth: e.maxProofDepth, inFlight: map[string]bool{}}
	return e.prove(goal, ctx, 0)
}

func (e *Engine) prove(goal types.Statement, ctx *proveCtx, depth int) proof.Object {
	key := conclusionText(goal)
	if ctx.inFlight[key] {
		return proof.Failure(proof.FailureReason{Reason: "cycle detected: " + key + " is already being proved"})
	}
	if depth > ctx.maxDepth {
		return proof.Failure(proof.MaxDepthExceeded(proof.OpRuleApplication, ctx.maxDepth))
	}
	ctx.inFlight[key] = true
	defer delete(ctx.inFlight, key)

	if negFact, negated := e.kb.HasFact(negate(goal)); negated {
		return proof.Object{
			Valid:    false,
			Steps:    []proof.Step{},
			Failures: []proof.FailureReason{{Method: proof.OpDirect, Reason: fmt.Sprintf("explicit negation fact %s overrides any other proof of %s", negFact.ID, key)}},
		}
	}

	var failures []proof.FailureReason

	if f, ok := e.kb.HasFact(goal); ok {
		return proof.Success(string(proof.OpDirect), 1.0, proof.NewStep(proof.OpDirect, key, f.ID))
	}
	failures = append(failures, proof.FailureReason{Method: proof.OpDirect, Reason: "no exact matching fact"})

	if goal.Arity() == 2 && e.kb.IsTransitive(goal.Operator) {
		if steps, ok := e.proveTransitive(goal); ok {
			return proof.Success(string(proof.OpTransitive), 1.0, steps...)
		}
		failures = append(failures, proof.FailureReason{Method: proof.OpTransitive, Reason: "no transitive chain connects the arguments"})
	}

	if goal.Arity() == 2 && e.kb.IsInheritable(goal.Operator) {
		if steps, ok := e.proveInheritance(goal); ok {
			return proof.Success(string(proof.OpInheritance), 1.0, steps...)
		}
		failures = append(failures, proof.FailureReason{Method: proof.OpInheritance, Reason: "no super-type provides this property"})
	}

	for _, rule := range e.kb.RulesForConsequentOperator(goal.Operator) {
		if obj, ok := e.proveViaRule(rule, goal, ctx, depth); ok {
			return obj
		}
	}
	if negObj, ok := e.proveContrapositive(goal, ctx, depth); ok {
		return negObj
	}
	failures = append(failures, proof.FailureReason{Method: proof.OpRuleApplication, Reason: "no applicable rule derives this goal"})

	return proof.Object{Valid: false, Steps: []proof.Step{}, Failures: failures}
}

func (e *Engine) proveTransitive(goal types.Statement) ([]proof.Step, bool) {
	op := goal.Operator
	from, to := goal.Args[0].AtomName, goal.Args[1].AtomName
	path, err := e.kb.ShortestRelationPath(op, from, to)
	if err != nil || len(path) < 2 {
		return nil, false
	}
	steps := make([]proof.Step, 0, len(path)-1)
	for i := 0; i+1 < len(path); i++ {
		hop := theory.Statement(op, path[i], path[i+1])
		if f, ok := e.kb.HasFact(hop); ok {
			steps = append(steps, proof.NewStep(proof.OpTransitive, conclusionText(hop), f.ID))
		} else {
			steps = append(steps, proof.NewStep(proof.OpTransitive, conclusionText(hop)))
		}
	}
	return steps, true
}

func (e *Engine) proveInheritance(goal types.Statement) ([]proof.Step, bool) {
	entity, value := goal.Args[0].AtomName, goal.Args[1].AtomName
	chain, err := e.kb.InheritsFrom(entity)
	if err != nil {
		return nil, false
	}
	for _, superType := range chain {
		candidate := theory.Statement(goal.Operator, superType, value)
		f, ok := e.kb.HasFact(candidate)
		if !ok {
			continue
		}
		var steps []proof.Step
		isaStmt := theory.Statement("isA", entity, superType)
		if isaFact, ok2 := e.kb.HasFact(isaStmt); ok2 {
			steps = append(steps, proof.NewStep(proof.OpInheritance, conclusionText(isaStmt), isaFact.ID))
		} else {
			steps = append(steps, proof.NewStep(proof.OpInheritance, conclusionText(isaStmt)))
		}
		steps = append(steps, proof.NewStep(proof.OpInheritance, conclusionText(candidate), f.ID))
		return steps, true
	}
	return nil, false
}

// proveViaRule attempts to derive goal from one rule: it unifies every
// consequent leaf sharing goal's operator against goal, then recursively
// proves the antecedent under the resulting substitution. Since
// Antecedent -> And(A,B,C) entails Antecedent -> C for any single leaf
// C, establishing the antecedent under a leaf-specific substitution is
// sufficient to establish that leaf, without needing every other
// consequent leaf to also be the current goal.
func (e *Engine) proveViaRule(rule *types.Rule, goal types.Statement, ctx *proveCtx, depth int) (proof.Object, bool) {
	for _, leaf := range consequentLeaves(rule.Consequent, goal.Operator) {
		sub, ok := unifyPatternToGround(*leaf, goal)
		if !ok {
			continue
		}
		ok, steps, confidence := e.evaluateExpr(rule.Antecedent, sub, ctx, depth+1)
		if !ok {
			continue
		}
		steps = append(steps, proof.NewStep(proof.OpRuleApplication, conclusionText(goal), rule.ID))
		confidence *= rule.Confidence
		return proof.Success(string(proof.OpRuleApplication), confidence, steps...), true
	}
	return proof.Object{}, false
}

// proveContrapositive handles a goal of the form Not(A) where A unifies
// with a leaf of some rule's consequent: it tries to prove Not(antecedent)
// under that leaf's substitution and, if that succeeds, concludes goal
// with a contrapositive step. This only fires when goal itself is a negation
// of a statement appearing as a rule consequent leaf; it is a narrow,
// explicitly-grounded case rather than general proof by contradiction.
func (e *Engine) proveContrapositive(goal types.Statement, ctx *proveCtx, depth int) (proof.Object, bool) {
	if goal.Mode != types.Negate {
		return proof.Object{}, false
	}
	asserted := goal
	asserted.Mode = types.Assert
	for _, rule := range e.kb.RulesForConsequentOperator(asserted.Operator) {
		for _, leaf := range consequentLeaves(rule.Consequent, asserted.Operator) {
			sub, ok := unifyPatternToGround(*leaf, asserted)
			if !ok {
				continue
			}
			antGoal := instantiate(leafStatementOf(rule.Antecedent), sub)
			negAnt := negate(antGoal)
			negObj := e.prove(negAnt, ctx, depth+1)
			if !negObj.Valid {
				continue
			}
			steps := append(negObj.Steps, proof.NewStep(proof.OpContrapositive, conclusionText(goal), rule.ID))
			return proof.Success(string(proof.OpContrapositive), negObj.Confidence*rule.Confidence, steps...), true
		}
	}
	return proof.Object{}, false
}

// leafStatementOf returns expr's statement if it is atomic, or the
// zero Statement otherwise; the contrapositive path above only applies
// when the antecedent itself is a single leaf; compound antecedents
// are left to proveViaRule's forward direction.
func leafStatementOf(expr *types.RuleExpr) types.Statement {
	if expr.IsAtomic() {
		return *expr.Statement
	}
	return types.Statement{}
}

// consequentLeaves collects every atomic leaf within expr (descending
// through And/Or, per spec.md §4.6's "a rule's consequent, possibly a
// leaf inside a compound, unifies with the goal") whose operator
// matches.
func consequentLeaves(expr *types.RuleExpr, operator string) []*types.Statement {
	if expr == nil {
		return nil
	}
	if expr.IsAtomic() {
		if expr.Statement.Operator == operator {
			return []*types.Statement{expr.Statement}
		}
		return nil
	}
	if expr.Op == types.CompoundNot {
		return nil
	}
	var out []*types.Statement
	for _, sub := range expr.Sub {
		out = append(out, consequentLeaves(sub, operator)...)
	}
	return out
}

// evaluateExpr proves expr under sub, recursing through And (all must
// hold) and Or (any one suffices); Not(leaf) holds only if an explicit
// negation fact exists for it, since this engine never infers falsity
// from mere absence. Leaves with a variable sub does not bind are
// grounded by enumerating up to maxGroundingDomain vocabulary entities,
// greedily committing to the first grounding that proves the leaf
// (this engine does not backtrack across sibling conjuncts).
func (e *Engine) evaluateExpr(expr *types.RuleExpr, sub Substitution, ctx *proveCtx, depth int) (bool, []proof.Step, float64) {
	if expr == nil {
		return true, nil, 1.0
	}
	if expr.IsAtomic() {
		return e.evaluateLeaf(*expr.Statement, sub, ctx, depth)
	}
	switch expr.Op {
	case types.CompoundAnd:
		var steps []proof.Step
		confidence := 1.0
		for _, s := range expr.Sub {
			ok, subSteps, c := e.evaluateExpr(s, sub, ctx, depth)
			if !ok {
				return false, nil, 0
			}
			steps = append(steps, subSteps...)
			confidence *= c
		}
		return true, steps, confidence
	case types.CompoundOr:
		for _, s := range expr.Sub {
			if ok, subSteps, c := e.evaluateExpr(s, sub, ctx, depth); ok {
				return true, subSteps, c
			}
		}
		return false, nil, 0
	case types.CompoundNot:
		if len(expr.Sub) != 1 || !expr.Sub[0].IsAtomic() {
			return false, nil, 0
		}
		grounded := instantiate(*expr.Sub[0].Statement, sub)
		if f, ok := e.kb.HasFact(negate(grounded)); ok {
			return true, []proof.Step{proof.NewStep(proof.OpDirect, conclusionText(negate(grounded)), f.ID)}, 1.0
		}
		return false, nil, 0
	default:
		return false, nil, 0
	}
}

func (e *Engine) evaluateLeaf(leaf types.Statement, sub Substitution, ctx *proveCtx, depth int) (bool, []proof.Step, float64) {
	grounded := instantiate(leaf, sub)
	if grounded.IsGround() {
		obj := e.prove(grounded, ctx, depth)
		return obj.Valid, obj.Steps, obj.Confidence
	}
	// At least one hole survives substitution: ground it by bounded
	// enumeration, committing to the first candidate that proves the
	// remainder of the leaf.
	for _, arg := range grounded.Args {
		if !arg.IsHole() {
			continue
		}
		for _, name := range e.boundedEntityNames() {
			candidateSub := Substitution{}
			for k, v := range sub {
				candidateSub[k] = v
			}
			candidateSub[arg.Hole.Name] = name
			candidate := instantiate(leaf, candidateSub)
			if !candidate.IsGround() {
				continue
			}
			obj := e.prove(candidate, ctx, depth)
			if obj.Valid {
				return true, obj.Steps, obj.Confidence
			}
		}
		break
	}
	return false, nil, 0
}
