// Package kb implements the knowledge base: the append-only fact list,
// the symbolic component index, the bundled "holographic memory" vector,
// and the declared relational structure (transitive/symmetric/
// inheritable operators, mutual exclusion groups) that the reasoning
// engines consult. It follows the teacher lineage's MemoryStorage
// discipline — one mutex guarding parallel maps and ordered slices, with
// defensive copies returned to callers — generalized from arbitrary
// thought/branch records to facts and rules.
package kb

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/dominikbraun/graph"
	"github.com/google/uuid"

	"agisystem2/core/internal/agierrors"
	"agisystem2/core/internal/contradiction"
	"agisystem2/core/internal/encode"
	"agisystem2/core/internal/types"
	"agisystem2/core/internal/vector"
	"agisystem2/core/internal/vocabulary"
)

// ErrNotGround is returned when a statement containing a hole is passed
// to AddFact/LearnFacts; only fully-bound statements can become facts.
var ErrNotGround = errors.New("kb: statement must be fully bound to become a fact")

// componentKB is the symbolic index over committed facts: by operator,
// and by (position, atom name) pair, as spec.md §3 names it.
type componentKB struct {
	byOperator      map[string][]string            // operator -> fact IDs
	byArgAtPosition map[argKey][]string             // (position, atom) -> fact IDs
}

type argKey struct {
	Position int
	AtomName string
}

// KnowledgeBase owns facts, rules, the symbolic indices, the bundled
// vector, and the theory-declared relational structure for exactly one
// session.
type KnowledgeBase struct {
	mu sync.RWMutex

	strategy vector.Strategy
	geometry int
	vocab    *vocabulary.Vocabulary

	maxPositionalArity int

	facts        []*types.Fact
	rules        []*types.Rule
	factIndex    map[string]string // canonical (operator, args) key -> fact ID
	components   componentKB
	kbBundle     vector.Vector
	bundleIsZero bool

	rulesByConsequentOp map[string][]*types.Rule

	transitiveRelations   map[string]bool
	symmetricRelations    map[string]bool
	inheritableProperties map[string]bool

	// relationGraphs holds one directed graph per declared transitive or
	// inheritable ("isA") operator, vertices are atom names, adapted from
	// the teacher's GraphController/dominikbraun-graph wrapping idiom.
	relationGraphs map[string]graph.Graph[string, string]

	detector *contradiction.Detector

	rejectContradictions bool
}

// Config bundles the construction-time parameters a session supplies.
type Config struct {
	Strategy              vector.Strategy
	Geometry              int
	Vocabulary            *vocabulary.Vocabulary
	MaxPositionalArity    int
	RejectContradictions  bool
}

// New constructs an empty knowledge base.
func New(cfg Config) *KnowledgeBase {
	return &KnowledgeBase{
		strategy:           cfg.Strategy,
		geometry:           cfg.Geometry,
		vocab:              cfg.Vocabulary,
		maxPositionalArity: cfg.MaxPositionalArity,
		factIndex:          make(map[string]string),
		components: componentKB{
			byOperator:      make(map[string][]string),
			byArgAtPosition: make(map[argKey][]string),
		},
		kbBundle:              cfg.Strategy.CreateZero(cfg.Geometry),
		bundleIsZero:          true,
		rulesByConsequentOp:   make(map[string][]*types.Rule),
		transitiveRelations:   make(map[string]bool),
		symmetricRelations:    make(map[string]bool),
		inheritableProperties: make(map[string]bool),
		relationGraphs:        make(map[string]graph.Graph[string, string]),
		detector:              contradiction.NewDetector(),
		rejectContradictions:  cfg.RejectContradictions,
	}
}

// DeclareTransitive marks operator as transitive, enabling chain
// expansion in the symbolic engine and allocating a reachability graph.
func (kb *KnowledgeBase) DeclareTransitive(operator string) {
	kb.mu.Lock()
	defer kb.mu.Unlock()
	kb.transitiveRelations[operator] = true
	kb.ensureGraphLocked(operator)
}

// DeclareSymmetric marks operator as symmetric. Symmetry takes effect
// only in the relation graph of an operator also declared transitive or
// inheritable: each binary fact(op,a,b) then adds the reverse edge b->a
// as well, without a mirrored fact being physically stored, so
// transitive expansion reaches both directions. Direct matching does not
// mirror facts, so for an operator declared only symmetric, query and
// prove do not derive fact(op,b,a) from fact(op,a,b).
func (kb *KnowledgeBase) DeclareSymmetric(operator string) {
	kb.mu.Lock()
	defer kb.mu.Unlock()
	kb.symmetricRelations[operator] = true
}

// DeclareInheritable marks operator as a property that `isA` inheritance
// may satisfy via a super-type when not directly asserted.
func (kb *KnowledgeBase) DeclareInheritable(operator string) {
	kb.mu.Lock()
	defer kb.mu.Unlock()
	kb.inheritableProperties[operator] = true
}

// DeclareMutualExclusion registers a set of mutually-exclusive statement
// patterns with the contradiction detector.
func (kb *KnowledgeBase) DeclareMutualExclusion(group []types.Statement) {
	kb.mu.Lock()
	defer kb.mu.Unlock()
	kb.detector.AddMutualExclusionGroup(group)
}

// IsTransitive reports whether operator was declared transitive.
func (kb *KnowledgeBase) IsTransitive(operator string) bool {
	kb.mu.RLock()
	defer kb.mu.RUnlock()
	return kb.transitiveRelations[operator]
}

// IsSymmetric reports whether operator was declared symmetric.
func (kb *KnowledgeBase) IsSymmetric(operator string) bool {
	kb.mu.RLock()
	defer kb.mu.RUnlock()
	return kb.symmetricRelations[operator]
}

// IsInheritable reports whether operator was declared inheritable.
func (kb *KnowledgeBase) IsInheritable(operator string) bool {
	kb.mu.RLock()
	defer kb.mu.RUnlock()
	return kb.inheritableProperties[operator]
}

// ensureGraphLocked returns the relation graph for operator, allocating
// it on first use. The "isA" hierarchy is built with graph.PreventCycles
// so a theory declaring e.g. isA(Dog,Animal) and isA(Animal,Dog) fails
// the edge insertion instead of silently producing an inheritance loop;
// general transitive/inheritable relations have no such guarantee and
// may legitimately cycle (e.g. a "relatedTo" operator).
func (kb *KnowledgeBase) ensureGraphLocked(operator string) graph.Graph[string, string] {
	if g, ok := kb.relationGraphs[operator]; ok {
		return g
	}
	var g graph.Graph[string, string]
	if operator == "isA" {
		g = graph.New(stringHash, graph.Directed(), graph.PreventCycles())
	} else {
		g = graph.New(stringHash, graph.Directed())
	}
	kb.relationGraphs[operator] = g
	return g
}

func stringHash(s string) string { return s }

// AddFact is LearnFacts for a single statement, returning the committed
// fact (or the pre-existing duplicate) and whether a new fact was
// actually added.
func (kb *KnowledgeBase) AddFact(stmt types.Statement) (*types.Fact, bool, error) {
	added, err := kb.LearnFacts([]types.Statement{stmt})
	if err != nil {
		return nil, false, err
	}
	if len(added) == 1 {
		return added[0], true, nil
	}
	// Not newly added: either a duplicate of an existing fact, or (with
	// an empty stmts slice, which never happens here) nothing at all.
	existing, _ := kb.HasFact(stmt)
	return existing, false, nil
}

// LearnFacts commits a batch of statements as a single transaction: every
// statement is checked for duplicates (silently skipped, per-statement,
// never aborting the batch) and checked for contradiction against both
// the committed KB and every other statement already staged earlier in
// this same batch. Atoms are interned and vectors encoded only once the
// whole batch has passed. If any statement contradicts, the entire
// batch is rejected and the KB (vocabulary included) is left exactly as
// it was beforehand —
// this is spec.md §8's "contradiction transactionality" law. On success,
// every newly-added fact (duplicates excluded) is returned in statement
// order.
func (kb *KnowledgeBase) LearnFacts(stmts []types.Statement) ([]*types.Fact, error) {
	for _, stmt := range stmts {
		if kb.maxPositionalArity > 0 && stmt.Arity() > kb.maxPositionalArity {
			return nil, agierrors.NewInvalidArity(stmt.Operator, stmt.Arity(), kb.maxPositionalArity)
		}
		if !stmt.IsGround() {
			return nil, ErrNotGround
		}
	}

	kb.mu.Lock()
	defer kb.mu.Unlock()

	stagedKeys := make(map[string]bool)
	var staged []*types.Fact
	visible := append([]*types.Fact(nil), kb.facts...) // committed facts + staged-so-far, for in-batch contradiction checks

	for _, stmt := range stmts {
		key := canonicalKey(stmt)
		if _, ok := kb.factIndex[key]; ok {
			continue // already committed from a prior batch: silently ignored
		}
		if stagedKeys[key] {
			continue // duplicate within this same batch: silently ignored
		}

		if kb.rejectContradictions {
			if conflictID, detail, conflict := kb.detector.Check(stmt, visible); conflict {
				return nil, agierrors.NewContradiction(conflictID, detail)
			}
		}

		fact := &types.Fact{
			ID:        uuid.NewString(),
			Statement: stmt,
			CreatedAt: time.Now().UTC(),
		}
		stagedKeys[key] = true
		staged = append(staged, fact)
		visible = append(visible, fact)
	}

	if len(staged) == 0 {
		return nil, nil
	}

	// The batch is accepted: only now intern its atoms and encode it.
	for _, fact := range staged {
		stmt := fact.Statement
		kb.internStatementAtoms(stmt)
		vec, err := encode.Statement(kb.strategy, kb.geometry, stmt.Operator, kb.vocab.GetOrCreateOperator(stmt.Operator).Vector, kb.encodeArgs(stmt))
		if err != nil {
			return nil, err
		}
		fact.Vector = vec
	}

	for _, fact := range staged {
		kb.facts = append(kb.facts, fact)
		kb.factIndex[canonicalKey(fact.Statement)] = fact.ID
		kb.indexComponentsLocked(fact)
		kb.maintainGraphsLocked(fact)
	}
	if err := kb.rebundleLocked(); err != nil {
		return nil, err
	}

	return staged, nil
}

// encodeArgs resolves each argument's positional-role vector and (for
// bound arguments) its atom vector, interning position atoms on first
// use, ready to hand to package encode.
func (kb *KnowledgeBase) encodeArgs(stmt types.Statement) []encode.Arg {
	out := make([]encode.Arg, stmt.Arity())
	for i, arg := range stmt.Args {
		pos := kb.vocab.GetOrCreatePosition(i).Vector
		if arg.IsHole() {
			out[i] = encode.Arg{Position: pos, IsHole: true}
			continue
		}
		out[i] = encode.Arg{Position: pos, Value: kb.vocab.GetOrCreate(arg.AtomName).Vector}
	}
	return out
}

func (kb *KnowledgeBase) internStatementAtoms(stmt types.Statement) {
	kb.vocab.GetOrCreateOperator(stmt.Operator)
	for _, arg := range stmt.Args {
		if !arg.IsHole() {
			kb.vocab.GetOrCreate(arg.AtomName)
		}
	}
}

// canonicalKey is the exact-match key spec.md §4.4's factIndex is keyed
// by: operator plus the ordered argument atom names. Mode (assert vs
// negate) is folded in so a fact and its explicit negation occupy
// distinct factIndex slots — contradiction rejection, not deduplication,
// is what keeps both from coexisting.
func canonicalKey(stmt types.Statement) string {
	key := string(stmt.Mode) + "\x00" + stmt.Operator
	for _, a := range stmt.Args {
		key += "\x00" + a.AtomName
	}
	return key
}

func (kb *KnowledgeBase) findFactLocked(id string) *types.Fact {
	for _, f := range kb.facts {
		if f.ID == id {
			return copyFact(f)
		}
	}
	return nil
}

func copyFact(f *types.Fact) *types.Fact {
	cp := *f
	args := make([]types.Term, len(f.Statement.Args))
	copy(args, f.Statement.Args)
	cp.Statement.Args = args
	return &cp
}

func (kb *KnowledgeBase) indexComponentsLocked(fact *types.Fact) {
	op := fact.Statement.Operator
	kb.components.byOperator[op] = append(kb.components.byOperator[op], fact.ID)
	for pos, arg := range fact.Statement.Args {
		k := argKey{Position: pos, AtomName: arg.AtomName}
		kb.components.byArgAtPosition[k] = append(kb.components.byArgAtPosition[k], fact.ID)
	}
}

// maintainGraphsLocked adds an edge to the relation graph for this
// fact's operator, if that operator was declared transitive or
// inheritable. Binary facts only; higher/lower-arity facts are skipped
// since a relation graph edge needs exactly two endpoints.
func (kb *KnowledgeBase) maintainGraphsLocked(fact *types.Fact) {
	op := fact.Statement.Operator
	if !kb.transitiveRelations[op] && !kb.inheritableProperties[op] {
		return
	}
	if fact.Statement.Arity() != 2 {
		return
	}
	g := kb.ensureGraphLocked(op)
	from := fact.Statement.Args[0].AtomName
	to := fact.Statement.Args[1].AtomName
	_ = g.AddVertex(from)
	_ = g.AddVertex(to)
	_ = g.AddEdge(from, to) // ignores "already exists" and benign cycle errors; reachability queries tolerate both

	if kb.symmetricRelations[op] {
		_ = g.AddEdge(to, from)
	}
}

func (kb *KnowledgeBase) rebundleLocked() error {
	vecs := make([]vector.Vector, 0, len(kb.facts))
	for _, f := range kb.facts {
		vecs = append(vecs, f.Vector)
	}
	if len(vecs) == 0 {
		kb.kbBundle = kb.strategy.CreateZero(kb.geometry)
		kb.bundleIsZero = true
		return nil
	}
	bundle, err := kb.strategy.Bundle(vecs)
	if err != nil {
		return err
	}
	kb.kbBundle = bundle
	kb.bundleIsZero = false
	return nil
}

// KBBundle returns the current bundle of all fact vectors.
func (kb *KnowledgeBase) KBBundle() vector.Vector {
	kb.mu.RLock()
	defer kb.mu.RUnlock()
	return kb.strategy.Clone(kb.kbBundle)
}

// AddRule registers a rule, indexed by every operator appearing at a
// leaf of its consequent (descending through And/Or/Not), per spec.md
// §4.11 ("Rules are registered at learn time and indexed by consequent
// leaf operator").
func (kb *KnowledgeBase) AddRule(rule *types.Rule) {
	kb.mu.Lock()
	defer kb.mu.Unlock()

	if rule.ID == "" {
		rule.ID = uuid.NewString()
	}
	if rule.CreatedAt.IsZero() {
		rule.CreatedAt = time.Now().UTC()
	}
	if rule.Confidence == 0 {
		rule.Confidence = 1.0
	}

	kb.rules = append(kb.rules, rule)
	for _, op := range consequentLeafOperators(rule.Consequent) {
		kb.rulesByConsequentOp[op] = append(kb.rulesByConsequentOp[op], rule)
	}
}

func consequentLeafOperators(expr *types.RuleExpr) []string {
	if expr == nil {
		return nil
	}
	if expr.IsAtomic() {
		return []string{expr.Statement.Operator}
	}
	var out []string
	for _, sub := range expr.Sub {
		out = append(out, consequentLeafOperators(sub)...)
	}
	return out
}

// RulesForConsequentOperator returns a defensive copy of the rule
// pointers indexed under operator (pointers are never mutated after
// AddRule, so sharing them read-only is safe).
func (kb *KnowledgeBase) RulesForConsequentOperator(operator string) []*types.Rule {
	kb.mu.RLock()
	defer kb.mu.RUnlock()
	src := kb.rulesByConsequentOp[operator]
	out := make([]*types.Rule, len(src))
	copy(out, src)
	return out
}

// AllRules returns a defensive copy of every registered rule pointer.
func (kb *KnowledgeBase) AllRules() []*types.Rule {
	kb.mu.RLock()
	defer kb.mu.RUnlock()
	out := make([]*types.Rule, len(kb.rules))
	copy(out, kb.rules)
	return out
}

// FindByOperator returns copies of every fact whose operator matches.
func (kb *KnowledgeBase) FindByOperator(operator string) []*types.Fact {
	kb.mu.RLock()
	defer kb.mu.RUnlock()
	ids := kb.components.byOperator[operator]
	out := make([]*types.Fact, 0, len(ids))
	for _, id := range ids {
		if f := kb.findFactLocked(id); f != nil {
			out = append(out, f)
		}
	}
	return out
}

// FindByArgAtPosition returns copies of every fact with atomName bound
// at argument position.
func (kb *KnowledgeBase) FindByArgAtPosition(position int, atomName string) []*types.Fact {
	kb.mu.RLock()
	defer kb.mu.RUnlock()
	ids := kb.components.byArgAtPosition[argKey{Position: position, AtomName: atomName}]
	out := make([]*types.Fact, 0, len(ids))
	for _, id := range ids {
		if f := kb.findFactLocked(id); f != nil {
			out = append(out, f)
		}
	}
	return out
}

// FactsMatching intersects FindByOperator(op) with FindByArgAtPosition
// for every bound (position, atomName) constraint.
func (kb *KnowledgeBase) FactsMatching(operator string, constraints map[int]string) []*types.Fact {
	candidates := kb.FindByOperator(operator)
	if len(constraints) == 0 {
		return candidates
	}
	out := candidates[:0:0]
	for _, f := range candidates {
		match := true
		for pos, name := range constraints {
			if pos >= f.Statement.Arity() || f.Statement.Args[pos].AtomName != name {
				match = false
				break
			}
		}
		if match {
			out = append(out, f)
		}
	}
	return out
}

// HasFact reports whether the exact ground statement is present.
func (kb *KnowledgeBase) HasFact(stmt types.Statement) (*types.Fact, bool) {
	kb.mu.RLock()
	id, ok := kb.factIndex[canonicalKey(stmt)]
	kb.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return kb.findFactLocked(id), true
}

// TransitiveChain walks the declared-transitive (or inheritable "isA")
// relation graph for operator, returning every atom reachable from
// `from` in BFS order (closest first), adapted from the teacher's
// GraphController traversal helpers using dominikbraun/graph's adjacency
// map rather than a bespoke BFS over hand-rolled edge lists.
func (kb *KnowledgeBase) TransitiveChain(operator, from string) ([]string, error) {
	kb.mu.RLock()
	g, ok := kb.relationGraphs[operator]
	kb.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	adjacency, err := g.AdjacencyMap()
	if err != nil {
		return nil, err
	}
	visited := map[string]bool{from: true}
	queue := []string{from}
	var order []string
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		neighbors := adjacency[cur]
		keys := make([]string, 0, len(neighbors))
		for to := range neighbors {
			keys = append(keys, to)
		}
		sort.Strings(keys) // deterministic traversal order
		for _, to := range keys {
			if visited[to] {
				continue
			}
			visited[to] = true
			order = append(order, to)
			queue = append(queue, to)
		}
	}
	return order, nil
}

// InheritsFrom is TransitiveChain specialized for the "isA" operator,
// the one property-inheritance walk spec.md §4.6 names explicitly.
func (kb *KnowledgeBase) InheritsFrom(atom string) ([]string, error) {
	return kb.TransitiveChain("isA", atom)
}

// ShortestRelationPath returns one shortest hop sequence (inclusive of
// both endpoints) connecting from to to in operator's declared-
// transitive relation graph, or nil if no such declaration or path
// exists. The symbolic engine uses this to render the intermediate
// hops of a transitive proof rather than just asserting reachability.
func (kb *KnowledgeBase) ShortestRelationPath(operator, from, to string) ([]string, error) {
	kb.mu.RLock()
	g, ok := kb.relationGraphs[operator]
	kb.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	adjacency, err := g.AdjacencyMap()
	if err != nil {
		return nil, err
	}
	parent := map[string]string{from: ""}
	queue := []string{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == to {
			break
		}
		neighbors := adjacency[cur]
		keys := make([]string, 0, len(neighbors))
		for next := range neighbors {
			keys = append(keys, next)
		}
		sort.Strings(keys)
		for _, next := range keys {
			if _, seen := parent[next]; seen {
				continue
			}
			parent[next] = cur
			queue = append(queue, next)
		}
	}
	if _, reached := parent[to]; !reached {
		return nil, nil
	}
	var path []string
	for node := to; node != ""; node = parent[node] {
		path = append([]string{node}, path...)
		if node == from {
			break
		}
	}
	return path, nil
}

// FactCount returns the number of committed facts.
func (kb *KnowledgeBase) FactCount() int {
	kb.mu.RLock()
	defer kb.mu.RUnlock()
	return len(kb.facts)
}

// RuleCount returns the number of registered rules.
func (kb *KnowledgeBase) RuleCount() int {
	kb.mu.RLock()
	defer kb.mu.RUnlock()
	return len(kb.rules)
}

// AllFacts returns defensive copies of every committed fact, in
// insertion order.
func (kb *KnowledgeBase) AllFacts() []*types.Fact {
	kb.mu.RLock()
	defer kb.mu.RUnlock()
	out := make([]*types.Fact, len(kb.facts))
	for i, f := range kb.facts {
		out[i] = copyFact(f)
	}
	return out
}
