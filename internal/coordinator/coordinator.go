// Package coordinator dispatches each session query/prove call to the
// symbolic and/or holographic engine according to the session's
// configured reasoning priority, and accumulates the shared stat
// counters spec.md §6 exposes through Session.Inspect. Grounded on the
// teacher lineage's metrics.Collector: a single mutex-guarded counter
// struct updated synchronously on the calling goroutine, no background
// aggregation.
package coordinator

import (
	"sync"

	"agisystem2/core/internal/holographic"
	"agisystem2/core/internal/kb"
	"agisystem2/core/internal/proof"
	"agisystem2/core/internal/symbolic"
	"agisystem2/core/internal/types"
)

// Priority selects which engine a session consults first.
type Priority string

const (
	PrioritySymbolic    Priority = "symbolic"
	PriorityHolographic Priority = "holographic"
)

// Stats is the counter set spec.md §6 names, snapshotted by
// Session.Inspect.
type Stats struct {
	Queries                int
	Proofs                 int
	KBScans                int
	SimilarityChecks       int
	RuleAttempts           int
	TransitiveSteps        int
	HDCQueries             int
	HDCSuccesses           int
	HDCUnbindAttempts      int
	HDCUnbindSuccesses     int
	HDCValidationAttempts  int
	HDCValidationSuccesses int
	HDCProofSuccesses      int
	HDCFastPathHits        int
	SymbolicProofFallbacks int
	MaxProofDepth          int
	MinProofDepth          int
	TotalProofSteps        int
}

// Coordinator is the thin engine dispatcher bound to one session.
type Coordinator struct {
	mu          sync.Mutex
	priority    Priority
	symbolic    *symbolic.Engine
	holography  *holographic.Engine
	alwaysMerge bool
	kb          *kb.KnowledgeBase
	stats       Stats
	depthSeen   bool
}

// New builds a Coordinator. holography may be nil (a session whose
// strategy or configuration does not use holographic reasoning falls
// back to symbolic-only regardless of priority).
func New(priority Priority, sym *symbolic.Engine, holo *holographic.Engine, k *kb.KnowledgeBase, alwaysMergeSymbolic bool) *Coordinator {
	return &Coordinator{priority: priority, symbolic: sym, holography: holo, kb: k, alwaysMerge: alwaysMergeSymbolic}
}

// Query dispatches stmt per the configured priority, merging symbolic
// and holographic bindings when alwaysMergeSymbolic applies.
func (c *Coordinator) Query(stmt types.Statement) []symbolic.Binding {
	c.mu.Lock()
	c.stats.Queries++
	c.stats.KBScans++
	c.mu.Unlock()

	if c.priority == PriorityHolographic && c.holography != nil {
		return c.queryHolographicFirst(stmt)
	}
	return c.symbolic.Query(stmt)
}

func (c *Coordinator) queryHolographicFirst(stmt types.Statement) []symbolic.Binding {
	outcome := c.holography.Query(stmt)

	c.mu.Lock()
	c.stats.HDCQueries++
	if outcome.UnbindAttempted {
		c.stats.HDCUnbindAttempts++
	}
	if outcome.UnbindSucceeded {
		c.stats.HDCUnbindSuccesses++
	}
	c.stats.HDCValidationAttempts += outcome.ValidationAttempts
	c.stats.HDCValidationSuccesses += outcome.ValidationSuccesses
	if len(outcome.Bindings) > 0 {
		c.stats.HDCSuccesses++
	}
	if outcome.FastPath && len(outcome.Bindings) > 0 {
		c.stats.HDCFastPathHits++
	}
	skipSymbolic := outcome.FastPath && len(outcome.Bindings) > 0
	c.mu.Unlock()

	if !c.alwaysMerge || skipSymbolic {
		return outcome.Bindings
	}
	symbolicBindings := c.symbolic.Query(stmt)
	return mergeBindings(outcome.Bindings, symbolicBindings)
}

// Prove dispatches goal per the configured priority.
func (c *Coordinator) Prove(goal types.Statement) proof.Object {
	c.mu.Lock()
	c.stats.Proofs++
	c.mu.Unlock()

	var obj proof.Object
	if c.priority == PriorityHolographic && c.holography != nil {
		var outcome holographic.ProveOutcome
		obj, outcome = c.holography.Prove(goal)

		c.mu.Lock()
		c.stats.HDCQueries++
		if outcome.UnbindAttempted {
			c.stats.HDCUnbindAttempts++
		}
		if outcome.UnbindSucceeded {
			c.stats.HDCUnbindSuccesses++
		}
		c.stats.HDCValidationAttempts += outcome.ValidationAttempts
		c.stats.HDCValidationSuccesses += outcome.ValidationSuccesses
		if outcome.Succeeded {
			c.stats.HDCSuccesses++
			c.stats.HDCProofSuccesses++
		}
		if outcome.FellBackToSymbolic {
			c.stats.SymbolicProofFallbacks++
		}
		c.mu.Unlock()
	} else {
		obj = c.symbolic.Prove(goal)
	}

	c.mu.Lock()
	c.recordProofShapeLocked(obj)
	c.stats.RuleAttempts += countRuleSteps(obj)
	c.stats.TransitiveSteps += countSteps(obj, proof.OpTransitive)
	c.mu.Unlock()
	return obj
}

func (c *Coordinator) recordProofShapeLocked(obj proof.Object) {
	depth := len(obj.Steps)
	c.stats.TotalProofSteps += depth
	if !c.depthSeen {
		c.stats.MaxProofDepth = depth
		c.stats.MinProofDepth = depth
		c.depthSeen = true
		return
	}
	if depth > c.stats.MaxProofDepth {
		c.stats.MaxProofDepth = depth
	}
	if depth < c.stats.MinProofDepth {
		c.stats.MinProofDepth = depth
	}
}

func countRuleSteps(obj proof.Object) int {
	return countSteps(obj, proof.OpRuleApplication)
}

func countSteps(obj proof.Object, op proof.Operation) int {
	n := 0
	for _, s := range obj.Steps {
		if s.Operation == op {
			n++
		}
	}
	return n
}

// Snapshot returns a copy of the current counters.
func (c *Coordinator) Snapshot() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// RecordSimilarityCheck lets callers outside the two engines (e.g. a
// session's direct similarity(a,b) API) attribute their comparisons to
// the shared counter.
func (c *Coordinator) RecordSimilarityCheck() {
	c.mu.Lock()
	c.stats.SimilarityChecks++
	c.mu.Unlock()
}

// mergeBindings unions two binding sets, preferring the
// higher-confidence entry when both sources produced the same
// variable assignment, per spec.md §4.7's always-merge policy.
func mergeBindings(hdc, sym []symbolic.Binding) []symbolic.Binding {
	best := map[string]symbolic.Binding{}
	order := []string{}
	add := func(b symbolic.Binding) {
		key := substitutionKey(b.Values)
		if existing, ok := best[key]; !ok {
			best[key] = b
			order = append(order, key)
		} else if b.Confidence > existing.Confidence {
			best[key] = b
		}
	}
	for _, b := range hdc {
		add(b)
	}
	for _, b := range sym {
		add(b)
	}
	out := make([]symbolic.Binding, 0, len(order))
	for _, key := range order {
		out = append(out, best[key])
	}
	return out
}

func substitutionKey(sub symbolic.Substitution) string {
	key := ""
	names := make([]string, 0, len(sub))
	for n := range sub {
		names = append(names, n)
	}
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j-1] > names[j]; j-- {
			names[j-1], names[j] = names[j], names[j-1]
		}
	}
	for _, n := range names {
		key += n + "=" + sub[n] + "\x00"
	}
	return key
}
