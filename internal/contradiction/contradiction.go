// Package contradiction implements the mutual-exclusion and
// direct-negation contradiction checks the knowledge base consults
// before committing a fact. It is adapted from the teacher lineage's
// analysis.ContradictionDetector, re-targeted from natural-language
// substring matching to exact structural matching over types.Statement
// with hole positions acting as wildcards.
package contradiction

import (
	"fmt"
	"sync"

	"agisystem2/core/internal/types"
)

// Detector holds the declared mutual-exclusion groups for one session.
// It is read by the knowledge base under the KB's own lock, but carries
// its own mutex so its methods are also safe to call on it directly,
// outside that lock.
type Detector struct {
	mu     sync.RWMutex
	groups [][]types.Statement
}

// NewDetector returns a Detector with no declared groups; only direct
// negation is checked until groups are added.
func NewDetector() *Detector {
	return &Detector{}
}

// AddMutualExclusionGroup registers a set of patterns where asserting a
// ground fact matching one pattern is incompatible with an existing fact
// matching a different pattern in the same group, under consistent
// variable bindings. Patterns use Hole terms as wildcards.
func (d *Detector) AddMutualExclusionGroup(group []types.Statement) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.groups = append(d.groups, group)
}

// Check reports whether candidate conflicts with any fact in existing,
// either via an explicit negation of the other, or via a declared
// mutual-exclusion group. It returns the id of the conflicting fact and
// a human-readable explanation.
func (d *Detector) Check(candidate types.Statement, existing []*types.Fact) (conflictFactID, detail string, conflict bool) {
	for _, f := range existing {
		if isDirectNegation(candidate, f.Statement) {
			return f.ID, fmt.Sprintf("%s directly negates existing fact %s", describe(candidate), f.ID), true
		}
	}

	d.mu.RLock()
	groups := d.groups
	d.mu.RUnlock()

	for _, group := range groups {
		candidateSlot, candidateBindings, ok := matchGroup(group, candidate)
		if !ok {
			continue
		}
		for _, f := range existing {
			otherSlot, otherBindings, ok := matchGroup(group, f.Statement)
			if !ok || otherSlot == candidateSlot {
				continue
			}
			if bindingsConsistent(candidateBindings, otherBindings) {
				return f.ID, fmt.Sprintf("%s is mutually exclusive with existing fact %s (%s)",
					describe(candidate), f.ID, describe(f.Statement)), true
			}
		}
	}

	return "", "", false
}

// isDirectNegation reports whether a and b are the same operator and
// arguments with opposite truth modes.
func isDirectNegation(a, b types.Statement) bool {
	if a.Operator != b.Operator || len(a.Args) != len(b.Args) {
		return false
	}
	if a.Mode == b.Mode {
		return false
	}
	for i := range a.Args {
		if a.Args[i].AtomName != b.Args[i].AtomName {
			return false
		}
	}
	return true
}

// matchGroup finds the pattern within group that stmt matches (same
// operator and arity, with holes treated as wildcards), returning its
// index within the group and the variable bindings the match implied.
func matchGroup(group []types.Statement, stmt types.Statement) (slot int, bindings map[string]string, ok bool) {
	for i, pattern := range group {
		if b, matched := matchPattern(pattern, stmt); matched {
			return i, b, true
		}
	}
	return -1, nil, false
}

// matchPattern matches a statement against a pattern whose holes act as
// named wildcards; a bound pattern argument must equal the statement's
// argument exactly.
func matchPattern(pattern, stmt types.Statement) (map[string]string, bool) {
	if pattern.Operator != stmt.Operator || len(pattern.Args) != len(stmt.Args) {
		return nil, false
	}
	bindings := make(map[string]string)
	for i, p := range pattern.Args {
		if p.IsHole() {
			bindings[p.Hole.Name] = stmt.Args[i].AtomName
			continue
		}
		if p.AtomName != stmt.Args[i].AtomName {
			return nil, false
		}
	}
	return bindings, true
}

// bindingsConsistent reports whether two wildcard-binding maps agree on
// every variable name they share.
func bindingsConsistent(a, b map[string]string) bool {
	for k, v := range a {
		if other, ok := b[k]; ok && other != v {
			return false
		}
	}
	return true
}

func describe(stmt types.Statement) string {
	s := stmt.Operator
	for _, a := range stmt.Args {
		if a.IsHole() {
			s += " ?" + a.Hole.Name
		} else {
			s += " " + a.AtomName
		}
	}
	return s
}
