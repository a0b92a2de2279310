// Package vocabulary implements the insertion-ordered name->Atom map
// every session owns. It follows the same map-plus-ordered-slice
// discipline the teacher lineage's storage layer uses for deterministic
// iteration over otherwise-unordered Go maps, and layers an optional
// chromem-go collection on top as an advisory top-K accelerator.
package vocabulary

import (
	"sync"

	"agisystem2/core/internal/agierrors"
	"agisystem2/core/internal/stamp"
	"agisystem2/core/internal/types"
	"agisystem2/core/internal/vector"
)

// Kind classifies an atom for the auxiliary index the spec allows as an
// optimization over the linear top-K scan (entity atoms, operator atoms,
// and position atoms are kept in separate buckets).
type Kind int

const (
	KindEntity Kind = iota
	KindOperator
	KindPosition
)

// Vocabulary is the insertion-ordered name->Atom map owned by exactly one
// session. It is safe for concurrent use, matching the teacher lineage's
// convention of guarding every exported map with a single mutex even
// though a session is documented as single-threaded-by-contract (the
// mutex exists to make concurrent misuse fail safely, not to enable
// genuine concurrent throughput).
type Vocabulary struct {
	mu sync.RWMutex

	strategy vector.Strategy
	geometry int
	theoryID string

	byName  map[string]types.Atom
	ordered []string // insertion order, for stable top-K tie-breaking

	byKind map[Kind][]string

	accel *accelerator // nil if the accelerator could not be constructed; falls back to pure linear scan
}

// New constructs an empty Vocabulary bound to one strategy, geometry, and
// theory/session identifier. All atoms interned through it are stamped
// with that (strategy, geometry, theoryID) triple.
func New(s vector.Strategy, geometry int, theoryID string) *Vocabulary {
	return &Vocabulary{
		strategy: s,
		geometry: geometry,
		theoryID: theoryID,
		byName:   make(map[string]types.Atom),
		byKind:   make(map[Kind][]string),
		accel:    newAccelerator(s, geometry),
	}
}

// Size returns the number of interned atoms.
func (v *Vocabulary) Size() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.ordered)
}

// Lookup returns the atom for name and whether it was present.
func (v *Vocabulary) Lookup(name string) (types.Atom, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	a, ok := v.byName[name]
	return a, ok
}

// MustLookup returns the atom for name or an UnknownAtom error, for call
// sites (e.g. prove) where implicit creation is not permitted.
func (v *Vocabulary) MustLookup(name string) (types.Atom, error) {
	a, ok := v.Lookup(name)
	if !ok {
		return types.Atom{}, agierrors.NewUnknownAtom(name)
	}
	return a, nil
}

// GetOrCreate interns name as KindEntity if not already present, stamping
// it deterministically via package stamp, and returns the resulting atom.
// Re-requesting the same name always returns the identical vector.
func (v *Vocabulary) GetOrCreate(name string) types.Atom {
	return v.getOrCreate(name, KindEntity)
}

// GetOrCreateOperator is GetOrCreate for an atom acting in operator
// position, tracked in the operator auxiliary bucket.
func (v *Vocabulary) GetOrCreateOperator(name string) types.Atom {
	return v.getOrCreate(name, KindOperator)
}

// GetOrCreatePosition interns the reserved position atom for index k,
// tracked in the position auxiliary bucket.
func (v *Vocabulary) GetOrCreatePosition(k int) types.Atom {
	return v.getOrCreate(stamp.PositionName(k), KindPosition)
}

func (v *Vocabulary) getOrCreate(name string, kind Kind) types.Atom {
	v.mu.Lock()
	defer v.mu.Unlock()
	if a, ok := v.byName[name]; ok {
		return a
	}
	a := stamp.Atom(v.strategy, v.geometry, v.theoryID, name)
	v.byName[name] = a
	v.ordered = append(v.ordered, name)
	v.byKind[kind] = append(v.byKind[kind], name)
	if v.accel != nil {
		v.accel.add(name, a.Vector)
	}
	return a
}

// Iterate visits every (name, vector) pair in insertion order, stopping
// early if fn returns false. It implements vector.TopKSource so every
// Strategy's TopKSimilar can scan a Vocabulary directly without either
// package importing the other's concrete type.
func (v *Vocabulary) Iterate(fn func(name string, vec vector.Vector) bool) {
	v.mu.RLock()
	names := make([]string, len(v.ordered))
	copy(names, v.ordered)
	snapshot := make(map[string]types.Atom, len(v.byName))
	for k, val := range v.byName {
		snapshot[k] = val
	}
	v.mu.RUnlock()

	for _, name := range names {
		if !fn(name, snapshot[name].Vector) {
			return
		}
	}
}

// IterateKind is Iterate restricted to one auxiliary bucket, the
// shrink-the-scan optimization spec.md §4.3 permits.
func (v *Vocabulary) IterateKind(kind Kind, fn func(name string, vec vector.Vector) bool) {
	v.mu.RLock()
	names := make([]string, len(v.byKind[kind]))
	copy(names, v.byKind[kind])
	snapshot := make(map[string]types.Atom, len(names))
	for _, n := range names {
		snapshot[n] = v.byName[n]
	}
	v.mu.RUnlock()

	for _, name := range names {
		if !fn(name, snapshot[name].Vector) {
			return
		}
	}
}

// TopKSimilar consults the accelerator first purely as a cross-check,
// then delegates to the bound strategy's linear scan, which remains the
// authoritative contract (spec.md §4.3): a mismatch between the two
// would be a bug in the accelerator's projection, never a reason to
// prefer its answer, so TopKSimilar always returns the linear-scan
// result and discards the accelerated one.
func (v *Vocabulary) TopKSimilar(query vector.Vector, k int) ([]vector.Scored, error) {
	v.AcceleratedTopKSimilar(query, k)
	return v.strategy.TopKSimilar(query, v, k)
}

// AcceleratedTopKSimilar returns the chromem-go-backed approximate top-K,
// or (nil, false) if no accelerator is installed for this vocabulary's
// strategy. TopKSimilar calls this on every query purely as a
// cross-check; tests assert its result agrees with the authoritative
// linear scan.
func (v *Vocabulary) AcceleratedTopKSimilar(query vector.Vector, k int) ([]vector.Scored, bool) {
	v.mu.RLock()
	accel := v.accel
	v.mu.RUnlock()
	if accel == nil {
		return nil, false
	}
	scored, err := accel.topK(query, k)
	if err != nil {
		return nil, false
	}
	return scored, true
}

// Names returns a copy of the insertion-ordered name list.
func (v *Vocabulary) Names() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]string, len(v.ordered))
	copy(out, v.ordered)
	return out
}
