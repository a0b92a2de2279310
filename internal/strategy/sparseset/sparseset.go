// Package sparseset implements the sparse exact-set HDC algebra: each
// vector is a sorted, capped set of "active" integer exponents. Bind is
// the literal symmetric difference of the two active sets (the sparse
// encoding of dense-binary's bitwise XOR, so the same self-inverse
// algebra carries over exactly), Bundle is a capped set union, and
// Similarity is the Jaccard index of the two active sets.
package sparseset

import (
	"sort"

	"agisystem2/core/internal/agierrors"
	"agisystem2/core/internal/vector"
)

// ID is the strategy identifier used in config and in every Vector's
// StrategyID field.
const ID = "sparse-set"

// DefaultGeometry bounds the exponent space: active values lie in
// [0, DefaultGeometry).
const DefaultGeometry = 1 << 20

// MaxActive is the cap on the number of active exponents any vector
// carries, enforced by both Bind and Bundle so repeated composition
// cannot grow a vector without bound.
const MaxActive = 500

func init() {
	vector.Register(Strategy{})
}

// Strategy is the sparse exact-set HDC algebra. It carries no state;
// every method is a pure function of its arguments.
type Strategy struct{}

// ID returns the sparse-set strategy identifier.
func (Strategy) ID() string { return ID }

// Thresholds returns the similarity cutoffs calibrated for the Jaccard
// index, which for two unrelated small active sets drawn from a large
// geometry sits near 0, far lower than dense-binary's ~0.5 baseline.
func (Strategy) Thresholds() vector.Thresholds {
	return vector.Thresholds{
		SimMatchHigh: 0.90,
		SimMatch:     0.70,
		SimWeak:      0.30,
	}
}

// CreateZero returns the empty active set, the identity element for
// Bundle of an empty slice.
func (Strategy) CreateZero(geometry int) vector.Vector {
	return vector.Vector{StrategyID: ID, Geometry: geometry, Sparse: []uint64{}}
}

// CreateFromName derives a deterministic active set from (theoryID, name)
// by hashing the pair with a handful of independent FNV-1a variants, one
// per desired active element, so the same name in the same theory always
// produces the same sorted set.
func (Strategy) CreateFromName(name string, geometry int, theoryID string) vector.Vector {
	const activeCount = 20 // fixed density; sparse vectors use far fewer active bits than dense geometry
	seen := make(map[uint64]bool, activeCount)
	out := make([]uint64, 0, activeCount)
	for salt := uint64(0); len(out) < activeCount; salt++ {
		h := fnv64a(theoryID, name, salt)
		v := h % uint64(geometry)
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return vector.Vector{StrategyID: ID, Geometry: geometry, Sparse: out}
}

func fnv64a(theoryID, name string, salt uint64) uint64 {
	const offset64 = 14695981039346656037
	const prime64 = 1099511628211
	h := uint64(offset64)
	for _, c := range theoryID {
		h ^= uint64(c)
		h *= prime64
	}
	h ^= 0
	h *= prime64
	for _, c := range name {
		h ^= uint64(c)
		h *= prime64
	}
	for i := 0; i < 8; i++ {
		h ^= (salt >> (8 * i)) & 0xff
		h *= prime64
	}
	return h
}

// Bind computes the symmetric difference of the two active sets: an
// exponent is active in the result iff it is active in exactly one of
// a, b. Treating each sparse set as the characteristic vector of a
// {0,1}^geometry bit vector, this is exactly dense-binary's bitwise XOR,
// so the same group-theoretic identity holds: XOR is its own inverse,
// making Bind(Bind(a, b), b) recover a's active set exactly, with no
// approximation, as long as the symmetric difference along the way
// stays within MaxActive (the cap can only be exercised when binding
// against a near-saturated bundle, not between two freshly-stamped
// atom vectors).
func (Strategy) Bind(a, b vector.Vector) (vector.Vector, error) {
	if err := vector.MustMatch(ID, a, b); err != nil {
		return vector.Vector{}, vector.TranslateMismatch(err)
	}
	aSet := make(map[uint64]bool, len(a.Sparse))
	for _, x := range a.Sparse {
		aSet[x] = true
	}
	bSet := make(map[uint64]bool, len(b.Sparse))
	for _, x := range b.Sparse {
		bSet[x] = true
	}
	symDiff := make([]uint64, 0, len(a.Sparse)+len(b.Sparse))
	for x := range aSet {
		if !bSet[x] {
			symDiff = append(symDiff, x)
		}
	}
	for x := range bSet {
		if !aSet[x] {
			symDiff = append(symDiff, x)
		}
	}
	sort.Slice(symDiff, func(i, j int) bool { return symDiff[i] < symDiff[j] })
	if len(symDiff) > MaxActive {
		symDiff = symDiff[:MaxActive]
	}
	return vector.Vector{StrategyID: ID, Geometry: a.Geometry, Sparse: symDiff}, nil
}

// Bundle computes the union of all input active sets, capped at
// MaxActive by retaining the lowest-valued exponents (a deterministic,
// order-independent truncation rule).
func (Strategy) Bundle(vs []vector.Vector) (vector.Vector, error) {
	if len(vs) == 0 {
		return vector.Vector{}, agierrors.NewInvalidArity("bundle", 0, -1)
	}
	geometry := vs[0].Geometry
	seen := make(map[uint64]bool)
	var union []uint64
	for _, v := range vs {
		if err := vector.MustMatch(ID, vs[0], v); err != nil {
			return vector.Vector{}, vector.TranslateMismatch(err)
		}
		for _, x := range v.Sparse {
			if !seen[x] {
				seen[x] = true
				union = append(union, x)
			}
		}
	}
	sort.Slice(union, func(i, j int) bool { return union[i] < union[j] })
	if len(union) > MaxActive {
		union = union[:MaxActive]
	}
	return vector.Vector{StrategyID: ID, Geometry: geometry, Sparse: union}, nil
}

// Similarity returns the Jaccard index |A ∩ B| / |A ∪ B| of the two
// active sets; two empty sets are defined as fully similar (1.0).
func (Strategy) Similarity(a, b vector.Vector) (float64, error) {
	if err := vector.MustMatch(ID, a, b); err != nil {
		return 0, vector.TranslateMismatch(err)
	}
	if len(a.Sparse) == 0 && len(b.Sparse) == 0 {
		return 1, nil
	}
	bSet := make(map[uint64]bool, len(b.Sparse))
	for _, x := range b.Sparse {
		bSet[x] = true
	}
	var intersection int
	for _, x := range a.Sparse {
		if bSet[x] {
			intersection++
		}
	}
	union := len(a.Sparse) + len(b.Sparse) - intersection
	if union == 0 {
		return 1, nil
	}
	return float64(intersection) / float64(union), nil
}

// TopKSimilar scans the vocabulary source linearly and returns the k
// highest-Jaccard-scoring names, ties broken by vocabulary iteration
// order.
func (Strategy) TopKSimilar(query vector.Vector, vocab vector.TopKSource, k int) ([]vector.Scored, error) {
	s := Strategy{}
	var scored []vector.Scored
	var iterErr error
	vocab.Iterate(func(name string, v vector.Vector) bool {
		sim, err := s.Similarity(query, v)
		if err != nil {
			iterErr = err
			return false
		}
		scored = append(scored, vector.Scored{Name: name, Similarity: sim})
		return true
	})
	if iterErr != nil {
		return nil, iterErr
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Similarity > scored[j].Similarity
	})
	if k >= 0 && k < len(scored) {
		scored = scored[:k]
	}
	return scored, nil
}

// Clone returns a deep copy of the active set.
func (Strategy) Clone(v vector.Vector) vector.Vector {
	sparse := make([]uint64, len(v.Sparse))
	copy(sparse, v.Sparse)
	return vector.Vector{StrategyID: v.StrategyID, Geometry: v.Geometry, Sparse: sparse}
}

// Extend is unsupported: the sparse-set exponent space is already sized
// to DefaultGeometry and growing it would invalidate every previously
// hashed active value (CreateFromName's modulus would change), unlike
// dense-binary where new positions are simply appended.
func (Strategy) Extend(v vector.Vector, newGeometry int) (vector.Vector, error) {
	return vector.Vector{}, agierrors.NewUnsupportedExtension(ID)
}

