// Package densebinary implements the dense bipolar/binary HDC algebra:
// fixed-width bit-packed vectors, XOR bind, majority-vote bundle, and
// Hamming-distance similarity. It registers itself into the vector
// package's strategy registry at init time, mirroring the name-keyed
// constructor registries the rest of this lineage uses for pluggable
// thinking modes.
package densebinary

import (
	"hash/fnv"
	"math/bits"
	"math/rand"
	"sort"

	"agisystem2/core/internal/agierrors"
	"agisystem2/core/internal/vector"
)

// ID is the strategy identifier used in config and in every Vector's
// StrategyID field.
const ID = "dense-binary"

// DefaultGeometry is the bit width used when a session does not override
// it: 2^15 bits, large enough that unrelated atoms are quasi-orthogonal
// with overwhelming probability.
const DefaultGeometry = 1 << 15

func init() {
	vector.Register(Strategy{})
}

// Strategy is the dense bipolar/binary HDC algebra. It carries no state;
// every method is a pure function of its arguments.
type Strategy struct{}

// ID returns the dense-binary strategy identifier.
func (Strategy) ID() string { return ID }

// Thresholds returns the similarity cutoffs calibrated for Hamming
// similarity over high-dimensional bipolar vectors: unrelated vectors
// cluster tightly around 0.5, so SimWeak sits only modestly above that.
func (Strategy) Thresholds() vector.Thresholds {
	return vector.Thresholds{
		SimMatchHigh: 0.95,
		SimMatch:     0.85,
		SimWeak:      0.60,
	}
}

func words(geometry int) int {
	return (geometry + 63) / 64
}

// CreateZero returns the all-zero-bits vector of the given geometry, used
// as the identity element for Bundle of an empty set and as a starting
// accumulator.
func (Strategy) CreateZero(geometry int) vector.Vector {
	return vector.Vector{
		StrategyID: ID,
		Geometry:   geometry,
		Dense:      make([]uint64, words(geometry)),
	}
}

// CreateFromName deterministically derives a pseudo-random bit pattern
// from (theoryID, name) via an FNV-1a seeded PRNG, so the same name in
// the same theory always produces byte-identical vectors within one
// process and across processes, independent of insertion order.
func (Strategy) CreateFromName(name string, geometry int, theoryID string) vector.Vector {
	h := fnv.New64a()
	_, _ = h.Write([]byte(theoryID))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(name))
	seed := h.Sum64()
	rng := rand.New(rand.NewSource(int64(seed)))

	nWords := words(geometry)
	dense := make([]uint64, nWords)
	for i := range dense {
		dense[i] = rng.Uint64()
	}
	maskTrailingBits(dense, geometry)
	return vector.Vector{StrategyID: ID, Geometry: geometry, Dense: dense}
}

// maskTrailingBits clears any bits beyond `geometry` in the final word so
// that population-count-based similarity never counts padding bits.
func maskTrailingBits(dense []uint64, geometry int) {
	if len(dense) == 0 {
		return
	}
	rem := geometry % 64
	if rem == 0 {
		return
	}
	mask := uint64(1)<<uint(rem) - 1
	dense[len(dense)-1] &= mask
}

// Bind computes bitwise XOR, the dense-binary strategy's self-inverse
// binding operator: Bind(Bind(a, b), b) == a.
func (Strategy) Bind(a, b vector.Vector) (vector.Vector, error) {
	if err := vector.MustMatch(ID, a, b); err != nil {
		return vector.Vector{}, vector.TranslateMismatch(err)
	}
	out := make([]uint64, len(a.Dense))
	for i := range out {
		out[i] = a.Dense[i] ^ b.Dense[i]
	}
	return vector.Vector{StrategyID: ID, Geometry: a.Geometry, Dense: out}, nil
}

// Bundle computes the bitwise majority vote across all input vectors. An
// exact tie (even count with split 50/50 at a bit position) resolves to
// 1, matching the teacher lineage's convention of breaking ties toward
// the more recently observed evidence being "present" rather than
// silently dropped.
func (Strategy) Bundle(vs []vector.Vector) (vector.Vector, error) {
	if len(vs) == 0 {
		return vector.Vector{}, agierrors.NewInvalidArity("bundle", 0, -1)
	}
	geometry := vs[0].Geometry
	for _, v := range vs[1:] {
		if err := vector.MustMatch(ID, vs[0], v); err != nil {
			return vector.Vector{}, vector.TranslateMismatch(err)
		}
	}
	nWords := words(geometry)
	counts := make([]int, geometry)
	for _, v := range vs {
		for bitIdx := 0; bitIdx < geometry; bitIdx++ {
			if bitSet(v.Dense, bitIdx) {
				counts[bitIdx]++
			}
		}
	}
	half := len(vs)
	out := make([]uint64, nWords)
	for bitIdx, c := range counts {
		if 2*c >= half {
			out[bitIdx/64] |= 1 << uint(bitIdx%64)
		}
	}
	return vector.Vector{StrategyID: ID, Geometry: geometry, Dense: out}, nil
}

func bitSet(words []uint64, idx int) bool {
	return words[idx/64]&(1<<uint(idx%64)) != 0
}

// Similarity returns 1 - (Hamming distance / geometry), i.e. the fraction
// of matching bits; this is 1.0 for identical vectors and averages 0.5
// for independently-drawn random vectors.
func (Strategy) Similarity(a, b vector.Vector) (float64, error) {
	if err := vector.MustMatch(ID, a, b); err != nil {
		return 0, vector.TranslateMismatch(err)
	}
	if a.Geometry == 0 {
		return 1, nil
	}
	var diff int
	for i := range a.Dense {
		diff += bits.OnesCount64(a.Dense[i] ^ b.Dense[i])
	}
	return 1 - float64(diff)/float64(a.Geometry), nil
}

// TopKSimilar scans the vocabulary source linearly, computing Similarity
// against every entry, and returns the k highest-scoring names. Ties
// break by vocabulary iteration (insertion) order, since Iterate's
// contract guarantees a stable traversal.
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

// Clone returns a deep copy so callers holding a reference cannot observe
// later in-place mutation performed by another goroutine (there is none
// today, since every bit slice is always replaced rather than mutated,
// but Clone keeps the contract explicit for future strategies that might
// mutate in place).
func (Strategy) Clone(v vector.Vector) vector.Vector {
	dense := make([]uint64, len(v.Dense))
	copy(dense, v.Dense)
	return vector.Vector{StrategyID: v.StrategyID, Geometry: v.Geometry, Dense: dense}
}

// Extend grows a vector to a larger geometry by appending freshly-drawn
// random words, keyed off the original vector's own bit pattern so the
// operation is deterministic given the same input (no theory/name context
// survives past CreateFromName, so this reseeds from the vector's current
// content rather than from theoryID/name).
func (Strategy) Extend(v vector.Vector, newGeometry int) (vector.Vector, error) {
	if newGeometry < v.Geometry {
		return vector.Vector{}, agierrors.NewUnsupportedExtension(ID).WithCause(nil)
	}
	if newGeometry == v.Geometry {
		return Strategy{}.Clone(v), nil
	}
	h := fnv.New64a()
	for _, w := range v.Dense {
		var buf [8]byte
		for i := 0; i < 8; i++ {
			buf[i] = byte(w >> (8 * i))
		}
		_, _ = h.Write(buf[:])
	}
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	nWords := words(newGeometry)
	out := make([]uint64, nWords)
	copy(out, v.Dense)
	for i := len(v.Dense); i < nWords; i++ {
		out[i] = rng.Uint64()
	}
	maskTrailingBits(out, newGeometry)
	return vector.Vector{StrategyID: ID, Geometry: newGeometry, Dense: out}, nil
}

