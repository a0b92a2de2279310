package vocabulary

import (
	"context"

	chromem "github.com/philippgille/chromem-go"

	"agisystem2/core/internal/vector"
)

// collectionName is fixed since each Vocabulary owns exactly one
// chromem-go collection for its own atoms.
const collectionName = "atoms"

// accelerator wraps an in-memory chromem-go collection as an advisory
// top-K index over a bipolar float32 projection of dense-binary vectors,
// grounded on the teacher lineage's VectorStore wrapper around
// chromem.DB/chromem.Collection. It is strictly a cross-check: the
// authoritative contract (spec.md §4.3) remains the strategy's own
// linear scan, never this index.
//
// Only the dense-binary strategy's bit-packed payload projects cleanly
// onto a fixed-length float32 embedding; the sparse-set strategy's
// active-exponent sets do not, so newAccelerator returns nil for any
// strategy other than dense-binary and callers fall back to pure linear
// scan.
type accelerator struct {
	collection *chromem.Collection
	geometry   int
}

const denseBinaryID = "dense-binary" // mirrors strategy/densebinary.ID without importing that package

func newAccelerator(s vector.Strategy, geometry int) *accelerator {
	if s == nil || s.ID() != denseBinaryID {
		return nil
	}
	db := chromem.NewDB()
	// A nil embeddingFunc is safe here because every document we add
	// supplies its Embedding directly; chromem-go only invokes the
	// embedding function when a document lacks one.
	coll, err := db.CreateCollection(collectionName, nil, nil)
	if err != nil {
		return nil
	}
	return &accelerator{collection: coll, geometry: geometry}
}

// project converts a dense-binary bit-packed vector into a bipolar
// {-1,+1} float32 embedding so chromem-go's cosine similarity ranks
// atoms in the same order Hamming similarity would.
func project(v vector.Vector, geometry int) []float32 {
	out := make([]float32, geometry)
	for i := 0; i < geometry; i++ {
		word := v.Dense[i/64]
		if word&(1<<uint(i%64)) != 0 {
			out[i] = 1
		} else {
			out[i] = -1
		}
	}
	return out
}

func (a *accelerator) add(name string, v vector.Vector) {
	if a == nil {
		return
	}
	doc := chromem.Document{
		ID:        name,
		Embedding: project(v, a.geometry),
	}
	// AddDocument overwrites any existing document with the same ID, so
	// re-adding an atom (which never happens under GetOrCreate's
	// already-present guard) would be safe if it ever did.
	_ = a.collection.AddDocument(context.Background(), doc)
}

func (a *accelerator) topK(query vector.Vector, k int) ([]vector.Scored, error) {
	if a == nil {
		return nil, nil
	}
	n := a.collection.Count()
	if n == 0 {
		return nil, nil
	}
	if k > n {
		k = n
	}
	results, err := a.collection.QueryEmbedding(context.Background(), project(query, a.geometry), k, nil, nil)
	if err != nil {
		return nil, err
	}
	out := make([]vector.Scored, 0, len(results))
	for _, r := range results {
		// cosine similarity over a {-1,+1} projection maps linearly onto
		// Hamming similarity: sim_hamming = (1 + cosine) / 2.
		out = append(out, vector.Scored{Name: r.ID, Similarity: (1 + float64(r.Similarity)) / 2})
	}
	return out, nil
}
