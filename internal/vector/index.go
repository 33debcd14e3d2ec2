// Package vector implements flat L2 vector indexes and a metadata-aware store
// built on top of them.
package vector

import "errors"

// ErrCorruptIndex indicates persisted index artifacts are inconsistent, for
// example a vector file without its metadata file or a dimension mismatch.
var ErrCorruptIndex = errors.New("corrupt vector index")

// Index stores fixed-dimension vectors under sequential int64 ids and answers
// exact nearest-neighbor queries by L2 distance. Ids are assigned in insertion
// order starting at zero and are never reused; deletion is not supported.
// Implementations are not safe for concurrent use; Store serializes access.
type Index interface {
	// Add appends vectors. The first appended vector receives id Ntotal().
	Add(vectors [][]float32) error
	// Search returns up to k (id, distance) pairs ordered by ascending squared
	// L2 distance. Implementations may emit id -1 for unfilled slots; callers
	// skip negative ids.
	Search(query []float32, k int) (ids []int64, distances []float32, err error)
	// Ntotal returns the number of stored vectors.
	Ntotal() int64
	// Dimensions returns the fixed vector dimension.
	Dimensions() int
	// Kind returns the index kind identifier ("flat" or "faiss").
	Kind() string
	Save(path string) error
	Load(path string) error
	Close() error
}

// SimilarityFromDistance converts a squared L2 distance into a similarity score
// in (0, 1]: identical vectors score 1 and the score decays with distance.
func SimilarityFromDistance(distance float32) float64 {
	return 1.0 / (1.0 + float64(distance))
}
