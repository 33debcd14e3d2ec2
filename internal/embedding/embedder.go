// Package embedding provides text embedding via ONNX or the OpenAI API, with caching.
package embedding

import (
	"context"
	"errors"
	"math"
)

// ErrModelUnavailable indicates the embedding model could not be initialized or
// queried. Operations never return zero vectors in place of a real embedding;
// they fail with this error instead.
var ErrModelUnavailable = errors.New("embedding model unavailable")

// Embedder produces vector embeddings for text. Implementations are safe for
// concurrent use once constructed; expensive model loading happens at most once.
type Embedder interface {
	// Embed returns the embedding for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)
	// EmbedBatch returns one embedding per input text, in input order. It is
	// observably equivalent to calling Embed per text but may batch internally.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	// Dimensions returns the fixed output dimension of the model.
	Dimensions() int
	Close() error
}

// NormalizeL2Slice normalizes the slice in place to unit L2 norm. Zero vectors
// are left unchanged.
func NormalizeL2Slice(x []float32) {
	var sum float32
	for _, v := range x {
		sum += v * v
	}
	if sum == 0 {
		return
	}
	norm := float32(1.0 / math.Sqrt(float64(sum)))
	for i := range x {
		x[i] *= norm
	}
}
