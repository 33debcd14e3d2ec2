package embedding

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIEmbedder produces embeddings through the OpenAI embeddings API.
// It batches requests server-side and caches results locally.
type OpenAIEmbedder struct {
	client     *openai.Client
	model      string
	dimensions int
	batchSize  int
	cache      *EmbeddingCache
}

// NewOpenAIEmbedder returns an API-backed embedder. The dimension is derived
// from the model name; an empty model defaults to text-embedding-3-small.
func NewOpenAIEmbedder(apiKey, model string, batchSize, cacheSize int) (*OpenAIEmbedder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: OpenAI API key not set", ErrModelUnavailable)
	}
	if model == "" {
		model = string(openai.SmallEmbedding3)
	}
	dimensions := 1536
	if model == string(openai.LargeEmbedding3) {
		dimensions = 3072
	}
	if batchSize <= 0 {
		batchSize = 64
	}
	return &OpenAIEmbedder{
		client:     openai.NewClient(apiKey),
		model:      model,
		dimensions: dimensions,
		batchSize:  batchSize,
		cache:      NewEmbeddingCache(cacheSize),
	}, nil
}

// Embed returns the normalized embedding for a single text.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if cached, ok := e.cache.Get(text); ok {
		return cached, nil
	}
	vecs, err := e.request(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	e.cache.Set(text, vecs[0])
	return vecs[0], nil
}

// EmbedBatch embeds texts in API batches of at most batchSize, preserving
// input order in the result.
func (e *OpenAIEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))

	// Resolve cache hits first and collect the misses into one request stream.
	var missTexts []string
	var missIdx []int
	for i, text := range texts {
		if cached, ok := e.cache.Get(text); ok {
			embeddings[i] = cached
		} else {
			missTexts = append(missTexts, text)
			missIdx = append(missIdx, i)
		}
	}

	for start := 0; start < len(missTexts); start += e.batchSize {
		end := start + e.batchSize
		if end > len(missTexts) {
			end = len(missTexts)
		}
		vecs, err := e.request(ctx, missTexts[start:end])
		if err != nil {
			return nil, err
		}
		for j, vec := range vecs {
			idx := missIdx[start+j]
			embeddings[idx] = vec
			e.cache.Set(texts[idx], vec)
		}
	}
	return embeddings, nil
}

func (e *OpenAIEmbedder) request(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(e.model),
		Input: texts,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: OpenAI embeddings request: %v", ErrModelUnavailable, err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("%w: expected %d embeddings, got %d", ErrModelUnavailable, len(texts), len(resp.Data))
	}
	vecs := make([][]float32, len(resp.Data))
	for _, d := range resp.Data {
		vec := make([]float32, len(d.Embedding))
		copy(vec, d.Embedding)
		NormalizeL2Slice(vec)
		vecs[d.Index] = vec
	}
	return vecs, nil
}

// Dimensions returns the embedding dimension for the configured model.
func (e *OpenAIEmbedder) Dimensions() int {
	return e.dimensions
}

// Close is a no-op; the HTTP client holds no resources needing release.
func (e *OpenAIEmbedder) Close() error {
	return nil
}
