// Package rag ties embedding, vector search, and answer synthesis into the
// retrieval pipeline.
package rag

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hyperjump/kotae/internal/embedding"
	"github.com/hyperjump/kotae/internal/models"
	"github.com/hyperjump/kotae/internal/vector"
)

// Engine indexes document chunks into the vector store and answers semantic
// queries against it.
type Engine struct {
	embedder embedding.Embedder
	store    *vector.Store
	logger   *zap.Logger
}

// NewEngine creates a retrieval engine over the given embedder and store.
func NewEngine(embedder embedding.Embedder, store *vector.Store, logger *zap.Logger) *Engine {
	return &Engine{
		embedder: embedder,
		store:    store,
		logger:   logger,
	}
}

// IndexDocument embeds the chunks and adds them to the store under documentID.
// It returns the assigned vector ids in chunk order. Chunk content travels in
// the vector metadata so search results carry their text without a second
// lookup.
func (e *Engine) IndexDocument(ctx context.Context, documentID string, chunks []models.Chunk) ([]int64, error) {
	if len(chunks) == 0 {
		return nil, nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}
	vectors, err := e.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed chunks for %s: %w", documentID, err)
	}

	metadatas := make([]map[string]interface{}, len(chunks))
	for i, chunk := range chunks {
		metadatas[i] = map[string]interface{}{
			"document_id":   documentID,
			"chunk_index":   chunk.ChunkIndex,
			"content":       chunk.Content,
			"page_number":   chunk.PageNumber,
			"section_title": chunk.SectionTitle,
			"span_start":    chunk.Span.Start,
			"span_end":      chunk.Span.End,
		}
	}

	ids, err := e.store.Add(vectors, metadatas)
	if err != nil {
		return ids, fmt.Errorf("add vectors for %s: %w", documentID, err)
	}
	e.logger.Info("document indexed",
		zap.String("document_id", documentID),
		zap.Int("chunks", len(chunks)))
	return ids, nil
}

// Search embeds the query and returns the most similar chunks, best first.
// The filter restricts results by metadata equality, e.g.
// {"document_id": "..."} scopes the search to one document.
func (e *Engine) Search(ctx context.Context, query string, topK int, filter map[string]interface{}) ([]models.SearchResult, error) {
	queryVec, err := e.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := e.store.Search(queryVec, topK, filter)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	results := make([]models.SearchResult, len(hits))
	for i, hit := range hits {
		results[i] = models.SearchResult{
			Content:    stringField(hit.Metadata, "content"),
			Score:      hit.Score,
			DocumentID: stringField(hit.Metadata, "document_id"),
			ChunkIndex: intField(hit.Metadata, "chunk_index"),
			Metadata:   hit.Metadata,
		}
	}
	return results, nil
}

// Stats reports the vector store contents.
func (e *Engine) Stats() vector.Stats {
	return e.store.Stats()
}

func stringField(metadata map[string]interface{}, key string) string {
	if s, ok := metadata[key].(string); ok {
		return s
	}
	return ""
}

// intField tolerates float64, which is what JSON round-trips integers into.
func intField(metadata map[string]interface{}, key string) int {
	switch v := metadata[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
