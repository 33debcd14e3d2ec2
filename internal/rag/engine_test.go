package rag

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/hyperjump/kotae/internal/embedding"
	"github.com/hyperjump/kotae/internal/models"
	"github.com/hyperjump/kotae/internal/vector"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	idx, err := vector.NewFlatIndex(64)
	if err != nil {
		t.Fatal(err)
	}
	store, err := vector.OpenStore(t.TempDir(), idx)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return NewEngine(embedding.NewMockEmbedder(64), store, zap.NewNop())
}

func testChunks(contents ...string) []models.Chunk {
	chunks := make([]models.Chunk, len(contents))
	for i, content := range contents {
		chunks[i] = models.Chunk{Content: content, ChunkIndex: i, PageNumber: 1}
	}
	return chunks
}

func TestEngine_IndexAndSearch(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	ids, err := e.IndexDocument(ctx, "doc-1", testChunks(
		"Always wear protective gloves near the press.",
		"The cafeteria opens at nine in the morning.",
	))
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 2 || ids[0] != 0 || ids[1] != 1 {
		t.Errorf("ids = %v, want [0 1]", ids)
	}

	results, err := e.Search(ctx, "Always wear protective gloves near the press.", 2, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	top := results[0]
	if top.Content != "Always wear protective gloves near the press." {
		t.Errorf("top content = %q", top.Content)
	}
	if top.DocumentID != "doc-1" || top.ChunkIndex != 0 {
		t.Errorf("top result identity = %s/%d", top.DocumentID, top.ChunkIndex)
	}
	if top.Score <= results[1].Score {
		t.Error("exact text should outrank the unrelated chunk")
	}
}

func TestEngine_SearchEmptyIndex(t *testing.T) {
	e := newTestEngine(t)
	results, err := e.Search(context.Background(), "anything", 5, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("empty index returned %d results", len(results))
	}
}

func TestEngine_SearchWithDocumentFilter(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	if _, err := e.IndexDocument(ctx, "doc-a", testChunks("alpha content")); err != nil {
		t.Fatal(err)
	}
	if _, err := e.IndexDocument(ctx, "doc-b", testChunks("beta content")); err != nil {
		t.Fatal(err)
	}

	results, err := e.Search(ctx, "content", 10, map[string]interface{}{"document_id": "doc-b"})
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range results {
		if r.DocumentID != "doc-b" {
			t.Errorf("filter leaked document %s", r.DocumentID)
		}
	}
	if len(results) == 0 {
		t.Error("expected at least the doc-b chunk")
	}
}

func TestEngine_IndexEmptyChunks(t *testing.T) {
	e := newTestEngine(t)
	ids, err := e.IndexDocument(context.Background(), "doc-1", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 0 {
		t.Errorf("got %d ids for no chunks", len(ids))
	}
}

func TestEngine_Stats(t *testing.T) {
	e := newTestEngine(t)
	if _, err := e.IndexDocument(context.Background(), "doc-1", testChunks("a", "b", "c")); err != nil {
		t.Fatal(err)
	}
	stats := e.Stats()
	if stats.TotalVectors != 3 {
		t.Errorf("TotalVectors = %d, want 3", stats.TotalVectors)
	}
	if stats.Dimensions != 64 {
		t.Errorf("Dimensions = %d, want 64", stats.Dimensions)
	}
}
