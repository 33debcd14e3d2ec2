package chunker

import (
	"errors"
	"strings"
	"testing"
)

func TestNewChunker_InvalidParams(t *testing.T) {
	cases := []struct {
		name      string
		size      int
		overlap   int
	}{
		{"zero size", 0, 0},
		{"negative size", -1, 0},
		{"negative overlap", 100, -1},
		{"overlap equals size", 100, 100},
		{"overlap exceeds size", 100, 200},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewChunker(tc.size, tc.overlap); !errors.Is(err, ErrInvalidChunking) {
				t.Errorf("NewChunker(%d, %d) err = %v, want ErrInvalidChunking", tc.size, tc.overlap, err)
			}
		})
	}
}

func TestChunker_Empty(t *testing.T) {
	c, err := NewChunker(100, 10)
	if err != nil {
		t.Fatal(err)
	}
	if chunks := c.Chunk(""); len(chunks) != 0 {
		t.Errorf("empty text should yield no chunks, got %d", len(chunks))
	}
}

func TestChunker_SpansCoverText(t *testing.T) {
	c, err := NewChunker(50, 10)
	if err != nil {
		t.Fatal(err)
	}
	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 20)
	chunks := c.Chunk(text)
	if len(chunks) == 0 {
		t.Fatal("expected chunks")
	}
	if chunks[0].Span.Start != 0 {
		t.Errorf("first span starts at %d, want 0", chunks[0].Span.Start)
	}
	for i := 1; i < len(chunks); i++ {
		if chunks[i].Span.Start > chunks[i-1].Span.End {
			t.Errorf("gap between chunk %d (end %d) and chunk %d (start %d)",
				i-1, chunks[i-1].Span.End, i, chunks[i].Span.Start)
		}
		if chunks[i].ChunkIndex != i {
			t.Errorf("chunk %d has index %d", i, chunks[i].ChunkIndex)
		}
	}
	last := chunks[len(chunks)-1]
	if last.Span.End != len([]rune(text)) {
		t.Errorf("last span ends at %d, want %d", last.Span.End, len([]rune(text)))
	}
}

func TestChunker_SpansCountRunes(t *testing.T) {
	c, err := NewChunker(10, 2)
	if err != nil {
		t.Fatal(err)
	}
	// Multibyte text: spans must count runes, not bytes.
	text := "héllo wörld. さようなら世界. one two."
	chunks := c.Chunk(text)
	if len(chunks) == 0 {
		t.Fatal("expected chunks")
	}
	runeLen := len([]rune(text))
	last := chunks[len(chunks)-1]
	if last.Span.End != runeLen {
		t.Errorf("last span ends at %d, want rune length %d (byte length %d)",
			last.Span.End, runeLen, len(text))
	}
	runes := []rune(text)
	for i, ch := range chunks {
		if got := strings.TrimSpace(string(runes[ch.Span.Start:ch.Span.End])); got != ch.Content {
			t.Errorf("chunk %d content %q does not match rune slice %q", i, ch.Content, got)
		}
	}
}

func TestChunker_Deterministic(t *testing.T) {
	c, err := NewChunker(1000, 200)
	if err != nil {
		t.Fatal(err)
	}
	text := strings.Repeat("Sentences are repeated here to build a long document. ", 60)
	a := c.Chunk(text)
	b := c.Chunk(text)
	if len(a) != len(b) {
		t.Fatalf("chunk counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("chunk %d differs between runs", i)
		}
	}
}

func TestChunker_SentenceBoundary(t *testing.T) {
	// Sentences of ~50 characters, each ending in a period: no chunk except the
	// last should ever end mid-sentence.
	sentence := "This sentence is roughly fifty characters long, ok."
	text := strings.Repeat(sentence+" ", 30)
	c, err := NewChunker(1000, 200)
	if err != nil {
		t.Fatal(err)
	}
	chunks := c.Chunk(text)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, ch := range chunks[:len(chunks)-1] {
		if !strings.HasSuffix(ch.Content, ".") {
			t.Errorf("chunk %d split mid-sentence: %q", i, ch.Content[len(ch.Content)-20:])
		}
	}
}

func TestChunker_ShortText(t *testing.T) {
	c, err := NewChunker(30, 5)
	if err != nil {
		t.Fatal(err)
	}
	chunks := c.Chunk("Safety rule one. Safety rule two. Safety rule three.")
	if len(chunks) < 2 || len(chunks) > 3 {
		t.Errorf("expected 2-3 chunks, got %d", len(chunks))
	}
	for i, ch := range chunks {
		if ch.Content == "" {
			t.Errorf("chunk %d has empty content", i)
		}
	}
}

func TestAssignPages(t *testing.T) {
	c, err := NewChunker(100, 0)
	if err != nil {
		t.Fatal(err)
	}
	text := strings.Repeat("x", 400)
	chunks := c.Chunk(text)
	AssignPages(chunks, 4, len(text))
	if chunks[0].PageNumber != 1 {
		t.Errorf("first chunk page = %d, want 1", chunks[0].PageNumber)
	}
	last := chunks[len(chunks)-1]
	if last.PageNumber < 1 || last.PageNumber > 4 {
		t.Errorf("last chunk page = %d, want within [1,4]", last.PageNumber)
	}
	for i := 1; i < len(chunks); i++ {
		if chunks[i].PageNumber < chunks[i-1].PageNumber {
			t.Errorf("page numbers decrease at chunk %d", i)
		}
	}
}
