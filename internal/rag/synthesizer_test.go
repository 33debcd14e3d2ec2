package rag

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/kotae/internal/llm"
	"github.com/hyperjump/kotae/internal/models"
)

// stubProvider records calls and returns a canned answer or error.
type stubProvider struct {
	answer     string
	err        error
	calls      int
	lastPrompt string
}

func (p *stubProvider) Generate(ctx context.Context, prompt string, opts llm.Options) (string, error) {
	p.calls++
	p.lastPrompt = prompt
	return p.answer, p.err
}

func (p *stubProvider) Available(ctx context.Context) bool { return true }

func (p *stubProvider) Name() string { return "stub" }

func testResults(scores ...float64) []models.SearchResult {
	results := make([]models.SearchResult, len(scores))
	for i, score := range scores {
		results[i] = models.SearchResult{
			Content:    "passage",
			Score:      score,
			DocumentID: "doc-1",
			ChunkIndex: i,
		}
	}
	return results
}

func TestSynthesizer_ConfidenceIsMeanScore(t *testing.T) {
	provider := &stubProvider{answer: "the answer"}
	s := NewSynthesizer(provider, time.Second, zap.NewNop())

	out := s.GenerateAnswer(context.Background(), "question?", testResults(0.8, 0.6))
	if out.Answer != "the answer" {
		t.Errorf("answer = %q", out.Answer)
	}
	if out.Confidence != 0.7 {
		t.Errorf("confidence = %f, want 0.7", out.Confidence)
	}
	if len(out.Sources) != 2 {
		t.Errorf("sources = %d, want 2", len(out.Sources))
	}
}

func TestSynthesizer_EmptyResultsSkipsProvider(t *testing.T) {
	provider := &stubProvider{answer: "should not be used"}
	s := NewSynthesizer(provider, time.Second, zap.NewNop())

	out := s.GenerateAnswer(context.Background(), "question?", nil)
	if provider.calls != 0 {
		t.Errorf("provider called %d times for empty results", provider.calls)
	}
	if out.Confidence != 0 {
		t.Errorf("confidence = %f, want 0", out.Confidence)
	}
	if out.Answer != answerNoDocuments {
		t.Errorf("answer = %q", out.Answer)
	}
	if out.Sources == nil || len(out.Sources) != 0 {
		t.Errorf("sources = %v, want empty slice", out.Sources)
	}
}

func TestSynthesizer_ProviderFailureDowngrades(t *testing.T) {
	provider := &stubProvider{err: errors.New("model exploded")}
	s := NewSynthesizer(provider, time.Second, zap.NewNop())

	out := s.GenerateAnswer(context.Background(), "question?", testResults(0.9))
	if out.Answer != answerGenerationFailed {
		t.Errorf("answer = %q", out.Answer)
	}
	if out.Confidence != 0.9 {
		t.Errorf("confidence = %f, want 0.9 despite the failure", out.Confidence)
	}
	if len(out.Sources) != 1 {
		t.Error("sources should survive a generation failure")
	}
}

func TestSynthesizer_PromptLayout(t *testing.T) {
	provider := &stubProvider{answer: "ok"}
	s := NewSynthesizer(provider, time.Second, zap.NewNop())

	results := []models.SearchResult{
		{Content: "first passage", Score: 1},
		{Content: "second passage", Score: 0.5},
	}
	s.GenerateAnswer(context.Background(), "what is this?", results)

	prompt := provider.lastPrompt
	if !strings.Contains(prompt, "[Document 1]\nfirst passage") {
		t.Errorf("prompt missing first block:\n%s", prompt)
	}
	if !strings.Contains(prompt, "[Document 2]\nsecond passage") {
		t.Errorf("prompt missing second block:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Question: what is this?") {
		t.Errorf("prompt missing question:\n%s", prompt)
	}
	if strings.Index(prompt, "[Document 1]") > strings.Index(prompt, "[Document 2]") {
		t.Error("documents out of order")
	}
}

func TestSynthesizer_OfflineProviderEndToEnd(t *testing.T) {
	s := NewSynthesizer(llm.NewOfflineProvider(), time.Second, zap.NewNop())
	results := []models.SearchResult{
		{Content: "Hard hats are required in zone A. Visitors must sign in.", Score: 0.8},
	}
	out := s.GenerateAnswer(context.Background(), "what is required?", results)
	if !strings.Contains(out.Answer, "Hard hats") {
		t.Errorf("offline answer = %q", out.Answer)
	}
}
