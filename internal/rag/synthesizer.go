package rag

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/kotae/internal/llm"
	"github.com/hyperjump/kotae/internal/models"
)

const (
	// Returned when search produced no hits; no provider call is made.
	answerNoDocuments = "No relevant documents were found for this question."
	// Returned when the provider call fails; sources are still reported.
	answerGenerationFailed = "Answer generation failed; the sources below may still be relevant."

	defaultGenerateTimeout = 60 * time.Second
)

// Synthesizer turns search results into a cited natural-language answer.
type Synthesizer struct {
	provider llm.Provider
	timeout  time.Duration
	logger   *zap.Logger
}

// NewSynthesizer creates a synthesizer using provider for generation. A
// non-positive timeout falls back to 60 seconds.
func NewSynthesizer(provider llm.Provider, timeout time.Duration, logger *zap.Logger) *Synthesizer {
	if timeout <= 0 {
		timeout = defaultGenerateTimeout
	}
	return &Synthesizer{
		provider: provider,
		timeout:  timeout,
		logger:   logger,
	}
}

// GenerateAnswer produces an answer grounded in results. It never fails:
// with no results it returns a fixed answer at zero confidence without
// touching the provider, and a provider error downgrades to a fixed failure
// answer while keeping sources and confidence intact. Confidence is the mean
// source score.
func (s *Synthesizer) GenerateAnswer(ctx context.Context, query string, results []models.SearchResult) models.AnswerWithSources {
	if len(results) == 0 {
		return models.AnswerWithSources{
			Answer:     answerNoDocuments,
			Sources:    []models.SearchResult{},
			Confidence: 0,
		}
	}

	prompt := buildPrompt(query, results)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	answer, err := s.provider.Generate(ctx, prompt, llm.Options{})
	if err != nil {
		s.logger.Warn("answer generation failed",
			zap.String("provider", s.provider.Name()),
			zap.Error(err))
		answer = answerGenerationFailed
	}

	return models.AnswerWithSources{
		Answer:     answer,
		Sources:    results,
		Confidence: meanScore(results),
	}
}

// buildPrompt lays the results out as numbered document blocks followed by the
// question, instructing the model to answer from the blocks only.
func buildPrompt(query string, results []models.SearchResult) string {
	var b strings.Builder
	b.WriteString("Answer the question using only the documents below.\n\nDocuments:\n")
	for i, result := range results {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[Document %d]\n%s", i+1, result.Content)
	}
	fmt.Fprintf(&b, "\n\nQuestion: %s\n\nAnswer:", query)
	return b.String()
}

func meanScore(results []models.SearchResult) float64 {
	var sum float64
	for _, r := range results {
		sum += r.Score
	}
	return sum / float64(len(results))
}
