package llm

import (
	"context"
	"strings"
)

// OfflineProvider answers without any network access by extracting the most
// relevant passage from the prompt's context block. It is the default when no
// generation backend is configured, so search keeps working air-gapped.
type OfflineProvider struct{}

// NewOfflineProvider returns the extractive fallback provider.
func NewOfflineProvider() *OfflineProvider {
	return &OfflineProvider{}
}

// Generate returns the leading sentences of the top-ranked document in the
// prompt. Documents appear in relevance order, so the first block is the best
// available evidence.
func (p *OfflineProvider) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	block := firstDocumentBlock(prompt)
	if block == "" {
		return "No relevant passage found in the provided context.", nil
	}
	return leadingSentences(block, 3), nil
}

// firstDocumentBlock extracts the text between the "[Document 1]" marker and
// the next section of the prompt.
func firstDocumentBlock(prompt string) string {
	const marker = "[Document 1]"
	start := strings.Index(prompt, marker)
	if start < 0 {
		return ""
	}
	rest := prompt[start+len(marker):]
	for _, stop := range []string{"\n\n[Document", "\n\nQuestion:"} {
		if i := strings.Index(rest, stop); i >= 0 {
			rest = rest[:i]
		}
	}
	return strings.TrimSpace(rest)
}

// leadingSentences returns up to n sentences from text, splitting on periods.
func leadingSentences(text string, n int) string {
	count := 0
	for i, r := range text {
		if r == '.' {
			count++
			if count == n {
				return strings.TrimSpace(text[:i+1])
			}
		}
	}
	return text
}

// Available always reports true.
func (p *OfflineProvider) Available(ctx context.Context) bool {
	return true
}

// Name returns "offline".
func (p *OfflineProvider) Name() string {
	return "offline"
}
