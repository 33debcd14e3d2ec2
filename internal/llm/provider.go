// Package llm abstracts text generation providers for answer synthesis.
package llm

import (
	"context"
	"fmt"
)

// Options tunes a single generation request. Zero values mean provider defaults.
type Options struct {
	MaxTokens   int
	Temperature float32
}

// Provider generates text from a prompt.
type Provider interface {
	Generate(ctx context.Context, prompt string, opts Options) (string, error)
	// Available reports whether the provider can currently serve requests,
	// for example whether the API key is set or the local server responds.
	Available(ctx context.Context) bool
	Name() string
}

// Config carries the provider settings from the application config.
type Config struct {
	APIKey    string
	Model     string
	OllamaURL string
}

// New creates a provider by name. Supported: "openai", "ollama", "offline".
func New(name string, cfg Config) (Provider, error) {
	switch name {
	case "openai":
		return NewOpenAIProvider(cfg.APIKey, cfg.Model)
	case "ollama":
		return NewOllamaProvider(cfg.OllamaURL, cfg.Model), nil
	case "offline", "":
		return NewOfflineProvider(), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %q (supported: openai, ollama, offline)", name)
	}
}
