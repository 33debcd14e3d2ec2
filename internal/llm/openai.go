package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider generates answers through the OpenAI chat completions API.
type OpenAIProvider struct {
	client *openai.Client
	apiKey string
	model  string
}

// NewOpenAIProvider returns a provider using the given key and model
// (gpt-4o-mini when empty).
func NewOpenAIProvider(apiKey, model string) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai provider: API key not set")
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIProvider{
		client: openai.NewClient(apiKey),
		apiKey: apiKey,
		model:  model,
	}, nil
}

// Generate sends the prompt as a single user message and returns the reply.
func (p *OpenAIProvider) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
	}
	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai chat completion: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}

// Available reports whether an API key is configured.
func (p *OpenAIProvider) Available(ctx context.Context) bool {
	return p.apiKey != ""
}

// Name returns "openai".
func (p *OpenAIProvider) Name() string {
	return "openai"
}
