// Package providers holds the language model clients LLM agents can be built on.
package providers

import (
	"context"
	"fmt"
	"strings"
)

const (
	OpenAIProvider = "openai"
	GeminiProvider = "gemini"

	DefaultOpenAIBaseURL = "https://api.openai.com/v1/"
	DefaultGeminiModel   = "gemini-2.0-flash-exp"
)

// Client completes a prompt; it matches agent.Client
type Client interface {
	Complete(ctx context.Context, model string, prompt string) (string, error)
}

type ProviderParams struct {
	BaseURL string
	APIKey  string
}

type ProviderOption func(*ProviderParams)

func WithBaseURL(baseURL string) ProviderOption {
	return func(p *ProviderParams) {
		p.BaseURL = baseURL
	}
}

func WithAPIKey(apiKey string) ProviderOption {
	return func(p *ProviderParams) {
		p.APIKey = apiKey
	}
}

// New returns the client for the named provider
func New(ctx context.Context, name string, opts ...ProviderOption) (Client, error) {
	switch strings.ToLower(name) {
	case OpenAIProvider:
		return OpenAi(ctx, opts...), nil
	case GeminiProvider:
		params := ProviderParams{}
		for _, opt := range opts {
			opt(&params)
		}
		client, err := Gemini(ctx, params)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown provider %q", name)
	}
}
