// ABOUTME: Generator is the boundary to the generative model
// ABOUTME: One call per document: prompts plus document bytes in, free-form text out
package llm

import (
	"context"
	"fmt"
	"strings"
)

const (
	// ProviderGemini talks to Google Gemini through google.golang.org/genai
	ProviderGemini = "gemini"
	// ProviderOpenAI talks to OpenAI chat completions
	ProviderOpenAI = "openai"

	// DefaultGeminiModel is the default Gemini model
	DefaultGeminiModel = "gemini-2.5-flash"
	// DefaultOpenAIModel is the default OpenAI chat model
	DefaultOpenAIModel = "gpt-4o-mini"
	// DefaultTemperature is the sampling temperature for post generation
	DefaultTemperature float32 = 0.7
)

// Request carries everything the model sees for one document
type Request struct {
	SystemPrompt string
	UserPrompt   string
	Document     []byte
	MimeType     string
	Filename     string
}

// Generator produces raw post text for a request. Output is untrusted.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
	Model() string
}

// ClientConfig holds configuration shared by the model clients
type ClientConfig struct {
	Provider    string
	APIKey      string
	Model       string
	Temperature float32
}

// DefaultConfig returns the default configuration for a provider
func DefaultConfig(provider, apiKey string) *ClientConfig {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if provider == "" {
		provider = ProviderGemini
	}
	return &ClientConfig{
		Provider:    provider,
		APIKey:      apiKey,
		Model:       DefaultModel(provider),
		Temperature: DefaultTemperature,
	}
}

// DefaultModel returns the default model identifier for a provider
func DefaultModel(provider string) string {
	if provider == ProviderOpenAI {
		return DefaultOpenAIModel
	}
	return DefaultGeminiModel
}

// NewGenerator builds the client for cfg.Provider
func NewGenerator(ctx context.Context, cfg *ClientConfig) (Generator, error) {
	switch cfg.Provider {
	case ProviderGemini, "":
		return NewGeminiClient(ctx, cfg)
	case ProviderOpenAI:
		return NewOpenAIClient(cfg)
	default:
		return nil, fmt.Errorf("unknown provider %q (want %s or %s)", cfg.Provider, ProviderGemini, ProviderOpenAI)
	}
}
