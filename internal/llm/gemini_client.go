// ABOUTME: Gemini client sending the certificate as an inline bytes part
// ABOUTME: Uses google.golang.org/genai; no retries, a failure is reported to the caller
package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiClient implements Generator for Google Gemini
type GeminiClient struct {
	client      *genai.Client
	model       string
	temperature float32
}

// NewGeminiClient creates a Gemini client
func NewGeminiClient(ctx context.Context, cfg *ClientConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("Google API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = DefaultGeminiModel
	}

	return &GeminiClient{
		client:      client,
		model:       model,
		temperature: cfg.Temperature,
	}, nil
}

// Model returns the model identifier
func (c *GeminiClient) Model() string {
	return c.model
}

// Generate sends the prompts and document and returns the response text
func (c *GeminiClient) Generate(ctx context.Context, req Request) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, buildGeminiContents(req), c.generateConfig(req))
	if err != nil {
		return "", fmt.Errorf("gemini generate failed: %w", err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("gemini returned an empty response")
	}
	return text, nil
}

func (c *GeminiClient) generateConfig(req Request) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.SystemPrompt, genai.RoleUser),
		Temperature:       genai.Ptr(c.temperature),
	}
}

func buildGeminiContents(req Request) []*genai.Content {
	parts := []*genai.Part{genai.NewPartFromText(req.UserPrompt)}
	if len(req.Document) > 0 {
		parts = append(parts, genai.NewPartFromBytes(req.Document, req.MimeType))
	}
	return []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
}
