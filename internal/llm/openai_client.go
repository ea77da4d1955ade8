// ABOUTME: OpenAI client for post generation from certificate images and PDFs
// ABOUTME: Images go as base64 data URLs; PDFs are reduced to their text layer
package llm

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIClient implements Generator for OpenAI chat completions
type OpenAIClient struct {
	client      *openai.Client
	model       string
	temperature float32
}

// NewOpenAIClient creates a new OpenAI client
func NewOpenAIClient(cfg *ClientConfig) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	model := cfg.Model
	if model == "" {
		model = DefaultOpenAIModel
	}

	return &OpenAIClient{
		client:      openai.NewClient(cfg.APIKey),
		model:       model,
		temperature: cfg.Temperature,
	}, nil
}

// Model returns the chat model identifier
func (c *OpenAIClient) Model() string {
	return c.model
}

// Generate sends the prompts and document and returns the response text
func (c *OpenAIClient) Generate(ctx context.Context, req Request) (string, error) {
	messages, err := buildOpenAIMessages(req)
	if err != nil {
		return "", err
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("openai completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no completion choices returned")
	}

	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("openai returned an empty response")
	}
	return content, nil
}

func buildOpenAIMessages(req Request) ([]openai.ChatCompletionMessage, error) {
	parts := []openai.ChatMessagePart{
		{Type: openai.ChatMessagePartTypeText, Text: req.UserPrompt},
	}

	switch {
	case len(req.Document) == 0:
	case strings.HasPrefix(req.MimeType, "image/"):
		parts = append(parts, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{
				URL:    "data:" + req.MimeType + ";base64," + base64.StdEncoding.EncodeToString(req.Document),
				Detail: openai.ImageURLDetailHigh,
			},
		})
	case req.MimeType == "application/pdf":
		text, err := extractPDFText(req.Document)
		if err != nil {
			return nil, fmt.Errorf("cannot send %s to OpenAI: %w", req.Filename, err)
		}
		parts = append(parts, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeText,
			Text: "Certificate text (extracted from PDF):\n" + text,
		})
	default:
		return nil, fmt.Errorf("unsupported mime type %q for OpenAI", req.MimeType)
	}

	return []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemPrompt,
		},
		{
			Role:         openai.ChatMessageRoleUser,
			MultiContent: parts,
		},
	}, nil
}
