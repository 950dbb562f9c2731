package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiBackend completes requests against the Gemini API. Gemini honors a
// strict-JSON response mode via the response MIME type.
type GeminiBackend struct {
	client *genai.Client
	model  string
}

// NewGeminiBackend creates a Gemini backend for the given model name.
func NewGeminiBackend(ctx context.Context, apiKey, model string) (*GeminiBackend, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("NewGeminiBackend: create genai client: %w", err)
	}

	return &GeminiBackend{client: client, model: model}, nil
}

// Name implements the Backend interface.
func (b *GeminiBackend) Name() string {
	return "gemini/" + b.model
}

// SupportsJSONMode implements the Backend interface.
func (b *GeminiBackend) SupportsJSONMode() bool {
	return true
}

// Complete implements the Backend interface. System messages are mapped to
// the model's system instruction; everything else is sent as user content.
func (b *GeminiBackend) Complete(ctx context.Context, req Request) (string, error) {
	cfg := &genai.GenerateContentConfig{}

	var contents []*genai.Content
	for _, m := range req.Messages {
		switch m.Role {
		case RoleSystem:
			cfg.SystemInstruction = &genai.Content{
				Parts: []*genai.Part{{Text: m.Content}},
			}
		default:
			contents = append(contents, &genai.Content{
				Role:  "user",
				Parts: []*genai.Part{{Text: m.Content}},
			})
		}
	}

	if req.WantsJSON {
		cfg.ResponseMIMEType = "application/json"
	}
	if req.Temperature != nil {
		cfg.Temperature = req.Temperature
	}

	resp, err := b.client.Models.GenerateContent(ctx, b.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("gemini: generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("gemini: empty response from model")
	}

	return text, nil
}

var _ Backend = (*GeminiBackend)(nil)
