package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const openRouterDefaultURL = "https://openrouter.ai/api/v1/chat/completions"

// OpenRouterBackend completes requests against an OpenAI-compatible
// chat-completions endpoint. The free models served there do not reliably
// honor structured-output requests, so the capability flag is off and
// callers get the plain completion to parse defensively.
type OpenRouterBackend struct {
	apiKey     string
	model      string
	url        string
	httpClient *http.Client
}

// NewOpenRouterBackend creates an OpenRouter backend for the given model.
func NewOpenRouterBackend(apiKey, model string) *OpenRouterBackend {
	return &OpenRouterBackend{
		apiKey:     apiKey,
		model:      model,
		url:        openRouterDefaultURL,
		httpClient: http.DefaultClient,
	}
}

// Name implements the Backend interface.
func (b *OpenRouterBackend) Name() string {
	return "openrouter/" + b.model
}

// SupportsJSONMode implements the Backend interface.
func (b *OpenRouterBackend) SupportsJSONMode() bool {
	return false
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature *float32      `json:"temperature,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete implements the Backend interface.
func (b *OpenRouterBackend) Complete(ctx context.Context, req Request) (string, error) {
	payload := chatCompletionRequest{
		Model:       b.model,
		Temperature: req.Temperature,
	}
	for _, m := range req.Messages {
		payload.Messages = append(payload.Messages, chatMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("openrouter: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("openrouter: build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+b.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("openrouter: request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("openrouter: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("openrouter: status %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	}

	var parsed chatCompletionResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("openrouter: unmarshal response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("openrouter: response carried no choices")
	}

	return parsed.Choices[0].Message.Content, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

var _ Backend = (*OpenRouterBackend)(nil)
