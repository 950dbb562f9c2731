package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
)

const apiDefaultURL = "https://api.telegram.org"

// ChatActionTyping is the "typing..." indicator shown before slow replies.
const ChatActionTyping = "typing"

// Client sends outbound messages through the Telegram Bot API.
type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Bot API client for the given token.
func NewClient(token string) *Client {
	return &Client{
		token:      token,
		baseURL:    apiDefaultURL,
		httpClient: http.DefaultClient,
	}
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// SendMessage delivers a plain-text message.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	return c.call(ctx, "sendMessage", map[string]any{
		"chat_id": chatID,
		"text":    text,
	})
}

// SendChatAction shows a chat action (e.g. typing) while a slow operation
// runs.
func (c *Client) SendChatAction(ctx context.Context, chatID int64, action string) error {
	return c.call(ctx, "sendChatAction", map[string]any{
		"chat_id": chatID,
		"action":  action,
	})
}

// SetWebhook registers the public webhook URL for inbound updates.
func (c *Client) SetWebhook(ctx context.Context, url string) error {
	return c.call(ctx, "setWebhook", map[string]any{
		"url": url,
	})
}

// SendPhoto delivers an image with a caption.
func (c *Client) SendPhoto(ctx context.Context, chatID int64, photo []byte, caption string) error {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if err := writer.WriteField("chat_id", strconv.FormatInt(chatID, 10)); err != nil {
		return fmt.Errorf("SendPhoto: %w", err)
	}
	if caption != "" {
		if err := writer.WriteField("caption", caption); err != nil {
			return fmt.Errorf("SendPhoto: %w", err)
		}
	}
	part, err := writer.CreateFormFile("photo", "chart.png")
	if err != nil {
		return fmt.Errorf("SendPhoto: %w", err)
	}
	if _, err := part.Write(photo); err != nil {
		return fmt.Errorf("SendPhoto: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("SendPhoto: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.methodURL("sendPhoto"), &body)
	if err != nil {
		return fmt.Errorf("SendPhoto: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return c.do(req, "sendPhoto")
}

func (c *Client) call(ctx context.Context, method string, payload map[string]any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%s: marshal: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.methodURL(method), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: build request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, method)
}

func (c *Client) do(req *http.Request, method string) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: request: %w", method, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%s: read response: %w", method, err)
	}

	var parsed apiResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return fmt.Errorf("%s: status %d: unmarshal response: %w", method, resp.StatusCode, err)
	}
	if !parsed.OK {
		return fmt.Errorf("%s: api error: %s", method, parsed.Description)
	}

	return nil
}

func (c *Client) methodURL(method string) string {
	return fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
}
