// Package telegram provides a small client for the Telegram Bot API,
// used to announce new donations to the operator channel.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client sends messages to a fixed Telegram chat on behalf of a bot.
type Client struct {
	token   string
	chatID  string
	apiBase string
	client  *http.Client
}

// NewClient creates a Client for the given bot token and target chat.
// apiBase is normally "https://api.telegram.org"; tests point it at a
// local server.
func NewClient(token, chatID, apiBase string) *Client {
	return &Client{
		token:   token,
		chatID:  chatID,
		apiBase: apiBase,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// sendMessageRequest represents the payload for the Telegram sendMessage API.
type sendMessageRequest struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

// Send posts a text message to the configured chat. It returns an error
// if the request fails or the API responds with a non-200 status.
func (c *Client) Send(ctx context.Context, text string) error {
	url := fmt.Sprintf("%s/bot%s/sendMessage", c.apiBase, c.token)

	body, err := json.Marshal(sendMessageRequest{ChatID: c.chatID, Text: text})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram API error: %s", resp.Status)
	}

	return nil
}
