package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// ParseModeMarkdown selects Telegram's legacy Markdown formatting.
const ParseModeMarkdown = "Markdown"

// Message is the sendMessage request body.
type Message struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode,omitempty"`
}

// Client talks to the Telegram Bot API for a single bot.
type Client struct {
	apiURL     string
	botToken   string
	httpClient *http.Client
}

// NewClient returns a bot client. A nil httpClient uses http.DefaultClient.
func NewClient(apiURL, botToken string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		apiURL:     strings.TrimRight(apiURL, "/"),
		botToken:   botToken,
		httpClient: httpClient,
	}
}

// SendMessage posts msg and returns the HTTP status code. Only transport and
// encoding problems are errors; the response body is discarded.
func (c *Client) SendMessage(ctx context.Context, msg Message) (int, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return 0, fmt.Errorf("telegram: marshal message: %w", err)
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", c.apiURL, c.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("telegram: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// the URL embeds the bot token; keep it out of the error text
		return 0, fmt.Errorf("telegram: request failed: %w", unwrapURLError(err))
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode, nil
}

func unwrapURLError(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return ue.Err
	}
	return err
}
