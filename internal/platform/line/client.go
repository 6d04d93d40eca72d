// Package line is a minimal client for the LINE Messaging API: push messages
// (plain text and Flex carousels) and inbound webhook signature verification.
package line

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// DefaultBaseURL is the LINE Messaging API endpoint.
const DefaultBaseURL = "https://api.line.me"

// Client talks to the LINE Messaging API.
type Client struct {
	channelToken string
	baseURL      string
	httpClient   *http.Client
}

// ClientConfig configures a Client.
type ClientConfig struct {
	ChannelAccessToken string
	// BaseURL is optional and defaults to the production API endpoint.
	BaseURL string
	// HTTPClient is optional and defaults to http.DefaultClient.
	HTTPClient *http.Client
}

func NewClient(cfg ClientConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	return &Client{
		channelToken: cfg.ChannelAccessToken,
		baseURL:      cfg.BaseURL,
		httpClient:   cfg.HTTPClient,
	}
}

// pushRequest is the body of POST /v2/bot/message/push.
type pushRequest struct {
	To       string    `json:"to"`
	Messages []Message `json:"messages"`
}

// Push sends up to five messages to a user or group ID.
func (c *Client) Push(ctx context.Context, to string, messages ...Message) error {
	if to == "" {
		return fmt.Errorf("recipient is required")
	}
	if len(messages) == 0 || len(messages) > 5 {
		return fmt.Errorf("push requires between 1 and 5 messages, got %d", len(messages))
	}

	body, err := json.Marshal(pushRequest{To: to, Messages: messages})
	if err != nil {
		return fmt.Errorf("marshal push request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v2/bot/message/push", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.channelToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("push message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("push message: status %d: %s", resp.StatusCode, detail)
	}
	return nil
}

// PushText sends a single plain-text message.
func (c *Client) PushText(ctx context.Context, to, text string) error {
	return c.Push(ctx, to, NewTextMessage(text))
}

// PushFlex sends a single Flex message.
func (c *Client) PushFlex(ctx context.Context, to, altText string, contents FlexContainer) error {
	return c.Push(ctx, to, NewFlexMessage(altText, contents))
}
