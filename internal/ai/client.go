package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const defaultBaseURL = "https://api.openai.com/v1"

// ClientConfig configures the provider client. BaseURL and HTTPClient exist
// so tests can point at a fake upstream.
type ClientConfig struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// Client is a minimal typed client for the Responses API: conversation
// creation, non-streamed responses, and streamed responses.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

func NewClient(cfg ClientConfig) *Client {
	c := &Client{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		http:    cfg.HTTPClient,
	}
	if c.baseURL == "" {
		c.baseURL = defaultBaseURL
	}
	if c.http == nil {
		// Streams stay open for the whole turn; no client-side timeout.
		c.http = &http.Client{Timeout: 0}
	}
	return c
}

// CreateConversation creates a server-side conversation seeded with the
// system prompt as its first item, and returns its identifier. The prompt
// is sent exactly once per conversation; later turns rely on the provider's
// conversation memory.
func (c *Client) CreateConversation(ctx context.Context, systemPrompt string) (string, error) {
	body := map[string]any{
		"items": []InputItem{SystemMessage(systemPrompt)},
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := c.postJSON(ctx, "/conversations", body, &result); err != nil {
		return "", fmt.Errorf("creating conversation: %w", err)
	}
	if result.ID == "" {
		return "", fmt.Errorf("creating conversation: empty id in response")
	}
	return result.ID, nil
}

// CreateResponse issues a non-streamed /responses call and returns the
// finalized response.
func (c *Client) CreateResponse(ctx context.Context, req Request) (*Response, error) {
	req.Stream = false
	var resp Response
	if err := c.postJSON(ctx, "/responses", req, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, resp.Error
	}
	return &resp, nil
}

// StreamResponse opens a streamed /responses exchange. The caller owns the
// returned Stream and must Close it.
func (c *Client) StreamResponse(ctx context.Context, req Request) (*Stream, error) {
	req.Stream = true

	httpReq, err := c.newRequest(ctx, "/responses", req)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("openai: stream request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, readAPIError(resp)
	}
	return newStream(resp.Body), nil
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	req, err := c.newRequest(ctx, path, body)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("openai: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return readAPIError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("openai: unmarshal: %w", err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, path string, body any) (*http.Request, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	return req, nil
}

// readAPIError decodes the provider's error envelope, keeping the raw body
// as the message when the envelope doesn't parse.
func readAPIError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))

	var envelope struct {
		Error *APIError `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != nil {
		envelope.Error.StatusCode = resp.StatusCode
		return envelope.Error
	}
	return &APIError{StatusCode: resp.StatusCode, Message: string(body)}
}
