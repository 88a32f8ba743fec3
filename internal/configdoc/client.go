package configdoc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// Client reads the agent-config and onboarding-schema documents from the
// document service. Documents are read once per process, at prompt-build
// time; there is no hot reload within a running conversation.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// AgentConfig fetches the agent document, falling back to the embedded
// default when no service is configured or the fetch fails.
func (c *Client) AgentConfig(ctx context.Context) AgentConfig {
	var cfg AgentConfig
	if err := c.getDocument(ctx, AgentDocName, &cfg); err != nil {
		log.Printf("configdoc: agent document unavailable, using defaults: %v", err)
		return DefaultAgentConfig()
	}
	return cfg
}

// OnboardingSchema fetches the onboarding document, falling back to the
// embedded default when no service is configured or the fetch fails.
func (c *Client) OnboardingSchema(ctx context.Context) OnboardingSchema {
	var schema OnboardingSchema
	if err := c.getDocument(ctx, OnboardingDocName, &schema); err != nil {
		log.Printf("configdoc: onboarding document unavailable, using defaults: %v", err)
		return DefaultOnboardingSchema()
	}
	if len(schema.Sections) == 0 {
		return DefaultOnboardingSchema()
	}
	return schema
}

func (c *Client) getDocument(ctx context.Context, name string, out any) error {
	if c.baseURL == "" {
		return fmt.Errorf("no document service configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/config/"+name, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("get %s: status %d: %s", name, resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s document: %w", name, err)
	}
	return nil
}
