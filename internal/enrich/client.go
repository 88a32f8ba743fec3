package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultTimeout = 12 * time.Second

// Result carries the full outcome of a lookup. Enrich never returns a Go
// error: validation failures, upstream failures and transport failures all
// land here, with the HTTP-style status preserved (0 for transport-level
// failures).
type Result struct {
	Email    string  `json:"email"`
	Status   int     `json:"status"`
	Raw      any     `json:"raw,omitempty"`
	Error    string  `json:"error,omitempty"`
	Enriched *Person `json:"enriched,omitempty"`
}

// Person holds the normalized fields extracted on a best-effort basis from
// whatever shape the upstream returned. Absence of a field is not an error.
type Person struct {
	Name       string `json:"name,omitempty"`
	Title      string `json:"title,omitempty"`
	Company    string `json:"company,omitempty"`
	ProfileURL string `json:"profile_url,omitempty"`
	Location   string `json:"location,omitempty"`
	Industry   string `json:"industry,omitempty"`
}

// Options override per-call credentials and timeout.
type Options struct {
	APIKey  string
	Timeout time.Duration
}

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		// Per-call deadline comes from the context; keep a generous
		// transport-level cap as a backstop.
		http: &http.Client{Timeout: 60 * time.Second},
	}
}

// Enrich looks up a person by email. The input is validated before any
// network activity: a value with no "@" yields status 400 and a missing
// credential yields status 401, in both cases without issuing a request.
func (c *Client) Enrich(ctx context.Context, email string, opts Options) Result {
	if !strings.Contains(email, "@") {
		return Result{Email: email, Status: 400, Error: "invalid email: must contain @"}
	}

	apiKey := opts.APIKey
	if apiKey == "" {
		apiKey = c.apiKey
	}
	if apiKey == "" {
		return Result{Email: email, Status: 401, Error: "no enrichment API key configured"}
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	q := url.Values{}
	q.Set("email", email)
	q.Set("enrich_profile", "enrich")
	endpoint := fmt.Sprintf("%s/%s/person/match?%s", c.baseURL, apiKey, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Result{Email: email, Status: 0, Error: err.Error()}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Result{Email: email, Status: 0, Error: fmt.Sprintf("enrichment request timed out after %s", timeout)}
		}
		return Result{Email: email, Status: 0, Error: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{Email: email, Status: 0, Error: err.Error()}
	}

	return classify(email, resp, body)
}

func classify(email string, resp *http.Response, body []byte) Result {
	result := Result{Email: email, Status: resp.StatusCode}

	switch resp.StatusCode {
	case http.StatusOK:
		if isJSON(resp.Header.Get("Content-Type")) {
			var payload map[string]any
			if err := json.Unmarshal(body, &payload); err == nil {
				result.Raw = payload
				result.Enriched = extractPerson(payload)
				return result
			}
		}
		result.Raw = string(body)
		return result
	case http.StatusAccepted:
		result.Error = "profile queued upstream, retry later"
	case http.StatusNotFound:
		result.Error = "person not found"
	case http.StatusUnauthorized, http.StatusForbidden:
		result.Error = "unauthorized: check enrichment API key"
	case http.StatusTooManyRequests:
		result.Error = "rate limited by enrichment upstream"
	default:
		result.Error = upstreamError(body)
	}
	return result
}

// upstreamError pulls an "error" field out of a JSON body when there is
// one, else falls back to a generic message.
func upstreamError(body []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return "unexpected enrichment error"
}

func isJSON(contentType string) bool {
	return strings.Contains(contentType, "application/json")
}
