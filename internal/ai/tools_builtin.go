package ai

import (
	"context"

	"github.com/onbo-ai/onbo/internal/enrich"
)

// BuildRegistry creates the tool set the onboarding agent exposes to the
// model: real email enrichment plus the mocked auth and payment flows.
func BuildRegistry(enricher *enrich.Client) *Registry {
	r := NewRegistry()
	r.Register(&EnrichTool{client: enricher})
	r.Register(&GoogleAuthTool{})
	r.Register(&StripePaymentTool{})
	return r
}

// --- EnrichTool ---

type EnrichTool struct {
	client *enrich.Client
}

func (t *EnrichTool) Name() string { return "enrich" }
func (t *EnrichTool) Description() string {
	return "Look up a person's professional profile (name, title, company, location) by their email address"
}
func (t *EnrichTool) Parameters() *ParamSchema {
	return &ParamSchema{
		Type: "object",
		Properties: map[string]*ParamSchema{
			"email": {Type: "string", Description: "The email address to look up"},
		},
		Required: []string{"email"},
	}
}

// Execute never fails: a missing or non-string email yields a local 400
// result instead of an upstream call, and the client itself folds every
// reachable failure into the Result.
func (t *EnrichTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	email, ok := args["email"].(string)
	if !ok || email == "" {
		return enrich.Result{Status: 400, Error: "missing email"}, nil
	}
	return t.client.Enrich(ctx, email, enrich.Options{}), nil
}

// --- GoogleAuthTool (mock) ---

type GoogleAuthTool struct{}

func (t *GoogleAuthTool) Name() string { return "google_auth" }
func (t *GoogleAuthTool) Description() string {
	return "Sign the user in with their Google account (sandbox: always succeeds)"
}
func (t *GoogleAuthTool) Parameters() *ParamSchema { return nil }

func (t *GoogleAuthTool) Execute(_ context.Context, _ map[string]any) (any, error) {
	return map[string]any{
		"status":  200,
		"message": "Authentication successful. The user is signed in with Google.",
	}, nil
}

// --- StripePaymentTool (mock) ---

type StripePaymentTool struct{}

func (t *StripePaymentTool) Name() string { return "stripe_payment" }
func (t *StripePaymentTool) Description() string {
	return "Collect and verify the user's payment method (sandbox: always succeeds)"
}
func (t *StripePaymentTool) Parameters() *ParamSchema { return nil }

func (t *StripePaymentTool) Execute(_ context.Context, _ map[string]any) (any, error) {
	return map[string]any{
		"status":  200,
		"message": "Payment method verified. A test authorization was placed and voided.",
	}, nil
}
