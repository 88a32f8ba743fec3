package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"
	"time"
)

// Per-tool execution timeout.
const toolTimeout = 30 * time.Second

// Orchestrator drives one conversation turn at a time: stream the model's
// reply, execute any tool calls it requested, submit the results as a
// follow-up, and hand back the identifier that chains the next turn.
type Orchestrator struct {
	client   *Client
	registry *Registry

	model           string
	reasoningEffort string
	enableWebSearch bool
}

type OrchestratorConfig struct {
	Model           string
	ReasoningEffort string
	// EnableWebSearch declares the provider's built-in web_search tool.
	// Models that reject it trigger the degraded retry path.
	EnableWebSearch bool
}

func NewOrchestrator(client *Client, registry *Registry, cfg OrchestratorConfig) *Orchestrator {
	return &Orchestrator{
		client:          client,
		registry:        registry,
		model:           cfg.Model,
		reasoningEffort: cfg.ReasoningEffort,
		enableWebSearch: cfg.EnableWebSearch,
	}
}

// TurnInput composes a single user turn. Historical context is not resent:
// it is implicit in the Conversation handle or, in degraded mode, in
// PreviousID.
type TurnInput struct {
	Text string

	// Conversation is the server-side conversation handle. Instructions
	// are only sent when it is empty and there is no previous response to
	// chain from.
	Conversation string
	PreviousID   string
	Instructions string
}

type TurnResult struct {
	// ResponseID chains the next turn. After a tool follow-up it is the
	// follow-up's identifier, superseding the streamed turn's.
	ResponseID string
	// FollowUpText is the text of the tool follow-up, surfaced in one
	// shot. Empty when the turn requested no tools.
	FollowUpText string
	ToolCalls    int
}

// RunTurn sends one user message and sees the turn through to completion.
// Text deltas are forwarded to onDelta in arrival order as they stream in.
func (o *Orchestrator) RunTurn(ctx context.Context, in TurnInput, onDelta func(string)) (TurnResult, error) {
	req := Request{
		Model:        o.model,
		Input:        []InputItem{UserMessage(in.Text)},
		Conversation: in.Conversation,
		PreviousID:   in.PreviousID,
		Reasoning:    &Reasoning{Effort: o.reasoningEffort},
		Tools:        o.toolDefinitions(true),
		ToolChoice:   "auto",
	}
	if in.Conversation == "" && in.PreviousID == "" {
		req.Instructions = in.Instructions
	}

	final, degraded, err := o.streamTurn(ctx, req, onDelta)
	if err != nil {
		return TurnResult{}, err
	}

	calls := final.FunctionCalls()
	if len(calls) == 0 {
		return TurnResult{ResponseID: final.ID}, nil
	}

	outputs := o.dispatchAll(ctx, calls)
	if outputs == nil {
		// Tool results are best effort: a broken tool must not abort the
		// conversation, so the turn completes on its original identifier.
		return TurnResult{ResponseID: final.ID}, nil
	}

	followUp, err := o.client.CreateResponse(ctx, Request{
		Model:        o.model,
		Input:        outputs,
		Conversation: in.Conversation,
		PreviousID:   chainID(in, final),
		Reasoning:    &Reasoning{Effort: o.reasoningEffort},
		Tools:        o.toolDefinitions(!degraded),
		ToolChoice:   "auto",
	})
	if err != nil {
		return TurnResult{ResponseID: final.ID}, fmt.Errorf("submitting tool results: %w", err)
	}

	return TurnResult{
		ResponseID:   followUp.ID,
		FollowUpText: followUp.OutputText(),
		ToolCalls:    len(calls),
	}, nil
}

// streamTurn opens the streamed exchange, forwarding deltas and returning
// the finalized response. A request rejected for an unsupported tool
// declaration is retried once without web_search and with minimal effort;
// degraded reports whether that happened so the follow-up matches.
func (o *Orchestrator) streamTurn(ctx context.Context, req Request, onDelta func(string)) (final *Response, degraded bool, err error) {
	stream, err := o.client.StreamResponse(ctx, req)
	if err != nil {
		if !isUnsupportedTool(err) {
			return nil, false, err
		}
		log.Printf("agent: model rejected a declared tool, retrying without web_search: %v", err)
		degraded = true
		req.Tools = o.toolDefinitions(false)
		req.Reasoning = &Reasoning{Effort: "minimal"}
		stream, err = o.client.StreamResponse(ctx, req)
		if err != nil {
			return nil, false, err
		}
	}
	defer stream.Close()

	for {
		event, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, degraded, err
		}
		switch event.Type {
		case EventTextDelta:
			if onDelta != nil && event.Text != "" {
				onDelta(event.Text)
			}
		case EventCompleted:
			final = event.Response
		case EventError:
			return nil, degraded, event.Err
		}
	}

	if final == nil {
		return nil, degraded, fmt.Errorf("stream ended without a completed response")
	}
	return final, degraded, nil
}

// dispatchAll pairs every invocation with exactly one result, keyed by the
// originating call identifier. It returns nil only when dispatch itself
// blows up, which the caller swallows.
func (o *Orchestrator) dispatchAll(ctx context.Context, calls []OutputItem) (outputs []InputItem) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("agent: tool dispatch panicked, dropping tool results for this turn: %v", r)
			outputs = nil
		}
	}()

	for _, call := range calls {
		payload := o.executeCall(ctx, call)
		data, err := json.Marshal(payload)
		if err != nil {
			data = []byte(fmt.Sprintf(`{"error":%q}`, err.Error()))
		}
		outputs = append(outputs, FunctionCallOutput(call.CallID, string(data)))
	}
	return outputs
}

func (o *Orchestrator) executeCall(ctx context.Context, call OutputItem) any {
	var args map[string]any
	if call.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			return map[string]any{"status": 400, "error": "malformed tool arguments"}
		}
	}

	tool, err := o.registry.Get(call.Name)
	if err != nil {
		return map[string]any{"error": err.Error()}
	}

	toolCtx, cancel := context.WithTimeout(ctx, toolTimeout)
	defer cancel()

	start := time.Now()
	result, err := tool.Execute(toolCtx, args)
	log.Printf("agent: tool %s completed in %dms", call.Name, time.Since(start).Milliseconds())

	if err != nil {
		return map[string]any{"error": err.Error()}
	}
	return result
}

func (o *Orchestrator) toolDefinitions(withWebSearch bool) []ToolDefinition {
	defs := o.registry.Definitions()
	if withWebSearch && o.enableWebSearch {
		defs = append(defs, ToolDefinition{Type: "web_search"})
	}
	return defs
}

// chainID picks the previous_response_id for the follow-up in degraded
// (no-conversation) mode; with a conversation handle the server tracks
// context itself.
func chainID(in TurnInput, final *Response) string {
	if in.Conversation != "" {
		return ""
	}
	return final.ID
}

func isUnsupportedTool(err error) bool {
	apiErr, ok := err.(*APIError)
	if !ok {
		return false
	}
	msg := strings.ToLower(apiErr.Message)
	return strings.Contains(msg, "not supported") && strings.Contains(msg, "tool")
}
