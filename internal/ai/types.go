package ai

import (
	"fmt"
	"strings"
)

// --- Responses API wire types ---

// Request is one /responses call. Instructions are only set on the first
// turn of a conversation; afterwards the server-side conversation carries
// them.
type Request struct {
	Model        string           `json:"model"`
	Input        []InputItem      `json:"input"`
	Instructions string           `json:"instructions,omitempty"`
	Conversation string           `json:"conversation,omitempty"`
	PreviousID   string           `json:"previous_response_id,omitempty"`
	Reasoning    *Reasoning       `json:"reasoning,omitempty"`
	Tools        []ToolDefinition `json:"tools,omitempty"`
	ToolChoice   string           `json:"tool_choice,omitempty"`
	Stream       bool             `json:"stream,omitempty"`
}

type Reasoning struct {
	Effort string `json:"effort,omitempty"`
}

// InputItem is one entry of a request's input: a role message, or a
// function_call_output pairing a tool result with its originating call.
type InputItem struct {
	Type    string `json:"type,omitempty"`
	Role    string `json:"role,omitempty"`
	Content string `json:"content,omitempty"`
	CallID  string `json:"call_id,omitempty"`
	Output  string `json:"output,omitempty"`
}

func UserMessage(text string) InputItem {
	return InputItem{Type: "message", Role: "user", Content: text}
}

func SystemMessage(text string) InputItem {
	return InputItem{Type: "message", Role: "system", Content: text}
}

func FunctionCallOutput(callID, output string) InputItem {
	return InputItem{Type: "function_call_output", CallID: callID, Output: output}
}

// ToolDefinition is a tool declaration on the wire. Function tools carry a
// name and JSON-schema parameters; built-in capabilities like web_search
// carry only a type.
type ToolDefinition struct {
	Type        string         `json:"type"`
	Name        string         `json:"name,omitempty"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

// OutputItem is one entry of a finalized response's output: an assistant
// message, or a function_call requesting a tool execution.
type OutputItem struct {
	Type      string        `json:"type"`
	ID        string        `json:"id,omitempty"`
	Role      string        `json:"role,omitempty"`
	Content   []ContentPart `json:"content,omitempty"`
	CallID    string        `json:"call_id,omitempty"`
	Name      string        `json:"name,omitempty"`
	Arguments string        `json:"arguments,omitempty"`
}

type ContentPart struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type Response struct {
	ID     string       `json:"id"`
	Status string       `json:"status"`
	Output []OutputItem `json:"output"`
	Error  *APIError    `json:"error,omitempty"`
}

// OutputText joins the text of all assistant message items.
func (r *Response) OutputText() string {
	var b strings.Builder
	for _, item := range r.Output {
		if item.Type != "message" {
			continue
		}
		for _, part := range item.Content {
			if part.Type == "output_text" {
				b.WriteString(part.Text)
			}
		}
	}
	return b.String()
}

// FunctionCalls returns the tool-invocation requests of a finalized
// response.
func (r *Response) FunctionCalls() []OutputItem {
	var calls []OutputItem
	for _, item := range r.Output {
		if item.Type == "function_call" {
			calls = append(calls, item)
		}
	}
	return calls
}

// APIError is a provider-level error, either from a non-2xx HTTP response
// or from an error event on a stream.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code,omitempty"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("openai: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("openai: %s", e.Message)
}
