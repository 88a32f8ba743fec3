package ai

import (
	"context"
	"fmt"
)

// ParamSchema describes tool parameters using JSON Schema conventions.
type ParamSchema struct {
	Type        string                  `json:"type"`
	Description string                  `json:"description,omitempty"`
	Properties  map[string]*ParamSchema `json:"properties,omitempty"`
	Required    []string                `json:"required,omitempty"`
	Enum        []string                `json:"enum,omitempty"`
	Items       *ParamSchema            `json:"items,omitempty"`
}

// Tool is a single side-effecting function the model can call
// mid-conversation. Execute returns the value serialized as the tool's
// output payload.
type Tool interface {
	Name() string
	Description() string
	Parameters() *ParamSchema
	Execute(ctx context.Context, args map[string]any) (any, error)
}

// Registry holds all registered tools. Declaration order is preserved so
// the wire payload is stable across requests.
type Registry struct {
	tools map[string]Tool
	order []string
}

func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

func (r *Registry) Register(t Tool) {
	if _, exists := r.tools[t.Name()]; !exists {
		r.order = append(r.order, t.Name())
	}
	r.tools[t.Name()] = t
}

func (r *Registry) Get(name string) (Tool, error) {
	t, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
	return t, nil
}

// Definitions returns the function-tool declarations for the Responses API,
// in registration order.
func (r *Registry) Definitions() []ToolDefinition {
	defs := make([]ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		def := ToolDefinition{
			Type:        "function",
			Name:        t.Name(),
			Description: t.Description(),
		}
		if p := t.Parameters(); p != nil {
			def.Parameters = schemaToMap(p)
		}
		defs = append(defs, def)
	}
	return defs
}

func schemaToMap(s *ParamSchema) map[string]any {
	m := map[string]any{"type": s.Type}
	if s.Description != "" {
		m["description"] = s.Description
	}
	if len(s.Properties) > 0 {
		props := make(map[string]any)
		for k, v := range s.Properties {
			props[k] = schemaToMap(v)
		}
		m["properties"] = props
	}
	if len(s.Required) > 0 {
		m["required"] = s.Required
	}
	if len(s.Enum) > 0 {
		m["enum"] = s.Enum
	}
	if s.Items != nil {
		m["items"] = schemaToMap(s.Items)
	}
	return m
}
