package ai

import (
	"context"
	"encoding/json"
	"fmt"
)

// Registry holds tools by name, exposes their definitions to the model and
// dispatches model-requested calls.
type Registry struct {
	tools map[string]Tool
	order []string
}

func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register stores the tool under the name from its definition. Registering a
// name twice replaces the previous tool silently, keeping its position in
// Definitions, which lets tests override a tool with a mock.
func (r *Registry) Register(t Tool) error {
	name := t.Definition().Name
	if name == "" {
		return fmt.Errorf("tool definition has no name")
	}
	if _, exists := r.tools[name]; !exists {
		r.order = append(r.order, name)
	}
	r.tools[name] = t
	return nil
}

// Definitions returns all registered definitions in registration order.
func (r *Registry) Definitions() []ToolDefinition {
	defs := make([]ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.tools[name].Definition())
	}
	return defs
}

// Dispatch runs the named tool. An unregistered name is a protocol miss, not
// a caller error: the model gets a "not found" message and can recover.
func (r *Registry) Dispatch(ctx context.Context, name string, input json.RawMessage) (string, []Source, error) {
	t, ok := r.tools[name]
	if !ok {
		return fmt.Sprintf("Tool '%s' not found", name), nil, nil
	}
	return t.Execute(ctx, input)
}
