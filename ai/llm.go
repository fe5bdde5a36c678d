package ai

import (
	"context"
	"encoding/json"
)

// ToolDefinition describes a callable capability advertised to the model.
type ToolDefinition struct {
	Name        string
	Description string
	InputSchema json.RawMessage // JSON Schema (type=object)
}

type ToolCall struct {
	ID    string
	Name  string
	Input json.RawMessage
}

type Message struct {
	Role       string // "user" | "assistant" | "tool"
	Content    string
	ToolCalls  []ToolCall // filled if Role="assistant" and the model called tools
	ToolCallID string     // filled if Role="tool"
}

type Response struct {
	Content   string
	ToolCalls []ToolCall
	Done      bool // true if no tool_calls (model answered with text only)
}

// LLMClient is the model-call boundary. system carries the static instructions
// plus, when present, prior-conversation context. A nil tools slice withholds
// tool definitions entirely, forcing a text-only answer.
type LLMClient interface {
	Complete(ctx context.Context, system string, messages []Message, tools []ToolDefinition) (*Response, error)
}
