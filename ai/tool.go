package ai

import (
	"context"
	"encoding/json"
)

// Source is a human-readable citation for content a tool surfaced: a label
// like "Python 101 - Lesson 3" plus an optional link.
type Source struct {
	Text string `json:"text"`
	Link string `json:"link,omitempty"`
}

// Tool is a named capability the model can invoke. Execute returns the text
// fed back to the model together with any citations the execution produced.
// Domain failures (search errors, no matches, unresolvable course names) are
// reported inside the returned text so the model can relay them; a non-nil
// error means the execution itself faulted.
type Tool interface {
	Definition() ToolDefinition
	Execute(ctx context.Context, input json.RawMessage) (string, []Source, error)
}
