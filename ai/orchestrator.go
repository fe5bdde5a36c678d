package ai

import (
	"context"
	"fmt"
)

// DefaultMaxRounds bounds the number of tool rounds per query. It keeps a
// model that chains tool calls from running up unbounded cost and latency.
const DefaultMaxRounds = 2

// Orchestrator drives the bounded negotiation between the model and the
// registered tools for a single query: submit the prompt with tool
// definitions, dispatch whatever the model requests, feed results back, and
// repeat until the model answers with text or the round cap forces it to.
type Orchestrator struct {
	llm       LLMClient
	registry  *Registry
	maxRounds int
	obs       Observer
}

type OrchestratorOption func(*Orchestrator)

func WithMaxRounds(n int) OrchestratorOption {
	return func(o *Orchestrator) { o.maxRounds = n }
}

func WithObserver(obs Observer) OrchestratorOption {
	return func(o *Orchestrator) { o.obs = obs }
}

func NewOrchestrator(llm LLMClient, registry *Registry, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		llm:       llm,
		registry:  registry,
		maxRounds: DefaultMaxRounds,
		obs:       noopObserver{},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Answer runs the round loop for one query. history, when non-empty, is
// appended to the system prompt as prior-conversation context.
//
// The call after the final permitted round omits tool definitions, so the
// model cannot request another round and termination takes at most
// maxRounds+1 model calls. Model-call errors propagate to the caller; tool
// failures never do, they are converted to model-visible text.
func (o *Orchestrator) Answer(ctx context.Context, query, history string) (string, []Source, error) {
	system := SystemPrompt
	if history != "" {
		system = fmt.Sprintf("%s\n\nPrevious conversation:\n%s", SystemPrompt, history)
	}

	messages := []Message{{Role: "user", Content: query}}
	defs := o.registry.Definitions()

	var sources []Source
	seen := make(map[Source]bool)

	for round := 0; ; round++ {
		toolsEligible := round < o.maxRounds

		var tools []ToolDefinition
		if toolsEligible {
			tools = defs
		}

		resp, err := o.llm.Complete(ctx, system, messages, tools)
		if err != nil {
			return "", nil, fmt.Errorf("model call: %w", err)
		}

		if len(resp.ToolCalls) == 0 || !toolsEligible {
			o.obs.OnAnswer(resp.Content, sources)
			return resp.Content, sources, nil
		}

		messages = append(messages, Message{
			Role:      "assistant",
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})

		// Dispatch every call the model issued this round, in the order it
		// listed them, and answer each with an id-matched result message.
		for _, tc := range resp.ToolCalls {
			text, toolSources, err := o.registry.Dispatch(ctx, tc.Name, tc.Input)
			if err != nil {
				text = fmt.Sprintf("Tool execution error: %s", err)
				toolSources = nil
			}
			o.obs.OnToolCall(round, tc.Name, string(tc.Input), text)

			for _, s := range toolSources {
				if !seen[s] {
					seen[s] = true
					sources = append(sources, s)
				}
			}

			messages = append(messages, Message{
				Role:       "tool",
				ToolCallID: tc.ID,
				Content:    text,
			})
		}
	}
}
