package ai_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/dsvdev/studyground/ai"
)

func TestRegistry_RegisterRequiresName(t *testing.T) {
	r := ai.NewRegistry()
	err := r.Register(&mockTool{name: ""})
	if err == nil {
		t.Fatal("Register() error = nil, want missing-name failure")
	}
}

func TestRegistry_DefinitionsInRegistrationOrder(t *testing.T) {
	r := ai.NewRegistry()
	for _, name := range []string{"search", "outline", "extra"} {
		if err := r.Register(&mockTool{name: name}); err != nil {
			t.Fatalf("Register(%q) error = %v", name, err)
		}
	}

	defs := r.Definitions()
	if len(defs) != 3 {
		t.Fatalf("Definitions() len = %d, want 3", len(defs))
	}
	want := []string{"search", "outline", "extra"}
	for i, d := range defs {
		if d.Name != want[i] {
			t.Errorf("Definitions()[%d] = %q, want %q", i, d.Name, want[i])
		}
	}
}

func TestRegistry_ReRegisterReplacesInPlace(t *testing.T) {
	r := ai.NewRegistry()
	first := &mockTool{name: "search", output: "first"}
	second := &mockTool{name: "search", output: "second"}

	if err := r.Register(first); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := r.Register(&mockTool{name: "outline"}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := r.Register(second); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	defs := r.Definitions()
	if len(defs) != 2 {
		t.Fatalf("Definitions() len = %d, want 2 (replace, not append)", len(defs))
	}
	if defs[0].Name != "search" {
		t.Errorf("Definitions()[0] = %q, want original position kept", defs[0].Name)
	}

	out, _, err := r.Dispatch(context.Background(), "search", json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if out != "second" {
		t.Errorf("Dispatch() = %q, want the replacement tool's output", out)
	}
	if first.calls != 0 {
		t.Errorf("replaced tool was called %d times, want 0", first.calls)
	}
}

func TestRegistry_DispatchUnknownName(t *testing.T) {
	r := ai.NewRegistry()
	out, sources, err := r.Dispatch(context.Background(), "missing_tool", json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("Dispatch() error = %v, want nil (protocol miss is in-band)", err)
	}
	if !strings.Contains(out, "not found") || !strings.Contains(out, "missing_tool") {
		t.Errorf("Dispatch() = %q, want identifiable not-found message", out)
	}
	if sources != nil {
		t.Errorf("sources = %v, want nil", sources)
	}
}

func TestRegistry_DispatchPassesInput(t *testing.T) {
	tool := &mockTool{name: "search", output: "ok"}
	r := ai.NewRegistry()
	if err := r.Register(tool); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	input := json.RawMessage(`{"query":"embeddings"}`)
	if _, _, err := r.Dispatch(context.Background(), "search", input); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if string(tool.lastInput) != string(input) {
		t.Errorf("tool input = %s, want %s", tool.lastInput, input)
	}
}
