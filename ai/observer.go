package ai

// Observer receives notifications while a query's rounds are negotiated.
// The orchestrator itself stays logger-free; callers that want visibility
// plug in an observer.
type Observer interface {
	OnToolCall(round int, name, input, output string)
	OnAnswer(text string, sources []Source)
}

// noopObserver is used when no observer is configured.
type noopObserver struct{}

func (noopObserver) OnToolCall(_ int, _, _, _ string) {}
func (noopObserver) OnAnswer(_ string, _ []Source)    {}
