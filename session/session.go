// Package session stores per-session conversation history: the question and
// answer of each completed exchange. Only the formatted tail of a session is
// ever read back, as prior-conversation context for the next query.
package session

import (
	"context"
	"fmt"
	"strings"
)

// DefaultMaxExchanges bounds how many recent exchanges feed back into the
// next query's context.
const DefaultMaxExchanges = 2

// Exchange is one completed question/answer pair.
type Exchange struct {
	Question string
	Answer   string
}

// Store is the history contract the query façade consumes.
type Store interface {
	// Create starts a new session and returns its id.
	Create(ctx context.Context) (string, error)

	// Append records a completed exchange.
	Append(ctx context.Context, sessionID, question, answer string) error

	// History returns the session's recent exchanges formatted for prompt
	// context, oldest first. Unknown sessions yield "".
	History(ctx context.Context, sessionID string) (string, error)

	// Clear discards a session's history.
	Clear(ctx context.Context, sessionID string) error
}

func formatHistory(exchanges []Exchange) string {
	var lines []string
	for _, e := range exchanges {
		lines = append(lines,
			fmt.Sprintf("User: %s", e.Question),
			fmt.Sprintf("Assistant: %s", e.Answer),
		)
	}
	return strings.Join(lines, "\n")
}
