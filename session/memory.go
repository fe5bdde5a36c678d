package session

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore keeps session history in process memory. It is the default
// store; history does not survive a restart.
type MemoryStore struct {
	mu           sync.Mutex
	sessions     map[string][]Exchange
	maxExchanges int
}

type MemoryOption func(*MemoryStore)

func WithMaxExchanges(n int) MemoryOption {
	return func(s *MemoryStore) { s.maxExchanges = n }
}

func NewMemory(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		sessions:     make(map[string][]Exchange),
		maxExchanges: DefaultMaxExchanges,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStore) Create(_ context.Context) (string, error) {
	id := uuid.NewString()
	s.mu.Lock()
	s.sessions[id] = nil
	s.mu.Unlock()
	return id, nil
}

func (s *MemoryStore) Append(_ context.Context, sessionID, question, answer string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	exchanges := append(s.sessions[sessionID], Exchange{Question: question, Answer: answer})
	if len(exchanges) > s.maxExchanges {
		exchanges = exchanges[len(exchanges)-s.maxExchanges:]
	}
	s.sessions[sessionID] = exchanges
	return nil
}

func (s *MemoryStore) History(_ context.Context, sessionID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return formatHistory(s.sessions[sessionID]), nil
}

func (s *MemoryStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}
