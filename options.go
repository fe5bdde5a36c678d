package studyground

import (
	"github.com/dsvdev/studyground/ai"
	"github.com/dsvdev/studyground/ingest"
	"github.com/dsvdev/studyground/session"
	"github.com/dsvdev/studyground/store"
)

type options struct {
	llm          ai.LLMClient
	store        *store.Store
	sessions     session.Store
	obs          ai.Observer
	maxRounds    int
	chunkSize    int
	chunkOverlap int
}

func defaultOptions() options {
	return options{
		maxRounds:    ai.DefaultMaxRounds,
		chunkSize:    ingest.DefaultChunkSize,
		chunkOverlap: ingest.DefaultChunkOverlap,
	}
}

type Option func(*options)

// WithLLM sets the model client. Required.
func WithLLM(llm ai.LLMClient) Option {
	return func(o *options) { o.llm = llm }
}

// WithStore sets the vector store. Required.
func WithStore(s *store.Store) Option {
	return func(o *options) { o.store = s }
}

// WithSessions overrides the session store. Defaults to an in-memory store.
func WithSessions(s session.Store) Option {
	return func(o *options) { o.sessions = s }
}

// WithObserver receives tool-call and answer notifications per query.
func WithObserver(obs ai.Observer) Option {
	return func(o *options) { o.obs = obs }
}

// WithMaxRounds overrides the tool-round cap.
func WithMaxRounds(n int) Option {
	return func(o *options) { o.maxRounds = n }
}

// WithChunking overrides the ingestion chunk size and overlap (characters).
func WithChunking(size, overlap int) Option {
	return func(o *options) {
		o.chunkSize = size
		o.chunkOverlap = overlap
	}
}
