package store

import (
	chromem "github.com/philippgille/chromem-go"
)

const defaultMaxResults = 5

type config struct {
	persistPath string
	embedding   chromem.EmbeddingFunc
	maxResults  int
}

func defaultConfig() config {
	return config{
		// chromem's default embedding function uses the OpenAI
		// text-embedding-3-small model via OPENAI_API_KEY.
		embedding:  chromem.NewEmbeddingFuncDefault(),
		maxResults: defaultMaxResults,
	}
}

type Option func(*config)

// WithPersistPath stores the collections on disk under dir instead of
// keeping them in memory only.
func WithPersistPath(dir string) Option {
	return func(c *config) { c.persistPath = dir }
}

// WithEmbeddingFunc overrides the embedding function for both collections.
func WithEmbeddingFunc(fn chromem.EmbeddingFunc) Option {
	return func(c *config) { c.embedding = fn }
}

// WithMaxResults caps how many chunks a search returns.
func WithMaxResults(n int) Option {
	return func(c *config) { c.maxResults = n }
}
