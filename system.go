// Package studyground answers questions about ingested course materials. A
// query runs through a tool-calling model that searches the vector store or
// fetches course outlines before composing its answer.
package studyground

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dsvdev/studyground/ai"
	"github.com/dsvdev/studyground/ingest"
	"github.com/dsvdev/studyground/session"
	"github.com/dsvdev/studyground/store"
)

// Answer is the result of one query.
type Answer struct {
	Text      string      `json:"answer"`
	Sources   []ai.Source `json:"sources"`
	SessionID string      `json:"session_id"`
}

// Analytics summarizes the course catalog.
type Analytics struct {
	TotalCourses int      `json:"total_courses"`
	CourseTitles []string `json:"course_titles"`
}

// System wires the store, the tool registry, the orchestrator and the
// session store into the query flow.
type System struct {
	store    *store.Store
	sessions session.Store
	orch     *ai.Orchestrator

	chunkSize    int
	chunkOverlap int
}

func New(opts ...Option) (*System, error) {
	cfg := defaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.llm == nil {
		return nil, fmt.Errorf("an LLM client is required")
	}
	if cfg.store == nil {
		return nil, fmt.Errorf("a course store is required")
	}
	if cfg.sessions == nil {
		cfg.sessions = session.NewMemory()
	}

	registry := ai.NewRegistry()
	for _, tool := range []ai.Tool{
		ai.NewSearchTool(cfg.store),
		ai.NewOutlineTool(cfg.store),
	} {
		if err := registry.Register(tool); err != nil {
			return nil, err
		}
	}

	orchOpts := []ai.OrchestratorOption{ai.WithMaxRounds(cfg.maxRounds)}
	if cfg.obs != nil {
		orchOpts = append(orchOpts, ai.WithObserver(cfg.obs))
	}

	return &System{
		store:        cfg.store,
		sessions:     cfg.sessions,
		orch:         ai.NewOrchestrator(cfg.llm, registry, orchOpts...),
		chunkSize:    cfg.chunkSize,
		chunkOverlap: cfg.chunkOverlap,
	}, nil
}

// Query answers one question. An empty sessionID starts a new session; the
// returned Answer carries the id so the caller can continue the conversation.
func (s *System) Query(ctx context.Context, text, sessionID string) (*Answer, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("query text is empty")
	}

	if sessionID == "" {
		id, err := s.sessions.Create(ctx)
		if err != nil {
			return nil, fmt.Errorf("create session: %w", err)
		}
		sessionID = id
	}
	history, err := s.sessions.History(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	prompt := fmt.Sprintf("Answer this question about course materials: %s", text)
	answer, sources, err := s.orch.Answer(ctx, prompt, history)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Append(ctx, sessionID, text, answer); err != nil {
		return nil, fmt.Errorf("record exchange: %w", err)
	}
	return &Answer{Text: answer, Sources: sources, SessionID: sessionID}, nil
}

// AddCourseFolder ingests every .txt course script under dir. Courses already
// in the store are skipped. Returns the number of courses and chunks added.
func (s *System) AddCourseFolder(ctx context.Context, dir string) (int, int, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.txt"))
	if err != nil {
		return 0, 0, fmt.Errorf("list course scripts: %w", err)
	}

	coursesAdded, chunksAdded := 0, 0
	for _, path := range paths {
		course, err := ingest.ParseScriptFile(path)
		if err != nil {
			return coursesAdded, chunksAdded, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
		}
		chunks := ingest.ChunkCourse(course, s.chunkSize, s.chunkOverlap)
		added, err := s.store.AddCourse(ctx, course, chunks)
		if err != nil {
			return coursesAdded, chunksAdded, err
		}
		if added {
			coursesAdded++
			chunksAdded += len(chunks)
		}
	}
	return coursesAdded, chunksAdded, nil
}

// Analytics returns the catalog summary shown by the courses endpoint.
func (s *System) Analytics(ctx context.Context) (*Analytics, error) {
	courses, err := s.store.CoursesMetadata(ctx)
	if err != nil {
		return nil, fmt.Errorf("load course metadata: %w", err)
	}
	a := &Analytics{TotalCourses: len(courses)}
	for _, c := range courses {
		a.CourseTitles = append(a.CourseTitles, c.Title)
	}
	return a, nil
}

// ClearSession forgets a session's history.
func (s *System) ClearSession(ctx context.Context, sessionID string) error {
	return s.sessions.Clear(ctx, sessionID)
}
