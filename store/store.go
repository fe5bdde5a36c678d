package store

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"sync"

	chromem "github.com/philippgille/chromem-go"

	"github.com/dsvdev/studyground/ai"
	"github.com/dsvdev/studyground/ingest"
)

const (
	catalogCollection = "course_catalog"
	contentCollection = "course_content"
)

// Store is the chromem-go backed course store. The catalog collection holds
// one document per course (queried for fuzzy title resolution); the content
// collection holds the chunks.
//
// Course metadata is additionally kept in memory for outline lookups, since
// chromem only supports lookup by id or similarity query. The index is
// rebuilt as courses are (re-)ingested at startup.
type Store struct {
	db      *chromem.DB
	catalog *chromem.Collection
	content *chromem.Collection
	cfg     config

	mu      sync.RWMutex
	courses []ai.CourseMeta
}

func New(opts ...Option) (*Store, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	var db *chromem.DB
	var err error
	if cfg.persistPath != "" {
		db, err = chromem.NewPersistentDB(filepath.Join(cfg.persistPath, "studyground.gob"), false)
		if err != nil {
			return nil, fmt.Errorf("create persistent DB: %w", err)
		}
	} else {
		db = chromem.NewDB()
	}

	catalog, err := db.GetOrCreateCollection(catalogCollection, nil, cfg.embedding)
	if err != nil {
		return nil, fmt.Errorf("create catalog collection: %w", err)
	}
	content, err := db.GetOrCreateCollection(contentCollection, nil, cfg.embedding)
	if err != nil {
		return nil, fmt.Errorf("create content collection: %w", err)
	}

	return &Store{db: db, catalog: catalog, content: content, cfg: cfg}, nil
}

// AddCourse stores the course in the catalog and its chunks in the content
// collection. A course whose title is already in the catalog is skipped (its
// in-memory metadata entry is refreshed instead), so re-ingesting a docs
// folder on startup never duplicates chunks. Returns whether the course was
// newly added.
func (s *Store) AddCourse(ctx context.Context, course *ingest.Course, chunks []ingest.Chunk) (bool, error) {
	meta := courseMeta(course)

	if doc, err := s.catalog.GetByID(ctx, course.Title); err == nil && doc.ID != "" {
		s.indexCourse(meta)
		return false, nil
	}

	lessonsJSON, err := json.Marshal(meta.Lessons)
	if err != nil {
		return false, fmt.Errorf("marshal lessons: %w", err)
	}
	err = s.catalog.AddDocument(ctx, chromem.Document{
		ID:      course.Title,
		Content: course.Title,
		Metadata: map[string]string{
			"course_link": course.Link,
			"instructor":  course.Instructor,
			"lessons":     string(lessonsJSON),
		},
	})
	if err != nil {
		return false, fmt.Errorf("add course %q: %w", course.Title, err)
	}

	for _, chunk := range chunks {
		docMeta := map[string]string{
			"course_title": chunk.CourseTitle,
			"chunk_index":  strconv.Itoa(chunk.Index),
		}
		if chunk.LessonNumber != nil {
			docMeta["lesson_number"] = strconv.Itoa(*chunk.LessonNumber)
		}
		err := s.content.AddDocument(ctx, chromem.Document{
			ID:       fmt.Sprintf("%s-%d", chunk.CourseTitle, chunk.Index),
			Content:  chunk.Content,
			Metadata: docMeta,
		})
		if err != nil {
			return false, fmt.Errorf("add chunk %d of %q: %w", chunk.Index, chunk.CourseTitle, err)
		}
	}

	s.indexCourse(meta)
	return true, nil
}

// Search returns up to maxResults relevance-ranked chunks. A course name in
// the filter is resolved to an exact title first; an unresolvable name is a
// hard failure so the caller can relay it.
func (s *Store) Search(ctx context.Context, query string, filter ai.SearchFilter) (*ai.SearchResults, error) {
	where := map[string]string{}
	if filter.CourseName != "" {
		title, err := s.ResolveCourseName(ctx, filter.CourseName)
		if err != nil {
			return nil, fmt.Errorf("No course found matching '%s'", filter.CourseName)
		}
		where["course_title"] = title
	}
	if filter.LessonNumber != nil {
		where["lesson_number"] = strconv.Itoa(*filter.LessonNumber)
	}

	n := s.cfg.maxResults
	if count := s.content.Count(); count < n {
		n = count
	}
	if n == 0 {
		return &ai.SearchResults{}, nil
	}

	results, err := s.content.Query(ctx, query, n, where, nil)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	out := &ai.SearchResults{}
	for _, r := range results {
		meta := ai.ChunkMeta{CourseTitle: r.Metadata["course_title"]}
		if v, ok := r.Metadata["lesson_number"]; ok {
			if number, err := strconv.Atoi(v); err == nil {
				meta.LessonNumber = &number
			}
		}
		out.Documents = append(out.Documents, r.Content)
		out.Metadata = append(out.Metadata, meta)
	}
	return out, nil
}

// ResolveCourseName fuzzy-matches a partial title against the catalog via a
// top-1 similarity query.
func (s *Store) ResolveCourseName(ctx context.Context, partial string) (string, error) {
	if s.catalog.Count() == 0 {
		return "", fmt.Errorf("no courses available")
	}
	results, err := s.catalog.Query(ctx, partial, 1, nil, nil)
	if err != nil {
		return "", fmt.Errorf("resolve course name: %w", err)
	}
	if len(results) == 0 {
		return "", fmt.Errorf("no course matches %q", partial)
	}
	return results[0].ID, nil
}

// LessonLink returns the stored link for a lesson, or "" when the course or
// lesson is unknown.
func (s *Store) LessonLink(ctx context.Context, courseTitle string, lessonNumber int) string {
	doc, err := s.catalog.GetByID(ctx, courseTitle)
	if err != nil {
		return ""
	}
	var lessons []ai.LessonMeta
	if err := json.Unmarshal([]byte(doc.Metadata["lessons"]), &lessons); err != nil {
		return ""
	}
	for _, lesson := range lessons {
		if lesson.Number == lessonNumber {
			return lesson.Link
		}
	}
	return ""
}

// CoursesMetadata returns metadata for every indexed course, in ingestion
// order.
func (s *Store) CoursesMetadata(_ context.Context) ([]ai.CourseMeta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ai.CourseMeta, len(s.courses))
	copy(out, s.courses)
	return out, nil
}

// CourseCount returns the number of courses in the catalog.
func (s *Store) CourseCount() int {
	return s.catalog.Count()
}

// ChunkCount returns the number of content chunks.
func (s *Store) ChunkCount() int {
	return s.content.Count()
}

func (s *Store) indexCourse(meta ai.CourseMeta) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.courses {
		if s.courses[i].Title == meta.Title {
			s.courses[i] = meta
			return
		}
	}
	s.courses = append(s.courses, meta)
}

func courseMeta(course *ingest.Course) ai.CourseMeta {
	meta := ai.CourseMeta{Title: course.Title, Link: course.Link}
	for _, lesson := range course.Lessons {
		meta.Lessons = append(meta.Lessons, ai.LessonMeta{
			Number: lesson.Number,
			Title:  lesson.Title,
			Link:   lesson.Link,
		})
	}
	return meta
}
