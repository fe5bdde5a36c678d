package store_test

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"testing"

	"github.com/dsvdev/studyground/ai"
	"github.com/dsvdev/studyground/ingest"
	"github.com/dsvdev/studyground/store"
)

// fakeEmbedding is a deterministic bag-of-words embedding: shared tokens
// produce similar vectors, which is enough for filtering and fuzzy title
// resolution to behave like the real thing.
func fakeEmbedding(_ context.Context, text string) ([]float32, error) {
	const dim = 64
	vec := make([]float32, dim)
	for _, token := range strings.Fields(strings.ToLower(text)) {
		token = strings.Trim(token, ".,:;!?'\"()")
		if token == "" {
			continue
		}
		h := fnv.New32a()
		h.Write([]byte(token))
		vec[h.Sum32()%dim]++
	}
	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		vec[0] = 1
		norm = 1
	}
	n := float32(math.Sqrt(norm))
	for i := range vec {
		vec[i] /= n
	}
	return vec, nil
}

const mcpScript = `Course Title: MCP: Build Rich-Context AI Apps
Course Link: https://example.com/mcp
Course Instructor: Jane Doe

Lesson 0: Introduction
Lesson Link: https://example.com/mcp/lesson/0
The model context protocol standardizes tool access for assistants.

Lesson 1: Architecture
Servers expose resources and tools over a simple transport.
`

const pythonScript = `Course Title: Python Fundamentals
Course Link: https://example.com/python

Lesson 1: Variables
Variables bind names to objects in python programs.
`

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(store.WithEmbeddingFunc(fakeEmbedding))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	return s
}

func addScript(t *testing.T, s *store.Store, script string) *ingest.Course {
	t.Helper()
	course, err := ingest.ParseScript(strings.NewReader(script))
	if err != nil {
		t.Fatalf("ParseScript() error = %v", err)
	}
	added, err := s.AddCourse(context.Background(), course, ingest.ChunkCourse(course, 800, 100))
	if err != nil {
		t.Fatalf("AddCourse() error = %v", err)
	}
	if !added {
		t.Fatalf("AddCourse() added = false, want true for new course %q", course.Title)
	}
	return course
}

func TestStore_SearchReturnsParallelMetadata(t *testing.T) {
	s := newTestStore(t)
	addScript(t, s, mcpScript)
	addScript(t, s, pythonScript)

	results, err := s.Search(context.Background(), "model context protocol", ai.SearchFilter{})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if results.Empty() {
		t.Fatal("Search() returned no results")
	}
	if len(results.Documents) != len(results.Metadata) {
		t.Fatalf("documents/metadata length mismatch: %d vs %d",
			len(results.Documents), len(results.Metadata))
	}
	for i, meta := range results.Metadata {
		if meta.CourseTitle == "" {
			t.Errorf("result %d has no course title", i)
		}
	}
}

func TestStore_SearchWithCourseFilter(t *testing.T) {
	s := newTestStore(t)
	addScript(t, s, mcpScript)
	addScript(t, s, pythonScript)

	results, err := s.Search(context.Background(), "tools", ai.SearchFilter{CourseName: "MCP"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	for i, meta := range results.Metadata {
		if meta.CourseTitle != "MCP: Build Rich-Context AI Apps" {
			t.Errorf("result %d from course %q, want MCP only", i, meta.CourseTitle)
		}
	}
}

func TestStore_SearchWithLessonFilter(t *testing.T) {
	s := newTestStore(t)
	addScript(t, s, mcpScript)

	lesson := 1
	results, err := s.Search(context.Background(), "servers", ai.SearchFilter{LessonNumber: &lesson})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if results.Empty() {
		t.Fatal("Search() returned no results for lesson filter")
	}
	for i, meta := range results.Metadata {
		if meta.LessonNumber == nil || *meta.LessonNumber != 1 {
			t.Errorf("result %d lesson = %v, want 1", i, meta.LessonNumber)
		}
	}
}

func TestStore_SearchUnresolvableCourse(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Search(context.Background(), "anything", ai.SearchFilter{CourseName: "Nope"})
	if err == nil {
		t.Fatal("Search() error = nil, want failure for empty catalog")
	}
	if !strings.Contains(err.Error(), "No course found matching 'Nope'") {
		t.Errorf("error = %v", err)
	}
}

func TestStore_SearchEmptyStore(t *testing.T) {
	s := newTestStore(t)
	results, err := s.Search(context.Background(), "anything", ai.SearchFilter{})
	if err != nil {
		t.Fatalf("Search() error = %v, want empty results instead", err)
	}
	if !results.Empty() {
		t.Errorf("results = %+v, want empty", results)
	}
}

func TestStore_ResolveCourseName(t *testing.T) {
	s := newTestStore(t)
	addScript(t, s, mcpScript)
	addScript(t, s, pythonScript)

	title, err := s.ResolveCourseName(context.Background(), "MCP")
	if err != nil {
		t.Fatalf("ResolveCourseName() error = %v", err)
	}
	if title != "MCP: Build Rich-Context AI Apps" {
		t.Errorf("resolved = %q", title)
	}

	title, err = s.ResolveCourseName(context.Background(), "Python Fundamentals")
	if err != nil {
		t.Fatalf("ResolveCourseName() error = %v", err)
	}
	if title != "Python Fundamentals" {
		t.Errorf("resolved = %q", title)
	}
}

func TestStore_LessonLink(t *testing.T) {
	s := newTestStore(t)
	addScript(t, s, mcpScript)

	if link := s.LessonLink(context.Background(), "MCP: Build Rich-Context AI Apps", 0); link != "https://example.com/mcp/lesson/0" {
		t.Errorf("LessonLink(0) = %q", link)
	}
	if link := s.LessonLink(context.Background(), "MCP: Build Rich-Context AI Apps", 1); link != "" {
		t.Errorf("LessonLink(1) = %q, want empty (no link stored)", link)
	}
	if link := s.LessonLink(context.Background(), "Unknown Course", 0); link != "" {
		t.Errorf("LessonLink(unknown) = %q, want empty", link)
	}
}

func TestStore_CoursesMetadata(t *testing.T) {
	s := newTestStore(t)
	addScript(t, s, mcpScript)
	addScript(t, s, pythonScript)

	courses, err := s.CoursesMetadata(context.Background())
	if err != nil {
		t.Fatalf("CoursesMetadata() error = %v", err)
	}
	if len(courses) != 2 {
		t.Fatalf("courses = %d, want 2", len(courses))
	}
	if courses[0].Title != "MCP: Build Rich-Context AI Apps" || courses[1].Title != "Python Fundamentals" {
		t.Errorf("course order = [%q, %q], want ingestion order", courses[0].Title, courses[1].Title)
	}
	if len(courses[0].Lessons) != 2 {
		t.Errorf("MCP lessons = %d, want 2", len(courses[0].Lessons))
	}
	if courses[0].Lessons[1].Title != "Architecture" {
		t.Errorf("lesson 1 = %+v", courses[0].Lessons[1])
	}
}

func TestStore_AddCourseSkipsDuplicates(t *testing.T) {
	s := newTestStore(t)
	course := addScript(t, s, mcpScript)

	before := s.ChunkCount()
	added, err := s.AddCourse(context.Background(), course, ingest.ChunkCourse(course, 800, 100))
	if err != nil {
		t.Fatalf("AddCourse() error = %v", err)
	}
	if added {
		t.Error("AddCourse() added = true for existing course, want false")
	}
	if s.ChunkCount() != before {
		t.Errorf("chunk count changed on duplicate add: %d -> %d", before, s.ChunkCount())
	}
	if s.CourseCount() != 1 {
		t.Errorf("course count = %d, want 1", s.CourseCount())
	}
}
