package ingest_test

import (
	"strings"
	"testing"

	"github.com/dsvdev/studyground/ingest"
)

const sampleScript = `Course Title: MCP: Build Rich-Context AI Apps
Course Link: https://example.com/mcp
Course Instructor: Jane Doe

Lesson 0: Introduction
Lesson Link: https://example.com/mcp/lesson/0
Welcome to the course. This lesson covers the basics.

Lesson 1: Why MCP
MCP standardizes how applications provide context to models. It matters a lot.
`

func TestParseScript(t *testing.T) {
	course, err := ingest.ParseScript(strings.NewReader(sampleScript))
	if err != nil {
		t.Fatalf("ParseScript() error = %v", err)
	}

	if course.Title != "MCP: Build Rich-Context AI Apps" {
		t.Errorf("Title = %q", course.Title)
	}
	if course.Link != "https://example.com/mcp" {
		t.Errorf("Link = %q", course.Link)
	}
	if course.Instructor != "Jane Doe" {
		t.Errorf("Instructor = %q", course.Instructor)
	}
	if len(course.Lessons) != 2 {
		t.Fatalf("Lessons = %d, want 2", len(course.Lessons))
	}

	l0 := course.Lessons[0]
	if l0.Number != 0 || l0.Title != "Introduction" {
		t.Errorf("lesson 0 = %+v", l0)
	}
	if l0.Link != "https://example.com/mcp/lesson/0" {
		t.Errorf("lesson 0 link = %q", l0.Link)
	}
	if !strings.Contains(l0.Content, "Welcome to the course.") {
		t.Errorf("lesson 0 content = %q", l0.Content)
	}
	if strings.Contains(l0.Content, "Lesson Link:") {
		t.Errorf("lesson link line leaked into content: %q", l0.Content)
	}

	l1 := course.Lessons[1]
	if l1.Number != 1 || l1.Title != "Why MCP" || l1.Link != "" {
		t.Errorf("lesson 1 = %+v", l1)
	}
}

func TestParseScript_MissingTitle(t *testing.T) {
	_, err := ingest.ParseScript(strings.NewReader("Lesson 1: Orphan\nsome text\n"))
	if err == nil {
		t.Fatal("ParseScript() error = nil, want missing-title failure")
	}
}

func TestChunkText_RespectsSize(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 40; i++ {
		sb.WriteString("This sentence is roughly fifty characters long, yes. ")
	}
	chunks := ingest.ChunkText(sb.String(), 200, 50)

	if len(chunks) < 2 {
		t.Fatalf("chunks = %d, want several", len(chunks))
	}
	for i, c := range chunks {
		if len(c) > 200 {
			t.Errorf("chunk %d length = %d, want <= 200", i, len(c))
		}
	}
}

func TestChunkText_OverlapCarriesTrailingSentence(t *testing.T) {
	text := "First sentence here. Second sentence here. Third sentence here. Fourth sentence here."
	chunks := ingest.ChunkText(text, 45, 25)

	if len(chunks) < 2 {
		t.Fatalf("chunks = %v, want at least 2", chunks)
	}
	for i := 1; i < len(chunks); i++ {
		first := strings.SplitN(chunks[i], ".", 2)[0] + "."
		if !strings.HasSuffix(chunks[i-1], first) {
			t.Errorf("chunk %d does not start with its predecessor's tail: %q then %q",
				i, chunks[i-1], chunks[i])
		}
	}
}

func TestChunkText_Empty(t *testing.T) {
	if chunks := ingest.ChunkText("   ", 800, 100); chunks != nil {
		t.Errorf("chunks = %v, want nil", chunks)
	}
}

func TestChunkCourse(t *testing.T) {
	course, err := ingest.ParseScript(strings.NewReader(sampleScript))
	if err != nil {
		t.Fatalf("ParseScript() error = %v", err)
	}
	chunks := ingest.ChunkCourse(course, 800, 100)

	if len(chunks) != 2 {
		t.Fatalf("chunks = %d, want 2 (one per short lesson)", len(chunks))
	}
	if !strings.HasPrefix(chunks[0].Content, "Lesson 0 content: ") {
		t.Errorf("first chunk not prefixed: %q", chunks[0].Content)
	}
	if chunks[0].CourseTitle != course.Title {
		t.Errorf("chunk course = %q", chunks[0].CourseTitle)
	}
	if chunks[1].LessonNumber == nil || *chunks[1].LessonNumber != 1 {
		t.Errorf("chunk lesson = %v, want 1", chunks[1].LessonNumber)
	}
	for i, c := range chunks {
		if c.Index != i {
			t.Errorf("chunk %d index = %d", i, c.Index)
		}
	}
}
