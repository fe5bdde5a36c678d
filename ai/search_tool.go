package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// SearchTool searches course content with semantic course name matching and
// optional lesson filtering.
type SearchTool struct {
	store CourseStore
}

func NewSearchTool(store CourseStore) *SearchTool {
	return &SearchTool{store: store}
}

func (t *SearchTool) Definition() ToolDefinition {
	return ToolDefinition{
		Name:        "search_course_content",
		Description: "Search course materials with smart course name matching and lesson filtering",
		InputSchema: json.RawMessage(`{
		"type": "object",
		"properties": {
			"query":         {"type": "string", "description": "What to search for in the course content"},
			"course_name":   {"type": "string", "description": "Course title (partial matches work, e.g. 'MCP', 'Introduction')"},
			"lesson_number": {"type": "integer", "description": "Specific lesson number to search within (e.g. 1, 2, 3)"}
		},
		"required": ["query"]
	}`),
	}
}

func (t *SearchTool) Execute(ctx context.Context, input json.RawMessage) (string, []Source, error) {
	var in struct {
		Query        string `json:"query"`
		CourseName   string `json:"course_name"`
		LessonNumber *int   `json:"lesson_number"`
	}
	if err := json.Unmarshal(input, &in); err != nil {
		return "", nil, fmt.Errorf("invalid input: %w", err)
	}

	results, err := t.store.Search(ctx, in.Query, SearchFilter{
		CourseName:   in.CourseName,
		LessonNumber: in.LessonNumber,
	})
	if err != nil {
		// A store failure is relayed in-band, verbatim, so the model reports
		// it instead of inventing content.
		return err.Error(), nil, nil
	}

	if results.Empty() {
		var filters strings.Builder
		if in.CourseName != "" {
			fmt.Fprintf(&filters, " in course '%s'", in.CourseName)
		}
		if in.LessonNumber != nil {
			fmt.Fprintf(&filters, " in lesson %d", *in.LessonNumber)
		}
		return fmt.Sprintf("No relevant content found%s.", filters.String()), nil, nil
	}

	text, sources := t.formatResults(ctx, results)
	return text, sources, nil
}

// formatResults renders each chunk as a labeled block in store order and
// collects one source per unique (course, lesson) pair, first-seen first.
func (t *SearchTool) formatResults(ctx context.Context, results *SearchResults) (string, []Source) {
	var blocks []string
	var sources []Source
	seen := make(map[string]bool)

	for i, doc := range results.Documents {
		meta := results.Metadata[i]

		header := "[" + meta.CourseTitle
		if meta.LessonNumber != nil {
			header += fmt.Sprintf(" - Lesson %d", *meta.LessonNumber)
		}
		header += "]"

		key := meta.CourseTitle
		if meta.LessonNumber != nil {
			key = fmt.Sprintf("%s|%d", meta.CourseTitle, *meta.LessonNumber)
		}
		if !seen[key] {
			seen[key] = true
			src := Source{Text: meta.CourseTitle}
			if meta.LessonNumber != nil {
				src.Text = fmt.Sprintf("%s - Lesson %d", meta.CourseTitle, *meta.LessonNumber)
				src.Link = t.store.LessonLink(ctx, meta.CourseTitle, *meta.LessonNumber)
			}
			sources = append(sources, src)
		}

		blocks = append(blocks, header+"\n"+doc)
	}

	return strings.Join(blocks, "\n\n"), sources
}
