package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// OutlineTool retrieves the full structure of a course: title, link and the
// ordered lesson list.
type OutlineTool struct {
	store CourseStore
}

func NewOutlineTool(store CourseStore) *OutlineTool {
	return &OutlineTool{store: store}
}

func (t *OutlineTool) Definition() ToolDefinition {
	return ToolDefinition{
		Name:        "get_course_outline",
		Description: "Get the complete outline/structure of a course including all lessons. Use this when users ask about course structure, lesson lists, what topics are covered, or the outline of a course.",
		InputSchema: json.RawMessage(`{
		"type": "object",
		"properties": {
			"course_title": {"type": "string", "description": "The course title to get the outline for (partial matches work, e.g. 'MCP', 'Claude Code')"}
		},
		"required": ["course_title"]
	}`),
	}
}

func (t *OutlineTool) Execute(ctx context.Context, input json.RawMessage) (string, []Source, error) {
	var in struct {
		CourseTitle string `json:"course_title"`
	}
	if err := json.Unmarshal(input, &in); err != nil {
		return "", nil, fmt.Errorf("invalid input: %w", err)
	}

	resolved, err := t.store.ResolveCourseName(ctx, in.CourseTitle)
	if err != nil || resolved == "" {
		// Unresolvable titles are a user-input problem; no guessing.
		return fmt.Sprintf("No course found matching '%s'", in.CourseTitle), nil, nil
	}

	courses, err := t.store.CoursesMetadata(ctx)
	if err != nil {
		return fmt.Sprintf("Could not retrieve metadata for course '%s'", resolved), nil, nil
	}

	var course *CourseMeta
	for i := range courses {
		if courses[i].Title == resolved {
			course = &courses[i]
			break
		}
	}
	if course == nil {
		// Resolution succeeded but the catalog has no entry: an
		// internal-consistency fault, distinct from a bad title.
		return fmt.Sprintf("Could not retrieve metadata for course '%s'", resolved), nil, nil
	}

	return t.formatOutline(course), []Source{{Text: course.Title, Link: course.Link}}, nil
}

func (t *OutlineTool) formatOutline(course *CourseMeta) string {
	lines := []string{fmt.Sprintf("Course: %s", course.Title)}
	if course.Link != "" {
		lines = append(lines, fmt.Sprintf("Course Link: %s", course.Link))
	}
	lines = append(lines,
		fmt.Sprintf("Total Lessons: %d", len(course.Lessons)),
		"",
		"Lessons:",
	)
	for _, lesson := range course.Lessons {
		lines = append(lines, fmt.Sprintf("  %d. %s", lesson.Number, lesson.Title))
	}
	return strings.Join(lines, "\n")
}
