package ingest

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// Lesson is one lesson section of a course script.
type Lesson struct {
	Number  int
	Title   string
	Link    string
	Content string
}

// Course is the parsed form of a course script: a three-line header followed
// by "Lesson N: <title>" sections.
type Course struct {
	Title      string
	Link       string
	Instructor string
	Lessons    []Lesson
}

var lessonHeader = regexp.MustCompile(`^Lesson\s+(\d+):\s*(.*)$`)

// ParseScript parses a course script:
//
//	Course Title: MCP: Build Rich-Context AI Apps
//	Course Link: https://example.com/mcp
//	Course Instructor: Jane Doe
//
//	Lesson 0: Introduction
//	Lesson Link: https://example.com/mcp/lesson/0
//	<lesson transcript...>
//
// Header lines may appear in any order before the first lesson. A missing
// course title is an error; everything else is optional.
func ParseScript(r io.Reader) (*Course, error) {
	course := &Course{}
	var current *Lesson
	var body []string

	flush := func() {
		if current == nil {
			return
		}
		current.Content = strings.TrimSpace(strings.Join(body, "\n"))
		course.Lessons = append(course.Lessons, *current)
		current = nil
		body = nil
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		if m := lessonHeader.FindStringSubmatch(trimmed); m != nil {
			flush()
			number, _ := strconv.Atoi(m[1])
			current = &Lesson{Number: number, Title: strings.TrimSpace(m[2])}
			continue
		}

		switch {
		case current == nil && strings.HasPrefix(trimmed, "Course Title:"):
			course.Title = strings.TrimSpace(strings.TrimPrefix(trimmed, "Course Title:"))
		case current == nil && strings.HasPrefix(trimmed, "Course Link:"):
			course.Link = strings.TrimSpace(strings.TrimPrefix(trimmed, "Course Link:"))
		case current == nil && strings.HasPrefix(trimmed, "Course Instructor:"):
			course.Instructor = strings.TrimSpace(strings.TrimPrefix(trimmed, "Course Instructor:"))
		case current != nil && len(body) == 0 && strings.HasPrefix(trimmed, "Lesson Link:"):
			current.Link = strings.TrimSpace(strings.TrimPrefix(trimmed, "Lesson Link:"))
		case current != nil:
			if trimmed != "" || len(body) > 0 {
				body = append(body, line)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	flush()

	if course.Title == "" {
		return nil, fmt.Errorf("script has no 'Course Title:' header")
	}
	return course, nil
}

// ParseScriptFile parses the course script at path.
func ParseScriptFile(path string) (*Course, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open script: %w", err)
	}
	defer f.Close()

	course, err := ParseScript(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return course, nil
}
