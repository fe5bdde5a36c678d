package ai

import "context"

// ChunkMeta locates a content chunk within the corpus. LessonNumber is nil
// for course-level chunks.
type ChunkMeta struct {
	CourseTitle  string
	LessonNumber *int
}

// SearchResults holds relevance-ranked chunks in store order. Documents and
// Metadata are parallel and always equal length.
type SearchResults struct {
	Documents []string
	Metadata  []ChunkMeta
}

func (r *SearchResults) Empty() bool { return len(r.Documents) == 0 }

type LessonMeta struct {
	Number int    `json:"lesson_number"`
	Title  string `json:"lesson_title"`
	Link   string `json:"lesson_link,omitempty"`
}

type CourseMeta struct {
	Title   string       `json:"title"`
	Link    string       `json:"course_link,omitempty"`
	Lessons []LessonMeta `json:"lessons"`
}

// SearchFilter narrows a content search. CourseName may be a partial title
// (the store resolves it); a nil LessonNumber means all lessons.
type SearchFilter struct {
	CourseName   string
	LessonNumber *int
}

// CourseStore is the read contract the tools consume from the vector store.
type CourseStore interface {
	// Search returns relevance-ranked chunks. An error is a hard search
	// failure; an empty result with a nil error means "no matches".
	Search(ctx context.Context, query string, filter SearchFilter) (*SearchResults, error)

	// ResolveCourseName fuzzy-matches a possibly partial title to an exact
	// stored course title.
	ResolveCourseName(ctx context.Context, partial string) (string, error)

	// LessonLink returns the link for a lesson, or "" when none is stored.
	LessonLink(ctx context.Context, courseTitle string, lessonNumber int) string

	// CoursesMetadata returns metadata for every stored course.
	CoursesMetadata(ctx context.Context) ([]CourseMeta, error)
}
