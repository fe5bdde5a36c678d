package ingest

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

const (
	DefaultChunkSize    = 800
	DefaultChunkOverlap = 100
)

// Chunk is a piece of lesson content ready for the vector store.
type Chunk struct {
	Content      string
	CourseTitle  string
	LessonNumber *int
	Index        int
}

// ChunkCourse splits every lesson of the course into overlapping chunks.
// The first chunk of each lesson is prefixed with lesson context so a chunk
// retrieved on its own still says where it came from.
func ChunkCourse(course *Course, size, overlap int) []Chunk {
	var chunks []Chunk
	index := 0
	for _, lesson := range course.Lessons {
		for i, text := range ChunkText(lesson.Content, size, overlap) {
			if i == 0 {
				text = fmt.Sprintf("Lesson %d content: %s", lesson.Number, text)
			}
			number := lesson.Number
			chunks = append(chunks, Chunk{
				Content:      text,
				CourseTitle:  course.Title,
				LessonNumber: &number,
				Index:        index,
			})
			index++
		}
	}
	return chunks
}

var whitespace = regexp.MustCompile(`\s+`)

// ChunkText splits text into chunks of at most size characters on sentence
// boundaries, seeding each chunk after the first with up to overlap
// characters of trailing context from the previous one. A single sentence
// longer than size becomes its own chunk rather than being split mid-word.
func ChunkText(text string, size, overlap int) []string {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}

	sentences := splitSentences(whitespace.ReplaceAllString(strings.TrimSpace(text), " "))
	if len(sentences) == 0 {
		return nil
	}

	var chunks []string
	var current []string
	currentLen := 0

	for _, sentence := range sentences {
		if currentLen > 0 && currentLen+1+len(sentence) > size {
			chunks = append(chunks, strings.Join(current, " "))

			var carry []string
			carryLen := 0
			for i := len(current) - 1; i >= 0; i-- {
				if carryLen+len(current[i]) > overlap {
					break
				}
				carry = append([]string{current[i]}, carry...)
				carryLen += len(current[i]) + 1
			}
			current = carry
			currentLen = carryLen
		}
		current = append(current, sentence)
		currentLen += len(sentence) + 1
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}
	return chunks
}

// splitSentences breaks text on ., ! and ? followed by whitespace, keeping
// trailing closing quotes and parentheses with their sentence.
func splitSentences(text string) []string {
	var sentences []string
	var b strings.Builder

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		b.WriteRune(r)
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		j := i + 1
		for j < len(runes) && (runes[j] == '"' || runes[j] == '\'' || runes[j] == ')') {
			b.WriteRune(runes[j])
			j++
		}
		if j < len(runes) && !unicode.IsSpace(runes[j]) {
			i = j - 1
			continue
		}
		if s := strings.TrimSpace(b.String()); s != "" {
			sentences = append(sentences, s)
		}
		b.Reset()
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		i = j - 1
	}
	if s := strings.TrimSpace(b.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}
