package core

import (
	"fmt"
	"strings"
)

// Category is a coarse topical label assigned to queries and documents.
type Category int

const (
	// CategoryUnknown is returned for empty text. It is the zero value so an
	// unclassified document is never mistaken for a real category.
	CategoryUnknown Category = iota
	// CategoryAssignment covers graded assignments, homework, and projects.
	CategoryAssignment
	// CategoryExam covers exams and tests.
	CategoryExam
	// CategoryTechnical covers code, errors, and tooling discussions.
	CategoryTechnical
	// CategoryCourse covers logistics: syllabus, schedule, deadlines.
	CategoryCourse
	// CategoryGeneral is the fallback when no keywords match.
	CategoryGeneral
)

// String returns the lowercase name of the category.
func (c Category) String() string {
	switch c {
	case CategoryUnknown:
		return "unknown"
	case CategoryAssignment:
		return "assignment"
	case CategoryExam:
		return "exam"
	case CategoryTechnical:
		return "technical"
	case CategoryCourse:
		return "course"
	case CategoryGeneral:
		return "general"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// ParseCategory maps a category name to its Category value.
// Unrecognized names yield CategoryUnknown.
func ParseCategory(name string) Category {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "assignment":
		return CategoryAssignment
	case "exam":
		return CategoryExam
	case "technical":
		return CategoryTechnical
	case "course":
		return CategoryCourse
	case "general":
		return CategoryGeneral
	default:
		return CategoryUnknown
	}
}

// categoryKeywords maps categories to their indicative keywords.
// Entries are checked in order, so earlier categories win when a text
// matches several.
var categoryKeywords = []struct {
	category Category
	keywords []string
}{
	{CategoryAssignment, []string{
		"graded assignment", "assignment", "homework",
		"ga1", "ga2", "ga3", "ga4", "ga5", "ga6", "ga7",
		"project",
	}},
	{CategoryExam, []string{"exam", "midterm", "test", "final", "roe"}},
	{CategoryTechnical, []string{"code", "error", "python", "api", "debug"}},
	{CategoryCourse, []string{"course", "syllabus", "schedule", "deadline"}},
}

// Categorize assigns a category to text by scanning for category-indicative
// keywords. It is pure and total: empty text yields CategoryUnknown, text
// with no matching keyword yields CategoryGeneral.
func Categorize(text string) Category {
	if strings.TrimSpace(text) == "" {
		return CategoryUnknown
	}

	lowered := strings.ToLower(text)
	for _, entry := range categoryKeywords {
		for _, keyword := range entry.keywords {
			if strings.Contains(lowered, keyword) {
				return entry.category
			}
		}
	}

	return CategoryGeneral
}
