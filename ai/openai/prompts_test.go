package openai

import (
	"strings"
	"testing"

	"github.com/coursetta/coursetta/core"
	"github.com/stretchr/testify/assert"
)

func scored(text, author string, category core.Category) *core.ScoredResult {
	return &core.ScoredResult{
		Document: &core.Document{
			Author:   author,
			Category: category,
			Text:     text,
		},
	}
}

func TestBuildContextBlock(t *testing.T) {
	t.Run("empty evidence", func(t *testing.T) {
		block := buildContextBlock(nil)
		assert.Equal(t, "No specific course context found.", block)
	})

	t.Run("numbered sources with category and author", func(t *testing.T) {
		evidence := []*core.ScoredResult{
			scored("The midterm covers weeks 1-6.", "prof_anand", core.CategoryExam),
			scored("Use pandas for the assignment.", "student42", core.CategoryTechnical),
		}

		block := buildContextBlock(evidence)

		assert.Contains(t, block, "Source 1 [exam] (by prof_anand): The midterm covers weeks 1-6.")
		assert.Contains(t, block, "Source 2 [technical] (by student42): Use pandas for the assignment.")
	})

	t.Run("missing author falls back to course material", func(t *testing.T) {
		evidence := []*core.ScoredResult{
			scored("Grading policy is posted on the site.", "", core.CategoryCourse),
		}

		block := buildContextBlock(evidence)
		assert.Contains(t, block, "(by Course Material)")
	})
}

func TestPreviewText(t *testing.T) {
	t.Run("short text unchanged", func(t *testing.T) {
		assert.Equal(t, "short", previewText("short"))
	})

	t.Run("long text truncated with ellipsis", func(t *testing.T) {
		long := strings.Repeat("a", previewLength+100)
		got := previewText(long)

		assert.Equal(t, previewLength+1, len([]rune(got)))
		assert.True(t, strings.HasSuffix(got, "…"))
	})

	t.Run("multi-byte runes not split", func(t *testing.T) {
		long := strings.Repeat("é", previewLength+10)
		got := previewText(long)

		assert.Equal(t, strings.Repeat("é", previewLength)+"…", got)
	})
}

func TestBuildAnswerPrompt(t *testing.T) {
	evidence := []*core.ScoredResult{
		scored("Deadline is Friday.", "ta_kumar", core.CategoryAssignment),
	}

	prompt := buildAnswerPrompt("When is GA3 due?", evidence)

	assert.Contains(t, prompt, "Teaching Assistant")
	assert.Contains(t, prompt, "Student Question: When is GA3 due?")
	assert.Contains(t, prompt, "Source 1 [assignment] (by ta_kumar): Deadline is Friday.")
	assert.Contains(t, prompt, "Feel free to ask if you need clarification!")
}
