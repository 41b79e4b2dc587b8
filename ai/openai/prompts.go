package openai

import (
	"fmt"
	"strings"

	"github.com/coursetta/coursetta/core"
)

const answerPromptTemplate = `You are a helpful Teaching Assistant for the "Tools in Data Science" course at IIT Madras.

Your role is to answer student questions based on course materials and forum discussions.

Guidelines:
- Provide clear, accurate answers based on the context provided
- If you don't have specific information, say so and provide general guidance
- Be encouraging and supportive
- Give practical, step-by-step advice when appropriate
- Reference specific course concepts when relevant
- If an image is provided, analyze it carefully and incorporate relevant visual information into your response
- Always end with "Feel free to ask if you need clarification!"

Available Context:
%s

Student Question: %s

Please provide a helpful answer:`

// previewLength bounds how much of each document lands in the prompt.
const previewLength = 600

// buildAnswerPrompt renders the full prompt with the evidence block inlined.
func buildAnswerPrompt(question string, evidence []*core.ScoredResult) string {
	return fmt.Sprintf(answerPromptTemplate, buildContextBlock(evidence), question)
}

// buildContextBlock formats retrieved evidence as numbered sources. Each
// source carries its category and author so the model can attribute
// forum answers versus course material.
func buildContextBlock(evidence []*core.ScoredResult) string {
	if len(evidence) == 0 {
		return "No specific course context found."
	}

	parts := make([]string, 0, len(evidence))
	for i, result := range evidence {
		doc := result.Document
		author := doc.Author
		if author == "" {
			author = "Course Material"
		}
		parts = append(parts, fmt.Sprintf("Source %d [%s] (by %s): %s",
			i+1, doc.Category, author, previewText(doc.Text)))
	}
	return strings.Join(parts, "\n\n")
}

// previewText truncates on rune boundaries so multi-byte characters are
// never split mid-sequence.
func previewText(text string) string {
	runes := []rune(text)
	if len(runes) <= previewLength {
		return text
	}
	return string(runes[:previewLength]) + "…"
}
