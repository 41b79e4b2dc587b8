package mock

import (
	"context"
	"fmt"

	"github.com/coursetta/coursetta/core"
)

// MockGenerator is a test double for ai.AnswerGenerator.
// It allows custom behavior injection via function fields.
type MockGenerator struct {
	// GenerateAnswerFunc is called by GenerateAnswer if set.
	// If nil, uses default canned behavior.
	GenerateAnswerFunc func(ctx context.Context, question string, evidence []*core.ScoredResult, imageData string) (string, error)

	callCount int

	// LastQuestion and LastEvidence record the most recent call for
	// test assertions.
	LastQuestion string
	LastEvidence []*core.ScoredResult
	LastImage    string
}

// NewMockGenerator creates a mock answer generator with default behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// WithGenerateAnswerFunc sets a custom GenerateAnswer implementation and
// returns the mock for chaining.
func (m *MockGenerator) WithGenerateAnswerFunc(fn func(ctx context.Context, question string, evidence []*core.ScoredResult, imageData string) (string, error)) *MockGenerator {
	m.GenerateAnswerFunc = fn
	return m
}

// GenerateAnswer returns a canned answer describing the inputs.
// Default behavior: echoes the question and evidence count so tests can
// verify wiring without asserting on model output.
func (m *MockGenerator) GenerateAnswer(ctx context.Context, question string, evidence []*core.ScoredResult, imageData string) (string, error) {
	m.callCount++
	m.LastQuestion = question
	m.LastEvidence = evidence
	m.LastImage = imageData

	if m.GenerateAnswerFunc != nil {
		return m.GenerateAnswerFunc(ctx, question, evidence, imageData)
	}

	return fmt.Sprintf("Mock answer to %q based on %d sources. Feel free to ask if you need clarification!",
		question, len(evidence)), nil
}

// CallCount returns the number of times GenerateAnswer was called.
func (m *MockGenerator) CallCount() int {
	return m.callCount
}

// Reset clears the call count, recorded inputs, and custom behavior.
func (m *MockGenerator) Reset() {
	m.callCount = 0
	m.LastQuestion = ""
	m.LastEvidence = nil
	m.LastImage = ""
	m.GenerateAnswerFunc = nil
}
