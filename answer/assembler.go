package answer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/coursetta/coursetta/ai"
	"github.com/coursetta/coursetta/core"
	"github.com/coursetta/coursetta/search"
)

// Defaults for evidence selection.
const (
	DefaultTopK = 5

	// DefaultMinTextLength drops fragments too short to support an answer.
	DefaultMinTextLength = 100
)

// Retriever is the evidence source consumed by the assembler.
// *search.Retriever satisfies it.
type Retriever interface {
	Retrieve(ctx context.Context, question string, topK int) (*search.Ranking, error)
}

// Response is the assembled answer with citations.
type Response struct {
	Answer   string        `json:"answer"`
	Links    []Link        `json:"links"`
	Category core.Category `json:"-"`
	Degraded bool          `json:"-"`
}

// Assembler turns a student question into an answer: it retrieves ranked
// evidence, hands it to the language model, and extracts citation links
// from the documents that supported the answer.
type Assembler struct {
	retriever Retriever
	generator ai.AnswerGenerator

	topK          int
	minTextLength int

	logger *slog.Logger
}

// Option configures an Assembler.
type Option func(*Assembler) error

// WithTopK sets how many evidence passages back each answer.
// Default is 5.
func WithTopK(topK int) Option {
	return func(a *Assembler) error {
		if topK < 1 {
			return fmt.Errorf("topK must be at least 1, got %d", topK)
		}
		a.topK = topK
		return nil
	}
}

// WithMinTextLength sets the minimum evidence text length. Shorter
// fragments are dropped before prompting.
// Default is 100.
func WithMinTextLength(min int) Option {
	return func(a *Assembler) error {
		if min < 0 {
			return fmt.Errorf("min text length must not be negative, got %d", min)
		}
		a.minTextLength = min
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *Assembler) error {
		if logger == nil {
			logger = slog.Default()
		}
		a.logger = logger
		return nil
	}
}

// NewAssembler creates a new assembler over the given retriever and generator.
func NewAssembler(retriever Retriever, generator ai.AnswerGenerator, opts ...Option) (*Assembler, error) {
	if retriever == nil {
		return nil, ErrRetrieverRequired
	}
	if generator == nil {
		return nil, ErrGeneratorRequired
	}

	a := &Assembler{
		retriever:     retriever,
		generator:     generator,
		topK:          DefaultTopK,
		minTextLength: DefaultMinTextLength,
		logger:        slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}

	return a, nil
}

// Answer retrieves evidence for the question and generates a cited answer.
// imageData, when present, is validated and attached to the prompt; invalid
// image payloads are dropped with a warning rather than failing the request.
func (a *Assembler) Answer(ctx context.Context, question, imageData string) (*Response, error) {
	if strings.TrimSpace(question) == "" {
		return nil, ErrEmptyQuestion
	}

	validImage := ""
	if imageData != "" {
		if IsValidImage(imageData) {
			validImage = imageData
		} else {
			a.logger.Warn("ignoring invalid image payload", "length", len(imageData))
		}
	}

	ranking, err := a.retriever.Retrieve(ctx, question, a.topK)
	if err != nil {
		return nil, err
	}

	evidence := a.filterEvidence(ranking.Results)
	a.logger.Debug("assembling answer",
		"question", question,
		"category", ranking.Category,
		"evidence", len(evidence),
		"degraded", ranking.Degraded,
		"vision", validImage != "")

	text, err := a.generator.GenerateAnswer(ctx, question, evidence, validImage)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	return &Response{
		Answer:   text,
		Links:    ExtractLinks(evidence),
		Category: ranking.Category,
		Degraded: ranking.Degraded,
	}, nil
}

// filterEvidence keeps only substantial passages.
func (a *Assembler) filterEvidence(results []*core.ScoredResult) []*core.ScoredResult {
	filtered := make([]*core.ScoredResult, 0, len(results))
	for _, result := range results {
		if len(strings.TrimSpace(result.Document.Text)) > a.minTextLength {
			filtered = append(filtered, result)
		}
	}
	return filtered
}
