package ai

import (
	"context"
	"fmt"

	"github.com/coursetta/coursetta/core"
)

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// AnswerGenerator produces a natural-language answer to a student question
// from retrieved evidence. Implementations must be thread-safe for
// concurrent use.
type AnswerGenerator interface {
	// GenerateAnswer answers the question using the ranked evidence as
	// context. imageData, when non-empty, is a base64 data URL attached to
	// the prompt for multimodal models. Evidence may be empty; the answer
	// then states that no course context was found.
	GenerateAnswer(ctx context.Context, question string, evidence []*core.ScoredResult, imageData string) (string, error)
}

// AIProvider aggregates AI services for convenient initialization and
// lifecycle management. A provider creates and manages Embedder and
// AnswerGenerator instances, ensuring they share configuration and
// resources appropriately.
type AIProvider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// AnswerGenerator returns the answer generation service.
	// The returned AnswerGenerator is safe for concurrent use.
	AnswerGenerator() AnswerGenerator

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}

// VerifyDimensions embeds a probe string and checks the result against the
// expected dimensionality. A mismatch between the serving model and the
// model the corpus was indexed with is a deployment configuration error, so
// this runs once at startup rather than on every query.
func VerifyDimensions(ctx context.Context, embedder Embedder, want int) error {
	vector, err := embedder.EmbedText(ctx, "dimension probe")
	if err != nil {
		return fmt.Errorf("embedding probe failed: %w", err)
	}
	if len(vector) != want {
		return fmt.Errorf("embedding dimension mismatch: model returns %d, index built with %d", len(vector), want)
	}
	return nil
}
