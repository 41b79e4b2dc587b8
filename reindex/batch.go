package reindex

import (
	"context"
	"fmt"
	"time"

	"github.com/coursetta/coursetta/ai"
	"github.com/coursetta/coursetta/core"
	"github.com/coursetta/coursetta/storage"
)

// BatchProcessor re-embeds batches of documents and writes them to the
// destination repository. Source documents are never mutated; each batch
// produces fresh copies carrying the new vectors.
type BatchProcessor struct {
	destination    storage.DocumentRepository
	embedder       ai.Embedder
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewBatchProcessor creates a new batch processor.
// maxRetries: maximum number of attempts for embedding API calls
// retryBaseDelay: base delay for exponential backoff
func NewBatchProcessor(destination storage.DocumentRepository, embedder ai.Embedder, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		destination:    destination,
		embedder:       embedder,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
	}
}

// Process re-embeds a batch of documents and stores the copies.
// Vectors are normalized after embedding so the store's dot-product
// similarity behaves as cosine similarity.
func (bp *BatchProcessor) Process(ctx context.Context, docs []*core.Document) error {
	if len(docs) == 0 {
		return nil
	}

	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Text
	}

	var embeddings [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		embeddings, err = bp.embedder.EmbedTexts(ctx, texts)
		return err
	}, bp.maxRetries, bp.retryBaseDelay)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", bp.maxRetries, err)
	}

	if len(embeddings) != len(docs) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(docs), len(embeddings))
	}

	copies := make([]*core.Document, len(docs))
	for i, doc := range docs {
		copied := *doc
		copied.Vector = core.NormalizeVector(embeddings[i])
		copied.InsertedAt = time.Time{}
		copies[i] = &copied
	}

	if _, err := bp.destination.AddDocuments(ctx, copies...); err != nil {
		return fmt.Errorf("failed to store re-embedded documents: %w", err)
	}

	return nil
}
