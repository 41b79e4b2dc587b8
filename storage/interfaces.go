package storage

import (
	"context"

	"github.com/coursetta/coursetta/core"
)

// DocumentRepository provides operations for managing the indexed corpus.
// Implementations must be thread-safe and support concurrent access.
// Documents are immutable: there is no update operation, and a full
// re-index replaces the store wholesale.
type DocumentRepository interface {
	// AddDocuments adds one or more documents to storage.
	// Document IDs are content-derived; a document whose ID already exists
	// is skipped rather than overwritten. Sets InsertedAt on each stored
	// document. Returns the documents that were actually stored.
	AddDocuments(ctx context.Context, docs ...*core.Document) ([]*core.Document, error)

	// GetDocument retrieves a single document by ID.
	// Returns ErrNotFound if the document doesn't exist.
	GetDocument(ctx context.Context, id core.ID) (*core.Document, error)

	// GetDocuments retrieves multiple documents by their IDs.
	// Returns only the documents that exist (no error for missing documents).
	GetDocuments(ctx context.Context, ids ...core.ID) ([]*core.Document, error)

	// DeleteDocuments removes documents by their IDs.
	// Returns ErrNotFound if any document doesn't exist.
	DeleteDocuments(ctx context.Context, ids ...core.ID) error

	// FindSimilar finds documents whose embedding is similar to the given
	// vector. Returns results with SemanticScore in [0,1] and
	// SemanticScore >= minSimilarity, up to limit, ordered by score
	// descending.
	FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.ScoredResult, error)

	// SearchKeyword finds documents by lexical overlap with the query.
	// Returns results with KeywordScore in (0,1], up to limit, ordered by
	// score descending. Documents with no matching terms are omitted.
	SearchKeyword(ctx context.Context, query string, limit int) ([]*core.ScoredResult, error)

	// GetDocumentsBySource retrieves up to limit documents from one corpus.
	GetDocumentsBySource(ctx context.Context, source core.SourceType, limit int) ([]*core.Document, error)

	// GetDocumentsByCategory retrieves up to limit documents with the given
	// category.
	GetDocumentsByCategory(ctx context.Context, category core.Category, limit int) ([]*core.Document, error)

	// ListDocumentIDs returns the IDs of all stored documents in ascending
	// order. Used by the re-indexer to walk the corpus in stable batches.
	ListDocumentIDs(ctx context.Context) ([]core.ID, error)

	// CountDocuments returns the number of stored documents.
	CountDocuments(ctx context.Context) (int, error)

	// Stats returns per-category and per-source document counts.
	Stats(ctx context.Context) (*core.StoreStats, error)

	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}
