package badger

import (
	"context"
	"slices"
	"time"

	"github.com/coursetta/coursetta/core"
	"github.com/coursetta/coursetta/storage"
	"github.com/dgraph-io/badger/v4"
)

// DocumentRepository implements storage.DocumentRepository for BadgerDB.
type DocumentRepository struct {
	backend *Backend
}

var _ storage.DocumentRepository = (*DocumentRepository)(nil)

// NewDocumentRepository creates a new DocumentRepository.
func NewDocumentRepository(backend *Backend) (*DocumentRepository, error) {
	return &DocumentRepository{backend: backend}, nil
}

// Close releases repository resources.
func (r *DocumentRepository) Close() error {
	return nil
}

// FindSimilar delegates to the backend.
func (r *DocumentRepository) FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.ScoredResult, error) {
	return r.backend.FindSimilar(ctx, vector, minSimilarity, limit)
}

// SearchKeyword delegates to the backend.
func (r *DocumentRepository) SearchKeyword(ctx context.Context, query string, limit int) ([]*core.ScoredResult, error) {
	return r.backend.SearchKeyword(ctx, query, limit)
}

// WithTransaction delegates to the backend.
func (r *DocumentRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddDocuments adds one or more documents to storage. Document IDs are
// content-derived, so a document that is already stored is skipped rather
// than overwritten. Returns the documents that were actually stored.
func (r *DocumentRepository) AddDocuments(ctx context.Context, docs ...*core.Document) ([]*core.Document, error) {
	var stored []*core.Document
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, doc := range docs {
			key := makeDocumentKey(doc.Id)

			// Skip documents already indexed
			existing, err := r.readDocument(tx, key)
			if err != nil {
				return err
			}
			if existing != nil {
				continue
			}

			doc.InsertedAt = time.Now().UTC()

			value := storage.MarshalDocument(doc)
			if err := tx.Set(key, value); err != nil {
				return err
			}

			sourceKey := makeSourceKey(doc.Source, doc.Id)
			if err := tx.Set(sourceKey, storage.MarshalID(doc.Id)); err != nil {
				return err
			}

			categoryKey := makeCategoryKey(doc.Category, doc.Id)
			if err := tx.Set(categoryKey, storage.MarshalID(doc.Id)); err != nil {
				return err
			}

			stored = append(stored, doc)
		}
		return tx.Commit()
	}, true)

	return stored, err
}

// DeleteDocuments removes documents by their IDs.
func (r *DocumentRepository) DeleteDocuments(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeDocumentKey(id)

			// Read document to get metadata for index cleanup
			doc, err := r.readDocument(tx, key)
			if err != nil {
				return err
			}
			if doc == nil {
				return storage.ErrNotFound
			}

			if err := tx.Delete(makeSourceKey(doc.Source, doc.Id)); err != nil {
				return err
			}
			if err := tx.Delete(makeCategoryKey(doc.Category, doc.Id)); err != nil {
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetDocument retrieves a single document by ID.
func (r *DocumentRepository) GetDocument(ctx context.Context, id core.ID) (*core.Document, error) {
	var result *core.Document
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeDocumentKey(id)
		var err error
		result, err = r.readDocument(tx, key)
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetDocuments retrieves multiple documents by their IDs.
func (r *DocumentRepository) GetDocuments(ctx context.Context, ids ...core.ID) ([]*core.Document, error) {
	var result []*core.Document
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeDocumentKey(id)
			doc, err := r.readDocument(tx, key)
			if err != nil {
				return err
			}
			if doc != nil {
				result = append(result, doc)
			}
		}
		return nil
	}, false)
	return result, err
}

// GetDocumentsBySource retrieves up to limit documents from one corpus.
func (r *DocumentRepository) GetDocumentsBySource(ctx context.Context, source core.SourceType, limit int) ([]*core.Document, error) {
	return r.scanIndex(makePartialSourceKey(source), limit)
}

// GetDocumentsByCategory retrieves up to limit documents with the given category.
func (r *DocumentRepository) GetDocumentsByCategory(ctx context.Context, category core.Category, limit int) ([]*core.Document, error) {
	return r.scanIndex(makePartialCategoryKey(category), limit)
}

// scanIndex walks an index prefix and resolves the referenced documents.
func (r *DocumentRepository) scanIndex(prefix []byte, limit int) ([]*core.Document, error) {
	var results []*core.Document
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid() && len(results) < limit; iter.Next() {
			var docID core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				docID, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			doc, err := r.readDocument(tx, makeDocumentKey(docID))
			if err != nil {
				return err
			}
			if doc != nil {
				results = append(results, doc)
			}
		}
		return nil
	}, false)
	return results, err
}

// ListDocumentIDs returns the IDs of all stored documents in ascending order.
func (r *DocumentRepository) ListDocumentIDs(ctx context.Context) ([]core.ID, error) {
	var ids []core.ID
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(documentPrefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			id, err := parseDocumentKey(iter.Item().Key())
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	// Decimal keys don't sort numerically, so order here
	slices.Sort(ids)
	return ids, nil
}

// CountDocuments returns the number of stored documents.
func (r *DocumentRepository) CountDocuments(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(documentPrefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// Stats returns per-category and per-source document counts.
func (r *DocumentRepository) Stats(ctx context.Context) (*core.StoreStats, error) {
	stats := &core.StoreStats{
		ByCategory: make(map[core.Category]int),
		BySource:   make(map[core.SourceType]int),
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(documentPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var doc *core.Document
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				doc, err = storage.UnmarshalDocument(val)
				return err
			}); err != nil {
				return err
			}
			if doc == nil {
				continue
			}
			stats.Documents++
			stats.ByCategory[doc.Category]++
			stats.BySource[doc.Source]++
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}
	return stats, nil
}

// readDocument reads and deserializes a document by key.
// Returns nil (no error) if the key doesn't exist.
func (r *DocumentRepository) readDocument(tx *badger.Txn, key []byte) (*core.Document, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var doc *core.Document
	err = item.Value(func(val []byte) error {
		var err error
		doc, err = storage.UnmarshalDocument(val)
		return err
	})
	return doc, err
}
