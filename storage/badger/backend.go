package badger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/coursetta/coursetta/core"
	"github.com/coursetta/coursetta/storage"
	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
)

// Backend wraps a BadgerDB instance and provides low-level operations.
type Backend struct {
	db     *badger.DB
	logger *slog.Logger
}

// badgerLoggerAdapter adapts slog.Logger to badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// OpenBackend opens a BadgerDB database at the specified path.
// Creates the directory if it doesn't exist.
func OpenBackend(filePath string, inMemory bool) (*Backend, error) {
	var opts badger.Options

	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		// Ensure directory exists
		info, err := os.Stat(filePath)
		if err != nil {
			if os.IsNotExist(err) {
				if err := os.MkdirAll(filePath, 0755); err != nil {
					return nil, err
				}
				info, err = os.Stat(filePath)
				if err != nil {
					return nil, err
				}
			} else {
				return nil, err
			}
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", filePath)
		}
		opts = badger.DefaultOptions(filePath)
	}

	opts.Logger = &badgerLoggerAdapter{logger: slog.Default()}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Backend{
		db:     db,
		logger: slog.Default(),
	}, nil
}

// Close closes the BadgerDB database.
func (b *Backend) Close() error {
	return b.db.Close()
}

// IsClosed returns true if the database is closed.
func (b *Backend) IsClosed() bool {
	return b.db.IsClosed()
}

// WithTx executes a function within a BadgerDB transaction.
// If isWrite is true, creates a read-write transaction.
// The transaction is automatically discarded if fn returns an error.
func (b *Backend) WithTx(fn func(tx *badger.Txn) error, isWrite bool) error {
	tx := b.db.NewTransaction(isWrite)
	defer tx.Discard()
	return fn(tx)
}

// WithTransaction executes a function within a transaction.
func (b *Backend) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return b.WithTx(func(tx *badger.Txn) error {
		if err := fn(ctx); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// FindSimilar finds documents similar to the given vector by scanning all
// stored embeddings. Vectors are unit-normalized at ingestion so the dot
// product is the cosine similarity; negative similarities clamp to 0 so
// scores stay in [0,1].
func (b *Backend) FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.ScoredResult, error) {
	var results []*core.ScoredResult

	err := b.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(documentPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()

			var doc *core.Document
			err := item.Value(func(val []byte) error {
				var err error
				doc, err = storage.UnmarshalDocument(val)
				return err
			})
			if err != nil {
				return err
			}
			if doc == nil || len(doc.Vector) == 0 {
				continue
			}
			if len(doc.Vector) != len(vector) {
				return fmt.Errorf("vector dimension mismatch: query has %d, document %d has %d",
					len(vector), doc.Id, len(doc.Vector))
			}

			similarity := dotProduct(vector, doc.Vector)
			if similarity < 0 {
				similarity = 0
			} else if similarity > 1 {
				similarity = 1
			}

			if similarity >= minSimilarity {
				results = append(results, &core.ScoredResult{
					Document:      doc,
					SemanticScore: similarity,
				})
			}
		}

		return nil
	}, false)

	if err != nil {
		return nil, err
	}

	sortScored(results, func(r *core.ScoredResult) float32 { return r.SemanticScore })

	if len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}

// SearchKeyword scores documents by occurrence counts of the query terms.
// The raw count is normalized to (0,1] by capping at 10 occurrences, the
// scheme the corpus was originally tuned with. Documents with no matching
// term are omitted.
func (b *Backend) SearchKeyword(ctx context.Context, query string, limit int) ([]*core.ScoredResult, error) {
	terms := core.Tokenize(query)
	if len(terms) == 0 {
		return []*core.ScoredResult{}, nil
	}

	var results []*core.ScoredResult

	err := b.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(documentPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()

			var doc *core.Document
			err := item.Value(func(val []byte) error {
				var err error
				doc, err = storage.UnmarshalDocument(val)
				return err
			})
			if err != nil {
				return err
			}
			if doc == nil {
				continue
			}

			lowered := strings.ToLower(doc.Text)
			count := 0
			for _, term := range terms {
				count += strings.Count(lowered, term)
			}
			if count == 0 {
				continue
			}

			score := float32(count) / 10.0
			if score > 1 {
				score = 1
			}

			results = append(results, &core.ScoredResult{
				Document:     doc,
				KeywordScore: score,
			})
		}

		return nil
	}, false)

	if err != nil {
		return nil, err
	}

	sortScored(results, func(r *core.ScoredResult) float32 { return r.KeywordScore })

	if len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}

// sortScored orders results by the given score descending, breaking ties by
// document ID ascending so scans are deterministic.
func sortScored(results []*core.ScoredResult, score func(*core.ScoredResult) float32) {
	slices.SortFunc(results, func(a, b *core.ScoredResult) int {
		sa, sb := score(a), score(b)
		if sa > sb {
			return -1
		}
		if sa < sb {
			return 1
		}
		if a.Document.Id < b.Document.Id {
			return -1
		}
		if a.Document.Id > b.Document.Id {
			return 1
		}
		return 0
	})
}

// dotProduct calculates the dot product of two equal-length vectors.
func dotProduct(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
