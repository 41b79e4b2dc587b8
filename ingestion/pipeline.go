package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/coursetta/coursetta/ai"
	"github.com/coursetta/coursetta/core"
	"github.com/coursetta/coursetta/storage"
	"github.com/panjf2000/ants/v2"
)

// DefaultBatchSize bounds how many chunks go to the embedder per request.
const DefaultBatchSize = 32

// Pipeline turns scraped source pages into indexed documents: it chunks
// page text, categorizes and embeds each chunk, and stores the results.
// Embedding batches run concurrently on a worker pool.
type Pipeline struct {
	documents storage.DocumentRepository
	embedder  ai.Embedder
	pool      *ants.Pool

	maxChunkSize     int
	chunkOverlap     int
	minContentLength int
	batchSize        int

	logger *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithChunkConfig sets the chunk size and overlap.
// Defaults are 1024 and 250.
func WithChunkConfig(maxSize, overlap int) Option {
	return func(p *Pipeline) error {
		if maxSize < 1 {
			return fmt.Errorf("chunk size must be positive, got %d", maxSize)
		}
		if overlap < 0 || overlap >= maxSize {
			return fmt.Errorf("overlap must be in [0, chunk size), got %d", overlap)
		}
		p.maxChunkSize = maxSize
		p.chunkOverlap = overlap
		return nil
	}
}

// WithMinContentLength sets the minimum page text length; shorter pages
// are skipped entirely.
// Default is 20.
func WithMinContentLength(min int) Option {
	return func(p *Pipeline) error {
		if min < 0 {
			return fmt.Errorf("min content length must not be negative, got %d", min)
		}
		p.minContentLength = min
		return nil
	}
}

// WithBatchSize sets how many chunks are embedded per request.
// Default is 32.
func WithBatchSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			return fmt.Errorf("batch size must be positive, got %d", size)
		}
		p.batchSize = size
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	documents storage.DocumentRepository,
	provider ai.AIProvider,
	opts ...Option,
) (*Pipeline, error) {
	if documents == nil {
		return nil, ErrRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		documents:        documents,
		embedder:         provider.Embedder(),
		pool:             pool,
		maxChunkSize:     DefaultMaxChunkSize,
		chunkOverlap:     DefaultChunkOverlap,
		minContentLength: DefaultMinContentLength,
		batchSize:        DefaultBatchSize,
		logger:           slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// IngestPages chunks, categorizes, embeds, and stores the given pages.
// Returns the number of documents actually stored; chunks that are already
// indexed are skipped by the repository.
func (p *Pipeline) IngestPages(ctx context.Context, pages []SourcePage) (int, error) {
	docs := p.buildDocuments(pages)
	if len(docs) == 0 {
		return 0, nil
	}
	p.logger.Info("ingesting documents", "pages", len(pages), "chunks", len(docs))

	if err := p.embedDocuments(ctx, docs); err != nil {
		return 0, err
	}

	for _, doc := range docs {
		if err := core.ValidateDocument(doc); err != nil {
			return 0, fmt.Errorf("document %d (%s): %w", doc.Id, doc.URL, err)
		}
	}

	added, err := p.documents.AddDocuments(ctx, docs...)
	if err != nil {
		return 0, err
	}

	p.logger.Info("ingestion complete", "stored", len(added), "skipped", len(docs)-len(added))
	return len(added), nil
}

// buildDocuments chunks each page and attaches per-chunk metadata.
// Categorization sees the chunk together with the page title, so a chunk of
// an exam thread inherits the topical signal of its title.
func (p *Pipeline) buildDocuments(pages []SourcePage) []*core.Document {
	var docs []*core.Document
	for _, page := range pages {
		text := strings.TrimSpace(page.Text)
		if len(text) < p.minContentLength {
			continue
		}

		timestamp := page.Timestamp
		if timestamp.IsZero() {
			timestamp = time.Now().UTC()
		}

		chunks := SplitChunks(text, p.maxChunkSize, p.chunkOverlap)
		for i, chunk := range chunks {
			docs = append(docs, &core.Document{
				Id:         core.DocumentID(page.URL, i, chunk),
				Source:     page.Source,
				Title:      page.Title,
				URL:        page.URL,
				Author:     page.Author,
				Category:   core.Categorize(chunk + " " + page.Title),
				Text:       chunk,
				Chunk:      i,
				ChunkCount: len(chunks),
				Timestamp:  timestamp,
			})
		}
	}
	return docs
}

// embedDocuments generates normalized embeddings for all documents,
// batched and run concurrently on the worker pool.
func (p *Pipeline) embedDocuments(ctx context.Context, docs []*core.Document) error {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	for start := 0; start < len(docs); start += p.batchSize {
		end := start + p.batchSize
		if end > len(docs) {
			end = len(docs)
		}
		batch := docs[start:end]

		wg.Add(1)
		err := p.pool.Submit(func() {
			defer wg.Done()

			texts := make([]string, len(batch))
			for i, doc := range batch {
				texts[i] = doc.Text
			}

			vectors, err := p.embedder.EmbedTexts(ctx, texts)
			if err == nil && len(vectors) != len(batch) {
				err = fmt.Errorf("embedding result mismatch: expected %d, received %d", len(batch), len(vectors))
			}
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}

			for i, vector := range vectors {
				batch[i].Vector = core.NormalizeVector(vector)
			}
		})
		if err != nil {
			// Earlier batches may still be embedding into docs; let them
			// drain before handing the slice back to the caller.
			wg.Done()
			wg.Wait()
			return err
		}
	}

	wg.Wait()
	return firstErr
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
