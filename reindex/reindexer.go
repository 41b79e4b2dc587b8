// Copyright 2026 Coursetta Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package reindex

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/coursetta/coursetta/ai"
	"github.com/coursetta/coursetta/core"
	"github.com/coursetta/coursetta/storage"
)

// Config holds configuration for the re-indexing operation.
type Config struct {
	// BatchSize is the number of documents to process in each batch
	BatchSize int

	// ReportInterval is how often to report progress (number of documents)
	ReportInterval int

	// MaxRetries is the maximum number of retry attempts for failed operations
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Reindexer rebuilds the corpus into a fresh store with new embeddings.
// It reads from the live source store, re-embeds every document, and writes
// into a destination store. In-flight queries keep hitting the source until
// the caller swaps the stores, so they never observe a partial rebuild.
type Reindexer struct {
	source      storage.DocumentRepository
	destination storage.DocumentRepository
	embedder    ai.Embedder
	config      *Config
	progress    io.Writer
	processor   *BatchProcessor
	iterator    *DocumentIterator
}

// NewReindexer creates a new reindexer.
// progress: where to write progress output (typically os.Stderr)
func NewReindexer(source, destination storage.DocumentRepository, embedder ai.Embedder, config *Config, progress io.Writer) (*Reindexer, error) {
	if source == nil {
		return nil, ErrSourceRequired
	}
	if destination == nil {
		return nil, ErrDestinationRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if config == nil {
		config = DefaultConfig()
	}

	return &Reindexer{
		source:      source,
		destination: destination,
		embedder:    embedder,
		config:      config,
		progress:    progress,
		processor:   NewBatchProcessor(destination, embedder, config.MaxRetries, config.RetryDelay),
		iterator:    NewDocumentIterator(source, config.BatchSize),
	}, nil
}

// Run executes the re-indexing operation. Every document in the source
// store is re-embedded and written to the destination store. Progress is
// reported to the configured writer.
func (r *Reindexer) Run(ctx context.Context) error {
	total, err := r.source.CountDocuments(ctx)
	if err != nil {
		return fmt.Errorf("failed to count documents: %w", err)
	}
	if total == 0 {
		fmt.Fprintf(r.progress, "No documents found in store (0 documents)\n")
		return nil
	}

	fmt.Fprintf(r.progress, "Starting re-index of %d documents (batch size: %d)\n",
		total, r.config.BatchSize)

	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.Start()

	processed := 0
	err = r.iterator.ForEach(ctx, func(docs []*core.Document) error {
		if err := r.processor.Process(ctx, docs); err != nil {
			return fmt.Errorf("failed to process batch: %w", err)
		}
		processed += len(docs)
		tracker.Update(processed)
		return nil
	})
	if err != nil {
		return err
	}

	tracker.Finish()

	// The destination must hold the full corpus before a swap.
	stored, err := r.destination.CountDocuments(ctx)
	if err != nil {
		return fmt.Errorf("failed to verify destination: %w", err)
	}
	if stored != total {
		return fmt.Errorf("destination holds %d documents, source had %d", stored, total)
	}

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Re-index complete. Processed %d documents in %v (%.1f docs/sec)\n",
		total, elapsed.Round(time.Second), float64(total)/elapsed.Seconds())

	return nil
}
