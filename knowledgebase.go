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


package coursetta

import (
	"context"
	"io"
	"log/slog"

	"github.com/coursetta/coursetta/ai"
	"github.com/coursetta/coursetta/ai/openai"
	"github.com/coursetta/coursetta/answer"
	"github.com/coursetta/coursetta/ingestion"
	"github.com/coursetta/coursetta/reindex"
	"github.com/coursetta/coursetta/search"
	"github.com/coursetta/coursetta/storage"
	"github.com/coursetta/coursetta/storage/badger"
)

// KnowledgeBase bundles the document store and the AI provider behind a
// single handle. It is the assembly point for the retrieval, ingestion,
// answering, and re-indexing components.
type KnowledgeBase struct {
	backend   *badger.Backend
	documents storage.DocumentRepository
	provider  ai.AIProvider
	config    *ai.Config
	logger    *slog.Logger
}

// KnowledgeBaseOption configures a KnowledgeBase.
type KnowledgeBaseOption func(*knowledgeBaseOptions)

type knowledgeBaseOptions struct {
	aiConfig *ai.Config
	provider ai.AIProvider
}

// WithAIConfig sets the AI provider configuration.
func WithAIConfig(config *ai.Config) KnowledgeBaseOption {
	return func(o *knowledgeBaseOptions) {
		o.aiConfig = config
	}
}

// WithAIProvider injects a pre-built provider. Used by tests to swap in
// mocks without touching the network.
func WithAIProvider(provider ai.AIProvider) KnowledgeBaseOption {
	return func(o *knowledgeBaseOptions) {
		o.provider = provider
	}
}

// OpenKnowledgeBase opens the document store at filePath and connects the
// AI provider. An empty filePath opens an in-memory store.
func OpenKnowledgeBase(filePath string, opts ...KnowledgeBaseOption) (*KnowledgeBase, error) {
	options := &knowledgeBaseOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, filePath == "")
	if err != nil {
		return nil, err
	}

	documents, err := badger.NewDocumentRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			documents.Close()
			backend.Close()
			return nil, err
		}
	}

	return &KnowledgeBase{
		backend:   backend,
		documents: documents,
		provider:  provider,
		config:    options.aiConfig,
		logger:    slog.Default(),
	}, nil
}

// Close releases the AI provider and the document store.
func (kb *KnowledgeBase) Close() error {
	if err := kb.provider.Close(); err != nil {
		kb.logger.Error("error closing AI provider", "err", err)
	}

	if err := kb.documents.Close(); err != nil {
		kb.logger.Error("error closing document repository", "err", err)
		return err
	}

	if err := kb.backend.Close(); err != nil {
		kb.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// DocumentRepository exposes the underlying document store.
func (kb *KnowledgeBase) DocumentRepository() storage.DocumentRepository {
	return kb.documents
}

// VerifyEmbedder probes the embedding model and checks that it produces
// vectors of the configured dimensionality. Called at startup so a model
// mismatch fails loudly instead of corrupting the index.
func (kb *KnowledgeBase) VerifyEmbedder(ctx context.Context) error {
	return ai.VerifyDimensions(ctx, kb.provider.Embedder(), kb.config.EmbeddingDims)
}

// NewRetriever creates a hybrid retriever over the knowledge base.
func (kb *KnowledgeBase) NewRetriever(opts ...search.Option) (*search.Retriever, error) {
	return search.NewRetriever(kb.documents, kb.provider.Embedder(), opts...)
}

// NewIngestionPipeline creates an ingestion pipeline writing into the
// knowledge base.
func (kb *KnowledgeBase) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(kb.documents, kb.provider, opts...)
}

// NewAssembler creates an answer assembler backed by a retriever over the
// knowledge base.
func (kb *KnowledgeBase) NewAssembler(retrieverOpts []search.Option, opts ...answer.Option) (*answer.Assembler, error) {
	retriever, err := kb.NewRetriever(retrieverOpts...)
	if err != nil {
		return nil, err
	}
	return answer.NewAssembler(retriever, kb.provider.AnswerGenerator(), opts...)
}

// NewReindexer creates a reindexer that copies this knowledge base's
// corpus, re-embedded, into the destination repository.
func (kb *KnowledgeBase) NewReindexer(destination storage.DocumentRepository, config *reindex.Config, progress io.Writer) (*reindex.Reindexer, error) {
	return reindex.NewReindexer(kb.documents, destination, kb.provider.Embedder(), config, progress)
}
