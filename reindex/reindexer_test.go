package reindex

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursetta/coursetta/ai/mock"
)

func testConfig() *Config {
	return &Config{
		BatchSize:      5,
		ReportInterval: 5,
		MaxRetries:     2,
		RetryDelay:     time.Millisecond,
	}
}

func TestNewReindexer_Validation(t *testing.T) {
	repo := newMemoryRepo(t)
	embedder := mock.NewMockEmbedder()

	_, err := NewReindexer(nil, repo, embedder, nil, &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrSourceRequired)

	_, err = NewReindexer(repo, nil, embedder, nil, &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrDestinationRequired)

	_, err = NewReindexer(repo, repo, nil, nil, &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrEmbedderRequired)
}

func TestNewReindexer_DefaultConfig(t *testing.T) {
	source := newMemoryRepo(t)
	destination := newMemoryRepo(t)

	reindexer, err := NewReindexer(source, destination, mock.NewMockEmbedder(), nil, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, 100, reindexer.config.BatchSize)
	assert.Equal(t, 3, reindexer.config.MaxRetries)
}

func TestReindexer_Run(t *testing.T) {
	source := newMemoryRepo(t)
	destination := newMemoryRepo(t)
	seeded := seedDocuments(t, source, 17)

	var buf bytes.Buffer
	reindexer, err := NewReindexer(source, destination, mock.NewMockEmbedder(), testConfig(), &buf)
	require.NoError(t, err)

	require.NoError(t, reindexer.Run(context.Background()))

	ctx := context.Background()
	count, err := destination.CountDocuments(ctx)
	require.NoError(t, err)
	assert.Equal(t, 17, count, "destination should hold the full corpus")

	// Content survives; vectors come from the new embedder.
	for _, doc := range seeded {
		stored, err := destination.GetDocument(ctx, doc.Id)
		require.NoError(t, err)
		assert.Equal(t, doc.Text, stored.Text)
		assert.Equal(t, doc.Category, stored.Category)
		assert.Len(t, stored.Vector, 384)
	}

	// Source is left untouched.
	sourceCount, err := source.CountDocuments(ctx)
	require.NoError(t, err)
	assert.Equal(t, 17, sourceCount)

	output := buf.String()
	assert.Contains(t, output, "Starting re-index of 17 documents")
	assert.Contains(t, output, "Re-index complete")
}

func TestReindexer_Run_EmptySource(t *testing.T) {
	source := newMemoryRepo(t)
	destination := newMemoryRepo(t)

	var buf bytes.Buffer
	reindexer, err := NewReindexer(source, destination, mock.NewMockEmbedder(), testConfig(), &buf)
	require.NoError(t, err)

	require.NoError(t, reindexer.Run(context.Background()))
	assert.Contains(t, buf.String(), "No documents found")

	count, err := destination.CountDocuments(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestReindexer_Run_EmbeddingFailure(t *testing.T) {
	source := newMemoryRepo(t)
	destination := newMemoryRepo(t)
	seedDocuments(t, source, 8)

	embedder := mock.NewMockEmbedder().WithEmbedTextsFunc(
		func(ctx context.Context, texts []string) ([][]float32, error) {
			return nil, errors.New("embedding service down")
		})

	var buf bytes.Buffer
	reindexer, err := NewReindexer(source, destination, embedder, testConfig(), &buf)
	require.NoError(t, err)

	err = reindexer.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embedding service down")
}

func TestReindexer_Run_ContextCanceled(t *testing.T) {
	source := newMemoryRepo(t)
	destination := newMemoryRepo(t)
	seedDocuments(t, source, 20)

	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	embedder := mock.NewMockEmbedder().WithEmbedTextsFunc(
		func(ctx context.Context, texts []string) ([][]float32, error) {
			calls++
			if calls == 1 {
				cancel()
			}
			vectors := make([][]float32, len(texts))
			for i := range texts {
				vectors[i] = []float32{1, 0, 0}
			}
			return vectors, nil
		})

	var buf bytes.Buffer
	reindexer, err := NewReindexer(source, destination, embedder, testConfig(), &buf)
	require.NoError(t, err)

	err = reindexer.Run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)

	count, err := destination.CountDocuments(context.Background())
	require.NoError(t, err)
	assert.Less(t, count, 20, "cancellation should stop before the full corpus is copied")
}

func TestReindexer_Run_Idempotent(t *testing.T) {
	source := newMemoryRepo(t)
	destination := newMemoryRepo(t)
	seedDocuments(t, source, 6)

	var buf bytes.Buffer
	reindexer, err := NewReindexer(source, destination, mock.NewMockEmbedder(), testConfig(), &buf)
	require.NoError(t, err)

	require.NoError(t, reindexer.Run(context.Background()))
	require.NoError(t, reindexer.Run(context.Background()))

	count, err := destination.CountDocuments(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 6, count, "re-running should not duplicate documents")
}
