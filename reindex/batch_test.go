package reindex

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursetta/coursetta/ai/mock"
	"github.com/coursetta/coursetta/core"
)

func TestBatchProcessor_Process(t *testing.T) {
	destination := newMemoryRepo(t)
	embedder := mock.NewMockEmbedder()

	processor := NewBatchProcessor(destination, embedder, 3, 10*time.Millisecond)

	docs := []*core.Document{
		indexedDoc("https://example.com/a", "The project deadline is Friday"),
		indexedDoc("https://example.com/b", "Week 3 covers pandas and numpy"),
	}

	err := processor.Process(context.Background(), docs)
	require.NoError(t, err)

	count, err := destination.CountDocuments(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	stored, err := destination.GetDocument(context.Background(), docs[0].Id)
	require.NoError(t, err)
	assert.Len(t, stored.Vector, 384, "vector should come from the new embedder")
	assert.False(t, stored.InsertedAt.IsZero(), "destination store sets InsertedAt")
}

func TestBatchProcessor_NormalizesVectors(t *testing.T) {
	destination := newMemoryRepo(t)
	embedder := mock.NewMockEmbedder().WithEmbedTextsFunc(
		func(ctx context.Context, texts []string) ([][]float32, error) {
			vectors := make([][]float32, len(texts))
			for i := range texts {
				vectors[i] = []float32{3, 4, 0}
			}
			return vectors, nil
		})

	processor := NewBatchProcessor(destination, embedder, 1, time.Millisecond)

	doc := indexedDoc("https://example.com/norm", "content to re-embed")
	require.NoError(t, processor.Process(context.Background(), []*core.Document{doc}))

	stored, err := destination.GetDocument(context.Background(), doc.Id)
	require.NoError(t, err)

	var sumSquares float64
	for _, v := range stored.Vector {
		sumSquares += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(sumSquares), 1e-5, "stored vector should be unit length")
}

func TestBatchProcessor_DoesNotMutateSource(t *testing.T) {
	destination := newMemoryRepo(t)
	embedder := mock.NewMockEmbedder()

	processor := NewBatchProcessor(destination, embedder, 1, time.Millisecond)

	doc := indexedDoc("https://example.com/src", "original content")
	originalVector := doc.Vector

	require.NoError(t, processor.Process(context.Background(), []*core.Document{doc}))

	assert.Equal(t, originalVector, doc.Vector, "source document vector should be untouched")
	assert.True(t, doc.InsertedAt.IsZero(), "source document should not be stamped")
}

func TestBatchProcessor_EmptyBatch(t *testing.T) {
	destination := newMemoryRepo(t)
	embedder := mock.NewMockEmbedder()

	processor := NewBatchProcessor(destination, embedder, 3, time.Millisecond)

	require.NoError(t, processor.Process(context.Background(), nil))
	assert.Equal(t, 0, embedder.CallCount(), "empty batch should not call the embedder")
}

func TestBatchProcessor_RetriesTransientFailures(t *testing.T) {
	destination := newMemoryRepo(t)

	attempts := 0
	embedder := mock.NewMockEmbedder().WithEmbedTextsFunc(
		func(ctx context.Context, texts []string) ([][]float32, error) {
			attempts++
			if attempts < 3 {
				return nil, errors.New("embedding service overloaded")
			}
			vectors := make([][]float32, len(texts))
			for i := range texts {
				vectors[i] = []float32{1, 0, 0}
			}
			return vectors, nil
		})

	processor := NewBatchProcessor(destination, embedder, 5, time.Millisecond)

	doc := indexedDoc("https://example.com/retry", "flaky embedding")
	err := processor.Process(context.Background(), []*core.Document{doc})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts, "should retry until the embedder succeeds")
}

func TestBatchProcessor_ExhaustedRetries(t *testing.T) {
	destination := newMemoryRepo(t)
	embedder := mock.NewMockEmbedder().WithEmbedTextsFunc(
		func(ctx context.Context, texts []string) ([][]float32, error) {
			return nil, errors.New("permanent failure")
		})

	processor := NewBatchProcessor(destination, embedder, 2, time.Millisecond)

	doc := indexedDoc("https://example.com/fail", "never embeds")
	err := processor.Process(context.Background(), []*core.Document{doc})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 2 attempts")

	count, err := destination.CountDocuments(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count, "nothing should be stored on failure")
}

func TestBatchProcessor_CountMismatch(t *testing.T) {
	destination := newMemoryRepo(t)
	embedder := mock.NewMockEmbedder().WithEmbedTextsFunc(
		func(ctx context.Context, texts []string) ([][]float32, error) {
			return [][]float32{{1, 0}}, nil
		})

	processor := NewBatchProcessor(destination, embedder, 1, time.Millisecond)

	docs := []*core.Document{
		indexedDoc("https://example.com/one", "first document"),
		indexedDoc("https://example.com/two", "second document"),
	}

	err := processor.Process(context.Background(), docs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mismatch")
}
