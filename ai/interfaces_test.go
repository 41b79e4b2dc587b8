package ai_test

import (
	"context"
	"errors"
	"testing"

	"github.com/coursetta/coursetta/ai"
	"github.com/coursetta/coursetta/ai/mock"
	"github.com/stretchr/testify/assert"
)

func TestVerifyDimensions(t *testing.T) {
	ctx := context.Background()

	t.Run("matching dimensions", func(t *testing.T) {
		embedder := mock.NewMockEmbedder()

		err := ai.VerifyDimensions(ctx, embedder, 384)
		assert.NoError(t, err)
	})

	t.Run("mismatched dimensions", func(t *testing.T) {
		embedder := mock.NewMockEmbedder()

		err := ai.VerifyDimensions(ctx, embedder, 768)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "dimension mismatch")
	})

	t.Run("probe failure", func(t *testing.T) {
		probeErr := errors.New("connection refused")
		embedder := mock.NewMockEmbedder().WithEmbedTextFunc(
			func(ctx context.Context, text string) ([]float32, error) {
				return nil, probeErr
			})

		err := ai.VerifyDimensions(ctx, embedder, 384)
		assert.ErrorIs(t, err, probeErr)
	})
}
