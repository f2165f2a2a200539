package services

import (
	"testing"
	"time"

	"github.com/jalextowle/what-the-gov/internal/models"

	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orderWithChunks(number string, embeddings ...[]float32) *models.ExecutiveOrder {
	order := &models.ExecutiveOrder{
		OrderNumber: number,
		Title:       "Order " + number,
		DateSigned:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	for i, emb := range embeddings {
		order.Chunks = append(order.Chunks, models.DocumentChunk{
			ChunkIndex: i,
			Content:    number + "-chunk",
			Embedding:  pgvector.NewVector(emb),
		})
	}
	return order
}

func TestBuildIndexFlattensAllChunks(t *testing.T) {
	orders := []*models.ExecutiveOrder{
		orderWithChunks("14100", []float32{1, 0}, []float32{0, 1}),
		orderWithChunks("14101", []float32{1, 1}),
		orderWithChunks("14102"), // unprocessed, contributes nothing
	}

	idx := BuildIndex(orders)
	assert.Equal(t, 3, idx.Len())
}

func TestQueryReturnsTopKByCosineSimilarity(t *testing.T) {
	orders := []*models.ExecutiveOrder{
		orderWithChunks("14100", []float32{1, 0}),
		orderWithChunks("14101", []float32{0, 1}),
		orderWithChunks("14102", []float32{0.9, 0.1}),
	}
	idx := BuildIndex(orders)

	results := idx.Query([]float32{1, 0}, 2)
	require.Len(t, results, 2)

	// Exact match first, near match second, orthogonal vector excluded
	assert.Equal(t, "14100", results[0].OrderNumber)
	assert.InDelta(t, 1.0, results[0].Score, 1e-6)
	assert.Equal(t, "14102", results[1].OrderNumber)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestQueryClampsKToIndexSize(t *testing.T) {
	idx := BuildIndex([]*models.ExecutiveOrder{
		orderWithChunks("14100", []float32{1, 0}),
	})

	results := idx.Query([]float32{1, 0}, 3)
	assert.Len(t, results, 1)
}

func TestQueryEmptyIndex(t *testing.T) {
	idx := BuildIndex(nil)
	assert.Nil(t, idx.Query([]float32{1, 0}, 3))
	assert.Zero(t, idx.Len())
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 2, 3}, []float32{1, 2, 3}), 1e-6)
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-6)
	assert.InDelta(t, -1.0, cosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-6)
	assert.Zero(t, cosineSimilarity([]float32{0, 0}, []float32{1, 1}))
}
