package services

import (
	"math"
	"sort"

	"github.com/jalextowle/what-the-gov/internal/models"
)

// RetrievedChunk is one similarity search hit: the chunk's content, the order
// it came from, and its cosine similarity to the query.
type RetrievedChunk struct {
	Content     string
	OrderNumber string
	Score       float64
}

type indexEntry struct {
	content     string
	orderNumber string
	embedding   []float32
}

// Index is a brute-force in-memory similarity index over every stored chunk.
// It is rebuilt from scratch for each chat request; there is no persistence
// and no incremental update, so cost grows linearly with total chunk count.
type Index struct {
	entries []indexEntry
}

// BuildIndex flattens the chunks of all orders into an index, tagging each
// entry with its source order number.
func BuildIndex(orders []*models.ExecutiveOrder) *Index {
	idx := &Index{}
	for _, order := range orders {
		for _, chunk := range order.Chunks {
			idx.entries = append(idx.entries, indexEntry{
				content:     chunk.Content,
				orderNumber: order.OrderNumber,
				embedding:   chunk.Embedding.Slice(),
			})
		}
	}
	return idx
}

// Len returns the number of indexed chunks.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// Query returns the top-k entries by cosine similarity to the query vector,
// highest score first. Search is exact over the full entry set.
func (idx *Index) Query(query []float32, k int) []RetrievedChunk {
	if k <= 0 || len(idx.entries) == 0 {
		return nil
	}

	scored := make([]RetrievedChunk, 0, len(idx.entries))
	for _, entry := range idx.entries {
		scored = append(scored, RetrievedChunk{
			Content:     entry.content,
			OrderNumber: entry.orderNumber,
			Score:       cosineSimilarity(query, entry.embedding),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if k > len(scored) {
		k = len(scored)
	}
	return scored[:k]
}

// cosineSimilarity computes the cosine of the angle between two vectors.
// Mismatched lengths compare over the shorter prefix; a zero vector scores 0.
func cosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
