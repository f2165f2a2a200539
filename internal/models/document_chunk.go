package models

import (
	"time"

	"github.com/pgvector/pgvector-go"
)

// DocumentChunk is one overlapping window of an order's full text with its
// vector embedding. Chunks are written once by the processor and are immutable;
// ChunkIndex values for an order are contiguous starting at 0, in splitter
// output order.
type DocumentChunk struct {
	ID               uint            `json:"id" gorm:"primaryKey"`
	ExecutiveOrderID uint            `json:"executive_order_id" gorm:"not null;index"`
	ChunkIndex       int             `json:"chunk_index" gorm:"not null"`
	Content          string          `json:"content" gorm:"type:text;not null"`
	Embedding        pgvector.Vector `json:"-" gorm:"type:vector(1536);not null"`
	CreatedAt        time.Time       `json:"created_at" gorm:"column:created_at;autoCreateTime"`
}
