package models

import (
	"time"
)

// ExecutiveOrder is one executive order as published in the Federal Register,
// together with its raw full text. OrderNumber is the natural key: ingestion
// never inserts the same order twice, and the query path never creates rows.
type ExecutiveOrder struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	OrderNumber    string    `json:"order_number" gorm:"type:varchar(32);not null;uniqueIndex"`
	Title          string    `json:"title" gorm:"type:text;not null"`
	DateSigned     time.Time `json:"date_signed" gorm:"not null"`
	President      string    `json:"president" gorm:"type:varchar(128)"`
	Administration string    `json:"administration" gorm:"type:varchar(128)"`
	URL            string    `json:"url" gorm:"type:text"`
	FullText       string    `json:"full_text" gorm:"type:text;not null"`
	CreatedAt      time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`

	// Chunks are owned exclusively by the order; deleting the order cascades.
	Chunks []DocumentChunk `json:"chunks,omitempty" gorm:"foreignKey:ExecutiveOrderID;constraint:OnDelete:CASCADE"`
}

// Processed reports whether the embedding pass has run for this order.
// Having at least one chunk is the definition; there is no separate flag.
func (eo *ExecutiveOrder) Processed() bool {
	return len(eo.Chunks) > 0
}
