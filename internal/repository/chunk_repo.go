package repository

import (
	"context"
	"fmt"

	"github.com/jalextowle/what-the-gov/internal/models"

	"gorm.io/gorm"
)

// ChunkRepositoryImpl handles database operations for document chunks.
type ChunkRepositoryImpl struct {
	db *gorm.DB
}

// NewChunkRepository creates a new chunk repository.
func NewChunkRepository(db *gorm.DB) *ChunkRepositoryImpl {
	return &ChunkRepositoryImpl{db: db}
}

// StoreBatch inserts all chunks for one order in a single transaction.
// Either the whole record's chunk set commits or none of it does, which keeps
// the zero-chunk predicate meaningful for re-runs of the processor.
func (r *ChunkRepositoryImpl) StoreBatch(ctx context.Context, chunks []*models.DocumentChunk) error {
	if len(chunks) == 0 {
		return nil
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, chunk := range chunks {
			if err := tx.Create(chunk).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store chunk batch: %w", err)
	}
	return nil
}

// CountAll returns the total number of stored chunks.
func (r *ChunkRepositoryImpl) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.DocumentChunk{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count chunks: %w", err)
	}
	return count, nil
}
