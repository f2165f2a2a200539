package repository

import (
	"context"
	"fmt"

	"github.com/jalextowle/what-the-gov/internal/models"

	"gorm.io/gorm"
)

// OrderRepositoryImpl handles all database operations for executive orders
// using GORM. The services package declares the interface it needs.
type OrderRepositoryImpl struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository.
// Returns concrete type - "Accept interfaces, return structs"
func NewOrderRepository(db *gorm.DB) *OrderRepositoryImpl {
	return &OrderRepositoryImpl{db: db}
}

// Create inserts a new executive order. Each insert is its own transaction;
// a constraint violation for one record never aborts the batch around it.
func (r *OrderRepositoryImpl) Create(ctx context.Context, order *models.ExecutiveOrder) error {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return fmt.Errorf("failed to create executive order %s: %w", order.OrderNumber, err)
	}
	return nil
}

// ExistsByOrderNumber reports whether an order with the given number is
// already stored. Order number is the dedup key for ingestion.
func (r *OrderRepositoryImpl) ExistsByOrderNumber(ctx context.Context, orderNumber string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ExecutiveOrder{}).
		Where("order_number = ?", orderNumber).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check for executive order %s: %w", orderNumber, err)
	}
	return count > 0, nil
}

// ListAll returns every stored order in signing-date order with its chunks
// preloaded in chunk-index order. This backs the per-request index rebuild.
func (r *OrderRepositoryImpl) ListAll(ctx context.Context) ([]*models.ExecutiveOrder, error) {
	var orders []*models.ExecutiveOrder

	err := r.db.WithContext(ctx).
		Preload("Chunks", func(db *gorm.DB) *gorm.DB {
			return db.Order("chunk_index")
		}).
		Order("date_signed").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list executive orders: %w", err)
	}

	return orders, nil
}

// ListUnprocessed returns orders that have no chunks yet. Having zero chunks
// is the processed/unprocessed predicate; there is no separate flag column.
func (r *OrderRepositoryImpl) ListUnprocessed(ctx context.Context) ([]*models.ExecutiveOrder, error) {
	var orders []*models.ExecutiveOrder

	err := r.db.WithContext(ctx).
		Where(`NOT EXISTS (
			SELECT 1 FROM document_chunks c
			WHERE c.executive_order_id = executive_orders.id
		)`).
		Order("date_signed").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list unprocessed executive orders: %w", err)
	}

	return orders, nil
}

// Count returns the number of stored orders.
func (r *OrderRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ExecutiveOrder{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count executive orders: %w", err)
	}
	return count, nil
}
