// Package adjustments provides manual stock corrections with an audit trail.
package adjustments

import (
	"context"
	"time"

	"tokopos/internal/core/apperror"
	"tokopos/internal/core/id"
	"tokopos/internal/domain"
)

// StockAdjustment is an append-only record of one manual stock delta.
type StockAdjustment struct {
	ID             id.ID  `db:"id" json:"id"`
	ProductID      id.ID  `db:"product_id" json:"productId"`
	UserID         id.ID  `db:"user_id" json:"userId"`
	QuantityChange int64  `db:"quantity_change" json:"quantityChange"`
	StockBefore    int64  `db:"stock_before" json:"stockBefore"`
	StockAfter     int64  `db:"stock_after" json:"stockAfter"`
	Reason         string `db:"reason" json:"reason,omitempty"`
	Notes          string `db:"notes" json:"notes,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Input describes a requested adjustment.
type Input struct {
	ProductID      id.ID  `json:"productId"`
	QuantityChange int64  `json:"quantityChange"`
	Reason         string `json:"reason,omitempty"`
	Notes          string `json:"notes,omitempty"`
}

// Validate checks the input before any storage access.
func (in *Input) Validate(ctx context.Context) error {
	if id.IsNil(in.ProductID) {
		return apperror.NewValidation("product id is required").
			WithDetail("field", "productId")
	}
	if in.QuantityChange == 0 {
		return apperror.NewValidation("quantity change must not be zero").
			WithDetail("field", "quantityChange")
	}
	return nil
}

// ListFilter narrows adjustment listings.
type ListFilter struct {
	ProductID *id.ID
	UserID    *id.ID
	DateFrom  *time.Time
	DateTo    *time.Time
	Limit     int
	Offset    int
}

// Repository defines storage operations for stock adjustments.
type Repository interface {
	// Create appends an adjustment record.
	Create(ctx context.Context, adj *StockAdjustment) error

	// GetByID retrieves an adjustment.
	GetByID(ctx context.Context, adjID id.ID) (*StockAdjustment, error)

	// List retrieves adjustments with filtering.
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*StockAdjustment], error)
}
