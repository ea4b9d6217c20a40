package dto

import (
	"time"

	"tokopos/internal/core/id"
	"tokopos/internal/domain/adjustments"
)

// --- Request DTOs ---

type AdjustStockRequest struct {
	ProductID      string `json:"productId" binding:"required"`
	QuantityChange int64  `json:"quantityChange" binding:"required"`
	Reason         string `json:"reason,omitempty"`
	Notes          string `json:"notes,omitempty"`
}

func (r *AdjustStockRequest) ToInput() adjustments.Input {
	productID, _ := id.Parse(r.ProductID)
	return adjustments.Input{
		ProductID:      productID,
		QuantityChange: r.QuantityChange,
		Reason:         r.Reason,
		Notes:          r.Notes,
	}
}

// --- Response DTOs ---

type AdjustmentResponse struct {
	ID             string    `json:"id"`
	ProductID      string    `json:"productId"`
	UserID         string    `json:"userId"`
	QuantityChange int64     `json:"quantityChange"`
	StockBefore    int64     `json:"stockBefore"`
	StockAfter     int64     `json:"stockAfter"`
	Reason         string    `json:"reason,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

func FromAdjustment(adj *adjustments.StockAdjustment) *AdjustmentResponse {
	return &AdjustmentResponse{
		ID:             adj.ID.String(),
		ProductID:      adj.ProductID.String(),
		UserID:         adj.UserID.String(),
		QuantityChange: adj.QuantityChange,
		StockBefore:    adj.StockBefore,
		StockAfter:     adj.StockAfter,
		Reason:         adj.Reason,
		Notes:          adj.Notes,
		CreatedAt:      adj.CreatedAt,
	}
}
