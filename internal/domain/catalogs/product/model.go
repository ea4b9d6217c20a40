// Package product provides the product catalog and the stock ledger.
// The product row is the authoritative stock counter; all stock mutation
// goes through locked repository operations.
package product

import (
	"context"
	"time"

	"tokopos/internal/core/apperror"
	"tokopos/internal/core/id"
	"tokopos/internal/core/types"
)

// Product represents a sellable item with its stock counter and prices.
type Product struct {
	ID   id.ID  `db:"id" json:"id"`
	Code string `db:"code" json:"code"`
	Name string `db:"name" json:"name"`

	CategoryID *id.ID `db:"category_id" json:"categoryId,omitempty"`

	// CostPrice is the standard cost, overwritten by purchase postings.
	CostPrice types.Money `db:"cost_price" json:"costPrice"`

	// SellingPrice is the default unit price offered at the register.
	SellingPrice types.Money `db:"selling_price" json:"sellingPrice"`

	// Stock is the on-hand quantity. Mutated only under a row lock.
	Stock int64 `db:"stock" json:"stock"`

	// MinStock is the low-stock alert threshold.
	MinStock int64 `db:"min_stock" json:"minStock"`

	IsActive     bool `db:"is_active" json:"isActive"`
	DeletionMark bool `db:"deletion_mark" json:"deletionMark"`
	Version      int  `db:"version" json:"version"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// New creates a product with generated ID and defaults.
func New(code, name string) *Product {
	now := time.Now().UTC()
	return &Product{
		ID:           id.New(),
		Code:         code,
		Name:         name,
		CostPrice:    types.Zero(),
		SellingPrice: types.Zero(),
		IsActive:     true,
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Validate implements domain.Validatable.
func (p *Product) Validate(ctx context.Context) error {
	if p.Code == "" {
		return apperror.NewValidation("product code is required").
			WithDetail("field", "code")
	}
	if p.Name == "" {
		return apperror.NewValidation("product name is required").
			WithDetail("field", "name")
	}
	if p.CostPrice.IsNegative() {
		return apperror.NewValidation("cost price must not be negative").
			WithDetail("field", "costPrice")
	}
	if p.SellingPrice.IsNegative() {
		return apperror.NewValidation("selling price must not be negative").
			WithDetail("field", "sellingPrice")
	}
	if p.MinStock < 0 {
		return apperror.NewValidation("minimum stock must not be negative").
			WithDetail("field", "minStock")
	}
	return nil
}

// IsLowStock reports whether on-hand stock is at or below the threshold.
func (p *Product) IsLowStock() bool {
	return p.Stock <= p.MinStock
}
