package dto

import (
	"time"

	"tokopos/internal/core/id"
	"tokopos/internal/core/types"
	"tokopos/internal/domain/catalogs/product"
)

// --- Request DTOs ---

type CreateProductRequest struct {
	Code         string  `json:"code" binding:"required,catalogcode"`
	Name         string  `json:"name" binding:"required"`
	CategoryID   *string `json:"categoryId,omitempty"`
	CostPrice    float64 `json:"costPrice" binding:"gte=0"`
	SellingPrice float64 `json:"sellingPrice" binding:"gte=0"`
	Stock        int64   `json:"stock" binding:"gte=0"`
	MinStock     int64   `json:"minStock" binding:"gte=0"`
}

func (r *CreateProductRequest) ToEntity() *product.Product {
	p := product.New(r.Code, r.Name)
	p.CostPrice = types.NewMoney(r.CostPrice)
	p.SellingPrice = types.NewMoney(r.SellingPrice)
	p.Stock = r.Stock
	p.MinStock = r.MinStock

	if r.CategoryID != nil {
		if parsed, err := id.Parse(*r.CategoryID); err == nil {
			p.CategoryID = &parsed
		}
	}
	return p
}

type UpdateProductRequest struct {
	Code         *string  `json:"code,omitempty"`
	Name         *string  `json:"name,omitempty"`
	CategoryID   *string  `json:"categoryId,omitempty"`
	CostPrice    *float64 `json:"costPrice,omitempty" binding:"omitempty,gte=0"`
	SellingPrice *float64 `json:"sellingPrice,omitempty" binding:"omitempty,gte=0"`
	MinStock     *int64   `json:"minStock,omitempty" binding:"omitempty,gte=0"`
	IsActive     *bool    `json:"isActive,omitempty"`
	Version      int      `json:"version" binding:"required,min=1"`
}

// ApplyTo merges set fields into the existing product. Stock is
// deliberately absent: on-hand quantity changes only through postings
// and stock adjustments.
func (r *UpdateProductRequest) ApplyTo(p *product.Product) {
	if r.Code != nil {
		p.Code = *r.Code
	}
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.CategoryID != nil {
		if parsed, err := id.Parse(*r.CategoryID); err == nil {
			p.CategoryID = &parsed
		}
	}
	if r.CostPrice != nil {
		p.CostPrice = types.NewMoney(*r.CostPrice)
	}
	if r.SellingPrice != nil {
		p.SellingPrice = types.NewMoney(*r.SellingPrice)
	}
	if r.MinStock != nil {
		p.MinStock = *r.MinStock
	}
	if r.IsActive != nil {
		p.IsActive = *r.IsActive
	}
	p.Version = r.Version
}

// --- Response DTOs ---

type ProductResponse struct {
	ID           string      `json:"id"`
	Code         string      `json:"code"`
	Name         string      `json:"name"`
	CategoryID   *string     `json:"categoryId,omitempty"`
	CostPrice    types.Money `json:"costPrice"`
	SellingPrice types.Money `json:"sellingPrice"`
	Stock        int64       `json:"stock"`
	MinStock     int64       `json:"minStock"`
	IsActive     bool        `json:"isActive"`
	DeletionMark bool        `json:"deletionMark,omitempty"`
	Version      int         `json:"version"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

func FromProduct(p *product.Product) *ProductResponse {
	resp := &ProductResponse{
		ID:           p.ID.String(),
		Code:         p.Code,
		Name:         p.Name,
		CostPrice:    p.CostPrice,
		SellingPrice: p.SellingPrice,
		Stock:        p.Stock,
		MinStock:     p.MinStock,
		IsActive:     p.IsActive,
		DeletionMark: p.DeletionMark,
		Version:      p.Version,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
	if p.CategoryID != nil {
		s := p.CategoryID.String()
		resp.CategoryID = &s
	}
	return resp
}
