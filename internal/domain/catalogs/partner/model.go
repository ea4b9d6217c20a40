// Package partner provides the customer/supplier catalog.
package partner

import (
	"context"
	"time"

	"tokopos/internal/core/apperror"
	"tokopos/internal/core/id"
)

// Type distinguishes customers from suppliers.
type Type string

const (
	TypeCustomer Type = "CUSTOMER"
	TypeSupplier Type = "SUPPLIER"
)

// Partner is a counterparty of a sale (customer) or purchase (supplier).
type Partner struct {
	ID      id.ID  `db:"id" json:"id"`
	Code    string `db:"code" json:"code"`
	Name    string `db:"name" json:"name"`
	Type    Type   `db:"type" json:"type"`
	Phone   string `db:"phone" json:"phone,omitempty"`
	Address string `db:"address" json:"address,omitempty"`

	IsActive     bool `db:"is_active" json:"isActive"`
	DeletionMark bool `db:"deletion_mark" json:"deletionMark"`
	Version      int  `db:"version" json:"version"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// New creates a partner with generated ID.
func New(code, name string, partnerType Type) *Partner {
	now := time.Now().UTC()
	return &Partner{
		ID:        id.New(),
		Code:      code,
		Name:      name,
		Type:      partnerType,
		IsActive:  true,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate implements domain.Validatable.
func (p *Partner) Validate(ctx context.Context) error {
	if p.Code == "" {
		return apperror.NewValidation("partner code is required").
			WithDetail("field", "code")
	}
	if p.Name == "" {
		return apperror.NewValidation("partner name is required").
			WithDetail("field", "name")
	}
	if p.Type != TypeCustomer && p.Type != TypeSupplier {
		return apperror.NewValidation("partner type must be CUSTOMER or SUPPLIER").
			WithDetail("field", "type")
	}
	return nil
}
