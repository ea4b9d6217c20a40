// Package category provides the product category catalog.
package category

import (
	"context"
	"time"

	"tokopos/internal/core/apperror"
	"tokopos/internal/core/id"
)

// Category groups products for navigation and reporting.
type Category struct {
	ID          id.ID  `db:"id" json:"id"`
	Code        string `db:"code" json:"code"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description,omitempty"`

	DeletionMark bool `db:"deletion_mark" json:"deletionMark"`
	Version      int  `db:"version" json:"version"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// New creates a category with generated ID.
func New(code, name string) *Category {
	now := time.Now().UTC()
	return &Category{
		ID:        id.New(),
		Code:      code,
		Name:      name,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate implements domain.Validatable.
func (c *Category) Validate(ctx context.Context) error {
	if c.Code == "" {
		return apperror.NewValidation("category code is required").
			WithDetail("field", "code")
	}
	if c.Name == "" {
		return apperror.NewValidation("category name is required").
			WithDetail("field", "name")
	}
	return nil
}
