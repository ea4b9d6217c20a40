package dto

import (
	"time"

	"tokopos/internal/domain/catalogs/category"
)

// --- Request DTOs ---

type CreateCategoryRequest struct {
	Code        string `json:"code" binding:"required,catalogcode"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description,omitempty"`
}

func (r *CreateCategoryRequest) ToEntity() *category.Category {
	c := category.New(r.Code, r.Name)
	c.Description = r.Description
	return c
}

type UpdateCategoryRequest struct {
	Code        *string `json:"code,omitempty"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Version     int     `json:"version" binding:"required,min=1"`
}

func (r *UpdateCategoryRequest) ApplyTo(c *category.Category) {
	if r.Code != nil {
		c.Code = *r.Code
	}
	if r.Name != nil {
		c.Name = *r.Name
	}
	if r.Description != nil {
		c.Description = *r.Description
	}
	c.Version = r.Version
}

// --- Response DTOs ---

type CategoryResponse struct {
	ID           string    `json:"id"`
	Code         string    `json:"code"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	DeletionMark bool      `json:"deletionMark,omitempty"`
	Version      int       `json:"version"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func FromCategory(c *category.Category) *CategoryResponse {
	return &CategoryResponse{
		ID:           c.ID.String(),
		Code:         c.Code,
		Name:         c.Name,
		Description:  c.Description,
		DeletionMark: c.DeletionMark,
		Version:      c.Version,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}
