package category

import (
	"tokopos/internal/core/tx"
	"tokopos/internal/domain"
)

// Repository defines storage operations for categories.
type Repository interface {
	domain.CatalogRepository[*Category]
}

// Service provides business operations for the category catalog.
type Service struct {
	*domain.CatalogService[*Category]
}

// NewService creates a new category service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{
		CatalogService: domain.NewCatalogService[*Category](repo, txManager, "category"),
	}
}
