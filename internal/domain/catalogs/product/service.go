package product

import (
	"context"

	"tokopos/internal/core/apperror"
	"tokopos/internal/core/tx"
	"tokopos/internal/domain"
)

// Service provides business operations for the product catalog.
type Service struct {
	*domain.CatalogService[*Product]
	repo Repository
}

// NewService creates a new product service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{
		CatalogService: domain.NewCatalogService[*Product](repo, txManager, "product"),
		repo:           repo,
	}
}

// Create creates a product after checking code uniqueness.
func (s *Service) Create(ctx context.Context, p *Product) error {
	exists, err := s.repo.ExistsByCode(ctx, p.Code)
	if err != nil {
		return apperror.NewInternal(err)
	}
	if exists {
		return apperror.NewDuplicate("product", "code", p.Code)
	}
	return s.CatalogService.Create(ctx, p)
}

// FindLowStock lists products at or below their minimum stock threshold.
func (s *Service) FindLowStock(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Product], error) {
	return s.repo.FindLowStock(ctx, filter)
}
