package partner

import (
	"context"

	"tokopos/internal/core/apperror"
	"tokopos/internal/core/tx"
	"tokopos/internal/domain"
)

// Repository defines storage operations for partners.
type Repository interface {
	domain.CatalogRepository[*Partner]
}

// Service provides business operations for the partner catalog.
type Service struct {
	*domain.CatalogService[*Partner]
	repo Repository
}

// NewService creates a new partner service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{
		CatalogService: domain.NewCatalogService[*Partner](repo, txManager, "partner"),
		repo:           repo,
	}
}

// Create validates and persists a partner, rejecting duplicate codes.
func (s *Service) Create(ctx context.Context, p *Partner) error {
	if err := p.Validate(ctx); err != nil {
		return err
	}
	exists, err := s.repo.ExistsByCode(ctx, p.Code)
	if err != nil {
		return apperror.NewInternal(err)
	}
	if exists {
		return apperror.NewDuplicate("partner", "code", p.Code)
	}
	return s.CatalogService.Create(ctx, p)
}
