package catalog_repo

import (
	"tokopos/internal/domain/catalogs/category"
	"tokopos/internal/infrastructure/storage/postgres"
)

var _ category.Repository = (*CategoryRepo)(nil)

// CategoryRepo is the PostgreSQL category repository.
type CategoryRepo struct {
	*BaseCatalogRepo[*category.Category]
}

// NewCategoryRepo creates a new category repository.
func NewCategoryRepo(txManager *postgres.TxManager) *CategoryRepo {
	return &CategoryRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			"categories",
			postgres.ExtractDBColumns[category.Category](),
			func() *category.Category { return &category.Category{} },
		),
	}
}
