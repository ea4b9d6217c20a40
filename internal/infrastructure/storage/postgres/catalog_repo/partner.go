package catalog_repo

import (
	"tokopos/internal/domain/catalogs/partner"
	"tokopos/internal/infrastructure/storage/postgres"
)

var _ partner.Repository = (*PartnerRepo)(nil)

// PartnerRepo is the PostgreSQL partner repository.
type PartnerRepo struct {
	*BaseCatalogRepo[*partner.Partner]
}

// NewPartnerRepo creates a new partner repository.
func NewPartnerRepo(txManager *postgres.TxManager) *PartnerRepo {
	return &PartnerRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			"partners",
			postgres.ExtractDBColumns[partner.Partner](),
			func() *partner.Partner { return &partner.Partner{} },
		),
	}
}
