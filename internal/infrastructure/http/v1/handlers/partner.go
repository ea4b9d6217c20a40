package handlers

import (
	"tokopos/internal/domain/catalogs/partner"
	"tokopos/internal/infrastructure/http/v1/dto"
)

// PartnerHandler handles HTTP requests for the partner catalog.
type PartnerHandler struct {
	*CatalogHandler[*partner.Partner, dto.CreatePartnerRequest, dto.UpdatePartnerRequest]
}

// NewPartnerHandler creates a new partner handler.
func NewPartnerHandler(base *BaseHandler, service *partner.Service) *PartnerHandler {
	cfg := CatalogHandlerConfig[*partner.Partner, dto.CreatePartnerRequest, dto.UpdatePartnerRequest]{
		Service:    service,
		EntityName: "partner",
		MapCreateDTO: func(req dto.CreatePartnerRequest) *partner.Partner {
			return req.ToEntity()
		},
		MapUpdateDTO: func(req dto.UpdatePartnerRequest, existing *partner.Partner) *partner.Partner {
			req.ApplyTo(existing)
			return existing
		},
		MapToDTO: func(p *partner.Partner) any {
			return dto.FromPartner(p)
		},
	}

	return &PartnerHandler{
		CatalogHandler: NewCatalogHandler(base, cfg),
	}
}
