package handlers

import (
	"tokopos/internal/domain/catalogs/category"
	"tokopos/internal/infrastructure/http/v1/dto"
)

// CategoryHandler handles HTTP requests for the category catalog.
type CategoryHandler struct {
	*CatalogHandler[*category.Category, dto.CreateCategoryRequest, dto.UpdateCategoryRequest]
}

// NewCategoryHandler creates a new category handler.
func NewCategoryHandler(base *BaseHandler, service *category.Service) *CategoryHandler {
	cfg := CatalogHandlerConfig[*category.Category, dto.CreateCategoryRequest, dto.UpdateCategoryRequest]{
		Service:    service,
		EntityName: "category",
		MapCreateDTO: func(req dto.CreateCategoryRequest) *category.Category {
			return req.ToEntity()
		},
		MapUpdateDTO: func(req dto.UpdateCategoryRequest, existing *category.Category) *category.Category {
			req.ApplyTo(existing)
			return existing
		},
		MapToDTO: func(c *category.Category) any {
			return dto.FromCategory(c)
		},
	}

	return &CategoryHandler{
		CatalogHandler: NewCatalogHandler(base, cfg),
	}
}
