package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tokopos/internal/core/apperror"
	"tokopos/internal/core/id"
	"tokopos/internal/domain/adjustments"
	"tokopos/internal/infrastructure/http/v1/dto"
)

// AdjustmentHandler handles HTTP requests for stock adjustments.
type AdjustmentHandler struct {
	*BaseHandler
	service *adjustments.Service
}

// NewAdjustmentHandler creates a new adjustment handler.
func NewAdjustmentHandler(base *BaseHandler, service *adjustments.Service) *AdjustmentHandler {
	return &AdjustmentHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Adjust handles POST /adjustments
func (h *AdjustmentHandler) Adjust(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.AdjustStockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	adj, err := h.service.Adjust(ctx, req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromAdjustment(adj))
}

// Get handles GET /adjustments/:id
func (h *AdjustmentHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	adjID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	adj, err := h.service.GetByID(ctx, adjID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromAdjustment(adj))
}

// List handles GET /adjustments
func (h *AdjustmentHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter := adjustments.ListFilter{
		Limit:  h.ParseIntQuery(c, "limit", 50),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	if productID := c.Query("productId"); productID != "" {
		if parsed, err := id.Parse(productID); err == nil {
			filter.ProductID = &parsed
		}
	}
	if userID := c.Query("userId"); userID != "" {
		if parsed, err := id.Parse(userID); err == nil {
			filter.UserID = &parsed
		}
	}
	if dateFrom := c.Query("dateFrom"); dateFrom != "" {
		if parsed, err := time.Parse(time.RFC3339, dateFrom); err == nil {
			filter.DateFrom = &parsed
		}
	}
	if dateTo := c.Query("dateTo"); dateTo != "" {
		if parsed, err := time.Parse(time.RFC3339, dateTo); err == nil {
			filter.DateTo = &parsed
		}
	}

	result, err := h.service.List(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]*dto.AdjustmentResponse, len(result.Items))
	for i, adj := range result.Items {
		items[i] = dto.FromAdjustment(adj)
	}

	c.JSON(http.StatusOK, dto.ListResponse[*dto.AdjustmentResponse]{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// RegisterRoutes registers adjustment routes.
func (h *AdjustmentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Adjust)
	rg.GET("/:id", h.Get)
}
