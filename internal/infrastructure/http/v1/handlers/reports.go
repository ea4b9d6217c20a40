package handlers

import (
	"github.com/gin-gonic/gin"

	"tokopos/internal/domain/reports"
	"tokopos/internal/infrastructure/http/v1/dto"
)

// ReportsHandler handles HTTP requests for reports.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service *reports.Service) *ReportsHandler {
	return &ReportsHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Sales handles GET /reports/sales
func (h *ReportsHandler) Sales(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.SalesReportRequest
	if !h.BindQuery(c, &req) {
		return
	}

	f, err := req.ToFilter()
	if err != nil {
		h.Error(c, err)
		return
	}

	report, err := h.service.Sales(ctx, f)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, report)
}

// Purchases handles GET /reports/purchases
func (h *ReportsHandler) Purchases(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.PurchasesReportRequest
	if !h.BindQuery(c, &req) {
		return
	}

	f, err := req.ToFilter()
	if err != nil {
		h.Error(c, err)
		return
	}

	report, err := h.service.Purchases(ctx, f)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, report)
}

// Profit handles GET /reports/profit
func (h *ReportsHandler) Profit(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.ReportRangeRequest
	if !h.BindQuery(c, &req) {
		return
	}

	r, err := req.ToRange()
	if err != nil {
		h.Error(c, err)
		return
	}

	report, err := h.service.Profit(ctx, r)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, report)
}

// Inventory handles GET /reports/inventory
func (h *ReportsHandler) Inventory(c *gin.Context) {
	ctx := c.Request.Context()

	report, err := h.service.Inventory(ctx)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, report)
}

// RegisterRoutes registers report routes.
func (h *ReportsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/sales", h.Sales)
	rg.GET("/purchases", h.Purchases)
	rg.GET("/profit", h.Profit)
	rg.GET("/inventory", h.Inventory)
}
