package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tokopos/internal/core/apperror"
	"tokopos/internal/core/id"
	"tokopos/internal/domain/transactions"
	"tokopos/internal/infrastructure/http/v1/dto"
)

// TransactionHandler handles HTTP requests for transactions.
type TransactionHandler struct {
	*BaseHandler
	service *transactions.Service
}

// NewTransactionHandler creates a new transaction handler.
func NewTransactionHandler(base *BaseHandler, service *transactions.Service) *TransactionHandler {
	return &TransactionHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Post handles POST /transactions - post a sale or purchase.
func (h *TransactionHandler) Post(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.PostTransactionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	trx, err := h.service.Post(ctx, req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromTransaction(trx))
}

// Get handles GET /transactions/:id
func (h *TransactionHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	trxID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	trx, err := h.service.GetByID(ctx, trxID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromTransaction(trx))
}

// GetByNumber handles GET /transactions/by-number/:number
func (h *TransactionHandler) GetByNumber(c *gin.Context) {
	ctx := c.Request.Context()

	trx, err := h.service.GetByNumber(ctx, c.Param("number"))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromTransaction(trx))
}

// Cancel handles POST /transactions/:id/cancel
func (h *TransactionHandler) Cancel(c *gin.Context) {
	h.reverse(c, h.service.Cancel)
}

// Return handles POST /transactions/:id/return
func (h *TransactionHandler) Return(c *gin.Context) {
	h.reverse(c, h.service.Return)
}

func (h *TransactionHandler) reverse(c *gin.Context, fn func(ctx context.Context, trxID id.ID) (*transactions.Transaction, error)) {
	ctx := c.Request.Context()

	trxID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	trx, err := fn(ctx, trxID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromTransaction(trx))
}

// List handles GET /transactions
func (h *TransactionHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter := transactions.ListFilter{
		Type:    transactions.Type(c.Query("type")),
		Status:  transactions.Status(c.Query("status")),
		Search:  c.Query("search"),
		OrderBy: c.DefaultQuery("orderBy", "-date"),
		Limit:   h.ParseIntQuery(c, "limit", 50),
		Offset:  h.ParseIntQuery(c, "offset", 0),
	}

	if cashierID := c.Query("cashierId"); cashierID != "" {
		if parsed, err := id.Parse(cashierID); err == nil {
			filter.CashierID = &parsed
		}
	}
	if partnerID := c.Query("partnerId"); partnerID != "" {
		if parsed, err := id.Parse(partnerID); err == nil {
			filter.PartnerID = &parsed
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

	items := make([]*dto.TransactionResponse, len(result.Items))
	for i, trx := range result.Items {
		items[i] = dto.FromTransaction(trx)
	}

	c.JSON(http.StatusOK, dto.ListResponse[*dto.TransactionResponse]{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// RegisterRoutes registers transaction routes.
func (h *TransactionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Post)
	rg.GET("/by-number/:number", h.GetByNumber)
	rg.GET("/:id", h.Get)
	rg.POST("/:id/cancel", h.Cancel)
	rg.POST("/:id/return", h.Return)
}
