package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tokopos/internal/core/apperror"
	"tokopos/internal/core/id"
	"tokopos/internal/domain/cashsessions"
	"tokopos/internal/infrastructure/http/v1/dto"
)

// CashSessionHandler handles HTTP requests for cash sessions.
type CashSessionHandler struct {
	*BaseHandler
	service *cashsessions.Service
}

// NewCashSessionHandler creates a new cash session handler.
func NewCashSessionHandler(base *BaseHandler, service *cashsessions.Service) *CashSessionHandler {
	return &CashSessionHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Open handles POST /cash-sessions/open
func (h *CashSessionHandler) Open(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.OpenSessionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	session, err := h.service.Open(ctx, req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromCashSession(session))
}

// Close handles POST /cash-sessions/:id/close
func (h *CashSessionHandler) Close(c *gin.Context) {
	ctx := c.Request.Context()

	sessionID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.CloseSessionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	session, err := h.service.Close(ctx, req.ToInput(sessionID))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromCashSession(session))
}

// Current handles GET /cash-sessions/current - the caller's open session.
func (h *CashSessionHandler) Current(c *gin.Context) {
	ctx := c.Request.Context()

	session, err := h.service.GetCurrent(ctx)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromCashSession(session))
}

// Get handles GET /cash-sessions/:id
func (h *CashSessionHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	sessionID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	session, err := h.service.GetByID(ctx, sessionID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromCashSession(session))
}

// List handles GET /cash-sessions
func (h *CashSessionHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter := cashsessions.ListFilter{
		Status: cashsessions.Status(c.Query("status")),
		Limit:  h.ParseIntQuery(c, "limit", 50),
		Offset: h.ParseIntQuery(c, "offset", 0),
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

	items := make([]*dto.CashSessionResponse, len(result.Items))
	for i, session := range result.Items {
		items[i] = dto.FromCashSession(session)
	}

	c.JSON(http.StatusOK, dto.ListResponse[*dto.CashSessionResponse]{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// RegisterRoutes registers cash session routes.
func (h *CashSessionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("/open", h.Open)
	rg.GET("/current", h.Current)
	rg.GET("/:id", h.Get)
	rg.POST("/:id/close", h.Close)
}
