// Package v1 provides HTTP API version 1.
package v1

import (
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"tokopos/internal/domain/adjustments"
	"tokopos/internal/domain/auth"
	"tokopos/internal/domain/cashsessions"
	"tokopos/internal/domain/catalogs/category"
	"tokopos/internal/domain/catalogs/partner"
	"tokopos/internal/domain/catalogs/product"
	"tokopos/internal/domain/reports"
	"tokopos/internal/domain/transactions"
	"tokopos/internal/infrastructure/http/v1/handlers"
	"tokopos/internal/infrastructure/http/v1/middleware"
	"tokopos/internal/infrastructure/storage/postgres"
	"tokopos/pkg/logger"
)

// RouterConfig holds the wired services the router exposes.
type RouterConfig struct {
	Pool   *postgres.Pool
	Logger *logger.Logger

	// JWTValidator for token validation
	JWTValidator middleware.JWTValidator

	AuthService        *auth.Service
	ProductService     *product.Service
	CategoryService    *category.Service
	PartnerService     *partner.Service
	TransactionService *transactions.Service
	AdjustmentService  *adjustments.Service
	CashSessionService *cashsessions.Service
	ReportsService     *reports.Service

	// Development switches gin out of release mode.
	Development bool
}

// catalogCodeRe matches human-assigned catalog codes (PRD-001, CAT_01).
var catalogCodeRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// registerValidations installs custom binding rules on gin's validator.
func registerValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("catalogcode", func(fl validator.FieldLevel) bool {
			return catalogCodeRe.MatchString(fl.Field().String())
		})
	}
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if !cfg.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	registerValidations()

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	base := handlers.NewBaseHandler()

	// API v1
	v1 := router.Group("/api/v1")
	{
		// Auth: login is public, profile needs a token, user management
		// is admin-only.
		publicAuth := v1.Group("/auth")
		protectedAuth := v1.Group("/auth")
		protectedAuth.Use(middleware.Auth(cfg.JWTValidator))
		adminAuth := v1.Group("/auth")
		adminAuth.Use(middleware.Auth(cfg.JWTValidator))
		adminAuth.Use(middleware.RequireRole(auth.RoleAdmin))
		handlers.NewAuthHandler(base, cfg.AuthService).RegisterRoutes(publicAuth, protectedAuth, adminAuth)

		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator))

		handlers.NewProductHandler(base, cfg.ProductService).
			RegisterRoutes(protected.Group("/products"))
		handlers.NewCategoryHandler(base, cfg.CategoryService).
			RegisterRoutes(protected.Group("/categories"))
		handlers.NewPartnerHandler(base, cfg.PartnerService).
			RegisterRoutes(protected.Group("/partners"))

		handlers.NewTransactionHandler(base, cfg.TransactionService).
			RegisterRoutes(protected.Group("/transactions"))
		handlers.NewAdjustmentHandler(base, cfg.AdjustmentService).
			RegisterRoutes(protected.Group("/adjustments"))
		handlers.NewCashSessionHandler(base, cfg.CashSessionService).
			RegisterRoutes(protected.Group("/cash-sessions"))

		// Reports are management-facing
		reportsGroup := protected.Group("/reports")
		reportsGroup.Use(middleware.RequireRole(auth.RoleAdmin))
		handlers.NewReportsHandler(base, cfg.ReportsService).
			RegisterRoutes(reportsGroup)
	}

	return router
}
