// Package main is the entry point for the tokopos API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tokopos/internal/core/clock"
	"tokopos/internal/domain/adjustments"
	"tokopos/internal/domain/auth"
	"tokopos/internal/domain/cashsessions"
	"tokopos/internal/domain/catalogs/category"
	"tokopos/internal/domain/catalogs/partner"
	"tokopos/internal/domain/catalogs/product"
	"tokopos/internal/domain/reports"
	"tokopos/internal/domain/transactions"
	"tokopos/internal/infrastructure/cache"
	v1 "tokopos/internal/infrastructure/http/v1"
	"tokopos/internal/infrastructure/storage/postgres"
	"tokopos/internal/infrastructure/storage/postgres/adjustment_repo"
	"tokopos/internal/infrastructure/storage/postgres/auth_repo"
	"tokopos/internal/infrastructure/storage/postgres/cashsession_repo"
	"tokopos/internal/infrastructure/storage/postgres/catalog_repo"
	"tokopos/internal/infrastructure/storage/postgres/report_repo"
	"tokopos/internal/infrastructure/storage/postgres/transaction_repo"
	"tokopos/pkg/config"
	"tokopos/pkg/logger"
	"tokopos/pkg/numerator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: cfg.IsDevelopment(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting tokopos server")

	// --- Database ---
	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.DatabaseURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- Audit ---
	auditService, err := postgres.NewAuditService(txManager)
	if err != nil {
		log.Fatalw("failed to initialize audit service", "error", err)
	}

	// --- JWT / Auth ---
	jwtConfig := auth.DefaultJWTConfig(cfg.JWTSecret)
	jwtConfig.Issuer = cfg.JWTIssuer
	jwtConfig.AccessTokenTTL = cfg.JWTTokenTTL
	jwtService := auth.NewJWTService(jwtConfig)

	userRepo := auth_repo.NewUserRepo(txManager)
	authService := auth.NewService(userRepo, txManager, jwtService, auth.DefaultServiceConfig())

	// --- Catalogs ---
	productRepo := catalog_repo.NewProductRepo(txManager)
	categoryRepo := catalog_repo.NewCategoryRepo(txManager)
	partnerRepo := catalog_repo.NewPartnerRepo(txManager)

	productService := product.NewService(productRepo, txManager)
	categoryService := category.NewService(categoryRepo, txManager)
	partnerService := partner.NewService(partnerRepo, txManager)

	// --- Posting engine ---
	// The numerator resolves its querier per call so serial allocation
	// joins the posting transaction.
	numeratorService := numerator.NewWithProvider(func(ctx context.Context) numerator.Querier {
		return txManager.GetQuerier(ctx)
	})

	sysClock := clock.System()

	transactionRepo := transaction_repo.New(txManager)
	transactionService := transactions.NewService(
		transactionRepo,
		productRepo,
		transactionNumerator{svc: numeratorService},
		txManager,
		sysClock,
		auditService,
	)

	adjustmentService := adjustments.NewService(
		adjustment_repo.New(txManager),
		productRepo,
		txManager,
		sysClock,
		auditService,
	)

	cashSessionService := cashsessions.NewService(
		cashsession_repo.New(txManager),
		transactionRepo,
		txManager,
		sysClock,
	)

	// --- Reports ---
	var reportCache reports.Cache = cache.Noop{}
	if cfg.RedisAddr != "" {
		redisCache, err := cache.NewRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Warnw("redis unavailable, report caching disabled", "error", err)
		} else {
			defer redisCache.Close()
			reportCache = redisCache
			log.Info("redis report cache enabled")
		}
	}
	reportsService := reports.NewService(report_repo.New(txManager), txManager, reportCache, cfg.ReportCacheTTL)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:               pool,
		Logger:             log,
		JWTValidator:       jwtService,
		AuthService:        authService,
		ProductService:     productService,
		CategoryService:    categoryService,
		PartnerService:     partnerService,
		TransactionService: transactionService,
		AdjustmentService:  adjustmentService,
		CashSessionService: cashSessionService,
		ReportsService:     reportsService,
		Development:        cfg.IsDevelopment(),
	})

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

// transactionNumerator adapts the numerator service to the posting
// engine's prefix-based interface.
type transactionNumerator struct {
	svc *numerator.Service
}

func (n transactionNumerator) Next(ctx context.Context, prefix string, day time.Time) (string, error) {
	return n.svc.Next(ctx, numerator.DefaultConfig(prefix), day)
}
