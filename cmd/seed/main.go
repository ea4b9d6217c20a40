// Package main provides a CLI tool for seeding the database with initial data.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	appctx "tokopos/internal/core/context"
	"tokopos/internal/core/id"
	"tokopos/internal/domain/auth"
	"tokopos/internal/infrastructure/storage/postgres"
	"tokopos/pkg/config"
	"tokopos/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := appctx.WithTrace(context.Background(), appctx.NewTraceContext())

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.DatabaseURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	adminID, err := seedAdminUser(ctx, pool, log)
	if err != nil {
		log.Fatalw("failed to seed admin user", "error", err)
	}

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoData(ctx, pool, log, adminID); err != nil {
			log.Fatalw("failed to seed demo data", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

func seedAdminUser(ctx context.Context, pool *postgres.Pool, log *logger.Logger) (id.ID, error) {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@tokopos.local"
	}

	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "Admin123!"
	}

	var existingID id.ID
	err := pool.Pool.QueryRow(ctx,
		`SELECT id FROM users WHERE email = $1`,
		adminEmail,
	).Scan(&existingID)
	if err == nil {
		log.Infow("admin user already exists", "email", adminEmail, "user_id", existingID)
		return existingID, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return id.Nil(), fmt.Errorf("check admin exists: %w", err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return id.Nil(), fmt.Errorf("hash password: %w", err)
	}

	user := auth.NewUser(adminEmail, "System Admin", string(passwordHash), auth.RoleAdmin)

	_, err = pool.Pool.Exec(ctx, `
		INSERT INTO users (
			id, email, name, password_hash, role, is_active,
			failed_login_attempts, created_at, updated_at, version
		)
		VALUES ($1, $2, $3, $4, $5, true, 0, $6, $7, 1)
	`, user.ID, user.Email, user.Name, user.PasswordHash, user.Role, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return id.Nil(), fmt.Errorf("insert admin user: %w", err)
	}

	log.Infow("admin user created", "email", adminEmail, "user_id", user.ID)
	return user.ID, nil
}

func seedDemoData(ctx context.Context, pool *postgres.Pool, log *logger.Logger, adminID id.ID) error {
	log.Info("seeding demo data...")

	categoryID := id.New()
	if _, err := pool.Pool.Exec(ctx, `
		INSERT INTO categories (id, code, name, description, deletion_mark, version, created_at, updated_at)
		VALUES ($1, 'CAT-001', 'Beverages', 'Drinks and refreshments', false, 1, now(), now())
		ON CONFLICT (code) DO NOTHING
	`, categoryID); err != nil {
		return fmt.Errorf("insert category: %w", err)
	}

	products := []struct {
		code, name   string
		cost, sell   float64
		stock, floor int64
	}{
		{"PRD-001", "Mineral Water 600ml", 2500, 4000, 120, 24},
		{"PRD-002", "Instant Coffee Sachet", 1200, 2000, 200, 40},
		{"PRD-003", "Iced Tea Bottle", 3500, 6000, 80, 12},
	}
	for _, p := range products {
		if _, err := pool.Pool.Exec(ctx, `
			INSERT INTO products (
				id, code, name, category_id, cost_price, selling_price,
				stock, min_stock, is_active, deletion_mark, version, created_at, updated_at
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, true, false, 1, now(), now())
			ON CONFLICT (code) DO NOTHING
		`, id.New(), p.code, p.name, categoryID, p.cost, p.sell, p.stock, p.floor); err != nil {
			return fmt.Errorf("insert product %s: %w", p.code, err)
		}
	}

	if _, err := pool.Pool.Exec(ctx, `
		INSERT INTO partners (id, code, name, type, phone, address, is_active, deletion_mark, version, created_at, updated_at)
		VALUES
			($1, 'SUP-001', 'PT Sumber Segar', 'SUPPLIER', '+62-21-555-0101', 'Jakarta', true, false, 1, now(), now()),
			($2, 'CUS-001', 'Walk-in Customer', 'CUSTOMER', '', '', true, false, 1, now(), now())
		ON CONFLICT (code) DO NOTHING
	`, id.New(), id.New()); err != nil {
		return fmt.Errorf("insert partners: %w", err)
	}

	log.Infow("demo data seeded", "seeded_by", adminID)
	return nil
}
