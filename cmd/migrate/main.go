// Package main provides a CLI tool for applying database migrations.
package main

import (
	"fmt"
	"os"

	migrate "github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

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
		Development: cfg.IsDevelopment(),
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	direction := "up"
	if len(os.Args) > 1 {
		direction = os.Args[1]
	}

	sourceURL := os.Getenv("MIGRATIONS_PATH")
	if sourceURL == "" {
		sourceURL = "file://migrations"
	}

	m, err := migrate.New(sourceURL, cfg.DatabaseURL)
	if err != nil {
		log.Fatalw("failed to create migrator", "error", err)
	}
	defer m.Close()

	switch direction {
	case "up":
		err = m.Up()
	case "down":
		// One step at a time; a full down wipe must be explicit.
		err = m.Steps(-1)
	case "drop":
		err = m.Drop()
	default:
		log.Fatalw("unknown direction, expected up|down|drop", "direction", direction)
	}

	if err != nil && err != migrate.ErrNoChange {
		log.Fatalw("migration failed", "direction", direction, "error", err)
	}

	version, dirty, verr := m.Version()
	if verr != nil && verr != migrate.ErrNilVersion {
		log.Warnw("could not read migration version", "error", verr)
	}

	log.Infow("migrations applied", "direction", direction, "version", version, "dirty", dirty)
}
