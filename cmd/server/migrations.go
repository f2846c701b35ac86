package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/scriptly/scriptly-api/internal/config"
	"github.com/scriptly/scriptly-api/internal/platform/postgres"
)

// handleMigrations executes the requested migration command against the
// configured database. It's called from main() when the -migrate flag is set.
func handleMigrations(cfg *config.Config, command string) error {
	slog.Info("Executing migrations", "command", command)

	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("Error closing database connection", "error", err)
		}
	}()

	switch command {
	case "up":
		return postgres.MigrateUp(db)
	case "down":
		return postgres.MigrateDown(db)
	case "status":
		return postgres.MigrationStatus(db)
	default:
		return fmt.Errorf("unknown migration command %q (expected up, down or status)", command)
	}
}
