package postgres

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// MigrateUp applies all pending migrations embedded in the binary.
func MigrateUp(db *sql.DB) error {
	return runGoose(db, goose.Up)
}

// MigrateDown rolls back the most recently applied migration.
func MigrateDown(db *sql.DB) error {
	return runGoose(db, goose.Down)
}

// MigrationStatus prints the status of all known migrations.
func MigrationStatus(db *sql.DB) error {
	return runGoose(db, goose.Status)
}

func runGoose(db *sql.DB, op func(*sql.DB, string, ...goose.OptionsFunc) error) error {
	goose.SetBaseFS(migrationsFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	if err := op(db, "migrations"); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	return nil
}
