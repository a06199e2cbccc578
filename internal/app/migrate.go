package app

import (
	"database/sql"
	"fmt"

	goose "github.com/pressly/goose/v3"

	migrations "github.com/guttosm/contractpulse/db"
	"github.com/guttosm/contractpulse/internal/logger"
)

// RunMigrations applies the embedded goose migrations (db/migrations) to db.
func RunMigrations(db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}

	version, err := goose.GetDBVersion(db)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	logger.L().Info().Int64("version", version).Msg("schema up to date")
	return nil
}
