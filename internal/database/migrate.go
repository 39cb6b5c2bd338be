package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
	"gorm.io/gorm"

	"missionmatch/backend/internal/config"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// MigrateSQL applies the embedded SQL migrations over a dedicated
// database/sql connection.
func MigrateSQL(dsn string) error {
	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	defer conn.Close()

	driver, err := postgres.WithInstance(conn, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("open migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, _, _ := m.Version()
	slog.Info("database migrated", "mode", "sql", "version", version)
	return nil
}

// Migrate brings the schema up to date according to mode.
func Migrate(db *gorm.DB, dsn, mode string) error {
	switch mode {
	case config.MigrationNone:
		return nil
	case config.MigrationSQL:
		return MigrateSQL(dsn)
	case config.MigrationAuto, "":
		return AutoMigrate(db)
	}
	return fmt.Errorf("unknown migration mode %q", mode)
}
