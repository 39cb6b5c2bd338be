package database

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"missionmatch/backend/internal/models"
)

// Connect opens the postgres connection. TranslateError is on so the store
// can recognise unique and foreign key violations.
func Connect(dsn string, slowThreshold time.Duration) (*gorm.DB, error) {
	if slowThreshold <= 0 {
		slowThreshold = 200 * time.Millisecond
	}

	gormLogger := logger.New(
		slog.NewLogLogger(slog.Default().Handler(), slog.LevelWarn),
		logger.Config{
			SlowThreshold:             slowThreshold,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	slog.Info("database connection established")
	return db, nil
}

// Models lists every table in dependency order.
func Models() []any {
	return []any{
		&models.User{},
		&models.Profile{},
		&models.Tag{},
		&models.ProfileTagging{},
		&models.ProfileVote{},
		&models.ProfileComment{},
		&models.Friendship{},
		&models.Notification{},
		&models.SearchHistory{},
		&models.ExternalMedia{},
	}
}

// expressionIndexes are SQL migrations AutoMigrate applies after the models.
var expressionIndexes = []string{"000002_friendship_pair.up.sql"}

// AutoMigrate creates or alters the schema from the gorm models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	// Expression indexes are beyond gorm tags; reuse the SQL migration.
	for _, name := range expressionIndexes {
		stmt, err := migrationFiles.ReadFile("migrations/" + name)
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		if err := db.Exec(string(stmt)).Error; err != nil {
			return fmt.Errorf("apply %s: %w", name, err)
		}
	}
	slog.Info("database migrated", "mode", "auto")
	return nil
}
