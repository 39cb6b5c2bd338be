package gormstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"missionmatch/backend/internal/config"
	"missionmatch/backend/internal/database"
	"missionmatch/backend/internal/store"
	"missionmatch/backend/internal/store/storetest"
)

// startPostgres runs a throwaway postgres container and returns its DSN.
func startPostgres(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}

	ctx := context.Background()
	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("missionmatch"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Skipf("docker not available: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate postgres: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	return dsn
}

func TestStore(t *testing.T) {
	dsn := startPostgres(t)

	db, err := database.Connect(dsn, time.Second)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, dsn, config.MigrationSQL))

	storetest.Run(t, func(t *testing.T) store.Store {
		require.NoError(t, db.Exec(`TRUNCATE users, profiles, tags, profile_taggings, profile_votes,
			profile_comments, friendships, notifications, search_history, external_media
			RESTART IDENTITY CASCADE`).Error)
		return New(db)
	})
}
