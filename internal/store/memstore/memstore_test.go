package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"missionmatch/backend/internal/models"
	"missionmatch/backend/internal/store"
	"missionmatch/backend/internal/store/storetest"
)

func TestStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store { return New() })
}

func TestWithClock(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s := New(WithClock(func() time.Time { return at }))
	ctx := context.Background()

	u := &models.User{Username: "a", Email: "a@example.com"}
	require.NoError(t, s.Users().Create(ctx, u))
	assert.Equal(t, at, u.CreatedAt)
	assert.Equal(t, at, u.UpdatedAt)
}

func TestNestedTransactionSharesSnapshot(t *testing.T) {
	s := New()
	ctx := context.Background()

	err := s.Transaction(ctx, func(tx store.Store) error {
		require.NoError(t, tx.Users().Create(ctx, &models.User{Username: "a", Email: "a@example.com"}))
		return tx.Transaction(ctx, func(inner store.Store) error {
			_, err := inner.Users().FindByUsernameOrEmail(ctx, "a", "")
			return err
		})
	})
	require.NoError(t, err)

	_, err = s.Users().FindByUsernameOrEmail(ctx, "a", "")
	assert.NoError(t, err)
}

func TestReturnedRowsAreCopies(t *testing.T) {
	s := New()
	ctx := context.Background()
	u := &models.User{Username: "a", Email: "a@example.com"}
	require.NoError(t, s.Users().Create(ctx, u))
	require.NoError(t, s.Profiles().Create(ctx, &models.Profile{UserID: u.ID, FirstName: "Ann"}))

	p, err := s.Profiles().Get(ctx, u.ID)
	require.NoError(t, err)
	p.FirstName = "Changed"

	again, err := s.Profiles().Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann", again.FirstName)
}
