package data

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rollbook/rollbook-api/internal/domain/model"
	"github.com/rollbook/rollbook-api/internal/testutil"
)

const testSessionLifetime = 7 * 24 * time.Hour

func newTestSessionRepo(db *sql.DB, tp TimeProvider) *SessionRepo {
	return NewSessionRepoWithTimeProvider(db, testSessionLifetime, tp)
}

func TestSessionRepo_Create(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	clock := NewFixedTimeProvider(testutil.TestTime())
	repo := newTestSessionRepo(db, clock)
	user := createTestUser(t, db, "create-sub")

	t.Run("issues a fresh token", func(t *testing.T) {
		session, err := repo.Create(context.Background(), user.ID)
		require.NoError(t, err)
		require.NotNil(t, session)

		assert.Len(t, session.Token, model.TokenHexLen)
		assert.Regexp(t, "^[0-9a-f]{64}$", session.Token)
		assert.Equal(t, user.ID, session.UserID)
		assert.Equal(t, model.SessionStatusActive, session.Status)
		assert.Equal(t, clock.Now(), session.CreatedAt)
		assert.Equal(t, clock.Now().Add(testSessionLifetime), session.ExpiresAt)
	})

	t.Run("each login yields a distinct token", func(t *testing.T) {
		first, err := repo.Create(context.Background(), user.ID)
		require.NoError(t, err)
		second, err := repo.Create(context.Background(), user.ID)
		require.NoError(t, err)

		assert.NotEqual(t, first.Token, second.Token)
	})
}

func TestSessionRepo_Lookup(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	clock := NewFixedTimeProvider(testutil.TestTime())
	repo := newTestSessionRepo(db, clock)
	user := createTestUser(t, db, "lookup-sub")

	created, err := repo.Create(context.Background(), user.ID)
	require.NoError(t, err)

	t.Run("returns the stored row", func(t *testing.T) {
		session, lookupErr := repo.Lookup(context.Background(), created.Token)
		require.NoError(t, lookupErr)
		assert.Equal(t, created.Token, session.Token)
		assert.Equal(t, user.ID, session.UserID)
		assert.Equal(t, model.SessionStatusActive, session.Status)
	})

	t.Run("unknown token", func(t *testing.T) {
		_, lookupErr := repo.Lookup(context.Background(), "deadbeef")
		assert.ErrorIs(t, lookupErr, ErrSessionNotFound)
	})

	t.Run("returns expired rows unjudged", func(t *testing.T) {
		// Expiry is the caller's decision against its own clock reading.
		clock.AddTime(testSessionLifetime + time.Hour)
		session, lookupErr := repo.Lookup(context.Background(), created.Token)
		require.NoError(t, lookupErr)
		assert.False(t, session.UsableAt(clock.Now()))
	})
}

func TestSessionRepo_Refresh(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	clock := NewFixedTimeProvider(testutil.TestTime())
	repo := newTestSessionRepo(db, clock)
	user := createTestUser(t, db, "refresh-sub")

	t.Run("slides the deadline on a live session", func(t *testing.T) {
		session, err := repo.Create(context.Background(), user.ID)
		require.NoError(t, err)

		clock.AddTime(3 * 24 * time.Hour)
		require.NoError(t, repo.Refresh(context.Background(), session.Token))

		refreshed, err := repo.Lookup(context.Background(), session.Token)
		require.NoError(t, err)
		assert.Equal(t, clock.Now().Add(testSessionLifetime), refreshed.ExpiresAt)
	})

	t.Run("no-op on an expired session", func(t *testing.T) {
		session, err := repo.Create(context.Background(), user.ID)
		require.NoError(t, err)

		clock.AddTime(testSessionLifetime + time.Minute)
		require.NoError(t, repo.Refresh(context.Background(), session.Token))

		after, err := repo.Lookup(context.Background(), session.Token)
		require.NoError(t, err)
		// The deadline must not move: refresh never resurrects.
		assert.Equal(t, session.ExpiresAt, after.ExpiresAt)
		assert.False(t, after.UsableAt(clock.Now()))
	})

	t.Run("no-op on a revoked session", func(t *testing.T) {
		session, err := repo.Create(context.Background(), user.ID)
		require.NoError(t, err)
		require.NoError(t, repo.Revoke(context.Background(), session.Token))

		require.NoError(t, repo.Refresh(context.Background(), session.Token))

		after, err := repo.Lookup(context.Background(), session.Token)
		require.NoError(t, err)
		assert.Equal(t, model.SessionStatusRevoked, after.Status)
		assert.Equal(t, session.ExpiresAt, after.ExpiresAt)
	})

	t.Run("no-op on an unknown token", func(t *testing.T) {
		assert.NoError(t, repo.Refresh(context.Background(), "deadbeef"))
	})
}

func TestSessionRepo_Revoke(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	clock := NewFixedTimeProvider(testutil.TestTime())
	repo := newTestSessionRepo(db, clock)
	user := createTestUser(t, db, "revoke-sub")

	t.Run("flips status and keeps the row", func(t *testing.T) {
		session, err := repo.Create(context.Background(), user.ID)
		require.NoError(t, err)

		require.NoError(t, repo.Revoke(context.Background(), session.Token))

		after, err := repo.Lookup(context.Background(), session.Token)
		require.NoError(t, err)
		assert.Equal(t, model.SessionStatusRevoked, after.Status)
	})

	t.Run("second revoke reports already revoked", func(t *testing.T) {
		session, err := repo.Create(context.Background(), user.ID)
		require.NoError(t, err)

		require.NoError(t, repo.Revoke(context.Background(), session.Token))
		err = repo.Revoke(context.Background(), session.Token)
		assert.True(t, errors.Is(err, ErrSessionRevoked))
	})

	t.Run("unknown token reports not found", func(t *testing.T) {
		err := repo.Revoke(context.Background(), "deadbeef")
		assert.True(t, errors.Is(err, ErrSessionNotFound))
	})

	t.Run("revoking an expired session still succeeds", func(t *testing.T) {
		session, err := repo.Create(context.Background(), user.ID)
		require.NoError(t, err)

		clock.AddTime(testSessionLifetime + time.Hour)
		require.NoError(t, repo.Revoke(context.Background(), session.Token))

		after, err := repo.Lookup(context.Background(), session.Token)
		require.NoError(t, err)
		assert.Equal(t, model.SessionStatusRevoked, after.Status)
	})
}
