package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rollbook/rollbook-api/internal/data"
	"github.com/rollbook/rollbook-api/internal/domain/model"
	apperrors "github.com/rollbook/rollbook-api/internal/errors"
	"github.com/rollbook/rollbook-api/internal/mocks/authmocks"
)

const testLifetime = 7 * 24 * time.Hour

type authFixture struct {
	clock    *data.FixedTimeProvider
	sessions *authmocks.MemorySessionRepo
	users    *authmocks.MemoryUserRepo
	cache    *authmocks.MemorySnapshotCache
	service  *AuthService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	clock := data.NewFixedTimeProvider(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	sessions := authmocks.NewMemorySessionRepo(testLifetime, clock)
	users := authmocks.NewMemoryUserRepo(clock)
	cache := authmocks.NewMemorySnapshotCache()

	users.Seed(&model.User{
		ID:           "user-1",
		ProviderSub:  "google-sub-1",
		AuthProvider: "google",
		Status:       model.UserStatusActive,
		Email:        "ami@example.com",
		DisplayName:  "Ami",
		Role:         model.RoleMember,
		JoinedAt:     clock.Now().Add(-30 * 24 * time.Hour),
	})

	return &authFixture{
		clock:    clock,
		sessions: sessions,
		users:    users,
		cache:    cache,
		service: NewAuthService(AuthServiceOptions{
			Sessions:     sessions,
			Users:        users,
			Cache:        cache,
			TimeProvider: clock,
			SnapshotTTL:  5 * time.Minute,
		}),
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)
	ctx := context.Background()

	result, err := f.service.Login(ctx, "google-sub-1", "google")
	require.NoError(t, err)

	assert.Len(t, result.Token, model.TokenHexLen)
	assert.Regexp(t, "^[0-9a-f]{64}$", result.Token)
	assert.Equal(t, f.clock.Now().Add(testLifetime), result.ExpiresAt)
	assert.Equal(t, "Ami", result.User.DisplayName)

	user, err := f.users.GetByID(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, user.LastLogin)
	assert.Equal(t, f.clock.Now(), *user.LastLogin)
}

func TestAuthService_Login_EachLoginIssuesDistinctSession(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)
	ctx := context.Background()

	first, err := f.service.Login(ctx, "google-sub-1", "google")
	require.NoError(t, err)
	second, err := f.service.Login(ctx, "google-sub-1", "google")
	require.NoError(t, err)

	assert.NotEqual(t, first.Token, second.Token)

	// Both sessions remain usable independently.
	_, err = f.service.Authenticate(ctx, first.Token)
	assert.NoError(t, err)
	_, err = f.service.Authenticate(ctx, second.Token)
	assert.NoError(t, err)
}

func TestAuthService_Login_UnknownIdentity(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)

	_, err := f.service.Login(context.Background(), "nobody", "google")
	assert.True(t, apperrors.IsInvalidCredentials(err))
}

func TestAuthService_Login_DeactivatedAccount(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)
	f.users.Seed(&model.User{
		ID:           "user-2",
		ProviderSub:  "google-sub-2",
		AuthProvider: "google",
		Status:       model.UserStatusInactive,
		Email:        "gone@example.com",
		DisplayName:  "Gone",
		Role:         model.RoleMember,
		JoinedAt:     f.clock.Now(),
	})

	_, err := f.service.Login(context.Background(), "google-sub-2", "google")
	assert.True(t, apperrors.IsForbidden(err))
}

func TestAuthService_Authenticate_Valid(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)
	ctx := context.Background()

	result, err := f.service.Login(ctx, "google-sub-1", "google")
	require.NoError(t, err)

	session, err := f.service.Authenticate(ctx, result.Token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", session.UserID)
}

func TestAuthService_Authenticate_EmptyToken(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)

	_, err := f.service.Authenticate(context.Background(), "")
	assert.True(t, apperrors.IsUnauthorized(err))
}

func TestAuthService_Authenticate_UnknownToken(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)

	_, err := f.service.Authenticate(context.Background(), "deadbeef")
	assert.True(t, apperrors.IsUnauthorized(err))
}

func TestAuthService_Authenticate_Expired(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)
	ctx := context.Background()

	result, err := f.service.Login(ctx, "google-sub-1", "google")
	require.NoError(t, err)

	f.clock.AddTime(testLifetime + time.Second)
	_, err = f.service.Authenticate(ctx, result.Token)
	assert.True(t, apperrors.IsUnauthorized(err))
}

func TestAuthService_Authenticate_ExpiryBoundaryIsExclusive(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)
	ctx := context.Background()

	result, err := f.service.Login(ctx, "google-sub-1", "google")
	require.NoError(t, err)

	// A session expiring exactly now is no longer usable.
	f.clock.SetTime(result.ExpiresAt)
	_, err = f.service.Authenticate(ctx, result.Token)
	assert.True(t, apperrors.IsUnauthorized(err))
}

func TestAuthService_Authenticate_Revoked(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)
	ctx := context.Background()

	result, err := f.service.Login(ctx, "google-sub-1", "google")
	require.NoError(t, err)
	require.NoError(t, f.service.Logout(ctx, result.Token))

	_, err = f.service.Authenticate(ctx, result.Token)
	assert.True(t, apperrors.IsUnauthorized(err))
}

func TestAuthService_Authenticate_FailuresAreUniform(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)
	ctx := context.Background()

	expired, err := f.service.Login(ctx, "google-sub-1", "google")
	require.NoError(t, err)
	revoked, err := f.service.Login(ctx, "google-sub-1", "google")
	require.NoError(t, err)
	require.NoError(t, f.service.Logout(ctx, revoked.Token))
	f.clock.AddTime(testLifetime + time.Second)

	// Missing, expired, and revoked tokens all produce the identical error so
	// a caller cannot tell which state a token is in.
	_, errMissing := f.service.Authenticate(ctx, "0000000000000000000000000000000000000000000000000000000000000000")
	_, errExpired := f.service.Authenticate(ctx, expired.Token)
	_, errRevoked := f.service.Authenticate(ctx, revoked.Token)

	assert.Equal(t, errMissing.Error(), errExpired.Error())
	assert.Equal(t, errExpired.Error(), errRevoked.Error())
	assert.True(t, apperrors.IsUnauthorized(errMissing))
	assert.True(t, apperrors.IsUnauthorized(errExpired))
	assert.True(t, apperrors.IsUnauthorized(errRevoked))
}

func TestAuthService_Authenticate_ExpiredWinsOverActiveStatus(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)
	ctx := context.Background()

	result, err := f.service.Login(ctx, "google-sub-1", "google")
	require.NoError(t, err)

	// Force an inconsistent row: status still active but expiry in the past.
	f.sessions.Corrupt(result.Token, func(s *model.Session) {
		s.ExpiresAt = f.clock.Now().Add(-time.Minute)
	})

	_, err = f.service.Authenticate(ctx, result.Token)
	assert.True(t, apperrors.IsUnauthorized(err))
}

func TestAuthService_AuthenticateAndTouch_SlidesExpiry(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)
	ctx := context.Background()

	result, err := f.service.Login(ctx, "google-sub-1", "google")
	require.NoError(t, err)

	f.clock.AddTime(3 * 24 * time.Hour)
	session, err := f.service.AuthenticateAndTouch(ctx, result.Token)
	require.NoError(t, err)
	assert.Equal(t, f.clock.Now().Add(testLifetime), session.ExpiresAt)

	// Still valid well past the original deadline thanks to the touch.
	f.clock.AddTime(5 * 24 * time.Hour)
	_, err = f.service.Authenticate(ctx, result.Token)
	assert.NoError(t, err)
}

func TestAuthService_AuthenticateAndTouch_NeverShortens(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)
	ctx := context.Background()

	result, err := f.service.Login(ctx, "google-sub-1", "google")
	require.NoError(t, err)

	// Repeated touches at the same instant keep the same deadline.
	var last time.Time
	for i := 0; i < 3; i++ {
		session, touchErr := f.service.AuthenticateAndTouch(ctx, result.Token)
		require.NoError(t, touchErr)
		if !last.IsZero() {
			assert.False(t, session.ExpiresAt.Before(last))
		}
		last = session.ExpiresAt
	}
	assert.Equal(t, f.clock.Now().Add(testLifetime), last)
}

func TestAuthService_AuthenticateAndTouch_ConcurrentTouches(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)
	ctx := context.Background()

	result, err := f.service.Login(ctx, "google-sub-1", "google")
	require.NoError(t, err)

	const touches = 16
	sessions := make([]*model.Session, touches)
	errs := make([]error, touches)

	var wg sync.WaitGroup
	for i := 0; i < touches; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sessions[i], errs[i] = f.service.AuthenticateAndTouch(ctx, result.Token)
		}(i)
	}
	wg.Wait()

	// Every touch succeeds independently and grants the same identity.
	for i := 0; i < touches; i++ {
		require.NoError(t, errs[i])
		require.NotNil(t, sessions[i])
		assert.Equal(t, "user-1", sessions[i].UserID)
	}

	// Last write wins; the surviving deadline is a full lifetime out.
	final, err := f.sessions.Lookup(ctx, result.Token)
	require.NoError(t, err)
	assert.Equal(t, f.clock.Now().Add(testLifetime), final.ExpiresAt)
	assert.True(t, final.UsableAt(f.clock.Now()))
}

func TestAuthService_AuthenticateAndTouch_DeadSessionStaysDead(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)
	ctx := context.Background()

	result, err := f.service.Login(ctx, "google-sub-1", "google")
	require.NoError(t, err)
	require.NoError(t, f.service.Logout(ctx, result.Token))

	_, err = f.service.AuthenticateAndTouch(ctx, result.Token)
	assert.True(t, apperrors.IsUnauthorized(err))

	// A direct refresh against the dead session is a no-op, never a revival.
	require.NoError(t, f.sessions.Refresh(ctx, result.Token))
	session, err := f.sessions.Lookup(ctx, result.Token)
	require.NoError(t, err)
	assert.Equal(t, model.SessionStatusRevoked, session.Status)
	_, err = f.service.Authenticate(ctx, result.Token)
	assert.True(t, apperrors.IsUnauthorized(err))
}

func TestAuthService_Logout_Success(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)
	ctx := context.Background()

	result, err := f.service.Login(ctx, "google-sub-1", "google")
	require.NoError(t, err)

	require.NoError(t, f.service.Logout(ctx, result.Token))

	// The row survives revocation; only its status changed.
	session, err := f.sessions.Lookup(ctx, result.Token)
	require.NoError(t, err)
	assert.Equal(t, model.SessionStatusRevoked, session.Status)
}

func TestAuthService_Logout_Twice(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)
	ctx := context.Background()

	result, err := f.service.Login(ctx, "google-sub-1", "google")
	require.NoError(t, err)

	require.NoError(t, f.service.Logout(ctx, result.Token))
	err = f.service.Logout(ctx, result.Token)
	assert.True(t, apperrors.IsAlreadyRevoked(err))
}

func TestAuthService_Logout_UnknownToken(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)

	err := f.service.Logout(context.Background(), "deadbeef")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestAuthService_Snapshot_CachesAfterFirstRead(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)
	ctx := context.Background()

	first, err := f.service.Snapshot(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Ami", first.DisplayName)
	assert.Equal(t, 1, f.cache.Misses)
	assert.Equal(t, 1, f.cache.Sets)

	second, err := f.service.Snapshot(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, f.cache.Hits)
}

func TestAuthService_Snapshot_UnknownUser(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)

	_, err := f.service.Snapshot(context.Background(), "user-999")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestAuthService_Snapshot_NilCache(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)
	service := NewAuthService(AuthServiceOptions{
		Sessions:     f.sessions,
		Users:        f.users,
		TimeProvider: f.clock,
	})

	summary, err := service.Snapshot(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Ami", summary.DisplayName)
}
