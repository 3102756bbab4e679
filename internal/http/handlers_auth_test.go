package httpx

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rollbook/rollbook-api/internal/data"
	"github.com/rollbook/rollbook-api/internal/domain/model"
	"github.com/rollbook/rollbook-api/internal/mocks/authmocks"
	"github.com/rollbook/rollbook-api/internal/service"
)

const testLifetime = 7 * 24 * time.Hour

type routerFixture struct {
	clock   *data.FixedTimeProvider
	users   *authmocks.MemoryUserRepo
	handler http.Handler
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	clock := data.NewFixedTimeProvider(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	sessions := authmocks.NewMemorySessionRepo(testLifetime, clock)
	users := authmocks.NewMemoryUserRepo(clock)
	users.Seed(&model.User{
		ID:           "user-1",
		ProviderSub:  "google-sub-1",
		AuthProvider: "google",
		Status:       model.UserStatusActive,
		Email:        "ami@example.com",
		DisplayName:  "Ami",
		Role:         model.RoleMember,
		JoinedAt:     clock.Now().Add(-24 * time.Hour),
	})

	authSvc := service.NewAuthService(service.AuthServiceOptions{
		Sessions:     sessions,
		Users:        users,
		TimeProvider: clock,
	})
	userSvc := service.NewUserService(service.UserServiceOptions{Users: users})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewRouter(RouterServices{
		Auth:   authSvc,
		Users:  userSvc,
		Logger: logger,
	})
	return &routerFixture{clock: clock, users: users, handler: handler}
}

func (f *routerFixture) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func (f *routerFixture) login(t *testing.T) *service.LoginResult {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/api/v1/auth/login", "",
		`{"provider_sub":"google-sub-1","auth_provider":"google"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result service.LoginResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	return &result
}

func TestRouter_Login_IssuesToken(t *testing.T) {
	t.Parallel()
	f := newRouterFixture(t)

	result := f.login(t)
	assert.Regexp(t, "^[0-9a-f]{64}$", result.Token)
	assert.Equal(t, "Ami", result.User.DisplayName)
	assert.Equal(t, f.clock.Now().Add(testLifetime), result.ExpiresAt)
}

func TestRouter_Login_UnknownIdentity(t *testing.T) {
	t.Parallel()
	f := newRouterFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/auth/login", "",
		`{"provider_sub":"nobody","auth_provider":"google"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_credentials")
}

func TestRouter_Login_MissingSub(t *testing.T) {
	t.Parallel()
	f := newRouterFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/auth/login", "", `{"auth_provider":"google"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_ProtectedRoute_UnauthorizedBodiesAreUniform(t *testing.T) {
	t.Parallel()
	f := newRouterFixture(t)

	expired := f.login(t)
	revoked := f.login(t)
	logout := f.do(t, http.MethodPost, "/api/v1/auth/logout", revoked.Token, "")
	require.Equal(t, http.StatusOK, logout.Code)
	f.clock.AddTime(testLifetime + time.Minute)

	// Missing header, garbage token, expired token, and revoked token must be
	// indistinguishable from the response alone.
	recMissing := f.do(t, http.MethodPatch, "/api/v1/users/me", "", `{"display_name":"New Name"}`)
	recGarbage := f.do(t, http.MethodPatch, "/api/v1/users/me", "ffff", `{"display_name":"New Name"}`)
	recExpired := f.do(t, http.MethodPatch, "/api/v1/users/me", expired.Token, `{"display_name":"New Name"}`)
	recRevoked := f.do(t, http.MethodPatch, "/api/v1/users/me", revoked.Token, `{"display_name":"New Name"}`)

	for _, rec := range []*httptest.ResponseRecorder{recMissing, recGarbage, recExpired, recRevoked} {
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}
	assert.Equal(t, recMissing.Body.String(), recGarbage.Body.String())
	assert.Equal(t, recGarbage.Body.String(), recExpired.Body.String())
	assert.Equal(t, recExpired.Body.String(), recRevoked.Body.String())
}

func TestRouter_Ping_DoesNotSlideExpiry(t *testing.T) {
	t.Parallel()
	f := newRouterFixture(t)

	result := f.login(t)
	f.clock.AddTime(24 * time.Hour)

	rec := f.do(t, http.MethodGet, "/api/v1/auth/ping", result.Token, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var ping pingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ping))
	// Still the original deadline: ping validates without touching.
	assert.Equal(t, result.ExpiresAt, ping.ExpiresAt)
	assert.Equal(t, model.SessionStatusActive, ping.Status)
	// Remaining lifetime is computed against the same clock that judged
	// validity, so it is exact: six of the seven days are left.
	assert.Equal(t, int64((6*24*time.Hour).Seconds()), ping.TimeRemaining)
	assert.Equal(t, "Ami", ping.User.DisplayName)
}

func TestRouter_Refresh_SlidesExpiry(t *testing.T) {
	t.Parallel()
	f := newRouterFixture(t)

	result := f.login(t)
	f.clock.AddTime(24 * time.Hour)

	rec := f.do(t, http.MethodPost, "/api/v1/auth/refresh", result.Token, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		ExpiresAt time.Time `json:"expires_at"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, f.clock.Now().Add(testLifetime), body.ExpiresAt)
}

func TestRouter_Logout_ReportsStateDistinctly(t *testing.T) {
	t.Parallel()
	f := newRouterFixture(t)

	result := f.login(t)

	first := f.do(t, http.MethodPost, "/api/v1/auth/logout", result.Token, "")
	assert.Equal(t, http.StatusOK, first.Code)

	second := f.do(t, http.MethodPost, "/api/v1/auth/logout", result.Token, "")
	assert.Equal(t, http.StatusConflict, second.Code)
	assert.Contains(t, second.Body.String(), "already_revoked")

	unknown := f.do(t, http.MethodPost, "/api/v1/auth/logout",
		strings.Repeat("0", 64), "")
	assert.Equal(t, http.StatusNotFound, unknown.Code)
}

func TestRouter_UpdateMe_WithValidSession(t *testing.T) {
	t.Parallel()
	f := newRouterFixture(t)

	result := f.login(t)
	rec := f.do(t, http.MethodPatch, "/api/v1/users/me", result.Token, `{"display_name":"Ami Rolls"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var user model.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, "Ami Rolls", user.DisplayName)
	require.NotNil(t, user.ModAt)
}

func TestRouter_CreateUser_Public(t *testing.T) {
	t.Parallel()
	f := newRouterFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/users", "",
		`{"provider_sub":"sub-new","auth_provider":"google","email":"new@example.com","display_name":"Newcomer"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	dup := f.do(t, http.MethodPost, "/api/v1/users", "",
		`{"provider_sub":"sub-new","auth_provider":"google","email":"new@example.com","display_name":"Newcomer"}`)
	assert.Equal(t, http.StatusConflict, dup.Code)
}

func TestRouter_Healthz(t *testing.T) {
	t.Parallel()
	f := newRouterFixture(t)

	rec := f.do(t, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRouter_OIDCStart_NotConfigured(t *testing.T) {
	t.Parallel()
	f := newRouterFixture(t)

	rec := f.do(t, http.MethodGet, "/api/v1/auth/oidc/start", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBearerToken(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, BearerToken(req))

	req.Header.Set("Authorization", "Basic abc")
	assert.Empty(t, BearerToken(req))

	req.Header.Set("Authorization", "Bearer  token-value ")
	assert.Equal(t, "token-value", BearerToken(req))
}
