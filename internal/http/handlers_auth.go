package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/rollbook/rollbook-api/internal/adapters/oidc"
	"github.com/rollbook/rollbook-api/internal/domain/model"
	apperrors "github.com/rollbook/rollbook-api/internal/errors"
	"github.com/rollbook/rollbook-api/internal/service"
)

// AuthGate is the session gate surface the HTTP layer depends on.
type AuthGate interface {
	Login(ctx context.Context, providerSub, authProvider string) (*service.LoginResult, error)
	Authenticate(ctx context.Context, token string) (*model.Session, error)
	AuthenticateAndTouch(ctx context.Context, token string) (*model.Session, error)
	Logout(ctx context.Context, token string) error
	Snapshot(ctx context.Context, userID string) (*model.UserSummary, error)
	Now() time.Time
}

// AuthHandlers contains HTTP handlers for session endpoints.
type AuthHandlers struct {
	Svc    AuthGate
	Users  *service.UserService // used to provision accounts on first OIDC login
	OIDC   *oidc.Provider       // nil when AUTH_MODE=direct
	Logger *slog.Logger
}

const (
	oidcStateCookie = "oidc_state"
	oidcNonceCookie = "oidc_nonce"
)

type loginRequest struct {
	ProviderSub  string `json:"provider_sub"`
	AuthProvider string `json:"auth_provider"`
}

// Login handles POST /api/v1/auth/login: direct identity assertion for
// trusted callers. Issues a fresh session on success.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.ProviderSub == "" {
		WriteAppError(w, apperrors.ValidationField("provider_sub", "provider_sub is required"))
		return
	}
	if req.AuthProvider == "" {
		req.AuthProvider = "google"
	}

	result, err := h.Svc.Login(r.Context(), req.ProviderSub, req.AuthProvider)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

// Logout handles POST /api/v1/auth/logout: revokes the presented session.
// The session row is kept; only its status changes.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	token := BearerToken(r)
	if token == "" {
		WriteAppError(w, apperrors.Unauthorized("invalid session"))
		return
	}
	if err := h.Svc.Logout(r.Context(), token); err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

// Refresh handles POST /api/v1/auth/refresh: validates the session and
// slides its expiration window forward.
func (h *AuthHandlers) Refresh(w http.ResponseWriter, r *http.Request) {
	token := BearerToken(r)
	session, err := h.Svc.AuthenticateAndTouch(r.Context(), token)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"expires_at": session.ExpiresAt,
	})
}

// pingResponse reports session validity plus the caller's profile snapshot.
type pingResponse struct {
	CreatedAt     time.Time           `json:"created_at"`
	ExpiresAt     time.Time           `json:"expires_at"`
	Status        model.SessionStatus `json:"status"`
	TimeRemaining int64               `json:"time_remaining"`
	User          *model.UserSummary  `json:"user"`
}

// Ping handles GET /api/v1/auth/ping: validates the session WITHOUT sliding
// its expiration, so polling clients do not keep sessions alive forever.
func (h *AuthHandlers) Ping(w http.ResponseWriter, r *http.Request) {
	token := BearerToken(r)
	session, err := h.Svc.Authenticate(r.Context(), token)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	user, err := h.Svc.Snapshot(r.Context(), session.UserID)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, pingResponse{
		CreatedAt:     session.CreatedAt,
		ExpiresAt:     session.ExpiresAt,
		Status:        session.Status,
		TimeRemaining: int64(session.RemainingAt(h.Svc.Now()).Seconds()),
		User:          user,
	})
}

// OIDCStart handles GET /api/v1/auth/oidc/start: redirects to the identity
// provider with freshly minted state and nonce.
func (h *AuthHandlers) OIDCStart(w http.ResponseWriter, r *http.Request) {
	if h.OIDC == nil {
		WriteAppError(w, apperrors.NotFound("oidc login is not configured"))
		return
	}

	authURL, state, nonce, err := h.OIDC.Begin(r.Context())
	if err != nil {
		h.logError(r, "begin oidc flow", err)
		WriteAppError(w, apperrors.Wrap(err, apperrors.ErrCodeInternal, "begin login"))
		return
	}

	setFlowCookie(w, oidcStateCookie, state)
	setFlowCookie(w, oidcNonceCookie, nonce)
	http.Redirect(w, r, authURL, http.StatusSeeOther)
}

// OIDCCallback handles GET /api/v1/auth/oidc/callback: verifies the code
// flow, provisions an account on first login, and issues a session.
func (h *AuthHandlers) OIDCCallback(w http.ResponseWriter, r *http.Request) {
	if h.OIDC == nil {
		WriteAppError(w, apperrors.NotFound("oidc login is not configured"))
		return
	}

	state := r.URL.Query().Get("state")
	stateCookie, err := r.Cookie(oidcStateCookie)
	if err != nil || state == "" || stateCookie.Value != state {
		WriteAppError(w, apperrors.Unauthorized("invalid session"))
		return
	}
	nonce := ""
	if nonceCookie, cookieErr := r.Cookie(oidcNonceCookie); cookieErr == nil {
		nonce = nonceCookie.Value
	}
	clearFlowCookie(w, oidcStateCookie)
	clearFlowCookie(w, oidcNonceCookie)

	identity, err := h.OIDC.Exchange(r.Context(), r.URL.Query().Get("code"), nonce)
	if err != nil {
		h.logError(r, "oidc exchange", err)
		WriteAppError(w, apperrors.Unauthorized("invalid session"))
		return
	}

	result, err := h.Svc.Login(r.Context(), identity.Sub, identity.Provider)
	if apperrors.IsInvalidCredentials(err) && h.Users != nil {
		// First login through the provider: provision the account, then retry.
		if _, createErr := h.Users.Create(r.Context(), &model.CreateUserRequest{
			ProviderSub:  identity.Sub,
			AuthProvider: identity.Provider,
			Email:        identity.Email,
			DisplayName:  identity.Name,
		}); createErr != nil && !apperrors.IsConflict(createErr) {
			WriteAppError(w, createErr)
			return
		}
		result, err = h.Svc.Login(r.Context(), identity.Sub, identity.Provider)
	}
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

func (h *AuthHandlers) logError(r *http.Request, msg string, err error) {
	if h.Logger != nil {
		h.Logger.Error(msg, slog.Any("error", err), slog.String("path", r.URL.Path))
	}
}

func setFlowCookie(w http.ResponseWriter, name, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearFlowCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
