// Package service implements the application use cases on top of the
// repository ports.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/rollbook/rollbook-api/internal/core"
	"github.com/rollbook/rollbook-api/internal/data"
	"github.com/rollbook/rollbook-api/internal/domain/model"
	apperrors "github.com/rollbook/rollbook-api/internal/errors"
)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Sessions     core.SessionRepository
	Users        core.UserRepository
	Cache        core.SnapshotCache // optional; nil disables snapshot caching
	TimeProvider data.TimeProvider  // optional; defaults to real time
	SnapshotTTL  time.Duration
}

// AuthService is the gate in front of every protected operation. It validates
// session tokens and deliberately reports one uniform unauthorized outcome
// for missing, expired, and revoked tokens so callers cannot probe which
// condition a given token is in.
type AuthService struct {
	sessions     core.SessionRepository
	users        core.UserRepository
	cache        core.SnapshotCache
	timeProvider data.TimeProvider
	snapshotTTL  time.Duration
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	tp := opts.TimeProvider
	if tp == nil {
		tp = &data.RealTimeProvider{}
	}
	return &AuthService{
		sessions:     opts.Sessions,
		users:        opts.Users,
		cache:        opts.Cache,
		timeProvider: tp,
		snapshotTTL:  opts.SnapshotTTL,
	}
}

// Now reports the service's clock. Callers deriving values from a session's
// expiry (such as remaining lifetime) must use this clock, not their own, so
// a single time source backs every session decision.
func (s *AuthService) Now() time.Time {
	return s.timeProvider.Now()
}

// LoginResult contains the session issued for a successful login.
type LoginResult struct {
	Token     string             `json:"token"`
	ExpiresAt time.Time          `json:"expires_at"`
	User      *model.UserSummary `json:"user"`
}

// Login authenticates an identity-provider pair and issues a fresh session.
// Unknown identities get invalid_credentials; deactivated accounts get
// forbidden. Each login creates a new session without disturbing prior ones.
func (s *AuthService) Login(ctx context.Context, providerSub, authProvider string) (*LoginResult, error) {
	user, err := s.users.GetByProvider(ctx, providerSub, authProvider)
	if err != nil {
		if errors.Is(err, data.ErrUserNotFound) {
			return nil, apperrors.InvalidCredentials("unknown identity")
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "look up identity")
	}
	if user.Status != model.UserStatusActive {
		return nil, apperrors.Forbidden("account is deactivated")
	}

	if err := s.users.TouchLastLogin(ctx, user.ID); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "record login")
	}

	session, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "create session")
	}

	summary, err := s.Snapshot(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		User:      summary,
	}, nil
}

// Authenticate validates a token without side effects. The session must be
// active and unexpired, both judged against a single clock reading.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*model.Session, error) {
	if token == "" {
		return nil, apperrors.Unauthorized("invalid session")
	}
	session, err := s.sessions.Lookup(ctx, token)
	if err != nil {
		if errors.Is(err, data.ErrSessionNotFound) {
			return nil, apperrors.Unauthorized("invalid session")
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "look up session")
	}
	if !session.UsableAt(s.timeProvider.Now()) {
		return nil, apperrors.Unauthorized("invalid session")
	}
	return session, nil
}

// AuthenticateAndTouch validates a token and slides its expiration forward.
// The returned session carries the extended expiry. Touching can only ever
// push the deadline out; a dead session is never resurrected.
func (s *AuthService) AuthenticateAndTouch(ctx context.Context, token string) (*model.Session, error) {
	session, err := s.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Refresh(ctx, session.Token); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "refresh session")
	}
	refreshed, err := s.sessions.Lookup(ctx, session.Token)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "reload session")
	}
	return refreshed, nil
}

// Logout revokes a session. Unlike authentication, revocation reports the
// not-found and already-revoked conditions distinctly.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	err := s.sessions.Revoke(ctx, token)
	if err == nil {
		return nil
	}
	if errors.Is(err, data.ErrSessionNotFound) {
		return apperrors.NotFound("session not found")
	}
	if errors.Is(err, data.ErrSessionRevoked) {
		return apperrors.AlreadyRevoked("session already revoked")
	}
	return apperrors.Wrap(err, apperrors.ErrCodeInternal, "revoke session")
}

// Snapshot returns the read-only profile projection for a user, consulting
// the cache first when one is configured.
func (s *AuthService) Snapshot(ctx context.Context, userID string) (*model.UserSummary, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, userID); err == nil && cached != nil {
			return cached, nil
		}
		// Cache errors degrade to a direct read.
	}

	summary, err := s.users.Snapshot(ctx, userID)
	if err != nil {
		if errors.Is(err, data.ErrUserNotFound) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "load user snapshot")
	}

	if s.cache != nil {
		// Best effort; the authoritative copy lives in postgres.
		_ = s.cache.Set(ctx, summary, s.snapshotTTL)
	}
	return summary, nil
}
