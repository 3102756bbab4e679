package data

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/rollbook/rollbook-api/internal/data/pgxutil"
	"github.com/rollbook/rollbook-api/internal/domain/model"
)

// tokenBytes is the raw entropy per session token: 32 bytes, hex-encoded to
// 64 characters.
const tokenBytes = 32

// SessionRepo provides database operations for sessions. It exclusively owns
// the sessions table; all mutations are single-row atomic updates so a
// concurrent revoke and refresh cannot race into extending a dead session.
type SessionRepo struct {
	DB           *sql.DB
	lifetime     time.Duration
	timeProvider TimeProvider
}

// NewSessionRepo creates a new SessionRepo with the given sliding-expiration
// lifetime and real time provider.
func NewSessionRepo(db *sql.DB, lifetime time.Duration) *SessionRepo {
	return &SessionRepo{DB: db, lifetime: lifetime, timeProvider: &RealTimeProvider{}}
}

// NewSessionRepoWithTimeProvider creates a new SessionRepo with a custom time provider (useful for tests).
func NewSessionRepoWithTimeProvider(db *sql.DB, lifetime time.Duration, tp TimeProvider) *SessionRepo {
	return &SessionRepo{DB: db, lifetime: lifetime, timeProvider: tp}
}

// SQL for static session queries.
const (
	sessionInsertQuery = `
		INSERT INTO sessions (token, user_id, created_at, expires_at, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING token, user_id, created_at, expires_at, status`

	sessionLookupQuery = `
		SELECT token, user_id, created_at, expires_at, status
		FROM sessions
		WHERE token = $1`

	// The conditional refresh only matches live sessions; a refresh against a
	// revoked or already-expired row affects zero rows and leaves the prior
	// expiry untouched.
	sessionRefreshQuery = `
		UPDATE sessions
		SET expires_at = $1
		WHERE token = $2 AND status = 1 AND expires_at > $3`

	sessionRevokeQuery = `
		UPDATE sessions
		SET status = 0
		WHERE token = $1 AND status = 1`

	sessionStatusQuery = `
		SELECT status
		FROM sessions
		WHERE token = $1`
)

// Create generates a fresh opaque token and inserts a new active session with
// expires_at = now + lifetime.
func (r *SessionRepo) Create(ctx context.Context, userID string) (*model.Session, error) {
	token, err := generateToken()
	if err != nil {
		return nil, fmt.Errorf("generate session token: %w", err)
	}

	now := r.timeProvider.Now().UTC()
	var out model.Session
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, qerr := conn.Query(ctx, sessionInsertQuery,
			token, userID, now, now.Add(r.lifetime), model.SessionStatusActive)
		if qerr != nil {
			return qerr
		}
		defer rows.Close()
		out, qerr = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Session])
		return qerr
	}); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return &out, nil
}

// Lookup fetches a session by token. No side effects.
func (r *SessionRepo) Lookup(ctx context.Context, token string) (*model.Session, error) {
	var sess model.Session
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, qerr := conn.Query(ctx, sessionLookupQuery, token)
		if qerr != nil {
			return qerr
		}
		defer rows.Close()
		sess, qerr = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Session])
		return qerr
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}
	return &sess, nil
}

// Refresh extends expires_at to now + lifetime for a currently active,
// unexpired session. Idempotent: zero matched rows is a successful no-op.
func (r *SessionRepo) Refresh(ctx context.Context, token string) error {
	now := r.timeProvider.Now().UTC()
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		_, execErr := conn.Exec(ctx, sessionRefreshQuery, now.Add(r.lifetime), token, now)
		return execErr
	})
	if err != nil {
		return fmt.Errorf("failed to refresh session: %w", err)
	}
	return nil
}

// Revoke flips a session to revoked. The row is kept for audit history.
// Reports ErrSessionNotFound and ErrSessionRevoked as distinct conditions.
func (r *SessionRepo) Revoke(ctx context.Context, token string) error {
	var affected int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, execErr := conn.Exec(ctx, sessionRevokeQuery, token)
		if execErr != nil {
			return execErr
		}
		affected = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	if affected > 0 {
		return nil
	}

	// Zero rows matched: the session is either absent or already revoked.
	var status model.SessionStatus
	err = pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx, sessionStatusQuery, token).Scan(&status)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("failed to check session status: %w", err)
	}
	return ErrSessionRevoked
}

// generateToken returns a cryptographically random 64-hex-character token.
func generateToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
