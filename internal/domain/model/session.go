//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import "time"

// SessionStatus is the stored session state. Expiry is not a stored state;
// it is derived at read time from expires_at.
type SessionStatus int

const (
	// SessionStatusRevoked marks a session explicitly invalidated by logout. Terminal.
	SessionStatusRevoked SessionStatus = 0
	// SessionStatusActive marks a live session.
	SessionStatusActive SessionStatus = 1
)

// TokenHexLen is the length of an encoded session token: 32 random bytes,
// hex-encoded to 64 characters (256 bits of entropy).
const TokenHexLen = 64

// Session is the durable record backing one opaque bearer token.
// One row is created per login event; a user may hold several concurrently
// valid sessions. Rows are never deleted, only flipped to revoked.
type Session struct {
	Token     string        `json:"token"      db:"token"`
	UserID    string        `json:"user_id"    db:"user_id"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`
	ExpiresAt time.Time     `json:"expires_at" db:"expires_at"`
	Status    SessionStatus `json:"status"     db:"status"`
}

// UsableAt reports whether the session grants access at the given instant.
// Both conditions are evaluated together against a single clock reading;
// callers must not split them across separate time lookups.
func (s Session) UsableAt(now time.Time) bool {
	return s.Status == SessionStatusActive && s.ExpiresAt.After(now)
}

// RemainingAt returns the time left before expiry at the given instant,
// clamped at zero.
func (s Session) RemainingAt(now time.Time) time.Duration {
	if remaining := s.ExpiresAt.Sub(now); remaining > 0 {
		return remaining
	}
	return 0
}
