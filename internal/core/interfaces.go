// Package core defines the port interfaces the service layer depends on.
// Implementations live in internal/data and internal/adapters.
package core

import (
	"context"
	"time"

	"github.com/rollbook/rollbook-api/internal/domain/model"
)

// SessionRepository owns persistence and consistency of session rows.
// It is the only component that touches the sessions table.
type SessionRepository interface {
	// Create inserts a fresh active session for the user and returns it.
	Create(ctx context.Context, userID string) (*model.Session, error)

	// Lookup fetches a session by token. Returns data.ErrSessionNotFound
	// when no row exists. No side effects.
	Lookup(ctx context.Context, token string) (*model.Session, error)

	// Refresh extends expires_at to now + lifetime via a conditional update
	// that only matches sessions that are currently active and unexpired.
	// Refreshing a dead session is a successful no-op; it never resurrects.
	Refresh(ctx context.Context, token string) error

	// Revoke flips status to revoked. Returns data.ErrSessionNotFound when
	// no row exists and data.ErrSessionRevoked when already revoked.
	Revoke(ctx context.Context, token string) error
}

// UserRepository provides user account persistence.
type UserRepository interface {
	Create(ctx context.Context, req *model.CreateUserRequest) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	// GetByProvider fetches a user by the unique (provider_sub, auth_provider) pair.
	GetByProvider(ctx context.Context, providerSub, authProvider string) (*model.User, error)
	// TouchLastLogin stamps last_login for a successful login.
	TouchLastLogin(ctx context.Context, id string) error
	// UpdateDisplayName updates display_name and stamps mod_at.
	UpdateDisplayName(ctx context.Context, id, displayName string) (*model.User, error)
	// Snapshot returns the read-only "who am I" projection.
	Snapshot(ctx context.Context, id string) (*model.UserSummary, error)
}

// RollRepository provides roll log persistence.
type RollRepository interface {
	Create(ctx context.Context, userID string, req *model.CreateRollRequest) (*model.Roll, error)
	// ListGroups returns rolls aggregated by (roll_name, restaurant_name),
	// newest activity first. Thumbnails and tags are attached by the service.
	ListGroups(ctx context.Context) ([]*model.RollGroup, error)
	// ListEntries returns the individual logs for one group, newest first.
	ListEntries(ctx context.Context, rollName, restaurantName string) ([]*model.RollEntry, error)
	// LinkIngredient associates an ingredient tag with a roll.
	LinkIngredient(ctx context.Context, rollID, ingredientTagID string) error
	// GroupThumbnails returns the first photo URL per (roll_name, restaurant_name) group.
	GroupThumbnails(ctx context.Context) (map[string]string, error)
	// GroupTags returns the distinct active ingredient tag names per group.
	GroupTags(ctx context.Context) (map[string][]string, error)
}

// IngredientRepository provides ingredient tag persistence.
type IngredientRepository interface {
	ListActive(ctx context.Context) ([]*model.IngredientOption, error)
	Create(ctx context.Context, userID string, req *model.CreateIngredientRequest) (*model.IngredientTag, error)
	GetByName(ctx context.Context, name string) (*model.IngredientTag, error)
	// GetOrCreate returns the tag named name, creating it when absent.
	GetOrCreate(ctx context.Context, userID, name string) (*model.IngredientTag, error)
}

// PhotoRepository provides roll photo persistence.
type PhotoRepository interface {
	Create(ctx context.Context, photo *model.RollPhoto) (*model.RollPhoto, error)
	GetByID(ctx context.Context, id string) (*model.RollPhoto, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// SnapshotCache caches user snapshot projections. Implementations must treat
// a miss as (nil, nil) so callers fall through to the repository.
type SnapshotCache interface {
	Get(ctx context.Context, userID string) (*model.UserSummary, error)
	Set(ctx context.Context, summary *model.UserSummary, ttl time.Duration) error
	Delete(ctx context.Context, userID string) error
}
