package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rollbook/rollbook-api/internal/data/pgxutil"
	"github.com/rollbook/rollbook-api/internal/domain/model"
	apperrors "github.com/rollbook/rollbook-api/internal/errors"
)

// UserRepo provides database operations for user accounts.
type UserRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewUserRepo creates a new UserRepo with real time provider.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewUserRepoWithTimeProvider creates a new UserRepo with a custom time provider (useful for tests).
func NewUserRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *UserRepo {
	return &UserRepo{DB: db, timeProvider: tp}
}

const (
	userColumns = `id, provider_sub, auth_provider, status, email, display_name, role, joined_at, last_login, mod_at`

	userInsertQuery = `
		INSERT INTO users (id, provider_sub, auth_provider, status, email, display_name, role, joined_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + userColumns

	userByIDQuery = `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1`

	userByProviderQuery = `
		SELECT ` + userColumns + `
		FROM users
		WHERE provider_sub = $1 AND auth_provider = $2`

	userTouchLoginQuery = `
		UPDATE users
		SET last_login = $1
		WHERE id = $2`

	userUpdateNameQuery = `
		UPDATE users
		SET display_name = $1, mod_at = $2
		WHERE id = $3
		RETURNING ` + userColumns

	userSnapshotQuery = `
		SELECT id, email, display_name, role, joined_at
		FROM users
		WHERE id = $1`
)

// Create provisions a new active member account.
func (r *UserRepo) Create(ctx context.Context, req *model.CreateUserRequest) (*model.User, error) {
	now := r.timeProvider.Now().UTC()
	var out model.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, qerr := conn.Query(ctx, userInsertQuery,
			uuid.NewString(), req.ProviderSub, req.AuthProvider, model.UserStatusActive,
			req.Email, req.DisplayName, model.RoleMember, now)
		if qerr != nil {
			return qerr
		}
		defer rows.Close()
		out, qerr = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		return qerr
	})
	if err != nil {
		return nil, apperrors.MapDBError(fmt.Errorf("failed to create user: %w", err))
	}
	return &out, nil
}

// GetByID fetches a user account by primary key.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.getByQuery(ctx, userByIDQuery, id)
}

// GetByProvider fetches a user by the unique (provider_sub, auth_provider) pair.
func (r *UserRepo) GetByProvider(ctx context.Context, providerSub, authProvider string) (*model.User, error) {
	return r.getByQuery(ctx, userByProviderQuery, providerSub, authProvider)
}

func (r *UserRepo) getByQuery(ctx context.Context, query string, args ...any) (*model.User, error) {
	var user model.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, qerr := conn.Query(ctx, query, args...)
		if qerr != nil {
			return qerr
		}
		defer rows.Close()
		user, qerr = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		return qerr
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// TouchLastLogin stamps last_login for a successful login.
func (r *UserRepo) TouchLastLogin(ctx context.Context, id string) error {
	now := r.timeProvider.Now().UTC()
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, execErr := conn.Exec(ctx, userTouchLoginQuery, now, id)
		if execErr != nil {
			return execErr
		}
		if ct.RowsAffected() == 0 {
			return ErrUserNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return err
		}
		return fmt.Errorf("failed to touch last login: %w", err)
	}
	return nil
}

// UpdateDisplayName updates display_name and stamps mod_at.
func (r *UserRepo) UpdateDisplayName(ctx context.Context, id, displayName string) (*model.User, error) {
	now := r.timeProvider.Now().UTC()
	var out model.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, qerr := conn.Query(ctx, userUpdateNameQuery, displayName, now, id)
		if qerr != nil {
			return qerr
		}
		defer rows.Close()
		out, qerr = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		return qerr
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update display name: %w", err)
	}
	return &out, nil
}

// Snapshot returns the read-only profile projection for a user.
func (r *UserRepo) Snapshot(ctx context.Context, id string) (*model.UserSummary, error) {
	var summary model.UserSummary
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, qerr := conn.Query(ctx, userSnapshotQuery, id)
		if qerr != nil {
			return qerr
		}
		defer rows.Close()
		summary, qerr = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.UserSummary])
		return qerr
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user snapshot: %w", err)
	}
	return &summary, nil
}
