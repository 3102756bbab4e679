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

// PhotoRepo provides database operations for roll photos.
type PhotoRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewPhotoRepo creates a new PhotoRepo with real time provider.
func NewPhotoRepo(db *sql.DB) *PhotoRepo {
	return &PhotoRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewPhotoRepoWithTimeProvider creates a new PhotoRepo with a custom time provider (useful for tests).
func NewPhotoRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *PhotoRepo {
	return &PhotoRepo{DB: db, timeProvider: tp}
}

const (
	photoInsertQuery = `
		INSERT INTO roll_photos (id, roll_id, user_id, photo_url, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, roll_id, user_id, photo_url, created_at`

	photoByIDQuery = `
		SELECT id, roll_id, user_id, photo_url, created_at
		FROM roll_photos
		WHERE id = $1`

	photoDeleteQuery = `
		DELETE FROM roll_photos
		WHERE id = $1`
)

// Create inserts a photo record for a roll.
func (r *PhotoRepo) Create(ctx context.Context, photo *model.RollPhoto) (*model.RollPhoto, error) {
	now := r.timeProvider.Now().UTC()
	var out model.RollPhoto
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, qerr := conn.Query(ctx, photoInsertQuery,
			uuid.NewString(), photo.RollID, photo.UserID, photo.PhotoURL, now)
		if qerr != nil {
			return qerr
		}
		defer rows.Close()
		out, qerr = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.RollPhoto])
		return qerr
	})
	if err != nil {
		return nil, apperrors.MapDBError(fmt.Errorf("failed to create photo: %w", err))
	}
	return &out, nil
}

// GetByID fetches a photo record by primary key.
func (r *PhotoRepo) GetByID(ctx context.Context, id string) (*model.RollPhoto, error) {
	var photo model.RollPhoto
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, qerr := conn.Query(ctx, photoByIDQuery, id)
		if qerr != nil {
			return qerr
		}
		defer rows.Close()
		photo, qerr = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.RollPhoto])
		return qerr
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPhotoNotFound
		}
		return nil, fmt.Errorf("failed to get photo: %w", err)
	}
	return &photo, nil
}

// Delete removes a photo record. Returns false when no row matched.
func (r *PhotoRepo) Delete(ctx context.Context, id string) (bool, error) {
	var deleted bool
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, execErr := conn.Exec(ctx, photoDeleteQuery, id)
		if execErr != nil {
			return execErr
		}
		deleted = ct.RowsAffected() > 0
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete photo: %w", err)
	}
	return deleted, nil
}
