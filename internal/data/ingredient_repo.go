package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rollbook/rollbook-api/internal/data/pgxutil"
	"github.com/rollbook/rollbook-api/internal/domain/model"
)

// IngredientRepo provides database operations for shared ingredient tags.
type IngredientRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewIngredientRepo creates a new IngredientRepo with real time provider.
func NewIngredientRepo(db *sql.DB) *IngredientRepo {
	return &IngredientRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewIngredientRepoWithTimeProvider creates a new IngredientRepo with a custom time provider (useful for tests).
func NewIngredientRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *IngredientRepo {
	return &IngredientRepo{DB: db, timeProvider: tp}
}

const (
	ingredientColumns = `id, name, status, created_by_user_id, created_at`

	ingredientListQuery = `
		SELECT id, name
		FROM ingredient_tags
		WHERE status = 1
		ORDER BY name`

	ingredientInsertQuery = `
		INSERT INTO ingredient_tags (id, name, status, created_by_user_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + ingredientColumns

	ingredientByNameQuery = `
		SELECT ` + ingredientColumns + `
		FROM ingredient_tags
		WHERE name = $1`
)

// ListActive returns all active ingredient tags, name-sorted.
func (r *IngredientRepo) ListActive(ctx context.Context) ([]*model.IngredientOption, error) {
	var options []*model.IngredientOption
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, qerr := conn.Query(ctx, ingredientListQuery)
		if qerr != nil {
			return qerr
		}
		defer rows.Close()
		options, qerr = pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[model.IngredientOption])
		return qerr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	return options, nil
}

// Create inserts a new active ingredient tag owned by userID. The name must
// already be normalized. Returns ErrIngredientExists on a name collision.
func (r *IngredientRepo) Create(ctx context.Context, userID string, req *model.CreateIngredientRequest) (*model.IngredientTag, error) {
	now := r.timeProvider.Now().UTC()
	var out model.IngredientTag
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, qerr := conn.Query(ctx, ingredientInsertQuery,
			uuid.NewString(), req.Name, model.IngredientStatusActive, userID, now)
		if qerr != nil {
			return qerr
		}
		defer rows.Close()
		out, qerr = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.IngredientTag])
		return qerr
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, ErrIngredientExists
		}
		return nil, fmt.Errorf("failed to create ingredient: %w", err)
	}
	return &out, nil
}

// GetByName fetches a tag by its normalized name.
func (r *IngredientRepo) GetByName(ctx context.Context, name string) (*model.IngredientTag, error) {
	var tag model.IngredientTag
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, qerr := conn.Query(ctx, ingredientByNameQuery, name)
		if qerr != nil {
			return qerr
		}
		defer rows.Close()
		tag, qerr = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.IngredientTag])
		return qerr
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrIngredientNotFound
		}
		return nil, fmt.Errorf("failed to get ingredient: %w", err)
	}
	return &tag, nil
}

// GetOrCreate returns the tag for the normalized name, creating it when
// absent. A concurrent insert losing the unique race falls back to a re-read.
func (r *IngredientRepo) GetOrCreate(ctx context.Context, userID, name string) (*model.IngredientTag, error) {
	name = model.NormalizeIngredientName(name)
	tag, err := r.GetByName(ctx, name)
	if err == nil {
		return tag, nil
	}
	if !errors.Is(err, ErrIngredientNotFound) {
		return nil, err
	}

	tag, err = r.Create(ctx, userID, &model.CreateIngredientRequest{Name: name})
	if err == nil {
		return tag, nil
	}
	if errors.Is(err, ErrIngredientExists) {
		return r.GetByName(ctx, name)
	}
	return nil, err
}
