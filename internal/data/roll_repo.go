package data

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rollbook/rollbook-api/internal/data/pgxutil"
	"github.com/rollbook/rollbook-api/internal/domain/model"
	apperrors "github.com/rollbook/rollbook-api/internal/errors"
)

// RollRepo provides database operations for roll logs and their ingredient
// links. Creating a roll with ingredient links runs in one transaction so a
// half-linked roll never becomes visible.
type RollRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewRollRepo creates a new RollRepo with real time provider.
func NewRollRepo(db *sql.DB) *RollRepo {
	return &RollRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewRollRepoWithTimeProvider creates a new RollRepo with a custom time provider (useful for tests).
func NewRollRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *RollRepo {
	return &RollRepo{DB: db, timeProvider: tp}
}

const (
	rollInsertQuery = `
		INSERT INTO rolls (id, user_id, roll_name, restaurant_name, restaurant_place_id, rating, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		RETURNING id, user_id, roll_name, restaurant_name, restaurant_place_id, rating, notes, created_at, updated_at`

	rollLinkIngredientQuery = `
		INSERT INTO roll_ingredients (roll_id, ingredient_tag_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`

	rollGroupsQuery = `
		SELECT roll_name, restaurant_name,
		       AVG(rating) AS avg_rating,
		       COUNT(*) AS ratings_count,
		       MAX(updated_at) AS last_updated_at
		FROM rolls
		GROUP BY roll_name, restaurant_name
		ORDER BY last_updated_at DESC`

	rollEntriesQuery = `
		SELECT r.id AS roll_id, r.notes, r.rating, u.display_name AS created_by, r.created_at
		FROM rolls r
		JOIN users u ON u.id = r.user_id
		WHERE r.roll_name = $1 AND r.restaurant_name = $2
		ORDER BY r.created_at DESC`

	rollEntryPhotosQuery = `
		SELECT roll_id, photo_url
		FROM roll_photos
		WHERE roll_id = ANY($1)
		ORDER BY created_at`

	rollEntryIngredientsQuery = `
		SELECT ri.roll_id, it.name
		FROM roll_ingredients ri
		JOIN ingredient_tags it ON it.id = ri.ingredient_tag_id
		WHERE ri.roll_id = ANY($1) AND it.status = 1
		ORDER BY it.name`

	// One thumbnail per group: the most recently attached photo across all of
	// the group's logs.
	rollGroupThumbsQuery = `
		SELECT DISTINCT ON (r.roll_name, r.restaurant_name)
		       r.roll_name, r.restaurant_name, p.photo_url
		FROM roll_photos p
		JOIN rolls r ON r.id = p.roll_id
		ORDER BY r.roll_name, r.restaurant_name, p.created_at DESC`

	rollGroupTagsQuery = `
		SELECT DISTINCT r.roll_name, r.restaurant_name, it.name
		FROM roll_ingredients ri
		JOIN rolls r ON r.id = ri.roll_id
		JOIN ingredient_tags it ON it.id = ri.ingredient_tag_id
		WHERE it.status = 1
		ORDER BY r.roll_name, r.restaurant_name, it.name`
)

// GroupKey identifies a roll group in the thumbnail and tag maps.
func GroupKey(rollName, restaurantName string) string {
	return rollName + "\x00" + restaurantName
}

// Create inserts a roll and its ingredient links atomically.
func (r *RollRepo) Create(ctx context.Context, userID string, req *model.CreateRollRequest) (*model.Roll, error) {
	now := r.timeProvider.Now().UTC()
	var out model.Roll
	err := pgxutil.WithPgxTx(ctx, r.DB, func(tx pgx.Tx) error {
		rows, qerr := tx.Query(ctx, rollInsertQuery,
			uuid.NewString(), userID, req.RollName, req.RestaurantName,
			req.RestaurantPlaceID, req.Rating, req.Notes, now)
		if qerr != nil {
			return qerr
		}
		out, qerr = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Roll])
		if qerr != nil {
			return qerr
		}
		for _, tagID := range req.IngredientTagIDs {
			if _, qerr = tx.Exec(ctx, rollLinkIngredientQuery, out.ID, tagID); qerr != nil {
				return qerr
			}
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.MapDBError(fmt.Errorf("failed to create roll: %w", err))
	}
	return &out, nil
}

// ListGroups returns rolls aggregated by dish and restaurant, newest first.
func (r *RollRepo) ListGroups(ctx context.Context) ([]*model.RollGroup, error) {
	var groups []*model.RollGroup
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, qerr := conn.Query(ctx, rollGroupsQuery)
		if qerr != nil {
			return qerr
		}
		defer rows.Close()
		groups, qerr = pgx.CollectRows(rows, pgx.RowToAddrOfStructByNameLax[model.RollGroup])
		return qerr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list roll groups: %w", err)
	}
	return groups, nil
}

// ListEntries returns the individual logs for one group, newest first, with
// photos and ingredient names attached.
func (r *RollRepo) ListEntries(ctx context.Context, rollName, restaurantName string) ([]*model.RollEntry, error) {
	var entries []*model.RollEntry
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, qerr := conn.Query(ctx, rollEntriesQuery, rollName, restaurantName)
		if qerr != nil {
			return qerr
		}
		entries, qerr = pgx.CollectRows(rows, pgx.RowToAddrOfStructByNameLax[model.RollEntry])
		if qerr != nil {
			return qerr
		}
		if len(entries) == 0 {
			return nil
		}

		ids := make([]string, 0, len(entries))
		byID := make(map[string]*model.RollEntry, len(entries))
		for _, e := range entries {
			ids = append(ids, e.RollID)
			byID[e.RollID] = e
		}

		if qerr = collectAttachments(ctx, conn, rollEntryPhotosQuery, ids, func(rollID, value string) {
			if e := byID[rollID]; e != nil {
				e.Photos = append(e.Photos, value)
			}
		}); qerr != nil {
			return qerr
		}
		return collectAttachments(ctx, conn, rollEntryIngredientsQuery, ids, func(rollID, value string) {
			if e := byID[rollID]; e != nil {
				e.Ingredients = append(e.Ingredients, value)
			}
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list roll entries: %w", err)
	}
	return entries, nil
}

func collectAttachments(ctx context.Context, conn *pgx.Conn, query string, ids []string, attach func(rollID, value string)) error {
	rows, err := conn.Query(ctx, query, ids)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var rollID, value string
		if err := rows.Scan(&rollID, &value); err != nil {
			return err
		}
		attach(rollID, value)
	}
	return rows.Err()
}

// LinkIngredient associates an ingredient tag with an existing roll.
func (r *RollRepo) LinkIngredient(ctx context.Context, rollID, ingredientTagID string) error {
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		_, execErr := conn.Exec(ctx, rollLinkIngredientQuery, rollID, ingredientTagID)
		return execErr
	})
	if err != nil {
		return apperrors.MapDBError(fmt.Errorf("failed to link ingredient: %w", err))
	}
	return nil
}

// GroupThumbnails returns the newest photo URL per group, keyed by GroupKey.
func (r *RollRepo) GroupThumbnails(ctx context.Context) (map[string]string, error) {
	thumbs := make(map[string]string)
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, qerr := conn.Query(ctx, rollGroupThumbsQuery)
		if qerr != nil {
			return qerr
		}
		defer rows.Close()
		for rows.Next() {
			var rollName, restaurantName, photoURL string
			if qerr = rows.Scan(&rollName, &restaurantName, &photoURL); qerr != nil {
				return qerr
			}
			thumbs[GroupKey(rollName, restaurantName)] = photoURL
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load group thumbnails: %w", err)
	}
	return thumbs, nil
}

// GroupTags returns the distinct active ingredient names per group, keyed by GroupKey.
func (r *RollRepo) GroupTags(ctx context.Context) (map[string][]string, error) {
	tags := make(map[string][]string)
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, qerr := conn.Query(ctx, rollGroupTagsQuery)
		if qerr != nil {
			return qerr
		}
		defer rows.Close()
		for rows.Next() {
			var rollName, restaurantName, name string
			if qerr = rows.Scan(&rollName, &restaurantName, &name); qerr != nil {
				return qerr
			}
			key := GroupKey(rollName, restaurantName)
			tags[key] = append(tags[key], name)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load group tags: %w", err)
	}
	return tags, nil
}
