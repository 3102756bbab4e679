package model

import (
	"strings"
	"time"
	"unicode/utf8"

	apperrors "github.com/rollbook/rollbook-api/internal/errors"
)

const maxIngredientNameLen = 100

// IngredientStatus mirrors UserStatus semantics for ingredient tags.
type IngredientStatus int

const (
	IngredientStatusInactive IngredientStatus = 0
	IngredientStatusActive   IngredientStatus = 1
)

// IngredientTag is a shared, community-curated ingredient label.
// Names are stored normalized (lowercase, trimmed) and unique.
type IngredientTag struct {
	ID              string           `json:"id"                 db:"id"`
	Name            string           `json:"name"               db:"name"`
	Status          IngredientStatus `json:"status"             db:"status"`
	CreatedByUserID string           `json:"created_by_user_id" db:"created_by_user_id"`
	CreatedAt       time.Time        `json:"created_at"         db:"created_at"`
}

// IngredientOption is the trimmed projection used by the listing endpoint.
type IngredientOption struct {
	ID   string `json:"id"   db:"id"`
	Name string `json:"name" db:"name"`
}

// NormalizeIngredientName lowercases and trims an ingredient name.
func NormalizeIngredientName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// CreateIngredientRequest carries inputs for adding an ingredient tag.
type CreateIngredientRequest struct {
	Name string `json:"name"`
}

// Validate normalizes and bounds the name.
func (r *CreateIngredientRequest) Validate() error {
	r.Name = NormalizeIngredientName(r.Name)
	if r.Name == "" {
		return apperrors.ValidationField("name", "ingredient name is required")
	}
	if utf8.RuneCountInString(r.Name) > maxIngredientNameLen {
		return apperrors.ValidationField("name", "ingredient name too long")
	}
	return nil
}
