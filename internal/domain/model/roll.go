package model

import (
	"strings"
	"time"

	apperrors "github.com/rollbook/rollbook-api/internal/errors"
)

// Roll is one logged dish entry. Re-logging the same dish creates a new row;
// the list view aggregates rows sharing (roll_name, restaurant_name).
type Roll struct {
	ID                string    `json:"id"                            db:"id"`
	UserID            string    `json:"user_id"                       db:"user_id"`
	RollName          string    `json:"roll_name"                     db:"roll_name"`
	RestaurantName    string    `json:"restaurant_name"               db:"restaurant_name"`
	RestaurantPlaceID *string   `json:"restaurant_place_id,omitempty" db:"restaurant_place_id"`
	Rating            float64   `json:"rating"                        db:"rating"`
	Notes             *string   `json:"notes,omitempty"               db:"notes"`
	CreatedAt         time.Time `json:"created_at"                    db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"                    db:"updated_at"`
}

// RollGroup is one aggregated row of the roll list: all logs of the same dish
// at the same restaurant, newest activity first.
type RollGroup struct {
	RollName       string    `json:"roll_name"       db:"roll_name"`
	RestaurantName string    `json:"restaurant_name" db:"restaurant_name"`
	AvgRating      float64   `json:"avg_rating"      db:"avg_rating"`
	RatingsCount   int       `json:"ratings_count"   db:"ratings_count"`
	LastUpdatedAt  time.Time `json:"last_updated_at" db:"last_updated_at"`
	ThumbURL       *string   `json:"thumb_url"`
	Tags           []string  `json:"tags"`
}

// RollEntry is one individual log inside a group, with its attachments.
type RollEntry struct {
	RollID      string    `json:"roll_id"    db:"roll_id"`
	Notes       *string   `json:"notes"      db:"notes"`
	Rating      float64   `json:"rating"     db:"rating"`
	CreatedBy   string    `json:"created_by" db:"created_by"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	Photos      []string  `json:"photos"`
	Ingredients []string  `json:"ingredients"`
}

// CreateRollRequest carries inputs for logging a roll. IngredientTagIDs
// reference existing ingredient tags.
type CreateRollRequest struct {
	RollName          string   `json:"roll_name"`
	RestaurantName    string   `json:"restaurant_name"`
	RestaurantPlaceID *string  `json:"restaurant_google_place_id,omitempty"`
	Rating            float64  `json:"rating"`
	Notes             *string  `json:"notes,omitempty"`
	IngredientTagIDs  []string `json:"ingredients,omitempty"`
}

// Validate checks required fields and trims names.
func (r *CreateRollRequest) Validate() error {
	r.RollName = strings.TrimSpace(r.RollName)
	r.RestaurantName = strings.TrimSpace(r.RestaurantName)
	if r.RollName == "" {
		return apperrors.ValidationField("roll_name", "roll_name is required")
	}
	if r.RestaurantName == "" {
		return apperrors.ValidationField("restaurant_name", "restaurant_name is required")
	}
	return nil
}

// RelogRollRequest carries inputs for re-logging a dish with free-form
// ingredient names. Names are normalized and tags created on demand.
type RelogRollRequest struct {
	RollName        string   `json:"roll_name"`
	RestaurantName  string   `json:"restaurant_name"`
	Rating          float64  `json:"rating"`
	Notes           *string  `json:"notes,omitempty"`
	IngredientNames []string `json:"ingredients"`
}

// Validate checks required fields and trims names.
func (r *RelogRollRequest) Validate() error {
	r.RollName = strings.TrimSpace(r.RollName)
	r.RestaurantName = strings.TrimSpace(r.RestaurantName)
	if r.RollName == "" {
		return apperrors.ValidationField("roll_name", "roll_name is required")
	}
	if r.RestaurantName == "" {
		return apperrors.ValidationField("restaurant_name", "restaurant_name is required")
	}
	return nil
}
