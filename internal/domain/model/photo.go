package model

import "time"

// RollPhoto is a photo attached to one roll log. The file itself lives in the
// uploads directory; PhotoURL is the serving path.
type RollPhoto struct {
	ID        string    `json:"id"         db:"id"`
	RollID    string    `json:"roll_id"    db:"roll_id"`
	UserID    string    `json:"user_id"    db:"user_id"`
	PhotoURL  string    `json:"photo_url"  db:"photo_url"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
