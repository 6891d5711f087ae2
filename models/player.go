package models

import "time"

// Player rows are created in bulk at team registration and are immutable
// in composition afterwards.
type Player struct {
	ID              int       `json:"id" db:"id"`
	TeamID          int       `json:"team_id" db:"team_id"`
	Name            string    `json:"name" db:"name"`
	Phone           string    `json:"phone" db:"phone"`
	InstagramHandle *string   `json:"instagram_handle,omitempty" db:"instagram_handle"`
	IsCaptain       bool      `json:"is_captain" db:"is_captain"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}
