package models

import "time"

type GameStatus string

const (
	GameStatusUpcoming  GameStatus = "upcoming"
	GameStatusCompleted GameStatus = "completed"
	GameStatusCancelled GameStatus = "cancelled"

	// GameStatusScheduled is a legacy alias still present in old rows,
	// treated the same as upcoming for join checks.
	GameStatusScheduled GameStatus = "scheduled"
)

func (s GameStatus) Open() bool {
	return s == GameStatusUpcoming || s == GameStatusScheduled
}

type Game struct {
	ID             int        `json:"id" db:"id"`
	HostUserID     int        `json:"host_user_id" db:"host_user_id"`
	Title          string     `json:"title" db:"title"`
	Location       string     `json:"location" db:"location"`
	Date           time.Time  `json:"date" db:"date"`
	MaxPlayers     int        `json:"max_players" db:"max_players"`
	CurrentPlayers int        `json:"current_players" db:"current_players"`
	Status         GameStatus `json:"status" db:"status"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`

	Host         *User             `json:"host,omitempty" db:"-"`
	Participants []GameParticipant `json:"participants,omitempty" db:"-"`
}

type GameFilter struct {
	Status *GameStatus
	HostID *int
	Page   int
	Limit  int
}
