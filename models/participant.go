package models

import "time"

type ParticipantStatus string

const (
	ParticipantStatusPending   ParticipantStatus = "pending"
	ParticipantStatusConfirmed ParticipantStatus = "confirmed"
	ParticipantStatusDeclined  ParticipantStatus = "declined"
)

// GameParticipant links a user to a pickup game. At most one row exists
// per (game, user) pair; the host never appears as a participant.
type GameParticipant struct {
	ID        int               `json:"id" db:"id"`
	GameID    int               `json:"game_id" db:"game_id"`
	UserID    int               `json:"user_id" db:"user_id"`
	Status    ParticipantStatus `json:"status" db:"status"`
	CreatedAt time.Time         `json:"created_at" db:"created_at"`

	User *User `json:"user,omitempty" db:"-"`
}
