package models

import "time"

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusApproved PaymentStatus = "approved"
	PaymentStatusRejected PaymentStatus = "rejected"
)

type LeagueGroup string

const (
	LeagueGroupA          LeagueGroup = "A"
	LeagueGroupB          LeagueGroup = "B"
	LeagueGroupC          LeagueGroup = "C"
	LeagueGroupUnassigned LeagueGroup = "unassigned"
)

func (g LeagueGroup) Valid() bool {
	switch g {
	case LeagueGroupA, LeagueGroupB, LeagueGroupC, LeagueGroupUnassigned:
		return true
	}
	return false
}

// TeamVariant separates the casual pickup roster rules from the league ones.
type TeamVariant string

const (
	TeamVariantPickup TeamVariant = "pickup"
	TeamVariantLeague TeamVariant = "league"
)

type Team struct {
	ID            int           `json:"id" db:"id"`
	Name          string        `json:"name" db:"name"`
	Variant       TeamVariant   `json:"variant" db:"variant"`
	CaptainUserID int           `json:"captain_user_id" db:"captain_user_id"`
	PaymentStatus PaymentStatus `json:"payment_status" db:"payment_status"`
	LeagueGroup   LeagueGroup   `json:"league_group" db:"league_group"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`

	// Evidence is either an uploaded image (key + public URL) or an external
	// form submission id, never both.
	PaymentEvidenceKey *string `json:"-" db:"payment_evidence_key"`
	PaymentEvidenceURL *string `json:"payment_evidence_url,omitempty" db:"-"`
	PaymentFormRef     *string `json:"payment_form_ref,omitempty" db:"payment_form_ref"`

	Played         int `json:"played" db:"played"`
	Wins           int `json:"wins" db:"wins"`
	Draws          int `json:"draws" db:"draws"`
	Losses         int `json:"losses" db:"losses"`
	GoalsFor       int `json:"goals_for" db:"goals_for"`
	GoalsAgainst   int `json:"goals_against" db:"goals_against"`
	GoalDifference int `json:"goal_difference" db:"goal_difference"`
	Points         int `json:"points" db:"points"`

	Captain *User    `json:"captain,omitempty" db:"-"`
	Players []Player `json:"players,omitempty" db:"-"`
}

type TeamFilter struct {
	Status *PaymentStatus
	Group  *LeagueGroup
	Page   int
	Limit  int
}

type TeamListResponse struct {
	Teams      []Team `json:"teams"`
	TotalCount int    `json:"total_count"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
}
