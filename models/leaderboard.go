package models

// LeaderboardEntry is a read-side projection of an approved team's standing.
// Rank is the position in the store-ordered result, computed per response
// and never persisted.
type LeaderboardEntry struct {
	Rank           int         `json:"rank"`
	TeamID         int         `json:"team_id"`
	TeamName       string      `json:"team_name"`
	LeagueGroup    LeagueGroup `json:"league_group"`
	Played         int         `json:"played"`
	Wins           int         `json:"wins"`
	Draws          int         `json:"draws"`
	Losses         int         `json:"losses"`
	GoalsFor       int         `json:"goals_for"`
	GoalsAgainst   int         `json:"goals_against"`
	GoalDifference int         `json:"goal_difference"`
	Points         int         `json:"points"`
}
