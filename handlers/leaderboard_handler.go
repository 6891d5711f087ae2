package handlers

import (
	"net/http"

	"github.com/Dosada05/matchday/models"
	"github.com/Dosada05/matchday/services"
)

type LeaderboardHandler struct {
	leaderboardService services.LeaderboardService
}

func NewLeaderboardHandler(ls services.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboardService: ls}
}

// GetLeaderboard serves the public standings. An optional ?group= filter
// narrows the projection to one league group; ?grouped=true returns all
// groups keyed by name.
func (h *LeaderboardHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if q.Get("grouped") == "true" {
		grouped, err := h.leaderboardService.GetGroupedLeaderboard(r.Context())
		if err != nil {
			mapServiceErrorToHTTP(w, r, err)
			return
		}
		response := jsonResponse{"groups": grouped}
		if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
			serverErrorResponse(w, r, err)
		}
		return
	}

	var group *models.LeagueGroup
	if g := q.Get("group"); g != "" {
		lg := models.LeagueGroup(g)
		group = &lg
	}

	entries, err := h.leaderboardService.GetLeaderboard(r.Context(), group)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"leaderboard": entries}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
