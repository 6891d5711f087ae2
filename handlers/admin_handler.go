package handlers

import (
	"context"
	"net/http"

	"github.com/Dosada05/matchday/middleware"
	"github.com/Dosada05/matchday/models"
	"github.com/Dosada05/matchday/services"
)

type AdminTeamHandler struct {
	adminTeamService services.AdminTeamService
}

func NewAdminTeamHandler(s services.AdminTeamService) *AdminTeamHandler {
	return &AdminTeamHandler{adminTeamService: s}
}

func (h *AdminTeamHandler) ListTeams(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	q := r.URL.Query()
	filter := models.TeamFilter{
		Page:  toInt(q.Get("page"), 1),
		Limit: toInt(q.Get("limit"), 20),
	}
	if status := q.Get("status"); status != "" {
		s := models.PaymentStatus(status)
		filter.Status = &s
	}
	if group := q.Get("group"); group != "" {
		g := models.LeagueGroup(group)
		filter.Group = &g
	}

	res, err := h.adminTeamService.ListTeams(r.Context(), currentUserID, filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, res, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminTeamHandler) ApproveTeam(w http.ResponseWriter, r *http.Request) {
	h.runTransition(w, r, h.adminTeamService.ApproveTeam)
}

func (h *AdminTeamHandler) RejectTeam(w http.ResponseWriter, r *http.Request) {
	h.runTransition(w, r, h.adminTeamService.RejectTeam)
}

// runTransition is shared by approve and reject: both take the caller and the
// target team and return the team in its new state.
func (h *AdminTeamHandler) runTransition(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, callerID, teamID int) (*models.Team, error),
) {
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	team, err := op(r.Context(), currentUserID, teamID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"team": team}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminTeamHandler) AssignLeagueGroup(w http.ResponseWriter, r *http.Request) {
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	var input struct {
		Group models.LeagueGroup `json:"group"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, err := h.adminTeamService.AssignLeagueGroup(r.Context(), currentUserID, teamID, input.Group)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"team": team}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminTeamHandler) RecordMatchResult(w http.ResponseWriter, r *http.Request) {
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	var input services.MatchResultInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, err := h.adminTeamService.RecordMatchResult(r.Context(), currentUserID, teamID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"team": team}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminTeamHandler) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	err = h.adminTeamService.DeleteTeam(r.Context(), currentUserID, teamID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
