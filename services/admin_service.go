package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/matchday/live"
	"github.com/Dosada05/matchday/models"
	"github.com/Dosada05/matchday/repositories"
	"github.com/Dosada05/matchday/storage"
)

type AdminTeamService interface {
	ListTeams(ctx context.Context, callerID int, filter models.TeamFilter) (models.TeamListResponse, error)
	ApproveTeam(ctx context.Context, callerID, teamID int) (*models.Team, error)
	RejectTeam(ctx context.Context, callerID, teamID int) (*models.Team, error)
	AssignLeagueGroup(ctx context.Context, callerID, teamID int, group models.LeagueGroup) (*models.Team, error)
	RecordMatchResult(ctx context.Context, callerID, teamID int, input MatchResultInput) (*models.Team, error)
	DeleteTeam(ctx context.Context, callerID, teamID int) error
}

// MatchResultInput carries the cumulative stat counters as entered by the
// administrator. Points is optional: when nil the standard 3/1/0 scoring is
// derived from wins and draws; a non-nil value always wins, so a manual
// override is never silently recomputed.
type MatchResultInput struct {
	Played       int  `json:"played"`
	Wins         int  `json:"wins"`
	Draws        int  `json:"draws"`
	Losses       int  `json:"losses"`
	GoalsFor     int  `json:"goals_for"`
	GoalsAgainst int  `json:"goals_against"`
	Points       *int `json:"points,omitempty"`
}

type adminTeamService struct {
	tx         repositories.Transactor
	teamRepo   repositories.TeamRepository
	playerRepo repositories.PlayerRepository
	userRepo   repositories.UserRepository
	uploader   storage.FileUploader
	hub        *live.Hub
	logger     *slog.Logger
}

func NewAdminTeamService(
	tx repositories.Transactor,
	teamRepo repositories.TeamRepository,
	playerRepo repositories.PlayerRepository,
	userRepo repositories.UserRepository,
	uploader storage.FileUploader,
	hub *live.Hub,
	logger *slog.Logger,
) AdminTeamService {
	return &adminTeamService{
		tx:         tx,
		teamRepo:   teamRepo,
		playerRepo: playerRepo,
		userRepo:   userRepo,
		uploader:   uploader,
		hub:        hub,
		logger:     logger,
	}
}

// requireAdmin re-reads the caller's role from the store on every privileged
// call. The role claim inside the JWT is deliberately not trusted here.
// The check runs before any team lookup, so a non-admin guessing a random id
// always gets the authorization error, never "not found".
func (s *adminTeamService) requireAdmin(ctx context.Context, callerID int) error {
	role, err := s.userRepo.GetRole(ctx, callerID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrAdminRequired
		}
		return fmt.Errorf("failed to verify caller role: %w", err)
	}
	if role != models.RoleAdmin {
		return ErrAdminRequired
	}
	return nil
}

func (s *adminTeamService) ListTeams(ctx context.Context, callerID int, filter models.TeamFilter) (models.TeamListResponse, error) {
	if err := s.requireAdmin(ctx, callerID); err != nil {
		return models.TeamListResponse{}, err
	}

	teams, total, err := s.teamRepo.List(ctx, filter)
	if err != nil {
		return models.TeamListResponse{}, fmt.Errorf("failed to list teams: %w", err)
	}

	for i := range teams {
		populateTeamEvidenceURL(&teams[i], s.uploader)
	}

	return models.TeamListResponse{
		Teams:      teams,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// ApproveTeam moves pending → approved. Entering the approved state assigns
// league_group = unassigned; actual group placement is a separate admin step.
func (s *adminTeamService) ApproveTeam(ctx context.Context, callerID, teamID int) (*models.Team, error) {
	return s.transition(ctx, callerID, teamID, models.PaymentStatusApproved)
}

// RejectTeam moves pending → rejected. Rejections are terminal, there is no
// rejected → pending path.
func (s *adminTeamService) RejectTeam(ctx context.Context, callerID, teamID int) (*models.Team, error) {
	return s.transition(ctx, callerID, teamID, models.PaymentStatusRejected)
}

func (s *adminTeamService) transition(ctx context.Context, callerID, teamID int, to models.PaymentStatus) (*models.Team, error) {
	if err := s.requireAdmin(ctx, callerID); err != nil {
		return nil, err
	}

	var group *models.LeagueGroup
	if to == models.PaymentStatusApproved {
		unassigned := models.LeagueGroupUnassigned
		group = &unassigned
	}

	err := s.teamRepo.TransitionPaymentStatus(ctx, teamID, to, group)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrTeamNotFound):
			return nil, ErrTeamNotFound
		case errors.Is(err, repositories.ErrTeamStatusNotPending):
			return nil, ErrPaymentStatusFinal
		}
		return nil, fmt.Errorf("failed to transition team %d to %s: %w", teamID, to, err)
	}

	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload team %d: %w", teamID, err)
	}
	populateTeamEvidenceURL(team, s.uploader)

	if s.hub != nil && to == models.PaymentStatusApproved {
		s.hub.BroadcastToRoom(live.RoomLeaderboard, live.EventTeamApproved, team)
	}

	s.logger.Info("team payment status changed",
		slog.Int("team_id", teamID),
		slog.String("status", string(to)),
		slog.Int("admin_id", callerID),
	)
	return team, nil
}

func (s *adminTeamService) AssignLeagueGroup(ctx context.Context, callerID, teamID int, group models.LeagueGroup) (*models.Team, error) {
	if err := s.requireAdmin(ctx, callerID); err != nil {
		return nil, err
	}
	if !group.Valid() {
		return nil, ErrLeagueGroupInvalid
	}

	err := s.teamRepo.AssignGroup(ctx, teamID, group)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrTeamNotFound):
			return nil, ErrTeamNotFound
		case errors.Is(err, repositories.ErrTeamStatusNotApproved):
			return nil, ErrTeamNotApproved
		}
		return nil, fmt.Errorf("failed to assign group for team %d: %w", teamID, err)
	}

	return s.teamRepo.GetByID(ctx, teamID)
}

func (s *adminTeamService) RecordMatchResult(ctx context.Context, callerID, teamID int, input MatchResultInput) (*models.Team, error) {
	if err := s.requireAdmin(ctx, callerID); err != nil {
		return nil, err
	}

	if input.Played < 0 || input.Wins < 0 || input.Draws < 0 || input.Losses < 0 ||
		input.GoalsFor < 0 || input.GoalsAgainst < 0 {
		return nil, ErrMatchResultInvalid
	}
	if input.Played != input.Wins+input.Draws+input.Losses {
		return nil, ErrMatchResultInvalid
	}
	if input.Points != nil && *input.Points < 0 {
		return nil, ErrMatchResultInvalid
	}

	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team %d: %w", teamID, err)
	}
	if team.PaymentStatus != models.PaymentStatusApproved {
		return nil, ErrTeamNotApproved
	}

	team.Played = input.Played
	team.Wins = input.Wins
	team.Draws = input.Draws
	team.Losses = input.Losses
	team.GoalsFor = input.GoalsFor
	team.GoalsAgainst = input.GoalsAgainst
	// goal_difference is derived, recomputed whenever goals change
	team.GoalDifference = input.GoalsFor - input.GoalsAgainst
	if input.Points != nil {
		team.Points = *input.Points
	} else {
		team.Points = derivePoints(input.Wins, input.Draws)
	}

	if err := s.teamRepo.UpdateMatchStats(ctx, team); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to update match stats for team %d: %w", teamID, err)
	}

	if s.hub != nil {
		s.hub.BroadcastToRoom(live.RoomLeaderboard, live.EventStandingsUpdated, team)
	}
	return team, nil
}

// derivePoints applies the standard 3/1/0 scoring rule.
func derivePoints(wins, draws int) int {
	return wins*3 + draws*1
}

// DeleteTeam removes the roster and the team in one transaction, so the
// foreign-key ordering (players first) can never strand a playerless team.
func (s *adminTeamService) DeleteTeam(ctx context.Context, callerID, teamID int) error {
	if err := s.requireAdmin(ctx, callerID); err != nil {
		return err
	}

	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to get team %d: %w", teamID, err)
	}

	err = s.tx.WithinTransaction(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.playerRepo.DeleteByTeamID(ctx, exec, teamID); err != nil {
			return err
		}
		return s.teamRepo.Delete(ctx, exec, teamID)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to delete team %d: %w", teamID, err)
	}

	// Evidence cleanup is best-effort: the team row is gone either way.
	if team.PaymentEvidenceKey != nil && s.uploader != nil {
		if err := s.uploader.Delete(ctx, *team.PaymentEvidenceKey); err != nil {
			s.logger.Warn("failed to delete payment evidence object",
				slog.Int("team_id", teamID),
				slog.String("key", *team.PaymentEvidenceKey),
				slog.Any("error", err),
			)
		}
	}

	s.logger.Info("team deleted", slog.Int("team_id", teamID), slog.Int("admin_id", callerID))
	return nil
}
