package services

import (
	"context"
	"fmt"

	"github.com/Dosada05/matchday/models"
	"github.com/Dosada05/matchday/repositories"
	"golang.org/x/sync/errgroup"
)

// LeaderboardService is a pure read-side projection over approved teams.
// The ordering (points, goal difference, goals scored, all descending) is
// produced by the store; ranks are just positions in that result.
type LeaderboardService interface {
	GetLeaderboard(ctx context.Context, group *models.LeagueGroup) ([]models.LeaderboardEntry, error)
	GetGroupedLeaderboard(ctx context.Context) (map[models.LeagueGroup][]models.LeaderboardEntry, error)
}

type leaderboardService struct {
	teamRepo repositories.TeamRepository
}

func NewLeaderboardService(teamRepo repositories.TeamRepository) LeaderboardService {
	return &leaderboardService{teamRepo: teamRepo}
}

func (s *leaderboardService) GetLeaderboard(ctx context.Context, group *models.LeagueGroup) ([]models.LeaderboardEntry, error) {
	if group != nil && !group.Valid() {
		return nil, ErrLeagueGroupInvalid
	}

	teams, err := s.teamRepo.ListApprovedOrdered(ctx, group)
	if err != nil {
		return nil, fmt.Errorf("failed to load leaderboard: %w", err)
	}

	entries := make([]models.LeaderboardEntry, 0, len(teams))
	for i, t := range teams {
		entries = append(entries, models.LeaderboardEntry{
			Rank:           i + 1,
			TeamID:         t.ID,
			TeamName:       t.Name,
			LeagueGroup:    t.LeagueGroup,
			Played:         t.Played,
			Wins:           t.Wins,
			Draws:          t.Draws,
			Losses:         t.Losses,
			GoalsFor:       t.GoalsFor,
			GoalsAgainst:   t.GoalsAgainst,
			GoalDifference: t.GoalDifference,
			Points:         t.Points,
		})
	}
	return entries, nil
}

// GetGroupedLeaderboard loads the three league groups concurrently.
func (s *leaderboardService) GetGroupedLeaderboard(ctx context.Context) (map[models.LeagueGroup][]models.LeaderboardEntry, error) {
	groups := []models.LeagueGroup{models.LeagueGroupA, models.LeagueGroupB, models.LeagueGroupC}
	results := make([][]models.LeaderboardEntry, len(groups))

	g, gCtx := errgroup.WithContext(ctx)
	for i, group := range groups {
		i, group := i, group // per-iteration copies; required while building with go < 1.22
		g.Go(func() error {
			entries, err := s.GetLeaderboard(gCtx, &group)
			if err != nil {
				return fmt.Errorf("group %s: %w", group, err)
			}
			results[i] = entries
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	grouped := make(map[models.LeagueGroup][]models.LeaderboardEntry, len(groups))
	for i, group := range groups {
		grouped[group] = results[i]
	}
	return grouped, nil
}
