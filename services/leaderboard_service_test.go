package services

import (
	"context"
	"testing"

	"github.com/Dosada05/matchday/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLeaderboardService_GetLeaderboard(t *testing.T) {
	t.Run("ranks follow the store order", func(t *testing.T) {
		teamRepo := new(MockTeamRepository)
		teamRepo.On("ListApprovedOrdered", mock.Anything, (*models.LeagueGroup)(nil)).Return([]models.Team{
			{ID: 1, Name: "Alpha FC", Points: 9, GoalDifference: 5, GoalsFor: 12},
			{ID: 2, Name: "Beta United", Points: 9, GoalDifference: 3, GoalsFor: 10},
			{ID: 3, Name: "Gamma Town", Points: 4, GoalDifference: -2, GoalsFor: 6},
		}, nil)

		svc := NewLeaderboardService(teamRepo)

		entries, err := svc.GetLeaderboard(context.Background(), nil)

		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, 1, entries[0].Rank)
		assert.Equal(t, "Alpha FC", entries[0].TeamName)
		assert.Equal(t, 2, entries[1].Rank)
		assert.Equal(t, 3, entries[2].Rank)
		assert.Equal(t, -2, entries[2].GoalDifference)
	})

	t.Run("invalid group filter", func(t *testing.T) {
		teamRepo := new(MockTeamRepository)
		svc := NewLeaderboardService(teamRepo)

		bad := models.LeagueGroup("Z")
		entries, err := svc.GetLeaderboard(context.Background(), &bad)

		assert.ErrorIs(t, err, ErrLeagueGroupInvalid)
		assert.Nil(t, entries)
		teamRepo.AssertNotCalled(t, "ListApprovedOrdered")
	})

	t.Run("group filter is passed through", func(t *testing.T) {
		teamRepo := new(MockTeamRepository)
		groupA := models.LeagueGroupA
		teamRepo.On("ListApprovedOrdered", mock.Anything, &groupA).Return([]models.Team{
			{ID: 1, Name: "Alpha FC", LeagueGroup: models.LeagueGroupA},
		}, nil)

		svc := NewLeaderboardService(teamRepo)

		entries, err := svc.GetLeaderboard(context.Background(), &groupA)

		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, models.LeagueGroupA, entries[0].LeagueGroup)
		teamRepo.AssertExpectations(t)
	})
}

func TestLeaderboardService_GetGroupedLeaderboard(t *testing.T) {
	teamRepo := new(MockTeamRepository)
	for _, group := range []models.LeagueGroup{models.LeagueGroupA, models.LeagueGroupB, models.LeagueGroupC} {
		g := group
		teamRepo.On("ListApprovedOrdered", mock.Anything, &g).Return([]models.Team{
			{ID: 1, Name: "Team " + string(g), LeagueGroup: g},
		}, nil)
	}

	svc := NewLeaderboardService(teamRepo)

	grouped, err := svc.GetGroupedLeaderboard(context.Background())

	require.NoError(t, err)
	require.Len(t, grouped, 3)
	for _, group := range []models.LeagueGroup{models.LeagueGroupA, models.LeagueGroupB, models.LeagueGroupC} {
		entries, ok := grouped[group]
		require.True(t, ok, "missing group %s", group)
		require.Len(t, entries, 1)
		assert.Equal(t, group, entries[0].LeagueGroup)
		assert.Equal(t, 1, entries[0].Rank)
	}
}
