package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/Dosada05/matchday/models"
	"github.com/Dosada05/matchday/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	adminID  = 1
	playerID = 2
)

func newAdminServiceForTest(
	teamRepo *MockTeamRepository,
	playerRepo *MockPlayerRepository,
	userRepo *MockUserRepository,
	uploader *MockFileUploader,
) AdminTeamService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewAdminTeamService(new(MockTransactor), teamRepo, playerRepo, userRepo, uploader, nil, logger)
}

func expectAdmin(userRepo *MockUserRepository) {
	userRepo.On("GetRole", mock.Anything, adminID).Return(models.RoleAdmin, nil)
}

func TestAdminTeamService_ApproveTeam(t *testing.T) {
	unassigned := models.LeagueGroupUnassigned

	tests := []struct {
		name        string
		callerID    int
		setupMocks  func(*MockUserRepository, *MockTeamRepository)
		expectedErr error
	}{
		{
			name:     "success assigns unassigned group",
			callerID: adminID,
			setupMocks: func(ur *MockUserRepository, tr *MockTeamRepository) {
				expectAdmin(ur)
				tr.On("TransitionPaymentStatus", mock.Anything, 10, models.PaymentStatusApproved, &unassigned).Return(nil)
				tr.On("GetByID", mock.Anything, 10).Return(&models.Team{
					ID:            10,
					PaymentStatus: models.PaymentStatusApproved,
					LeagueGroup:   models.LeagueGroupUnassigned,
				}, nil)
			},
		},
		{
			name:     "caller is not an admin",
			callerID: playerID,
			setupMocks: func(ur *MockUserRepository, tr *MockTeamRepository) {
				ur.On("GetRole", mock.Anything, playerID).Return(models.RolePlayer, nil)
			},
			expectedErr: ErrAdminRequired,
		},
		{
			name:     "unknown caller gets the authorization error",
			callerID: 999,
			setupMocks: func(ur *MockUserRepository, tr *MockTeamRepository) {
				ur.On("GetRole", mock.Anything, 999).Return(models.UserRole(""), repositories.ErrUserNotFound)
			},
			expectedErr: ErrAdminRequired,
		},
		{
			name:     "team not found",
			callerID: adminID,
			setupMocks: func(ur *MockUserRepository, tr *MockTeamRepository) {
				expectAdmin(ur)
				tr.On("TransitionPaymentStatus", mock.Anything, 10, models.PaymentStatusApproved, &unassigned).
					Return(repositories.ErrTeamNotFound)
			},
			expectedErr: ErrTeamNotFound,
		},
		{
			name:     "already decided teams stay final",
			callerID: adminID,
			setupMocks: func(ur *MockUserRepository, tr *MockTeamRepository) {
				expectAdmin(ur)
				tr.On("TransitionPaymentStatus", mock.Anything, 10, models.PaymentStatusApproved, &unassigned).
					Return(repositories.ErrTeamStatusNotPending)
			},
			expectedErr: ErrPaymentStatusFinal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := new(MockUserRepository)
			teamRepo := new(MockTeamRepository)
			tt.setupMocks(userRepo, teamRepo)

			svc := newAdminServiceForTest(teamRepo, new(MockPlayerRepository), userRepo, new(MockFileUploader))

			team, err := svc.ApproveTeam(context.Background(), tt.callerID, 10)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, team)
			} else {
				require.NoError(t, err)
				assert.Equal(t, models.PaymentStatusApproved, team.PaymentStatus)
				assert.Equal(t, models.LeagueGroupUnassigned, team.LeagueGroup)
			}
			userRepo.AssertExpectations(t)
			teamRepo.AssertExpectations(t)
		})
	}
}

func TestAdminTeamService_RejectTeam(t *testing.T) {
	t.Run("rejection does not touch the group", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		teamRepo := new(MockTeamRepository)
		expectAdmin(userRepo)
		teamRepo.On("TransitionPaymentStatus", mock.Anything, 10, models.PaymentStatusRejected, (*models.LeagueGroup)(nil)).Return(nil)
		teamRepo.On("GetByID", mock.Anything, 10).Return(&models.Team{
			ID:            10,
			PaymentStatus: models.PaymentStatusRejected,
		}, nil)

		svc := newAdminServiceForTest(teamRepo, new(MockPlayerRepository), userRepo, new(MockFileUploader))

		team, err := svc.RejectTeam(context.Background(), adminID, 10)

		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusRejected, team.PaymentStatus)
		teamRepo.AssertExpectations(t)
	})

	t.Run("rejected teams cannot be re-rejected", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		teamRepo := new(MockTeamRepository)
		expectAdmin(userRepo)
		teamRepo.On("TransitionPaymentStatus", mock.Anything, 10, models.PaymentStatusRejected, (*models.LeagueGroup)(nil)).
			Return(repositories.ErrTeamStatusNotPending)

		svc := newAdminServiceForTest(teamRepo, new(MockPlayerRepository), userRepo, new(MockFileUploader))

		_, err := svc.RejectTeam(context.Background(), adminID, 10)

		assert.ErrorIs(t, err, ErrPaymentStatusFinal)
	})
}

func TestAdminTeamService_AssignLeagueGroup(t *testing.T) {
	tests := []struct {
		name        string
		group       models.LeagueGroup
		setupMocks  func(*MockUserRepository, *MockTeamRepository)
		expectedErr error
	}{
		{
			name:  "success",
			group: models.LeagueGroupB,
			setupMocks: func(ur *MockUserRepository, tr *MockTeamRepository) {
				expectAdmin(ur)
				tr.On("AssignGroup", mock.Anything, 10, models.LeagueGroupB).Return(nil)
				tr.On("GetByID", mock.Anything, 10).Return(&models.Team{
					ID:          10,
					LeagueGroup: models.LeagueGroupB,
				}, nil)
			},
		},
		{
			name:  "unknown group",
			group: models.LeagueGroup("D"),
			setupMocks: func(ur *MockUserRepository, tr *MockTeamRepository) {
				expectAdmin(ur)
			},
			expectedErr: ErrLeagueGroupInvalid,
		},
		{
			name:  "team is not approved",
			group: models.LeagueGroupA,
			setupMocks: func(ur *MockUserRepository, tr *MockTeamRepository) {
				expectAdmin(ur)
				tr.On("AssignGroup", mock.Anything, 10, models.LeagueGroupA).
					Return(repositories.ErrTeamStatusNotApproved)
			},
			expectedErr: ErrTeamNotApproved,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := new(MockUserRepository)
			teamRepo := new(MockTeamRepository)
			tt.setupMocks(userRepo, teamRepo)

			svc := newAdminServiceForTest(teamRepo, new(MockPlayerRepository), userRepo, new(MockFileUploader))

			team, err := svc.AssignLeagueGroup(context.Background(), adminID, 10, tt.group)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, team)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.group, team.LeagueGroup)
			}
			teamRepo.AssertExpectations(t)
		})
	}
}

func TestAdminTeamService_RecordMatchResult(t *testing.T) {
	approvedTeam := func() *models.Team {
		return &models.Team{
			ID:            10,
			PaymentStatus: models.PaymentStatusApproved,
			LeagueGroup:   models.LeagueGroupA,
		}
	}
	override := 10

	tests := []struct {
		name           string
		input          MatchResultInput
		setupMocks     func(*MockUserRepository, *MockTeamRepository)
		expectedErr    error
		expectedPoints int
		expectedGD     int
	}{
		{
			name:  "points derived from wins and draws when omitted",
			input: MatchResultInput{Played: 5, Wins: 3, Draws: 1, Losses: 1, GoalsFor: 12, GoalsAgainst: 7},
			setupMocks: func(ur *MockUserRepository, tr *MockTeamRepository) {
				expectAdmin(ur)
				tr.On("GetByID", mock.Anything, 10).Return(approvedTeam(), nil)
				tr.On("UpdateMatchStats", mock.Anything, mock.MatchedBy(func(team *models.Team) bool {
					return team.Points == 10 && team.GoalDifference == 5
				})).Return(nil)
			},
			expectedPoints: 10,
			expectedGD:     5,
		},
		{
			name:  "manual points override is preserved",
			input: MatchResultInput{Played: 5, Wins: 3, Draws: 1, Losses: 1, GoalsFor: 12, GoalsAgainst: 7, Points: &override},
			setupMocks: func(ur *MockUserRepository, tr *MockTeamRepository) {
				expectAdmin(ur)
				tr.On("GetByID", mock.Anything, 10).Return(approvedTeam(), nil)
				tr.On("UpdateMatchStats", mock.Anything, mock.Anything).Return(nil)
			},
			expectedPoints: 10,
			expectedGD:     5,
		},
		{
			name:  "negative counters are rejected",
			input: MatchResultInput{Played: 1, Wins: -1, Draws: 1, Losses: 1},
			setupMocks: func(ur *MockUserRepository, tr *MockTeamRepository) {
				expectAdmin(ur)
			},
			expectedErr: ErrMatchResultInvalid,
		},
		{
			name:  "played must equal wins plus draws plus losses",
			input: MatchResultInput{Played: 4, Wins: 1, Draws: 1, Losses: 1},
			setupMocks: func(ur *MockUserRepository, tr *MockTeamRepository) {
				expectAdmin(ur)
			},
			expectedErr: ErrMatchResultInvalid,
		},
		{
			name:  "stats only for approved teams",
			input: MatchResultInput{Played: 1, Wins: 1},
			setupMocks: func(ur *MockUserRepository, tr *MockTeamRepository) {
				expectAdmin(ur)
				tr.On("GetByID", mock.Anything, 10).Return(&models.Team{
					ID:            10,
					PaymentStatus: models.PaymentStatusPending,
				}, nil)
			},
			expectedErr: ErrTeamNotApproved,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := new(MockUserRepository)
			teamRepo := new(MockTeamRepository)
			tt.setupMocks(userRepo, teamRepo)

			svc := newAdminServiceForTest(teamRepo, new(MockPlayerRepository), userRepo, new(MockFileUploader))

			team, err := svc.RecordMatchResult(context.Background(), adminID, 10, tt.input)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, team)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedPoints, team.Points)
				assert.Equal(t, tt.expectedGD, team.GoalDifference)
			}
			teamRepo.AssertExpectations(t)
		})
	}
}

func TestAdminTeamService_ListTeams(t *testing.T) {
	t.Run("non-admin is rejected before any lookup", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		teamRepo := new(MockTeamRepository)
		userRepo.On("GetRole", mock.Anything, playerID).Return(models.RolePlayer, nil)

		svc := newAdminServiceForTest(teamRepo, new(MockPlayerRepository), userRepo, new(MockFileUploader))

		_, err := svc.ListTeams(context.Background(), playerID, models.TeamFilter{Page: 1, Limit: 20})

		assert.ErrorIs(t, err, ErrAdminRequired)
		teamRepo.AssertNotCalled(t, "List")
	})

	t.Run("returns teams with pagination metadata", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		teamRepo := new(MockTeamRepository)
		expectAdmin(userRepo)
		filter := models.TeamFilter{Page: 2, Limit: 10}
		teamRepo.On("List", mock.Anything, filter).Return([]models.Team{{ID: 11}, {ID: 12}}, 25, nil)

		svc := newAdminServiceForTest(teamRepo, new(MockPlayerRepository), userRepo, new(MockFileUploader))

		res, err := svc.ListTeams(context.Background(), adminID, filter)

		require.NoError(t, err)
		assert.Len(t, res.Teams, 2)
		assert.Equal(t, 25, res.TotalCount)
		assert.Equal(t, 2, res.Page)
		assert.Equal(t, 10, res.Limit)
	})
}

func TestAdminTeamService_DeleteTeam_Authorization(t *testing.T) {
	t.Run("non-admin cannot delete", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		teamRepo := new(MockTeamRepository)
		userRepo.On("GetRole", mock.Anything, playerID).Return(models.RolePlayer, nil)

		svc := newAdminServiceForTest(teamRepo, new(MockPlayerRepository), userRepo, new(MockFileUploader))

		err := svc.DeleteTeam(context.Background(), playerID, 10)

		assert.ErrorIs(t, err, ErrAdminRequired)
		teamRepo.AssertNotCalled(t, "GetByID")
		teamRepo.AssertNotCalled(t, "Delete")
	})

	t.Run("missing team", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		teamRepo := new(MockTeamRepository)
		expectAdmin(userRepo)
		teamRepo.On("GetByID", mock.Anything, 10).Return(nil, repositories.ErrTeamNotFound)

		svc := newAdminServiceForTest(teamRepo, new(MockPlayerRepository), userRepo, new(MockFileUploader))

		err := svc.DeleteTeam(context.Background(), adminID, 10)

		assert.ErrorIs(t, err, ErrTeamNotFound)
	})

	t.Run("success removes roster, team and evidence object", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		teamRepo := new(MockTeamRepository)
		playerRepo := new(MockPlayerRepository)
		uploader := new(MockFileUploader)
		key := "payments/10/abc"
		expectAdmin(userRepo)
		teamRepo.On("GetByID", mock.Anything, 10).Return(&models.Team{
			ID:                 10,
			PaymentEvidenceKey: &key,
		}, nil)
		playerRepo.On("DeleteByTeamID", mock.Anything, mock.Anything, 10).Return(nil)
		teamRepo.On("Delete", mock.Anything, mock.Anything, 10).Return(nil)
		uploader.On("Delete", mock.Anything, key).Return(nil)

		svc := newAdminServiceForTest(teamRepo, playerRepo, userRepo, uploader)

		err := svc.DeleteTeam(context.Background(), adminID, 10)

		require.NoError(t, err)
		teamRepo.AssertExpectations(t)
		playerRepo.AssertExpectations(t)
		uploader.AssertExpectations(t)
	})
}
