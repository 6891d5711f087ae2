package services

import (
	"context"
	"strings"
	"testing"

	"github.com/Dosada05/matchday/models"
	"github.com/Dosada05/matchday/repositories"
	"github.com/Dosada05/matchday/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func makeRoster(n int, captainIdx int) []RosterRowInput {
	rows := make([]RosterRowInput, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, RosterRowInput{
			Name:      "Player " + strings.Repeat("x", i+1),
			Phone:     "+770000000" + string(rune('0'+i%10)),
			IsCaptain: i == captainIdx,
		})
	}
	return rows
}

func TestValidateRoster(t *testing.T) {
	tests := []struct {
		name        string
		rows        []RosterRowInput
		variant     models.TeamVariant
		expectedErr error
		expectedLen int
	}{
		{
			name:        "valid pickup roster",
			rows:        makeRoster(8, 0),
			variant:     models.TeamVariantPickup,
			expectedLen: 8,
		},
		{
			name:        "valid league roster",
			rows:        makeRoster(12, 0),
			variant:     models.TeamVariantLeague,
			expectedLen: 12,
		},
		{
			name: "blank rows are dropped before counting",
			rows: append(makeRoster(8, 0),
				RosterRowInput{}, RosterRowInput{}, RosterRowInput{}),
			variant:     models.TeamVariantPickup,
			expectedLen: 8,
		},
		{
			name: "partially filled row is rejected",
			rows: append(makeRoster(8, 0),
				RosterRowInput{Name: "No Phone Guy"}),
			variant:     models.TeamVariantPickup,
			expectedErr: ErrRosterRowIncomplete,
		},
		{
			name:        "pickup roster below minimum",
			rows:        makeRoster(7, 0),
			variant:     models.TeamVariantPickup,
			expectedErr: ErrRosterSizeInvalid,
		},
		{
			name:        "pickup roster above maximum",
			rows:        makeRoster(16, 0),
			variant:     models.TeamVariantPickup,
			expectedErr: ErrRosterSizeInvalid,
		},
		{
			name:        "league roster below minimum",
			rows:        makeRoster(11, 0),
			variant:     models.TeamVariantLeague,
			expectedErr: ErrRosterSizeInvalid,
		},
		{
			name:        "no captain flagged",
			rows:        makeRoster(8, -1),
			variant:     models.TeamVariantPickup,
			expectedErr: ErrRosterCaptainInvalid,
		},
		{
			name: "two captains flagged",
			rows: func() []RosterRowInput {
				rows := makeRoster(8, 0)
				rows[3].IsCaptain = true
				return rows
			}(),
			variant:     models.TeamVariantPickup,
			expectedErr: ErrRosterCaptainInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roster, err := validateRoster(tt.rows, tt.variant)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, roster)
				return
			}
			require.NoError(t, err)
			assert.Len(t, roster, tt.expectedLen)
		})
	}
}

func TestRegistrationService_RegisterTeam_Validation(t *testing.T) {
	tests := []struct {
		name        string
		input       RegisterTeamInput
		expectedErr error
	}{
		{
			name: "name too short",
			input: RegisterTeamInput{
				Name:          "ab",
				Variant:       models.TeamVariantPickup,
				Players:       makeRoster(8, 0),
				CaptainUserID: 1,
			},
			expectedErr: ErrTeamNameInvalid,
		},
		{
			name: "name too long",
			input: RegisterTeamInput{
				Name:          strings.Repeat("a", 51),
				Variant:       models.TeamVariantPickup,
				Players:       makeRoster(8, 0),
				CaptainUserID: 1,
			},
			expectedErr: ErrTeamNameInvalid,
		},
		{
			name: "unknown variant",
			input: RegisterTeamInput{
				Name:          "FC Example",
				Variant:       models.TeamVariant("futsal"),
				Players:       makeRoster(8, 0),
				CaptainUserID: 1,
			},
			expectedErr: ErrValidationFailed,
		},
		{
			name: "roster too small for variant",
			input: RegisterTeamInput{
				Name:          "FC Example",
				Variant:       models.TeamVariantLeague,
				Players:       makeRoster(8, 0),
				CaptainUserID: 1,
			},
			expectedErr: ErrRosterSizeInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			teamRepo := new(MockTeamRepository)
			playerRepo := new(MockPlayerRepository)
			uploader := new(MockFileUploader)

			svc := NewRegistrationService(new(MockTransactor), teamRepo, playerRepo, uploader)

			team, err := svc.RegisterTeam(context.Background(), tt.input)

			assert.ErrorIs(t, err, tt.expectedErr)
			assert.Nil(t, team)
			teamRepo.AssertNotCalled(t, "Create")
			playerRepo.AssertNotCalled(t, "CreateBatch")
		})
	}
}

func TestRegistrationService_RegisterTeam_Persistence(t *testing.T) {
	input := func(name string) RegisterTeamInput {
		return RegisterTeamInput{
			Name:          name,
			Variant:       models.TeamVariantPickup,
			Players:       makeRoster(8, 0),
			CaptainUserID: 1,
		}
	}

	t.Run("success writes team and roster together", func(t *testing.T) {
		teamRepo := new(MockTeamRepository)
		playerRepo := new(MockPlayerRepository)

		teamRepo.On("Create", mock.Anything, mock.Anything, mock.MatchedBy(func(team *models.Team) bool {
			return team.Name == "FC Example" &&
				team.PaymentStatus == models.PaymentStatusPending &&
				team.LeagueGroup == models.LeagueGroupUnassigned
		})).Run(func(args mock.Arguments) {
			args.Get(2).(*models.Team).ID = 42
		}).Return(nil)
		playerRepo.On("CreateBatch", mock.Anything, mock.Anything, mock.MatchedBy(func(players []*models.Player) bool {
			if len(players) != 8 {
				return false
			}
			for _, p := range players {
				if p.TeamID != 42 {
					return false
				}
			}
			return true
		})).Return(nil)

		svc := NewRegistrationService(new(MockTransactor), teamRepo, playerRepo, new(MockFileUploader))

		team, err := svc.RegisterTeam(context.Background(), input("FC Example"))

		require.NoError(t, err)
		assert.Equal(t, 42, team.ID)
		assert.Len(t, team.Players, 8)
		teamRepo.AssertExpectations(t)
		playerRepo.AssertExpectations(t)
	})

	t.Run("multibyte name counts runes not bytes", func(t *testing.T) {
		name := "Северное Сияние Калининград"
		require.Greater(t, len(name), 50)

		teamRepo := new(MockTeamRepository)
		playerRepo := new(MockPlayerRepository)
		teamRepo.On("Create", mock.Anything, mock.Anything, mock.MatchedBy(func(team *models.Team) bool {
			return team.Name == name
		})).Run(func(args mock.Arguments) {
			args.Get(2).(*models.Team).ID = 43
		}).Return(nil)
		playerRepo.On("CreateBatch", mock.Anything, mock.Anything, mock.Anything).Return(nil)

		svc := NewRegistrationService(new(MockTransactor), teamRepo, playerRepo, new(MockFileUploader))

		team, err := svc.RegisterTeam(context.Background(), input(name))

		require.NoError(t, err)
		assert.Equal(t, name, team.Name)
	})

	t.Run("name conflict from the unique constraint", func(t *testing.T) {
		teamRepo := new(MockTeamRepository)
		teamRepo.On("Create", mock.Anything, mock.Anything, mock.Anything).
			Return(repositories.ErrTeamNameConflict)

		svc := NewRegistrationService(new(MockTransactor), teamRepo, new(MockPlayerRepository), new(MockFileUploader))

		team, err := svc.RegisterTeam(context.Background(), input("FC Example"))

		assert.ErrorIs(t, err, ErrTeamNameConflict)
		assert.Nil(t, team)
	})

	t.Run("unknown captain", func(t *testing.T) {
		teamRepo := new(MockTeamRepository)
		teamRepo.On("Create", mock.Anything, mock.Anything, mock.Anything).
			Return(repositories.ErrTeamCaptainInvalid)

		svc := NewRegistrationService(new(MockTransactor), teamRepo, new(MockPlayerRepository), new(MockFileUploader))

		team, err := svc.RegisterTeam(context.Background(), input("FC Example"))

		assert.ErrorIs(t, err, ErrUserNotFound)
		assert.Nil(t, team)
	})
}

func TestRegistrationService_AttachPaymentEvidence(t *testing.T) {
	const teamID, captainID = 7, 42

	pendingTeam := func() *models.Team {
		return &models.Team{
			ID:            teamID,
			Name:          "FC Example",
			CaptainUserID: captainID,
			PaymentStatus: models.PaymentStatusPending,
		}
	}

	tests := []struct {
		name        string
		callerID    int
		contentType string
		size        int64
		setupMocks  func(*MockTeamRepository, *MockFileUploader)
		expectedErr error
	}{
		{
			name:        "success",
			callerID:    captainID,
			contentType: "image/png",
			size:        1024,
			setupMocks: func(tr *MockTeamRepository, up *MockFileUploader) {
				tr.On("GetByID", mock.Anything, teamID).Return(pendingTeam(), nil)
				up.On("Upload", mock.Anything, mock.MatchedBy(func(key string) bool {
					return strings.HasPrefix(key, "payments/7/")
				}), "image/png", mock.Anything).Return(&storage.UploadResult{Key: "payments/7/abc"}, nil)
				tr.On("UpdatePaymentEvidence", mock.Anything, teamID, mock.Anything, (*string)(nil)).Return(nil)
				up.On("GetPublicURL", "payments/7/abc").Return("https://cdn.example.com/payments/7/abc")
			},
		},
		{
			name:        "file too large",
			callerID:    captainID,
			contentType: "image/png",
			size:        maxEvidenceSize + 1,
			setupMocks:  func(tr *MockTeamRepository, up *MockFileUploader) {},
			expectedErr: ErrEvidenceTooLarge,
		},
		{
			name:        "not an image",
			callerID:    captainID,
			contentType: "application/pdf",
			size:        1024,
			setupMocks:  func(tr *MockTeamRepository, up *MockFileUploader) {},
			expectedErr: ErrEvidenceWrongType,
		},
		{
			name:        "caller is not the captain",
			callerID:    captainID + 1,
			contentType: "image/jpeg",
			size:        1024,
			setupMocks: func(tr *MockTeamRepository, up *MockFileUploader) {
				tr.On("GetByID", mock.Anything, teamID).Return(pendingTeam(), nil)
			},
			expectedErr: ErrCaptainRequired,
		},
		{
			name:        "team is no longer pending",
			callerID:    captainID,
			contentType: "image/jpeg",
			size:        1024,
			setupMocks: func(tr *MockTeamRepository, up *MockFileUploader) {
				team := pendingTeam()
				team.PaymentStatus = models.PaymentStatusApproved
				tr.On("GetByID", mock.Anything, teamID).Return(team, nil)
			},
			expectedErr: ErrTeamNotPending,
		},
		{
			name:        "team not found",
			callerID:    captainID,
			contentType: "image/jpeg",
			size:        1024,
			setupMocks: func(tr *MockTeamRepository, up *MockFileUploader) {
				tr.On("GetByID", mock.Anything, teamID).Return(nil, repositories.ErrTeamNotFound)
			},
			expectedErr: ErrTeamNotFound,
		},
		{
			name:        "failed db write compensates with object delete",
			callerID:    captainID,
			contentType: "image/png",
			size:        1024,
			setupMocks: func(tr *MockTeamRepository, up *MockFileUploader) {
				tr.On("GetByID", mock.Anything, teamID).Return(pendingTeam(), nil)
				up.On("Upload", mock.Anything, mock.Anything, "image/png", mock.Anything).
					Return(&storage.UploadResult{Key: "payments/7/abc"}, nil)
				tr.On("UpdatePaymentEvidence", mock.Anything, teamID, mock.Anything, (*string)(nil)).
					Return(repositories.ErrTeamNotFound)
				up.On("Delete", mock.Anything, "payments/7/abc").Return(nil)
			},
			expectedErr: ErrTeamNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			teamRepo := new(MockTeamRepository)
			playerRepo := new(MockPlayerRepository)
			uploader := new(MockFileUploader)
			tt.setupMocks(teamRepo, uploader)

			svc := NewRegistrationService(new(MockTransactor), teamRepo, playerRepo, uploader)

			team, err := svc.AttachPaymentEvidence(
				context.Background(), teamID, tt.callerID,
				strings.NewReader("fake image bytes"), tt.contentType, tt.size,
			)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, team)
			} else {
				require.NoError(t, err)
				require.NotNil(t, team.PaymentEvidenceKey)
				assert.Equal(t, "payments/7/abc", *team.PaymentEvidenceKey)
				require.NotNil(t, team.PaymentEvidenceURL)
				assert.Nil(t, team.PaymentFormRef)
			}
			teamRepo.AssertExpectations(t)
			uploader.AssertExpectations(t)
		})
	}
}

func TestRegistrationService_AttachPaymentReference(t *testing.T) {
	const teamID, captainID = 7, 42

	t.Run("empty reference is rejected", func(t *testing.T) {
		svc := NewRegistrationService(new(MockTransactor), new(MockTeamRepository), new(MockPlayerRepository), new(MockFileUploader))

		team, err := svc.AttachPaymentReference(context.Background(), teamID, captainID, "   ")

		assert.ErrorIs(t, err, ErrEvidenceRefRequired)
		assert.Nil(t, team)
	})

	t.Run("success replaces any uploaded evidence", func(t *testing.T) {
		teamRepo := new(MockTeamRepository)
		oldKey := "payments/7/old"
		teamRepo.On("GetByID", mock.Anything, teamID).Return(&models.Team{
			ID:                 teamID,
			CaptainUserID:      captainID,
			PaymentStatus:      models.PaymentStatusPending,
			PaymentEvidenceKey: &oldKey,
		}, nil)
		teamRepo.On("UpdatePaymentEvidence", mock.Anything, teamID, (*string)(nil), mock.MatchedBy(func(ref *string) bool {
			return ref != nil && *ref == "FORM-123"
		})).Return(nil)

		svc := NewRegistrationService(new(MockTransactor), teamRepo, new(MockPlayerRepository), new(MockFileUploader))

		team, err := svc.AttachPaymentReference(context.Background(), teamID, captainID, " FORM-123 ")

		require.NoError(t, err)
		assert.Nil(t, team.PaymentEvidenceKey)
		assert.Nil(t, team.PaymentEvidenceURL)
		require.NotNil(t, team.PaymentFormRef)
		assert.Equal(t, "FORM-123", *team.PaymentFormRef)
		teamRepo.AssertExpectations(t)
	})
}

func TestRegistrationService_GetTeamByID(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		teamRepo := new(MockTeamRepository)
		teamRepo.On("GetByIDWithPlayers", mock.Anything, 99).Return(nil, repositories.ErrTeamNotFound)

		svc := NewRegistrationService(new(MockTransactor), teamRepo, new(MockPlayerRepository), new(MockFileUploader))

		team, err := svc.GetTeamByID(context.Background(), 99)

		assert.ErrorIs(t, err, ErrTeamNotFound)
		assert.Nil(t, team)
	})

	t.Run("evidence url is populated from key", func(t *testing.T) {
		teamRepo := new(MockTeamRepository)
		uploader := new(MockFileUploader)
		key := "payments/5/abc"
		teamRepo.On("GetByIDWithPlayers", mock.Anything, 5).Return(&models.Team{
			ID:                 5,
			PaymentEvidenceKey: &key,
		}, nil)
		uploader.On("GetPublicURL", key).Return("https://cdn.example.com/" + key)

		svc := NewRegistrationService(new(MockTransactor), teamRepo, new(MockPlayerRepository), uploader)

		team, err := svc.GetTeamByID(context.Background(), 5)

		require.NoError(t, err)
		require.NotNil(t, team.PaymentEvidenceURL)
		assert.Equal(t, "https://cdn.example.com/payments/5/abc", *team.PaymentEvidenceURL)
	})
}
