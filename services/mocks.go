package services

import (
	"context"
	"io"
	"time"

	"github.com/Dosada05/matchday/models"
	"github.com/Dosada05/matchday/repositories"
	"github.com/Dosada05/matchday/storage"
	"github.com/stretchr/testify/mock"
)

// Hand-written testify mocks for the repository and storage interfaces.
// Kept in the package so tests can exercise unexported service types.

// MockTransactor executes the function directly with no executor, so the
// repository mocks see the calls that would run inside the transaction.
type MockTransactor struct {
	mock.Mock
}

func (m *MockTransactor) WithinTransaction(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	return fn(nil)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetRole(ctx context.Context, id int) (models.UserRole, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.UserRole), args.Error(1)
}

type MockTeamRepository struct {
	mock.Mock
}

func (m *MockTeamRepository) Create(ctx context.Context, exec repositories.SQLExecutor, team *models.Team) error {
	args := m.Called(ctx, exec, team)
	return args.Error(0)
}

func (m *MockTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Team), args.Error(1)
}

func (m *MockTeamRepository) GetByIDWithPlayers(ctx context.Context, id int) (*models.Team, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Team), args.Error(1)
}

func (m *MockTeamRepository) List(ctx context.Context, filter models.TeamFilter) ([]models.Team, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]models.Team), args.Int(1), args.Error(2)
}

func (m *MockTeamRepository) ListApprovedOrdered(ctx context.Context, group *models.LeagueGroup) ([]models.Team, error) {
	args := m.Called(ctx, group)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Team), args.Error(1)
}

func (m *MockTeamRepository) UpdatePaymentEvidence(ctx context.Context, teamID int, evidenceKey, formRef *string) error {
	args := m.Called(ctx, teamID, evidenceKey, formRef)
	return args.Error(0)
}

func (m *MockTeamRepository) TransitionPaymentStatus(ctx context.Context, teamID int, to models.PaymentStatus, group *models.LeagueGroup) error {
	args := m.Called(ctx, teamID, to, group)
	return args.Error(0)
}

func (m *MockTeamRepository) AssignGroup(ctx context.Context, teamID int, group models.LeagueGroup) error {
	args := m.Called(ctx, teamID, group)
	return args.Error(0)
}

func (m *MockTeamRepository) UpdateMatchStats(ctx context.Context, team *models.Team) error {
	args := m.Called(ctx, team)
	return args.Error(0)
}

func (m *MockTeamRepository) Delete(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	args := m.Called(ctx, exec, id)
	return args.Error(0)
}

type MockPlayerRepository struct {
	mock.Mock
}

func (m *MockPlayerRepository) CreateBatch(ctx context.Context, exec repositories.SQLExecutor, players []*models.Player) error {
	args := m.Called(ctx, exec, players)
	return args.Error(0)
}

func (m *MockPlayerRepository) ListByTeamID(ctx context.Context, teamID int) ([]models.Player, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Player), args.Error(1)
}

func (m *MockPlayerRepository) DeleteByTeamID(ctx context.Context, exec repositories.SQLExecutor, teamID int) error {
	args := m.Called(ctx, exec, teamID)
	return args.Error(0)
}

type MockGameRepository struct {
	mock.Mock
}

func (m *MockGameRepository) Create(ctx context.Context, game *models.Game) error {
	args := m.Called(ctx, game)
	return args.Error(0)
}

func (m *MockGameRepository) GetByID(ctx context.Context, id int) (*models.Game, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Game), args.Error(1)
}

func (m *MockGameRepository) List(ctx context.Context, filter models.GameFilter) ([]models.Game, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Game), args.Error(1)
}

func (m *MockGameRepository) IncrementCurrentPlayers(ctx context.Context, exec repositories.SQLExecutor, gameID int) error {
	args := m.Called(ctx, exec, gameID)
	return args.Error(0)
}

func (m *MockGameRepository) DecrementCurrentPlayers(ctx context.Context, exec repositories.SQLExecutor, gameID int) error {
	args := m.Called(ctx, exec, gameID)
	return args.Error(0)
}

func (m *MockGameRepository) UpdateStatus(ctx context.Context, gameID int, from, to models.GameStatus) error {
	args := m.Called(ctx, gameID, from, to)
	return args.Error(0)
}

func (m *MockGameRepository) CompletePastGames(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

type MockGameParticipantRepository struct {
	mock.Mock
}

func (m *MockGameParticipantRepository) Create(ctx context.Context, exec repositories.SQLExecutor, p *models.GameParticipant) error {
	args := m.Called(ctx, exec, p)
	return args.Error(0)
}

func (m *MockGameParticipantRepository) FindByGameAndUser(ctx context.Context, gameID, userID int) (*models.GameParticipant, error) {
	args := m.Called(ctx, gameID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GameParticipant), args.Error(1)
}

func (m *MockGameParticipantRepository) ListByGame(ctx context.Context, gameID int) ([]models.GameParticipant, error) {
	args := m.Called(ctx, gameID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.GameParticipant), args.Error(1)
}

func (m *MockGameParticipantRepository) DeleteByGameAndUser(ctx context.Context, exec repositories.SQLExecutor, gameID, userID int) error {
	args := m.Called(ctx, exec, gameID, userID)
	return args.Error(0)
}

type MockFileUploader struct {
	mock.Mock
}

func (m *MockFileUploader) Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*storage.UploadResult, error) {
	args := m.Called(ctx, key, contentType, reader)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.UploadResult), args.Error(1)
}

func (m *MockFileUploader) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockFileUploader) GetPublicURL(key string) string {
	args := m.Called(key)
	return args.String(0)
}
