package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Dosada05/matchday/live"
	"github.com/Dosada05/matchday/models"
	"github.com/Dosada05/matchday/repositories"
)

type GameService interface {
	CreateGame(ctx context.Context, hostID int, input CreateGameInput) (*models.Game, error)
	GetGameByID(ctx context.Context, gameID int) (*models.Game, error)
	ListGames(ctx context.Context, filter models.GameFilter) ([]models.Game, error)
	JoinGame(ctx context.Context, gameID, userID int) (*models.GameParticipant, error)
	LeaveGame(ctx context.Context, gameID, userID int) error
	CancelGame(ctx context.Context, gameID, hostID int) (*models.Game, error)
	CompletePastGames(ctx context.Context) error
}

type CreateGameInput struct {
	Title      string    `json:"title"`
	Location   string    `json:"location"`
	Date       time.Time `json:"date"`
	MaxPlayers int       `json:"max_players"`
}

type gameService struct {
	tx              repositories.Transactor
	gameRepo        repositories.GameRepository
	participantRepo repositories.GameParticipantRepository
	hub             *live.Hub
	logger          *slog.Logger
}

func NewGameService(
	tx repositories.Transactor,
	gameRepo repositories.GameRepository,
	participantRepo repositories.GameParticipantRepository,
	hub *live.Hub,
	logger *slog.Logger,
) GameService {
	return &gameService{
		tx:              tx,
		gameRepo:        gameRepo,
		participantRepo: participantRepo,
		hub:             hub,
		logger:          logger,
	}
}

func (s *gameService) CreateGame(ctx context.Context, hostID int, input CreateGameInput) (*models.Game, error) {
	title := strings.TrimSpace(input.Title)
	location := strings.TrimSpace(input.Location)
	if title == "" || location == "" {
		return nil, fmt.Errorf("%w: title and location are required", ErrValidationFailed)
	}
	if !input.Date.After(time.Now()) {
		return nil, ErrGameDateInPast
	}
	if input.MaxPlayers < 2 {
		return nil, ErrGameCapacityInvalid
	}

	game := &models.Game{
		HostUserID:     hostID,
		Title:          title,
		Location:       location,
		Date:           input.Date,
		MaxPlayers:     input.MaxPlayers,
		CurrentPlayers: 0,
		Status:         models.GameStatusUpcoming,
	}

	if err := s.gameRepo.Create(ctx, game); err != nil {
		if errors.Is(err, repositories.ErrGameHostInvalid) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to create game: %w", err)
	}
	return game, nil
}

func (s *gameService) GetGameByID(ctx context.Context, gameID int) (*models.Game, error) {
	game, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to get game %d: %w", gameID, err)
	}

	participants, err := s.participantRepo.ListByGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants for game %d: %w", gameID, err)
	}
	game.Participants = participants
	return game, nil
}

func (s *gameService) ListGames(ctx context.Context, filter models.GameFilter) ([]models.Game, error) {
	games, err := s.gameRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	if games == nil {
		return []models.Game{}, nil
	}
	return games, nil
}

// JoinGame admits a user into a pickup game. The precondition checks run in a
// fixed order so every rejection reason stays distinguishable; the participant
// insert and the counter bump then share one transaction, and the conditional
// increment is what makes the capacity bound hold under concurrent joins.
func (s *gameService) JoinGame(ctx context.Context, gameID, userID int) (*models.GameParticipant, error) {
	game, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to get game %d: %w", gameID, err)
	}

	if game.HostUserID == userID {
		return nil, ErrHostCannotJoin
	}
	if !game.Status.Open() {
		return nil, ErrGameNotOpen
	}
	if game.CurrentPlayers >= game.MaxPlayers {
		return nil, ErrGameFull
	}

	if _, err := s.participantRepo.FindByGameAndUser(ctx, gameID, userID); err == nil {
		return nil, ErrAlreadyJoined
	} else if !errors.Is(err, repositories.ErrParticipantNotFound) {
		return nil, fmt.Errorf("failed to check existing participation: %w", err)
	}

	participant := &models.GameParticipant{
		GameID: gameID,
		UserID: userID,
		Status: models.ParticipantStatusConfirmed,
	}

	err = s.tx.WithinTransaction(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.participantRepo.Create(ctx, exec, participant); err != nil {
			return err
		}
		return s.gameRepo.IncrementCurrentPlayers(ctx, exec, gameID)
	})
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrParticipantConflict):
			return nil, ErrAlreadyJoined
		case errors.Is(err, repositories.ErrGameCapacityReached):
			return nil, ErrGameFull
		}
		return nil, fmt.Errorf("failed to join game %d: %w", gameID, err)
	}

	if s.hub != nil {
		s.hub.BroadcastToRoom(live.GameRoom(gameID), live.EventPlayerJoined, participant)
	}

	s.logger.Info("user joined game", slog.Int("game_id", gameID), slog.Int("user_id", userID))
	return participant, nil
}

// LeaveGame removes the participant row and decrements the counter in one
// transaction, keeping current_players consistent with the actual roster.
func (s *gameService) LeaveGame(ctx context.Context, gameID, userID int) error {
	err := s.tx.WithinTransaction(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.participantRepo.DeleteByGameAndUser(ctx, exec, gameID, userID); err != nil {
			return err
		}
		return s.gameRepo.DecrementCurrentPlayers(ctx, exec, gameID)
	})
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrParticipantNotFound):
			return ErrParticipantNotFound
		case errors.Is(err, repositories.ErrGameNotFound):
			return ErrGameNotFound
		}
		return fmt.Errorf("failed to leave game %d: %w", gameID, err)
	}

	if s.hub != nil {
		s.hub.BroadcastToRoom(live.GameRoom(gameID), live.EventPlayerLeft, map[string]int{
			"game_id": gameID,
			"user_id": userID,
		})
	}
	return nil
}

func (s *gameService) CancelGame(ctx context.Context, gameID, hostID int) (*models.Game, error) {
	game, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to get game %d: %w", gameID, err)
	}

	if game.HostUserID != hostID {
		return nil, ErrHostRequired
	}
	if !game.Status.Open() {
		return nil, ErrGameNotOpen
	}

	if err := s.gameRepo.UpdateStatus(ctx, gameID, game.Status, models.GameStatusCancelled); err != nil {
		switch {
		case errors.Is(err, repositories.ErrGameNotFound):
			return nil, ErrGameNotFound
		case errors.Is(err, repositories.ErrGameNotOpen):
			return nil, ErrGameNotOpen
		}
		return nil, fmt.Errorf("failed to cancel game %d: %w", gameID, err)
	}

	game.Status = models.GameStatusCancelled

	if s.hub != nil {
		s.hub.BroadcastToRoom(live.GameRoom(gameID), live.EventGameCancelled, game)
	}
	return game, nil
}

// CompletePastGames is invoked by the background scheduler and closes open
// games whose kickoff time has passed.
func (s *gameService) CompletePastGames(ctx context.Context) error {
	completed, err := s.gameRepo.CompletePastGames(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("failed to complete past games: %w", err)
	}
	if completed > 0 {
		s.logger.Info("past games marked completed", slog.Int64("count", completed))
	}
	return nil
}
