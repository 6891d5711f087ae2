package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Dosada05/matchday/models"
	"github.com/lib/pq"
)

var (
	ErrGameNotFound        = errors.New("game not found")
	ErrGameHostInvalid     = errors.New("game host conflict or invalid")
	ErrGameCapacityReached = errors.New("game capacity reached")
	ErrGameNotOpen         = errors.New("game is not open")
)

type GameRepository interface {
	Create(ctx context.Context, game *models.Game) error
	GetByID(ctx context.Context, id int) (*models.Game, error)
	List(ctx context.Context, filter models.GameFilter) ([]models.Game, error)
	IncrementCurrentPlayers(ctx context.Context, exec SQLExecutor, gameID int) error
	DecrementCurrentPlayers(ctx context.Context, exec SQLExecutor, gameID int) error
	UpdateStatus(ctx context.Context, gameID int, from, to models.GameStatus) error
	CompletePastGames(ctx context.Context, cutoff time.Time) (int64, error)
}

type postgresGameRepository struct {
	db *sql.DB
}

func NewPostgresGameRepository(db *sql.DB) GameRepository {
	return &postgresGameRepository{db: db}
}

func (r *postgresGameRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresGameRepository) Create(ctx context.Context, game *models.Game) error {
	query := `
		INSERT INTO games (host_user_id, title, location, date, max_players, current_players, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		game.HostUserID,
		game.Title,
		game.Location,
		game.Date,
		game.MaxPlayers,
		game.CurrentPlayers,
		game.Status,
	).Scan(&game.ID, &game.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23503" && pqErr.Constraint == "games_host_user_id_fkey" {
				return ErrGameHostInvalid
			}
		}
		return fmt.Errorf("failed to create game: %w", err)
	}
	return nil
}

func (r *postgresGameRepository) scanGame(rowScanner interface{ Scan(...interface{}) error }) (*models.Game, error) {
	var g models.Game
	err := rowScanner.Scan(
		&g.ID, &g.HostUserID, &g.Title, &g.Location, &g.Date,
		&g.MaxPlayers, &g.CurrentPlayers, &g.Status, &g.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to scan game: %w", err)
	}
	return &g, nil
}

func (r *postgresGameRepository) GetByID(ctx context.Context, id int) (*models.Game, error) {
	query := `
		SELECT id, host_user_id, title, location, date, max_players, current_players, status, created_at
		FROM games
		WHERE id = $1`
	return r.scanGame(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresGameRepository) List(ctx context.Context, filter models.GameFilter) ([]models.Game, error) {
	var queryBuilder strings.Builder
	args := make([]interface{}, 0, 4)
	argCounter := 1

	queryBuilder.WriteString(`
		SELECT id, host_user_id, title, location, date, max_players, current_players, status, created_at
		FROM games`)

	conditions := make([]string, 0, 2)
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argCounter))
		args = append(args, *filter.Status)
		argCounter++
	}
	if filter.HostID != nil {
		conditions = append(conditions, fmt.Sprintf("host_user_id = $%d", argCounter))
		args = append(args, *filter.HostID)
		argCounter++
	}
	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}

	queryBuilder.WriteString(" ORDER BY date ASC")
	if filter.Limit > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCounter, argCounter+1))
		offset := 0
		if filter.Page > 1 {
			offset = (filter.Page - 1) * filter.Limit
		}
		args = append(args, filter.Limit, offset)
	}

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	defer rows.Close()

	games := make([]models.Game, 0)
	for rows.Next() {
		var g models.Game
		err := rows.Scan(
			&g.ID, &g.HostUserID, &g.Title, &g.Location, &g.Date,
			&g.MaxPlayers, &g.CurrentPlayers, &g.Status, &g.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game row: %w", err)
		}
		games = append(games, g)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return games, nil
}

// IncrementCurrentPlayers is a conditional increment: the capacity check and
// the counter bump happen in a single statement, so two racing joins can never
// push current_players past max_players.
func (r *postgresGameRepository) IncrementCurrentPlayers(ctx context.Context, exec SQLExecutor, gameID int) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE games
		SET current_players = current_players + 1
		WHERE id = $1 AND current_players < max_players`

	result, err := executor.ExecContext(ctx, query, gameID)
	if err != nil {
		return fmt.Errorf("failed to increment current players: %w", err)
	}

	rowsAffected, err := checkRowsAffected(result)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrGameCapacityReached
	}
	return nil
}

func (r *postgresGameRepository) DecrementCurrentPlayers(ctx context.Context, exec SQLExecutor, gameID int) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE games
		SET current_players = current_players - 1
		WHERE id = $1 AND current_players > 0`

	result, err := executor.ExecContext(ctx, query, gameID)
	if err != nil {
		return fmt.Errorf("failed to decrement current players: %w", err)
	}

	rowsAffected, err := checkRowsAffected(result)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrGameNotFound
	}
	return nil
}

func (r *postgresGameRepository) UpdateStatus(ctx context.Context, gameID int, from, to models.GameStatus) error {
	query := `UPDATE games SET status = $1 WHERE id = $2 AND status = $3`
	result, err := r.db.ExecContext(ctx, query, to, gameID, from)
	if err != nil {
		return fmt.Errorf("failed to update game status: %w", err)
	}

	rowsAffected, err := checkRowsAffected(result)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		var exists bool
		if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM games WHERE id = $1)`, gameID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check game existence: %w", err)
		}
		if !exists {
			return ErrGameNotFound
		}
		return ErrGameNotOpen
	}
	return nil
}

// CompletePastGames flips open games whose date has passed to completed.
// Called by the background scheduler.
func (r *postgresGameRepository) CompletePastGames(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
		UPDATE games
		SET status = $1
		WHERE status IN ($2, $3) AND date < $4`

	result, err := r.db.ExecContext(ctx, query,
		models.GameStatusCompleted,
		models.GameStatusUpcoming,
		models.GameStatusScheduled,
		cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to complete past games: %w", err)
	}
	return checkRowsAffected(result)
}
