package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/matchday/models"
	"github.com/lib/pq"
)

var (
	ErrParticipantNotFound    = errors.New("participant not found")
	ErrParticipantConflict    = errors.New("participant conflict: user already joined this game")
	ErrParticipantUserInvalid = errors.New("participant user conflict or invalid")
	ErrParticipantGameInvalid = errors.New("participant game conflict or invalid")
)

type GameParticipantRepository interface {
	Create(ctx context.Context, exec SQLExecutor, p *models.GameParticipant) error
	FindByGameAndUser(ctx context.Context, gameID, userID int) (*models.GameParticipant, error)
	ListByGame(ctx context.Context, gameID int) ([]models.GameParticipant, error)
	DeleteByGameAndUser(ctx context.Context, exec SQLExecutor, gameID, userID int) error
}

type postgresGameParticipantRepository struct {
	db *sql.DB
}

func NewPostgresGameParticipantRepository(db *sql.DB) GameParticipantRepository {
	return &postgresGameParticipantRepository{db: db}
}

func (r *postgresGameParticipantRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresGameParticipantRepository) Create(ctx context.Context, exec SQLExecutor, p *models.GameParticipant) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO game_participants (game_id, user_id, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		p.GameID,
		p.UserID,
		p.Status,
	).Scan(&p.ID, &p.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505": // unique_violation
				if pqErr.Constraint == "game_participants_game_id_user_id_key" {
					return ErrParticipantConflict
				}
			case "23503": // foreign_key_violation
				switch pqErr.Constraint {
				case "game_participants_user_id_fkey":
					return ErrParticipantUserInvalid
				case "game_participants_game_id_fkey":
					return ErrParticipantGameInvalid
				}
			}
		}
		return fmt.Errorf("failed to create game participant: %w", err)
	}
	return nil
}

func (r *postgresGameParticipantRepository) FindByGameAndUser(ctx context.Context, gameID, userID int) (*models.GameParticipant, error) {
	query := `
		SELECT id, game_id, user_id, status, created_at
		FROM game_participants
		WHERE game_id = $1 AND user_id = $2`

	p := &models.GameParticipant{}
	err := r.db.QueryRowContext(ctx, query, gameID, userID).Scan(
		&p.ID, &p.GameID, &p.UserID, &p.Status, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("failed to find game participant: %w", err)
	}
	return p, nil
}

func (r *postgresGameParticipantRepository) ListByGame(ctx context.Context, gameID int) ([]models.GameParticipant, error) {
	query := `
		SELECT
			p.id, p.game_id, p.user_id, p.status, p.created_at,
			u.id, u.first_name, u.last_name, u.phone, u.email, u.password_hash, u.role, u.created_at
		FROM game_participants p
		JOIN users u ON p.user_id = u.id
		WHERE p.game_id = $1
		ORDER BY p.created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to list game participants: %w", err)
	}
	defer rows.Close()

	participants := make([]models.GameParticipant, 0)
	for rows.Next() {
		var p models.GameParticipant
		var u models.User
		err := rows.Scan(
			&p.ID, &p.GameID, &p.UserID, &p.Status, &p.CreatedAt,
			&u.ID, &u.FirstName, &u.LastName, &u.Phone, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan participant row: %w", err)
		}
		u.PasswordHash = ""
		p.User = &u
		participants = append(participants, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating participant rows: %w", err)
	}
	return participants, nil
}

func (r *postgresGameParticipantRepository) DeleteByGameAndUser(ctx context.Context, exec SQLExecutor, gameID, userID int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `DELETE FROM game_participants WHERE game_id = $1 AND user_id = $2`, gameID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete game participant: %w", err)
	}

	rowsAffected, err := checkRowsAffected(result)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrParticipantNotFound
	}
	return nil
}
