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
	ErrPlayerTeamInvalid = errors.New("player team conflict or invalid")
)

type PlayerRepository interface {
	CreateBatch(ctx context.Context, exec SQLExecutor, players []*models.Player) error
	ListByTeamID(ctx context.Context, teamID int) ([]models.Player, error)
	DeleteByTeamID(ctx context.Context, exec SQLExecutor, teamID int) error
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

func (r *postgresPlayerRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

// CreateBatch inserts the whole roster. It is expected to run inside the same
// transaction as the team insert, so a failed roster never leaves an orphaned
// team row behind.
func (r *postgresPlayerRepository) CreateBatch(ctx context.Context, exec SQLExecutor, players []*models.Player) error {
	if len(players) == 0 {
		return nil
	}
	executor := r.getExecutor(exec)

	query := `
		INSERT INTO players (team_id, name, phone, instagram_handle, is_captain)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	for _, p := range players {
		err := executor.QueryRowContext(ctx, query,
			p.TeamID,
			p.Name,
			p.Phone,
			p.InstagramHandle,
			p.IsCaptain,
		).Scan(&p.ID, &p.CreatedAt)

		if err != nil {
			if pqErr, ok := err.(*pq.Error); ok {
				if pqErr.Code == "23503" && pqErr.Constraint == "players_team_id_fkey" {
					return ErrPlayerTeamInvalid
				}
			}
			return fmt.Errorf("failed to create player %q: %w", p.Name, err)
		}
	}
	return nil
}

func (r *postgresPlayerRepository) ListByTeamID(ctx context.Context, teamID int) ([]models.Player, error) {
	query := `
		SELECT id, team_id, name, phone, instagram_handle, is_captain, created_at
		FROM players
		WHERE team_id = $1
		ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()

	players := make([]models.Player, 0)
	for rows.Next() {
		var p models.Player
		if err := rows.Scan(&p.ID, &p.TeamID, &p.Name, &p.Phone, &p.InstagramHandle, &p.IsCaptain, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan player row: %w", err)
		}
		players = append(players, p)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return players, nil
}

func (r *postgresPlayerRepository) DeleteByTeamID(ctx context.Context, exec SQLExecutor, teamID int) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx, `DELETE FROM players WHERE team_id = $1`, teamID)
	if err != nil {
		return fmt.Errorf("failed to delete players for team %d: %w", teamID, err)
	}
	return nil
}
