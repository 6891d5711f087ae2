package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Dosada05/matchday/models"
	"github.com/lib/pq"
)

var (
	ErrTeamNotFound          = errors.New("team not found")
	ErrTeamNameConflict      = errors.New("team name conflict")
	ErrTeamCaptainInvalid    = errors.New("team captain conflict or invalid")
	ErrTeamStatusNotPending  = errors.New("team payment status is not pending")
	ErrTeamStatusNotApproved = errors.New("team payment status is not approved")
)

type TeamRepository interface {
	Create(ctx context.Context, exec SQLExecutor, team *models.Team) error
	GetByID(ctx context.Context, id int) (*models.Team, error)
	GetByIDWithPlayers(ctx context.Context, id int) (*models.Team, error)
	List(ctx context.Context, filter models.TeamFilter) ([]models.Team, int, error)
	ListApprovedOrdered(ctx context.Context, group *models.LeagueGroup) ([]models.Team, error)
	UpdatePaymentEvidence(ctx context.Context, teamID int, evidenceKey, formRef *string) error
	TransitionPaymentStatus(ctx context.Context, teamID int, to models.PaymentStatus, group *models.LeagueGroup) error
	AssignGroup(ctx context.Context, teamID int, group models.LeagueGroup) error
	UpdateMatchStats(ctx context.Context, team *models.Team) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresTeamRepository) Create(ctx context.Context, exec SQLExecutor, team *models.Team) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO teams (name, variant, captain_user_id, payment_status, league_group)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		team.Name,
		team.Variant,
		team.CaptainUserID,
		team.PaymentStatus,
		team.LeagueGroup,
	).Scan(&team.ID, &team.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505": // unique_violation
				if pqErr.Constraint == "teams_name_key" {
					return ErrTeamNameConflict
				}
			case "23503": // foreign_key_violation
				if pqErr.Constraint == "teams_captain_user_id_fkey" {
					return ErrTeamCaptainInvalid
				}
			}
		}
		return fmt.Errorf("failed to create team: %w", err)
	}
	return nil
}

const teamColumns = `
	id, name, variant, captain_user_id, payment_status, league_group,
	payment_evidence_key, payment_form_ref,
	played, wins, draws, losses, goals_for, goals_against, goal_difference, points,
	created_at`

func (r *postgresTeamRepository) scanTeam(rowScanner interface{ Scan(...interface{}) error }) (*models.Team, error) {
	var t models.Team
	err := rowScanner.Scan(
		&t.ID, &t.Name, &t.Variant, &t.CaptainUserID, &t.PaymentStatus, &t.LeagueGroup,
		&t.PaymentEvidenceKey, &t.PaymentFormRef,
		&t.Played, &t.Wins, &t.Draws, &t.Losses, &t.GoalsFor, &t.GoalsAgainst, &t.GoalDifference, &t.Points,
		&t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to scan team: %w", err)
	}
	return &t, nil
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = $1`
	return r.scanTeam(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresTeamRepository) GetByIDWithPlayers(ctx context.Context, id int) (*models.Team, error) {
	team, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT id, team_id, name, phone, instagram_handle, is_captain, created_at
		FROM players
		WHERE team_id = $1
		ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list players for team %d: %w", id, err)
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

	team.Players = players
	return team, nil
}

func (r *postgresTeamRepository) List(ctx context.Context, filter models.TeamFilter) ([]models.Team, int, error) {
	var queryBuilder strings.Builder
	args := make([]interface{}, 0, 4)
	argCounter := 1

	queryBuilder.WriteString(`SELECT ` + teamColumns + `, COUNT(*) OVER() AS total_count FROM teams`)

	conditions := make([]string, 0, 2)
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("payment_status = $%d", argCounter))
		args = append(args, *filter.Status)
		argCounter++
	}
	if filter.Group != nil {
		conditions = append(conditions, fmt.Sprintf("league_group = $%d", argCounter))
		args = append(args, *filter.Group)
		argCounter++
	}
	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}

	queryBuilder.WriteString(" ORDER BY created_at DESC")
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
		return nil, 0, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	teams := make([]models.Team, 0)
	total := 0
	for rows.Next() {
		var t models.Team
		err := rows.Scan(
			&t.ID, &t.Name, &t.Variant, &t.CaptainUserID, &t.PaymentStatus, &t.LeagueGroup,
			&t.PaymentEvidenceKey, &t.PaymentFormRef,
			&t.Played, &t.Wins, &t.Draws, &t.Losses, &t.GoalsFor, &t.GoalsAgainst, &t.GoalDifference, &t.Points,
			&t.CreatedAt,
			&total,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan team row: %w", err)
		}
		teams = append(teams, t)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, err
	}
	return teams, total, nil
}

// ListApprovedOrdered is the standings projection. Ordering is delegated to
// the store: points, then goal difference, then goals scored, all descending.
func (r *postgresTeamRepository) ListApprovedOrdered(ctx context.Context, group *models.LeagueGroup) ([]models.Team, error) {
	var queryBuilder strings.Builder
	args := []interface{}{models.PaymentStatusApproved}

	queryBuilder.WriteString(`SELECT ` + teamColumns + ` FROM teams WHERE payment_status = $1`)
	if group != nil {
		queryBuilder.WriteString(" AND league_group = $2")
		args = append(args, *group)
	}
	queryBuilder.WriteString(" ORDER BY points DESC, goal_difference DESC, goals_for DESC, name ASC")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved teams: %w", err)
	}
	defer rows.Close()

	teams := make([]models.Team, 0)
	for rows.Next() {
		var t models.Team
		err := rows.Scan(
			&t.ID, &t.Name, &t.Variant, &t.CaptainUserID, &t.PaymentStatus, &t.LeagueGroup,
			&t.PaymentEvidenceKey, &t.PaymentFormRef,
			&t.Played, &t.Wins, &t.Draws, &t.Losses, &t.GoalsFor, &t.GoalsAgainst, &t.GoalDifference, &t.Points,
			&t.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team row: %w", err)
		}
		teams = append(teams, t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *postgresTeamRepository) UpdatePaymentEvidence(ctx context.Context, teamID int, evidenceKey, formRef *string) error {
	query := `UPDATE teams SET payment_evidence_key = $1, payment_form_ref = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, evidenceKey, formRef, teamID)
	if err != nil {
		return fmt.Errorf("failed to update payment evidence: %w", err)
	}
	rowsAffected, err := checkRowsAffected(result)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrTeamNotFound
	}
	return nil
}

// TransitionPaymentStatus moves a team out of pending. The WHERE clause makes
// the transition conditional, so approved and rejected stay terminal even
// under concurrent admin actions.
func (r *postgresTeamRepository) TransitionPaymentStatus(ctx context.Context, teamID int, to models.PaymentStatus, group *models.LeagueGroup) error {
	var result sql.Result
	var err error
	if group != nil {
		query := `UPDATE teams SET payment_status = $1, league_group = $2 WHERE id = $3 AND payment_status = $4`
		result, err = r.db.ExecContext(ctx, query, to, *group, teamID, models.PaymentStatusPending)
	} else {
		query := `UPDATE teams SET payment_status = $1 WHERE id = $2 AND payment_status = $3`
		result, err = r.db.ExecContext(ctx, query, to, teamID, models.PaymentStatusPending)
	}
	if err != nil {
		return fmt.Errorf("failed to transition payment status: %w", err)
	}

	rowsAffected, err := checkRowsAffected(result)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return r.explainNoRows(ctx, teamID, ErrTeamStatusNotPending)
	}
	return nil
}

func (r *postgresTeamRepository) AssignGroup(ctx context.Context, teamID int, group models.LeagueGroup) error {
	query := `UPDATE teams SET league_group = $1 WHERE id = $2 AND payment_status = $3`
	result, err := r.db.ExecContext(ctx, query, group, teamID, models.PaymentStatusApproved)
	if err != nil {
		return fmt.Errorf("failed to assign league group: %w", err)
	}

	rowsAffected, err := checkRowsAffected(result)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return r.explainNoRows(ctx, teamID, ErrTeamStatusNotApproved)
	}
	return nil
}

func (r *postgresTeamRepository) UpdateMatchStats(ctx context.Context, team *models.Team) error {
	query := `
		UPDATE teams SET
			played = $1, wins = $2, draws = $3, losses = $4,
			goals_for = $5, goals_against = $6, goal_difference = $7, points = $8
		WHERE id = $9`

	result, err := r.db.ExecContext(ctx, query,
		team.Played, team.Wins, team.Draws, team.Losses,
		team.GoalsFor, team.GoalsAgainst, team.GoalDifference, team.Points,
		team.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update match stats: %w", err)
	}

	rowsAffected, err := checkRowsAffected(result)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrTeamNotFound
	}
	return nil
}

func (r *postgresTeamRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete team: %w", err)
	}

	rowsAffected, err := checkRowsAffected(result)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrTeamNotFound
	}
	return nil
}

// explainNoRows distinguishes "team does not exist" from "team exists but is
// in the wrong state" after a conditional update touched zero rows.
func (r *postgresTeamRepository) explainNoRows(ctx context.Context, teamID int, stateErr error) error {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM teams WHERE id = $1)`, teamID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check team existence: %w", err)
	}
	if !exists {
		return ErrTeamNotFound
	}
	return stateErr
}
