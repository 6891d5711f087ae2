package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/Dosada05/matchday/models"
	"github.com/Dosada05/matchday/repositories"
	"github.com/Dosada05/matchday/storage"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	pickupRosterMin = 8
	pickupRosterMax = 15
	leagueRosterMin = 12
	leagueRosterMax = 15

	maxEvidenceSize = 5 << 20 // 5 MB
)

type RegistrationService interface {
	RegisterTeam(ctx context.Context, input RegisterTeamInput) (*models.Team, error)
	GetTeamByID(ctx context.Context, teamID int) (*models.Team, error)
	AttachPaymentEvidence(ctx context.Context, teamID, callerID int, file io.Reader, contentType string, size int64) (*models.Team, error)
	AttachPaymentReference(ctx context.Context, teamID, callerID int, formRef string) (*models.Team, error)
}

type RegisterTeamInput struct {
	Name          string             `json:"name" validate:"required"`
	Variant       models.TeamVariant `json:"variant" validate:"required,oneof=pickup league"`
	Players       []RosterRowInput   `json:"players" validate:"required,dive"`
	CaptainUserID int                `json:"-"`
}

// RosterRowInput mirrors one row of the registration form. Rows left fully
// blank are dropped; rows with only some fields filled are a validation error.
type RosterRowInput struct {
	Name            string `json:"name"`
	Phone           string `json:"phone"`
	InstagramHandle string `json:"instagram_handle"`
	IsCaptain       bool   `json:"is_captain"`
}

func (r RosterRowInput) blank() bool {
	return strings.TrimSpace(r.Name) == "" &&
		strings.TrimSpace(r.Phone) == "" &&
		strings.TrimSpace(r.InstagramHandle) == "" &&
		!r.IsCaptain
}

type registrationService struct {
	tx         repositories.Transactor
	teamRepo   repositories.TeamRepository
	playerRepo repositories.PlayerRepository
	uploader   storage.FileUploader
	validate   *validator.Validate
}

func NewRegistrationService(
	tx repositories.Transactor,
	teamRepo repositories.TeamRepository,
	playerRepo repositories.PlayerRepository,
	uploader storage.FileUploader,
) RegistrationService {
	return &registrationService{
		tx:         tx,
		teamRepo:   teamRepo,
		playerRepo: playerRepo,
		uploader:   uploader,
		validate:   validator.New(),
	}
}

func rosterBounds(variant models.TeamVariant) (int, int) {
	if variant == models.TeamVariantLeague {
		return leagueRosterMin, leagueRosterMax
	}
	return pickupRosterMin, pickupRosterMax
}

// RegisterTeam validates the submission and writes the team together with its
// whole roster in one transaction: either everything lands or nothing does.
func (s *registrationService) RegisterTeam(ctx context.Context, input RegisterTeamInput) (*models.Team, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	name := strings.TrimSpace(input.Name)
	if n := utf8.RuneCountInString(name); n < 3 || n > 50 {
		return nil, ErrTeamNameInvalid
	}

	roster, err := validateRoster(input.Players, input.Variant)
	if err != nil {
		return nil, err
	}

	team := &models.Team{
		Name:          name,
		Variant:       input.Variant,
		CaptainUserID: input.CaptainUserID,
		PaymentStatus: models.PaymentStatusPending,
		LeagueGroup:   models.LeagueGroupUnassigned,
	}

	err = s.tx.WithinTransaction(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.teamRepo.Create(ctx, exec, team); err != nil {
			return err
		}
		for _, p := range roster {
			p.TeamID = team.ID
		}
		return s.playerRepo.CreateBatch(ctx, exec, roster)
	})
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrTeamNameConflict):
			return nil, ErrTeamNameConflict
		case errors.Is(err, repositories.ErrTeamCaptainInvalid):
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to register team: %w", err)
	}

	players := make([]models.Player, 0, len(roster))
	for _, p := range roster {
		players = append(players, *p)
	}
	team.Players = players

	return team, nil
}

// validateRoster drops blank rows, rejects partially filled ones, enforces the
// variant's size bounds and requires exactly one captain flag.
func validateRoster(rows []RosterRowInput, variant models.TeamVariant) ([]*models.Player, error) {
	minSize, maxSize := rosterBounds(variant)

	roster := make([]*models.Player, 0, len(rows))
	captains := 0
	for _, row := range rows {
		if row.blank() {
			continue
		}

		name := strings.TrimSpace(row.Name)
		phone := strings.TrimSpace(row.Phone)
		if name == "" || phone == "" {
			return nil, ErrRosterRowIncomplete
		}

		player := &models.Player{
			Name:      name,
			Phone:     phone,
			IsCaptain: row.IsCaptain,
		}
		if handle := strings.TrimSpace(row.InstagramHandle); handle != "" {
			player.InstagramHandle = &handle
		}
		if row.IsCaptain {
			captains++
		}
		roster = append(roster, player)
	}

	if len(roster) < minSize || len(roster) > maxSize {
		return nil, fmt.Errorf("%w: got %d players, need between %d and %d",
			ErrRosterSizeInvalid, len(roster), minSize, maxSize)
	}
	if captains != 1 {
		return nil, ErrRosterCaptainInvalid
	}

	return roster, nil
}

func (s *registrationService) GetTeamByID(ctx context.Context, teamID int) (*models.Team, error) {
	team, err := s.teamRepo.GetByIDWithPlayers(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team %d: %w", teamID, err)
	}
	populateTeamEvidenceURL(team, s.uploader)
	return team, nil
}

// AttachPaymentEvidence stores the proof-of-payment image and records its key
// on the team. Size and content-type are rejected before any write happens.
func (s *registrationService) AttachPaymentEvidence(ctx context.Context, teamID, callerID int, file io.Reader, contentType string, size int64) (*models.Team, error) {
	if size > maxEvidenceSize {
		return nil, ErrEvidenceTooLarge
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, ErrEvidenceWrongType
	}

	team, err := s.loadPendingTeamAsCaptain(ctx, teamID, callerID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("payments/%d/%s", teamID, uuid.NewString())
	result, err := s.uploader.Upload(ctx, key, contentType, io.LimitReader(file, maxEvidenceSize))
	if err != nil {
		return nil, fmt.Errorf("failed to upload payment evidence: %w", err)
	}

	if err := s.teamRepo.UpdatePaymentEvidence(ctx, teamID, &result.Key, nil); err != nil {
		// The object is already in the bucket; compensate so a failed DB write
		// does not leave an orphaned upload.
		if delErr := s.uploader.Delete(ctx, result.Key); delErr != nil {
			return nil, fmt.Errorf("failed to record evidence (cleanup also failed: %v): %w", delErr, err)
		}
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to record payment evidence: %w", err)
	}

	team.PaymentEvidenceKey = &result.Key
	team.PaymentFormRef = nil
	populateTeamEvidenceURL(team, s.uploader)
	return team, nil
}

// AttachPaymentReference is the form-submission variant of evidence capture.
func (s *registrationService) AttachPaymentReference(ctx context.Context, teamID, callerID int, formRef string) (*models.Team, error) {
	formRef = strings.TrimSpace(formRef)
	if formRef == "" {
		return nil, ErrEvidenceRefRequired
	}

	team, err := s.loadPendingTeamAsCaptain(ctx, teamID, callerID)
	if err != nil {
		return nil, err
	}

	if err := s.teamRepo.UpdatePaymentEvidence(ctx, teamID, nil, &formRef); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to record payment reference: %w", err)
	}

	team.PaymentEvidenceKey = nil
	team.PaymentEvidenceURL = nil
	team.PaymentFormRef = &formRef
	return team, nil
}

func (s *registrationService) loadPendingTeamAsCaptain(ctx context.Context, teamID, callerID int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team %d: %w", teamID, err)
	}
	if team.CaptainUserID != callerID {
		return nil, ErrCaptainRequired
	}
	if team.PaymentStatus != models.PaymentStatusPending {
		return nil, ErrTeamNotPending
	}
	return team, nil
}
