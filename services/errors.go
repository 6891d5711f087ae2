package services

import "errors"

// Shared sentinel errors used across services and in the HTTP mapping.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Validation and business rules
	ErrValidationFailed     = errors.New("validation failed")
	ErrPasswordTooShort     = errors.New("password is too short")
	ErrTeamNameInvalid      = errors.New("team name must be between 3 and 50 characters")
	ErrRosterSizeInvalid    = errors.New("roster size is outside the allowed range")
	ErrRosterRowIncomplete  = errors.New("every listed player needs both a name and a phone number")
	ErrRosterCaptainInvalid = errors.New("exactly one player must be marked as captain")
	ErrEvidenceTooLarge     = errors.New("payment evidence must not exceed 5 MB")
	ErrEvidenceWrongType    = errors.New("payment evidence must be an image")
	ErrEvidenceRefRequired  = errors.New("payment form reference is required")
	ErrPaymentStatusFinal   = errors.New("payment status is already final")
	ErrTeamNotPending       = errors.New("team is not awaiting payment review")
	ErrTeamNotApproved      = errors.New("team is not approved")
	ErrLeagueGroupInvalid   = errors.New("invalid league group")
	ErrGameDateInPast       = errors.New("game date must be in the future")
	ErrGameCapacityInvalid  = errors.New("game needs at least two player slots")
	ErrGameNotOpen          = errors.New("game is not open for joining")
	ErrGameFull             = errors.New("game is full")
	ErrMatchResultInvalid   = errors.New("match result counts must be non-negative and consistent")

	// Conflicts
	ErrUserEmailConflict = errors.New("email address is already in use")
	ErrTeamNameConflict  = errors.New("team name is already taken")
	ErrAlreadyJoined     = errors.New("user has already joined this game")

	// Authentication and authorization
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAdminRequired      = errors.New("administrator privileges required")
	ErrCaptainRequired    = errors.New("only the team captain can perform this action")
	ErrHostRequired       = errors.New("only the game host can perform this action")
	ErrHostCannotJoin     = errors.New("the host cannot join their own game")

	// Entity-specific not-found errors, kept separate from authorization
	// failures so "forbidden" is never conflated with "doesn't exist"
	ErrUserNotFound        = errors.New("user not found")
	ErrTeamNotFound        = errors.New("team not found")
	ErrGameNotFound        = errors.New("game not found")
	ErrParticipantNotFound = errors.New("participant not found")
)
