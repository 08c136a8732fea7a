package services

import "errors"

// Sentinel errors shared between the service layer and the HTTP
// mapping. Guard and validation messages that reach end users keep the
// product's French wording.
var (
	ErrTournamentNotFound = errors.New("tournament not found")

	// Validation and business rules
	ErrValidationFailed        = errors.New("validation failed")
	ErrNameAndMaxTeamsRequired = errors.New("Nom et nombre maximum d'équipes requis")
	ErrNotEnoughTeams          = errors.New("Au moins 2 équipes doivent être inscrites pour démarrer le tournoi")
	ErrInvalidStatus           = errors.New("invalid tournament status provided")
	ErrInvalidOrganizerFilter  = errors.New("organizer_id filter must be a valid UUID")

	// Conflicts and reference failures
	ErrTournamentNameConflict = errors.New("tournament name already exists for this organizer")
	ErrInvalidOrganizerRef    = errors.New("organizer reference is invalid")
	ErrTournamentInUse        = errors.New("tournament is referenced by other records")

	// Logo upload
	ErrLogoInvalidContentType = errors.New("logo must be a jpeg, png or webp image")
	ErrLogoStorageUnavailable = errors.New("logo storage is not configured")
)
