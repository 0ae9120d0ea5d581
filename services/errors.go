package services

import "errors"

// Shared service-level errors, mapped to HTTP statuses in the handlers.
var (
	ErrNotFound         = errors.New("requested resource not found")
	ErrValidationFailed = errors.New("validation failed")

	ErrMemberNotFound    = errors.New("member not found")
	ErrMemberNotInRoster = errors.New("selected member is not in the roster")

	ErrMatchNotFound         = errors.New("match not found")
	ErrMatchPlayerRequired   = errors.New("match requires at least the first player")
	ErrMatchPlayersIdentical = errors.New("match players must be distinct")

	ErrInvalidTimeWindow = errors.New("invalid time window")

	ErrTournamentNotFound           = errors.New("tournament not found")
	ErrTournamentNameRequired       = errors.New("tournament name is required")
	ErrTournamentNameConflict       = errors.New("tournament name already exists")
	ErrTournamentTooFewParticipants = errors.New("tournament requires at least 4 participants")
	ErrTournamentDuplicateSelection = errors.New("tournament selection contains duplicate members")
	ErrAvatarUnsupportedContentType = errors.New("avatar content type not supported")
)
